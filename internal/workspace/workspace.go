package workspace

import (
	"context"
	"sync"

	"github.com/pot-code/interview-prep/internal/aptitude"
	"github.com/pot-code/interview-prep/internal/capture"
	"github.com/pot-code/interview-prep/internal/course"
	"github.com/pot-code/interview-prep/internal/infrastructure/markdown"
	"github.com/pot-code/interview-prep/internal/infrastructure/uuid"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/interview"
	"github.com/pot-code/interview-prep/internal/practice"
	"github.com/pot-code/interview-prep/internal/voice"
)

// API backend endpoints used by the wizard flows
type API interface {
	aptitude.API
	interview.API
	course.API
	practice.API
}

// Deps shared collaborators of every workspace
type Deps struct {
	API       API
	Validator validate.Validator
	Markdown  markdown.Renderer
	IDs       uuid.Generator
	Capture   capture.Options
}

// Workspace wizard state of one browser session, flows are created on first use
type Workspace struct {
	deps   *Deps
	camera *capture.RemoteDevice

	mu        sync.Mutex
	aptitude  *aptitude.Runner
	interview *interview.Runner
	video     *capture.Flow
	voice     *voice.Session
	course    *course.Viewer
	exercises map[practice.Kind]*practice.Exercise
	deck      *practice.Deck
}

func newWorkspace(deps *Deps) *Workspace {
	return &Workspace{
		deps:      deps,
		camera:    capture.NewRemoteDevice(),
		exercises: make(map[practice.Kind]*practice.Exercise),
	}
}

// Camera camera of this browser, capability is reported by the client
func (w *Workspace) Camera() *capture.RemoteDevice {
	return w.camera
}

// Aptitude aptitude test wizard
func (w *Workspace) Aptitude() *aptitude.Runner {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.aptitude == nil {
		w.aptitude = aptitude.NewRunner(w.deps.API, w.deps.Validator)
	}
	return w.aptitude
}

// Interview text interview wizard
func (w *Workspace) Interview() *interview.Runner {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.interview == nil {
		w.interview = interview.NewRunner(w.deps.API, w.deps.Validator, interview.ModeText)
	}
	return w.interview
}

// Video video interview flow
func (w *Workspace) Video() *capture.Flow {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.video == nil {
		runner := interview.NewRunner(w.deps.API, w.deps.Validator, interview.ModeVideo)
		w.video = capture.NewFlow(runner, w.camera, w.deps.IDs, w.deps.Capture)
	}
	return w.video
}

// Voice voice interview session
func (w *Workspace) Voice() *voice.Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.voice == nil {
		w.voice = voice.NewSession(w.deps.API, w.deps.Validator)
	}
	return w.voice
}

// Course course viewer, one open course at a time
func (w *Workspace) Course() *course.Viewer {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.course == nil {
		w.course = course.NewViewer(w.deps.API, w.deps.Markdown)
	}
	return w.course
}

// Exercise practice exercise of kind, flashcards have their own Deck
func (w *Workspace) Exercise(kind practice.Kind) (*practice.Exercise, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if e, ok := w.exercises[kind]; ok {
		return e, nil
	}
	e, err := practice.NewExercise(w.deps.API, w.deps.Validator, kind)
	if err != nil {
		return nil, err
	}
	w.exercises[kind] = e
	return e, nil
}

// Deck flashcard deck
func (w *Workspace) Deck() *practice.Deck {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.deck == nil {
		w.deck = practice.NewDeck(w.deps.API, w.deps.Validator)
	}
	return w.deck
}

// close release the camera and abandon pending speech
func (w *Workspace) close(ctx context.Context) {
	w.mu.Lock()
	video, vs := w.video, w.voice
	w.mu.Unlock()
	if video != nil {
		video.Teardown(ctx)
	}
	if vs != nil {
		vs.Close(ctx)
		vs.Reset(ctx)
	}
}

// Registry workspaces by browser session id
type Registry struct {
	deps *Deps

	mu    sync.Mutex
	items map[string]*Workspace
}

// NewRegistry create an empty registry
func NewRegistry(deps *Deps) *Registry {
	return &Registry{deps: deps, items: make(map[string]*Workspace)}
}

// Get workspace of sid, created when missing
func (r *Registry) Get(sid string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.items[sid]
	if !ok {
		w = newWorkspace(r.deps)
		r.items[sid] = w
	}
	return w
}

// Drop discard the workspace of sid
func (r *Registry) Drop(ctx context.Context, sid string) {
	r.mu.Lock()
	w, ok := r.items[sid]
	delete(r.items, sid)
	r.mu.Unlock()
	if ok {
		w.close(ctx)
	}
}

// Len number of live workspaces
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
