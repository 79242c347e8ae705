package capture

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/capability"
	"github.com/pot-code/interview-prep/internal/infrastructure/logging"
	"github.com/pot-code/interview-prep/internal/infrastructure/uuid"
	"github.com/pot-code/interview-prep/internal/interview"
	"go.elastic.co/apm"
	"go.uber.org/zap"
)

type stopper interface {
	Stop() bool
}

// Options flow tuning
type Options struct {
	ClipLength time.Duration
	MaxClip    int // bytes, zero means unlimited
}

// Flow video interview: camera capture on top of the shared interview runner.
// Without a camera the flow degrades to a text interview.
type Flow struct {
	runner    *interview.Runner
	device    Device
	ids       uuid.Generator
	opts      Options
	now       func() time.Time
	afterFunc func(time.Duration, func()) stopper

	mu         sync.Mutex
	stream     Stream
	status     capability.Status
	recording  bool
	recStarted time.Time
	recTimer   stopper
	clips      map[int]*Clip
}

// View observable flow state
type View struct {
	*interview.View
	Camera     capability.Status `json:"camera"`
	Degraded   bool              `json:"degraded"`
	StreamID   string            `json:"stream_id,omitempty"`
	Recording  bool              `json:"recording"`
	ClipLength float64           `json:"clip_length_seconds"`
	Clips      []*Clip           `json:"clips"`
}

// NewFlow create a video interview flow
func NewFlow(runner *interview.Runner, device Device, ids uuid.Generator, opts Options) *Flow {
	if opts.ClipLength <= 0 {
		opts.ClipLength = DefaultClipLength
	}
	return &Flow{
		runner: runner,
		device: device,
		ids:    ids,
		opts:   opts,
		now:    time.Now,
		afterFunc: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
		clips: make(map[int]*Clip),
	}
}

// Start the interview and acquire the camera once for the whole flow
func (f *Flow) Start(ctx context.Context, setup interview.Setup) (*apiclient.Interview, error) {
	span, ctx := apm.StartSpan(ctx, "VideoFlow.Start", "service")
	defer span.End()

	res, err := f.runner.Start(ctx, setup)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.clips = make(map[int]*Clip)
	f.acquire(ctx)
	return res, nil
}

// acquire must be called with mu held
func (f *Flow) acquire(ctx context.Context) {
	if f.stream != nil {
		return
	}
	f.status = f.device.Probe(ctx)
	if f.status != capability.Available {
		logging.ExtractLoggerFromContext(ctx).Info("camera not available, continuing in text mode",
			zap.String("capture.camera", f.status.String()))
		return
	}
	stream, err := f.device.Open(ctx)
	if err != nil {
		f.status = capability.FromError(err)
		logging.ExtractLoggerFromContext(ctx).Info("failed to open camera, continuing in text mode",
			zap.String("capture.camera", f.status.String()), zap.Error(err))
		return
	}
	f.stream = stream
}

// Retry acquire the camera again, e.g. after the user granted permission
func (f *Flow) Retry(ctx context.Context) capability.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acquire(ctx)
	return f.status
}

// StartRecording record the answer to the current question, replacing an earlier take
func (f *Flow) StartRecording() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.runner.View().Stage != interview.StageInterview {
		return interview.ErrWrongStage
	}
	if f.stream == nil {
		return ErrDegraded
	}
	if f.recording {
		return ErrRecording
	}
	f.recording = true
	f.recStarted = f.now()
	f.recTimer = f.afterFunc(f.opts.ClipLength, f.autoStop)
	return nil
}

func (f *Flow) autoStop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recording {
		f.recording = false
		f.recTimer = nil
	}
}

// StopRecording stop the active recording
func (f *Flow) StopRecording() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.recording {
		return ErrNotRecording
	}
	f.stopRecording()
	return nil
}

// stopRecording must be called with mu held
func (f *Flow) stopRecording() {
	f.recording = false
	if f.recTimer != nil {
		f.recTimer.Stop()
		f.recTimer = nil
	}
}

// AttachClip store the recorded blob for the current question
func (f *Flow) AttachClip(contentType string, data []byte) (*Clip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	view := f.runner.View()
	if view.Stage != interview.StageInterview {
		return nil, interview.ErrWrongStage
	}
	if f.stream == nil {
		return nil, ErrDegraded
	}
	if f.recording {
		return nil, ErrRecording
	}
	if f.opts.MaxClip > 0 && len(data) > f.opts.MaxClip {
		return nil, ErrClipTooLarge
	}
	id, err := f.ids.Generate()
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "video/webm"
	}
	duration := f.now().Sub(f.recStarted)
	if duration > f.opts.ClipLength {
		duration = f.opts.ClipLength
	}
	clip := &Clip{
		ID:          id,
		Question:    view.Current,
		ContentType: contentType,
		Size:        len(data),
		Duration:    duration,
		RecordedAt:  f.now(),
		Data:        data,
	}
	f.clips[view.Current] = clip
	return clip, nil
}

// Clip recorded clip by id
func (f *Flow) Clip(id string) (*Clip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clips {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrClipNotFound
}

// Next move on from the current question. With a camera the answer is the clip and the
// written note is optional; in text mode the note is the answer.
func (f *Flow) Next(ctx context.Context, note string) (*interview.Outcome, error) {
	span, ctx := apm.StartSpan(ctx, "VideoFlow.Next", "service")
	defer span.End()

	f.mu.Lock()
	if f.recording {
		f.stopRecording()
	}
	degraded := f.stream == nil
	f.mu.Unlock()

	var (
		out *interview.Outcome
		err error
	)
	switch {
	case strings.TrimSpace(note) != "":
		out, err = f.runner.Respond(ctx, note)
	case degraded:
		return nil, ErrAnswerRequired
	default:
		out, err = f.runner.Advance(ctx)
	}
	if out != nil && out.Done {
		f.release(ctx)
	}
	return out, err
}

// Complete retry a failed completion
func (f *Flow) Complete(ctx context.Context) (*apiclient.InterviewResult, error) {
	res, err := f.runner.Complete(ctx)
	if err == nil {
		f.release(ctx)
	}
	return res, err
}

// Certificate see interview.Runner.Certificate
func (f *Flow) Certificate(ctx context.Context) (*apiclient.Certificate, error) {
	return f.runner.Certificate(ctx)
}

// Teardown release the camera and drop recordings, the flow returns to select
func (f *Flow) Teardown(ctx context.Context) {
	f.release(ctx)
	f.mu.Lock()
	f.clips = make(map[int]*Clip)
	f.mu.Unlock()
	f.runner.Reset()
}

func (f *Flow) release(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopRecording()
	if f.stream == nil {
		return
	}
	if err := f.stream.Close(); err != nil {
		logging.ExtractLoggerFromContext(ctx).Warn("failed to release camera stream", zap.Error(err))
	}
	f.stream = nil
}

// View snapshot of the flow
func (f *Flow) View() *View {
	iv := f.runner.View()

	f.mu.Lock()
	defer f.mu.Unlock()
	view := &View{
		View:       iv,
		Camera:     f.status,
		Degraded:   iv.Stage == interview.StageInterview && f.stream == nil,
		Recording:  f.recording,
		ClipLength: f.opts.ClipLength.Seconds(),
		Clips:      make([]*Clip, 0, len(f.clips)),
	}
	if f.stream != nil {
		view.StreamID = f.stream.ID()
	}
	for i := 0; i < iv.Total; i++ {
		if c, ok := f.clips[i]; ok {
			view.Clips = append(view.Clips, c)
		}
	}
	return view
}
