package course

import (
	"context"
	"sync"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/logging"
	"github.com/pot-code/interview-prep/internal/infrastructure/markdown"
	"go.elastic.co/apm"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Viewer one open course with lesson navigation and progress
type Viewer struct {
	api API
	md  markdown.Renderer

	mu          sync.Mutex
	course      *apiclient.Course
	progress    *apiclient.CourseProgress
	active      int
	lesson      *LessonView
	explanation string
	showCert    bool
	certificate *apiclient.Certificate
}

// NewViewer create an empty viewer
func NewViewer(api API, md markdown.Renderer) *Viewer {
	return &Viewer{api: api, md: md}
}

// Load fetch course and progress together, then open the first uncompleted lesson
func (v *Viewer) Load(ctx context.Context, courseID int) (*View, error) {
	span, ctx := apm.StartSpan(ctx, "CourseViewer.Load", "service")
	defer span.End()

	var (
		course   *apiclient.Course
		progress *apiclient.CourseProgress
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		course, err = v.api.Course(gctx, courseID)
		return
	})
	g.Go(func() (err error) {
		progress, err = v.api.CourseProgress(gctx, courseID)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if len(course.Lessons) == 0 {
		return nil, ErrNoLessons
	}

	active := 0
	for i, l := range course.Lessons {
		if !completed(progress, l.ID) {
			active = i
			break
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	lesson, err := v.open(ctx, course, active)
	if err != nil {
		return nil, err
	}
	v.course = course
	v.progress = progress
	v.certificate = nil
	v.showCert = false
	v.commit(active, lesson)
	if progress.Completed {
		v.fetchCertificate(ctx)
	}
	return v.view(), nil
}

// Open switch to a lesson of the loaded course
func (v *Viewer) Open(ctx context.Context, lessonID int) (*View, error) {
	span, ctx := apm.StartSpan(ctx, "CourseViewer.Open", "service")
	defer span.End()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.course == nil {
		return nil, ErrNotLoaded
	}
	idx := v.indexOf(lessonID)
	if idx < 0 {
		return nil, ErrUnknownLesson
	}
	return v.move(ctx, idx)
}

// Prev open the previous lesson
func (v *Viewer) Prev(ctx context.Context) (*View, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.course == nil {
		return nil, ErrNotLoaded
	}
	if v.active == 0 {
		return nil, ErrFirstLesson
	}
	return v.move(ctx, v.active-1)
}

// Next open the next lesson, after the last lesson the certificate is shown once the course is completed
func (v *Viewer) Next(ctx context.Context) (*View, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.course == nil {
		return nil, ErrNotLoaded
	}
	if v.active == len(v.course.Lessons)-1 {
		if !v.progress.Completed {
			return nil, ErrLastLesson
		}
		v.showCert = true
		return v.view(), nil
	}
	return v.move(ctx, v.active+1)
}

// move open lesson idx of the loaded course, the viewer is left untouched on failure.
// Must be called with mu held.
func (v *Viewer) move(ctx context.Context, idx int) (*View, error) {
	lesson, err := v.open(ctx, v.course, idx)
	if err != nil {
		return nil, err
	}
	v.showCert = false
	v.commit(idx, lesson)
	return v.view(), nil
}

// open fetch and render lesson idx of course
func (v *Viewer) open(ctx context.Context, course *apiclient.Course, idx int) (*LessonView, error) {
	summary := course.Lessons[idx]
	lesson, err := v.api.Lesson(ctx, course.ID, summary.ID)
	if err != nil {
		return nil, err
	}
	html, err := v.md.Render(lesson.Content)
	if err != nil {
		return nil, err
	}
	return &LessonView{Lesson: lesson, HTML: html}, nil
}

func (v *Viewer) commit(idx int, lesson *LessonView) {
	v.active = idx
	v.lesson = lesson
	v.explanation = ""
}

// Explain fetch the AI explanation of the active lesson
func (v *Viewer) Explain(ctx context.Context) (string, error) {
	span, ctx := apm.StartSpan(ctx, "CourseViewer.Explain", "service")
	defer span.End()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.course == nil {
		return "", ErrNotLoaded
	}
	lessonID := v.course.Lessons[v.active].ID
	res, err := v.api.ExplainLesson(ctx, v.course.ID, lessonID)
	if err != nil {
		return "", err
	}
	html, err := v.md.Render(res.Explanation)
	if err != nil {
		return "", err
	}
	v.explanation = html
	return html, nil
}

// Complete mark the active lesson completed. Completing a completed lesson is a no-op;
// otherwise local progress only changes after the server confirmed.
func (v *Viewer) Complete(ctx context.Context) (*View, error) {
	span, ctx := apm.StartSpan(ctx, "CourseViewer.Complete", "service")
	defer span.End()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.course == nil {
		return nil, ErrNotLoaded
	}
	lessonID := v.course.Lessons[v.active].ID
	if v.isCompleted(lessonID) {
		return v.view(), nil
	}
	res, err := v.api.UpdateProgress(ctx, v.course.ID, lessonID, true)
	if err != nil {
		return nil, err
	}

	p := *v.progress
	p.CompletedLessons = append(append([]int(nil), v.progress.CompletedLessons...), lessonID)
	p.ProgressPercentage = res.ProgressPercentage
	p.Completed = res.Completed
	v.progress = &p
	if p.Completed && v.certificate == nil {
		v.fetchCertificate(ctx)
	}
	return v.view(), nil
}

// Certificate course certificate, available once completed
func (v *Viewer) Certificate(ctx context.Context) (*apiclient.Certificate, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.course == nil {
		return nil, ErrNotLoaded
	}
	if !v.progress.Completed {
		return nil, ErrNotCompleted
	}
	if v.certificate == nil {
		cert, err := v.api.CourseCertificate(ctx, v.course.ID)
		if err != nil {
			return nil, err
		}
		v.certificate = cert
	}
	v.showCert = true
	return v.certificate, nil
}

// fetchCertificate must be called with mu held, failures leave the certificate to be fetched on demand
func (v *Viewer) fetchCertificate(ctx context.Context) {
	cert, err := v.api.CourseCertificate(ctx, v.course.ID)
	if err != nil {
		logging.ExtractLoggerFromContext(ctx).Warn("failed to fetch course certificate",
			zap.Int("course.id", v.course.ID), zap.Error(err))
		return
	}
	v.certificate = cert
}

// View snapshot of the viewer
func (v *Viewer) View() (*View, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.course == nil {
		return nil, ErrNotLoaded
	}
	return v.view(), nil
}

func (v *Viewer) view() *View {
	p := *v.progress
	p.CompletedLessons = append([]int(nil), v.progress.CompletedLessons...)
	return &View{
		Course:          v.course,
		Progress:        &p,
		Active:          v.course.Lessons[v.active],
		Lesson:          v.lesson,
		Explanation:     v.explanation,
		ShowCertificate: v.showCert,
		Certificate:     v.certificate,
		HasPrev:         v.active > 0,
		HasNext:         v.active < len(v.course.Lessons)-1 || v.progress.Completed,
	}
}

func (v *Viewer) isCompleted(lessonID int) bool {
	return completed(v.progress, lessonID)
}

func completed(progress *apiclient.CourseProgress, lessonID int) bool {
	for _, id := range progress.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

func (v *Viewer) indexOf(lessonID int) int {
	for i, l := range v.course.Lessons {
		if l.ID == lessonID {
			return i
		}
	}
	return -1
}
