package course

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/markdown"
)

type fakeAPI struct {
	mu          sync.Mutex
	progress    *apiclient.CourseProgress
	updates     []int
	certs       int
	progressErr error
	lessonErr   error
	lessons     int
}

func (f *fakeAPI) Courses(ctx context.Context) (*apiclient.CourseList, error) {
	return &apiclient.CourseList{Courses: []*apiclient.CourseSummary{{ID: 1, Title: "Go"}, {ID: 2, Title: "SQL"}}}, nil
}

func (f *fakeAPI) MyCourses(ctx context.Context) (*apiclient.CourseList, error) {
	return &apiclient.CourseList{Courses: []*apiclient.CourseSummary{{ID: 2, Title: "SQL"}}}, nil
}

func (f *fakeAPI) Course(ctx context.Context, id int) (*apiclient.Course, error) {
	// blocks until the progress call fails or the context is cancelled
	if f.progressErr != nil {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &apiclient.Course{ID: id, Title: "Go", Lessons: []*apiclient.LessonSummary{
		{ID: 10, Title: "Intro", Order: 1},
		{ID: 11, Title: "Slices", Order: 2},
		{ID: 12, Title: "Maps", Order: 3},
	}}, nil
}

func (f *fakeAPI) Enroll(ctx context.Context, id int) (*apiclient.Enrollment, error) {
	return &apiclient.Enrollment{CourseID: id}, nil
}

func (f *fakeAPI) Unenroll(ctx context.Context, id int) (*apiclient.MessageResponse, error) {
	return &apiclient.MessageResponse{}, nil
}

func (f *fakeAPI) CourseProgress(ctx context.Context, id int) (*apiclient.CourseProgress, error) {
	if f.progressErr != nil {
		return nil, f.progressErr
	}
	return f.progress, nil
}

func (f *fakeAPI) UpdateProgress(ctx context.Context, courseID, lessonID int, completed bool) (*apiclient.ProgressUpdate, error) {
	f.updates = append(f.updates, lessonID)
	done := len(f.progress.CompletedLessons)+len(f.updates) == 3
	return &apiclient.ProgressUpdate{ProgressPercentage: float64(len(f.progress.CompletedLessons)+len(f.updates)) / 3 * 100, Completed: done}, nil
}

func (f *fakeAPI) Lesson(ctx context.Context, courseID, lessonID int) (*apiclient.Lesson, error) {
	f.mu.Lock()
	f.lessons++
	f.mu.Unlock()
	if f.lessonErr != nil {
		return nil, f.lessonErr
	}
	return &apiclient.Lesson{ID: lessonID, Content: "## Lesson\n\n`code`"}, nil
}

func (f *fakeAPI) ExplainLesson(ctx context.Context, courseID, lessonID int) (*apiclient.Explanation, error) {
	return &apiclient.Explanation{Explanation: "**Slices** are views"}, nil
}

func (f *fakeAPI) CourseCertificate(ctx context.Context, courseID int) (*apiclient.Certificate, error) {
	f.certs++
	return &apiclient.Certificate{CertificateID: "COURSE-1"}, nil
}

func TestCatalog(t *testing.T) {
	catalog, err := NewCourseUseCase(&fakeAPI{}).Catalog(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(catalog.Courses) != 2 || catalog.Courses[0].Enrolled || !catalog.Courses[1].Enrolled || len(catalog.Mine) != 1 {
		t.Fatalf("unexpected catalog %+v", catalog)
	}
}

func TestLoadOpensFirstUncompletedLesson(t *testing.T) {
	api := &fakeAPI{progress: &apiclient.CourseProgress{CompletedLessons: []int{10}}}
	v := NewViewer(api, markdown.NewGoldmark())

	view, err := v.Load(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if view.Active.ID != 11 || !strings.Contains(view.Lesson.HTML, "<h2>Lesson</h2>") {
		t.Fatalf("unexpected view %+v", view)
	}
	if !view.HasPrev || !view.HasNext {
		t.Fatal("middle lesson should have both neighbours")
	}
}

func TestLoadFailureCancelsSibling(t *testing.T) {
	api := &fakeAPI{progressErr: errors.New("boom")}
	v := NewViewer(api, markdown.NewGoldmark())
	if _, err := v.Load(context.Background(), 1); err == nil || err.Error() != "boom" {
		t.Fatalf("expected the progress error, got %v", err)
	}
	if _, err := v.View(); !errors.Is(err, ErrNotLoaded) {
		t.Fatal("failed load must leave the viewer empty")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	api := &fakeAPI{progress: &apiclient.CourseProgress{CompletedLessons: []int{10}}}
	v := NewViewer(api, markdown.NewGoldmark())
	ctx := context.Background()
	v.Load(ctx, 1)

	if _, err := v.Open(ctx, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Complete(ctx); err != nil {
		t.Fatal(err)
	}
	if len(api.updates) != 0 {
		t.Fatal("completed lesson must not be posted again")
	}

	v.Open(ctx, 11)
	view, _ := v.Complete(ctx)
	view, _ = v.Complete(ctx)
	if len(api.updates) != 1 || len(view.Progress.CompletedLessons) != 2 {
		t.Fatalf("lesson merged twice: %v / %v", api.updates, view.Progress.CompletedLessons)
	}
	if _, err := v.Certificate(ctx); !errors.Is(err, ErrNotCompleted) {
		t.Fatalf("expected ErrNotCompleted, got %v", err)
	}
	if _, err := v.Next(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := v.Next(ctx); !errors.Is(err, ErrLastLesson) {
		t.Fatalf("expected ErrLastLesson, got %v", err)
	}

	view, _ = v.Complete(ctx)
	if !view.Progress.Completed || view.Progress.ProgressPercentage != 100 || view.Certificate == nil {
		t.Fatalf("completed course should carry the certificate: %+v", view.Progress)
	}
	view, _ = v.Next(ctx)
	if !view.ShowCertificate || api.certs != 1 {
		t.Fatalf("certificate fetched %d times", api.certs)
	}
}

func TestFailedLessonFetchKeepsActiveLesson(t *testing.T) {
	api := &fakeAPI{progress: &apiclient.CourseProgress{}}
	v := NewViewer(api, markdown.NewGoldmark())
	ctx := context.Background()
	if _, err := v.Load(ctx, 1); err != nil {
		t.Fatal(err)
	}

	api.lessonErr = errors.New("lesson unavailable")
	if _, err := v.Open(ctx, 12); err == nil {
		t.Fatal("expected the lesson error")
	}
	if _, err := v.Next(ctx); err == nil {
		t.Fatal("expected the lesson error")
	}
	view, err := v.View()
	if err != nil {
		t.Fatal(err)
	}
	if view.Active.ID != 10 || view.Lesson.ID != 10 {
		t.Fatalf("active lesson %d shows content of lesson %d", view.Active.ID, view.Lesson.ID)
	}

	api.lessonErr = nil
	if _, err := v.Complete(ctx); err != nil {
		t.Fatal(err)
	}
	if len(api.updates) != 1 || api.updates[0] != 10 {
		t.Fatalf("progress posted for %v, want [10]", api.updates)
	}
}

func TestFailedLoadKeepsPreviousCourse(t *testing.T) {
	api := &fakeAPI{progress: &apiclient.CourseProgress{CompletedLessons: []int{10}}}
	v := NewViewer(api, markdown.NewGoldmark())
	ctx := context.Background()
	if _, err := v.Load(ctx, 1); err != nil {
		t.Fatal(err)
	}

	api.lessonErr = errors.New("lesson unavailable")
	api.progress = &apiclient.CourseProgress{}
	if _, err := v.Load(ctx, 2); err == nil {
		t.Fatal("expected the lesson error")
	}
	view, _ := v.View()
	if view.Course.ID != 1 || view.Active.ID != 11 || len(view.Progress.CompletedLessons) != 1 {
		t.Fatalf("failed load replaced the open course: course %d, lesson %d", view.Course.ID, view.Active.ID)
	}
}

func TestExplain(t *testing.T) {
	api := &fakeAPI{progress: &apiclient.CourseProgress{}}
	v := NewViewer(api, markdown.NewGoldmark())
	ctx := context.Background()
	v.Load(ctx, 1)

	html, err := v.Explain(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "<strong>Slices</strong>") {
		t.Fatalf("explanation not rendered: %q", html)
	}
	view, _ := v.Next(ctx)
	if view.Explanation != "" {
		t.Fatal("explanation belongs to the previous lesson")
	}
}
