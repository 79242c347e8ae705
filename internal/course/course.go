package course

import (
	"context"
	"errors"

	"github.com/pot-code/interview-prep/internal/apiclient"
)

var (
	ErrNotLoaded     = errors.New("no course loaded")
	ErrUnknownLesson = errors.New("lesson does not belong to the course")
	ErrFirstLesson   = errors.New("already at the first lesson")
	ErrLastLesson    = errors.New("already at the last lesson")
	ErrNotCompleted  = errors.New("course not completed yet")
	ErrNoLessons     = errors.New("course has no lessons")
)

// API course endpoints
type API interface {
	Courses(ctx context.Context) (*apiclient.CourseList, error)
	MyCourses(ctx context.Context) (*apiclient.CourseList, error)
	Course(ctx context.Context, courseID int) (*apiclient.Course, error)
	Enroll(ctx context.Context, courseID int) (*apiclient.Enrollment, error)
	Unenroll(ctx context.Context, courseID int) (*apiclient.MessageResponse, error)
	CourseProgress(ctx context.Context, courseID int) (*apiclient.CourseProgress, error)
	UpdateProgress(ctx context.Context, courseID, lessonID int, completed bool) (*apiclient.ProgressUpdate, error)
	Lesson(ctx context.Context, courseID, lessonID int) (*apiclient.Lesson, error)
	ExplainLesson(ctx context.Context, courseID, lessonID int) (*apiclient.Explanation, error)
	CourseCertificate(ctx context.Context, courseID int) (*apiclient.Certificate, error)
}

// CatalogEntry course with enrollment flag
type CatalogEntry struct {
	*apiclient.CourseSummary
	Enrolled bool `json:"enrolled"`
}

// Catalog all courses and the user's own
type Catalog struct {
	Courses []*CatalogEntry            `json:"courses"`
	Mine    []*apiclient.CourseSummary `json:"my_courses"`
}

// CourseUseCase course catalog operations
type CourseUseCase interface {
	Catalog(ctx context.Context) (*Catalog, error)
	Enroll(ctx context.Context, courseID int) (*apiclient.Enrollment, error)
	Unenroll(ctx context.Context, courseID int) (*apiclient.MessageResponse, error)
}

// LessonView lesson with rendered content
type LessonView struct {
	*apiclient.Lesson
	HTML string `json:"html"`
}

// View observable viewer state
type View struct {
	Course          *apiclient.Course         `json:"course"`
	Progress        *apiclient.CourseProgress `json:"progress"`
	Active          *apiclient.LessonSummary  `json:"active_lesson,omitempty"`
	Lesson          *LessonView               `json:"lesson,omitempty"`
	Explanation     string                    `json:"explanation,omitempty"`
	ShowCertificate bool                      `json:"show_certificate"`
	Certificate     *apiclient.Certificate    `json:"certificate,omitempty"`
	HasPrev         bool                      `json:"has_prev"`
	HasNext         bool                      `json:"has_next"`
}
