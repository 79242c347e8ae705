package course

import (
	"context"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"go.elastic.co/apm"
	"golang.org/x/sync/errgroup"
)

// CourseUseCaseImpl stateless catalog operations
type CourseUseCaseImpl struct {
	api API
}

var _ CourseUseCase = &CourseUseCaseImpl{}

// NewCourseUseCase create a CourseUseCase
func NewCourseUseCase(api API) *CourseUseCaseImpl {
	return &CourseUseCaseImpl{api: api}
}

// Catalog fetch all courses and my courses concurrently
func (cu *CourseUseCaseImpl) Catalog(ctx context.Context) (*Catalog, error) {
	span, ctx := apm.StartSpan(ctx, "CourseUseCase.Catalog", "service")
	defer span.End()

	var all, mine *apiclient.CourseList
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		all, err = cu.api.Courses(gctx)
		return
	})
	g.Go(func() (err error) {
		mine, err = cu.api.MyCourses(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	enrolled := make(map[int]bool, len(mine.Courses))
	for _, c := range mine.Courses {
		enrolled[c.ID] = true
	}
	catalog := &Catalog{
		Courses: make([]*CatalogEntry, len(all.Courses)),
		Mine:    mine.Courses,
	}
	for i, c := range all.Courses {
		catalog.Courses[i] = &CatalogEntry{CourseSummary: c, Enrolled: enrolled[c.ID]}
	}
	return catalog, nil
}

// Enroll in a course
func (cu *CourseUseCaseImpl) Enroll(ctx context.Context, courseID int) (*apiclient.Enrollment, error) {
	span, ctx := apm.StartSpan(ctx, "CourseUseCase.Enroll", "service")
	defer span.End()
	return cu.api.Enroll(ctx, courseID)
}

// Unenroll from a course, progress is lost
func (cu *CourseUseCaseImpl) Unenroll(ctx context.Context, courseID int) (*apiclient.MessageResponse, error) {
	span, ctx := apm.StartSpan(ctx, "CourseUseCase.Unenroll", "service")
	defer span.End()
	return cu.api.Unenroll(ctx, courseID)
}
