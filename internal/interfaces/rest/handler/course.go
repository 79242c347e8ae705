package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/course"
	"github.com/pot-code/interview-prep/internal/workspace"
)

// CourseHandler course catalog and the course viewer
type CourseHandler struct {
	courses  course.CourseUseCase
	registry *workspace.Registry
}

// NewCourseHandler create a CourseHandler
func NewCourseHandler(courses course.CourseUseCase, registry *workspace.Registry) *CourseHandler {
	return &CourseHandler{courses: courses, registry: registry}
}

func (ch *CourseHandler) viewer(c echo.Context) (*course.Viewer, error) {
	w, err := workspaceOf(c, ch.registry)
	if err != nil {
		return nil, err
	}
	return w.Course(), nil
}

func (ch *CourseHandler) HandleCatalog(c echo.Context) error {
	catalog, err := ch.courses.Catalog(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, catalog)
}

func (ch *CourseHandler) HandleEnroll(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	res, err := ch.courses.Enroll(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (ch *CourseHandler) HandleUnenroll(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	res, err := ch.courses.Unenroll(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// HandleLoad open a course in the viewer
func (ch *CourseHandler) HandleLoad(c echo.Context) error {
	v, err := ch.viewer(c)
	if err != nil {
		return err
	}
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	view, err := v.Load(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (ch *CourseHandler) HandleView(c echo.Context) error {
	v, err := ch.viewer(c)
	if err != nil {
		return err
	}
	view, err := v.View()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (ch *CourseHandler) HandleOpen(c echo.Context) error {
	v, err := ch.viewer(c)
	if err != nil {
		return err
	}
	lessonID, err := intParam(c, "lessonId")
	if err != nil {
		return err
	}
	view, err := v.Open(c.Request().Context(), lessonID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (ch *CourseHandler) HandlePrev(c echo.Context) error {
	v, err := ch.viewer(c)
	if err != nil {
		return err
	}
	view, err := v.Prev(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (ch *CourseHandler) HandleNext(c echo.Context) error {
	v, err := ch.viewer(c)
	if err != nil {
		return err
	}
	view, err := v.Next(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (ch *CourseHandler) HandleExplain(c echo.Context) error {
	v, err := ch.viewer(c)
	if err != nil {
		return err
	}
	html, err := v.Explain(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"explanation": html})
}

func (ch *CourseHandler) HandleComplete(c echo.Context) error {
	v, err := ch.viewer(c)
	if err != nil {
		return err
	}
	view, err := v.Complete(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (ch *CourseHandler) HandleCertificate(c echo.Context) error {
	v, err := ch.viewer(c)
	if err != nil {
		return err
	}
	cert, err := v.Certificate(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cert)
}
