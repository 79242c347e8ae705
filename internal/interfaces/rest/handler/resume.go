package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/resume"
)

// ResumeHandler resume upload and analysis
type ResumeHandler struct {
	resumes resume.ResumeUseCase
}

// NewResumeHandler create a ResumeHandler
func NewResumeHandler(resumes resume.ResumeUseCase) *ResumeHandler {
	return &ResumeHandler{resumes: resumes}
}

// HandleUpload forward the "file" part of a multipart form
func (rh *ResumeHandler) HandleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return validate.Errors{validate.NewFieldError("file", "file is required")}
	}
	if !resume.Accepts(fh.Filename) {
		return resume.ErrUnsupportedFile
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := rh.resumes.Upload(c.Request().Context(), fh.Filename, fh.Size, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

func (rh *ResumeHandler) HandleList(c echo.Context) error {
	res, err := rh.resumes.All(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (rh *ResumeHandler) HandleGet(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	res, err := rh.resumes.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
