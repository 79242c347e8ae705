package handler

import (
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/capability"
	"github.com/pot-code/interview-prep/internal/capture"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/interview"
	"github.com/pot-code/interview-prep/internal/workspace"
)

// VideoHandler video mock interview
type VideoHandler struct {
	registry  *workspace.Registry
	maxUpload int64
}

// NewVideoHandler create a VideoHandler, clip uploads above maxUpload bytes are rejected
func NewVideoHandler(registry *workspace.Registry, maxUpload int64) *VideoHandler {
	return &VideoHandler{registry: registry, maxUpload: maxUpload}
}

type cameraForm struct {
	Camera capability.Status `json:"camera"`
}

type nextForm struct {
	Note string `json:"note"`
}

func (vh *VideoHandler) workspace(c echo.Context) (*workspace.Workspace, error) {
	return workspaceOf(c, vh.registry)
}

func (vh *VideoHandler) HandleView(c echo.Context) error {
	w, err := vh.workspace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, w.Video().View())
}

// HandleCamera record the camera capability reported by the browser and try to acquire it
func (vh *VideoHandler) HandleCamera(c echo.Context) error {
	w, err := vh.workspace(c)
	if err != nil {
		return err
	}
	form := new(cameraForm)
	if ok, err := bindAndValidate(c, nil, form); !ok {
		return err
	}
	w.Camera().Report(form.Camera)
	flow := w.Video()
	if flow.View().Stage == interview.StageInterview {
		flow.Retry(c.Request().Context())
	}
	return c.JSON(http.StatusOK, flow.View())
}

func (vh *VideoHandler) HandleStart(c echo.Context) error {
	w, err := vh.workspace(c)
	if err != nil {
		return err
	}
	setup := new(interview.Setup)
	if ok, err := bindAndValidate(c, nil, setup); !ok {
		return err
	}
	flow := w.Video()
	if _, err := flow.Start(c.Request().Context(), *setup); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, flow.View())
}

func (vh *VideoHandler) HandleStartRecording(c echo.Context) error {
	w, err := vh.workspace(c)
	if err != nil {
		return err
	}
	flow := w.Video()
	if err := flow.StartRecording(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, flow.View())
}

func (vh *VideoHandler) HandleStopRecording(c echo.Context) error {
	w, err := vh.workspace(c)
	if err != nil {
		return err
	}
	flow := w.Video()
	if err := flow.StopRecording(); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, flow.View())
}

// HandleUploadClip accept the recorded blob as a raw body or as the "clip" part of a multipart form
func (vh *VideoHandler) HandleUploadClip(c echo.Context) error {
	w, err := vh.workspace(c)
	if err != nil {
		return err
	}
	body, contentType, err := vh.readClip(c)
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := ioutil.ReadAll(io.LimitReader(body, vh.maxUpload+1))
	if err != nil {
		return err
	}
	if int64(len(data)) > vh.maxUpload {
		return capture.ErrClipTooLarge
	}
	clip, err := w.Video().AttachClip(contentType, data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, clip)
}

func (vh *VideoHandler) readClip(c echo.Context) (io.ReadCloser, string, error) {
	req := c.Request()
	if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return req.Body, req.Header.Get(echo.HeaderContentType), nil
	}
	fh, err := c.FormFile("clip")
	if err != nil {
		return nil, "", validate.Errors{validate.NewFieldError("clip", "clip file is required")}
	}
	if fh.Size > vh.maxUpload {
		return nil, "", capture.ErrClipTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", err
	}
	return f, fh.Header.Get(echo.HeaderContentType), nil
}

// HandleClip play back a recorded clip
func (vh *VideoHandler) HandleClip(c echo.Context) error {
	w, err := vh.workspace(c)
	if err != nil {
		return err
	}
	clip, err := w.Video().Clip(c.Param("id"))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, clip.ContentType, clip.Data)
}

func (vh *VideoHandler) HandleNext(c echo.Context) error {
	w, err := vh.workspace(c)
	if err != nil {
		return err
	}
	form := new(nextForm)
	if ok, err := bindAndValidate(c, nil, form); !ok {
		return err
	}
	flow := w.Video()
	out, err := flow.Next(c.Request().Context(), form.Note)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"outcome": out, "view": flow.View()})
}

func (vh *VideoHandler) HandleComplete(c echo.Context) error {
	w, err := vh.workspace(c)
	if err != nil {
		return err
	}
	flow := w.Video()
	if _, err := flow.Complete(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, flow.View())
}

func (vh *VideoHandler) HandleCertificate(c echo.Context) error {
	w, err := vh.workspace(c)
	if err != nil {
		return err
	}
	cert, err := w.Video().Certificate(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cert)
}

func (vh *VideoHandler) HandleReset(c echo.Context) error {
	w, err := vh.workspace(c)
	if err != nil {
		return err
	}
	flow := w.Video()
	flow.Teardown(c.Request().Context())
	return c.JSON(http.StatusOK, flow.View())
}
