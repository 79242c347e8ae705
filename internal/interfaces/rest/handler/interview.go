package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/interview"
	"github.com/pot-code/interview-prep/internal/workspace"
)

// InterviewHandler text mock interview
type InterviewHandler struct {
	registry *workspace.Registry
}

// NewInterviewHandler create an InterviewHandler
func NewInterviewHandler(registry *workspace.Registry) *InterviewHandler {
	return &InterviewHandler{registry: registry}
}

type respondForm struct {
	Response string `json:"response"`
}

func (ih *InterviewHandler) runner(c echo.Context) (*interview.Runner, error) {
	w, err := workspaceOf(c, ih.registry)
	if err != nil {
		return nil, err
	}
	return w.Interview(), nil
}

// HandleCatalog setup choices of the interview mode named by ?mode=, text by default
func (ih *InterviewHandler) HandleCatalog(c echo.Context) error {
	mode := interview.Mode(c.QueryParam("mode"))
	if mode == "" {
		mode = interview.ModeText
	}
	return c.JSON(http.StatusOK, echo.Map{
		"roles":         interview.RolesFor(mode),
		"difficulties":  interview.Difficulties,
		"counts":        interview.CountsFor(mode),
		"default_count": interview.DefaultCount,
	})
}

func (ih *InterviewHandler) HandleView(c echo.Context) error {
	r, err := ih.runner(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.View())
}

func (ih *InterviewHandler) HandleStart(c echo.Context) error {
	r, err := ih.runner(c)
	if err != nil {
		return err
	}
	setup := new(interview.Setup)
	if ok, err := bindAndValidate(c, nil, setup); !ok {
		return err
	}
	if _, err := r.Start(c.Request().Context(), *setup); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.View())
}

func (ih *InterviewHandler) HandleRespond(c echo.Context) error {
	r, err := ih.runner(c)
	if err != nil {
		return err
	}
	form := new(respondForm)
	if ok, err := bindAndValidate(c, nil, form); !ok {
		return err
	}
	out, err := r.Respond(c.Request().Context(), form.Response)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"outcome": out, "view": r.View()})
}

func (ih *InterviewHandler) HandleAdvance(c echo.Context) error {
	r, err := ih.runner(c)
	if err != nil {
		return err
	}
	out, err := r.Advance(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"outcome": out, "view": r.View()})
}

func (ih *InterviewHandler) HandleComplete(c echo.Context) error {
	r, err := ih.runner(c)
	if err != nil {
		return err
	}
	if _, err := r.Complete(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.View())
}

func (ih *InterviewHandler) HandleCertificate(c echo.Context) error {
	r, err := ih.runner(c)
	if err != nil {
		return err
	}
	cert, err := r.Certificate(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cert)
}

func (ih *InterviewHandler) HandleFeedback(c echo.Context) error {
	r, err := ih.runner(c)
	if err != nil {
		return err
	}
	feedback, err := r.Feedback(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedback)
}

func (ih *InterviewHandler) HandleHistory(c echo.Context) error {
	r, err := ih.runner(c)
	if err != nil {
		return err
	}
	history, err := r.History(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}

func (ih *InterviewHandler) HandleReset(c echo.Context) error {
	r, err := ih.runner(c)
	if err != nil {
		return err
	}
	r.Reset()
	return c.JSON(http.StatusOK, r.View())
}
