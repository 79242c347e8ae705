package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/aptitude"
	"github.com/pot-code/interview-prep/internal/workspace"
)

// AptitudeHandler aptitude test wizard
type AptitudeHandler struct {
	registry *workspace.Registry
}

// NewAptitudeHandler create an AptitudeHandler
func NewAptitudeHandler(registry *workspace.Registry) *AptitudeHandler {
	return &AptitudeHandler{registry: registry}
}

type answerForm struct {
	Option int `json:"option"`
}

func (ah *AptitudeHandler) runner(c echo.Context) (*aptitude.Runner, error) {
	w, err := workspaceOf(c, ah.registry)
	if err != nil {
		return nil, err
	}
	return w.Aptitude(), nil
}

func (ah *AptitudeHandler) HandleCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"categories":    aptitude.Categories,
		"difficulties":  aptitude.Difficulties,
		"counts":        aptitude.Counts,
		"default_count": aptitude.DefaultCount,
	})
}

func (ah *AptitudeHandler) HandleView(c echo.Context) error {
	r, err := ah.runner(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.View())
}

func (ah *AptitudeHandler) HandleStart(c echo.Context) error {
	r, err := ah.runner(c)
	if err != nil {
		return err
	}
	setup := new(aptitude.Setup)
	if ok, err := bindAndValidate(c, nil, setup); !ok {
		return err
	}
	if err := r.Start(c.Request().Context(), *setup); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.View())
}

func (ah *AptitudeHandler) HandleAnswer(c echo.Context) error {
	r, err := ah.runner(c)
	if err != nil {
		return err
	}
	i, err := intParam(c, "index")
	if err != nil {
		return err
	}
	form := new(answerForm)
	if ok, err := bindAndValidate(c, nil, form); !ok {
		return err
	}
	if err := r.Answer(i, form.Option); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.View())
}

func (ah *AptitudeHandler) HandleGoto(c echo.Context) error {
	r, err := ah.runner(c)
	if err != nil {
		return err
	}
	i, err := intParam(c, "index")
	if err != nil {
		return err
	}
	if err := r.Goto(i); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.View())
}

func (ah *AptitudeHandler) HandleSubmit(c echo.Context) error {
	r, err := ah.runner(c)
	if err != nil {
		return err
	}
	if _, err := r.Submit(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.View())
}

func (ah *AptitudeHandler) HandleCertificate(c echo.Context) error {
	r, err := ah.runner(c)
	if err != nil {
		return err
	}
	cert, err := r.Certificate(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cert)
}

func (ah *AptitudeHandler) HandleReset(c echo.Context) error {
	r, err := ah.runner(c)
	if err != nil {
		return err
	}
	r.Reset()
	return c.JSON(http.StatusOK, r.View())
}

func (ah *AptitudeHandler) HandleHistory(c echo.Context) error {
	r, err := ah.runner(c)
	if err != nil {
		return err
	}
	history, err := r.History(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, history)
}
