package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/practice"
	"github.com/pot-code/interview-prep/internal/workspace"
)

// PracticeHandler coding, SQL and bug-fix exercises, flashcards and aptitude tutorials
type PracticeHandler struct {
	registry  *workspace.Registry
	tutorials practice.TutorialUseCase
}

// NewPracticeHandler create a PracticeHandler
func NewPracticeHandler(registry *workspace.Registry, tutorials practice.TutorialUseCase) *PracticeHandler {
	return &PracticeHandler{registry: registry, tutorials: tutorials}
}

type codeForm struct {
	Code string `json:"code"`
}

type nextCardForm struct {
	Mastered bool `json:"mastered"`
}

// exercise of the :kind path parameter
func (ph *PracticeHandler) exercise(c echo.Context) (*practice.Exercise, error) {
	w, err := workspaceOf(c, ph.registry)
	if err != nil {
		return nil, err
	}
	return w.Exercise(practice.Kind(c.Param("kind")))
}

func (ph *PracticeHandler) deck(c echo.Context) (*practice.Deck, error) {
	w, err := workspaceOf(c, ph.registry)
	if err != nil {
		return nil, err
	}
	return w.Deck(), nil
}

func (ph *PracticeHandler) HandleCatalog(c echo.Context) error {
	catalog, err := practice.Lookup(practice.Kind(c.Param("kind")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"catalog":      catalog,
		"difficulties": practice.Difficulties,
	})
}

func (ph *PracticeHandler) HandleView(c echo.Context) error {
	e, err := ph.exercise(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e.View())
}

func (ph *PracticeHandler) HandleStart(c echo.Context) error {
	e, err := ph.exercise(c)
	if err != nil {
		return err
	}
	setup := new(practice.Setup)
	if ok, err := bindAndValidate(c, nil, setup); !ok {
		return err
	}
	view, err := e.Start(c.Request().Context(), *setup)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (ph *PracticeHandler) HandleSelect(c echo.Context) error {
	e, err := ph.exercise(c)
	if err != nil {
		return err
	}
	i, err := intParam(c, "index")
	if err != nil {
		return err
	}
	view, err := e.Select(i)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (ph *PracticeHandler) HandleCode(c echo.Context) error {
	e, err := ph.exercise(c)
	if err != nil {
		return err
	}
	form := new(codeForm)
	if ok, err := bindAndValidate(c, nil, form); !ok {
		return err
	}
	if err := e.SetCode(form.Code); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (ph *PracticeHandler) HandleSubmit(c echo.Context) error {
	e, err := ph.exercise(c)
	if err != nil {
		return err
	}
	if _, err := e.Submit(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e.View())
}

func (ph *PracticeHandler) HandleReset(c echo.Context) error {
	e, err := ph.exercise(c)
	if err != nil {
		return err
	}
	e.Reset()
	return c.JSON(http.StatusOK, e.View())
}

func (ph *PracticeHandler) HandleDeckView(c echo.Context) error {
	d, err := ph.deck(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d.View())
}

func (ph *PracticeHandler) HandleDeckStart(c echo.Context) error {
	d, err := ph.deck(c)
	if err != nil {
		return err
	}
	setup := new(practice.Setup)
	if ok, err := bindAndValidate(c, nil, setup); !ok {
		return err
	}
	view, err := d.Start(c.Request().Context(), *setup)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (ph *PracticeHandler) HandleFlip(c echo.Context) error {
	d, err := ph.deck(c)
	if err != nil {
		return err
	}
	view, err := d.Flip()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (ph *PracticeHandler) HandleNextCard(c echo.Context) error {
	d, err := ph.deck(c)
	if err != nil {
		return err
	}
	form := new(nextCardForm)
	if ok, err := bindAndValidate(c, nil, form); !ok {
		return err
	}
	view, err := d.Next(form.Mastered)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (ph *PracticeHandler) HandleDeckReset(c echo.Context) error {
	d, err := ph.deck(c)
	if err != nil {
		return err
	}
	d.Reset()
	return c.JSON(http.StatusOK, d.View())
}

func (ph *PracticeHandler) HandleTopics(c echo.Context) error {
	return c.JSON(http.StatusOK, practice.TutorialTopics)
}

func (ph *PracticeHandler) HandleTutorial(c echo.Context) error {
	view, err := ph.tutorials.Tutorial(c.Request().Context(), c.Param("category"), c.Param("topic"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
