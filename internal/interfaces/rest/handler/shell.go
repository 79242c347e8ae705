package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/roadmap"
	"github.com/pot-code/interview-prep/internal/session"
	"github.com/pot-code/interview-prep/internal/shell"
)

// ShellHandler page routing and static navigation content
type ShellHandler struct {
	sessions session.SessionUseCase
	roadmaps *roadmap.Catalog
}

// NewShellHandler create a ShellHandler
func NewShellHandler(sessions session.SessionUseCase, roadmaps *roadmap.Catalog) *ShellHandler {
	return &ShellHandler{sessions: sessions, roadmaps: roadmaps}
}

// PageView page rendered for the session
type PageView struct {
	*shell.Decision
	Session *session.Snapshot `json:"session"`
	Nav     []shell.NavItem   `json:"nav,omitempty"`
}

// HandlePage resolve the request path, disallowed pages redirect
func (sh *ShellHandler) HandlePage(c echo.Context) error {
	view, err := sh.resolve(c, c.Request().URL.Path)
	if err != nil {
		return err
	}
	if !view.Allowed() {
		return c.Redirect(http.StatusFound, view.Redirect)
	}
	return c.JSON(http.StatusOK, view)
}

// HandleResolve resolve ?path= without redirecting, for client side navigation
func (sh *ShellHandler) HandleResolve(c echo.Context) error {
	view, err := sh.resolve(c, c.QueryParam("path"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (sh *ShellHandler) resolve(c echo.Context, path string) (*PageView, error) {
	snap, err := sh.sessions.Snapshot(c.Request().Context())
	if err != nil {
		return nil, err
	}
	view := &PageView{
		Decision: shell.Resolve(path, snap.IsAuthenticated),
		Session:  snap,
	}
	if snap.IsAuthenticated {
		view.Nav = shell.Sidebar
	}
	return view, nil
}

func (sh *ShellHandler) HandleStudyCenter(c echo.Context) error {
	return c.JSON(http.StatusOK, shell.StudySections)
}

func (sh *ShellHandler) HandleRoadmaps(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"default":    roadmap.DefaultCategory,
		"categories": sh.roadmaps.Names(),
	})
}

func (sh *ShellHandler) HandleRoadmapCategory(c echo.Context) error {
	category, err := sh.roadmaps.Category(c.Param("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

func (sh *ShellHandler) HandleRoadmap(c echo.Context) error {
	r, err := sh.roadmaps.Roadmap(c.Param("category"), c.Param("title"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}
