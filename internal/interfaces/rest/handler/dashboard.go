package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/dashboard"
)

// DashboardHandler dashboard, gamification and FAQ
type DashboardHandler struct {
	dashboard dashboard.DashboardUseCase
}

// NewDashboardHandler create a DashboardHandler
func NewDashboardHandler(du dashboard.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{dashboard: du}
}

func (dh *DashboardHandler) HandleOverview(c echo.Context) error {
	res, err := dh.dashboard.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (dh *DashboardHandler) HandleAchievements(c echo.Context) error {
	res, err := dh.dashboard.Achievements(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (dh *DashboardHandler) HandleLeaderboard(c echo.Context) error {
	res, err := dh.dashboard.Leaderboard(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (dh *DashboardHandler) HandleClaim(c echo.Context) error {
	id, err := intParam(c, "id")
	if err != nil {
		return err
	}
	res, err := dh.dashboard.Claim(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (dh *DashboardHandler) HandleFAQs(c echo.Context) error {
	res, err := dh.dashboard.FAQs(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (dh *DashboardHandler) HandleSearchFAQs(c echo.Context) error {
	res, err := dh.dashboard.SearchFAQs(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
