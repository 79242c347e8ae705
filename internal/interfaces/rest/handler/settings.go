package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/session"
	"github.com/pot-code/interview-prep/internal/settings"
)

// SettingsHandler settings panel
type SettingsHandler struct {
	settings settings.SettingsUseCase
}

// NewSettingsHandler create a SettingsHandler
func NewSettingsHandler(su settings.SettingsUseCase) *SettingsHandler {
	return &SettingsHandler{settings: su}
}

func (sh *SettingsHandler) HandleSaveProfile(c echo.Context) error {
	patch := new(session.UserPatch)
	if ok, err := bindAndValidate(c, nil, patch); !ok {
		return err
	}
	res, err := sh.settings.SaveProfile(c.Request().Context(), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (sh *SettingsHandler) HandleChangePassword(c echo.Context) error {
	form := new(settings.PasswordForm)
	if ok, err := bindAndValidate(c, nil, form); !ok {
		return err
	}
	res, err := sh.settings.ChangePassword(c.Request().Context(), form)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (sh *SettingsHandler) HandlePreferences(c echo.Context) error {
	res, err := sh.settings.Preferences(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (sh *SettingsHandler) HandleSavePreferences(c echo.Context) error {
	prefs := new(settings.Preferences)
	if ok, err := bindAndValidate(c, nil, prefs); !ok {
		return err
	}
	res, err := sh.settings.SavePreferences(c.Request().Context(), prefs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// HandleExport download the account data
func (sh *SettingsHandler) HandleExport(c echo.Context) error {
	file, err := sh.settings.Export(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file.Filename))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, file.Body)
}

func (sh *SettingsHandler) HandleDeleteAccount(c echo.Context) error {
	return sh.settings.DeleteAccount(c.Request().Context())
}
