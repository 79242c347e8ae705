package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/infrastructure/auth"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/session"
)

// SessionHandler login, signup and password recovery
type SessionHandler struct {
	sessions  session.SessionUseCase
	validator validate.Validator
	cookie    *auth.SessionCookie
}

// NewSessionHandler create a SessionHandler
func NewSessionHandler(sessions session.SessionUseCase, validator validate.Validator, cookie *auth.SessionCookie) *SessionHandler {
	return &SessionHandler{sessions: sessions, validator: validator, cookie: cookie}
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupForm struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordForm struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordForm struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleSnapshot current session
func (sh *SessionHandler) HandleSnapshot(c echo.Context) error {
	snap, err := sh.sessions.Snapshot(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

// HandleCheck resolve the stored token again
func (sh *SessionHandler) HandleCheck(c echo.Context) error {
	snap, err := sh.sessions.CheckAuth(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

func (sh *SessionHandler) HandleLogin(c echo.Context) error {
	form := new(loginForm)
	if ok, err := bindAndValidate(c, sh.validator, form); !ok {
		return err
	}
	ctx := c.Request().Context()
	if err := sh.sessions.Login(ctx, form.Email, form.Password); err != nil {
		return err
	}
	return sh.HandleSnapshot(c)
}

func (sh *SessionHandler) HandleSignup(c echo.Context) error {
	form := new(signupForm)
	if ok, err := bindAndValidate(c, sh.validator, form); !ok {
		return err
	}
	if err := sh.sessions.Signup(c.Request().Context(), form.Name, form.Email, form.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": session.SignupMessage})
}

// HandleLogout log out and drop the cookie, the next request starts a fresh browser session
func (sh *SessionHandler) HandleLogout(c echo.Context) error {
	if err := sh.sessions.Logout(c.Request().Context()); err != nil {
		return err
	}
	sh.cookie.Clear(c)
	return c.JSON(http.StatusOK, &session.Snapshot{State: session.Anonymous.String()})
}

func (sh *SessionHandler) HandleForgotPassword(c echo.Context) error {
	form := new(forgotPasswordForm)
	if ok, err := bindAndValidate(c, sh.validator, form); !ok {
		return err
	}
	res, err := sh.sessions.ForgotPassword(c.Request().Context(), form.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (sh *SessionHandler) HandleResetPassword(c echo.Context) error {
	form := new(resetPasswordForm)
	if ok, err := bindAndValidate(c, sh.validator, form); !ok {
		return err
	}
	res, err := sh.sessions.ResetPassword(c.Request().Context(), form.Token, form.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
