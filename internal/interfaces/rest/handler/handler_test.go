package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/aptitude"
	"github.com/pot-code/interview-prep/internal/course"
	"github.com/pot-code/interview-prep/internal/infrastructure/auth"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/resume"
	"github.com/pot-code/interview-prep/internal/roadmap"
	"github.com/pot-code/interview-prep/internal/session"
	"github.com/pot-code/interview-prep/internal/settings"
)

type fakeSessions struct {
	session.SessionUseCase
	snap     *session.Snapshot
	loginErr error
	email    string
}

func (f *fakeSessions) Snapshot(ctx context.Context) (*session.Snapshot, error) {
	return f.snap, nil
}

func (f *fakeSessions) Logout(ctx context.Context) error {
	f.snap = &session.Snapshot{State: session.Anonymous.String()}
	return nil
}

func (f *fakeSessions) Login(ctx context.Context, email, password string) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.email = email
	f.snap = &session.Snapshot{IsAuthenticated: true, User: &apiclient.User{Email: email}}
	return nil
}

func TestErrorResponse(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"field errors", validate.Errors{validate.NewFieldError("email", "email is required")}, http.StatusBadRequest},
		{"login failure", &session.Failure{Message: "Invalid email or password", Err: &apiclient.APIError{Status: http.StatusUnauthorized}}, http.StatusUnauthorized},
		{"signup failure", &session.Failure{Message: "Email already registered", Err: &apiclient.APIError{Status: http.StatusBadRequest}}, http.StatusBadRequest},
		{"anonymous", session.ErrNotAuthenticated, http.StatusUnauthorized},
		{"wrapped stage error", fmt.Errorf("submit: %w", aptitude.ErrWrongStage), http.StatusConflict},
		{"bad answer", aptitude.ErrIncomplete, http.StatusBadRequest},
		{"unknown lesson", course.ErrUnknownLesson, http.StatusNotFound},
		{"unknown roadmap", roadmap.ErrUnknownRoadmap, http.StatusNotFound},
		{"large resume", resume.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"account deletion", settings.ErrNotAvailable, http.StatusNotImplemented},
		{"backend rejection", &apiclient.APIError{Status: http.StatusNotFound, Detail: "Course not found"}, http.StatusNotFound},
		{"backend failure", &apiclient.APIError{Status: http.StatusInternalServerError}, http.StatusBadGateway},
		{"unreachable", &url.Error{Op: "Get", URL: "http://localhost:8000", Err: errors.New("connection refused")}, http.StatusBadGateway},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, body, ok := ErrorResponse(c.err)
			if !ok {
				t.Fatalf("ErrorResponse(%v) not classified", c.err)
			}
			if code != c.code {
				t.Errorf("code = %d, want %d", code, c.code)
			}
			if body == nil {
				t.Error("body is nil")
			}
		})
	}

	if _, _, ok := ErrorResponse(errors.New("boom")); ok {
		t.Error("unexpected error should not be classified")
	}
}

func TestErrorResponseDetail(t *testing.T) {
	_, body, _ := ErrorResponse(&apiclient.APIError{Status: http.StatusNotFound, Detail: "Course not found"})
	re, ok := body.(*RESTStandardError)
	if !ok {
		t.Fatalf("body type = %T", body)
	}
	if re.Detail != "Course not found" {
		t.Errorf("Detail = %q", re.Detail)
	}

	_, body, _ = ErrorResponse(validate.Errors{validate.NewFieldError("email", "email is required")})
	ve, ok := body.(*RESTValidationError)
	if !ok {
		t.Fatalf("body type = %T", body)
	}
	if len(ve.InvalidParams) != 1 || ve.InvalidParams[0].Domain != "email" {
		t.Errorf("InvalidParams = %+v", ve.InvalidParams)
	}
}

func TestHandlePage(t *testing.T) {
	e := echo.New()
	sessions := &fakeSessions{snap: &session.Snapshot{}}
	sh := NewShellHandler(sessions, nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	if err := sh.HandlePage(e.NewContext(req, rec)); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("anonymous /dashboard code = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/" {
		t.Errorf("Location = %q, want /", loc)
	}

	sessions.snap = &session.Snapshot{IsAuthenticated: true}
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec = httptest.NewRecorder()
	if err := sh.HandlePage(e.NewContext(req, rec)); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("authenticated /dashboard code = %d, want 200", rec.Code)
	}
	var view struct {
		Page struct {
			Name string `json:"name"`
		} `json:"page"`
		Nav []json.RawMessage `json:"nav"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if view.Page.Name != "dashboard" {
		t.Errorf("page = %q, want dashboard", view.Page.Name)
	}
	if len(view.Nav) == 0 {
		t.Error("authenticated page has no navigation")
	}
}

func TestHandleLogin(t *testing.T) {
	e := echo.New()
	sessions := &fakeSessions{snap: &session.Snapshot{}}
	sh := NewSessionHandler(sessions, validate.NewValidator("en"), auth.NewSessionCookie("prep_sid", false, time.Hour))

	t.Run("invalid form", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		if err := sh.HandleLogin(e.NewContext(req, rec)); err != nil {
			t.Fatal(err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %d, want 400", rec.Code)
		}
		if sessions.email != "" {
			t.Error("login attempted with an invalid form")
		}
	})

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ada@example.com","password":"secret"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		if err := sh.HandleLogin(e.NewContext(req, rec)); err != nil {
			t.Fatal(err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %d, want 200", rec.Code)
		}
		var snap session.Snapshot
		if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
			t.Fatal(err)
		}
		if !snap.IsAuthenticated {
			t.Error("snapshot is not authenticated after login")
		}
	})

	t.Run("rejected", func(t *testing.T) {
		sessions.loginErr = &session.Failure{Message: "Invalid email or password"}
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"ada@example.com","password":"wrong"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		err := sh.HandleLogin(e.NewContext(req, rec))
		var failure *session.Failure
		if !errors.As(err, &failure) {
			t.Fatalf("err = %v, want *session.Failure", err)
		}
	})
}

func TestIntParam(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("index")
	c.SetParamValues("x")
	if _, err := intParam(c, "index"); err == nil {
		t.Fatal("expected error for non integer param")
	} else if code, _, _ := ErrorResponse(err); code != http.StatusBadRequest {
		t.Errorf("code = %d, want 400", code)
	}
	c.SetParamValues("3")
	if n, err := intParam(c, "index"); err != nil || n != 3 {
		t.Errorf("intParam = %d, %v", n, err)
	}
}

func TestHandleLogoutClearsCookie(t *testing.T) {
	e := echo.New()
	sessions := &fakeSessions{snap: &session.Snapshot{IsAuthenticated: true}}
	sh := NewSessionHandler(sessions, validate.NewValidator("en"), auth.NewSessionCookie("prep_sid", false, time.Hour))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "prep_sid", Value: "sid-1"})
	rec := httptest.NewRecorder()
	if err := sh.HandleLogout(e.NewContext(req, rec)); err != nil {
		t.Fatal(err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "prep_sid" || cookies[0].MaxAge >= 0 {
		t.Fatalf("session cookie not cleared: %v", cookies)
	}
	var snap session.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatal(err)
	}
	if snap.IsAuthenticated {
		t.Error("snapshot still authenticated after logout")
	}
}
