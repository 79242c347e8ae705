package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// SessionCookie browser session cookie helper
type SessionCookie struct {
	name    string
	secure  bool
	timeout time.Duration
}

// NewSessionCookie create a SessionCookie instance
func NewSessionCookie(name string, secure bool, timeout time.Duration) *SessionCookie {
	return &SessionCookie{name: name, secure: secure, timeout: timeout}
}

// Set set session id in client cookie
func (sc *SessionCookie) Set(c echo.Context, sid string) {
	c.SetCookie(&http.Cookie{
		Name:     sc.name,
		Value:    sid,
		HttpOnly: true,
		Secure:   sc.secure,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sc.timeout),
	})
}

// Clear clear client cookie
func (sc *SessionCookie) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sc.name,
		Value:    "",
		HttpOnly: true,
		Secure:   sc.secure,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Extract get session id from request
func (sc *SessionCookie) Extract(c echo.Context) (string, error) {
	cookie, err := c.Cookie(sc.name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
