package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/infrastructure/auth"
	"github.com/pot-code/interview-prep/internal/infrastructure/uuid"
	"github.com/pot-code/interview-prep/internal/session"
)

// LoadSession bind the browser session id from the cookie to the request context,
// issuing a new id when the cookie is missing or malformed
func LoadSession(cookie *auth.SessionCookie, ids uuid.Generator, idLength int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid, err := cookie.Extract(c)
			if err != nil || len(sid) != idLength {
				if sid, err = ids.Generate(); err != nil {
					return err
				}
				cookie.Set(c, sid)
			}
			r := c.Request()
			c.SetRequest(r.WithContext(session.WithID(r.Context(), sid)))
			return next(c)
		}
	}
}

// RequireAuth reject sessions that are not authenticated
func RequireAuth(sessions session.SessionUseCase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snap, err := sessions.Snapshot(c.Request().Context())
			if err != nil {
				return err
			}
			if !snap.IsAuthenticated {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"code":  http.StatusUnauthorized,
					"title": http.StatusText(http.StatusUnauthorized),
				})
			}
			return next(c)
		}
	}
}
