package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
)

// ErrorHandlingOption options for error handling
type ErrorHandlingOption struct {
	// Classify map an expected error to a status and response body, ok is false for unexpected errors
	Classify func(err error) (code int, body interface{}, ok bool)
	// Handler reply to unexpected errors and panics
	Handler func(c echo.Context, err error)
}

// PanicError value recovered from a panicking handler
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (pe *PanicError) Error() string {
	return fmt.Sprintf("%v", pe.Value)
}

// ErrorHandling turn errors returned or panicked by handlers into responses
// **DO NOT return error anymore**
func ErrorHandling(options ...*ErrorHandlingOption) echo.MiddlewareFunc {
	custom := &ErrorHandlingOption{
		Classify: func(error) (int, interface{}, bool) { return 0, nil, false },
		Handler: func(c echo.Context, err error) {
			c.String(http.StatusInternalServerError, err.Error())
		},
	}
	if len(options) > 0 {
		option := options[0]
		if option.Classify != nil {
			custom.Classify = option.Classify
		}
		if option.Handler != nil {
			custom.Handler = option.Handler
		}
	}
	classify, handler := custom.Classify, custom.Handler
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if v := recover(); v != nil {
					handler(c, &PanicError{Value: v, Stack: debug.Stack()})
				}
			}()
			err := next(c)
			if err == nil || c.Response().Committed {
				return nil
			}
			if v, ok := err.(*echo.HTTPError); ok {
				c.JSON(v.Code, echo.Map{"code": v.Code, "title": http.StatusText(v.Code), "detail": fmt.Sprint(v.Message)})
			} else if code, body, ok := classify(err); ok {
				c.JSON(code, body)
			} else {
				handler(c, err)
			}
			return nil
		}
	}
}
