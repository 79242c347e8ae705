package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/session"
	"github.com/pot-code/interview-prep/internal/workspace"
)

// bindAndValidate decode request body into form and check its validate tags,
// a non-nil error is written as the response already
func bindAndValidate(c echo.Context, v validate.Validator, form interface{}) (bool, error) {
	if err := c.Bind(form); err != nil {
		return false, c.JSON(http.StatusBadRequest, NewRESTStandardError(http.StatusBadRequest, "Malformed request body"))
	}
	if v == nil {
		return true, nil
	}
	if errs := v.Struct(form); len(errs) > 0 {
		return false, c.JSON(http.StatusBadRequest, NewRESTValidationError(http.StatusBadRequest, "Failed to validate params", errs))
	}
	return true, nil
}

// intParam path parameter as int
func intParam(c echo.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, validate.Errors{validate.NewFieldError(name, name+" must be an integer")}
	}
	return n, nil
}

// workspaceOf wizard state of the session bound to the request
func workspaceOf(c echo.Context, registry *workspace.Registry) (*workspace.Workspace, error) {
	sid, ok := session.IDFromContext(c.Request().Context())
	if !ok {
		return nil, session.ErrNoSession
	}
	return registry.Get(sid), nil
}
