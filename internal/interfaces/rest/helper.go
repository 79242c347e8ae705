package rest

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	echo_middleware "github.com/labstack/echo/v4/middleware"
)

// multipartOverhead room for multipart boundaries and headers on top of the file itself
const multipartOverhead = 1 << 20

type endpoint struct {
	apiVersion  string
	middlewares []echo.MiddlewareFunc
	groups      []*apiGroup
}

type apiGroup struct {
	prefix      string
	middlewares []echo.MiddlewareFunc
	routes      []*route
}

type route struct {
	method      string
	path        string
	handler     echo.HandlerFunc
	middlewares []echo.MiddlewareFunc
}

func createEndpoint(app *echo.Echo, def *endpoint) {
	root := app.Group("/"+strings.TrimPrefix(def.apiVersion, "/"), def.middlewares...)
	for _, group := range def.groups {
		echoGroup := root.Group(group.prefix, group.middlewares...)
		for _, api := range group.routes {
			echoGroup.Add(api.method, api.path, api.handler, api.middlewares...)
		}
	}
}

// uploadLimit reject request bodies larger than a max byte file plus its multipart framing, max <= 0 disables the limit
func uploadLimit(max int64) []echo.MiddlewareFunc {
	if max <= 0 {
		return nil
	}
	return []echo.MiddlewareFunc{echo_middleware.BodyLimit(fmt.Sprintf("%dB", max+multipartOverhead))}
}
