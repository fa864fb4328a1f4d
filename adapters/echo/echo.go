// Package nanocmpecho provides Echo framework integration for nanocmp.
//
// Post-process every HTML response of an Echo instance or group:
//
//	e := echo.New()
//	e.Use(nanocmpecho.Middleware(setup, nanocmp.Options{}))
//
// Or render a single templ page with its own components:
//
//	func handler(c echo.Context) error {
//	    return nanocmpecho.Render(c, page(), setup, nanocmp.Options{})
//	}
package nanocmpecho

import (
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/nanocmp"
)

// Middleware returns Echo middleware that runs every text/html response
// through nanocmp.Process with a fresh registry built by setup.
func Middleware(setup nanocmp.SetupFunc, opts nanocmp.Options) echo.MiddlewareFunc {
	return echo.WrapMiddleware(nanocmp.Middleware(setup, opts))
}

// Render writes a processed templ component to the Echo response.
func Render(c echo.Context, component templ.Component, setup nanocmp.SetupFunc, opts nanocmp.Options) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	return nanocmp.Wrap(component, setup, opts).Render(c.Request().Context(), c.Response())
}
