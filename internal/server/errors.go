package server

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/folio/internal/middleware"
	"github.com/nfrund/folio/internal/view"
	"github.com/nfrund/folio/web/src/templates/layouts"
	g "maragu.dev/gomponents"
	hxhttp "maragu.dev/gomponents-htmx/http"
	. "maragu.dev/gomponents/html"
)

const msgUnhandled = "Something went wrong. Please try again."

// setupErrorHandling installs the HTTP error handler. Expected errors keep
// echo's default response; anything else is logged with a stack trace and
// answered with a generic 500.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var he *echo.HTTPError
		if errors.As(err, &he) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		middleware.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
			"error", err,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"stack_trace", string(debug.Stack()))

		if hxhttp.IsRequest(c.Request().Header) {
			// htmx drops 5xx bodies, out-of-band parts included.
			hxhttp.SetReswap(c.Response().Header(), "none")
			_ = renderNode(c, http.StatusOK, view.Notification(view.NotificationError, msgUnhandled))
			return
		}
		_ = renderNode(c, http.StatusInternalServerError, layouts.Base("Error", view.FlashData{},
			Main(Class("error-page"), H1(g.Text("Internal Server Error")), P(g.Text(msgUnhandled)), A(Href("/"), g.Text("Back to the portfolio"))),
		))
	}
}

func renderNode(c echo.Context, status int, node g.Node) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return node.Render(c.Response().Writer)
}
