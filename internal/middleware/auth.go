package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/folio/internal/session"
	hxhttp "maragu.dev/gomponents-htmx/http"
)

const (
	// AdminEmailContextKey holds the signed-in admin's email.
	AdminEmailContextKey = "adminEmail"

	// LoginPath is where unauthenticated admin requests are sent.
	LoginPath = "/login"

	authCheckFailedMessage = "Authentication check failed. Please try refreshing the page."
)

// AdminAuth protects the admin console. Every request asks the API whether the
// session's token is still valid. A rejected or missing token navigates to the
// login page; an unreachable API answers 502 without navigating.
func AdminAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			logger := FromContext(ctx)

			status, err := BackendFrom(c).AuthStatus(ctx, session.Token(c))
			if err != nil {
				logger.Error("Auth status check failed", "error", err)
				return c.String(http.StatusBadGateway, authCheckFailedMessage)
			}
			if !status.Authenticated {
				logger.Debug("Not authenticated, redirecting to login", "path", c.Request().URL.Path)
				if err := session.ClearToken(c); err != nil {
					logger.Warn("Failed to clear session token", "error", err)
				}
				return RedirectToLogin(c)
			}

			c.Set(AdminEmailContextKey, status.Email)
			return next(c)
		}
	}
}

// RedirectToLogin navigates the browser to the login page. htmx requests get an
// HX-Redirect header so the whole page changes instead of a fragment.
func RedirectToLogin(c echo.Context) error {
	if hxhttp.IsRequest(c.Request().Header) {
		hxhttp.SetRedirect(c.Response().Header(), LoginPath)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, LoginPath)
}

// AdminEmail returns the email set by AdminAuth.
func AdminEmail(c echo.Context) string {
	email, _ := c.Get(AdminEmailContextKey).(string)
	return email
}
