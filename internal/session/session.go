// Package session keeps the admin bearer token and the upload staging scope in
// the signed cookie session.
package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// Name is the cookie session holding admin state.
	Name = "folio-session"

	tokenKey = "authToken"
	scopeKey = "stagingScope"

	// DefaultMaxAge applies when the token carries no readable expiry.
	DefaultMaxAge = 86400 * 7
	// ExpiredMaxAge makes the browser drop the cookie at once.
	ExpiredMaxAge = -1
)

// Options returns the cookie options used by the session store.
func Options(secure bool) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   DefaultMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func get(c echo.Context) (*sessions.Session, error) {
	return session.Get(Name, c)
}

// Token returns the stored bearer token, or "" when there is none.
func Token(c echo.Context) string {
	sess, err := get(c)
	if err != nil {
		return ""
	}
	token, _ := sess.Values[tokenKey].(string)
	return token
}

// SetToken stores token and sizes the cookie lifetime to the token's expiry.
func SetToken(c echo.Context, token string) error {
	sess, err := get(c)
	if err != nil {
		return err
	}
	sess.Values[tokenKey] = token
	opts := Options(false)
	if sess.Options != nil {
		copied := *sess.Options
		opts = &copied
	}
	opts.MaxAge = MaxAge(token, time.Now())
	sess.Options = opts
	return sess.Save(c.Request(), c.Response())
}

// ClearToken removes the token and the staging scope from the session.
func ClearToken(c echo.Context) error {
	sess, err := get(c)
	if err != nil {
		return err
	}
	delete(sess.Values, tokenKey)
	delete(sess.Values, scopeKey)
	return sess.Save(c.Request(), c.Response())
}

// StagingScope returns the id that groups this session's staged uploads,
// creating one on first use.
func StagingScope(c echo.Context) (string, error) {
	sess, err := get(c)
	if err != nil {
		return "", err
	}
	if scope, ok := sess.Values[scopeKey].(string); ok && scope != "" {
		return scope, nil
	}
	scope := uuid.NewString()
	sess.Values[scopeKey] = scope
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return "", err
	}
	return scope, nil
}

// MaxAge returns the cookie lifetime in seconds for token. The token is only
// decoded, never verified: the API stays the authority on its validity. A token
// that has already expired gets ExpiredMaxAge.
func MaxAge(token string, now time.Time) int {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return DefaultMaxAge
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return DefaultMaxAge
	}
	remaining := int(exp.Sub(now).Seconds())
	if remaining <= 0 {
		return ExpiredMaxAge
	}
	return remaining
}
