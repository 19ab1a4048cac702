package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/sessions"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/folio/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestMaxAge(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{"expiry in one hour", signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}), 3600},
		{"no expiry claim", signedToken(t, jwt.MapClaims{"sub": "admin"}), session.DefaultMaxAge},
		{"already expired", signedToken(t, jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}), session.ExpiredMaxAge},
		{"opaque token", "not-a-jwt", session.DefaultMaxAge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, session.MaxAge(tt.token, now))
		})
	}
}

func TestSetToken_ExpiredTokenIsNotKept(t *testing.T) {
	e := echo.New()
	store := sessions.NewCookieStore([]byte("a-very-secret-key-for-testing-!"))
	store.Options = session.Options(false)
	e.Use(echosession.Middleware(store))
	e.POST("/set", func(c echo.Context) error {
		if err := session.SetToken(c, c.FormValue("token")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})

	expired := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/set?token="+expired, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, session.Name, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0, "the browser must drop the cookie right away")
}

func TestToken_RoundTrip(t *testing.T) {
	e := echo.New()
	store := sessions.NewCookieStore([]byte("a-very-secret-key-for-testing-!"))
	store.Options = session.Options(false)
	e.Use(echosession.Middleware(store))

	e.POST("/set", func(c echo.Context) error {
		if err := session.SetToken(c, c.FormValue("token")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/get", func(c echo.Context) error {
		return c.String(http.StatusOK, session.Token(c))
	})
	e.POST("/clear", func(c echo.Context) error {
		if err := session.ClearToken(c); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})

	// Without a cookie there is no token.
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get", nil))
	assert.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/set?token=abc123", nil)
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, session.Name, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cookies[0])
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc123", rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/clear", nil)
	req.AddCookie(cookies[0])
	e.ServeHTTP(rec, req)
	cleared := rec.Result().Cookies()
	require.NotEmpty(t, cleared)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/get", nil)
	req.AddCookie(cleared[0])
	e.ServeHTTP(rec, req)
	assert.Empty(t, rec.Body.String())
}

func TestStagingScope_IsStablePerSession(t *testing.T) {
	e := echo.New()
	store := sessions.NewCookieStore([]byte("a-very-secret-key-for-testing-!"))
	e.Use(echosession.Middleware(store))

	var scopes []string
	e.GET("/scope", func(c echo.Context) error {
		first, err := session.StagingScope(c)
		if err != nil {
			return err
		}
		second, err := session.StagingScope(c)
		if err != nil {
			return err
		}
		scopes = append(scopes, first, second)
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scope", nil))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/scope", nil)
	req.AddCookie(cookies[len(cookies)-1])
	e.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, scopes, 4)
	assert.NotEmpty(t, scopes[0])
	for _, s := range scopes[1:] {
		assert.Equal(t, scopes[0], s)
	}
}
