package backend_test

import (
	"errors"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/folio/internal/backend"
	"github.com/nfrund/folio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAPI starts an echo server mounted under /api and returns a client for it.
func newTestAPI(t *testing.T, register func(g *echo.Group)) *backend.Client {
	t.Helper()
	e := echo.New()
	register(e.Group("/api"))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return backend.NewClient(backend.Config{APIURL: srv.URL + "/api/"})
}

func TestClient_ListProjectsByTechnology(t *testing.T) {
	var gotAuth string
	client := newTestAPI(t, func(g *echo.Group) {
		g.GET("/projects/technology/:tech", func(c echo.Context) error {
			gotAuth = c.Request().Header.Get("Authorization")
			return c.JSONBlob(http.StatusOK, []byte(`[{"id":1,"title":"`+c.Param("tech")+`","technology":"flutter","images":[]}]`))
		})
	})

	projects, err := client.ListProjectsByTechnology(context.Background(), domain.Flutter)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "flutter", projects[0].Title)
	assert.Empty(t, gotAuth, "public reads carry no Authorization header")
}

func TestClient_ListProjectsFiltered(t *testing.T) {
	var paths []string
	client := newTestAPI(t, func(g *echo.Group) {
		handler := func(c echo.Context) error {
			paths = append(paths, c.Request().URL.Path)
			return c.JSONBlob(http.StatusOK, []byte(`[]`))
		}
		g.GET("/projects", handler)
		g.GET("/projects/technology/:tech", handler)
	})

	_, err := client.ListProjectsFiltered(context.Background(), domain.ParseListFilter("all"))
	require.NoError(t, err)
	_, err = client.ListProjectsFiltered(context.Background(), domain.ParseListFilter("kotlin"))
	require.NoError(t, err)

	assert.Equal(t, []string{"/api/projects", "/api/projects/technology/kotlin"}, paths)
}

func TestClient_GetProject_Errors(t *testing.T) {
	client := newTestAPI(t, func(g *echo.Group) {
		g.GET("/projects/404", func(c echo.Context) error {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Project not found"})
		})
		g.GET("/projects/500", func(c echo.Context) error {
			return c.String(http.StatusInternalServerError, "boom")
		})
		g.GET("/projects/7", func(c echo.Context) error {
			return c.String(http.StatusOK, "<html>not json</html>")
		})
	})
	ctx := context.Background()

	t.Run("not found maps to the domain sentinel", func(t *testing.T) {
		_, err := client.GetProject(ctx, 404)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "Project not found")
	})

	t.Run("server error keeps the raw body", func(t *testing.T) {
		_, err := client.GetProject(ctx, 500)
		var apiErr *backend.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
		assert.Equal(t, "boom", apiErr.Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := client.GetProject(ctx, 7)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decoding GET /projects/7")
	})
}

func TestClient_CreateProject_Multipart(t *testing.T) {
	type received struct {
		auth, title, tech, filename, fileContentType, fileBody string
	}
	var got received
	client := newTestAPI(t, func(g *echo.Group) {
		g.POST("/projects", func(c echo.Context) error {
			got.auth = c.Request().Header.Get("Authorization")
			got.title = c.FormValue("title")
			got.tech = c.FormValue("technology")
			form, err := c.MultipartForm()
			if err != nil {
				return err
			}
			files := form.File["images"]
			if len(files) == 1 {
				got.filename = files[0].Filename
				got.fileContentType = files[0].Header.Get("Content-Type")
				f, _ := files[0].Open()
				data, _ := io.ReadAll(f)
				f.Close()
				got.fileBody = string(data)
			}
			return c.JSON(http.StatusCreated, map[string]any{"success": true})
		})
	})

	form := &backend.ProjectForm{
		Input: domain.ProjectInput{Title: "Budget Buddy", Technology: "flutter", Description: "d"},
		Images: []backend.Upload{{
			Filename:    "shot.png",
			ContentType: "image/png",
			Open: func() (io.ReadCloser, error) {
				return io.NopCloser(strings.NewReader("PNGDATA")), nil
			},
		}},
	}

	result, err := client.CreateProject(context.Background(), "tok123", form)
	require.NoError(t, err)
	assert.True(t, result.Success)

	assert.Equal(t, "Bearer tok123", got.auth)
	assert.Equal(t, "Budget Buddy", got.title)
	assert.Equal(t, "flutter", got.tech)
	assert.Equal(t, "shot.png", got.filename)
	assert.Equal(t, "image/png", got.fileContentType)
	assert.Equal(t, "PNGDATA", got.fileBody)
}

func TestClient_ResultEnvelopes(t *testing.T) {
	client := newTestAPI(t, func(g *echo.Group) {
		g.DELETE("/projects/1", func(c echo.Context) error {
			return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "Project is locked"})
		})
		g.DELETE("/images/2", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]any{"success": true})
		})
		g.DELETE("/images/3", func(c echo.Context) error {
			return c.String(http.StatusBadGateway, "upstream down")
		})
	})
	ctx := context.Background()

	result, err := client.DeleteProject(ctx, "tok", 1)
	require.NoError(t, err, "an error envelope is an answer, not a failure")
	assert.False(t, result.Success)
	assert.Equal(t, "Project is locked", result.Error)

	result, err = client.DeleteImage(ctx, "tok", 2)
	require.NoError(t, err)
	assert.True(t, result.Success)

	_, err = client.DeleteImage(ctx, "tok", 3)
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestClient_AuthStatus(t *testing.T) {
	client := newTestAPI(t, func(g *echo.Group) {
		g.GET("/auth/status", func(c echo.Context) error {
			if c.Request().Header.Get("Authorization") != "Bearer good" {
				return c.JSON(http.StatusUnauthorized, map[string]any{"authenticated": false})
			}
			return c.JSON(http.StatusOK, map[string]any{"authenticated": true, "email": "admin@example.com"})
		})
	})
	ctx := context.Background()

	status, err := client.AuthStatus(ctx, "good")
	require.NoError(t, err)
	assert.True(t, status.Authenticated)
	assert.Equal(t, "admin@example.com", status.Email)

	status, err = client.AuthStatus(ctx, "")
	require.NoError(t, err)
	assert.False(t, status.Authenticated)
}

func TestClient_Login(t *testing.T) {
	client := newTestAPI(t, func(g *echo.Group) {
		g.POST("/login", func(c echo.Context) error {
			var body struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			if err := c.Bind(&body); err != nil {
				return err
			}
			if body.Password != "secret" {
				return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid credentials"})
			}
			return c.JSON(http.StatusOK, map[string]any{"token": "jwt-token"})
		})
	})
	ctx := context.Background()

	result, err := client.Login(ctx, "admin@example.com", "secret")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "jwt-token", result.Token)

	result, err = client.Login(ctx, "admin@example.com", "wrong")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid credentials", result.Error)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := backend.NewClient(backend.Config{APIURL: url + "/api"})
	_, err := client.ListProjects(context.Background())
	require.Error(t, err)
	var apiErr *backend.APIError
	assert.False(t, errors.As(err, &apiErr), "a refused connection is not an API answer")
}

func TestPool_ReusesClients(t *testing.T) {
	pool := backend.NewPool(nil, nil)
	a := pool.For("http://localhost:3000/api")
	b := pool.For("http://localhost:3000/api/")
	c := pool.For("https://api.example.com/api")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "https://api.example.com/api", c.APIURL())
}
