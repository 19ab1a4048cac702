package showcase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/folio/internal/backend"
	"github.com/nfrund/folio/internal/config"
	"github.com/nfrund/folio/internal/domain"
	"github.com/nfrund/folio/internal/middleware"
	"github.com/nfrund/folio/internal/modules/showcase"
	"github.com/nfrund/folio/internal/rendering"
	"github.com/nfrund/folio/internal/testutils"
	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*echo.Echo, *testutils.FakeBackend) {
	t.Helper()
	fake := testutils.NewFakeBackend(t)

	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("a-very-secret-key-for-testing-!"))))
	e.Use(middleware.Environment(config.NewResolver(fake.Profiles(), "", nil), backend.NewPool(nil, nil)))

	injector := do.New()
	do.ProvideValue[rendering.Renderer](injector, rendering.NewUniversalRenderer())
	require.NoError(t, showcase.New().Boot(context.Background(), e.Group(""), injector))
	return e, fake
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHome_RendersSectionShells(t *testing.T) {
	e, fake := setup(t)

	rec := get(e, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	for _, id := range []string{showcase.ReactNativeContainerID, showcase.FlutterContainerID, showcase.NativeContainerID} {
		assert.Contains(t, body, `id="`+id+`"`)
	}
	assert.Contains(t, body, `hx-get="/sections/react-native?container=reactNativeProjects"`)
	assert.Contains(t, body, `hx-get="/sections/java?container=nativeProjects"`)
	assert.Contains(t, body, `hx-trigger="load"`)
	assert.Contains(t, body, `class="tab-btn active" data-tech="java"`)
	assert.Contains(t, body, `hx-sync="#nativeProjects:replace"`, "tab clicks abort the container's in-flight load")
	assert.NotContains(t, body, `hx-sync="#nativeTabs:replace"`)
	assert.Contains(t, body, `id="projectModal"`)
	assert.Empty(t, fake.Requests(), "the shell itself does not call the API")
}

func TestSection(t *testing.T) {
	e, fake := setup(t)

	t.Run("empty", func(t *testing.T) {
		rec := get(e, "/sections/flutter?container=flutterProjects")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No projects yet. Check back soon!")
		assert.Equal(t, 1, fake.Calls(http.MethodGet, "/api/projects/technology/flutter"))
	})

	t.Run("cards", func(t *testing.T) {
		long := strings.Repeat("a", 160)
		p := fake.AddProject(domain.Project{
			Title:       "Budget Buddy",
			Technology:  domain.Flutter,
			Description: long,
			Features:    "Offline mode\nCharts\nSync\nExport",
			Images: []domain.Image{
				{ImagePath: "/uploads/first.png"},
				{ImagePath: "/uploads/primary.png", IsPrimary: true},
			},
		})
		fake.AddProject(domain.Project{Title: "No Pictures", Technology: domain.Flutter, Description: "d"})

		body := get(e, "/sections/flutter?container=flutterProjects").Body.String()

		assert.Equal(t, 2, strings.Count(body, `class="project-card"`))
		assert.Contains(t, body, `src="`+fake.BaseURL()+`/uploads/primary.png"`)
		assert.NotContains(t, body, "first.png", "cards show only the primary image")
		assert.Contains(t, body, strings.Repeat("a", 150)+"...")
		assert.NotContains(t, body, strings.Repeat("a", 151))
		assert.Contains(t, body, "• Sync")
		assert.NotContains(t, body, "Export", "cards list at most three features")
		assert.Contains(t, body, `<span class="tag">FLUTTER</span>`)
		assert.Contains(t, body, `hx-get="/projects/`+itoa(p.ID)+`/modal"`)
		assert.Contains(t, body, `class="project-image-placeholder">🎯</div>`)
		assert.NotContains(t, body, `id="nativeTabs"`)
	})

	t.Run("backend failure", func(t *testing.T) {
		fake.Fail(http.MethodGet, "/projects/technology/:tech", http.StatusInternalServerError, "boom")
		rec := get(e, "/sections/kotlin?container=nativeProjects")

		assert.Equal(t, http.StatusOK, rec.Code, "the placeholder is swapped in like any fragment")
		assert.Contains(t, rec.Body.String(), "Error loading projects. Please try again later.")
		assert.Contains(t, rec.Body.String(), `class="tab-btn active" data-tech="kotlin"`)
		assert.Contains(t, rec.Body.String(), `hx-swap-oob="true"`)
	})

	t.Run("unknown technology", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(e, "/sections/cobol").Code)
	})
}

func TestModal(t *testing.T) {
	e, fake := setup(t)
	p := fake.AddProject(domain.Project{
		Title:       "Trail Mate",
		Technology:  domain.ReactNative,
		Description: "Hike **offline**",
		Features:    "GPS\n\n  \nMaps",
		VideoLink:   "https://www.youtube.com/watch?v=abc123&t=10",
		GithubLink:  "https://github.com/example/trail",
		Images:      []domain.Image{{ImagePath: "/uploads/a.png"}, {ImagePath: "/uploads/b.png"}},
	})

	body := get(e, "/projects/"+itoa(p.ID)+"/modal").Body.String()

	assert.Contains(t, body, "<h2>Trail Mate</h2>")
	assert.Contains(t, body, "REACT-NATIVE")
	assert.Contains(t, body, "<strong>offline</strong>")
	assert.Contains(t, body, `src="https://www.youtube.com/embed/abc123"`)
	assert.Contains(t, body, fake.BaseURL()+"/uploads/b.png")
	assert.Equal(t, 2, strings.Count(body, "<li>"), "blank feature lines are skipped")
	assert.Contains(t, body, `href="https://github.com/example/trail"`)
	assert.NotContains(t, body, "Play Store")

	rec := get(e, "/projects/999/modal")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error loading project details.")
}

func TestConfig(t *testing.T) {
	e, fake := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/config.json", nil)
	req.Host = "localhost:8080"
	req.RemoteAddr = "127.0.0.1:51000"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var cfg map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "development", cfg["ENV"])
	assert.Equal(t, fake.APIURL(), cfg["API_URL"])
	assert.Equal(t, fake.BaseURL(), cfg["BASE_URL"])
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
