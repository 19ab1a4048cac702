package testutils

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/folio/internal/config"
	"github.com/nfrund/folio/internal/domain"
)

// Default credentials accepted by FakeBackend.
const (
	AdminEmail    = "admin@example.com"
	AdminPassword = "correct-horse"
	AdminToken    = "valid-admin-token"
)

// Request is one call received by FakeBackend.
type Request struct {
	Method        string
	Path          string
	Authorization string
	// Fields holds the form values of multipart requests.
	Fields url.Values
	// Files holds the filenames sent in the images field.
	Files []string
	// Body holds the raw body of non-multipart requests.
	Body string
}

// FakeBackend is an in-memory portfolio API served over HTTP. It keeps a small
// project catalog, records every request, and lets tests replace any route.
type FakeBackend struct {
	Server *httptest.Server

	mu          sync.Mutex
	requests    []Request
	projects    map[int64]domain.Project
	nextProject int64
	nextImage   int64
	overrides   map[string]echo.HandlerFunc
}

// NewFakeBackend starts a fake API that is shut down when the test ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{
		projects:    make(map[int64]domain.Project),
		nextProject: 1,
		nextImage:   1,
		overrides:   make(map[string]echo.HandlerFunc),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(f.record)

	api := e.Group("/api")
	api.GET("/auth/status", f.authStatus)
	api.POST("/login", f.login)
	api.POST("/logout", f.logout)
	api.GET("/projects", f.listProjects)
	api.GET("/projects/technology/:tech", f.listProjects)
	api.GET("/projects/:id", f.getProject)
	api.POST("/projects", f.createProject, f.requireToken)
	api.PUT("/projects/:id", f.updateProject, f.requireToken)
	api.DELETE("/projects/:id", f.deleteProject, f.requireToken)
	api.DELETE("/images/:id", f.deleteImage, f.requireToken)

	f.Server = httptest.NewServer(e)
	t.Cleanup(f.Server.Close)
	return f
}

// APIURL is the REST root of the fake, as configured in an environment profile.
func (f *FakeBackend) APIURL() string { return f.Server.URL + "/api" }

// BaseURL is the root image paths are resolved against.
func (f *FakeBackend) BaseURL() string { return f.Server.URL }

// Profiles points both environments at the fake.
func (f *FakeBackend) Profiles() config.Profiles {
	endpoints := config.Endpoints{APIURL: f.APIURL(), BaseURL: f.BaseURL()}
	return config.Profiles{Development: endpoints, Production: endpoints}
}

// Override replaces the handler for method and route, where route uses echo
// syntax relative to /api (e.g. "/projects/:id").
func (f *FakeBackend) Override(method, route string, h echo.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overrides[method+" /api"+route] = h
}

// Fail makes method and route answer with status and a raw body.
func (f *FakeBackend) Fail(method, route string, status int, body string) {
	f.Override(method, route, func(c echo.Context) error {
		return c.String(status, body)
	})
}

// AddProject stores p, assigning ids to it and its images when they are zero,
// and returns the stored copy.
func (f *FakeBackend) AddProject(p domain.Project) domain.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == 0 {
		p.ID = f.nextProject
	}
	if p.ID >= f.nextProject {
		f.nextProject = p.ID + 1
	}
	for i := range p.Images {
		if p.Images[i].ID == 0 {
			p.Images[i].ID = f.nextImage
		}
		if p.Images[i].ID >= f.nextImage {
			f.nextImage = p.Images[i].ID + 1
		}
	}
	f.projects[p.ID] = p
	return p
}

// Project returns the stored project with id.
func (f *FakeBackend) Project(id int64) (domain.Project, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	return p, ok
}

// Requests returns a copy of every request received so far.
func (f *FakeBackend) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Calls counts the requests received for method and the exact URL path.
func (f *FakeBackend) Calls(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// LastRequest returns the most recent request for method and path.
func (f *FakeBackend) LastRequest(method, path string) (Request, bool) {
	reqs := f.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return Request{}, false
}

// Reset forgets recorded requests, keeping the catalog.
func (f *FakeBackend) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = nil
}

func (f *FakeBackend) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		rec := Request{
			Method:        req.Method,
			Path:          req.URL.Path,
			Authorization: req.Header.Get("Authorization"),
		}
		if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
			if err := req.ParseMultipartForm(32 << 20); err == nil {
				rec.Fields = url.Values(req.MultipartForm.Value)
				for _, fh := range req.MultipartForm.File["images"] {
					rec.Files = append(rec.Files, fh.Filename)
				}
			}
		} else if req.Body != nil {
			body, _ := io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
			rec.Body = string(body)
		}

		f.mu.Lock()
		f.requests = append(f.requests, rec)
		override := f.overrides[req.Method+" "+c.Path()]
		f.mu.Unlock()

		if override != nil {
			return override(c)
		}
		return next(c)
	}
}

func bearer(c echo.Context) string {
	return strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
}

func (f *FakeBackend) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if bearer(c) != AdminToken {
			return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "Unauthorized"})
		}
		return next(c)
	}
}

func (f *FakeBackend) authStatus(c echo.Context) error {
	if bearer(c) != AdminToken {
		return c.JSON(http.StatusUnauthorized, map[string]any{"authenticated": false})
	}
	return c.JSON(http.StatusOK, map[string]any{"authenticated": true, "email": AdminEmail})
}

func (f *FakeBackend) login(c echo.Context) error {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid request"})
	}
	if creds.Email != AdminEmail || creds.Password != AdminPassword {
		return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "error": "Invalid credentials"})
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "token": AdminToken})
}

func (f *FakeBackend) logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (f *FakeBackend) listProjects(c echo.Context) error {
	tech := domain.Technology(c.Param("tech"))

	f.mu.Lock()
	projects := make([]domain.Project, 0, len(f.projects))
	for _, p := range f.projects {
		if tech == "" || p.Technology == tech {
			projects = append(projects, p)
		}
	}
	f.mu.Unlock()

	sort.Slice(projects, func(i, j int) bool { return projects[i].ID > projects[j].ID })
	return c.JSON(http.StatusOK, projects)
}

func (f *FakeBackend) getProject(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "Invalid project id"})
	}
	p, ok := f.Project(id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "Project not found"})
	}
	return c.JSON(http.StatusOK, p)
}

func (f *FakeBackend) createProject(c echo.Context) error {
	p := domain.Project{}
	applyForm(c, &p)
	if p.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"success": false, "error": "Title is required"})
	}
	p.Images = uploadedImages(c, len(p.Images) == 0)
	stored := f.AddProject(p)
	return c.JSON(http.StatusCreated, map[string]any{"success": true, "projectId": stored.ID})
}

func (f *FakeBackend) updateProject(c echo.Context) error {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	p, ok := f.Project(id)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "Project not found"})
	}
	applyForm(c, &p)
	p.Images = append(p.Images, uploadedImages(c, len(p.Images) == 0)...)
	f.AddProject(p)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (f *FakeBackend) deleteProject(c echo.Context) error {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[id]; !ok {
		return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "Project not found"})
	}
	delete(f.projects, id)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

func (f *FakeBackend) deleteImage(c echo.Context) error {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	f.mu.Lock()
	defer f.mu.Unlock()
	for pid, p := range f.projects {
		for i, img := range p.Images {
			if img.ID == id {
				p.Images = append(p.Images[:i:i], p.Images[i+1:]...)
				f.projects[pid] = p
				return c.JSON(http.StatusOK, map[string]any{"success": true})
			}
		}
	}
	return c.JSON(http.StatusNotFound, map[string]any{"success": false, "error": "Image not found"})
}

func applyForm(c echo.Context, p *domain.Project) {
	set := func(field string, dst *string) {
		if v := c.FormValue(field); v != "" {
			*dst = v
		}
	}
	set("title", &p.Title)
	set("description", &p.Description)
	set("features", &p.Features)
	set("video_link", &p.VideoLink)
	set("github_link", &p.GithubLink)
	set("playstore_link", &p.PlaystoreLink)
	set("appstore_link", &p.AppstoreLink)
	if v := c.FormValue("technology"); v != "" {
		p.Technology = domain.Technology(v)
	}
}

// uploadedImages turns the images field into image records; the first becomes
// primary when the project has none yet.
func uploadedImages(c echo.Context, firstIsPrimary bool) []domain.Image {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	var images []domain.Image
	for i, fh := range form.File["images"] {
		images = append(images, domain.Image{
			ImagePath: "/uploads/" + fh.Filename,
			IsPrimary: domain.Flag(firstIsPrimary && i == 0),
		})
	}
	return images
}
