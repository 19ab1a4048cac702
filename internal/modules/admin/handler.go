package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/folio/internal/activity"
	"github.com/nfrund/folio/internal/backend"
	"github.com/nfrund/folio/internal/domain"
	"github.com/nfrund/folio/internal/middleware"
	"github.com/nfrund/folio/internal/rendering"
	"github.com/nfrund/folio/internal/session"
	"github.com/nfrund/folio/internal/storage"
	"github.com/nfrund/folio/internal/view"
	"github.com/nfrund/folio/web/src/templates/layouts"
	hxhttp "maragu.dev/gomponents-htmx/http"
)

const (
	msgLoginFailed       = "Login failed. Please try again."
	msgInvalidLogin      = "Invalid email or password."
	msgLoggedIn          = "Logged in successfully!"
	msgProjectAdded      = "Project added successfully!"
	msgProjectUpdated    = "Project updated successfully!"
	msgProjectDeleted    = "Project deleted successfully!"
	msgImageDeleted      = "Image deleted successfully!"
	msgAddRetry          = "Error adding project. Please try again."
	msgUpdateRetry       = "Error updating project. Please try again."
	msgDeleteRetry       = "Error deleting project. Please try again."
	msgDeleteImageRetry  = "Error deleting image. Please try again."
	msgEditLoadError     = "Error loading project details."
	msgUploadReadError   = "Error reading the selected images."
	msgUploadsRejected   = "Some images were not added: "
	msgUploadStoreFailed = "could not be stored"
)

// Handler serves the login page and the admin console.
type Handler struct {
	renderer rendering.Renderer
	stager   *storage.Stager
	recorder *activity.Recorder
	feed     *activity.Feed
}

// NewHandler creates a new Handler.
func NewHandler(r rendering.Renderer, stager *storage.Stager, recorder *activity.Recorder, feed *activity.Feed) *Handler {
	return &Handler{
		renderer: r,
		stager:   stager,
		recorder: recorder,
		feed:     feed,
	}
}

// LoginPage renders the login form (GET /login).
func (h *Handler) LoginPage(c echo.Context) error {
	return h.renderer.RenderPage(c, http.StatusOK, layouts.Base("Login", view.GetFlashData(c), loginPage()))
}

// Login relays the credentials to the API and keeps the returned token in the
// session (POST /login).
func (h *Handler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)
	email := strings.TrimSpace(c.FormValue("email"))

	result, err := middleware.BackendFrom(c).Login(ctx, email, c.FormValue("password"))
	if err != nil {
		logger.Error("Login request failed", "error", err)
		view.SetFlashError(c, msgLoginFailed)
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}
	if !result.Success || result.Token == "" {
		logger.Warn("Failed login attempt", "email", email, "reason", result.Error)
		msg := result.Error
		if msg == "" {
			msg = msgInvalidLogin
		}
		view.SetFlashError(c, msg)
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}

	if err := session.SetToken(c, result.Token); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	view.SetFlashSuccess(c, msgLoggedIn)
	return c.Redirect(http.StatusSeeOther, "/admin")
}

// Logout drops the local token first, then tells the API. The browser lands on
// the login page whatever the API answers.
func (h *Handler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	token := session.Token(c)
	if err := session.ClearToken(c); err != nil {
		logger.Warn("Failed to clear session token", "error", err)
	}
	if err := middleware.BackendFrom(c).Logout(ctx, token); err != nil {
		logger.Warn("Logout request failed", "error", err)
	}
	return middleware.RedirectToLogin(c)
}

// Dashboard renders the admin console (GET /admin).
func (h *Handler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	scope, err := h.uploadScope(c, createUploadSlot)
	if err != nil {
		return err
	}
	state := ListState{Filter: domain.ParseListFilter(c.QueryParam("technology"))}
	page := dashboardPage(middleware.AdminEmail(c), state, h.previews(ctx, scope), h.feed.Recent())
	return h.renderer.RenderPage(c, http.StatusOK, layouts.Base("Admin", view.GetFlashData(c), page))
}

// Projects renders the filter tabs and project list for the requested filter
// (GET /admin/projects?technology=...).
func (h *Handler) Projects(c echo.Context) error {
	ctx := c.Request().Context()
	state := ListState{Filter: domain.ParseListFilter(c.QueryParam("technology"))}

	projects, err := middleware.BackendFrom(c).ListProjectsFiltered(ctx, state.Filter)
	if err != nil {
		middleware.FromContext(ctx).Error("Error loading projects", "filter", state.Filter, "error", err)
	}
	return h.renderer.RenderPage(c, http.StatusOK, projectsPanel(state, projects, err, middleware.EndpointsFrom(c)))
}

// Create relays a new project with its staged images (POST /admin/projects).
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	in, err := bindInput(c)
	if err != nil {
		return h.fail(c, "Error adding project: "+err.Error())
	}
	scope, err := h.uploadScope(c, createUploadSlot)
	if err != nil {
		return err
	}

	form := &backend.ProjectForm{Input: in, Images: h.uploads(ctx, scope)}
	result, err := middleware.BackendFrom(c).CreateProject(ctx, session.Token(c), form)
	if err != nil {
		logger.Error("Error adding project", "error", err)
		return h.fail(c, msgAddRetry)
	}
	if !result.Success {
		return h.fail(c, "Error adding project: "+result.Error)
	}

	h.stager.Clear(ctx, scope)
	h.recorder.Record(ctx, activity.CatalogEvent{
		Kind:  activity.ProjectCreated,
		Title: in.Title,
		Actor: middleware.AdminEmail(c),
	})
	if err := setTrigger(c, map[string]any{projectsChanged: true}); err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK,
		projectForm(domain.ProjectInput{}),
		uploadPreview(createUploadSlot, nil, true),
		view.Notification(view.NotificationSuccess, msgProjectAdded),
	)
}

// Edit fills the edit modal (GET /admin/projects/:id/edit).
func (h *Handler) Edit(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, msgEditLoadError)
	}
	project, err := middleware.BackendFrom(c).GetProject(ctx, id)
	if err != nil {
		middleware.FromContext(ctx).Error("Error loading project details", "project_id", id, "error", err)
		return h.fail(c, msgEditLoadError)
	}
	scope, err := h.uploadScope(c, strconv.FormatInt(id, 10))
	if err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, editPanel(project, h.previews(ctx, scope), middleware.EndpointsFrom(c)))
}

// Update relays the edited fields and any newly staged images
// (PUT /admin/projects/:id).
func (h *Handler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, msgUpdateRetry)
	}
	in, err := bindInput(c)
	if err != nil {
		return h.fail(c, "Error updating project: "+err.Error())
	}
	scope, err := h.uploadScope(c, strconv.FormatInt(id, 10))
	if err != nil {
		return err
	}

	form := &backend.ProjectForm{Input: in, Images: h.uploads(ctx, scope)}
	result, err := middleware.BackendFrom(c).UpdateProject(ctx, session.Token(c), id, form)
	if err != nil {
		logger.Error("Error updating project", "project_id", id, "error", err)
		return h.fail(c, msgUpdateRetry)
	}
	if !result.Success {
		return h.fail(c, "Error updating project: "+result.Error)
	}

	h.stager.Clear(ctx, scope)
	h.recorder.Record(ctx, activity.CatalogEvent{
		Kind:      activity.ProjectUpdated,
		ProjectID: id,
		Title:     in.Title,
		Actor:     middleware.AdminEmail(c),
	})
	if err := setTrigger(c, map[string]any{projectsChanged: true, "closeModal": editModalID}); err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, view.Notification(view.NotificationSuccess, msgProjectUpdated))
}

// ConfirmDeleteProject asks before deleting (GET /admin/projects/:id/confirm-delete).
func (h *Handler) ConfirmDeleteProject(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid project id")
	}
	return h.renderer.RenderPage(c, http.StatusOK, confirmDeleteProject(id))
}

// DeleteProject deletes a project (DELETE /admin/projects/:id).
func (h *Handler) DeleteProject(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := paramID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid project id")
	}

	result, err := middleware.BackendFrom(c).DeleteProject(ctx, session.Token(c), id)
	if err != nil {
		middleware.FromContext(ctx).Error("Error deleting project", "project_id", id, "error", err)
		return h.fail(c, msgDeleteRetry)
	}
	if !result.Success {
		return h.fail(c, "Error deleting project: "+result.Error)
	}

	h.recorder.Record(ctx, activity.CatalogEvent{
		Kind:      activity.ProjectDeleted,
		ProjectID: id,
		Actor:     middleware.AdminEmail(c),
	})
	if err := setTrigger(c, map[string]any{projectsChanged: true}); err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, view.Notification(view.NotificationSuccess, msgProjectDeleted))
}

// ConfirmDeleteImage asks before deleting an image
// (GET /admin/images/:id/confirm-delete?project=P).
func (h *Handler) ConfirmDeleteImage(c echo.Context) error {
	imageID, projectID, err := imageParams(c)
	if err != nil {
		return err
	}
	return h.renderer.RenderPage(c, http.StatusOK, confirmDeleteImage(imageID, projectID))
}

// DeleteImage deletes one image, then re-fetches its project to re-render the
// remaining images (DELETE /admin/images/:id?project=P).
func (h *Handler) DeleteImage(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)
	imageID, projectID, err := imageParams(c)
	if err != nil {
		return err
	}

	client := middleware.BackendFrom(c)
	result, err := client.DeleteImage(ctx, session.Token(c), imageID)
	if err != nil {
		logger.Error("Error deleting image", "image_id", imageID, "error", err)
		return h.fail(c, msgDeleteImageRetry)
	}
	if !result.Success {
		return h.fail(c, "Error deleting image: "+result.Error)
	}

	if err := setTrigger(c, map[string]any{projectsChanged: true}); err != nil {
		return err
	}
	project, err := client.GetProject(ctx, projectID)
	if err != nil {
		logger.Error("Error reloading project images", "project_id", projectID, "error", err)
		h.recordImageDeleted(c, imageID, projectID, "")
		hxhttp.SetReswap(c.Response().Header(), "none")
		return h.renderer.RenderPage(c, http.StatusOK, view.Notification(view.NotificationSuccess, msgImageDeleted))
	}

	h.recordImageDeleted(c, imageID, projectID, project.Title)
	return h.renderer.RenderPage(c, http.StatusOK,
		currentImages(project, middleware.EndpointsFrom(c)),
		view.Notification(view.NotificationSuccess, msgImageDeleted),
	)
}

func (h *Handler) recordImageDeleted(c echo.Context, imageID, projectID int64, title string) {
	h.recorder.Record(c.Request().Context(), activity.CatalogEvent{
		Kind:      activity.ImageDeleted,
		ProjectID: projectID,
		ImageID:   imageID,
		Title:     title,
		Actor:     middleware.AdminEmail(c),
	})
}

// StageUploads stages the selected images and re-renders the preview list
// (POST /admin/uploads?for=slot).
func (h *Handler) StageUploads(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)
	slot, err := uploadSlot(c)
	if err != nil {
		return err
	}
	scope, err := h.uploadScope(c, slot)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		logger.Warn("Failed to read upload form", "error", err)
		return h.fail(c, msgUploadReadError)
	}

	var rejected []string
	for _, fh := range form.File["images"] {
		if fh.Size > h.stager.MaxBytes() {
			rejected = append(rejected, fmt.Sprintf("%s: %s", fh.Filename, storage.ErrTooLarge))
			continue
		}
		src, err := fh.Open()
		if err != nil {
			rejected = append(rejected, fmt.Sprintf("%s: %s", fh.Filename, msgUploadStoreFailed))
			continue
		}
		_, err = h.stager.Stage(ctx, scope, fh.Filename, src)
		src.Close()
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrTooLarge), errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrTooManyFiles):
			rejected = append(rejected, fmt.Sprintf("%s: %s", fh.Filename, err))
		default:
			logger.Error("Failed to stage upload", "filename", fh.Filename, "error", err)
			rejected = append(rejected, fmt.Sprintf("%s: %s", fh.Filename, msgUploadStoreFailed))
		}
	}

	fragments := []any{uploadPreview(slot, h.previews(ctx, scope), false)}
	if len(rejected) > 0 {
		fragments = append(fragments, view.Notification(view.NotificationError, msgUploadsRejected+strings.Join(rejected, "; ")))
	}
	return h.renderer.RenderPage(c, http.StatusOK, fragments...)
}

// RemoveUpload drops one staged image (DELETE /admin/uploads/:id?for=slot).
func (h *Handler) RemoveUpload(c echo.Context) error {
	ctx := c.Request().Context()
	slot, err := uploadSlot(c)
	if err != nil {
		return err
	}
	scope, err := h.uploadScope(c, slot)
	if err != nil {
		return err
	}
	if err := h.stager.Remove(ctx, scope, c.Param("id")); err != nil && !errors.Is(err, domain.ErrNotFound) {
		middleware.FromContext(ctx).Warn("Failed to remove staged upload", "id", c.Param("id"), "error", err)
	}
	return h.renderer.RenderPage(c, http.StatusOK, uploadPreview(slot, h.previews(ctx, scope), false))
}

// Activity renders the recent catalog changes (GET /admin/activity).
func (h *Handler) Activity(c echo.Context) error {
	return h.renderer.RenderPage(c, http.StatusOK, activityList(h.feed.Recent()))
}

// fail shows an error notification and leaves the request's target untouched.
func (h *Handler) fail(c echo.Context, msg string) error {
	hxhttp.SetReswap(c.Response().Header(), "none")
	return h.renderer.RenderPage(c, http.StatusOK, view.Notification(view.NotificationError, msg))
}

// uploadScope keys staged files by admin session and by the form they belong to.
func (h *Handler) uploadScope(c echo.Context, slot string) (string, error) {
	scope, err := session.StagingScope(c)
	if err != nil {
		return "", fmt.Errorf("resolving upload scope: %w", err)
	}
	return scope + "-" + slot, nil
}

func (h *Handler) previews(ctx context.Context, scope string) []preview {
	files := h.stager.List(scope)
	out := make([]preview, 0, len(files))
	for _, f := range files {
		src, err := h.stager.Preview(ctx, scope, f.ID)
		if err != nil {
			middleware.FromContext(ctx).Warn("Failed to build upload preview", "id", f.ID, "error", err)
			continue
		}
		out = append(out, preview{file: f, src: src})
	}
	return out
}

// uploads turns the staged files of scope into multipart parts.
func (h *Handler) uploads(ctx context.Context, scope string) []backend.Upload {
	files := h.stager.List(scope)
	out := make([]backend.Upload, 0, len(files))
	for _, f := range files {
		out = append(out, backend.Upload{
			Filename:    f.Filename,
			ContentType: f.ContentType,
			Open: func() (io.ReadCloser, error) {
				return h.stager.Open(ctx, scope, f.ID)
			},
		})
	}
	return out
}

func bindInput(c echo.Context) (domain.ProjectInput, error) {
	var in domain.ProjectInput
	if err := c.Bind(&in); err != nil {
		return in, errors.New("invalid form data")
	}
	in.Normalize()
	if err := c.Validate(&in); err != nil {
		return in, err
	}
	return in, nil
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", c.Param(name))
	}
	return id, nil
}

func imageParams(c echo.Context) (imageID, projectID int64, err error) {
	imageID, err = paramID(c, "id")
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid image id")
	}
	projectID, err = strconv.ParseInt(c.QueryParam("project"), 10, 64)
	if err != nil || projectID <= 0 {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid project id")
	}
	return imageID, projectID, nil
}

// uploadSlot names the form staged files belong to: "new" for the create form
// or a project id for an edit form.
func uploadSlot(c echo.Context) (string, error) {
	slot := c.QueryParam("for")
	if slot == createUploadSlot {
		return slot, nil
	}
	if id, err := strconv.ParseInt(slot, 10, 64); err == nil && id > 0 {
		return slot, nil
	}
	return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid upload target")
}

func setTrigger(c echo.Context, events map[string]any) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encoding HX-Trigger: %w", err)
	}
	hxhttp.SetTrigger(c.Response().Header(), string(payload))
	return nil
}
