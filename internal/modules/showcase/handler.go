package showcase

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/folio/internal/domain"
	"github.com/nfrund/folio/internal/middleware"
	"github.com/nfrund/folio/internal/rendering"
	"github.com/nfrund/folio/internal/view"
	"github.com/nfrund/folio/web/src/templates/layouts"
)

// Handler serves the public pages and fragments.
type Handler struct {
	renderer rendering.Renderer
}

// NewHandler creates a new Handler.
func NewHandler(r rendering.Renderer) *Handler {
	return &Handler{renderer: r}
}

// Home renders the page shell; every section loads its own fragment.
func (h *Handler) Home(c echo.Context) error {
	page := layouts.Base("", view.GetFlashData(c), homePage())
	return h.renderer.RenderPage(c, http.StatusOK, page)
}

// Section renders the project cards of one technology. Failures render a
// placeholder in place of the cards; the fragment is always swapped in.
func (h *Handler) Section(c echo.Context) error {
	tech, err := domain.ParseTechnology(c.Param("technology"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Unknown technology")
	}
	ctx := c.Request().Context()

	projects, err := middleware.BackendFrom(c).ListProjectsByTechnology(ctx, tech)
	if err != nil {
		middleware.FromContext(ctx).Error("Error loading projects", "technology", tech, "error", err)
	}
	fragments := []any{sectionContent(projects, err, middleware.EndpointsFrom(c))}

	// The tab bar follows the section it switches, so it is re-rendered with it.
	if c.QueryParam("container") == NativeContainerID {
		fragments = append(fragments, nativeTabs(tech, true))
	}
	return h.renderer.RenderPage(c, http.StatusOK, fragments...)
}

// Modal renders the detail view of one project into the modal body.
func (h *Handler) Modal(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return h.renderer.RenderPage(c, http.StatusOK, modalError())
	}

	project, err := middleware.BackendFrom(c).GetProject(ctx, id)
	if err != nil {
		middleware.FromContext(ctx).Error("Error loading project details", "project_id", id, "error", err)
		return h.renderer.RenderPage(c, http.StatusOK, modalError())
	}
	return h.renderer.RenderPage(c, http.StatusOK, modalBody(ctx, project, middleware.EndpointsFrom(c)))
}

// clientConfig is the resolved environment as published to the browser.
type clientConfig struct {
	Environment string `json:"ENV"`
	APIURL      string `json:"API_URL"`
	BaseURL     string `json:"BASE_URL"`
}

// Config returns the environment resolved for the calling host.
func (h *Handler) Config(c echo.Context) error {
	endpoints := middleware.EndpointsFrom(c)
	return c.JSON(http.StatusOK, clientConfig{
		Environment: string(middleware.EnvironmentFrom(c)),
		APIURL:      endpoints.APIURL,
		BaseURL:     endpoints.BaseURL,
	})
}
