package showcase

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/folio/internal/module"
	"github.com/nfrund/folio/internal/rendering"
	"github.com/samber/do/v2"
)

// Module serves the public portfolio site.
type Module struct {
	module.BaseModule
}

// New creates the showcase module.
func New() *Module {
	return &Module{}
}

// Name returns the unique name for the module.
func (m *Module) Name() string {
	return "showcase"
}

// Boot registers the public routes.
func (m *Module) Boot(ctx context.Context, g *echo.Group, i do.Injector) error {
	h := NewHandler(do.MustInvoke[rendering.Renderer](i))

	g.GET("/", h.Home)
	g.GET("/sections/:technology", h.Section)
	g.GET("/projects/:id/modal", h.Modal)
	g.GET("/config.json", h.Config)
	return nil
}
