package admin

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/folio/internal/activity"
	"github.com/nfrund/folio/internal/middleware"
	"github.com/nfrund/folio/internal/module"
	"github.com/nfrund/folio/internal/rendering"
	"github.com/nfrund/folio/internal/storage"
	"github.com/samber/do/v2"
)

// Module serves the login page and the admin console.
type Module struct {
	module.BaseModule
}

// New creates the admin module.
func New() *Module {
	return &Module{}
}

// Name returns the unique name for the module.
func (m *Module) Name() string {
	return "admin"
}

// Boot registers the login and admin routes.
func (m *Module) Boot(ctx context.Context, g *echo.Group, i do.Injector) error {
	h := NewHandler(
		do.MustInvoke[rendering.Renderer](i),
		do.MustInvoke[*storage.Stager](i),
		do.MustInvoke[*activity.Recorder](i),
		do.MustInvoke[*activity.Feed](i),
	)

	g.GET(middleware.LoginPath, h.LoginPage)
	g.POST(middleware.LoginPath, h.Login, middleware.RateLimiter())
	// Logout must work even when the API no longer accepts the token.
	g.POST("/admin/logout", h.Logout)

	admin := g.Group("/admin", middleware.AdminAuth())
	admin.GET("", h.Dashboard)
	admin.GET("/projects", h.Projects)
	admin.POST("/projects", h.Create)
	admin.GET("/projects/:id/edit", h.Edit)
	admin.PUT("/projects/:id", h.Update)
	admin.GET("/projects/:id/confirm-delete", h.ConfirmDeleteProject)
	admin.DELETE("/projects/:id", h.DeleteProject)
	admin.GET("/images/:id/confirm-delete", h.ConfirmDeleteImage)
	admin.DELETE("/images/:id", h.DeleteImage)
	admin.POST("/uploads", h.StageUploads)
	admin.DELETE("/uploads/:id", h.RemoveUpload)
	admin.GET("/activity", h.Activity)
	return nil
}
