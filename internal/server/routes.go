package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/folio/web"
)

// RegisterRoutes sets up the static and health routes, then lets every module
// register its services and boot its routes.
func (s *Server) RegisterRoutes(ctx context.Context) error {
	s.E.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	for _, m := range s.modules {
		if err := m.Register(s.injector); err != nil {
			return fmt.Errorf("registering module %s: %w", m.Name(), err)
		}
	}
	root := s.E.Group("")
	for _, m := range s.modules {
		if err := m.Boot(ctx, root, s.injector); err != nil {
			return fmt.Errorf("booting module %s: %w", m.Name(), err)
		}
		s.logger.Debug("Module booted", "module", m.Name())
	}
	return nil
}
