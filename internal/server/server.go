package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/folio/internal/app"
	"github.com/nfrund/folio/internal/backend"
	"github.com/nfrund/folio/internal/config"
	"github.com/nfrund/folio/internal/middleware"
	"github.com/nfrund/folio/internal/module"
	"github.com/nfrund/folio/internal/rendering"
	appsession "github.com/nfrund/folio/internal/session"
	"github.com/samber/do/v2"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E        *echo.Echo
	Cfg      *config.Config
	logger   *slog.Logger
	injector *do.RootScope
	modules  []module.Module
}

// New creates a Server with every service provided and every module booted.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	injector := do.New()
	provideServices(injector, cfg, logger)

	resolver, err := do.Invoke[*config.Resolver](injector)
	if err != nil {
		return nil, fmt.Errorf("loading API environments: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	if r, ok := do.MustInvoke[rendering.Renderer](injector).(echo.Renderer); ok {
		e.Renderer = r
	}

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())

	// Configure and use session middleware
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = appsession.Options(cfg.AppEnv == config.Production)
	e.Use(session.Middleware(store))

	e.Use(middleware.Environment(resolver, do.MustInvoke[*backend.Pool](injector)))
	setupErrorHandling(e)

	s := &Server{
		E:        e,
		Cfg:      cfg,
		logger:   logger,
		injector: injector,
		modules:  app.NewModules(),
	}
	if err := s.RegisterRoutes(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Injector exposes the service container, useful for testing.
func (s *Server) Injector() do.Injector {
	return s.injector
}
