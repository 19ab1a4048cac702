package module

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"
)

// Module is a self-contained feature of the site.
type Module interface {
	// Name returns a unique identifier for the module.
	Name() string

	// Register provides the module's services to the injector. It runs for
	// every module before any module boots.
	Register(i do.Injector) error

	// Boot sets up routes and starts background work.
	Boot(ctx context.Context, router *echo.Group, i do.Injector) error

	// Shutdown releases what Boot started.
	Shutdown(ctx context.Context) error
}

// BaseModule provides no-op implementations for modules to embed.
type BaseModule struct{}

func (m *BaseModule) Register(i do.Injector) error { return nil }
func (m *BaseModule) Boot(ctx context.Context, router *echo.Group, i do.Injector) error {
	return nil
}
func (m *BaseModule) Shutdown(ctx context.Context) error {
	return nil
}
