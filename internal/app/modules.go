package app

import (
	"github.com/nfrund/folio/internal/module"
	"github.com/nfrund/folio/internal/modules/admin"
	"github.com/nfrund/folio/internal/modules/showcase"
)

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules() []module.Module {
	return []module.Module{
		showcase.New(),
		admin.New(),
	}
}
