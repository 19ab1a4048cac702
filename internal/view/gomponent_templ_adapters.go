package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
)

// TemplToGomponentAdapter lets a templ component render inside a gomponents
// tree. gomponents does not pass a context, so the adapter carries one.
type TemplToGomponentAdapter struct {
	Ctx       context.Context
	Component templ.Component
}

// Render implements gomponents.Node.
func (a *TemplToGomponentAdapter) Render(w io.Writer) error {
	ctx := a.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return a.Component.Render(ctx, w)
}

// AdaptTemplToGomponentContext converts a templ component into a gomponents
// node rendered with ctx.
func AdaptTemplToGomponentContext(ctx context.Context, component templ.Component) g.Node {
	return &TemplToGomponentAdapter{Ctx: ctx, Component: component}
}
