package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/folio/internal/middleware"
)

// Renderer renders templ components and gomponents nodes.
type Renderer interface {
	// RenderComponent renders a component to bytes.
	RenderComponent(ctx context.Context, component any) ([]byte, error)

	// RenderPage writes one or more components as an HTML response. Several
	// components are written back to back, which is how a fragment and its
	// out-of-band swaps travel together.
	RenderPage(c echo.Context, status int, components ...any) error
}

// UniversalRenderer is the Renderer used by every module. It also implements
// echo.Renderer, so c.Render(status, "", component) works.
type UniversalRenderer struct{}

// NewUniversalRenderer creates a new UniversalRenderer instance.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

// gomponentNode matches gomponents.Node without importing it.
type gomponentNode interface {
	Render(w io.Writer) error
}

func (tr *UniversalRenderer) render(ctx context.Context, component any, w io.Writer) error {
	switch c := component.(type) {
	case nil:
		return nil
	case templ.Component:
		return c.Render(ctx, w)
	case gomponentNode:
		return c.Render(w)
	default:
		return fmt.Errorf("unsupported component type %T: want templ.Component or a gomponents node", component)
	}
}

// RenderComponent implements the Renderer interface.
func (tr *UniversalRenderer) RenderComponent(ctx context.Context, component any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tr.render(ctx, component, &buf); err != nil {
		return nil, fmt.Errorf("failed to render component to bytes: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage implements the Renderer interface. Components are rendered into
// a buffer first so a failure still produces a clean error response.
func (tr *UniversalRenderer) RenderPage(c echo.Context, status int, components ...any) error {
	ctx := c.Request().Context()
	var buf bytes.Buffer
	for _, component := range components {
		if err := tr.render(ctx, component, &buf); err != nil {
			middleware.FromContext(ctx).Error("Failed to render component", "error", err)
			return err
		}
	}
	return c.HTMLBlob(status, buf.Bytes())
}

// Render implements echo.Renderer. The component travels in data; name is unused.
func (tr *UniversalRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}
	return tr.render(c.Request().Context(), data, w)
}
