package layouts

import (
	"github.com/nfrund/folio/internal/view"
	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"
)

// htmxScript is the htmx build the pages are written against.
const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

// Base wraps page content in the HTML document shared by every page.
func Base(title string, flash view.FlashData, body ...g.Node) g.Node {
	return c.HTML5(c.HTML5Props{
		Title:    CalculateTitle(title),
		Language: "en",
		Head: []g.Node{
			h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
			h.Link(h.Rel("stylesheet"), h.Href("/static/app.css")),
			h.Script(h.Src(htmxScript), h.Defer()),
			h.Script(h.Src("/static/app.js"), h.Defer()),
		},
		Body: []g.Node{
			Flashes(flash),
			g.Group(body),
		},
	})
}

// Flashes renders messages carried across a redirect.
func Flashes(flash view.FlashData) g.Node {
	if flash.Empty() {
		return nil
	}
	return h.Div(
		h.Class("flashes"),
		g.Map(flash.Success, func(msg string) g.Node {
			return h.Div(h.Class("flash success"), g.Text(msg))
		}),
		g.Map(flash.Error, func(msg string) g.Node {
			return h.Div(h.Class("flash error"), g.Text(msg))
		}),
	)
}
