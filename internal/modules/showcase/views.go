package showcase

import (
	"context"
	"fmt"
	"net/url"

	"github.com/nfrund/folio/internal/config"
	"github.com/nfrund/folio/internal/domain"
	"github.com/nfrund/folio/internal/view"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// Element ids of the three project containers and the modal.
const (
	ReactNativeContainerID = "reactNativeProjects"
	FlutterContainerID     = "flutterProjects"
	NativeContainerID      = "nativeProjects"

	nativeTabsID = "nativeTabs"
	modalID      = "projectModal"
	modalBodyID  = "modalBody"
)

const (
	msgEmpty        = "No projects yet. Check back soon!"
	msgLoadError    = "Error loading projects. Please try again later."
	msgModalError   = "Error loading project details."
	msgLoadingCards = "Loading projects..."
)

func sectionURL(tech domain.Technology, containerID string) string {
	return "/sections/" + url.PathEscape(string(tech)) + "?container=" + url.QueryEscape(containerID)
}

func homePage() g.Node {
	return g.Group{
		Header(
			Class("hero"),
			H1(g.Text("Mobile App Portfolio")),
			P(g.Text("React Native, Flutter and native Android projects")),
		),
		Nav(
			ID("mainNav"),
			Class("nav"),
			A(Href("#react-native"), g.Text("React Native")),
			A(Href("#flutter"), g.Text("Flutter")),
			A(Href("#native"), g.Text("Java / Kotlin")),
		),
		Main(
			projectSection("react-native", "React Native", nil, ReactNativeContainerID, domain.ReactNative),
			projectSection("flutter", "Flutter", nil, FlutterContainerID, domain.Flutter),
			projectSection("native", "Native Android", nativeTabs(domain.Java, false), NativeContainerID, domain.Java),
		),
		projectModal(),
	}
}

// projectSection renders a section whose container loads its cards on page load.
func projectSection(anchor, heading string, tabs g.Node, containerID string, tech domain.Technology) g.Node {
	return Section(
		ID(anchor),
		Class("section"),
		H2(g.Text(heading)),
		tabs,
		Div(
			ID(containerID),
			Class("projects-grid"),
			hx.Get(sectionURL(tech, containerID)),
			hx.Trigger("load"),
			hx.Swap("innerHTML"),
			Div(Class("loading"), g.Text(msgLoadingCards)),
		),
	)
}

// nativeTabs renders the Java/Kotlin switch. Every click re-fetches. Requests
// sync on the container that also runs the initial load, so a click aborts
// that load as well as any older click.
func nativeTabs(active domain.Technology, oob bool) g.Node {
	tab := func(tech domain.Technology, label string) g.Node {
		class := "tab-btn"
		if tech == active {
			class += " active"
		}
		return Button(
			Type("button"),
			Class(class),
			g.Attr("data-tech", string(tech)),
			hx.Get(sectionURL(tech, NativeContainerID)),
			hx.Target("#"+NativeContainerID),
			hx.Swap("innerHTML"),
			g.Attr("hx-sync", "#"+NativeContainerID+":replace"),
			g.Text(label),
		)
	}
	return Div(
		ID(nativeTabsID),
		Class("tabs"),
		g.If(oob, hx.SwapOOB("true")),
		tab(domain.Java, "Java"),
		tab(domain.Kotlin, "Kotlin"),
	)
}

func projectModal() g.Node {
	return Div(
		ID(modalID),
		Class("modal"),
		Div(
			Class("modal-content"),
			Button(
				Type("button"),
				Class("close"),
				g.Attr("aria-label", "Close"),
				g.Attr("onclick", fmt.Sprintf("closeModal('%s')", modalID)),
				g.Raw("&times;"),
			),
			Div(ID(modalBodyID)),
		),
	)
}

func placeholder(msg string) g.Node {
	return Div(Class("loading"), g.Text(msg))
}

// sectionContent renders the cards, or the placeholder for an empty list or a failure.
func sectionContent(projects []domain.Project, err error, endpoints config.Endpoints) g.Node {
	switch {
	case err != nil:
		return placeholder(msgLoadError)
	case len(projects) == 0:
		return placeholder(msgEmpty)
	}
	return g.Map(projects, func(p domain.Project) g.Node {
		return projectCard(&p, endpoints)
	})
}

// projectCard renders one card; clicking it loads the detail modal.
func projectCard(p *domain.Project, endpoints config.Endpoints) g.Node {
	var image g.Node
	if img, ok := p.PrimaryImage(); ok {
		image = Img(Src(endpoints.ImageURL(img.ImagePath)), Alt(p.Title), Class("project-image"), g.Attr("loading", "lazy"))
	} else {
		image = Div(Class("project-image-placeholder"), g.Text(p.Technology.Icon()))
	}

	features := p.CardFeatures()
	return Div(
		Class("project-card"),
		g.Attr("data-project-id", fmt.Sprint(p.ID)),
		hx.Get(fmt.Sprintf("/projects/%d/modal", p.ID)),
		hx.Target("#"+modalBodyID),
		hx.Swap("innerHTML"),
		Div(Class("project-image-container"), image),
		Div(
			Class("project-content"),
			H3(g.Text(p.Title)),
			P(Class("project-description"), g.Text(domain.Truncate(p.Description, domain.CardDescriptionMax))),
			g.If(len(features) > 0, Ul(
				Class("project-features-list"),
				g.Map(features, func(f string) g.Node { return Li(g.Text("• " + f)) }),
			)),
			Div(Class("project-tags"), Span(Class("tag"), g.Text(p.Technology.Label()))),
		),
	)
}

func modalError() g.Node {
	return P(g.Text(msgModalError))
}

// modalBody renders the full project details.
func modalBody(ctx context.Context, p *domain.Project, endpoints config.Endpoints) g.Node {
	features := p.FeatureList()
	links := p.Links()
	return g.Group{
		H2(g.Text(p.Title)),
		P(Class("modal-technology"), Strong(g.Text("Technology:")), g.Text(" "+p.Technology.Label())),
		Div(Class("markdown"), view.AdaptTemplToGomponentContext(ctx, view.Markdown(p.Description))),
		g.If(len(p.Images) > 0, Div(
			Class("modal-images"),
			g.Map(p.Images, func(img domain.Image) g.Node {
				return Img(Src(endpoints.ImageURL(img.ImagePath)), Alt(p.Title), g.Attr("loading", "lazy"))
			}),
		)),
		g.If(len(features) > 0, Div(
			Class("modal-features"),
			H3(g.Text("Key Features")),
			Ul(g.Map(features, func(f string) g.Node { return Li(g.Text(f)) })),
		)),
		g.If(p.VideoLink != "", Div(
			Class("modal-video"),
			H3(g.Text("Demo Video")),
			g.El("iframe",
				Src(domain.EmbedURL(p.VideoLink)),
				g.Attr("title", p.Title+" demo"),
				g.Attr("frameborder", "0"),
				g.Attr("allowfullscreen"),
			),
		)),
		g.If(len(links) > 0, Div(
			Class("modal-links"),
			H3(g.Text("Project Links")),
			g.Map(links, func(l domain.Link) g.Node {
				return A(Href(l.URL), Target("_blank"), Rel("noopener noreferrer"), g.Text(l.Label))
			}),
		)),
	}
}
