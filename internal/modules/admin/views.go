package admin

import (
	"fmt"
	"net/url"

	"github.com/nfrund/folio/internal/activity"
	"github.com/nfrund/folio/internal/config"
	"github.com/nfrund/folio/internal/domain"
	"github.com/nfrund/folio/internal/storage"
	"github.com/nfrund/folio/internal/view"
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// Element ids targeted by admin requests.
const (
	projectFormID    = "projectForm"
	editFormID       = "editProjectForm"
	projectsPanelID  = "projectsPanel"
	editModalID      = "editModal"
	editModalBodyID  = "editModalBody"
	currentImagesID  = "currentImages"
	activityFeedID   = "activityFeed"
	projectsChanged  = "projectsChanged"
	createUploadSlot = "new"
)

const (
	msgNoProjects       = "No projects found."
	msgProjectsError    = "Error loading projects."
	msgNoImages         = "No images"
	msgNoActivity       = "No changes yet."
	msgConfirmProject   = "Are you sure you want to delete this project?"
	msgConfirmImage     = "Are you sure you want to delete this image?"
	msgLoadingProjects  = "Loading projects..."
	descriptionRows     = "5"
	featuresPlaceholder = "One feature per line"
)

// ListState is the admin list selection. It travels with every list request
// so the rendered tab bar always matches the rendered items.
type ListState struct {
	Filter domain.ListFilter
}

func (s ListState) url() string {
	return "/admin/projects?technology=" + url.QueryEscape(string(s.Filter))
}

type filterTab struct {
	filter domain.ListFilter
	label  string
}

var filterTabs = []filterTab{
	{domain.FilterAll, "All"},
	{domain.ListFilter(domain.ReactNative), "React Native"},
	{domain.ListFilter(domain.Flutter), "Flutter"},
	{domain.ListFilter(domain.Java), "Java"},
	{domain.ListFilter(domain.Kotlin), "Kotlin"},
}

func loginPage() g.Node {
	return Div(
		Class("login-container"),
		H1(g.Text("Admin Login")),
		Form(
			Method("post"),
			Action("/login"),
			Class("login-form"),
			formField("email", "Email", Input(Type("email"), ID("email"), Name("email"), Required(), g.Attr("autocomplete", "username"))),
			formField("password", "Password", Input(Type("password"), ID("password"), Name("password"), Required(), g.Attr("autocomplete", "current-password"))),
			Button(Type("submit"), Class("btn-primary"), g.Text("Log In")),
		),
	)
}

func dashboardPage(email string, state ListState, previews []preview, feed []activity.CatalogEvent) g.Node {
	return g.Group{
		Header(
			Class("admin-header"),
			H1(g.Text("Admin Dashboard")),
			Div(
				Class("admin-user"),
				Span(ID("adminEmail"), g.Text(email)),
				Button(Type("button"), Class("btn-secondary"), hx.Post("/admin/logout"), g.Text("Logout")),
			),
		),
		view.NotificationSlot(),
		view.DialogSlot(),
		Main(
			Class("admin-main"),
			Section(
				Class("admin-card"),
				H2(g.Text("Add New Project")),
				projectForm(domain.ProjectInput{}),
				uploadPicker(createUploadSlot, previews),
				Button(Type("submit"), FormAttr(projectFormID), Class("btn-primary"), g.Text("Add Project")),
			),
			Section(
				Class("admin-card"),
				H2(g.Text("Projects")),
				panelShell(state),
			),
			Section(
				Class("admin-card"),
				H2(g.Text("Recent Activity")),
				activityList(feed),
			),
		),
		editModal(),
	}
}

// projectForm is the create form. A successful submit replaces it with an
// empty copy; a failed one leaves it as typed.
func projectForm(in domain.ProjectInput) g.Node {
	return Form(
		ID(projectFormID),
		Class("project-form"),
		hx.Post("/admin/projects"),
		g.Attr("hx-encoding", "multipart/form-data"),
		hx.Target("this"),
		hx.Swap("outerHTML"),
		projectFields("", in),
	)
}

// projectFields renders the editable inputs; prefix keeps ids unique when the
// create and edit forms are on the page together.
func projectFields(prefix string, in domain.ProjectInput) g.Node {
	id := func(name string) string { return prefix + name }
	return g.Group{
		formField(id("title"), "Title", Input(Type("text"), ID(id("title")), Name("title"), Value(in.Title), Required(), g.Attr("maxlength", "200"))),
		formField(id("technology"), "Technology", techSelect(id("technology"), in.Technology)),
		formField(id("description"), "Description (Markdown)", Textarea(ID(id("description")), Name("description"), Rows(descriptionRows), Required(), g.Text(in.Description))),
		formField(id("features"), "Features", Textarea(ID(id("features")), Name("features"), Rows(descriptionRows), Placeholder(featuresPlaceholder), g.Text(in.Features))),
		formField(id("video_link"), "Video Link", Input(Type("url"), ID(id("video_link")), Name("video_link"), Value(in.VideoLink))),
		formField(id("github_link"), "GitHub Link", Input(Type("url"), ID(id("github_link")), Name("github_link"), Value(in.GithubLink))),
		formField(id("playstore_link"), "Play Store Link", Input(Type("url"), ID(id("playstore_link")), Name("playstore_link"), Value(in.PlaystoreLink))),
		formField(id("appstore_link"), "App Store Link", Input(Type("url"), ID(id("appstore_link")), Name("appstore_link"), Value(in.AppstoreLink))),
	}
}

func formField(id, text string, control g.Node) g.Node {
	return Div(Class("form-group"), Label(For(id), g.Text(text)), control)
}

func techSelect(id, selected string) g.Node {
	return Select(
		ID(id),
		Name("technology"),
		Required(),
		Option(Value(""), g.Text("Select technology")),
		g.Map(domain.Technologies, func(t domain.Technology) g.Node {
			return Option(Value(string(t)), g.If(string(t) == selected, Selected()), g.Text(t.Label()))
		}),
	)
}

// preview is a staged upload with its thumbnail.
type preview struct {
	file storage.StagedFile
	src  string
}

func previewID(slot string) string {
	return "uploadPreview-" + slot
}

func uploadsURL(slot string) string {
	return "/admin/uploads?for=" + url.QueryEscape(slot)
}

// uploadPicker stages images as soon as they are selected. It lives outside
// the project form, so form submits never carry the raw files.
func uploadPicker(slot string, previews []preview) g.Node {
	return Div(
		Class("form-group upload-picker"),
		Label(For("images-"+slot), g.Text("Images")),
		Input(
			Type("file"),
			ID("images-"+slot),
			Name("images"),
			Multiple(),
			Accept("image/*"),
			hx.Post(uploadsURL(slot)),
			g.Attr("hx-encoding", "multipart/form-data"),
			hx.Trigger("change"),
			hx.Target("#"+previewID(slot)),
			hx.Swap("outerHTML"),
			g.Attr("hx-on::after-request", "this.value = ''"),
		),
		uploadPreview(slot, previews, false),
	)
}

// uploadPreview lists the staged images of slot. Out of band it resets the
// preview after a successful submit.
func uploadPreview(slot string, previews []preview, oob bool) g.Node {
	return Div(
		ID(previewID(slot)),
		Class("image-preview"),
		g.If(oob, hx.SwapOOB("true")),
		g.Map(previews, func(p preview) g.Node {
			return Div(
				Class("preview-item"),
				Img(Src(p.src), Alt(p.file.Filename)),
				Span(Class("preview-name"), g.Text(p.file.Filename)),
				Button(
					Type("button"),
					Class("remove-preview"),
					g.Attr("aria-label", "Remove "+p.file.Filename),
					hx.Delete("/admin/uploads/"+url.PathEscape(p.file.ID)+"?for="+url.QueryEscape(slot)),
					hx.Target("#"+previewID(slot)),
					hx.Swap("outerHTML"),
					g.Raw("&times;"),
				),
			)
		}),
	)
}

// panelShell loads the list once the page is up.
func panelShell(state ListState) g.Node {
	return Div(
		ID(projectsPanelID),
		hx.Get(state.url()),
		hx.Trigger("load"),
		hx.Swap("outerHTML"),
		Div(Class("loading"), g.Text(msgLoadingProjects)),
	)
}

// projectsPanel renders the filter tabs and the items for state. It reloads
// itself with the same state whenever the catalog changes.
func projectsPanel(state ListState, projects []domain.Project, err error, endpoints config.Endpoints) g.Node {
	var items g.Node
	switch {
	case err != nil:
		items = Div(Class("loading"), g.Text(msgProjectsError))
	case len(projects) == 0:
		items = Div(Class("loading"), g.Text(msgNoProjects))
	default:
		items = g.Map(projects, func(p domain.Project) g.Node { return projectItem(&p, endpoints) })
	}
	return Div(
		ID(projectsPanelID),
		hx.Get(state.url()),
		hx.Trigger(projectsChanged+" from:body"),
		hx.Swap("outerHTML"),
		filterBar(state),
		Div(ID("projectsList"), Class("admin-projects-list"), items),
	)
}

// filterBar is a pure function of state: exactly one tab is active.
func filterBar(state ListState) g.Node {
	return Div(
		Class("filter-tabs"),
		g.Map(filterTabs, func(tab filterTab) g.Node {
			class := "filter-btn"
			if tab.filter == state.Filter {
				class += " active"
			}
			return Button(
				Type("button"),
				Class(class),
				g.Attr("data-filter", string(tab.filter)),
				hx.Get(ListState{Filter: tab.filter}.url()),
				hx.Target("#"+projectsPanelID),
				hx.Swap("outerHTML"),
				g.Attr("hx-sync", "#"+projectsPanelID+":replace"),
				g.Text(tab.label),
			)
		}),
	)
}

// techIcon is the placeholder for a project without images.
func techIcon(t domain.Technology) g.Node {
	if logo := t.LogoURL(); logo != "" {
		return Img(Src(logo), Alt(string(t)), Class("tech-logo"))
	}
	return g.Text(t.Icon())
}

func projectItem(p *domain.Project, endpoints config.Endpoints) g.Node {
	var thumb g.Node
	if img, ok := p.PrimaryImage(); ok {
		thumb = Img(Src(endpoints.ImageURL(img.ImagePath)), Alt(p.Title), Class("admin-thumb"))
	} else {
		thumb = Div(Class("admin-thumb placeholder"), techIcon(p.Technology))
	}
	return Div(
		Class("admin-project-item"),
		g.Attr("data-project-id", fmt.Sprint(p.ID)),
		thumb,
		Div(
			Class("admin-project-info"),
			H3(g.Text(p.Title)),
			Span(Class("tag"), g.Text(p.Technology.Label())),
			P(g.Text(domain.Truncate(p.Description, domain.AdminDescriptionMax))),
			Small(g.Textf("Created: %s | Images: %d", p.CreatedAt.DateString(), len(p.Images))),
		),
		Div(
			Class("admin-project-actions"),
			Button(
				Type("button"),
				Class("btn-edit"),
				hx.Get(fmt.Sprintf("/admin/projects/%d/edit", p.ID)),
				hx.Target("#"+editModalBodyID),
				hx.Swap("innerHTML"),
				g.Text("Edit"),
			),
			Button(
				Type("button"),
				Class("btn-delete"),
				hx.Get(fmt.Sprintf("/admin/projects/%d/confirm-delete", p.ID)),
				hx.Target("#"+view.DialogID),
				hx.Swap("outerHTML"),
				g.Text("Delete"),
			),
		),
	)
}

func editModal() g.Node {
	return Div(
		ID(editModalID),
		Class("modal"),
		Div(
			Class("modal-content"),
			Button(
				Type("button"),
				Class("close"),
				g.Attr("aria-label", "Close"),
				g.Attr("onclick", fmt.Sprintf("closeModal('%s')", editModalID)),
				g.Raw("&times;"),
			),
			Div(ID(editModalBodyID)),
		),
	)
}

// editPanel fills the edit modal for p.
func editPanel(p *domain.Project, previews []preview, endpoints config.Endpoints) g.Node {
	slot := fmt.Sprint(p.ID)
	return g.Group{
		H2(g.Text("Edit Project")),
		Form(
			ID(editFormID),
			Class("project-form"),
			hx.Put(fmt.Sprintf("/admin/projects/%d", p.ID)),
			g.Attr("hx-encoding", "multipart/form-data"),
			hx.Swap("none"),
			projectFields("edit-", domain.InputFromProject(p)),
		),
		Div(Class("form-group"), Label(g.Text("Current Images")), currentImages(p, endpoints)),
		uploadPicker(slot, previews),
		Button(Type("submit"), FormAttr(editFormID), Class("btn-primary"), g.Text("Update Project")),
	}
}

// currentImages lists the stored images of p with a delete control each.
func currentImages(p *domain.Project, endpoints config.Endpoints) g.Node {
	if len(p.Images) == 0 {
		return Div(ID(currentImagesID), Class("current-images"), P(g.Text(msgNoImages)))
	}
	return Div(
		ID(currentImagesID),
		Class("current-images"),
		g.Map(p.Images, func(img domain.Image) g.Node {
			return Div(
				Class("current-image"),
				g.Attr("data-image-id", fmt.Sprint(img.ID)),
				Img(Src(endpoints.ImageURL(img.ImagePath)), Alt(p.Title)),
				g.If(bool(img.IsPrimary), Span(Class("primary-badge"), g.Text("Primary"))),
				Button(
					Type("button"),
					Class("btn-delete"),
					hx.Get(fmt.Sprintf("/admin/images/%d/confirm-delete?project=%d", img.ID, p.ID)),
					hx.Target("#"+view.DialogID),
					hx.Swap("outerHTML"),
					g.Text("Delete"),
				),
			)
		}),
	)
}

func confirmDeleteProject(id int64) g.Node {
	return view.ConfirmDialog{
		Message: msgConfirmProject,
		Action:  fmt.Sprintf("/admin/projects/%d", id),
		Target:  "#" + view.NotificationID,
		Swap:    "none",
	}.Render()
}

func confirmDeleteImage(imageID, projectID int64) g.Node {
	return view.ConfirmDialog{
		Message: msgConfirmImage,
		Action:  fmt.Sprintf("/admin/images/%d?project=%d", imageID, projectID),
		Target:  "#" + currentImagesID,
		Swap:    "outerHTML",
	}.Render()
}

func activityList(feed []activity.CatalogEvent) g.Node {
	var items g.Node
	if len(feed) == 0 {
		items = P(Class("activity-empty"), g.Text(msgNoActivity))
	} else {
		items = Ul(g.Map(feed, func(ev activity.CatalogEvent) g.Node {
			return Li(
				Span(Class("activity-summary"), g.Text(ev.Summary())),
				g.If(ev.Actor != "", Span(Class("activity-actor"), g.Text(" by "+ev.Actor))),
				g.El("time", g.Attr("datetime", ev.At.Format("2006-01-02T15:04:05Z07:00")), g.Text(" "+ev.At.Format("Jan 2 15:04"))),
			)
		}))
	}
	return Div(
		ID(activityFeedID),
		Class("activity-feed"),
		hx.Get("/admin/activity"),
		hx.Trigger(projectsChanged+" from:body delay:500ms, every 30s"),
		hx.Swap("outerHTML"),
		items,
	)
}
