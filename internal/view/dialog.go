package view

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// DialogID is the container confirmation dialogs are swapped into.
const DialogID = "dialog"

// DialogSlot is the empty container rendered by the admin layout.
func DialogSlot() g.Node {
	return Div(ID(DialogID))
}

// ConfirmDialog asks before a destructive request. Only the confirm button
// issues the request, so dismissing the dialog leaves everything untouched.
type ConfirmDialog struct {
	Message string
	// Action is the URL the confirm button sends a DELETE to.
	Action string
	// Target and Swap say where the response goes.
	Target string
	Swap   string
}

// Render returns the dialog markup.
func (d ConfirmDialog) Render() g.Node {
	swap := d.Swap
	if swap == "" {
		swap = "innerHTML"
	}
	return Div(
		ID(DialogID),
		Div(
			Class("modal confirm-dialog"),
			Style("display: block"),
			g.Attr("role", "alertdialog"),
			g.Attr("aria-modal", "true"),
			Div(
				Class("modal-content"),
				P(Class("confirm-message"), g.Text(d.Message)),
				Div(
					Class("confirm-actions"),
					Button(
						Type("button"),
						Class("btn-cancel"),
						g.Attr("onclick", "closeDialog()"),
						g.Text("Cancel"),
					),
					Button(
						Type("button"),
						Class("btn-delete"),
						hx.Delete(d.Action),
						hx.Target(d.Target),
						hx.Swap(swap),
						g.Attr("hx-on::after-request", "closeDialog()"),
						g.Text("Delete"),
					),
				),
			),
		),
	)
}
