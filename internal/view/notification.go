package view

import (
	g "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	. "maragu.dev/gomponents/html"
)

// NotificationType selects the notification styling.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// NotificationID is the element every notification replaces.
const NotificationID = "notification"

// NotificationSlot is the empty placeholder rendered by the admin layout.
func NotificationSlot() g.Node {
	return Div(ID(NotificationID), Class("notification"), g.Attr("role", "status"), g.Attr("aria-live", "polite"))
}

// Notification replaces the page's notification element out of band. The
// static script hides it again after three seconds.
func Notification(kind NotificationType, message string) g.Node {
	return Div(
		ID(NotificationID),
		Class("notification "+string(kind)+" show"),
		g.Attr("role", "status"),
		g.Attr("aria-live", "polite"),
		hx.SwapOOB("true"),
		g.Text(message),
	)
}
