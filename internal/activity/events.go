// Package activity records catalog changes made through the admin console and
// keeps the most recent ones for display.
package activity

import (
	"fmt"
	"time"

	"github.com/nfrund/folio/internal/pubsub"
)

// Kind names what happened to the catalog.
type Kind string

const (
	ProjectCreated Kind = "project.created"
	ProjectUpdated Kind = "project.updated"
	ProjectDeleted Kind = "project.deleted"
	ImageDeleted   Kind = "image.deleted"
)

// CatalogEvent is published after every successful admin mutation.
type CatalogEvent struct {
	Kind      Kind      `json:"kind"`
	ProjectID int64     `json:"project_id,omitempty"`
	ImageID   int64     `json:"image_id,omitempty"`
	Title     string    `json:"title,omitempty"`
	Actor     string    `json:"actor"`
	At        time.Time `json:"at"`
}

// TopicCatalog carries every CatalogEvent.
var TopicCatalog = pubsub.NewEvent[CatalogEvent]("catalog.events")

// Summary is a one-line description of the event.
func (e CatalogEvent) Summary() string {
	switch e.Kind {
	case ProjectCreated:
		return "Added project " + e.subject()
	case ProjectUpdated:
		return "Updated project " + e.subject()
	case ProjectDeleted:
		return "Deleted project " + e.subject()
	case ImageDeleted:
		return "Deleted an image from project " + e.subject()
	default:
		return string(e.Kind)
	}
}

// subject names the project by title, or by id when the title is unknown.
func (e CatalogEvent) subject() string {
	if e.Title == "" {
		return fmt.Sprintf("#%d", e.ProjectID)
	}
	return "“" + e.Title + "”"
}
