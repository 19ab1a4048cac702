package activity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/folio/internal/pubsub"
)

// DefaultFeedSize is how many events the admin page shows.
const DefaultFeedSize = 20

// Recorder publishes catalog events.
type Recorder struct {
	pub    pubsub.Publisher
	now    func() time.Time
	logger *slog.Logger
}

// NewRecorder creates a Recorder publishing to pub.
func NewRecorder(pub pubsub.Publisher, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{pub: pub, now: time.Now, logger: logger}
}

// Record publishes ev, stamping the time. A failed publish is logged only;
// the mutation it describes has already happened.
func (r *Recorder) Record(ctx context.Context, ev CatalogEvent) {
	if ev.At.IsZero() {
		ev.At = r.now()
	}
	if err := pubsub.Publish(ctx, r.pub, TopicCatalog, ev.Actor, ev); err != nil {
		r.logger.WarnContext(ctx, "Failed to publish catalog event", "kind", ev.Kind, "error", err)
	}
}

// Feed keeps the most recent catalog events in a fixed-size ring.
type Feed struct {
	mu      sync.Mutex
	entries []CatalogEvent
	next    int
	full    bool
}

// NewFeed creates a feed holding up to size events.
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{entries: make([]CatalogEvent, size)}
}

// Add stores ev, evicting the oldest event when the feed is full.
func (f *Feed) Add(ev CatalogEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[f.next] = ev
	f.next = (f.next + 1) % len(f.entries)
	if f.next == 0 {
		f.full = true
	}
}

// Recent returns the stored events, newest first.
func (f *Feed) Recent() []CatalogEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.next
	if f.full {
		n = len(f.entries)
	}
	out := make([]CatalogEvent, 0, n)
	for i := 1; i <= n; i++ {
		idx := (f.next - i + len(f.entries)) % len(f.entries)
		out = append(out, f.entries[idx])
	}
	return out
}

// Start feeds every published catalog event into f until ctx is cancelled.
func (f *Feed) Start(ctx context.Context, sub pubsub.Subscriber) error {
	return pubsub.Subscribe(ctx, sub, TopicCatalog, func(ctx context.Context, ev CatalogEvent) error {
		f.Add(ev)
		return nil
	})
}
