package calendar

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"log"

	"github.com/mklimuk/marktask/pkg/dates"
	"github.com/mklimuk/marktask/pkg/tasks"
)

// Exporter pushes open tasks with a due date to a calendar as all-day
// events. Event IDs are derived from the task, so exporting twice updates
// instead of duplicating.
type Exporter struct {
	service CalendarAPI
}

// NewExporter creates a new calendar exporter.
func NewExporter(service CalendarAPI) *Exporter {
	return &Exporter{service: service}
}

// Export upserts one event per open, dated task and returns how many were
// written. A failed task is logged and skipped; the first such error is
// returned after the rest have been tried.
func (e *Exporter) Export(ctx context.Context, ts []*tasks.Task) (int, error) {
	var firstErr error
	written := 0
	for _, t := range ts {
		if t.Completed || t.Due == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return written, err
		}

		evt := ToEvent(t)
		if err := e.service.UpsertEvent(ctx, evt); err != nil {
			log.Printf("Calendar export: %q: %v", t.Name, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("export %q: %w", t.Name, err)
			}
			continue
		}
		written++
	}
	return written, firstErr
}

// ToEvent builds the all-day event for a dated task.
func ToEvent(t *tasks.Task) Event {
	due := t.Due.Format(dates.Layout)
	desc := "Priority: " + t.Priority.String()
	if t.Scheduled != nil {
		desc += "\nScheduled: " + t.Scheduled.Format(dates.Layout)
	}
	if t.Start != nil {
		desc += "\nStart: " + t.Start.Format(dates.Layout)
	}
	return Event{
		ID:          eventID(t.Name, due),
		Summary:     t.Name,
		Description: desc,
		Date:        *t.Due,
	}
}

// eventID is a hex digest, which fits Google's base32hex ID alphabet.
func eventID(name, due string) string {
	sum := sha1.Sum([]byte(name + "|" + due))
	return hex.EncodeToString(sum[:])
}
