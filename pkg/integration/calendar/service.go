package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/mklimuk/marktask/pkg/dates"
)

// Event is a simplified all-day calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	Date        time.Time
}

// CalendarAPI is the interface used by Exporter for testability.
type CalendarAPI interface {
	UpsertEvent(ctx context.Context, e Event) error
}

// Service wraps the Google Calendar API.
type Service struct {
	srv        *gcal.Service
	calendarID string
}

// NewService creates a new Calendar service using service account credentials.
func NewService(ctx context.Context, credentialsFile, calendarID string) (*Service, error) {
	srv, err := gcal.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Service{srv: srv, calendarID: calendarID}, nil
}

// UpsertEvent inserts e under its own ID, updating the existing event when
// the ID is already taken.
func (s *Service) UpsertEvent(ctx context.Context, e Event) error {
	gcalEvent := toGCalEvent(e)
	_, err := s.srv.Events.Insert(s.calendarID, gcalEvent).Context(ctx).Do()
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusConflict {
		return fmt.Errorf("failed to create event: %w", err)
	}

	if _, err := s.srv.Events.Update(s.calendarID, e.ID, gcalEvent).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func toGCalEvent(e Event) *gcal.Event {
	return &gcal.Event{
		Id:          e.ID,
		Summary:     e.Summary,
		Description: e.Description,
		Start: &gcal.EventDateTime{
			Date: e.Date.Format(dates.Layout),
		},
		// All-day end dates are exclusive.
		End: &gcal.EventDateTime{
			Date: e.Date.AddDate(0, 0, 1).Format(dates.Layout),
		},
		Transparency: "transparent",
	}
}
