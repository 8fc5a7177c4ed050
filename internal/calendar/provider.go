package calendar

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrConflict is returned when inserting an event whose id already
	// exists, including events previously deleted from the calendar.
	ErrConflict = errors.New("event already exists")

	// ErrThrottled is returned for calls that may succeed when retried:
	// rate limiting and transient server errors.
	ErrThrottled = errors.New("calendar API throttled the request")
)

// Provider stores the mirrored events.
type Provider interface {
	// ListEvents returns the mirrored events overlapping [timeMin, timeMax).
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error)
	InsertEvent(ctx context.Context, calendarID string, event Event) error
	UpdateEvent(ctx context.Context, calendarID string, event Event) error
	// DeleteEvent removes an event. Deleting a missing event is not an error.
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}
