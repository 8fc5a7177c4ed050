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

	"myges/pkg/logging"
)

const (
	sourceKey   = "source"
	sourceValue = "myges"

	listPageSize = 250
)

// GoogleProvider implements Provider on the Google Calendar v3 API.
type GoogleProvider struct {
	service *gcal.Service
}

// NewGoogleProvider creates a provider sending its requests through client,
// usually an OAuth2 client from HTTPClient. Extra options are passed to the
// Google API client, for instance option.WithEndpoint.
func NewGoogleProvider(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*GoogleProvider, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)

	service, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &GoogleProvider{service: service}, nil
}

// ListEvents implements Provider. Cancelled events are skipped.
func (p *GoogleProvider) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Event, error) {
	call := p.service.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		PrivateExtendedProperty(sourceKey + "=" + sourceValue).
		MaxResults(listPageSize)

	var events []Event
	err := call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			if item.Status == "cancelled" {
				continue
			}
			ev, err := fromGoogle(item)
			if err != nil {
				logging.Warn("Calendar", "Skipping event %s: %v", item.Id, err)
				continue
			}
			events = append(events, ev)
		}
		return nil
	})
	if err != nil {
		return nil, classifyError(err)
	}
	return events, nil
}

// InsertEvent implements Provider.
func (p *GoogleProvider) InsertEvent(ctx context.Context, calendarID string, event Event) error {
	_, err := p.service.Events.Insert(calendarID, toGoogle(event)).Context(ctx).Do()
	return classifyError(err)
}

// UpdateEvent implements Provider. Updating a deleted event restores it.
func (p *GoogleProvider) UpdateEvent(ctx context.Context, calendarID string, event Event) error {
	_, err := p.service.Events.Update(calendarID, event.ID, toGoogle(event)).Context(ctx).Do()
	return classifyError(err)
}

// DeleteEvent implements Provider.
func (p *GoogleProvider) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	err := p.service.Events.Delete(calendarID, eventID).Context(ctx).Do()

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
		return nil
	}
	return classifyError(err)
}

func toGoogle(ev Event) *gcal.Event {
	return &gcal.Event{
		Id:          ev.ID,
		Summary:     ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
		ColorId:     ev.ColorID,
		Status:      "confirmed",
		Start:       &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: ev.End.Format(time.RFC3339)},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{sourceKey: sourceValue},
		},
	}
}

func fromGoogle(item *gcal.Event) (Event, error) {
	start, err := parseDateTime(item.Start)
	if err != nil {
		return Event{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseDateTime(item.End)
	if err != nil {
		return Event{}, fmt.Errorf("end: %w", err)
	}

	return Event{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		Location:    item.Location,
		ColorID:     item.ColorId,
		Start:       start,
		End:         end,
	}, nil
}

func parseDateTime(dt *gcal.EventDateTime) (time.Time, error) {
	switch {
	case dt == nil:
		return time.Time{}, errors.New("missing date")
	case dt.DateTime != "":
		return time.Parse(time.RFC3339, dt.DateTime)
	case dt.Date != "":
		return time.Parse(time.DateOnly, dt.Date)
	}
	return time.Time{}, errors.New("missing date")
}

// classifyError maps Google API errors onto ErrConflict and ErrThrottled.
// Other errors are returned unchanged.
func classifyError(err error) error {
	var apiErr *googleapi.Error
	if err == nil || !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusConflict:
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case apiErr.Code == http.StatusTooManyRequests, apiErr.Code >= 500:
		return fmt.Errorf("%w: %w", ErrThrottled, err)
	case apiErr.Code == http.StatusForbidden && isRateLimit(apiErr):
		return fmt.Errorf("%w: %w", ErrThrottled, err)
	}
	return err
}

func isRateLimit(apiErr *googleapi.Error) bool {
	for _, item := range apiErr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded", "quotaExceeded":
			return true
		}
	}
	return false
}
