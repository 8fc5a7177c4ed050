package calendar

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// eventNamespace scopes the identifiers derived from reservation ids.
var eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://www.myges.fr/agenda"))

// Event is a calendar event managed by the mirror.
type Event struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	ColorID     string    `json:"colorId,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// Equal reports whether both events would look the same in the calendar.
func (e Event) Equal(o Event) bool {
	return e.ID == o.ID &&
		e.Summary == o.Summary &&
		e.Description == o.Description &&
		e.Location == o.Location &&
		e.ColorID == o.ColorID &&
		e.Start.Equal(o.Start) &&
		e.End.Equal(o.End)
}

// EventID derives a stable event identifier from a reservation id.
//
// Google Calendar accepts identifiers made of the characters 0-9 and a-v,
// 5 to 1024 long. The hex form of a name-based UUID satisfies that.
func EventID(reservationID int64) string {
	id := uuid.NewSHA1(eventNamespace, []byte(strconv.FormatInt(reservationID, 10)))
	return strings.ReplaceAll(id.String(), "-", "")
}
