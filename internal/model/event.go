package model

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidEventID is returned when an event identifier contains the
// "-" delimiter used by QR payloads. Such an id could not be recovered
// unambiguously from a scanned symbol.
var ErrInvalidEventID = errors.New("event id must not contain '-'")

// Event describes a performance for which tickets are sold.
//
// Fields:
//  ID       – identifier used in QR payloads and deep links.
//  Title    – display title of the performance.
//  StartsAt – start time in UTC.
//  Venue    – name of the venue hosting the performance.
type Event struct {
	ID       string    // events.id
	Title    string    // events.title
	StartsAt time.Time // events.starts_at (UTC)
	Venue    string    // events.venue
}

// ValidateEventID rejects identifiers that could not be recovered from
// a scanned QR payload.
func ValidateEventID(id string) error {
	if id == "" || strings.Contains(id, "-") {
		return ErrInvalidEventID
	}
	return nil
}

// NewEvent validates the identifier and returns an Event. The id must
// not contain the QR payload delimiter so that scanned payloads can be
// split back into confirmation code and event id.
func NewEvent(id, title string, startsAt time.Time, venue string) (Event, error) {
	if err := ValidateEventID(id); err != nil {
		return Event{}, err
	}
	return Event{ID: id, Title: title, StartsAt: startsAt.UTC(), Venue: venue}, nil
}
