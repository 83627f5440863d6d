package model

import (
	"encoding/json"
	"time"
)

// TicketSnapshot is the denormalized copy of a ticket kept in the
// offline cache. Dates are serialized as RFC3339 strings rather than
// native time values so that cached entries stay readable across
// serialization layers. A snapshot, once written, is only replaced by
// the result of a newer remote fetch (last-fetch-wins).
type TicketSnapshot struct {
	ConfirmationCode string         `json:"confirmation_code"`
	QRPayload        string         `json:"qr_payload"`
	Customer         Customer       `json:"customer"`
	EventID          string         `json:"event_id"`
	EventTitle       string         `json:"event_title"`
	EventStartsAt    string         `json:"event_starts_at"`
	Venue            string         `json:"venue"`
	Seats            []TicketSeat   `json:"seats"`
	TotalCents       uint32         `json:"total_cents"`
	PaymentMethod    PaymentMethod  `json:"payment_method"`
	PaymentDetails   PaymentDetails `json:"payment_details"`
	Status           TicketStatus   `json:"status"`
	Used             bool           `json:"used"`
	UsedAt           string         `json:"used_at,omitempty"`
	FetchedAt        string         `json:"fetched_at"`
}

// SnapshotOf builds a snapshot of the given ticket, stamping the fetch
// time used for the last-fetch-wins write policy.
func SnapshotOf(t *Ticket, fetchedAt time.Time) TicketSnapshot {
	snap := TicketSnapshot{
		ConfirmationCode: t.ConfirmationCode,
		QRPayload:        t.QRPayload,
		Customer:         t.Customer,
		EventID:          t.EventID,
		EventTitle:       t.EventTitle,
		EventStartsAt:    t.EventStartsAt.UTC().Format(time.RFC3339),
		Venue:            t.Venue,
		Seats:            append([]TicketSeat(nil), t.Seats...),
		TotalCents:       t.TotalCents,
		PaymentMethod:    t.PaymentMethod,
		PaymentDetails:   t.PaymentDetails,
		Status:           t.Status,
		Used:             t.Used,
		FetchedAt:        fetchedAt.UTC().Format(time.RFC3339),
	}
	if t.UsedAt != nil {
		snap.UsedAt = t.UsedAt.UTC().Format(time.RFC3339)
	}
	return snap
}

// Encode serializes the snapshot for storage in the cache.
func (s TicketSnapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot parses a serialized snapshot back into its struct form.
func DecodeSnapshot(data []byte) (TicketSnapshot, error) {
	var s TicketSnapshot
	err := json.Unmarshal(data, &s)
	return s, err
}
