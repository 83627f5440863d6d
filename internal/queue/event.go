// Package queue defines the notification payloads exchanged over the
// message broker and the background consumer that delivers them.
package queue

// Notification kinds.
const (
	KindIssued   = "ISSUED"   // ticket created, awaiting approval
	KindApproved = "APPROVED" // payment evidence reviewed, ticket active
)

// TicketNotification is published when a ticket is issued or approved.
// It carries the full template parameter set for the confirmation
// email so the consumer never has to query the primary store.
type TicketNotification struct {
	Kind             string   `json:"kind"`
	To               string   `json:"to"`
	Name             string   `json:"name"`
	EventID          string   `json:"event_id"`
	EventTitle       string   `json:"event_title"`
	EventStartsAt    string   `json:"event_starts_at"`
	Venue            string   `json:"venue"`
	SeatLabels       []string `json:"seats"`
	AmountCents      uint32   `json:"amount_cents"`
	ConfirmationCode string   `json:"confirmation_code"`
	RetrieveURL      string   `json:"retrieve_url"`
	SentAt           string   `json:"sent_at"`
}
