package model

import "time"

// TicketStatus is the lifecycle state of a ticket. A ticket is created
// PENDING and moves to APPROVED once an administrator has reviewed the
// payment evidence. The transition is one-way; rejecting a ticket
// clears its evidence but leaves it PENDING.
type TicketStatus string

const (
	TicketPending  TicketStatus = "PENDING"
	TicketApproved TicketStatus = "APPROVED"
)

// PaymentMethod identifies which of the three mutually exclusive
// payment modes produced a ticket's payment details.
type PaymentMethod string

const (
	PayCard     PaymentMethod = "CARD"     // synchronous provider capture
	PayTransfer PaymentMethod = "TRANSFER" // manual bank transfer acknowledgment
	PayMobile   PaymentMethod = "MOBILE"   // mobile payment with receipt image
)

// MaxSeatsPerTicket bounds the number of seats a single ticket may hold.
const MaxSeatsPerTicket = 10

// Customer holds the buyer's contact details collected at issuance.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// PaymentDetails carries the payment-method-specific evidence attached
// to a ticket. Exactly the fields relevant to the method are set:
// TransactionID for CARD, ReferenceLast4 and ReceiptURL for MOBILE,
// nothing for TRANSFER.
type PaymentDetails struct {
	TransactionID  string `json:"transaction_id,omitempty"`
	ReferenceLast4 string `json:"reference_last4,omitempty"`
	ReceiptURL     string `json:"receipt_url,omitempty"`
}

// TicketSeat is one seat entry on a ticket. The ordered seat list is
// the authoritative record of occupancy for the event.
type TicketSeat struct {
	ID     string `json:"id"`
	Row    string `json:"row"`
	Number uint32 `json:"number"`
}

// Ticket is the durable record of a purchase. It is created once, at
// payment-capture time, mutated only by the admin approval/rejection
// actions and by gate redemption, and deleted only by the PIN-gated
// administrative purge.
//
// Invariants:
//  Seats            – non-empty, at most MaxSeatsPerTicket entries.
//  Status           – PENDING then APPROVED, never backward.
//  Used             – false then true, exactly once, only while APPROVED.
type Ticket struct {
	ConfirmationCode string         `json:"confirmation_code"`
	QRPayload        string         `json:"qr_payload"`
	Customer         Customer       `json:"customer"`
	EventID          string         `json:"event_id"`
	EventTitle       string         `json:"event_title"`
	EventStartsAt    time.Time      `json:"event_starts_at"`
	Venue            string         `json:"venue"`
	Seats            []TicketSeat   `json:"seats"`
	TotalCents       uint32         `json:"total_cents"`
	PaymentMethod    PaymentMethod  `json:"payment_method"`
	PaymentDetails   PaymentDetails `json:"payment_details"`
	Status           TicketStatus   `json:"status"`
	Used             bool           `json:"used"`
	UsedAt           *time.Time     `json:"used_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// SeatIDs returns the ids of the seats on the ticket, in order.
func (t *Ticket) SeatIDs() []string {
	ids := make([]string, 0, len(t.Seats))
	for _, s := range t.Seats {
		ids = append(ids, s.ID)
	}
	return ids
}

// SeatLabels returns the seats formatted for display and notification
// templates (e.g. "A7").
func (t *Ticket) SeatLabels() []string {
	labels := make([]string, 0, len(t.Seats))
	for _, s := range t.Seats {
		labels = append(labels, s.ID)
	}
	return labels
}
