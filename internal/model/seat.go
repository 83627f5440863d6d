package model

// SeatStatus is the client-visible state of a seat in the seat map.
// It is derived state: authoritative occupancy lives in persisted
// tickets, and a freshly generated map is reconciled against them.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE" // free to select
	SeatSelected  SeatStatus = "SELECTED"  // in the local selection set
	SeatOccupied  SeatStatus = "OCCUPIED"  // referenced by a persisted ticket
)

// SeatCategory indicates the pricing tier of a seat.
type SeatCategory string

const (
	CategoryStandard SeatCategory = "STANDARD"
	CategoryPremium  SeatCategory = "PREMIUM"
)

// Seat describes one seat in an event's seat map. Seats are generated
// deterministically per event; the id is the row letter followed by
// the seat number (e.g. "A7") and is unique within the event.
//
// Fields:
//  ID         – row letter + number, unique within the event.
//  Row        – row letter (A, B, ...).
//  Number     – position in the row (1-based).
//  Category   – pricing tier.
//  PriceCents – base price of the seat in minor currency units.
//  Status     – derived display state.
type Seat struct {
	ID         string       `json:"id"`
	Row        string       `json:"row"`
	Number     uint32       `json:"number"`
	Category   SeatCategory `json:"category"`
	PriceCents uint32       `json:"price_cents"`
	Status     SeatStatus   `json:"status"`
}
