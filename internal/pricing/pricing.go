// Package pricing computes the total charged for a set of seats. The
// tariff is a step function over the seat count, not a per-seat
// discount: groups of three or four pay a flat group rate per seat,
// groups of five or more pay a lower flat rate, and smaller purchases
// pay the plain sum of the seats' base prices.
package pricing

import "errors"

// Group rates in minor currency units per seat.
const (
	smallGroupRateCents = 1000 // 3 or 4 seats
	largeGroupRateCents = 900  // 5 or more seats
)

// ErrNoSeats is returned when Total is called with an empty price list.
// Callers are expected to reject empty selections before pricing.
var ErrNoSeats = errors.New("pricing: no seats to price")

// Total returns the total amount in minor units for the given per-seat
// base prices. The breakpoints are exact: a fourth seat changes the
// whole total, not a marginal unit.
func Total(perSeatCents []uint32) (uint32, error) {
	n := uint32(len(perSeatCents))
	switch {
	case n == 0:
		return 0, ErrNoSeats
	case n >= 5:
		return n * largeGroupRateCents, nil
	case n >= 3:
		return n * smallGroupRateCents, nil
	default:
		var sum uint32
		for _, p := range perSeatCents {
			sum += p
		}
		return sum, nil
	}
}
