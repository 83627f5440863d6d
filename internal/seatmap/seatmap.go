// Package seatmap holds the in-memory seat inventory for one event and
// the local selection state machine. The map is generated fresh from a
// deterministic layout, then reconciled against persisted occupancy;
// selection is purely local state and never outlives the map.
package seatmap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aramkh/academy-ticketing/internal/model"
	"github.com/aramkh/academy-ticketing/internal/pricing"
)

// Layout constants for the academy hall. Rows A and B are premium.
const (
	rowCount    = 8  // rows A..H
	seatsPerRow = 12 // seats 1..12 in each row
	premiumRows = 2

	standardPriceCents = 1200 // $12.00
	premiumPriceCents  = 1500 // $15.00
)

// ErrSeatOccupied is reported when the caller tries to toggle a seat
// already referenced by a persisted ticket.
var ErrSeatOccupied = errors.New("seatmap: seat is occupied")

// ErrSelectionLimit is reported when selecting a seat would exceed the
// per-ticket seat limit. The seat stays available.
var ErrSelectionLimit = errors.New("seatmap: selection limit exceeded")

// ErrSeatUnknown is reported for seat ids outside the layout.
var ErrSeatUnknown = errors.New("seatmap: unknown seat id")

// Map is the explicit state holder for one event's seat map. It is not
// safe for concurrent use; each client flow owns its own Map.
type Map struct {
	eventID  string
	seats    map[string]*model.Seat
	order    []string        // seat ids in layout order
	selected map[string]bool // ids currently in the selection set
}

// New generates the deterministic seat layout for the given event. All
// seats start available; call Reconcile before offering the map for
// purchase.
func New(eventID string) *Map {
	m := &Map{
		eventID:  eventID,
		seats:    make(map[string]*model.Seat, rowCount*seatsPerRow),
		order:    make([]string, 0, rowCount*seatsPerRow),
		selected: make(map[string]bool),
	}
	for r := 0; r < rowCount; r++ {
		row := string(rune('A' + r))
		category := model.CategoryStandard
		price := uint32(standardPriceCents)
		if r < premiumRows {
			category = model.CategoryPremium
			price = premiumPriceCents
		}
		for n := uint32(1); n <= seatsPerRow; n++ {
			id := fmt.Sprintf("%s%d", row, n)
			m.seats[id] = &model.Seat{
				ID:         id,
				Row:        row,
				Number:     n,
				Category:   category,
				PriceCents: price,
				Status:     model.SeatAvailable,
			}
			m.order = append(m.order, id)
		}
	}
	return m
}

// EventID returns the event this map was generated for.
func (m *Map) EventID() string { return m.eventID }

// Seats returns the seats in layout order. The returned values are
// copies; mutate the map only through its methods.
func (m *Map) Seats() []model.Seat {
	out := make([]model.Seat, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.seats[id])
	}
	return out
}

// Toggle flips a seat between available and selected. Occupied seats
// report ErrSeatOccupied. Selecting an eleventh seat reports
// ErrSelectionLimit and leaves the seat available.
func (m *Map) Toggle(id string) error {
	s, ok := m.seats[id]
	if !ok {
		return ErrSeatUnknown
	}
	switch s.Status {
	case model.SeatOccupied:
		return ErrSeatOccupied
	case model.SeatSelected:
		s.Status = model.SeatAvailable
		delete(m.selected, id)
		return nil
	default:
		if len(m.selected) >= model.MaxSeatsPerTicket {
			return ErrSelectionLimit
		}
		s.Status = model.SeatSelected
		m.selected[id] = true
		return nil
	}
}

// Reconcile forces every seat whose id appears in occupiedIDs to
// occupied, overriding any local selection. A seat bought by someone
// else while this client had it selected must no longer be purchasable;
// correctness wins over the stale client's convenience. The transition
// is one-way and never reversed client-side.
func (m *Map) Reconcile(occupiedIDs []string) {
	for _, id := range occupiedIDs {
		s, ok := m.seats[id]
		if !ok {
			continue
		}
		s.Status = model.SeatOccupied
		delete(m.selected, id)
	}
}

// Selection returns the currently selected seats ordered by row then
// number.
func (m *Map) Selection() []model.Seat {
	out := make([]model.Seat, 0, len(m.selected))
	for id := range m.selected {
		out = append(out, *m.seats[id])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Number < out[j].Number
	})
	return out
}

// ClearSelection returns every selected seat to available. Called on
// navigation away and after a successful purchase folds the selection
// into occupied seats.
func (m *Map) ClearSelection() {
	for id := range m.selected {
		if s := m.seats[id]; s.Status == model.SeatSelected {
			s.Status = model.SeatAvailable
		}
		delete(m.selected, id)
	}
}

// SelectionTotalCents prices the current selection with the step
// tariff. Returns pricing.ErrNoSeats for an empty selection.
func (m *Map) SelectionTotalCents() (uint32, error) {
	sel := m.Selection()
	prices := make([]uint32, 0, len(sel))
	for _, s := range sel {
		prices = append(prices, s.PriceCents)
	}
	return pricing.Total(prices)
}
