package seatmap

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aramkh/academy-ticketing/internal/model"
)

func TestToggleSelectAndDeselect(t *testing.T) {
	m := New("recital2026")
	if err := m.Toggle("A1"); err != nil {
		t.Fatalf("Toggle(A1) error = %v", err)
	}
	sel := m.Selection()
	if len(sel) != 1 || sel[0].ID != "A1" {
		t.Fatalf("Selection() = %v, want [A1]", sel)
	}
	if err := m.Toggle("A1"); err != nil {
		t.Fatalf("Toggle(A1) deselect error = %v", err)
	}
	if len(m.Selection()) != 0 {
		t.Errorf("Selection() not empty after deselect")
	}
}

func TestToggleUnknownSeat(t *testing.T) {
	m := New("recital2026")
	if err := m.Toggle("Z99"); !errors.Is(err, ErrSeatUnknown) {
		t.Errorf("Toggle(Z99) error = %v, want ErrSeatUnknown", err)
	}
}

func TestSelectionLimit(t *testing.T) {
	m := New("recital2026")
	for n := 1; n <= 10; n++ {
		if err := m.Toggle(fmt.Sprintf("C%d", n)); err != nil {
			t.Fatalf("Toggle(C%d) error = %v", n, err)
		}
	}
	err := m.Toggle("C11")
	if !errors.Is(err, ErrSelectionLimit) {
		t.Fatalf("Toggle over limit error = %v, want ErrSelectionLimit", err)
	}
	// The rejected seat stays available and selectable after a deselect.
	seats := m.Seats()
	for _, s := range seats {
		if s.ID == "C11" && s.Status != model.SeatAvailable {
			t.Errorf("C11 status = %s, want AVAILABLE", s.Status)
		}
	}
	if err := m.Toggle("C1"); err != nil {
		t.Fatalf("deselect after limit error = %v", err)
	}
	if err := m.Toggle("C11"); err != nil {
		t.Errorf("Toggle(C11) after freeing a slot error = %v", err)
	}
}

func TestReconcileMarksExactlyPersistedSeats(t *testing.T) {
	m := New("recital2026")
	m.Reconcile([]string{"A1", "A2"})
	for _, s := range m.Seats() {
		want := model.SeatAvailable
		if s.ID == "A1" || s.ID == "A2" {
			want = model.SeatOccupied
		}
		if s.Status != want {
			t.Errorf("seat %s status = %s, want %s", s.ID, s.Status, want)
		}
	}
}

func TestReconcileOverridesLocalSelection(t *testing.T) {
	m := New("recital2026")
	if err := m.Toggle("B3"); err != nil {
		t.Fatalf("Toggle(B3) error = %v", err)
	}
	m.Reconcile([]string{"B3"})
	if len(m.Selection()) != 0 {
		t.Errorf("selection should be emptied by reconcile")
	}
	if err := m.Toggle("B3"); !errors.Is(err, ErrSeatOccupied) {
		t.Errorf("Toggle(B3) after reconcile error = %v, want ErrSeatOccupied", err)
	}
}

func TestReconcileIgnoresUnknownIDs(t *testing.T) {
	m := New("recital2026")
	m.Reconcile([]string{"ZZ404"})
	for _, s := range m.Seats() {
		if s.Status != model.SeatAvailable {
			t.Fatalf("seat %s unexpectedly %s", s.ID, s.Status)
		}
	}
}

func TestSelectionTotalUsesStepTariff(t *testing.T) {
	m := New("recital2026")
	// Four standard seats at $12 base: group rate makes it $40.
	for _, id := range []string{"C1", "C2", "C3", "C4"} {
		if err := m.Toggle(id); err != nil {
			t.Fatalf("Toggle(%s) error = %v", id, err)
		}
	}
	total, err := m.SelectionTotalCents()
	if err != nil {
		t.Fatalf("SelectionTotalCents() error = %v", err)
	}
	if total != 4000 {
		t.Errorf("total = %d, want 4000", total)
	}
	// A fifth seat drops the rate to $9 each.
	if err := m.Toggle("C5"); err != nil {
		t.Fatalf("Toggle(C5) error = %v", err)
	}
	total, err = m.SelectionTotalCents()
	if err != nil {
		t.Fatalf("SelectionTotalCents() error = %v", err)
	}
	if total != 4500 {
		t.Errorf("total = %d, want 4500", total)
	}
}

func TestClearSelection(t *testing.T) {
	m := New("recital2026")
	_ = m.Toggle("D1")
	_ = m.Toggle("D2")
	m.ClearSelection()
	if len(m.Selection()) != 0 {
		t.Errorf("selection not cleared")
	}
	for _, s := range m.Seats() {
		if s.Status == model.SeatSelected {
			t.Errorf("seat %s still selected", s.ID)
		}
	}
}
