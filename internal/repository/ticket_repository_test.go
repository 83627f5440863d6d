package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aramkh/academy-ticketing/internal/model"
	"github.com/aramkh/academy-ticketing/internal/store"
)

func testTicket(code string, seats ...string) *model.Ticket {
	ts := make([]model.TicketSeat, 0, len(seats))
	for _, id := range seats {
		ts = append(ts, model.TicketSeat{ID: id, Row: id[:1], Number: 1})
	}
	return &model.Ticket{
		ConfirmationCode: code,
		QRPayload:        "TICKET-" + code + "-recital",
		Customer: model.Customer{
			FirstName: "Lena", LastName: "Petros",
			Email: "lena@example.com", Phone: "5551234",
		},
		EventID:       "recital",
		EventTitle:    "Spring Recital",
		EventStartsAt: time.Date(2026, 5, 20, 19, 0, 0, 0, time.UTC),
		Venue:         "Main Hall",
		Seats:         ts,
		TotalCents:    3000,
		PaymentMethod: model.PayCard,
		PaymentDetails: model.PaymentDetails{
			TransactionID: "txn_1",
		},
		Status:    model.TicketPending,
		CreatedAt: time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCreateAndFindRoundTrip(t *testing.T) {
	repo := NewTicketRepo(store.NewMemoryStore())
	ctx := context.Background()
	want := testTicket("TKT-1A2B3C", "A1", "A2", "A3")
	if err := repo.Create(ctx, want); err != nil {
		t.Fatalf("Create error = %v", err)
	}
	got, err := repo.FindByCode(ctx, "TKT-1A2B3C")
	if err != nil {
		t.Fatalf("FindByCode error = %v", err)
	}
	if got.ConfirmationCode != want.ConfirmationCode {
		t.Errorf("code = %q, want %q", got.ConfirmationCode, want.ConfirmationCode)
	}
	if got.TotalCents != want.TotalCents {
		t.Errorf("total = %d, want %d", got.TotalCents, want.TotalCents)
	}
	if len(got.Seats) != 3 || got.Seats[0].ID != "A1" || got.Seats[2].ID != "A3" {
		t.Errorf("seats = %v, want A1..A3 in order", got.Seats)
	}
	byQR, err := repo.FindByQRPayload(ctx, want.QRPayload)
	if err != nil {
		t.Fatalf("FindByQRPayload error = %v", err)
	}
	if byQR.ConfirmationCode != want.ConfirmationCode {
		t.Errorf("QR lookup resolved %q, want %q", byQR.ConfirmationCode, want.ConfirmationCode)
	}
}

func TestFindUnknownCode(t *testing.T) {
	repo := NewTicketRepo(store.NewMemoryStore())
	if _, err := repo.FindByCode(context.Background(), "TKT-MISSING"); !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("error = %v, want ErrTicketNotFound", err)
	}
}

func TestCreateSeatConflict(t *testing.T) {
	repo := NewTicketRepo(store.NewMemoryStore())
	ctx := context.Background()
	if err := repo.Create(ctx, testTicket("TKT-AAA", "A1", "A2")); err != nil {
		t.Fatalf("first Create error = %v", err)
	}
	err := repo.Create(ctx, testTicket("TKT-BBB", "A2", "A3"))
	if !errors.Is(err, ErrSeatConflict) {
		t.Fatalf("second Create error = %v, want ErrSeatConflict", err)
	}
	// The losing ticket must not exist.
	if _, err := repo.FindByCode(ctx, "TKT-BBB"); !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("losing ticket persisted: err = %v", err)
	}
	// Same seat id for a different event is a different claim.
	other := testTicket("TKT-CCC", "A1")
	other.EventID = "gala"
	other.QRPayload = "TICKET-TKT-CCC-gala"
	if err := repo.Create(ctx, other); err != nil {
		t.Errorf("cross-event Create error = %v", err)
	}
}

func TestOccupiedSeatIDs(t *testing.T) {
	repo := NewTicketRepo(store.NewMemoryStore())
	ctx := context.Background()
	_ = repo.Create(ctx, testTicket("TKT-AAA", "A1", "A2"))
	other := testTicket("TKT-BBB", "A1")
	other.EventID = "gala"
	other.QRPayload = "TICKET-TKT-BBB-gala"
	_ = repo.Create(ctx, other)

	ids, err := repo.OccupiedSeatIDs(ctx, "recital")
	if err != nil {
		t.Fatalf("OccupiedSeatIDs error = %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("ids = %v, want exactly A1, A2", ids)
	}
}

func TestApproveOnce(t *testing.T) {
	repo := NewTicketRepo(store.NewMemoryStore())
	ctx := context.Background()
	_ = repo.Create(ctx, testTicket("TKT-AAA", "A1"))
	got, err := repo.Approve(ctx, "TKT-AAA")
	if err != nil {
		t.Fatalf("Approve error = %v", err)
	}
	if got.Status != model.TicketApproved {
		t.Errorf("status = %s, want APPROVED", got.Status)
	}
	if _, err := repo.Approve(ctx, "TKT-AAA"); !errors.Is(err, ErrNotPending) {
		t.Errorf("second Approve error = %v, want ErrNotPending", err)
	}
}

func TestRejectClearsEvidenceKeepsPending(t *testing.T) {
	repo := NewTicketRepo(store.NewMemoryStore())
	ctx := context.Background()
	tk := testTicket("TKT-AAA", "A1")
	tk.PaymentMethod = model.PayMobile
	tk.PaymentDetails = model.PaymentDetails{ReferenceLast4: "1234", ReceiptURL: "file:///r/1.png"}
	_ = repo.Create(ctx, tk)

	if _, err := repo.RejectEvidence(ctx, "TKT-AAA"); err != nil {
		t.Fatalf("RejectEvidence error = %v", err)
	}
	got, err := repo.FindByCode(ctx, "TKT-AAA")
	if err != nil {
		t.Fatalf("FindByCode error = %v", err)
	}
	if got.Status != model.TicketPending {
		t.Errorf("status = %s, want PENDING (reject never deletes)", got.Status)
	}
	if got.PaymentDetails != (model.PaymentDetails{}) {
		t.Errorf("payment details not cleared: %+v", got.PaymentDetails)
	}
}

func TestRedeemExactlyOnce(t *testing.T) {
	repo := NewTicketRepo(store.NewMemoryStore())
	ctx := context.Background()
	_ = repo.Create(ctx, testTicket("TKT-AAA", "A1"))
	now := time.Date(2026, 5, 20, 18, 30, 0, 0, time.UTC)

	// Pending tickets are not eligible.
	if _, err := repo.Redeem(ctx, "TKT-AAA", now); !errors.Is(err, ErrNotEligible) {
		t.Fatalf("redeem pending error = %v, want ErrNotEligible", err)
	}
	if _, err := repo.Approve(ctx, "TKT-AAA"); err != nil {
		t.Fatalf("Approve error = %v", err)
	}
	got, err := repo.Redeem(ctx, "TKT-AAA", now)
	if err != nil {
		t.Fatalf("Redeem error = %v", err)
	}
	if !got.Used || got.UsedAt == nil || !got.UsedAt.Equal(now) {
		t.Errorf("redeemed ticket = used %v at %v, want used at %v", got.Used, got.UsedAt, now)
	}
	if _, err := repo.Redeem(ctx, "TKT-AAA", now.Add(time.Minute)); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Errorf("second Redeem error = %v, want ErrAlreadyRedeemed", err)
	}
	// used implies approved, and the first UsedAt sticks.
	final, _ := repo.FindByCode(ctx, "TKT-AAA")
	if final.Status != model.TicketApproved {
		t.Errorf("redeemed ticket status = %s, want APPROVED", final.Status)
	}
	if !final.UsedAt.Equal(now) {
		t.Errorf("UsedAt changed to %v, want %v", final.UsedAt, now)
	}
}

func TestRedeemUnknown(t *testing.T) {
	repo := NewTicketRepo(store.NewMemoryStore())
	if _, err := repo.Redeem(context.Background(), "TKT-NOPE", time.Now()); !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("error = %v, want ErrTicketNotFound", err)
	}
}

func TestDuplicateLookupIsIntegrityFault(t *testing.T) {
	ms := store.NewMemoryStore()
	repo := NewTicketRepo(ms)
	ctx := context.Background()
	// Two documents sharing a QR payload can only appear through a data
	// fault; seed them directly through the store.
	_, _ = ms.Insert(ctx, "tickets", store.Document{"id": "TKT-X", "qr_payload": "TICKET-TKT-X-recital"})
	_, _ = ms.Insert(ctx, "tickets", store.Document{"id": "TKT-Y", "qr_payload": "TICKET-TKT-X-recital"})
	if _, err := repo.FindByQRPayload(ctx, "TICKET-TKT-X-recital"); !errors.Is(err, ErrIntegrity) {
		t.Errorf("error = %v, want ErrIntegrity", err)
	}
}

func TestListByEventOrdersByCreation(t *testing.T) {
	repo := NewTicketRepo(store.NewMemoryStore())
	ctx := context.Background()
	older := testTicket("TKT-OLD", "A1")
	older.CreatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := testTicket("TKT-NEW", "A2")
	newer.QRPayload = "TICKET-TKT-NEW-recital"
	newer.CreatedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_ = repo.Create(ctx, newer)
	_ = repo.Create(ctx, older)

	got, err := repo.ListByEvent(ctx, "recital")
	if err != nil {
		t.Fatalf("ListByEvent error = %v", err)
	}
	if len(got) != 2 || got[0].ConfirmationCode != "TKT-OLD" {
		t.Errorf("order wrong: %v", got)
	}
}

func TestPurge(t *testing.T) {
	repo := NewTicketRepo(store.NewMemoryStore())
	ctx := context.Background()
	_ = repo.Create(ctx, testTicket("TKT-AAA", "A1"))
	if err := repo.Purge(ctx, "TKT-AAA"); err != nil {
		t.Fatalf("Purge error = %v", err)
	}
	if _, err := repo.FindByCode(ctx, "TKT-AAA"); !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("ticket still present after purge")
	}
	if err := repo.Purge(ctx, "TKT-AAA"); !errors.Is(err, ErrTicketNotFound) {
		t.Errorf("second Purge error = %v, want ErrTicketNotFound", err)
	}
}
