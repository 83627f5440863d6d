package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aramkh/academy-ticketing/internal/model"
	"github.com/aramkh/academy-ticketing/internal/payment"
	"github.com/aramkh/academy-ticketing/internal/queue"
	"github.com/aramkh/academy-ticketing/internal/repository"
	"github.com/aramkh/academy-ticketing/internal/seatmap"
	"github.com/aramkh/academy-ticketing/internal/store"
)

// recordingNotifier captures published notifications; fail makes every
// publish attempt error.
type recordingNotifier struct {
	sent []queue.TicketNotification
	fail bool
}

func (n *recordingNotifier) Notify(ctx context.Context, msg queue.TicketNotification) error {
	if n.fail {
		return errors.New("broker unreachable")
	}
	n.sent = append(n.sent, msg)
	return nil
}

func testEvent(t *testing.T) model.Event {
	t.Helper()
	ev, err := model.NewEvent("recital2026", "Spring Recital", time.Date(2026, 5, 20, 19, 0, 0, 0, time.UTC), "Main Hall")
	require.NoError(t, err)
	return ev
}

func newIssuance(t *testing.T, notifier Notifier) (*IssuanceService, *repository.TicketRepo) {
	t.Helper()
	repo := repository.NewTicketRepo(store.NewMemoryStore())
	receipts, err := payment.NewFSReceiptStore(t.TempDir())
	require.NoError(t, err)
	collector := payment.NewCollector(payment.SandboxProvider{}, receipts)
	svc := NewIssuanceService(repo, collector, notifier, nil, "https://tickets.example.com", time.Second)
	return svc, repo
}

func selectSeats(t *testing.T, ids ...string) []model.Seat {
	t.Helper()
	m := seatmap.New("recital2026")
	for _, id := range ids {
		require.NoError(t, m.Toggle(id))
	}
	return m.Selection()
}

func validCustomer() model.Customer {
	return model.Customer{FirstName: "Lena", LastName: "Petros", Email: "lena@example.com", Phone: "5551234"}
}

func TestIssueRoundTrip(t *testing.T) {
	notifier := &recordingNotifier{}
	svc, repo := newIssuance(t, notifier)
	ctx := context.Background()

	res, err := svc.Issue(ctx, IssueRequest{
		Event:    testEvent(t),
		Customer: validCustomer(),
		Seats:    selectSeats(t, "C1", "C2", "C3", "C4"), // 4 standard seats
		Payment:  payment.Request{Method: model.PayCard},
	})
	require.NoError(t, err)
	require.Nil(t, res.NotifyErr)

	tk := res.Ticket
	assert.Equal(t, model.TicketPending, tk.Status)
	assert.False(t, tk.Used)
	assert.Equal(t, uint32(4000), tk.TotalCents, "4 seats at $12 base charge the $10 group rate")
	assert.NotEmpty(t, tk.PaymentDetails.TransactionID)

	// A ticket written by issuance reads back identical through
	// verification.
	verify := NewVerificationService(repo, notifier, nil, "https://tickets.example.com", time.Second)
	got, err := verify.Resolve(ctx, tk.ConfirmationCode)
	require.NoError(t, err)
	assert.Equal(t, tk.ConfirmationCode, got.ConfirmationCode)
	assert.Equal(t, tk.TotalCents, got.TotalCents)
	assert.Equal(t, tk.Seats, got.Seats)

	// The same ticket resolves from its QR payload.
	byQR, err := verify.Resolve(ctx, tk.QRPayload)
	require.NoError(t, err)
	assert.Equal(t, tk.ConfirmationCode, byQR.ConfirmationCode)

	// Notification carried the template params.
	require.Len(t, notifier.sent, 1)
	n := notifier.sent[0]
	assert.Equal(t, queue.KindIssued, n.Kind)
	assert.Equal(t, "lena@example.com", n.To)
	assert.Equal(t, []string{"C1", "C2", "C3", "C4"}, n.SeatLabels)
	assert.Contains(t, n.RetrieveURL, tk.ConfirmationCode)
}

func TestIssueFiveSeatRate(t *testing.T) {
	svc, _ := newIssuance(t, &recordingNotifier{})
	res, err := svc.Issue(context.Background(), IssueRequest{
		Event:    testEvent(t),
		Customer: validCustomer(),
		Seats:    selectSeats(t, "C1", "C2", "C3", "C4", "C5"),
		Payment:  payment.Request{Method: model.PayTransfer, TransferConfirmed: true},
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(4500), res.Ticket.TotalCents)
}

func TestIssueValidation(t *testing.T) {
	svc, _ := newIssuance(t, &recordingNotifier{})
	ctx := context.Background()

	_, err := svc.Issue(ctx, IssueRequest{
		Event:    testEvent(t),
		Customer: model.Customer{FirstName: "Lena", Email: "not-an-email", Phone: ""},
		Seats:    selectSeats(t, "C1"),
		Payment:  payment.Request{Method: model.PayCard},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"last_name", "phone", "email"}, verr.Fields)

	// Empty selection is rejected before any collaborator is touched.
	_, err = svc.Issue(ctx, IssueRequest{
		Event:    testEvent(t),
		Customer: validCustomer(),
		Payment:  payment.Request{Method: model.PayCard},
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"seats"}, verr.Fields)
}

func TestIssuePaymentEvidenceFailure(t *testing.T) {
	svc, repo := newIssuance(t, &recordingNotifier{})
	_, err := svc.Issue(context.Background(), IssueRequest{
		Event:    testEvent(t),
		Customer: validCustomer(),
		Seats:    selectSeats(t, "C1"),
		Payment:  payment.Request{Method: model.PayMobile, MobileReference: "12"}, // bad reference
	})
	var perr *PaymentEvidenceError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, payment.ErrBadMobileReference)

	// No partial ticket was created.
	occupied, oerr := repo.OccupiedSeatIDs(context.Background(), "recital2026")
	require.NoError(t, oerr)
	assert.Empty(t, occupied)
}

func TestIssueSeatConflict(t *testing.T) {
	svc, _ := newIssuance(t, &recordingNotifier{})
	ctx := context.Background()
	first := IssueRequest{
		Event:    testEvent(t),
		Customer: validCustomer(),
		Seats:    selectSeats(t, "C1", "C2"),
		Payment:  payment.Request{Method: model.PayTransfer, TransferConfirmed: true},
	}
	_, err := svc.Issue(ctx, first)
	require.NoError(t, err)

	// A second buyer raced for an overlapping seat set and lost.
	second := first
	second.Seats = selectSeats(t, "C2", "C3")
	_, err = svc.Issue(ctx, second)
	assert.ErrorIs(t, err, repository.ErrSeatConflict)
}

func TestIssueNotificationFailureIsNonFatal(t *testing.T) {
	svc, repo := newIssuance(t, &recordingNotifier{fail: true})
	res, err := svc.Issue(context.Background(), IssueRequest{
		Event:    testEvent(t),
		Customer: validCustomer(),
		Seats:    selectSeats(t, "C1"),
		Payment:  payment.Request{Method: model.PayCard},
	})
	require.NoError(t, err, "a failed email must not roll back the ticket")
	require.NotNil(t, res.NotifyErr)

	// The ticket persisted despite the notification failure.
	got, err := repo.FindByCode(context.Background(), res.Ticket.ConfirmationCode)
	require.NoError(t, err)
	assert.Equal(t, res.Ticket.TotalCents, got.TotalCents)
}
