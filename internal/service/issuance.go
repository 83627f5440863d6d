package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/aramkh/academy-ticketing/internal/cache"
	"github.com/aramkh/academy-ticketing/internal/model"
	"github.com/aramkh/academy-ticketing/internal/payment"
	"github.com/aramkh/academy-ticketing/internal/pricing"
	"github.com/aramkh/academy-ticketing/internal/queue"
	"github.com/aramkh/academy-ticketing/internal/repository"
	"github.com/aramkh/academy-ticketing/internal/utils"
)

// IssueRequest carries everything the workflow needs to turn a
// confirmed purchase into a durable ticket.
type IssueRequest struct {
	Event    model.Event
	Customer model.Customer
	Seats    []model.Seat // the buyer's selection, in display order
	Payment  payment.Request
}

// IssueResult is the outcome of a successful issuance. NotifyErr is
// set when the best-effort confirmation email failed; the ticket is
// final regardless.
type IssueResult struct {
	Ticket    *model.Ticket
	NotifyErr *NotificationError
}

// IssuanceService runs the purchase workflow. Steps are strictly
// sequential: customer validation, payment evidence capture,
// identifier generation, the conditional persistence write that claims
// the seats, then best-effort notification and local cache mirroring.
type IssuanceService struct {
	repo      *repository.TicketRepo
	collector *payment.Collector
	notifier  Notifier
	mirror    *cache.ReadThrough // nil when no local cache is attached
	baseURL   string
	timeout   time.Duration
	now       func() time.Time
}

// NewIssuanceService wires the workflow. timeout bounds each network
// step; zero means 10 seconds.
func NewIssuanceService(repo *repository.TicketRepo, collector *payment.Collector, notifier Notifier, mirror *cache.ReadThrough, baseURL string, timeout time.Duration) *IssuanceService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &IssuanceService{
		repo:      repo,
		collector: collector,
		notifier:  notifier,
		mirror:    mirror,
		baseURL:   baseURL,
		timeout:   timeout,
		now:       time.Now,
	}
}

// validateCustomer enforces the required contact fields before any
// money-adjacent step runs. Failure here blocks progression; no
// partial ticket is ever created.
func validateCustomer(c model.Customer) *ValidationError {
	var missing []string
	if strings.TrimSpace(c.FirstName) == "" {
		missing = append(missing, "first_name")
	}
	if strings.TrimSpace(c.LastName) == "" {
		missing = append(missing, "last_name")
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, "phone")
	}
	email := strings.TrimSpace(c.Email)
	if email == "" || !strings.Contains(email, "@") || strings.IndexByte(email, '@') == len(email)-1 {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Issue runs the workflow. Error classes, in order of occurrence:
// *ValidationError, *PaymentEvidenceError, repository.ErrSeatConflict,
// *PersistenceError. A notification failure never fails the call; it
// is reported on the result.
func (s *IssuanceService) Issue(ctx context.Context, req IssueRequest) (*IssueResult, error) {
	// Step 1: customer data.
	if verr := validateCustomer(req.Customer); verr != nil {
		return nil, verr
	}
	if n := len(req.Seats); n == 0 || n > model.MaxSeatsPerTicket {
		return nil, &ValidationError{Fields: []string{"seats"}}
	}

	prices := make([]uint32, 0, len(req.Seats))
	for _, seat := range req.Seats {
		prices = append(prices, seat.PriceCents)
	}
	total, err := pricing.Total(prices)
	if err != nil {
		return nil, &ValidationError{Fields: []string{"seats"}}
	}

	// Step 2: payment evidence. For mobile payments the receipt image
	// is uploaded here, before the ticket exists; a failure aborts the
	// whole issuance.
	payCtx, cancel := context.WithTimeout(ctx, s.timeout)
	details, err := s.collector.Collect(payCtx, req.Payment, total, req.Customer)
	cancel()
	if err != nil {
		return nil, &PaymentEvidenceError{Err: err}
	}

	// Step 3: identifiers.
	now := s.now()
	code, err := utils.NewConfirmationCode(now)
	if err != nil {
		return nil, &PersistenceError{Err: err}
	}

	seats := make([]model.TicketSeat, 0, len(req.Seats))
	for _, seat := range req.Seats {
		seats = append(seats, model.TicketSeat{ID: seat.ID, Row: seat.Row, Number: seat.Number})
	}
	ticket := &model.Ticket{
		ConfirmationCode: code,
		QRPayload:        utils.BuildQRPayload(code, req.Event.ID),
		Customer:         req.Customer,
		EventID:          req.Event.ID,
		EventTitle:       req.Event.Title,
		EventStartsAt:    req.Event.StartsAt,
		Venue:            req.Event.Venue,
		Seats:            seats,
		TotalCents:       total,
		PaymentMethod:    req.Payment.Method,
		PaymentDetails:   details,
		Status:           model.TicketPending,
		CreatedAt:        now.UTC(),
	}

	// Step 4: the single write that makes these seats occupied. A lost
	// seat claim surfaces as ErrSeatConflict so the caller can clear
	// the selection and re-run reconciliation; any other failure is a
	// PersistenceError, fatal and never swallowed because funds may
	// already have moved.
	persistCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err = s.repo.Create(persistCtx, ticket)
	cancel()
	if err != nil {
		if errors.Is(err, repository.ErrSeatConflict) {
			return nil, err
		}
		return nil, &PersistenceError{Err: err}
	}

	result := &IssueResult{Ticket: ticket}

	// Step 5: best-effort notification. The purchase is final once the
	// write above succeeded.
	notifyCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err = s.notifier.Notify(notifyCtx, buildNotification(queue.KindIssued, ticket, s.baseURL, now))
	cancel()
	if err != nil {
		log.Printf("issuance: notification failed for %s: %v", ticket.ConfirmationCode, err)
		result.NotifyErr = &NotificationError{Err: err}
	}

	// Step 6: mirror into the offline cache so the buyer can view the
	// ticket without connectivity.
	if s.mirror != nil {
		if err := s.mirror.Refresh(ticket); err != nil {
			log.Printf("issuance: cache mirror failed for %s: %v", ticket.ConfirmationCode, err)
		}
	}
	return result, nil
}
