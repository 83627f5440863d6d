package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/aramkh/academy-ticketing/internal/cache"
	"github.com/aramkh/academy-ticketing/internal/model"
	"github.com/aramkh/academy-ticketing/internal/queue"
	"github.com/aramkh/academy-ticketing/internal/repository"
	"github.com/aramkh/academy-ticketing/internal/utils"
)

// VerificationService implements the ticket verification and
// redemption state machine: lookup by QR payload or typed confirmation
// code, the admin approve/reject transitions and the one-time gate
// redemption.
type VerificationService struct {
	repo     *repository.TicketRepo
	notifier Notifier
	mirror   *cache.ReadThrough // nil when no local cache is attached
	baseURL  string
	timeout  time.Duration
	now      func() time.Time
}

// NewVerificationService wires the state machine. A nil notifier
// disables approval notifications. timeout bounds each network step;
// zero means 10 seconds.
func NewVerificationService(repo *repository.TicketRepo, notifier Notifier, mirror *cache.ReadThrough, baseURL string, timeout time.Duration) *VerificationService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &VerificationService{
		repo:     repo,
		notifier: notifier,
		mirror:   mirror,
		baseURL:  baseURL,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Resolve accepts either a scanned QR payload or a manually typed
// confirmation code and resolves it to the one matching ticket.
// Unknown references report repository.ErrTicketNotFound; a reference
// matching several tickets reports repository.ErrIntegrity.
func (s *VerificationService) Resolve(ctx context.Context, ref string) (*model.Ticket, error) {
	ref = strings.TrimSpace(ref)
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if utils.IsConfirmationCode(ref) {
		return s.repo.FindByCode(ctx, ref)
	}
	if _, _, err := utils.ParseQRPayload(ref); err != nil {
		return nil, repository.ErrTicketNotFound
	}
	return s.repo.FindByQRPayload(ctx, ref)
}

// Approve moves a pending ticket to approved after the administrator
// has reviewed its payment evidence, then sends the activation
// notification best-effort.
func (s *VerificationService) Approve(ctx context.Context, code string) (*model.Ticket, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	t, err := s.repo.Approve(opCtx, code)
	cancel()
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		notifyCtx, cancel := context.WithTimeout(ctx, s.timeout)
		if nerr := s.notifier.Notify(notifyCtx, buildNotification(queue.KindApproved, t, s.baseURL, s.now())); nerr != nil {
			log.Printf("verification: approval notification failed for %s: %v", code, nerr)
		}
		cancel()
	}
	if s.mirror != nil {
		if merr := s.mirror.Refresh(t); merr != nil {
			log.Printf("verification: cache refresh failed for %s: %v", code, merr)
		}
	}
	return t, nil
}

// RejectEvidence clears a pending ticket's payment evidence and
// re-requests proof. The ticket stays pending.
func (s *VerificationService) RejectEvidence(ctx context.Context, code string) (*model.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.RejectEvidence(ctx, code)
}

// Redeem resolves the reference and marks the ticket used. The flag
// flip is atomic; of two concurrent gate scans exactly one succeeds
// and the other reports repository.ErrAlreadyRedeemed. Tickets still
// pending report repository.ErrNotEligible.
func (s *VerificationService) Redeem(ctx context.Context, ref string) (*model.Ticket, error) {
	t, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	redeemed, err := s.repo.Redeem(opCtx, t.ConfirmationCode, s.now())
	cancel()
	if err != nil {
		return nil, err
	}
	if s.mirror != nil {
		if merr := s.mirror.Refresh(redeemed); merr != nil {
			log.Printf("verification: cache refresh failed for %s: %v", redeemed.ConfirmationCode, merr)
		}
	}
	return redeemed, nil
}
