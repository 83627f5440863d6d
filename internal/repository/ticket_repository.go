package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aramkh/academy-ticketing/internal/model"
	"github.com/aramkh/academy-ticketing/internal/store"
)

// ticketCollection is the document store collection holding tickets.
const ticketCollection = "tickets"

// seatClaimsField is the guard field used for atomic seat claims. Each
// claim is "<eventID>:<seatID>" so the at-most-one-ticket-per-seat
// invariant holds per event.
const seatClaimsField = "seat_claims"

// TicketRepo provides typed access to persisted tickets. The document
// store is the single source of truth for seat occupancy; the repo's
// Create and Redeem methods lean on its conditional primitives for the
// atomicity the core's invariants require.
type TicketRepo struct {
	store store.DocumentStore
}

// NewTicketRepo constructs a TicketRepo over the given document store.
func NewTicketRepo(s store.DocumentStore) *TicketRepo {
	return &TicketRepo{store: s}
}

func seatClaims(t *model.Ticket) []string {
	claims := make([]string, 0, len(t.Seats))
	for _, s := range t.Seats {
		claims = append(claims, t.EventID+":"+s.ID)
	}
	return claims
}

// ticketToDoc converts a ticket to its document form. The confirmation
// code doubles as the document id.
func ticketToDoc(t *model.Ticket) (store.Document, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	var d store.Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	d["id"] = t.ConfirmationCode
	d[seatClaimsField] = seatClaims(t)
	return d, nil
}

func docToTicket(d store.Document) (*model.Ticket, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var t model.Ticket
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persists a new ticket. The write is conditional: it succeeds
// only if no existing ticket references any of the requested seats for
// the event, otherwise ErrSeatConflict is returned and nothing is
// written. This is the single write that makes seats occupied.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	doc, err := ticketToDoc(t)
	if err != nil {
		return err
	}
	_, err = r.store.InsertIfNoOverlap(ctx, ticketCollection, doc, seatClaimsField, seatClaims(t))
	if errors.Is(err, store.ErrGuardConflict) {
		return ErrSeatConflict
	}
	return err
}

// findOne resolves a lookup field to exactly one ticket. Zero matches
// is ErrTicketNotFound; more than one is ErrIntegrity.
func (r *TicketRepo) findOne(ctx context.Context, field, value string) (*model.Ticket, error) {
	docs, err := r.store.QueryExact(ctx, ticketCollection, field, value)
	if err != nil {
		return nil, err
	}
	switch len(docs) {
	case 0:
		return nil, ErrTicketNotFound
	case 1:
		return docToTicket(docs[0])
	default:
		return nil, ErrIntegrity
	}
}

// FindByCode looks a ticket up by its confirmation code.
func (r *TicketRepo) FindByCode(ctx context.Context, code string) (*model.Ticket, error) {
	return r.findOne(ctx, "confirmation_code", code)
}

// FindByQRPayload looks a ticket up by the payload recovered from a
// scanned QR symbol.
func (r *TicketRepo) FindByQRPayload(ctx context.Context, payload string) (*model.Ticket, error) {
	return r.findOne(ctx, "qr_payload", payload)
}

// OccupiedSeatIDs returns the ids of every seat referenced by a
// persisted ticket for the event. Seat map reconciliation is computed
// from this set on page load.
func (r *TicketRepo) OccupiedSeatIDs(ctx context.Context, eventID string) ([]string, error) {
	docs, err := r.store.QueryExact(ctx, ticketCollection, "event_id", eventID)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, d := range docs {
		t, err := docToTicket(d)
		if err != nil {
			return nil, err
		}
		ids = append(ids, t.SeatIDs()...)
	}
	return ids, nil
}

// Approve moves a pending ticket to approved. The transition is a
// compare-and-set on the status field; a ticket that already left
// pending reports ErrNotPending. The updated ticket is returned so the
// caller can send the activation notification.
func (r *TicketRepo) Approve(ctx context.Context, code string) (*model.Ticket, error) {
	t, err := r.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	err = r.store.UpdateFieldsIf(ctx, ticketCollection, t.ConfirmationCode,
		"status", string(model.TicketPending),
		map[string]any{"status": string(model.TicketApproved)})
	switch {
	case errors.Is(err, store.ErrPreconditionFailed):
		return nil, ErrNotPending
	case errors.Is(err, store.ErrDocNotFound):
		return nil, ErrTicketNotFound
	case err != nil:
		return nil, err
	}
	t.Status = model.TicketApproved
	return t, nil
}

// RejectEvidence clears a pending ticket's payment evidence so the
// buyer can re-submit proof. The ticket stays pending; rejection never
// deletes it.
func (r *TicketRepo) RejectEvidence(ctx context.Context, code string) (*model.Ticket, error) {
	t, err := r.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	err = r.store.UpdateFieldsIf(ctx, ticketCollection, t.ConfirmationCode,
		"status", string(model.TicketPending),
		map[string]any{"payment_details": model.PaymentDetails{}})
	switch {
	case errors.Is(err, store.ErrPreconditionFailed):
		return nil, ErrNotPending
	case errors.Is(err, store.ErrDocNotFound):
		return nil, ErrTicketNotFound
	case err != nil:
		return nil, err
	}
	t.PaymentDetails = model.PaymentDetails{}
	return t, nil
}

// Redeem marks an approved ticket as used. The flag flip is a
// compare-and-set on used=false, so of two gate devices scanning the
// same ticket concurrently the first writer wins and the second sees
// ErrAlreadyRedeemed. Pending tickets report ErrNotEligible.
func (r *TicketRepo) Redeem(ctx context.Context, code string, now time.Time) (*model.Ticket, error) {
	t, err := r.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if t.Used {
		return nil, ErrAlreadyRedeemed
	}
	if t.Status != model.TicketApproved {
		return nil, ErrNotEligible
	}
	usedAt := now.UTC()
	err = r.store.UpdateFieldsIf(ctx, ticketCollection, t.ConfirmationCode,
		"used", false,
		map[string]any{"used": true, "used_at": usedAt.Format(time.RFC3339)})
	switch {
	case errors.Is(err, store.ErrPreconditionFailed):
		// Lost the race to another gate device.
		return nil, ErrAlreadyRedeemed
	case errors.Is(err, store.ErrDocNotFound):
		return nil, ErrTicketNotFound
	case err != nil:
		return nil, err
	}
	t.Used = true
	t.UsedAt = &usedAt
	return t, nil
}

// ListByEvent returns every ticket for the event ordered by creation
// time.
func (r *TicketRepo) ListByEvent(ctx context.Context, eventID string) ([]*model.Ticket, error) {
	docs, err := r.store.ListAll(ctx, ticketCollection, "created_at")
	if err != nil {
		return nil, err
	}
	var out []*model.Ticket
	for _, d := range docs {
		t, err := docToTicket(d)
		if err != nil {
			return nil, err
		}
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

// Purge permanently removes a ticket. Callers gate this behind the
// administrative PIN check; the repository itself only deletes.
func (r *TicketRepo) Purge(ctx context.Context, code string) error {
	err := r.store.Delete(ctx, ticketCollection, code)
	if errors.Is(err, store.ErrDocNotFound) {
		return ErrTicketNotFound
	}
	return err
}
