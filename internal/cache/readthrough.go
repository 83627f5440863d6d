package cache

import (
	"context"
	"errors"
	"time"

	"github.com/aramkh/academy-ticketing/internal/model"
	"github.com/aramkh/academy-ticketing/internal/repository"
)

// ErrOfflineAndUncached is returned when a lookup misses the cache
// while no connectivity is available. It is deliberately distinct from
// repository.ErrTicketNotFound so the caller can explain the two
// causes differently.
var ErrOfflineAndUncached = errors.New("cache: offline and ticket not cached")

// OnlineFunc reports whether the persistence collaborator is currently
// reachable.
type OnlineFunc func() bool

// ReadThrough resolves confirmation codes to ticket snapshots with the
// cache-first policy: a cached snapshot is served without touching the
// network; on a miss the remote store is queried when online and the
// result written through; a miss while offline is ErrOfflineAndUncached.
type ReadThrough struct {
	cache  *TicketCache
	repo   *repository.TicketRepo
	online OnlineFunc
	now    func() time.Time
}

// NewReadThrough wires a read-through lookup. A nil online func is
// treated as always online.
func NewReadThrough(c *TicketCache, repo *repository.TicketRepo, online OnlineFunc) *ReadThrough {
	if online == nil {
		online = func() bool { return true }
	}
	return &ReadThrough{cache: c, repo: repo, online: online, now: time.Now}
}

// Lookup returns the snapshot for a confirmation code.
func (r *ReadThrough) Lookup(ctx context.Context, code string) (model.TicketSnapshot, error) {
	if snap, err := r.cache.Get(code); err == nil {
		return snap, nil
	} else if !errors.Is(err, ErrNotCached) {
		return model.TicketSnapshot{}, err
	}
	if !r.online() {
		return model.TicketSnapshot{}, ErrOfflineAndUncached
	}
	t, err := r.repo.FindByCode(ctx, code)
	if err != nil {
		return model.TicketSnapshot{}, err
	}
	snap := model.SnapshotOf(t, r.now())
	if err := r.cache.Put(code, snap); err != nil {
		return model.TicketSnapshot{}, err
	}
	return snap, nil
}

// Refresh overwrites the cache entry for a ticket with a fresh
// snapshot. Issuance and redemption call this so the local copy tracks
// the latest persisted state.
func (r *ReadThrough) Refresh(t *model.Ticket) error {
	return r.cache.Put(t.ConfirmationCode, model.SnapshotOf(t, r.now()))
}
