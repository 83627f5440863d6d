// Package cache implements the offline ticket cache: a durable local
// key-value map of ticket snapshots keyed by confirmation code, and a
// read-through lookup that falls back to the persistence collaborator
// when online. Entries survive process restarts and are never evicted;
// an event's worth of tickets is small enough to accumulate.
package cache

import (
	"errors"

	"github.com/dgraph-io/badger"

	"github.com/aramkh/academy-ticketing/internal/model"
)

// keyPrefix namespaces ticket snapshots inside the shared Badger
// keyspace.
const keyPrefix = "ticket:"

// ErrNotCached is returned by Get when no snapshot exists for a code.
var ErrNotCached = errors.New("cache: ticket not cached")

// TicketCache is the durable local snapshot store.
type TicketCache struct {
	db *badger.DB
}

// Open opens (or creates) the cache at dir.
func Open(dir string) (*TicketCache, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // badger's own chatter drowns the request log
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &TicketCache{db: db}, nil
}

// Close flushes and closes the underlying store.
func (c *TicketCache) Close() error { return c.db.Close() }

// Get returns the cached snapshot for a confirmation code, or
// ErrNotCached.
func (c *TicketCache) Get(code string) (model.TicketSnapshot, error) {
	var snap model.TicketSnapshot
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + code))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		snap, err = model.DecodeSnapshot(raw)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return model.TicketSnapshot{}, ErrNotCached
	}
	if err != nil {
		return model.TicketSnapshot{}, err
	}
	return snap, nil
}

// Put writes a snapshot for a confirmation code. Writes are
// last-fetch-wins: every successful remote fetch refreshes the entry,
// and nothing here compares event logical time.
func (c *TicketCache) Put(code string, snap model.TicketSnapshot) error {
	raw, err := snap.Encode()
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+code), raw)
	})
}
