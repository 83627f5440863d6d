package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a mutex-guarded in-memory DocumentStore. It backs the
// test suites and the "memory" store driver used for offline
// development. The mutex serializes the conditional writes, which is
// what gives seat claims and redemption their first-writer-wins
// semantics in this implementation.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]Document
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

func (s *MemoryStore) coll(name string) map[string]Document {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]Document)
		s.collections[name] = c
	}
	return c
}

// clone deep-copies a document through JSON so callers never share
// backing maps with the store.
func clone(d Document) Document {
	b, err := json.Marshal(d)
	if err != nil {
		// Documents come from json.Marshal-able sources; treat failure
		// as a programming error.
		panic(fmt.Sprintf("store: unmarshalable document: %v", err))
	}
	var out Document
	_ = json.Unmarshal(b, &out)
	return out
}

// eq compares two field values through their JSON encoding so that
// string/bool/number comparisons behave the same here as in the SQL
// implementation.
func eq(a, b any) bool {
	ab, errA := json.Marshal(a)
	bb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(ab) == string(bb)
}

// Insert stores a copy of doc, assigning an id when missing.
func (s *MemoryStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := clone(doc)
	id := d.ID()
	if id == "" {
		id = uuid.NewString()
		d["id"] = id
	}
	c := s.coll(collection)
	if _, exists := c[id]; exists {
		return "", ErrDuplicateID
	}
	c[id] = d
	return id, nil
}

// QueryExact returns copies of every document whose field equals value.
func (s *MemoryStore) QueryExact(ctx context.Context, collection, field string, value any) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Document
	for _, d := range s.coll(collection) {
		if eq(d[field], value) {
			out = append(out, clone(d))
		}
	}
	return out, nil
}

// UpdateFields merges fields into an existing document.
func (s *MemoryStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.coll(collection)
	d, ok := c[id]
	if !ok {
		return ErrDocNotFound
	}
	merged := clone(d)
	for k, v := range clone(Document(fields)) {
		merged[k] = v
	}
	c[id] = merged
	return nil
}

// ListAll returns all documents sorted ascending by orderBy. Values are
// compared through their JSON encoding, which gives lexicographic order
// for the RFC3339 timestamps the core sorts on.
func (s *MemoryStore) ListAll(ctx context.Context, collection, orderBy string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Document, 0, len(s.coll(collection)))
	for _, d := range s.coll(collection) {
		out = append(out, clone(d))
	}
	sort.Slice(out, func(i, j int) bool {
		bi, _ := json.Marshal(out[i][orderBy])
		bj, _ := json.Marshal(out[j][orderBy])
		return string(bi) < string(bj)
	})
	return out, nil
}

// InsertIfNoOverlap inserts doc unless an existing document's
// guardField array already contains one of guardValues.
func (s *MemoryStore) InsertIfNoOverlap(ctx context.Context, collection string, doc Document, guardField string, guardValues []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[string]bool, len(guardValues))
	for _, v := range guardValues {
		wanted[v] = true
	}
	c := s.coll(collection)
	for _, d := range c {
		claims, ok := d[guardField].([]any)
		if !ok {
			continue
		}
		for _, claim := range claims {
			if cs, ok := claim.(string); ok && wanted[cs] {
				return "", ErrGuardConflict
			}
		}
	}
	d := clone(doc)
	id := d.ID()
	if id == "" {
		id = uuid.NewString()
		d["id"] = id
	}
	if _, exists := c[id]; exists {
		return "", ErrDuplicateID
	}
	c[id] = d
	return id, nil
}

// UpdateFieldsIf merges fields only while condField equals condEquals.
func (s *MemoryStore) UpdateFieldsIf(ctx context.Context, collection, id, condField string, condEquals any, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.coll(collection)
	d, ok := c[id]
	if !ok {
		return ErrDocNotFound
	}
	if !eq(d[condField], condEquals) {
		return ErrPreconditionFailed
	}
	merged := clone(d)
	for k, v := range clone(Document(fields)) {
		merged[k] = v
	}
	c[id] = merged
	return nil
}

// Delete removes a document.
func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.coll(collection)
	if _, ok := c[id]; !ok {
		return ErrDocNotFound
	}
	delete(c, id)
	return nil
}
