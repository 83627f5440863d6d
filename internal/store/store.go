// Package store defines the persistence collaborator consumed by the
// ticketing core. The document store is treated as a black box behind
// this interface; the core only relies on the query/insert/update
// primitives plus two conditional primitives that give seat claims and
// redemption their atomicity.
package store

import (
	"context"
	"errors"
)

// Document is a schemaless record. Every stored document carries a
// string value under the "id" key.
type Document map[string]any

// ID returns the document's id, or "" when absent.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// Sentinel errors shared by all implementations. Higher layers compare
// with errors.Is and translate them into their own conditions.
var (
	// ErrDocNotFound is returned when an update or delete targets a
	// document that does not exist.
	ErrDocNotFound = errors.New("store: document not found")
	// ErrGuardConflict is returned by InsertIfNoOverlap when an existing
	// document already claims one of the guard values.
	ErrGuardConflict = errors.New("store: guard values already claimed")
	// ErrPreconditionFailed is returned by UpdateFieldsIf when the
	// conditional field no longer holds the expected value.
	ErrPreconditionFailed = errors.New("store: precondition failed")
	// ErrDuplicateID is returned when inserting a document whose id is
	// already present in the collection.
	ErrDuplicateID = errors.New("store: duplicate document id")
)

// DocumentStore is the persistence collaborator interface.
//
// InsertIfNoOverlap and UpdateFieldsIf are the two conditional writes
// the core depends on for correctness: the former makes seat claims
// atomic (a ticket is only created if none of its guard values are
// referenced by an existing document), the latter is the compare-and-
// set used for one-time redemption and for the pending-to-approved
// transition.
type DocumentStore interface {
	// Insert stores a document and returns its id. Documents without an
	// "id" field are assigned one.
	Insert(ctx context.Context, collection string, doc Document) (string, error)
	// QueryExact returns every document whose top-level field equals the
	// given value.
	QueryExact(ctx context.Context, collection, field string, value any) ([]Document, error)
	// UpdateFields merges the given fields into an existing document.
	UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error
	// ListAll returns every document in the collection ordered ascending
	// by the named top-level field.
	ListAll(ctx context.Context, collection, orderBy string) ([]Document, error)
	// InsertIfNoOverlap atomically inserts doc unless any existing
	// document's guardField array shares a value with guardValues.
	InsertIfNoOverlap(ctx context.Context, collection string, doc Document, guardField string, guardValues []string) (string, error)
	// UpdateFieldsIf merges fields into the document only while its
	// condField still equals condEquals.
	UpdateFieldsIf(ctx context.Context, collection, id, condField string, condEquals any, fields map[string]any) error
	// Delete removes a document.
	Delete(ctx context.Context, collection, id string) error
}
