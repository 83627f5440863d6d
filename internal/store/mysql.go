package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// MySQLStore implements DocumentStore on top of a single MySQL table
// holding JSON documents:
//
//	CREATE TABLE documents (
//	    collection VARCHAR(64)  NOT NULL,
//	    id         VARCHAR(128) NOT NULL,
//	    doc        JSON         NOT NULL,
//	    PRIMARY KEY (collection, id)
//	)
//
// The conditional primitives run inside transactions; InsertIfNoOverlap
// takes a collection-range lock so that two overlapping seat claims are
// serialized and exactly one wins.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore constructs a MySQLStore with the given DB handle.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// EnsureSchema creates the documents table when it does not exist.
func (s *MySQLStore) EnsureSchema(ctx context.Context) error {
	const q = `CREATE TABLE IF NOT EXISTS documents (
	               collection VARCHAR(64)  NOT NULL,
	               id         VARCHAR(128) NOT NULL,
	               doc        JSON         NOT NULL,
	               PRIMARY KEY (collection, id)
	           )`
	_, err := s.db.ExecContext(ctx, q)
	return err
}

func jsonPath(field string) string {
	// Field names are internal constants, never caller input.
	return fmt.Sprintf("$.%q", field)
}

// Insert stores a document, assigning a random id when missing.
func (s *MySQLStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	id := doc.ID()
	if id == "" {
		id = uuid.NewString()
		doc = clone(doc)
		doc["id"] = id
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	const existsQ = `SELECT 1 FROM documents WHERE collection = ? AND id = ?`
	var one int
	switch err := s.db.QueryRowContext(ctx, existsQ, collection, id).Scan(&one); err {
	case sql.ErrNoRows:
	case nil:
		return "", ErrDuplicateID
	default:
		return "", err
	}
	const q = `INSERT INTO documents (collection, id, doc) VALUES (?, ?, CAST(? AS JSON))`
	if _, err := s.db.ExecContext(ctx, q, collection, id, body); err != nil {
		return "", err
	}
	return id, nil
}

// QueryExact returns every document whose top-level field equals value.
// The comparison happens on the JSON encodings so strings, booleans and
// numbers behave uniformly.
func (s *MySQLStore) QueryExact(ctx context.Context, collection, field string, value any) ([]Document, error) {
	vb, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	q := `SELECT doc FROM documents
	      WHERE collection = ? AND JSON_EXTRACT(doc, '` + jsonPath(field) + `') = CAST(? AS JSON)`
	rows, err := s.db.QueryContext(ctx, q, collection, vb)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var d Document
		if err := json.Unmarshal(body, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateFields merges fields into an existing document. The merge is a
// top-level key replacement performed in Go inside a transaction, so
// the semantics match the in-memory implementation exactly.
func (s *MySQLStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	return s.updateLocked(ctx, collection, id, func(d Document) error {
		return nil
	}, fields)
}

// UpdateFieldsIf merges fields only while the document's condField
// still equals condEquals.
func (s *MySQLStore) UpdateFieldsIf(ctx context.Context, collection, id, condField string, condEquals any, fields map[string]any) error {
	return s.updateLocked(ctx, collection, id, func(d Document) error {
		if !eq(d[condField], condEquals) {
			return ErrPreconditionFailed
		}
		return nil
	}, fields)
}

// updateLocked implements the shared select-for-update, check, merge,
// write sequence used by both update methods.
func (s *MySQLStore) updateLocked(ctx context.Context, collection, id string, check func(Document) error, fields map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const sel = `SELECT doc FROM documents WHERE collection = ? AND id = ? FOR UPDATE`
	var body []byte
	if err := tx.QueryRowContext(ctx, sel, collection, id).Scan(&body); err != nil {
		if err == sql.ErrNoRows {
			return ErrDocNotFound
		}
		return err
	}
	var d Document
	if err := json.Unmarshal(body, &d); err != nil {
		return err
	}
	if err := check(d); err != nil {
		return err
	}
	for k, v := range fields {
		d[k] = v
	}
	merged, err := json.Marshal(d)
	if err != nil {
		return err
	}
	const upd = `UPDATE documents SET doc = CAST(? AS JSON) WHERE collection = ? AND id = ?`
	if _, err := tx.ExecContext(ctx, upd, merged, collection, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListAll returns every document in the collection ordered ascending by
// the named top-level field.
func (s *MySQLStore) ListAll(ctx context.Context, collection, orderBy string) ([]Document, error) {
	q := `SELECT doc FROM documents
	      WHERE collection = ?
	      ORDER BY JSON_UNQUOTE(JSON_EXTRACT(doc, '` + jsonPath(orderBy) + `')) ASC`
	rows, err := s.db.QueryContext(ctx, q, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var d Document
		if err := json.Unmarshal(body, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// InsertIfNoOverlap atomically inserts doc unless an existing document
// in the collection already claims one of guardValues in guardField.
// The SELECT ... FOR UPDATE over the collection's index range blocks
// concurrent claimants until this transaction decides.
func (s *MySQLStore) InsertIfNoOverlap(ctx context.Context, collection string, doc Document, guardField string, guardValues []string) (string, error) {
	vb, err := json.Marshal(guardValues)
	if err != nil {
		return "", err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	lockQ := `SELECT COUNT(*) FROM documents
	          WHERE collection = ?
	            AND JSON_OVERLAPS(JSON_EXTRACT(doc, '` + jsonPath(guardField) + `'), CAST(? AS JSON))
	          FOR UPDATE`
	var overlapping int
	if err := tx.QueryRowContext(ctx, lockQ, collection, vb).Scan(&overlapping); err != nil {
		return "", err
	}
	if overlapping > 0 {
		return "", ErrGuardConflict
	}

	id := doc.ID()
	if id == "" {
		id = uuid.NewString()
		doc = clone(doc)
		doc["id"] = id
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	const ins = `INSERT INTO documents (collection, id, doc) VALUES (?, ?, CAST(? AS JSON))`
	if _, err := tx.ExecContext(ctx, ins, collection, id, body); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	committed = true
	return id, nil
}

// Delete removes a document.
func (s *MySQLStore) Delete(ctx context.Context, collection, id string) error {
	const q = `DELETE FROM documents WHERE collection = ? AND id = ?`
	res, err := s.db.ExecContext(ctx, q, collection, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDocNotFound
	}
	return nil
}
