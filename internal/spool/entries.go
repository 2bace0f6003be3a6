package spool

import (
	"context"
	"database/sql"
	"encoding"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when no entry has the requested id.
var ErrNotFound = errors.New("entry not found")

// ErrInvalidKind is returned for a Kind other than KindUntyped or KindTyped.
var ErrInvalidKind = errors.New("invalid entry kind")

// Kind says which record variant produced a blob.
type Kind string

const (
	KindUntyped Kind = "untyped"
	KindTyped   Kind = "typed"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindUntyped || k == KindTyped
}

// Entry is one stored blob.
type Entry struct {
	ID        string
	Kind      Kind
	Blob      []byte
	CreatedAt time.Time
}

// Put stores blob verbatim and returns the new entry id.
//
// Idempotent on id: ON CONFLICT DO NOTHING, so a generator that repeats an
// id leaves the first entry untouched.
func (s *Spool) Put(ctx context.Context, kind Kind, blob []byte) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("put: %w: %q", ErrInvalidKind, kind)
	}
	if blob == nil {
		blob = []byte{}
	}

	id := s.ids.Generate()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (id, kind, blob, size, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, string(kind), blob, len(blob), s.now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("insert entry %s: %w", id, err)
	}

	s.logger.Debug("spooled record", "id", id, "kind", kind, "bytes", len(blob))
	return id, nil
}

// PutRecord marshals r and stores the result.
func (s *Spool) PutRecord(ctx context.Context, kind Kind, r encoding.BinaryMarshaler) (string, error) {
	blob, err := r.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	return s.Put(ctx, kind, blob)
}

// Get returns the entry with the given id, or ErrNotFound.
func (s *Spool) Get(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, blob, created_at
		FROM entries
		WHERE id = ?
	`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get %s: %w", id, err)
	}
	return e, nil
}

// ListOptions filters List results.
type ListOptions struct {
	// Kind restricts results to one kind when non-empty.
	Kind Kind
	// Limit caps the number of entries; zero or negative means no limit.
	Limit int
}

// List returns entries in creation order (ORDER BY id ASC COLLATE BINARY).
//
// Returns empty slice (not nil) if the spool is empty.
func (s *Spool) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	if opts.Kind != "" && !opts.Kind.Valid() {
		return nil, fmt.Errorf("list: %w: %q", ErrInvalidKind, opts.Kind)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, blob, created_at
		FROM entries
		WHERE (? = '' OR kind = ?)
		ORDER BY id COLLATE BINARY ASC
		LIMIT ?
	`, string(opts.Kind), string(opts.Kind), limit)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	// Return empty slice instead of nil
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Count returns the number of stored entries.
func (s *Spool) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// Delete removes the entry with the given id, or returns ErrNotFound.
func (s *Spool) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var (
		e         Entry
		kind      string
		createdAt int64
	)
	if err := row.Scan(&e.ID, &kind, &e.Blob, &createdAt); err != nil {
		return Entry{}, err
	}
	e.Kind = Kind(kind)
	e.CreatedAt = time.UnixMilli(createdAt).UTC()
	if e.Blob == nil {
		e.Blob = []byte{}
	}
	return e, nil
}
