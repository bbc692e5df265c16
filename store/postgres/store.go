// Package postgres provides the PostgreSQL-backed record store.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/stashkeep/recordpipe"
	"github.com/stashkeep/recordpipe/store"
)

// DefaultPageSize is the number of rows fetched per cursor page during a
// segment scan. Pages keep segment scans from materializing whole segments
// in memory.
const DefaultPageSize = 500

// Store is a PostgreSQL implementation of store.Source and store.Destination.
type Store struct {
	db           *sql.DB
	legacyTable  string
	recordsTable string
	pageSize     int
}

// Compile-time checks.
var (
	_ store.Source      = (*Store)(nil)
	_ store.Destination = (*Store)(nil)
)

// New creates a new PostgreSQL store with default table names.
func New(db *sql.DB) *Store {
	return NewWithConfig(db, DefaultTableConfig())
}

// NewWithConfig creates a new PostgreSQL store with custom table names.
func NewWithConfig(db *sql.DB, config TableConfig) *Store {
	return &Store{
		db:           db,
		legacyTable:  config.LegacyTable,
		recordsTable: config.RecordsTable,
		pageSize:     DefaultPageSize,
	}
}

// Bounds returns the inclusive [lo, hi] ID range of the legacy table.
// Returns store.ErrEmptySource when the table holds no rows.
func (s *Store) Bounds(ctx context.Context) (int64, int64, error) {
	query := fmt.Sprintf(`SELECT MIN(id), MAX(id) FROM %s`, s.legacyTable)

	var lo, hi sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query).Scan(&lo, &hi); err != nil {
		return 0, 0, fmt.Errorf("failed to read scan bounds: %w", err)
	}
	if !lo.Valid || !hi.Valid {
		return 0, 0, store.ErrEmptySource
	}
	return lo.Int64, hi.Int64, nil
}

// ScanSegment streams every record with id in [seg.Lo, seg.Hi) to fn using
// cursor pagination, so a segment is never held in memory at once.
func (s *Store) ScanSegment(ctx context.Context, seg recordpipe.Segment, fn func(recordpipe.SourceRecord) error) error {
	query := fmt.Sprintf(`
		SELECT id, record_key, token_hash, token_salt, expires_at
		FROM %s
		WHERE id >= $1 AND id < $2 AND id > $3
		ORDER BY id
		LIMIT $4
	`, s.legacyTable)

	cursor := seg.Lo - 1
	for {
		n, last, err := s.scanPage(ctx, query, seg, cursor, fn)
		if err != nil {
			return err
		}
		if n < s.pageSize {
			return nil
		}
		cursor = last
	}
}

func (s *Store) scanPage(ctx context.Context, query string, seg recordpipe.Segment, cursor int64, fn func(recordpipe.SourceRecord) error) (int, int64, error) {
	rows, err := s.db.QueryContext(ctx, query, seg.Lo, seg.Hi, cursor, s.pageSize)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to scan segment [%d, %d): %w", seg.Lo, seg.Hi, err)
	}
	defer rows.Close()

	var (
		n    int
		last int64
	)
	for rows.Next() {
		var (
			id  int64
			rec recordpipe.SourceRecord
		)
		if err := rows.Scan(&id, &rec.Key, &rec.Token.Hash, &rec.Token.Salt, &rec.ExpiresAt); err != nil {
			return n, last, fmt.Errorf("failed to scan legacy row: %w", err)
		}
		if err := fn(rec); err != nil {
			return n, last, err
		}
		n++
		last = id
	}
	if err := rows.Err(); err != nil {
		return n, last, fmt.Errorf("segment [%d, %d) scan interrupted: %w", seg.Lo, seg.Hi, err)
	}
	return n, last, nil
}

// MigrateRecord inserts the record into the destination table. The insert is
// idempotent: a key that already exists reports (false, nil) without
// modifying the row, so re-running a migration performs no redundant writes.
func (s *Store) MigrateRecord(ctx context.Context, rec recordpipe.SourceRecord) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (record_key, token_hash, token_salt, expires_at, migrated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (record_key) DO NOTHING
	`, s.recordsTable)

	result, err := s.db.ExecContext(ctx, query, rec.Key, rec.Token.Hash, rec.Token.Salt, rec.ExpiresAt)
	if err != nil {
		if retryable(err) {
			return false, store.Transient(fmt.Errorf("failed to migrate record: %w", err))
		}
		return false, fmt.Errorf("failed to migrate record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read migrate result: %w", err)
	}
	return affected > 0, nil
}

// retryable reports whether a destination write failure may succeed on a
// later attempt. Connection loss (class 08), insufficient resources (53),
// transaction rollbacks such as serialization failures and deadlocks (40),
// and operator intervention (57) are retried; everything else is permanent.
func retryable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	switch pqErr.Code.Class() {
	case "08", "40", "53", "57":
		return true
	default:
		return false
	}
}
