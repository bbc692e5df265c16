package store

import (
	"context"

	"github.com/stashkeep/recordpipe"
)

// Source provides a segmented parallel scan over the legacy record table.
// Implementations must be safe for concurrent ScanSegment calls on disjoint
// segments.
type Source interface {
	// Bounds returns the inclusive [lo, hi] ID range of the legacy table.
	// Returns ErrEmptySource when the table holds no records.
	Bounds(ctx context.Context) (lo, hi int64, err error)

	// ScanSegment streams every record in the segment to fn in ID order,
	// without materializing the segment in memory. A non-nil error from fn
	// stops the scan and is returned unchanged. Scan errors are fatal for
	// the run; retries belong to the per-record migration step only.
	ScanSegment(ctx context.Context, seg recordpipe.Segment, fn func(recordpipe.SourceRecord) error) error
}

// Destination rewrites a single legacy record into the new representation.
type Destination interface {
	// MigrateRecord writes the record under the new scheme and reports true
	// iff a write actually occurred. Returning (false, nil) means the record
	// was already migrated; that is a normal, non-error outcome.
	//
	// MigrateRecord must be idempotent and safe under concurrent invocation
	// for distinct keys. Behavior under concurrent invocation for the same
	// key is undefined; the scanner yields each key once.
	//
	// Failures that may succeed on a later attempt should be wrapped with
	// Transient so the migrator retries them.
	MigrateRecord(ctx context.Context, rec recordpipe.SourceRecord) (bool, error)
}
