// Package memory provides an in-memory record store for tests and examples.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/stashkeep/recordpipe"
	"github.com/stashkeep/recordpipe/store"
)

// Store is an in-memory implementation of store.Source and store.Destination.
// Legacy records are addressed by synthetic IDs 1..N in insertion order. The
// store instruments MigrateRecord with call counting and a high-water mark of
// concurrent entries so tests can observe the pipeline's concurrency bound.
type Store struct {
	mu       sync.RWMutex
	legacy   []recordpipe.SourceRecord
	migrated map[string]recordpipe.SourceRecord

	// failures maps record keys to errors returned by MigrateRecord. An
	// entry with remaining < 0 fails on every attempt.
	failures map[string]*failure

	migrateCalls int
	migrateDelay time.Duration

	inFlight    int
	maxInFlight int
}

type failure struct {
	err       error
	remaining int
}

// Compile-time checks.
var (
	_ store.Source      = (*Store)(nil)
	_ store.Destination = (*Store)(nil)
)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		migrated: make(map[string]recordpipe.SourceRecord),
		failures: make(map[string]*failure),
	}
}

// Seed appends legacy records to the store in the given order.
func (s *Store) Seed(records ...recordpipe.SourceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legacy = append(s.legacy, records...)
}

// FailKey makes MigrateRecord return err for key on every attempt.
func (s *Store) FailKey(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key] = &failure{err: err, remaining: -1}
}

// FailKeyTimes makes MigrateRecord return err for key on the next n attempts,
// succeeding afterwards.
func (s *Store) FailKeyTimes(key string, err error, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[key] = &failure{err: err, remaining: n}
}

// SetMigrateDelay makes every MigrateRecord call sleep for d before
// completing, so tests can hold several calls in flight at once.
func (s *Store) SetMigrateDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrateDelay = d
}

// Bounds implements store.Source.
func (s *Store) Bounds(ctx context.Context) (int64, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.legacy) == 0 {
		return 0, 0, store.ErrEmptySource
	}
	return 1, int64(len(s.legacy)), nil
}

// ScanSegment implements store.Source. Records are yielded in ID order.
func (s *Store) ScanSegment(ctx context.Context, seg recordpipe.Segment, fn func(recordpipe.SourceRecord) error) error {
	s.mu.RLock()
	lo := seg.Lo
	hi := min(seg.Hi, int64(len(s.legacy))+1)
	records := make([]recordpipe.SourceRecord, 0, max(hi-lo, 0))
	for id := lo; id < hi; id++ {
		records = append(records, s.legacy[id-1])
	}
	s.mu.RUnlock()

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// MigrateRecord implements store.Destination. The write is idempotent: a key
// that was already migrated reports (false, nil) without modifying the store.
func (s *Store) MigrateRecord(ctx context.Context, rec recordpipe.SourceRecord) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	s.migrateCalls++
	s.inFlight++
	if s.inFlight > s.maxInFlight {
		s.maxInFlight = s.inFlight
	}
	f := s.failures[rec.Key]
	if f != nil && f.remaining == 0 {
		f = nil
	}
	if f != nil && f.remaining > 0 {
		f.remaining--
	}
	delay := s.migrateDelay
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(delay):
		}
	}

	if f != nil {
		return false, f.err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.migrated[rec.Key]; ok {
		return false, nil
	}
	s.migrated[rec.Key] = rec
	return true, nil
}

// MigrateCalls returns how many times MigrateRecord was invoked.
func (s *Store) MigrateCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.migrateCalls
}

// MaxInFlight returns the highest number of MigrateRecord invocations that
// were ever in progress simultaneously.
func (s *Store) MaxInFlight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxInFlight
}

// Migrated returns a copy of the migrated records keyed by record key.
func (s *Store) Migrated() map[string]recordpipe.SourceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]recordpipe.SourceRecord, len(s.migrated))
	for k, v := range s.migrated {
		out[k] = v
	}
	return out
}
