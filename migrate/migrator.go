// Package migrate applies the per-record migration operation with a hard cap
// on simultaneous in-flight operations. It owns retry, backoff, and
// record-level error isolation.
package migrate

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/stashkeep/recordpipe"
	"github.com/stashkeep/recordpipe/store"
)

// Config holds configuration for the Migrator.
type Config struct {
	// Destination is the store migrations are written to (required unless
	// DryRun is set).
	Destination store.Destination

	// DryRun suppresses all destination writes. Records are still inspected
	// and counted, so a dry run observes identical read traffic.
	DryRun bool

	// MaxConcurrency caps outstanding migration operations
	// (default: recordpipe.DefaultMaxConcurrency).
	MaxConcurrency int

	// Counters is the run's shared accounting state (required).
	Counters *recordpipe.Counters

	// Recorder receives accounting events for external metrics (optional).
	Recorder recordpipe.Recorder

	// Retry bounds per-record retries on transient failure.
	Retry RetryPolicy

	// Logger is for observability (optional).
	Logger *slog.Logger
}

// Migrator consumes the flattened record stream and migrates each record.
// At most MaxConcurrency operations are outstanding at any instant;
// additional records wait until a slot frees.
type Migrator struct {
	config Config
	sem    *semaphore.Weighted
}

// New creates a new Migrator with the given configuration.
// Applies defaults for MaxConcurrency, Recorder, Retry, and Logger.
func New(cfg Config) *Migrator {
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = recordpipe.DefaultMaxConcurrency
	}
	if cfg.Recorder == nil {
		cfg.Recorder = recordpipe.NopRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.Retry = cfg.Retry.WithDefaults()

	return &Migrator{
		config: cfg,
		sem:    semaphore.NewWeighted(int64(cfg.MaxConcurrency)),
	}
}

// Run consumes records from in until it is closed, then waits for every
// dispatched migration to resolve.
//
// Each record is counted as inspected exactly once. In dry-run mode the
// destination store is never contacted and the outcome is always false.
// A record whose migration fails permanently is logged with its key, counted
// as abandoned, and skipped; it never aborts the run. Run only returns an
// error when the context is cancelled.
func (m *Migrator) Run(ctx context.Context, in <-chan recordpipe.SourceRecord) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	for rec := range in {
		m.config.Counters.IncInspected()
		m.config.Recorder.IncInspected()

		if m.config.DryRun {
			continue
		}

		if err := m.sem.Acquire(ctx, 1); err != nil {
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer m.sem.Release(1)
			m.migrateOne(ctx, rec)
		}()
	}
	return nil
}

// migrateOne applies the migration operation for a single record, retrying
// transient failures per the retry policy. All failures are contained here.
func (m *Migrator) migrateOne(ctx context.Context, rec recordpipe.SourceRecord) {
	var migrated bool
	err := m.config.Retry.Do(ctx, func() error {
		var opErr error
		migrated, opErr = m.config.Destination.MigrateRecord(ctx, rec)
		return opErr
	})
	if err != nil {
		m.config.Logger.Warn("abandoning record after failed migration",
			"key", rec.Key, "error", err)
		m.config.Counters.IncAbandoned()
		m.config.Recorder.IncAbandoned()
		return
	}

	// A false outcome without error means the record was already migrated;
	// that is a normal result and gets no log line.
	if migrated {
		m.config.Counters.IncMigrated()
		m.config.Recorder.IncMigrated()
	}
}
