// Package pipeline wires the migration stages together and drives a run to
// completion.
package pipeline

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/stashkeep/recordpipe"
	"github.com/stashkeep/recordpipe/batch"
	"github.com/stashkeep/recordpipe/migrate"
	"github.com/stashkeep/recordpipe/progress"
	"github.com/stashkeep/recordpipe/scan"
	"github.com/stashkeep/recordpipe/store"
)

// Config holds configuration for the Pipeline.
type Config struct {
	// Source is the store to scan (required).
	Source store.Source

	// Destination is the store migrations are written to (required unless
	// Run.DryRun is set).
	Destination store.Destination

	// Run holds the per-run tunables. Zero-valued fields are defaulted.
	Run recordpipe.Config

	// Recorder receives accounting events for external metrics (optional).
	Recorder recordpipe.Recorder

	// Retry bounds per-record retries on transient failure.
	Retry migrate.RetryPolicy

	// ProgressInterval is the time between progress log lines; zero disables
	// progress reporting.
	ProgressInterval time.Duration

	// Rand seeds intra-window shuffling (optional, for tests).
	Rand *rand.Rand

	// Logger is for observability (optional).
	Logger *slog.Logger
}

// Pipeline is the run controller: it instantiates the scanner, batcher,
// dispatcher, and migrator, connects them with capacity-bounded channels, and
// blocks until the stream is exhausted.
//
// Data flows strictly one direction:
//
//	Scanner -> Batcher -> Dispatcher -> Migrator
//
// The channel between batcher and dispatcher carries whole windows and its
// capacity encodes the window-in-flight cap; every other link is unbuffered.
type Pipeline struct {
	config Config
}

// Compile-time check that Pipeline implements Runner.
var _ recordpipe.Runner = (*Pipeline)(nil)

// New creates a new Pipeline with the given configuration.
// Applies defaults for the run config, Recorder, Retry, and Logger.
func New(cfg Config) (*Pipeline, error) {
	cfg.Run = cfg.Run.WithDefaults()
	if err := cfg.Run.Validate(); err != nil {
		return nil, err
	}
	if cfg.Source == nil {
		return nil, recordpipe.ErrSourceRequired
	}
	if cfg.Destination == nil && !cfg.Run.DryRun {
		return nil, recordpipe.ErrDestinationRequired
	}
	if cfg.Recorder == nil {
		cfg.Recorder = recordpipe.NopRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	cfg.Retry = cfg.Retry.WithDefaults()

	return &Pipeline{config: cfg}, nil
}

// Run executes the migration and blocks until either the scan sequence is
// fully consumed and all dispatched migrations have resolved, or a fatal
// error occurs. A fatal error cancels all stages; record-level failures are
// absorbed by the migrator and only show up in the summary.
func (p *Pipeline) Run(ctx context.Context) (recordpipe.Summary, error) {
	runID := uuid.New().String()
	logger := p.config.Logger.With("run_id", runID, "dry_run", p.config.Run.DryRun)

	logger.Info("migration run starting",
		"segments", p.config.Run.Segments,
		"max_concurrency", p.config.Run.MaxConcurrency,
		"buffer_size", p.config.Run.BufferSize,
		"window_in_flight", p.config.Run.WindowInFlight)

	counters := &recordpipe.Counters{}

	scanner := scan.New(scan.Config{
		Source:   p.config.Source,
		Segments: p.config.Run.Segments,
		Logger:   logger,
	})
	batcher := batch.New(batch.Config{
		Size: p.config.Run.BufferSize,
		Rand: p.config.Rand,
	})
	dispatcher := batch.NewDispatcher()
	migrator := migrate.New(migrate.Config{
		Destination:    p.config.Destination,
		DryRun:         p.config.Run.DryRun,
		MaxConcurrency: p.config.Run.MaxConcurrency,
		Counters:       counters,
		Recorder:       p.config.Recorder,
		Retry:          p.config.Retry,
		Logger:         logger,
	})

	if p.config.ProgressInterval > 0 {
		reporter := progress.New(progress.Config{
			Counters: counters,
			Interval: p.config.ProgressInterval,
			Logger:   logger,
		})
		progressCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() { _ = reporter.Run(progressCtx) }()
	}

	records := make(chan recordpipe.SourceRecord)
	// Window-in-flight cap: WindowInFlight-1 buffered windows plus the one
	// the dispatcher is draining.
	windows := make(chan []recordpipe.SourceRecord, p.config.Run.WindowInFlight-1)
	stream := make(chan recordpipe.SourceRecord)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return scanner.Run(gctx, records) })
	g.Go(func() error { return batcher.Run(gctx, records, windows) })
	g.Go(func() error { return dispatcher.Run(gctx, windows, stream) })
	g.Go(func() error { return migrator.Run(gctx, stream) })

	err := g.Wait()
	summary := counters.Snapshot()

	if err != nil {
		logger.Error("migration run failed",
			"error", err,
			"inspected", summary.Inspected,
			"migrated", summary.Migrated,
			"abandoned", summary.Abandoned)
		return summary, err
	}

	logger.Info("migration run complete",
		"inspected", summary.Inspected,
		"migrated", summary.Migrated,
		"abandoned", summary.Abandoned)
	return summary, nil
}
