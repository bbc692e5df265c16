// Package progress logs periodic counter snapshots during a run.
package progress

import (
	"context"
	"log/slog"
	"time"

	"github.com/stashkeep/recordpipe"
)

// DefaultInterval is the default time between progress log lines.
const DefaultInterval = 30 * time.Second

// Config holds configuration for the Reporter.
type Config struct {
	// Counters is the run's shared accounting state (required).
	Counters *recordpipe.Counters

	// Interval is the time between snapshots (default: 30s).
	Interval time.Duration

	// Logger is for observability (optional).
	Logger *slog.Logger
}

// Reporter periodically logs the run's counter values so operators can watch
// a long migration without a metrics backend.
type Reporter struct {
	config Config
}

// New creates a new Reporter with the given configuration.
// Applies defaults for Interval and Logger if unset.
func New(cfg Config) *Reporter {
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Reporter{config: cfg}
}

// Run logs a snapshot every interval until ctx is done, then returns nil.
func (r *Reporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap := r.config.Counters.Snapshot()
			r.config.Logger.Info("migration progress",
				"inspected", snap.Inspected,
				"migrated", snap.Migrated,
				"abandoned", snap.Abandoned)
		}
	}
}
