// Package scan reads the source store's keyspace as parallel segment scans
// merged into one unordered record stream.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/stashkeep/recordpipe"
	"github.com/stashkeep/recordpipe/store"
)

// Config holds configuration for the Scanner.
type Config struct {
	// Source is the store to scan (required).
	Source store.Source

	// Segments is the number of parallel range scans (default: 1).
	Segments int

	// Logger is for observability (optional).
	Logger *slog.Logger
}

// Scanner reads the full source keyspace as Segments concurrent range scans
// and merges the results into a single unordered stream. The stream is lazy:
// segment scans block as soon as downstream stops draining the output
// channel, so the result set is never buffered in memory at once.
type Scanner struct {
	config Config
}

// New creates a new Scanner with the given configuration.
// Applies defaults for Segments and Logger if unset.
func New(cfg Config) *Scanner {
	if cfg.Segments == 0 {
		cfg.Segments = recordpipe.DefaultSegments
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Scanner{config: cfg}
}

// Run scans all segments concurrently, emitting every record into out.
// It closes out before returning. No ordering is guaranteed between records
// of different segments.
//
// An empty source yields zero records and a nil error. Any segment failure
// cancels the remaining segment scans and is returned wrapped in
// recordpipe.ErrScanFailed; scan failures are fatal for the run and are not
// retried here.
func (s *Scanner) Run(ctx context.Context, out chan<- recordpipe.SourceRecord) error {
	defer close(out)

	lo, hi, err := s.config.Source.Bounds(ctx)
	if err != nil {
		if errors.Is(err, store.ErrEmptySource) {
			s.config.Logger.Info("source is empty, nothing to scan")
			return nil
		}
		return fmt.Errorf("%w: %w", recordpipe.ErrScanFailed, err)
	}

	plan := PlanSegments(lo, hi, s.config.Segments)
	s.config.Logger.Info("starting segmented scan",
		"segments", len(plan), "lo", lo, "hi", hi)

	g, ctx := errgroup.WithContext(ctx)
	for _, seg := range plan {
		g.Go(func() error {
			return s.config.Source.ScanSegment(ctx, seg, func(rec recordpipe.SourceRecord) error {
				select {
				case out <- rec:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				}
			})
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", recordpipe.ErrScanFailed, err)
	}
	return nil
}
