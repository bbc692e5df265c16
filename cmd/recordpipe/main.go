// Command recordpipe migrates legacy recovery token records to the new
// keying scheme.
//
// The run is a dry run by default; pass --dry-run=false to perform writes.
// Record-level failures are logged and skipped; only a fatal scan-level
// error terminates the process with a non-zero status.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/stashkeep/recordpipe"
	"github.com/stashkeep/recordpipe/metrics"
	"github.com/stashkeep/recordpipe/pipeline"
	"github.com/stashkeep/recordpipe/pkg/version"
	pgstore "github.com/stashkeep/recordpipe/store/postgres"
)

func main() {
	var (
		dryRun           = flag.Bool("dry-run", true, "If true, scan and account records without writing to the destination table")
		maxConcurrency   = flag.Int("max-concurrency", recordpipe.DefaultMaxConcurrency, "Max concurrent migration operations")
		segments         = flag.Int("segments", recordpipe.DefaultSegments, "The total number of segments for the source table scan")
		buffer           = flag.Int("buffer", recordpipe.DefaultBufferSize, "Records to buffer per shuffle window")
		databaseURL      = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string (default: $DATABASE_URL)")
		metricsAddr      = flag.String("metrics-addr", "", "Address for the Prometheus metrics endpoint (empty disables it)")
		progressInterval = flag.Duration("progress-interval", 30*time.Second, "Interval between progress log lines (0 disables)")
	)

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	logger.Info("starting recordpipe", "version", version.Version)

	if err := run(logger, *dryRun, *maxConcurrency, *segments, *buffer, *databaseURL, *metricsAddr, *progressInterval); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, dryRun bool, maxConcurrency, segments, buffer int, databaseURL, metricsAddr string, progressInterval time.Duration) error {
	if databaseURL == "" {
		return fmt.Errorf("no database URL: set --database-url or DATABASE_URL")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if metricsAddr != "" {
		server := metrics.NewServer(metricsAddr)
		server.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	st := pgstore.New(db)
	p, err := pipeline.New(pipeline.Config{
		Source:      st,
		Destination: st,
		Run: recordpipe.Config{
			DryRun:         dryRun,
			MaxConcurrency: maxConcurrency,
			Segments:       segments,
			BufferSize:     buffer,
		},
		Recorder:         metrics.NewCollector(dryRun),
		ProgressInterval: progressInterval,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	summary, err := p.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("inspected=%d migrated=%d abandoned=%d\n",
		summary.Inspected, summary.Migrated, summary.Abandoned)
	return nil
}
