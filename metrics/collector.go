// Package metrics exposes Prometheus counters for the migration pipeline.
package metrics

import (
	"strconv"

	"github.com/stashkeep/recordpipe"
)

// Collector wraps the pipeline metrics with a pre-filled dry_run label so
// dry-run and live-run statistics stay distinguishable when reported.
// It implements recordpipe.Recorder.
type Collector struct {
	dryRun string
}

// Compile-time check that Collector implements Recorder.
var _ recordpipe.Recorder = (*Collector)(nil)

// NewCollector creates a new Collector for the given run mode.
func NewCollector(dryRun bool) *Collector {
	return &Collector{dryRun: strconv.FormatBool(dryRun)}
}

// IncInspected increments the records inspected counter.
func (c *Collector) IncInspected() {
	RecordsInspected.WithLabelValues(c.dryRun).Inc()
}

// IncMigrated increments the records migrated counter.
func (c *Collector) IncMigrated() {
	RecordsMigrated.WithLabelValues(c.dryRun).Inc()
}

// IncAbandoned increments the records abandoned counter.
func (c *Collector) IncAbandoned() {
	RecordsAbandoned.WithLabelValues(c.dryRun).Inc()
}
