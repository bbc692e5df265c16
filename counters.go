package recordpipe

import "sync/atomic"

// Counters is the shared accounting state of one run. The three counters are
// monotonically increasing and safe to increment from many in-flight
// migration goroutines; they are the only shared mutable state in the
// pipeline.
type Counters struct {
	inspected atomic.Int64
	migrated  atomic.Int64
	abandoned atomic.Int64
}

// IncInspected records that a scanned record was examined.
func (c *Counters) IncInspected() { c.inspected.Add(1) }

// IncMigrated records that a migration performed a write.
func (c *Counters) IncMigrated() { c.migrated.Add(1) }

// IncAbandoned records that a record was permanently skipped after
// exhausting its retry attempts.
func (c *Counters) IncAbandoned() { c.abandoned.Add(1) }

// Snapshot returns the current counter values as a Summary. Values are read
// individually; a snapshot taken mid-run is approximate across counters.
func (c *Counters) Snapshot() Summary {
	return Summary{
		Inspected: c.inspected.Load(),
		Migrated:  c.migrated.Load(),
		Abandoned: c.abandoned.Load(),
	}
}
