package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewCollector_LabelsByRunMode(t *testing.T) {
	assert.Equal(t, "true", NewCollector(true).dryRun)
	assert.Equal(t, "false", NewCollector(false).dryRun)
}

func TestCollector_IncInspected(t *testing.T) {
	collector := NewCollector(true)

	before := testutil.ToFloat64(RecordsInspected.WithLabelValues("true"))
	collector.IncInspected()
	after := testutil.ToFloat64(RecordsInspected.WithLabelValues("true"))

	assert.Equal(t, before+1, after)
}

func TestCollector_IncMigrated(t *testing.T) {
	collector := NewCollector(false)

	before := testutil.ToFloat64(RecordsMigrated.WithLabelValues("false"))
	collector.IncMigrated()
	after := testutil.ToFloat64(RecordsMigrated.WithLabelValues("false"))

	assert.Equal(t, before+1, after)
}

func TestCollector_IncAbandoned(t *testing.T) {
	collector := NewCollector(false)

	before := testutil.ToFloat64(RecordsAbandoned.WithLabelValues("false"))
	collector.IncAbandoned()
	after := testutil.ToFloat64(RecordsAbandoned.WithLabelValues("false"))

	assert.Equal(t, before+1, after)
}

func TestCollector_DryRunAndLiveCountersAreDistinct(t *testing.T) {
	dry := NewCollector(true)
	live := NewCollector(false)

	liveBefore := testutil.ToFloat64(RecordsMigrated.WithLabelValues("false"))
	dry.IncMigrated()
	dry.IncMigrated()
	live.IncMigrated()
	liveAfter := testutil.ToFloat64(RecordsMigrated.WithLabelValues("false"))

	assert.Equal(t, liveBefore+1, liveAfter)
}
