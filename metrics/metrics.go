package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RecordsInspected tracks the total number of records yielded by the scan
// and examined by the migrator.
var RecordsInspected = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recordpipe_records_inspected_total",
		Help: "Total records inspected by the migration pipeline",
	},
	[]string{"dry_run"},
)

// RecordsMigrated tracks the total number of records for which a write
// actually occurred.
var RecordsMigrated = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recordpipe_records_migrated_total",
		Help: "Total records migrated to the new representation",
	},
	[]string{"dry_run"},
)

// RecordsAbandoned tracks the total number of records permanently skipped
// after exhausting their retry attempts.
var RecordsAbandoned = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recordpipe_records_abandoned_total",
		Help: "Total records abandoned after exhausting migration retries",
	},
	[]string{"dry_run"},
)
