package recordpipe

// Recorder receives per-record accounting events from the migration stage.
// It is injected rather than resolved from a global registry so tests can
// substitute an in-memory implementation. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// IncInspected is called once for every record yielded by the scan.
	IncInspected()

	// IncMigrated is called once for every record whose migration performed
	// a write.
	IncMigrated()

	// IncAbandoned is called once for every record permanently skipped after
	// exhausting its retry attempts.
	IncAbandoned()
}

// NopRecorder is a Recorder that discards all events.
type NopRecorder struct{}

func (NopRecorder) IncInspected() {}
func (NopRecorder) IncMigrated()  {}
func (NopRecorder) IncAbandoned() {}
