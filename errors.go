package recordpipe

import "errors"

var (
	// ErrScanFailed indicates a segment scan failed. Scan failures are fatal
	// for the run and are never retried by the pipeline.
	ErrScanFailed = errors.New("segment scan failed")

	// ErrSourceRequired indicates no source store was configured.
	ErrSourceRequired = errors.New("source store required")

	// ErrDestinationRequired indicates no destination store was configured
	// for a live (non-dry-run) pipeline.
	ErrDestinationRequired = errors.New("destination store required")

	// ErrInvalidConcurrency indicates MaxConcurrency is below 1.
	ErrInvalidConcurrency = errors.New("max concurrency must be at least 1")

	// ErrInvalidSegments indicates Segments is below 1.
	ErrInvalidSegments = errors.New("segments must be at least 1")

	// ErrInvalidBufferSize indicates BufferSize is below 1.
	ErrInvalidBufferSize = errors.New("buffer size must be at least 1")

	// ErrInvalidWindowInFlight indicates WindowInFlight is below 1.
	ErrInvalidWindowInFlight = errors.New("window in-flight cap must be at least 1")
)
