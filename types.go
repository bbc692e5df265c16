package recordpipe

// SaltedTokenHash is the opaque credential material carried by a source record.
// The pipeline never interprets it; it is copied verbatim into the new record.
type SaltedTokenHash struct {
	// Hash is the hex-encoded token hash.
	Hash string

	// Salt is the hex-encoded salt the hash was derived with.
	Salt string
}

// SourceRecord is a single legacy record yielded by a segmented scan.
// Records are immutable and owned transiently by the pipeline; nothing is
// persisted pipeline-side.
type SourceRecord struct {
	// Key is the legacy record key.
	Key string

	// Token is the salted token hash to carry over.
	Token SaltedTokenHash

	// ExpiresAt is the record expiration as Unix epoch seconds.
	ExpiresAt int64
}

// Segment is a half-open range [Lo, Hi) of the source table's ID space.
// Segments are disjoint and scanned independently in parallel.
type Segment struct {
	// Lo is the inclusive lower bound.
	Lo int64

	// Hi is the exclusive upper bound.
	Hi int64
}

// Config holds the per-run tunables of the migration pipeline.
// A Config is immutable for the lifetime of one run.
type Config struct {
	// DryRun performs all reads and accounting but suppresses writes.
	// The CLI surface defaults this to true; as a struct field it is a plain
	// bool and callers must set it explicitly.
	DryRun bool

	// MaxConcurrency caps the number of migration operations outstanding at
	// any instant (default: 16).
	MaxConcurrency int

	// Segments is the number of parallel ranges the source keyspace is split
	// into for scanning (default: 1).
	Segments int

	// BufferSize is the window size for batching and local shuffling
	// (default: 16384).
	BufferSize int

	// WindowInFlight caps how many windows may be in flight downstream of the
	// batcher at once, decoupling scan throughput from migration throughput
	// (default: 2). Independent of MaxConcurrency, which bounds individual
	// record operations.
	WindowInFlight int
}

// Default values applied by Config.WithDefaults.
const (
	DefaultMaxConcurrency = 16
	DefaultSegments       = 1
	DefaultBufferSize     = 16384
	DefaultWindowInFlight = 2
)

// WithDefaults returns a copy of the config with zero-valued fields replaced
// by their defaults.
func (c Config) WithDefaults() Config {
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = DefaultMaxConcurrency
	}
	if c.Segments == 0 {
		c.Segments = DefaultSegments
	}
	if c.BufferSize == 0 {
		c.BufferSize = DefaultBufferSize
	}
	if c.WindowInFlight == 0 {
		c.WindowInFlight = DefaultWindowInFlight
	}
	return c
}

// Validate reports whether the config describes a runnable pipeline.
// It should be called after WithDefaults.
func (c Config) Validate() error {
	if c.MaxConcurrency < 1 {
		return ErrInvalidConcurrency
	}
	if c.Segments < 1 {
		return ErrInvalidSegments
	}
	if c.BufferSize < 1 {
		return ErrInvalidBufferSize
	}
	if c.WindowInFlight < 1 {
		return ErrInvalidWindowInFlight
	}
	return nil
}

// Summary is the final accounting of one pipeline run.
type Summary struct {
	// Inspected is the number of records yielded by the scan and examined.
	Inspected int64

	// Migrated is the number of records for which a write actually occurred.
	Migrated int64

	// Abandoned is the number of records whose migration failed on every
	// retry attempt and was permanently skipped for this run.
	Abandoned int64
}
