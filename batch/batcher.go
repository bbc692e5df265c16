// Package batch groups the scan stream into fixed-size windows, shuffles each
// window locally, and flattens windows back into a per-record stream under a
// window-in-flight cap.
//
// Scans emit records in key-adjacent order, so downstream writes keyed by the
// same field would hit the same destination partition in bursts and trip
// localized throttling. Shuffling within a window spreads that load without
// giving up bounded memory: only one window is ever held by the batcher, and
// records never move across window boundaries.
package batch

import (
	"context"
	"math/rand/v2"

	"github.com/stashkeep/recordpipe"
)

// Config holds configuration for the Batcher.
type Config struct {
	// Size is the window size (default: recordpipe.DefaultBufferSize).
	// The final window of a stream may be shorter.
	Size int

	// Rand is the randomness source for intra-window shuffling (optional).
	// Tests inject a seeded source for determinism; nil uses the shared
	// global source.
	Rand *rand.Rand
}

// Batcher groups an incoming record stream into consecutive windows of
// exactly Size records and randomizes order within each window before
// emitting it. Windows are emitted in stream order; a record's position can
// move at most Size-1 slots from its scan-emission order.
type Batcher struct {
	config Config
}

// New creates a new Batcher with the given configuration.
func New(cfg Config) *Batcher {
	if cfg.Size == 0 {
		cfg.Size = recordpipe.DefaultBufferSize
	}

	return &Batcher{config: cfg}
}

// Run consumes records from in and emits shuffled windows into out until in
// is closed, then flushes the final partial window and closes out.
//
// Writing to out blocks once the channel's capacity is exhausted; the
// pipeline sizes that channel to the window-in-flight cap, so a slow
// downstream suspends window production here rather than buffering
// unboundedly.
func (b *Batcher) Run(ctx context.Context, in <-chan recordpipe.SourceRecord, out chan<- []recordpipe.SourceRecord) error {
	defer close(out)

	window := make([]recordpipe.SourceRecord, 0, b.config.Size)

	flush := func() error {
		if len(window) == 0 {
			return nil
		}
		b.shuffle(window)
		select {
		case out <- window:
		case <-ctx.Done():
			return ctx.Err()
		}
		window = make([]recordpipe.SourceRecord, 0, b.config.Size)
		return nil
	}

	for {
		select {
		case rec, ok := <-in:
			if !ok {
				return flush()
			}
			window = append(window, rec)
			if len(window) == b.config.Size {
				if err := flush(); err != nil {
					return err
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (b *Batcher) shuffle(window []recordpipe.SourceRecord) {
	swap := func(i, j int) { window[i], window[j] = window[j], window[i] }
	if b.config.Rand != nil {
		b.config.Rand.Shuffle(len(window), swap)
		return
	}
	rand.Shuffle(len(window), swap)
}
