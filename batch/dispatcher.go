package batch

import (
	"context"

	"github.com/stashkeep/recordpipe"
)

// Dispatcher flattens shuffled windows back into a single per-record stream.
//
// Together with the capacity of the windows channel it reads from, the
// dispatcher forms the pipeline's backpressure boundary: with a windows
// channel of capacity cap-1, at most cap windows are in flight past the
// batcher at once (cap-1 buffered plus the one being drained here). Once
// saturated, the batcher suspends and the scan stops pulling new records.
// This cap is a small constant independent of the migrator's concurrency
// limit, so a slow destination store cannot cause the scanner to buffer
// unbounded windows in memory.
type Dispatcher struct{}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Run drains windows from in one at a time, emitting their records into out
// in window order, until in is closed. It closes out before returning.
func (d *Dispatcher) Run(ctx context.Context, in <-chan []recordpipe.SourceRecord, out chan<- recordpipe.SourceRecord) error {
	defer close(out)

	for {
		select {
		case window, ok := <-in:
			if !ok {
				return nil
			}
			for _, rec := range window {
				select {
				case out <- rec:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
