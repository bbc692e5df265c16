package batch_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashkeep/recordpipe"
	"github.com/stashkeep/recordpipe/batch"
)

func makeRecords(n int) []recordpipe.SourceRecord {
	records := make([]recordpipe.SourceRecord, n)
	for i := range n {
		records[i] = recordpipe.SourceRecord{Key: fmt.Sprintf("key-%03d", i)}
	}
	return records
}

func runBatcher(t *testing.T, b *batch.Batcher, records []recordpipe.SourceRecord) [][]recordpipe.SourceRecord {
	t.Helper()

	in := make(chan recordpipe.SourceRecord)
	out := make(chan []recordpipe.SourceRecord)

	go func() {
		defer close(in)
		for _, rec := range records {
			in <- rec
		}
	}()
	errCh := make(chan error, 1)
	go func() { errCh <- b.Run(context.Background(), in, out) }()

	var windows [][]recordpipe.SourceRecord
	for w := range out {
		windows = append(windows, w)
	}
	require.NoError(t, <-errCh)
	return windows
}

func TestBatcher_Run_WindowSizes(t *testing.T) {
	b := batch.New(batch.Config{Size: 10})
	windows := runBatcher(t, b, makeRecords(25))

	require.Len(t, windows, 3)
	assert.Len(t, windows[0], 10)
	assert.Len(t, windows[1], 10)
	assert.Len(t, windows[2], 5, "final window may be shorter")
}

func TestBatcher_Run_ExactMultiple(t *testing.T) {
	b := batch.New(batch.Config{Size: 10})
	windows := runBatcher(t, b, makeRecords(30))

	require.Len(t, windows, 3)
	for _, w := range windows {
		assert.Len(t, w, 10)
	}
}

func TestBatcher_Run_EmptyStream(t *testing.T) {
	b := batch.New(batch.Config{Size: 10})
	windows := runBatcher(t, b, nil)

	assert.Empty(t, windows)
}

func TestBatcher_Run_ShufflesWithinWindowOnly(t *testing.T) {
	records := makeRecords(100)
	b := batch.New(batch.Config{
		Size: 10,
		Rand: rand.New(rand.NewPCG(7, 7)),
	})
	windows := runBatcher(t, b, records)
	require.Len(t, windows, 10)

	for i, w := range windows {
		keys := make(map[string]bool, len(w))
		for _, rec := range w {
			keys[rec.Key] = true
		}
		// Every record stays in the window it was scanned into.
		for j := i * 10; j < (i+1)*10; j++ {
			assert.True(t, keys[records[j].Key], "window %d missing %s", i, records[j].Key)
		}
	}
}

func TestBatcher_Run_ShuffleBoundsDisplacement(t *testing.T) {
	const size = 10
	records := makeRecords(95)
	b := batch.New(batch.Config{
		Size: size,
		Rand: rand.New(rand.NewPCG(42, 42)),
	})
	windows := runBatcher(t, b, records)

	inputPos := make(map[string]int, len(records))
	for i, rec := range records {
		inputPos[rec.Key] = i
	}

	pos := 0
	for _, w := range windows {
		for _, rec := range w {
			displacement := pos - inputPos[rec.Key]
			if displacement < 0 {
				displacement = -displacement
			}
			assert.LessOrEqual(t, displacement, size-1,
				"record %s moved %d positions", rec.Key, displacement)
			pos++
		}
	}
	assert.Equal(t, len(records), pos)
}

func TestBatcher_Run_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	in := make(chan recordpipe.SourceRecord)
	out := make(chan []recordpipe.SourceRecord) // never drained

	b := batch.New(batch.Config{Size: 1})
	errCh := make(chan error, 1)
	go func() { errCh <- b.Run(ctx, in, out) }()

	in <- recordpipe.SourceRecord{Key: "stuck"}
	cancel()

	assert.ErrorIs(t, <-errCh, context.Canceled)
}
