package batch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashkeep/recordpipe"
	"github.com/stashkeep/recordpipe/batch"
)

func TestDispatcher_Run_FlattensWindowsInOrder(t *testing.T) {
	in := make(chan []recordpipe.SourceRecord, 2)
	out := make(chan recordpipe.SourceRecord)

	in <- []recordpipe.SourceRecord{{Key: "a"}, {Key: "b"}}
	in <- []recordpipe.SourceRecord{{Key: "c"}}
	close(in)

	d := batch.NewDispatcher()
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(context.Background(), in, out) }()

	var keys []string
	for rec := range out {
		keys = append(keys, rec.Key)
	}

	require.NoError(t, <-errCh)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestDispatcher_Run_ClosesOutputOnEmptyInput(t *testing.T) {
	in := make(chan []recordpipe.SourceRecord)
	out := make(chan recordpipe.SourceRecord)
	close(in)

	d := batch.NewDispatcher()
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(context.Background(), in, out) }()

	_, open := <-out
	assert.False(t, open)
	assert.NoError(t, <-errCh)
}

func TestDispatcher_Run_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	in := make(chan []recordpipe.SourceRecord, 1)
	out := make(chan recordpipe.SourceRecord) // never drained
	in <- []recordpipe.SourceRecord{{Key: "stuck"}}

	d := batch.NewDispatcher()
	errCh := make(chan error, 1)
	go func() { errCh <- d.Run(ctx, in, out) }()

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
}
