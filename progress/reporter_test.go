package progress

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashkeep/recordpipe"
)

func TestNew_AppliesDefaults(t *testing.T) {
	r := New(Config{Counters: &recordpipe.Counters{}})

	assert.Equal(t, DefaultInterval, r.config.Interval)
	assert.NotNil(t, r.config.Logger)
}

func TestReporter_Run_LogsSnapshots(t *testing.T) {
	var buf bytes.Buffer
	counters := &recordpipe.Counters{}
	counters.IncInspected()
	counters.IncMigrated()

	r := New(Config{
		Counters: counters,
		Interval: 10 * time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(&buf, nil)),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, r.Run(ctx))

	out := buf.String()
	assert.Contains(t, out, "migration progress")
	assert.Contains(t, out, "inspected=1")
	assert.Contains(t, out, "migrated=1")
}

func TestReporter_Run_StopsOnContextDone(t *testing.T) {
	r := New(Config{
		Counters: &recordpipe.Counters{},
		Interval: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.Fail(t, "reporter did not stop on context cancellation")
	}
}
