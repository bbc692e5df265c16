package migrate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stashkeep/recordpipe/store"
)

func testPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, BaseDelay: time.Millisecond, Multiplier: 1}
}

func TestRetryPolicy_WithDefaults(t *testing.T) {
	p := RetryPolicy{}.WithDefaults()

	assert.Equal(t, DefaultMaxAttempts, p.MaxAttempts)
	assert.Equal(t, DefaultBaseDelay, p.BaseDelay)
	assert.Equal(t, float64(DefaultMultiplier), p.Multiplier)
}

func TestRetryPolicy_Do_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := testPolicy(4).Do(context.Background(), func() error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_Do_RetriesTransientUntilSuccess(t *testing.T) {
	calls := 0
	err := testPolicy(4).Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return store.Transient(errors.New("throttled"))
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_Do_ExhaustsAttempts(t *testing.T) {
	transient := store.Transient(errors.New("throttled"))
	calls := 0
	err := testPolicy(4).Do(context.Background(), func() error {
		calls++
		return transient
	})

	assert.Equal(t, transient, err)
	assert.Equal(t, 4, calls)
}

func TestRetryPolicy_Do_NonTransientStopsImmediately(t *testing.T) {
	fatal := errors.New("conditional check failed")
	calls := 0
	err := testPolicy(4).Do(context.Background(), func() error {
		calls++
		return fatal
	})

	assert.Equal(t, fatal, err)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_Do_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	policy := RetryPolicy{MaxAttempts: 4, BaseDelay: time.Hour, Multiplier: 2}
	errCh := make(chan error, 1)
	go func() {
		errCh <- policy.Do(ctx, func() error {
			return store.Transient(errors.New("throttled"))
		})
	}()

	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		require.Fail(t, "Do did not abort on context cancellation")
	}
}
