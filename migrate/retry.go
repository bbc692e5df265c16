package migrate

import (
	"context"
	"time"

	"github.com/stashkeep/recordpipe/store"
)

// Default retry policy: four total attempts starting at one second and
// doubling, so a record is given up after roughly seven seconds of backoff.
const (
	DefaultMaxAttempts = 4
	DefaultBaseDelay   = time.Second
	DefaultMultiplier  = 2
)

// RetryPolicy bounds how a single-record operation is retried on transient
// failure. It is deliberately decoupled from the concurrency-limiting
// mechanism so both can be tested independently.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first
	// (default: 4).
	MaxAttempts int

	// BaseDelay is the delay before the first retry (default: 1s).
	BaseDelay time.Duration

	// Multiplier scales the delay after each attempt (default: 2).
	Multiplier float64
}

// WithDefaults returns a copy of the policy with zero-valued fields replaced
// by their defaults.
func (p RetryPolicy) WithDefaults() RetryPolicy {
	if p.MaxAttempts == 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseDelay == 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.Multiplier == 0 {
		p.Multiplier = DefaultMultiplier
	}
	return p
}

// Do invokes fn until it succeeds, returns a non-transient error, or the
// attempt bound is exhausted, sleeping the backoff delay between attempts.
// The last error is returned on exhaustion. Context cancellation during a
// backoff sleep aborts immediately with ctx.Err().
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	delay := p.BaseDelay

	var err error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			delay = time.Duration(float64(delay) * p.Multiplier)
		}

		err = fn()
		if err == nil {
			return nil
		}
		if !store.IsTransient(err) {
			return err
		}
	}
	return err
}
