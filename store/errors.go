package store

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySource indicates the legacy table holds no records.
	ErrEmptySource = errors.New("source table is empty")
)

// transientError marks an error as retryable by the migration stage.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return fmt.Sprintf("transient: %v", e.err) }

func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so that IsTransient reports true for it. Destination
// implementations use it to classify failures the migrator should retry
// (connection loss, throttling, serialization conflicts). Wrapping nil
// returns nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err (or any error it wraps) was marked
// retryable with Transient.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
