// Package httputil provides shared helpers for outbound HTTP clients,
// primarily classification of transient failures. Nothing here retries:
// a failed call surfaces immediately, and the marker only tells the
// caller that re-invoking the operation may succeed.
package httputil

import (
	"errors"
)

// RetryableError wraps an error to indicate the failure is transient.
// Wrap network errors and 5xx responses with this type so callers can
// invite the user to re-run the operation.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps an error as a RetryableError. Returns nil for nil input.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
