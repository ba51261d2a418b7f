// Package httputil holds the retry and on-disk caching helpers used by the
// market-data client.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrStatus is wrapped by StatusError for any non-200 response.
var ErrStatus = errors.New("unexpected HTTP status")

// RetryableError marks a failure as transient. Retry only retries errors
// wrapped in this type.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry runs fn up to attempts times, doubling delay after each retryable
// failure. Non-retryable errors return immediately; a cancelled ctx returns
// ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// CheckStatus maps a response status to an error. 429 and 5xx are retryable.
func CheckStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: %d", ErrStatus, code)}
	default:
		return fmt.Errorf("%w: %d", ErrStatus, code)
	}
}
