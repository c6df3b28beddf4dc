package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for caching operations.
var (
	// ErrNetwork is returned when a cache or store backend cannot be reached.
	ErrNetwork = errors.New("network error")

	// ErrCorrupt marks a cached entry that could not be decoded.
	ErrCorrupt = errors.New("corrupt cache entry")
)

// RetryableError marks a failure worth another attempt, such as a refused
// connection while Redis or MongoDB is starting.
type RetryableError struct{ Err error }

// Retryable wraps err as a [RetryableError]. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err carries a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is a bounded exponential retry policy.
type Backoff struct {
	Attempts int
	Delay    time.Duration // before the second attempt; doubles after each
}

// DefaultBackoff is used by [RetryWithBackoff].
var DefaultBackoff = Backoff{Attempts: 3, Delay: 250 * time.Millisecond}

// Retry calls fn until it succeeds, returns an error not marked
// [Retryable], or the attempts run out. The last error is returned.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	err := fn()
	for attempt := 1; attempt < b.Attempts && IsRetryable(err); attempt++ {
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
		err = fn()
	}
	return err
}

// RetryWithBackoff retries fn with [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}
