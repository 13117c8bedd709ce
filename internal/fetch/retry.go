package fetch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// Default retry tuning.
const (
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = time.Second
)

// RetryPolicy bounds how often and how patiently an operation is retried.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
	Verbose  bool
}

// DefaultRetryPolicy returns three attempts with a one second base delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: DefaultRetryAttempts,
		Delay:    DefaultRetryDelay,
	}
}

// Backoff returns the wait after the given failed attempt (1-based): Delay * 2^(attempt-1).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.Delay * time.Duration(1<<(attempt-1))
}

// ExhaustedError is returned when every attempt failed.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// permanentError marks an error that must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so Retry returns it immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Retry calls op until it succeeds, returns a Permanent error, or the policy runs out.
// There is no wait after the final attempt. A cancelled context stops the loop.
func Retry(ctx context.Context, policy RetryPolicy, op func(ctx context.Context, attempt int) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := op(ctx, attempt)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		lastErr = err
		log.Printf("[FETCH] Attempt %d/%d failed: %v", attempt, attempts, err)

		if attempt == attempts {
			break
		}

		wait := policy.Backoff(attempt)
		if policy.Verbose {
			log.Printf("[FETCH] Retrying in %v", wait)
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return &ExhaustedError{Attempts: attempt, Last: ctx.Err()}
		case <-timer.C:
		}
	}

	return &ExhaustedError{Attempts: attempts, Last: lastErr}
}

// URLWithRetry fetches a URL under the retry policy. Transport failures and non-2xx
// statuses are retried; a malformed URL is not.
func URLWithRetry(ctx context.Context, urlStr string, opts *Options, policy RetryPolicy) (*Result, error) {
	var result *Result
	err := Retry(ctx, policy, func(ctx context.Context, attempt int) error {
		if policy.Verbose {
			log.Printf("[FETCH] Attempt %d: %s", attempt, urlStr)
		}
		res, err := URL(ctx, urlStr, opts)
		if err != nil {
			var fetchErr *Error
			if errors.As(err, &fetchErr) && fetchErr.Message == "invalid URL" {
				return Permanent(err)
			}
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
