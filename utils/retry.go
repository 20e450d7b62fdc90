package utils

import (
	"context"
	"fmt"
	"time"
)

// Retry runs fn once plus up to retries more times.
// If fn returns nil (success) it stops immediately.
// Between attempts it waits backoff, 2*backoff, 4*backoff...
// and returns the last error after all attempts are exhausted.
//
// Usage:
//
//	err := utils.Retry(ctx, 2, time.Second, log, func() error {
//	    return session.Navigate(ctx, url)
//	})
func Retry(ctx context.Context, retries int, backoff time.Duration, log *Logger, fn func() error) error {
	if retries < 0 {
		retries = 0
	}
	attempts := retries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return lastErr
		}

		if attempt < attempts {
			wait := backoff * time.Duration(1<<uint(attempt-1))
			if log != nil {
				log.Warn("Attempt %d/%d failed: %v, retrying in %v", attempt, attempts, lastErr, wait)
			}
			if err := Sleep(ctx, wait); err != nil {
				return lastErr
			}
		}
	}

	if attempts == 1 {
		return lastErr
	}
	return fmt.Errorf("all %d attempts failed, last error: %w", attempts, lastErr)
}
