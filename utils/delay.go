package utils

import (
	"context"
	"math/rand"
	"time"
)

// DelayRange is a [Min, Max] pause window. A zero range never sleeps.
type DelayRange struct {
	Min time.Duration
	Max time.Duration
}

// Pick returns a random duration inside the range.
//
// WHY RANDOM? Fixed delays are detectable patterns.
// Random delays look more like a human browsing.
func (r DelayRange) Pick() time.Duration {
	if r.Max <= r.Min {
		if r.Min < 0 {
			return 0
		}
		return r.Min
	}
	lo := r.Min
	if lo < 0 {
		lo = 0
	}
	if r.Max <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int63n(int64(r.Max-lo)))
}

// RandomDelay sleeps for a random duration inside r, or until ctx is done.
func RandomDelay(ctx context.Context, r DelayRange) error {
	return Sleep(ctx, r.Pick())
}

// Sleep waits for d unless ctx finishes first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
