package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter enforces a sliding-window request budget: at most limit calls
// inside any trailing window, regardless of how the calls cluster. A token
// bucket would refill during idle stretches and then admit a burst that
// violates the provider's per-minute accounting, so timestamps of recent
// calls are tracked instead.
type Limiter struct {
	limit  int
	window time.Duration
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	calls []time.Time
}

// New returns a limiter admitting at most limit calls per window. A
// non-positive limit or window disables limiting.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		now:    time.Now,
		sleep:  sleepWithContext,
	}
}

// Wait blocks until the caller may proceed, then records the call. It
// returns early with the context error when ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.limit <= 0 || l.window <= 0 {
		return ctx.Err()
	}

	for {
		l.mu.Lock()
		now := l.now()
		l.trim(now)
		if len(l.calls) < l.limit {
			l.calls = append(l.calls, now)
			l.mu.Unlock()
			return nil
		}
		wait := l.calls[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		if err := l.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// trim drops recorded calls that have left the window. Callers hold mu.
func (l *Limiter) trim(now time.Time) {
	cutoff := now.Add(-l.window)
	kept := 0
	for _, call := range l.calls {
		if call.After(cutoff) {
			break
		}
		kept++
	}
	if kept > 0 {
		l.calls = append(l.calls[:0], l.calls[kept:]...)
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
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
