package ratelimit

import (
	"context"
	"time"
)

// Limiter paces outgoing requests
type Limiter interface {
	// Wait blocks until the next request may be issued or ctx is done
	Wait(ctx context.Context) error
}

// FixedDelay sleeps a constant duration before every request
type FixedDelay struct {
	delay time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFixedDelay creates a limiter sleeping delay before each request.
// A zero or negative delay never blocks.
func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay, sleep: sleepContext}
}

// Wait sleeps the configured delay
func (f *FixedDelay) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.delay <= 0 {
		return nil
	}
	return f.sleep(ctx, f.delay)
}

// Delay returns the configured delay
func (f *FixedDelay) Delay() time.Duration {
	return f.delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
