package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedDelayZeroNeverBlocks(t *testing.T) {
	limiter := NewFixedDelay(0)

	start := time.Now()
	for i := 0; i < 100; i++ {
		assert.NoError(t, limiter.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestFixedDelaySleepsEveryCall(t *testing.T) {
	limiter := NewFixedDelay(time.Second)

	var slept []time.Duration
	limiter.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}

	for i := 0; i < 3; i++ {
		assert.NoError(t, limiter.Wait(context.Background()))
	}
	assert.Equal(t, []time.Duration{time.Second, time.Second, time.Second}, slept)
	assert.Equal(t, time.Second, limiter.Delay())
}

func TestFixedDelayRealSleep(t *testing.T) {
	limiter := NewFixedDelay(20 * time.Millisecond)

	start := time.Now()
	assert.NoError(t, limiter.Wait(context.Background()))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFixedDelayCancelled(t *testing.T) {
	limiter := NewFixedDelay(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := limiter.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFixedDelayAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, NewFixedDelay(0).Wait(ctx), context.Canceled)
}
