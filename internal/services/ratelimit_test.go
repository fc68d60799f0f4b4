package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryRateLimiter_SlidingWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newMemoryRateLimiter(func() time.Time { return now })
	ctx := context.Background()
	window := 15 * time.Minute

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(ctx, "1.2.3.4:anonymous", 5, window), "attempt %d", i+1)
		now = now.Add(time.Minute)
	}
	assert.False(t, limiter.Allow(ctx, "1.2.3.4:anonymous", 5, window))

	// Other keys are independent.
	assert.True(t, limiter.Allow(ctx, "5.6.7.8:anonymous", 5, window))

	// The first attempt was at +0m; at +15m it leaves the window.
	now = time.Date(2024, 1, 1, 12, 15, 0, 0, time.UTC)
	assert.True(t, limiter.Allow(ctx, "1.2.3.4:anonymous", 5, window))
	assert.False(t, limiter.Allow(ctx, "1.2.3.4:anonymous", 5, window))
}

func TestMemoryRateLimiter_RefusedAttemptsNotRecorded(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newMemoryRateLimiter(func() time.Time { return now })
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "k", 1, time.Minute))
	for i := 0; i < 10; i++ {
		assert.False(t, limiter.Allow(ctx, "k", 1, time.Minute))
	}
	assert.Len(t, limiter.attempts["k"], 1)

	now = now.Add(time.Minute)
	assert.True(t, limiter.Allow(ctx, "k", 1, time.Minute))
}

func TestMemoryRateLimiter_DisabledLimits(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow(ctx, "k", 0, time.Minute))
		assert.True(t, limiter.Allow(ctx, "k", 3, 0))
	}
}

func TestMemoryRateLimiter_Concurrent(t *testing.T) {
	limiter := NewMemoryRateLimiter()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow(ctx, "shared", 10, time.Hour) {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed)
}

func TestNewRateLimiterFromURL_DefaultsToMemory(t *testing.T) {
	limiter, closeFn, err := NewRateLimiterFromURL(context.Background(), "")

	assert.NoError(t, err)
	assert.IsType(t, &memoryRateLimiter{}, limiter)
	assert.NoError(t, closeFn())
}

func TestNewRateLimiterFromURL_InvalidURL(t *testing.T) {
	_, _, err := NewRateLimiterFromURL(context.Background(), "not a url")

	assert.Error(t, err)
}

func TestMemoryRateLimiter_ForgetsIdleKeys(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := newMemoryRateLimiter(func() time.Time { return now })
	ctx := context.Background()

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		assert.True(t, limiter.Allow(ctx, "login:"+ip+":anonymous", 5, 15*time.Minute))
	}
	assert.True(t, limiter.Allow(ctx, "reset:10.0.0.9:anonymous", 3, time.Hour))
	assert.Len(t, limiter.attempts, 4)

	now = now.Add(20 * time.Minute)
	assert.True(t, limiter.Allow(ctx, "login:10.0.0.4:anonymous", 5, 15*time.Minute))

	assert.Len(t, limiter.attempts, 2)
	assert.Contains(t, limiter.attempts, "reset:10.0.0.9:anonymous")
	assert.Contains(t, limiter.attempts, "login:10.0.0.4:anonymous")
	assert.Len(t, limiter.windows, 2)
}
