package services

import (
	"context"
	"sync"
	"time"
)

// RateLimiter throttles sensitive operations per key.
type RateLimiter interface {
	Allow(ctx context.Context, key string, maxAttempts int, window time.Duration) bool
}

// memoryRateLimiter keeps a sliding window of attempt timestamps per key.
// State lives in the process and is lost on restart.
type memoryRateLimiter struct {
	mu        sync.Mutex
	attempts  map[string][]time.Time
	windows   map[string]time.Duration
	lastSweep time.Time
	now       func() time.Time
}

const limiterSweepInterval = time.Minute

func NewMemoryRateLimiter() RateLimiter {
	return newMemoryRateLimiter(time.Now)
}

func newMemoryRateLimiter(now func() time.Time) *memoryRateLimiter {
	return &memoryRateLimiter{
		attempts: make(map[string][]time.Time),
		windows:  make(map[string]time.Duration),
		now:      now,
	}
}

// Allow drops timestamps older than window, refuses once maxAttempts remain
// and otherwise records the attempt. Refused attempts are not recorded.
func (m *memoryRateLimiter) Allow(_ context.Context, key string, maxAttempts int, window time.Duration) bool {
	if maxAttempts <= 0 || window <= 0 {
		return true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	recent := m.attempts[key][:0]
	for _, ts := range m.attempts[key] {
		if now.Sub(ts) < window {
			recent = append(recent, ts)
		}
	}
	if len(recent) == 0 {
		delete(m.attempts, key)
		delete(m.windows, key)
	}

	if len(recent) >= maxAttempts {
		m.attempts[key] = recent
		return false
	}

	m.attempts[key] = append(recent, now)
	m.windows[key] = window
	return true
}

// sweep drops keys whose newest attempt has left its window. It runs at most
// once per limiterSweepInterval. Callers hold mu.
func (m *memoryRateLimiter) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < limiterSweepInterval {
		return
	}
	m.lastSweep = now

	for key, stamps := range m.attempts {
		if len(stamps) == 0 || now.Sub(stamps[len(stamps)-1]) >= m.windows[key] {
			delete(m.attempts, key)
			delete(m.windows, key)
		}
	}
}
