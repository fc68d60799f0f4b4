package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindowScript trims the sorted set to the window, refuses when it is
// full and otherwise records the attempt.
const slidingWindowScript = `
redis.call("ZREMRANGEBYSCORE", KEYS[1], 0, ARGV[1] - ARGV[2])
local current = redis.call("ZCARD", KEYS[1])
if current >= tonumber(ARGV[3]) then
  return 0
end
redis.call("ZADD", KEYS[1], ARGV[1], ARGV[4])
redis.call("PEXPIRE", KEYS[1], ARGV[2])
return 1
`

type redisRateLimiter struct {
	client *redis.Client
	script *redis.Script
	prefix string
}

// NewRedisRateLimiter shares throttle state between instances. It fails open
// when Redis is unreachable.
func NewRedisRateLimiter(client *redis.Client) RateLimiter {
	return &redisRateLimiter{
		client: client,
		script: redis.NewScript(slidingWindowScript),
		prefix: "ratelimit:",
	}
}

func (l *redisRateLimiter) Allow(ctx context.Context, key string, maxAttempts int, window time.Duration) bool {
	if maxAttempts <= 0 || window <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()

	now := time.Now().UnixMilli()
	allowed, err := l.script.Run(ctx, l.client,
		[]string{l.prefix + key},
		now, window.Milliseconds(), maxAttempts, fmt.Sprintf("%d-%s", now, uuid.NewString()),
	).Int64()
	if err != nil {
		log.Printf("⚠️  Rate limiter unavailable for %s: %v", key, err)
		return true
	}
	return allowed == 1
}

// NewRateLimiterFromURL picks the Redis limiter when redisURL is set and the
// in-process limiter otherwise.
func NewRateLimiterFromURL(ctx context.Context, redisURL string) (RateLimiter, func() error, error) {
	if redisURL == "" {
		return NewMemoryRateLimiter(), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisRateLimiter(client), client.Close, nil
}
