// Package ratelimit provides per-key request limiters for the API middleware.
//
// Two implementations share one contract: a Redis-backed sliding window for
// deployments with several instances, and an in-process token bucket fallback
// for single-instance or Redis-less setups. Both fail open: when the backing
// store is unreachable the request is allowed and the error reported, so a
// limiter outage never takes the service down with it.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Sliding window over a Redis sorted set. Member uniqueness comes from the
// nanosecond timestamp; the whole check-and-record runs as one Lua script so
// concurrent instances cannot overshoot the limit.
//
// KEYS[1]: sorted set holding request timestamps
// ARGV[1]: window size in milliseconds
// ARGV[2]: request limit per window
// ARGV[3]: current time in nanoseconds
const slidingWindowScript = `
local key = KEYS[1]
local window_ms = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])
local now_ns = tonumber(ARGV[3])

local window_start = now_ns - window_ms * 1000000

redis.call('ZREMRANGEBYSCORE', key, 0, window_start)

if redis.call('ZCARD', key) < limit then
    redis.call('ZADD', key, now_ns, now_ns)
    redis.call('PEXPIRE', key, window_ms)
    return 1
end

return 0
`

// SlidingWindow limits each key to a fixed number of requests per rolling window.
type SlidingWindow struct {
	client *redis.Client
	limit  int64
	window time.Duration
	script *redis.Script
}

func NewSlidingWindow(client *redis.Client, limit int64, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		client: client,
		limit:  limit,
		window: window,
		script: redis.NewScript(slidingWindowScript),
	}
}

// Allow reports whether the request identified by key fits in the current
// window. On Redis failure it allows the request and returns the error.
func (sw *SlidingWindow) Allow(ctx context.Context, key string) (bool, error) {
	const op = "ratelimit.SlidingWindow.Allow"

	result, err := sw.script.Run(
		ctx,
		sw.client,
		[]string{"ratelimit:" + key},
		sw.window.Milliseconds(),
		sw.limit,
		time.Now().UnixNano(),
	).Int()
	if err != nil {
		return true, fmt.Errorf("%s: redis error: %w", op, err)
	}

	return result == 1, nil
}

// Local is an in-process token bucket per key. State is not shared across
// instances, so limits apply per replica.
type Local struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewLocal(requests int64, window time.Duration, burst int) *Local {
	return &Local{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(requests) / window.Seconds()),
		burst:    burst,
	}
}

func (l *Local) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow(), nil
}
