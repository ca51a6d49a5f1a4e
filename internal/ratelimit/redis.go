package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// slidingWindow trims entries older than the window from a sorted set of request timestamps,
// then admits the request if fewer than limit remain.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local counter_key = KEYS[2]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local count = redis.call('ZCARD', key)
	if count >= limit then
		return 0
	end

	local seq = redis.call('INCR', counter_key)
	redis.call('ZADD', key, now, now .. ':' .. seq)
	redis.call('PEXPIRE', key, window_ms)
	redis.call('PEXPIRE', counter_key, window_ms)
	return 1
`)

// RedisLimiter is a sliding window limiter shared by every replica through Redis.
type RedisLimiter struct {
	client redis.Scripter
	window time.Duration
	max    int
	prefix string
}

// NewRedisLimiter creates a limiter admitting max requests per key within window.
func NewRedisLimiter(client redis.Scripter, window time.Duration, max int, prefix string) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		window: window,
		max:    max,
		prefix: prefix,
	}
}

// Allow records the request and reports whether key is still within its limit.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	redisKey := l.prefix + key

	allowed, err := slidingWindow.Run(ctx, l.client, []string{redisKey, redisKey + ":seq"},
		now.UnixMilli(),
		now.Add(-l.window).UnixMilli(),
		l.max,
		l.window.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("can't run rate limit script: %w", err)
	}
	return allowed == 1, nil
}
