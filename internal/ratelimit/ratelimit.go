// Package ratelimit limits dashboard requests per seller.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jekabolt/privshop-seller/internal/dependency"
	"github.com/redis/go-redis/v9"
)

// Config holds configuration for the request limiter. An empty RedisAddr selects the
// in-memory limiter.
type Config struct {
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int           `mapstructure:"max_requests"`
	RedisAddr   string        `mapstructure:"redis_addr"`
	RedisDB     int           `mapstructure:"redis_db"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
}

// DefaultConfig returns default configuration values.
func DefaultConfig() Config {
	return Config{
		Window:      time.Minute,
		MaxRequests: 120,
		KeyPrefix:   "ratelimit:seller:",
	}
}

// New returns the limiter selected by c and a function releasing its resources.
func New(ctx context.Context, c *Config) (dependency.RateLimiter, func() error, error) {
	if c == nil {
		dc := DefaultConfig()
		c = &dc
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
	if c.MaxRequests <= 0 {
		c.MaxRequests = 120
	}

	if c.RedisAddr == "" {
		l := NewLimiter(c.Window, c.MaxRequests)
		return l, func() error { l.Stop(); return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: c.RedisAddr,
		DB:   c.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("can't connect to redis: %w", err)
	}
	return NewRedisLimiter(client, c.Window, c.MaxRequests, c.KeyPrefix), client.Close, nil
}

// Limiter implements a simple in-memory fixed window rate limiter
type Limiter struct {
	mu       sync.RWMutex
	counters map[string]*counter
	window   time.Duration
	max      int
	stop     chan struct{}
	once     sync.Once
}

type counter struct {
	count     int
	expiresAt time.Time
}

// NewLimiter creates a new rate limiter with the specified window and max requests
func NewLimiter(window time.Duration, max int) *Limiter {
	l := &Limiter{
		counters: make(map[string]*counter),
		window:   window,
		max:      max,
		stop:     make(chan struct{}),
	}
	go l.cleanup()
	return l
}

// Allow checks if a request for the given key is allowed
func (l *Limiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, exists := l.counters[key]

	if !exists || now.After(c.expiresAt) {
		l.counters[key] = &counter{
			count:     1,
			expiresAt: now.Add(l.window),
		}
		return true, nil
	}

	if c.count >= l.max {
		return false, nil
	}

	c.count++
	return true, nil
}

// GetRemaining returns the number of remaining requests for the given key
func (l *Limiter) GetRemaining(key string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	now := time.Now()
	c, exists := l.counters[key]

	if !exists || now.After(c.expiresAt) {
		return l.max
	}

	remaining := l.max - c.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Stop ends the cleanup loop.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// cleanup periodically removes expired counters
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := time.Now()
			for key, c := range l.counters {
				if now.After(c.expiresAt) {
					delete(l.counters, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
