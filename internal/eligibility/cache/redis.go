// Package cache stores classifier probabilities in Redis. Inference is
// deterministic for a given bundle fingerprint and scaled vector, so a cached
// probability is always the value the model would return.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"donorcheck/pkg/platform/circuit"
	"donorcheck/pkg/platform/sentinel"
)

const keyPrefix = "donorcheck:prob:"

// RedisCache is a probability cache guarded by a circuit breaker: after
// repeated Redis failures it stops calling Redis and reports
// sentinel.ErrUnavailable until a trial call succeeds. Calls cut short by the
// caller's context say nothing about Redis health and are not counted.
type RedisCache struct {
	client  redis.UniversalClient
	ttl     time.Duration
	breaker *circuit.Breaker
}

// Option configures a RedisCache.
type Option func(*RedisCache)

// WithBreaker replaces the default breaker.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *RedisCache) {
		if b != nil {
			c.breaker = b
		}
	}
}

// NewRedis constructs a Redis-backed probability cache.
func NewRedis(client redis.UniversalClient, ttl time.Duration, opts ...Option) *RedisCache {
	c := &RedisCache{
		client:  client,
		ttl:     ttl,
		breaker: circuit.New("probability-cache"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get returns the cached probability for key. A miss is (0, false, nil).
func (c *RedisCache) Get(ctx context.Context, key string) (float64, bool, error) {
	if !c.breaker.Allow() {
		return 0, false, fmt.Errorf("probability cache: %w", sentinel.ErrUnavailable)
	}
	raw, err := c.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		c.breaker.RecordSuccess()
		return 0, false, nil
	}
	if err != nil {
		c.recordFailure(ctx, err)
		return 0, false, fmt.Errorf("probability cache get: %w", err)
	}
	c.breaker.RecordSuccess()

	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || p < 0 || p > 1 {
		// Drop the entry so the next call repopulates it.
		_ = c.client.Del(ctx, keyPrefix+key).Err()
		return 0, false, fmt.Errorf("probability cache entry %q: %w", raw, sentinel.ErrInvalidState)
	}
	return p, true, nil
}

// Set stores p for key with the configured TTL. The value is written with
// full float64 precision so cached and fresh results are bit-identical.
func (c *RedisCache) Set(ctx context.Context, key string, p float64) error {
	if !c.breaker.Allow() {
		return fmt.Errorf("probability cache: %w", sentinel.ErrUnavailable)
	}
	value := strconv.FormatFloat(p, 'g', -1, 64)
	if err := c.client.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
		c.recordFailure(ctx, err)
		return fmt.Errorf("probability cache set: %w", err)
	}
	c.breaker.RecordSuccess()
	return nil
}

func (c *RedisCache) recordFailure(ctx context.Context, err error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	c.breaker.RecordFailure()
}

// Breaker exposes the breaker state for health reporting.
func (c *RedisCache) Breaker() *circuit.Breaker {
	return c.breaker
}
