package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"donorcheck/pkg/platform/circuit"
	"donorcheck/pkg/platform/sentinel"
)

// unreachableClient points at a port nothing listens on so every call fails fast.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisCacheOpensBreakerOnFailures(t *testing.T) {
	ctx := context.Background()
	breaker := circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	c := NewRedis(unreachableClient(t), time.Minute, WithBreaker(breaker))

	_, _, err := c.Get(ctx, "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, sentinel.ErrUnavailable)

	err = c.Set(ctx, "k", 0.5)
	require.Error(t, err)
	assert.True(t, breaker.IsOpen())

	_, hit, err := c.Get(ctx, "k")
	assert.False(t, hit)
	assert.ErrorIs(t, err, sentinel.ErrUnavailable)

	assert.ErrorIs(t, c.Set(ctx, "k", 0.5), sentinel.ErrUnavailable)
	assert.Same(t, breaker, c.Breaker())
}

func TestRedisCacheIgnoresCallerCancellation(t *testing.T) {
	breaker := circuit.New("test", circuit.WithFailureThreshold(1), circuit.WithCooldown(time.Hour))
	c := NewRedis(unreachableClient(t), time.Minute, WithBreaker(breaker))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()

	for _, ctx := range []context.Context{cancelled, expired} {
		_, _, err := c.Get(ctx, "k")
		require.Error(t, err)
		require.Error(t, c.Set(ctx, "k", 0.5))
	}
	assert.False(t, breaker.IsOpen())

	_, _, err := c.Get(context.Background(), "k")
	require.Error(t, err)
	assert.True(t, breaker.IsOpen())
}
