//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"donorcheck/internal/eligibility/cache"
	"donorcheck/pkg/platform/sentinel"
	"donorcheck/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.GetRedis(s.T())
	s.cache = cache.NewRedis(s.redis.Client, time.Minute)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisCacheSuite) TestRoundTripKeepsFullPrecision() {
	ctx := context.Background()
	p := 0.7999999999999999

	_, hit, err := s.cache.Get(ctx, "v1:abc")
	s.Require().NoError(err)
	s.False(hit)

	s.Require().NoError(s.cache.Set(ctx, "v1:abc", p))

	got, hit, err := s.cache.Get(ctx, "v1:abc")
	s.Require().NoError(err)
	s.True(hit)
	s.Equal(p, got)
}

func (s *RedisCacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	short := cache.NewRedis(s.redis.Client, time.Second)
	s.Require().NoError(short.Set(ctx, "ttl", 0.25))

	ttl, err := s.redis.Client.TTL(ctx, "donorcheck:prob:ttl").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Second)
}

func (s *RedisCacheSuite) TestCorruptEntryIsDropped() {
	ctx := context.Background()
	s.Require().NoError(s.redis.Client.Set(ctx, "donorcheck:prob:bad", "not-a-number", 0).Err())

	_, hit, err := s.cache.Get(ctx, "bad")
	s.False(hit)
	s.ErrorIs(err, sentinel.ErrInvalidState)

	exists, err := s.redis.Client.Exists(ctx, "donorcheck:prob:bad").Result()
	s.Require().NoError(err)
	s.Zero(exists)
}
