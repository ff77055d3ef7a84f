package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLimiter(t *testing.T, limit int, win time.Duration) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRedisLimiter(client, limit, win)
	t.Cleanup(func() { _ = l.Close() })
	return l, mr
}

func TestRedisLimiter_TwentyFirstAttemptRejected(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestRedisLimiter(t, 20, 2*time.Minute)

	for i := 1; i <= 20; i++ {
		ok, err := l.Allow(ctx, "auth:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i)
	}

	ok, err := l.Allow(ctx, "auth:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = l.Allow(ctx, "auth:5.6.7.8")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLimiter_ExpirySetOnFirstHitOnly(t *testing.T) {
	ctx := context.Background()
	l, mr := newTestRedisLimiter(t, 3, 2*time.Minute)
	key := keyPrefix + "k"

	_, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, mr.TTL(key))

	mr.FastForward(30 * time.Second)
	_, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, mr.TTL(key), "later hits must not extend the window")

	count, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	mr.FastForward(90 * time.Second)
	assert.False(t, mr.Exists(key))

	for i := 1; i <= 3; i++ {
		ok, err := l.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d after reset", i)
	}
}

func TestRedisLimiter_BackendDown(t *testing.T) {
	l, mr := newTestRedisLimiter(t, 1, time.Minute)
	mr.Close()

	_, err := l.Allow(context.Background(), "k")
	assert.Error(t, err)
}
