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

func newRedisLimiter(t *testing.T, limit Limit) *RedisLimiter {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisLimiter(client, RedisLimiterConfig{Limit: limit})
}

func TestRedisLimiter_AllowWithinLimit(t *testing.T) {
	l := newRedisLimiter(t, Limit{Requests: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		res, err := l.Allow(context.Background(), "client")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 3-i-1, res.Remaining)
	}
}

func TestRedisLimiter_RejectsOverLimit(t *testing.T) {
	l := newRedisLimiter(t, Limit{Requests: 2, Window: time.Minute})

	for i := 0; i < 2; i++ {
		res, err := l.Allow(context.Background(), "client")
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}

	res, err := l.Allow(context.Background(), "client")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Zero(t, res.Remaining)
	assert.Greater(t, res.RetryAfter, time.Duration(0))
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	l := newRedisLimiter(t, Limit{Requests: 1, Window: time.Minute})

	res, err := l.Allow(context.Background(), "a")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	res, err = l.Allow(context.Background(), "b")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisLimiter_Reset(t *testing.T) {
	l := newRedisLimiter(t, Limit{Requests: 1, Window: time.Minute})

	res, err := l.Allow(context.Background(), "client")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	require.NoError(t, l.Reset(context.Background(), "client"))

	res, err = l.Allow(context.Background(), "client")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRedisLimiter_AllowN(t *testing.T) {
	l := newRedisLimiter(t, Limit{Requests: 5, Window: time.Minute})

	res, err := l.AllowN(context.Background(), "client", 4)
	require.NoError(t, err)
	require.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)

	res, err = l.AllowN(context.Background(), "client", 2)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
}

func TestRedisLimiter_UnavailableBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := NewRedisLimiter(client, RedisLimiterConfig{Limit: Limit{Requests: 1, Window: time.Minute}})

	mr.Close()

	_, err := l.Allow(context.Background(), "client")
	assert.ErrorIs(t, err, ErrRedisUnavailable)
}
