package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/vyrodovalexey/servicekit/observability"
)

// Ensure RedisLimiter implements Limiter.
var _ Limiter = (*RedisLimiter)(nil)

// ErrRedisUnavailable indicates the Redis backend could not be reached.
var ErrRedisUnavailable = errors.New("redis is unavailable")

// DefaultKeyPrefix is the key prefix for rate limit entries in Redis.
const DefaultKeyPrefix = "servicekit:ratelimit:"

// RedisLimiterConfig holds configuration for the Redis limiter.
type RedisLimiterConfig struct {
	// Limit is the rate limit to enforce.
	Limit Limit

	// KeyPrefix is prepended to every Redis key. Defaults to
	// DefaultKeyPrefix.
	KeyPrefix string

	// Logger for the limiter.
	Logger observability.Logger
}

// RedisLimiter implements a sliding window rate limiter backed by Redis
// sorted sets, allowing coordinated limiting across processes. Each request
// is recorded as a member scored by its timestamp; members older than the
// window are pruned on every check.
type RedisLimiter struct {
	client    redis.UniversalClient
	limit     Limit
	keyPrefix string
	logger    observability.Logger
}

// NewRedisLimiter creates a Redis-backed sliding window limiter.
func NewRedisLimiter(client redis.UniversalClient, cfg RedisLimiterConfig) *RedisLimiter {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &RedisLimiter{
		client:    client,
		limit:     cfg.Limit,
		keyPrefix: prefix,
		logger:    logger,
	}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	return l.AllowN(ctx, key, 1)
}

// AllowN implements Limiter.
func (l *RedisLimiter) AllowN(ctx context.Context, key string, n int) (*Result, error) {
	now := time.Now()
	redisKey := l.keyPrefix + key
	windowStart := now.Add(-l.limit.Window)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(windowStart.UnixNano(), 10))
	countCmd := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	count := int(countCmd.Val())
	res := &Result{Limit: l.limit.Requests}

	if count+n > l.limit.Requests {
		res.Remaining = l.limit.Requests - count
		if res.Remaining < 0 {
			res.Remaining = 0
		}
		res.RetryAfter = l.retryAfter(ctx, redisKey, now)
		return res, nil
	}

	members := make([]redis.Z, n)
	score := float64(now.UnixNano())
	for i := range members {
		members[i] = redis.Z{Score: score, Member: uuid.NewString()}
	}

	add := l.client.TxPipeline()
	add.ZAdd(ctx, redisKey, members...)
	add.Expire(ctx, redisKey, l.limit.Window)
	if _, err := add.Exec(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	res.Allowed = true
	res.Remaining = l.limit.Requests - count - n
	return res, nil
}

// Reset implements Limiter.
func (l *RedisLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// retryAfter estimates when the oldest entry in the window expires.
func (l *RedisLimiter) retryAfter(ctx context.Context, redisKey string, now time.Time) time.Duration {
	oldest, err := l.client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
	if err != nil || len(oldest) == 0 {
		return l.limit.Window
	}
	expiry := time.Unix(0, int64(oldest[0].Score)).Add(l.limit.Window)
	retryAfter := expiry.Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return retryAfter
}
