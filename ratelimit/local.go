package ratelimit

import (
	"context"
	"io"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vyrodovalexey/servicekit/observability"
)

// Ensure LocalLimiter implements Limiter and io.Closer.
var (
	_ Limiter   = (*LocalLimiter)(nil)
	_ io.Closer = (*LocalLimiter)(nil)
)

// LocalLimiter rate limits per key using in-process token buckets. Tokens
// refill at a fixed rate and each request consumes one token. Implements
// io.Closer; call Close when done to stop the background cleanup goroutine
// that evicts stale per-key buckets.
type LocalLimiter struct {
	rate   rate.Limit // tokens per second
	burst  int
	logger observability.Logger

	buckets sync.Map // key -> *localBucket

	cleanupInterval time.Duration
	bucketTTL       time.Duration
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
}

type localBucket struct {
	limiter *rate.Limiter

	mu       sync.Mutex
	lastSeen time.Time
}

func (b *localBucket) touch(now time.Time) {
	b.mu.Lock()
	b.lastSeen = now
	b.mu.Unlock()
}

func (b *localBucket) seenBefore(cutoff time.Time) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastSeen.Before(cutoff)
}

// NewLocalLimiter creates a local limiter allowing rps requests per second
// with the given burst. Starts a background cleanup goroutine to prevent
// unbounded growth from stale keys.
func NewLocalLimiter(rps float64, burst int, logger observability.Logger) *LocalLimiter {
	return NewLocalLimiterWithTTL(rps, burst, 5*time.Minute, 10*time.Minute, logger)
}

// NewLocalLimiterWithTTL creates a local limiter with custom cleanup
// settings.
func NewLocalLimiterWithTTL(rps float64, burst int, cleanupInterval, bucketTTL time.Duration, logger observability.Logger) *LocalLimiter {
	if logger == nil {
		logger = observability.NopLogger()
	}
	if burst <= 0 {
		burst = 1
	}

	l := &LocalLimiter{
		rate:            rate.Limit(rps),
		burst:           burst,
		logger:          logger,
		cleanupInterval: cleanupInterval,
		bucketTTL:       bucketTTL,
		stopCleanup:     make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

// Allow implements Limiter.
func (l *LocalLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	return l.AllowN(ctx, key, 1)
}

// AllowN implements Limiter.
func (l *LocalLimiter) AllowN(_ context.Context, key string, n int) (*Result, error) {
	now := time.Now()
	b := l.bucket(key)
	b.touch(now)

	res := &Result{Limit: l.burst}

	rsv := b.limiter.ReserveN(now, n)
	if !rsv.OK() {
		// n exceeds the burst; this request can never be served.
		res.RetryAfter = time.Duration(float64(n) / float64(l.rate) * float64(time.Second))
		return res, nil
	}

	if delay := rsv.DelayFrom(now); delay > 0 {
		rsv.CancelAt(now)
		res.RetryAfter = delay
		res.Remaining = int(b.limiter.TokensAt(now))
		return res, nil
	}

	res.Allowed = true
	res.Remaining = int(b.limiter.TokensAt(now))
	return res, nil
}

// Reset implements Limiter.
func (l *LocalLimiter) Reset(_ context.Context, key string) error {
	l.buckets.Delete(key)
	return nil
}

// Close stops the background cleanup goroutine.
func (l *LocalLimiter) Close() error {
	l.cleanupOnce.Do(func() {
		close(l.stopCleanup)
	})
	return nil
}

func (l *LocalLimiter) bucket(key string) *localBucket {
	if v, ok := l.buckets.Load(key); ok {
		return v.(*localBucket)
	}
	b := &localBucket{
		limiter:  rate.NewLimiter(l.rate, l.burst),
		lastSeen: time.Now(),
	}
	actual, _ := l.buckets.LoadOrStore(key, b)
	return actual.(*localBucket)
}

func (l *LocalLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopCleanup:
			return
		case <-ticker.C:
			l.evictStale()
		}
	}
}

func (l *LocalLimiter) evictStale() {
	cutoff := time.Now().Add(-l.bucketTTL)
	evicted := 0
	l.buckets.Range(func(key, value any) bool {
		if value.(*localBucket).seenBefore(cutoff) {
			l.buckets.Delete(key)
			evicted++
		}
		return true
	})
	if evicted > 0 {
		l.logger.Debug("evicted stale rate limit buckets",
			observability.Int("count", evicted),
		)
	}
}
