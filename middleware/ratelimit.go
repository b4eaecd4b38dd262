package middleware

import (
	"context"
	"fmt"

	"github.com/vyrodovalexey/servicekit"
	"github.com/vyrodovalexey/servicekit/ratelimit"
)

// KeyFunc extracts the rate limit key for a request, typically a client or
// tenant identifier.
type KeyFunc[Req any] func(ctx context.Context, req Req) string

// GlobalKey rate limits all requests under a single key.
func GlobalKey[Req any]() KeyFunc[Req] {
	return func(context.Context, Req) string { return "global" }
}

// RateLimitLayer rejects requests exceeding the configured limiter with
// ErrRateLimited.
type RateLimitLayer[Req, Resp any] struct {
	limiter ratelimit.Limiter
	keyFunc KeyFunc[Req]
}

// NewRateLimitLayer creates a rate limit layer. A nil keyFunc limits all
// requests under one global key. The limiter is shared by every service the
// layer produces.
func NewRateLimitLayer[Req, Resp any](limiter ratelimit.Limiter, keyFunc KeyFunc[Req]) RateLimitLayer[Req, Resp] {
	if keyFunc == nil {
		keyFunc = GlobalKey[Req]()
	}
	return RateLimitLayer[Req, Resp]{limiter: limiter, keyFunc: keyFunc}
}

// Wrap implements servicekit.Layer.
func (l RateLimitLayer[Req, Resp]) Wrap(inner servicekit.Service[Req, Resp]) *RateLimitService[Req, Resp] {
	return &RateLimitService[Req, Resp]{inner: inner, limiter: l.limiter, keyFunc: l.keyFunc}
}

// RateLimitService is the service produced by RateLimitLayer.
type RateLimitService[Req, Resp any] struct {
	inner   servicekit.Service[Req, Resp]
	limiter ratelimit.Limiter
	keyFunc KeyFunc[Req]
}

// Ready implements servicekit.Service.
func (s *RateLimitService[Req, Resp]) Ready(ctx context.Context) error {
	return s.inner.Ready(ctx)
}

// Invoke implements servicekit.Service.
func (s *RateLimitService[Req, Resp]) Invoke(ctx context.Context, req Req) (Resp, error) {
	var zero Resp

	res, err := s.limiter.Allow(ctx, s.keyFunc(ctx, req))
	if err != nil {
		return zero, fmt.Errorf("rate limiter: %w", err)
	}
	if !res.Allowed {
		return zero, &RateLimitError{RetryAfter: res.RetryAfter}
	}

	return s.inner.Invoke(ctx, req)
}
