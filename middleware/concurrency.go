package middleware

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/vyrodovalexey/servicekit"
)

// ConcurrencyLimitLayer bounds the number of in-flight requests per produced
// service. Each Wrap creates an independent semaphore, so the limit applies
// per pipeline, not across pipelines.
type ConcurrencyLimitLayer[Req, Resp any] struct {
	limit int64
}

// NewConcurrencyLimitLayer creates a concurrency limit layer allowing at
// most limit concurrent invocations. A non-positive limit is treated as 1.
func NewConcurrencyLimitLayer[Req, Resp any](limit int64) ConcurrencyLimitLayer[Req, Resp] {
	if limit <= 0 {
		limit = 1
	}
	return ConcurrencyLimitLayer[Req, Resp]{limit: limit}
}

// Wrap implements servicekit.Layer.
func (l ConcurrencyLimitLayer[Req, Resp]) Wrap(inner servicekit.Service[Req, Resp]) *ConcurrencyLimitService[Req, Resp] {
	return &ConcurrencyLimitService[Req, Resp]{
		inner: inner,
		sem:   semaphore.NewWeighted(l.limit),
	}
}

// ConcurrencyLimitService is the service produced by ConcurrencyLimitLayer.
type ConcurrencyLimitService[Req, Resp any] struct {
	inner servicekit.Service[Req, Resp]
	sem   *semaphore.Weighted
}

// Ready implements servicekit.Service. Admission happens in Invoke, which
// blocks until a slot frees up or the context is done.
func (s *ConcurrencyLimitService[Req, Resp]) Ready(ctx context.Context) error {
	return s.inner.Ready(ctx)
}

// Invoke implements servicekit.Service.
func (s *ConcurrencyLimitService[Req, Resp]) Invoke(ctx context.Context, req Req) (Resp, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		var zero Resp
		return zero, err
	}
	defer s.sem.Release(1)

	return s.inner.Invoke(ctx, req)
}
