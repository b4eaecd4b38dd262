package middleware

import (
	"context"

	"github.com/vyrodovalexey/servicekit"
	"github.com/vyrodovalexey/servicekit/retry"
)

// RetryLayer re-invokes the inner service with exponential backoff when it
// fails. Requests must be safe to resubmit; callers wrap only idempotent
// services.
type RetryLayer[Req, Resp any] struct {
	cfg  *retry.Config
	opts *retry.Options
}

// NewRetryLayer creates a retry layer with the given configuration. A nil
// config uses retry.DefaultConfig.
func NewRetryLayer[Req, Resp any](cfg *retry.Config) RetryLayer[Req, Resp] {
	return NewRetryLayerWithOptions[Req, Resp](cfg, nil)
}

// NewRetryLayerWithOptions creates a retry layer with retry behavior hooks.
func NewRetryLayerWithOptions[Req, Resp any](cfg *retry.Config, opts *retry.Options) RetryLayer[Req, Resp] {
	return RetryLayer[Req, Resp]{cfg: cfg, opts: opts}
}

// Wrap implements servicekit.Layer.
func (l RetryLayer[Req, Resp]) Wrap(inner servicekit.Service[Req, Resp]) *RetryService[Req, Resp] {
	return &RetryService[Req, Resp]{inner: inner, cfg: l.cfg, opts: l.opts}
}

// RetryService is the service produced by RetryLayer.
type RetryService[Req, Resp any] struct {
	inner servicekit.Service[Req, Resp]
	cfg   *retry.Config
	opts  *retry.Options
}

// Ready implements servicekit.Service.
func (s *RetryService[Req, Resp]) Ready(ctx context.Context) error {
	return s.inner.Ready(ctx)
}

// Invoke implements servicekit.Service. It returns the last error when all
// attempts fail.
func (s *RetryService[Req, Resp]) Invoke(ctx context.Context, req Req) (Resp, error) {
	var resp Resp
	err := retry.Do(ctx, s.cfg, func() error {
		r, err := s.inner.Invoke(ctx, req)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}, s.opts)
	if err != nil {
		var zero Resp
		return zero, err
	}
	return resp, nil
}
