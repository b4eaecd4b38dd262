package middleware

import (
	"context"
	"time"

	"github.com/vyrodovalexey/servicekit"
)

// DefaultTimeout is used when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// TimeoutLayer enforces a per-request deadline on the services it wraps.
type TimeoutLayer[Req, Resp any] struct {
	timeout time.Duration
}

// NewTimeoutLayer creates a timeout layer. A non-positive timeout falls back
// to DefaultTimeout.
func NewTimeoutLayer[Req, Resp any](timeout time.Duration) TimeoutLayer[Req, Resp] {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return TimeoutLayer[Req, Resp]{timeout: timeout}
}

// Wrap implements servicekit.Layer.
func (l TimeoutLayer[Req, Resp]) Wrap(inner servicekit.Service[Req, Resp]) *TimeoutService[Req, Resp] {
	return &TimeoutService[Req, Resp]{inner: inner, timeout: l.timeout}
}

// TimeoutService is the service produced by TimeoutLayer.
type TimeoutService[Req, Resp any] struct {
	inner   servicekit.Service[Req, Resp]
	timeout time.Duration
}

// Ready implements servicekit.Service.
func (s *TimeoutService[Req, Resp]) Ready(ctx context.Context) error {
	return s.inner.Ready(ctx)
}

// Invoke runs the inner service under a deadline. The inner call runs in its
// own goroutine so a service that ignores context cancellation cannot stall
// the caller past the deadline; such a service keeps running until it
// returns on its own.
func (s *TimeoutService[Req, Resp]) Invoke(ctx context.Context, req Req) (Resp, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		resp     Resp
		err      error
		panicked any
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{panicked: r}
			}
		}()
		resp, err := s.inner.Invoke(ctx, req)
		done <- result{resp: resp, err: err}
	}()

	select {
	case r := <-done:
		if r.panicked != nil {
			// Re-panic on the caller's goroutine so an outer recovery
			// layer can handle it.
			panic(r.panicked)
		}
		return r.resp, r.err
	case <-ctx.Done():
		var zero Resp
		if ctx.Err() == context.DeadlineExceeded {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}
