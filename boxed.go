package servicekit

import "context"

// BoxService hides the concrete type of a Service behind a uniform handle.
// Two services with the same request and response types box to the identical
// static type regardless of their underlying implementations.
//
// A BoxService owns the service passed to NewBoxService exclusively; callers
// must not retain or use the inner service directly afterwards. Ready and
// Invoke delegate to the inner service unchanged, so errors pass through the
// erasure boundary exactly as the inner service produced them.
type BoxService[Req, Resp any] struct {
	inner Service[Req, Resp]
}

// NewBoxService erases the concrete type of inner. The inner service must be
// safe for concurrent use and must remain valid for as long as the returned
// BoxService is held.
func NewBoxService[Req, Resp any](inner Service[Req, Resp]) *BoxService[Req, Resp] {
	return &BoxService[Req, Resp]{inner: inner}
}

// Ready implements Service.
func (s *BoxService[Req, Resp]) Ready(ctx context.Context) error {
	return s.inner.Ready(ctx)
}

// Invoke implements Service.
func (s *BoxService[Req, Resp]) Invoke(ctx context.Context, req Req) (Resp, error) {
	return s.inner.Invoke(ctx, req)
}

// String returns an opaque representation. The concrete inner type is
// intentionally not observable.
func (s *BoxService[Req, Resp]) String() string {
	return "BoxService"
}
