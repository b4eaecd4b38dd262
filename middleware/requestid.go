package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/vyrodovalexey/servicekit"
	"github.com/vyrodovalexey/servicekit/observability"
)

// RequestIDLayer ensures every request carries an ID in its context, for
// correlation by downstream logging and tracing layers. An ID already
// present in the context is preserved.
type RequestIDLayer[Req, Resp any] struct {
	generator func() string
}

// NewRequestIDLayer creates a request ID layer using UUIDv4 identifiers.
func NewRequestIDLayer[Req, Resp any]() RequestIDLayer[Req, Resp] {
	return NewRequestIDLayerWithGenerator[Req, Resp](uuid.NewString)
}

// NewRequestIDLayerWithGenerator creates a request ID layer with a custom ID
// generator.
func NewRequestIDLayerWithGenerator[Req, Resp any](generator func() string) RequestIDLayer[Req, Resp] {
	return RequestIDLayer[Req, Resp]{generator: generator}
}

// Wrap implements servicekit.Layer.
func (l RequestIDLayer[Req, Resp]) Wrap(inner servicekit.Service[Req, Resp]) *RequestIDService[Req, Resp] {
	return &RequestIDService[Req, Resp]{inner: inner, generator: l.generator}
}

// RequestIDService is the service produced by RequestIDLayer.
type RequestIDService[Req, Resp any] struct {
	inner     servicekit.Service[Req, Resp]
	generator func() string
}

// Ready implements servicekit.Service.
func (s *RequestIDService[Req, Resp]) Ready(ctx context.Context) error {
	return s.inner.Ready(ctx)
}

// Invoke implements servicekit.Service.
func (s *RequestIDService[Req, Resp]) Invoke(ctx context.Context, req Req) (Resp, error) {
	if observability.RequestIDFromContext(ctx) == "" {
		ctx = observability.ContextWithRequestID(ctx, s.generator())
	}
	return s.inner.Invoke(ctx, req)
}
