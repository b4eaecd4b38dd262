package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/servicekit"
	"github.com/vyrodovalexey/servicekit/observability"
)

// TracingLayer opens a span around every invocation of the inner service.
type TracingLayer[Req, Resp any] struct {
	name string
}

// NewTracingLayer creates a tracing layer. The name becomes the span name.
func NewTracingLayer[Req, Resp any](name string) TracingLayer[Req, Resp] {
	return TracingLayer[Req, Resp]{name: name}
}

// Wrap implements servicekit.Layer.
func (l TracingLayer[Req, Resp]) Wrap(inner servicekit.Service[Req, Resp]) *TracingService[Req, Resp] {
	return &TracingService[Req, Resp]{inner: inner, name: l.name}
}

// TracingService is the service produced by TracingLayer.
type TracingService[Req, Resp any] struct {
	inner servicekit.Service[Req, Resp]
	name  string
}

// Ready implements servicekit.Service.
func (s *TracingService[Req, Resp]) Ready(ctx context.Context) error {
	return s.inner.Ready(ctx)
}

// Invoke implements servicekit.Service.
func (s *TracingService[Req, Resp]) Invoke(ctx context.Context, req Req) (Resp, error) {
	ctx, span := observability.Tracer().Start(ctx, s.name,
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()

	if id := observability.RequestIDFromContext(ctx); id != "" {
		span.SetAttributes(attribute.String("request.id", id))
	}

	resp, err := s.inner.Invoke(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return resp, err
}
