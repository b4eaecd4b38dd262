package middleware

import (
	"context"
	"time"

	"github.com/vyrodovalexey/servicekit"
	"github.com/vyrodovalexey/servicekit/observability"
)

// LoggingLayer logs every invocation of the inner service with its outcome
// and duration. Request IDs placed in the context by RequestIDLayer are
// included automatically.
type LoggingLayer[Req, Resp any] struct {
	name   string
	logger observability.Logger
}

// NewLoggingLayer creates a logging layer. The name identifies the wrapped
// service in log output. A nil logger discards output.
func NewLoggingLayer[Req, Resp any](name string, logger observability.Logger) LoggingLayer[Req, Resp] {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return LoggingLayer[Req, Resp]{name: name, logger: logger}
}

// Wrap implements servicekit.Layer.
func (l LoggingLayer[Req, Resp]) Wrap(inner servicekit.Service[Req, Resp]) *LoggingService[Req, Resp] {
	return &LoggingService[Req, Resp]{inner: inner, name: l.name, logger: l.logger}
}

// LoggingService is the service produced by LoggingLayer.
type LoggingService[Req, Resp any] struct {
	inner  servicekit.Service[Req, Resp]
	name   string
	logger observability.Logger
}

// Ready implements servicekit.Service.
func (s *LoggingService[Req, Resp]) Ready(ctx context.Context) error {
	return s.inner.Ready(ctx)
}

// Invoke implements servicekit.Service.
func (s *LoggingService[Req, Resp]) Invoke(ctx context.Context, req Req) (Resp, error) {
	start := time.Now()
	resp, err := s.inner.Invoke(ctx, req)
	duration := time.Since(start)

	logger := s.logger.WithContext(ctx)
	if err != nil {
		logger.Error("request failed",
			observability.String("service", s.name),
			observability.Duration("duration", duration),
			observability.Error(err),
		)
	} else {
		logger.Info("request completed",
			observability.String("service", s.name),
			observability.Duration("duration", duration),
		)
	}

	return resp, err
}
