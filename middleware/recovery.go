package middleware

import (
	"context"
	"runtime/debug"

	"github.com/vyrodovalexey/servicekit"
	"github.com/vyrodovalexey/servicekit/observability"
)

// RecoveryLayer converts panics in the inner service into *PanicError so a
// misbehaving service cannot take down the caller.
type RecoveryLayer[Req, Resp any] struct {
	logger observability.Logger
}

// NewRecoveryLayer creates a recovery layer. A nil logger discards output.
func NewRecoveryLayer[Req, Resp any](logger observability.Logger) RecoveryLayer[Req, Resp] {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return RecoveryLayer[Req, Resp]{logger: logger}
}

// Wrap implements servicekit.Layer.
func (l RecoveryLayer[Req, Resp]) Wrap(inner servicekit.Service[Req, Resp]) *RecoveryService[Req, Resp] {
	return &RecoveryService[Req, Resp]{inner: inner, logger: l.logger}
}

// RecoveryService is the service produced by RecoveryLayer.
type RecoveryService[Req, Resp any] struct {
	inner  servicekit.Service[Req, Resp]
	logger observability.Logger
}

// Ready implements servicekit.Service.
func (s *RecoveryService[Req, Resp]) Ready(ctx context.Context) error {
	return s.inner.Ready(ctx)
}

// Invoke implements servicekit.Service.
func (s *RecoveryService[Req, Resp]) Invoke(ctx context.Context, req Req) (resp Resp, err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			s.logger.WithContext(ctx).Error("panic recovered in service",
				observability.Any("panic", r),
				observability.String("stack", string(stack)),
			)
			var zero Resp
			resp = zero
			err = &PanicError{Value: r, Stack: stack}
		}
	}()

	return s.inner.Invoke(ctx, req)
}
