package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/vyrodovalexey/servicekit"
	"github.com/vyrodovalexey/servicekit/observability"
)

// CircuitBreakerLayer guards the inner service with a shared circuit
// breaker. Every service the layer produces reports into the same breaker,
// so failures observed through one pipeline open the circuit for all of
// them.
type CircuitBreakerLayer[Req, Resp any] struct {
	cb     *gobreaker.CircuitBreaker
	logger observability.Logger
}

// CircuitBreakerOption configures a CircuitBreakerLayer.
type CircuitBreakerOption func(*circuitBreakerSettings)

type circuitBreakerSettings struct {
	logger        observability.Logger
	onStateChange func(name string, from, to gobreaker.State)
}

// WithCircuitBreakerLogger sets the logger for breaker state transitions.
func WithCircuitBreakerLogger(logger observability.Logger) CircuitBreakerOption {
	return func(s *circuitBreakerSettings) {
		s.logger = logger
	}
}

// WithCircuitBreakerStateCallback registers a callback invoked on breaker
// state transitions.
func WithCircuitBreakerStateCallback(fn func(name string, from, to gobreaker.State)) CircuitBreakerOption {
	return func(s *circuitBreakerSettings) {
		s.onStateChange = fn
	}
}

// NewCircuitBreakerLayer creates a circuit breaker layer. The breaker trips
// once at least threshold requests have been observed in the sampling
// interval and at least half of them failed; it probes again after timeout.
func NewCircuitBreakerLayer[Req, Resp any](name string, threshold uint32, timeout time.Duration, opts ...CircuitBreakerOption) CircuitBreakerLayer[Req, Resp] {
	settings := &circuitBreakerSettings{
		logger: observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(settings)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: threshold,
		Interval:    timeout,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= threshold && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			settings.logger.Info("circuit breaker state change",
				observability.String("name", name),
				observability.String("from", from.String()),
				observability.String("to", to.String()),
			)
			if settings.onStateChange != nil {
				settings.onStateChange(name, from, to)
			}
		},
	})

	return CircuitBreakerLayer[Req, Resp]{cb: cb, logger: settings.logger}
}

// Wrap implements servicekit.Layer.
func (l CircuitBreakerLayer[Req, Resp]) Wrap(inner servicekit.Service[Req, Resp]) *CircuitBreakerService[Req, Resp] {
	return &CircuitBreakerService[Req, Resp]{inner: inner, cb: l.cb}
}

// CircuitBreakerService is the service produced by CircuitBreakerLayer.
type CircuitBreakerService[Req, Resp any] struct {
	inner servicekit.Service[Req, Resp]
	cb    *gobreaker.CircuitBreaker
}

// Ready implements servicekit.Service. An open circuit reports not ready.
func (s *CircuitBreakerService[Req, Resp]) Ready(ctx context.Context) error {
	if s.cb.State() == gobreaker.StateOpen {
		return ErrCircuitOpen
	}
	return s.inner.Ready(ctx)
}

// Invoke implements servicekit.Service. Rejections by the breaker surface as
// ErrCircuitOpen; inner failures pass through unchanged while still counting
// against the breaker.
func (s *CircuitBreakerService[Req, Resp]) Invoke(ctx context.Context, req Req) (Resp, error) {
	out, err := s.cb.Execute(func() (any, error) {
		return s.inner.Invoke(ctx, req)
	})
	if err != nil {
		var zero Resp
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, ErrCircuitOpen
		}
		return zero, err
	}
	resp, _ := out.(Resp)
	return resp, nil
}
