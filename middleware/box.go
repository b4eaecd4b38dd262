package middleware

import (
	"time"

	"github.com/vyrodovalexey/servicekit"
	"github.com/vyrodovalexey/servicekit/observability"
	"github.com/vyrodovalexey/servicekit/ratelimit"
	"github.com/vyrodovalexey/servicekit/retry"
)

// The Box* helpers erase each concrete layer into the uniform
// servicekit.ServiceLayer type so differently configured middleware can be
// mixed in one chain or selected at runtime.

// BoxTimeout boxes a timeout layer.
func BoxTimeout[Req, Resp any](timeout time.Duration) servicekit.ServiceLayer[Req, Resp] {
	return servicekit.NewBoxLayer[servicekit.Service[Req, Resp], Req, Resp, *TimeoutService[Req, Resp]](
		NewTimeoutLayer[Req, Resp](timeout))
}

// BoxRetry boxes a retry layer.
func BoxRetry[Req, Resp any](cfg *retry.Config) servicekit.ServiceLayer[Req, Resp] {
	return servicekit.NewBoxLayer[servicekit.Service[Req, Resp], Req, Resp, *RetryService[Req, Resp]](
		NewRetryLayer[Req, Resp](cfg))
}

// BoxRateLimit boxes a rate limit layer.
func BoxRateLimit[Req, Resp any](limiter ratelimit.Limiter, keyFunc KeyFunc[Req]) servicekit.ServiceLayer[Req, Resp] {
	return servicekit.NewBoxLayer[servicekit.Service[Req, Resp], Req, Resp, *RateLimitService[Req, Resp]](
		NewRateLimitLayer[Req, Resp](limiter, keyFunc))
}

// BoxCircuitBreaker boxes a circuit breaker layer.
func BoxCircuitBreaker[Req, Resp any](name string, threshold uint32, timeout time.Duration, opts ...CircuitBreakerOption) servicekit.ServiceLayer[Req, Resp] {
	return servicekit.NewBoxLayer[servicekit.Service[Req, Resp], Req, Resp, *CircuitBreakerService[Req, Resp]](
		NewCircuitBreakerLayer[Req, Resp](name, threshold, timeout, opts...))
}

// BoxLogging boxes a logging layer.
func BoxLogging[Req, Resp any](name string, logger observability.Logger) servicekit.ServiceLayer[Req, Resp] {
	return servicekit.NewBoxLayer[servicekit.Service[Req, Resp], Req, Resp, *LoggingService[Req, Resp]](
		NewLoggingLayer[Req, Resp](name, logger))
}

// BoxMetrics boxes a metrics layer.
func BoxMetrics[Req, Resp any](metrics *Metrics, service string) servicekit.ServiceLayer[Req, Resp] {
	return servicekit.NewBoxLayer[servicekit.Service[Req, Resp], Req, Resp, *MetricsService[Req, Resp]](
		NewMetricsLayer[Req, Resp](metrics, service))
}

// BoxRecovery boxes a recovery layer.
func BoxRecovery[Req, Resp any](logger observability.Logger) servicekit.ServiceLayer[Req, Resp] {
	return servicekit.NewBoxLayer[servicekit.Service[Req, Resp], Req, Resp, *RecoveryService[Req, Resp]](
		NewRecoveryLayer[Req, Resp](logger))
}

// BoxRequestID boxes a request ID layer.
func BoxRequestID[Req, Resp any]() servicekit.ServiceLayer[Req, Resp] {
	return servicekit.NewBoxLayer[servicekit.Service[Req, Resp], Req, Resp, *RequestIDService[Req, Resp]](
		NewRequestIDLayer[Req, Resp]())
}

// BoxTracing boxes a tracing layer.
func BoxTracing[Req, Resp any](name string) servicekit.ServiceLayer[Req, Resp] {
	return servicekit.NewBoxLayer[servicekit.Service[Req, Resp], Req, Resp, *TracingService[Req, Resp]](
		NewTracingLayer[Req, Resp](name))
}

// BoxConcurrencyLimit boxes a concurrency limit layer.
func BoxConcurrencyLimit[Req, Resp any](limit int64) servicekit.ServiceLayer[Req, Resp] {
	return servicekit.NewBoxLayer[servicekit.Service[Req, Resp], Req, Resp, *ConcurrencyLimitService[Req, Resp]](
		NewConcurrencyLimitLayer[Req, Resp](limit))
}
