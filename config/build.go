package config

import (
	"fmt"

	"github.com/vyrodovalexey/servicekit"
	"github.com/vyrodovalexey/servicekit/middleware"
	"github.com/vyrodovalexey/servicekit/observability"
	"github.com/vyrodovalexey/servicekit/ratelimit"
	"github.com/vyrodovalexey/servicekit/retry"
)

// BuildOptions carries the runtime dependencies pipeline entries may need.
type BuildOptions struct {
	// Logger is used by the logging, recovery, and circuitbreaker entries.
	// Nil discards output.
	Logger observability.Logger

	// Metrics backs metrics entries. Required when the pipeline contains
	// one.
	Metrics *middleware.Metrics

	// Limiter backs ratelimit entries. When nil, a per-entry local limiter
	// is created from the entry's rate and burst; it keeps its cleanup
	// goroutine for the life of the process.
	Limiter ratelimit.Limiter
}

// Build turns a validated pipeline configuration into a chain of boxed
// layers. Disabled entries are skipped. Because every entry erases to the
// same servicekit.ServiceLayer type, the resulting chain composition is
// decided entirely at runtime.
func Build[Req, Resp any](cfg *PipelineConfig, opts BuildOptions) (servicekit.Chain[Req, Resp], error) {
	if opts.Logger == nil {
		opts.Logger = observability.NopLogger()
	}

	var layers []servicekit.ServiceLayer[Req, Resp]
	for i, mw := range cfg.Middlewares {
		if mw.Disabled {
			continue
		}

		layer, err := buildLayer[Req, Resp](cfg.Name, mw, opts)
		if err != nil {
			return servicekit.Chain[Req, Resp]{}, fmt.Errorf("middleware %d (%s): %w", i, mw.Type, err)
		}
		layers = append(layers, layer)
	}

	return servicekit.NewChain(layers...), nil
}

func buildLayer[Req, Resp any](name string, mw MiddlewareConfig, opts BuildOptions) (servicekit.ServiceLayer[Req, Resp], error) {
	switch mw.Type {
	case TypeRecovery:
		return middleware.BoxRecovery[Req, Resp](opts.Logger), nil

	case TypeRequestID:
		return middleware.BoxRequestID[Req, Resp](), nil

	case TypeTimeout:
		return middleware.BoxTimeout[Req, Resp](mw.Timeout.Duration()), nil

	case TypeRetry:
		return middleware.BoxRetry[Req, Resp](&retry.Config{
			MaxRetries:     mw.MaxRetries,
			InitialBackoff: mw.InitialBackoff.Duration(),
			MaxBackoff:     mw.MaxBackoff.Duration(),
			JitterFactor:   mw.JitterFactor,
		}), nil

	case TypeRateLimit:
		limiter := opts.Limiter
		if limiter == nil {
			limiter = ratelimit.NewLocalLimiter(mw.Rate, mw.Burst, opts.Logger)
		}
		return middleware.BoxRateLimit[Req, Resp](limiter, nil), nil

	case TypeCircuitBreaker:
		return middleware.BoxCircuitBreaker[Req, Resp](name, mw.Threshold, mw.Interval.Duration(),
			middleware.WithCircuitBreakerLogger(opts.Logger)), nil

	case TypeConcurrency:
		return middleware.BoxConcurrencyLimit[Req, Resp](mw.Limit), nil

	case TypeLogging:
		return middleware.BoxLogging[Req, Resp](name, opts.Logger), nil

	case TypeMetrics:
		if opts.Metrics == nil {
			return servicekit.ServiceLayer[Req, Resp]{}, fmt.Errorf("metrics middleware requires BuildOptions.Metrics")
		}
		return middleware.BoxMetrics[Req, Resp](opts.Metrics, name), nil

	case TypeTracing:
		return middleware.BoxTracing[Req, Resp](name), nil

	default:
		return servicekit.ServiceLayer[Req, Resp]{}, fmt.Errorf("unknown middleware type %q", mw.Type)
	}
}
