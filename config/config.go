// Package config builds servicekit middleware chains from YAML pipeline
// descriptions, so the set of layers wrapping a service can be chosen at
// deploy time instead of compile time.
package config

import (
	"fmt"
	"time"
)

// Middleware type names accepted in pipeline configuration.
const (
	TypeRecovery       = "recovery"
	TypeRequestID      = "requestid"
	TypeTimeout        = "timeout"
	TypeRetry          = "retry"
	TypeRateLimit      = "ratelimit"
	TypeCircuitBreaker = "circuitbreaker"
	TypeConcurrency    = "concurrency"
	TypeLogging        = "logging"
	TypeMetrics        = "metrics"
	TypeTracing        = "tracing"
)

// Defaults applied during validation.
const (
	DefaultTimeout          = 30 * time.Second
	DefaultBreakerThreshold = 5
	DefaultBreakerInterval  = 30 * time.Second
	DefaultConcurrency      = 64
)

// PipelineConfig describes a middleware pipeline. Middlewares are listed
// outermost first, matching chain order.
type PipelineConfig struct {
	// Name identifies the pipeline in logs, metrics, and traces.
	Name string `yaml:"name"`

	// Middlewares is the ordered list of layers to apply.
	Middlewares []MiddlewareConfig `yaml:"middlewares"`
}

// MiddlewareConfig describes one middleware entry. Only the fields relevant
// to the entry's Type are consulted.
type MiddlewareConfig struct {
	// Type selects the middleware; one of the Type* constants.
	Type string `yaml:"type"`

	// Disabled skips this entry without removing it from the file.
	Disabled bool `yaml:"disabled,omitempty"`

	// Timeout is the per-request deadline (timeout).
	Timeout Duration `yaml:"timeout,omitempty"`

	// Retry settings (retry).
	MaxRetries     int      `yaml:"maxRetries,omitempty"`
	InitialBackoff Duration `yaml:"initialBackoff,omitempty"`
	MaxBackoff     Duration `yaml:"maxBackoff,omitempty"`
	JitterFactor   float64  `yaml:"jitterFactor,omitempty"`

	// Rate limit settings (ratelimit). Rate is requests per second.
	Rate  float64 `yaml:"rate,omitempty"`
	Burst int     `yaml:"burst,omitempty"`

	// Circuit breaker settings (circuitbreaker).
	Threshold uint32   `yaml:"threshold,omitempty"`
	Interval  Duration `yaml:"interval,omitempty"`

	// Limit is the maximum number of in-flight requests (concurrency).
	Limit int64 `yaml:"limit,omitempty"`
}

// Validate checks the pipeline and fills in defaults for omitted values.
func (c *PipelineConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("pipeline name is required")
	}

	for i := range c.Middlewares {
		mw := &c.Middlewares[i]
		if err := mw.validate(); err != nil {
			return fmt.Errorf("middleware %d: %w", i, err)
		}
	}
	return nil
}

func (m *MiddlewareConfig) validate() error {
	switch m.Type {
	case TypeRecovery, TypeRequestID, TypeLogging, TypeMetrics, TypeTracing:
		// No settings.
	case TypeTimeout:
		if m.Timeout <= 0 {
			m.Timeout = Duration(DefaultTimeout)
		}
	case TypeRetry:
		if m.MaxRetries < 0 {
			return fmt.Errorf("maxRetries must not be negative")
		}
		if m.JitterFactor < 0 || m.JitterFactor > 1 {
			return fmt.Errorf("jitterFactor must be between 0 and 1")
		}
	case TypeRateLimit:
		if m.Rate <= 0 {
			return fmt.Errorf("ratelimit requires a positive rate")
		}
		if m.Burst <= 0 {
			m.Burst = 1
		}
	case TypeCircuitBreaker:
		if m.Threshold == 0 {
			m.Threshold = DefaultBreakerThreshold
		}
		if m.Interval <= 0 {
			m.Interval = Duration(DefaultBreakerInterval)
		}
	case TypeConcurrency:
		if m.Limit <= 0 {
			m.Limit = DefaultConcurrency
		}
	case "":
		return fmt.Errorf("middleware type is required")
	default:
		return fmt.Errorf("unknown middleware type %q", m.Type)
	}
	return nil
}
