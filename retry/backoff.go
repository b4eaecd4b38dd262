package retry

import (
	"math"
	"math/rand/v2"
	"time"
)

// computeBackoff returns the backoff duration for the given zero-based
// attempt: initial * 2^attempt, capped at max, with +/- jitter applied.
func computeBackoff(cfg *Config, attempt int) time.Duration {
	initial := float64(cfg.GetInitialBackoff())
	max := float64(cfg.GetMaxBackoff())

	backoff := initial * math.Pow(2, float64(attempt))
	if backoff > max {
		backoff = max
	}

	jitter := cfg.GetJitterFactor()
	// Random factor in [1-jitter, 1+jitter).
	backoff *= 1 + jitter*(2*rand.Float64()-1)

	if backoff < 0 {
		backoff = 0
	}
	if backoff > max {
		backoff = max
	}
	return time.Duration(backoff)
}
