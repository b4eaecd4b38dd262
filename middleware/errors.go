package middleware

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when a request exceeds its deadline.
var ErrTimeout = errors.New("request timed out")

// ErrCircuitOpen is returned when the circuit breaker rejects a request.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ErrRateLimited is returned when a request exceeds the rate limit. Use
// errors.Is against it; the concrete error is a *RateLimitError carrying the
// retry-after hint.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitError reports a rejected request along with how long the caller
// should wait before retrying.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// Is makes errors.Is(err, ErrRateLimited) succeed.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimited
}

// PanicError is returned by the recovery layer when the inner service
// panics.
type PanicError struct {
	// Value is the value the service panicked with.
	Value any

	// Stack is the stack trace captured at recovery.
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic recovered: %v", e.Value)
}
