package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	svc := NewCircuitBreakerLayer[string, string]("ok", 3, time.Second).Wrap(echo())

	resp, err := svc.Invoke(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", resp)
}

func TestCircuitBreaker_InnerErrorPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	svc := NewCircuitBreakerLayer[string, string]("fail-once", 100, time.Second).Wrap(failWith(boom))

	_, err := svc.Invoke(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	boom := errors.New("boom")
	svc := NewCircuitBreakerLayer[string, string]("opens", 2, time.Minute).Wrap(failWith(boom))

	for i := 0; i < 2; i++ {
		_, err := svc.Invoke(context.Background(), "x")
		require.ErrorIs(t, err, boom)
	}

	_, err := svc.Invoke(context.Background(), "x")
	assert.ErrorIs(t, err, ErrCircuitOpen)

	assert.ErrorIs(t, svc.Ready(context.Background()), ErrCircuitOpen)
}

func TestCircuitBreaker_SharedAcrossProducedServices(t *testing.T) {
	boom := errors.New("boom")
	layer := NewCircuitBreakerLayer[string, string]("shared", 2, time.Minute)

	failing := layer.Wrap(failWith(boom))
	healthy := layer.Wrap(echo())

	for i := 0; i < 2; i++ {
		_, _ = failing.Invoke(context.Background(), "x")
	}

	// The breaker tripped through the failing pipeline; the healthy one is
	// rejected too.
	_, err := healthy.Invoke(context.Background(), "x")
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_StateCallback(t *testing.T) {
	boom := errors.New("boom")
	var transitions []gobreaker.State

	svc := NewCircuitBreakerLayer[string, string]("callback", 2, time.Minute,
		WithCircuitBreakerStateCallback(func(_ string, _, to gobreaker.State) {
			transitions = append(transitions, to)
		}),
	).Wrap(failWith(boom))

	for i := 0; i < 3; i++ {
		_, _ = svc.Invoke(context.Background(), "x")
	}

	require.NotEmpty(t, transitions)
	assert.Equal(t, gobreaker.StateOpen, transitions[0])
}
