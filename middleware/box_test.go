package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/servicekit"
	"github.com/vyrodovalexey/servicekit/retry"
)

func TestBoxedLayers_ShareOneStaticType(t *testing.T) {
	// Heterogeneous middleware, one slice.
	layers := []servicekit.ServiceLayer[string, string]{
		BoxRecovery[string, string](nil),
		BoxRequestID[string, string](),
		BoxTimeout[string, string](time.Second),
		BoxRetry[string, string](nil),
		BoxConcurrencyLimit[string, string](4),
	}

	svc := servicekit.NewChain(layers...).Then(echo())

	resp, err := svc.Invoke(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", resp)
}

func TestBoxedLayers_RuntimeSelection(t *testing.T) {
	fastRetry := &retry.Config{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		JitterFactor:   0.1,
	}

	for _, retriesEnabled := range []bool{true, false} {
		calls := 0
		flaky := servicekit.ServiceFunc[string, string](func(_ context.Context, req string) (string, error) {
			calls++
			if calls < 2 {
				return "", errors.New("transient")
			}
			return req, nil
		})

		var layer servicekit.ServiceLayer[string, string]
		if retriesEnabled {
			layer = BoxRetry[string, string](fastRetry)
		} else {
			layer = BoxRequestID[string, string]()
		}

		resp, err := layer.Wrap(flaky).Invoke(context.Background(), "ok")
		if retriesEnabled {
			require.NoError(t, err)
			assert.Equal(t, "ok", resp)
		} else {
			require.Error(t, err)
		}
	}
}

func TestBoxedChain_RecoveryOutermostCatchesPanics(t *testing.T) {
	panicky := servicekit.ServiceFunc[string, string](func(context.Context, string) (string, error) {
		panic("inner panic")
	})

	chain := servicekit.NewChain(
		BoxRecovery[string, string](nil),
		BoxTimeout[string, string](time.Second),
	)

	_, err := chain.Then(panicky).Invoke(context.Background(), "x")
	require.Error(t, err)

	var pe *PanicError
	assert.ErrorAs(t, err, &pe)
}
