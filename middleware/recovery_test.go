package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/servicekit"
)

func TestRecovery_PanicBecomesError(t *testing.T) {
	panicky := servicekit.ServiceFunc[string, string](func(context.Context, string) (string, error) {
		panic("kaboom")
	})

	svc := NewRecoveryLayer[string, string](nil).Wrap(panicky)

	_, err := svc.Invoke(context.Background(), "x")
	require.Error(t, err)

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "kaboom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
	assert.Contains(t, pe.Error(), "kaboom")
}

func TestRecovery_NormalFlowUntouched(t *testing.T) {
	svc := NewRecoveryLayer[string, string](nil).Wrap(echo())

	resp, err := svc.Invoke(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", resp)
}
