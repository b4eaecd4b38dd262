package servicekit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceFunc_Invoke(t *testing.T) {
	svc := ServiceFunc[int, int](func(_ context.Context, req int) (int, error) {
		return req * 2, nil
	})

	require.NoError(t, svc.Ready(context.Background()))

	resp, err := svc.Invoke(context.Background(), 21)
	require.NoError(t, err)
	assert.Equal(t, 42, resp)
}

func TestServiceFunc_ReadyHonorsContext(t *testing.T) {
	svc := ServiceFunc[int, int](func(_ context.Context, req int) (int, error) {
		return req, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, svc.Ready(ctx), context.Canceled)
}

func TestBoxService_DelegatesUnchanged(t *testing.T) {
	sentinel := errors.New("inner failure")
	inner := ServiceFunc[string, string](func(_ context.Context, req string) (string, error) {
		if req == "fail" {
			return "", sentinel
		}
		return req + "!", nil
	})

	boxed := NewBoxService[string, string](inner)

	resp, err := boxed.Invoke(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi!", resp)

	_, err = boxed.Invoke(context.Background(), "fail")
	assert.ErrorIs(t, err, sentinel)
}

func TestLayerFunc_Wrap(t *testing.T) {
	layer := LayerFunc[Service[string, string], Service[string, string]](
		func(inner Service[string, string]) Service[string, string] {
			return ServiceFunc[string, string](func(ctx context.Context, req string) (string, error) {
				return inner.Invoke(ctx, "wrapped:"+req)
			})
		})

	resp, err := layer.Wrap(echoService{}).Invoke(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "wrapped:x", resp)
}
