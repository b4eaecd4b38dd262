package servicekit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_Empty(t *testing.T) {
	chain := NewChain[string, string]()
	assert.Equal(t, 0, chain.Len())

	svc := chain.Then(echoService{})
	resp, err := svc.Invoke(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x", resp)
}

func TestChain_OrderOutermostFirst(t *testing.T) {
	chain := NewChain(boxPrefix("first-"), boxPrefix("second-"))

	svc := chain.Then(echoService{})
	resp, err := svc.Invoke(context.Background(), "x")
	require.NoError(t, err)

	// The first chained layer wraps outermost, so its prefix lands last.
	assert.Equal(t, "first-second-x", resp)
}

func TestChain_AppendIsImmutable(t *testing.T) {
	base := NewChain(boxPrefix("a-"))
	extended := base.Append(boxPrefix("b-"))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, extended.Len())

	resp, err := base.Then(echoService{}).Invoke(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "a-x", resp)

	resp, err = extended.Then(echoService{}).Invoke(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "a-b-x", resp)
}

func TestChain_MixedLayerKinds(t *testing.T) {
	chain := NewChain(
		NewBoxLayer[Service[string, string], string, string, *noopService](noopLayer{}),
		NewBoxLayer[Service[string, string], string, string, *prefixService](prefixLayer{prefix: "p-"}),
		NewBoxLayer[Service[string, string], string, string, *flakyRetryService](flakyRetryLayer{attempts: 2}),
	)

	resp, err := chain.Then(echoService{}).Invoke(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "p-x", resp)
}
