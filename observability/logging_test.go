package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Defaults(t *testing.T) {
	logger, err := NewLogger(DefaultLogConfig())
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("hello", String("k", "v"))
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger(LogConfig{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "debug", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	logger.Debug("console output")
}

func TestLogger_WithContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := NewZapLogger(zap.New(core))

	ctx := ContextWithRequestID(context.Background(), "req-123")
	logger.WithContext(ctx).Info("traced")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-123", entries[0].ContextMap()["request_id"])
}

func TestLogger_WithContextNoRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := NewZapLogger(zap.New(core))

	logger.WithContext(context.Background()).Info("untraced")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].ContextMap(), "request_id")
}

func TestGlobalLogger(t *testing.T) {
	orig := GlobalLogger()
	defer SetGlobalLogger(orig)

	logger := NopLogger()
	SetGlobalLogger(logger)
	assert.Equal(t, logger, GlobalLogger())
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "abc")
	assert.Equal(t, "abc", RequestIDFromContext(ctx))
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), TracerConfig{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
