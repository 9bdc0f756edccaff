package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	ctxWithLogger := WithContext(ctx, logger)

	retrievedLogger := FromContext(ctxWithLogger)
	assert.NotNil(t, retrievedLogger)
}

func TestFromContext_NotFound(t *testing.T) {
	ctx := context.Background()
	logger := FromContext(ctx)

	// Should return a no-op logger
	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := context.Background()
	requestID := "req-123"

	newCtx, newLogger := WithRequestID(ctx, logger, requestID)

	assert.NotNil(t, newCtx)
	assert.NotNil(t, newLogger)
	assert.Equal(t, requestID, GetRequestID(newCtx))
}

func TestGetRequestID_NotFound(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
}

func TestContextKeysAreDistinct(t *testing.T) {
	assert.NotEqual(t, LoggerKey, RequestIDKey)
}

func TestContextLogger_InjectsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	ctx := WithContext(context.Background(), base)
	ctx = context.WithValue(ctx, RequestIDKey, "req-456")

	L(ctx).Info("processing", zap.String("step", "fetch"))

	entries := logs.All()
	require.Len(t, entries, 1)

	fields := map[string]string{}
	for _, f := range entries[0].Context {
		fields[f.Key] = f.String
	}
	assert.Equal(t, "req-456", fields["request_id"])
	assert.Equal(t, "fetch", fields["step"])
}

func TestContextLogger_NoLoggerInContext(t *testing.T) {
	// Must not panic when the context carries no logger
	assert.NotPanics(t, func() {
		L(context.Background()).Info("no-op message")
	})
}

func TestContextLogger_WithLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	WithLogger(context.Background(), base).Warn("explicit logger")

	require.Len(t, logs.All(), 1)
	assert.Equal(t, "explicit logger", logs.All()[0].Message)
}

func TestContextLogger_With(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	cl := WithLogger(context.Background(), base).With(zap.String("component", "sync"))
	cl.Info("child logger")

	entries := logs.All()
	require.Len(t, entries, 1)

	found := false
	for _, f := range entries[0].Context {
		if f.Key == "component" && f.String == "sync" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestContextLogger_Zap(t *testing.T) {
	core, _ := observer.New(zap.InfoLevel)
	base := zap.New(core)

	zl := WithLogger(context.Background(), base).Zap()
	assert.NotNil(t, zl)
}
