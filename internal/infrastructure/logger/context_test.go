package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext_FromContext(t *testing.T) {
	logger := zap.NewNop()
	ctx := WithContext(context.Background(), logger)

	assert.Same(t, logger, FromContext(ctx))
}

func TestFromContext_Missing(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	// must be safe to use
	logger.Info("no-op")
}

func TestWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")
	enriched.Info("hello")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-123", logs.All()[0].ContextMap()["request_id"])
}

func TestWithUserID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	ctx, enriched := WithUserID(context.Background(), logger, "user-42")
	enriched.Info("hello")

	assert.Equal(t, "user-42", GetUserID(ctx))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "user-42", logs.All()[0].ContextMap()["user_id"])
}

func TestGetIDs_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetUserID(context.Background()))
}
