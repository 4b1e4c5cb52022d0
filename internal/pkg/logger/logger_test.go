package logger

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := ctxzap.ToContext(context.Background(), zap.New(core))

	ctx = WithAction(ctx, "query")
	ctx = WithSession(ctx, "s-1")
	ctx = AddFields(ctx, zap.Int("sources", 3))
	ctxzap.Info(ctx, "answered")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "query", fields["action"])
	assert.Equal(t, "s-1", fields["session_id"])
	assert.Equal(t, int64(3), fields["sources"])
}

func TestContextFields_WithoutLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		ctxzap.Info(WithAction(context.Background(), "noop"), "dropped")
	})
}
