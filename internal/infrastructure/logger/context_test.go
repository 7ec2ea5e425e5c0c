package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFromContext(t *testing.T) {
	t.Run("returns attached logger", func(t *testing.T) {
		l := zap.NewExample()
		ctx := WithContext(context.Background(), l)
		assert.Same(t, l, FromContext(ctx))
	})

	t.Run("returns no-op logger when absent", func(t *testing.T) {
		l := FromContext(context.Background())
		assert.NotNil(t, l)
		// must not panic
		l.Info("noop")
	})
}

func TestContextEnrichment(t *testing.T) {
	base := zap.NewExample()
	ctx := context.Background()

	ctx, _ = WithRequestID(ctx, base, "req-1")
	ctx, _ = WithDealershipID(ctx, base, "dlr-1")
	ctx, enriched := WithUserID(ctx, base, "usr-1")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "dlr-1", GetDealershipID(ctx))
	assert.Equal(t, "usr-1", GetUserID(ctx))
	assert.NotNil(t, enriched)
}

func TestGetFromEmptyContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetDealershipID(ctx))
	assert.Empty(t, GetUserID(ctx))
}

func TestWithTraceContextNoSpan(t *testing.T) {
	l := zap.NewExample()
	assert.Same(t, l, WithTraceContext(context.Background(), l))
}
