package ctxstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", TraceID(ctx))

	ctx = WithTraceID(ctx, "abc")
	assert.Equal(t, "abc", TraceID(ctx))
	assert.Equal(t, "abc", MustFrom[string](ctx, TraceIDKey))
}

func TestMustFromPanics(t *testing.T) {
	assert.PanicsWithValue(t, "ctxstore: missing not found", func() {
		MustFrom[int](context.Background(), Key("missing"))
	})
}
