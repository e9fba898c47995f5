// Package ctxstore carries request-scoped values, such as the trace id,
// through a context.
package ctxstore

import "context"

type Key string

func (k Key) String() string {
	return string(k)
}

const TraceIDKey = Key("traceId")

func With[T any](ctx context.Context, key Key, value T) context.Context {
	return context.WithValue(ctx, key, value)
}

func From[T any](ctx context.Context, key Key) (T, bool) {
	value, ok := ctx.Value(key).(T)
	return value, ok
}

func MustFrom[T any](ctx context.Context, key Key) T {
	value, ok := From[T](ctx, key)
	if !ok {
		panic("ctxstore: " + key.String() + " not found")
	}
	return value
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return With(ctx, TraceIDKey, traceID)
}

// TraceID returns the request trace id, or "" outside a traced request.
func TraceID(ctx context.Context) string {
	tid, _ := From[string](ctx, TraceIDKey)
	return tid
}
