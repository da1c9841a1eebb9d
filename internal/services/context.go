package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	objectIDKey  contextKey = "object_id"
	passKey      contextKey = "pass"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(requestIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithObjectID annotates context with the stored object identifier being processed.
func WithObjectID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, objectIDKey, id)
}

// ObjectIDFromContext extracts the stored object identifier if present.
func ObjectIDFromContext(ctx context.Context) (int64, bool) {
	switch val := ctx.Value(objectIDKey).(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithPass annotates context with the reconciler pass name.
func WithPass(ctx context.Context, pass string) context.Context {
	if pass == "" {
		return ctx
	}
	return context.WithValue(ctx, passKey, pass)
}

// PassFromContext returns the reconciler pass name if present.
func PassFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(passKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}
