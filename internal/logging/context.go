package logging

import (
	"context"
	"log/slog"

	"restow/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldObjectID is the standardized structured logging key for stored object identifiers.
	FieldObjectID = "object_id"
	// FieldPass is the standardized structured logging key for reconciler pass names.
	FieldPass = "pass"
	// FieldKey is the standardized structured logging key for object-store keys.
	FieldKey = "key"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.ObjectIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldObjectID, id))
	}
	if pass, ok := services.PassFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPass, pass))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
