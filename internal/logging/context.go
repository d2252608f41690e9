package logging

import (
	"context"
	"log/slog"

	"pipely/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldOperation names the CLI operation that produced a log line.
	FieldOperation = "operation"
	// FieldShow is the show (project) code.
	FieldShow = "show"
	// FieldTarget is the shot or asset identifier.
	FieldTarget = "target"
	// FieldKind is the workfile kind.
	FieldKind = "kind"
	// FieldVersion is the workfile version number.
	FieldVersion = "version"
	// FieldPath is the file or directory a log line is about.
	FieldPath = "path"
	// FieldTemplate is the project template key.
	FieldTemplate = "template"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint tells the reader what to do next.
	FieldErrorHint = "error_hint"
	// FieldImpact describes the user-facing consequence of a warning.
	FieldImpact = "impact"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	if show, ok := services.ShowFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldShow, show))
	}
	if op, ok := services.OperationFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldOperation, op))
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
	return slog.New(logger.Handler().WithAttrs(fields))
}
