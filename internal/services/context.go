package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	showKey      contextKey = "show"
	operationKey contextKey = "operation"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithShow annotates context with the show code being worked on.
func WithShow(ctx context.Context, code string) context.Context {
	if code == "" {
		return ctx
	}
	return context.WithValue(ctx, showKey, code)
}

// ShowFromContext returns the show code if present.
func ShowFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(showKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithOperation annotates context with the user-facing operation name
// (e.g. "workfile add").
func WithOperation(ctx context.Context, op string) context.Context {
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, op)
}

// OperationFromContext returns the operation name if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(operationKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
