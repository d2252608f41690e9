package logging

import (
	"context"
	"log/slog"
	"slices"
	"time"
)

// Attribute constructors keep call sites free of a direct slog import.

func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) slog.Attr { return slog.Duration(key, value) }

func Int(key string, value int) slog.Attr { return slog.Int(key, value) }

func String(key string, value string) slog.Attr { return slog.String(key, value) }

// Error records err under "error"; a nil error is written as "<nil>".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(NoopHandler{})
}

// NewComponentLogger tags logger with a component name. A nil logger yields
// a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact, so the console can tell the artist what to do next.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	defaults := []slog.Attr{
		String(FieldEventType, eventType),
		String(FieldErrorHint, "check logs for details"),
		String(FieldImpact, "operation completed with warnings"),
	}
	args := make([]any, 0, len(attrs)+len(defaults))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	for _, def := range defaults {
		if !slices.ContainsFunc(attrs, func(a slog.Attr) bool { return a.Key == def.Key }) {
			args = append(args, def)
		}
	}
	logger.Warn(msg, args...)
}

// NoopHandler discards all records.
type NoopHandler struct{}

func (NoopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (NoopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h NoopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h NoopHandler) WithGroup(string) slog.Handler { return h }
