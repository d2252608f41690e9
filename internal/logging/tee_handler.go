package logging

import (
	"context"
	"errors"
	"log/slog"
)

// teeHandler sends every record to the console sink and the log file sink,
// each filtered by its own level.
type teeHandler struct {
	console slog.Handler
	file    slog.Handler
}

// newTeeHandler pairs the console and file sinks. When only one sink is set
// it is returned as is.
func newTeeHandler(console, file slog.Handler) slog.Handler {
	switch {
	case console == nil && file == nil:
		return NoopHandler{}
	case file == nil:
		return console
	case console == nil:
		return file
	}
	return &teeHandler{console: console, file: file}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, record slog.Record) error {
	var consoleErr, fileErr error
	if h.console.Enabled(ctx, record.Level) {
		consoleErr = h.console.Handle(ctx, record.Clone())
	}
	if h.file.Enabled(ctx, record.Level) {
		fileErr = h.file.Handle(ctx, record)
	}
	return errors.Join(consoleErr, fileErr)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{console: h.console.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{console: h.console.WithGroup(name), file: h.file.WithGroup(name)}
}
