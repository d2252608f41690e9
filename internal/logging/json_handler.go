package logging

import (
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// jsonTimeKey matches the key the logs command reads back.
const jsonTimeKey = "ts"

// newJSONLineHandler writes one JSON object per record. Timestamps are UTC
// RFC 3339 so pipely logs sort the same on every workstation.
func newJSONLineHandler(w io.Writer, level slog.Leveler, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		AddSource:   addSource,
		ReplaceAttr: rewriteJSONAttr,
	})
}

func rewriteJSONAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}
	switch attr.Key {
	case slog.TimeKey:
		if attr.Value.Kind() != slog.KindTime {
			return slog.Attr{Key: jsonTimeKey, Value: attr.Value}
		}
		return slog.String(jsonTimeKey, attr.Value.Time().UTC().Format(time.RFC3339))
	case slog.LevelKey:
		if level, ok := attr.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, strings.ToLower(level.String()))
		}
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			return slog.String(slog.SourceKey, filepath.Base(src.File)+":"+strconv.Itoa(src.Line))
		}
	}
	return attr
}
