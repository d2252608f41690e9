package logs

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"pipely/internal/logging"
)

// Entry is one decoded line of the JSON log.
type Entry struct {
	Time      time.Time
	Level     string
	Message   string
	Component string
	RequestID string
	Operation string
	// Fields holds every other attribute, keyed by name.
	Fields map[string]any
}

var reservedKeys = map[string]bool{
	"ts":                       true,
	"level":                    true,
	"msg":                      true,
	"source":                   true,
	logging.FieldComponent:     true,
	logging.FieldCorrelationID: true,
	logging.FieldOperation:     true,
}

// ParseEntry decodes a JSON log line. Lines that are not JSON objects are
// reported with ok false.
func ParseEntry(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	entry := Entry{
		Level:     stringField(raw, "level"),
		Message:   stringField(raw, "msg"),
		Component: stringField(raw, logging.FieldComponent),
		RequestID: stringField(raw, logging.FieldCorrelationID),
		Operation: stringField(raw, logging.FieldOperation),
		Fields:    make(map[string]any),
	}
	if ts := stringField(raw, "ts"); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			entry.Time = parsed
		}
	}
	for key, value := range raw {
		if !reservedKeys[key] {
			entry.Fields[key] = value
		}
	}
	return entry, true
}

func stringField(raw map[string]any, key string) string {
	if value, ok := raw[key].(string); ok {
		return value
	}
	return ""
}

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// Filter selects entries. Zero fields match everything.
type Filter struct {
	RequestID string
	Component string
	MinLevel  string
}

// Match reports whether entry passes every configured condition.
func (f Filter) Match(entry Entry) bool {
	if f.RequestID != "" && !strings.HasPrefix(entry.RequestID, f.RequestID) {
		return false
	}
	if f.Component != "" && !strings.EqualFold(entry.Component, f.Component) {
		return false
	}
	if f.MinLevel != "" {
		want, ok := levelRank[strings.ToLower(f.MinLevel)]
		if ok && levelRank[strings.ToLower(entry.Level)] < want {
			return false
		}
	}
	return true
}

// Format renders entry on one line: local time, level, message and the
// remaining fields sorted by key.
func Format(entry Entry) string {
	var b strings.Builder
	if !entry.Time.IsZero() {
		b.WriteString(entry.Time.Local().Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s", strings.ToUpper(entry.Level))
	if entry.Component != "" {
		fmt.Fprintf(&b, " [%s]", entry.Component)
	}
	b.WriteByte(' ')
	b.WriteString(entry.Message)
	for _, key := range slices.Sorted(maps.Keys(entry.Fields)) {
		fmt.Fprintf(&b, " %s=%v", key, entry.Fields[key])
	}
	return b.String()
}
