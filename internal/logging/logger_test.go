package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pipely/internal/config"
	"pipely/internal/logging"
	"pipely/internal/services"
)

func TestNewFromConfigWritesJSONFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Level = "error"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("workfile created", logging.String(logging.FieldTarget, "DMO_SH010"))
	logger.Debug("not recorded")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one JSON line, got %q", content)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["msg"] != "workfile created" || entry["target"] != "DMO_SH010" || entry["level"] != "info" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message without caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestConsoleLoggerFormatsSubject(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger = logging.NewComponentLogger(logger, "workfile")
	logger.Warn("placeholder workfile created",
		logging.String(logging.FieldShow, "dmo"),
		logging.String(logging.FieldTarget, "DMO_SH010"),
		logging.String(logging.FieldKind, "pureref"),
		logging.String(logging.FieldErrorHint, "open PureRef and Save As"),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, want := range []string{"WARN [workfile] DMO · DMO_SH010 (pureref) - placeholder workfile created", "- Hint: open PureRef and Save As"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in %q", want, text)
		}
	}
	if strings.Contains(text, "Target:") {
		t.Fatalf("subject fields should not repeat as lines: %q", text)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "req-xyz")
	ctx = services.WithShow(ctx, "DMO")

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WithContext(ctx, logger).Info("contextual log")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if entry[logging.FieldCorrelationID] != "req-xyz" {
		t.Fatalf("missing correlation id: %v", entry)
	}
	if entry[logging.FieldShow] != "DMO" {
		t.Fatalf("missing show: %v", entry)
	}
}

func TestWarnWithContextFillsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logging.WarnWithContext(logger, "lock release failed", "lock_release")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{logging.FieldEventType, logging.FieldErrorHint, logging.FieldImpact} {
		if _, ok := entry[key]; !ok {
			t.Fatalf("missing %s in %v", key, entry)
		}
	}
}

func TestFormatSubject(t *testing.T) {
	cases := map[string][3]string{
		"DMO · DMO_SH010 (krita)": {"dmo", "DMO_SH010", "krita"},
		"DMO_SH010":               {"", "DMO_SH010", ""},
		"DMO":                     {"DMO", "", ""},
		"":                        {"", "", ""},
	}
	for want, in := range cases {
		if got := logging.FormatSubject(in[0], in[1], in[2]); got != want {
			t.Fatalf("FormatSubject(%v) = %q, want %q", in, got, want)
		}
	}
}
