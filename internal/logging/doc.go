// Package logging assembles structured slog loggers and formatting helpers
// used across pipely.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so workflow code tags log lines
// with the show, target, and correlation ID of the command that produced them.
// Console output goes to stderr so command output on stdout stays scriptable;
// an optional JSON log file keeps a fuller record for support.
package logging
