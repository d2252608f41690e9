package main

import (
	"strings"
	"testing"
)

func TestLogsCommandShowsWorkfileEvents(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"logs"}, env.configPath)
	if err != nil {
		t.Fatalf("logs on empty file: %v", err)
	}
	requireContains(t, out, "No log entries")

	root := createProject(t, env)
	t.Setenv("PIPELY_REQUEST_ID", "req-add-1")
	if _, _, err := runCLI(t, []string{"workfile", "add", "DMO_SH010", "--kind", "markdown", "--project", root}, env.configPath); err != nil {
		t.Fatalf("workfile add: %v", err)
	}
	t.Setenv("PIPELY_REQUEST_ID", "")

	out, _, err = runCLI(t, []string{"logs", "--request", "req-add-1"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "workfile added")
	requireContains(t, out, "DMO_SH010_markdown_w001.md")
	if strings.Contains(out, "project scaffolded") {
		t.Fatalf("request filter leaked other invocations:\n%s", out)
	}

	out, _, err = runCLI(t, []string{"logs", "--raw", "--level", "error"}, env.configPath)
	if err != nil {
		t.Fatalf("logs --level error: %v", err)
	}
	if strings.Contains(out, "workfile added") {
		t.Fatalf("level filter kept info entries:\n%s", out)
	}
}
