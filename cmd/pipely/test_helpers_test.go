package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pipely/internal/config"
	"pipely/internal/dcc"
	"pipely/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv("PIPELY_ROOT", "")
	t.Setenv("PIPELY_DB", "")
	t.Setenv("PIPELY_REQUEST_ID", "")
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "pipely", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nprojects_root = %q\nstate_dir = %q\nlog_dir = %q\n\n[workfiles]\ndefault_template = %q\nallow_placeholders = %t\nlock = true\n",
		cfg.Paths.ProjectsRoot,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Workfiles.DefaultTemplate,
		cfg.Workfiles.AllowPlaceholders,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// createProject scaffolds the DMO animation project and returns its root.
func createProject(t *testing.T, env *cliTestEnv) string {
	t.Helper()
	if _, _, err := runCLI(t, []string{"project", "create", "--code", "dmo", "--name", "Poku Short 30s"}, env.configPath); err != nil {
		t.Fatalf("project create: %v", err)
	}
	return filepath.Join(env.cfg.Paths.ProjectsRoot, "AN_DMO_PokuShort30s")
}

type recordingStarter struct {
	binary string
	args   []string
	dir    string
	calls  int
}

func (r *recordingStarter) Start(binary string, args []string, dir string) (int, error) {
	r.binary, r.args, r.dir = binary, args, dir
	r.calls++
	return 4242, nil
}

// stubLocator makes every kind resolve to a stub executable and records
// launches instead of starting processes.
func stubLocator(t *testing.T) *recordingStarter {
	t.Helper()
	stub := filepath.Join(t.TempDir(), "editor")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	starter := &recordingStarter{}
	previous := newLocator
	newLocator = func(cfg *config.Config) *dcc.Locator {
		opts := []dcc.Option{dcc.WithGOOS("linux"), dcc.WithWSLMount(""), dcc.WithStarter(starter)}
		for _, kind := range dcc.Kinds() {
			opts = append(opts, dcc.WithOverride(kind, stub))
		}
		return dcc.NewFromConfig(cfg, opts...)
	}
	t.Cleanup(func() { newLocator = previous })
	return starter
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
