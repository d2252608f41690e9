package dcc_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pipely/internal/config"
	"pipely/internal/dcc"
)

func writeStub(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

func noPath(string) (string, error) { return "", errors.New("not found") }

type recordingStarter struct {
	binary string
	args   []string
	dir    string
}

func (r *recordingStarter) Start(binary string, args []string, dir string) (int, error) {
	r.binary, r.args, r.dir = binary, args, dir
	return 4242, nil
}

func TestFindPrefersOverride(t *testing.T) {
	stub := filepath.Join(t.TempDir(), "my-blender")
	writeStub(t, stub)

	loc := dcc.New(dcc.WithGOOS("linux"), dcc.WithWSLMount(""), dcc.WithLookPath(noPath), dcc.WithOverride("blender", stub))
	got, err := loc.Find("blender")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != stub {
		t.Fatalf("expected override %s, got %s", stub, got)
	}
}

func TestFindFallsBackToPath(t *testing.T) {
	lookPath := func(name string) (string, error) {
		if name == "krita" {
			return "/opt/bin/krita", nil
		}
		return "", errors.New("not found")
	}
	loc := dcc.New(dcc.WithGOOS("linux"), dcc.WithWSLMount(""), dcc.WithLookPath(lookPath))
	got, err := loc.Find("krita")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != "/opt/bin/krita" {
		t.Fatalf("unexpected path %s", got)
	}
}

func TestFindReportsNotFound(t *testing.T) {
	loc := dcc.New(dcc.WithGOOS("linux"), dcc.WithWSLMount(""), dcc.WithLookPath(noPath))
	if _, err := loc.Find("photoshop"); !errors.Is(err, dcc.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for photoshop on linux, got %v", err)
	}
	if _, err := loc.Find("pureref"); !errors.Is(err, dcc.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCandidatesIncludeWSLTranslations(t *testing.T) {
	mount := filepath.Join(t.TempDir(), "c")
	if err := os.MkdirAll(mount, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	loc := dcc.New(dcc.WithGOOS("linux"), dcc.WithWSLMount(mount), dcc.WithLookPath(noPath))
	if !loc.IsWSL() {
		t.Fatal("expected WSL detection with mount present")
	}
	want := filepath.Join(mount, "Program Files", "Krita (x64)", "bin", "krita.exe")
	found := false
	for _, c := range loc.Candidates("krita") {
		if c == want {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s among candidates %v", want, loc.Candidates("krita"))
	}

	writeStub(t, want)
	got, err := loc.Find("krita")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != want {
		t.Fatalf("expected WSL path %s, got %s", want, got)
	}
}

func TestWindowsPathTranslation(t *testing.T) {
	if got, ok := dcc.WindowsToWSL("/mnt/c", `C:\Program Files\PureRef\PureRef.exe`); !ok || got != "/mnt/c/Program Files/PureRef/PureRef.exe" {
		t.Fatalf("WindowsToWSL = %q, %v", got, ok)
	}
	if got, ok := dcc.WindowsToWSL("/mnt/c", `D:/Art/file.kra`); !ok || got != "/mnt/d/Art/file.kra" {
		t.Fatalf("WindowsToWSL drive D = %q, %v", got, ok)
	}
	if _, ok := dcc.WindowsToWSL("/mnt/c", "krita.exe"); ok {
		t.Fatal("bare names should not translate")
	}
	if got, ok := dcc.WSLToWindows("/mnt/c/Projects/AN_DMO/x.kra"); !ok || got != `C:\Projects\AN_DMO\x.kra` {
		t.Fatalf("WSLToWindows = %q, %v", got, ok)
	}
	if _, ok := dcc.WSLToWindows("/home/artist/x.kra"); ok {
		t.Fatal("linux paths should not translate")
	}
}

func TestLaunchStartsDetachedProcess(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "krita")
	writeStub(t, stub)
	file := filepath.Join(dir, "DMO_SH010_krita_w001.kra")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	starter := &recordingStarter{}
	loc := dcc.New(dcc.WithGOOS("linux"), dcc.WithWSLMount(""), dcc.WithLookPath(noPath),
		dcc.WithOverride("krita", stub), dcc.WithStarter(starter))

	launched, err := loc.Launch(context.Background(), "krita", file, dir)
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if launched.PID != 4242 || starter.binary != stub || starter.dir != dir {
		t.Fatalf("unexpected launch %+v / %+v", launched, starter)
	}
	if len(starter.args) != 1 || starter.args[0] != file {
		t.Fatalf("expected file argument, got %v", starter.args)
	}
}

func TestLaunchRejectsMissingFile(t *testing.T) {
	stub := filepath.Join(t.TempDir(), "blender")
	writeStub(t, stub)
	loc := dcc.New(dcc.WithGOOS("linux"), dcc.WithWSLMount(""), dcc.WithOverride("blender", stub), dcc.WithStarter(&recordingStarter{}))
	if _, err := loc.Launch(context.Background(), "blender", filepath.Join(t.TempDir(), "missing.blend"), ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNewFromConfigAppliesOverrides(t *testing.T) {
	stub := filepath.Join(t.TempDir(), "pureref-bin")
	writeStub(t, stub)
	cfg := config.Default()
	cfg.DCC.PureRef = stub

	loc := dcc.NewFromConfig(&cfg, dcc.WithGOOS("linux"), dcc.WithWSLMount(""), dcc.WithLookPath(noPath))
	reqs := loc.Requirements([]string{"pureref", "photoshop"})
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if reqs[0].Command != stub || reqs[0].Name != "PureRef" || !reqs[0].Optional {
		t.Fatalf("unexpected pureref requirement %+v", reqs[0])
	}
	if reqs[1].Command != "" {
		t.Fatalf("photoshop has no linux candidates, got %q", reqs[1].Command)
	}
}
