package workfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pipely/internal/workfile"
)

func mustKind(t *testing.T, name string) workfile.Kind {
	t.Helper()
	kind, err := workfile.LookupKind(name)
	if err != nil {
		t.Fatalf("LookupKind(%q): %v", name, err)
	}
	return kind
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("existing"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestParseVersion(t *testing.T) {
	blender := mustKind(t, "blender")
	cases := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"DMO_SH010_blender_w001.blend", 1, true},
		{"DMO_SH010_blender_w042.blend", 42, true},
		{"DMO_SH010_blender_w1000.blend", 1000, true},
		{"DMO_SH010_blender_w7.blend", 7, true},
		{"DMO_SH010_blender_001.blend", 0, false},
		{"DMO_SH010_blender_w.blend", 0, false},
		{"DMO_SH010_blender_w01a.blend", 0, false},
		{"DMO_SH010_blender_w-01.blend", 0, false},
		{"DMO_SH010_blender_w001_final.blend", 0, false},
		{"DMO_SH010_blender_w001.blend1", 0, false},
		{"DMO_SH010_blender_w001.kra", 0, false},
		{"DMO_SH020_blender_w001.blend", 0, false},
		{"DMO_SH010_krita_w001.blend", 0, false},
		{"XDMO_SH010_blender_w001.blend", 0, false},
		{".pipely-123-DMO_SH010_blender_w001.blend", 0, false},
		{"DMO_SH010_blender_w999999999.blend", workfile.MaxVersion, true},
		{"DMO_SH010_blender_w0999999999.blend", 0, false},
		{"DMO_SH010_blender_w1000000000.blend", 0, false},
		{"DMO_SH010_blender_w9223372036854775807.blend", 0, false},
		{"DMO_SH010_blender_w99999999999999999999999.blend", 0, false},
	}
	for _, tc := range cases {
		got, ok := workfile.ParseVersion(tc.name, "DMO_SH010", blender)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("ParseVersion(%q) = %d,%v want %d,%v", tc.name, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestFormatName(t *testing.T) {
	krita := mustKind(t, "krita")
	if got := workfile.FormatName("DMO_CH_Hero", krita, 3); got != "DMO_CH_Hero_krita_w003.kra" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := workfile.FormatName("DMO_CH_Hero", krita, 1000); got != "DMO_CH_Hero_krita_w1000.kra" {
		t.Fatalf("unexpected name %q", got)
	}
	for _, version := range []int{1, 99, 999, 1000, 12345} {
		name := workfile.FormatName("T", krita, version)
		if got, ok := workfile.ParseVersion(name, "T", krita); !ok || got != version {
			t.Fatalf("round trip of %d via %q gave %d,%v", version, name, got, ok)
		}
	}
}

func TestNextVersionEmptyAndMissingDir(t *testing.T) {
	dir := t.TempDir()
	md := mustKind(t, "markdown")
	if v, err := workfile.NextVersion(dir, "DMO_SH010", md); err != nil || v != 1 {
		t.Fatalf("empty dir: %d %v", v, err)
	}
	if v, err := workfile.NextVersion(filepath.Join(dir, "missing"), "DMO_SH010", md); err != nil || v != 1 {
		t.Fatalf("missing dir: %d %v", v, err)
	}
}

func TestNextVersionAfterExisting(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "DMO_SH010_blender_w001.blend", "DMO_SH010_blender_w002.blend")
	if v, err := workfile.NextVersion(dir, "DMO_SH010", mustKind(t, "blender")); err != nil || v != 3 {
		t.Fatalf("expected 3, got %d %v", v, err)
	}
}

func TestNextVersionToleratesGaps(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "DMO_SH010_blender_w002.blend")
	if v, err := workfile.NextVersion(dir, "DMO_SH010", mustKind(t, "blender")); err != nil || v != 3 {
		t.Fatalf("expected 3, got %d %v", v, err)
	}
	touch(t, dir, "DMO_SH010_blender_w001.blend", "DMO_SH010_blender_w003.blend")
	if err := os.Remove(filepath.Join(dir, "DMO_SH010_blender_w002.blend")); err != nil {
		t.Fatal(err)
	}
	if v, err := workfile.NextVersion(dir, "DMO_SH010", mustKind(t, "blender")); err != nil || v != 4 {
		t.Fatalf("expected 4, got %d %v", v, err)
	}
}

func TestNextVersionIsolatesKindsAndTargets(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"DMO_SH010_krita_w001.kra",
		"DMO_SH010_blender_w001.blend",
		"DMO_SH010_blender_w005.blend",
		"DMO_SH020_krita_w009.kra",
	)
	if v, err := workfile.NextVersion(dir, "DMO_SH010", mustKind(t, "krita")); err != nil || v != 2 {
		t.Fatalf("expected krita next 2, got %d %v", v, err)
	}
	if v, err := workfile.NextVersion(dir, "DMO_SH010", mustKind(t, "blender")); err != nil || v != 6 {
		t.Fatalf("expected blender next 6, got %d %v", v, err)
	}
	if v, err := workfile.NextVersion(dir, "DMO_SH020", mustKind(t, "blender")); err != nil || v != 1 {
		t.Fatalf("expected other target next 1, got %d %v", v, err)
	}
}

func TestNextVersionIgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "DMO_SH010_markdown_w050.md"), 0o755); err != nil {
		t.Fatal(err)
	}
	if v, err := workfile.NextVersion(dir, "DMO_SH010", mustKind(t, "markdown")); err != nil || v != 1 {
		t.Fatalf("expected 1, got %d %v", v, err)
	}
}

func TestLookupKind(t *testing.T) {
	if kind, err := workfile.LookupKind(" Krita "); err != nil || kind.Extension != "kra" {
		t.Fatalf("unexpected lookup: %+v %v", kind, err)
	}
	if _, err := workfile.LookupKind("maya"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if kind, ok := workfile.KindForExtension(".PSD"); !ok || kind.Name != "photoshop" {
		t.Fatalf("unexpected extension lookup: %+v %v", kind, ok)
	}
	placeholders := 0
	for _, kind := range workfile.Kinds() {
		if kind.Placeholder {
			placeholders++
		}
	}
	if placeholders != 2 {
		t.Fatalf("expected two placeholder kinds, got %d", placeholders)
	}
}

func TestNextVersionStopsAtLimit(t *testing.T) {
	dir := t.TempDir()
	blender := mustKind(t, "blender")
	touch(t, dir, "DMO_SH010_blender_w999999998.blend")
	if got, err := workfile.NextVersion(dir, "DMO_SH010", blender); err != nil || got != workfile.MaxVersion {
		t.Fatalf("NextVersion = %d,%v want %d", got, err, workfile.MaxVersion)
	}

	touch(t, dir, "DMO_SH010_blender_w999999999.blend")
	if _, err := workfile.NextVersion(dir, "DMO_SH010", blender); !errors.Is(err, workfile.ErrVersionLimit) {
		t.Fatalf("expected ErrVersionLimit, got %v", err)
	}
}

func TestNextVersionIgnoresOverflowingNames(t *testing.T) {
	dir := t.TempDir()
	blender := mustKind(t, "blender")
	touch(t, dir, "DMO_SH010_blender_w003.blend", "DMO_SH010_blender_w9223372036854775807.blend")
	got, err := workfile.NextVersion(dir, "DMO_SH010", blender)
	if err != nil || got != 4 {
		t.Fatalf("NextVersion = %d,%v want 4", got, err)
	}
}
