package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func writeTemp(t *testing.T, dir, content string) string {
	t.Helper()
	tmp, err := CreateTemp(dir, "file")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmp.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatal(err)
	}
	return tmp.Name()
}

func assertOnlyFile(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != name {
		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		t.Fatalf("expected only %s in %s, got %v", name, dir, names)
	}
}

func TestPlaceMovesTempIntoPlace(t *testing.T) {
	dir := t.TempDir()
	tmp := writeTemp(t, dir, "hello")
	dst := filepath.Join(dir, "out.txt")

	if err := Place(tmp, dst); err != nil {
		t.Fatalf("Place: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Fatalf("content mismatch: got %q", got)
	}
	assertOnlyFile(t, dir, "out.txt")
}

func TestPlaceRefusesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(dst, []byte("original"), 0o644); err != nil {
		t.Fatal(err)
	}
	tmp := writeTemp(t, dir, "replacement")

	err := Place(tmp, dst)
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "original" {
		t.Fatalf("destination overwritten: %q", got)
	}
	assertOnlyFile(t, dir, "out.txt")
}

func TestPlaceFallsBackToRename(t *testing.T) {
	original := linkFunc
	linkFunc = func(string, string) error {
		return &os.LinkError{Op: "link", Err: syscall.EPERM}
	}
	t.Cleanup(func() { linkFunc = original })

	dir := t.TempDir()
	dst := filepath.Join(dir, "out.txt")
	tmp := writeTemp(t, dir, "fallback")
	if err := Place(tmp, dst); err != nil {
		t.Fatalf("Place: %v", err)
	}
	assertOnlyFile(t, dir, "out.txt")

	tmp = writeTemp(t, dir, "again")
	if err := Place(tmp, dst); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists from fallback, got %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "fallback" {
		t.Fatalf("destination overwritten: %q", got)
	}
}

func TestWriteFileKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipely.yaml")
	if err := WriteFile(path, []byte("a: 1\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(path, []byte("a: 2\n"), 0o644); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "a: 1\n" {
		t.Fatalf("unexpected content %q", got)
	}
	assertOnlyFile(t, dir, "pipely.yaml")
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	ok, err := Exists(filepath.Join(dir, "missing"))
	if err != nil || ok {
		t.Fatalf("missing file: ok=%v err=%v", ok, err)
	}
	ok, err = Exists(dir)
	if err != nil || !ok {
		t.Fatalf("existing dir: ok=%v err=%v", ok, err)
	}
}
