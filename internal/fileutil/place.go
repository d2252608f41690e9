// Package fileutil places files on disk without ever replacing an existing
// file at the destination.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrExists reports that the destination was already present.
var ErrExists = errors.New("destination already exists")

// linkFunc is swapped in tests to exercise the rename fallback.
var linkFunc = os.Link

// CreateTemp opens a hidden temporary file in dir whose name keeps the
// extension of name. The caller writes it, closes it, and hands its path to
// Place.
func CreateTemp(dir, name string) (*os.File, error) {
	return os.CreateTemp(dir, ".pipely-*-"+name)
}

// Place moves the completed temporary file tmp to dst. It fails with ErrExists
// when dst is present and never overwrites it. The temporary file is removed in
// every case.
func Place(tmp, dst string) error {
	defer func() { _ = os.Remove(tmp) }()

	err := linkFunc(tmp, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrExists, dst)
	}
	if !linkUnsupported(err) {
		return fmt.Errorf("place %s: %w", dst, err)
	}

	// Filesystems without hard links (FAT, some network shares) fall back to
	// check-then-rename. The window between the two is tolerated.
	if _, statErr := os.Lstat(dst); statErr == nil {
		return fmt.Errorf("%w: %s", ErrExists, dst)
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", dst, statErr)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("rename into %s: %w", dst, err)
	}
	return nil
}

// WriteFile writes data to path through a temporary file and Place, so
// readers never observe a partial file and existing files are kept.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := CreateTemp(dir, filepath.Base(path))
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return Place(tmpName, path)
}

// Exists reports whether path is present. Errors other than not-exist are
// returned as-is.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
