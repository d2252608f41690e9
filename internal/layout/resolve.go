package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Resolve returns the directory holding target's workfiles under root and
// creates any missing directories. Calling it repeatedly with the same
// arguments returns the same path.
func Resolve(root, templateKey string, kind TargetKind, target string) (string, error) {
	tmpl, err := Lookup(templateKey)
	if err != nil {
		return "", err
	}
	if kind != TargetShot && kind != TargetAsset {
		return "", fmt.Errorf("%w %q (want shot or asset)", ErrInvalidTargetKind, kind)
	}
	if err := ValidateTarget(target); err != nil {
		return "", err
	}
	absRoot, err := CheckRoot(root)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(absRoot, filepath.FromSlash(tmpl.Subtree(kind)), target)
	if err := EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// WorkRoot returns the absolute workfile root of a project without creating it.
func WorkRoot(root, templateKey string) (string, error) {
	tmpl, err := Lookup(templateKey)
	if err != nil {
		return "", err
	}
	absRoot, err := CheckRoot(root)
	if err != nil {
		return "", err
	}
	return filepath.Join(absRoot, tmpl.WorkRoot), nil
}

// CheckRoot verifies that root exists and is a directory, returning its
// absolute form.
func CheckRoot(root string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("%w: project root is empty", ErrInvalidRoot)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %q: %w", ErrInvalidRoot, root, err)
	}
	info, err := os.Stat(absRoot)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %s does not exist", ErrInvalidRoot, absRoot)
	case errors.Is(err, fs.ErrPermission):
		return "", fmt.Errorf("%w: stat %s: %w", ErrPermissionDenied, absRoot, err)
	case err != nil:
		return "", fmt.Errorf("%w: stat %s: %w", ErrInvalidRoot, absRoot, err)
	case !info.IsDir():
		return "", fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, absRoot)
	}
	return absRoot, nil
}

// EnsureDir creates dir and any missing parents. Permission failures wrap
// ErrPermissionDenied; anything else is returned with the path attached.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return mkdirError(dir, err)
	}
	return nil
}

func mkdirError(dir string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: create %s: %w", ErrPermissionDenied, dir, err)
	}
	return fmt.Errorf("create %s: %w", dir, err)
}
