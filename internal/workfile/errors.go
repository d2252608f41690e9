package workfile

import (
	"errors"
	"fmt"
	"io/fs"

	"pipely/internal/layout"
)

var (
	// ErrCollision reports that the allocated filename already exists,
	// usually because another process created it first.
	ErrCollision = errors.New("workfile already exists")
	// ErrSynthesis reports that the initial file content could not be produced.
	ErrSynthesis = errors.New("workfile synthesis failed")
	// ErrUnsupported reports a kind that cannot be created in this environment.
	ErrUnsupported = errors.New("workfile kind unsupported")
	// ErrUnknownKind reports a kind name outside the registry.
	ErrUnknownKind = errors.New("unknown workfile kind")
)

// permissionError tags filesystem permission failures with
// layout.ErrPermissionDenied so callers can report them as such.
func permissionError(err error) error {
	if err == nil || !errors.Is(err, fs.ErrPermission) || errors.Is(err, layout.ErrPermissionDenied) {
		return err
	}
	return fmt.Errorf("%w: %w", layout.ErrPermissionDenied, err)
}
