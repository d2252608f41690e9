package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"pipely/internal/config"
	"pipely/internal/dcc"
	"pipely/internal/deps"
	"pipely/internal/registry"
	"pipely/internal/workfile"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckRegistry opens the registry database, creating it when missing, and
// verifies its schema version.
func CheckRegistry(ctx context.Context, path string) Result {
	const name = "Registry"
	if err := ctx.Err(); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	store, err := registry.OpenPath(path)
	if err != nil {
		if errors.Is(err, registry.ErrSchemaMismatch) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: open: %v)", path, err)}
	}
	defer store.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (schema ok)", path)}
}

// CheckApplications reports which authoring applications are installed for
// every workfile kind.
func CheckApplications(cfg *config.Config, opts ...dcc.Option) []deps.Status {
	return deps.CheckBinaries(dcc.NewFromConfig(cfg, opts...).Requirements(workfile.KindNames()))
}
