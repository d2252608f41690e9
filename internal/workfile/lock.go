package workfile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"pipely/internal/logging"
	"pipely/internal/textutil"
)

const (
	lockRetryDelay = 50 * time.Millisecond
	lockWait       = 10 * time.Second
)

// lock serializes allocation in dir across processes on this machine. It is
// a no-op without a lock directory; the no-overwrite placement stays the
// correctness guarantee either way.
func (v *Versioner) lock(ctx context.Context, dir string) (func(), error) {
	if v.lockDir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(v.lockDir, 0o755); err != nil {
		return nil, permissionError(fmt.Errorf("create lock dir: %w", err))
	}
	path := filepath.Join(v.lockDir, LockFileName(dir))
	fl := flock.New(path)

	waitCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()
	ok, err := fl.TryLockContext(waitCtx, lockRetryDelay)
	if err != nil {
		return nil, permissionError(fmt.Errorf("acquire workfile lock %s: %w", path, err))
	}
	if !ok {
		return nil, fmt.Errorf("acquire workfile lock %s: held by another process", path)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			v.logger.Warn("failed to release workfile lock", logging.String(logging.FieldPath, path), logging.Error(err))
		}
	}, nil
}

// LockFileName derives a stable lock filename for a target directory.
func LockFileName(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	sum := sha256.Sum256([]byte(abs))
	return textutil.SanitizeToken(filepath.Base(abs)) + "-" + hex.EncodeToString(sum[:6]) + ".lock"
}
