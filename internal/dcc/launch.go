package dcc

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Starter starts a process without waiting for it.
type Starter interface {
	Start(binary string, args []string, dir string) (int, error)
}

// Launched describes a started application.
type Launched struct {
	Binary string
	Args   []string
	Dir    string
	PID    int
}

// Launch opens file in the application registered for kind. The process is
// detached so it outlives the CLI; ctx only bounds the lookup.
func (l *Locator) Launch(ctx context.Context, kind, file, workdir string) (Launched, error) {
	if err := ctx.Err(); err != nil {
		return Launched{}, err
	}
	binary, err := l.Find(kind)
	if err != nil {
		return Launched{}, err
	}
	var args []string
	if strings.TrimSpace(file) != "" {
		abs, err := filepath.Abs(file)
		if err != nil {
			return Launched{}, fmt.Errorf("resolve %s: %w", file, err)
		}
		if _, err := os.Stat(abs); err != nil {
			return Launched{}, fmt.Errorf("open %s: %w", file, err)
		}
		args = append(args, l.fileArg(binary, abs))
	}
	// Windows programs started from WSL cannot use a Linux cwd.
	dir := workdir
	if l.crossesToWindows(binary) {
		dir = ""
	}
	pid, err := l.starter.Start(binary, args, dir)
	if err != nil {
		return Launched{}, fmt.Errorf("launch %s: %w", displayName(kind), err)
	}
	return Launched{Binary: binary, Args: args, Dir: dir, PID: pid}, nil
}

func (l *Locator) crossesToWindows(binary string) bool {
	if !l.IsWSL() {
		return false
	}
	mountParent := filepath.Dir(strings.TrimRight(l.wslMount, "/"))
	return strings.HasPrefix(binary, mountParent+"/")
}

func (l *Locator) fileArg(binary, path string) string {
	if !l.crossesToWindows(binary) {
		return path
	}
	if translated, ok := WSLToWindows(path); ok {
		return translated
	}
	return path
}

type detachedStarter struct{}

func (detachedStarter) Start(binary string, args []string, dir string) (int, error) {
	cmd := exec.Command(binary, args...) //nolint:gosec
	cmd.Dir = dir
	cmd.SysProcAttr = detachAttr()
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, err
	}
	return pid, nil
}
