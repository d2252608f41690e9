package synth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// DefaultBlenderTimeout bounds a headless save when the config sets none.
const DefaultBlenderTimeout = 2 * time.Minute

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// BlenderOption configures a Blender synthesizer.
type BlenderOption func(*Blender)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) BlenderOption {
	return func(b *Blender) {
		if exec != nil {
			b.exec = exec
		}
	}
}

// Blender saves an empty scene through a headless Blender process.
type Blender struct {
	binary  string
	timeout time.Duration
	exec    Executor
}

// NewBlender constructs a Blender synthesizer. An empty binary resolves
// "blender" from PATH at run time.
func NewBlender(binary string, timeout time.Duration, opts ...BlenderOption) *Blender {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "blender"
	}
	if timeout <= 0 {
		timeout = DefaultBlenderTimeout
	}
	b := &Blender{binary: binary, timeout: timeout, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Binary reports the executable the synthesizer runs.
func (b *Blender) Binary() string { return b.binary }

// Synthesize runs Blender with a factory-default empty scene and saves it to
// path. The run fails unless Blender exits cleanly and path is non-empty.
// Blender's save-version backup of path (path + "1") is never left behind.
func (b *Blender) Synthesize(ctx context.Context, _ Request, path string) error {
	runCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	defer func() { _ = os.Remove(path + "1") }()

	args := []string{"--background", "--factory-startup", "--python-expr", blenderSaveScript(path)}
	output, err := b.exec.Run(runCtx, b.binary, args)
	if err != nil {
		if tail := lastLines(output, 5); tail != "" {
			return fmt.Errorf("blender headless save: %w: %s", err, tail)
		}
		return fmt.Errorf("blender headless save: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("blender headless save: %w", err)
	}
	if info.Size() == 0 {
		return errors.New("blender headless save: output file is empty")
	}
	return nil
}

func blenderSaveScript(path string) string {
	return "import bpy\n" +
		"bpy.ops.wm.read_factory_settings(use_empty=True)\n" +
		"bpy.context.preferences.filepaths.save_version = 0\n" +
		"bpy.ops.wm.save_as_mainfile(filepath=" + strconv.Quote(path) + ", check_existing=False)\n"
}

func lastLines(output []byte, n int) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, " | "))
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return output.Bytes(), fmt.Errorf("%w: %w", ctxErr, err)
		}
		return output.Bytes(), err
	}
	return output.Bytes(), nil
}
