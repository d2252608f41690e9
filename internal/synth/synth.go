package synth

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultWidth and DefaultHeight size raster canvases when the config does
// not override them.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
)

// Request carries the facts a synthesizer may embed in the new file.
type Request struct {
	Target   string
	Kind     string
	FileName string
	Width    int
	Height   int
	Now      time.Time
}

func (r Request) canvas() (int, int) {
	w, h := r.Width, r.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

func (r Request) timestamp() time.Time {
	if r.Now.IsZero() {
		return time.Now().UTC()
	}
	return r.Now.UTC()
}

// Synthesizer writes a valid empty document for one kind to path. path is an
// existing, empty temporary file owned by the caller.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request, path string) error
}

// Placeholder is implemented by synthesizers that only reserve a filename.
type Placeholder interface {
	Notice(req Request) string
}

// StreamFunc adapts an in-process encoder to Synthesizer.
type StreamFunc func(w io.Writer, req Request) error

// Synthesize truncates path and streams the encoder output into it.
func (f StreamFunc) Synthesize(ctx context.Context, req Request, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if err := f(file, req); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	return file.Close()
}

// Config wires the synthesizers returned by Builtin.
type Config struct {
	BlenderBinary  string
	BlenderTimeout time.Duration
	Executor       Executor
}

// Builtin returns the synthesizer for every known kind, keyed by kind name.
func Builtin(cfg Config) map[string]Synthesizer {
	var opts []BlenderOption
	if cfg.Executor != nil {
		opts = append(opts, WithExecutor(cfg.Executor))
	}
	return map[string]Synthesizer{
		"blender":      NewBlender(cfg.BlenderBinary, cfg.BlenderTimeout, opts...),
		"krita":        StreamFunc(WriteKrita),
		"photoshop":    StreamFunc(WritePSD),
		"image":        StreamFunc(WritePNG),
		"fountain":     StreamFunc(WriteFountain),
		"markdown":     StreamFunc(WriteMarkdown),
		"pureref":      PlaceholderFile{Application: "PureRef"},
		"aftereffects": PlaceholderFile{Application: "After Effects"},
	}
}
