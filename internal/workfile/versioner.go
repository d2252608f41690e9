package workfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"pipely/internal/fileutil"
	"pipely/internal/layout"
	"pipely/internal/logging"
	"pipely/internal/synth"
)

// workfileMode is the permission set on every placed workfile, independent
// of the mode the temporary file was created with.
const workfileMode os.FileMode = 0o644

// Result describes a created workfile.
type Result struct {
	Path     string
	FileName string
	Target   string
	Kind     Kind
	Version  int
	// Notice is set for placeholder files and tells the artist what to do next.
	Notice string
}

// Option configures a Versioner.
type Option func(*Versioner)

// WithSynthesizers replaces the synthesizer registry.
func WithSynthesizers(synths map[string]synth.Synthesizer) Option {
	return func(v *Versioner) {
		if synths != nil {
			v.synths = synths
		}
	}
}

// WithSynthesizer overrides the synthesizer for one kind.
func WithSynthesizer(kind string, s synth.Synthesizer) Option {
	return func(v *Versioner) {
		if s == nil {
			return
		}
		next := make(map[string]synth.Synthesizer, len(v.synths)+1)
		for name, existing := range v.synths {
			next[name] = existing
		}
		next[kind] = s
		v.synths = next
	}
}

// WithPlaceholders controls whether placeholder kinds may be created.
func WithPlaceholders(allow bool) Option {
	return func(v *Versioner) { v.allowPlaceholders = allow }
}

// WithLockDir enables an advisory per-directory allocation lock stored in dir.
func WithLockDir(dir string) Option {
	return func(v *Versioner) { v.lockDir = dir }
}

// WithCanvas sets the raster size used by image-like kinds.
func WithCanvas(width, height int) Option {
	return func(v *Versioner) {
		v.width = width
		v.height = height
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Versioner) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithClock overrides the timestamp source embedded in new files.
func WithClock(now func() time.Time) Option {
	return func(v *Versioner) {
		if now != nil {
			v.now = now
		}
	}
}

// Versioner creates workfiles in resolved target directories.
type Versioner struct {
	synths            map[string]synth.Synthesizer
	allowPlaceholders bool
	lockDir           string
	width             int
	height            int
	logger            *slog.Logger
	now               func() time.Time
}

// New constructs a Versioner with the built-in synthesizers.
func New(opts ...Option) *Versioner {
	v := &Versioner{
		synths:            synth.Builtin(synth.Config{}),
		allowPlaceholders: true,
		width:             synth.DefaultWidth,
		height:            synth.DefaultHeight,
		logger:            logging.NewNop(),
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = logging.NewComponentLogger(v.logger, "workfile")
	return v
}

// Next reports the version Create would allocate without writing anything.
func (v *Versioner) Next(dir, target, kindName string) (int, error) {
	kind, err := LookupKind(kindName)
	if err != nil {
		return 0, err
	}
	if err := layout.ValidateTarget(target); err != nil {
		return 0, err
	}
	return NextVersion(dir, target, kind)
}

// Create allocates the next version of target and kind in dir and writes a
// fresh document there. It fails with ErrCollision when the allocated name
// appears before placement and with ErrSynthesis when no content could be
// produced; in both cases dir is left as it was.
func (v *Versioner) Create(ctx context.Context, dir, target, kindName string) (Result, error) {
	kind, err := LookupKind(kindName)
	if err != nil {
		return Result{}, err
	}
	if err := layout.ValidateTarget(target); err != nil {
		return Result{}, err
	}
	unlock, err := v.lock(ctx, dir)
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	version, err := NextVersion(dir, target, kind)
	if err != nil {
		return Result{}, err
	}
	return v.create(ctx, dir, target, kind, version)
}

// CreateAt writes a specific version. It is used to repair gaps and carries
// the same no-overwrite guarantee as Create.
func (v *Versioner) CreateAt(ctx context.Context, dir, target, kindName string, version int) (Result, error) {
	kind, err := LookupKind(kindName)
	if err != nil {
		return Result{}, err
	}
	if err := layout.ValidateTarget(target); err != nil {
		return Result{}, err
	}
	if version < 1 {
		return Result{}, fmt.Errorf("invalid version %d: versions start at 1", version)
	}
	if version > MaxVersion {
		return Result{}, fmt.Errorf("invalid version %d: %w (w%d)", version, ErrVersionLimit, MaxVersion)
	}
	unlock, err := v.lock(ctx, dir)
	if err != nil {
		return Result{}, err
	}
	defer unlock()
	return v.create(ctx, dir, target, kind, version)
}

func (v *Versioner) create(ctx context.Context, dir, target string, kind Kind, version int) (Result, error) {
	name := FormatName(target, kind, version)
	dst := filepath.Join(dir, name)
	logger := logging.WithContext(ctx, v.logger).With(
		logging.String(logging.FieldTarget, target),
		logging.String(logging.FieldKind, kind.Name),
		logging.Int(logging.FieldVersion, version),
	)

	exists, err := fileutil.Exists(dst)
	if err != nil {
		return Result{}, permissionError(fmt.Errorf("check %s: %w", dst, err))
	}
	if exists {
		return Result{}, fmt.Errorf("%w: %s", ErrCollision, dst)
	}

	synthesizer, ok := v.synths[kind.Name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s: %w: no synthesizer registered", ErrSynthesis, kind.Name, ErrUnsupported)
	}
	placeholder, isPlaceholder := synthesizer.(synth.Placeholder)
	if isPlaceholder && !v.allowPlaceholders {
		return Result{}, fmt.Errorf("%w: %w: %s files can only be created from %s", ErrSynthesis, ErrUnsupported, kind.Name, kind.Application)
	}

	tmp, err := fileutil.CreateTemp(dir, name)
	if err != nil {
		return Result{}, permissionError(fmt.Errorf("create temp file in %s: %w", dir, err))
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return Result{}, fmt.Errorf("close temp file: %w", err)
	}

	req := synth.Request{
		Target:   target,
		Kind:     kind.Name,
		FileName: name,
		Width:    v.width,
		Height:   v.height,
		Now:      v.now(),
	}
	start := time.Now()
	if err := synthesizer.Synthesize(ctx, req, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		logger.Debug("workfile synthesis failed", logging.Error(err))
		return Result{}, fmt.Errorf("%w: %s: %w", ErrSynthesis, kind.Name, err)
	}
	if err := os.Chmod(tmpPath, workfileMode); err != nil {
		_ = os.Remove(tmpPath)
		return Result{}, permissionError(fmt.Errorf("set mode on %s: %w", tmpPath, err))
	}

	if err := fileutil.Place(tmpPath, dst); err != nil {
		if errors.Is(err, fileutil.ErrExists) {
			return Result{}, fmt.Errorf("%w: %s", ErrCollision, dst)
		}
		return Result{}, permissionError(err)
	}

	result := Result{Path: dst, FileName: name, Target: target, Kind: kind, Version: version}
	if isPlaceholder {
		result.Notice = placeholder.Notice(req)
		logging.WarnWithContext(logger, "placeholder workfile created", "workfile_placeholder",
			logging.String(logging.FieldPath, dst),
			logging.String(logging.FieldErrorHint, result.Notice),
			logging.String(logging.FieldImpact, "file is empty until saved from "+kind.Application),
		)
		return result, nil
	}
	logger.Info("workfile created",
		logging.String(logging.FieldEventType, "workfile_created"),
		logging.String(logging.FieldPath, dst),
		logging.Duration("synthesis_duration", time.Since(start)),
	)
	return result, nil
}
