package workflow

import (
	"context"
	"errors"
	"log/slog"

	"pipely/internal/config"
	"pipely/internal/dcc"
	"pipely/internal/logging"
	"pipely/internal/registry"
	"pipely/internal/synth"
	"pipely/internal/workfile"
)

// Ledger records shows and created workfiles. *registry.Store satisfies it.
type Ledger interface {
	RegisterShow(ctx context.Context, show registry.Show) (*registry.Show, error)
	RecordWorkfile(ctx context.Context, wf registry.Workfile) (*registry.Workfile, error)
}

// Manager coordinates workfile creation for projects on disk.
type Manager struct {
	cfg       *config.Config
	versioner *workfile.Versioner
	ledger    Ledger
	logger    *slog.Logger
}

// NewManager constructs a manager around an existing versioner. ledger may be
// nil, in which case nothing is recorded.
func NewManager(cfg *config.Config, versioner *workfile.Versioner, ledger Ledger, logger *slog.Logger) *Manager {
	if versioner == nil {
		versioner = workfile.New(workfile.WithLogger(logger))
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return &Manager{
		cfg:       cfg,
		versioner: versioner,
		ledger:    ledger,
		logger:    logging.NewComponentLogger(logger, "workflow"),
	}
}

// NewManagerFromConfig builds the versioner from cfg: synthesizers using the
// located Blender binary, placeholder policy, lock directory and canvas size.
// Extra options are applied last.
func NewManagerFromConfig(cfg *config.Config, ledger Ledger, logger *slog.Logger, opts ...workfile.Option) *Manager {
	blender := cfg.DCC.Blender
	if found, err := dcc.NewFromConfig(cfg).Find("blender"); err == nil {
		blender = found
	}
	base := []workfile.Option{
		workfile.WithSynthesizers(synth.Builtin(synth.Config{
			BlenderBinary:  blender,
			BlenderTimeout: cfg.HeadlessTimeout(),
		})),
		workfile.WithPlaceholders(cfg.Workfiles.AllowPlaceholders),
		workfile.WithLockDir(cfg.LockDir()),
		workfile.WithCanvas(cfg.Workfiles.CanvasWidth, cfg.Workfiles.CanvasHeight),
		workfile.WithLogger(logger),
	}
	return NewManager(cfg, workfile.New(append(base, opts...)...), ledger, logger)
}

// Versioner exposes the underlying versioner.
func (m *Manager) Versioner() *workfile.Versioner {
	return m.versioner
}

func (m *Manager) record(ctx context.Context, logger *slog.Logger, wf registry.Workfile) bool {
	if m.ledger == nil {
		return false
	}
	if _, err := m.ledger.RecordWorkfile(ctx, wf); err != nil {
		logging.WarnWithContext(logger, "workfile history not updated", "registry_record_failed",
			logging.String(logging.FieldPath, wf.Path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run pipely doctor to check the state directory"),
			logging.String(logging.FieldImpact, "the file was created but will not appear in workfile history"),
		)
		return false
	}
	return true
}

// retryable reports whether a failed create may be attempted again.
func retryable(err error) bool {
	return errors.Is(err, workfile.ErrCollision)
}
