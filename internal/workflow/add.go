package workflow

import (
	"context"
	"fmt"
	"strings"

	"pipely/internal/layout"
	"pipely/internal/logging"
	"pipely/internal/registry"
	"pipely/internal/services"
	"pipely/internal/workfile"
)

// AddRequest names the workfile to create.
type AddRequest struct {
	Project    Project
	Target     string
	TargetKind layout.TargetKind
	Kind       string
}

// AddResult reports a created workfile.
type AddResult struct {
	workfile.Result
	Dir        string
	TargetKind layout.TargetKind
	// Retried is set when the first allocation collided with another writer.
	Retried  bool
	Recorded bool
}

// AddWorkfile resolves the target directory and creates the next version of
// the requested kind there. A collision is retried once with a freshly
// computed version; every other failure is returned as is.
func (m *Manager) AddWorkfile(ctx context.Context, req AddRequest) (AddResult, error) {
	if err := checkTargetKind(req.TargetKind); err != nil {
		return AddResult{}, err
	}
	if req.Project.ShowCode != "" {
		ctx = services.WithShow(ctx, req.Project.ShowCode)
	}
	logger := logging.WithContext(ctx, m.logger).With(
		logging.String(logging.FieldTarget, req.Target),
		logging.String(logging.FieldKind, req.Kind),
	)

	dir, err := layout.Resolve(req.Project.Root, req.Project.Template, req.TargetKind, req.Target)
	if err != nil {
		return AddResult{}, err
	}

	res, err := m.versioner.Create(ctx, dir, req.Target, req.Kind)
	retried := false
	if retryable(err) {
		logger.Info("version claimed concurrently, retrying",
			logging.String(logging.FieldEventType, "workfile_collision_retry"),
			logging.Error(err),
		)
		retried = true
		res, err = m.versioner.Create(ctx, dir, req.Target, req.Kind)
	}
	if err != nil {
		return AddResult{}, err
	}

	out := AddResult{Result: res, Dir: dir, TargetKind: req.TargetKind, Retried: retried}
	out.Recorded = m.record(ctx, logger, registry.Workfile{
		ShowCode:    req.Project.ShowCode,
		Target:      res.Target,
		TargetKind:  string(req.TargetKind),
		Kind:        res.Kind.Name,
		Version:     res.Version,
		Path:        res.Path,
		Placeholder: res.Kind.Placeholder,
	})

	logger.Info("workfile added",
		logging.String(logging.FieldEventType, "workfile_added"),
		logging.String(logging.FieldPath, res.Path),
		logging.Int(logging.FieldVersion, res.Version),
		logging.Bool("retried", retried),
	)
	return out, nil
}

// ResolveTargetKind parses shot, asset or auto. With auto the kind is inferred
// from the identifier and inferred is true.
func ResolveTargetKind(value, target string) (kind layout.TargetKind, inferred bool, err error) {
	if strings.EqualFold(strings.TrimSpace(value), "auto") {
		return layout.InferTargetKind(target), true, nil
	}
	kind, err = layout.ParseTargetKind(value)
	return kind, false, err
}

func checkTargetKind(kind layout.TargetKind) error {
	if kind != layout.TargetShot && kind != layout.TargetAsset {
		return fmt.Errorf("%w %q", layout.ErrInvalidTargetKind, kind)
	}
	return nil
}
