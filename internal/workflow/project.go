package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"pipely/internal/fileutil"
	"pipely/internal/layout"
	"pipely/internal/logging"
	"pipely/internal/manifest"
	"pipely/internal/registry"
	"pipely/internal/services"
)

// Project identifies a project root and the template that shapes it.
type Project struct {
	Root     string
	Template string
	ShowCode string
}

// OpenProject resolves the template and show code for root. An explicit
// template wins; otherwise the project manifest is consulted, then the
// configured default template.
func (m *Manager) OpenProject(root, template string) (Project, error) {
	absRoot, err := layout.CheckRoot(root)
	if err != nil {
		return Project{}, err
	}
	project := Project{Root: absRoot, Template: strings.TrimSpace(template)}

	mf, err := manifest.Load(absRoot)
	switch {
	case err == nil:
		project.ShowCode = mf.Code
		if project.Template == "" {
			project.Template = mf.Template
		}
	case errors.Is(err, manifest.ErrNotFound):
		project.ShowCode = showCodeFromFolder(filepath.Base(absRoot))
	default:
		return Project{}, err
	}
	if project.Template == "" {
		project.Template = m.cfg.Workfiles.DefaultTemplate
	}
	tmpl, err := layout.Lookup(project.Template)
	if err != nil {
		return Project{}, err
	}
	project.Template = tmpl.Key
	return project, nil
}

// showCodeFromFolder extracts DMO from AN_DMO_PokuShort30s; other folder names
// are used whole.
func showCodeFromFolder(name string) string {
	parts := strings.Split(name, "_")
	if len(parts) >= 2 {
		for _, tmpl := range layout.Templates() {
			if parts[0] == tmpl.Prefix && parts[1] != "" {
				return strings.ToUpper(parts[1])
			}
		}
	}
	return strings.ToUpper(name)
}

// ProjectRequest describes a new project.
type ProjectRequest struct {
	Code     string
	Name     string
	Template string
	// Parent is the directory that will contain the project folder; it
	// defaults to the configured projects root.
	Parent string
}

// ProjectResult reports the scaffolded project.
type ProjectResult struct {
	Project
	Name    string
	Created []string
	// Existing is set when the folder already carried a manifest.
	Existing bool
}

// CreateProject scaffolds a project folder, writes its manifest and registers
// the show. Running it again for the same project only fills in missing
// folders.
func (m *Manager) CreateProject(ctx context.Context, req ProjectRequest) (ProjectResult, error) {
	template := strings.TrimSpace(req.Template)
	if template == "" {
		template = m.cfg.Workfiles.DefaultTemplate
	}
	tmpl, err := layout.Lookup(template)
	if err != nil {
		return ProjectResult{}, err
	}
	parent := strings.TrimSpace(req.Parent)
	if parent == "" {
		parent = m.cfg.Paths.ProjectsRoot
	}
	if err := layout.EnsureDir(parent); err != nil {
		if errors.Is(err, layout.ErrPermissionDenied) {
			return ProjectResult{}, err
		}
		return ProjectResult{}, fmt.Errorf("%w: %w", layout.ErrInvalidRoot, err)
	}
	parent, err = layout.CheckRoot(parent)
	if err != nil {
		return ProjectResult{}, err
	}
	folder, err := layout.ProjectFolderName(tmpl.Key, req.Code, req.Name)
	if err != nil {
		return ProjectResult{}, err
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	ctx = services.WithShow(ctx, code)
	logger := logging.WithContext(ctx, m.logger)

	root := filepath.Join(parent, folder)
	if err := layout.EnsureDir(root); err != nil {
		return ProjectResult{}, err
	}
	created, err := layout.Scaffold(root, tmpl.Key)
	if err != nil {
		return ProjectResult{}, err
	}

	result := ProjectResult{
		Project: Project{Root: root, Template: tmpl.Key, ShowCode: code},
		Name:    strings.TrimSpace(req.Name),
		Created: created,
	}
	mf := manifest.Manifest{Code: code, Name: result.Name, Template: tmpl.Key, CreatedAt: time.Now().UTC()}
	if err := manifest.Write(root, mf); err != nil {
		if !errors.Is(err, fileutil.ErrExists) {
			return ProjectResult{}, err
		}
		existing, loadErr := manifest.Load(root)
		if loadErr != nil {
			return ProjectResult{}, loadErr
		}
		if !strings.EqualFold(existing.Code, code) {
			return ProjectResult{}, fmt.Errorf("%s already belongs to show %s", root, existing.Code)
		}
		result.Existing = true
	}

	if m.ledger != nil {
		if _, err := m.ledger.RegisterShow(ctx, registry.Show{Code: code, Name: result.Name, Template: tmpl.Key, Root: root}); err != nil {
			logging.WarnWithContext(logger, "show not registered", "registry_show_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "the project will not appear in project list"),
			)
		}
	}

	logger.Info("project scaffolded",
		logging.String(logging.FieldEventType, "project_created"),
		logging.String(logging.FieldPath, root),
		logging.String(logging.FieldTemplate, tmpl.Key),
		logging.Int("folders_created", len(created)),
		logging.Bool("existing", result.Existing),
	)
	return result, nil
}
