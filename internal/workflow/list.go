package workflow

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"pipely/internal/layout"
	"pipely/internal/workfile"
)

// ErrNoWorkfile reports that no matching workfile exists on disk.
var ErrNoWorkfile = errors.New("no workfile found")

// Entry is a workfile found on disk.
type Entry struct {
	Target     string
	TargetKind layout.TargetKind
	Kind       string
	Version    int
	FileName   string
	Path       string
	Size       int64
	ModTime    time.Time
}

// ListRequest narrows ListWorkfiles. Empty fields match everything.
type ListRequest struct {
	Project    Project
	Target     string
	TargetKind layout.TargetKind
	Kind       string
}

// ListWorkfiles scans the project's shot and asset folders and returns every
// versioned workfile, ordered by target kind, target, kind and version. It
// never creates directories.
func (m *Manager) ListWorkfiles(req ListRequest) ([]Entry, error) {
	var kindFilter *workfile.Kind
	if strings.TrimSpace(req.Kind) != "" {
		kind, err := workfile.LookupKind(req.Kind)
		if err != nil {
			return nil, err
		}
		kindFilter = &kind
	}
	if req.Target != "" {
		if err := layout.ValidateTarget(req.Target); err != nil {
			return nil, err
		}
	}
	tmpl, err := layout.Lookup(req.Project.Template)
	if err != nil {
		return nil, err
	}
	root, err := layout.CheckRoot(req.Project.Root)
	if err != nil {
		return nil, err
	}

	targetKinds := []layout.TargetKind{layout.TargetShot, layout.TargetAsset}
	if req.TargetKind != "" {
		targetKinds = []layout.TargetKind{req.TargetKind}
	}

	var entries []Entry
	for _, tk := range targetKinds {
		subtree := filepath.Join(root, filepath.FromSlash(tmpl.Subtree(tk)))
		targets, err := targetDirs(subtree, req.Target)
		if err != nil {
			return nil, err
		}
		for _, target := range targets {
			found, err := scanTarget(filepath.Join(subtree, target), target, tk, kindFilter)
			if err != nil {
				return nil, err
			}
			entries = append(entries, found...)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.TargetKind != b.TargetKind {
			return a.TargetKind > b.TargetKind
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Version < b.Version
	})
	return entries, nil
}

func targetDirs(subtree, only string) ([]string, error) {
	if only != "" {
		info, err := os.Stat(filepath.Join(subtree, only))
		if err != nil || !info.IsDir() {
			return nil, nil
		}
		return []string{only}, nil
	}
	dirEntries, err := os.ReadDir(subtree)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan %s: %w", subtree, err)
	}
	var names []string
	for _, entry := range dirEntries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func scanTarget(dir, target string, tk layout.TargetKind, only *workfile.Kind) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	var out []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		kind, ok := workfile.KindForExtension(filepath.Ext(name))
		if !ok || (only != nil && kind.Name != only.Name) {
			continue
		}
		version, ok := workfile.ParseVersion(name, target, kind)
		if !ok {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		out = append(out, Entry{
			Target:     target,
			TargetKind: tk,
			Kind:       kind.Name,
			Version:    version,
			FileName:   name,
			Path:       filepath.Join(dir, name),
			Size:       info.Size(),
			ModTime:    info.ModTime(),
		})
	}
	return out, nil
}

// LatestWorkfile returns the highest version of target and kind. Equal
// versions cannot exist for one kind, so ties only arise when kind is empty;
// the most recently modified file wins.
func (m *Manager) LatestWorkfile(project Project, target string, tk layout.TargetKind, kind string) (Entry, error) {
	if err := layout.ValidateTarget(target); err != nil {
		return Entry{}, err
	}
	entries, err := m.ListWorkfiles(ListRequest{Project: project, Target: target, TargetKind: tk, Kind: kind})
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		label := target
		if kind != "" {
			label += " (" + kind + ")"
		}
		return Entry{}, fmt.Errorf("%w for %s", ErrNoWorkfile, label)
	}
	best := entries[0]
	for _, entry := range entries[1:] {
		if entry.Version > best.Version || (entry.Version == best.Version && entry.ModTime.After(best.ModTime)) {
			best = entry
		}
	}
	return best, nil
}

// NextWorkfile reports the version and path AddWorkfile would create without
// writing anything.
func (m *Manager) NextWorkfile(req AddRequest) (int, string, error) {
	if err := checkTargetKind(req.TargetKind); err != nil {
		return 0, "", err
	}
	kind, err := workfile.LookupKind(req.Kind)
	if err != nil {
		return 0, "", err
	}
	if err := layout.ValidateTarget(req.Target); err != nil {
		return 0, "", err
	}
	tmpl, err := layout.Lookup(req.Project.Template)
	if err != nil {
		return 0, "", err
	}
	root, err := layout.CheckRoot(req.Project.Root)
	if err != nil {
		return 0, "", err
	}
	dir := filepath.Join(root, filepath.FromSlash(tmpl.Subtree(req.TargetKind)), req.Target)
	version, err := m.versioner.Next(dir, req.Target, kind.Name)
	if err != nil {
		return 0, "", err
	}
	return version, filepath.Join(dir, workfile.FormatName(req.Target, kind, version)), nil
}
