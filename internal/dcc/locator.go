package dcc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"pipely/internal/config"
	"pipely/internal/deps"
)

// ErrNotFound reports that no executable could be located for a kind.
var ErrNotFound = errors.New("application not found")

// DefaultWSLMount is where WSL exposes the Windows C: drive.
const DefaultWSLMount = "/mnt/c"

// Locator resolves workfile kinds to executables.
type Locator struct {
	goos      string
	wslMount  string
	overrides map[string]string
	lookPath  func(string) (string, error)
	starter   Starter
}

// Option configures a Locator.
type Option func(*Locator)

// WithGOOS overrides the detected operating system.
func WithGOOS(goos string) Option {
	return func(l *Locator) { l.goos = goos }
}

// WithWSLMount sets the directory probed for a Windows drive; empty disables
// WSL detection.
func WithWSLMount(dir string) Option {
	return func(l *Locator) { l.wslMount = dir }
}

// WithOverride pins the executable for a kind.
func WithOverride(kind, binary string) Option {
	return func(l *Locator) {
		if strings.TrimSpace(binary) != "" {
			l.overrides[kind] = strings.TrimSpace(binary)
		}
	}
}

// WithLookPath replaces exec.LookPath, primarily for tests.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(l *Locator) {
		if fn != nil {
			l.lookPath = fn
		}
	}
}

// WithStarter replaces the process starter used by Launch.
func WithStarter(s Starter) Option {
	return func(l *Locator) {
		if s != nil {
			l.starter = s
		}
	}
}

// New builds a Locator for the running system.
func New(opts ...Option) *Locator {
	l := &Locator{
		goos:      runtime.GOOS,
		wslMount:  DefaultWSLMount,
		overrides: map[string]string{},
		lookPath:  exec.LookPath,
		starter:   detachedStarter{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewFromConfig applies the [dcc] overrides from cfg.
func NewFromConfig(cfg *config.Config, opts ...Option) *Locator {
	var all []Option
	if cfg != nil {
		for _, kind := range Kinds() {
			all = append(all, WithOverride(kind, cfg.DCCBinary(kind)))
		}
	}
	return New(append(all, opts...)...)
}

// IsWSL reports whether the Windows drive mount is present on Linux.
func (l *Locator) IsWSL() bool {
	if l.goos != "linux" || l.wslMount == "" {
		return false
	}
	info, err := os.Stat(l.wslMount)
	return err == nil && info.IsDir()
}

// Candidates lists the executables tried for kind, in order.
func (l *Locator) Candidates(kind string) []string {
	var out []string
	if override, ok := l.overrides[kind]; ok {
		out = append(out, override)
	}
	if app, ok := applications[kind]; ok {
		out = append(out, app.Paths[l.goos]...)
		if l.IsWSL() {
			for _, win := range app.Paths["windows"] {
				if translated, ok := WindowsToWSL(l.wslMount, win); ok {
					out = append(out, translated)
				}
			}
		}
	}
	if textKinds[kind] || kind == "image" {
		out = append(out, systemOpeners[l.goos]...)
	}
	return out
}

// Find returns the first candidate that exists for kind.
func (l *Locator) Find(kind string) (string, error) {
	candidates := l.Candidates(kind)
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no application known for kind %q on %s", ErrNotFound, kind, l.goos)
	}
	for _, candidate := range candidates {
		if filepath.IsAbs(candidate) {
			if isExecutableFile(candidate) {
				return candidate, nil
			}
			continue
		}
		if resolved, err := l.lookPath(candidate); err == nil {
			return resolved, nil
		}
	}
	return "", fmt.Errorf("%w: %s (tried %s)", ErrNotFound, displayName(kind), strings.Join(candidates, ", "))
}

// Requirements describes the applications for kinds in the form the doctor
// command checks. Each requirement names the first located executable, or the
// first candidate when none is installed.
func (l *Locator) Requirements(kinds []string) []deps.Requirement {
	reqs := make([]deps.Requirement, 0, len(kinds))
	for _, kind := range kinds {
		command, err := l.Find(kind)
		if err != nil {
			if candidates := l.Candidates(kind); len(candidates) > 0 {
				command = candidates[0]
			}
		}
		description := fmt.Sprintf("Opens %s workfiles", kind)
		if kind == "blender" {
			description = "Creates and opens blender workfiles"
		}
		reqs = append(reqs, deps.Requirement{
			Name:        displayName(kind),
			Command:     command,
			Description: description,
			Optional:    true,
		})
	}
	return reqs
}

func displayName(kind string) string {
	if app, ok := applications[kind]; ok {
		return app.Name
	}
	if textKinds[kind] {
		return "Text editor (" + kind + ")"
	}
	return kind
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if strings.HasSuffix(strings.ToLower(path), ".exe") {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
