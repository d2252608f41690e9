// Package manifest reads and writes pipely.yaml, the small descriptor kept at
// the root of every project created by pipely.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pipely/internal/fileutil"
	"pipely/internal/layout"
)

// FileName is the manifest file placed at a project root.
const FileName = "pipely.yaml"

// ErrNotFound reports that no manifest exists at or above a directory.
var ErrNotFound = errors.New("project manifest not found")

// Manifest identifies a project and the template that shaped its folders.
type Manifest struct {
	Code      string    `yaml:"code"`
	Name      string    `yaml:"name"`
	Template  string    `yaml:"template"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Path returns the manifest location for a project root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads the manifest at root.
func Load(root string) (Manifest, error) {
	data, err := os.ReadFile(Path(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Manifest{}, fmt.Errorf("%w: %s", ErrNotFound, root)
		}
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", Path(root), err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("manifest %s: %w", Path(root), err)
	}
	return m, nil
}

// Write stores m at root. An existing manifest is never replaced.
func Write(root string, m Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(&m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := fileutil.WriteFile(Path(root), data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// Validate checks that the manifest names a code and a known template.
func (m Manifest) Validate() error {
	if strings.TrimSpace(m.Code) == "" {
		return errors.New("code is required")
	}
	if _, err := layout.Lookup(m.Template); err != nil {
		return err
	}
	return nil
}

// Find walks up from dir until it finds a directory holding a manifest and
// returns that directory.
func Find(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	for {
		if ok, err := fileutil.Exists(Path(current)); err != nil {
			return "", err
		} else if ok {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		current = parent
	}
}
