package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ProjectsRoot string `toml:"projects_root"`
	StateDir     string `toml:"state_dir"`
	LogDir       string `toml:"log_dir"`
	RegistryPath string `toml:"registry_path"`
}

// Workfiles controls how new workfiles are created.
type Workfiles struct {
	DefaultTemplate   string `toml:"default_template"`
	AllowPlaceholders bool   `toml:"allow_placeholders"`
	Lock              bool   `toml:"lock"`
	CanvasWidth       int    `toml:"canvas_width"`
	CanvasHeight      int    `toml:"canvas_height"`
}

// DCC holds executable overrides for the authoring applications. Empty
// values fall back to the platform search in internal/dcc.
type DCC struct {
	Blender                string `toml:"blender"`
	Krita                  string `toml:"krita"`
	Photoshop              string `toml:"photoshop"`
	PureRef                string `toml:"pureref"`
	AfterEffects           string `toml:"aftereffects"`
	ImageEditor            string `toml:"image_editor"`
	TextEditor             string `toml:"text_editor"`
	HeadlessTimeoutSeconds int    `toml:"headless_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for pipely.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Workfiles Workfiles `toml:"workfiles"`
	DCC       DCC       `toml:"dcc"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("pipely.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir, filepath.Dir(c.RegistryPath())} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RegistryPath returns the SQLite ledger location.
func (c *Config) RegistryPath() string {
	if c.Paths.RegistryPath != "" {
		return c.Paths.RegistryPath
	}
	return filepath.Join(c.Paths.StateDir, "pipely.db")
}

// LockDir returns where per-directory allocation locks live, or "" when
// locking is disabled.
func (c *Config) LockDir() string {
	if !c.Workfiles.Lock {
		return ""
	}
	return filepath.Join(c.Paths.StateDir, "locks")
}

// HeadlessTimeout bounds headless DCC runs used for synthesis.
func (c *Config) HeadlessTimeout() time.Duration {
	return time.Duration(c.DCC.HeadlessTimeoutSeconds) * time.Second
}

// DCCBinary returns the configured executable override for a workfile kind.
func (c *Config) DCCBinary(kind string) string {
	switch kind {
	case "blender":
		return c.DCC.Blender
	case "krita":
		return c.DCC.Krita
	case "photoshop":
		return c.DCC.Photoshop
	case "pureref":
		return c.DCC.PureRef
	case "aftereffects":
		return c.DCC.AfterEffects
	case "image":
		return c.DCC.ImageEditor
	case "fountain", "markdown":
		return c.DCC.TextEditor
	default:
		return ""
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the commented sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
