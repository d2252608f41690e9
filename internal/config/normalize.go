package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeDCC(); err != nil {
		return err
	}
	c.normalizeWorkfiles()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("PIPELY_ROOT"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ProjectsRoot = strings.TrimSpace(value)
	}
	if value, ok := os.LookupEnv("PIPELY_DB"); ok && strings.TrimSpace(value) != "" {
		c.Paths.RegistryPath = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}

	var err error
	if c.Paths.ProjectsRoot, err = expandPath(strings.TrimSpace(c.Paths.ProjectsRoot)); err != nil {
		return fmt.Errorf("paths.projects_root: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.RegistryPath, err = expandPath(strings.TrimSpace(c.Paths.RegistryPath)); err != nil {
		return fmt.Errorf("paths.registry_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeWorkfiles() {
	c.Workfiles.DefaultTemplate = strings.ToLower(strings.TrimSpace(c.Workfiles.DefaultTemplate))
	if c.Workfiles.DefaultTemplate == "" {
		c.Workfiles.DefaultTemplate = defaultTemplate
	}
	if c.Workfiles.CanvasWidth == 0 {
		c.Workfiles.CanvasWidth = defaultCanvasWidth
	}
	if c.Workfiles.CanvasHeight == 0 {
		c.Workfiles.CanvasHeight = defaultCanvasHeight
	}
}

func (c *Config) normalizeDCC() error {
	fields := map[string]*string{
		"dcc.blender":      &c.DCC.Blender,
		"dcc.krita":        &c.DCC.Krita,
		"dcc.photoshop":    &c.DCC.Photoshop,
		"dcc.pureref":      &c.DCC.PureRef,
		"dcc.aftereffects": &c.DCC.AfterEffects,
		"dcc.image_editor": &c.DCC.ImageEditor,
		"dcc.text_editor":  &c.DCC.TextEditor,
	}
	for key, field := range fields {
		value := strings.TrimSpace(*field)
		// Bare command names are resolved on PATH later; only paths are expanded.
		if value != "" && strings.ContainsAny(value, `/\~`) {
			expanded, err := expandPath(value)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			value = expanded
		}
		*field = value
	}
	if c.DCC.HeadlessTimeoutSeconds == 0 {
		c.DCC.HeadlessTimeoutSeconds = defaultHeadlessTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
