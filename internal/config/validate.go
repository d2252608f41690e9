package config

import (
	"errors"
	"fmt"

	"pipely/internal/layout"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateWorkfiles(); err != nil {
		return err
	}
	if err := c.validateDCC(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.ProjectsRoot == "" {
		return errors.New("paths.projects_root must be set (or set PIPELY_ROOT)")
	}
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateWorkfiles() error {
	if _, err := layout.Lookup(c.Workfiles.DefaultTemplate); err != nil {
		return fmt.Errorf("workfiles.default_template: %w", err)
	}
	if c.Workfiles.CanvasWidth <= 0 || c.Workfiles.CanvasWidth > maxCanvasSide {
		return fmt.Errorf("workfiles.canvas_width must be between 1 and %d", maxCanvasSide)
	}
	if c.Workfiles.CanvasHeight <= 0 || c.Workfiles.CanvasHeight > maxCanvasSide {
		return fmt.Errorf("workfiles.canvas_height must be between 1 and %d", maxCanvasSide)
	}
	return nil
}

func (c *Config) validateDCC() error {
	if c.DCC.HeadlessTimeoutSeconds <= 0 {
		return errors.New("dcc.headless_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q (want debug, info, warn, or error)", c.Logging.Level)
	}
}
