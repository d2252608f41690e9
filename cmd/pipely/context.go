package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pipely/internal/config"
	"pipely/internal/dcc"
	"pipely/internal/logging"
	"pipely/internal/manifest"
	"pipely/internal/registry"
	"pipely/internal/services"
	"pipely/internal/workflow"
)

// requestIDEnv lets wrapper scripts correlate pipely logs with their own.
const requestIDEnv = "PIPELY_REQUEST_ID"

// newLocator builds the application locator; tests replace it to avoid
// starting real programs.
var newLocator = func(cfg *config.Config) *dcc.Locator {
	return dcc.NewFromConfig(cfg)
}

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) configFlagValue() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, resolved, _, err := config.Load(c.configFlagValue())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// requestContext tags the command context with a request id and the command
// path so every log line of one invocation can be correlated.
func (c *commandContext) requestContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rid := strings.TrimSpace(os.Getenv(requestIDEnv))
	if rid == "" {
		rid = uuid.NewString()
	}
	ctx = services.WithRequestID(ctx, rid)
	return services.WithOperation(ctx, cmd.CommandPath())
}

func (c *commandContext) loggerFor(ctx context.Context) *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		effective := *cfg
		if c.verbose != nil && *c.verbose {
			effective.Logging.Level = "debug"
		}
		logger, err := logging.NewFromConfig(&effective)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return logging.WithContext(ctx, c.logger)
}

func (c *commandContext) openRegistry() (*registry.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return registry.Open(cfg)
}

// withManager runs fn with a workflow manager backed by the registry. A
// registry that cannot be opened only disables history recording.
func (c *commandContext) withManager(cmd *cobra.Command, fn func(*workflow.Manager) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger := c.loggerFor(cmd.Context())

	var ledger workflow.Ledger
	store, err := registry.Open(cfg)
	if err != nil {
		logging.WarnWithContext(logger, "registry unavailable", "registry_open_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "workfiles created now will not appear in history"),
			logging.String(logging.FieldErrorHint, "run pipely doctor"),
		)
	} else {
		defer store.Close()
		ledger = store
	}
	return fn(workflow.NewManagerFromConfig(cfg, ledger, logger))
}

// resolveProject picks the project root from --project, then --show via the
// registry, then the manifest found above the working directory.
func (c *commandContext) resolveProject(cmd *cobra.Command, mgr *workflow.Manager, projectDir, show, template string) (workflow.Project, error) {
	root := strings.TrimSpace(projectDir)
	if root == "" && strings.TrimSpace(show) != "" {
		store, err := c.openRegistry()
		if err != nil {
			return workflow.Project{}, err
		}
		defer store.Close()
		registered, err := store.Show(cmd.Context(), show)
		if err != nil {
			return workflow.Project{}, err
		}
		root = registered.Root
	}
	if root == "" {
		found, err := manifest.Find(".")
		if err != nil {
			return workflow.Project{}, fmt.Errorf("%w (pass --project or --show)", err)
		}
		root = found
	}
	return mgr.OpenProject(root, template)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
