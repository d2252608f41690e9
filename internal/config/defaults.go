package config

const (
	defaultConfigPath             = "~/.config/pipely/config.toml"
	defaultProjectsRoot           = "~/Projects"
	defaultStateDir               = "~/.local/share/pipely"
	defaultLogDir                 = "~/.local/share/pipely/logs"
	defaultTemplate               = "animation"
	defaultCanvasWidth            = 1920
	defaultCanvasHeight           = 1080
	defaultHeadlessTimeoutSeconds = 120
	defaultLogFormat              = "console"
	defaultLogLevel               = "warn"

	// maxCanvasSide is the largest dimension a PSD file can hold.
	maxCanvasSide = 30000
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectsRoot: defaultProjectsRoot,
			StateDir:     defaultStateDir,
			LogDir:       defaultLogDir,
		},
		Workfiles: Workfiles{
			DefaultTemplate:   defaultTemplate,
			AllowPlaceholders: true,
			Lock:              true,
			CanvasWidth:       defaultCanvasWidth,
			CanvasHeight:      defaultCanvasHeight,
		},
		DCC: DCC{
			HeadlessTimeoutSeconds: defaultHeadlessTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
