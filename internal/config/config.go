package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/xiterm/internal/logger"
	"github.com/dshills/xiterm/internal/renderer/core"
)

// AppName names the config directory and environment prefix.
const AppName = "xiterm"

// Config holds the editor settings.
type Config struct {
	// CorePath is the engine executable.
	CorePath string `toml:"core" yaml:"core"`

	// LogFile receives the log. Empty disables logging.
	LogFile string `toml:"log_file" yaml:"log_file"`

	// Verbosity selects the log level: 0 error, 1 warn, 2 info, 3 debug,
	// 4 and up trace.
	Verbosity int `toml:"verbosity" yaml:"verbosity"`

	// LogLevel names a level directly and takes precedence over Verbosity.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// ConfigDir is announced to the engine, which keeps its own settings
	// and themes there.
	ConfigDir string `toml:"config_dir" yaml:"config_dir"`

	// ClientExtrasDir is announced to the engine alongside ConfigDir.
	ClientExtrasDir string `toml:"client_extras_dir" yaml:"client_extras_dir"`

	// Theme is requested from the engine at startup and on reload.
	Theme string `toml:"theme" yaml:"theme"`

	// ColorMode is "truecolor" or "256".
	ColorMode string `toml:"color_mode" yaml:"color_mode"`

	// QuitKey is "q" to quit from normal mode with q, or empty to quit only
	// with :q.
	QuitKey string `toml:"quit_key" yaml:"quit_key"`

	// ShutdownTimeout bounds the wait for the engine to exit.
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		CorePath:        "xi-core",
		LogFile:         filepath.Join(os.TempDir(), AppName+".log"),
		ConfigDir:       defaultEngineDir(),
		ColorMode:       core.ColorModeTrue.String(),
		QuitKey:         "",
		ShutdownTimeout: Duration{2 * time.Second},
	}
}

// defaultEngineDir is $XDG_CONFIG_HOME/xi, or empty when the user config
// directory is unknown.
func defaultEngineDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "xi")
}

// DefaultPaths returns the config file locations searched when no path is
// given, in order.
func DefaultPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	base := filepath.Join(dir, AppName)
	return []string{
		filepath.Join(base, "config.toml"),
		filepath.Join(base, "config.yaml"),
		filepath.Join(base, "config.yml"),
	}
}

// Validate checks every setting.
func (c Config) Validate() error {
	if c.CorePath == "" {
		return fmt.Errorf("core: %w", ErrInvalidValue)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("verbosity %d: %w", c.Verbosity, ErrInvalidValue)
	}
	if c.LogLevel != "" {
		if _, err := logger.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	if _, err := core.ParseColorMode(c.ColorMode); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidColorMode, c.ColorMode)
	}
	switch c.QuitKey {
	case "", "q":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidQuitKey, c.QuitKey)
	}
	if c.ShutdownTimeout.Duration <= 0 {
		return fmt.Errorf("shutdown_timeout %s: %w", c.ShutdownTimeout, ErrInvalidValue)
	}
	return nil
}

// Mode returns the parsed color mode. It assumes Validate passed.
func (c Config) Mode() core.ColorMode {
	m, _ := core.ParseColorMode(c.ColorMode)
	return m
}

// Logger returns the logger settings.
func (c Config) Logger() logger.Config {
	return logger.Config{File: c.LogFile, Verbosity: c.Verbosity, Level: c.LogLevel}
}

// Duration is a time.Duration written as a string such as "2s".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
