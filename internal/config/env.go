package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix starts every environment variable the loader reads.
const EnvPrefix = "XITERM_"

// envVars maps variable names, without the prefix, to the setting they set.
var envVars = map[string]func(*Config, string) error{
	"CORE":              func(c *Config, v string) error { c.CorePath = v; return nil },
	"LOG_FILE":          func(c *Config, v string) error { c.LogFile = v; return nil },
	"LOG_LEVEL":         func(c *Config, v string) error { c.LogLevel = v; return nil },
	"CONFIG_DIR":        func(c *Config, v string) error { c.ConfigDir = v; return nil },
	"CLIENT_EXTRAS_DIR": func(c *Config, v string) error { c.ClientExtrasDir = v; return nil },
	"THEME":             func(c *Config, v string) error { c.Theme = v; return nil },
	"COLOR_MODE":        func(c *Config, v string) error { c.ColorMode = v; return nil },
	"QUIT_KEY":          func(c *Config, v string) error { c.QuitKey = v; return nil },
	"VERBOSITY": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Verbosity = n
		return nil
	},
	"SHUTDOWN_TIMEOUT": func(c *Config, v string) error {
		return c.ShutdownTimeout.UnmarshalText([]byte(v))
	},
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	for name, set := range envVars {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		if err := set(cfg, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
		}
	}
	return nil
}
