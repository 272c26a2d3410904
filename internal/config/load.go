package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Overrides are settings given on the command line. Zero values leave the
// setting alone.
type Overrides struct {
	CorePath  string
	LogFile   string
	Verbosity int
	Theme     string
}

// Loader resolves a Config from defaults, a file, the environment and
// overrides.
type Loader struct {
	// Path is the config file. When empty the DefaultPaths are searched and
	// a missing file is not an error.
	Path string

	// Env looks up environment variables. Nil means os.LookupEnv.
	Env func(string) (string, bool)

	// Overrides are applied last.
	Overrides Overrides
}

// NewLoader creates a loader for path.
func NewLoader(path string, overrides Overrides) *Loader {
	return &Loader{Path: path, Overrides: overrides}
}

// File returns the config file that Load reads, or "" when there is none.
func (l *Loader) File() string {
	if l.Path != "" {
		return l.Path
	}
	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load resolves and validates the settings.
func (l *Loader) Load() (Config, error) {
	cfg := Default()

	if path := l.File(); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && l.Path == "":
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := Decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}

	env := l.Env
	if env == nil {
		env = os.LookupEnv
	}
	if err := applyEnv(&cfg, env); err != nil {
		return Config{}, err
	}

	l.Overrides.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Decode decodes a TOML or YAML document into cfg, chosen by the extension
// of path. Fields absent from the document keep their current values.
// Unknown keys are an error.
func Decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return decodeTOML(path, data, cfg)
	case ".yaml", ".yml":
		return decodeYAML(path, data, cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

func decodeTOML(path string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}

	perr := &ParseError{Path: path, Err: err}
	var derr *toml.DecodeError
	var serr *toml.StrictMissingError
	switch {
	case errors.As(err, &derr):
		perr.Line, perr.Column = derr.Position()
	case errors.As(err, &serr) && len(serr.Errors) > 0:
		perr.Line, perr.Column = serr.Errors[0].Position()
	}
	return perr
}

func decodeYAML(path string, data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

func (o Overrides) apply(cfg *Config) {
	if o.CorePath != "" {
		cfg.CorePath = o.CorePath
	}
	if o.LogFile != "" {
		cfg.LogFile = o.LogFile
	}
	if o.Verbosity > 0 {
		cfg.Verbosity = o.Verbosity
	}
	if o.Theme != "" {
		cfg.Theme = o.Theme
	}
}
