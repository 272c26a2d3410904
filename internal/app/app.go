package app

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dshills/xiterm/internal/config"
	"github.com/dshills/xiterm/internal/editor"
	"github.com/dshills/xiterm/internal/protocol"
	"github.com/dshills/xiterm/internal/renderer"
	"github.com/dshills/xiterm/internal/renderer/backend"
	"github.com/dshills/xiterm/internal/renderer/style"
)

// Engine is the connection to the editing engine. *engine.Client
// implements it.
type Engine interface {
	Notifications() <-chan protocol.Inbound
	Err() <-chan error
	ClientStarted(configDir, extrasDir string) error
	OpenView(ctx context.Context, path string) (protocol.ViewID, error)
	Edit(view protocol.ViewID, e protocol.Edit) error
	SetTheme(name string) error
	Shutdown(ctx context.Context) error
}

// ConfigSource delivers reloaded settings. *config.Watcher implements it.
type ConfigSource interface {
	Updates() <-chan config.Config
	Errors() <-chan error
}

// Application is the editor front end. Run drives it; all other state is
// touched only from the Run goroutine.
type Application struct {
	engine  Engine
	backend backend.Backend
	cfg     config.Config
	file    string
	source  ConfigSource
	log     *zap.Logger

	screen  *renderer.Screen
	styles  *style.Registry
	layout  *editor.Layout
	windows map[protocol.ViewID]*editor.Window
	active  *editor.Window
	cmdline *editor.CommandLine
	mode    Mode
	themes  []string

	running atomic.Bool
}

// Option configures an Application.
type Option func(*Application)

// WithLogger sets the application's logger. Without it the logger carried
// by the context given to Run is used.
func WithLogger(log *zap.Logger) Option {
	return func(app *Application) {
		if log != nil {
			app.log = log
		}
	}
}

// WithFile opens path in the first view. Without it the view is empty.
func WithFile(path string) Option {
	return func(app *Application) {
		app.file = path
	}
}

// WithConfigSource applies settings from src while running.
func WithConfigSource(src ConfigSource) Option {
	return func(app *Application) {
		app.source = src
	}
}

// New creates an application. Run takes ownership of eng and b: both are
// shut down when it returns.
func New(eng Engine, b backend.Backend, cfg config.Config, opts ...Option) *Application {
	app := &Application{
		engine:  eng,
		backend: b,
		cfg:     cfg,
		styles:  style.NewRegistry(),
		windows: make(map[protocol.ViewID]*editor.Window),
		cmdline: editor.NewCommandLine(),
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Mode returns the current editing mode.
func (app *Application) Mode() Mode {
	return app.mode
}

// IsRunning reports whether Run is in progress.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

func (app *Application) setMode(m Mode) {
	if m == app.mode {
		return
	}
	app.log.Debug("mode changed", zap.Stringer("from", app.mode), zap.Stringer("to", m))
	app.mode = m
}
