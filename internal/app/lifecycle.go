package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/xiterm/internal/config"
	"github.com/dshills/xiterm/internal/editor"
	"github.com/dshills/xiterm/internal/logger"
	"github.com/dshills/xiterm/internal/renderer"
	"github.com/dshills/xiterm/internal/renderer/backend"
)

// Run starts the editor and processes events until the user quits, ctx
// ends or the engine connection fails. A normal quit returns nil.
//
// Teardown happens in a fixed order on every exit path: input stops being
// read, the engine is told to exit and waited for, and then the terminal is
// restored.
func (app *Application) Run(ctx context.Context) (err error) {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &ComponentError{Component: "backend", Action: "init", Err: err}
	}
	defer app.backend.Shutdown()
	defer func() {
		if shutdownErr := app.shutdownEngine(); shutdownErr != nil {
			app.log.Warn("engine shutdown", zap.Error(shutdownErr))
		}
	}()

	done := make(chan struct{})
	defer close(done)

	if err := app.start(ctx); err != nil {
		return err
	}

	input := make(chan backend.Event)
	go app.readInput(done, input)

	err = app.loop(ctx, input)
	if errors.Is(err, ErrQuit) {
		app.log.Info("quit")
		return nil
	}
	return err
}

// start announces the client, opens the first view and draws it.
func (app *Application) start(ctx context.Context) error {
	if app.log == nil {
		app.log = logger.L(ctx)
	}
	width, height := app.backend.Size()
	app.screen = renderer.NewScreen(app.backend.Writer(), width, height, app.styles,
		renderer.WithColorMode(app.cfg.Mode()),
		renderer.WithLogger(app.log))
	app.layout = editor.NewLayout(width, height)

	if err := app.engine.ClientStarted(app.cfg.ConfigDir, app.cfg.ClientExtrasDir); err != nil {
		return &ComponentError{Component: "engine", Action: "client_started", Err: err}
	}
	if app.cfg.Theme != "" {
		if err := app.engine.SetTheme(app.cfg.Theme); err != nil {
			return &ComponentError{Component: "engine", Action: "set_theme", Err: err}
		}
	}

	view, err := app.engine.OpenView(ctx, app.file)
	if err != nil {
		return &ComponentError{Component: "engine", Action: "new_view", Err: err}
	}
	bounds, err := app.layout.AddView(view)
	if err != nil {
		return &ComponentError{Component: "layout", Action: "add view", Err: err}
	}
	w := editor.NewWindow(view, bounds, app.log)
	app.windows[view] = w
	app.active = w
	app.log.Info("view opened", zap.String("view", string(view)), zap.String("file", app.file))

	if err := app.sendScroll(w); err != nil {
		return err
	}
	return app.redraw()
}

// loop is the single-threaded event loop. Each event is handled fully,
// then the screen is brought up to date.
func (app *Application) loop(ctx context.Context, input <-chan backend.Event) error {
	var (
		updates <-chan config.Config
		cfgErrs <-chan error
	)
	if app.source != nil {
		updates = app.source.Updates()
		cfgErrs = app.source.Errors()
	}
	notifications := app.engine.Notifications()

	for {
		var err error
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev := <-input:
			err = app.handleEvent(ev)

		case n, ok := <-notifications:
			if !ok {
				notifications = nil
				continue
			}
			err = app.handleNotification(n)

		case err := <-app.engine.Err():
			return &ComponentError{Component: "engine", Err: err}

		case cfg := <-updates:
			err = app.applyConfig(cfg)

		case err := <-cfgErrs:
			app.log.Warn("config not reloaded", zap.Error(err))
			continue
		}
		if err != nil {
			return err
		}
		if err := app.redraw(); err != nil {
			return err
		}
	}
}

// readInput forwards terminal events until the backend closes or done is
// closed.
func (app *Application) readInput(done <-chan struct{}, out chan<- backend.Event) {
	for {
		ev := app.backend.PollEvent()
		if ev.Type == backend.EventClosed {
			return
		}
		select {
		case out <- ev:
		case <-done:
			return
		}
	}
}

func (app *Application) redraw() error {
	for _, w := range app.windows {
		w.Render(app.screen)
	}
	bounds := app.layout.CommandLine()
	if app.mode == ModeCommand {
		app.cmdline.Render(bounds, app.screen)
	} else {
		app.screen.EraseLine(bounds.Top)
	}
	if err := app.screen.Flush(); err != nil {
		return &ComponentError{Component: "screen", Err: err}
	}
	return nil
}

func (app *Application) shutdownEngine() error {
	timeout := app.cfg.ShutdownTimeout.Duration
	if timeout <= 0 {
		timeout = config.Default().ShutdownTimeout.Duration
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	err := app.engine.Shutdown(ctx)
	app.log.Debug("engine shut down", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
	if err != nil {
		return fmt.Errorf("shutdown engine: %w", err)
	}
	return nil
}
