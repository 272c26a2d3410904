package app

import (
	"slices"

	"go.uber.org/zap"

	"github.com/dshills/xiterm/internal/editor"
	"github.com/dshills/xiterm/internal/protocol"
	"github.com/dshills/xiterm/internal/renderer/backend"
)

// handleEvent processes one terminal event. It returns ErrQuit when the
// user asks to exit.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		return app.handleResize(ev.Width, ev.Height)
	case backend.EventKey:
		return app.handleKey(ev)
	default:
		return nil
	}
}

// handleResize reallocates the screen and asks the engine for the lines
// that are now visible.
func (app *Application) handleResize(width, height int) error {
	app.log.Debug("terminal resized", zap.Int("width", width), zap.Int("height", height))
	app.screen.Resize(width, height)
	app.layout.Resize(width, height)
	for view, w := range app.windows {
		bounds, err := app.layout.OfView(view)
		if err != nil {
			return err
		}
		w.SetBounds(bounds)
		if err := app.sendScroll(w); err != nil {
			return err
		}
	}
	return nil
}

func (app *Application) handleKey(ev backend.Event) error {
	switch app.mode {
	case ModeInsert:
		return app.insertKey(ev)
	case ModeCommand:
		return app.commandKey(ev)
	default:
		return app.normalKey(ev)
	}
}

func (app *Application) normalKey(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyUp:
		return app.moveUp()
	case backend.KeyDown:
		return app.moveDown()
	case backend.KeyLeft:
		return app.moveLeft()
	case backend.KeyRight:
		return app.moveRight()
	case backend.KeyRune:
	default:
		return nil
	}

	switch ev.Rune {
	case 'k':
		return app.moveUp()
	case 'j':
		return app.moveDown()
	case 'h':
		return app.moveLeft()
	case 'l':
		return app.moveRight()
	case 'b':
		return app.edit(protocol.MoveWordLeft())
	case 'w':
		// Word-right is followed by one step right unless that would
		// leave the line.
		if err := app.edit(protocol.MoveWordRight()); err != nil {
			return err
		}
		return app.moveRight()
	case 'i':
		app.setMode(ModeInsert)
	case ':':
		app.cmdline.Reset()
		app.setMode(ModeCommand)
	case 'q':
		if app.cfg.QuitKey == "q" {
			return ErrQuit
		}
	}
	return nil
}

func (app *Application) insertKey(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyEscape:
		app.setMode(ModeNormal)
		return nil
	case backend.KeyRune:
		return app.edit(protocol.Insert(string(ev.Rune)))
	case backend.KeyEnter:
		return app.edit(protocol.Insert("\n"))
	case backend.KeyTab:
		return app.edit(protocol.Insert("\t"))
	case backend.KeyBackspace:
		return app.edit(protocol.DeleteBackward())
	case backend.KeyUp:
		return app.moveUp()
	case backend.KeyDown:
		return app.moveDown()
	case backend.KeyLeft:
		return app.moveLeft()
	case backend.KeyRight:
		return app.moveRight()
	default:
		return nil
	}
}

func (app *Application) commandKey(ev backend.Event) error {
	switch ev.Key {
	case backend.KeyEscape:
		app.cmdline.Reset()
		app.setMode(ModeNormal)
	case backend.KeyRune:
		app.cmdline.Insert(ev.Rune)
	case backend.KeyBackspace:
		if app.cmdline.Text() == "" {
			app.setMode(ModeNormal)
			return nil
		}
		app.cmdline.Delete()
	case backend.KeyEnter:
		text := app.cmdline.Text()
		app.cmdline.Reset()
		app.setMode(ModeNormal)
		return app.execute(text)
	}
	return nil
}

// execute runs a command line. Bad commands are logged and otherwise
// ignored.
func (app *Application) execute(text string) error {
	cmd, err := editor.ParseCommand(text)
	if err != nil {
		app.log.Warn("command rejected", zap.String("command", text), zap.Error(err))
		return nil
	}
	switch cmd.Kind {
	case editor.CommandQuit:
		return ErrQuit
	case editor.CommandTheme:
		return app.setTheme(cmd.Arg)
	}
	return nil
}

func (app *Application) setTheme(name string) error {
	if len(app.themes) > 0 && !slices.Contains(app.themes, name) {
		app.log.Warn("theme not offered by engine", zap.String("theme", name))
	}
	if err := app.engine.SetTheme(name); err != nil {
		return &ComponentError{Component: "engine", Action: "set_theme", Err: err}
	}
	return nil
}

// Motion is checked against the cache before it is sent so the engine is
// never asked to move off the buffer.

func (app *Application) moveUp() error {
	if app.active == nil || app.active.Cursor().Line == 0 {
		return nil
	}
	return app.edit(protocol.MoveUp())
}

func (app *Application) moveDown() error {
	if app.active == nil || app.active.Cursor().Line+1 >= app.active.BufferLen() {
		return nil
	}
	return app.edit(protocol.MoveDown())
}

func (app *Application) moveLeft() error {
	if app.active == nil || app.active.Cursor().Col == 0 {
		return nil
	}
	return app.edit(protocol.MoveLeft())
}

func (app *Application) moveRight() error {
	if app.active == nil || app.active.AtEOL() {
		return nil
	}
	return app.edit(protocol.MoveRight())
}

// edit sends e for the active view.
func (app *Application) edit(e protocol.Edit) error {
	if app.active == nil {
		return nil
	}
	if err := app.engine.Edit(app.active.View(), e); err != nil {
		return &ComponentError{Component: "engine", Action: e.Method, Err: err}
	}
	return nil
}

func (app *Application) sendScroll(w *editor.Window) error {
	first, last := w.Visible()
	if err := app.engine.Edit(w.View(), protocol.Scroll(first, last)); err != nil {
		return &ComponentError{Component: "engine", Action: "scroll", Err: err}
	}
	return nil
}
