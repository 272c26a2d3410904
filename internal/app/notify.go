package app

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dshills/xiterm/internal/config"
	"github.com/dshills/xiterm/internal/editor"
	"github.com/dshills/xiterm/internal/linecache"
	"github.com/dshills/xiterm/internal/protocol"
	"github.com/dshills/xiterm/internal/renderer/core"
	"github.com/dshills/xiterm/internal/renderer/style"
)

// handleNotification applies one engine notification to editor state.
func (app *Application) handleNotification(n protocol.Inbound) error {
	switch n := n.(type) {
	case *protocol.UpdateNotification:
		w, ok := app.window(n.ViewID)
		if !ok {
			return nil
		}
		if err := w.Update(n.Update); err != nil {
			if errors.Is(err, linecache.ErrUnsupportedOp) {
				app.log.Debug("update op ignored", zap.Error(err))
			} else {
				app.log.Error("view update inconsistent", zap.String("view", string(n.ViewID)), zap.Error(err))
			}
		}

	case *protocol.ScrollTo:
		w, ok := app.window(n.ViewID)
		if !ok {
			return nil
		}
		if w.ScrollTo(n.Line, n.Col) {
			return app.sendScroll(w)
		}

	case *protocol.DefStyle:
		if err := app.styles.Define(n.ID, style.FromDefStyle(n)); err != nil {
			app.log.Warn("style definition dropped", zap.Uint64("id", n.ID), zap.Error(err))
			return nil
		}
		// Rows already on screen may use the redefined id.
		app.screen.Invalidate()

	case *protocol.ThemeChanged:
		app.log.Info("theme changed", zap.String("theme", n.Name))
		app.screen.SetTextColor(themeColor(n.Theme.Foreground), themeColor(n.Theme.Background))

	case *protocol.AvailableThemes:
		app.themes = n.Themes
		app.log.Debug("themes available", zap.Strings("themes", n.Themes))

	case *protocol.ConfigChanged:
		app.log.Debug("view config changed",
			zap.String("view", string(n.ViewID)),
			zap.Strings("keys", n.Changes.Keys()))
		if theme, ok := n.Changes.String("theme"); ok && theme != "" {
			app.cfg.Theme = theme
			return app.setTheme(theme)
		}

	case *protocol.PluginStarted:
		app.log.Info("plugin started", zap.String("view", string(n.ViewID)), zap.String("plugin", n.Plugin))

	default:
		app.log.Debug("notification ignored", zap.String("method", n.Method()))
	}
	return nil
}

func (app *Application) window(view protocol.ViewID) (*editor.Window, bool) {
	w, ok := app.windows[view]
	if !ok {
		app.log.Warn("notification for unknown view", zap.String("view", string(view)), zap.Error(editor.ErrUnknownView))
	}
	return w, ok
}

func themeColor(c *protocol.Color) *core.Color {
	if c == nil {
		return nil
	}
	v := core.ColorFromRGB(c.R, c.G, c.B)
	return &v
}

// applyConfig takes over reloaded settings. Settings that only matter at
// startup, such as the engine path, are kept until the next start.
func (app *Application) applyConfig(cfg config.Config) error {
	prev := app.cfg
	app.cfg.Theme = cfg.Theme
	app.cfg.ColorMode = cfg.ColorMode
	app.cfg.QuitKey = cfg.QuitKey
	app.cfg.ShutdownTimeout = cfg.ShutdownTimeout

	if cfg.ColorMode != prev.ColorMode {
		app.log.Info("color mode changed", zap.String("mode", cfg.ColorMode))
		app.screen.SetColorMode(cfg.Mode())
	}
	if cfg.Theme != "" && cfg.Theme != prev.Theme {
		return app.setTheme(cfg.Theme)
	}
	return nil
}
