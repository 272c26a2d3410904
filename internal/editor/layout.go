package editor

import (
	"fmt"

	"github.com/dshills/xiterm/internal/protocol"
	"github.com/dshills/xiterm/internal/renderer/core"
)

// Layout places windows on the screen. It holds one view, which takes every
// row but the last; the last row is the command line.
type Layout struct {
	width, height int
	views         map[protocol.ViewID]core.Rect
}

// NewLayout creates a layout for a screen of the given size.
func NewLayout(width, height int) *Layout {
	return &Layout{
		width:  width,
		height: height,
		views:  make(map[protocol.ViewID]core.Rect),
	}
}

// AddView places view and returns its bounds.
func (l *Layout) AddView(view protocol.ViewID) (core.Rect, error) {
	if _, ok := l.views[view]; ok {
		return l.views[view], nil
	}
	if len(l.views) >= 1 {
		return core.Rect{}, fmt.Errorf("add view %s: %w", view, ErrLayoutFull)
	}
	r := l.viewRect()
	l.views[view] = r
	return r, nil
}

// OfView returns the bounds of view.
func (l *Layout) OfView(view protocol.ViewID) (core.Rect, error) {
	r, ok := l.views[view]
	if !ok {
		return core.Rect{}, fmt.Errorf("%s: %w", view, ErrUnknownView)
	}
	return r, nil
}

// CommandLine returns the bounds of the command line.
func (l *Layout) CommandLine() core.Rect {
	return core.Rect{Top: max(l.height-1, 0), Left: 0, Height: min(l.height, 1), Width: l.width}
}

// Resize recomputes every region for a new screen size.
func (l *Layout) Resize(width, height int) {
	l.width, l.height = width, height
	for view := range l.views {
		l.views[view] = l.viewRect()
	}
}

func (l *Layout) viewRect() core.Rect {
	return core.Rect{Top: 0, Left: 0, Height: max(l.height-1, 0), Width: l.width}
}
