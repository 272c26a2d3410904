package editor

import (
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/xiterm/internal/linecache"
	"github.com/dshills/xiterm/internal/protocol"
	"github.com/dshills/xiterm/internal/renderer"
	"github.com/dshills/xiterm/internal/renderer/core"
)

// Window shows part of one view. It owns the view's line cache and tracks
// the first visible line and the cursor the engine last reported.
type Window struct {
	view   protocol.ViewID
	cache  *linecache.Cache
	bounds core.Rect
	log    *zap.Logger

	cursor linecache.Position
	offset uint64
}

// NewWindow creates a window for view occupying bounds.
func NewWindow(view protocol.ViewID, bounds core.Rect, log *zap.Logger) *Window {
	if log == nil {
		log = zap.NewNop()
	}
	return &Window{
		view:   view,
		cache:  linecache.New(),
		bounds: bounds,
		log:    log.With(zap.String("view", string(view))),
	}
}

// View returns the id of the view shown.
func (w *Window) View() protocol.ViewID {
	return w.view
}

// Cache returns the window's line cache.
func (w *Window) Cache() *linecache.Cache {
	return w.cache
}

// Bounds returns the screen region of the window.
func (w *Window) Bounds() core.Rect {
	return w.bounds
}

// SetBounds moves or resizes the window. The cursor is kept visible.
func (w *Window) SetBounds(r core.Rect) {
	w.bounds = r
	w.follow(w.cursor.Line)
}

// Cursor returns the cursor position.
func (w *Window) Cursor() linecache.Position {
	return w.cursor
}

// Offset returns the first visible line.
func (w *Window) Offset() uint64 {
	return w.offset
}

// Visible returns the range [first, last) of lines the window can show.
func (w *Window) Visible() (first, last uint64) {
	return w.offset, w.offset + uint64(max(w.bounds.Height, 0))
}

// Update applies an engine update to the cache. When the new lines carry
// cursors, the topmost becomes the window cursor. The window does not scroll;
// the engine follows up with scroll_to for that.
func (w *Window) Update(u protocol.Update) error {
	err := w.cache.Update(u)
	if cursors := w.cache.Cursors(); len(cursors) > 0 {
		w.cursor = cursors[0]
	}

	st := w.cache.Stats()
	rev, _ := w.cache.Rev()
	w.log.Debug("view updated",
		zap.Uint64("rev", rev),
		zap.Bool("pristine", w.cache.Pristine()),
		zap.Uint64("lines", w.cache.Len()),
		zap.Uint64("inserted", st.Inserted),
		zap.Uint64("copied", st.Copied),
		zap.Uint64("invalidated", st.Invalidated))
	return err
}

// BufferLen returns the number of lines in the view.
func (w *Window) BufferLen() uint64 {
	return w.cache.Len()
}

// AtEOL reports whether the cursor is on a line terminator.
func (w *Window) AtEOL() bool {
	return w.cache.IsEOL(w.cursor)
}

// ScrollTo moves the cursor to line and byte column col, and scrolls so the
// cursor stays visible. It reports whether the visible range changed.
func (w *Window) ScrollTo(line, col uint64) bool {
	pos := linecache.Position{Line: line, Col: int(col)}
	if l, ok := w.cache.Line(line); ok {
		pos.Col = l.Column(col)
	}
	w.cursor = pos
	return w.follow(line)
}

// follow adjusts the offset so line is visible.
func (w *Window) follow(line uint64) bool {
	height := uint64(max(w.bounds.Height, 1))
	before := w.offset
	switch {
	case line < w.offset:
		w.offset = line
	case line >= w.offset+height:
		w.offset = line - height + 1
	}
	return w.offset != before
}

// Render draws the visible lines into s. It returns false, drawing
// nothing, when some visible line is not known yet; the window should be
// rendered again after the next update.
func (w *Window) Render(s *renderer.Screen) bool {
	first, last := w.Visible()
	end := min(last, w.cache.Len())

	var lines []linecache.Line
	if end > first {
		var ok bool
		lines, ok = w.cache.Lines(first, end)
		if !ok {
			w.log.Debug("render deferred", zap.Uint64("first", first), zap.Uint64("last", end))
			return false
		}
	}

	blank := strings.Repeat(" ", max(w.bounds.Width, 0))
	for row := 0; row < w.bounds.Height; row++ {
		pos := core.NewScreenPos(w.bounds.Top+row, w.bounds.Left)
		s.WriteStr(pos, blank)
		if row < len(lines) {
			w.renderLine(s, pos, &lines[row])
		} else {
			s.WriteStr(pos, "~")
		}
	}
	return true
}

func (w *Window) renderLine(s *renderer.Screen, pos core.ScreenPos, line *linecache.Line) {
	s.WriteStr(pos, line.Content())

	spans, err := line.Spans()
	if err != nil {
		w.log.Warn("ignoring line styles", zap.Error(err))
	}
	for _, span := range spans {
		start := line.Column(span.Start)
		end := line.Column(span.End())
		s.ApplyStyle(core.NewScreenPos(pos.Row, pos.Col+start), span.ID, end-start)
	}

	for _, off := range line.Cursors {
		s.DrawCursor(core.NewScreenPos(pos.Row, pos.Col+line.Column(off)))
	}
}
