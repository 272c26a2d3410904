package renderer

import (
	"bytes"
	"io"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/dshills/xiterm/internal/renderer/core"
	"github.com/dshills/xiterm/internal/renderer/style"
)

// Screen is a double-buffered cell grid that writes minimal updates to a
// terminal. It is not safe for concurrent use.
type Screen struct {
	out    io.Writer
	styles *style.Registry
	mode   core.ColorMode
	log    *zap.Logger

	width, height int

	// pending is the frame being composed; displayed is what the terminal
	// shows after the last successful flush.
	pending   grid
	displayed grid

	textFg, textBg *core.Color

	// fullRedraw forces every row out on the next flush.
	fullRedraw bool

	buf bytes.Buffer
}

// Option configures a Screen.
type Option func(*Screen)

// WithColorMode sets how span colors are emitted.
func WithColorMode(mode core.ColorMode) Option {
	return func(s *Screen) {
		s.mode = mode
	}
}

// WithLogger sets the screen's logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Screen) {
		if log != nil {
			s.log = log
		}
	}
}

// NewScreen creates a screen of the given size writing to out. Style ids in
// span markers are resolved through styles at flush time.
func NewScreen(out io.Writer, width, height int, styles *style.Registry, opts ...Option) *Screen {
	if styles == nil {
		styles = style.NewRegistry()
	}
	s := &Screen{
		out:    out,
		styles: styles,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.allocate(width, height)
	return s
}

func (s *Screen) allocate(width, height int) {
	s.width = max(width, 0)
	s.height = max(height, 0)
	s.pending = newGrid(s.width, s.height)
	s.displayed = newGrid(s.width, s.height)
	// The terminal's contents are unknown until the first flush.
	s.fullRedraw = true
}

// Size returns the screen dimensions.
func (s *Screen) Size() (width, height int) {
	return s.width, s.height
}

// Resize reallocates both grids. The next flush redraws every row.
func (s *Screen) Resize(width, height int) {
	if width == s.width && height == s.height {
		return
	}
	s.log.Debug("screen resized", zap.Int("width", width), zap.Int("height", height))
	s.allocate(width, height)
}

// Invalidate forces every row out on the next flush. Call it after a style
// definition changes so rows that reference it are redrawn.
func (s *Screen) Invalidate() {
	s.fullRedraw = true
}

// SetColorMode changes how span colors are emitted. Every row is redrawn
// on the next flush.
func (s *Screen) SetColorMode(mode core.ColorMode) {
	if mode == s.mode {
		return
	}
	s.mode = mode
	s.fullRedraw = true
}

// SetTextColor sets the base colors used outside of styled spans. A nil
// color leaves the terminal default in place.
func (s *Screen) SetTextColor(fg, bg *core.Color) {
	if colorPtrEqual(s.textFg, fg) && colorPtrEqual(s.textBg, bg) {
		return
	}
	s.textFg = copyColor(fg)
	s.textBg = copyColor(bg)
	s.fullRedraw = true
}

// Cell returns the pending cell at pos. Positions off the screen return an
// empty cell.
func (s *Screen) Cell(pos core.ScreenPos) Cell {
	if !s.inBounds(pos) {
		return EmptyCell()
	}
	return s.pending[pos.Row][pos.Col].clone()
}

// Text returns the characters of a pending row, without continuation cells.
func (s *Screen) Text(row int) string {
	if row < 0 || row >= s.height {
		return ""
	}
	var b bytes.Buffer
	for _, c := range s.pending[row] {
		if !c.IsContinuation() {
			b.WriteString(c.Text)
		}
	}
	return b.String()
}

func (s *Screen) inBounds(pos core.ScreenPos) bool {
	return pos.Row >= 0 && pos.Row < s.height && pos.Col >= 0 && pos.Col < s.width
}

// WriteStr overwrites cells starting at pos. Text is laid out by grapheme
// cluster and clipped at the right edge. Line terminators are dropped, other
// control characters occupy one blank cell, and wide clusters occupy two
// cells. Written cells lose any style markers and cursor they held.
func (s *Screen) WriteStr(pos core.ScreenPos, text string) {
	if !s.inBounds(pos) {
		return
	}
	row := s.pending[pos.Row]
	col := pos.Col

	core.Clusters(text, func(g string, w int) bool {
		if col >= s.width {
			return false
		}
		if w == 0 {
			return true
		}
		if r, _ := utf8.DecodeRuneInString(g); unicode.IsControl(r) {
			g = " "
		}
		if w > 2 {
			w = 2
		}
		if w == 2 && col+1 >= s.width {
			g, w = " ", 1
		}

		if col == pos.Col && row[col].IsContinuation() && col > 0 {
			// The lead of a wide character loses its second column.
			row[col-1].Text = " "
		}
		row[col] = Cell{Text: g}
		if w == 2 {
			row[col+1] = Cell{}
		}
		col += w
		return true
	})

	// A continuation left behind by a wide character that was partly
	// overwritten becomes a blank.
	if col > pos.Col && col < s.width && row[col].IsContinuation() {
		row[col].Text = " "
	}
}

// ApplyStyle marks a span of length cells starting at pos with style id. A
// span running past the right edge is closed at the end of the row.
func (s *Screen) ApplyStyle(pos core.ScreenPos, id uint64, length int) {
	if length <= 0 || !s.inBounds(pos) {
		return
	}
	row := s.pending[pos.Row]
	row[pos.Col].Starts = append(row[pos.Col].Starts, id)
	if end := pos.Col + length; end < s.width {
		row[end].Ends = append(row[end].Ends, id)
	}
}

// DrawCursor draws a cursor at pos in reverse video. Several cursors may be
// drawn in one frame.
func (s *Screen) DrawCursor(pos core.ScreenPos) {
	if !s.inBounds(pos) {
		return
	}
	row := s.pending[pos.Row]
	row[pos.Col].Reverse = true
	if row[pos.Col].IsContinuation() && pos.Col > 0 {
		row[pos.Col-1].Reverse = true
	}
}

// Erase blanks the whole pending grid.
func (s *Screen) Erase() {
	for y := range s.pending {
		s.EraseLine(y)
	}
}

// EraseLine blanks one pending row.
func (s *Screen) EraseLine(row int) {
	if row < 0 || row >= s.height {
		return
	}
	for x := range s.pending[row] {
		s.pending[row][x] = EmptyCell()
	}
}

func colorPtrEqual(a, b *core.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equals(*b)
}

func copyColor(c *core.Color) *core.Color {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
