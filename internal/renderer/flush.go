package renderer

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/dshills/xiterm/internal/renderer/core"
)

// attrState is the rendition the terminal is in while a row is written. Nil
// colors mean the base text colors.
type attrState struct {
	bold, italic, underline, reverse bool
	fg, bg                           *core.Color
}

// Flush writes every pending row that differs from the displayed frame and
// then makes the pending frame the displayed one. Rows that did not change
// produce no output at all. If the write fails the displayed frame is kept,
// so the next flush retries the same rows.
func (s *Screen) Flush() error {
	s.buf.Reset()

	changed := 0
	for y := range s.pending {
		if !s.fullRedraw && rowsEqual(s.pending[y], s.displayed[y]) {
			continue
		}
		if changed == 0 {
			s.writeBase()
		}
		changed++
		s.writeRow(y)
	}

	if s.buf.Len() > 0 {
		if _, err := s.out.Write(s.buf.Bytes()); err != nil {
			return fmt.Errorf("flush screen: %w", err)
		}
	}
	s.log.Debug("screen flushed", zap.Int("rows", changed), zap.Int("bytes", s.buf.Len()))

	s.displayed = s.pending.clone()
	s.fullRedraw = false
	return nil
}

// writeBase resets the terminal rendition to the base text colors.
func (s *Screen) writeBase() {
	s.buf.WriteString(sgrReset)
	var seq sgr
	if s.textFg != nil {
		seq.color(s.mode.Convert(*s.textFg), true)
	}
	if s.textBg != nil {
		seq.color(s.mode.Convert(*s.textBg), false)
	}
	seq.writeTo(&s.buf)
}

// writeRow emits one full row. The rendition is back at base when it
// returns.
func (s *Screen) writeRow(y int) {
	moveTo(&s.buf, y, 0)

	var (
		active []uint64
		cur    attrState
		seq    sgr
	)
	for _, c := range s.pending[y] {
		for _, id := range c.Ends {
			if i := slices.Index(active, id); i >= 0 {
				active = slices.Delete(active, i, i+1)
			}
		}
		active = append(active, c.Starts...)

		if c.IsContinuation() {
			continue
		}

		want := s.resolve(active)
		want.reverse = want.reverse || c.Reverse
		s.transition(&seq, cur, want)
		seq.writeTo(&s.buf)
		cur = want

		s.buf.WriteString(c.Text)
	}

	// Spans that run past the right edge are closed here.
	s.transition(&seq, cur, attrState{})
	seq.writeTo(&s.buf)
}

// resolve derives the rendition for a cell from the spans active on it. A
// boolean attribute is on while any active span sets it; colors come from
// the most recently started span that sets one.
func (s *Screen) resolve(active []uint64) attrState {
	var st attrState
	for _, id := range active {
		def, ok := s.styles.Get(id)
		if !ok {
			continue
		}
		st.bold = st.bold || def.Attrs.Has(core.AttrBold)
		st.italic = st.italic || def.Attrs.Has(core.AttrItalic)
		st.underline = st.underline || def.Attrs.Has(core.AttrUnderline)
		st.reverse = st.reverse || def.Attrs.Has(core.AttrReverse)
		if def.Fg != nil {
			st.fg = def.Fg
		}
		if def.Bg != nil {
			st.bg = def.Bg
		}
	}
	return st
}

// transition adds the parameters that move the terminal from one rendition
// to another.
func (s *Screen) transition(seq *sgr, from, to attrState) {
	if from.bold != to.bold {
		seq.add(toggle(to.bold, sgrBold, sgrNormal))
	}
	if from.italic != to.italic {
		seq.add(toggle(to.italic, sgrItalic, sgrNoItalic))
	}
	if from.underline != to.underline {
		seq.add(toggle(to.underline, sgrUnderline, sgrNoUnderline))
	}
	if from.reverse != to.reverse {
		seq.add(toggle(to.reverse, sgrReverse, sgrNoReverse))
	}
	if !colorPtrEqual(from.fg, to.fg) {
		s.colorParams(seq, to.fg, s.textFg, true)
	}
	if !colorPtrEqual(from.bg, to.bg) {
		s.colorParams(seq, to.bg, s.textBg, false)
	}
}

// colorParams selects c, falling back to the base color and then to the
// terminal default.
func (s *Screen) colorParams(seq *sgr, c, base *core.Color, fg bool) {
	switch {
	case c != nil:
		seq.color(s.mode.Convert(*c), fg)
	case base != nil:
		seq.color(s.mode.Convert(*base), fg)
	default:
		seq.color(core.ColorDefault, fg)
	}
}

func toggle(on bool, enable, disable int) int {
	if on {
		return enable
	}
	return disable
}
