package renderer

import (
	"bytes"
	"strconv"

	"github.com/dshills/xiterm/internal/renderer/core"
)

// Control sequences.
const (
	csi      = "\x1b["
	sgrReset = csi + "0m"
)

// SGR parameters.
const (
	sgrBold        = 1
	sgrItalic      = 3
	sgrUnderline   = 4
	sgrReverse     = 7
	sgrNormal      = 22
	sgrNoItalic    = 23
	sgrNoUnderline = 24
	sgrNoReverse   = 27
	sgrFgDefault   = 39
	sgrBgDefault   = 49
	sgrFgExtended  = 38
	sgrBgExtended  = 48
	sgrExtendedRGB = 2
	sgrExtendedIdx = 5
)

// moveTo positions the terminal cursor at a zero-based row and column.
func moveTo(b *bytes.Buffer, row, col int) {
	b.WriteString(csi)
	b.WriteString(strconv.Itoa(row + 1))
	b.WriteByte(';')
	b.WriteString(strconv.Itoa(col + 1))
	b.WriteByte('H')
}

// sgr accumulates the parameters of one Select Graphic Rendition sequence.
type sgr struct {
	params []int
}

func (s *sgr) add(p ...int) {
	s.params = append(s.params, p...)
}

// color adds the parameters selecting c as foreground or background.
func (s *sgr) color(c core.Color, fg bool) {
	switch {
	case c.Default:
		if fg {
			s.add(sgrFgDefault)
		} else {
			s.add(sgrBgDefault)
		}
	case c.Indexed:
		s.add(extended(fg), sgrExtendedIdx, int(c.R))
	default:
		s.add(extended(fg), sgrExtendedRGB, int(c.R), int(c.G), int(c.B))
	}
}

func extended(fg bool) int {
	if fg {
		return sgrFgExtended
	}
	return sgrBgExtended
}

// writeTo emits the sequence, if any parameters were added, and resets s.
func (s *sgr) writeTo(b *bytes.Buffer) {
	if len(s.params) == 0 {
		return
	}
	b.WriteString(csi)
	for i, p := range s.params {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(strconv.Itoa(p))
	}
	b.WriteByte('m')
	s.params = s.params[:0]
}
