// Package style keeps the table of styles defined by the engine.
//
// Span markers in the screen buffer refer to styles by numeric id. The first
// Reserved ids belong to the engine itself (selection and find highlights)
// and are pre-populated so spans may reference them before any definition
// arrives.
package style

import (
	"errors"
	"fmt"

	"github.com/dshills/xiterm/internal/protocol"
	"github.com/dshills/xiterm/internal/renderer/core"
)

// MaxStyles bounds the style table. The engine allocates ids densely, so
// a larger id is a corrupt message.
const MaxStyles = 1 << 16

// ErrStyleID indicates a style id at or above MaxStyles.
var ErrStyleID = errors.New("style id out of range")

// Reserved is the number of engine-intrinsic style ids.
const Reserved = 2

// Reserved style ids.
const (
	IDSelection uint64 = 0
	IDFind      uint64 = 1
)

// Registry maps style ids to styles.
type Registry struct {
	styles []core.Style
}

// NewRegistry returns a registry holding the reserved styles.
func NewRegistry() *Registry {
	r := &Registry{styles: make([]core.Style, Reserved)}
	r.styles[IDSelection] = core.Style{Attrs: core.AttrReverse}
	r.styles[IDFind] = core.Style{Attrs: core.AttrUnderline}
	return r
}

// Define sets style id. Defining an id past the end grows the table with
// default styles up to and including id. Ids of MaxStyles and above are
// rejected with ErrStyleID.
func (r *Registry) Define(id uint64, s core.Style) error {
	if id >= MaxStyles {
		return fmt.Errorf("style %d: %w", id, ErrStyleID)
	}
	if id >= uint64(len(r.styles)) {
		grown := make([]core.Style, id+1)
		copy(grown, r.styles)
		r.styles = grown
	}
	r.styles[id] = s
	return nil
}

// Get returns style id. Unknown ids report false and a default style.
func (r *Registry) Get(id uint64) (core.Style, bool) {
	if id >= uint64(len(r.styles)) {
		return core.Style{}, false
	}
	return r.styles[id], true
}

// Len returns the size of the table.
func (r *Registry) Len() int {
	return len(r.styles)
}

// FromDefStyle converts an engine style definition. A weight of 700 or more
// is bold; colors are ARGB.
func FromDefStyle(d *protocol.DefStyle) core.Style {
	var s core.Style
	if d.FgColor != nil {
		c := core.ColorFromARGB(*d.FgColor)
		s.Fg = &c
	}
	if d.BgColor != nil {
		c := core.ColorFromARGB(*d.BgColor)
		s.Bg = &c
	}
	if d.Bold() {
		s.Attrs = s.Attrs.With(core.AttrBold)
	}
	if d.Italic != nil && *d.Italic {
		s.Attrs = s.Attrs.With(core.AttrItalic)
	}
	if d.Underline != nil && *d.Underline {
		s.Attrs = s.Attrs.With(core.AttrUnderline)
	}
	return s
}
