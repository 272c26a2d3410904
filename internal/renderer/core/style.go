package core

// Attribute is a set of text attribute flags.
type Attribute uint8

// Text attribute flags.
const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << iota
	AttrItalic
	AttrUnderline
	AttrReverse
)

// Has reports whether a contains attr.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// With returns a with attr added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Style is the visual style of a span. A nil color leaves the current color
// in place.
type Style struct {
	Fg    *Color
	Bg    *Color
	Attrs Attribute
}

// IsDefault reports whether the style changes nothing.
func (s Style) IsDefault() bool {
	return s.Fg == nil && s.Bg == nil && s.Attrs == AttrNone
}

// Equals reports whether two styles are identical.
func (s Style) Equals(other Style) bool {
	return colorPtrEqual(s.Fg, other.Fg) && colorPtrEqual(s.Bg, other.Bg) && s.Attrs == other.Attrs
}

func colorPtrEqual(a, b *Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equals(*b)
}
