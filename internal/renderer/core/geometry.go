package core

// ScreenPos is a zero-based screen position.
type ScreenPos struct {
	Row int
	Col int
}

// NewScreenPos creates a screen position.
func NewScreenPos(row, col int) ScreenPos {
	return ScreenPos{Row: row, Col: col}
}

// Rect is a screen region.
type Rect struct {
	Top, Left     int
	Height, Width int
}

// Bottom returns the row one past the region.
func (r Rect) Bottom() int {
	return r.Top + r.Height
}

// Contains reports whether p lies inside the region.
func (r Rect) Contains(p ScreenPos) bool {
	return p.Row >= r.Top && p.Row < r.Bottom() && p.Col >= r.Left && p.Col < r.Left+r.Width
}

// IsEmpty reports whether the region has no cells.
func (r Rect) IsEmpty() bool {
	return r.Height <= 0 || r.Width <= 0
}
