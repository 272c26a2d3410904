package renderer

import "slices"

// Cell is one position of a screen grid.
type Cell struct {
	// Text is the grapheme cluster to display. An empty string marks the
	// second column of a wide character, which is never printed itself.
	Text string

	// Reverse draws the cell in reverse video. Cursors use it.
	Reverse bool

	// Starts lists style ids whose spans begin at this cell.
	Starts []uint64

	// Ends lists style ids whose spans end just before this cell.
	Ends []uint64
}

// EmptyCell returns a blank cell.
func EmptyCell() Cell {
	return Cell{Text: " "}
}

// IsContinuation reports whether the cell is covered by the wide character
// to its left.
func (c Cell) IsContinuation() bool {
	return c.Text == ""
}

// Equals reports whether two cells render identically.
func (c Cell) Equals(other Cell) bool {
	return c.Text == other.Text &&
		c.Reverse == other.Reverse &&
		slices.Equal(c.Starts, other.Starts) &&
		slices.Equal(c.Ends, other.Ends)
}

func (c Cell) clone() Cell {
	c.Starts = slices.Clone(c.Starts)
	c.Ends = slices.Clone(c.Ends)
	return c
}

// grid is a row-major cell matrix.
type grid [][]Cell

func newGrid(width, height int) grid {
	g := make(grid, height)
	for y := range g {
		g[y] = make([]Cell, width)
		for x := range g[y] {
			g[y][x] = EmptyCell()
		}
	}
	return g
}

func (g grid) clone() grid {
	out := make(grid, len(g))
	for y, row := range g {
		out[y] = make([]Cell, len(row))
		for x, c := range row {
			out[y][x] = c.clone()
		}
	}
	return out
}

func rowsEqual(a, b []Cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equals(b[i]) {
			return false
		}
	}
	return true
}
