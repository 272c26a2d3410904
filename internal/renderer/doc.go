// Package renderer provides the screen layer of the editor.
//
// A Screen holds two cell grids. Callers compose a frame in the pending grid
// with WriteStr, ApplyStyle and DrawCursor, then call Flush, which compares
// every pending row to the row last written to the terminal and emits escape
// sequences only for rows that changed.
//
// Style spans are not stored per cell. ApplyStyle records a start marker on
// the first cell of a span and an end marker on the cell just past it; Flush
// walks each row left to right, keeping a multiset of active span ids, and
// derives the attribute state of every cell from it. Attributes are toggled
// only when the derived state changes, so adjacent or overlapping spans that
// share an attribute never re-enable it.
//
// Multiple cursors are drawn as reverse-video cells since a terminal exposes
// only one hardware cursor, which stays hidden.
//
// Usage:
//
//	s := renderer.NewScreen(out, width, height, style.NewRegistry())
//	s.WriteStr(core.NewScreenPos(0, 0), "hello")
//	s.ApplyStyle(core.NewScreenPos(0, 0), 2, 5)
//	s.DrawCursor(core.NewScreenPos(0, 5))
//	if err := s.Flush(); err != nil {
//		...
//	}
package renderer
