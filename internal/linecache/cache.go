// Package linecache rebuilds the lines of a view from the engine's diff
// updates.
//
// The engine never resends lines the client already holds. Each Update
// describes the new state as a sequence of operations against the old one:
// insert fresh lines, mark lines as not yet known, copy lines from the old
// state, or skip them. A Cache only ever holds one contiguous run of known
// lines, with counts of unknown lines before and after it.
//
// Line numbers in this package are absolute: line 0 is the first line of the
// document, whether or not it is known.
package linecache

import (
	"errors"
	"fmt"

	"github.com/dshills/xiterm/internal/protocol"
)

// Update errors. The cache is always replaced, even when one is returned.
var (
	// ErrLengthMismatch indicates the rebuilt cache does not have the
	// length implied by the update's operations.
	ErrLengthMismatch = errors.New("line count does not match update")

	// ErrInterleaved indicates known lines were placed after an unknown run
	// that follows other known lines.
	ErrInterleaved = errors.New("known lines interleaved with unknown lines")

	// ErrUnsupportedOp indicates an operation kind the cache ignores.
	ErrUnsupportedOp = errors.New("unsupported op")
)

// Position is a location in a view: an absolute line and a display column.
type Position struct {
	Line uint64
	Col  int
}

// Stats counts the lines touched by the last update.
type Stats struct {
	Inserted    uint64
	Copied      uint64
	Updated     uint64
	Skipped     uint64
	Invalidated uint64
}

// Cache holds the client's copy of one view.
type Cache struct {
	invalidBefore uint64
	lines         []Line
	invalidAfter  uint64

	rev         *uint64
	pristine    bool
	stats       Stats
	interleaved bool
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{}
}

// Len returns the total number of lines, known or not.
func (c *Cache) Len() uint64 {
	return c.invalidBefore + uint64(len(c.lines)) + c.invalidAfter
}

// Known returns the range [first, end) of known lines.
func (c *Cache) Known() (first, end uint64) {
	return c.invalidBefore, c.invalidBefore + uint64(len(c.lines))
}

// Rev returns the revision of the last update, if the engine sent one.
func (c *Cache) Rev() (uint64, bool) {
	if c.rev == nil {
		return 0, false
	}
	return *c.rev, true
}

// Pristine reports whether the last update marked the document unmodified.
func (c *Cache) Pristine() bool {
	return c.pristine
}

// Stats returns counts for the last update.
func (c *Cache) Stats() Stats {
	return c.stats
}

// Update replaces the cache contents with the state described by u. The
// old state is drained as the new one is built.
func (c *Cache) Update(u protocol.Update) error {
	old := &Cache{}
	*old, *c = *c, Cache{rev: u.Rev, pristine: u.Pristine}

	var expected uint64
	var errs []error
	for _, op := range u.Ops {
		switch op.Kind {
		case protocol.OpIns:
			c.ins(op.Lines)
		case protocol.OpInvalidate:
			c.invalidate(op.N)
			c.stats.Invalidated += op.N
		case protocol.OpCopy:
			c.copyFrom(old, op.N, nil)
		case protocol.OpUpdate:
			c.copyFrom(old, op.N, op.Lines)
		case protocol.OpSkip:
			c.stats.Skipped += old.drop(op.N)
			continue
		default:
			errs = append(errs, fmt.Errorf("%q: %w", op.Kind, ErrUnsupportedOp))
			continue
		}
		expected += op.N
	}

	if c.interleaved {
		errs = append(errs, ErrInterleaved)
	}
	if got := c.Len(); got != expected {
		errs = append(errs, fmt.Errorf("have %d lines, ops imply %d: %w", got, expected, ErrLengthMismatch))
	}
	return errors.Join(errs...)
}

func (c *Cache) ins(lines []protocol.Line) {
	for _, l := range lines {
		line := Line{Cursors: l.Cursor, Styles: l.Styles}
		if l.Text != nil {
			line.Text = *l.Text
		}
		c.appendKnown(line)
	}
	c.stats.Inserted += uint64(len(lines))
}

// appendKnown adds a known line at the end of the known run.
func (c *Cache) appendKnown(l Line) {
	if c.invalidAfter > 0 {
		c.interleaved = true
	}
	c.lines = append(c.lines, l)
}

// invalidate adds n unknown lines. Unknown lines only ever sit before or
// after the known run.
func (c *Cache) invalidate(n uint64) {
	if len(c.lines) == 0 {
		c.invalidBefore += n
	} else {
		c.invalidAfter += n
	}
}

// copyFrom moves up to n lines from old. Lines are taken from old's leading
// unknown run first, then from its known lines, then from its trailing
// unknown run. If updates is not nil, copied known lines take their cursors
// and styles from it.
func (c *Cache) copyFrom(old *Cache, n uint64, updates []protocol.Line) {
	if k := min(n, old.invalidBefore); k > 0 {
		old.invalidBefore -= k
		c.invalidate(k)
		n -= k
		updates = advance(updates, k)
	}

	if k := min(n, uint64(len(old.lines))); k > 0 {
		for i, l := range old.lines[:k] {
			if i < len(updates) {
				l.Cursors = updates[i].Cursor
				l.Styles = updates[i].Styles
				c.stats.Updated++
			}
			c.appendKnown(l)
		}
		old.lines = old.lines[k:]
		c.stats.Copied += k
		n -= k
	}

	if k := min(n, old.invalidAfter); k > 0 {
		old.invalidAfter -= k
		c.invalidate(k)
	}
}

func advance(lines []protocol.Line, n uint64) []protocol.Line {
	if n >= uint64(len(lines)) {
		return nil
	}
	return lines[n:]
}

// drop discards up to n lines with the same precedence as copyFrom and
// returns how many were discarded.
func (c *Cache) drop(n uint64) uint64 {
	var dropped uint64
	if k := min(n, c.invalidBefore); k > 0 {
		c.invalidBefore -= k
		n -= k
		dropped += k
	}
	if k := min(n, uint64(len(c.lines))); k > 0 {
		c.lines = c.lines[k:]
		n -= k
		dropped += k
	}
	if k := min(n, c.invalidAfter); k > 0 {
		c.invalidAfter -= k
		dropped += k
	}
	return dropped
}

// Lines returns lines [start, end). The second result is false if any part
// of the range is not known; callers should wait for more data rather than
// treat that as empty. The returned slice must not be modified.
func (c *Cache) Lines(start, end uint64) ([]Line, bool) {
	first, last := c.Known()
	if start > end || start < first || end > last {
		return nil, false
	}
	return c.lines[start-first : end-first], true
}

// Line returns line n if it is known.
func (c *Cache) Line(n uint64) (*Line, bool) {
	first, last := c.Known()
	if n < first || n >= last {
		return nil, false
	}
	return &c.lines[n-first], true
}

// IsEOL reports whether the character drawn at pos is its line's
// terminator. Unknown lines report false.
func (c *Cache) IsEOL(pos Position) bool {
	l, ok := c.Line(pos.Line)
	if !ok {
		return false
	}
	return l.IsEOL(pos.Col)
}

// Cursors returns the position of every cursor, top to bottom.
func (c *Cache) Cursors() []Position {
	var out []Position
	for i := range c.lines {
		l := &c.lines[i]
		for _, off := range l.Cursors {
			out = append(out, Position{Line: c.invalidBefore + uint64(i), Col: l.Column(off)})
		}
	}
	return out
}
