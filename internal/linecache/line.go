package linecache

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/xiterm/internal/renderer/core"
)

// ErrBadStyles indicates a style encoding that cannot be decoded.
var ErrBadStyles = errors.New("malformed style encoding")

// Line is one known line of a view.
type Line struct {
	// Text is the line content, including its trailing newline if any.
	Text string

	// Cursors holds the UTF-8 byte offsets of cursors on this line.
	Cursors []uint64

	// Styles is the wire encoding of the line's style spans: a flat
	// sequence of (start delta, length, style id) triples.
	Styles []int64
}

// StyleSpan is a decoded style span. Start and Length are UTF-8 byte
// offsets into the line text.
type StyleSpan struct {
	Start  uint64
	Length uint64
	ID     uint64
}

// End returns the offset one past the span.
func (s StyleSpan) End() uint64 {
	return s.Start + s.Length
}

// Spans decodes the line's style encoding.
func (l *Line) Spans() ([]StyleSpan, error) {
	return DecodeStyles(l.Styles)
}

// DecodeStyles decodes delta-encoded style triples. Each start is relative to
// the end of the previous span.
func DecodeStyles(triples []int64) ([]StyleSpan, error) {
	if len(triples)%3 != 0 {
		return nil, fmt.Errorf("%d values: %w", len(triples), ErrBadStyles)
	}
	if len(triples) == 0 {
		return nil, nil
	}

	spans := make([]StyleSpan, 0, len(triples)/3)
	var end int64
	for i := 0; i < len(triples); i += 3 {
		start := end + triples[i]
		length, id := triples[i+1], triples[i+2]
		if start < 0 || length < 0 || id < 0 {
			return nil, fmt.Errorf("span %d (%d,%d,%d): %w", i/3, triples[i], length, id, ErrBadStyles)
		}
		spans = append(spans, StyleSpan{Start: uint64(start), Length: uint64(length), ID: uint64(id)})
		end = start + length
	}
	return spans, nil
}

// Column converts a byte offset into the display column where it is drawn.
// Offsets past the end of the text are clamped.
func (l *Line) Column(offset uint64) int {
	text := l.Text
	if offset < uint64(len(text)) {
		text = text[:offset]
	}

	col := 0
	core.Clusters(text, func(_ string, cells int) bool {
		col += cells
		return true
	})
	return col
}

// IsEOL reports whether the grapheme drawn at display column col is the
// line terminator.
func (l *Line) IsEOL(col int) bool {
	cur := 0
	eol := false
	core.Clusters(l.Text, func(g string, cells int) bool {
		if cur == col && strings.HasSuffix(g, "\n") {
			eol = true
		}
		cur += cells
		return !eol && cur <= col
	})
	return eol
}

// Content returns the text without its line terminator.
func (l *Line) Content() string {
	s := strings.TrimSuffix(l.Text, "\n")
	return strings.TrimSuffix(s, "\r")
}
