package core

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cells returns the number of screen cells a grapheme cluster occupies. Line
// terminators take none. Other control characters take one, as they are
// drawn as blanks.
func Cells(cluster string) int {
	r, _ := utf8.DecodeRuneInString(cluster)
	switch {
	case r == '\n' || r == '\r':
		return 0
	case unicode.IsControl(r):
		return 1
	}
	return runewidth.StringWidth(cluster)
}

// Clusters calls fn for each grapheme cluster of text along with its cell
// count. It stops early when fn returns false.
func Clusters(text string, fn func(cluster string, cells int) bool) {
	state := -1
	var cluster string
	for text != "" {
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		if !fn(cluster, Cells(cluster)) {
			return
		}
	}
}
