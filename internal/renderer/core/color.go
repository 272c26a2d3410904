// Package core provides value types shared by the renderer and its backends.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a terminal color: true color RGB, a palette index, or the
// terminal default.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-255).
	Indexed bool
	// Default is the terminal's own foreground or background.
	Default bool
}

// ColorDefault is the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true color.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates a palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ColorFromARGB decodes a packed 0xAARRGGBB value. Alpha is ignored.
func ColorFromARGB(argb uint32) Color {
	return Color{
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
	}
}

// ColorFromHex parses "#rrggbb" or "#rgb".
func ColorFromHex(hex string) (Color, error) {
	h := strings.TrimPrefix(hex, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q", hex)
	}
	return ColorFromARGB(uint32(v)), nil
}

// IsDefault reports whether c is the terminal default.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals reports whether two colors render identically.
func (c Color) Equals(other Color) bool {
	switch {
	case c.Default || other.Default:
		return c.Default == other.Default
	case c.Indexed || other.Indexed:
		return c.Indexed == other.Indexed && c.R == other.R
	default:
		return c.R == other.R && c.G == other.G && c.B == other.B
	}
}

// String returns "#rrggbb", "idx(n)" or "default".
func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.Indexed:
		return fmt.Sprintf("idx(%d)", c.R)
	default:
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
}

// xterm palette entries 16-255: a 6x6x6 cube and a gray ramp. The first 16
// entries are skipped because terminals remap them freely.
var palette = sync.OnceValue(func() []colorful.Color {
	levels := [6]uint8{0, 95, 135, 175, 215, 255}
	p := make([]colorful.Color, 0, 240)
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p = append(p, colorful.Color{
					R: float64(levels[r]) / 255,
					G: float64(levels[g]) / 255,
					B: float64(levels[b]) / 255,
				})
			}
		}
	}
	for i := 0; i < 24; i++ {
		v := float64(8+10*i) / 255
		p = append(p, colorful.Color{R: v, G: v, B: v})
	}
	return p
})

// To256 returns the perceptually nearest xterm-256 palette color. Indexed
// and default colors are returned unchanged.
func (c Color) To256() Color {
	if c.Default || c.Indexed {
		return c
	}
	want := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}

	best, bestDist := 0, -1.0
	for i, p := range palette() {
		d := want.DistanceLab(p)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return ColorFromIndex(uint8(16 + best))
}

// ColorMode selects how true colors are emitted.
type ColorMode int

const (
	// ColorModeTrue emits 24-bit colors.
	ColorModeTrue ColorMode = iota
	// ColorMode256 downsamples to the xterm-256 palette.
	ColorMode256
)

// String returns the configuration name of the mode.
func (m ColorMode) String() string {
	switch m {
	case ColorModeTrue:
		return "truecolor"
	case ColorMode256:
		return "256"
	default:
		return fmt.Sprintf("ColorMode(%d)", int(m))
	}
}

// ParseColorMode parses "truecolor" (or "24bit") and "256".
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "truecolor", "24bit":
		return ColorModeTrue, nil
	case "256":
		return ColorMode256, nil
	default:
		return ColorModeTrue, fmt.Errorf("unknown color mode %q", s)
	}
}

// Convert adapts c to the mode.
func (m ColorMode) Convert(c Color) Color {
	if m == ColorMode256 {
		return c.To256()
	}
	return c
}
