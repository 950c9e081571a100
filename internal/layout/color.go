package layout

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an opaque RGB color.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Common colors.
var (
	White = Color{R: 0xFF, G: 0xFF, B: 0xFF}
	Black = Color{}

	// FallbackColor fills the shape drawn in place of a missing asset.
	FallbackColor = Color{R: 0xD9, G: 0xD9, B: 0xD9}

	// PlaceholderInk is used for placeholder captions such as "No Photo".
	PlaceholderInk = Color{R: 0x80, G: 0x80, B: 0x80}
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex parses #rrggbb or rrggbb.
func ParseHex(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return Color{}, fmt.Errorf("color %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// MustHex is ParseHex for package-level palettes; it panics on bad input.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}
