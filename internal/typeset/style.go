// Package typeset measures and wraps styled text.
//
// Faces are parsed TrueType fonts held in a Registry; the Measurer turns a
// string, a Style and a wrap width into a Block of lines whose geometry the
// canvas later draws verbatim, so measuring and drawing can never disagree.
package typeset

import (
	"strings"

	"github.com/blockedby/resumekit/internal/layout"
)

// DefaultFamily is used when a requested family is not registered.
const DefaultFamily = "Go"

// DefaultSize is used when a style has no size.
const DefaultSize = 12.0

// Weight is a font weight class.
type Weight int

const (
	Regular Weight = iota
	Medium
	Bold
)

// String returns the weight name as used in font file names.
func (w Weight) String() string {
	switch w {
	case Medium:
		return "Medium"
	case Bold:
		return "Bold"
	default:
		return "Regular"
	}
}

// fallbacks lists the weights to try, closest first.
func (w Weight) fallbacks() []Weight {
	switch w {
	case Medium:
		return []Weight{Medium, Regular, Bold}
	case Bold:
		return []Weight{Bold, Medium, Regular}
	default:
		return []Weight{Regular, Medium, Bold}
	}
}

// Align is horizontal text alignment inside a box.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Style describes how a run of text is set.
type Style struct {
	Family string
	Size   float64
	Weight Weight
	Italic bool
	Color  layout.Color
	// Leading multiplies the face's natural line height. Zero means 1.
	Leading float64
}

// With returns a copy of s with the given size.
func (s Style) With(size float64) Style {
	s.Size = size
	return s
}

// Colored returns a copy of s with the given color.
func (s Style) Colored(c layout.Color) Style {
	s.Color = c
	return s
}

func (s Style) size() float64 {
	if s.Size <= 0 {
		return DefaultSize
	}
	return s.Size
}

func (s Style) leading() float64 {
	if s.Leading <= 0 {
		return 1
	}
	return s.Leading
}

// normalizeFamily folds case and drops separators so "Playfair Display",
// "PlayfairDisplay" and "playfair-display" name the same family.
func normalizeFamily(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch r {
		case ' ', '-', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
