package typeset

import (
	"strings"

	"github.com/blockedby/resumekit/internal/layout"
)

// Line is one wrapped line of a Block.
type Line struct {
	Text  string
	Width float64
}

// Block is measured, wrapped text ready to be drawn.
type Block struct {
	Lines []Line
	// Style is the style that was requested.
	Style Style
	// Face is the face actually used.
	Face *Face
	// Substituted is set when Face is not the requested variant.
	Substituted bool
	// Replaced is set when runes Face cannot draw, or bytes that are not
	// UTF-8, were swapped for a replacement character.
	Replaced bool

	FontSize   float64
	Ascent     float64
	LineHeight float64
	Width      float64
	Height     float64
}

// Bounds returns the block's bounding box size.
func (b Block) Bounds() layout.Size {
	return layout.Size{W: b.Width, H: b.Height}
}

// Empty reports whether the block has no lines.
func (b Block) Empty() bool {
	return len(b.Lines) == 0
}

// Text returns the wrapped lines joined by newlines.
func (b Block) Text() string {
	parts := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

// Baseline returns the offset of line i's baseline from the top of the block.
func (b Block) Baseline(i int) float64 {
	natural := b.Face.LineHeight(b.FontSize)
	return float64(i)*b.LineHeight + (b.LineHeight-natural)/2 + b.Ascent
}

// Measurer computes text bounding boxes. It holds no per-document state and
// is safe for concurrent use.
type Measurer struct {
	fonts *Registry
}

// NewMeasurer returns a measurer over the given registry. A nil registry
// gets the built-in Go fonts.
func NewMeasurer(fonts *Registry) *Measurer {
	if fonts == nil {
		fonts = NewRegistry()
	}
	return &Measurer{fonts: fonts}
}

// Fonts returns the registry the measurer resolves faces from.
func (m *Measurer) Fonts() *Registry {
	return m.fonts
}

// Measure returns the minimal box holding text word-wrapped at maxWidth.
// Blank text measures as zero.
func (m *Measurer) Measure(text string, st Style, maxWidth float64) layout.Size {
	return m.Layout(text, st, maxWidth).Bounds()
}

// Layout wraps text at maxWidth and returns the resulting lines with their
// metrics. Blank text yields an empty block of zero size. Lines only hold
// runes the face has glyphs for, so what is measured is what gets drawn.
func (m *Measurer) Layout(text string, st Style, maxWidth float64) Block {
	face, exact := m.fonts.Resolve(st)
	size := st.size()
	text, replaced := face.Sanitize(text)

	b := Block{
		Style:       st,
		Face:        face,
		Substituted: !exact,
		Replaced:    replaced,
		FontSize:    size,
		Ascent:      face.Ascent(size),
		LineHeight:  face.LineHeight(size) * st.leading(),
	}

	width := func(s string) float64 { return face.Width(s, size) }
	for _, l := range wrapText(text, maxWidth, width) {
		w := width(l)
		b.Lines = append(b.Lines, Line{Text: l, Width: w})
		if w > b.Width {
			b.Width = w
		}
	}
	b.Height = float64(len(b.Lines)) * b.LineHeight
	return b
}

// LineHeight returns the line height a single line of st would take.
func (m *Measurer) LineHeight(st Style) float64 {
	face, _ := m.fonts.Resolve(st)
	return face.LineHeight(st.size()) * st.leading()
}
