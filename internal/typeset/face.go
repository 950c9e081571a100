package typeset

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Face is one parsed font file. Metrics are cached per rune in em units and
// shared by all renders; a Face is safe for concurrent use.
type Face struct {
	key    string
	family string
	weight Weight
	italic bool

	data []byte
	font *sfnt.Font
	upem float64

	// per-em vertical metrics
	ascent  float64
	descent float64
	height  float64

	mu     sync.RWMutex
	glyphs map[rune]glyph
}

type glyph struct {
	advance float64 // per em
	ok      bool    // the font maps the rune to a real glyph
}

func newFace(family string, w Weight, italic bool, data []byte) (*Face, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s %s: %w", family, w, err)
	}

	upem := float64(f.UnitsPerEm())
	if upem <= 0 {
		return nil, fmt.Errorf("font %s %s: invalid units per em", family, w)
	}

	var buf sfnt.Buffer
	m, err := f.Metrics(&buf, fixed.I(int(upem)), font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("font %s %s metrics: %w", family, w, err)
	}

	face := &Face{
		key:      faceKey(family, w, italic),
		family:   family,
		weight:   w,
		italic:   italic,
		data:     data,
		font:     f,
		upem:     upem,
		ascent:   fromFixed(m.Ascent) / upem,
		descent:  fromFixed(m.Descent) / upem,
		height:   fromFixed(m.Height) / upem,
		glyphs:   make(map[rune]glyph),
	}
	if face.height < face.ascent+face.descent {
		face.height = face.ascent + face.descent
	}
	return face, nil
}

func faceKey(family string, w Weight, italic bool) string {
	key := normalizeFamily(family) + "-" + strings.ToLower(w.String())
	if italic {
		key += "-italic"
	}
	return key
}

func fromFixed(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Key is a stable identifier for the face, unique within a registry.
func (f *Face) Key() string { return f.key }

// Family returns the family the face was registered under.
func (f *Face) Family() string { return f.family }

// Weight returns the face weight.
func (f *Face) Weight() Weight { return f.weight }

// Italic reports whether the face is italic.
func (f *Face) Italic() bool { return f.italic }

// Data returns the raw TrueType bytes, for embedding.
func (f *Face) Data() []byte { return f.data }

// Font returns the parsed font, for rasterizing.
func (f *Face) Font() *sfnt.Font { return f.font }

// Ascent returns the ascent at the given size.
func (f *Face) Ascent(size float64) float64 { return f.ascent * size }

// Descent returns the descent at the given size.
func (f *Face) Descent(size float64) float64 { return f.descent * size }

// LineHeight returns the natural line height at the given size.
func (f *Face) LineHeight(size float64) float64 { return f.height * size }

// Width returns the advance width of s at the given size. Kerning is not
// applied; the PDF writer does not kern either.
func (f *Face) Width(s string, size float64) float64 {
	var w float64
	for _, r := range s {
		w += f.advance(r)
	}
	return w * size
}

// HasGlyph reports whether the font maps r to a glyph other than .notdef.
func (f *Face) HasGlyph(r rune) bool {
	return f.glyph(r).ok
}

func (f *Face) advance(r rune) float64 {
	return f.glyph(r).advance
}

func (f *Face) glyph(r rune) glyph {
	f.mu.RLock()
	g, ok := f.glyphs[r]
	f.mu.RUnlock()
	if ok {
		return g
	}

	var buf sfnt.Buffer
	gi, err := f.font.GlyphIndex(&buf, r)
	if err != nil {
		gi = 0
	}
	g.ok = gi != 0
	adv, err := f.font.GlyphAdvance(&buf, gi, fixed.I(int(f.upem)), font.HintingNone)
	if err == nil {
		g.advance = fromFixed(adv) / f.upem
	}

	f.mu.Lock()
	f.glyphs[r] = g
	f.mu.Unlock()
	return g
}

// Sanitize returns s with invalid UTF-8 and every non-space rune the face
// has no glyph for replaced by U+FFFD, or by '?' when the face lacks that
// too. Runes outside the Basic Multilingual Plane are always replaced; the
// PDF writer cannot embed them.
func (f *Face) Sanitize(s string) (string, bool) {
	clean := func(r rune) bool {
		return r != utf8.RuneError && r <= 0xFFFF && (unicode.IsSpace(r) || f.HasGlyph(r))
	}

	dirty := false
	for _, r := range s {
		if !clean(r) {
			dirty = true
			break
		}
	}
	if !dirty {
		return s, false
	}

	repl := '?'
	if f.HasGlyph(utf8.RuneError) {
		repl = utf8.RuneError
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !clean(r) {
			r = repl
		}
		b.WriteRune(r)
	}
	return b.String(), true
}
