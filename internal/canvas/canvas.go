// Package canvas records the drawing calls of one page as a display list.
//
// Templates draw onto a Canvas; encoders replay its ops. The PDF encoder
// and the thumbnail rasterizer consume the same list, and tests inspect it
// directly instead of parsing PDF output.
package canvas

import (
	"image"
	"strings"

	"github.com/blockedby/resumekit/internal/layout"
	"github.com/blockedby/resumekit/internal/typeset"
)

// DiagnosticKind classifies a non-fatal rendering problem.
type DiagnosticKind string

const (
	// MissingAsset means a named asset could not be resolved and a
	// fallback shape was drawn instead.
	MissingAsset DiagnosticKind = "missing_asset"
	// MissingFont means a text block was set in a substitute face.
	MissingFont DiagnosticKind = "missing_font"
	// MissingGlyph means some characters of a text block had no glyph in
	// its face and were drawn as a replacement character.
	MissingGlyph DiagnosticKind = "missing_glyph"
)

// Diagnostic reports a fallback taken while drawing.
type Diagnostic struct {
	Kind DiagnosticKind `json:"kind"`
	Name string         `json:"name"`
}

// Canvas is a single fixed-size page. Coordinates are points with the
// origin at the top-left corner and y growing downward.
//
// A Canvas is not safe for concurrent use.
type Canvas struct {
	size   layout.Size
	ops    []Op
	groups []string
	clips  int
	turns  int
	images map[string]*Image
	diags  []Diagnostic
	seen   map[Diagnostic]struct{}
}

// New returns an empty page of the given size.
func New(size layout.Size) *Canvas {
	return &Canvas{
		size:   size,
		images: make(map[string]*Image),
		seen:   make(map[Diagnostic]struct{}),
	}
}

// Size returns the page size.
func (c *Canvas) Size() layout.Size { return c.size }

// Bounds returns the page rectangle.
func (c *Canvas) Bounds() layout.Rect {
	return layout.Rect{W: c.size.W, H: c.size.H}
}

// Ops returns the recorded ops in drawing order.
func (c *Canvas) Ops() []Op { return c.ops }

// Diagnostics returns the distinct diagnostics in the order first seen.
func (c *Canvas) Diagnostics() []Diagnostic { return c.diags }

// Warn records a diagnostic once.
func (c *Canvas) Warn(kind DiagnosticKind, name string) {
	d := Diagnostic{Kind: kind, Name: name}
	if _, ok := c.seen[d]; ok {
		return
	}
	c.seen[d] = struct{}{}
	c.diags = append(c.diags, d)
}

func (c *Canvas) record(op Op) {
	op.Group = strings.Join(c.groups, "/")
	c.ops = append(c.ops, op)
}

// Group tags every op recorded by fn with name.
func (c *Canvas) Group(name string, fn func()) {
	c.groups = append(c.groups, name)
	defer func() { c.groups = c.groups[:len(c.groups)-1] }()
	fn()
}

// FillRect fills r.
func (c *Canvas) FillRect(r layout.Rect, col layout.Color) {
	c.record(Op{Kind: OpFillRect, Rect: r, Color: col})
}

// FillEllipse fills the ellipse inscribed in r.
func (c *Canvas) FillEllipse(r layout.Rect, col layout.Color) {
	c.record(Op{Kind: OpFillEllipse, Rect: r, Color: col})
}

// FillRoundedRect fills r with corners of the given radius.
func (c *Canvas) FillRoundedRect(r layout.Rect, radius float64, col layout.Color) {
	if radius <= 0 {
		c.FillRect(r, col)
		return
	}
	c.record(Op{Kind: OpFillRounded, Rect: r, Radius: radius, Color: col})
}

// StrokeRect outlines r.
func (c *Canvas) StrokeRect(r layout.Rect, col layout.Color, width float64) {
	c.record(Op{Kind: OpStrokeRect, Rect: r, Color: col, LineWidth: width})
}

// Line strokes a straight segment.
func (c *Canvas) Line(from, to layout.Point, col layout.Color, width float64) {
	c.record(Op{Kind: OpLine, From: from, To: to, Color: col, LineWidth: width})
}

// DrawImage paints img stretched into r. Images are deduplicated by key;
// the first bitmap registered under a key wins.
func (c *Canvas) DrawImage(key string, img image.Image, r layout.Rect) {
	if img == nil || r.Empty() {
		return
	}
	im, ok := c.images[key]
	if !ok {
		im = &Image{Key: key, Src: img}
		c.images[key] = im
	}
	c.record(Op{Kind: OpImage, Rect: r, Image: im})
}

// PlaceImage fits img into target with the given mode and clip and paints
// it. It returns the placement used.
func (c *Canvas) PlaceImage(key string, img image.Image, target layout.Rect, mode layout.FitMode, clip layout.Clip) layout.Placement {
	b := img.Bounds()
	p := layout.Fit(layout.Size{W: float64(b.Dx()), H: float64(b.Dy())}, target, mode, clip)
	c.Clip(p.Target, p.Clip, func() {
		c.DrawImage(key, img, p.Draw)
	})
	return p
}

// DrawText draws a measured block with its top-left corner at at. Lines are
// aligned inside a box of the given width; a zero width uses the block's own.
func (c *Canvas) DrawText(b typeset.Block, at layout.Point, width float64, align typeset.Align) {
	if b.Empty() {
		return
	}
	if b.Substituted {
		c.Warn(MissingFont, b.Style.Family)
	}
	if b.Replaced {
		c.Warn(MissingGlyph, b.Face.Family())
	}
	if width <= 0 {
		width = b.Width
	}
	c.record(Op{
		Kind:  OpText,
		Rect:  layout.Rect{X: at.X, Y: at.Y, W: width, H: b.Height},
		Color: b.Style.Color,
		Text:  &Text{Block: b, Align: align},
	})
}

// Clip restricts the ops recorded by fn to the clip shape over r. A
// ClipNone shape runs fn unclipped.
func (c *Canvas) Clip(r layout.Rect, clip layout.Clip, fn func()) {
	if clip.Kind == layout.ClipNone {
		fn()
		return
	}
	c.record(Op{Kind: OpPushClip, Rect: r, Clip: clip})
	c.clips++
	defer func() {
		c.clips--
		c.record(Op{Kind: OpPopClip})
	}()
	fn()
}

// Rotate rotates the ops recorded by fn by deg degrees counterclockwise
// around pivot.
func (c *Canvas) Rotate(deg float64, pivot layout.Point, fn func()) {
	if deg == 0 {
		fn()
		return
	}
	c.record(Op{Kind: OpPushRotate, Angle: deg, Pivot: pivot})
	c.turns++
	defer func() {
		c.turns--
		c.record(Op{Kind: OpPopRotate})
	}()
	fn()
}

// Balanced reports whether every clip and rotation has been closed.
func (c *Canvas) Balanced() bool {
	return c.clips == 0 && c.turns == 0
}

// Find returns the ops of the given kind recorded inside group.
func (c *Canvas) Find(kind OpKind, group string) []Op {
	var out []Op
	for _, op := range c.ops {
		if op.Kind == kind && op.InGroup(group) {
			out = append(out, op)
		}
	}
	return out
}

// Texts returns the text of every line drawn inside group, in order.
func (c *Canvas) Texts(group string) []string {
	var out []string
	for _, op := range c.Find(OpText, group) {
		for _, l := range op.Text.Block.Lines {
			out = append(out, l.Text)
		}
	}
	return out
}

// TextBounds returns the union of the boxes of text drawn inside group.
// It returns the zero Rect when nothing was drawn.
func (c *Canvas) TextBounds(group string) layout.Rect {
	var u layout.Rect
	first := true
	for _, op := range c.Find(OpText, group) {
		r := op.Rect
		if first {
			u, first = r, false
			continue
		}
		u = union(u, r)
	}
	return u
}

func union(a, b layout.Rect) layout.Rect {
	x0, y0 := min(a.X, b.X), min(a.Y, b.Y)
	x1, y1 := max(a.Right(), b.Right()), max(a.Bottom(), b.Bottom())
	return layout.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
