package canvas

import (
	"image"

	"github.com/blockedby/resumekit/internal/layout"
	"github.com/blockedby/resumekit/internal/typeset"
)

// OpKind identifies a display list operation.
type OpKind int

const (
	// OpFillRect fills Rect with Color.
	OpFillRect OpKind = iota
	// OpFillEllipse fills the ellipse inscribed in Rect.
	OpFillEllipse
	// OpFillRounded fills Rect with corners rounded by Radius.
	OpFillRounded
	// OpStrokeRect outlines Rect with LineWidth.
	OpStrokeRect
	// OpLine strokes From-To with LineWidth.
	OpLine
	// OpImage paints Image scaled into Rect.
	OpImage
	// OpText draws Text with its top-left corner at Rect.Min and Rect.W as
	// the alignment box.
	OpText
	// OpPushClip intersects the clip region with Clip over Rect.
	OpPushClip
	// OpPopClip restores the clip region saved by the matching OpPushClip.
	OpPopClip
	// OpPushRotate rotates subsequent drawing by Angle degrees
	// counterclockwise around Pivot.
	OpPushRotate
	// OpPopRotate restores the transform saved by the matching OpPushRotate.
	OpPopRotate
)

var opNames = map[OpKind]string{
	OpFillRect:    "fill_rect",
	OpFillEllipse: "fill_ellipse",
	OpFillRounded: "fill_rounded",
	OpStrokeRect:  "stroke_rect",
	OpLine:        "line",
	OpImage:       "image",
	OpText:        "text",
	OpPushClip:    "push_clip",
	OpPopClip:     "pop_clip",
	OpPushRotate:  "push_rotate",
	OpPopRotate:   "pop_rotate",
}

// String returns the op name.
func (k OpKind) String() string {
	if n, ok := opNames[k]; ok {
		return n
	}
	return "unknown"
}

// Op is one recorded drawing call.
type Op struct {
	Kind OpKind
	// Group is the slash-separated path of the groups open when the op was
	// recorded, e.g. "work/row".
	Group string

	Rect      layout.Rect
	Color     layout.Color
	Radius    float64
	LineWidth float64
	From, To  layout.Point

	Clip  layout.Clip
	Angle float64
	Pivot layout.Point

	Image *Image
	Text  *Text
}

// Image is a bitmap referenced by an OpImage. Key identifies it within the
// page so encoders embed each bitmap once.
type Image struct {
	Key string
	Src image.Image
}

// Text is a measured block referenced by an OpText.
type Text struct {
	Block typeset.Block
	Align typeset.Align
}

// LineX returns the x offset of line i inside a box of the given width.
func (t *Text) LineX(i int, width float64) float64 {
	lw := t.Block.Lines[i].Width
	switch t.Align {
	case typeset.AlignCenter:
		return (width - lw) / 2
	case typeset.AlignRight:
		return width - lw
	default:
		return 0
	}
}

// InGroup reports whether the op was recorded inside group (or one of its
// subgroups). An empty group matches everything.
func (o Op) InGroup(group string) bool {
	if group == "" || o.Group == group {
		return true
	}
	return len(o.Group) > len(group) && o.Group[:len(group)] == group && o.Group[len(group)] == '/'
}
