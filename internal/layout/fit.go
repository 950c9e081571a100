package layout

import "math"

// FitMode selects how an image is scaled into a target rectangle.
type FitMode int

const (
	// AspectFill scales the image to cover the target and crops the overflow.
	AspectFill FitMode = iota
	// AspectFit scales the image to fit inside the target.
	AspectFit
)

// String returns the mode name.
func (m FitMode) String() string {
	switch m {
	case AspectFit:
		return "aspectFit"
	default:
		return "aspectFill"
	}
}

// ClipKind is the shape of a clip region.
type ClipKind int

const (
	ClipNone ClipKind = iota
	ClipRect
	ClipRounded
	ClipEllipse
)

// Clip describes a clip shape over some rectangle.
type Clip struct {
	Kind   ClipKind
	Radius float64
}

// Clip shapes.
var (
	NoClip     = Clip{Kind: ClipNone}
	RectClip   = Clip{Kind: ClipRect}
	CircleClip = Clip{Kind: ClipEllipse}
)

// Rounded returns a rounded-rectangle clip with corner radius r.
func Rounded(r float64) Clip {
	return Clip{Kind: ClipRounded, Radius: r}
}

// Placement is the result of fitting an image into a target.
type Placement struct {
	// Draw is where the full image is painted. For AspectFill it may extend
	// past Target.
	Draw Rect
	// Target is the region the image was fitted to.
	Target Rect
	// Clip is the shape to clip to before painting, applied over Target.
	Clip Clip
	// Scale is the factor applied to the image size.
	Scale float64
}

// Clipped reports whether the caller must install a clip before painting.
func (p Placement) Clipped() bool {
	return p.Clip.Kind != ClipNone
}

// Fit computes where an image of size img should be painted to fill or fit
// target. AspectFill always clips to at least the target rectangle so the
// overflow never escapes it; a circle or rounded clip replaces that with the
// tighter shape. Degenerate image sizes are stretched over the target.
func Fit(img Size, target Rect, mode FitMode, clip Clip) Placement {
	p := Placement{Target: target, Clip: clip, Scale: 1}

	if img.W <= 0 || img.H <= 0 || target.Empty() {
		p.Draw = target
		if mode == AspectFill && clip.Kind == ClipNone {
			p.Clip = RectClip
		}
		return p
	}

	sx := target.W / img.W
	sy := target.H / img.H

	switch mode {
	case AspectFit:
		p.Scale = math.Min(sx, sy)
	default:
		p.Scale = math.Max(sx, sy)
		if clip.Kind == ClipNone {
			p.Clip = RectClip
		}
	}

	p.Draw = target.Centered(Size{W: img.W * p.Scale, H: img.H * p.Scale})
	return p
}
