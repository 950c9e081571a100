package templates

import (
	"image"

	"github.com/blockedby/resumekit/internal/assets"
	"github.com/blockedby/resumekit/internal/canvas"
	"github.com/blockedby/resumekit/internal/layout"
	"github.com/blockedby/resumekit/internal/typeset"
)

const noPhotoLabel = "No Photo"

type shape int

const (
	box shape = iota
	oval
)

// page bundles the canvas with the shared measurer and asset store for one
// render pass.
type page struct {
	cv     *canvas.Canvas
	m      *typeset.Measurer
	assets assets.Resolver
}

func newPage(cv *canvas.Canvas, env Env) *page {
	p := &page{cv: cv, m: env.Measurer, assets: env.Assets}
	if p.m == nil {
		p.m = typeset.NewMeasurer(nil)
	}
	if p.assets == nil {
		p.assets = assets.None{}
	}
	return p
}

// text lays out s at width and draws it with its top-left corner at at.
func (p *page) text(s string, st typeset.Style, at layout.Point, width float64, align typeset.Align) typeset.Block {
	b := p.m.Layout(s, st, width)
	p.cv.DrawText(b, at, width, align)
	return b
}

// asset paints the named bitmap stretched over r. A missing asset is
// replaced by a flat shape over exactly the same rectangle.
func (p *page) asset(name string, r layout.Rect, fallback shape) {
	p.cv.Group(name, func() {
		a, err := p.assets.Resolve(name)
		if err != nil {
			p.cv.Warn(canvas.MissingAsset, name)
			if fallback == oval {
				p.cv.FillEllipse(r, layout.FallbackColor)
			} else {
				p.cv.FillRect(r, layout.FallbackColor)
			}
			return
		}
		p.cv.DrawImage(name, a.Image, r)
	})
}

// rotatedAsset is asset turned deg degrees counterclockwise about the
// center of r.
func (p *page) rotatedAsset(name string, r layout.Rect, deg float64, fallback shape) {
	p.cv.Rotate(deg, r.Center(), func() {
		p.asset(name, r, fallback)
	})
}

// photo fills target with img, cropped to clip. Without a photo the same
// target gets a placeholder shape and caption.
func (p *page) photo(img image.Image, target layout.Rect, clip layout.Clip) {
	p.cv.Group("photo", func() {
		if img != nil && !img.Bounds().Empty() {
			p.cv.PlaceImage("photo", img, target, layout.AspectFill, clip)
			return
		}

		switch clip.Kind {
		case layout.ClipEllipse:
			p.cv.FillEllipse(target, layout.FallbackColor)
		case layout.ClipRounded:
			p.cv.FillRoundedRect(target, clip.Radius, layout.FallbackColor)
		default:
			p.cv.FillRect(target, layout.FallbackColor)
		}
		st := typeset.Style{Size: 11, Weight: typeset.Medium, Color: layout.PlaceholderInk}
		b := p.m.Layout(noPhotoLabel, st, target.W)
		p.cv.DrawText(b, layout.Point{X: target.X, Y: target.Center().Y - b.Height/2}, target.W, typeset.AlignCenter)
	})
}

// alignedBox returns where a block of width w lands inside a box at x of
// width boxW.
func alignedBox(b typeset.Block, x, y, boxW float64, align typeset.Align) layout.Rect {
	switch align {
	case typeset.AlignCenter:
		x += (boxW - b.Width) / 2
	case typeset.AlignRight:
		x += boxW - b.Width
	}
	return layout.Rect{X: x, Y: y, W: b.Width, H: b.Height}
}
