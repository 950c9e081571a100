// Package raster paints a recorded canvas page into a bitmap. It backs the
// thumbnail previews served next to the PDF output.
package raster

import (
	"bytes"
	"image"
	"image/png"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/blockedby/resumekit/internal/canvas"
	"github.com/blockedby/resumekit/internal/layout"
)

// kappa places cubic Bézier control points for a quarter circle.
const kappa = 0.5522847498

// Rasterize paints cv into a width-pixel-wide RGBA image. A height of zero
// or less keeps the page aspect ratio.
func Rasterize(cv *canvas.Canvas, width, height int) *image.RGBA {
	size := cv.Size()
	if width <= 0 || !size.Valid() {
		return image.NewRGBA(image.Rectangle{})
	}
	if height <= 0 {
		height = int(math.Round(size.H * float64(width) / size.W))
		if height < 1 {
			height = 1
		}
	}

	p := newPainter(width, height, float64(width)/size.W, float64(height)/size.H)
	xdraw.Draw(p.dst, p.dst.Bounds(), image.White, image.Point{}, xdraw.Src)
	for _, op := range cv.Ops() {
		p.op(op)
	}
	return p.dst
}

// EncodePNG rasterizes cv and returns it PNG-encoded.
func EncodePNG(cv *canvas.Canvas, width, height int) ([]byte, error) {
	img := Rasterize(cv, width, height)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type faceKey struct {
	font string
	px   float64
}

type painter struct {
	dst   *image.RGBA
	z     *vector.Rasterizer
	cov   *image.Alpha
	m     f64.Aff3
	mats  []f64.Aff3
	clip  *image.Alpha
	clips []*image.Alpha
	faces map[faceKey]font.Face
}

func newPainter(w, h int, sx, sy float64) *painter {
	r := image.Rect(0, 0, w, h)
	return &painter{
		dst:   image.NewRGBA(r),
		z:     vector.NewRasterizer(w, h),
		cov:   image.NewAlpha(r),
		m:     f64.Aff3{sx, 0, 0, 0, sy, 0},
		faces: make(map[faceKey]font.Face),
	}
}

func (p *painter) op(op canvas.Op) {
	r := op.Rect
	switch op.Kind {
	case canvas.OpFillRect:
		p.begin()
		p.rect(r)
		p.fill(op.Color)
	case canvas.OpFillEllipse:
		p.begin()
		p.ellipse(r)
		p.fill(op.Color)
	case canvas.OpFillRounded:
		p.begin()
		p.rounded(r, op.Radius)
		p.fill(op.Color)
	case canvas.OpStrokeRect:
		w := lineWidth(op.LineWidth)
		p.begin()
		p.rect(r.Inset(-w/2, -w/2))
		p.rectReversed(r.Inset(w/2, w/2))
		p.fill(op.Color)
	case canvas.OpLine:
		p.begin()
		p.segment(op.From, op.To, lineWidth(op.LineWidth))
		p.fill(op.Color)
	case canvas.OpImage:
		p.image(op)
	case canvas.OpText:
		p.text(op)
	case canvas.OpPushClip:
		p.pushClip(op)
	case canvas.OpPopClip:
		if n := len(p.clips); n > 0 {
			p.clip = p.clips[n-1]
			p.clips = p.clips[:n-1]
		}
	case canvas.OpPushRotate:
		p.mats = append(p.mats, p.m)
		p.m = mul(p.m, rotation(op.Angle, op.Pivot))
	case canvas.OpPopRotate:
		if n := len(p.mats); n > 0 {
			p.m = p.mats[n-1]
			p.mats = p.mats[:n-1]
		}
	}
}

func lineWidth(w float64) float64 {
	if w <= 0 {
		return 1
	}
	return w
}

func (p *painter) begin() {
	b := p.dst.Bounds()
	p.z.Reset(b.Dx(), b.Dy())
}

// coverage rasterizes the current path into p.cov, intersected with the
// active clip.
func (p *painter) coverage() *image.Alpha {
	clear(p.cov.Pix)
	p.z.Draw(p.cov, p.cov.Bounds(), image.Opaque, image.Point{})
	if p.clip != nil {
		multiply(p.cov, p.clip)
	}
	return p.cov
}

func (p *painter) fill(c layout.Color) {
	mask := p.coverage()
	xdraw.DrawMask(p.dst, p.dst.Bounds(), image.NewUniform(c), image.Point{}, mask, image.Point{}, xdraw.Over)
}

func (p *painter) pushClip(op canvas.Op) {
	p.begin()
	switch op.Clip.Kind {
	case layout.ClipEllipse:
		p.ellipse(op.Rect)
	case layout.ClipRounded:
		p.rounded(op.Rect, op.Clip.Radius)
	default:
		p.rect(op.Rect)
	}
	cov := p.coverage()
	next := image.NewAlpha(cov.Bounds())
	copy(next.Pix, cov.Pix)

	p.clips = append(p.clips, p.clip)
	p.clip = next
}

func multiply(dst, mask *image.Alpha) {
	for i, a := range mask.Pix {
		dst.Pix[i] = uint8(uint16(dst.Pix[i]) * uint16(a) / 0xff)
	}
}

func (p *painter) image(op canvas.Op) {
	src := op.Image.Src
	sb := src.Bounds()
	if sb.Empty() {
		return
	}
	r := op.Rect
	kx := r.W / float64(sb.Dx())
	ky := r.H / float64(sb.Dy())
	place := f64.Aff3{
		kx, 0, r.X - float64(sb.Min.X)*kx,
		0, ky, r.Y - float64(sb.Min.Y)*ky,
	}

	var opts *xdraw.Options
	if p.clip != nil {
		opts = &xdraw.Options{DstMask: p.clip}
	}
	xdraw.ApproxBiLinear.Transform(p.dst, mul(p.m, place), src, sb, xdraw.Over, opts)
}

// text draws each line at its transformed baseline origin. The transform's
// scale is applied to the font size; glyphs themselves are not rotated.
func (p *painter) text(op canvas.Op) {
	t := op.Text
	b := t.Block
	if b.Face == nil {
		return
	}
	px := b.FontSize * math.Sqrt(math.Abs(p.m[0]*p.m[4]-p.m[1]*p.m[3]))
	face := p.face(b.Face.Key(), b.Face.Font(), px)
	if face == nil {
		return
	}

	clear(p.cov.Pix)
	d := font.Drawer{Dst: p.cov, Src: image.Opaque, Face: face}
	for i, l := range b.Lines {
		x, y := p.apply(op.Rect.X+t.LineX(i, op.Rect.W), op.Rect.Y+b.Baseline(i))
		d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
		d.DrawString(l.Text)
	}
	if p.clip != nil {
		multiply(p.cov, p.clip)
	}
	xdraw.DrawMask(p.dst, p.dst.Bounds(), image.NewUniform(op.Color), image.Point{}, p.cov, image.Point{}, xdraw.Over)
}

func (p *painter) face(key string, f *opentype.Font, px float64) font.Face {
	k := faceKey{font: key, px: px}
	if face, ok := p.faces[k]; ok {
		return face
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: px, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		face = nil
	}
	p.faces[k] = face
	return face
}
