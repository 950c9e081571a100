package pdfdoc

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/go-pdf/fpdf"
	xdraw "golang.org/x/image/draw"

	"github.com/blockedby/resumekit/internal/canvas"
	"github.com/blockedby/resumekit/internal/layout"
)

type encoder struct {
	pdf    *fpdf.Fpdf
	fonts  map[string]bool
	images map[*canvas.Image]string
	widths map[int]bool
}

func (e *encoder) fill(c layout.Color) {
	e.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func (e *encoder) stroke(c layout.Color, width float64) {
	e.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	if width <= 0 {
		width = 1
	}
	e.pdf.SetLineWidth(width)
}

func (e *encoder) op(op canvas.Op) error {
	r := op.Rect
	switch op.Kind {
	case canvas.OpFillRect:
		e.fill(op.Color)
		e.pdf.Rect(r.X, r.Y, r.W, r.H, "F")
	case canvas.OpFillEllipse:
		e.fill(op.Color)
		c := r.Center()
		e.pdf.Ellipse(c.X, c.Y, r.W/2, r.H/2, 0, "F")
	case canvas.OpFillRounded:
		e.fill(op.Color)
		e.pdf.RoundedRect(r.X, r.Y, r.W, r.H, op.Radius, "1234", "F")
	case canvas.OpStrokeRect:
		e.stroke(op.Color, op.LineWidth)
		e.pdf.Rect(r.X, r.Y, r.W, r.H, "D")
	case canvas.OpLine:
		e.stroke(op.Color, op.LineWidth)
		e.pdf.Line(op.From.X, op.From.Y, op.To.X, op.To.Y)
	case canvas.OpImage:
		return e.image(op)
	case canvas.OpText:
		return e.text(op)
	case canvas.OpPushClip:
		e.clip(op)
	case canvas.OpPopClip:
		e.pdf.ClipEnd()
	case canvas.OpPushRotate:
		e.pdf.TransformBegin()
		e.pdf.TransformRotate(op.Angle, op.Pivot.X, op.Pivot.Y)
	case canvas.OpPopRotate:
		e.pdf.TransformEnd()
	default:
		return fmt.Errorf("%w: unknown op %d", ErrEncoding, op.Kind)
	}
	return nil
}

func (e *encoder) clip(op canvas.Op) {
	r := op.Rect
	switch op.Clip.Kind {
	case layout.ClipEllipse:
		c := r.Center()
		e.pdf.ClipEllipse(c.X, c.Y, r.W/2, r.H/2, false)
	case layout.ClipRounded:
		e.pdf.ClipRoundedRect(r.X, r.Y, r.W, r.H, op.Clip.Radius, false)
	default:
		e.pdf.ClipRect(r.X, r.Y, r.W, r.H, false)
	}
}

func (e *encoder) image(op canvas.Op) error {
	name, ok := e.images[op.Image]
	if !ok {
		var buf bytes.Buffer
		if err := png.Encode(&buf, e.distinctWidth(eightBit(op.Image.Src))); err != nil {
			return fmt.Errorf("%w: image %s: %v", ErrEncoding, op.Image.Key, err)
		}
		name = "img:" + op.Image.Key
		e.pdf.RegisterImageOptionsReader(name, imageOptions, &buf)
		e.images[op.Image] = name
	}
	r := op.Rect
	e.pdf.ImageOptions(name, r.X, r.Y, r.W, r.H, false, imageOptions, 0, "")
	return nil
}

var imageOptions = fpdf.ImageOptions{ImageType: "PNG", AllowNegativePosition: true}

func (e *encoder) text(op canvas.Op) error {
	t := op.Text
	b := t.Block
	if b.Face == nil {
		return fmt.Errorf("%w: text without face", ErrEncoding)
	}
	key := b.Face.Key()
	if !e.fonts[key] {
		e.pdf.AddUTF8FontFromBytes(key, "", b.Face.Data())
		e.fonts[key] = true
	}
	e.pdf.SetFont(key, "", b.FontSize)
	c := op.Color
	e.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))

	for i, l := range b.Lines {
		x := op.Rect.X + t.LineX(i, op.Rect.W)
		y := op.Rect.Y + b.Baseline(i)
		e.pdf.Text(x, y, l.Text)
	}
	return nil
}

// eightBit converts img to a type the PNG encoder writes with 8-bit
// samples; the PDF writer rejects 16-bit PNGs.
func eightBit(img image.Image) image.Image {
	switch img.(type) {
	case *image.RGBA, *image.NRGBA, *image.Gray, *image.YCbCr:
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// distinctWidth resamples img one pixel wider until no earlier image of the
// document has its width. The writer orders image objects by pixel width
// alone, so equal widths would make the object order vary between runs.
func (e *encoder) distinctWidth(img image.Image) image.Image {
	b := img.Bounds()
	w := b.Dx()
	for e.widths[w] {
		w++
	}
	e.widths[w] = true
	if w == b.Dx() {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, b.Dy()))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
