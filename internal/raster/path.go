package raster

import (
	"math"

	"golang.org/x/image/math/f64"

	"github.com/blockedby/resumekit/internal/layout"
)

// mul returns the transform applying q and then p.
func mul(p, q f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		p[0]*q[0] + p[1]*q[3],
		p[0]*q[1] + p[1]*q[4],
		p[0]*q[2] + p[1]*q[5] + p[2],
		p[3]*q[0] + p[4]*q[3],
		p[3]*q[1] + p[4]*q[4],
		p[3]*q[2] + p[4]*q[5] + p[5],
	}
}

// rotation turns page coordinates deg degrees counterclockwise, as seen on
// the page, around pivot. Page y grows downward.
func rotation(deg float64, pivot layout.Point) f64.Aff3 {
	rad := deg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	px, py := pivot.X, pivot.Y
	return f64.Aff3{
		c, s, px - c*px - s*py,
		-s, c, py + s*px - c*py,
	}
}

func (p *painter) apply(x, y float64) (float64, float64) {
	m := p.m
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func (p *painter) moveTo(x, y float64) {
	tx, ty := p.apply(x, y)
	p.z.MoveTo(float32(tx), float32(ty))
}

func (p *painter) lineTo(x, y float64) {
	tx, ty := p.apply(x, y)
	p.z.LineTo(float32(tx), float32(ty))
}

func (p *painter) cubeTo(x1, y1, x2, y2, x3, y3 float64) {
	ax, ay := p.apply(x1, y1)
	bx, by := p.apply(x2, y2)
	cx, cy := p.apply(x3, y3)
	p.z.CubeTo(float32(ax), float32(ay), float32(bx), float32(by), float32(cx), float32(cy))
}

func (p *painter) rect(r layout.Rect) {
	if r.Empty() {
		return
	}
	p.moveTo(r.X, r.Y)
	p.lineTo(r.Right(), r.Y)
	p.lineTo(r.Right(), r.Bottom())
	p.lineTo(r.X, r.Bottom())
	p.z.ClosePath()
}

// rectReversed winds the other way round, cutting a hole in a rect drawn
// before it.
func (p *painter) rectReversed(r layout.Rect) {
	if r.Empty() {
		return
	}
	p.moveTo(r.X, r.Y)
	p.lineTo(r.X, r.Bottom())
	p.lineTo(r.Right(), r.Bottom())
	p.lineTo(r.Right(), r.Y)
	p.z.ClosePath()
}

func (p *painter) ellipse(r layout.Rect) {
	if r.Empty() {
		return
	}
	c := r.Center()
	rx, ry := r.W/2, r.H/2
	kx, ky := kappa*rx, kappa*ry
	p.moveTo(c.X+rx, c.Y)
	p.cubeTo(c.X+rx, c.Y+ky, c.X+kx, c.Y+ry, c.X, c.Y+ry)
	p.cubeTo(c.X-kx, c.Y+ry, c.X-rx, c.Y+ky, c.X-rx, c.Y)
	p.cubeTo(c.X-rx, c.Y-ky, c.X-kx, c.Y-ry, c.X, c.Y-ry)
	p.cubeTo(c.X+kx, c.Y-ry, c.X+rx, c.Y-ky, c.X+rx, c.Y)
	p.z.ClosePath()
}

func (p *painter) rounded(r layout.Rect, radius float64) {
	if r.Empty() {
		return
	}
	rad := math.Min(radius, math.Min(r.W, r.H)/2)
	if rad <= 0 {
		p.rect(r)
		return
	}
	k := kappa * rad
	x0, y0, x1, y1 := r.X, r.Y, r.Right(), r.Bottom()
	p.moveTo(x0+rad, y0)
	p.lineTo(x1-rad, y0)
	p.cubeTo(x1-rad+k, y0, x1, y0+rad-k, x1, y0+rad)
	p.lineTo(x1, y1-rad)
	p.cubeTo(x1, y1-rad+k, x1-rad+k, y1, x1-rad, y1)
	p.lineTo(x0+rad, y1)
	p.cubeTo(x0+rad-k, y1, x0, y1-rad+k, x0, y1-rad)
	p.lineTo(x0, y0+rad)
	p.cubeTo(x0, y0+rad-k, x0+rad-k, y0, x0+rad, y0)
	p.z.ClosePath()
}

// segment outlines a straight line of the given width as a quad.
func (p *painter) segment(a, b layout.Point, width float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	n := math.Hypot(dx, dy)
	if n == 0 {
		return
	}
	nx, ny := -dy/n*width/2, dx/n*width/2
	p.moveTo(a.X+nx, a.Y+ny)
	p.lineTo(b.X+nx, b.Y+ny)
	p.lineTo(b.X-nx, b.Y-ny)
	p.lineTo(a.X-nx, a.Y-ny)
	p.z.ClosePath()
}
