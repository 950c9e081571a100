package layout

import "math"

// Cursor tracks the vertical flow position inside one column while blocks
// are drawn top to bottom. It is not safe for concurrent use; each column of
// each render pass owns its own cursor.
type Cursor struct {
	X float64
	y float64
}

// NewCursor returns a cursor positioned at (x, y).
func NewCursor(x, y float64) *Cursor {
	return &Cursor{X: x, y: y}
}

// Y returns the current vertical position.
func (c *Cursor) Y() float64 {
	return c.y
}

// Advance moves the cursor down by height+spacing and returns the position
// before the move, i.e. the top of the block just placed. The cursor never
// moves up: a negative total is treated as zero.
func (c *Cursor) Advance(height, spacing float64) float64 {
	top := c.y
	if d := height + spacing; d > 0 {
		c.y += d
	}
	return top
}

// AdvanceRow places a two-column row. The row is as tall as the taller of
// its two column stacks, never their sum.
func (c *Cursor) AdvanceRow(left, right, gap float64) float64 {
	return c.Advance(RowHeight(left, right), gap)
}

// RowHeight is the height of a two-column row.
func RowHeight(left, right float64) float64 {
	return math.Max(left, right)
}
