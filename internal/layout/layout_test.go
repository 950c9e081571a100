package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_AdvanceReturnsTop(t *testing.T) {
	c := NewCursor(10, 100)

	top := c.Advance(20, 5)
	assert.Equal(t, 100.0, top)
	assert.Equal(t, 125.0, c.Y())

	top = c.Advance(0, 8)
	assert.Equal(t, 125.0, top)
	assert.Equal(t, 133.0, c.Y())
	assert.Equal(t, 10.0, c.X)
}

func TestCursor_NeverMovesUp(t *testing.T) {
	c := NewCursor(0, 50)
	c.Advance(-30, 5)
	assert.Equal(t, 50.0, c.Y())
}

func TestCursor_AdvanceRowUsesTallerColumn(t *testing.T) {
	tests := []struct {
		name        string
		left, right float64
		want        float64
	}{
		{name: "left taller", left: 60, right: 20, want: 70},
		{name: "right taller", left: 20, right: 60, want: 70},
		{name: "equal", left: 30, right: 30, want: 40},
		{name: "right empty", left: 14, right: 0, want: 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(0, 0)
			top := c.AdvanceRow(tt.left, tt.right, 10)
			assert.Equal(t, 0.0, top)
			assert.Equal(t, tt.want, c.Y())
		})
	}
}

func TestFit_AspectFillCoversAndClips(t *testing.T) {
	target := R(100, 100, 100, 100)
	p := Fit(Size{W: 400, H: 200}, target, AspectFill, NoClip)

	assert.Equal(t, 0.5, p.Scale)
	assert.Equal(t, R(50, 100, 200, 100), p.Draw)
	assert.True(t, p.Clipped())
	assert.Equal(t, ClipRect, p.Clip.Kind)
	assert.True(t, p.Draw.Contains(target))
}

func TestFit_AspectFitLetterboxes(t *testing.T) {
	target := R(0, 0, 100, 100)
	p := Fit(Size{W: 400, H: 200}, target, AspectFit, NoClip)

	assert.Equal(t, 0.25, p.Scale)
	assert.Equal(t, R(0, 25, 100, 50), p.Draw)
	assert.False(t, p.Clipped())
	assert.True(t, target.Contains(p.Draw))
}

func TestFit_CircleClipKeepsShape(t *testing.T) {
	p := Fit(Size{W: 300, H: 600}, R(0, 0, 120, 120), AspectFill, CircleClip)
	assert.Equal(t, ClipEllipse, p.Clip.Kind)
	assert.InDelta(t, 120, p.Draw.W, 1e-9)
	assert.InDelta(t, 240, p.Draw.H, 1e-9)
	assert.InDelta(t, -60, p.Draw.Y, 1e-9)
}

func TestFit_DegenerateImage(t *testing.T) {
	target := R(5, 5, 50, 40)
	p := Fit(Size{}, target, AspectFill, NoClip)
	assert.Equal(t, target, p.Draw)
	assert.True(t, p.Clipped())
}

func TestRect_Helpers(t *testing.T) {
	r := R(10, 20, 100, 50)
	assert.Equal(t, Point{X: 60, Y: 45}, r.Center())
	assert.Equal(t, R(18, 28, 84, 34), r.Inset(8, 8))
	assert.Equal(t, R(35, 35, 50, 20), r.Centered(Size{W: 50, H: 20}))
	assert.True(t, r.Intersect(R(200, 200, 5, 5)).Empty())
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#1a2B3c")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 0x1a, G: 0x2b, B: 0x3c}, c)
	assert.Equal(t, "#1a2b3c", c.Hex())

	_, err = ParseHex("fff")
	assert.Error(t, err)
}
