package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/resumekit/internal/canvas"
	"github.com/blockedby/resumekit/internal/layout"
	"github.com/blockedby/resumekit/internal/typeset"
)

var red = layout.Color{R: 0xff}

func rgb(c color.Color) layout.Color {
	r, g, b, _ := c.RGBA()
	return layout.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

func TestRasterize_KeepsAspect(t *testing.T) {
	cv := canvas.New(layout.Size{W: 200, H: 400})
	img := Rasterize(cv, 100, 0)
	assert.Equal(t, image.Rect(0, 0, 100, 200), img.Bounds())
	assert.Equal(t, layout.White, rgb(img.At(50, 50)))

	assert.True(t, Rasterize(cv, 0, 0).Bounds().Empty())
}

func TestRasterize_FillAndClip(t *testing.T) {
	cv := canvas.New(layout.Size{W: 100, H: 100})
	cv.Clip(layout.R(0, 0, 100, 100), layout.CircleClip, func() {
		cv.FillRect(cv.Bounds(), red)
	})
	img := Rasterize(cv, 100, 100)

	assert.Equal(t, red, rgb(img.At(50, 50)))
	assert.Equal(t, layout.White, rgb(img.At(2, 2)))
	assert.Equal(t, layout.White, rgb(img.At(97, 97)))
}

func TestRasterize_RotationIsCounterclockwise(t *testing.T) {
	cv := canvas.New(layout.Size{W: 100, H: 100})
	// A bar right of the center turned 90 degrees ends up above it.
	cv.Rotate(90, layout.Point{X: 50, Y: 50}, func() {
		cv.FillRect(layout.R(60, 45, 30, 10), red)
	})
	img := Rasterize(cv, 100, 100)

	assert.Equal(t, red, rgb(img.At(50, 25)))
	assert.Equal(t, layout.White, rgb(img.At(75, 50)))
	assert.Equal(t, layout.White, rgb(img.At(50, 75)))
}

func TestRasterize_StrokeLeavesInteriorEmpty(t *testing.T) {
	cv := canvas.New(layout.Size{W: 100, H: 100})
	cv.StrokeRect(layout.R(10, 10, 80, 80), red, 4)
	img := Rasterize(cv, 100, 100)

	assert.Equal(t, red, rgb(img.At(10, 50)))
	assert.Equal(t, layout.White, rgb(img.At(50, 50)))
}

func TestRasterize_Image(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+3] = 0xff, 0xff
	}
	cv := canvas.New(layout.Size{W: 100, H: 100})
	cv.DrawImage("red", src, layout.R(25, 25, 50, 50))
	img := Rasterize(cv, 100, 100)

	assert.Equal(t, red, rgb(img.At(50, 50)))
	assert.Equal(t, layout.White, rgb(img.At(10, 10)))
}

func TestRasterize_TextInks(t *testing.T) {
	m := typeset.NewMeasurer(nil)
	cv := canvas.New(layout.Size{W: 200, H: 50})
	cv.DrawText(m.Layout("HHHH", typeset.Style{Size: 30}, 0), layout.Point{X: 10, Y: 5}, 0, typeset.AlignLeft)
	img := Rasterize(cv, 200, 50)

	dark := 0
	for y := 0; y < 50; y++ {
		for x := 0; x < 200; x++ {
			if c := rgb(img.At(x, y)); c.R < 0x40 {
				dark++
			}
		}
	}
	assert.Greater(t, dark, 50)
}

func TestEncodePNG(t *testing.T) {
	cv := canvas.New(layout.Size{W: 595.2, H: 841.8})
	cv.FillEllipse(layout.R(40, 35, 110, 110), layout.FallbackColor)
	out, err := EncodePNG(cv, 120, 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 170, img.Bounds().Dy())
}
