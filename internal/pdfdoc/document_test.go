package pdfdoc

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/resumekit/internal/layout"
	"github.com/blockedby/resumekit/internal/typeset"
)

var a4 = layout.Size{W: 595.2, H: 841.8}

func TestBegin_RejectsInvalidSize(t *testing.T) {
	for _, s := range []layout.Size{{}, {W: -1, H: 10}, {W: 10, H: 0}, {W: math.Inf(1), H: 10}} {
		_, err := Begin(s, Metadata{})
		assert.ErrorIs(t, err, ErrInvalidPageSize, "%v", s)
	}
}

func drawSample(t *testing.T, d *Document) {
	t.Helper()
	m := typeset.NewMeasurer(nil)
	cv := d.Canvas()

	photo := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for i := range photo.Pix {
		photo.Pix[i] = 0xC0
	}

	cv.FillRect(cv.Bounds(), layout.White)
	cv.Rotate(-12, layout.Point{X: 100, Y: 100}, func() {
		cv.FillRoundedRect(layout.R(50, 50, 100, 100), 8, layout.FallbackColor)
	})
	cv.PlaceImage("photo", photo, layout.R(40, 35, 110, 110), layout.AspectFill, layout.CircleClip)
	cv.PlaceImage("photo", photo, layout.R(200, 35, 60, 60), layout.AspectFill, layout.Rounded(12))
	cv.FillEllipse(layout.R(300, 300, 20, 20), layout.Black)
	cv.StrokeRect(layout.R(10, 10, 100, 20), layout.Black, 0.5)
	cv.Line(layout.Point{X: 0, Y: 200}, layout.Point{X: 500, Y: 200}, layout.Black, 1)

	st := typeset.Style{Size: 14, Weight: typeset.Bold, Color: layout.MustHex("#333333")}
	cv.DrawText(m.Layout("JOHN DOE · Résumé", st, 300), layout.Point{X: 175, Y: 60}, 300, typeset.AlignLeft)
	cv.DrawText(m.Layout("A long paragraph that will wrap over more than one line of text.", typeset.Style{Size: 10}, 120),
		layout.Point{X: 40, Y: 400}, 120, typeset.AlignRight)
	require.True(t, cv.Balanced())
}

func TestDocument_Finish(t *testing.T) {
	d, err := Begin(a4, Metadata{Title: "Resume", Author: "John Doe", Date: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)})
	require.NoError(t, err)
	drawSample(t, d)

	out, err := d.Finish()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "/MediaBox [0 0 595.20 841.80]")
	assert.Contains(t, string(out), "%%EOF")
}

func TestDocument_EmptyPageIsValid(t *testing.T) {
	d, err := Begin(a4, Metadata{})
	require.NoError(t, err)
	out, err := d.Finish()
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestEncode_DeterministicWithFixedDate(t *testing.T) {
	meta := Metadata{Title: "t", Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	render := func() []byte {
		d, err := Begin(a4, meta)
		require.NoError(t, err)
		drawSample(t, d)
		out, err := d.Finish()
		require.NoError(t, err)
		return out
	}
	assert.Equal(t, render(), render())
}

func TestEncode_TransparentImage(t *testing.T) {
	d, err := Begin(a4, Metadata{})
	require.NoError(t, err)
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{R: 255, A: 128})
	d.Canvas().DrawImage("leaf", img, layout.R(-10, -10, 40, 40))

	out, err := d.Finish()
	require.NoError(t, err)
	assert.Contains(t, string(out), "/SMask")
}

func TestEightBit(t *testing.T) {
	deep := image.NewRGBA64(image.Rect(2, 2, 6, 6))
	flat := eightBit(deep)
	_, ok := flat.(*image.NRGBA)
	assert.True(t, ok)
	assert.Equal(t, 4, flat.Bounds().Dx())

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	assert.Same(t, rgba, eightBit(rgba))
}

func TestEncode_EqualWidthImagesAreStable(t *testing.T) {
	meta := Metadata{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	icons := make([]image.Image, 6)
	for i := range icons {
		img := image.NewNRGBA(image.Rect(0, 0, 12, 12))
		img.Set(i, i, color.NRGBA{B: 200, A: 255})
		icons[i] = img
	}

	render := func() []byte {
		d, err := Begin(a4, meta)
		require.NoError(t, err)
		for i, img := range icons {
			key := string(rune('a' + i))
			d.Canvas().DrawImage(key, img, layout.R(float64(20*i), 20, 12, 12))
		}
		out, err := d.Finish()
		require.NoError(t, err)
		return out
	}

	first := render()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, render())
	}
}

func TestDistinctWidth(t *testing.T) {
	e := &encoder{widths: make(map[int]bool)}
	a := e.distinctWidth(image.NewNRGBA(image.Rect(0, 0, 8, 5)))
	b := e.distinctWidth(image.NewNRGBA(image.Rect(0, 0, 8, 5)))
	c := e.distinctWidth(image.NewNRGBA(image.Rect(0, 0, 9, 5)))

	assert.Equal(t, 8, a.Bounds().Dx())
	assert.Equal(t, 9, b.Bounds().Dx())
	assert.Equal(t, 10, c.Bounds().Dx())
	assert.Equal(t, 5, c.Bounds().Dy())
}

func TestDocument_ReadsBack(t *testing.T) {
	d, err := Begin(a4, Metadata{Title: "Jöhn Doe", Author: "Jöhn Doe", Date: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)})
	require.NoError(t, err)
	drawSample(t, d)
	out, err := d.Finish()
	require.NoError(t, err)

	r, err := pdf.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	require.Equal(t, 1, r.NumPage())

	page := r.Page(1).V
	box := page.Key("MediaBox")
	if box.IsNull() {
		box = page.Key("Parent").Key("MediaBox")
	}
	require.Equal(t, 4, box.Len())
	assert.InDelta(t, a4.W, box.Index(2).Float64(), 0.01)
	assert.InDelta(t, a4.H, box.Index(3).Float64(), 0.01)

	assert.Equal(t, "Jöhn Doe", r.Trailer().Key("Info").Key("Title").Text())
}

func TestEncode_WriterPanicIsAnError(t *testing.T) {
	m := typeset.NewMeasurer(nil)

	for _, raw := range []string{"Team lead 🚀", "Müller\xff"} {
		d, err := Begin(a4, Metadata{})
		require.NoError(t, err)

		// bypasses the measurer, which would have cleaned the text
		b := m.Layout("placeholder", typeset.Style{Size: 10}, 0)
		b.Lines[0].Text = raw
		d.Canvas().DrawText(b, layout.Point{X: 40, Y: 40}, 0, typeset.AlignLeft)

		var out []byte
		require.NotPanics(t, func() { out, err = d.Finish() }, "%q", raw)
		assert.ErrorIs(t, err, ErrEncoding, "%q", raw)
		assert.Nil(t, out)
	}
}

func TestEncode_CleansMetadata(t *testing.T) {
	d, err := Begin(a4, Metadata{Title: "Ann 🚀", Author: "Müller\xff"})
	require.NoError(t, err)
	drawSample(t, d)

	out, err := d.Finish()
	require.NoError(t, err)

	r, err := pdf.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	info := r.Trailer().Key("Info")
	assert.Equal(t, "Ann �", info.Key("Title").Text())
	assert.Equal(t, "Müller�", info.Key("Author").Text())
}

func TestInfoText(t *testing.T) {
	assert.Equal(t, "plain", infoText("plain"))
	assert.Equal(t, "Zoë", infoText("Zoë"))
	assert.Equal(t, "a�b", infoText("a\xffb"))
	assert.Equal(t, "go �", infoText("go 🚀"))
}
