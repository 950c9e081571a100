package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "../../testdata/john_doe.yaml"

func baseOptions(t *testing.T) options {
	return options{
		template:   1,
		input:      sample,
		out:        filepath.Join(t.TempDir(), "resume.pdf"),
		thumbWidth: 120,
		date:       "2024-03-01T12:00:00Z",
		logLevel:   "disabled",
	}
}

func TestRun_WritesPDFAndThumbnail(t *testing.T) {
	o := baseOptions(t)
	o.thumbnail = filepath.Join(t.TempDir(), "thumb.png")

	require.NoError(t, run(context.Background(), o, nil, nil))

	pdf, err := os.ReadFile(o.out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	f, err := os.Open(o.thumbnail)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
}

func TestRun_FixedDateIsReproducible(t *testing.T) {
	for _, id := range []int{1, 2, 3} {
		var a, b bytes.Buffer
		o := baseOptions(t)
		o.template = id
		o.out = "-"

		require.NoError(t, run(context.Background(), o, nil, &a))
		require.NoError(t, run(context.Background(), o, nil, &b))
		assert.Equal(t, a.Bytes(), b.Bytes())
	}
}

func TestRun_StdinAndPhoto(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 30, 40))))
	photo := filepath.Join(t.TempDir(), "me.png")
	require.NoError(t, os.WriteFile(photo, buf.Bytes(), 0644))

	o := baseOptions(t)
	o.input = "-"
	o.photo = photo
	o.out = "-"

	var out bytes.Buffer
	in := strings.NewReader(`{"name": "Ada", "surname": "Lovelace"}`)
	require.NoError(t, run(context.Background(), o, in, &out))
	assert.Contains(t, out.String(), "/SMask")
}

func TestRun_List(t *testing.T) {
	o := baseOptions(t)
	o.list = true

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), o, nil, &out))
	assert.Equal(t, "1\tGrid\n2\tBanner\n3\tSidebar\n", out.String())
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*options)
	}{
		{"missing input flag", func(o *options) { o.input = "" }},
		{"missing input file", func(o *options) { o.input = "nope.yaml" }},
		{"unknown template", func(o *options) { o.template = 4 }},
		{"bad date", func(o *options) { o.date = "yesterday" }},
		{"missing photo", func(o *options) { o.photo = "nope.png" }},
		{"strict validation", func(o *options) { o.input = "../../testdata/broken.yaml"; o.strict = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := baseOptions(t)
			tt.modify(&o)
			assert.Error(t, run(context.Background(), o, nil, nil))
		})
	}
}

func TestRun_LenientRendersBrokenResume(t *testing.T) {
	o := baseOptions(t)
	o.input = "../../testdata/broken.yaml"
	require.NoError(t, run(context.Background(), o, nil, nil))
}
