package models

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxPhotoPixels bounds the decoded size of a photo. The header is checked
// before any pixel buffer is allocated.
const MaxPhotoPixels = 40_000_000

var (
	// ErrEmptyPhoto is returned when decoding zero bytes.
	ErrEmptyPhoto = errors.New("photo is empty")
	// ErrPhotoTooLarge is returned for photos over MaxPhotoPixels.
	ErrPhotoTooLarge = errors.New("photo is too large")
)

// DecodePhoto decodes a PNG, JPEG, GIF, WebP or BMP image.
func DecodePhoto(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPhoto
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > MaxPhotoPixels {
		return nil, fmt.Errorf("%w: %s %dx%d", ErrPhotoTooLarge, format, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("decode photo: %s image has no pixels", format)
	}
	return img, nil
}

// DecodePhotoBase64 decodes a base64 photo as sent in JSON bodies. A data
// URL prefix ("data:image/png;base64,") is accepted. Blank input yields a nil
// image and no error.
func DecodePhotoBase64(s string) (image.Image, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "data:") {
		if i := strings.IndexByte(s, ','); i >= 0 {
			s = s[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	return DecodePhoto(data)
}
