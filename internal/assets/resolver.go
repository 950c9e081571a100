// Package assets looks up the named bitmaps the templates draw: backgrounds,
// decorative art, icons and skill indicators.
//
// A lookup either returns the decoded image or ErrNotFound. Callers are
// expected to draw a fallback shape over the same rectangle on ErrNotFound
// so the page geometry does not depend on which assets are installed.
package assets

import (
	"errors"
	"image"
)

// ErrNotFound is returned when no asset has the requested name.
var ErrNotFound = errors.New("asset not found")

// Asset is a decoded bitmap.
type Asset struct {
	Name  string
	Image image.Image
}

// Size returns the pixel dimensions of the asset.
func (a *Asset) Size() (w, h int) {
	b := a.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Resolver finds assets by name. Implementations must be safe for
// concurrent use; the asset store is shared across renders and read-only.
type Resolver interface {
	Resolve(name string) (*Asset, error)
}

// Chain tries each resolver in order and returns the first hit.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(name string) (*Asset, error) {
	for _, r := range c {
		if r == nil {
			continue
		}
		a, err := r.Resolve(name)
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}

// None is a resolver that has no assets; every page drawn with it uses
// fallback shapes.
type None struct{}

// Resolve implements Resolver.
func (None) Resolve(string) (*Asset, error) {
	return nil, ErrNotFound
}
