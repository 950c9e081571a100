package assets

import "image"

// MapResolver serves assets from memory. It must not be modified after it
// is handed to a renderer.
type MapResolver map[string]image.Image

// Resolve implements Resolver.
func (m MapResolver) Resolve(name string) (*Asset, error) {
	img, ok := m[name]
	if !ok || img == nil {
		return nil, ErrNotFound
	}
	return &Asset{Name: name, Image: img}, nil
}

// Without returns a copy of m lacking the given names.
func (m MapResolver) Without(names ...string) MapResolver {
	out := make(MapResolver, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, n := range names {
		delete(out, n)
	}
	return out
}
