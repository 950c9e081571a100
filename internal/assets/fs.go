package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"sync"

	_ "golang.org/x/image/webp"
)

var extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

type entry struct {
	asset *Asset
	err   error
}

// FSResolver loads assets from a file system, trying the known image
// extensions for each name. Results, including misses and decode failures,
// are cached for the lifetime of the resolver.
type FSResolver struct {
	fsys  fs.FS
	cache sync.Map // name -> entry
}

// NewFSResolver returns a resolver over fsys.
func NewFSResolver(fsys fs.FS) *FSResolver {
	return &FSResolver{fsys: fsys}
}

// NewDirResolver returns a resolver over a directory on disk.
func NewDirResolver(dir string) (*FSResolver, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("assets dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets dir %s: not a directory", dir)
	}
	return NewFSResolver(os.DirFS(dir)), nil
}

// Resolve implements Resolver. A file that exists but cannot be decoded is
// reported as ErrNotFound wrapped with the decode error, so callers fall back
// the same way as for a missing file.
func (r *FSResolver) Resolve(name string) (*Asset, error) {
	if v, ok := r.cache.Load(name); ok {
		e := v.(entry)
		return e.asset, e.err
	}

	a, err := r.load(name)
	v, _ := r.cache.LoadOrStore(name, entry{asset: a, err: err})
	e := v.(entry)
	return e.asset, e.err
}

func (r *FSResolver) load(name string) (*Asset, error) {
	if !fs.ValidPath(name) {
		return nil, ErrNotFound
	}

	for _, ext := range extensions {
		f, err := r.fsys.Open(name + ext)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("open asset %s: %w", name, err)
		}

		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode asset %s%s: %v: %w", name, ext, err, ErrNotFound)
		}
		return &Asset{Name: name, Image: img}, nil
	}
	return nil, ErrNotFound
}
