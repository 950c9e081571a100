package typeset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/gofont/gosmallcapsitalic"
	"golang.org/x/image/font/sfnt"
)

type variant struct {
	family string // normalized
	weight Weight
	italic bool
}

// Registry holds the faces available to the measurer and the encoders.
// Faces are loaded once and only read afterwards; registration and lookup
// are safe for concurrent use. A zero Registry resolves every style to the
// built-in Go fonts until faces are registered.
type Registry struct {
	mu       sync.RWMutex
	faces    map[variant]*Face
	names    map[string]string // normalized -> display family name
	fallback string
}

// NewRegistry returns a registry preloaded with the Go font families
// ("Go", "Go Mono" and "Go Smallcaps").
func NewRegistry() *Registry {
	r := &Registry{
		faces:    make(map[variant]*Face),
		names:    make(map[string]string),
		fallback: normalizeFamily(DefaultFamily),
	}

	builtin := []struct {
		family string
		weight Weight
		italic bool
		data   []byte
	}{
		{DefaultFamily, Regular, false, goregular.TTF},
		{DefaultFamily, Regular, true, goitalic.TTF},
		{DefaultFamily, Medium, false, gomedium.TTF},
		{DefaultFamily, Medium, true, gomediumitalic.TTF},
		{DefaultFamily, Bold, false, gobold.TTF},
		{DefaultFamily, Bold, true, gobolditalic.TTF},
		{"Go Mono", Regular, false, gomono.TTF},
		{"Go Mono", Regular, true, gomonoitalic.TTF},
		{"Go Mono", Bold, false, gomonobold.TTF},
		{"Go Mono", Bold, true, gomonobolditalic.TTF},
		{"Go Smallcaps", Regular, false, gosmallcaps.TTF},
		{"Go Smallcaps", Regular, true, gosmallcapsitalic.TTF},
	}
	for _, b := range builtin {
		if _, err := r.Register(b.family, b.weight, b.italic, b.data); err != nil {
			// the Go fonts ship with x/image; failing to parse them is a build problem
			panic(err)
		}
	}
	return r
}

// Register parses data and adds it as the given family variant, replacing
// any previous face for that variant.
func (r *Registry) Register(family string, w Weight, italic bool, data []byte) (*Face, error) {
	if strings.TrimSpace(family) == "" {
		return nil, fmt.Errorf("register font: empty family name")
	}
	face, err := newFace(family, w, italic, data)
	if err != nil {
		return nil, err
	}

	key := normalizeFamily(family)
	r.mu.Lock()
	if r.faces == nil {
		r.faces = make(map[variant]*Face)
		r.names = make(map[string]string)
	}
	r.faces[variant{family: key, weight: w, italic: italic}] = face
	if _, ok := r.names[key]; !ok {
		r.names[key] = family
	}
	r.mu.Unlock()
	return face, nil
}

// LoadDir registers every .ttf/.otf file in dir. Files are expected to be
// named <Family>-<Style>.ttf where Style is one of Regular, Italic, Medium,
// MediumItalic, Bold or BoldItalic; a file without a style suffix is
// Regular. The family name embedded in the font wins over the file name
// when present. It returns the number of faces loaded.
func (r *Registry) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read fonts dir: %w", err)
	}

	loaded := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".ttf" && ext != ".otf" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return loaded, fmt.Errorf("read font %s: %w", e.Name(), err)
		}

		family, w, italic := parseFontFileName(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		if name := embeddedFamily(data); name != "" {
			family = name
		}
		if _, err := r.Register(family, w, italic, data); err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}

func parseFontFileName(stem string) (family string, w Weight, italic bool) {
	family = stem
	i := strings.LastIndex(stem, "-")
	if i <= 0 {
		return family, Regular, false
	}

	style := strings.ToLower(stem[i+1:])
	switch style {
	case "regular":
	case "italic":
		italic = true
	case "medium":
		w = Medium
	case "mediumitalic":
		w, italic = Medium, true
	case "bold":
		w = Bold
	case "bolditalic":
		w, italic = Bold, true
	default:
		return family, Regular, false
	}
	return stem[:i], w, italic
}

func embeddedFamily(data []byte) string {
	f, err := sfnt.Parse(data)
	if err != nil {
		return ""
	}
	var buf sfnt.Buffer
	name, err := f.Name(&buf, sfnt.NameIDTypographicFamily)
	if err != nil || name == "" {
		name, err = f.Name(&buf, sfnt.NameIDFamily)
		if err != nil {
			return ""
		}
	}
	return strings.TrimSpace(name)
}

// Lookup returns the exact face for a variant.
func (r *Registry) Lookup(family string, w Weight, italic bool) (*Face, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.faces[variant{family: normalizeFamily(family), weight: w, italic: italic}]
	return f, ok
}

// Has reports whether any face of the family is registered.
func (r *Registry) Has(family string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.names[normalizeFamily(family)]
	return ok
}

// Resolve picks the face for a style. When the family is registered the
// closest weight of that family is used; otherwise the default family
// stands in with the closest weight. exact is false whenever the returned
// face is not the requested variant.
func (r *Registry) Resolve(st Style) (face *Face, exact bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	family := normalizeFamily(st.Family)
	if family == "" {
		family = r.fallback
	}

	for _, fam := range []string{family, r.fallback} {
		for _, w := range st.Weight.fallbacks() {
			for _, it := range []bool{st.Italic, !st.Italic} {
				if f, ok := r.faces[variant{family: fam, weight: w, italic: it}]; ok {
					return f, fam == family && w == st.Weight && it == st.Italic
				}
			}
		}
	}

	// a Registry not built by NewRegistry may lack the default family
	face, _ = builtin().Resolve(st)
	return face, false
}

var builtin = sync.OnceValue(NewRegistry)

// Families returns the registered family names, sorted.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names))
	for _, n := range r.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
