package render

import (
	"fmt"

	"github.com/blockedby/resumekit/internal/assets"
	"github.com/blockedby/resumekit/internal/typeset"
)

// DirOptions returns the options for an engine reading decorative assets
// from assetsDir and extra fonts from fontsDir. Empty directories are
// skipped: the built-in fonts are always available and missing assets fall
// back to flat shapes.
func DirOptions(assetsDir, fontsDir string) ([]Option, int, error) {
	var opts []Option

	if assetsDir != "" {
		r, err := assets.NewDirResolver(assetsDir)
		if err != nil {
			return nil, 0, err
		}
		opts = append(opts, WithAssets(r))
	}

	fonts := typeset.NewRegistry()
	loaded := 0
	if fontsDir != "" {
		n, err := fonts.LoadDir(fontsDir)
		if err != nil {
			return nil, 0, fmt.Errorf("load fonts: %w", err)
		}
		loaded = n
	}
	opts = append(opts, WithMeasurer(typeset.NewMeasurer(fonts)))

	return opts, loaded, nil
}
