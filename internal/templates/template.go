// Package templates holds the three resume page layouts.
//
// Every template runs the same passes over a canvas: background art,
// rotated decorations, the photo, the headline, then its sections in a
// fixed order. Blocks are placed top-down with layout.Cursor; two-column
// rows advance by the taller column plus a gap. Content longer than the
// page runs past the bottom edge; nothing is paginated or truncated.
package templates

import (
	"errors"
	"fmt"
	"image"

	"github.com/blockedby/resumekit/internal/assets"
	"github.com/blockedby/resumekit/internal/canvas"
	"github.com/blockedby/resumekit/internal/layout"
	"github.com/blockedby/resumekit/internal/models"
	"github.com/blockedby/resumekit/internal/typeset"
)

// ErrUnknownTemplate is returned by Lookup for ids outside 1..3.
var ErrUnknownTemplate = errors.New("unknown template")

// PageSize is the A4 page all templates share, in points.
var PageSize = layout.Size{W: 595.2, H: 841.8}

// Template ids.
const (
	GridID    = 1
	BannerID  = 2
	SidebarID = 3
)

// Env is what a template needs besides the resume itself. Both fields are
// shared across renders and only read.
type Env struct {
	Measurer *typeset.Measurer
	Assets   assets.Resolver
}

// Template draws one resume page.
type Template interface {
	ID() int
	Name() string
	Draw(cv *canvas.Canvas, env Env, data *models.ResumeData, photo image.Image)
}

var all = []Template{Grid{}, Banner{}, Sidebar{}}

// All returns the templates ordered by id.
func All() []Template {
	out := make([]Template, len(all))
	copy(out, all)
	return out
}

// Lookup returns the template with the given id.
func Lookup(id int) (Template, error) {
	for _, t := range all {
		if t.ID() == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownTemplate, id)
}
