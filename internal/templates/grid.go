package templates

import (
	"image"
	"strings"

	"github.com/blockedby/resumekit/internal/canvas"
	"github.com/blockedby/resumekit/internal/layout"
	"github.com/blockedby/resumekit/internal/models"
	"github.com/blockedby/resumekit/internal/typeset"
)

// Grid geometry.
var (
	gridHeader  = layout.R(0, 0, PageSize.W, 180)
	gridAccent  = layout.R(PageSize.W-150, -40, 190, 130)
	gridPhoto   = layout.R(40, 35, 110, 110)
	gridNameX   = 175.0
	gridNameTop = 52.0
	gridLeft    = column{X: 40, W: 170, Split: 170}
	gridRight   = column{X: 235, W: 320, Split: 95, Gutter: 12}
	gridBodyTop = 205.0
	gridDivider = 222.0
)

var (
	gridInk       = layout.MustHex("#222222")
	gridMuted     = layout.MustHex("#6B7280")
	gridAccentInk = layout.MustHex("#2F3E46")
)

var gridTheme = theme{
	Title:       typeset.Style{Size: 13, Weight: typeset.Bold, Color: gridAccentInk},
	Strong:      typeset.Style{Size: 10.5, Weight: typeset.Bold, Color: gridInk},
	Accent:      typeset.Style{Size: 10, Weight: typeset.Medium, Italic: true, Color: gridAccentInk},
	Body:        typeset.Style{Size: 9.5, Color: gridInk, Leading: 1.15},
	Muted:       typeset.Style{Size: 9, Color: gridMuted},
	Placeholder: typeset.Style{Size: 9.5, Italic: true, Color: layout.PlaceholderInk},
	TitleGap:    10,
	RowGap:      14,
	StackGap:    3,
	LineGap:     7,
	SectionGap:  18,
	IconSize:    11,
	DotSize:     6,
}

// Grid is template 1: a header band with a round photo and the upper-cased
// name, a narrow left column for contacts and skills and a wide right
// column for education, work and the summary.
type Grid struct{}

// ID implements Template.
func (Grid) ID() int { return GridID }

// Name implements Template.
func (Grid) Name() string { return "Grid" }

// Draw implements Template.
func (Grid) Draw(cv *canvas.Canvas, env Env, data *models.ResumeData, photo image.Image) {
	p := newPage(cv, env)
	th := &gridTheme

	cv.Group("background", func() {
		p.asset("grid_background", cv.Bounds(), box)
		p.asset("grid_header", gridHeader, box)
	})
	cv.Group("ornament", func() {
		p.rotatedAsset("grid_accent", gridAccent, -15, oval)
	})

	p.photo(photo, gridPhoto, layout.CircleClip)

	cv.Group("headline", func() {
		nameW := PageSize.W - gridNameX - 40
		st := typeset.Style{Size: 30, Weight: typeset.Bold, Color: gridInk}
		name := p.text(strings.ToUpper(data.FullName()), st, layout.Point{X: gridNameX, Y: gridNameTop}, nameW, typeset.AlignLeft)

		y := gridNameTop + name.Height + 6
		if !name.Empty() {
			cv.Line(layout.Point{X: gridNameX, Y: y}, layout.Point{X: gridNameX + name.Width, Y: y}, gridAccentInk, 2)
		}
		pos := typeset.Style{Size: 14, Weight: typeset.Medium, Color: gridMuted}
		p.text(data.Headline("Professional"), pos, layout.Point{X: gridNameX, Y: y + 10}, nameW, typeset.AlignLeft)
	})

	cv.Line(layout.Point{X: gridDivider, Y: gridBodyTop}, layout.Point{X: gridDivider, Y: PageSize.H - 40}, layout.FallbackColor, 0.75)

	left := layout.NewCursor(gridLeft.X, gridBodyTop)
	p.contactsSection(left, gridLeft, th, data, true)
	p.skillsSection(left, gridLeft, th, data, 1, "")

	right := layout.NewCursor(gridRight.X, gridBodyTop)
	p.educationSection(right, gridRight, th, data)
	p.workSection(right, gridRight, th, data)
	p.aboutSection(right, gridRight, th, data)
}
