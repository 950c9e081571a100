package templates

import (
	"image"

	"github.com/blockedby/resumekit/internal/canvas"
	"github.com/blockedby/resumekit/internal/layout"
	"github.com/blockedby/resumekit/internal/models"
	"github.com/blockedby/resumekit/internal/typeset"
)

var (
	sidebarPanel   = layout.R(0, 0, 200, PageSize.H)
	sidebarLeaf    = layout.R(110, PageSize.H-170, 150, 150)
	sidebarPhoto   = layout.R(45, 40, 110, 110)
	sidebarSide    = column{X: 20, W: 160, Split: 160}
	sidebarMain    = column{X: 225, W: PageSize.W - 225 - 35, Split: 90, Gutter: 10}
	sidebarSideTop = 180.0
	sidebarNameTop = 45.0
)

var (
	sidebarNavy  = layout.MustHex("#1F2A44")
	sidebarTeal  = layout.MustHex("#2A9D8F")
	sidebarInk   = layout.MustHex("#1E1E1E")
	sidebarMuted = layout.MustHex("#667085")
	sidebarPale  = layout.MustHex("#E6ECF5")
)

var sidebarMainTheme = theme{
	Title:       typeset.Style{Size: 13, Weight: typeset.Bold, Color: sidebarNavy},
	Strong:      typeset.Style{Size: 10.5, Weight: typeset.Bold, Color: sidebarInk},
	Accent:      typeset.Style{Size: 10, Weight: typeset.Medium, Color: sidebarTeal},
	Body:        typeset.Style{Size: 9.5, Color: sidebarInk, Leading: 1.15},
	Muted:       typeset.Style{Size: 9, Color: sidebarMuted},
	Placeholder: typeset.Style{Size: 9.5, Italic: true, Color: layout.PlaceholderInk},
	TitleGap:    10,
	RowGap:      14,
	StackGap:    3,
	LineGap:     6,
	SectionGap:  18,
	IconSize:    11,
	DotSize:     6,
}

var sidebarSideTheme = theme{
	Title:       typeset.Style{Size: 12, Weight: typeset.Bold, Color: layout.White},
	Strong:      typeset.Style{Size: 10, Weight: typeset.Bold, Color: layout.White},
	Accent:      typeset.Style{Size: 9.5, Color: sidebarPale},
	Body:        typeset.Style{Size: 9, Color: sidebarPale},
	Muted:       typeset.Style{Size: 9, Color: sidebarPale},
	Placeholder: typeset.Style{Size: 9, Italic: true, Color: sidebarPale},
	TitleGap:    9,
	RowGap:      10,
	StackGap:    2,
	LineGap:     6,
	SectionGap:  20,
	IconSize:    11,
	DotSize:     6,
}

// Sidebar is template 3: a dark side panel holding the photo, contacts and
// skills, next to a main column with the name, summary, work and education.
type Sidebar struct{}

// ID implements Template.
func (Sidebar) ID() int { return SidebarID }

// Name implements Template.
func (Sidebar) Name() string { return "Sidebar" }

// Draw implements Template.
func (Sidebar) Draw(cv *canvas.Canvas, env Env, data *models.ResumeData, photo image.Image) {
	p := newPage(cv, env)

	cv.Group("background", func() {
		p.asset("sidebar_panel", sidebarPanel, box)
	})
	cv.Group("ornament", func() {
		p.cv.Clip(sidebarPanel, layout.RectClip, func() {
			p.rotatedAsset("sidebar_leaf", sidebarLeaf, 25, oval)
		})
	})

	p.photo(photo, sidebarPhoto, layout.CircleClip)

	side := layout.NewCursor(sidebarSide.X, sidebarSideTop)
	p.contactsSection(side, sidebarSide, &sidebarSideTheme, data, true)
	p.skillsSection(side, sidebarSide, &sidebarSideTheme, data, 1, "skill_dot")

	content := layout.NewCursor(sidebarMain.X, sidebarNameTop)
	cv.Group("headline", func() {
		st := typeset.Style{Size: 28, Weight: typeset.Bold, Color: sidebarNavy}
		name := p.text(data.FullName(), st, layout.Point{X: sidebarMain.X, Y: content.Y()}, sidebarMain.W, typeset.AlignLeft)
		content.Advance(name.Height, 6)

		pos := typeset.Style{Size: 13, Weight: typeset.Medium, Color: sidebarTeal}
		b := p.text(data.Headline("Professional"), pos, layout.Point{X: sidebarMain.X, Y: content.Y()}, sidebarMain.W, typeset.AlignLeft)
		content.Advance(b.Height, 8)

		top := content.Advance(3, 24)
		cv.FillRect(layout.R(sidebarMain.X, top, 60, 3), sidebarTeal)
	})

	p.aboutSection(content, sidebarMain, &sidebarMainTheme, data)
	p.workSection(content, sidebarMain, &sidebarMainTheme, data)
	p.educationSection(content, sidebarMain, &sidebarMainTheme, data)
}
