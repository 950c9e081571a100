package templates

import (
	"image"

	"github.com/blockedby/resumekit/internal/canvas"
	"github.com/blockedby/resumekit/internal/layout"
	"github.com/blockedby/resumekit/internal/models"
	"github.com/blockedby/resumekit/internal/typeset"
)

// Banner frame padding around the measured name, per axis, and the inset
// of the inner frame, per axis.
const (
	bannerFramePad   = 150.0
	bannerFrameInset = 16.0
)

var (
	bannerPhoto     = layout.R(PageSize.W/2-55, 28, 110, 110)
	bannerOrnTop    = layout.R(PageSize.W-175, 18, 150, 150)
	bannerOrnBottom = layout.R(25, PageSize.H-175, 150, 150)
	bannerBody      = column{X: 60, W: PageSize.W - 120, Split: 130, Gutter: 15}
	bannerNameTop   = 218.0
)

var (
	bannerInk   = layout.MustHex("#2B2118")
	bannerBrown = layout.MustHex("#8C5A3C")
	bannerPaper = layout.MustHex("#FBF6EE")
	bannerMuted = layout.MustHex("#7A6A5A")
)

var bannerTheme = theme{
	Title:       typeset.Style{Family: "Go Smallcaps", Size: 15, Color: bannerInk},
	TitleAlign:  typeset.AlignCenter,
	Strong:      typeset.Style{Size: 10.5, Weight: typeset.Bold, Color: bannerInk},
	Accent:      typeset.Style{Size: 10, Italic: true, Color: bannerBrown},
	Body:        typeset.Style{Size: 9.5, Color: bannerInk, Leading: 1.15},
	Muted:       typeset.Style{Size: 9, Color: bannerMuted},
	Placeholder: typeset.Style{Size: 9.5, Italic: true, Color: layout.PlaceholderInk},
	TitleGap:    14,
	RowGap:      12,
	StackGap:    3,
	LineGap:     6,
	SectionGap:  16,
	IconSize:    11,
	DotSize:     6,
	TitleDecor: func(p *page, title layout.Rect) {
		p.asset("banner_scroll", title.Inset(-40, -8), box)
	},
}

// BannerFrame returns the outer and inner headline frames for a name block
// of the given measured size centered at c.
func BannerFrame(c layout.Point, name layout.Size) (outer, inner layout.Rect) {
	outer = layout.CenteredIn(c, name.Grow(bannerFramePad, bannerFramePad))
	inner = layout.CenteredIn(c, outer.Size().Grow(-bannerFrameInset, -bannerFrameInset))
	return outer, inner
}

// Banner is template 2: a centered rounded photo over a framed name and a
// single column of sections, each title sitting on a scroll.
type Banner struct{}

// ID implements Template.
func (Banner) ID() int { return BannerID }

// Name implements Template.
func (Banner) Name() string { return "Banner" }

// Draw implements Template.
func (Banner) Draw(cv *canvas.Canvas, env Env, data *models.ResumeData, photo image.Image) {
	p := newPage(cv, env)
	th := &bannerTheme

	cv.Group("background", func() {
		p.asset("banner_background", cv.Bounds(), box)
	})
	cv.Group("ornament", func() {
		p.rotatedAsset("banner_ornament_top", bannerOrnTop, 12, oval)
		p.rotatedAsset("banner_ornament_bottom", bannerOrnBottom, -12, oval)
	})

	p.photo(photo, bannerPhoto, layout.Rounded(18))

	var frameBottom float64
	cv.Group("headline", func() {
		st := typeset.Style{Size: 32, Weight: typeset.Bold, Color: bannerInk}
		name := p.m.Layout(data.FullName(), st, PageSize.W-2*bannerBody.X)
		c := layout.Point{X: PageSize.W / 2, Y: bannerNameTop + name.Height/2}

		outer, inner := BannerFrame(c, name.Bounds())
		cv.Group("frame", func() {
			cv.FillRect(outer, bannerBrown)
			cv.FillRect(inner, bannerPaper)
		})
		at := layout.CenteredIn(c, name.Bounds()).Min()
		cv.DrawText(name, at, name.Width, typeset.AlignCenter)

		pos := typeset.Style{Size: 13, Weight: typeset.Medium, Italic: true, Color: bannerBrown}
		b := p.m.Layout(data.Headline("Position"), pos, bannerBody.W)
		cv.DrawText(b, layout.Point{X: bannerBody.X, Y: outer.Bottom() + 12}, bannerBody.W, typeset.AlignCenter)
		frameBottom = outer.Bottom() + 12 + b.Height
	})

	cur := layout.NewCursor(bannerBody.X, frameBottom+28)
	p.contactsSection(cur, bannerBody, th, data, true)
	p.aboutSection(cur, bannerBody, th, data)
	p.workSection(cur, bannerBody, th, data)
	p.educationSection(cur, bannerBody, th, data)
	p.skillsSection(cur, bannerBody, th, data, 3, "")
}
