package templates

import (
	"fmt"
	"math"
	"strings"

	"github.com/blockedby/resumekit/internal/layout"
	"github.com/blockedby/resumekit/internal/models"
	"github.com/blockedby/resumekit/internal/typeset"
)

// Section titles.
const (
	titleContacts  = "CONTACTS"
	titleEducation = "EDUCATION"
	titleWork      = "WORK EXPERIENCE"
	titleSkills    = "SKILLS"
	titleAbout     = "ABOUT ME"

	noSkillsLabel = "No skills selected"
)

// Section groups, as recorded on the canvas.
const (
	groupContacts  = "contacts"
	groupEducation = "education"
	groupWork      = "work"
	groupSkills    = "skills"
	groupAbout     = "about"
)

// theme is the typography and spacing of one template.
type theme struct {
	Title       typeset.Style
	TitleAlign  typeset.Align
	Strong      typeset.Style
	Accent      typeset.Style
	Body        typeset.Style
	Muted       typeset.Style
	Placeholder typeset.Style

	// TitleGap separates a section title from its first row.
	TitleGap float64
	// RowGap separates two-column rows.
	RowGap float64
	// StackGap separates blocks stacked inside one column of a row.
	StackGap float64
	// LineGap separates list lines (contacts, skills).
	LineGap float64
	// SectionGap follows every section.
	SectionGap float64

	IconSize float64
	DotSize  float64

	// TitleDecor, when set, is drawn behind each section title over the
	// title's measured box.
	TitleDecor func(p *page, title layout.Rect)
}

// column is a vertical strip of the page. Two-column rows split it into a
// Split-wide left part and the rest, Gutter apart.
type column struct {
	X, W   float64
	Split  float64
	Gutter float64
}

func (c column) left() (x, w float64)  { return c.X, c.Split }
func (c column) right() (x, w float64) { return c.X + c.Split + c.Gutter, c.W - c.Split - c.Gutter }

type item struct {
	text  string
	style typeset.Style
}

// section draws a titled block in its own group and leaves cur below it.
func (p *page) section(group, title string, cur *layout.Cursor, col column, th *theme, body func()) {
	p.cv.Group(group, func() {
		p.cv.Group("title", func() {
			b := p.m.Layout(title, th.Title, col.W)
			y := cur.Y()
			if th.TitleDecor != nil {
				th.TitleDecor(p, alignedBox(b, col.X, y, col.W, th.TitleAlign))
			}
			p.cv.DrawText(b, layout.Point{X: col.X, Y: y}, col.W, th.TitleAlign)
			cur.Advance(b.Height, th.TitleGap)
		})
		body()
	})
	cur.Advance(0, th.SectionGap)
}

// stack draws the non-blank items top-down from y and returns the height
// from y to the bottom of the last drawn block. Blank items take no space.
func (p *page) stack(x, y, w, gap float64, items []item) float64 {
	cur := layout.NewCursor(x, y)
	h := 0.0
	for _, it := range items {
		if strings.TrimSpace(it.text) == "" {
			continue
		}
		b := p.m.Layout(it.text, it.style, w)
		top := cur.Advance(b.Height, gap)
		p.cv.DrawText(b, layout.Point{X: x, Y: top}, w, typeset.AlignLeft)
		h = top + b.Height - y
	}
	return h
}

// row draws a two-column row at cur and advances cur by the taller column
// plus th.RowGap. A row with nothing to show is skipped.
func (p *page) row(cur *layout.Cursor, group string, col column, th *theme, left, right []item) {
	y := cur.Y()
	var lh, rh float64
	p.cv.Group(group, func() {
		p.cv.Group("left", func() {
			x, w := col.left()
			lh = p.stack(x, y, w, th.StackGap, left)
		})
		p.cv.Group("right", func() {
			x, w := col.right()
			rh = p.stack(x, y, w, th.StackGap, right)
		})
	})
	if lh == 0 && rh == 0 {
		return
	}
	cur.AdvanceRow(lh, rh, th.RowGap)
}

func (p *page) workSection(cur *layout.Cursor, col column, th *theme, data *models.ResumeData) {
	p.section(groupWork, titleWork, cur, col, th, func() {
		for i, w := range data.Work {
			p.row(cur, rowGroup(i), col, th,
				[]item{{w.Period(), th.Muted}, {w.Location, th.Muted}},
				[]item{{w.Company, th.Strong}, {w.Position, th.Accent}, {w.Responsibilities, th.Body}},
			)
		}
	})
}

func (p *page) educationSection(cur *layout.Cursor, col column, th *theme, data *models.ResumeData) {
	p.section(groupEducation, titleEducation, cur, col, th, func() {
		for i, e := range data.Education {
			p.row(cur, rowGroup(i), col, th,
				[]item{{e.Period(), th.Muted}},
				[]item{{e.Institution, th.Strong}, {e.Details, th.Body}},
			)
		}
	})
}

func (p *page) aboutSection(cur *layout.Cursor, col column, th *theme, data *models.ResumeData) {
	p.section(groupAbout, titleAbout, cur, col, th, func() {
		h := p.stack(col.X, cur.Y(), col.W, 0, []item{{data.Summary, th.Body}})
		if h > 0 {
			cur.Advance(h, th.LineGap)
		}
	})
}

var contactIcons = []string{"icon_email", "icon_phone", "icon_website", "icon_address"}

// contactsSection lists the non-blank contact lines, each behind an icon
// when icons is set.
func (p *page) contactsSection(cur *layout.Cursor, col column, th *theme, data *models.ResumeData, icons bool) {
	c := data.Contact
	lines := []string{c.Email, c.Phone, c.Website, c.Address}

	p.section(groupContacts, titleContacts, cur, col, th, func() {
		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}
			p.cv.Group(contactIcons[i], func() {
				p.iconLine(cur, col, th, contactIcons[i], th.IconSize, line, th.Body, icons)
			})
		}
	})
}

// iconLine draws an optional icon followed by wrapped text and advances cur
// by the taller of the two plus th.LineGap.
func (p *page) iconLine(cur *layout.Cursor, col column, th *theme, icon string, size float64, text string, st typeset.Style, withIcon bool) {
	y := cur.Y()
	x, w := col.X, col.W
	iconH := 0.0
	if withIcon {
		lh := p.m.LineHeight(st)
		top := y + math.Max(0, (lh-size)/2)
		p.asset(icon, layout.R(x, top, size, size), oval)
		iconH = top + size - y
		x += size + 6
		w -= size + 6
	}
	b := p.text(text, st, layout.Point{X: x, Y: y}, w, typeset.AlignLeft)
	cur.AdvanceRow(iconH, b.Height, th.LineGap)
}

// skillsSection lists the selected skills in columns, or the placeholder
// line when none is selected. dot names a bullet asset; empty means none.
func (p *page) skillsSection(cur *layout.Cursor, col column, th *theme, data *models.ResumeData, columns int, dot string) {
	labels := data.SelectedSkills()

	p.section(groupSkills, titleSkills, cur, col, th, func() {
		p.cv.Group("items", func() {
			if len(labels) == 0 {
				b := p.text(noSkillsLabel, th.Placeholder, layout.Point{X: col.X, Y: cur.Y()}, col.W, typeset.AlignLeft)
				cur.Advance(b.Height, th.LineGap)
				return
			}

			if columns < 1 {
				columns = 1
			}
			gutter := col.Gutter
			cellW := (col.W - float64(columns-1)*gutter) / float64(columns)
			rowH := 0.0
			for i, label := range labels {
				c := i % columns
				if c == 0 && i > 0 {
					cur.Advance(rowH, th.LineGap)
					rowH = 0
				}
				cell := layout.NewCursor(col.X+float64(c)*(cellW+gutter), cur.Y())
				strip := column{X: cell.X, W: cellW}
				p.iconLine(cell, strip, th, dot, th.DotSize, label, th.Body, dot != "")
				rowH = math.Max(rowH, cell.Y()-cur.Y()-th.LineGap)
			}
			cur.Advance(rowH, th.LineGap)
		})
	})
}

func rowGroup(i int) string {
	return fmt.Sprintf("row-%d", i)
}
