// Package render turns resume data into finished documents: it picks the
// template, draws it on a fresh page and encodes the page as PDF or as a
// PNG thumbnail.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blockedby/resumekit/internal/assets"
	"github.com/blockedby/resumekit/internal/canvas"
	"github.com/blockedby/resumekit/internal/layout"
	"github.com/blockedby/resumekit/internal/models"
	"github.com/blockedby/resumekit/internal/pdfdoc"
	"github.com/blockedby/resumekit/internal/raster"
	"github.com/blockedby/resumekit/internal/templates"
	"github.com/blockedby/resumekit/internal/typeset"
)

// Producer is written into every document's metadata.
const Producer = "resumekit"

// Thumbnail bounds, in pixels.
const (
	DefaultThumbnailWidth = 320
	MaxThumbnailWidth     = 2400
)

// ErrThumbnailSize is returned for a thumbnail size outside the bounds.
var ErrThumbnailSize = errors.New("thumbnail size out of range")

// Document is a rendered resume.
type Document struct {
	ID          uuid.UUID           `json:"id"`
	Template    int                 `json:"template"`
	Title       string              `json:"title"`
	Author      string              `json:"author"`
	CreatedAt   time.Time           `json:"created_at"`
	PDF         []byte              `json:"-"`
	Diagnostics []canvas.Diagnostic `json:"diagnostics,omitempty"`
}

// RenderError is the only failure a render reports once the template is
// known: the page could not be produced at all.
type RenderError struct {
	Template int
	Op       string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render template %d: %s: %v", e.Template, e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Engine renders templates. It is safe for concurrent use; every call draws
// on its own page and only reads the shared fonts and assets.
type Engine struct {
	measurer *typeset.Measurer
	assets   assets.Resolver
	page     layout.Size
	now      func() time.Time
	log      *zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMeasurer sets the text measurer and, through it, the font registry.
func WithMeasurer(m *typeset.Measurer) Option {
	return func(e *Engine) { e.measurer = m }
}

// WithAssets sets the asset store.
func WithAssets(r assets.Resolver) Option {
	return func(e *Engine) { e.assets = r }
}

// WithClock sets the time source used for document dates. A fixed clock
// makes output byte-for-byte reproducible.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithPageSize overrides the page size shared by the templates.
func WithPageSize(s layout.Size) Option {
	return func(e *Engine) { e.page = s }
}

// New creates an engine. Without options it uses the built-in fonts, no
// assets (every decoration falls back to flat shapes) and the wall clock.
func New(opts ...Option) *Engine {
	nop := zerolog.Nop()
	e := &Engine{
		assets: assets.None{},
		page:   templates.PageSize,
		now:    time.Now,
		log:    &nop,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.measurer == nil {
		e.measurer = typeset.NewMeasurer(nil)
	}
	return e
}

// Templates lists the available templates.
func (e *Engine) Templates() []templates.Template {
	return templates.All()
}

// Compose draws the page for template id without encoding it.
func (e *Engine) Compose(ctx context.Context, id int, data *models.ResumeData, photo image.Image) (*canvas.Canvas, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tpl, err := templates.Lookup(id)
	if err != nil {
		return nil, err
	}
	if !e.page.Valid() {
		return nil, &RenderError{Template: id, Op: "begin", Err: fmt.Errorf("%w: %gx%g", pdfdoc.ErrInvalidPageSize, e.page.W, e.page.H)}
	}
	cv := canvas.New(e.page)
	if err := e.draw(tpl, cv, data, photo); err != nil {
		return nil, err
	}
	return cv, nil
}

// Render draws template id and encodes it as a one-page PDF. Missing fonts,
// assets, photo or fields never fail a render; they are reported in
// Document.Diagnostics. Unknown ids fail with templates.ErrUnknownTemplate,
// encoding failures with *RenderError.
func (e *Engine) Render(ctx context.Context, id int, data *models.ResumeData, photo image.Image) (*Document, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tpl, err := templates.Lookup(id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = &models.ResumeData{}
	}

	author := data.FullName()
	title := author
	if title == "" {
		title = "Resume"
	}
	created := e.now().UTC().Truncate(time.Second)

	doc, err := pdfdoc.Begin(e.page, pdfdoc.Metadata{
		Title:    title,
		Author:   author,
		Subject:  tpl.Name() + " resume",
		Creator:  Producer + " " + tpl.Name(),
		Producer: Producer,
		Date:     created,
	})
	if err != nil {
		return nil, &RenderError{Template: id, Op: "begin", Err: err}
	}

	if err := e.draw(tpl, doc.Canvas(), data, photo); err != nil {
		return nil, err
	}

	pdf, err := doc.Finish()
	if err != nil {
		return nil, &RenderError{Template: id, Op: "encode", Err: err}
	}

	out := &Document{
		ID:          uuid.New(),
		Template:    id,
		Title:       title,
		Author:      author,
		CreatedAt:   created,
		PDF:         pdf,
		Diagnostics: doc.Canvas().Diagnostics(),
	}
	e.logDiagnostics(id, out.Diagnostics)
	e.log.Info().
		Int("template", id).
		Str("document_id", out.ID.String()).
		Int("bytes", len(pdf)).
		Dur("took", time.Since(start)).
		Msg("resume rendered")
	return out, nil
}

// Thumbnail renders template id as a PNG of the given pixel width. A
// height of zero keeps the page aspect ratio; a width of zero uses
// DefaultThumbnailWidth.
func (e *Engine) Thumbnail(ctx context.Context, id int, data *models.ResumeData, photo image.Image, width, height int) ([]byte, error) {
	if width == 0 {
		width = DefaultThumbnailWidth
	}
	if width < 0 || width > MaxThumbnailWidth || height < 0 || height > 2*MaxThumbnailWidth {
		return nil, fmt.Errorf("%w: %dx%d", ErrThumbnailSize, width, height)
	}

	cv, err := e.Compose(ctx, id, data, photo)
	if err != nil {
		return nil, err
	}
	e.logDiagnostics(id, cv.Diagnostics())

	png, err := raster.EncodePNG(cv, width, height)
	if err != nil {
		return nil, &RenderError{Template: id, Op: "thumbnail", Err: err}
	}
	return png, nil
}

// draw runs the template. A panic inside a template is reported as a
// RenderError.
func (e *Engine) draw(tpl templates.Template, cv *canvas.Canvas, data *models.ResumeData, photo image.Image) (err error) {
	if data == nil {
		data = &models.ResumeData{}
	}
	defer func() {
		if r := recover(); r != nil {
			err = &RenderError{Template: tpl.ID(), Op: "draw", Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	tpl.Draw(cv, templates.Env{Measurer: e.measurer, Assets: e.assets}, data, photo)
	if !cv.Balanced() {
		return &RenderError{Template: tpl.ID(), Op: "draw", Err: errors.New("unbalanced clip or rotation")}
	}
	return nil
}

func (e *Engine) logDiagnostics(id int, diags []canvas.Diagnostic) {
	for _, d := range diags {
		e.log.Debug().
			Int("template", id).
			Str("kind", string(d.Kind)).
			Str("name", d.Name).
			Msg("render fallback")
	}
}
