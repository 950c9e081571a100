// Package pdfdoc encodes a recorded canvas page as a single-page PDF.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/blockedby/resumekit/internal/canvas"
	"github.com/blockedby/resumekit/internal/layout"
)

var (
	// ErrInvalidPageSize is returned for non-positive or non-finite sizes.
	ErrInvalidPageSize = errors.New("invalid page size")
	// ErrEncoding wraps failures reported by the PDF writer.
	ErrEncoding = errors.New("pdf encoding failed")
)

// Metadata is written to the document information dictionary.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
	// Date is used for both CreationDate and ModDate. A zero Date lets the
	// writer use the current time.
	Date time.Time
}

// Document is a single page being drawn.
type Document struct {
	meta Metadata
	cv   *canvas.Canvas
}

// Begin starts a one-page document of the given size in points.
func Begin(size layout.Size, meta Metadata) (*Document, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidPageSize, size.W, size.H)
	}
	return &Document{meta: meta, cv: canvas.New(size)}, nil
}

// Canvas returns the page's drawing surface.
func (d *Document) Canvas() *canvas.Canvas {
	return d.cv
}

// Metadata returns the document metadata.
func (d *Document) Metadata() Metadata {
	return d.meta
}

// Finish encodes the page and returns the PDF bytes.
func (d *Document) Finish() ([]byte, error) {
	return Encode(d.cv, d.meta)
}

// Encode replays the ops of cv into a new PDF. A panic inside the PDF
// writer is returned as ErrEncoding.
func Encode(cv *canvas.Canvas, meta Metadata) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrEncoding, r)
		}
	}()

	size := cv.Size()
	if !size.Valid() {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidPageSize, size.W, size.H)
	}
	if !cv.Balanced() {
		return nil, fmt.Errorf("%w: unbalanced clip or transform", ErrEncoding)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: size.W, Ht: size.H},
	})
	pdf.SetCompression(true)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	if meta.Title != "" {
		pdf.SetTitle(infoText(meta.Title), true)
	}
	if meta.Author != "" {
		pdf.SetAuthor(infoText(meta.Author), true)
	}
	if meta.Subject != "" {
		pdf.SetSubject(infoText(meta.Subject), true)
	}
	if meta.Creator != "" {
		pdf.SetCreator(infoText(meta.Creator), true)
	}
	if meta.Producer != "" {
		pdf.SetProducer(infoText(meta.Producer), true)
	}
	if !meta.Date.IsZero() {
		pdf.SetCreationDate(meta.Date)
		pdf.SetModificationDate(meta.Date)
	}
	pdf.AddPage()

	e := &encoder{
		pdf:    pdf,
		fonts:  make(map[string]bool),
		images: make(map[*canvas.Image]string),
		widths: make(map[int]bool),
	}
	for _, op := range cv.Ops() {
		if err := e.op(op); err != nil {
			return nil, err
		}
		if pdf.Err() {
			return nil, fmt.Errorf("%w: %s: %v", ErrEncoding, op.Kind, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return buf.Bytes(), nil
}

// infoText makes s safe for the UTF-16 strings of the information
// dictionary: invalid bytes and runes outside the Basic Multilingual Plane
// become U+FFFD.
func infoText(s string) string {
	s = strings.ToValidUTF8(s, string(utf8.RuneError))
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return utf8.RuneError
		}
		return r
	}, s)
}
