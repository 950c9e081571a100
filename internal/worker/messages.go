package worker

import (
	"github.com/blockedby/resumekit/internal/canvas"
	"github.com/blockedby/resumekit/internal/models"
)

// Stream and subjects used by the render worker.
const (
	Stream          = "resumes"
	SubjectRender   = "resumes.render"
	SubjectRendered = "resumes.rendered"
	Durable         = "resume_renderer"
)

// RenderRequest asks for one resume to be rendered.
type RenderRequest struct {
	RequestID string             `json:"request_id"`
	Template  int                `json:"template"`
	Resume    *models.ResumeData `json:"resume"`
	// Photo is base64 encoded image data, optionally as a data URI.
	Photo string `json:"photo,omitempty"`
}

// RenderResult answers a RenderRequest. Exactly one of PDF and Error is set.
type RenderResult struct {
	RequestID   string              `json:"request_id"`
	DocumentID  string              `json:"document_id,omitempty"`
	Template    int                 `json:"template"`
	Title       string              `json:"title,omitempty"`
	Author      string              `json:"author,omitempty"`
	PDF         []byte              `json:"pdf,omitempty"`
	Diagnostics []canvas.Diagnostic `json:"diagnostics,omitempty"`
	Error       string              `json:"error,omitempty"`
}
