package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/blockedby/resumekit/internal/models"
	"github.com/blockedby/resumekit/internal/render"
	"github.com/blockedby/resumekit/internal/templates"
)

// Renderer is what the handlers need from the render engine.
type Renderer interface {
	Templates() []templates.Template
	Render(ctx context.Context, id int, data *models.ResumeData, photo image.Image) (*render.Document, error)
	Thumbnail(ctx context.Context, id int, data *models.ResumeData, photo image.Image, width, height int) ([]byte, error)
}

// Broadcaster receives render events.
type Broadcaster interface {
	Broadcast(msg []byte)
}

// RenderRequest is the body of the render and thumbnail endpoints.
type RenderRequest struct {
	Resume *models.ResumeData `json:"resume"`
	// Photo is base64 encoded image data, optionally as a data URI.
	Photo string `json:"photo,omitempty"`
}

// TemplateInfo lists one template.
type TemplateInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Handler serves the render API.
type Handler struct {
	engine     Renderer
	events     Broadcaster
	log        *zerolog.Logger
	thumbWidth int
	status     func() map[string]string
}

// NewHandler creates a handler. events may be nil.
func NewHandler(engine Renderer, events Broadcaster, thumbWidth int, log *zerolog.Logger) *Handler {
	return &Handler{
		engine:     engine,
		events:     events,
		log:        log,
		thumbWidth: thumbWidth,
	}
}

// SetStatus adds the components reported by the health endpoint.
func (h *Handler) SetStatus(fn func() map[string]string) {
	h.status = fn
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	body := map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}
	if h.status != nil {
		for k, v := range h.status() {
			body[k] = v
		}
	}
	respondJSON(w, http.StatusOK, body)
}

// ListTemplates handles GET /api/v1/templates
func (h *Handler) ListTemplates(w http.ResponseWriter, _ *http.Request) {
	all := h.engine.Templates()
	out := make([]TemplateInfo, 0, len(all))
	for _, t := range all {
		out = append(out, TemplateInfo{ID: t.ID(), Name: t.Name()})
	}
	respondJSON(w, http.StatusOK, out)
}

// Render handles POST /api/v1/templates/{id}/render
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	id, data, photo, ok := h.decode(w, r)
	if !ok {
		return
	}

	doc, err := h.engine.Render(r.Context(), id, data, photo)
	if err != nil {
		h.publish(RenderPayload{Source: "http", Template: id, Error: err.Error()})
		h.respondRenderError(w, id, err)
		return
	}
	h.publish(RenderPayload{
		Source:     "http",
		DocumentID: doc.ID.String(),
		Template:   id,
		Bytes:      len(doc.PDF),
		Fallbacks:  len(doc.Diagnostics),
	})

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fileName(doc.Title)+".pdf"))
	w.Header().Set("X-Document-ID", doc.ID.String())
	w.Header().Set("X-Render-Fallbacks", strconv.Itoa(len(doc.Diagnostics)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.PDF)
}

// Thumbnail handles POST /api/v1/templates/{id}/thumbnail?width=&height=
func (h *Handler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	width, err := queryInt(r, "width", h.thumbWidth)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := queryInt(r, "height", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, data, photo, ok := h.decode(w, r)
	if !ok {
		return
	}

	png, err := h.engine.Thumbnail(r.Context(), id, data, photo, width, height)
	if err != nil {
		h.respondRenderError(w, id, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// decode reads the template id, the body and the photo, answering the
// request itself when any of them is unusable.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (int, *models.ResumeData, image.Image, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid template id")
		return 0, nil, nil, false
	}

	var req RenderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return 0, nil, nil, false
		}
		respondError(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return 0, nil, nil, false
	}

	if r.URL.Query().Get("strict") == "true" && req.Resume != nil {
		if err := req.Resume.Validate(); err != nil {
			respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":    "invalid resume",
				"problems": strings.Split(err.Error(), "\n"),
			})
			return 0, nil, nil, false
		}
	}

	photo, err := models.DecodePhotoBase64(req.Photo)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid photo: "+err.Error())
		return 0, nil, nil, false
	}

	return id, req.Resume, photo, true
}

func (h *Handler) respondRenderError(w http.ResponseWriter, id int, err error) {
	var rerr *render.RenderError
	switch {
	case errors.Is(err, templates.ErrUnknownTemplate):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, render.ErrThumbnailSize):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, "render canceled")
	case errors.As(err, &rerr):
		h.log.Error().Err(err).Int("template", id).Str("op", rerr.Op).Msg("render failed")
		respondError(w, http.StatusInternalServerError, "render failed")
	default:
		h.log.Error().Err(err).Int("template", id).Msg("render failed")
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) publish(p RenderPayload) {
	if h.events == nil {
		return
	}
	p.At = time.Now().UTC()
	h.events.Broadcast(RenderEvent(p))
}

// fileName turns a document title into a safe download name.
func fileName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, title)
	if name == "" {
		return "resume"
	}
	return name
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return v, nil
}

// helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
