package web

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/blockedby/resumekit/internal/canvas"
	"github.com/blockedby/resumekit/internal/models"
	"github.com/blockedby/resumekit/internal/pdfdoc"
	"github.com/blockedby/resumekit/internal/render"
	"github.com/blockedby/resumekit/internal/templates"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Templates() []templates.Template {
	return templates.All()
}

func (m *MockRenderer) Render(ctx context.Context, id int, data *models.ResumeData, photo image.Image) (*render.Document, error) {
	args := m.Called(ctx, id, data, photo)
	doc, _ := args.Get(0).(*render.Document)
	return doc, args.Error(1)
}

func (m *MockRenderer) Thumbnail(ctx context.Context, id int, data *models.ResumeData, photo image.Image, width, height int) ([]byte, error) {
	args := m.Called(ctx, id, data, photo, width, height)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

type recorder struct {
	msgs [][]byte
}

func (r *recorder) Broadcast(msg []byte) {
	r.msgs = append(r.msgs, msg)
}

type denyAll struct{}

func (denyAll) Allow() (bool, time.Duration) { return false, 1500 * time.Millisecond }

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func newRouter(engine Renderer, events Broadcaster, limiter Limiter) http.Handler {
	h := NewHandler(engine, events, 320, nopLogger())
	return NewServer(&Config{MaxUploadBytes: 1 << 16}, h, limiter, nil, nopLogger()).Router()
}

func post(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Health(t *testing.T) {
	h := NewHandler(new(MockRenderer), nil, 320, nopLogger())
	h.SetStatus(func() map[string]string { return map[string]string{"nats": "disabled"} })
	router := NewServer(&Config{}, h, nil, nil, nopLogger()).Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disabled", body["nats"])
}

func TestHandler_ListTemplates(t *testing.T) {
	router := newRouter(new(MockRenderer), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []TemplateInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, []TemplateInfo{
		{ID: templates.GridID, Name: "Grid"},
		{ID: templates.BannerID, Name: "Banner"},
		{ID: templates.SidebarID, Name: "Sidebar"},
	}, got)
}

func TestHandler_Render(t *testing.T) {
	engine := new(MockRenderer)
	events := &recorder{}
	router := newRouter(engine, events, nil)

	doc := &render.Document{
		ID:          uuid.New(),
		Template:    templates.GridID,
		Title:       "John Doe",
		PDF:         []byte("%PDF-1.3 test"),
		Diagnostics: []canvas.Diagnostic{{Kind: canvas.MissingAsset, Name: "grid_header"}},
	}
	resume := &models.ResumeData{Name: "John", Surname: "Doe"}
	engine.On("Render", mock.Anything, templates.GridID, resume, nil).Return(doc, nil)

	rec := post(t, router, "/api/v1/templates/1/render", RenderRequest{Resume: resume})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `inline; filename="John_Doe.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, doc.ID.String(), rec.Header().Get("X-Document-ID"))
	assert.Equal(t, "1", rec.Header().Get("X-Render-Fallbacks"))
	assert.Equal(t, doc.PDF, rec.Body.Bytes())

	require.Len(t, events.msgs, 1)
	var ev struct {
		Type    string        `json:"type"`
		Payload RenderPayload `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(events.msgs[0], &ev))
	assert.Equal(t, EventRenderDone, ev.Type)
	assert.Equal(t, doc.ID.String(), ev.Payload.DocumentID)
	assert.Equal(t, 1, ev.Payload.Fallbacks)
	engine.AssertExpectations(t)
}

// hugePhoto is a tiny base64 PNG whose header claims 40000x40000 pixels.
func hugePhoto(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	data := buf.Bytes()
	binary.BigEndian.PutUint32(data[16:20], 40000)
	binary.BigEndian.PutUint32(data[20:24], 40000)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return base64.StdEncoding.EncodeToString(data)
}

func TestHandler_RenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   any
		err    error
		status int
	}{
		{"non numeric id", "/api/v1/templates/grid/render", RenderRequest{}, nil, http.StatusBadRequest},
		{"invalid json", "/api/v1/templates/1/render", "not json", nil, http.StatusBadRequest},
		{"unknown field", "/api/v1/templates/1/render", `{"resume":{},"colour":"red"}`, nil, http.StatusBadRequest},
		{"invalid photo", "/api/v1/templates/1/render", RenderRequest{Photo: "!!!"}, nil, http.StatusBadRequest},
		{"photo over pixel budget", "/api/v1/templates/1/render", RenderRequest{Photo: hugePhoto(t)}, nil, http.StatusBadRequest},
		{"too large", "/api/v1/templates/1/render", RenderRequest{Photo: strings.Repeat("A", 1<<17)}, nil, http.StatusRequestEntityTooLarge},
		{"unknown template", "/api/v1/templates/9/render", RenderRequest{}, templates.ErrUnknownTemplate, http.StatusNotFound},
		{"render failure", "/api/v1/templates/1/render", RenderRequest{}, &render.RenderError{Template: 1, Op: "encode", Err: pdfdoc.ErrEncoding}, http.StatusInternalServerError},
		{"canceled", "/api/v1/templates/1/render", RenderRequest{}, context.Canceled, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(MockRenderer)
			if tt.err != nil {
				engine.On("Render", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			}
			router := newRouter(engine, nil, nil)

			rec := post(t, router, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.err == nil {
				engine.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHandler_RenderStrict(t *testing.T) {
	engine := new(MockRenderer)
	router := newRouter(engine, nil, nil)

	body := RenderRequest{Resume: &models.ResumeData{Contact: models.Contact{Email: "nope"}}}
	rec := post(t, router, "/api/v1/templates/1/render?strict=true", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "problems")
	engine.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_RenderPassesPhoto(t *testing.T) {
	engine := new(MockRenderer)
	router := newRouter(engine, nil, nil)

	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	photo := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	engine.On("Render", mock.Anything, templates.SidebarID, (*models.ResumeData)(nil), mock.MatchedBy(func(p image.Image) bool {
		return p != nil && p.Bounds().Dx() == 3 && p.Bounds().Dy() == 2
	})).Return(&render.Document{ID: uuid.New(), PDF: []byte("%PDF-")}, nil)

	rec := post(t, router, "/api/v1/templates/3/render", RenderRequest{Photo: photo})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `inline; filename="resume.pdf"`, rec.Header().Get("Content-Disposition"))
	engine.AssertExpectations(t)
}

func TestHandler_Thumbnail(t *testing.T) {
	engine := new(MockRenderer)
	router := newRouter(engine, nil, nil)

	engine.On("Thumbnail", mock.Anything, templates.BannerID, mock.Anything, nil, 320, 0).Return([]byte("png-default"), nil)
	engine.On("Thumbnail", mock.Anything, templates.BannerID, mock.Anything, nil, 100, 150).Return([]byte("png-sized"), nil)
	engine.On("Thumbnail", mock.Anything, templates.BannerID, mock.Anything, nil, 5000, 0).Return(nil, render.ErrThumbnailSize)

	rec := post(t, router, "/api/v1/templates/2/thumbnail", RenderRequest{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-default", rec.Body.String())

	rec = post(t, router, "/api/v1/templates/2/thumbnail?width=100&height=150", RenderRequest{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-sized", rec.Body.String())

	rec = post(t, router, "/api/v1/templates/2/thumbnail?width=5000", RenderRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, router, "/api/v1/templates/2/thumbnail?width=wide", RenderRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_RateLimited(t *testing.T) {
	engine := new(MockRenderer)
	router := newRouter(engine, nil, denyAll{})

	rec := post(t, router, "/api/v1/templates/1/render", RenderRequest{})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
	engine.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// listing is not throttled
	req := httptest.NewRequest(http.MethodGet, "/api/v1/templates", nil)
	get := httptest.NewRecorder()
	router.ServeHTTP(get, req)
	assert.Equal(t, http.StatusOK, get.Code)
}

func TestHandler_RendersWithEngine(t *testing.T) {
	router := newRouter(render.New(), nil, nil)

	body := RenderRequest{Resume: &models.ResumeData{Name: "Ada", Surname: "Lovelace"}}
	rec := post(t, router, "/api/v1/templates/2/render", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	rec = post(t, router, "/api/v1/templates/2/thumbnail?width=60", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "John_Doe", fileName("John Doe"))
	assert.Equal(t, "Zo-2", fileName("Zoë-2"))
	assert.Equal(t, "resume", fileName("../"))
}
