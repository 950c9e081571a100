package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_StartsAndStops(t *testing.T) {
	h := NewHandler(new(MockRenderer), nil, 320, nopLogger())
	srv := NewServer(&Config{Port: 0}, h, nil, NewHub(), nopLogger())

	go func() { _ = srv.Start() }()
	defer func() { _ = srv.Stop(context.Background()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.BaseURL() + "/health")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 50*time.Millisecond)

	resp, err := http.Get(srv.BaseURL() + "/api/v1/templates")
	require.NoError(t, err)
	defer resp.Body.Close()

	var got []TemplateInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Len(t, got, 3)
}

func TestServer_CORS(t *testing.T) {
	h := NewHandler(new(MockRenderer), nil, 320, nopLogger())
	router := NewServer(&Config{CORSOrigins: []string{"https://app.example"}}, h, nil, nil, nopLogger()).Router()

	req, _ := http.NewRequest(http.MethodOptions, "/api/v1/templates/1/render", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req, _ = http.NewRequest(http.MethodOptions, "/api/v1/templates/1/render", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_BaseURLBeforeStart(t *testing.T) {
	h := NewHandler(new(MockRenderer), nil, 320, nopLogger())
	srv := NewServer(&Config{Port: 3100}, h, nil, nil, nopLogger())
	assert.Equal(t, "http://localhost:3100", srv.BaseURL())
}
