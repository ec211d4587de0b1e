package server

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/boxypic/pkg/cache"
	"github.com/matzehuels/boxypic/pkg/observability"
	"github.com/matzehuels/boxypic/pkg/observability/prom"
	"github.com/matzehuels/boxypic/pkg/pipeline"
)

// quadrantsPNG encodes a 16x16 image with four flat quadrants, which
// decomposes into exactly four leaves.
func quadrantsPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	colors := [4]color.RGBA{
		{255, 0, 0, 255}, {0, 255, 0, 255},
		{0, 0, 255, 255}, {255, 255, 255, 255},
	}
	for y := range 16 {
		for x := range 16 {
			i := 0
			if x >= 8 {
				i |= 1
			}
			if y >= 8 {
				i |= 2
			}
			img.SetRGBA(x, y, colors[i])
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type testServer struct {
	*Server
	gatherer *prometheus.Registry
}

func newTestServer(t *testing.T, mutate func(*Config)) testServer {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { fc.Close() })

	reg := prometheus.NewRegistry()
	cfg := Config{
		Addr:           ":0",
		MaxUploadBytes: 1 << 20,
		Defaults:       pipeline.DefaultOptions(),
		Gatherer:       reg,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return testServer{Server: New(pipeline.NewRunner(fc, nil, nil), cfg), gatherer: reg}
}

func (s testServer) do(t *testing.T, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/healthz", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok\n", rec.Body.String())
	_, err := uuid.Parse(rec.Header().Get(HeaderRequestID))
	require.NoError(t, err)
}

func TestVersion(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/version", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"version"`)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, nil)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, id)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, id, rec.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "not-a-uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.NotEqual(t, "not-a-uuid", rec.Header().Get(HeaderRequestID))
}

func TestRenderPNG(t *testing.T) {
	s := newTestServer(t, nil)
	body := quadrantsPNG(t)

	rec := s.do(t, http.MethodPost, "/v1/render?threshold=5&depth=3", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, "miss", rec.Header().Get(HeaderCache))
	require.Equal(t, "4", rec.Header().Get(HeaderLeaves))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())

	rec = s.do(t, http.MethodPost, "/v1/render?threshold=5&depth=3", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "hit", rec.Header().Get(HeaderCache))
	require.Equal(t, "4", rec.Header().Get(HeaderLeaves))
}

func TestRenderFormats(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		contains    string
	}{
		{"svg", "image/svg+xml", "<svg"},
		{"json", "application/json", `"root"`},
		{"dot", "text/vnd.graphviz", "digraph quadtree"},
	}

	s := newTestServer(t, nil)
	body := quadrantsPNG(t)
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/v1/render?format="+tt.format, body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			require.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			require.Contains(t, rec.Body.String(), tt.contains)
		})
	}
}

func TestRenderErrors(t *testing.T) {
	good := quadrantsPNG(t)
	tests := []struct {
		name   string
		target string
		body   []byte
		status int
		code   string
	}{
		{"threshold not a number", "/v1/render?threshold=abc", good, http.StatusBadRequest, "INVALID_INPUT"},
		{"negative threshold", "/v1/render?threshold=-1", good, http.StatusBadRequest, "INVALID_INPUT"},
		{"depth too large", "/v1/render?depth=99", good, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad boolean", "/v1/render?grid=maybe", good, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown format", "/v1/render?format=gif", good, http.StatusBadRequest, "INVALID_FORMAT"},
		{"several formats", "/v1/render?format=png,svg", good, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown engine", "/v1/render?engine=gpu", good, http.StatusBadRequest, "INVALID_ENGINE"},
		{"empty body", "/v1/render", nil, http.StatusBadRequest, "INVALID_IMAGE"},
		{"not an image", "/v1/render", []byte("hello"), http.StatusBadRequest, "INVALID_IMAGE"},
	}

	s := newTestServer(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.target, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, tt.code, resp.Code)
			require.NotEmpty(t, resp.Message)
			require.Equal(t, rec.Header().Get(HeaderRequestID), resp.RequestID)
		})
	}
}

func TestRenderTooLarge(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.MaxUploadBytes = 16 })
	rec := s.do(t, http.MethodPost, "/v1/render", quadrantsPNG(t))

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Contains(t, rec.Body.String(), "TOO_LARGE")
}

func TestRenderNodeLimit(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.Defaults.NodeLimit = 2 })
	rec := s.do(t, http.MethodPost, "/v1/render", quadrantsPNG(t))

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Contains(t, rec.Body.String(), "RESOURCE_EXHAUSTED")
}

func TestStats(t *testing.T) {
	s := newTestServer(t, nil)
	body := quadrantsPNG(t)

	rec := s.do(t, http.MethodPost, "/v1/stats?depth=4", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp statsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Cached)
	require.Equal(t, 16, resp.Summary.Width)
	require.Equal(t, 16, resp.Summary.Height)
	require.Equal(t, "png", resp.Summary.ImageFormat)
	require.Equal(t, 4, resp.Summary.MaxDepth)
	require.Equal(t, 5, resp.Summary.Tree.Nodes)
	require.Equal(t, 4, resp.Summary.Tree.Leaves)

	rec = s.do(t, http.MethodPost, "/v1/stats?depth=4", body)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Cached)
	require.Equal(t, "hit", rec.Header().Get(HeaderCache))
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/v1/render", nil)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t, nil)
	hooks := prom.New(s.gatherer)
	observability.SetHTTPHooks(hooks)
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	rec := s.do(t, http.MethodPost, "/v1/render", quadrantsPNG(t))
	require.Equal(t, http.StatusOK, rec.Code)
	s.do(t, http.MethodGet, "/nope", nil)

	rec = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	metrics := string(out)
	require.Contains(t, metrics, `boxypic_http_requests_total{method="POST",route="/v1/render",status="200"} 1`)
	require.Contains(t, metrics, `boxypic_http_requests_total{method="GET",route="",status="404"} 1`)
	require.Contains(t, metrics, `boxypic_builds_total{result="ok"} 1`)
	require.False(t, strings.Contains(metrics, `route="/nope"`))
}
