package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"safeharbor/internal/platform/config"
	"safeharbor/internal/platform/metrics"
	phttp "safeharbor/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mounted(t *testing.T, m *metrics.Metrics) phttp.Router {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	require.NoError(t, Mount(r, Options{Config: config.New(), Metrics: m}))
	return r
}

func call(r phttp.Router, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.Mux().ServeHTTP(rec, req)
	return rec
}

func TestMount_Routes(t *testing.T) {
	r := mounted(t, metrics.New())

	for _, tc := range []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/api/v1/meta/health", "", http.StatusOK},
		{http.MethodGet, "/api/v1/meta/version", "", http.StatusOK},
		{http.MethodGet, "/api/v1/meta/engine", "", http.StatusOK},
		{http.MethodGet, "/api/v1/contacts", "", http.StatusOK},
		{http.MethodGet, "/api/v1/lexicon", "", http.StatusOK},
		{http.MethodPost, "/api/v1/analyze", `{"text":"hello"}`, http.StatusOK},
		{http.MethodPost, "/api/v1/analyze/batch", `{"items":[{"text":"hello"}]}`, http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	} {
		rec := call(r, tc.method, tc.path, tc.body)
		assert.Equal(t, tc.want, rec.Code, "%s %s: %s", tc.method, tc.path, rec.Body.String())
	}
}

func TestMount_AnalyzeScenario(t *testing.T) {
	r := mounted(t, metrics.New())
	body := `{"text":"I want to kill myself. I looked up how to kill myself. Goodbye everyone, this is my final message."}`

	rec := call(r, http.MethodPost, "/api/v1/analyze", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		RequestID string `json:"request_id"`
		Data      struct {
			Level    string `json:"level"`
			Metadata struct {
				SeverityScore float64 `json:"severity_score"`
			} `json:"metadata"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "immediate", env.Data.Level)
	assert.Equal(t, 31.65, env.Data.Metadata.SeverityScore)
	assert.NotEmpty(t, env.RequestID)
}

func TestMount_MetricsCountRoutes(t *testing.T) {
	m := metrics.New()
	r := mounted(t, m)
	call(r, http.MethodPost, "/api/v1/analyze", `{"text":"I feel hopeless"}`)

	body := call(r, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, body, `route="/api/v1/analyze`)
	assert.Contains(t, body, `safeharbor_analyses_total{level=`)
}

func TestMount_MetricsDisabled(t *testing.T) {
	t.Setenv("CORE_API_METRICS", "false")
	r := mounted(t, metrics.New())
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/metrics", "").Code)
}

func TestMount_CORS(t *testing.T) {
	t.Setenv("CORE_API_CORS_ORIGINS", "https://app.example")
	r := mounted(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/analyze", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, req)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMount_StreamSurvivesRequestTimeout(t *testing.T) {
	t.Setenv("CORE_API_TIMEOUT", "50ms")
	srv := httptest.NewServer(mounted(t, metrics.New()).Mux())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/analyze/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello map[string]any
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "connected", hello["type"])

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, conn.WriteJSON(map[string]string{"text": "I feel hopeless"}))
	var got map[string]any
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "result", got["type"], got)
}
