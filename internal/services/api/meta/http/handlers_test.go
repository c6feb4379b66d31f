package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "safeharbor/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineStub struct{}

func (engineStub) Detectors() []string { return []string{"keyword", "pattern"} }

func get(t *testing.T, r phttp.Router, path string, into any) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, into))
}

func TestMetaRoutes(t *testing.T) {
	started := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, Deps{
		ServiceName: "safeharbor-api",
		StartedAt:   started,
		Engine:      engineStub{},
		Now:         func() time.Time { return started.Add(90 * time.Second) },
	})

	var health HealthResponse
	get(t, r, "/health", &health)
	assert.True(t, health.OK)
	assert.Equal(t, "2024-01-01T12:01:30Z", health.Now)

	var svc ServiceResponse
	get(t, r, "/service", &svc)
	assert.Equal(t, int64(90), svc.Uptime)

	var eng EngineResponse
	get(t, r, "/engine", &eng)
	assert.Equal(t, []string{"keyword", "pattern"}, eng.Detectors)
	assert.Equal(t, 1, eng.LexiconVersion)

	var ver map[string]any
	get(t, r, "/version", &ver)
	assert.Equal(t, "safeharbor-api", ver["service"])
}

func TestEngine_NoEngine(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, Deps{ServiceName: "x"})
	var eng EngineResponse
	get(t, r, "/engine", &eng)
	assert.Empty(t, eng.Detectors)
}
