// Package http provides meta endpoints
package http

import (
	"net/http"
	"time"

	"safeharbor/internal/core/version"
	"safeharbor/internal/modkit/httpkit"
)

// EngineInfo is satisfied by *crisis.Engine
type EngineInfo interface {
	Detectors() []string
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Engine      EngineInfo // optional
	Now         func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/engine", h.engine)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Now     string `json:"now"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

// EngineResponse lists the detectors the engine runs, in order
type EngineResponse struct {
	Detectors      []string `json:"detectors"`
	LexiconVersion int      `json:"lexicon_version"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.deps.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.deps.Now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

func (h *handlers) engine(_ *http.Request) (any, error) {
	resp := EngineResponse{Detectors: []string{}, LexiconVersion: version.Info("").LexiconVersion}
	if h.deps.Engine != nil {
		resp.Detectors = h.deps.Engine.Detectors()
	}
	return resp, nil
}
