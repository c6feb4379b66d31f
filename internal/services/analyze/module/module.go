// Package module wires the analyze service into the API
package module

import (
	"safeharbor/internal/modkit"
	"safeharbor/internal/modkit/httpkit"
	"safeharbor/internal/services/analyze/domain"
	analyzehttp "safeharbor/internal/services/analyze/http"
	"safeharbor/internal/services/analyze/service"
	"safeharbor/internal/services/analyze/stream"
)

// Ports exposed by the analyze module
type Ports struct {
	Analyzer domain.AnalyzerPort
	Catalog  domain.CatalogPort
}

// Module mounts POST /analyze, POST /analyze/batch and the /analyze/stream websocket
type Module struct {
	b      modkit.Built
	svc    *service.Service
	stream *stream.Handler
	ports  Ports
}

// New builds the service from deps.Cfg (CORE_CRISIS_*) and wraps it
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("analyze"),
		modkit.WithPrefix("/analyze"),
	}, opts...)...)

	svc, err := service.New(service.FromConfig(deps.Cfg),
		service.WithLogger(deps.Logger("analyze")),
		service.WithMetrics(deps.Metrics),
	)
	if err != nil {
		return nil, err
	}

	so := stream.FromConfig(deps.Cfg.Prefix("CORE_API_STREAM_"))
	so.AllowedOrigins = deps.Cfg.Prefix("CORE_API_").MayCSV("CORS_ORIGINS", nil)
	m := FromService(b, svc)
	m.stream = stream.New(svc, so, deps.Logger("stream"), deps.Metrics)
	return m, nil
}

// FromService wraps an existing service with default stream options
func FromService(b modkit.Built, svc *service.Service) *Module {
	return &Module{
		b:      b,
		svc:    svc,
		stream: stream.New(svc, stream.DefaultOptions(), nil, nil),
		ports:  Ports{Analyzer: svc, Catalog: svc},
	}
}

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		analyzehttp.Register(rr, m.svc)
		rr.Get("/stream", m.stream.ServeHTTP)
	})
}

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Service returns the wrapped service
func (m *Module) Service() *service.Service { return m.svc }
