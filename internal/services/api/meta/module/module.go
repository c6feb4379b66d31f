// Package module wires meta endpoints into the API
package module

import (
	"time"

	"safeharbor/internal/modkit"
	"safeharbor/internal/modkit/httpkit"
	metahttp "safeharbor/internal/services/api/meta/http"
)

// Ports carries optional inputs from other modules
type Ports struct {
	Engine metahttp.EngineInfo
}

// Module implements modkit.Module
type Module struct {
	b         modkit.Built
	service   string
	engine    metahttp.EngineInfo
	startedAt time.Time
}

// New constructs the meta module. Pass WithPorts(Ports{...}) to report engine details
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		b:         b,
		service:   deps.Cfg.Prefix("CORE_API_").MayString("SERVICE_NAME", "safeharbor-api"),
		startedAt: time.Now(),
	}
	if p, ok := b.Ports.(Ports); ok {
		m.engine = p.Engine
	}
	return m
}

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: m.service,
			StartedAt:   m.startedAt,
			Engine:      m.engine,
		})
	})
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports implements modkit.Module
func (m *Module) Ports() any { return nil }
