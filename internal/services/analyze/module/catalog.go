package module

import (
	"safeharbor/internal/modkit"
	"safeharbor/internal/modkit/httpkit"
	mmodule "safeharbor/internal/modkit/module"
	"safeharbor/internal/services/analyze/domain"
	analyzehttp "safeharbor/internal/services/analyze/http"
)

// Catalog mounts GET /contacts and GET /lexicon from another module's CatalogPort
type Catalog struct {
	b       modkit.Built
	catalog domain.CatalogPort
}

// NewCatalog pulls the CatalogPort out of src
func NewCatalog(src mmodule.Module, opts ...modkit.Option) *Catalog {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("catalog")}, opts...)...)
	return &Catalog{b: b, catalog: mmodule.MustPortsOf[domain.CatalogPort](src)}
}

// MountRoutes satisfies modkit.Module
func (c *Catalog) MountRoutes(r httpkit.Router) {
	c.b.Mount(r, func(rr httpkit.Router) { analyzehttp.RegisterCatalog(rr, c.catalog) })
}

// Ports satisfies modkit.Module
func (c *Catalog) Ports() any { return nil }

// Name satisfies modkit.Module
func (c *Catalog) Name() string { return c.b.Name }
