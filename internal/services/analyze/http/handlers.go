// Package http provides the analyze and catalog endpoints
package http

import (
	stdhttp "net/http"

	"safeharbor/internal/modkit/httpkit"
	"safeharbor/internal/services/analyze/domain"
)

// Register mounts POST / and POST /batch
func Register(r httpkit.Router, s domain.AnalyzerPort) {
	h := &handlers{svc: s}

	httpkit.PostJSON(r, "/", h.analyze)
	httpkit.PostJSON(r, "/batch", h.batch)
}

// RegisterCatalog mounts GET /contacts and GET /lexicon
func RegisterCatalog(r httpkit.Router, c domain.CatalogPort) {
	httpkit.Get(r, "/contacts", func(*stdhttp.Request) (any, error) { return c.Contacts(), nil })
	httpkit.Get(r, "/lexicon", func(*stdhttp.Request) (any, error) { return c.Lexicon(), nil })
}

type handlers struct{ svc domain.AnalyzerPort }

func (h *handlers) analyze(r *stdhttp.Request, in domain.AnalyzeInput) (any, error) {
	res, err := h.svc.Analyze(r.Context(), in.Text, in.Config)
	if err != nil {
		return nil, err
	}
	return domain.FromResult(res), nil
}

func (h *handlers) batch(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	return h.svc.AnalyzeBatch(r.Context(), in)
}
