package domain

import (
	"context"

	"safeharbor/internal/core/crisis"
)

// AnalyzerPort runs analyses
type AnalyzerPort interface {
	Analyze(ctx context.Context, text string, cfg *crisis.PartialConfig) (crisis.Result, error)
	AnalyzeBatch(ctx context.Context, in BatchInput) (BatchResult, error)
}

// CatalogPort exposes the read-only reference data behind the analyzer
type CatalogPort interface {
	Contacts() ContactList
	Lexicon() LexiconSummary
}

// ServicePort is everything the analyze HTTP layer needs
type ServicePort interface {
	AnalyzerPort
	CatalogPort
}
