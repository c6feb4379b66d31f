// Package service runs crisis analyses for the API and the CLI
package service

import (
	"context"
	"sync"
	"time"

	"safeharbor/internal/core/contacts"
	"safeharbor/internal/core/crisis"
	"safeharbor/internal/core/lexicon"
	perr "safeharbor/internal/platform/errors"
	"safeharbor/internal/platform/logger"
	"safeharbor/internal/platform/metrics"
	"safeharbor/internal/services/analyze/domain"

	"github.com/google/uuid"
)

// Service wraps one engine with service defaults, logging and metrics.
// Safe for concurrent use
type Service struct {
	engine  *crisis.Engine
	pack    *lexicon.Pack
	dir     contacts.Directory
	opts    Options
	log     *logger.Logger
	metrics *metrics.Metrics
	newID   func() string
}

var _ domain.ServicePort = (*Service)(nil)

// Option customizes a Service
type Option func(*Service)

// WithLogger sets the service logger
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the recorder; nil records nothing
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithContacts replaces the default emergency directory
func WithContacts(dir contacts.Directory) Option {
	return func(s *Service) { s.dir = dir }
}

// WithPack uses p instead of loading one from Options
func WithPack(p *lexicon.Pack) Option {
	return func(s *Service) { s.pack = p }
}

// New builds the service. The lexicon comes from WithPack, else
// opts.LexiconPath, else the embedded pack
func New(opts Options, extra ...Option) (*Service, error) {
	s := &Service{
		dir:   contacts.Default(),
		opts:  opts.normalized(),
		log:   logger.Named("analyze"),
		newID: func() string { return uuid.NewString() },
	}
	for _, o := range extra {
		o(s)
	}

	if s.pack == nil {
		p, err := loadPack(s.opts.LexiconPath)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "load lexicon %q", s.opts.LexiconPath)
		}
		s.pack = p
	}
	s.engine = crisis.New(s.pack, crisis.WithContacts(s.dir))

	s.log.Info().
		Int("categories", len(s.pack.Categories)).
		Int("families", len(s.pack.Families)).
		Str("lexicon", pathOrEmbedded(s.opts.LexiconPath)).
		Int("batch_workers", s.opts.Workers).
		Int("batch_max", s.opts.BatchMax).
		Msg("analyzer ready")
	return s, nil
}

func loadPack(path string) (*lexicon.Pack, error) {
	if path == "" {
		return lexicon.Default(), nil
	}
	return lexicon.LoadFile(path)
}

func pathOrEmbedded(p string) string {
	if p == "" {
		return "embedded"
	}
	return p
}

// Options returns the normalized options the service runs with
func (s *Service) Options() Options { return s.opts }

// Engine exposes the underlying engine
func (s *Service) Engine() *crisis.Engine { return s.engine }

// Analyze runs one analysis with cfg merged over the service defaults.
// The text itself is never logged
func (s *Service) Analyze(ctx context.Context, text string, cfg *crisis.PartialConfig) (crisis.Result, error) {
	if err := ctx.Err(); err != nil {
		return crisis.Result{}, perr.Wrap(err, perr.ErrorCodeTimeout, "analysis canceled")
	}
	merged := s.opts.Defaults.Merge(cfg)

	start := time.Now()
	res := s.engine.Analyze(text, &merged)
	s.observe(ctx, res, time.Since(start))
	return res, nil
}

func (s *Service) observe(ctx context.Context, res crisis.Result, elapsed time.Duration) {
	kinds := make([]string, 0, len(res.Indicators))
	for _, in := range res.Indicators {
		kinds = append(kinds, string(in.Kind))
	}
	s.metrics.ObserveAnalysis(string(res.Level), kinds, elapsed)

	log := logger.Enrich(ctx, s.log)
	evt := log.Debug()
	if res.Level == crisis.LevelHigh || res.Level == crisis.LevelImmediate {
		evt = log.Warn()
	}
	evt.Str("crisis_level", string(res.Level)).
		Float64("score", res.Metadata.SeverityScore).
		Float64("confidence", res.Confidence).
		Int("indicators", len(res.Indicators)).
		Int("text_length", res.Metadata.TextLength).
		Dur("elapsed", elapsed).
		Msg("analysis done")
}

// AnalyzeBatch analyzes every item on a bounded pool. Results keep input
// order; missing ids get a uuid
func (s *Service) AnalyzeBatch(ctx context.Context, in domain.BatchInput) (domain.BatchResult, error) {
	if len(in.Items) == 0 {
		return domain.BatchResult{}, perr.WithField(perr.Validationf("items must not be empty"), "items")
	}
	if len(in.Items) > s.opts.BatchMax {
		return domain.BatchResult{}, perr.WithField(
			perr.TooManyf("batch has %d items, limit is %d", len(in.Items), s.opts.BatchMax), "items")
	}

	out := make([]domain.BatchItemResult, len(in.Items))
	errs := make([]error, len(in.Items))
	sem := make(chan struct{}, s.opts.Workers)
	wg := sync.WaitGroup{}

	for i := range in.Items {
		id := in.Items[i].ID
		if id == "" {
			id = s.newID()
		}
		out[i].ID = id

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, id string) {
			defer func() { <-sem; wg.Done() }()
			res, err := s.Analyze(logger.WithItem(ctx, id), in.Items[i].Text, in.Config)
			if err != nil {
				errs[i] = err
				return
			}
			out[i].Result = domain.FromResult(res)
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return domain.BatchResult{}, err
		}
	}
	return domain.BatchResult{Items: out, Summary: summarize(out)}, nil
}

func summarize(items []domain.BatchItemResult) domain.BatchSummary {
	sum := domain.BatchSummary{
		Count:   len(items),
		Highest: crisis.LevelNone,
		ByLevel: make(map[crisis.Level]int, len(crisis.Levels)),
	}
	for _, l := range crisis.Levels {
		sum.ByLevel[l] = 0
	}
	for _, it := range items {
		l := it.Result.Level
		sum.ByLevel[l]++
		sum.Highest = sum.Highest.Max(l)
	}
	return sum
}

// Contacts lists the emergency directory
func (s *Service) Contacts() domain.ContactList {
	return domain.ContactList{Contacts: s.dir.All()}
}

// Lexicon summarizes the loaded pack
func (s *Service) Lexicon() domain.LexiconSummary {
	return domain.SummarizeLexicon(s.pack)
}
