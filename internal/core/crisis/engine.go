package crisis

import (
	"sync"
	"time"

	"safeharbor/internal/core/contacts"
	"safeharbor/internal/core/lexicon"
)

// now is the clock seam used for Metadata.AnalysisTime
var now = time.Now

// Engine composes detectors, the severity aggregator and the recommender.
// It is read-only after New and safe for concurrent use
type Engine struct {
	detectors []Detector
	rec       Recommender
}

// Option customizes an Engine
type Option func(*Engine)

// WithContacts sets the directory used for recommendation lines
func WithContacts(dir contacts.Directory) Option {
	return func(e *Engine) { e.rec = NewRecommender(dir) }
}

// WithDetectors appends extra detectors after the keyword and pattern detectors
func WithDetectors(ds ...Detector) Option {
	return func(e *Engine) {
		for _, d := range ds {
			if d != nil {
				e.detectors = append(e.detectors, d)
			}
		}
	}
}

// New builds an Engine over p with the keyword detector first, then patterns
func New(p *lexicon.Pack, opts ...Option) *Engine {
	e := &Engine{
		detectors: []Detector{NewKeywordDetector(p), NewPatternDetector(p)},
		rec:       NewRecommender(contacts.Default()),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the engine over the embedded lexicon and default contacts
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = New(lexicon.Default())
	})
	return defaultEngine
}

func defaultRecommender() Recommender { return Default().rec }

// Analyze runs the full pipeline with the default engine
func Analyze(text string, cfg *PartialConfig) Result {
	return Default().Analyze(text, cfg)
}

// DetectKeywords runs only the default keyword detector
func DetectKeywords(text string, cfg Config) []Indicator {
	return Default().detectors[0].Detect(text, cfg)
}

// DetectPatterns runs only the default pattern detector
func DetectPatterns(text string, cfg Config) []Indicator {
	return Default().detectors[1].Detect(text, cfg)
}

// Detectors returns the registered detector names in run order
func (e *Engine) Detectors() []string {
	out := make([]string, 0, len(e.detectors))
	for _, d := range e.detectors {
		out = append(out, d.Name())
	}
	return out
}

// Recommender returns the engine's recommender
func (e *Engine) Recommender() Recommender { return e.rec }

// Analyze validates cfg, truncates text to MaxAnalysisLength characters, runs
// every detector, aggregates and recommends. Empty text yields a none result
func (e *Engine) Analyze(text string, cfg *PartialConfig) Result {
	start := now()
	c := DefaultConfig()
	if cfg != nil {
		c = ValidateConfig(*cfg)
	}

	if text == "" {
		return Result{
			Level:           LevelNone,
			Indicators:      []Indicator{},
			Recommendations: e.rec.Generate(LevelNone, nil),
			Metadata: Metadata{
				AnalysisTime: now().Sub(start),
				Config:       c,
			},
		}
	}

	text, n := truncateRunes(text, c.MaxAnalysisLength)

	indicators := []Indicator{}
	for _, d := range e.detectors {
		indicators = append(indicators, d.Detect(text, c)...)
	}

	sev := CalculateSeverity(indicators)
	return Result{
		Level:           sev.Level,
		Confidence:      sev.Confidence,
		Indicators:      indicators,
		Recommendations: e.rec.Generate(sev.Level, indicators),
		Metadata: Metadata{
			AnalysisTime:  now().Sub(start),
			TextLength:    n,
			Config:        c,
			SeverityScore: sev.Score,
		},
	}
}

// truncateRunes keeps the first limit characters of s without splitting a
// UTF-8 sequence and reports how many characters were kept
func truncateRunes(s string, limit int) (string, int) {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i], n
		}
		n++
	}
	return s, n
}
