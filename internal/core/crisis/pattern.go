package crisis

import (
	"safeharbor/internal/core/lexicon"
	"safeharbor/internal/core/normalize"
)

// PatternDetector runs every family's regexes; each matching pattern emits its
// own indicator at the family's fixed severity and confidence
type PatternDetector struct {
	families []lexicon.Family
}

// NewPatternDetector wraps the compiled families of p
func NewPatternDetector(p *lexicon.Pack) *PatternDetector {
	if p == nil {
		return &PatternDetector{}
	}
	return &PatternDetector{families: p.Families}
}

// Name implements Detector
func (d *PatternDetector) Name() string { return string(KindPattern) }

// Detect implements Detector
func (d *PatternDetector) Detect(text string, cfg Config) []Indicator {
	out := []Indicator{}
	if text == "" || !cfg.EnablePatternMatching {
		return out
	}
	norm := normalize.String(text)
	if norm == "" {
		return out
	}

	for _, f := range d.families {
		for _, p := range f.Patterns {
			if !p.Re.MatchString(norm) {
				continue
			}
			out = append(out, newIndicator(KindPattern, f.Severity, f.Confidence, f.Description, Details{
				Family:    f.Key,
				PatternID: p.ID,
				Pattern:   p.Source,
				MatchType: p.MatchType,
			}))
		}
	}
	return out
}
