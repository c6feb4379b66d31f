package crisis

import "math"

// Defaults and bounds for Config
const (
	DefaultSeverityThreshold   = 5.0
	DefaultConfidenceThreshold = 0.7
	DefaultMaxAnalysisLength   = 10000

	MinSeverityThreshold   = 0.0
	MaxSeverityThreshold   = 10.0
	MinConfidenceThreshold = 0.0
	MaxConfidenceThreshold = 1.0
	MinAnalysisLength      = 100
	MaxAnalysisLength      = 50000
)

// Config controls which detectors run and bounds analysis cost.
// EnableSentimentAnalysis, SeverityThreshold and ConfidenceThreshold are carried
// into result metadata for downstream consumers; scoring ignores them
type Config struct {
	EnableKeywordDetection  bool
	EnablePatternMatching   bool
	EnableSentimentAnalysis bool
	SeverityThreshold       float64
	ConfidenceThreshold     float64
	MaxAnalysisLength       int
}

// PartialConfig is an untrusted, possibly incomplete Config. Nil fields take defaults
type PartialConfig struct {
	EnableKeywordDetection  *bool    `json:"enable_keyword_detection,omitempty"  yaml:"enable_keyword_detection"`
	EnablePatternMatching   *bool    `json:"enable_pattern_matching,omitempty"   yaml:"enable_pattern_matching"`
	EnableSentimentAnalysis *bool    `json:"enable_sentiment_analysis,omitempty" yaml:"enable_sentiment_analysis"`
	SeverityThreshold       *float64 `json:"severity_threshold,omitempty"        yaml:"severity_threshold"`
	ConfidenceThreshold     *float64 `json:"confidence_threshold,omitempty"      yaml:"confidence_threshold"`
	MaxAnalysisLength       *int     `json:"max_analysis_length,omitempty"       yaml:"max_analysis_length"`
}

// DefaultConfig returns the library defaults
func DefaultConfig() Config {
	return Config{
		EnableKeywordDetection:  true,
		EnablePatternMatching:   true,
		EnableSentimentAnalysis: true,
		SeverityThreshold:       DefaultSeverityThreshold,
		ConfidenceThreshold:     DefaultConfidenceThreshold,
		MaxAnalysisLength:       DefaultMaxAnalysisLength,
	}
}

// ValidateConfig fills missing fields with defaults and clamps numeric fields
// into range. It never fails; NaN counts as missing
func ValidateConfig(p PartialConfig) Config {
	c := DefaultConfig()
	if p.EnableKeywordDetection != nil {
		c.EnableKeywordDetection = *p.EnableKeywordDetection
	}
	if p.EnablePatternMatching != nil {
		c.EnablePatternMatching = *p.EnablePatternMatching
	}
	if p.EnableSentimentAnalysis != nil {
		c.EnableSentimentAnalysis = *p.EnableSentimentAnalysis
	}
	if p.SeverityThreshold != nil && !math.IsNaN(*p.SeverityThreshold) {
		c.SeverityThreshold = clampFloat(*p.SeverityThreshold, MinSeverityThreshold, MaxSeverityThreshold)
	}
	if p.ConfidenceThreshold != nil && !math.IsNaN(*p.ConfidenceThreshold) {
		c.ConfidenceThreshold = clampFloat(*p.ConfidenceThreshold, MinConfidenceThreshold, MaxConfidenceThreshold)
	}
	if p.MaxAnalysisLength != nil {
		c.MaxAnalysisLength = clampInt(*p.MaxAnalysisLength, MinAnalysisLength, MaxAnalysisLength)
	}
	return c
}

// Partial converts c back to a fully populated PartialConfig
func (c Config) Partial() PartialConfig {
	return PartialConfig{
		EnableKeywordDetection:  &c.EnableKeywordDetection,
		EnablePatternMatching:   &c.EnablePatternMatching,
		EnableSentimentAnalysis: &c.EnableSentimentAnalysis,
		SeverityThreshold:       &c.SeverityThreshold,
		ConfidenceThreshold:     &c.ConfidenceThreshold,
		MaxAnalysisLength:       &c.MaxAnalysisLength,
	}
}

// Merge returns p with every non-nil field of over applied on top
func (p PartialConfig) Merge(over *PartialConfig) PartialConfig {
	if over == nil {
		return p
	}
	out := p
	if over.EnableKeywordDetection != nil {
		out.EnableKeywordDetection = over.EnableKeywordDetection
	}
	if over.EnablePatternMatching != nil {
		out.EnablePatternMatching = over.EnablePatternMatching
	}
	if over.EnableSentimentAnalysis != nil {
		out.EnableSentimentAnalysis = over.EnableSentimentAnalysis
	}
	if over.SeverityThreshold != nil {
		out.SeverityThreshold = over.SeverityThreshold
	}
	if over.ConfidenceThreshold != nil {
		out.ConfidenceThreshold = over.ConfidenceThreshold
	}
	if over.MaxAnalysisLength != nil {
		out.MaxAnalysisLength = over.MaxAnalysisLength
	}
	return out
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round2 rounds to two decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
