package crisis

import "math"

// Detector turns text into indicators under a validated Config.
// Implementations must be safe for concurrent use and must return an empty,
// non-nil slice when they are disabled by cfg or find nothing
type Detector interface {
	Name() string
	Detect(text string, cfg Config) []Indicator
}

// newIndicator builds an Indicator with severity and confidence clamped into range
func newIndicator(kind Kind, severity int, confidence float64, desc string, d Details) Indicator {
	if math.IsNaN(confidence) {
		confidence = 0
	}
	return Indicator{
		Kind:        kind,
		Severity:    clampInt(severity, 0, 10),
		Confidence:  clampFloat(confidence, 0, 1),
		Description: desc,
		Details:     d,
	}
}
