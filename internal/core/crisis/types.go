// Package crisis scans free-form text for self-harm and suicide risk language,
// aggregates what it finds into a crisis level with a confidence, and emits
// recommendations. Every entry point is a pure function of its inputs
package crisis

import "time"

// Level is the discrete crisis classification
type Level string

const (
	// LevelNone means no meaningful risk language was found
	LevelNone Level = "none"
	// LevelLow is mild distress
	LevelLow Level = "low"
	// LevelModerate warrants a professional check-in within days
	LevelModerate Level = "moderate"
	// LevelHigh warrants urgent professional support
	LevelHigh Level = "high"
	// LevelImmediate warrants intervention now
	LevelImmediate Level = "immediate"
)

// Levels lists every level from least to most severe
var Levels = []Level{LevelNone, LevelLow, LevelModerate, LevelHigh, LevelImmediate}

// Rank orders levels by severity, none is 0. Unknown levels rank -1
func (l Level) Rank() int {
	for i, x := range Levels {
		if x == l {
			return i
		}
	}
	return -1
}

// Max returns the more severe of l and o
func (l Level) Max(o Level) Level {
	if o.Rank() > l.Rank() {
		return o
	}
	return l
}

// Kind names the detector family that produced an indicator
type Kind string

const (
	// KindKeyword is a keyword-category hit
	KindKeyword Kind = "keyword"
	// KindPattern is a regex pattern hit
	KindPattern Kind = "pattern"
)

// Indicator is one piece of evidence found in the text.
// Severity is 0..10 and Confidence 0..1; detectors enforce both via newIndicator
type Indicator struct {
	Kind        Kind
	Severity    int
	Confidence  float64
	Description string
	Details     Details
}

// Details is detector metadata used by the recommender, never by scoring
type Details struct {
	Category  string   // keyword category key (keyword indicators)
	Matches   []string // matched phrases in lexicon order (keyword indicators)
	Family    string   // pattern family key (pattern indicators)
	PatternID string
	Pattern   string // regex source as authored
	MatchType string
}

// Severity is the aggregate over a set of indicators
type Severity struct {
	Level      Level
	Score      float64 // confidence-weighted sum, 2dp
	Confidence float64 // mean indicator confidence, 2dp
}

// Metadata describes how an analysis ran
type Metadata struct {
	AnalysisTime  time.Duration
	TextLength    int // characters analyzed after truncation
	Config        Config
	SeverityScore float64
}

// Result is the engine's only output. Slices are owned by the caller
type Result struct {
	Level           Level
	Confidence      float64
	Indicators      []Indicator
	Recommendations []string
	Metadata        Metadata
}
