package crisis

// Score thresholds; half-open, checked top-down
const (
	thresholdImmediate = 25.0
	thresholdHigh      = 15.0
	thresholdModerate  = 8.0
	thresholdLow       = 3.0
)

// CalculateSeverity aggregates indicators into a level, a confidence-weighted
// score and the mean confidence. Indicator order does not matter
func CalculateSeverity(xs []Indicator) Severity {
	if len(xs) == 0 {
		return Severity{Level: LevelNone}
	}
	var score, conf float64
	for _, x := range xs {
		score += float64(x.Severity) * x.Confidence
		conf += x.Confidence
	}
	score = round2(score)
	return Severity{
		Level:      LevelForScore(score),
		Score:      score,
		Confidence: round2(conf / float64(len(xs))),
	}
}

// LevelForScore maps a severity score onto the fixed level table
func LevelForScore(score float64) Level {
	switch {
	case score >= thresholdImmediate:
		return LevelImmediate
	case score >= thresholdHigh:
		return LevelHigh
	case score >= thresholdModerate:
		return LevelModerate
	case score >= thresholdLow:
		return LevelLow
	default:
		return LevelNone
	}
}
