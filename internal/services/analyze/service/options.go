package service

import (
	"safeharbor/internal/core/crisis"
	"safeharbor/internal/platform/config"
)

// Defaults for the batch pool
const (
	DefaultWorkers  = 4
	DefaultBatchMax = 100
)

// Options holds service settings. Defaults is the base every request
// config is merged onto
type Options struct {
	LexiconPath string
	Defaults    crisis.PartialConfig
	Workers     int
	BatchMax    int
}

// FromConfig reads CORE_CRISIS_* from cfg. The analysis defaults are run
// through ValidateConfig so out of range env values clamp like request values
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_CRISIS_")
	maxLen := c.MayInt("MAX_ANALYSIS_LENGTH", crisis.DefaultMaxAnalysisLength)
	sev := c.MayFloat64("SEVERITY_THRESHOLD", crisis.DefaultSeverityThreshold)
	conf := c.MayFloat64("CONFIDENCE_THRESHOLD", crisis.DefaultConfidenceThreshold)

	return Options{
		LexiconPath: c.MayString("LEXICON_PATH", ""),
		Defaults: crisis.ValidateConfig(crisis.PartialConfig{
			MaxAnalysisLength:   &maxLen,
			SeverityThreshold:   &sev,
			ConfidenceThreshold: &conf,
		}).Partial(),
		Workers:  c.MayInt("BATCH_WORKERS", DefaultWorkers),
		BatchMax: c.MayInt("BATCH_MAX", DefaultBatchMax),
	}
}

func (o Options) normalized() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.BatchMax < 1 {
		o.BatchMax = DefaultBatchMax
	}
	return o
}
