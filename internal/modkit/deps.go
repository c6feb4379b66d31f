package modkit

import (
	"safeharbor/internal/platform/config"
	"safeharbor/internal/platform/logger"
	"safeharbor/internal/platform/metrics"
)

// Deps holds core dependencies passed to modules.
// Metrics may be nil; every recorder method is nil safe
type Deps struct {
	Log     *logger.Logger
	Cfg     config.Conf
	Metrics *metrics.Metrics
}

// Logger returns Log or a named root logger when Log is unset
func (d Deps) Logger(component string) *logger.Logger {
	if d.Log != nil {
		ll := d.Log.With().Str("component", component).Logger()
		return &ll
	}
	return logger.Named(component)
}
