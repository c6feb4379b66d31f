package httpkit

import (
	"net/http"
	"time"

	"safeharbor/internal/platform/config"
	"safeharbor/internal/platform/metrics"
	"safeharbor/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORSOrigins []string
	Timeout     time.Duration
	Slow        time.Duration
	RateLimit   float64 // requests per second; 0 disables
	RateBurst   int
	Metrics     *metrics.Metrics
}

// StackFromConfig reads CORS_ORIGINS, TIMEOUT, SLOW_REQUEST, RATE_LIMIT and
// RATE_BURST from cfg
func StackFromConfig(cfg config.Conf, m *metrics.Metrics) StackOptions {
	return StackOptions{
		CORSOrigins: cfg.MayCSV("CORS_ORIGINS", nil),
		Timeout:     cfg.MayDuration("TIMEOUT", 30*time.Second),
		Slow:        cfg.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
		RateLimit:   cfg.MayFloat64("RATE_LIMIT", 0),
		RateBurst:   cfg.MayInt("RATE_BURST", 0),
		Metrics:     m,
	}
}

// CommonStack is the router-wide middleware chain, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.Metrics(o.Metrics),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.RecoverJSON,
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.RateLimit(o.RateLimit, o.RateBurst),
		middleware.NoCache(),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
