// Package metrics owns the Prometheus collectors for analyses and HTTP
// traffic. Collectors live on a private registry so tests and multiple
// servers in one process never collide on the default one
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "safeharbor"

// Metrics holds the registry and every collector. A nil *Metrics is valid
// and records nothing
type Metrics struct {
	reg *prometheus.Registry

	Analyses         *prometheus.CounterVec
	Indicators       *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	Requests         *prometheus.CounterVec
	Streams          prometheus.Gauge
}

// Options toggles the runtime collectors
type Options struct {
	Runtime bool // go and process collectors
}

// New builds a Metrics on a fresh registry
func New(opts ...Options) *Metrics {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Analyses completed, by resulting risk level",
		}, []string{"level"}),
		Indicators: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indicators_total",
			Help:      "Indicators emitted, by kind",
		}, []string{"kind"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_seconds",
			Help:      "Time spent in a single analysis",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5},
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route pattern and status",
		}, []string{"method", "route", "status"}),
		Streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_sessions",
			Help:      "Open websocket analysis sessions",
		}),
	}
	m.reg.MustRegister(m.Analyses, m.Indicators, m.AnalysisDuration, m.Requests, m.Streams)
	if o.Runtime {
		m.reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// ObserveAnalysis records one finished analysis
func (m *Metrics) ObserveAnalysis(level string, kinds []string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(level).Inc()
	for _, k := range kinds {
		m.Indicators.WithLabelValues(k).Inc()
	}
	m.AnalysisDuration.Observe(elapsed.Seconds())
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// StreamOpened and StreamClosed track open websocket sessions
func (m *Metrics) StreamOpened() {
	if m != nil {
		m.Streams.Inc()
	}
}

// StreamClosed pairs with StreamOpened
func (m *Metrics) StreamClosed() {
	if m != nil {
		m.Streams.Dec()
	}
}

// Registry exposes the private registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{
		Registry:          m.reg,
		EnableOpenMetrics: false,
	})
}
