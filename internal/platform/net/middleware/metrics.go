package middleware

import (
	"net/http"

	"safeharbor/internal/platform/metrics"
	phttp "safeharbor/internal/platform/net/http"
)

// Metrics counts requests by method, matched route pattern and status.
// The pattern keeps label cardinality bounded; unmatched paths share one label
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cw := newCapture(w)
			next.ServeHTTP(cw, r)
			m.ObserveRequest(r.Method, phttp.RoutePattern(r), cw.status)
		})
	}
}
