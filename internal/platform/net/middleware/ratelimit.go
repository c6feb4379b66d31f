package middleware

import (
	"math"
	stdhttp "net/http"
	"strconv"

	perr "safeharbor/internal/platform/errors"
	phttp "safeharbor/internal/platform/net/http"

	"golang.org/x/time/rate"
)

// RateLimit admits rps requests per second across the whole server with the
// given burst; rejected requests get the 429 envelope and a Retry-After hint.
// rps <= 0 disables the limiter
func RateLimit(rps float64, burst int) func(stdhttp.Handler) stdhttp.Handler {
	if rps <= 0 {
		return func(next stdhttp.Handler) stdhttp.Handler { return next }
	}
	if burst < 1 {
		burst = int(math.Ceil(rps))
	}
	lim := rate.NewLimiter(rate.Limit(rps), burst)
	retry := strconv.Itoa(int(math.Max(1, math.Ceil(1/rps))))

	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			if !lim.Allow() {
				w.Header().Set("Retry-After", retry)
				phttp.RespondError(w, r, perr.TooManyf("rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
