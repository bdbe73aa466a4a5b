package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPRequestsTotal counts HTTP requests by method, route and status.
var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "cashcraft",
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests processed.",
}, []string{"method", "route", "status"})

// HTTPRequestDuration tracks request latency by method and route.
var HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "cashcraft",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency in seconds.",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
}, []string{"method", "route"})

// HTTPRequestsInFlight tracks currently executing requests.
var HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "cashcraft",
	Subsystem: "http",
	Name:      "requests_in_flight",
	Help:      "Number of HTTP requests currently being served.",
})

// Metrics returns a middleware recording Prometheus metrics per route
// pattern (not raw paths, to keep label cardinality bounded).
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			HTTPRequestsInFlight.Inc()

			defer func() {
				HTTPRequestsInFlight.Dec()

				route := chi.RouteContext(r.Context()).RoutePattern()
				if route == "" {
					route = "unmatched"
				}
				HTTPRequestsTotal.WithLabelValues(
					r.Method, route, strconv.Itoa(ww.Status())).Inc()
				HTTPRequestDuration.WithLabelValues(
					r.Method, route).Observe(time.Since(start).Seconds())
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
