package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "charter_api_http_requests_total",
			Help: "HTTP requests by method, path pattern and status code",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "charter_api_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	proposalsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "charter_api_proposals_generated_total",
			Help: "Successfully generated proposal PDFs",
		},
	)
)

// CountProposal records one generated proposal. The proposal handler calls
// it after a successful render.
func CountProposal() {
	proposalsGenerated.Inc()
}

// Metrics records request counts and latencies. Mount it after the router
// so chi's route context carries the path pattern instead of the raw URL.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			path := routePattern(r)
			httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.statusCode)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
