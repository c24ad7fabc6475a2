package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nayaplay_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nayaplay_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nayaplay_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Settlement metrics
var (
	WagersSettled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nayaplay_wagers_settled_total",
			Help: "Settled wagers by game and terminal status",
		},
		[]string{"game", "status"},
	)

	AmountWagered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nayaplay_amount_wagered_cents_total",
			Help: "Total stake volume in cents by game",
		},
		[]string{"game"},
	)

	AmountPaidOut = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nayaplay_amount_paid_out_cents_total",
			Help: "Total payout volume in cents by game",
		},
		[]string{"game"},
	)

	TransfersCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nayaplay_transfers_completed_total",
			Help: "Completed agent transfers",
		},
	)

	SeedRotations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nayaplay_seed_rotations_total",
			Help: "Server seed rotations performed",
		},
	)
)

// statusWriter wraps http.ResponseWriter to capture the status code
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request count, latency and in-flight gauge for every
// HTTP request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(sw.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}
