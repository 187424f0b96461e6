package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyplan_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "skyplan_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	eopRefreshTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyplan_eop_refresh_total",
			Help: "EOP refresh attempts by outcome.",
		},
		[]string{"outcome"},
	)

	eopFreshness = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skyplan_eop_freshness",
			Help: "Current EOP snapshot freshness: 0 fresh, 1 stale, 2 fallback.",
		},
	)

	windowSearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyplan_window_searches_total",
			Help: "Window searches by outcome (found or the failure reason).",
		},
		[]string{"outcome"},
	)

	windowSearchSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "skyplan_window_search_duration_seconds",
			Help:    "Window search duration in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	streamConnections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyplan_stream_connections_total",
			Help: "SSE track stream connects and disconnects.",
		},
		[]string{"event"},
	)

	streamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "skyplan_streams_active",
			Help: "Currently open SSE track streams.",
		},
	)

	streamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skyplan_stream_errors_total",
			Help: "SSE stream errors by kind.",
		},
		[]string{"kind"},
	)

	streamMessages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skyplan_stream_messages_total",
			Help: "SSE data messages sent.",
		},
	)

	streamBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skyplan_stream_bytes_total",
			Help: "Bytes written to SSE streams.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(eopRefreshTotal)
	prometheus.MustRegister(eopFreshness)
	prometheus.MustRegister(windowSearchesTotal)
	prometheus.MustRegister(windowSearchSeconds)
	prometheus.MustRegister(streamConnections)
	prometheus.MustRegister(streamsActive)
	prometheus.MustRegister(streamErrors)
	prometheus.MustRegister(streamMessages)
	prometheus.MustRegister(streamBytes)
}

// IncStreamConnections counts a stream "connect" or "disconnect".
func IncStreamConnections(event string) {
	streamConnections.WithLabelValues(event).Inc()
}

// IncStreamsActive and DecStreamsActive track open streams.
func IncStreamsActive() { streamsActive.Inc() }
func DecStreamsActive() { streamsActive.Dec() }

// IncStreamErrors counts a stream error by kind.
func IncStreamErrors(kind string) {
	streamErrors.WithLabelValues(kind).Inc()
}

// IncStreamMessages counts one SSE data message.
func IncStreamMessages() { streamMessages.Inc() }

// AddStreamBytes counts bytes written to a stream.
func AddStreamBytes(n int64) { streamBytes.Add(float64(n)) }

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordEOPRefresh counts one refresh attempt by outcome ("ok" or "error").
func RecordEOPRefresh(outcome string) {
	eopRefreshTotal.WithLabelValues(outcome).Inc()
}

// SetEOPFreshness publishes the freshness of the latest snapshot served.
func SetEOPFreshness(freshness string) {
	var v float64
	switch freshness {
	case "fresh":
		v = 0
	case "stale":
		v = 1
	default:
		v = 2
	}
	eopFreshness.Set(v)
}

// RecordWindowSearch counts one search and its duration. Outcome is "found"
// or the failure reason.
func RecordWindowSearch(outcome string, d time.Duration) {
	windowSearchesTotal.WithLabelValues(outcome).Inc()
	windowSearchSeconds.Observe(d.Seconds())
}

// knownRoutes is the fixed route set used for metric labels. Anything else
// (bots probing /wp-admin, typos) collapses to "other" so scanner traffic
// cannot blow up label cardinality.
var knownRoutes = map[string]bool{
	"/":                          true,
	"/healthz":                   true,
	"/readyz":                    true,
	"/metrics":                   true,
	"/api/v1/window":             true,
	"/api/v1/visibility":         true,
	"/api/v1/twilight":           true,
	"/api/v1/sun":                true,
	"/api/v1/moon":               true,
	"/api/v1/eop":                true,
	"/api/v1/eop/refresh":        true,
	"/api/v1/convert":            true,
	"/api/v1/events/calendar":    true,
	"/api/v1/events/showers":     true,
	"/api/v1/events/seasons":     true,
	"/api/v1/events/moon-phases": true,
	"/api/v1/stream/track":       true,
}

func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		route := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(route, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(route, r.Method).Observe(duration)
	})
}
