// Package api exposes the planner over HTTP: window search, visibility,
// twilight, Sun/Moon ephemeris, EOP inspection, coordinate conversion, the
// event calendar, and the SSE track stream.
package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/sky/skyplan/internal/auth"
	"github.com/sky/skyplan/internal/eop"
	"github.com/sky/skyplan/internal/events"
	"github.com/sky/skyplan/internal/health"
	"github.com/sky/skyplan/internal/metrics"
	"github.com/sky/skyplan/internal/stream"
	"github.com/sky/skyplan/internal/timescale"
	"github.com/sky/skyplan/internal/twilight"
	"github.com/sky/skyplan/internal/window"
)

// Deps are the collaborators the server wires into its routes.
type Deps struct {
	Times    *timescale.Builder
	Planner  *window.Planner
	Twilight twilight.Calculator
	Calendar *events.Calendar
	Stream   *stream.Handler
	EOPURLs  []string
}

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	deps       Deps
	logger     *slog.Logger
}

// NewServer creates a configured HTTP server.
func NewServer(addr string, deps Deps, logger *slog.Logger, authCfg auth.Config) *Server {
	s := &Server{deps: deps, logger: logger}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.HandleFunc("GET /readyz", health.Readyz(func() bool {
		return deps.Times.Store().Dataset() != nil
	}))
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/v1/window", s.handleWindow)
	mux.HandleFunc("GET /api/v1/visibility", s.handleVisibility)
	mux.HandleFunc("GET /api/v1/twilight", s.handleTwilight)
	mux.HandleFunc("GET /api/v1/sun", s.handleSun)
	mux.HandleFunc("GET /api/v1/moon", s.handleMoon)
	mux.HandleFunc("GET /api/v1/eop", s.handleEOP)
	mux.HandleFunc("POST /api/v1/eop/refresh", s.handleEOPRefresh)
	mux.HandleFunc("GET /api/v1/convert", s.handleConvert)
	mux.HandleFunc("GET /api/v1/events/calendar", s.handleEventCalendar)
	mux.HandleFunc("GET /api/v1/events/showers", s.handleShowers)
	mux.HandleFunc("GET /api/v1/events/seasons", s.handleSeasons)
	mux.HandleFunc("GET /api/v1/events/moon-phases", s.handleMoonPhases)
	if deps.Stream != nil {
		mux.HandleFunc("GET /api/v1/stream/track", deps.Stream.HandleTrack)
	}

	// Build middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(authCfg)(handler)
	handler = loggingMiddleware(logger)(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) store() *eop.Store {
	return s.deps.Times.Store()
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", r.RemoteAddr,
			)
		})
	}
}
