// Package stream implements Server-Sent Events (SSE) streaming of a target's
// horizontal track. Clients connect via GET /api/v1/stream/track and receive
// the target's altitude/azimuth, recomputed from the analytic ephemeris on
// every tick.
//
// SSE message format:
//
//	data: {"type":"track","t":"2026-08-31T04:00:00Z","alt":42.1,"az":187.3,...}\n\n
//
// First message is always metadata:
//
//	data: {"type":"metadata","eop_version":"...","eop_freshness":"fresh"}\n\n
//
// Keep-alive comments (:\n\n) are sent every KeepaliveInterval to prevent
// timeout. Reconnecting clients receive a fresh metadata message on each
// connection.
package stream

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/sky/skyplan/internal/coords"
	"github.com/sky/skyplan/internal/ephemeris"
	"github.com/sky/skyplan/internal/httputil"
	"github.com/sky/skyplan/internal/metrics"
	"github.com/sky/skyplan/internal/sidereal"
	"github.com/sky/skyplan/internal/timescale"
)

// Config holds streaming configuration.
type Config struct {
	MaxConcurrentPerIP int           // Max concurrent streams per IP (default: 4).
	MaxConcurrentTotal int           // Max concurrent streams process-wide (default: 1000).
	KeepaliveInterval  time.Duration // Keep-alive ping interval (default: 30s).
	TrustProxy         bool          // Trust X-Forwarded-For for per-IP limits.
}

// Handler manages SSE streaming connections.
type Handler struct {
	times  *timescale.Builder
	config Config
	gate   *sessionGate
	logger *slog.Logger
}

// NewHandler creates a new streaming handler.
func NewHandler(times *timescale.Builder, config Config, logger *slog.Logger) *Handler {
	if config.MaxConcurrentPerIP <= 0 {
		config.MaxConcurrentPerIP = 4
	}
	if config.MaxConcurrentTotal <= 0 {
		config.MaxConcurrentTotal = 1000
	}
	if config.KeepaliveInterval <= 0 {
		config.KeepaliveInterval = 30 * time.Second
	}
	return &Handler{
		times:  times,
		config: config,
		gate:   newSessionGate(config.MaxConcurrentPerIP, config.MaxConcurrentTotal),
		logger: logger,
	}
}

// HandleTrack serves the SSE track stream.
// GET /api/v1/stream/track?ra=83.82&dec=-5.39&lat=39.9&lon=116.4&interval=1
func (h *Handler) HandleTrack(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	ra, err1 := strconv.ParseFloat(q.Get("ra"), 64)
	dec, err2 := strconv.ParseFloat(q.Get("dec"), 64)
	lat, err3 := strconv.ParseFloat(q.Get("lat"), 64)
	lon, err4 := strconv.ParseFloat(q.Get("lon"), 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil ||
		dec < -90 || dec > 90 || lat < -90 || lat > 90 {
		badRequest(w, "ra, dec, lat, lon are required; dec and lat in [-90,90]")
		return
	}

	interval := 1.0
	if v := q.Get("interval"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0.2 || f > 60 {
			badRequest(w, "invalid interval parameter, must be 0.2-60 seconds")
			return
		}
		interval = f
	}

	// Rate limiting: enforce concurrent stream limits per IP and process-wide.
	ip := httputil.ClientIP(r, h.config.TrustProxy)
	if !h.gate.admit(ip) {
		metrics.IncStreamErrors("rate_limit")
		h.logger.Warn("stream rate limit exceeded",
			"remote_ip", ip,
			"current_count", h.gate.live(ip),
		)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{"error": "too many concurrent streams"})
		return
	}

	metrics.IncStreamConnections("connect")
	metrics.IncStreamsActive()

	startTime := time.Now()
	h.logger.Info("stream connected",
		"remote_ip", ip,
		"user_agent", r.Header.Get("User-Agent"),
		"ra", ra,
		"dec", dec,
	)

	defer func() {
		h.gate.leave(ip)
		metrics.IncStreamConnections("disconnect")
		metrics.DecStreamsActive()
		h.logger.Info("stream disconnected",
			"remote_ip", ip,
			"duration_seconds", int(time.Since(startTime).Seconds()),
		)
	}()

	// Verify flusher support (required for SSE).
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "streaming not supported"})
		return
	}

	// Set SSE response headers.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering.
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Clear the server's default WriteTimeout for this long-lived connection.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("could not clear write deadline", "error", err)
	}

	sess := &session{
		w:       w,
		flusher: flusher,
		rc:      rc,
		ip:      ip,
		logger:  h.logger,
	}

	// Jittered retry interval (3-7s) to prevent thundering-herd reconnection
	// storms when the server restarts.
	sess.retry(3000 + rand.Intn(4000))

	// Metadata message (first message on every connection).
	snap := h.times.Store().Snapshot(time.Now())
	meta := metadataMessage{
		Type:         "metadata",
		EOPVersion:   snap.Version,
		EOPFreshness: string(snap.Freshness),
	}
	if err := sess.event(meta); err != nil {
		metrics.IncStreamErrors("send_error")
		h.logger.Warn("stream send error (metadata)", "remote_ip", ip, "error", err)
		return
	}

	// Rotate the target to of-date coordinates once at connect; the session
	// is short relative to precession.
	target := coords.J2000ToOfDate(coords.Equatorial{RADeg: ra, DecDeg: dec}, h.times.Context(time.Now()).JDTT)

	ticker := time.NewTicker(time.Duration(interval * float64(time.Second)))
	defer ticker.Stop()

	keepaliveTicker := time.NewTicker(h.config.KeepaliveInterval)
	defer keepaliveTicker.Stop()

	ctx := r.Context()

	for {
		select {
		case <-ctx.Done():
			return

		case t := <-ticker.C:
			msg := h.trackMessage(t, target, lat, lon)
			if err := sess.event(msg); err != nil {
				metrics.IncStreamErrors("send_error")
				h.logger.Warn("stream send error", "remote_ip", ip, "error", err)
				return
			}

			// Reset keepalive since we just sent data.
			keepaliveTicker.Reset(h.config.KeepaliveInterval)

		case <-keepaliveTicker.C:
			if err := sess.keepalive(); err != nil {
				metrics.IncStreamErrors("send_error")
				h.logger.Warn("stream keepalive error", "remote_ip", ip, "error", err)
				return
			}
		}
	}
}

// trackMessage computes one tick of the target's horizontal track plus the
// Moon's altitude and separation.
func (h *Handler) trackMessage(t time.Time, target coords.Equatorial, latDeg, lonDeg float64) trackPayload {
	ctx := h.times.Context(t)
	lst := sidereal.LocalApparent(ctx.JDUT1, ctx.JDTT, lonDeg)

	hz := coords.EquatorialToHorizontal(target, latDeg, lst)
	moon := ephemeris.MoonEquatorial(ctx)
	moonHz := coords.EquatorialToHorizontal(moon.Equatorial, latDeg, lst)

	return trackPayload{
		Type:        "track",
		T:           t.UTC().Format(time.RFC3339),
		AltitudeDeg: hz.AltitudeDeg,
		AzimuthDeg:  hz.AzimuthDeg,
		MoonAltDeg:  moonHz.AltitudeDeg,
		MoonSepDeg:  coords.AngularSeparation(target, moon.Equatorial),
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// SSE message payload types.

type metadataMessage struct {
	Type         string `json:"type"`
	EOPVersion   string `json:"eop_version"`
	EOPFreshness string `json:"eop_freshness"`
}

type trackPayload struct {
	Type        string  `json:"type"`
	T           string  `json:"t"`
	AltitudeDeg float64 `json:"alt"`
	AzimuthDeg  float64 `json:"az"`
	MoonAltDeg  float64 `json:"moon_alt"`
	MoonSepDeg  float64 `json:"moon_sep"`
}
