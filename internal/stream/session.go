package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sky/skyplan/internal/metrics"
)

// writeGrace is how long a single SSE frame write may take before the
// connection is considered dead.
const writeGrace = 30 * time.Second

// session owns the write side of one track stream: SSE framing, per-write
// deadlines, and the sent-traffic counters.
type session struct {
	w       http.ResponseWriter
	flusher http.Flusher
	rc      *http.ResponseController
	ip      string
	logger  *slog.Logger

	framesSent int64
	bytesSent  int64
}

// armDeadline pushes the write deadline out before each frame. The server's
// blanket WriteTimeout was cleared at connect; per-frame deadlines are what
// detect a client that stopped reading.
func (s *session) armDeadline() {
	if err := s.rc.SetWriteDeadline(time.Now().Add(writeGrace)); err != nil {
		s.logger.Debug("could not set write deadline", "error", err)
	}
}

// retry emits the SSE retry directive that sets the client's reconnect delay.
func (s *session) retry(ms int) {
	s.armDeadline()
	n, err := fmt.Fprintf(s.w, "retry: %d\n\n", ms)
	if err != nil {
		return
	}
	s.flusher.Flush()
	s.bytesSent += int64(n)
	metrics.AddStreamBytes(int64(n))
}

// event marshals v and writes it as one SSE data frame.
func (s *session) event(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	s.armDeadline()
	n, err := fmt.Fprintf(s.w, "data: %s\n\n", data)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	s.flusher.Flush()
	s.framesSent++
	s.bytesSent += int64(n)
	metrics.IncStreamMessages()
	metrics.AddStreamBytes(int64(n))

	return nil
}

// keepalive writes an SSE comment frame so idle proxies keep the connection
// open between track frames.
func (s *session) keepalive() error {
	s.armDeadline()
	n, err := fmt.Fprint(s.w, ":\n\n")
	if err != nil {
		return fmt.Errorf("keepalive write: %w", err)
	}

	s.flusher.Flush()
	s.bytesSent += int64(n)
	metrics.AddStreamBytes(int64(n))

	return nil
}
