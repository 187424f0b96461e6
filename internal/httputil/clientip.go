package httputil

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the address the stream gate meters connections by.
// skyplan usually sits behind nginx (which also un-buffers the SSE
// endpoint), so RemoteAddr is the proxy's own address; with trustProxy set
// the forwarding headers are consulted first. Header entries that do not
// parse as IP addresses are skipped, not trusted. Leave trustProxy off when
// the server is reachable directly, or any client could pick its own
// metering bucket by sending a header.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// X-Forwarded-For accumulates one entry per proxy hop; the leftmost
		// parseable entry is the original client.
		for _, hop := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
			if ip := net.ParseIP(strings.TrimSpace(hop)); ip != nil {
				return ip.String()
			}
		}
		if ip := net.ParseIP(strings.TrimSpace(r.Header.Get("X-Real-IP"))); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
