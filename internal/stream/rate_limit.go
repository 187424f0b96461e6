package stream

import "sync"

// sessionGate bounds the number of live track streams, per client IP and
// across the whole process. Track streams are long-lived (a dashboard keeps
// one open for a whole observing session), so without a cap a handful of
// misbehaving tabs could pin every server connection.
type sessionGate struct {
	mu        sync.Mutex
	perIP     map[string]int
	active    int
	ipCap     int
	globalCap int
}

func newSessionGate(ipCap, globalCap int) *sessionGate {
	return &sessionGate{
		perIP:     make(map[string]int),
		ipCap:     ipCap,
		globalCap: globalCap,
	}
}

// admit registers a new stream for ip. It refuses once the IP holds ipCap
// live streams or the process holds globalCap.
func (g *sessionGate) admit(ip string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active >= g.globalCap || g.perIP[ip] >= g.ipCap {
		return false
	}
	g.perIP[ip]++
	g.active++
	return true
}

// leave unregisters a stream previously admitted for ip.
func (g *sessionGate) leave(ip string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.active--
	if g.perIP[ip]--; g.perIP[ip] <= 0 {
		delete(g.perIP, ip)
	}
}

// live reports how many streams ip currently holds.
func (g *sessionGate) live(ip string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.perIP[ip]
}
