package zmq

import (
	"sync"
	"time"

	"github.com/graybat-go/graybat/policy"
)

// Peer liveness thresholds, named and valued after the teacher's own
// peerEvasive/peerExpired constants in peer.go; this substrate carries no
// heartbeat protocol of its own, so these only classify silence observed
// on otherwise-normal traffic, they don't drive reconnection.
const (
	peerEvasive = 3 * time.Second
	peerExpired = 5 * time.Second
)

// liveness tracks, per global VAddr, the last time any frame was seen
// from that peer. It exists so a caller can ask "is peer k still
// talking" without the substrate itself taking any corrective action —
// fault tolerance is explicitly out of scope (see Non-goals).
type liveness struct {
	clockSrc clockNower
	mu       sync.Mutex
	lastSeen map[policy.VAddr]time.Time
}

// clockNower is the slice of clock.Clock this package needs; satisfied
// by github.com/juju/clock.Clock.
type clockNower interface {
	Now() time.Time
}

func newLiveness(clk clockNower) *liveness {
	return &liveness{clockSrc: clk, lastSeen: make(map[policy.VAddr]time.Time)}
}

func (l *liveness) touch(addr policy.VAddr) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastSeen[addr] = l.clockSrc.Now()
}

// Status classifies a peer's silence duration as fresh, evasive or
// expired. An addr never seen is reported expired.
func (l *liveness) Status(addr policy.VAddr) string {
	l.mu.Lock()
	seen, ok := l.lastSeen[addr]
	l.mu.Unlock()
	if !ok {
		return "expired"
	}
	silence := l.clockSrc.Now().Sub(seen)
	switch {
	case silence >= peerExpired:
		return "expired"
	case silence >= peerEvasive:
		return "evasive"
	default:
		return "fresh"
	}
}
