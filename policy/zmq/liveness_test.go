package zmq

import (
	"testing"
	"time"

	"github.com/juju/clock/testclock"

	"github.com/graybat-go/graybat/policy"
)

// Exercises the fresh -> evasive -> expired classification with an
// injectable clock, the same way the teacher's own timeout logic (peer.go's
// peerEvasive/peerExpired) would be tested with a fake clock instead of
// real sleeps.
func TestLivenessStatusTransitions(t *testing.T) {
	clk := testclock.NewClock(time.Unix(0, 0))
	l := newLiveness(clk)
	addr := policy.VAddr(1)

	if got := l.Status(addr); got != "expired" {
		t.Fatalf("never-seen peer: got %q, want expired", got)
	}

	l.touch(addr)
	if got := l.Status(addr); got != "fresh" {
		t.Fatalf("just touched: got %q, want fresh", got)
	}

	clk.Advance(peerEvasive)
	if got := l.Status(addr); got != "evasive" {
		t.Fatalf("after %s: got %q, want evasive", peerEvasive, got)
	}

	clk.Advance(peerExpired - peerEvasive)
	if got := l.Status(addr); got != "expired" {
		t.Fatalf("after %s: got %q, want expired", peerExpired, got)
	}

	l.touch(addr)
	if got := l.Status(addr); got != "fresh" {
		t.Fatalf("re-touched: got %q, want fresh", got)
	}
}
