// Package inproc implements the Communication Policy contract (spec
// §4.1) as an in-process, goroutine/channel substrate: every peer is a
// goroutine in the same process, and the "network" is a set of Go
// channels. It exists to simulate a many-peer cluster inside a single
// test binary.
//
// Grounded on zeromq-gyre's own concurrency idiom: node.go runs each
// peer's protocol handling off buffered channels (events/commands/inbox)
// rather than blocking calls, and shm.go shows a mutex-guarded shared map
// as the process-wide directory; this package generalizes both into a
// shared Cluster that every simulated peer's Policy reads and writes.
package inproc

import (
	"sync"

	"github.com/graybat-go/graybat/config"
	"github.com/graybat-go/graybat/policy"
)

type message struct {
	src policy.VAddr
	tag int
	buf *policy.TypedBuffer
}

// inbox is a single peer's incoming queue within a context: messages
// arrive in send order per source (see Policy.Send), and pending holds
// messages a targeted Recv has already pulled off the channel looking for
// a different (src, tag) match.
type inbox struct {
	ch      chan *message
	mu      sync.Mutex
	pending []*message
}

func newInbox() *inbox {
	return &inbox{ch: make(chan *message, 4096)}
}

func (ib *inbox) push(m *message) {
	ib.ch <- m
}

// recvMatching blocks until a message with the given src/tag (or, when
// anySource is true, any message at all) is available.
func (ib *inbox) recvMatching(src policy.VAddr, tag int, anySource bool) *message {
	ib.mu.Lock()
	for i, m := range ib.pending {
		if anySource || (m.src == src && m.tag == tag) {
			ib.pending = append(ib.pending[:i], ib.pending[i+1:]...)
			ib.mu.Unlock()
			return m
		}
	}
	ib.mu.Unlock()

	for {
		m := <-ib.ch
		if anySource || (m.src == src && m.tag == tag) {
			return m
		}
		ib.mu.Lock()
		ib.pending = append(ib.pending, m)
		ib.mu.Unlock()
	}
}

// round is one in-flight graph-scoped or peer-level collective: a
// reusable barrier that also carries participants' contributed buffers so
// the peer that completes the barrier can compute and distribute results.
type round struct {
	mu            sync.Mutex
	participants  int
	arrived       int
	contributions map[policy.VAddr]policy.Buffer
	results       map[policy.VAddr]policy.Buffer // per-peer outputs, set by the finisher
	shared        policy.Buffer                  // single shared output (broadcast/reduce/allreduce)
	err           error
	done          chan struct{}
}

func newRound(participants int) *round {
	return &round{
		participants:  participants,
		contributions: make(map[policy.VAddr]policy.Buffer, participants),
		done:          make(chan struct{}),
	}
}

// ctxState holds the reusable-barrier machinery for a single context: at
// most one round is in flight at a time because spec §5 requires every
// member to enter collectives in the same order.
type ctxState struct {
	mu      sync.Mutex
	current *round
	inboxes map[policy.VAddr]*inbox
}

// Cluster is the shared, process-wide state backing every simulated
// peer's Policy: membership, per-context barriers and per-peer inboxes.
// Construct one Cluster per simulated network and call Peer for each
// member.
type Cluster struct {
	mu       sync.Mutex
	size     int
	nextCtx  int
	contexts map[int]*ctxState
}

// globalContextID is the fixed, well-known ID of the context containing
// every simulated peer.
const globalContextID = 0

// New creates a Cluster of the given fixed size. Peer(i) returns the
// Policy for member i, 0 <= i < size.
func New(size int) *Cluster {
	c := &Cluster{size: size, contexts: make(map[int]*ctxState)}
	c.stateFor(globalContextID)
	return c
}

func (c *Cluster) stateFor(ctxID int) *ctxState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.contexts[ctxID]
	if !ok {
		st = &ctxState{inboxes: make(map[policy.VAddr]*inbox)}
		c.contexts[ctxID] = st
	}
	return st
}

func (c *Cluster) inboxFor(ctxID int, addr policy.VAddr) *inbox {
	st := c.stateFor(ctxID)
	st.mu.Lock()
	defer st.mu.Unlock()
	ib, ok := st.inboxes[addr]
	if !ok {
		ib = newInbox()
		st.inboxes[addr] = ib
	}
	return ib
}

// newContextID reserves a fresh context ID for a SplitContext result.
// Policy.SplitContext calls it once per split, from the finisher of a
// barrier round over the old context, and hands the result to every
// member of that round, so all members agree on the ID.
func (c *Cluster) newContextID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextCtx++
	return c.nextCtx
}

// Peer returns the CommunicationPolicy for simulated peer id.
func (c *Cluster) Peer(id int) policy.CommunicationPolicy {
	return &Policy{
		cluster: c,
		cfg:     config.Config{PeerID: id, PeerCount: c.size},
		self:    policy.VAddr(id),
	}
}
