// Package zmq implements the Communication Policy contract over a real
// ZeroMQ DEALER/ROUTER mesh, wire-compatible in spirit with the teacher's
// own transport: every peer binds one ROUTER socket (node.go's inbox)
// and keeps one DEALER socket per peer it talks to (peer.go's mailbox),
// framing every message with policy/zmq/msg the way the teacher frames
// Hello/Whisper with msg.Marshal/Unmarshal.
//
// Collectives are sequenced by VAddr 0 of each context: every other
// member sends its contribution to 0 over its DEALER socket; 0
// accumulates exactly Context.Size() contributions per round, computes
// the result, and replies to each member over its own DEALER socket for
// that member. This trades a fully peer-to-peer
// collective algorithm for a simple, centralized one — acceptable since
// spec.md scopes fault tolerance and performance tuning out (Non-goals).
package zmq

import (
	"fmt"
	"sync"
	"time"

	zmqgo "github.com/pebbe/zmq4"
	"github.com/sirupsen/logrus"

	"github.com/graybat-go/graybat/policy"
	"github.com/graybat-go/graybat/policy/zmq/msg"
)

// PeerAddr is one peer's identity within a zmq Transport: its VAddr in
// the global context and the endpoint its ROUTER is bound to.
type PeerAddr struct {
	Addr     policy.VAddr
	Endpoint string
}

// Transport owns the sockets backing one peer's participation in a zmq
// mesh: a bound ROUTER inbox and a DEALER per known peer.
type Transport struct {
	self  policy.VAddr
	peers []PeerAddr

	mu      sync.Mutex
	inbox   *zmqgo.Socket
	dealers map[policy.VAddr]*zmqgo.Socket

	incoming chan *msg.Frame
	onFrame  func(*msg.Frame)
	log      *logrus.Entry

	closeOnce sync.Once
	done      chan struct{}
}

// NewTransport binds self's ROUTER at its own endpoint (peers[self].Endpoint)
// and connects a DEALER to every other peer. peers must be indexed by
// VAddr and identical on every peer.
func NewTransport(self policy.VAddr, peers []PeerAddr, log *logrus.Entry) (*Transport, error) {
	if log == nil {
		log = logrus.StandardLogger().WithField("component", "policy/zmq")
	}
	t := &Transport{
		self:     self,
		peers:    peers,
		dealers:  make(map[policy.VAddr]*zmqgo.Socket, len(peers)),
		incoming: make(chan *msg.Frame, 4096),
		log:      log,
		done:     make(chan struct{}),
	}

	inbox, err := zmqgo.NewSocket(zmqgo.ROUTER)
	if err != nil {
		return nil, fmt.Errorf("zmq: create inbox router: %w", err)
	}
	if err := inbox.Bind(peers[self].Endpoint); err != nil {
		return nil, fmt.Errorf("zmq: bind inbox router at %s: %w", peers[self].Endpoint, err)
	}
	t.inbox = inbox

	for _, p := range peers {
		if p.Addr == self {
			continue
		}
		dealer, err := zmqgo.NewSocket(zmqgo.DEALER)
		if err != nil {
			return nil, fmt.Errorf("zmq: create dealer for peer %d: %w", p.Addr, err)
		}
		identity := fmt.Sprintf("peer-%d", self)
		if err := dealer.SetIdentity(identity); err != nil {
			return nil, fmt.Errorf("zmq: set dealer identity for peer %d: %w", p.Addr, err)
		}
		if err := dealer.Connect(p.Endpoint); err != nil {
			return nil, fmt.Errorf("zmq: connect dealer to peer %d at %s: %w", p.Addr, p.Endpoint, err)
		}
		t.dealers[p.Addr] = dealer
	}

	go t.recvLoop()
	return t, nil
}

// recvLoop decodes every frame arriving on the ROUTER inbox and pushes it
// onto incoming, dropping the ROUTER envelope's identity frame: replies
// address peers by VAddr (carried inside the Frame), not by zmq identity.
func (t *Transport) recvLoop() {
	poller := zmqgo.NewPoller()
	poller.Add(t.inbox, zmqgo.POLLIN)
	for {
		select {
		case <-t.done:
			return
		default:
		}
		polled, err := poller.Poll(pollInterval)
		if err != nil {
			t.log.WithError(err).Warn("zmq: poll failed")
			return
		}
		if len(polled) == 0 {
			continue
		}
		frames, err := t.inbox.RecvMessageBytes(0)
		if err != nil {
			t.log.WithError(err).Warn("zmq: recv failed")
			continue
		}
		if len(frames) < 2 {
			continue
		}
		f, err := msg.Unmarshal(frames[1])
		if err != nil {
			t.log.WithError(err).Warn("zmq: dropping malformed frame")
			continue
		}
		if t.onFrame != nil {
			t.onFrame(f)
		}
		t.incoming <- f
	}
}

// OnFrame registers a callback invoked for every frame this transport
// receives, before it's queued for Recv. Used for liveness bookkeeping;
// must be set before the first frame arrives.
func (t *Transport) OnFrame(fn func(*msg.Frame)) { t.onFrame = fn }

// Send transmits f to dst over this peer's DEALER socket for dst.
func (t *Transport) Send(dst policy.VAddr, f *msg.Frame) error {
	data, _ := f.Marshal()
	t.mu.Lock()
	dealer, ok := t.dealers[dst]
	t.mu.Unlock()
	if !ok {
		return fmt.Errorf("zmq: no dealer socket for peer %d", dst)
	}
	_, err := dealer.SendBytes(data, 0)
	return err
}

// Recv blocks for the next frame satisfying match, stashing any
// non-matching frame for a later caller — the same pending-queue idiom
// policy/inproc's inbox uses for FIFO-per-(src,dst) delivery.
func (t *Transport) Recv(match func(*msg.Frame) bool) *msg.Frame {
	var pending []*msg.Frame
	defer func() {
		for _, p := range pending {
			t.incoming <- p
		}
	}()
	for {
		f := <-t.incoming
		if match(f) {
			return f
		}
		pending = append(pending, f)
	}
}

// Close tears down every socket.
func (t *Transport) Close() {
	t.closeOnce.Do(func() {
		close(t.done)
		t.inbox.Close()
		for _, d := range t.dealers {
			d.Close()
		}
	})
}

// pollInterval bounds how long recvLoop blocks before checking t.done.
const pollInterval = 200 * time.Millisecond
