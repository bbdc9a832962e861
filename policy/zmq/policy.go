package zmq

import (
	"sync"

	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/graybat-go/graybat/config"
	"github.com/graybat-go/graybat/graybaterr"
	"github.com/graybat-go/graybat/policy"
	"github.com/graybat-go/graybat/policy/zmq/msg"
)

// sequencerAddr is the fixed VAddr that runs every context's collective
// sequencer, mirroring inproc's choice of a single deterministic
// finisher per round.
const sequencerAddr policy.VAddr = 0

// Policy implements policy.CommunicationPolicy over a Transport.
type Policy struct {
	cfg   config.Config
	self  policy.VAddr
	t     *Transport
	clock clock.Clock
	log   *logrus.Entry

	mu     sync.Mutex
	rounds map[int32]int32 // per-context next round number, this peer's own counter

	ctxMu      sync.Mutex
	ctxMembers map[int32][]policy.VAddr // context ID -> global VAddr per context-relative index
	nextCtxID  int32

	live *liveness
}

// New builds a Policy for VAddr self among peers, using t for transport.
// clk defaults to clock.WallClock if nil.
func New(cfg config.Config, self policy.VAddr, t *Transport, clk clock.Clock, log *logrus.Entry) *Policy {
	if clk == nil {
		clk = clock.WallClock
	}
	if log == nil {
		log = logrus.StandardLogger().WithField("component", "policy/zmq")
	}
	global := make([]policy.VAddr, cfg.PeerCount)
	for i := range global {
		global[i] = policy.VAddr(i)
	}
	p := &Policy{
		cfg:        cfg,
		self:       self,
		t:          t,
		clock:      clk,
		log:        log,
		rounds:     make(map[int32]int32),
		ctxMembers: map[int32][]policy.VAddr{0: global},
		nextCtxID:  1,
		live:       newLiveness(clk),
	}
	t.OnFrame(func(f *msg.Frame) {
		// f.Src is relative to f.Context; liveness is keyed by global VAddr.
		p.live.touch(p.globalAddr(policy.InvalidContext(int(f.Context)), policy.VAddr(f.Src)))
	})
	return p
}

// PeerStatus reports the liveness classification ("fresh", "evasive" or
// "expired") of addr, the global VAddr of a peer, based on how long ago a
// frame from it last arrived. This never drives reconnection or retry:
// fault tolerance is out of scope, this is purely observational.
func (p *Policy) PeerStatus(addr policy.VAddr) string {
	return p.live.Status(addr)
}

// membersOf returns the global VAddr of every context-relative member of
// ctx, index k holding the global address of relative VAddr k.
func (p *Policy) membersOf(ctx policy.Context) []policy.VAddr {
	p.ctxMu.Lock()
	defer p.ctxMu.Unlock()
	return p.ctxMembers[int32(ctx.ID())]
}

func (p *Policy) globalAddr(ctx policy.Context, relative policy.VAddr) policy.VAddr {
	members := p.membersOf(ctx)
	if members == nil || int(relative) >= len(members) {
		return relative
	}
	return members[relative]
}

var _ policy.CommunicationPolicy = (*Policy)(nil)

func (p *Policy) GetConfig() config.Config { return p.cfg }

func (p *Policy) GetGlobalContext() policy.Context {
	return policy.NewContext(0, p.cfg.PeerCount, p.self)
}

// nextRound returns and advances this peer's local round counter for
// ctxID; both the sequencer and its callers agree on round numbers purely
// from call order (spec §5 O3), with no extra coordination message.
func (p *Policy) nextRound(ctxID int32) int32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	r := p.rounds[ctxID]
	p.rounds[ctxID]++
	return r
}

func (p *Policy) Send(dst policy.VAddr, tag int, ctx policy.Context, buf policy.Buffer) error {
	if !ctx.Valid() {
		return graybaterr.ContextMismatchf("send: local peer is not a member of context %d", ctx.ID())
	}
	tb, ok := buf.(*policy.TypedBuffer)
	if !ok {
		return graybaterr.New(graybaterr.SubstrateFailure, "send: buffer must be a *policy.TypedBuffer")
	}
	f := &msg.Frame{
		Kind: msg.KindData, Context: int32(ctx.ID()), Src: int32(ctx.VAddr()),
		Tag: int32(tag), ElemKind: byte(tb.Kind), Count: int32(tb.Count), Payload: tb.Data,
	}
	if err := p.t.Send(dst, f); err != nil {
		return graybaterr.Wrap(graybaterr.SubstrateFailure, err, "send: transport failure")
	}
	return nil
}

func (p *Policy) Recv(src policy.VAddr, tag int, ctx policy.Context, buf policy.Buffer) error {
	if !ctx.Valid() {
		return graybaterr.ContextMismatchf("recv: local peer is not a member of context %d", ctx.ID())
	}
	tb, ok := buf.(*policy.TypedBuffer)
	if !ok {
		return graybaterr.New(graybaterr.SubstrateFailure, "recv: buffer must be a *policy.TypedBuffer")
	}
	f := p.t.Recv(func(f *msg.Frame) bool {
		return f.Kind == msg.KindData && f.Context == int32(ctx.ID()) && f.Src == int32(src) && f.Tag == int32(tag)
	})
	tb.Data = append(tb.Data[:0], f.Payload...)
	tb.Count = int(f.Count)
	tb.Kind = policy.ElemKind(f.ElemKind)
	return nil
}

func (p *Policy) AsyncSend(dst policy.VAddr, tag int, ctx policy.Context, buf policy.Buffer) (*policy.Event, error) {
	err := p.Send(dst, tag, ctx, buf)
	return policy.NewEvent(func() error { return err }, 0, tag), nil
}

func (p *Policy) AsyncRecv(src policy.VAddr, tag int, ctx policy.Context, buf policy.Buffer) (*policy.Event, error) {
	done := make(chan error, 1)
	go func() { done <- p.Recv(src, tag, ctx, buf) }()
	return policy.NewEvent(func() error { return <-done }, src, tag), nil
}

func (p *Policy) RecvAny(ctx policy.Context, buf policy.Buffer) (*policy.Event, error) {
	if !ctx.Valid() {
		return nil, graybaterr.ContextMismatchf("recvAny: local peer is not a member of context %d", ctx.ID())
	}
	tb, ok := buf.(*policy.TypedBuffer)
	if !ok {
		return nil, graybaterr.New(graybaterr.SubstrateFailure, "recvAny: buffer must be a *policy.TypedBuffer")
	}
	done := make(chan *msg.Frame, 1)
	go func() {
		f := p.t.Recv(func(f *msg.Frame) bool {
			return f.Kind == msg.KindData && f.Context == int32(ctx.ID())
		})
		done <- f
	}()
	return policy.NewAnyEvent(func() (policy.VAddr, int, error) {
		f := <-done
		tb.Data = append(tb.Data[:0], f.Payload...)
		tb.Count = int(f.Count)
		tb.Kind = policy.ElemKind(f.ElemKind)
		return policy.VAddr(f.Src), int(f.Tag), nil
	}), nil
}

// SplitContext allGathers membership votes over oldContext (routed
// through oldContext's own sequencer) and assigns the members that voted
// true a fresh, contiguous context-relative VAddr space, recording which
// global peer backs each new relative VAddr.
func (p *Policy) SplitContext(isMember bool, oldContext policy.Context) (policy.Context, error) {
	if !oldContext.Valid() {
		return policy.InvalidContext(0), graybaterr.ContextMismatchf("splitContext: local peer is not a member of context %d", oldContext.ID())
	}

	send := policy.NewInt32Buffer([]int32{boolInt32(isMember)})
	recv := policy.NewBuffer(oldContext.Size(), policy.Int32)
	if err := p.AllGather(oldContext, send, recv); err != nil {
		return policy.InvalidContext(0), err
	}

	oldMembers := p.membersOf(oldContext)
	var newMembers []policy.VAddr
	for i := 0; i < oldContext.Size(); i++ {
		if recv.Int32At(i) != 0 {
			newMembers = append(newMembers, oldMembers[i])
		}
	}

	p.ctxMu.Lock()
	newID := p.nextCtxID
	p.nextCtxID++
	p.ctxMembers[newID] = newMembers
	p.ctxMu.Unlock()

	if !isMember {
		return policy.InvalidContext(int(newID)), nil
	}
	for i, addr := range newMembers {
		if addr == p.globalAddr(oldContext, oldContext.VAddr()) {
			return policy.NewContext(int(newID), len(newMembers), policy.VAddr(i)), nil
		}
	}
	return policy.InvalidContext(int(newID)), graybaterr.ContextMismatchf("splitContext: local peer missing from its own membership vote")
}

func boolInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (p *Policy) Synchronize(ctx policy.Context) error {
	empty := policy.NewBuffer(0, policy.Int32)
	_, err := p.runCollective(ctx, empty, func(contribs map[policy.VAddr]*policy.TypedBuffer, size int) collectiveOutcome {
		return collectiveOutcome{shared: policy.NewBuffer(0, policy.Int32)}
	})
	return err
}

