package inproc

import (
	"github.com/graybat-go/graybat/config"
	"github.com/graybat-go/graybat/graybaterr"
	"github.com/graybat-go/graybat/policy"
)

// Policy is the per-peer handle into a shared Cluster. It implements
// policy.CommunicationPolicy.
type Policy struct {
	cluster *Cluster
	cfg     config.Config
	self    policy.VAddr
}

var _ policy.CommunicationPolicy = (*Policy)(nil)

// GetConfig returns this peer's resolved configuration.
func (p *Policy) GetConfig() config.Config { return p.cfg }

// GetGlobalContext returns the context containing every simulated peer.
func (p *Policy) GetGlobalContext() policy.Context {
	return policy.NewContext(globalContextID, p.cluster.size, p.self)
}

// SplitContext is a collective over oldContext: every member must call it
// in the same order (spec §5 O3), passing the same isMember decision it
// will consistently pass everywhere else in the program for this round.
// Peers that pass false get an invalid context; peers that pass true are
// assigned a fresh, contiguous VAddr space ordered by their VAddr in
// oldContext.
func (p *Policy) SplitContext(isMember bool, oldContext policy.Context) (policy.Context, error) {
	if !oldContext.Valid() {
		return policy.InvalidContext(0), graybaterr.ContextMismatchf("splitContext: local peer is not a member of context %d", oldContext.ID())
	}

	send := policy.NewInt32Buffer([]int32{boolInt32(isMember)})
	recv := policy.NewBuffer(oldContext.Size(), policy.Int32)
	if err := p.AllGather(oldContext, send, recv); err != nil {
		return policy.InvalidContext(0), err
	}

	var members []policy.VAddr
	for i := 0; i < oldContext.Size(); i++ {
		if recv.Int32At(i) != 0 {
			members = append(members, policy.VAddr(i))
		}
	}

	idRound, err := p.collective(oldContext, policy.NewBuffer(0, policy.Int32), func(r *round) {
		r.shared = policy.NewInt32Buffer([]int32{int32(p.cluster.newContextID())})
	})
	if err != nil {
		return policy.InvalidContext(0), err
	}
	newID := int(typed(idRound.shared).Int32At(0))
	p.cluster.stateFor(newID) // ensure the child context's barrier/inbox state exists

	if !isMember {
		return policy.InvalidContext(newID), nil
	}
	for i, addr := range members {
		if addr == oldContext.VAddr() {
			return policy.NewContext(newID, len(members), policy.VAddr(i)), nil
		}
	}
	return policy.InvalidContext(newID), graybaterr.ContextMismatchf("splitContext: local peer missing from its own membership vote")
}

func boolInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// Send is a blocking point-to-point send.
func (p *Policy) Send(dst policy.VAddr, tag int, ctx policy.Context, buf policy.Buffer) error {
	if !ctx.Valid() {
		return graybaterr.ContextMismatchf("send: local peer is not a member of context %d", ctx.ID())
	}
	tb, ok := buf.(*policy.TypedBuffer)
	if !ok {
		return graybaterr.New(graybaterr.SubstrateFailure, "send: buffer must be a *policy.TypedBuffer")
	}
	cp := &policy.TypedBuffer{Data: append([]byte(nil), tb.Data...), Count: tb.Count, Kind: tb.Kind}
	p.cluster.inboxFor(ctx.ID(), dst).push(&message{src: ctx.VAddr(), tag: tag, buf: cp})
	return nil
}

// Recv is a blocking point-to-point receive.
func (p *Policy) Recv(src policy.VAddr, tag int, ctx policy.Context, buf policy.Buffer) error {
	if !ctx.Valid() {
		return graybaterr.ContextMismatchf("recv: local peer is not a member of context %d", ctx.ID())
	}
	tb, ok := buf.(*policy.TypedBuffer)
	if !ok {
		return graybaterr.New(graybaterr.SubstrateFailure, "recv: buffer must be a *policy.TypedBuffer")
	}
	m := p.cluster.inboxFor(ctx.ID(), ctx.VAddr()).recvMatching(src, tag, false)
	tb.CopyFrom(m.buf)
	return nil
}

// AsyncSend returns an Event that completes once the send is enqueued;
// the in-process substrate has no transport latency to await, so the
// Event resolves immediately on Wait.
func (p *Policy) AsyncSend(dst policy.VAddr, tag int, ctx policy.Context, buf policy.Buffer) (*policy.Event, error) {
	err := p.Send(dst, tag, ctx, buf)
	return policy.NewEvent(func() error { return err }, 0, tag), nil
}

// AsyncRecv returns an Event whose Wait blocks until the matching message
// arrives.
func (p *Policy) AsyncRecv(src policy.VAddr, tag int, ctx policy.Context, buf policy.Buffer) (*policy.Event, error) {
	if !ctx.Valid() {
		return nil, graybaterr.ContextMismatchf("asyncRecv: local peer is not a member of context %d", ctx.ID())
	}
	done := make(chan error, 1)
	go func() { done <- p.Recv(src, tag, ctx, buf) }()
	return policy.NewEvent(func() error { return <-done }, src, tag), nil
}

// RecvAny blocks for a message from any source and any tag.
func (p *Policy) RecvAny(ctx policy.Context, buf policy.Buffer) (*policy.Event, error) {
	if !ctx.Valid() {
		return nil, graybaterr.ContextMismatchf("recvAny: local peer is not a member of context %d", ctx.ID())
	}
	tb, ok := buf.(*policy.TypedBuffer)
	if !ok {
		return nil, graybaterr.New(graybaterr.SubstrateFailure, "recvAny: buffer must be a *policy.TypedBuffer")
	}
	type result struct {
		src policy.VAddr
		tag int
	}
	done := make(chan result, 1)
	go func() {
		m := p.cluster.inboxFor(ctx.ID(), ctx.VAddr()).recvMatching(0, 0, true)
		tb.CopyFrom(m.buf)
		done <- result{src: m.src, tag: m.tag}
	}()
	return policy.NewAnyEvent(func() (policy.VAddr, int, error) {
		r := <-done
		return r.src, r.tag, nil
	}), nil
}

// Synchronize is a barrier among ctx's members; it carries no payload.
func (p *Policy) Synchronize(ctx policy.Context) error {
	empty := policy.NewBuffer(0, policy.Int32)
	_, err := p.collective(ctx, empty, func(r *round) {})
	return err
}
