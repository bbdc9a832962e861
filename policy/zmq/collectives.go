package zmq

import (
	"github.com/graybat-go/graybat/graybaterr"
	"github.com/graybat-go/graybat/policy"
	"github.com/graybat-go/graybat/policy/zmq/msg"
)

// collectiveOutcome is what a collective's finalize function produces:
// either a single buffer shared by every participant (allGather,
// allReduce, broadcast, synchronize) or a per-relative-VAddr map for
// operations with a distinguished root or per-peer result (gather,
// scatter, reduce). Exactly one field is populated.
type collectiveOutcome struct {
	shared  *policy.TypedBuffer
	perPeer map[policy.VAddr]*policy.TypedBuffer
}

func (o collectiveOutcome) forPeer(k policy.VAddr) *policy.TypedBuffer {
	if o.shared != nil {
		return o.shared
	}
	return o.perPeer[k]
}

// runCollective is the zmq substrate's barrier: the context-relative
// VAddr 0 member of ctx acts as sequencer for every round over ctx,
// collecting every other member's contribution before computing and
// distributing the result. Every member calls this in the same relative
// order (spec §5 O3), so round numbers line up without extra messages.
func (p *Policy) runCollective(ctx policy.Context, send policy.Buffer, finalize func(contribs map[policy.VAddr]*policy.TypedBuffer, size int) collectiveOutcome) (collectiveOutcome, error) {
	if !ctx.Valid() {
		return collectiveOutcome{}, graybaterr.ContextMismatchf("collective: local peer is not a member of context %d", ctx.ID())
	}
	tb, ok := send.(*policy.TypedBuffer)
	if !ok {
		return collectiveOutcome{}, graybaterr.New(graybaterr.SubstrateFailure, "collective: buffer must be a *policy.TypedBuffer")
	}

	round := p.nextRound(int32(ctx.ID()))
	if ctx.VAddr() == sequencerAddr {
		return p.runAsSequencer(ctx, round, tb, finalize)
	}
	return p.runAsParticipant(ctx, round, tb)
}

func (p *Policy) runAsSequencer(ctx policy.Context, round int32, self *policy.TypedBuffer, finalize func(map[policy.VAddr]*policy.TypedBuffer, int) collectiveOutcome) (collectiveOutcome, error) {
	size := ctx.Size()
	contribs := map[policy.VAddr]*policy.TypedBuffer{0: self}
	for need := size - 1; need > 0; need-- {
		f := p.t.Recv(func(f *msg.Frame) bool {
			return f.Kind == msg.KindCollectiveContribute && f.Context == int32(ctx.ID()) && f.Round == round
		})
		contribs[policy.VAddr(f.Src)] = frameBuffer(f)
	}

	outcome := finalize(contribs, size)

	members := p.membersOf(ctx)
	for k := 1; k < size; k++ {
		payload := outcome.forPeer(policy.VAddr(k))
		if payload == nil {
			payload = policy.NewBuffer(0, policy.Int32)
		}
		dst := policy.VAddr(k)
		if members != nil {
			dst = members[k]
		}
		f := &msg.Frame{
			Kind: msg.KindCollectiveResult, Context: int32(ctx.ID()), Src: 0,
			Round: round, ElemKind: byte(payload.Kind), Count: int32(payload.Count), Payload: payload.Data,
		}
		if err := p.t.Send(dst, f); err != nil {
			return outcome, graybaterr.Wrap(graybaterr.SubstrateFailure, err, "collective: sequencer reply failed")
		}
	}
	return outcome, nil
}

func (p *Policy) runAsParticipant(ctx policy.Context, round int32, self *policy.TypedBuffer) (collectiveOutcome, error) {
	seq := p.globalAddr(ctx, sequencerAddr)
	contribute := &msg.Frame{
		Kind: msg.KindCollectiveContribute, Context: int32(ctx.ID()), Src: int32(ctx.VAddr()),
		Round: round, ElemKind: byte(self.Kind), Count: int32(self.Count), Payload: self.Data,
	}
	if err := p.t.Send(seq, contribute); err != nil {
		return collectiveOutcome{}, graybaterr.Wrap(graybaterr.SubstrateFailure, err, "collective: contribute failed")
	}
	f := p.t.Recv(func(f *msg.Frame) bool {
		return f.Kind == msg.KindCollectiveResult && f.Context == int32(ctx.ID()) && f.Round == round
	})
	return collectiveOutcome{shared: frameBuffer(f)}, nil
}

func frameBuffer(f *msg.Frame) *policy.TypedBuffer {
	return &policy.TypedBuffer{Data: f.Payload, Count: int(f.Count), Kind: policy.ElemKind(f.ElemKind)}
}

func typed(buf policy.Buffer) *policy.TypedBuffer {
	tb, _ := buf.(*policy.TypedBuffer)
	return tb
}

// copyShared copies the outcome's shared buffer into recv; used by the
// "everyone gets the same answer" operations.
func (p *Policy) copyShared(outcome collectiveOutcome, recv policy.Buffer) {
	typed(recv).CopyFrom(outcome.shared)
}

func (p *Policy) Gather(root policy.VAddr, ctx policy.Context, send, recv policy.Buffer) error {
	outcome, err := p.runCollective(ctx, send, func(contribs map[policy.VAddr]*policy.TypedBuffer, size int) collectiveOutcome {
		return collectiveOutcome{perPeer: map[policy.VAddr]*policy.TypedBuffer{root: concatInOrder(contribs, size)}}
	})
	if err != nil {
		return err
	}
	if ctx.VAddr() == root {
		typed(recv).CopyFrom(outcome.forPeer(root))
	}
	return nil
}

func (p *Policy) GatherVar(root policy.VAddr, ctx policy.Context, send policy.Buffer, recv policy.Buffer, counts []int) error {
	outcome, err := p.runCollective(ctx, send, func(contribs map[policy.VAddr]*policy.TypedBuffer, size int) collectiveOutcome {
		return collectiveOutcome{perPeer: map[policy.VAddr]*policy.TypedBuffer{root: concatVarInOrder(contribs, size, counts)}}
	})
	if err != nil {
		return err
	}
	if ctx.VAddr() == root {
		typed(recv).CopyFrom(outcome.forPeer(root))
	}
	return nil
}

func (p *Policy) AllGather(ctx policy.Context, send, recv policy.Buffer) error {
	outcome, err := p.runCollective(ctx, send, func(contribs map[policy.VAddr]*policy.TypedBuffer, size int) collectiveOutcome {
		return collectiveOutcome{shared: concatInOrder(contribs, size)}
	})
	if err != nil {
		return err
	}
	p.copyShared(outcome, recv)
	return nil
}

func (p *Policy) AllGatherVar(ctx policy.Context, send policy.Buffer, recv policy.Buffer, counts []int) error {
	outcome, err := p.runCollective(ctx, send, func(contribs map[policy.VAddr]*policy.TypedBuffer, size int) collectiveOutcome {
		return collectiveOutcome{shared: concatVarInOrder(contribs, size, counts)}
	})
	if err != nil {
		return err
	}
	p.copyShared(outcome, recv)
	return nil
}

func (p *Policy) Scatter(root policy.VAddr, ctx policy.Context, send, recv policy.Buffer) error {
	outcome, err := p.runCollective(ctx, send, func(contribs map[policy.VAddr]*policy.TypedBuffer, size int) collectiveOutcome {
		rootBuf := contribs[root]
		kind := rootBuf.Kind
		chunk := rootBuf.Count / size
		elem := rootBuf.ElemSize()
		per := make(map[policy.VAddr]*policy.TypedBuffer, size)
		for i := 0; i < size; i++ {
			out := policy.NewBuffer(chunk, kind)
			copy(out.Data, rootBuf.Data[i*chunk*elem:(i+1)*chunk*elem])
			per[policy.VAddr(i)] = out
		}
		return collectiveOutcome{perPeer: per}
	})
	if err != nil {
		return err
	}
	typed(recv).CopyFrom(outcome.forPeer(ctx.VAddr()))
	return nil
}

func (p *Policy) AllToAll(ctx policy.Context, send, recv policy.Buffer) error {
	outcome, err := p.runCollective(ctx, send, func(contribs map[policy.VAddr]*policy.TypedBuffer, size int) collectiveOutcome {
		kind := contribs[0].Kind
		elem := contribs[0].ElemSize()
		chunk := contribs[0].Count / size
		per := make(map[policy.VAddr]*policy.TypedBuffer, size)
		for dst := 0; dst < size; dst++ {
			out := policy.NewBuffer(chunk, kind)
			for src := 0; src < size; src++ {
				srcBuf := contribs[policy.VAddr(src)]
				copy(out.Data[src*chunk*elem:], srcBuf.Data[dst*chunk*elem:(dst+1)*chunk*elem])
			}
			per[policy.VAddr(dst)] = out
		}
		return collectiveOutcome{perPeer: per}
	})
	if err != nil {
		return err
	}
	typed(recv).CopyFrom(outcome.forPeer(ctx.VAddr()))
	return nil
}

func (p *Policy) Reduce(root policy.VAddr, ctx policy.Context, op policy.Op, send, recv policy.Buffer) error {
	outcome, err := p.runCollective(ctx, send, func(contribs map[policy.VAddr]*policy.TypedBuffer, size int) collectiveOutcome {
		acc := policy.NewBuffer(contribs[0].Count, contribs[0].Kind)
		acc.CopyFrom(contribs[0])
		for i := 1; i < size; i++ {
			op.Apply(acc, contribs[policy.VAddr(i)])
		}
		return collectiveOutcome{perPeer: map[policy.VAddr]*policy.TypedBuffer{root: acc}}
	})
	if err != nil {
		return err
	}
	if ctx.VAddr() == root {
		typed(recv).CopyFrom(outcome.forPeer(root))
	}
	return nil
}

func (p *Policy) AllReduce(ctx policy.Context, op policy.Op, send, recv policy.Buffer) error {
	outcome, err := p.runCollective(ctx, send, func(contribs map[policy.VAddr]*policy.TypedBuffer, size int) collectiveOutcome {
		acc := policy.NewBuffer(contribs[0].Count, contribs[0].Kind)
		acc.CopyFrom(contribs[0])
		for i := 1; i < size; i++ {
			op.Apply(acc, contribs[policy.VAddr(i)])
		}
		return collectiveOutcome{shared: acc}
	})
	if err != nil {
		return err
	}
	p.copyShared(outcome, recv)
	return nil
}

func (p *Policy) Broadcast(root policy.VAddr, ctx policy.Context, buf policy.Buffer) error {
	outcome, err := p.runCollective(ctx, buf, func(contribs map[policy.VAddr]*policy.TypedBuffer, size int) collectiveOutcome {
		return collectiveOutcome{shared: contribs[root]}
	})
	if err != nil {
		return err
	}
	if ctx.VAddr() != root {
		typed(buf).CopyFrom(outcome.shared)
	}
	return nil
}

func concatInOrder(contribs map[policy.VAddr]*policy.TypedBuffer, size int) *policy.TypedBuffer {
	count := contribs[0].Count
	elem := contribs[0].ElemSize()
	combined := policy.NewBuffer(count*size, contribs[0].Kind)
	for i := 0; i < size; i++ {
		copy(combined.Data[i*count*elem:], contribs[policy.VAddr(i)].Data)
	}
	return combined
}

func concatVarInOrder(contribs map[policy.VAddr]*policy.TypedBuffer, size int, counts []int) *policy.TypedBuffer {
	total := 0
	for _, c := range counts {
		total += c
	}
	combined := policy.NewBuffer(total, contribs[0].Kind)
	offset := 0
	for i := 0; i < size; i++ {
		c := contribs[policy.VAddr(i)]
		n := counts[i] * c.ElemSize()
		copy(combined.Data[offset:], c.Data[:n])
		offset += n
	}
	return combined
}
