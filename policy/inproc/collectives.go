package inproc

import (
	"github.com/graybat-go/graybat/graybaterr"
	"github.com/graybat-go/graybat/policy"
)

// enterRound joins the current (or a freshly-opened) barrier round for
// ctx, contributing buf. It returns the round and whether this call was
// the one that completed it (arrived == participants); spec §5 requires
// every member to enter every collective in the same order, so exactly
// one caller per round observes last == true.
func (p *Policy) enterRound(ctx policy.Context, buf policy.Buffer) (*round, bool) {
	st := p.cluster.stateFor(ctx.ID())
	st.mu.Lock()
	if st.current == nil {
		st.current = newRound(ctx.Size())
	}
	r := st.current
	r.contributions[ctx.VAddr()] = buf
	r.arrived++
	last := r.arrived == r.participants
	if last {
		st.current = nil
	}
	st.mu.Unlock()
	return r, last
}

// collective runs buf through the barrier, invoking finalize exactly once
// (by whichever peer completes it) before releasing every waiter.
func (p *Policy) collective(ctx policy.Context, buf policy.Buffer, finalize func(r *round)) (*round, error) {
	if !ctx.Valid() {
		return nil, graybaterr.ContextMismatchf("collective: local peer is not a member of context %d", ctx.ID())
	}
	r, last := p.enterRound(ctx, buf)
	if last {
		finalize(r)
		close(r.done)
	} else {
		<-r.done
	}
	return r, r.err
}

func typed(buf policy.Buffer) *policy.TypedBuffer {
	tb, _ := buf.(*policy.TypedBuffer)
	return tb
}

// Gather collects every participant's send buffer into root's recv
// buffer, in VAddr order. Non-root callers' recv is ignored.
func (p *Policy) Gather(root policy.VAddr, ctx policy.Context, send, recv policy.Buffer) error {
	r, err := p.collective(ctx, send, func(r *round) {
		elem := typed(send).ElemSize()
		kind := typed(send).Kind
		count := typed(send).Count
		combined := policy.NewBuffer(count*len(r.contributions), kind)
		for i := 0; i < len(r.contributions); i++ {
			c := typed(r.contributions[policy.VAddr(i)])
			copy(combined.Data[i*count*elem:], c.Data)
		}
		r.results = map[policy.VAddr]policy.Buffer{root: combined}
	})
	if err != nil {
		return err
	}
	if ctx.VAddr() == root {
		if rb := typed(recv); rb != nil {
			rb.CopyFrom(typed(r.results[root]))
		}
	}
	return nil
}

// GatherVar is Gather tolerating per-peer differing element counts.
// counts must be sized ctx.Size() and known identically to every
// participant (spec §9 flags this offset computation as relying on
// VAddr-ordered iteration, which this implementation makes explicit).
func (p *Policy) GatherVar(root policy.VAddr, ctx policy.Context, send policy.Buffer, recv policy.Buffer, counts []int) error {
	r, err := p.collective(ctx, send, func(r *round) {
		kind := typed(send).Kind
		total := 0
		for _, c := range counts {
			total += c
		}
		combined := policy.NewBuffer(total, kind)
		offset := 0
		for i := 0; i < len(r.contributions); i++ {
			c := typed(r.contributions[policy.VAddr(i)])
			n := counts[i] * c.ElemSize()
			copy(combined.Data[offset:], c.Data[:n])
			offset += n
		}
		r.results = map[policy.VAddr]policy.Buffer{root: combined}
	})
	if err != nil {
		return err
	}
	if ctx.VAddr() == root {
		if rb := typed(recv); rb != nil {
			rb.CopyFrom(typed(r.results[root]))
		}
	}
	return nil
}

// AllGather is Gather where every participant receives the combined
// result.
func (p *Policy) AllGather(ctx policy.Context, send, recv policy.Buffer) error {
	r, err := p.collective(ctx, send, func(r *round) {
		elem := typed(send).ElemSize()
		kind := typed(send).Kind
		count := typed(send).Count
		combined := policy.NewBuffer(count*len(r.contributions), kind)
		for i := 0; i < len(r.contributions); i++ {
			c := typed(r.contributions[policy.VAddr(i)])
			copy(combined.Data[i*count*elem:], c.Data)
		}
		r.shared = combined
	})
	if err != nil {
		return err
	}
	typed(recv).CopyFrom(typed(r.shared))
	return nil
}

// AllGatherVar is AllGather tolerating per-peer differing element counts.
func (p *Policy) AllGatherVar(ctx policy.Context, send policy.Buffer, recv policy.Buffer, counts []int) error {
	r, err := p.collective(ctx, send, func(r *round) {
		kind := typed(send).Kind
		total := 0
		for _, c := range counts {
			total += c
		}
		combined := policy.NewBuffer(total, kind)
		offset := 0
		for i := 0; i < len(r.contributions); i++ {
			c := typed(r.contributions[policy.VAddr(i)])
			n := counts[i] * c.ElemSize()
			copy(combined.Data[offset:], c.Data[:n])
			offset += n
		}
		r.shared = combined
	})
	if err != nil {
		return err
	}
	typed(recv).CopyFrom(typed(r.shared))
	return nil
}

// Scatter splits root's send buffer into ctx.Size() equal chunks and
// distributes chunk i to peer i's recv buffer.
func (p *Policy) Scatter(root policy.VAddr, ctx policy.Context, send, recv policy.Buffer) error {
	r, err := p.collective(ctx, send, func(r *round) {
		rootBuf := typed(r.contributions[root])
		kind := rootBuf.Kind
		n := len(r.contributions)
		chunk := rootBuf.Count / n
		elem := rootBuf.ElemSize()
		results := make(map[policy.VAddr]policy.Buffer, n)
		for i := 0; i < n; i++ {
			out := policy.NewBuffer(chunk, kind)
			copy(out.Data, rootBuf.Data[i*chunk*elem:(i+1)*chunk*elem])
			results[policy.VAddr(i)] = out
		}
		r.results = results
	})
	if err != nil {
		return err
	}
	typed(recv).CopyFrom(typed(r.results[ctx.VAddr()]))
	return nil
}

// AllToAll has every participant send a distinct chunk of its send buffer
// to every other participant, assembling recv from the chunk each sent to
// this peer.
func (p *Policy) AllToAll(ctx policy.Context, send, recv policy.Buffer) error {
	r, err := p.collective(ctx, send, func(r *round) {
		n := len(r.contributions)
		kind := typed(send).Kind
		elem := typed(send).ElemSize()
		chunk := typed(send).Count / n
		results := make(map[policy.VAddr]policy.Buffer, n)
		for dst := 0; dst < n; dst++ {
			out := policy.NewBuffer(chunk, kind)
			for src := 0; src < n; src++ {
				srcBuf := typed(r.contributions[policy.VAddr(src)])
				copy(out.Data[src*chunk*elem:], srcBuf.Data[dst*chunk*elem:(dst+1)*chunk*elem])
			}
			results[policy.VAddr(dst)] = out
		}
		r.results = results
	})
	if err != nil {
		return err
	}
	typed(recv).CopyFrom(typed(r.results[ctx.VAddr()]))
	return nil
}

// Reduce folds every participant's send buffer with op, leaving the
// result in root's recv buffer only.
func (p *Policy) Reduce(root policy.VAddr, ctx policy.Context, op policy.Op, send, recv policy.Buffer) error {
	r, err := p.collective(ctx, send, func(r *round) {
		acc := policy.NewBuffer(typed(send).Count, typed(send).Kind)
		acc.CopyFrom(typed(r.contributions[policy.VAddr(0)]))
		for i := 1; i < len(r.contributions); i++ {
			op.Apply(acc, r.contributions[policy.VAddr(i)])
		}
		r.results = map[policy.VAddr]policy.Buffer{root: acc}
	})
	if err != nil {
		return err
	}
	if ctx.VAddr() == root {
		typed(recv).CopyFrom(typed(r.results[root]))
	}
	return nil
}

// AllReduce is Reduce where every participant receives the result.
func (p *Policy) AllReduce(ctx policy.Context, op policy.Op, send, recv policy.Buffer) error {
	r, err := p.collective(ctx, send, func(r *round) {
		acc := policy.NewBuffer(typed(send).Count, typed(send).Kind)
		acc.CopyFrom(typed(r.contributions[policy.VAddr(0)]))
		for i := 1; i < len(r.contributions); i++ {
			op.Apply(acc, r.contributions[policy.VAddr(i)])
		}
		r.shared = acc
	})
	if err != nil {
		return err
	}
	typed(recv).CopyFrom(typed(r.shared))
	return nil
}

// Broadcast distributes root's buf to every participant, in place.
func (p *Policy) Broadcast(root policy.VAddr, ctx policy.Context, buf policy.Buffer) error {
	r, err := p.collective(ctx, buf, func(r *round) {
		r.shared = typed(r.contributions[root])
	})
	if err != nil {
		return err
	}
	if ctx.VAddr() != root {
		typed(buf).CopyFrom(typed(r.shared))
	}
	return nil
}
