// Package nameservice implements the Name Service (spec §4.5): the
// directory that lets any peer translate a graph's vertices into their
// host VAddrs, and the protocol — announce — that builds that directory
// collectively.
//
// Grounded on _examples/original_source/include/NameService.hpp: the
// commMap/vertexMap/contextMap triple and the slot-rotation announce
// algorithm are ported directly. Two historical variants exist there,
// announce and announce2; both are kept here as Announce and Reannounce,
// since spec.md §4.5 documents both as first-class and the bug in
// announce2's doc comment ("commID of old context are not valid
// anymore") is exactly why Reannounce always returns a fresh context
// rather than mutating contextMap[g] in place under an old ID.
package nameservice

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/graybat-go/graybat/graph"
	"github.com/graybat-go/graybat/graybaterr"
	"github.com/graybat-go/graybat/policy"
)

// sentinel marks an empty slot during the announce rotation: a peer with
// fewer vertices than the round's maxCount contributes this instead of a
// local vertex ID.
const sentinel = -1

// NameService is the per-peer directory: commMap/vertexMap/contextMap
// keyed by graph ID, plus a live reference to the policy it was built
// over. It holds no graph; every method takes the graph as an argument.
type NameService struct {
	comm policy.CommunicationPolicy

	commMap    map[int]map[graph.VertexID]policy.VAddr
	vertexMap  map[int]map[policy.VAddr][]graph.Vertex
	contextMap map[int]policy.Context

	log     *logrus.Entry
	metrics *metrics
}

// Option configures a NameService at construction.
type Option func(*NameService)

// WithLogger attaches a structured logger; by default logs go to
// logrus.StandardLogger().
func WithLogger(log *logrus.Logger) Option {
	return func(ns *NameService) { ns.log = log.WithField("component", "nameservice") }
}

// WithMetrics registers Prometheus instruments against reg. Omitting this
// option leaves metrics disabled.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(ns *NameService) { ns.metrics = newMetrics(reg) }
}

// New builds an empty NameService bound to comm.
func New(comm policy.CommunicationPolicy, opts ...Option) *NameService {
	ns := &NameService{
		comm:       comm,
		commMap:    make(map[int]map[graph.VertexID]policy.VAddr),
		vertexMap:  make(map[int]map[policy.VAddr][]graph.Vertex),
		contextMap: make(map[int]policy.Context),
		log:        logrus.StandardLogger().WithField("component", "nameservice"),
	}
	for _, opt := range opts {
		opt(ns)
	}
	return ns
}

// oldContext resolves the context an announce round must run over: g's
// own context if it has one, else its supergraph's, else the global
// context (spec §4.5 step 1).
func (ns *NameService) oldContext(g graph.Policy) policy.Context {
	if ctx, ok := ns.contextMap[g.ID()]; ok {
		return ctx
	}
	if super, ok := g.SuperGraph(); ok {
		if ctx, ok := ns.contextMap[super.ID()]; ok {
			return ctx
		}
	}
	return ns.comm.GetGlobalContext()
}

// Announce is Variant A (legacy): every member of the old context takes
// part, and the host-only context is derived afterward via SplitContext
// on whether this peer ended up hosting any vertex of g.
func (ns *NameService) Announce(g graph.Policy, vertices []graph.Vertex) error {
	start := time.Now()
	defer func() { ns.metrics.observeAnnounce("A", time.Since(start).Seconds()) }()

	old := ns.oldContext(g)
	if !old.Valid() {
		ns.log.WithField("graph", g.ID()).Debug("announce: local peer not a member of the old context, skipping")
		return nil
	}

	if err := ns.rotateSlots(g, old, vertices); err != nil {
		return err
	}

	_, isMember := ns.vertexMap[g.ID()][old.VAddr()]
	newCtx, err := ns.comm.SplitContext(isMember, old)
	if err != nil {
		return graybaterr.Wrap(graybaterr.SubstrateFailure, err, "announce: splitContext failed")
	}
	ns.contextMap[g.ID()] = newCtx

	ns.log.WithFields(logrus.Fields{"graph": g.ID(), "variant": "A", "hosted": len(vertices)}).Debug("announce complete")
	return nil
}

// Reannounce is Variant B (re-announce): the host set is computed first
// (an allGather of "do I have any vertices"), then the old context is
// split down to exactly those peers before the slot rotation runs. This
// lets a graph's host set shrink across repeated announces without ever
// reusing stale VAddrs from the wider, now-obsolete context (the bug
// NameService.hpp's announce2 documents and does not fix).
func (ns *NameService) Reannounce(g graph.Policy, vertices []graph.Vertex) error {
	start := time.Now()
	defer func() { ns.metrics.observeAnnounce("B", time.Since(start).Seconds()) }()

	old := ns.oldContext(g)
	if !old.Valid() {
		ns.log.WithField("graph", g.ID()).Debug("reannounce: local peer not a member of the old context, skipping")
		return nil
	}

	hasVertices := policy.NewInt32Buffer([]int32{boolInt32(len(vertices) > 0)})
	recv := policy.NewBuffer(old.Size(), policy.Int32)
	if err := ns.comm.AllGather(old, hasVertices, recv); err != nil {
		return graybaterr.Wrap(graybaterr.SubstrateFailure, err, "reannounce: allGather of membership votes failed")
	}

	newCtx, err := ns.comm.SplitContext(len(vertices) > 0, old)
	if err != nil {
		return graybaterr.Wrap(graybaterr.SubstrateFailure, err, "reannounce: splitContext failed")
	}
	// contextMap is set unconditionally, even for peers that just
	// dropped out: an invalid Context here correctly records that this
	// peer no longer hosts g.
	ns.contextMap[g.ID()] = newCtx

	if !newCtx.Valid() {
		ns.log.WithField("graph", g.ID()).Debug("reannounce: local peer excluded from new host context")
		return nil
	}

	if err := ns.rotateSlots(g, newCtx, vertices); err != nil {
		return err
	}

	ns.log.WithFields(logrus.Fields{"graph": g.ID(), "variant": "B", "hosted": len(vertices), "hostCount": newCtx.Size()}).Debug("reannounce complete")
	return nil
}

func boolInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// rotateSlots runs the maxCount-bounded allGather rotation shared by both
// announce variants (spec §4.5 steps 3-4), populating commMap/vertexMap
// for g over ctx.
func (ns *NameService) rotateSlots(g graph.Policy, ctx policy.Context, vertices []graph.Vertex) error {
	myCount := policy.NewInt32Buffer([]int32{int32(len(vertices))})
	maxCount := policy.NewBuffer(1, policy.Int32)
	if err := ns.comm.AllReduce(ctx, policy.Max, myCount, maxCount); err != nil {
		return graybaterr.Wrap(graybaterr.SubstrateFailure, err, "announce: allReduce of vertex counts failed")
	}

	hosted := make(map[policy.VAddr][]graph.Vertex, ctx.Size())
	located := make(map[graph.VertexID]policy.VAddr)

	rounds := int(maxCount.Int32At(0))
	for i := 0; i < rounds; i++ {
		localID := int32(sentinel)
		if i < len(vertices) {
			id, ok := g.GetLocalID(vertices[i])
			if !ok {
				return graybaterr.DirectoryMissf("announce: vertex %v has no local ID in graph %d", vertices[i].ID, g.ID())
			}
			localID = int32(id)
		}

		send := policy.NewInt32Buffer([]int32{localID})
		recv := policy.NewBuffer(ctx.Size(), policy.Int32)
		if err := ns.comm.AllGather(ctx, send, recv); err != nil {
			return graybaterr.Wrap(graybaterr.SubstrateFailure, err, "announce: allGather of slot assignments failed")
		}

		for k := 0; k < ctx.Size(); k++ {
			slot := recv.Int32At(k)
			if slot == sentinel {
				continue
			}
			localVertices := g.Vertices()
			idx := int(slot)
			if idx < 0 || idx >= len(localVertices) {
				return graybaterr.DirectoryMissf("announce: peer %d announced out-of-range local ID %d for graph %d", k, slot, g.ID())
			}
			v := localVertices[idx]
			addr := policy.VAddr(k)
			located[v.ID] = addr
			hosted[addr] = append(hosted[addr], v)
		}
	}

	ns.commMap[g.ID()] = located
	ns.vertexMap[g.ID()] = hosted
	return nil
}

// LocateVertex returns the VAddr hosting v within g, or a DirectoryMiss
// error if the entry is absent — unlike NameService.hpp's locateVertex,
// which the original's own doc comment flags as crashing by exception.
func (ns *NameService) LocateVertex(g graph.Policy, v graph.Vertex) (policy.VAddr, error) {
	addr, ok := ns.commMap[g.ID()][v.ID]
	if !ok {
		ns.metrics.incDirectoryMiss()
		return 0, graybaterr.DirectoryMissf("locateVertex: vertex %v not announced in graph %d", v.ID, g.ID())
	}
	return addr, nil
}

// GetHostedVertices is the inverse of LocateVertex: the vertices of g
// hosted by addr. An addr that hosts nothing returns an empty slice, not
// an error (it's a valid, if uninteresting, answer).
func (ns *NameService) GetHostedVertices(g graph.Policy, addr policy.VAddr) []graph.Vertex {
	return ns.vertexMap[g.ID()][addr]
}

// GetGraphContext returns the context whose members are exactly g's host
// peers. Returns an invalid context if g has never been announced.
func (ns *NameService) GetGraphContext(g graph.Policy) policy.Context {
	if ctx, ok := ns.contextMap[g.ID()]; ok {
		return ctx
	}
	return policy.InvalidContext(0)
}

// GetGraphHostCommIDs returns the sorted set of VAddrs hosting any vertex
// of g, derived from commMap per NameService.hpp's getGraphHostCommIDs.
func (ns *NameService) GetGraphHostCommIDs(g graph.Policy) []policy.VAddr {
	seen := make(map[policy.VAddr]bool)
	var out []policy.VAddr
	for _, v := range g.Vertices() {
		addr, ok := ns.commMap[g.ID()][v.ID]
		if !ok || seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
