// Package graybat is the Cage facade (spec §4.7): it composes a
// CommunicationPolicy, a Graph, a Name Service and a Graph Communicator
// into the single entry point most callers use.
//
// Grounded on gyre.go's constructor-and-fluent-setup shape (New, then
// SetGraph/Distribute before use). The composition itself has no single
// source to port: original_source's src/main.cc wires a communicator, a
// NameService and a GraphCommunicator as separate free function
// arguments rather than one object, so Cage is this package's own answer
// to collapsing that into one constructor-injected type (spec §9).
package graybat

import (
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/graybat-go/graybat/config"
	"github.com/graybat-go/graybat/graph"
	"github.com/graybat-go/graybat/graphcomm"
	"github.com/graybat-go/graybat/graybaterr"
	"github.com/graybat-go/graybat/mapping"
	"github.com/graybat-go/graybat/nameservice"
	"github.com/graybat-go/graybat/pattern"
	"github.com/graybat-go/graybat/policy"
)

// Cage owns one communication policy, one graph, a Name Service and a
// Graph Communicator, and exposes the vertex/edge-level API most programs
// use instead of reaching into those collaborators directly.
type Cage struct {
	comm policy.CommunicationPolicy
	ns   *nameservice.NameService
	gc   *graphcomm.GraphCommunicator

	g              *graph.Graph
	hostedVertices []graph.Vertex
	nextGraphID    int

	log        *logrus.Entry
	metricsReg prometheus.Registerer
}

// Option configures a Cage at construction.
type Option func(*Cage)

// WithLogger attaches a structured logger to the Cage and its Name
// Service.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Cage) { c.log = log.WithField("component", "cage") }
}

// WithMetrics registers Prometheus instruments for both the Name Service
// (announce duration, directory misses) and the Graph Communicator
// (collective duration) against reg. Omitting this option leaves metrics
// disabled.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Cage) { c.metricsReg = reg }
}

// New builds a Cage over comm. The Cage has no graph until SetGraph is
// called.
func New(comm policy.CommunicationPolicy, opts ...Option) *Cage {
	c := &Cage{
		comm: comm,
		log:  logrus.StandardLogger().WithField("component", "cage"),
	}
	for _, opt := range opts {
		opt(c)
	}
	nsOpts := []nameservice.Option{nameservice.WithLogger(c.log.Logger)}
	var gcOpts []graphcomm.Option
	if c.metricsReg != nil {
		nsOpts = append(nsOpts, nameservice.WithMetrics(c.metricsReg))
		gcOpts = append(gcOpts, graphcomm.WithMetrics(c.metricsReg))
	}
	c.ns = nameservice.New(comm, nsOpts...)
	c.gc = graphcomm.New(comm, c.ns, gcOpts...)
	return c
}

// GetConfig returns the underlying policy's resolved configuration.
func (c *Cage) GetConfig() config.Config { return c.comm.GetConfig() }

// SetGraph materializes a graph from pat and makes it the Cage's current
// graph. Each call assigns a fresh graph ID, so a Cage can move through a
// sequence of graphs over its lifetime.
func (c *Cage) SetGraph(pat pattern.Pattern) *graph.Graph {
	id := c.nextGraphID
	c.nextGraphID++
	c.g = graph.New(id, pat())
	c.hostedVertices = nil
	return c.g
}

// Distribute computes this peer's shard of the current graph under m and
// announces it to the Name Service (Variant A), making the shard's
// vertices locatable by every host peer. It must be called by every peer
// that participated in reaching the graph's parent context, in the same
// relative order as every other peer (spec §5 O3).
func (c *Cage) Distribute(m mapping.Mapping) error {
	if c.g == nil {
		return graybaterr.New(graybaterr.ConfigInvalid, "distribute: no graph set, call SetGraph first")
	}
	cfg := c.comm.GetConfig()
	shard := m(cfg.PeerID, cfg.PeerCount, c.g)
	if err := c.ns.Announce(c.g, shard); err != nil {
		return err
	}
	c.hostedVertices = shard
	return nil
}

// Redistribute re-announces the current graph under m using Variant B
// (re-announce): the host context is recomputed first and may shrink.
// Use this instead of Distribute when a graph's host set can change
// after its first announce (spec §4.5 Variant B).
func (c *Cage) Redistribute(m mapping.Mapping) error {
	if c.g == nil {
		return graybaterr.New(graybaterr.ConfigInvalid, "redistribute: no graph set, call SetGraph first")
	}
	cfg := c.comm.GetConfig()
	shard := m(cfg.PeerID, cfg.PeerCount, c.g)
	if err := c.ns.Reannounce(c.g, shard); err != nil {
		return err
	}
	c.hostedVertices = shard
	return nil
}

// GetVertex returns the i'th vertex of the current graph, by local index.
func (c *Cage) GetVertex(i int) (graph.Vertex, bool) {
	if c.g == nil || i < 0 || i >= len(c.g.Vertices()) {
		return graph.Vertex{}, false
	}
	return c.g.Vertices()[i], true
}

// HostedVertices returns the vertices this peer hosts after the most
// recent Distribute/Redistribute call.
func (c *Cage) HostedVertices() []graph.Vertex { return c.hostedVertices }

// GetPeers returns the context containing every peer in the network.
func (c *Cage) GetPeers() Context { return c.comm.GetGlobalContext() }

// GetOutEdges returns (neighbor, edge) pairs for every edge leaving v in
// the current graph.
func (c *Cage) GetOutEdges(v graph.Vertex) []graph.NeighborEdge {
	if c.g == nil {
		return nil
	}
	return c.g.OutEdges(v)
}

// GetInEdges returns (neighbor, edge) pairs for every edge entering v in
// the current graph.
func (c *Cage) GetInEdges(v graph.Vertex) []graph.NeighborEdge {
	if c.g == nil {
		return nil
	}
	return c.g.InEdges(v)
}

// Send delivers buf to e.To over e, addressed through the Name Service.
// Edge already carries both endpoints, so the vertex/edge and
// implied-vertex forms spec §4.7 describes collapse to this one call.
func (c *Cage) Send(e graph.Edge, buf policy.Buffer) error {
	dst, ok := c.g.VertexByID(e.To)
	if !ok {
		return graybaterr.DirectoryMissf("send: edge %d targets unknown vertex %d", e.ID, e.To)
	}
	return c.gc.Send(c.g, dst, e, buf)
}

// Recv blocks for a message along e into buf, sourced from e.From.
func (c *Cage) Recv(e graph.Edge, buf policy.Buffer) error {
	src, ok := c.g.VertexByID(e.From)
	if !ok {
		return graybaterr.DirectoryMissf("recv: edge %d sourced from unknown vertex %d", e.ID, e.From)
	}
	return c.gc.Recv(c.g, src, e, buf)
}

// AsyncSend is the non-blocking counterpart of Send.
func (c *Cage) AsyncSend(e graph.Edge, buf policy.Buffer) (*Event, error) {
	dst, ok := c.g.VertexByID(e.To)
	if !ok {
		return nil, graybaterr.DirectoryMissf("asyncSend: edge %d targets unknown vertex %d", e.ID, e.To)
	}
	return c.gc.AsyncSend(c.g, dst, e, buf)
}

// AsyncRecv is the non-blocking counterpart of Recv.
func (c *Cage) AsyncRecv(e graph.Edge, buf policy.Buffer) (*Event, error) {
	src, ok := c.g.VertexByID(e.From)
	if !ok {
		return nil, graybaterr.DirectoryMissf("asyncRecv: edge %d sourced from unknown vertex %d", e.ID, e.From)
	}
	return c.gc.AsyncRecv(c.g, src, e, buf)
}

// collectOverHosted runs fn once per hosted vertex, in HostedVertices
// order, passing each call the vertex's index among hosted vertices so a
// caller can pair it with its own entry in a per-vertex buffer slice, and
// aggregating any failures into a single non-nil error: spec §4.6
// requires a peer hosting several vertices to invoke a graph-scoped
// collective once per vertex, and §7 requires collective failures to be
// treated as non-local, so every hosted vertex's outcome is reported even
// after the first failure.
func (c *Cage) collectOverHosted(fn func(i int, v graph.Vertex) error) error {
	var result *multierror.Error
	for i, v := range c.hostedVertices {
		if err := fn(i, v); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// requirePerVertexBuffers checks that every buffer slice in bufs has one
// entry per hosted vertex. src/main.cc's reduceVertexIDs builds a fresh
// sendData per vertex in myVertices before calling communicator.reduce;
// a Cage hosting more than one vertex of a graph needs that same
// one-buffer-per-vertex shape; a single buffer shared across every hosted
// vertex would silently feed the same value into every call instead of
// each vertex's own.
func (c *Cage) requirePerVertexBuffers(op string, bufs ...[]policy.Buffer) error {
	want := len(c.hostedVertices)
	for _, b := range bufs {
		if len(b) != want {
			return graybaterr.ConfigInvalidf("%s: need one buffer per hosted vertex (%d), got %d", op, want, len(b))
		}
	}
	return nil
}

// Reduce folds each hosted vertex's own send[i] buffer (and every other
// peer's) with op, leaving results in recv[i] at the peer hosting
// rootVertex. send and recv must each carry one buffer per hosted vertex,
// in HostedVertices order.
func (c *Cage) Reduce(rootVertex graph.Vertex, op policy.Op, send, recv []policy.Buffer) error {
	if err := c.requirePerVertexBuffers("reduce", send, recv); err != nil {
		return err
	}
	return c.collectOverHosted(func(i int, v graph.Vertex) error {
		return c.gc.Reduce(c.g, rootVertex, op, send[i], recv[i])
	})
}

// AllReduce is Reduce where every hosted vertex receives the result.
func (c *Cage) AllReduce(op policy.Op, send, recv []policy.Buffer) error {
	if err := c.requirePerVertexBuffers("allReduce", send, recv); err != nil {
		return err
	}
	return c.collectOverHosted(func(i int, v graph.Vertex) error {
		return c.gc.AllReduce(c.g, op, send[i], recv[i])
	})
}

// Broadcast distributes rootVertex's buf to every hosted vertex; buf must
// carry one entry per hosted vertex, in HostedVertices order.
func (c *Cage) Broadcast(rootVertex graph.Vertex, buf []policy.Buffer) error {
	if err := c.requirePerVertexBuffers("broadcast", buf); err != nil {
		return err
	}
	return c.collectOverHosted(func(i int, v graph.Vertex) error {
		return c.gc.Broadcast(c.g, rootVertex, buf[i])
	})
}

// Gather collects each hosted vertex's own send[i] buffer into
// rootVertex's peer's recv[i] buffer.
func (c *Cage) Gather(rootVertex graph.Vertex, send, recv []policy.Buffer) error {
	if err := c.requirePerVertexBuffers("gather", send, recv); err != nil {
		return err
	}
	return c.collectOverHosted(func(i int, v graph.Vertex) error {
		return c.gc.Gather(c.g, rootVertex, send[i], recv[i])
	})
}

// AllGather is Gather where every hosted vertex receives the combined
// result.
func (c *Cage) AllGather(send, recv []policy.Buffer) error {
	if err := c.requirePerVertexBuffers("allGather", send, recv); err != nil {
		return err
	}
	return c.collectOverHosted(func(i int, v graph.Vertex) error {
		return c.gc.AllGather(c.g, send[i], recv[i])
	})
}

// Scatter splits rootVertex's peer's send[i] buffer across every host
// peer's recv[i] buffer.
func (c *Cage) Scatter(rootVertex graph.Vertex, send, recv []policy.Buffer) error {
	if err := c.requirePerVertexBuffers("scatter", send, recv); err != nil {
		return err
	}
	return c.collectOverHosted(func(i int, v graph.Vertex) error {
		return c.gc.Scatter(c.g, rootVertex, send[i], recv[i])
	})
}

// Synchronize is a barrier among the current graph's host peers.
func (c *Cage) Synchronize() error {
	return c.collectOverHosted(func(i int, v graph.Vertex) error {
		return c.gc.Synchronize(c.g)
	})
}
