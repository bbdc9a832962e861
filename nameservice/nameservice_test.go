package nameservice_test

import (
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/graybat-go/graybat/graph"
	"github.com/graybat-go/graybat/graybaterr"
	"github.com/graybat-go/graybat/nameservice"
	"github.com/graybat-go/graybat/nameservice/mocks"
	"github.com/graybat-go/graybat/pattern"
	"github.com/graybat-go/graybat/policy"
	"github.com/graybat-go/graybat/policy/inproc"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(NameServiceSuite))

type NameServiceSuite struct{}

// runOnCluster announces the whole of g across a size-peer inproc
// cluster, one vertex per peer, and returns each peer's NameService for
// inspection. Mirrors scenario 1's "every peer hosts one vertex" shape.
func runOnCluster(c *gc.C, size int) ([]*nameservice.NameService, *graph.Graph) {
	cl := inproc.New(size)
	desc := pattern.Star(size)()
	g := graph.New(0, desc)

	svcs := make([]*nameservice.NameService, size)
	var wg sync.WaitGroup
	wg.Add(size)
	for i := 0; i < size; i++ {
		i := i
		go func() {
			defer wg.Done()
			comm := cl.Peer(i)
			ns := nameservice.New(comm)
			svcs[i] = ns
			v := g.Vertices()[i]
			if err := ns.Announce(g, []graph.Vertex{v}); err != nil {
				c.Error(err)
			}
		}()
	}
	wg.Wait()
	return svcs, g
}

func (s *NameServiceSuite) TestAnnounceLocatesEveryVertex(c *gc.C) {
	size := 3
	svcs, g := runOnCluster(c, size)

	for _, ns := range svcs {
		for i, v := range g.Vertices() {
			addr, err := ns.LocateVertex(g, v)
			c.Assert(err, gc.IsNil)
			c.Assert(addr, gc.Equals, policy.VAddr(i))
		}
	}
}

func (s *NameServiceSuite) TestGetHostedVerticesRoundTrips(c *gc.C) {
	svcs, g := runOnCluster(c, 3)
	hosted := svcs[0].GetHostedVertices(g, policy.VAddr(1))
	c.Assert(hosted, gc.HasLen, 1)
	c.Assert(hosted[0].ID, gc.Equals, g.Vertices()[1].ID)
}

func (s *NameServiceSuite) TestGetGraphHostCommIDs(c *gc.C) {
	svcs, g := runOnCluster(c, 3)
	ids := svcs[0].GetGraphHostCommIDs(g)
	c.Assert(ids, gc.DeepEquals, []policy.VAddr{0, 1, 2})
}

// TestSubGraphAnnounceContainment is scenario 4 (sub-graph announce) and
// checks P3 (sub-context containment): a 2x4 grid is announced in full,
// then a sub-graph on vertices {0,1,2,3} is announced over the full
// graph's resulting host context. The sub-graph's host context must be no
// larger than the full graph's, and every VAddr hosting the sub-graph
// must also host the full graph.
func (s *NameServiceSuite) TestSubGraphAnnounceContainment(c *gc.C) {
	size := 8
	cl := inproc.New(size)
	full := graph.New(0, pattern.Grid(2, 4)())
	sub := full.SubGraph(1, []graph.VertexID{0, 1, 2, 3})

	svcs := make([]*nameservice.NameService, size)
	var wg sync.WaitGroup
	wg.Add(size)
	for i := 0; i < size; i++ {
		i := i
		go func() {
			defer wg.Done()
			svcs[i] = nameservice.New(cl.Peer(i))
			c.Check(svcs[i].Announce(full, []graph.Vertex{full.Vertices()[i]}), gc.IsNil)

			var shard []graph.Vertex
			if i < 4 {
				shard = []graph.Vertex{sub.Vertices()[i]}
			}
			c.Check(svcs[i].Announce(sub, shard), gc.IsNil)
		}()
	}
	wg.Wait()

	fullIDs := svcs[0].GetGraphHostCommIDs(full)
	subIDs := svcs[0].GetGraphHostCommIDs(sub)
	c.Assert(fullIDs, gc.HasLen, size)
	c.Assert(len(subIDs) <= len(fullIDs), gc.Equals, true)

	fullSet := make(map[policy.VAddr]bool, len(fullIDs))
	for _, id := range fullIDs {
		fullSet[id] = true
	}
	for _, id := range subIDs {
		c.Assert(fullSet[id], gc.Equals, true)
	}

	fullCtx := svcs[0].GetGraphContext(full)
	subCtx := svcs[0].GetGraphContext(sub)
	c.Assert(subCtx.Size() <= fullCtx.Size(), gc.Equals, true)
}

func (s *NameServiceSuite) TestLocateVertexDirectoryMiss(c *gc.C) {
	cl := inproc.New(1)
	ns := nameservice.New(cl.Peer(0))
	g := graph.New(0, pattern.Star(2)())

	_, err := ns.LocateVertex(g, g.Vertices()[0])
	c.Assert(err, gc.NotNil)
	var gerr *graybaterr.Error
	c.Assert(errorsAs(err, &gerr), gc.Equals, true)
	c.Assert(gerr.Kind, gc.Equals, graybaterr.DirectoryMiss)
}

// TestReannounceShrinksHostSet exercises scenario 5: a graph's host set
// narrows on a second announce, and peers dropping out must not keep a
// stale commID.
func (s *NameServiceSuite) TestReannounceShrinksHostSet(c *gc.C) {
	size := 3
	cl := inproc.New(size)
	g := graph.New(0, pattern.Star(size)())

	svcs := make([]*nameservice.NameService, size)
	var wg sync.WaitGroup
	wg.Add(size)
	for i := 0; i < size; i++ {
		i := i
		go func() {
			defer wg.Done()
			svcs[i] = nameservice.New(cl.Peer(i))
			c.Check(svcs[i].Announce(g, []graph.Vertex{g.Vertices()[i]}), gc.IsNil)
		}()
	}
	wg.Wait()

	// Peer 1 drops its vertex; peers 0 and 2 keep theirs.
	wg.Add(size)
	for i := 0; i < size; i++ {
		i := i
		go func() {
			defer wg.Done()
			var shard []graph.Vertex
			if i != 1 {
				shard = []graph.Vertex{g.Vertices()[i]}
			}
			c.Check(svcs[i].Reannounce(g, shard), gc.IsNil)
		}()
	}
	wg.Wait()

	ids := svcs[0].GetGraphHostCommIDs(g)
	c.Assert(len(ids), gc.Equals, 2)

	_, err := svcs[0].LocateVertex(g, g.Vertices()[1])
	c.Assert(err, gc.NotNil)

	addr, err := svcs[0].LocateVertex(g, g.Vertices()[2])
	c.Assert(err, gc.IsNil)
	c.Assert(addr, gc.Not(gc.Equals), policy.VAddr(1))
}

// TestAnnounceCallSequence asserts, against a mocked single-peer
// CommunicationPolicy, that Announce issues exactly the calls the
// slot-rotation protocol requires: one AllReduce for the round count,
// then one AllGather per round, then one SplitContext.
func (s *NameServiceSuite) TestAnnounceCallSequence(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()
	comm := mocks.NewMockCommunicationPolicy(ctrl)

	g := graph.New(0, pattern.Star(2)())
	vertices := g.Vertices() // two vertices, local IDs 0 and 1
	global := policy.NewContext(0, 1, 0)

	gomock.InOrder(
		comm.EXPECT().GetGlobalContext().Return(global),
		comm.EXPECT().AllReduce(global, policy.Max, gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ policy.Context, _ policy.Op, _, recv policy.Buffer) error {
				recv.(*policy.TypedBuffer).SetInt32At(0, int32(len(vertices)))
				return nil
			}),
		comm.EXPECT().AllGather(global, gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ policy.Context, send, recv policy.Buffer) error {
				recv.(*policy.TypedBuffer).SetInt32At(0, send.(*policy.TypedBuffer).Int32At(0))
				return nil
			}),
		comm.EXPECT().AllGather(global, gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ policy.Context, send, recv policy.Buffer) error {
				recv.(*policy.TypedBuffer).SetInt32At(0, send.(*policy.TypedBuffer).Int32At(0))
				return nil
			}),
		comm.EXPECT().SplitContext(true, global).Return(policy.NewContext(1, 1, 0), nil),
	)

	ns := nameservice.New(comm)
	err := ns.Announce(g, vertices)
	c.Assert(err, gc.IsNil)

	addr, err := ns.LocateVertex(g, vertices[0])
	c.Assert(err, gc.IsNil)
	c.Assert(addr, gc.Equals, policy.VAddr(0))
}

func errorsAs(err error, target **graybaterr.Error) bool {
	ge, ok := err.(*graybaterr.Error)
	if !ok {
		return false
	}
	*target = ge
	return true
}
