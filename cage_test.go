package graybat_test

import (
	"sync"
	"testing"

	gc "gopkg.in/check.v1"

	graybat "github.com/graybat-go/graybat"
	"github.com/graybat-go/graybat/mapping"
	"github.com/graybat-go/graybat/pattern"
	"github.com/graybat-go/graybat/policy"
	"github.com/graybat-go/graybat/policy/inproc"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(CageSuite))

// CageSuite runs Cage end to end over policy/inproc, one goroutine per
// simulated peer, the way the teacher's own node_test.go and
// gyre_test.go stand up several actors in one process.
type CageSuite struct{}

func distributeAll(c *gc.C, cl *inproc.Cluster, n int, pat pattern.Pattern) []*graybat.Cage {
	cages := make([]*graybat.Cage, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			cages[i] = graybat.New(cl.Peer(i))
			cages[i].SetGraph(pat)
			c.Check(cages[i].Distribute(mapping.Consecutive), gc.IsNil)
		}()
	}
	wg.Wait()
	return cages
}

// TestBiStarRequestReply is scenario 1: a hub vertex fans a request out to
// every spoke over the hub->spoke edge, and each spoke replies over the
// same edge's inverse.
func (s *CageSuite) TestBiStarRequestReply(c *gc.C) {
	n := 4
	cl := inproc.New(n)
	cages := distributeAll(c, cl, n, pattern.BiStar(n))

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			cage := cages[i]
			if i == 0 {
				hub, ok := cage.GetVertex(0)
				c.Assert(ok, gc.Equals, true)
				for _, ne := range cage.GetOutEdges(hub) {
					c.Check(cage.Send(ne.Edge, policy.NewInt32Buffer([]int32{42})), gc.IsNil)
					recv := policy.NewBuffer(1, policy.Int32)
					c.Check(cage.Recv(ne.Edge.Inverse(), recv), gc.IsNil)
					c.Check(recv.Int32At(0), gc.Equals, int32(43))
				}
				return
			}
			spoke, ok := cage.GetVertex(i)
			c.Assert(ok, gc.Equals, true)
			for _, ne := range cage.GetInEdges(spoke) {
				recv := policy.NewBuffer(1, policy.Int32)
				c.Check(cage.Recv(ne.Edge, recv), gc.IsNil)
				reply := policy.NewInt32Buffer([]int32{recv.Int32At(0) + 1})
				c.Check(cage.Send(ne.Edge.Inverse(), reply), gc.IsNil)
			}
		}()
	}
	wg.Wait()
}

// TestRingAllReduceSum is scenario 2 with exactly one vertex per peer:
// every peer folds its own vertex ID with Sum, and every peer must see
// the same total.
func (s *CageSuite) TestRingAllReduceSum(c *gc.C) {
	n := 5
	cl := inproc.New(n)
	cages := distributeAll(c, cl, n, pattern.Ring(n))

	results := make([]int32, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			send := []policy.Buffer{policy.NewInt32Buffer([]int32{int32(i)})}
			recv := []policy.Buffer{policy.NewBuffer(1, policy.Int32)}
			c.Check(cages[i].AllReduce(policy.Sum, send, recv), gc.IsNil)
			results[i] = recv[0].(*policy.TypedBuffer).Int32At(0)
		}()
	}
	wg.Wait()

	want := int32(n * (n - 1) / 2)
	for _, r := range results {
		c.Assert(r, gc.Equals, want)
	}
}

// TestRingAllReduceSumMultiVertexPerPeer is scenario 2 exactly as
// parameterized in spec §8: Ring(8) mapped onto 4 peers with Consecutive,
// so each peer hosts 2 vertices. Cage.AllReduce must fold each hosted
// vertex's own ID, not repeat a single shared value across the peer's
// hosted vertices. Every hosted vertex is reduced in its own round (one
// round per HostedVertices index, across all peers), so P5
// (allReduce(+, [v.id for v in V]) = Sigma v.id) holds over the sum of a
// peer's per-vertex results, not any single round alone.
func (s *CageSuite) TestRingAllReduceSumMultiVertexPerPeer(c *gc.C) {
	peerCount := 4
	vertexCount := 8
	cl := inproc.New(peerCount)
	cages := distributeAll(c, cl, peerCount, pattern.Ring(vertexCount))

	totals := make([]int32, peerCount)
	var wg sync.WaitGroup
	wg.Add(peerCount)
	for i := 0; i < peerCount; i++ {
		i := i
		go func() {
			defer wg.Done()
			hosted := cages[i].HostedVertices()
			c.Assert(hosted, gc.HasLen, 2)

			recvBufs := make([]*policy.TypedBuffer, len(hosted))
			send := make([]policy.Buffer, len(hosted))
			recv := make([]policy.Buffer, len(hosted))
			for k, v := range hosted {
				send[k] = policy.NewInt32Buffer([]int32{int32(v.ID)})
				recvBufs[k] = policy.NewBuffer(1, policy.Int32)
				recv[k] = recvBufs[k]
			}

			c.Check(cages[i].AllReduce(policy.Sum, send, recv), gc.IsNil)

			var total int32
			for _, b := range recvBufs {
				total += b.Int32At(0)
			}
			totals[i] = total
		}()
	}
	wg.Wait()

	want := int32(vertexCount * (vertexCount - 1) / 2)
	for _, total := range totals {
		c.Assert(total, gc.Equals, want)
	}
}

// TestSynchronizeIsABarrier checks every hosted vertex's Synchronize call
// completes only once every peer has entered it.
func (s *CageSuite) TestSynchronizeIsABarrier(c *gc.C) {
	n := 3
	cl := inproc.New(n)
	cages := distributeAll(c, cl, n, pattern.Chain(n))

	var mu sync.Mutex
	entered := 0
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			mu.Lock()
			entered++
			mu.Unlock()
			c.Check(cages[i].Synchronize(), gc.IsNil)
			mu.Lock()
			c.Check(entered, gc.Equals, n)
			mu.Unlock()
		}()
	}
	wg.Wait()
}
