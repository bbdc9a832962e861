package graphcomm_test

import (
	"sync"
	"testing"

	gc "gopkg.in/check.v1"

	"github.com/graybat-go/graybat/graph"
	"github.com/graybat-go/graybat/graphcomm"
	"github.com/graybat-go/graybat/nameservice"
	"github.com/graybat-go/graybat/pattern"
	"github.com/graybat-go/graybat/policy"
	"github.com/graybat-go/graybat/policy/inproc"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(GraphCommSuite))

type GraphCommSuite struct{}

// TestGridDiagonalExchange is scenario 3: every cell of a 4x4 grid sends
// its own ID along every out-edge, and the sum of values arriving along a
// cell's in-edges must equal the sum of its in-neighbors' IDs.
// pattern.Grid builds a symmetric adjacency (a->b implies b->a), so this
// also exercises that every Send lands on the matching Recv rather than
// some other neighbor's.
func (s *GraphCommSuite) TestGridDiagonalExchange(c *gc.C) {
	rows, cols := 4, 4
	n := rows * cols
	cl := inproc.New(n)
	g := graph.New(0, pattern.Grid(rows, cols)())

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			defer wg.Done()
			comm := cl.Peer(i)
			ns := nameservice.New(comm)
			v := g.Vertices()[i]
			c.Check(ns.Announce(g, []graph.Vertex{v}), gc.IsNil)

			gcomm := graphcomm.New(comm, ns)

			var wantSum int32
			for _, ne := range g.InEdges(v) {
				wantSum += int32(ne.Neighbor.ID)
			}

			var inner sync.WaitGroup
			inner.Add(2)
			var sendErr, recvErr error
			var gotSum int32

			go func() {
				defer inner.Done()
				for _, ne := range g.OutEdges(v) {
					buf := policy.NewInt32Buffer([]int32{int32(v.ID)})
					if err := gcomm.Send(g, ne.Neighbor, ne.Edge, buf); err != nil {
						sendErr = err
						return
					}
				}
			}()
			go func() {
				defer inner.Done()
				for _, ne := range g.InEdges(v) {
					recv := policy.NewBuffer(1, policy.Int32)
					if err := gcomm.Recv(g, ne.Neighbor, ne.Edge, recv); err != nil {
						recvErr = err
						return
					}
					gotSum += recv.Int32At(0)
				}
			}()
			inner.Wait()

			c.Check(sendErr, gc.IsNil)
			c.Check(recvErr, gc.IsNil)
			c.Check(gotSum, gc.Equals, wantSum)
		}()
	}
	wg.Wait()
}
