// Package mapping provides pure, deterministic vertex-to-peer sharders
// (spec §4.4). Ported from _examples/original_source's mapping.hpp,
// including its ceil-division sizing and the "more peers than vertices"
// edge case, which must yield an empty shard rather than panic.
package mapping

import "github.com/graybat-go/graybat/graph"

// Mapping assigns a peer's shard of a graph's vertices. Implementations
// must be a partition (union = all vertices, pairwise-disjoint) and
// deterministic (same inputs, same output, on every peer).
type Mapping func(peerID, peerCount int, g graph.Policy) []graph.Vertex

// Consecutive assigns contiguous ranges of vertex IDs to peers: peer i
// gets vertices [i*perPeer, (i+1)*perPeer), clipped to the vertex count.
// Peers past the last non-empty range get an empty shard.
func Consecutive(peerID, peerCount int, g graph.Policy) []graph.Vertex {
	vertices := g.Vertices()
	vertexCount := len(vertices)
	if vertexCount == 0 || peerCount <= 0 {
		return nil
	}
	perPeer := ceilDiv(vertexCount, peerCount)

	if peerID > vertexCount-1 {
		return nil
	}

	min := peerID * perPeer
	max := min + perPeer
	if min > vertexCount {
		return nil
	}
	if max > vertexCount {
		max = vertexCount
	}
	if min > max {
		return nil
	}

	out := make([]graph.Vertex, max-min)
	copy(out, vertices[min:max])
	return out
}

// Roundrobin assigns vertices with stride = peerCount: peer i gets
// vertices i, i+peerCount, i+2*peerCount, ...
func Roundrobin(peerID, peerCount int, g graph.Policy) []graph.Vertex {
	vertices := g.Vertices()
	vertexCount := len(vertices)
	if vertexCount == 0 || peerCount <= 0 || peerID >= peerCount {
		return nil
	}
	maxSlots := ceilDiv(vertexCount, peerCount)

	var out []graph.Vertex
	for i := 0; i < maxSlots; i++ {
		idx := peerID + i*peerCount
		if idx >= vertexCount {
			break
		}
		out = append(out, vertices[idx])
	}
	return out
}

func ceilDiv(a, b int) int {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
