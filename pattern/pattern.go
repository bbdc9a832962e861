// Package pattern provides pure graph-description factories (spec §4.4).
// Each Pattern is a function producing a graph.Description: a flat vertex
// ID list and a (src, dst) edge list. No communication, no randomness.
//
// Star is ported directly from _examples/original_source's
// include/pattern/Star.hpp; the rest (BiStar, Grid, Hypercube,
// FullyConnected, Chain, Ring) are named in spec §4.4 and follow the same
// pure-factory shape.
package pattern

import "github.com/graybat-go/graybat/graph"

// Pattern is a pure factory producing a graph description.
type Pattern func() graph.Description

// Star returns a pattern with one hub (vertex 0) and n-1 spokes, with a
// single directed edge from each spoke to the hub.
func Star(n int) Pattern {
	return func() graph.Description {
		vertices := make([]graph.VertexID, n)
		var edges []graph.EdgeDescription
		for i := 0; i < n; i++ {
			vertices[i] = graph.VertexID(i)
			if i != 0 {
				edges = append(edges, graph.EdgeDescription{From: graph.VertexID(i), To: 0})
			}
		}
		return graph.Description{Vertices: vertices, Edges: edges}
	}
}

// BiStar returns a pattern with one hub and n-1 spokes, with edges in
// both directions between the hub and every spoke (hub->spoke and
// spoke->hub), so request/reply traffic can flow over an edge and its
// inverse.
func BiStar(n int) Pattern {
	return func() graph.Description {
		vertices := make([]graph.VertexID, n)
		var edges []graph.EdgeDescription
		for i := 0; i < n; i++ {
			vertices[i] = graph.VertexID(i)
			if i != 0 {
				edges = append(edges,
					graph.EdgeDescription{From: graph.VertexID(i), To: 0},
					graph.EdgeDescription{From: 0, To: graph.VertexID(i)},
				)
			}
		}
		return graph.Description{Vertices: vertices, Edges: edges}
	}
}

// Chain returns a pattern connecting n vertices in a line: 0->1->2->...->n-1.
func Chain(n int) Pattern {
	return func() graph.Description {
		vertices := make([]graph.VertexID, n)
		var edges []graph.EdgeDescription
		for i := 0; i < n; i++ {
			vertices[i] = graph.VertexID(i)
			if i+1 < n {
				edges = append(edges, graph.EdgeDescription{From: graph.VertexID(i), To: graph.VertexID(i + 1)})
			}
		}
		return graph.Description{Vertices: vertices, Edges: edges}
	}
}

// Ring returns a pattern connecting n vertices in a cycle: 0->1->...->n-1->0.
func Ring(n int) Pattern {
	return func() graph.Description {
		vertices := make([]graph.VertexID, n)
		var edges []graph.EdgeDescription
		for i := 0; i < n; i++ {
			vertices[i] = graph.VertexID(i)
			edges = append(edges, graph.EdgeDescription{From: graph.VertexID(i), To: graph.VertexID((i + 1) % n)})
		}
		return graph.Description{Vertices: vertices, Edges: edges}
	}
}

// FullyConnected returns a pattern with a directed edge between every
// ordered pair of distinct vertices.
func FullyConnected(n int) Pattern {
	return func() graph.Description {
		vertices := make([]graph.VertexID, n)
		var edges []graph.EdgeDescription
		for i := 0; i < n; i++ {
			vertices[i] = graph.VertexID(i)
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i != j {
					edges = append(edges, graph.EdgeDescription{From: graph.VertexID(i), To: graph.VertexID(j)})
				}
			}
		}
		return graph.Description{Vertices: vertices, Edges: edges}
	}
}

// Grid returns a pattern over a rows x cols lattice with 8-neighborhood
// (diagonal) adjacency; vertex IDs are row-major (r*cols+c). Edges wrap at
// no boundary: cells on an edge of the lattice simply have fewer
// neighbors.
func Grid(rows, cols int) Pattern {
	return func() graph.Description {
		n := rows * cols
		vertices := make([]graph.VertexID, n)
		for i := 0; i < n; i++ {
			vertices[i] = graph.VertexID(i)
		}
		id := func(r, c int) graph.VertexID { return graph.VertexID(r*cols + c) }
		var edges []graph.EdgeDescription
		deltas := [8][2]int{
			{-1, -1}, {-1, 0}, {-1, 1},
			{0, -1}, {0, 1},
			{1, -1}, {1, 0}, {1, 1},
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				for _, d := range deltas {
					nr, nc := r+d[0], c+d[1]
					if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
						continue
					}
					edges = append(edges, graph.EdgeDescription{From: id(r, c), To: id(nr, nc)})
				}
			}
		}
		return graph.Description{Vertices: vertices, Edges: edges}
	}
}

// Hypercube returns a pattern over 2^dimensions vertices with an edge
// between every pair whose IDs differ by Hamming distance 1.
func Hypercube(dimensions int) Pattern {
	return func() graph.Description {
		n := 1 << uint(dimensions)
		vertices := make([]graph.VertexID, n)
		for i := 0; i < n; i++ {
			vertices[i] = graph.VertexID(i)
		}
		var edges []graph.EdgeDescription
		for i := 0; i < n; i++ {
			for bit := 0; bit < dimensions; bit++ {
				j := i ^ (1 << uint(bit))
				if j > i {
					edges = append(edges,
						graph.EdgeDescription{From: graph.VertexID(i), To: graph.VertexID(j)},
						graph.EdgeDescription{From: graph.VertexID(j), To: graph.VertexID(i)},
					)
				}
			}
		}
		return graph.Description{Vertices: vertices, Edges: edges}
	}
}
