// Package graph implements the Graph Policy contract (spec §4.3): a
// purely local, deterministic directed multigraph with dense local
// indexing, in/out edge iteration, sub-graph creation and DOT export.
//
// Grounded on the graph-description shape used throughout
// _examples/original_source (include/pattern/*.hpp): a graph is built
// from a flat vertex-ID list and a (src, dst) edge-ID list, the same
// shape a Pattern (package pattern) produces.
package graph

import (
	"fmt"
	"io"
)

// VertexID is a vertex's ID, unique within its graph.
type VertexID int

// EdgeID is an edge's ID, unique within its graph.
type EdgeID int

// Vertex is a graph node carrying a user-defined property value.
type Vertex struct {
	ID       VertexID
	Property interface{}
}

// Edge is a directed edge carrying a user-defined property and knowing
// its endpoints.
type Edge struct {
	ID       EdgeID
	From, To VertexID
	Property interface{}
}

// Inverse returns the edge descriptor addressing the opposite direction
// along the same connection. Per spec §4.1/§4.6 the same edge ID is
// acceptable as a reply tag because (src, dst, id) is unique within the
// graph's context; callers rely on substrate source filtering rather than
// a distinct ID for the reverse leg.
func (e Edge) Inverse() Edge {
	return Edge{ID: e.ID, From: e.To, To: e.From, Property: e.Property}
}

// Description is the pure (vertices, edges) pair a Pattern produces.
// EdgeDescription pairs are (src, dst) VertexIDs; the edge ID assigned to
// each is its position in Edges.
type Description struct {
	Vertices []VertexID
	Edges    []EdgeDescription
}

// EdgeDescription is a (src, dst) pair as produced by a pattern, before
// edge IDs are assigned.
type EdgeDescription struct {
	From, To VertexID
}

type adjacency struct {
	out []EdgeID
	in  []EdgeID
}

// Graph is a directed multigraph built from a Description. It is purely
// local: no communication, no randomness.
type Graph struct {
	id         int
	vertices   []Vertex
	edges      []Edge
	vertexIdx  map[VertexID]int
	edgeIdx    map[EdgeID]int
	adj        map[VertexID]*adjacency
	superGraph *Graph
}

// New builds a Graph with the given ID from a Description.
func New(id int, desc Description) *Graph {
	g := &Graph{
		id:        id,
		vertexIdx: make(map[VertexID]int, len(desc.Vertices)),
		edgeIdx:   make(map[EdgeID]int, len(desc.Edges)),
		adj:       make(map[VertexID]*adjacency, len(desc.Vertices)),
	}
	for i, vid := range desc.Vertices {
		g.vertices = append(g.vertices, Vertex{ID: vid})
		g.vertexIdx[vid] = i
		g.adj[vid] = &adjacency{}
	}
	for i, ed := range desc.Edges {
		eid := EdgeID(i)
		e := Edge{ID: eid, From: ed.From, To: ed.To}
		g.edges = append(g.edges, e)
		g.edgeIdx[eid] = i
		if a, ok := g.adj[ed.From]; ok {
			a.out = append(a.out, eid)
		}
		if a, ok := g.adj[ed.To]; ok {
			a.in = append(a.in, eid)
		}
	}
	return g
}

// ID returns the graph's ID.
func (g *Graph) ID() int { return g.id }

// Vertices returns all vertices, ordered by local index.
func (g *Graph) Vertices() []Vertex { return g.vertices }

// Edges returns all edges, ordered by local index (= edge ID).
func (g *Graph) Edges() []Edge { return g.edges }

// GetLocalID returns the dense local index of a vertex, used for tagging
// and directory keys in the Name Service's slot-rotation protocol.
func (g *Graph) GetLocalID(v Vertex) (int, bool) {
	idx, ok := g.vertexIdx[v.ID]
	return idx, ok
}

// VertexByID looks up a vertex by ID.
func (g *Graph) VertexByID(id VertexID) (Vertex, bool) {
	idx, ok := g.vertexIdx[id]
	if !ok {
		return Vertex{}, false
	}
	return g.vertices[idx], true
}

// SuperGraph returns the parent graph in the sub-graph hierarchy, if any.
func (g *Graph) SuperGraph() (*Graph, bool) {
	if g.superGraph == nil {
		return nil, false
	}
	return g.superGraph, true
}

// OutEdges returns (neighbor, edge) pairs for every edge leaving v.
func (g *Graph) OutEdges(v Vertex) []NeighborEdge {
	a, ok := g.adj[v.ID]
	if !ok {
		return nil
	}
	out := make([]NeighborEdge, 0, len(a.out))
	for _, eid := range a.out {
		e := g.edges[g.edgeIdx[eid]]
		neighbor, _ := g.VertexByID(e.To)
		out = append(out, NeighborEdge{Neighbor: neighbor, Edge: e})
	}
	return out
}

// InEdges returns (neighbor, edge) pairs for every edge entering v.
func (g *Graph) InEdges(v Vertex) []NeighborEdge {
	a, ok := g.adj[v.ID]
	if !ok {
		return nil
	}
	in := make([]NeighborEdge, 0, len(a.in))
	for _, eid := range a.in {
		e := g.edges[g.edgeIdx[eid]]
		neighbor, _ := g.VertexByID(e.From)
		in = append(in, NeighborEdge{Neighbor: neighbor, Edge: e})
	}
	return in
}

// NeighborEdge pairs a neighboring vertex with the edge reaching it.
type NeighborEdge struct {
	Neighbor Vertex
	Edge     Edge
}

// SubGraph creates a sub-graph from a vertex subset, preserving vertex and
// edge IDs; only edges with both endpoints in the subset are kept.
func (g *Graph) SubGraph(id int, vertexIDs []VertexID) *Graph {
	keep := make(map[VertexID]bool, len(vertexIDs))
	for _, vid := range vertexIDs {
		keep[vid] = true
	}

	sub := &Graph{
		id:         id,
		vertexIdx:  make(map[VertexID]int),
		edgeIdx:    make(map[EdgeID]int),
		adj:        make(map[VertexID]*adjacency),
		superGraph: g,
	}
	for _, vid := range vertexIDs {
		v, ok := g.VertexByID(vid)
		if !ok {
			continue
		}
		sub.vertexIdx[v.ID] = len(sub.vertices)
		sub.vertices = append(sub.vertices, v)
		sub.adj[v.ID] = &adjacency{}
	}
	for _, e := range g.edges {
		if !keep[e.From] || !keep[e.To] {
			continue
		}
		sub.edgeIdx[e.ID] = len(sub.edges)
		sub.edges = append(sub.edges, e)
		sub.adj[e.From].out = append(sub.adj[e.From].out, e.ID)
		sub.adj[e.To].in = append(sub.adj[e.To].in, e.ID)
	}
	return sub
}

// DOT writes a Graphviz DOT representation of the graph.
func (g *Graph) DOT(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "digraph g%d {\n", g.id); err != nil {
		return err
	}
	for _, v := range g.vertices {
		if _, err := fmt.Fprintf(w, "  %d;\n", v.ID); err != nil {
			return err
		}
	}
	for _, e := range g.edges {
		if _, err := fmt.Fprintf(w, "  %d -> %d [label=%d];\n", e.From, e.To, e.ID); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}
