package graph

// Policy is the Graph Policy contract (spec §4.3). *Graph implements it;
// the Name Service and Graph Communicator depend only on this interface,
// so an alternative graph library can be substituted without touching
// either.
type Policy interface {
	ID() int
	Vertices() []Vertex
	Edges() []Edge
	GetLocalID(v Vertex) (int, bool)
	VertexByID(id VertexID) (Vertex, bool)
	SuperGraph() (*Graph, bool)
	OutEdges(v Vertex) []NeighborEdge
	InEdges(v Vertex) []NeighborEdge
	SubGraph(id int, vertexIDs []VertexID) *Graph
}

var _ Policy = (*Graph)(nil)
