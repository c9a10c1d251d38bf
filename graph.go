// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import (
	"math/rand/v2"
	"slices"
)

// A Graph is the undirected simple network a simulation runs over. Each run
// gets a fresh instance from its [Generator]; the owning [Dynamics] is the
// only mutator during a run, which lets it keep loci synchronized with
// topology changes (see [Dynamics.AddEdge] and friends).
//
// Nodes and edges are held in dense slices with index maps so membership
// tests, additions, removals, and uniform random draws are all O(1).
type Graph struct {
	nodes   []Node
	nodeIdx map[Node]int
	edges   []Edge
	edgeIdx map[Edge]int
	adj     map[Node]map[Node]struct{}
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodeIdx: make(map[Node]int),
		edgeIdx: make(map[Edge]int),
		adj:     make(map[Node]map[Node]struct{}),
	}
}

// Order returns the number of nodes.
func (g *Graph) Order() int {
	return len(g.nodes)
}

// Size returns the number of edges.
func (g *Graph) Size() int {
	return len(g.edges)
}

// HasNode reports whether n is in the graph.
func (g *Graph) HasNode(n Node) bool {
	_, ok := g.nodeIdx[n]
	return ok
}

// HasEdge reports whether the edge between u and v is in the graph.
func (g *Graph) HasEdge(u, v Node) bool {
	_, ok := g.edgeIdx[NewEdge(u, v)]
	return ok
}

// AddNode adds n, reporting whether the graph changed.
func (g *Graph) AddNode(n Node) bool {
	if g.HasNode(n) {
		return false
	}
	g.nodeIdx[n] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.adj[n] = make(map[Node]struct{})
	return true
}

// RemoveNode removes n and all of its incident edges, returning the removed
// edges. It returns false if n was not in the graph.
func (g *Graph) RemoveNode(n Node) ([]Edge, bool) {
	i, ok := g.nodeIdx[n]
	if !ok {
		return nil, false
	}
	removed := g.IncidentEdges(n)
	for _, e := range removed {
		g.RemoveEdge(e)
	}
	last := len(g.nodes) - 1
	moved := g.nodes[last]
	g.nodes[i] = moved
	g.nodeIdx[moved] = i
	g.nodes = g.nodes[:last]
	delete(g.nodeIdx, n)
	delete(g.adj, n)
	return removed, true
}

// AddEdge adds the edge between u and v, adding either endpoint to the graph
// first if necessary, and reports whether the edge set changed. Self-loops
// are rejected.
func (g *Graph) AddEdge(u, v Node) (Edge, bool) {
	e := NewEdge(u, v)
	if u == v {
		return e, false
	}
	if _, ok := g.edgeIdx[e]; ok {
		return e, false
	}
	g.AddNode(u)
	g.AddNode(v)
	g.edgeIdx[e] = len(g.edges)
	g.edges = append(g.edges, e)
	g.adj[u][v] = struct{}{}
	g.adj[v][u] = struct{}{}
	return e, true
}

// RemoveEdge removes e, reporting whether the graph changed. The endpoints
// remain in the graph.
func (g *Graph) RemoveEdge(e Edge) bool {
	i, ok := g.edgeIdx[e]
	if !ok {
		return false
	}
	last := len(g.edges) - 1
	moved := g.edges[last]
	g.edges[i] = moved
	g.edgeIdx[moved] = i
	g.edges = g.edges[:last]
	delete(g.edgeIdx, e)
	delete(g.adj[e.U], e.V)
	delete(g.adj[e.V], e.U)
	return true
}

// Degree returns the number of edges incident on n.
func (g *Graph) Degree(n Node) int {
	return len(g.adj[n])
}

// Neighbors returns a snapshot of the nodes adjacent to n, in ascending
// order so callers that iterate it observe a reproducible sequence.
func (g *Graph) Neighbors(n Node) []Node {
	out := make([]Node, 0, len(g.adj[n]))
	for m := range g.adj[n] {
		out = append(out, m)
	}
	slices.Sort(out)
	return out
}

// IncidentEdges returns a snapshot of the edges incident on n, in ascending
// order so callers that iterate it observe a reproducible sequence.
func (g *Graph) IncidentEdges(n Node) []Edge {
	out := make([]Edge, 0, len(g.adj[n]))
	for m := range g.adj[n] {
		out = append(out, NewEdge(n, m))
	}
	slices.SortFunc(out, Edge.Cmp)
	return out
}

// Nodes returns a snapshot of the node set in unspecified order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns a snapshot of the edge set in unspecified order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// RandomNode returns a node chosen uniformly at random, failing with
// [ErrEmptyDraw] if the graph has no nodes.
func (g *Graph) RandomNode(r *rand.Rand) (Node, error) {
	if len(g.nodes) == 0 {
		return 0, ErrEmptyDraw
	}
	return g.nodes[r.IntN(len(g.nodes))], nil
}

// RandomEdge returns an edge chosen uniformly at random, failing with
// [ErrEmptyDraw] if the graph has no edges.
func (g *Graph) RandomEdge(r *rand.Rand) (Edge, error) {
	if len(g.edges) == 0 {
		return Edge{}, ErrEmptyDraw
	}
	return g.edges[r.IntN(len(g.edges))], nil
}
