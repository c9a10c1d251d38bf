// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// A Generator yields a fresh working graph for each run. [Dynamics.SetUp]
// calls it exactly once per run; the dynamics then owns the returned graph
// and mutates it freely, so generators must never hand out a graph they
// intend to reuse.
type Generator interface {
	Generate(p *Params, r *rand.Rand) (*Graph, error)
}

// FixedNetwork generates copies of a prototype graph, for running repeated
// simulations over the same topology.
type FixedNetwork struct {
	prototype *Graph
}

// NewFixedNetwork creates a generator that copies the given prototype for
// every run. The prototype itself is never mutated.
func NewFixedNetwork(g *Graph) *FixedNetwork {
	return &FixedNetwork{prototype: g}
}

func (f *FixedNetwork) Generate(p *Params, r *rand.Rand) (*Graph, error) {
	g := NewGraph()
	for _, n := range f.prototype.nodes {
		g.AddNode(n)
	}
	for _, e := range f.prototype.edges {
		g.AddEdge(e.U, e.V)
	}
	return g, nil
}

// ERNetwork generates Erdős–Rényi G(n, p) random graphs: each of the n
// choose 2 possible edges is present independently with probability pEdge.
// The parameters are "N" (node count) and either "phi" (edge probability) or
// "kmean" (mean degree, from which phi is derived).
type ERNetwork struct{}

func (ERNetwork) Generate(p *Params, r *rand.Rand) (*Graph, error) {
	n, err := p.Int("", "N")
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: N must be positive, got %d", ErrConfiguration, n)
	}
	phi, err := p.Float("", "phi")
	if err != nil {
		kmean, kerr := p.Float("", "kmean")
		if kerr != nil {
			return nil, err
		}
		phi = kmean / float64(n-1)
	}
	if phi < 0 || phi > 1 {
		return nil, fmt.Errorf("%w: phi must lie in [0,1], got %v", ErrConfiguration, phi)
	}
	g := NewGraph()
	for i := range n {
		g.AddNode(Node(i))
	}
	for i := range n {
		for j := i + 1; j < n; j++ {
			if r.Float64() < phi {
				g.AddEdge(Node(i), Node(j))
			}
		}
	}
	return g, nil
}

// BANetwork generates Barabási–Albert preferential-attachment graphs: nodes
// arrive one at a time and attach "M" edges to existing nodes chosen with
// probability proportional to their current degree. The parameters are "N"
// (final node count) and "M" (edges per arriving node).
type BANetwork struct{}

func (BANetwork) Generate(p *Params, r *rand.Rand) (*Graph, error) {
	n, err := p.Int("", "N")
	if err != nil {
		return nil, err
	}
	m, err := p.Int("", "M")
	if err != nil {
		return nil, err
	}
	if m < 1 || n <= m {
		return nil, fmt.Errorf("%w: need N > M >= 1, got N=%d M=%d", ErrConfiguration, n, m)
	}
	g := NewGraph()
	// Seed clique of M+1 nodes, then preferential attachment by sampling the
	// edge-endpoint multiset, in which each node appears once per unit of
	// degree.
	var endpoints []Node
	for i := 0; i <= m; i++ {
		for j := i + 1; j <= m; j++ {
			g.AddEdge(Node(i), Node(j))
			endpoints = append(endpoints, Node(i), Node(j))
		}
	}
	for i := m + 1; i < n; i++ {
		v := Node(i)
		g.AddNode(v)
		// Targets are kept in draw order so the edge list, and with it every
		// later preferential draw, depends only on the seeded source.
		chosen := make([]Node, 0, m)
		for len(chosen) < m {
			u := endpoints[r.IntN(len(endpoints))]
			if u == v || slices.Contains(chosen, u) {
				continue
			}
			chosen = append(chosen, u)
		}
		for _, u := range chosen {
			g.AddEdge(u, v)
			endpoints = append(endpoints, u, v)
		}
	}
	return g, nil
}
