// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import (
	"cmp"
	"fmt"
)

// An Element is a member of a [Locus]: a network node, a network edge, or the
// placeholder [Unit] used by singleton loci. The variant set is closed.
type Element interface {
	fmt.Stringer
	element()
}

// A Node identifies a network node. The value is opaque to the kernel; it
// only needs to be comparable so that loci can store and draw nodes.
type Node int

func (Node) element() {}

func (n Node) String() string {
	return fmt.Sprintf("n%d", int(n))
}

// Cmp orders nodes by identifier.
func (n Node) Cmp(o Node) int {
	return cmp.Compare(n, o)
}

// An Edge is an unordered pair of nodes. Construct edges with [NewEdge] so
// that the same edge compares equal regardless of the direction in which it
// was discovered.
type Edge struct {
	U, V Node
}

// NewEdge returns the canonical form of the edge between u and v, with the
// smaller endpoint first.
func NewEdge(u, v Node) Edge {
	if v < u {
		u, v = v, u
	}
	return Edge{U: u, V: v}
}

func (Edge) element() {}

func (e Edge) String() string {
	return fmt.Sprintf("(%v,%v)", e.U, e.V)
}

// Cmp orders edges lexicographically by endpoints.
func (e Edge) Cmp(o Edge) int {
	if c := e.U.Cmp(o.U); c != 0 {
		return c
	}
	return e.V.Cmp(o.V)
}

// Other returns the endpoint of e that is not n. It panics if n is not an
// endpoint of e.
func (e Edge) Other(n Node) Node {
	switch n {
	case e.U:
		return e.V
	case e.V:
		return e.U
	}
	panic(fmt.Sprintf("node %v is not an endpoint of edge %v", n, e))
}

type unit struct{}

func (unit) element() {}

func (unit) String() string {
	return "·"
}

// Unit is the placeholder element held by singleton loci. Events drawn from a
// singleton locus receive Unit as their target.
var Unit Element = unit{}
