// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import (
	"fmt"
	"math/rand/v2"
)

// A Locus is a named, observable population of elements eligible for a class
// of event. Event declarations reference loci rather than elements, so the
// set of candidates for an event is always current without rescanning the
// network.
//
// There are exactly four kinds of locus: singleton (see
// [BaseProcess.AddSingletonLocus]), all-nodes and all-edges views of the
// working graph, and explicit sets backed by a [DrawSet]. No other kinds
// exist.
type Locus interface {
	// Name returns the name under which the locus was registered.
	Name() string

	// Len returns the current population size.
	Len() int

	// Contains reports whether e is currently in the locus.
	Contains(e Element) bool

	// Draw returns a member chosen uniformly at random, failing with
	// [ErrEmptyDraw] if the locus is empty.
	Draw(r *rand.Rand) (Element, error)

	// Elements returns a snapshot of the current population.
	Elements() []Element

	// Enter records that e has started to qualify for the locus. It is
	// invoked by state-change code such as [CompartmentedModel.SetCompartment],
	// never by the scheduler itself.
	Enter(e Element) error

	// Leave records that e has stopped qualifying for the locus.
	Leave(e Element) error
}

// singletonLocus holds exactly the placeholder element [Unit]. It backs
// process-level events whose rate must not scale with network size.
type singletonLocus struct {
	name string
}

func (l *singletonLocus) Name() string {
	return l.name
}

func (l *singletonLocus) Len() int {
	return 1
}

func (l *singletonLocus) Contains(e Element) bool {
	return e == Unit
}

func (l *singletonLocus) Draw(r *rand.Rand) (Element, error) {
	return Unit, nil
}

func (l *singletonLocus) Elements() []Element {
	return []Element{Unit}
}

func (l *singletonLocus) Enter(e Element) error {
	return fmt.Errorf("%w: %q", ErrSingletonLocus, l.name)
}

func (l *singletonLocus) Leave(e Element) error {
	return fmt.Errorf("%w: %q", ErrSingletonLocus, l.name)
}

// allNodesLocus reflects the current node set of the working graph. There is
// no separate membership bookkeeping, so Enter and Leave are no-ops.
type allNodesLocus struct {
	name string
	dyn  *Dynamics
}

func (l *allNodesLocus) Name() string {
	return l.name
}

func (l *allNodesLocus) Len() int {
	return l.dyn.Graph().Order()
}

func (l *allNodesLocus) Contains(e Element) bool {
	n, ok := e.(Node)
	return ok && l.dyn.Graph().HasNode(n)
}

func (l *allNodesLocus) Draw(r *rand.Rand) (Element, error) {
	n, err := l.dyn.Graph().RandomNode(r)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (l *allNodesLocus) Elements() []Element {
	nodes := l.dyn.Graph().Nodes()
	out := make([]Element, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

func (l *allNodesLocus) Enter(e Element) error {
	return nil
}

func (l *allNodesLocus) Leave(e Element) error {
	return nil
}

// allEdgesLocus reflects the current edge set of the working graph.
type allEdgesLocus struct {
	name string
	dyn  *Dynamics
}

func (l *allEdgesLocus) Name() string {
	return l.name
}

func (l *allEdgesLocus) Len() int {
	return l.dyn.Graph().Size()
}

func (l *allEdgesLocus) Contains(e Element) bool {
	ed, ok := e.(Edge)
	return ok && l.dyn.Graph().HasEdge(ed.U, ed.V)
}

func (l *allEdgesLocus) Draw(r *rand.Rand) (Element, error) {
	ed, err := l.dyn.Graph().RandomEdge(r)
	if err != nil {
		return nil, err
	}
	return ed, nil
}

func (l *allEdgesLocus) Elements() []Element {
	edges := l.dyn.Graph().Edges()
	out := make([]Element, len(edges))
	for i, ed := range edges {
		out[i] = ed
	}
	return out
}

func (l *allEdgesLocus) Enter(e Element) error {
	return nil
}

func (l *allEdgesLocus) Leave(e Element) error {
	return nil
}

// nodeLocus is an explicit set of nodes backed by a [DrawSet].
type nodeLocus struct {
	name string
	set  *DrawSet[Node]
}

func newNodeLocus(name string) *nodeLocus {
	return &nodeLocus{name: name, set: NewNodeSet()}
}

func (l *nodeLocus) Name() string {
	return l.name
}

func (l *nodeLocus) Len() int {
	return l.set.Len()
}

func (l *nodeLocus) Contains(e Element) bool {
	n, ok := e.(Node)
	return ok && l.set.Contains(n)
}

func (l *nodeLocus) Draw(r *rand.Rand) (Element, error) {
	n, err := l.set.Draw(r)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (l *nodeLocus) Elements() []Element {
	nodes := l.set.Elements()
	out := make([]Element, len(nodes))
	for i, n := range nodes {
		out[i] = n
	}
	return out
}

func (l *nodeLocus) Enter(e Element) error {
	n, ok := e.(Node)
	if !ok {
		return fmt.Errorf("%w: locus %q holds nodes, got %v", ErrElementKind, l.name, e)
	}
	l.set.Add(n)
	return nil
}

func (l *nodeLocus) Leave(e Element) error {
	n, ok := e.(Node)
	if !ok {
		return fmt.Errorf("%w: locus %q holds nodes, got %v", ErrElementKind, l.name, e)
	}
	l.set.Discard(n)
	return nil
}

// edgeLocus is an explicit set of edges backed by a [DrawSet].
type edgeLocus struct {
	name string
	set  *DrawSet[Edge]
}

func newEdgeLocus(name string) *edgeLocus {
	return &edgeLocus{name: name, set: NewEdgeSet()}
}

func (l *edgeLocus) Name() string {
	return l.name
}

func (l *edgeLocus) Len() int {
	return l.set.Len()
}

func (l *edgeLocus) Contains(e Element) bool {
	ed, ok := e.(Edge)
	return ok && l.set.Contains(ed)
}

func (l *edgeLocus) Draw(r *rand.Rand) (Element, error) {
	ed, err := l.set.Draw(r)
	if err != nil {
		return nil, err
	}
	return ed, nil
}

func (l *edgeLocus) Elements() []Element {
	edges := l.set.Elements()
	out := make([]Element, len(edges))
	for i, ed := range edges {
		out[i] = ed
	}
	return out
}

func (l *edgeLocus) Enter(e Element) error {
	ed, ok := e.(Edge)
	if !ok {
		return fmt.Errorf("%w: locus %q holds edges, got %v", ErrElementKind, l.name, e)
	}
	l.set.Add(ed)
	return nil
}

func (l *edgeLocus) Leave(e Element) error {
	ed, ok := e.(Edge)
	if !ok {
		return fmt.Errorf("%w: locus %q holds edges, got %v", ErrElementKind, l.name, e)
	}
	l.set.Discard(ed)
	return nil
}
