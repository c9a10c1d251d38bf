// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import (
	"fmt"
	"math"
)

// CompartmentedModel is a [Process] whose element state is a discrete
// compartment per node. Models declare their compartments with initial
// occupancy probabilities, track the compartments and compartment pairs they
// care about as loci, and then express their events purely in terms of those
// loci; the model keeps every tracked locus synchronized from node
// compartment changes alone, including edge loci such as the
// susceptible–infected edges an epidemic spreads over.
//
// Embed CompartmentedModel and override Build to declare compartments,
// tracked loci, and events. [SIR], [SIS], and [SEIR] are complete examples.
type CompartmentedModel struct {
	BaseProcess

	compartments []compartment
	state        map[Node]string
	nodeLoci     map[string][]Locus
	edgeLoci     map[string][]*trackedEdgeLocus
}

type compartment struct {
	name      string
	occupancy float64
}

// trackedEdgeLocus pairs an edge locus with the two compartments whose
// boundary it tracks. An edge belongs iff its endpoint compartments are the
// tracked pair, in either orientation.
type trackedEdgeLocus struct {
	locus       Locus
	left, right string
}

func (t *trackedEdgeLocus) qualifies(a, b string) bool {
	return (a == t.left && b == t.right) || (a == t.right && b == t.left)
}

// Reset clears compartment declarations and node state along with the base
// process state.
func (m *CompartmentedModel) Reset() {
	m.BaseProcess.Reset()
	m.compartments = nil
	m.state = nil
	m.nodeLoci = nil
	m.edgeLoci = nil
}

// AddCompartment declares a compartment and the probability that a node
// starts the run in it. The occupancies of all declared compartments must
// sum to 1 by the time SetUp runs.
func (m *CompartmentedModel) AddCompartment(name string, occupancy float64) error {
	for _, c := range m.compartments {
		if c.name == name {
			return fmt.Errorf("%w: compartment %q already declared", ErrConfiguration, name)
		}
	}
	m.compartments = append(m.compartments, compartment{name: name, occupancy: occupancy})
	return nil
}

// TrackNodesIn declares a locus holding exactly the nodes currently in the
// named compartment.
func (m *CompartmentedModel) TrackNodesIn(c string) (Locus, error) {
	l, err := m.AddNodeLocus(c)
	if err != nil {
		return nil, err
	}
	if m.nodeLoci == nil {
		m.nodeLoci = make(map[string][]Locus)
	}
	m.nodeLoci[c] = append(m.nodeLoci[c], l)
	return l, nil
}

// TrackEdgesBetween declares a locus, registered under the given name,
// holding exactly the edges whose endpoint compartments are left and right
// in either orientation. Tracking the same compartment on both sides is
// allowed.
func (m *CompartmentedModel) TrackEdgesBetween(left, right, name string) (Locus, error) {
	l, err := m.AddEdgeLocus(name)
	if err != nil {
		return nil, err
	}
	if m.edgeLoci == nil {
		m.edgeLoci = make(map[string][]*trackedEdgeLocus)
	}
	t := &trackedEdgeLocus{locus: l, left: left, right: right}
	m.edgeLoci[left] = append(m.edgeLoci[left], t)
	if right != left {
		m.edgeLoci[right] = append(m.edgeLoci[right], t)
	}
	return l, nil
}

// SetUp validates the initial occupancy distribution and assigns every node
// of the working graph an initial compartment drawn from it.
func (m *CompartmentedModel) SetUp(p *Params) error {
	if len(m.compartments) == 0 {
		return fmt.Errorf("%w: no compartments declared", ErrConfiguration)
	}
	total := 0.0
	for _, c := range m.compartments {
		total += c.occupancy
	}
	if math.Abs(total-1) > 1e-9 {
		return fmt.Errorf("%w: initial compartment occupancies sum to %v, want 1", ErrConfiguration, total)
	}
	m.state = make(map[Node]string)
	d := m.Dynamics()
	for _, n := range d.Graph().Nodes() {
		u := d.Rand().Float64()
		c := m.compartments[len(m.compartments)-1].name
		for _, cand := range m.compartments {
			u -= cand.occupancy
			if u < 0 {
				c = cand.name
				break
			}
		}
		if err := m.SetCompartment(n, c); err != nil {
			return err
		}
	}
	return nil
}

// Compartment returns the compartment of n, if it has one.
func (m *CompartmentedModel) Compartment(n Node) (string, bool) {
	c, ok := m.state[n]
	return c, ok
}

// SetCompartment moves n into compartment c, firing leave handlers for the
// old compartment across every locus registered against it and then enter
// handlers for the new one. This is the sole mutation point for node state:
// it is what keeps, say, a susceptible–infected edge locus correct purely
// from node changes.
func (m *CompartmentedModel) SetCompartment(n Node, c string) error {
	if !m.declared(c) {
		return fmt.Errorf("%w: compartment %q not declared", ErrConfiguration, c)
	}
	g := m.Dynamics().Graph()
	if old, ok := m.state[n]; ok {
		for _, l := range m.nodeLoci[old] {
			if err := l.Leave(n); err != nil {
				return err
			}
		}
		for _, t := range m.edgeLoci[old] {
			for _, e := range g.IncidentEdges(n) {
				if t.locus.Contains(e) {
					if err := t.locus.Leave(e); err != nil {
						return err
					}
				}
			}
		}
	}
	m.state[n] = c
	for _, l := range m.nodeLoci[c] {
		if err := l.Enter(n); err != nil {
			return err
		}
	}
	for _, t := range m.edgeLoci[c] {
		for _, e := range g.IncidentEdges(n) {
			other, ok := m.state[e.Other(n)]
			if ok && t.qualifies(c, other) {
				if err := t.locus.Enter(e); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (m *CompartmentedModel) declared(c string) bool {
	for _, cand := range m.compartments {
		if cand.name == c {
			return true
		}
	}
	return false
}

// Results reports the final population of each compartment.
func (m *CompartmentedModel) Results() map[string]any {
	counts := make(map[string]int, len(m.compartments))
	for _, c := range m.compartments {
		counts[c.name] = 0
	}
	for _, c := range m.state {
		counts[c]++
	}
	out := make(map[string]any, len(counts))
	for c, n := range counts {
		out[c] = n
	}
	return out
}

// NodeAdded gives a node no compartment; it joins loci only once a
// compartment is assigned with [CompartmentedModel.SetCompartment].
func (m *CompartmentedModel) NodeAdded(n Node) {}

// NodeRemoved forgets the node's compartment. Its loci memberships have
// already been withdrawn by the dynamics.
func (m *CompartmentedModel) NodeRemoved(n Node) {
	delete(m.state, n)
}

// EdgeAdded admits the new edge into every tracked edge locus whose
// compartment pair matches its endpoints.
func (m *CompartmentedModel) EdgeAdded(e Edge) {
	cu, ok := m.state[e.U]
	if !ok {
		return
	}
	cv, ok := m.state[e.V]
	if !ok {
		return
	}
	seen := make(map[*trackedEdgeLocus]struct{})
	for _, t := range m.edgeLoci[cu] {
		if t.qualifies(cu, cv) {
			_ = t.locus.Enter(e)
			seen[t] = struct{}{}
		}
	}
	for _, t := range m.edgeLoci[cv] {
		if _, dup := seen[t]; !dup && t.qualifies(cu, cv) {
			_ = t.locus.Enter(e)
		}
	}
}

// EdgeRemoved is a no-op: the dynamics withdraws removed edges from all loci
// before notifying observers.
func (m *CompartmentedModel) EdgeRemoved(e Edge) {}
