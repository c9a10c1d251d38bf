// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

// SEIR is the susceptible–exposed–infected–removed epidemic model. Contact
// with either an exposed or a symptomatic infected node can infect a
// susceptible neighbor, who then passes through the exposed compartment
// before developing symptoms. A fraction [PExposed] of nodes start out
// exposed.
//
// Transmission over susceptible–exposed edges uses [PInfectAsymptomatic] and
// over susceptible–infected edges uses [PInfect]; exposed nodes develop
// symptoms with probability [PSymptoms] and infected nodes are removed with
// probability [PRemove].
type SEIR struct {
	CompartmentedModel
}

// NewSEIR creates an SEIR model.
func NewSEIR() *SEIR {
	return &SEIR{}
}

// Build declares the four compartments, the exposed- and infected-boundary
// loci, and the transmission, progression, and removal events.
func (m *SEIR) Build(p *Params) error {
	pExposed, err := m.Param(p, PExposed)
	if err != nil {
		return err
	}
	pInfectA, err := m.Param(p, PInfectAsymptomatic)
	if err != nil {
		return err
	}
	pInfect, err := m.Param(p, PInfect)
	if err != nil {
		return err
	}
	pSymptoms, err := m.Param(p, PSymptoms)
	if err != nil {
		return err
	}
	pRemove, err := m.Param(p, PRemove)
	if err != nil {
		return err
	}

	if err := m.AddCompartment(Susceptible, 1-pExposed); err != nil {
		return err
	}
	if err := m.AddCompartment(Exposed, pExposed); err != nil {
		return err
	}
	if err := m.AddCompartment(Infected, 0); err != nil {
		return err
	}
	if err := m.AddCompartment(Removed, 0); err != nil {
		return err
	}

	le, err := m.TrackNodesIn(Exposed)
	if err != nil {
		return err
	}
	li, err := m.TrackNodesIn(Infected)
	if err != nil {
		return err
	}
	lse, err := m.TrackEdgesBetween(Susceptible, Exposed, "SE")
	if err != nil {
		return err
	}
	lsi, err := m.TrackEdgesBetween(Susceptible, Infected, "SI")
	if err != nil {
		return err
	}

	m.AddEventPerElement(lse, pInfectA, m.expose, "infect_asymptomatic")
	m.AddEventPerElement(lsi, pInfect, m.expose, "infect")
	m.AddEventPerElement(le, pSymptoms, m.symptoms, "symptoms")
	m.AddEventPerElement(li, pRemove, m.remove, "remove")
	return nil
}

// expose moves the susceptible endpoint of a boundary edge into the exposed
// compartment.
func (m *SEIR) expose(t float64, e Element) error {
	edge := e.(Edge)
	s := edge.U
	if c, _ := m.Compartment(s); c != Susceptible {
		s = edge.V
	}
	return m.SetCompartment(s, Exposed)
}

// symptoms moves an exposed node into the infected compartment.
func (m *SEIR) symptoms(t float64, e Element) error {
	return m.SetCompartment(e.(Node), Infected)
}

// remove moves an infected node into the removed compartment.
func (m *SEIR) remove(t float64, e Element) error {
	return m.SetCompartment(e.(Node), Removed)
}
