// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

// SIS is the susceptible–infected–susceptible epidemic model: like [SIR]
// except that recovery confers no immunity, so the disease can become
// endemic. Infection passes over susceptible–infected edges with probability
// [PInfect]; infected nodes recover back to susceptible with probability
// [PRecover]; a fraction [PInfected] of nodes start out infected.
type SIS struct {
	CompartmentedModel
}

// NewSIS creates an SIS model.
func NewSIS() *SIS {
	return &SIS{}
}

// Build declares the compartments, the infected-node and SI-edge loci, and
// the infection and recovery events.
func (m *SIS) Build(p *Params) error {
	pInfected, err := m.Param(p, PInfected)
	if err != nil {
		return err
	}
	pInfect, err := m.Param(p, PInfect)
	if err != nil {
		return err
	}
	pRecover, err := m.Param(p, PRecover)
	if err != nil {
		return err
	}

	if err := m.AddCompartment(Susceptible, 1-pInfected); err != nil {
		return err
	}
	if err := m.AddCompartment(Infected, pInfected); err != nil {
		return err
	}

	li, err := m.TrackNodesIn(Infected)
	if err != nil {
		return err
	}
	lsi, err := m.TrackEdgesBetween(Susceptible, Infected, "SI")
	if err != nil {
		return err
	}

	m.AddEventPerElement(lsi, pInfect, m.infect, "infect")
	m.AddEventPerElement(li, pRecover, m.recover, "recover")
	return nil
}

func (m *SIS) infect(t float64, e Element) error {
	edge := e.(Edge)
	s := edge.U
	if c, _ := m.Compartment(s); c != Susceptible {
		s = edge.V
	}
	return m.SetCompartment(s, Infected)
}

func (m *SIS) recover(t float64, e Element) error {
	return m.SetCompartment(e.(Node), Susceptible)
}
