// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

// Compartment names shared by the stock epidemic models.
const (
	Susceptible = "S"
	Exposed     = "E"
	Infected    = "I"
	Removed     = "R"
)

// Parameter names shared by the stock epidemic models. Lookups resolve
// through the model's instance namespace, so two differently-named model
// instances can carry different values for the same parameter.
const (
	PInfected           = "pInfected"
	PExposed            = "pExposed"
	PInfect             = "pInfect"
	PInfectAsymptomatic = "pInfectAsymptomatic"
	PSymptoms           = "pSymptoms"
	PRecover            = "pRecover"
	PRemove             = "pRemove"
)

// SIR is the susceptible–infected–removed epidemic model. Infection passes
// over susceptible–infected edges with probability [PInfect]; infected nodes
// are removed with probability [PRemove]; a fraction [PInfected] of nodes
// start out infected. Once no infected nodes remain nothing further can
// happen and a stochastic run halts of its own accord.
type SIR struct {
	CompartmentedModel
}

// NewSIR creates an SIR model.
func NewSIR() *SIR {
	return &SIR{}
}

// Build declares the compartments, the infected-node and SI-edge loci, and
// the infection and removal events.
func (m *SIR) Build(p *Params) error {
	pInfected, err := m.Param(p, PInfected)
	if err != nil {
		return err
	}
	pInfect, err := m.Param(p, PInfect)
	if err != nil {
		return err
	}
	pRemove, err := m.Param(p, PRemove)
	if err != nil {
		return err
	}

	if err := m.AddCompartment(Susceptible, 1-pInfected); err != nil {
		return err
	}
	if err := m.AddCompartment(Infected, pInfected); err != nil {
		return err
	}
	if err := m.AddCompartment(Removed, 0); err != nil {
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
	m.AddEventPerElement(li, pRemove, m.remove, "remove")
	return nil
}

// infect moves the susceptible endpoint of an SI edge into the infected
// compartment.
func (m *SIR) infect(t float64, e Element) error {
	edge := e.(Edge)
	s := edge.U
	if c, _ := m.Compartment(s); c != Susceptible {
		s = edge.V
	}
	return m.SetCompartment(s, Infected)
}

// remove moves an infected node into the removed compartment.
func (m *SIR) remove(t float64, e Element) error {
	return m.SetCompartment(e.(Node), Removed)
}
