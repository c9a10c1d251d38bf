// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import (
	"math"
)

// StochasticDynamics schedules events with Gillespie's exact stochastic
// simulation algorithm. Each iteration recomputes the full event-rate
// distribution from scratch, draws an exponential waiting time from the
// aggregate rate, fires any posted events that fall within the wait, and
// then fires one rate-chosen event. Recomputing rather than maintaining
// incremental sums keeps the loop simple and immune to drift as handlers
// mutate loci.
type StochasticDynamics struct {
	Dynamics
}

// NewStochasticDynamics creates a Gillespie dynamics over the given
// generator and processes.
func NewStochasticDynamics(gen Generator, procs ...Process) *StochasticDynamics {
	d := &StochasticDynamics{}
	d.init(gen, procs)
	return d
}

// Do runs the simulation to equilibrium and returns its results. The run
// must have been prepared with [Dynamics.SetUp]. A handler failure aborts
// the run and is returned as a [*RunError]; use [Run] instead to capture the
// failure as a failed-run outcome.
func (d *StochasticDynamics) Do(p *Params) (*Results, error) {
	if err := d.begin(); err != nil {
		return nil, err
	}
	rng := d.rng
	for !d.atEquilibrium(d.t) {
		// Rebuild the rate distribution from scratch for this iteration.
		decls := d.declarations()
		rates := make([]float64, len(decls))
		total := 0.0
		for i, dc := range decls {
			rates[i] = dc.rate()
			total += rates[i]
		}

		if total == 0 {
			// Nothing rate-driven can happen. Jump the clock to the next
			// posted event, or halt if none remain.
			nt, ok := d.NextPendingEventTime()
			if !ok {
				break
			}
			if _, err := d.RunPendingEvents(nt); err != nil {
				return nil, err
			}
			continue
		}

		// Exponential inter-event time. 1-Float64 lies in (0,1], keeping the
		// logarithm finite.
		dt := -math.Log(1-rng.Float64()) / total
		target := d.t + dt

		// Posted events due during the wait fire before the stochastic event.
		if _, err := d.RunPendingEvents(target); err != nil {
			return nil, err
		}
		d.t = target

		// Walk the cumulative distribution computed above; posted events may
		// have shifted the true rates meanwhile, but the draw belongs to this
		// iteration's distribution.
		x := rng.Float64() * total
		chosen := -1
		for i, r := range rates {
			if r == 0 {
				continue
			}
			chosen = i
			x -= r
			if x < 0 {
				break
			}
		}
		dc := decls[chosen]
		e, err := dc.locus.Draw(rng)
		if err != nil {
			// The winning locus was emptied by a posted event during the
			// wait; the draw cannot be honored.
			return nil, &RunError{Time: d.t, Event: dc.name, Err: err}
		}
		if err := dc.handler(d.t, e); err != nil {
			return nil, &RunError{Time: d.t, Event: dc.name, Err: err}
		}
		d.eventCount++
	}
	return d.finish(), nil
}
