// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import (
	"github.com/gammazero/deque"
)

// SynchronousDynamics schedules events in discrete integer ticks. At each
// tick every per-element event performs an independent Bernoulli trial for
// every element currently in its locus, and every fixed-rate event performs
// a single trial. All selections for the tick are collected against the
// pre-tick state before any handler runs, so simultaneous events see a
// consistent snapshot.
type SynchronousDynamics struct {
	Dynamics
}

// NewSynchronousDynamics creates a discrete-time dynamics over the given
// generator and processes.
func NewSynchronousDynamics(gen Generator, procs ...Process) *SynchronousDynamics {
	d := &SynchronousDynamics{}
	d.init(gen, procs)
	return d
}

// firing is one selected event occurrence awaiting execution within a tick.
type firing struct {
	decl    *eventDecl
	element Element
}

// Do runs the simulation to equilibrium and returns its results. The run
// must have been prepared with [Dynamics.SetUp]. A handler failure aborts
// the run and is returned as a [*RunError]; use [Run] instead to capture the
// failure as a failed-run outcome.
func (d *SynchronousDynamics) Do(p *Params) (*Results, error) {
	if err := d.begin(); err != nil {
		return nil, err
	}
	rng := d.rng
	var selected deque.Deque[firing]
	for !d.atEquilibrium(d.t) {
		tick := d.t + 1

		// Posted events due by this tick fire first, at their own times.
		if _, err := d.RunPendingEvents(tick); err != nil {
			return nil, err
		}
		d.t = tick

		// Selection pass: independent Bernoulli trials over the pre-tick
		// snapshot of every locus. Nothing executes until the pass is done.
		selected.Clear()
		for _, dc := range d.declarations() {
			switch dc.kind {
			case perElementEvent:
				for _, e := range dc.locus.Elements() {
					if rng.Float64() < dc.prob {
						selected.PushBack(firing{decl: dc, element: e})
					}
				}
			case fixedRateEvent:
				if dc.locus.Len() == 0 {
					continue
				}
				if rng.Float64() < dc.prob {
					e, err := dc.locus.Draw(rng)
					if err != nil {
						return nil, &RunError{Time: d.t, Event: dc.name, Err: err}
					}
					selected.PushBack(firing{decl: dc, element: e})
				}
			}
		}

		// Execution pass, in selection order.
		for selected.Len() > 0 {
			f := selected.PopFront()
			if err := f.decl.handler(d.t, f.element); err != nil {
				return nil, &RunError{Time: d.t, Event: f.decl.name, Err: err}
			}
			d.eventCount++
		}
	}
	return d.finish(), nil
}
