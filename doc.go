// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package episim simulates stochastic state-change processes unfolding over
// networks whose topology may itself change as the simulation runs. The
// archetypal use is epidemic spread: nodes carry compartments such as
// susceptible or infected, and events move them between compartments at
// rates that depend on the current population of each compartment.
//
// The package separates what can happen from when it happens. A [Process]
// declares loci (named, observable populations of nodes or edges) and
// attaches events to them; a [Dynamics] owns the simulation clock and decides
// when events fire. Two scheduling strategies are provided:
// [StochasticDynamics] implements the exact continuous-time Gillespie
// stochastic simulation algorithm, drawing exponential inter-event times from
// the aggregate event rate, while [SynchronousDynamics] advances in discrete
// ticks and performs an independent Bernoulli trial per event per element.
//
// Element selection inside a locus is uniform and runs in O(log n) via
// [DrawSet], a height-balanced search tree that tracks subtree sizes so a
// random index can be resolved without enumerating members. Events may also
// be posted for absolute future times; posted events are kept in a priority
// queue with lazy cancellation and always fire in time order, before any
// rate-driven event scheduled beyond them.
//
// [CompartmentedModel] builds on the kernel to keep per-compartment node loci
// and compartment-pair edge loci synchronized purely from node state changes,
// and [SIR], [SIS], and [SEIR] wire it into the standard epidemic models.
// Runs are reproducible: all randomness flows from a single seeded source.
package episim
