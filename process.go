// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import (
	"sync/atomic"
)

// An EventHandler is invoked when an event fires at simulation time t against
// the element drawn for it. Handlers run one at a time and may freely mutate
// the working graph, the loci, and the posted-event queue. A non-nil error
// aborts the remainder of the run; the engine never steps past a failed
// handler.
type EventHandler func(t float64, e Element) error

// A Process declares what can happen in a simulation: it names loci, attaches
// events to them, and seeds element state at the start of a run. A single
// [Dynamics] can compose several processes, including several instances of
// the same process type distinguished by instance name.
//
// Implementations embed [BaseProcess], which supplies the declaration helpers
// and default lifecycle behavior. The lifecycle per run is Reset, then Build,
// then SetUp, with TearDown at the end of the run.
type Process interface {
	// Reset clears per-run state ahead of a new run. Configuration such as
	// the maximum-time ceiling persists across resets.
	Reset()

	// Build declares the process's loci and events. It must be purely
	// declarative: no element state may change here.
	Build(p *Params) error

	// SetUp initializes element state on the working graph for this run.
	SetUp(p *Params) error

	// TearDown releases any per-run resources.
	TearDown() error

	// AtEquilibrium reports whether the process considers the run complete
	// at simulation time t. Implementations that add conditions must still
	// honor the maximum-time ceiling, e.g. by also consulting the embedded
	// [BaseProcess.AtEquilibrium].
	AtEquilibrium(t float64) bool

	// Results reports the process's contribution to the run results. The
	// dynamics files them under the process's instance namespace, if any.
	Results() map[string]any

	base() *BaseProcess
}

// DefaultMaxTime is the default maximum-time ceiling for a process. Every
// equilibrium predicate honors some ceiling so runaway runs stay bounded.
const DefaultMaxTime = 20000.0

var processIDs atomic.Int64

// BaseProcess provides the standard [Process] machinery: identity, the link
// to the owning [Dynamics], the maximum-time ceiling, and the declaration
// helpers. Embed it (by value) in every process implementation.
type BaseProcess struct {
	dyn      *Dynamics
	id       int64
	instance string
	runID    int
	maxTime  float64
	loci     []Locus
	decls    []*eventDecl
}

func (b *BaseProcess) base() *BaseProcess {
	return b
}

// Dynamics returns the dynamics the process is attached to, or nil before
// attachment.
func (b *BaseProcess) Dynamics() *Dynamics {
	return b.dyn
}

// Instance returns the process's instance name, or the empty string for a
// sole unnamed instance.
func (b *BaseProcess) Instance() string {
	return b.instance
}

// SetInstance names this process instance. Parameter and result lookups for
// the process then resolve through the instance namespace first.
func (b *BaseProcess) SetInstance(name string) {
	b.instance = name
}

// RunID returns the identifier of the current run, bumped on every Reset.
func (b *BaseProcess) RunID() int {
	return b.runID
}

// MaxTime returns the maximum-time ceiling.
func (b *BaseProcess) MaxTime() float64 {
	if b.maxTime == 0 {
		return DefaultMaxTime
	}
	return b.maxTime
}

// SetMaxTime sets the maximum-time ceiling. It survives Reset.
func (b *BaseProcess) SetMaxTime(t float64) {
	b.maxTime = t
}

// Reset clears the process's declarations and bumps the run id. Overrides
// must call through so the bookkeeping still happens.
func (b *BaseProcess) Reset() {
	b.runID++
	b.loci = nil
	b.decls = nil
}

// Build declares nothing by default.
func (b *BaseProcess) Build(p *Params) error {
	return nil
}

// SetUp initializes nothing by default.
func (b *BaseProcess) SetUp(p *Params) error {
	return nil
}

// TearDown releases nothing by default.
func (b *BaseProcess) TearDown() error {
	return nil
}

// AtEquilibrium reports true once t reaches the maximum-time ceiling.
func (b *BaseProcess) AtEquilibrium(t float64) bool {
	return t >= b.MaxTime()
}

// Results reports nothing by default.
func (b *BaseProcess) Results() map[string]any {
	return nil
}

// Param resolves a numeric parameter through this process's instance
// namespace.
func (b *BaseProcess) Param(p *Params, key string) (float64, error) {
	return p.Float(b.instance, key)
}

// AddNodeLocus declares a named set-backed locus of nodes.
func (b *BaseProcess) AddNodeLocus(name string) (Locus, error) {
	return b.dyn.addLocus(b, newNodeLocus(name))
}

// AddEdgeLocus declares a named set-backed locus of edges.
func (b *BaseProcess) AddEdgeLocus(name string) (Locus, error) {
	return b.dyn.addLocus(b, newEdgeLocus(name))
}

// AddSingletonLocus declares a locus holding only [Unit], for process-level
// events whose rate must not scale with network size.
func (b *BaseProcess) AddSingletonLocus(name string) (Locus, error) {
	return b.dyn.addLocus(b, &singletonLocus{name: name})
}

// AddAllNodesLocus declares a locus that tracks the working graph's current
// node set.
func (b *BaseProcess) AddAllNodesLocus(name string) (Locus, error) {
	return b.dyn.addLocus(b, &allNodesLocus{name: name, dyn: b.dyn})
}

// AddAllEdgesLocus declares a locus that tracks the working graph's current
// edge set.
func (b *BaseProcess) AddAllEdgesLocus(name string) (Locus, error) {
	return b.dyn.addLocus(b, &allEdgesLocus{name: name, dyn: b.dyn})
}

// AddEventPerElement attaches an event whose probability applies
// independently to each element of the locus, so its aggregate rate scales
// with the locus population. name may be empty.
func (b *BaseProcess) AddEventPerElement(l Locus, prob float64, h EventHandler, name string) {
	b.decls = append(b.decls, &eventDecl{
		kind:    perElementEvent,
		locus:   l,
		prob:    prob,
		handler: h,
		name:    name,
		owner:   b,
	})
}

// AddFixedRateEvent attaches an event with a single rate independent of the
// locus population. When it fires, a representative element is drawn from
// the locus. An empty locus contributes no rate and never fires. name may be
// empty.
func (b *BaseProcess) AddFixedRateEvent(l Locus, prob float64, h EventHandler, name string) {
	b.decls = append(b.decls, &eventDecl{
		kind:    fixedRateEvent,
		locus:   l,
		prob:    prob,
		handler: h,
		name:    name,
		owner:   b,
	})
}

// PostEvent schedules h to fire against e at absolute simulation time t,
// returning the event id for use with [Dynamics.UnpostEvent]. It fails with
// [ErrEventInPast] if t is earlier than the current clock.
func (b *BaseProcess) PostEvent(t float64, e Element, h EventHandler, name string) (uint64, error) {
	return b.dyn.postEvent(b, t, e, h, name)
}

// PostRepeatingEvent schedules h to fire against e at startTime and then
// again every interval thereafter. The returned id stays valid for the whole
// chain: unposting it at any point stops the repetition.
func (b *BaseProcess) PostRepeatingEvent(startTime, interval float64, e Element, h EventHandler, name string) (uint64, error) {
	return b.dyn.postRepeatingEvent(b, startTime, interval, e, h, name)
}

type eventKind int

const (
	perElementEvent eventKind = iota
	fixedRateEvent
)

// An eventDecl is one rate-based event attached to a locus. Declarations are
// walked in declaration order when building the cumulative rate distribution,
// so outcomes depend only on the seeded random source.
type eventDecl struct {
	kind    eventKind
	locus   Locus
	prob    float64
	handler EventHandler
	name    string
	owner   *BaseProcess
}

// rate returns the declaration's current contribution to the aggregate event
// rate.
func (d *eventDecl) rate() float64 {
	n := d.locus.Len()
	if n == 0 {
		return 0
	}
	if d.kind == fixedRateEvent {
		return d.prob
	}
	return d.prob * float64(n)
}
