// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import (
	"cmp"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/addrummond/heap"
)

// runState tracks where a Dynamics is in its per-run state machine. The only
// transitions are NotStarted to Running (when a scheduling loop begins) and
// Running to AtEquilibrium (terminal for the run; SetUp re-arms).
type runState int

const (
	stateNotStarted runState = iota
	stateRunning
	stateAtEquilibrium
)

// A postedEvent is an event scheduled for an absolute future simulation time
// outside the rate-based mechanism. Cancellation is lazy: UnpostEvent nils
// the handler and forgets the id, and the dead entry is discarded when it
// surfaces at the top of the queue rather than being dug out of the middle.
type postedEvent struct {
	id      uint64
	time    float64
	handler EventHandler // nil once cancelled
	element Element
	name    string
	owner   *BaseProcess
}

// queuedEvent is the heap entry for a posted event. Ordering is by (time,
// id): the monotonic id breaks time ties deterministically and keeps the heap
// from ever needing to compare handlers.
type queuedEvent struct {
	time  float64
	id    uint64
	entry *postedEvent
}

func (a *queuedEvent) Cmp(b *queuedEvent) int {
	if c := cmp.Compare(a.time, b.time); c != 0 {
		return c
	}
	return cmp.Compare(a.id, b.id)
}

// A Dynamics orchestrates one or more [Process] instances over a working
// graph obtained from a [Generator]. It owns the simulation clock, the locus
// registry, and the posted-event queue; a scheduling strategy
// ([StochasticDynamics] or [SynchronousDynamics]) supplies the loop that
// advances the clock and dispatches events.
//
// A Dynamics is reusable: every call to [Dynamics.SetUp] starts an entirely
// fresh run over a freshly generated graph. It is not safe for concurrent
// use; the execution model is strictly single-threaded.
type Dynamics struct {
	gen   Generator
	procs []Process
	rng   *rand.Rand

	state      runState
	g          *Graph
	t          float64
	seq        uint64
	loci       map[string]Locus
	queue      heap.Heap[queuedEvent, heap.Min]
	posted     map[uint64]*postedEvent
	eventCount int
}

func (d *Dynamics) init(gen Generator, procs []Process) {
	d.gen = gen
	d.procs = procs
	d.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	for _, p := range procs {
		b := p.base()
		if b.dyn != nil {
			panic("process is already attached to a dynamics")
		}
		b.dyn = d
		b.id = processIDs.Add(1)
	}
}

// SetSeed makes the run fully deterministic: all randomness, including graph
// generation and element draws, flows from the given seed.
func (d *Dynamics) SetSeed(seed uint64) {
	d.rng = rand.New(rand.NewPCG(seed, seed))
}

// Rand returns the simulation's random source.
func (d *Dynamics) Rand() *rand.Rand {
	return d.rng
}

// Graph returns the current working graph, or nil outside a run. The graph
// must be mutated only through the Dynamics hooks ([Dynamics.AddNode] and
// friends) so loci stay synchronized.
func (d *Dynamics) Graph() *Graph {
	return d.g
}

// Time returns the current simulation time. It never decreases within a run.
func (d *Dynamics) Time() float64 {
	return d.t
}

// EventCount returns the number of events fired so far in the current run,
// posted events included.
func (d *Dynamics) EventCount() int {
	return d.eventCount
}

// Processes returns the attached processes in composition order.
func (d *Dynamics) Processes() []Process {
	return d.procs
}

// SetUp prepares a fresh run: it generates a new working graph, clears the
// clock, loci, declarations, and posted-event queue, and then takes every
// process through Reset, Build, and SetUp in that order. Configuration
// errors are reported before any element state has changed.
func (d *Dynamics) SetUp(p *Params) error {
	g, err := d.gen.Generate(p, d.rng)
	if err != nil {
		return err
	}
	d.g = g
	d.t = 0
	d.seq = 0
	d.eventCount = 0
	d.state = stateNotStarted
	d.loci = make(map[string]Locus)
	d.posted = make(map[uint64]*postedEvent)
	d.queue = heap.Heap[queuedEvent, heap.Min]{}

	for _, proc := range d.procs {
		proc.Reset()
	}
	for _, proc := range d.procs {
		if err := proc.Build(p); err != nil {
			return err
		}
	}
	for _, proc := range d.procs {
		if err := proc.SetUp(p); err != nil {
			return err
		}
	}
	return nil
}

// TearDown takes every process through TearDown and releases the working
// graph. The first process error is returned, after all processes have been
// torn down.
func (d *Dynamics) TearDown() error {
	var first error
	for _, proc := range d.procs {
		if err := proc.TearDown(); err != nil && first == nil {
			first = err
		}
	}
	d.g = nil
	return first
}

// Locus returns the named locus.
func (d *Dynamics) Locus(name string) (Locus, bool) {
	l, ok := d.loci[name]
	return l, ok
}

// Loci returns all registered loci sorted by name, so callers that iterate
// them observe a fixed order.
func (d *Dynamics) Loci() []Locus {
	names := slices.Sorted(maps.Keys(d.loci))
	out := make([]Locus, len(names))
	for i, name := range names {
		out[i] = d.loci[name]
	}
	return out
}

func (d *Dynamics) addLocus(owner *BaseProcess, l Locus) (Locus, error) {
	if d.loci == nil {
		return nil, fmt.Errorf("%w: loci must be declared during Build", ErrConfiguration)
	}
	if _, ok := d.loci[l.Name()]; ok {
		return nil, fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrDuplicateLocus, l.Name())
	}
	d.loci[l.Name()] = l
	if owner != nil {
		owner.loci = append(owner.loci, l)
	}
	return l, nil
}

// declarations returns every event declaration in process composition order
// and, within a process, declaration order. The walk order is fixed so that
// the cumulative rate distribution is deterministic.
func (d *Dynamics) declarations() []*eventDecl {
	var out []*eventDecl
	for _, proc := range d.procs {
		out = append(out, proc.base().decls...)
	}
	return out
}

// PostEvent schedules h to fire against e at absolute simulation time t on
// behalf of no particular process, returning the event id for use with
// [Dynamics.UnpostEvent]. It fails with [ErrEventInPast] if t is earlier
// than the current clock. Processes should prefer [BaseProcess.PostEvent],
// which records them as the event's owner.
func (d *Dynamics) PostEvent(t float64, e Element, h EventHandler, name string) (uint64, error) {
	return d.postEvent(nil, t, e, h, name)
}

// PostRepeatingEvent schedules h to fire against e at startTime and then
// again every interval thereafter, on behalf of no particular process. The
// returned id stays valid for the whole chain: unposting it at any point
// stops the repetition.
func (d *Dynamics) PostRepeatingEvent(startTime, interval float64, e Element, h EventHandler, name string) (uint64, error) {
	return d.postRepeatingEvent(nil, startTime, interval, e, h, name)
}

func (d *Dynamics) postEvent(owner *BaseProcess, t float64, e Element, h EventHandler, name string) (uint64, error) {
	d.seq++
	id := d.seq
	if err := d.enqueue(owner, id, t, e, h, name); err != nil {
		return 0, err
	}
	return id, nil
}

// enqueue files a posted event under the given id. Reposts along a repeating
// chain reuse their original id, so the id returned to the caller stays
// cancellable for the life of the chain.
func (d *Dynamics) enqueue(owner *BaseProcess, id uint64, t float64, e Element, h EventHandler, name string) error {
	if t < d.t {
		return fmt.Errorf("%w: %w: t=%v is before clock %v", ErrScheduling, ErrEventInPast, t, d.t)
	}
	if h == nil {
		panic("event handler must be non-nil")
	}
	pe := &postedEvent{
		id:      id,
		time:    t,
		handler: h,
		element: e,
		name:    name,
		owner:   owner,
	}
	d.posted[id] = pe
	heap.PushOrderable(&d.queue, queuedEvent{time: t, id: id, entry: pe})
	return nil
}

func (d *Dynamics) postRepeatingEvent(owner *BaseProcess, startTime, interval float64, e Element, h EventHandler, name string) (uint64, error) {
	var id uint64
	var repeat EventHandler
	repeat = func(t float64, el Element) error {
		if err := h(t, el); err != nil {
			return err
		}
		return d.enqueue(owner, id, t+interval, el, repeat, name)
	}
	var err error
	id, err = d.postEvent(owner, startTime, e, repeat, name)
	return id, err
}

// UnpostEvent cancels the posted event with the given id. When fatal is true
// an unknown id fails with [ErrUnknownEvent]; when false it is ignored,
// which lets callers cancel events that may already have fired. The
// cancelled entry stays in the queue until it surfaces, at which point it is
// discarded without firing.
func (d *Dynamics) UnpostEvent(id uint64, fatal bool) error {
	pe, ok := d.posted[id]
	if !ok {
		if fatal {
			return fmt.Errorf("%w: %w: %d", ErrScheduling, ErrUnknownEvent, id)
		}
		return nil
	}
	pe.handler = nil
	delete(d.posted, id)
	return nil
}

// NextPendingEventTime returns the fire time of the earliest live posted
// event, if any. Cancelled entries encountered at the top of the queue are
// discarded along the way.
func (d *Dynamics) NextPendingEventTime() (float64, bool) {
	for {
		qe, ok := heap.Peek(&d.queue)
		if !ok {
			return 0, false
		}
		if qe.entry.handler != nil {
			return qe.time, true
		}
		_, _ = heap.PopOrderable(&d.queue)
	}
}

// RunPendingEvents fires, in non-decreasing time order, every posted event
// due at or before t, advancing the clock to each event's own time as it
// fires. Events that handlers post with due times at or before t are
// absorbed by the same sweep. Returns the number of events fired; a handler
// failure aborts the sweep with a [*RunError].
func (d *Dynamics) RunPendingEvents(t float64) (int, error) {
	fired := 0
	for {
		qe, ok := heap.Peek(&d.queue)
		if !ok || qe.time > t {
			return fired, nil
		}
		_, _ = heap.PopOrderable(&d.queue)
		pe := qe.entry
		if pe.handler == nil {
			// Lazily discard a cancelled or superseded entry.
			continue
		}
		delete(d.posted, pe.id)
		d.t = pe.time
		h := pe.handler
		pe.handler = nil
		if err := h(pe.time, pe.element); err != nil {
			return fired, &RunError{Time: pe.time, Event: pe.name, Err: err}
		}
		fired++
		d.eventCount++
	}
}

// atEquilibrium reports whether every attached process considers the run
// complete at time t.
func (d *Dynamics) atEquilibrium(t float64) bool {
	for _, proc := range d.procs {
		if !proc.AtEquilibrium(t) {
			return false
		}
	}
	return true
}

// begin moves the state machine to Running, verifying that SetUp has been
// called since the last run.
func (d *Dynamics) begin() error {
	if d.g == nil {
		return fmt.Errorf("%w: Do called before SetUp", ErrConfiguration)
	}
	switch d.state {
	case stateRunning:
		return fmt.Errorf("%w: run already in progress", ErrConfiguration)
	case stateAtEquilibrium:
		return fmt.Errorf("%w: run already complete; call SetUp to start another", ErrConfiguration)
	}
	d.state = stateRunning
	return nil
}

// finish moves the state machine to its terminal state and collects the
// standard results plus each process's contribution, filed under its
// instance namespace when it has one.
func (d *Dynamics) finish() *Results {
	d.state = stateAtEquilibrium
	res := NewResults()
	res.Set("simulation_time", d.t)
	res.Set("event_count", d.eventCount)
	for _, proc := range d.procs {
		instance := proc.base().instance
		for k, v := range proc.Results() {
			if instance != "" {
				res.SetFor(instance, k, v)
			} else {
				res.Set(k, v)
			}
		}
	}
	return res
}

// AddNode adds a node to the working graph and notifies topology observers.
func (d *Dynamics) AddNode(n Node) bool {
	if !d.g.AddNode(n) {
		return false
	}
	for _, proc := range d.procs {
		if o, ok := proc.(TopologyObserver); ok {
			o.NodeAdded(n)
		}
	}
	return true
}

// RemoveNode removes a node and its incident edges from the working graph,
// first withdrawing the node and each vanished edge from every locus that
// holds them, then notifying topology observers.
func (d *Dynamics) RemoveNode(n Node) bool {
	if !d.g.HasNode(n) {
		return false
	}
	for _, e := range d.g.IncidentEdges(n) {
		d.withdraw(e)
	}
	d.withdraw(n)
	removed, _ := d.g.RemoveNode(n)
	for _, proc := range d.procs {
		if o, ok := proc.(TopologyObserver); ok {
			for _, e := range removed {
				o.EdgeRemoved(e)
			}
			o.NodeRemoved(n)
		}
	}
	return true
}

// AddEdge adds an edge to the working graph and notifies topology observers,
// which is how state-dependent edge loci admit the new edge.
func (d *Dynamics) AddEdge(u, v Node) (Edge, bool) {
	e, added := d.g.AddEdge(u, v)
	if !added {
		return e, false
	}
	for _, proc := range d.procs {
		if o, ok := proc.(TopologyObserver); ok {
			o.EdgeAdded(e)
		}
	}
	return e, true
}

// RemoveEdge removes an edge from the working graph, withdrawing it from
// every locus that holds it, then notifying topology observers.
func (d *Dynamics) RemoveEdge(e Edge) bool {
	if !d.g.RemoveEdge(e) {
		return false
	}
	d.withdraw(e)
	for _, proc := range d.procs {
		if o, ok := proc.(TopologyObserver); ok {
			o.EdgeRemoved(e)
		}
	}
	return true
}

// withdraw removes an element from every set-backed locus holding it.
func (d *Dynamics) withdraw(e Element) {
	for _, l := range d.loci {
		if l.Contains(e) {
			// Only set-backed loci keep membership state; graph views and
			// singletons ignore or reject this, and rejection cannot happen
			// for elements they report as members.
			_ = l.Leave(e)
		}
	}
}

// A TopologyObserver is a [Process] that reacts to topology changes made
// through the [Dynamics] mutation hooks during a run. [CompartmentedModel]
// uses this to admit newly created edges into its compartment-pair loci.
type TopologyObserver interface {
	NodeAdded(n Node)
	NodeRemoved(n Node)
	EdgeAdded(e Edge)
	EdgeRemoved(e Edge)
}
