// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

// Monitor is a [Process] that samples the size of every locus at a fixed
// interval of simulation time and reports the samples as time series. Compose
// it alongside the processes under observation; it declares no loci or
// rate-based events of its own, driving itself entirely through a repeating
// posted event.
type Monitor struct {
	BaseProcess

	interval float64
	times    []float64
	series   map[string][]int
}

// MonitorInterval is the parameter naming the sampling interval. It defaults
// to 1 time unit.
const MonitorInterval = "monitor_interval"

// Reset discards the samples of the previous run.
func (m *Monitor) Reset() {
	m.BaseProcess.Reset()
	m.times = nil
	m.series = nil
}

// SetUp reads the sampling interval and posts the first observation at t=0.
func (m *Monitor) SetUp(p *Params) error {
	m.interval = 1
	if v, err := p.Float(m.Instance(), MonitorInterval); err == nil {
		m.interval = v
	}
	m.series = make(map[string][]int)
	_, err := m.PostRepeatingEvent(0, m.interval, Unit, m.observe, "observe")
	return err
}

// AtEquilibrium always reports true: a monitor observes the run, it never
// prolongs it.
func (m *Monitor) AtEquilibrium(t float64) bool {
	return true
}

func (m *Monitor) observe(t float64, e Element) error {
	m.times = append(m.times, t)
	for _, l := range m.Dynamics().Loci() {
		m.series[l.Name()] = append(m.series[l.Name()], l.Len())
	}
	return nil
}

// Results reports the observation times and one size series per locus.
func (m *Monitor) Results() map[string]any {
	return map[string]any{
		"observation_times": m.times,
		"locus_sizes":       m.series,
	}
}
