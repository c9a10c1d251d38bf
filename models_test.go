// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim_test

import (
	"testing"

	"github.com/petenewcomb/episim-go"
	"github.com/stretchr/testify/require"
)

func compartmentCount(t *testing.T, res *episim.Results, instance, c string) int {
	v, ok := res.Lookup(instance, c)
	require.True(t, ok, "compartment %q", c)
	n, ok := v.(int)
	require.True(t, ok)
	return n
}

// An SIR epidemic conserves population, and a stochastic run halts of its
// own accord once the last infected node is removed.
func TestSIREpidemic(t *testing.T) {
	chk := require.New(t)

	const n = 200
	p := episim.NewParams()
	p.Set("N", n)
	p.Set("kmean", 10.0)
	p.Set(episim.PInfected, 0.1)
	p.Set(episim.PInfect, 0.2)
	p.Set(episim.PRemove, 0.1)

	d := episim.NewStochasticDynamics(episim.ERNetwork{}, episim.NewSIR())
	d.SetSeed(42)
	chk.NoError(d.SetUp(p))
	res, err := d.Do(p)
	chk.NoError(err)

	s := compartmentCount(t, res, "", episim.Susceptible)
	i := compartmentCount(t, res, "", episim.Infected)
	r := compartmentCount(t, res, "", episim.Removed)
	chk.Equal(n, s+i+r)
	chk.Equal(0, i, "the run halts only when infection has died out")
	chk.Positive(r)
	chk.Less(d.Time(), episim.DefaultMaxTime)
}

// SIS conserves population and, lacking immunity, runs until its time
// ceiling unless the infection happens to die out first.
func TestSISEpidemic(t *testing.T) {
	chk := require.New(t)

	const n = 100
	p := episim.NewParams()
	p.Set("N", n)
	p.Set("kmean", 8.0)
	p.Set(episim.PInfected, 0.1)
	p.Set(episim.PInfect, 0.3)
	p.Set(episim.PRecover, 0.05)

	model := episim.NewSIS()
	model.SetMaxTime(50)
	d := episim.NewSynchronousDynamics(episim.ERNetwork{}, model)
	d.SetSeed(42)
	chk.NoError(d.SetUp(p))
	res, err := d.Do(p)
	chk.NoError(err)

	s := compartmentCount(t, res, "", episim.Susceptible)
	i := compartmentCount(t, res, "", episim.Infected)
	chk.Equal(n, s+i)
	chk.LessOrEqual(d.Time(), 50.0)
}

// An SEIR epidemic conserves population across its four compartments and
// halts once both the exposed and infected compartments are empty.
func TestSEIREpidemic(t *testing.T) {
	chk := require.New(t)

	const n = 150
	p := episim.NewParams()
	p.Set("N", n)
	p.Set("M", 3)
	p.Set(episim.PExposed, 0.1)
	p.Set(episim.PInfectAsymptomatic, 0.05)
	p.Set(episim.PInfect, 0.2)
	p.Set(episim.PSymptoms, 0.2)
	p.Set(episim.PRemove, 0.1)

	d := episim.NewStochasticDynamics(episim.BANetwork{}, episim.NewSEIR())
	d.SetSeed(42)
	chk.NoError(d.SetUp(p))
	res, err := d.Do(p)
	chk.NoError(err)

	s := compartmentCount(t, res, "", episim.Susceptible)
	e := compartmentCount(t, res, "", episim.Exposed)
	i := compartmentCount(t, res, "", episim.Infected)
	r := compartmentCount(t, res, "", episim.Removed)
	chk.Equal(n, s+e+i+r)
	chk.Equal(0, e)
	chk.Equal(0, i)
	chk.Positive(r)
}

// A named model instance resolves its parameters and files its results
// through its instance namespace.
func TestModelInstanceNamespace(t *testing.T) {
	chk := require.New(t)

	model := episim.NewSIR()
	model.SetInstance("flu")

	p := episim.NewParams()
	// Shared defaults, with an instance override for the infection seed.
	p.Set(episim.PInfected, 0.0)
	p.SetFor("flu", episim.PInfected, 1.0)
	p.Set(episim.PInfect, 0.0)
	p.Set(episim.PRemove, 1.0)

	d := episim.NewStochasticDynamics(episim.NewFixedNetwork(pathGraph(10)), model)
	d.SetSeed(42)
	chk.NoError(d.SetUp(p))
	res, err := d.Do(p)
	chk.NoError(err)

	// With no transmission and certain removal, every node starts infected
	// and ends removed.
	chk.Equal(0, compartmentCount(t, res, "flu", episim.Susceptible))
	chk.Equal(0, compartmentCount(t, res, "flu", episim.Infected))
	chk.Equal(10, compartmentCount(t, res, "flu", episim.Removed))

	// Unqualified compartment results do not exist; the model reported under
	// its instance.
	_, ok := res.Lookup("", episim.Susceptible)
	chk.False(ok)
}
