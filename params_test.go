// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim_test

import (
	"testing"

	"github.com/petenewcomb/episim-go"
	"github.com/stretchr/testify/require"
)

func TestParamsInstanceNamespaces(t *testing.T) {
	chk := require.New(t)
	p := episim.NewParams()
	p.Set("beta", 0.1)
	p.SetFor("first", "beta", 0.5)

	// A qualified lookup prefers the instance namespace and falls back to
	// the shared one.
	v, ok := p.Lookup("first", "beta")
	chk.True(ok)
	chk.Equal(0.5, v)
	v, ok = p.Lookup("second", "beta")
	chk.True(ok)
	chk.Equal(0.1, v)
	v, ok = p.Lookup("", "beta")
	chk.True(ok)
	chk.Equal(0.1, v)

	_, ok = p.Lookup("first", "gamma")
	chk.False(ok)
}

func TestParamsFloatCoercion(t *testing.T) {
	chk := require.New(t)
	p := episim.NewParams()
	p.Set("asFloat", 0.25)
	p.Set("asInt", 3)
	p.Set("asString", "nope")

	v, err := p.Float("", "asFloat")
	chk.NoError(err)
	chk.Equal(0.25, v)

	v, err = p.Float("", "asInt")
	chk.NoError(err)
	chk.Equal(3.0, v)

	_, err = p.Float("", "asString")
	chk.Error(err)

	_, err = p.Float("", "missing")
	chk.ErrorIs(err, episim.ErrMissingParameter)
	chk.ErrorIs(err, episim.ErrConfiguration)
}

func TestParamsIntCoercion(t *testing.T) {
	chk := require.New(t)
	p := episim.NewParams()
	p.Set("n", 5000)
	p.Set("whole", 12.0)
	p.Set("fractional", 12.5)

	v, err := p.Int("", "n")
	chk.NoError(err)
	chk.Equal(5000, v)

	v, err = p.Int("", "whole")
	chk.NoError(err)
	chk.Equal(12, v)

	_, err = p.Int("", "fractional")
	chk.Error(err)

	_, err = p.Int("", "missing")
	chk.ErrorIs(err, episim.ErrMissingParameter)
}

func TestResultsInstanceNamespaces(t *testing.T) {
	chk := require.New(t)
	r := episim.NewResults()
	r.Set("simulation_time", 4.5)
	r.SetFor("sir", "S", 90)
	r.SetFor("sis", "S", 10)

	v, ok := r.Lookup("sir", "S")
	chk.True(ok)
	chk.Equal(90, v)
	v, ok = r.Lookup("sis", "S")
	chk.True(ok)
	chk.Equal(10, v)
	v, ok = r.Lookup("sir", "simulation_time")
	chk.True(ok)
	chk.Equal(4.5, v)

	m := r.AsMap()
	chk.Equal(4.5, m["simulation_time"])
	inst, ok := m["sir"].(map[string]any)
	chk.True(ok)
	chk.Equal(90, inst["S"])
}
