// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/petenewcomb/episim-go"
	"github.com/stretchr/testify/require"
)

func TestRunPackagesResults(t *testing.T) {
	chk := require.New(t)

	p := episim.NewParams()
	p.Set(episim.PInfected, 0.25)
	p.Set(episim.PInfect, 0.1)
	p.Set(episim.PRemove, 0.5)

	d := episim.NewStochasticDynamics(episim.NewFixedNetwork(pathGraph(20)), episim.NewSIR())
	d.SetSeed(9)
	rs := episim.Run(d, p)

	chk.True(rs.Metadata.Succeeded)
	chk.Empty(rs.Metadata.Error)
	_, err := uuid.Parse(rs.RunID)
	chk.NoError(err)
	chk.Equal(0.25, rs.Parameters[episim.PInfected])
	chk.Contains(rs.Results, "simulation_time")
	chk.Contains(rs.Results, "event_count")
	chk.Contains(rs.Results, episim.Susceptible)
	chk.False(rs.Metadata.End.Before(rs.Metadata.Start))
}

func TestRunCapturesSetupFailure(t *testing.T) {
	chk := require.New(t)

	// Missing model parameters make SetUp fail; Run reports a failed run
	// instead of propagating the error.
	d := episim.NewStochasticDynamics(episim.NewFixedNetwork(pathGraph(5)), episim.NewSIR())
	rs := episim.Run(d, episim.NewParams())

	chk.False(rs.Metadata.Succeeded)
	chk.NotEmpty(rs.Metadata.Error)
	chk.Nil(rs.Results)
	chk.NotEmpty(rs.RunID)
}

func TestRunCapturesHandlerFailure(t *testing.T) {
	chk := require.New(t)

	proc := &scriptedProcess{}
	proc.build = func(p *scriptedProcess, params *episim.Params) error {
		clock, err := p.AddSingletonLocus("clock")
		if err != nil {
			return err
		}
		p.AddFixedRateEvent(clock, 1.0, func(t float64, e episim.Element) error {
			return episim.ErrRuntimeFailure
		}, "exploding")
		return nil
	}

	d := episim.NewStochasticDynamics(episim.NewFixedNetwork(pathGraph(2)), proc)
	d.SetSeed(9)
	rs := episim.Run(d, episim.NewParams())

	chk.False(rs.Metadata.Succeeded)
	chk.Contains(rs.Metadata.Error, "exploding")
	chk.Nil(rs.Results)
}
