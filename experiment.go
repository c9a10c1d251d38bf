// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import (
	"time"

	"github.com/google/uuid"
)

// An Experiment is anything that can be taken through the standard
// set-up/run/tear-down cycle by an experiment harness. Both dynamics
// strategies satisfy it.
type Experiment interface {
	SetUp(p *Params) error
	Do(p *Params) (*Results, error)
	TearDown() error
}

// A ResultSet packages one run of an [Experiment]: the parameters it ran
// with, the results it produced, and metadata about the run itself. Failed
// runs carry their error in the metadata instead of results.
type ResultSet struct {
	RunID      string         `json:"run_id" yaml:"run_id"`
	Parameters map[string]any `json:"parameters" yaml:"parameters"`
	Results    map[string]any `json:"results,omitempty" yaml:"results,omitempty"`
	Metadata   Metadata       `json:"metadata" yaml:"metadata"`
}

// Metadata records the run-level bookkeeping of a [ResultSet].
type Metadata struct {
	Start        time.Time     `json:"start" yaml:"start"`
	End          time.Time     `json:"end" yaml:"end"`
	SetupTime    time.Duration `json:"setup_time" yaml:"setup_time"`
	RunTime      time.Duration `json:"run_time" yaml:"run_time"`
	TeardownTime time.Duration `json:"teardown_time" yaml:"teardown_time"`
	Succeeded    bool          `json:"succeeded" yaml:"succeeded"`
	Error        string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Run takes e through one complete set-up/run/tear-down cycle and reports
// the outcome as a [ResultSet]. Unlike calling [Experiment.Do] directly,
// which propagates errors to the caller, Run captures any failure as a
// failed-run outcome: the result set's metadata records the error and
// tear-down still happens.
func Run(e Experiment, p *Params) *ResultSet {
	rs := &ResultSet{
		RunID:      uuid.NewString(),
		Parameters: p.AsMap(),
	}
	rs.Metadata.Start = time.Now()

	fail := func(err error) {
		if rs.Metadata.Error == "" {
			rs.Metadata.Error = err.Error()
		}
	}

	setupStart := time.Now()
	err := e.SetUp(p)
	rs.Metadata.SetupTime = time.Since(setupStart)
	if err != nil {
		fail(err)
	} else {
		runStart := time.Now()
		res, err := e.Do(p)
		rs.Metadata.RunTime = time.Since(runStart)
		if err != nil {
			fail(err)
		} else {
			rs.Results = res.AsMap()
		}
	}

	teardownStart := time.Now()
	if err := e.TearDown(); err != nil {
		fail(err)
	}
	rs.Metadata.TeardownTime = time.Since(teardownStart)

	rs.Metadata.End = time.Now()
	rs.Metadata.Succeeded = rs.Metadata.Error == ""
	return rs
}
