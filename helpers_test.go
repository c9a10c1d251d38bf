// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim_test

import (
	"github.com/petenewcomb/episim-go"
)

// scriptedProcess is a minimal process whose behavior is supplied by the
// test through function fields. Unset fields fall back to the BaseProcess
// defaults.
type scriptedProcess struct {
	episim.BaseProcess
	build       func(p *scriptedProcess, params *episim.Params) error
	setup       func(p *scriptedProcess, params *episim.Params) error
	equilibrium func(p *scriptedProcess, t float64) bool
}

func (p *scriptedProcess) Build(params *episim.Params) error {
	if p.build != nil {
		return p.build(p, params)
	}
	return nil
}

func (p *scriptedProcess) SetUp(params *episim.Params) error {
	if p.setup != nil {
		return p.setup(p, params)
	}
	return nil
}

func (p *scriptedProcess) AtEquilibrium(t float64) bool {
	if p.equilibrium != nil {
		return p.equilibrium(p, t)
	}
	return p.BaseProcess.AtEquilibrium(t)
}

// pathGraph builds the path 0-1-...-(n-1).
func pathGraph(n int) *episim.Graph {
	g := episim.NewGraph()
	g.AddNode(0)
	for i := 1; i < n; i++ {
		g.AddEdge(episim.Node(i-1), episim.Node(i))
	}
	return g
}
