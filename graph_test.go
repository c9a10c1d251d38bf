// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim_test

import (
	"math/rand/v2"
	"testing"

	"github.com/petenewcomb/episim-go"
	"github.com/stretchr/testify/require"
)

func TestGraphBasics(t *testing.T) {
	chk := require.New(t)
	g := episim.NewGraph()

	chk.True(g.AddNode(1))
	chk.False(g.AddNode(1))
	chk.Equal(1, g.Order())

	_, added := g.AddEdge(1, 2)
	chk.True(added)
	chk.Equal(2, g.Order(), "AddEdge adds missing endpoints")
	chk.Equal(1, g.Size())
	chk.True(g.HasEdge(2, 1), "edges are undirected")

	_, added = g.AddEdge(2, 1)
	chk.False(added, "parallel edges are rejected")
	_, added = g.AddEdge(1, 1)
	chk.False(added, "self-loops are rejected")

	chk.Equal(1, g.Degree(1))
	chk.Equal([]episim.Node{2}, g.Neighbors(1))
}

func TestGraphRemoveNodeRemovesIncidentEdges(t *testing.T) {
	chk := require.New(t)
	g := episim.NewGraph()
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 3)

	removed, ok := g.RemoveNode(1)
	chk.True(ok)
	chk.ElementsMatch([]episim.Edge{episim.NewEdge(1, 2), episim.NewEdge(1, 3)}, removed)
	chk.Equal(2, g.Order())
	chk.Equal(1, g.Size())
	chk.True(g.HasEdge(2, 3))

	_, ok = g.RemoveNode(1)
	chk.False(ok)
}

// Adjacency snapshots come back in ascending order however the edges were
// inserted, so removal notifications driven from them are reproducible.
func TestGraphAdjacencySnapshotsAreSorted(t *testing.T) {
	chk := require.New(t)
	g := episim.NewGraph()
	for _, v := range []episim.Node{7, 3, 9, 1, 5} {
		g.AddEdge(4, v)
	}

	chk.Equal([]episim.Node{1, 3, 5, 7, 9}, g.Neighbors(4))
	chk.Equal([]episim.Edge{
		episim.NewEdge(1, 4),
		episim.NewEdge(3, 4),
		episim.NewEdge(4, 5),
		episim.NewEdge(4, 7),
		episim.NewEdge(4, 9),
	}, g.IncidentEdges(4))

	removed, ok := g.RemoveNode(4)
	chk.True(ok)
	chk.Equal([]episim.Edge{
		episim.NewEdge(1, 4),
		episim.NewEdge(3, 4),
		episim.NewEdge(4, 5),
		episim.NewEdge(4, 7),
		episim.NewEdge(4, 9),
	}, removed)
}

func TestGraphRandomDraws(t *testing.T) {
	chk := require.New(t)
	r := rand.New(rand.NewPCG(3, 3))
	g := episim.NewGraph()

	_, err := g.RandomNode(r)
	chk.ErrorIs(err, episim.ErrEmptyDraw)
	_, err = g.RandomEdge(r)
	chk.ErrorIs(err, episim.ErrEmptyDraw)

	g.AddEdge(1, 2)
	n, err := g.RandomNode(r)
	chk.NoError(err)
	chk.True(g.HasNode(n))
	e, err := g.RandomEdge(r)
	chk.NoError(err)
	chk.Equal(episim.NewEdge(1, 2), e)
}
