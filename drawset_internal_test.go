// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// checkTree verifies the structural invariants of the whole tree: stored
// heights and subtree sizes match reality and every node is height-balanced.
func checkTree(chk *require.Assertions, s *DrawSet[Node]) {
	_, size := checkSubtree(chk, s, s.root)
	chk.Equal(size, s.Len())
}

func checkSubtree(chk *require.Assertions, s *DrawSet[Node], i int) (height, size int) {
	if i == nilNode {
		return 0, 0
	}
	nd := s.nodes[i]
	lh, ls := checkSubtree(chk, s, nd.left)
	rh, rs := checkSubtree(chk, s, nd.right)
	chk.Equal(1+max(lh, rh), nd.height, "stored height of %v", nd.data)
	chk.Equal(ls, nd.leftSize, "stored left size of %v", nd.data)
	chk.Equal(rs, nd.rightSize, "stored right size of %v", nd.data)
	bf := lh - rh
	chk.LessOrEqual(bf, 1, "balance at %v", nd.data)
	chk.GreaterOrEqual(bf, -1, "balance at %v", nd.data)
	return nd.height, 1 + ls + rs
}

func TestDrawSetAscendingInsertionRotates(t *testing.T) {
	chk := require.New(t)
	s := NewNodeSet()
	s.Add(1)
	s.Add(2)
	s.Add(3)

	chk.Equal(3, s.Len())
	chk.Equal([]Node{1, 2, 3}, s.Elements())
	// Inserting 3 unbalances the root; a single left rotation promotes 2.
	chk.Equal(Node(2), s.nodes[s.root].data)
	checkTree(chk, s)
}

func TestDrawSetInsertionOrders(t *testing.T) {
	const n = 1000
	orders := map[string]func() []Node{
		"ascending": func() []Node {
			out := make([]Node, n)
			for i := range out {
				out[i] = Node(i)
			}
			return out
		},
		"descending": func() []Node {
			out := make([]Node, n)
			for i := range out {
				out[i] = Node(n - 1 - i)
			}
			return out
		},
		"shuffled": func() []Node {
			r := rand.New(rand.NewPCG(7, 7))
			out := make([]Node, n)
			for i := range out {
				out[i] = Node(i)
			}
			r.Shuffle(n, func(i, j int) {
				out[i], out[j] = out[j], out[i]
			})
			return out
		},
	}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			chk := require.New(t)
			s := NewNodeSet()
			for _, v := range order() {
				chk.True(s.Add(v))
			}
			checkTree(chk, s)
			chk.Equal(n, s.Len())
			want := make([]Node, n)
			for i := range want {
				want[i] = Node(i)
			}
			chk.Equal(want, s.Elements())

			// Deleting must restore balance even when multiple rotations are
			// needed on the way back to the root.
			for i := 0; i < n; i += 2 {
				chk.True(s.Discard(Node(i)))
			}
			checkTree(chk, s)
			chk.Equal(n/2, s.Len())
		})
	}
}

// TestDrawSetRapid exercises random operation sequences against a map model,
// checking the tree invariants between actions.
func TestDrawSetRapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)
		s := NewNodeSet()
		model := make(map[Node]struct{})
		element := rapid.Custom(func(t *rapid.T) Node {
			return Node(rapid.IntRange(0, 200).Draw(t, "element"))
		})

		t.Repeat(map[string]func(*rapid.T){
			"add": func(t *rapid.T) {
				v := element.Draw(t, "v")
				_, present := model[v]
				chk.Equal(!present, s.Add(v))
				model[v] = struct{}{}
			},
			"discard": func(t *rapid.T) {
				v := element.Draw(t, "v")
				_, present := model[v]
				chk.Equal(present, s.Discard(v))
				delete(model, v)
			},
			"contains": func(t *rapid.T) {
				v := element.Draw(t, "v")
				_, present := model[v]
				chk.Equal(present, s.Contains(v))
			},
			"": func(t *rapid.T) {
				chk.Equal(len(model), s.Len())
				checkTree(chk, s)
			},
		})
	})
}
