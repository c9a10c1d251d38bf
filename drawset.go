// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package episim

import (
	"math/rand/v2"

	"github.com/gammazero/deque"
)

// A DrawSet is an ordered set supporting O(log n) insertion, removal,
// membership testing, and uniform random draw. It is the backing store for
// set-based loci, where the draw operation must not enumerate members.
//
// Internally it is a height-balanced (AVL) search tree whose nodes live in an
// index-addressed arena and carry subtree sizes, so a random index in
// [0, Len()) can be resolved to an element by descending the tree. There are
// no parent pointers; rebalancing happens on the way back up the recursion.
//
// A DrawSet is not safe for concurrent use, matching the single-threaded
// execution model of [Dynamics].
type DrawSet[E any] struct {
	cmp   func(E, E) int
	nodes []setNode[E]
	free  []int
	root  int
}

type setNode[E any] struct {
	data        E
	left, right int
	height      int
	leftSize    int
	rightSize   int
}

const nilNode = -1

// NewDrawSet creates an empty set ordered by the given comparison function,
// which must return a negative, zero, or positive value exactly as
// [cmp.Compare] does.
func NewDrawSet[E any](cmp func(E, E) int) *DrawSet[E] {
	return &DrawSet[E]{cmp: cmp, root: nilNode}
}

// NewNodeSet creates an empty set of network nodes.
func NewNodeSet() *DrawSet[Node] {
	return NewDrawSet(Node.Cmp)
}

// NewEdgeSet creates an empty set of network edges.
func NewEdgeSet() *DrawSet[Edge] {
	return NewDrawSet(Edge.Cmp)
}

// Len returns the number of elements in the set.
func (s *DrawSet[E]) Len() int {
	return s.sizeOf(s.root)
}

// Contains reports whether e is in the set.
func (s *DrawSet[E]) Contains(e E) bool {
	i := s.root
	for i != nilNode {
		switch c := s.cmp(e, s.nodes[i].data); {
		case c < 0:
			i = s.nodes[i].left
		case c > 0:
			i = s.nodes[i].right
		default:
			return true
		}
	}
	return false
}

// Add inserts e, reporting whether the set changed. Adding an element that is
// already present is a no-op.
func (s *DrawSet[E]) Add(e E) bool {
	root, added := s.insert(s.root, e)
	s.root = root
	return added
}

// Discard removes e if present, reporting whether the set changed.
func (s *DrawSet[E]) Discard(e E) bool {
	root, removed := s.delete(s.root, e)
	s.root = root
	return removed
}

// Remove removes e, failing with [ErrElementNotFound] if it is absent. Use
// [DrawSet.Discard] when absence is not an error.
func (s *DrawSet[E]) Remove(e E) error {
	if !s.Discard(e) {
		return ErrElementNotFound
	}
	return nil
}

// Draw returns an element chosen uniformly at random, in O(log n), without
// removing it. It fails with [ErrEmptyDraw] if the set is empty.
func (s *DrawSet[E]) Draw(r *rand.Rand) (E, error) {
	var zero E
	n := s.Len()
	if n == 0 {
		return zero, ErrEmptyDraw
	}
	i := s.root
	k := r.IntN(n)
	for {
		nd := &s.nodes[i]
		switch {
		case k < nd.leftSize:
			i = nd.left
		case k == nd.leftSize:
			return nd.data, nil
		default:
			k -= nd.leftSize + 1
			i = nd.right
		}
	}
}

// Elements returns the members of the set in ascending order. The returned
// slice is a snapshot; mutating the set does not affect it.
func (s *DrawSet[E]) Elements() []E {
	out := make([]E, 0, s.Len())
	var stack deque.Deque[int]
	i := s.root
	for i != nilNode || stack.Len() > 0 {
		for i != nilNode {
			stack.PushBack(i)
			i = s.nodes[i].left
		}
		i = stack.PopBack()
		out = append(out, s.nodes[i].data)
		i = s.nodes[i].right
	}
	return out
}

func (s *DrawSet[E]) sizeOf(i int) int {
	if i == nilNode {
		return 0
	}
	return 1 + s.nodes[i].leftSize + s.nodes[i].rightSize
}

func (s *DrawSet[E]) heightOf(i int) int {
	if i == nilNode {
		return 0
	}
	return s.nodes[i].height
}

// recompute derives height and subtree sizes from the children. It must be
// called whenever a node's children change.
func (s *DrawSet[E]) recompute(i int) {
	nd := &s.nodes[i]
	nd.height = 1 + max(s.heightOf(nd.left), s.heightOf(nd.right))
	nd.leftSize = s.sizeOf(nd.left)
	nd.rightSize = s.sizeOf(nd.right)
}

func (s *DrawSet[E]) alloc(e E) int {
	if n := len(s.free); n > 0 {
		i := s.free[n-1]
		s.free = s.free[:n-1]
		s.nodes[i] = setNode[E]{data: e, left: nilNode, right: nilNode, height: 1}
		return i
	}
	s.nodes = append(s.nodes, setNode[E]{data: e, left: nilNode, right: nilNode, height: 1})
	return len(s.nodes) - 1
}

func (s *DrawSet[E]) release(i int) {
	var zero E
	s.nodes[i].data = zero
	s.free = append(s.free, i)
}

func (s *DrawSet[E]) rotateLeft(i int) int {
	r := s.nodes[i].right
	s.nodes[i].right = s.nodes[r].left
	s.nodes[r].left = i
	s.recompute(i)
	s.recompute(r)
	return r
}

func (s *DrawSet[E]) rotateRight(i int) int {
	l := s.nodes[i].left
	s.nodes[i].left = s.nodes[l].right
	s.nodes[l].right = i
	s.recompute(i)
	s.recompute(l)
	return l
}

// rebalance restores the AVL height invariant at i, applying a single or
// double rotation as needed, and returns the new subtree root. For an
// insertion at most one ancestor actually rotates; after a deletion every
// ancestor on the search path may need fixing, which the recursive unwind in
// delete provides.
func (s *DrawSet[E]) rebalance(i int) int {
	s.recompute(i)
	nd := &s.nodes[i]
	switch bf := s.heightOf(nd.left) - s.heightOf(nd.right); {
	case bf > 1:
		if s.heightOf(s.nodes[nd.left].left) < s.heightOf(s.nodes[nd.left].right) {
			nd.left = s.rotateLeft(nd.left)
		}
		return s.rotateRight(i)
	case bf < -1:
		if s.heightOf(s.nodes[nd.right].right) < s.heightOf(s.nodes[nd.right].left) {
			nd.right = s.rotateRight(nd.right)
		}
		return s.rotateLeft(i)
	}
	return i
}

func (s *DrawSet[E]) insert(i int, e E) (int, bool) {
	if i == nilNode {
		return s.alloc(e), true
	}
	// The recursive call may grow the arena, so the child link must be
	// re-resolved after the call rather than captured as an assignment target
	// beforehand.
	var added bool
	switch c := s.cmp(e, s.nodes[i].data); {
	case c < 0:
		child, ok := s.insert(s.nodes[i].left, e)
		s.nodes[i].left, added = child, ok
	case c > 0:
		child, ok := s.insert(s.nodes[i].right, e)
		s.nodes[i].right, added = child, ok
	default:
		return i, false
	}
	if !added {
		return i, false
	}
	return s.rebalance(i), true
}

func (s *DrawSet[E]) delete(i int, e E) (int, bool) {
	if i == nilNode {
		return nilNode, false
	}
	var removed bool
	switch c := s.cmp(e, s.nodes[i].data); {
	case c < 0:
		child, ok := s.delete(s.nodes[i].left, e)
		s.nodes[i].left, removed = child, ok
	case c > 0:
		child, ok := s.delete(s.nodes[i].right, e)
		s.nodes[i].right, removed = child, ok
	default:
		switch left, right := s.nodes[i].left, s.nodes[i].right; {
		case left == nilNode:
			s.release(i)
			return right, true
		case right == nilNode:
			s.release(i)
			return left, true
		default:
			// Two children: replace with the predecessor or successor taken
			// from the taller subtree so the deletion below tends to shrink
			// the heavier side.
			if s.heightOf(left) >= s.heightOf(right) {
				repl := s.nodes[s.maxOf(left)].data
				s.nodes[i].data = repl
				child, _ := s.delete(left, repl)
				s.nodes[i].left = child
			} else {
				repl := s.nodes[s.minOf(right)].data
				s.nodes[i].data = repl
				child, _ := s.delete(right, repl)
				s.nodes[i].right = child
			}
			removed = true
		}
	}
	if !removed {
		return i, false
	}
	return s.rebalance(i), true
}

func (s *DrawSet[E]) minOf(i int) int {
	for s.nodes[i].left != nilNode {
		i = s.nodes[i].left
	}
	return i
}

func (s *DrawSet[E]) maxOf(i int) int {
	for s.nodes[i].right != nilNode {
		i = s.nodes[i].right
	}
	return i
}
