// Package interval implements an augmented red-black tree of closed
// intervals. Nodes are ordered by start key and every node carries the
// maximum end key of its subtree, which lets overlap searches skip whole
// subtrees.
//
// The tree is not safe for concurrent use.
package interval

import (
	"fmt"
)

// CompareFunc is a three-way comparator: negative when a < b, zero when
// equal, positive when a > b.
type CompareFunc[K any] func(a, b K) int

type Tree[K any] struct {
	cmp              CompareFunc[K]
	nodes            []treeNode[K] // [0] is the black sentinel, never live
	availableIndexes []uint        // slots freed by Remove, reused by Insert
	root             uint
	count            int
}

func New[K any](cmp CompareFunc[K]) *Tree[K] {
	t := &Tree[K]{
		cmp:              cmp,
		nodes:            make([]treeNode[K], 1, 16),
		availableIndexes: make([]uint, 0),
	}
	t.nodes[0].Color = black
	return t
}

// Clone creates an identical copy of the tree. Handles obtained from r are
// valid in the clone and refer to the same intervals.
func (r *Tree[K]) Clone() *Tree[K] {
	ret := &Tree[K]{
		cmp:              r.cmp,
		nodes:            make([]treeNode[K], len(r.nodes), cap(r.nodes)),
		availableIndexes: make([]uint, len(r.availableIndexes), cap(r.availableIndexes)),
		root:             r.root,
		count:            r.count,
	}
	copy(ret.nodes, r.nodes)
	copy(ret.availableIndexes, r.availableIndexes)
	return ret
}

// Len returns the number of intervals in the tree.
func (r *Tree[K]) Len() int { return r.count }

// MaxEnd returns the largest end key in the tree. It reports false when the
// tree is empty.
func (r *Tree[K]) MaxEnd() (K, bool) {
	if r.root == 0 {
		var zero K
		return zero, false
	}
	return r.nodes[r.root].MaxEnd, true
}

// Get returns the interval stored at h.
func (r *Tree[K]) Get(h Handle) Interval[K] {
	r.mustBeLive(h)
	return r.nodes[h].interval()
}

// Insert adds [start, end] and returns its handle. Intervals with equal start
// keys are kept in insertion order. Insert panics if start is after end.
func (r *Tree[K]) Insert(start, end K) Handle {
	if r.cmp(start, end) > 0 {
		panic("interval: insert of an interval whose start is after its end")
	}
	z := r.newNode(start, end)

	y := uint(0)
	x := r.root
	for x != 0 {
		y = x
		n := &r.nodes[x]
		if r.cmp(n.MaxEnd, end) < 0 {
			n.MaxEnd = end
		}
		if r.cmp(start, n.Start) < 0 {
			x = n.Left
		} else {
			x = n.Right
		}
	}
	r.nodes[z].Parent = y
	switch {
	case y == 0:
		r.root = z
	case r.cmp(start, r.nodes[y].Start) < 0:
		r.nodes[y].Left = z
	default:
		r.nodes[y].Right = z
	}

	r.insertFixup(z)
	r.count++
	return Handle(z)
}

// Remove unlinks the node at h and returns its interval; the caller owns the
// returned value and h becomes invalid. Remove panics if h is not a live
// node of this tree.
func (r *Tree[K]) Remove(h Handle) Interval[K] {
	r.mustBeLive(h)
	z := uint(h)
	ret := r.nodes[z].interval()

	y := z
	yColor := r.nodes[y].Color
	var x uint
	switch {
	case r.nodes[z].Left == 0:
		x = r.nodes[z].Right
		r.transplant(z, x)
	case r.nodes[z].Right == 0:
		x = r.nodes[z].Left
		r.transplant(z, x)
	default:
		// z has two children: its successor y takes its place. Nodes are
		// relinked, never copied, so outstanding handles stay valid.
		y = r.minimum(r.nodes[z].Right)
		yColor = r.nodes[y].Color
		x = r.nodes[y].Right
		if r.nodes[y].Parent == z {
			r.nodes[x].Parent = y
		} else {
			r.transplant(y, x)
			r.nodes[y].Right = r.nodes[z].Right
			r.nodes[r.nodes[y].Right].Parent = y
		}
		r.transplant(z, y)
		r.nodes[y].Left = r.nodes[z].Left
		r.nodes[r.nodes[y].Left].Parent = y
		r.nodes[y].Color = r.nodes[z].Color
	}

	// x's parent is the lowest node whose subtree lost z.
	r.propagateMaxEnd(r.nodes[x].Parent)
	if yColor == black {
		r.deleteFixup(x)
	}
	r.nodes[0].Parent = 0

	r.freeNode(z)
	r.count--
	return ret
}

// IterFirst returns the node with the smallest start key overlapping
// [lo, hi], that is start <= hi and end >= lo.
func (r *Tree[K]) IterFirst(lo, hi K) (Handle, bool) {
	if r.root == 0 || r.cmp(r.nodes[r.root].MaxEnd, lo) < 0 {
		return 0, false
	}
	return r.subtreeSearch(r.root, lo, hi)
}

// IterNext returns the node following h in start order that overlaps
// [lo, hi]. The range may differ from the one h was found with; it is
// re-evaluated against every subtree visited by this call. When ranges only
// widen between calls no node is visited twice or skipped.
func (r *Tree[K]) IterNext(h Handle, lo, hi K) (Handle, bool) {
	r.mustBeLive(h)
	node := uint(h)
	right := r.nodes[node].Right
	for {
		if right != 0 && r.cmp(lo, r.nodes[right].MaxEnd) <= 0 {
			return r.subtreeSearch(right, lo, hi)
		}

		// climb until we arrive from a left child
		for {
			parent := r.nodes[node].Parent
			if parent == 0 {
				return 0, false
			}
			prev := node
			node = parent
			right = r.nodes[node].Right
			if prev != right {
				break
			}
		}

		n := &r.nodes[node]
		if r.cmp(hi, n.Start) < 0 {
			return 0, false
		}
		if r.cmp(lo, n.End) <= 0 {
			return Handle(node), true
		}
	}
}

// subtreeSearch returns the leftmost node under i overlapping [lo, hi].
// The caller guarantees the subtree's MaxEnd is at least lo.
func (r *Tree[K]) subtreeSearch(i uint, lo, hi K) (Handle, bool) {
	for {
		n := &r.nodes[i]
		if n.Left != 0 && r.cmp(r.nodes[n.Left].MaxEnd, lo) >= 0 {
			// the left subtree holds either the answer or proof there is none
			i = n.Left
			continue
		}
		if r.cmp(n.Start, hi) <= 0 {
			if r.cmp(n.End, lo) >= 0 {
				return Handle(i), true
			}
			if n.Right != 0 && r.cmp(r.nodes[n.Right].MaxEnd, lo) >= 0 {
				i = n.Right
				continue
			}
		}
		return 0, false
	}
}

// All returns every interval in start order.
func (r *Tree[K]) All() []Interval[K] {
	ret := make([]Interval[K], 0, r.count)
	if r.root == 0 {
		return ret
	}
	for i := r.minimum(r.root); i != 0; i = r.successor(i) {
		ret = append(ret, r.nodes[i].interval())
	}
	return ret
}

func (r *Tree[K]) minimum(i uint) uint {
	for r.nodes[i].Left != 0 {
		i = r.nodes[i].Left
	}
	return i
}

func (r *Tree[K]) successor(i uint) uint {
	if r.nodes[i].Right != 0 {
		return r.minimum(r.nodes[i].Right)
	}
	p := r.nodes[i].Parent
	for p != 0 && i == r.nodes[p].Right {
		i = p
		p = r.nodes[p].Parent
	}
	return p
}

// create a new node in the tree, return its index
func (r *Tree[K]) newNode(start, end K) uint {
	n := treeNode[K]{Start: start, End: end, MaxEnd: end, Color: red, Live: true}
	availCount := len(r.availableIndexes)
	if availCount > 0 {
		index := r.availableIndexes[availCount-1]
		r.availableIndexes = r.availableIndexes[:availCount-1]
		r.nodes[index] = n
		return index
	}

	r.nodes = append(r.nodes, n)
	return uint(len(r.nodes) - 1)
}

func (r *Tree[K]) freeNode(i uint) {
	r.nodes[i] = treeNode[K]{}
	r.availableIndexes = append(r.availableIndexes, i)
}

func (r *Tree[K]) mustBeLive(h Handle) {
	if h == 0 || uint(h) >= uint(len(r.nodes)) || !r.nodes[h].Live {
		panic(fmt.Sprintf("interval: handle %d is not a node of this tree", h))
	}
}
