package interval

import (
	"errors"
	"fmt"
)

// Verify walks the whole tree and checks the ordering, red-black and
// max-end invariants, returning every violation found.
func (r *Tree[K]) Verify() error {
	var errm error
	if r.root == 0 {
		if r.count != 0 {
			errm = errors.Join(errm, fmt.Errorf("empty tree reports %d nodes", r.count))
		}
		return errm
	}
	if r.nodes[r.root].Parent != 0 {
		errm = errors.Join(errm, fmt.Errorf("root %d has parent %d", r.root, r.nodes[r.root].Parent))
	}
	if r.nodes[r.root].Color != black {
		errm = errors.Join(errm, fmt.Errorf("root %d is red", r.root))
	}

	seen := 0
	_, err := r.verifyNode(r.root, &seen)
	errm = errors.Join(errm, err)
	if seen != r.count {
		errm = errors.Join(errm, fmt.Errorf("reachable nodes %d, count %d", seen, r.count))
	}
	all := r.All()
	for i := 1; i < len(all); i++ {
		if r.cmp(all[i-1].Start, all[i].Start) > 0 {
			errm = errors.Join(errm, fmt.Errorf("in-order position %d starts before its predecessor", i))
		}
	}
	if live := len(r.nodes) - 1 - len(r.availableIndexes); live != r.count {
		errm = errors.Join(errm, fmt.Errorf("arena holds %d live slots, count %d", live, r.count))
	}
	return errm
}

// verifyNode returns the black height of the subtree rooted at i.
func (r *Tree[K]) verifyNode(i uint, seen *int) (int, error) {
	if i == 0 {
		return 1, nil
	}
	*seen++
	var errm error
	n := &r.nodes[i]
	if !n.Live {
		errm = errors.Join(errm, fmt.Errorf("node %d is linked but not live", i))
	}
	if r.cmp(n.Start, n.End) > 0 {
		errm = errors.Join(errm, fmt.Errorf("node %d: start after end", i))
	}

	want := n.End
	for _, c := range []uint{n.Left, n.Right} {
		if c == 0 {
			continue
		}
		child := &r.nodes[c]
		if child.Parent != i {
			errm = errors.Join(errm, fmt.Errorf("node %d: child %d points to parent %d", i, c, child.Parent))
		}
		if n.Color == red && child.Color == red {
			errm = errors.Join(errm, fmt.Errorf("node %d: red node with red child %d", i, c))
		}
		if r.cmp(child.MaxEnd, want) > 0 {
			want = child.MaxEnd
		}
	}
	if n.Left != 0 && r.cmp(r.nodes[n.Left].Start, n.Start) > 0 {
		errm = errors.Join(errm, fmt.Errorf("node %d: left child %d starts after it", i, n.Left))
	}
	if n.Right != 0 && r.cmp(r.nodes[n.Right].Start, n.Start) < 0 {
		errm = errors.Join(errm, fmt.Errorf("node %d: right child %d starts before it", i, n.Right))
	}
	if r.cmp(n.MaxEnd, want) != 0 {
		errm = errors.Join(errm, fmt.Errorf("node %d: max end is stale", i))
	}

	lh, err := r.verifyNode(n.Left, seen)
	errm = errors.Join(errm, err)
	rh, err := r.verifyNode(n.Right, seen)
	errm = errors.Join(errm, err)
	if lh != rh {
		errm = errors.Join(errm, fmt.Errorf("node %d: black height %d left, %d right", i, lh, rh))
	}
	if n.Color == black {
		lh++
	}
	return lh, errm
}
