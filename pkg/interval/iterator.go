package interval

// Iterator walks the intervals overlapping a fixed range in start order.
// The tree must not be modified while the iterator is in use.
type Iterator[K any] struct {
	t       *Tree[K]
	lo, hi  K
	current Handle
	started bool
	done    bool
}

// Iterate returns an iterator over all intervals overlapping [lo, hi].
func (r *Tree[K]) Iterate(lo, hi K) *Iterator[K] {
	return &Iterator[K]{t: r, lo: lo, hi: hi}
}

// Next advances to the next overlapping interval. It returns false when
// there is none.
func (iter *Iterator[K]) Next() bool {
	if iter.done {
		return false
	}
	var h Handle
	var ok bool
	if !iter.started {
		iter.started = true
		h, ok = iter.t.IterFirst(iter.lo, iter.hi)
	} else {
		h, ok = iter.t.IterNext(iter.current, iter.lo, iter.hi)
	}
	if !ok {
		iter.done = true
		return false
	}
	iter.current = h
	return true
}

// Value returns the current interval.
func (iter *Iterator[K]) Value() Interval[K] { return iter.t.Get(iter.current) }
