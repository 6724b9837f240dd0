package coverage

import (
	"math/big"
	"slices"

	"github.com/henderiw/intervalcov/pkg/interval"
	"github.com/henderiw/intervalcov/pkg/keyspace"
)

// SortMerge computes the same total as Compute without a tree: sort by
// start, sweep, and add up the merged spans. It does not modify ivs.
func SortMerge[K any](space keyspace.Space[K], ivs []interval.Interval[K]) *big.Int {
	total := new(big.Int)
	if len(ivs) == 0 {
		return total
	}
	sorted := slices.Clone(ivs)
	slices.SortFunc(sorted, func(a, b interval.Interval[K]) int {
		return space.Compare(a.Start, b.Start)
	})

	prev := sorted[0]
	for _, r := range sorted[1:] {
		switch {
		case space.Compare(r.Start, prev.End) > 0:
			// No overlap, prev is final.
			//
			//   prev       r
			// s------e  s-----e
			total.Add(total, space.Length(prev.Start, prev.End))
			prev = r
		case space.Compare(prev.End, r.End) < 0:
			// Partial overlap, extend prev.
			//
			//   prev
			// s------e
			//     s-----e
			//        r
			prev.End = r.End
		default:
			// r entirely contained in prev, nothing to do.
		}
	}
	return total.Add(total, space.Length(prev.Start, prev.End))
}
