// Package coverage computes how much of a key space a set of intervals
// covers, counting overlapping stretches once.
package coverage

import (
	"math/big"

	"github.com/henderiw/intervalcov/pkg/interval"
	"github.com/henderiw/intervalcov/pkg/keyspace"
)

// Cluster is a maximal run of transitively overlapping intervals. Its union
// is the single span [Start, End].
type Cluster[K any] struct {
	Start   K
	End     K
	Members []interval.Interval[K]
	Length  *big.Int
}

type Result[K any] struct {
	Clusters []Cluster[K]
	Total    *big.Int
}

type Aggregator[K any] struct {
	space       keyspace.Space[K]
	observer    Observer[K]
	keepMembers bool
}

type Option[K any] func(*Aggregator[K])

// WithObserver reports progress to o while the tree is drained.
func WithObserver[K any](o Observer[K]) Option[K] {
	return func(a *Aggregator[K]) { a.observer = o }
}

// WithoutMembers drops cluster members from the Result. Observers still see
// every member.
func WithoutMembers[K any]() Option[K] {
	return func(a *Aggregator[K]) { a.keepMembers = false }
}

func New[K any](space keyspace.Space[K], opts ...Option[K]) *Aggregator[K] {
	a := &Aggregator[K]{
		space:       space,
		observer:    nopObserver[K]{},
		keepMembers: true,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Compute drains every interval reachable from a scan over [lo, hi] out of t,
// merging them into clusters and summing the cluster lengths. Nodes that
// overlap a cluster are absorbed even when they lie beyond hi.
//
// t is consumed: with the full key range as scan bounds it is empty on
// return. Clone it first if the intervals are needed afterwards.
func (a *Aggregator[K]) Compute(t *interval.Tree[K], lo, hi K) *Result[K] {
	res := &Result[K]{Total: new(big.Int)}
	for {
		h, ok := t.IterFirst(lo, hi)
		if !ok {
			return res
		}
		c := a.drainCluster(t, h)
		res.Total.Add(res.Total, c.Length)
		a.observer.OnCluster(c, res.Total)
		res.Clusters = append(res.Clusters, c)
	}
}

// ComputeAll drains every interval out of t. The upper scan bound is the
// key space maximum, widened to the largest stored end for spaces whose keys
// can exceed it.
func (a *Aggregator[K]) ComputeAll(t *interval.Tree[K]) *Result[K] {
	return a.Compute(t, a.space.Min(), UpperBound(a.space, t))
}

// UpperBound returns the larger of space.Max() and the largest end key
// stored in t.
func UpperBound[K any](space keyspace.Space[K], t *interval.Tree[K]) K {
	hi := space.Max()
	if m, ok := t.MaxEnd(); ok && space.Compare(m, hi) > 0 {
		hi = m
	}
	return hi
}

// drainCluster removes h and everything transitively overlapping it.
func (a *Aggregator[K]) drainCluster(t *interval.Tree[K], h interval.Handle) Cluster[K] {
	first := t.Get(h)
	c := Cluster[K]{Start: first.Start, End: first.End}
	for {
		n := t.Get(h)
		if a.space.Compare(n.Start, c.Start) < 0 {
			c.Start = n.Start
		}
		if a.space.Compare(n.End, c.End) > 0 {
			c.End = n.End
		}
		a.observer.OnMember(n)

		// search with the grown window before h leaves the tree
		next, more := t.IterNext(h, c.Start, c.End)
		removed := t.Remove(h)
		if a.keepMembers {
			c.Members = append(c.Members, removed)
		}
		if !more {
			break
		}
		h = next
	}
	c.Length = a.space.Length(c.Start, c.End)
	return c
}
