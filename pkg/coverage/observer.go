package coverage

import (
	"math/big"

	"github.com/henderiw/intervalcov/pkg/interval"
)

// Observer is notified while Compute drains the tree. OnMember fires for
// every interval absorbed into the current cluster, OnCluster once the
// cluster is closed, with the running total including it.
type Observer[K any] interface {
	OnMember(iv interval.Interval[K])
	OnCluster(c Cluster[K], running *big.Int)
}

// ObserverFuncs adapts plain functions to an Observer. Nil fields are skipped.
type ObserverFuncs[K any] struct {
	Member  func(iv interval.Interval[K])
	Cluster func(c Cluster[K], running *big.Int)
}

func (o ObserverFuncs[K]) OnMember(iv interval.Interval[K]) {
	if o.Member != nil {
		o.Member(iv)
	}
}

func (o ObserverFuncs[K]) OnCluster(c Cluster[K], running *big.Int) {
	if o.Cluster != nil {
		o.Cluster(c, running)
	}
}

// Observers fans notifications out in order.
type Observers[K any] []Observer[K]

func (obs Observers[K]) OnMember(iv interval.Interval[K]) {
	for _, o := range obs {
		o.OnMember(iv)
	}
}

func (obs Observers[K]) OnCluster(c Cluster[K], running *big.Int) {
	for _, o := range obs {
		o.OnCluster(c, running)
	}
}

type nopObserver[K any] struct{}

func (nopObserver[K]) OnMember(interval.Interval[K]) {}
func (nopObserver[K]) OnCluster(Cluster[K], *big.Int) {}
