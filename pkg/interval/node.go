package interval

type color bool

const (
	red   color = false
	black color = true
)

// Handle refers to a node owned by a Tree. It stays valid until the node is
// removed; removing other nodes never invalidates it.
type Handle uint

// Interval is a closed range [Start, End].
type Interval[K any] struct {
	Start K
	End   K
}

type treeNode[K any] struct {
	Start  K
	End    K
	MaxEnd K // max End over this node and both subtrees
	Left   uint // left node index: 0 for not set
	Right  uint // right node index: 0 for not set
	Parent uint // parent node index: 0 for the root
	Color  color
	Live   bool
}

func (n *treeNode[K]) interval() Interval[K] {
	return Interval[K]{Start: n.Start, End: n.End}
}
