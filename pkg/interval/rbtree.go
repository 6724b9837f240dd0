package interval

// updateMaxEnd recomputes the augmentation of i from its own end and its
// children. The children must already be correct.
func (r *Tree[K]) updateMaxEnd(i uint) {
	n := &r.nodes[i]
	m := n.End
	if n.Left != 0 && r.cmp(r.nodes[n.Left].MaxEnd, m) > 0 {
		m = r.nodes[n.Left].MaxEnd
	}
	if n.Right != 0 && r.cmp(r.nodes[n.Right].MaxEnd, m) > 0 {
		m = r.nodes[n.Right].MaxEnd
	}
	n.MaxEnd = m
}

// propagateMaxEnd repairs the augmentation from i up to the root.
func (r *Tree[K]) propagateMaxEnd(i uint) {
	for i != 0 {
		r.updateMaxEnd(i)
		i = r.nodes[i].Parent
	}
}

// transplant replaces the subtree rooted at u with the one rooted at v. v may
// be the sentinel, whose parent is then set so deleteFixup can climb from it.
func (r *Tree[K]) transplant(u, v uint) {
	p := r.nodes[u].Parent
	switch {
	case p == 0:
		r.root = v
	case u == r.nodes[p].Left:
		r.nodes[p].Left = v
	default:
		r.nodes[p].Right = v
	}
	r.nodes[v].Parent = p
}

//	  x              y
//	 / \            / \
//	a   y    =>    x   c
//	   / \        / \
//	  b   c      a   b
func (r *Tree[K]) rotateLeft(x uint) {
	y := r.nodes[x].Right
	r.nodes[x].Right = r.nodes[y].Left
	if r.nodes[y].Left != 0 {
		r.nodes[r.nodes[y].Left].Parent = x
	}
	r.replaceChild(x, y)
	r.nodes[y].Left = x
	r.nodes[x].Parent = y

	// x is now below y: fix x first
	r.updateMaxEnd(x)
	r.updateMaxEnd(y)
}

//	    y          x
//	   / \        / \
//	  x   c  =>  a   y
//	 / \            / \
//	a   b          b   c
func (r *Tree[K]) rotateRight(y uint) {
	x := r.nodes[y].Left
	r.nodes[y].Left = r.nodes[x].Right
	if r.nodes[x].Right != 0 {
		r.nodes[r.nodes[x].Right].Parent = y
	}
	r.replaceChild(y, x)
	r.nodes[x].Right = y
	r.nodes[y].Parent = x

	r.updateMaxEnd(y)
	r.updateMaxEnd(x)
}

// replaceChild hangs n where old used to be, taking over old's parent.
func (r *Tree[K]) replaceChild(old, n uint) {
	p := r.nodes[old].Parent
	r.nodes[n].Parent = p
	switch {
	case p == 0:
		r.root = n
	case old == r.nodes[p].Left:
		r.nodes[p].Left = n
	default:
		r.nodes[p].Right = n
	}
}

func (r *Tree[K]) insertFixup(z uint) {
	for r.nodes[r.nodes[z].Parent].Color == red {
		p := r.nodes[z].Parent
		g := r.nodes[p].Parent
		if p == r.nodes[g].Left {
			uncle := r.nodes[g].Right
			if r.nodes[uncle].Color == red {
				r.nodes[p].Color = black
				r.nodes[uncle].Color = black
				r.nodes[g].Color = red
				z = g
				continue
			}
			if z == r.nodes[p].Right {
				z = p
				r.rotateLeft(z)
				p = r.nodes[z].Parent
			}
			r.nodes[p].Color = black
			r.nodes[g].Color = red
			r.rotateRight(g)
		} else {
			uncle := r.nodes[g].Left
			if r.nodes[uncle].Color == red {
				r.nodes[p].Color = black
				r.nodes[uncle].Color = black
				r.nodes[g].Color = red
				z = g
				continue
			}
			if z == r.nodes[p].Left {
				z = p
				r.rotateRight(z)
				p = r.nodes[z].Parent
			}
			r.nodes[p].Color = black
			r.nodes[g].Color = red
			r.rotateLeft(g)
		}
	}
	r.nodes[r.root].Color = black
}

func (r *Tree[K]) deleteFixup(x uint) {
	for x != r.root && r.nodes[x].Color == black {
		p := r.nodes[x].Parent
		if x == r.nodes[p].Left {
			w := r.nodes[p].Right
			if r.nodes[w].Color == red {
				r.nodes[w].Color = black
				r.nodes[p].Color = red
				r.rotateLeft(p)
				w = r.nodes[p].Right
			}
			if r.nodes[r.nodes[w].Left].Color == black && r.nodes[r.nodes[w].Right].Color == black {
				r.nodes[w].Color = red
				x = p
				continue
			}
			if r.nodes[r.nodes[w].Right].Color == black {
				r.nodes[r.nodes[w].Left].Color = black
				r.nodes[w].Color = red
				r.rotateRight(w)
				w = r.nodes[p].Right
			}
			r.nodes[w].Color = r.nodes[p].Color
			r.nodes[p].Color = black
			r.nodes[r.nodes[w].Right].Color = black
			r.rotateLeft(p)
			x = r.root
		} else {
			w := r.nodes[p].Left
			if r.nodes[w].Color == red {
				r.nodes[w].Color = black
				r.nodes[p].Color = red
				r.rotateRight(p)
				w = r.nodes[p].Left
			}
			if r.nodes[r.nodes[w].Right].Color == black && r.nodes[r.nodes[w].Left].Color == black {
				r.nodes[w].Color = red
				x = p
				continue
			}
			if r.nodes[r.nodes[w].Left].Color == black {
				r.nodes[r.nodes[w].Right].Color = black
				r.nodes[w].Color = red
				r.rotateLeft(w)
				w = r.nodes[p].Left
			}
			r.nodes[w].Color = r.nodes[p].Color
			r.nodes[p].Color = black
			r.nodes[r.nodes[w].Left].Color = black
			r.rotateRight(p)
			x = r.root
		}
	}
	r.nodes[x].Color = black
}
