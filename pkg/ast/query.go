package ast

// Walk visits n and its descendants depth-first, pre-order. Returning false
// from fn skips the children of the visited node.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.children {
		Walk(c, fn)
	}
}

// Ancestor returns the closest proper ancestor of kind, or nil.
func (n *Node) Ancestor(kind Kind) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.kind == kind {
			return p
		}
	}
	return nil
}

// Root returns the root of the tree containing n.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// MaxLocal returns the highest local slot referenced in the subtree, or -1
// when no local is used. Environments size their locals as MaxLocal()+1.
func (n *Node) MaxLocal() int {
	highest := -1
	Walk(n, func(c *Node) bool {
		if slot, ok := c.LocalSlot(); ok && slot > highest {
			highest = slot
		}
		return true
	})
	return highest
}

// LocalSlot returns the local slot a node reads or writes, if any.
func (n *Node) LocalSlot() (int, bool) {
	switch n.kind {
	case GetLocal, IncLocal:
		return n.Slot(), true
	case SetLocal, ArrayAtPosInc, ForLocal:
		return n.children[0].Slot(), true
	}
	return 0, false
}

// IsValueConsumed reports whether the parent of n uses the value n
// produces. Statements of a block other than the last, loop bodies and the
// root discard their value; the arms of an if are consumed exactly when the
// if itself is.
func (n *Node) IsValueConsumed() bool {
	p := n.parent
	if p == nil {
		return false
	}
	switch p.kind {
	case Block:
		if p.children[len(p.children)-1] != n {
			return false
		}
		return p.IsValueConsumed()
	case If:
		if p.children[0] == n {
			return true
		}
		return p.IsValueConsumed()
	case ForLocal:
		return p.children[2] != n
	}
	return true
}

// IsSideEffect reports whether n is evaluated for its effect only.
func (n *Node) IsSideEffect() bool { return n.Info().Has(IsSideEffect) }

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	total := 0
	Walk(n, func(*Node) bool {
		total++
		return true
	})
	return total
}

// Depth returns the height of the subtree; a leaf has depth 1.
func (n *Node) Depth() int {
	d := 0
	for _, c := range n.children {
		if cd := c.Depth(); cd > d {
			d = cd
		}
	}
	return d + 1
}
