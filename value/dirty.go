package value

import "slices"

// IsDirty reports whether the node or any descendant differs from the
// committed baseline. Formula fields are derived, so they are never dirty
// themselves.
func (n *Node) IsDirty() bool {
	if n.IsPrimitive() {
		if n.HasFormula() {
			return false
		}
		return !sameValue(n.value, n.base)
	}
	if n.ChildrenChanged() {
		return true
	}
	for _, c := range n.children {
		if c.IsDirty() {
			return true
		}
	}
	return false
}

// ChildrenChanged reports whether the container's own list of children
// differs from the committed one: items inserted, removed, replaced or
// reordered.
func (n *Node) ChildrenChanged() bool {
	if n.IsPrimitive() {
		return false
	}
	return !slices.Equal(n.children, n.baseChildren)
}

// Commit makes the current state the baseline for n and every descendant.
func (n *Node) Commit() {
	if n.IsPrimitive() {
		n.base = n.value
		return
	}
	n.baseChildren = slices.Clone(n.children)
	for _, c := range n.children {
		c.Commit()
	}
}

// Revert restores n and every descendant to the committed baseline.
// Removed children are re-attached, taken back from any container that
// adopted them since; added ones are detached.
func (n *Node) Revert() {
	if n.IsPrimitive() {
		if n.HasFormula() || sameValue(n.value, n.base) {
			return
		}
		n.value = n.base
		n.notify()
		return
	}
	if n.ChildrenChanged() {
		for _, c := range n.children {
			if !slices.Contains(n.baseChildren, c) {
				detach(c)
			}
		}
		for _, c := range n.baseChildren {
			if c.parent != n {
				release(c)
			}
			c.parent = n
		}
		n.children = slices.Clone(n.baseChildren)
		n.notify()
	}
	for _, c := range n.children {
		c.Revert()
	}
}

// PlainValue returns the current value as plain Go data: map[string]any for
// objects, []any for arrays, and string, float64 or bool for primitives.
func (n *Node) PlainValue() any {
	switch {
	case n.IsObject():
		res := make(map[string]any, len(n.children))
		for _, c := range n.children {
			res[c.name] = c.PlainValue()
		}
		return res
	case n.IsArray():
		res := make([]any, len(n.children))
		for i, c := range n.children {
			res[i] = c.PlainValue()
		}
		return res
	}
	return n.value
}

// BaseValue returns the committed baseline as plain Go data.
func (n *Node) BaseValue() any {
	switch {
	case n.IsObject():
		res := make(map[string]any, len(n.baseChildren))
		for _, c := range n.baseChildren {
			res[c.name] = c.BaseValue()
		}
		return res
	case n.IsArray():
		res := make([]any, len(n.baseChildren))
		for i, c := range n.baseChildren {
			res[i] = c.BaseValue()
		}
		return res
	}
	return n.base
}

// BaseChildren returns the committed list of children.
func (n *Node) BaseChildren() []*Node {
	return slices.Clone(n.baseChildren)
}

// release takes c out of the container currently holding it.
func release(c *Node) {
	p := c.parent
	if p == nil {
		return
	}
	if i := slices.Index(p.children, c); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
		p.notify()
	}
	c.parent = nil
}
