package value

// SetObserver registers fn to be called with the mutated node after every
// value write or structural change in n's subtree. Only the nearest
// observer above a mutated node is called. A nil fn removes the observer.
func (n *Node) SetObserver(fn func(changed *Node)) {
	n.observer = fn
}

func (n *Node) notify() {
	for x := n; x != nil; x = x.parent {
		if x.observer != nil {
			x.observer(n)
			return
		}
	}
}
