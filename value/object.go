package value

import "fmt"

// Child returns the named property of an object node, or nil.
func (n *Node) Child(name string) *Node {
	if n.typ.IsLeaf() || n.IsArray() {
		return nil
	}
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// AddChild attaches c as a property of the object node under c's name.
// A property with the same name is replaced and detached.
func (n *Node) AddChild(c *Node) error {
	if !n.IsObject() {
		return fmt.Errorf("%w: %s", ErrNotObject, n.name)
	}
	if err := n.attach(c); err != nil {
		return err
	}
	for i, old := range n.children {
		if old.name == c.name {
			detach(old)
			n.children[i] = c
			n.notify()
			return nil
		}
	}
	n.children = append(n.children, c)
	n.notify()
	return nil
}

// RemoveChild detaches and returns the named property, or nil if there is
// none.
func (n *Node) RemoveChild(name string) *Node {
	if !n.IsObject() {
		return nil
	}
	for i, c := range n.children {
		if c.name != name {
			continue
		}
		n.children = append(n.children[:i:i], n.children[i+1:]...)
		n.notify()
		return detach(c)
	}
	return nil
}
