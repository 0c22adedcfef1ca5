package value

import (
	"fmt"
	"slices"
)

// At returns the item at index i; negative indices count from the end.
// It returns nil when i is out of range or n is not an array.
func (n *Node) At(i int) *Node {
	if !n.IsArray() {
		return nil
	}
	if i < 0 {
		i += len(n.children)
	}
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Items returns the array items. It is equivalent to Children for arrays.
func (n *Node) Items() []*Node {
	if !n.IsArray() {
		return nil
	}
	return slices.Clone(n.children)
}

func (n *Node) Push(item *Node) error {
	return n.InsertAt(len(n.children), item)
}

// InsertAt inserts item at index i, 0 <= i <= Len().
func (n *Node) InsertAt(i int, item *Node) error {
	if !n.IsArray() {
		return fmt.Errorf("%w: %s", ErrNotArray, n.name)
	}
	if i < 0 || i > len(n.children) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfBounds, i)
	}
	if err := n.attach(item); err != nil {
		return err
	}
	n.children = slices.Insert(n.children, i, item)
	n.notify()
	return nil
}

// RemoveAt removes and returns the item at index i, 0 <= i < Len(). The
// returned node is detached.
func (n *Node) RemoveAt(i int) (*Node, error) {
	if !n.IsArray() {
		return nil, fmt.Errorf("%w: %s", ErrNotArray, n.name)
	}
	if i < 0 || i >= len(n.children) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfBounds, i)
	}
	item := n.children[i]
	n.children = slices.Delete(n.children, i, i+1)
	n.notify()
	return detach(item), nil
}

// Move moves the item at from so that it ends up at index to. Equal
// indices are a no-op.
func (n *Node) Move(from, to int) error {
	if !n.IsArray() {
		return fmt.Errorf("%w: %s", ErrNotArray, n.name)
	}
	if from < 0 || from >= len(n.children) {
		return fmt.Errorf("%w: %d", ErrSourceOutOfBounds, from)
	}
	if to < 0 || to >= len(n.children) {
		return fmt.Errorf("%w: %d", ErrTargetOutOfBounds, to)
	}
	if from == to {
		return nil
	}
	item := n.children[from]
	n.children = slices.Delete(n.children, from, from+1)
	n.children = slices.Insert(n.children, to, item)
	n.notify()
	return nil
}

// ReplaceAt puts item at index i and returns the detached previous item.
func (n *Node) ReplaceAt(i int, item *Node) (*Node, error) {
	if !n.IsArray() {
		return nil, fmt.Errorf("%w: %s", ErrNotArray, n.name)
	}
	if i < 0 || i >= len(n.children) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfBounds, i)
	}
	if err := n.attach(item); err != nil {
		return nil, err
	}
	old := n.children[i]
	n.children[i] = item
	n.notify()
	return detach(old), nil
}

// Clear removes every item.
func (n *Node) Clear() {
	if !n.IsArray() || len(n.children) == 0 {
		return
	}
	for _, c := range n.children {
		detach(c)
	}
	n.children = nil
	n.notify()
}

// PushValue builds an item from raw with the node's Factory and appends it.
func (n *Node) PushValue(raw any) (*Node, error) {
	return n.InsertValueAt(len(n.children), raw)
}

// InsertValueAt builds an item from raw with the node's Factory and inserts
// it at index i.
func (n *Node) InsertValueAt(i int, raw any) (*Node, error) {
	if !n.IsArray() {
		return nil, fmt.Errorf("%w: %s", ErrNotArray, n.name)
	}
	if n.factory == nil {
		return nil, ErrNoFactory
	}
	if i < 0 || i > len(n.children) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfBounds, i)
	}
	item, err := n.factory.Create("", n.schema.Items, raw)
	if err != nil {
		return nil, err
	}
	if err := n.InsertAt(i, item); err != nil {
		return nil, err
	}
	return item, nil
}
