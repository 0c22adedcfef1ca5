package value

import (
	"slices"

	"github.com/google/uuid"
	"github.com/signadot/valtree/schema"
	"github.com/signadot/valtree/vpath"
)

// Node is one element of a value tree. It is a tagged union over the schema
// types: primitives hold a current and a committed value, objects and arrays
// own an ordered list of children.
//
// Parent is a back-reference only; a node is owned by exactly one parent at
// a time.
type Node struct {
	id     string
	name   string
	typ    schema.Type
	schema *schema.Schema
	parent *Node

	// primitives
	value any
	base  any

	// object properties in declaration order, or array items
	children     []*Node
	baseChildren []*Node

	warning  *Diagnostic
	factory  Factory
	observer func(*Node)
}

// New creates a detached node holding the schema default. Containers are
// created empty; use a Factory to build populated trees.
func New(name string, s *schema.Schema) *Node {
	return newNode(uuid.NewString(), name, s)
}

func newNode(id, name string, s *schema.Schema) *Node {
	n := &Node{
		id:     id,
		name:   name,
		typ:    s.Type,
		schema: s,
	}
	if s.Type.IsLeaf() {
		n.value = coerce(s.Type, nil, s)
		n.base = n.value
	}
	return n
}

func (n *Node) ID() string { return n.id }
func (n *Node) Name() string { return n.name }
func (n *Node) Type() schema.Type { return n.typ }
func (n *Node) Schema() *schema.Schema { return n.schema }
func (n *Node) Parent() *Node { return n.parent }
func (n *Node) Factory() Factory { return n.factory }
func (n *Node) SetFactory(f Factory) { n.factory = f }
func (n *Node) IsObject() bool { return n.typ == schema.ObjectType }
func (n *Node) IsArray() bool { return n.typ == schema.ArrayType }
func (n *Node) IsPrimitive() bool { return n.typ.IsLeaf() }
func (n *Node) HasFormula() bool { return n.schema.HasFormula() }
func (n *Node) IsReadOnly() bool { return n.schema.IsReadOnly() }
func (n *Node) Value() any { return n.value }
func (n *Node) Children() []*Node { return slices.Clone(n.children) }
func (n *Node) Len() int { return len(n.children) }

// Formula returns the formula expression of the node's schema, or "".
func (n *Node) Formula() string {
	if !n.HasFormula() {
		return ""
	}
	return n.schema.Formula.Expression
}

// Index returns the position of the node within its parent's children,
// or -1 for a detached node.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	return slices.Index(n.parent.children, n)
}

func (n *Node) Root() *Node {
	res := n
	for res.parent != nil {
		res = res.parent
	}
	return res
}

// Path returns the structural path from the tree root, computed by walking
// parent links.
func (n *Node) Path() vpath.Path {
	var rev vpath.Path
	for x := n; x.parent != nil; x = x.parent {
		switch x.parent.typ {
		case schema.ArrayType:
			rev = append(rev, vpath.Index(x.Index()))
		default:
			rev = append(rev, vpath.Field(x.name))
		}
	}
	slices.Reverse(rev)
	return rev
}

// Pointer returns Path rendered as a JSON pointer.
func (n *Node) Pointer() string {
	return n.Path().Pointer()
}

// InArray reports whether any ancestor of n is an array, that is whether
// n's path can shift under insert, remove or move.
func (n *Node) InArray() bool {
	for p := n.parent; p != nil; p = p.parent {
		if p.typ == schema.ArrayType {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants in document order. f is called before
// (isPost false) and after (isPost true) the children; returning false from
// the pre-visit skips the children.
func (n *Node) Walk(f func(n *Node, isPost bool) (bool, error)) error {
	dive, err := f(n, false)
	if err != nil {
		return err
	}
	if dive {
		for _, c := range n.children {
			if err := c.Walk(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(n, true); err != nil {
		return err
	}
	return nil
}

// Leaves returns every primitive node in n's subtree in document order.
// A primitive n returns itself.
func (n *Node) Leaves() []*Node {
	var res []*Node
	n.Walk(func(x *Node, isPost bool) (bool, error) {
		if !isPost && x.IsPrimitive() {
			res = append(res, x)
		}
		return true, nil
	})
	return res
}

func (n *Node) attach(c *Node) error {
	if c.parent != nil {
		return ErrAttached
	}
	c.parent = n
	if c.factory == nil {
		c.factory = n.factory
	}
	return nil
}

func detach(c *Node) *Node {
	if c != nil {
		c.parent = nil
	}
	return c
}

func (n *Node) String() string {
	p := n.Path().String()
	if p == "" {
		p = "<root>"
	}
	return n.typ.String() + "@" + p
}
