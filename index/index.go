// Package index maintains id and path lookups over a value tree.
//
// Paths of nodes that have no array ancestor are cached; paths of nodes
// inside arrays are recomputed from parent links on every call since their
// index can shift. The index does not hook into mutations: after a
// structural change the mutator calls Register, Unregister or
// InvalidatePathsUnder, or Rebuild after bulk changes.
package index

import (
	"github.com/signadot/valtree/debug"
	"github.com/signadot/valtree/value"
	"github.com/signadot/valtree/vpath"
)

type Index struct {
	root  *value.Node
	byID  map[string]*value.Node
	paths map[*value.Node]vpath.Path
}

// New builds an index over the tree rooted at root.
func New(root *value.Node) *Index {
	x := &Index{root: root}
	x.Rebuild()
	return x
}

func (x *Index) Root() *value.Node {
	return x.root
}

// Len returns the number of indexed nodes.
func (x *Index) Len() int {
	return len(x.byID)
}

func (x *Index) NodeByID(id string) *value.Node {
	return x.byID[id]
}

// Register adds n and its descendants to the id table.
func (x *Index) Register(n *value.Node) {
	n.Walk(func(c *value.Node, isPost bool) (bool, error) {
		if !isPost {
			x.byID[c.ID()] = c
		}
		return true, nil
	})
	if debug.Index() {
		debug.Logf("index", "register %s (%d nodes)", n, len(x.byID))
	}
}

// Unregister removes n and its descendants from both tables.
func (x *Index) Unregister(n *value.Node) {
	n.Walk(func(c *value.Node, isPost bool) (bool, error) {
		if !isPost {
			if x.byID[c.ID()] == c {
				delete(x.byID, c.ID())
			}
			delete(x.paths, c)
		}
		return true, nil
	})
}

// PathOf returns the structural path of n from the root.
func (x *Index) PathOf(n *value.Node) vpath.Path {
	if p, ok := x.paths[n]; ok {
		return p.Clone()
	}
	p := n.Path()
	if !n.InArray() {
		x.paths[n] = p.Clone()
	}
	return p
}

// PointerOf returns PathOf rendered as a JSON pointer.
func (x *Index) PointerOf(n *value.Node) string {
	return x.PathOf(n).Pointer()
}

// InvalidatePathsUnder drops the cached paths of n and its descendants.
func (x *Index) InvalidatePathsUnder(n *value.Node) {
	n.Walk(func(c *value.Node, isPost bool) (bool, error) {
		if !isPost {
			delete(x.paths, c)
		}
		return true, nil
	})
	if debug.Index() {
		debug.Logf("index", "invalidate paths under %s", n)
	}
}

// Rebuild clears both tables and re-walks the tree from the current root of
// the indexed tree.
func (x *Index) Rebuild() {
	if x.root != nil {
		x.root = x.root.Root()
	}
	x.byID = map[string]*value.Node{}
	x.paths = map[*value.Node]vpath.Path{}
	if x.root != nil {
		x.Register(x.root)
	}
}

// cached reports whether n's path is currently cached.
func (x *Index) cached(n *value.Node) bool {
	_, ok := x.paths[n]
	return ok
}
