package formula

import (
	"strings"

	"github.com/signadot/valtree/value"
	"github.com/signadot/valtree/vpath"
)

// locate finds the nodes a reference denotes, relative to the formula node
// n. multi reports that the reference fans out over an array ([*]) and so
// denotes a list even when it matches zero or one node.
//
//   - name, a.b, items[0].x: from the enclosing object of n
//   - ../name: from the next enclosing object up, one per ../; arrays are
//     passed through
//   - /name: from the root
//   - @prev, @next: the neighbouring item of the innermost enclosing array,
//     absent at the boundaries
func locate(n *value.Node, ref string) (nodes []*value.Node, multi bool) {
	if rest, ok := strings.CutPrefix(ref, "@"); ok {
		return locateSibling(n, rest)
	}
	r, err := vpath.ParseRef(ref)
	if err != nil {
		return nil, false
	}
	var start *value.Node
	if r.Absolute {
		start = n.Root()
	} else {
		start = enclosingObject(n)
		for i := 0; i < r.Up && start != nil; i++ {
			start = enclosingObject(start)
		}
	}
	if start == nil {
		return nil, false
	}
	return walkPath(start, r.Path), r.Path.HasWildcard()
}

func locateSibling(n *value.Node, rest string) ([]*value.Node, bool) {
	name, tail, _ := strings.Cut(rest, ".")
	var delta int
	switch name {
	case "prev":
		delta = -1
	case "next":
		delta = 1
	default:
		return nil, false
	}
	sib := sibling(n, delta)
	if sib == nil {
		return nil, false
	}
	if tail == "" {
		return []*value.Node{sib}, false
	}
	p, err := vpath.Parse(tail)
	if err != nil {
		return nil, false
	}
	return walkPath(sib, p), p.HasWildcard()
}

// sibling returns the item delta positions away from the array item that
// contains n, or nil past either end.
func sibling(n *value.Node, delta int) *value.Node {
	item := arrayItem(n)
	if item == nil {
		return nil
	}
	i := item.Index() + delta
	arr := item.Parent()
	if i < 0 || i >= arr.Len() {
		return nil
	}
	return arr.At(i)
}

// arrayItem returns the ancestor-or-self of n that is a direct item of the
// innermost enclosing array.
func arrayItem(n *value.Node) *value.Node {
	for x := n; x.Parent() != nil; x = x.Parent() {
		if x.Parent().IsArray() {
			return x
		}
	}
	return nil
}

// enclosingObject returns the nearest object strictly above n.
func enclosingObject(n *value.Node) *value.Node {
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.IsObject() {
			return p
		}
	}
	return nil
}

// walkPath follows p from start. Segments that do not match the tree
// shape drop that branch.
func walkPath(start *value.Node, p vpath.Path) []*value.Node {
	cur := []*value.Node{start}
	for _, seg := range p {
		var next []*value.Node
		for _, x := range cur {
			switch seg.Kind {
			case vpath.FieldSegment:
				if c := x.Child(seg.Field); c != nil {
					next = append(next, c)
				}
			case vpath.IndexSegment:
				if x.IsArray() && seg.Index >= 0 && seg.Index < x.Len() {
					next = append(next, x.At(seg.Index))
				}
			case vpath.WildcardSegment:
				if x.IsArray() {
					next = append(next, x.Items()...)
				}
			}
		}
		cur = next
	}
	return cur
}
