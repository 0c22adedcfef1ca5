package formula

import (
	"strings"

	"github.com/signadot/valtree/value"
)

// resolver binds the references of one formula at evaluation time. Array
// levels are recomputed from the live tree so that positions reflect any
// reordering since collection.
type resolver struct {
	node   *value.Node
	levels []ArrayLevel
}

func newResolver(f *Formula) *resolver {
	return &resolver{node: f.Node, levels: arrayLevels(f.Node)}
}

func (r *resolver) Resolve(ref string) any {
	if tok, ok := strings.CutPrefix(ref, "#"); ok {
		return r.token(tok)
	}
	nodes, multi := locate(r.node, ref)
	if multi {
		res := make([]any, len(nodes))
		for i, n := range nodes {
			res[i] = n.PlainValue()
		}
		return res
	}
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0].PlainValue()
}

func (r *resolver) token(tok string) any {
	inner := len(r.levels) - 1
	switch tok {
	case "index":
		if inner < 0 {
			return -1
		}
		return r.levels[inner].Index
	case "length":
		if inner < 0 {
			return 0
		}
		return r.levels[inner].Length
	case "first":
		return inner >= 0 && r.levels[inner].Index == 0
	case "last":
		return inner >= 0 && r.levels[inner].Index == r.levels[inner].Length-1
	case "parent":
		return levelContext(r.levels, inner-1)
	case "root":
		if inner < 0 {
			return nil
		}
		return levelContext(r.levels[:1], 0)
	}
	return nil
}

// levelContext renders levels[k] as the map read by #parent and #root,
// with .parent chaining outwards.
func levelContext(levels []ArrayLevel, k int) any {
	if k < 0 || k >= len(levels) {
		return nil
	}
	l := levels[k]
	return map[string]any{
		"index":  l.Index,
		"length": l.Length,
		"first":  l.Index == 0,
		"last":   l.Index == l.Length-1,
		"parent": levelContext(levels, k-1),
	}
}
