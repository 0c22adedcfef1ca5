// Package libdiff turns the uncommitted changes of a value tree into RFC
// 6902 JSON patch operations against its committed baseline.
package libdiff

import (
	"encoding/json"
	"fmt"
	"slices"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/signadot/valtree/value"
	"github.com/signadot/valtree/vpath"
)

const (
	OpAdd     = "add"
	OpRemove  = "remove"
	OpReplace = "replace"
)

// Operation is one JSON patch operation.
type Operation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`

	// Old is the baseline value a replace or remove overwrites.
	Old any `json:"-"`
}

func (o Operation) String() string {
	switch o.Op {
	case OpReplace:
		from, fok := o.Old.(string)
		to, tok := o.Value.(string)
		if fok && tok {
			return fmt.Sprintf("~ %s %s", o.Path, TextDiff(from, to))
		}
		return fmt.Sprintf("~ %s %v -> %v", o.Path, o.Old, o.Value)
	case OpAdd:
		return fmt.Sprintf("+ %s %v", o.Path, o.Value)
	case OpRemove:
		return fmt.Sprintf("- %s", o.Path)
	}
	return o.Op + " " + o.Path
}

// Patches returns the operations that take the committed baseline of root
// to its current state, in document order. Formula fields are derived and
// never produce operations of their own. A reordered, grown or shrunk
// array is replaced as a whole.
func Patches(root *value.Node) []Operation {
	var ops []Operation
	patches(root, &ops)
	return ops
}

func patches(n *value.Node, ops *[]Operation) {
	switch {
	case n.IsPrimitive():
		if n.IsDirty() {
			*ops = append(*ops, Operation{Op: OpReplace, Path: n.Pointer(), Value: n.Value(), Old: n.BaseValue()})
		}
	case n.IsArray():
		if n.ChildrenChanged() {
			*ops = append(*ops, Operation{Op: OpReplace, Path: n.Pointer(), Value: n.PlainValue(), Old: n.BaseValue()})
			return
		}
		for _, c := range n.Children() {
			patches(c, ops)
		}
	default:
		cur, base := n.Children(), n.BaseChildren()
		for _, c := range base {
			if !slices.Contains(cur, c) {
				p := n.Path().Append(vpath.Field(c.Name())).Pointer()
				*ops = append(*ops, Operation{Op: OpRemove, Path: p, Old: c.BaseValue()})
			}
		}
		for _, c := range cur {
			if !slices.Contains(base, c) {
				*ops = append(*ops, Operation{Op: OpAdd, Path: c.Pointer(), Value: c.PlainValue()})
				continue
			}
			patches(c, ops)
		}
	}
}

// Apply applies ops to doc, plain Go data as returned by PlainValue, and
// returns the patched document.
func Apply(doc any, ops []Operation) (any, error) {
	d, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	pd, err := json.Marshal(ops)
	if err != nil {
		return nil, err
	}
	patch, err := jsonpatch.DecodePatch(pd)
	if err != nil {
		return nil, err
	}
	out, err := patch.Apply(d)
	if err != nil {
		return nil, err
	}
	var res any
	if err := json.Unmarshal(out, &res); err != nil {
		return nil, err
	}
	return res, nil
}
