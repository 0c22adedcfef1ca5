package value

import (
	"fmt"
	"reflect"

	"github.com/signadot/valtree/schema"
)

type setState struct {
	internal bool
}

type SetOption func(*setState)

// Internal marks a write as engine driven. Internal writes bypass the
// read-only guard that protects formula and readOnly fields.
func Internal() SetOption {
	return func(s *setState) { s.internal = true }
}

func setOpts(opts []SetOption) *setState {
	st := &setState{}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// SetValue coerces v to the node's type and stores it.
//
// Primitives: nil stores the schema default, other kinds are coerced.
// Objects: v must be a map; each present key is applied to the matching
// child in place, absent keys keep their value.
// Arrays: v must be a slice; the array is reconciled to the new length by
// updating aligned items in place, truncating, or growing with new items
// built by the node's Factory.
//
// Writing a read-only primitive fails with ErrReadOnly unless Internal is
// given. Container writes skip read-only descendants unless Internal is
// given.
func (n *Node) SetValue(v any, opts ...SetOption) error {
	return n.setValue(v, setOpts(opts))
}

func (n *Node) setValue(v any, st *setState) error {
	switch n.typ {
	case schema.ObjectType:
		return n.setObject(v, st)
	case schema.ArrayType:
		return n.setArray(v, st)
	}
	if !st.internal && n.IsReadOnly() {
		return fmt.Errorf("%w: %s", ErrReadOnly, n.name)
	}
	cv := coerce(n.typ, v, n.schema)
	if sameValue(cv, n.value) {
		return nil
	}
	n.value = cv
	n.notify()
	return nil
}

func (n *Node) setObject(v any, st *setState) error {
	var m map[string]any
	switch x := v.(type) {
	case nil:
	case map[string]any:
		m = x
	default:
		return fmt.Errorf("%w: %s expects an object, got %T", ErrTypeMismatch, n.name, v)
	}
	for _, c := range n.children {
		cv, ok := m[c.name]
		if v != nil && !ok {
			continue
		}
		if !st.internal && c.IsPrimitive() && c.IsReadOnly() {
			continue
		}
		if err := c.setValue(cv, st); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) setArray(v any, st *setState) error {
	vals, err := toSlice(v)
	if err != nil {
		return fmt.Errorf("%w: %s expects an array, got %T", ErrTypeMismatch, n.name, v)
	}
	common := min(len(vals), len(n.children))
	for i := 0; i < common; i++ {
		c := n.children[i]
		if !st.internal && c.IsPrimitive() && c.IsReadOnly() {
			continue
		}
		if err := c.setValue(vals[i], st); err != nil {
			return err
		}
	}
	switch {
	case len(vals) < len(n.children):
		for _, c := range n.children[len(vals):] {
			detach(c)
		}
		clear(n.children[len(vals):])
		n.children = n.children[:len(vals)]
		n.notify()
	case len(vals) > len(n.children):
		if n.factory == nil {
			return ErrNoFactory
		}
		for _, raw := range vals[len(n.children):] {
			item, err := n.factory.Create("", n.schema.Items, raw)
			if err != nil {
				return err
			}
			if err := n.attach(item); err != nil {
				return err
			}
			n.children = append(n.children, item)
		}
		n.notify()
	}
	return nil
}

func toSlice(v any) ([]any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return x, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, ErrTypeMismatch
	}
	res := make([]any, rv.Len())
	for i := range res {
		res[i] = rv.Index(i).Interface()
	}
	return res, nil
}
