package value

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/signadot/valtree/schema"
)

// Factory builds nodes from a schema and raw data. Arrays use the factory of
// their tree to grow.
type Factory interface {
	Create(name string, s *schema.Schema, raw any) (*Node, error)
	CreateTree(s *schema.Schema, raw any) (*Node, error)
}

type FactoryOptions struct {
	// IDs generates node ids. Defaults to random UUIDs.
	IDs func() string
}

type factory struct {
	ids func() string
}

func NewFactory(opts *FactoryOptions) Factory {
	f := &factory{ids: uuid.NewString}
	if opts != nil && opts.IDs != nil {
		f.ids = opts.IDs
	}
	return f
}

// CreateTree builds an unnamed root node.
func (f *factory) CreateTree(s *schema.Schema, raw any) (*Node, error) {
	return f.Create("", s, raw)
}

// Create builds a detached node named name, populated from raw. Missing
// object keys and nil values take schema defaults. The raw data becomes the
// committed baseline.
func (f *factory) Create(name string, s *schema.Schema, raw any) (*Node, error) {
	if s == nil {
		return nil, fmt.Errorf("no schema for %q", name)
	}
	n := newNode(f.ids(), name, s)
	n.factory = f
	switch s.Type {
	case schema.ObjectType:
		var m map[string]any
		switch x := raw.(type) {
		case nil:
		case map[string]any:
			m = x
		default:
			return nil, fmt.Errorf("%w: %q expects an object, got %T", ErrTypeMismatch, name, raw)
		}
		for _, p := range s.Properties {
			c, err := f.Create(p.Name, p.Schema, m[p.Name])
			if err != nil {
				return nil, err
			}
			c.parent = n
			n.children = append(n.children, c)
		}
	case schema.ArrayType:
		vals, err := toSlice(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q expects an array, got %T", ErrTypeMismatch, name, raw)
		}
		if raw == nil {
			if d, ok := s.DefaultValue().([]any); ok {
				vals = d
			}
		}
		for _, v := range vals {
			c, err := f.Create("", s.Items, v)
			if err != nil {
				return nil, err
			}
			c.parent = n
			n.children = append(n.children, c)
		}
	default:
		n.value = coerce(s.Type, raw, s)
		n.base = n.value
	}
	n.baseChildren = slices.Clone(n.children)
	return n, nil
}
