package schema

import "slices"

// FormulaVersion is the only formula definition version understood by the
// formula engine.
const FormulaVersion = 1

// Formula is the computed-field definition carried by a primitive schema.
type Formula struct {
	Version    int    `json:"version" yaml:"version"`
	Expression string `json:"expression" yaml:"expression"`
}

// Property is one named entry of an object schema. Properties are kept as
// an ordered list so that node children follow declaration order.
type Property struct {
	Name   string  `json:"name" yaml:"name"`
	Schema *Schema `json:"schema" yaml:"schema"`
}

// Schema describes one node kind of a value tree.
//
// Primitive schemas use Default, ReadOnly, Formula and the string
// constraints; object schemas use Properties and Required; array schemas
// use Items.
type Schema struct {
	Type     Type     `json:"type" yaml:"type"`
	Default  any      `json:"default,omitempty" yaml:"default,omitempty"`
	ReadOnly bool     `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Formula  *Formula `json:"x-formula,omitempty" yaml:"x-formula,omitempty"`

	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required   []string   `json:"required,omitempty" yaml:"required,omitempty"`

	Items *Schema `json:"items,omitempty" yaml:"items,omitempty"`

	ForeignKey string `json:"foreignKey,omitempty" yaml:"foreignKey,omitempty"`
	Pattern    string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Enum       []any  `json:"enum,omitempty" yaml:"enum,omitempty"`
	MinLength  *int   `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength  *int   `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
}

func String() *Schema {
	return &Schema{Type: StringType, Default: ""}
}

func Number() *Schema {
	return &Schema{Type: NumberType, Default: float64(0)}
}

func Bool() *Schema {
	return &Schema{Type: BoolType, Default: false}
}

func Object(props ...Property) *Schema {
	return &Schema{Type: ObjectType, Properties: props}
}

func Array(items *Schema) *Schema {
	return &Schema{Type: ArrayType, Items: items}
}

func Prop(name string, s *Schema) Property {
	return Property{Name: name, Schema: s}
}

func (s *Schema) WithDefault(v any) *Schema {
	s.Default = v
	return s
}

func (s *Schema) WithReadOnly() *Schema {
	s.ReadOnly = true
	return s
}

// WithFormula attaches a version 1 formula definition. Formula fields are
// read-only, so ReadOnly is set as well.
func (s *Schema) WithFormula(expression string) *Schema {
	s.Formula = &Formula{Version: FormulaVersion, Expression: expression}
	s.ReadOnly = true
	return s
}

func (s *Schema) WithRequired(names ...string) *Schema {
	s.Required = append(s.Required, names...)
	return s
}

func (s *Schema) WithForeignKey(table string) *Schema {
	s.ForeignKey = table
	return s
}

func (s *Schema) WithPattern(p string) *Schema {
	s.Pattern = p
	return s
}

func (s *Schema) WithEnum(vals ...any) *Schema {
	s.Enum = vals
	return s
}

func (s *Schema) WithMinLength(n int) *Schema {
	s.MinLength = &n
	return s
}

func (s *Schema) WithMaxLength(n int) *Schema {
	s.MaxLength = &n
	return s
}

// Property returns the schema of the named property, or nil.
func (s *Schema) Property(name string) *Schema {
	for i := range s.Properties {
		if s.Properties[i].Name == name {
			return s.Properties[i].Schema
		}
	}
	return nil
}

func (s *Schema) IsRequired(name string) bool {
	return slices.Contains(s.Required, name)
}

func (s *Schema) HasFormula() bool {
	return s != nil && s.Formula != nil
}

// IsReadOnly reports whether external writes are rejected. Having a formula
// always implies read-only.
func (s *Schema) IsReadOnly() bool {
	return s != nil && (s.ReadOnly || s.Formula != nil)
}

// DefaultValue returns the schema default, falling back to the zero value of
// the type. Containers produce their plain default shape.
func (s *Schema) DefaultValue() any {
	switch s.Type {
	case ObjectType:
		res := make(map[string]any, len(s.Properties))
		for _, p := range s.Properties {
			res[p.Name] = p.Schema.DefaultValue()
		}
		return res
	case ArrayType:
		if d, ok := s.Default.([]any); ok {
			return slices.Clone(d)
		}
		return []any{}
	}
	if s.Default != nil {
		return s.Default
	}
	switch s.Type {
	case StringType:
		return ""
	case NumberType:
		return float64(0)
	case BoolType:
		return false
	}
	return nil
}
