// Package schema provides the type descriptions value trees are built from.
//
// A Schema is a closed set of node kinds: string, number and boolean
// primitives, objects with ordered properties and an explicit required list,
// and arrays with a single item schema. Primitive schemas may carry a
// formula definition, which marks the field as computed and read-only.
//
// Descriptions are usually assembled with the constructors:
//
//	s := schema.Object(
//	    schema.Prop("price", schema.Number()),
//	    schema.Prop("quantity", schema.Number()),
//	    schema.Prop("total", schema.Number().WithFormula("price * quantity")),
//	).WithRequired("price")
//
// The struct tags follow the JSON-Schema-like wire shape so that callers may
// decode descriptions with the decoder of their choice; this package does
// not parse schema text itself.
package schema
