// Package value provides the live, mutable value tree edited against a
// schema.
//
// # Node Structure
//
// A Node is a tagged union over the schema types. Type reports the kind:
//
//   - StringType, NumberType, BoolType: primitives holding a current value
//     (string, float64 or bool) and the last committed baseline
//   - ObjectType: ordered properties, one child per schema property
//   - ArrayType: ordered items sharing the schema's item type
//
// Every non-root node has exactly one parent. Parent is a back-reference
// used to compute paths and find the root; ownership always flows from
// parent to children.
//
// # Building Trees
//
//	f := value.NewFactory(nil)
//	root, err := f.CreateTree(s, map[string]any{"price": 10, "quantity": 2})
//
// # Editing
//
// SetValue coerces to the node type. Read-only and formula fields reject
// external writes; the formula engine writes them with value.Internal().
// Arrays support At, Push, InsertAt, RemoveAt, Move, ReplaceAt, Clear,
// PushValue and InsertValueAt.
//
// # Baseline
//
// IsDirty compares against the committed baseline. Commit moves the
// baseline to the current state; Revert restores it, re-attaching removed
// array items.
//
// # Diagnostics
//
// Errors are computed from the schema constraints each time they are read
// and roll up from descendants. Warnings are set by the formula engine.
// IsValid ignores warnings.
//
// # Thread Safety
//
// Nodes are not safe for concurrent use.
package value
