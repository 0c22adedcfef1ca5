package value

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/valtree/schema"
)

func numbers(t *testing.T, vals ...any) *Node {
	t.Helper()
	n, err := newTestFactory().CreateTree(schema.Array(schema.Number()), vals)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestAt(t *testing.T) {
	arr := numbers(t, 1, 2, 3)
	tests := []struct {
		i    int
		want any
	}{
		{0, float64(1)},
		{2, float64(3)},
		{-1, float64(3)},
		{-3, float64(1)},
		{3, nil},
		{-4, nil},
	}
	for _, tt := range tests {
		var got any
		if n := arr.At(tt.i); n != nil {
			got = n.Value()
		}
		if got != tt.want {
			t.Errorf("At(%d) = %v, want %v", tt.i, got, tt.want)
		}
	}
}

func TestArrayOps(t *testing.T) {
	tests := []struct {
		name string
		op   func(arr *Node) error
		want []any
	}{
		{
			name: "push value",
			op:   func(arr *Node) error { _, err := arr.PushValue(4); return err },
			want: []any{1.0, 2.0, 3.0, 4.0},
		},
		{
			name: "insert value front",
			op:   func(arr *Node) error { _, err := arr.InsertValueAt(0, 0); return err },
			want: []any{0.0, 1.0, 2.0, 3.0},
		},
		{
			name: "remove middle",
			op:   func(arr *Node) error { _, err := arr.RemoveAt(1); return err },
			want: []any{1.0, 3.0},
		},
		{
			name: "move forward",
			op:   func(arr *Node) error { return arr.Move(0, 2) },
			want: []any{2.0, 3.0, 1.0},
		},
		{
			name: "move backward",
			op:   func(arr *Node) error { return arr.Move(2, 0) },
			want: []any{3.0, 1.0, 2.0},
		},
		{
			name: "move same index",
			op:   func(arr *Node) error { return arr.Move(1, 1) },
			want: []any{1.0, 2.0, 3.0},
		},
		{
			name: "clear",
			op:   func(arr *Node) error { arr.Clear(); return nil },
			want: []any{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arr := numbers(t, 1, 2, 3)
			if err := tt.op(arr); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, arr.PlainValue()); diff != "" {
				t.Errorf("items mismatch (-want +got):\n%s", diff)
			}
			for _, c := range arr.Children() {
				if c.Parent() != arr {
					t.Errorf("item %s has wrong parent", c.ID())
				}
			}
		})
	}
}

func TestArrayBounds(t *testing.T) {
	arr := numbers(t, 1, 2)
	item := New("", schema.Number())
	tests := []struct {
		name string
		op   func() error
		want error
	}{
		{"insert past end", func() error { return arr.InsertAt(3, item) }, ErrIndexOutOfBounds},
		{"insert negative", func() error { return arr.InsertAt(-1, item) }, ErrIndexOutOfBounds},
		{"remove past end", func() error { _, err := arr.RemoveAt(2); return err }, ErrIndexOutOfBounds},
		{"replace past end", func() error { _, err := arr.ReplaceAt(2, item); return err }, ErrIndexOutOfBounds},
		{"move bad source", func() error { return arr.Move(5, 0) }, ErrSourceOutOfBounds},
		{"move bad target", func() error { return arr.Move(0, 2) }, ErrTargetOutOfBounds},
		{"insert attached", func() error { return arr.InsertAt(0, arr.At(1)) }, ErrAttached},
		{"push on primitive", func() error { return arr.At(0).Push(item) }, ErrNotArray},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if diff := cmp.Diff([]any{1.0, 2.0}, arr.PlainValue()); diff != "" {
		t.Errorf("failed ops changed the array (-want +got):\n%s", diff)
	}
}

func TestInsertRemoveRestore(t *testing.T) {
	arr := numbers(t, 1, 2, 3)
	removed, err := arr.RemoveAt(1)
	if err != nil {
		t.Fatal(err)
	}
	if removed.Parent() != nil {
		t.Error("removed item still has a parent")
	}
	if removed.Index() != -1 {
		t.Errorf("detached Index = %d", removed.Index())
	}
	if err := arr.InsertAt(1, removed); err != nil {
		t.Fatal(err)
	}
	if arr.At(1) != removed || removed.Parent() != arr {
		t.Error("reinserted item not restored")
	}
	if arr.IsDirty() {
		t.Error("remove then reinsert left the array dirty")
	}
}

func TestReplaceAt(t *testing.T) {
	arr := numbers(t, 1, 2)
	fresh, err := newTestFactory().Create("", schema.Number(), 9)
	if err != nil {
		t.Fatal(err)
	}
	old, err := arr.ReplaceAt(0, fresh)
	if err != nil {
		t.Fatal(err)
	}
	if old.Parent() != nil || old.Value() != 1.0 {
		t.Errorf("old item: parent %v value %v", old.Parent(), old.Value())
	}
	if diff := cmp.Diff([]any{9.0, 2.0}, arr.PlainValue()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if fresh.Factory() == nil {
		t.Error("attached item did not inherit the factory")
	}
}
