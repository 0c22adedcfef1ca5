package index

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/valtree/schema"
	"github.com/signadot/valtree/value"
)

func ids() func() string {
	i := 0
	return func() string {
		i++
		return "id" + strconv.Itoa(i)
	}
}

func buildTree(t *testing.T) *value.Node {
	t.Helper()
	s := schema.Object(
		schema.Prop("meta", schema.Object(schema.Prop("title", schema.String()))),
		schema.Prop("orders", schema.Array(schema.Object(
			schema.Prop("name", schema.String()),
			schema.Prop("items", schema.Array(schema.Number())),
		))),
	)
	raw := map[string]any{
		"meta": map[string]any{"title": "t"},
		"orders": []any{
			map[string]any{"name": "a", "items": []any{1, 2}},
			map[string]any{"name": "b", "items": []any{3}},
		},
	}
	root, err := value.NewFactory(&value.FactoryOptions{IDs: ids()}).CreateTree(s, raw)
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestNodeByID(t *testing.T) {
	root := buildTree(t)
	x := New(root)
	count := 0
	root.Walk(func(n *value.Node, isPost bool) (bool, error) {
		if !isPost {
			count++
			if x.NodeByID(n.ID()) != n {
				t.Errorf("NodeByID(%s) mismatch", n.ID())
			}
		}
		return true, nil
	})
	if x.Len() != count {
		t.Errorf("Len = %d want %d", x.Len(), count)
	}
	if x.NodeByID("missing") != nil {
		t.Error("unexpected node for unknown id")
	}
}

func TestRegisterUnregister(t *testing.T) {
	root := buildTree(t)
	x := New(root)
	orders := root.Child("orders")
	added, err := orders.PushValue(map[string]any{"name": "c", "items": []any{4}})
	if err != nil {
		t.Fatal(err)
	}
	leaf := added.Child("items").At(0)
	if x.NodeByID(leaf.ID()) != nil {
		t.Fatal("index saw a node before Register")
	}
	x.Register(added)
	if x.NodeByID(leaf.ID()) != leaf {
		t.Error("registered leaf not found")
	}
	if got := x.PointerOf(leaf); got != "/orders/2/items/0" {
		t.Errorf("PointerOf = %q", got)
	}

	removed, err := orders.RemoveAt(2)
	if err != nil {
		t.Fatal(err)
	}
	x.Unregister(removed)
	if x.NodeByID(leaf.ID()) != nil || x.NodeByID(added.ID()) != nil {
		t.Error("unregistered nodes still indexed")
	}
}

func TestPathCaching(t *testing.T) {
	root := buildTree(t)
	x := New(root)
	title := root.Child("meta").Child("title")
	item := root.Child("orders").At(1).Child("items").At(0)

	if got := x.PointerOf(title); got != "/meta/title" {
		t.Errorf("PointerOf(title) = %q", got)
	}
	if !x.cached(title) {
		t.Error("path outside arrays not cached")
	}
	if got := x.PointerOf(item); got != "/orders/1/items/0" {
		t.Errorf("PointerOf(item) = %q", got)
	}
	if x.cached(item) {
		t.Error("path inside an array was cached")
	}

	x.InvalidatePathsUnder(root.Child("meta"))
	if x.cached(title) {
		t.Error("path still cached after invalidation")
	}
}

func TestPathAfterMove(t *testing.T) {
	root := buildTree(t)
	x := New(root)
	orders := root.Child("orders")
	name := orders.At(0).Child("name")
	if got := x.PointerOf(name); got != "/orders/0/name" {
		t.Fatalf("PointerOf = %q", got)
	}
	if err := orders.Move(0, 1); err != nil {
		t.Fatal(err)
	}
	if got := x.PointerOf(name); got != "/orders/1/name" {
		t.Errorf("PointerOf after move = %q", got)
	}
	if diff := cmp.Diff("orders[1].name", x.PathOf(name).String()); diff != "" {
		t.Errorf("PathOf mismatch (-want +got):\n%s", diff)
	}
}

func TestRebuild(t *testing.T) {
	root := buildTree(t)
	x := New(root.Child("meta"))
	if x.Root() != root {
		t.Error("index root is not the tree root")
	}
	n := x.Len()
	if _, err := root.Child("orders").At(0).Child("items").PushValue(9); err != nil {
		t.Fatal(err)
	}
	x.Rebuild()
	if x.Len() != n+1 {
		t.Errorf("Len after Rebuild = %d want %d", x.Len(), n+1)
	}
}
