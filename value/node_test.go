package value

import (
	"errors"
	"os"
	"strconv"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/signadot/valtree/schema"
)

func orderSchema() *schema.Schema {
	item := schema.Object(
		schema.Prop("sku", schema.String()),
		schema.Prop("price", schema.Number()),
		schema.Prop("quantity", schema.Number()),
	)
	return schema.Object(
		schema.Prop("customer", schema.String().WithMinLength(3).WithMaxLength(20)),
		schema.Prop("code", schema.String().WithPattern(`^[A-Z]{2}-\d+$`)),
		schema.Prop("status", schema.String().WithEnum("open", "closed")),
		schema.Prop("paid", schema.Bool()),
		schema.Prop("items", schema.Array(item)),
	).WithRequired("customer")
}

func seqIDs() func() string {
	i := 0
	return func() string {
		i++
		return "n" + strconv.Itoa(i)
	}
}

func newTestFactory() Factory {
	return NewFactory(&FactoryOptions{IDs: seqIDs()})
}

func loadFixture(t *testing.T, name string) any {
	t.Helper()
	d, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatal(err)
	}
	var v any
	if err := yaml.Unmarshal(d, &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func buildOrder(t *testing.T) *Node {
	t.Helper()
	root, err := newTestFactory().CreateTree(orderSchema(), loadFixture(t, "order.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestFactoryFromFixture(t *testing.T) {
	root := buildOrder(t)
	want := map[string]any{
		"customer": "ACME Corp",
		"code":     "AC-01",
		"status":   "open",
		"paid":     false,
		"items": []any{
			map[string]any{"sku": "bolt", "price": 2.5, "quantity": float64(10)},
			map[string]any{"sku": "nut", "price": 0.5, "quantity": float64(40)},
		},
	}
	if diff := cmp.Diff(want, root.PlainValue()); diff != "" {
		t.Errorf("PlainValue mismatch (-want +got):\n%s", diff)
	}
	if root.IsDirty() {
		t.Error("freshly built tree is dirty")
	}
	if !root.IsValid() {
		t.Errorf("unexpected errors: %v", root.Errors())
	}
	ids := map[string]bool{}
	root.Walk(func(n *Node, isPost bool) (bool, error) {
		if !isPost {
			if ids[n.ID()] {
				t.Errorf("duplicate id %s", n.ID())
			}
			ids[n.ID()] = true
		}
		return true, nil
	})
}

func TestFactoryDefaults(t *testing.T) {
	s := schema.Object(
		schema.Prop("name", schema.String().WithDefault("anon")),
		schema.Prop("n", schema.Number().WithDefault(7)),
		schema.Prop("tags", schema.Array(schema.String())),
	)
	root, err := newTestFactory().CreateTree(s, map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]any{"name": "anon", "n": float64(7), "tags": []any{}}
	if diff := cmp.Diff(want, root.PlainValue()); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if _, err := newTestFactory().CreateTree(s, "not an object"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("err = %v, want ErrTypeMismatch", err)
	}
}

func TestPath(t *testing.T) {
	root := buildOrder(t)
	price := root.Child("items").At(1).Child("price")
	if got := price.Path().String(); got != "items[1].price" {
		t.Errorf("Path = %q", got)
	}
	if got := price.Pointer(); got != "/items/1/price" {
		t.Errorf("Pointer = %q", got)
	}
	if price.Root() != root {
		t.Error("Root mismatch")
	}
	if !price.InArray() || root.Child("customer").InArray() {
		t.Error("InArray mismatch")
	}
	if got := root.Pointer(); got != "" {
		t.Errorf("root Pointer = %q", got)
	}
}

func TestObserver(t *testing.T) {
	root := buildOrder(t)
	var changed []string
	root.SetObserver(func(n *Node) {
		changed = append(changed, n.Pointer())
	})
	if err := root.Child("customer").SetValue("Globex"); err != nil {
		t.Fatal(err)
	}
	if err := root.Child("customer").SetValue("Globex"); err != nil {
		t.Fatal(err)
	}
	if _, err := root.Child("items").RemoveAt(0); err != nil {
		t.Fatal(err)
	}
	want := []string{"/customer", "/items"}
	if diff := cmp.Diff(want, changed); diff != "" {
		t.Errorf("notifications mismatch (-want +got):\n%s", diff)
	}
}
