package schema

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

func TestTypeText(t *testing.T) {
	for _, typ := range Types() {
		d, err := typ.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Type
		if err := got.UnmarshalText(d); err != nil {
			t.Fatal(err)
		}
		if got != typ {
			t.Errorf("%s round tripped to %s", typ, got)
		}
	}
	var x Type
	if err := x.UnmarshalText([]byte("integer")); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestDecode(t *testing.T) {
	src := `
type: object
required: [name]
properties:
  - name: name
    schema:
      type: string
      minLength: 2
  - name: total
    schema:
      type: number
      readOnly: true
      x-formula:
        version: 1
        expression: price * quantity
  - name: tags
    schema:
      type: array
      items:
        type: string
`
	var got Schema
	if err := yaml.Unmarshal([]byte(src), &got); err != nil {
		t.Fatal(err)
	}
	want := Object(
		Prop("name", String().WithMinLength(2)),
		Prop("total", Number().WithFormula("price * quantity")),
		Prop("tags", Array(String())),
	).WithRequired("name")
	// constructors fill in primitive defaults, descriptions may omit them
	want.Properties[0].Schema.Default = nil
	want.Properties[1].Schema.Default = nil
	want.Properties[2].Schema.Items.Default = nil
	if diff := cmp.Diff(want, &got); diff != "" {
		t.Errorf("decoded schema mismatch (-want +got):\n%s", diff)
	}

	d, err := json.Marshal(want)
	if err != nil {
		t.Fatal(err)
	}
	var back Schema
	if err := json.Unmarshal(d, &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, &back); diff != "" {
		t.Errorf("json round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultValue(t *testing.T) {
	s := Object(
		Prop("s", String()),
		Prop("n", Number().WithDefault(3.0)),
		Prop("b", Bool()),
		Prop("xs", Array(Number())),
		Prop("o", Object(Prop("inner", String().WithDefault("x")))),
	)
	want := map[string]any{
		"s":  "",
		"n":  3.0,
		"b":  false,
		"xs": []any{},
		"o":  map[string]any{"inner": "x"},
	}
	if diff := cmp.Diff(want, s.DefaultValue()); diff != "" {
		t.Errorf("DefaultValue mismatch (-want +got):\n%s", diff)
	}
}

func TestReadOnly(t *testing.T) {
	tests := []struct {
		name string
		s    *Schema
		want bool
	}{
		{"plain", Number(), false},
		{"readOnly", Number().WithReadOnly(), true},
		{"formula", Number().WithFormula("1"), true},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		if got := tt.s.IsReadOnly(); got != tt.want {
			t.Errorf("%s: IsReadOnly = %v", tt.name, got)
		}
	}
	if got := Number().WithFormula("a").Formula.Version; got != FormulaVersion {
		t.Errorf("formula version = %d", got)
	}
}
