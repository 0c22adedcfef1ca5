package vpath

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Path
		wantErr bool
	}{
		{
			name:  "root",
			input: "",
			want:  nil,
		},
		{
			name:  "single field",
			input: "price",
			want:  Path{Field("price")},
		},
		{
			name:  "nested fields",
			input: "a.b.c",
			want:  Path{Field("a"), Field("b"), Field("c")},
		},
		{
			name:  "field then index",
			input: "items[0].price",
			want:  Path{Field("items"), Index(0), Field("price")},
		},
		{
			name:  "consecutive indices",
			input: "m[1][2]",
			want:  Path{Field("m"), Index(1), Index(2)},
		},
		{
			name:  "wildcard",
			input: "items[*].price",
			want:  Path{Field("items"), Wildcard(), Field("price")},
		},
		{
			name:  "leading index",
			input: "[3]",
			want:  Path{Index(3)},
		},
		{
			name:    "unterminated index",
			input:   "items[0",
			wantErr: true,
		},
		{
			name:    "negative index",
			input:   "items[-1]",
			wantErr: true,
		},
		{
			name:    "empty field",
			input:   "a..b",
			wantErr: true,
		},
		{
			name:    "leading dot",
			input:   ".a",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrSyntax) {
					t.Fatalf("Parse(%q) error = %v, want ErrSyntax", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestPointer(t *testing.T) {
	tests := []struct {
		path Path
		want string
	}{
		{nil, ""},
		{Path{Field("a")}, "/a"},
		{Path{Field("orders"), Index(1), Field("items"), Index(0)}, "/orders/1/items/0"},
		{Path{Field("a/b"), Field("c~d")}, "/a~1b/c~0d"},
	}
	for _, tt := range tests {
		if got := tt.path.Pointer(); got != tt.want {
			t.Errorf("%v.Pointer() = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		input string
		want  *Ref
	}{
		{"price", &Ref{Path: Path{Field("price")}}},
		{"../total", &Ref{Up: 1, Path: Path{Field("total")}}},
		{"../../a.b", &Ref{Up: 2, Path: Path{Field("a"), Field("b")}}},
		{"/settings.rate", &Ref{Absolute: true, Path: Path{Field("settings"), Field("rate")}}},
		{"/items[*].price", &Ref{Absolute: true, Path: Path{Field("items"), Wildcard(), Field("price")}}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRef(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRef mismatch (-want +got):\n%s", diff)
			}
			if got.String() != tt.input {
				t.Errorf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}

	for _, bad := range []string{"", "/", "../", "/../a"} {
		if _, err := ParseRef(bad); err == nil {
			t.Errorf("ParseRef(%q) succeeded, want error", bad)
		}
	}
}

func TestPathHelpers(t *testing.T) {
	p := Path{Field("a"), Index(2)}
	child := p.Append(Field("b"))
	if child.String() != "a[2].b" {
		t.Errorf("Append = %q", child.String())
	}
	if p.String() != "a[2]" {
		t.Errorf("Append mutated receiver: %q", p.String())
	}
	if !child.Parent().Equal(p) {
		t.Errorf("Parent() = %q, want %q", child.Parent(), p)
	}
	if p.HasWildcard() || !(Path{Wildcard()}).HasWildcard() {
		t.Error("HasWildcard mismatch")
	}
}
