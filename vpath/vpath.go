package vpath

import (
	"strconv"
	"strings"
)

type Kind int

const (
	FieldSegment Kind = iota
	IndexSegment
	WildcardSegment
)

// Segment is one step of a structural path: an object property, an array
// index, or an array wildcard [*].
type Segment struct {
	Kind  Kind
	Field string
	Index int
}

func Field(name string) Segment {
	return Segment{Kind: FieldSegment, Field: name}
}

func Index(i int) Segment {
	return Segment{Kind: IndexSegment, Index: i}
}

func Wildcard() Segment {
	return Segment{Kind: WildcardSegment}
}

// String returns the kinded representation of the segment alone.
//
//   - Field("a") → "a"
//   - Index(0) → "[0]"
//   - Wildcard() → "[*]"
func (s Segment) String() string {
	switch s.Kind {
	case IndexSegment:
		return "[" + strconv.Itoa(s.Index) + "]"
	case WildcardSegment:
		return "[*]"
	default:
		return s.Field
	}
}

// Path is an ordered list of steps from a root.
type Path []Segment

// String returns the kinded path, e.g. "orders[0].items[2].price".
// The root path is "".
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if s.Kind == FieldSegment && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Pointer renders the path as an RFC 6901 JSON pointer, e.g.
// "/orders/0/items/2/price". The root path is "".
func (p Path) Pointer() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		switch s.Kind {
		case IndexSegment:
			b.WriteString(strconv.Itoa(s.Index))
		case WildcardSegment:
			b.WriteByte('*')
		default:
			b.WriteString(pointerEscaper.Replace(s.Field))
		}
	}
	return b.String()
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	res := make(Path, len(p))
	copy(res, p)
	return res
}

func (p Path) Append(segs ...Segment) Path {
	res := make(Path, len(p), len(p)+len(segs))
	copy(res, p)
	return append(res, segs...)
}

// Parent returns the path without its last segment. The parent of the root
// is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1].Clone()
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasWildcard reports whether any segment is [*].
func (p Path) HasWildcard() bool {
	for _, s := range p {
		if s.Kind == WildcardSegment {
			return true
		}
	}
	return false
}
