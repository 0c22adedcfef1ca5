package vpath

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse parses a kinded path string.
//
// Kinded path syntax:
//   - "a.b" → object field b of object field a
//   - "a[0]" → index 0 of array field a
//   - "a[*].b" → field b of every item of array field a
//   - "" → root path (returns nil)
func Parse(s string) (Path, error) {
	if s == "" {
		return nil, nil
	}
	var res Path
	frag := s
	first := true
	for len(frag) > 0 {
		switch frag[0] {
		case '.':
			if first {
				return nil, fmt.Errorf("%w: %q: leading '.'", ErrSyntax, s)
			}
			field, rest, err := parseField(frag[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
			}
			res = append(res, Field(field))
			frag = rest
		case '[':
			i := strings.IndexByte(frag[1:], ']')
			if i == -1 {
				return nil, fmt.Errorf("%w: %q: expected '[' <index> ']'", ErrSyntax, s)
			}
			seg, err := parseIndex(frag[1 : i+1])
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
			}
			res = append(res, seg)
			frag = frag[i+2:]
		default:
			if !first {
				return nil, fmt.Errorf("%w: %q: expected '.' or '[', got %q", ErrSyntax, s, frag[0])
			}
			field, rest, err := parseField(frag)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrSyntax, s, err)
			}
			res = append(res, Field(field))
			frag = rest
		}
		first = false
	}
	return res, nil
}

// parseField reads a field name up to the next '.' or '['.
func parseField(frag string) (field, rest string, err error) {
	i := strings.IndexAny(frag, ".[]")
	if i == -1 {
		i = len(frag)
	}
	if i == 0 {
		return "", "", fmt.Errorf("empty field name")
	}
	if i < len(frag) && frag[i] == ']' {
		return "", "", fmt.Errorf("unexpected ']'")
	}
	return frag[:i], frag[i:], nil
}

// parseIndex parses "0", "42" or "*".
func parseIndex(is string) (Segment, error) {
	if is == "*" {
		return Wildcard(), nil
	}
	u64, err := strconv.ParseUint(is, 10, 32)
	if err != nil {
		return Segment{}, fmt.Errorf("invalid array index %q", is)
	}
	return Index(int(u64)), nil
}

// Ref is a formula reference: a kinded path anchored either at the tree
// root ("/a.b"), at an ancestor object ("../../a.b"), or at the enclosing
// object ("a.b").
type Ref struct {
	Absolute bool
	Up       int
	Path     Path
}

// ParseRef parses the textual form of a formula reference.
func ParseRef(s string) (*Ref, error) {
	ref := &Ref{}
	rest := s
	if strings.HasPrefix(rest, "/") {
		ref.Absolute = true
		rest = rest[1:]
	}
	for strings.HasPrefix(rest, "../") {
		if ref.Absolute {
			return nil, fmt.Errorf("%w: %q: '../' after '/'", ErrSyntax, s)
		}
		ref.Up++
		rest = rest[3:]
	}
	if rest == "" {
		return nil, fmt.Errorf("%w: %q: empty reference", ErrSyntax, s)
	}
	p, err := Parse(rest)
	if err != nil {
		return nil, err
	}
	ref.Path = p
	return ref, nil
}

func (r *Ref) String() string {
	var b strings.Builder
	if r.Absolute {
		b.WriteByte('/')
	}
	for i := 0; i < r.Up; i++ {
		b.WriteString("../")
	}
	b.WriteString(r.Path.String())
	return b.String()
}
