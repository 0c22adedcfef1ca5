package value

import (
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type DiagnosticType string

const (
	Required       DiagnosticType = "required"
	ForeignKey     DiagnosticType = "foreignKey"
	MinLength      DiagnosticType = "minLength"
	MaxLength      DiagnosticType = "maxLength"
	Pattern        DiagnosticType = "pattern"
	InvalidPattern DiagnosticType = "invalidPattern"
	Enum           DiagnosticType = "enum"
	NaN            DiagnosticType = "nan"
	Infinity       DiagnosticType = "infinity"
	TypeCoercion   DiagnosticType = "type-coercion"
	Evaluation     DiagnosticType = "evaluation"
)

// Diagnostic is one validation error or formula warning attached to a node.
// Params carries the values needed to render Message, e.g. {min, actual}.
type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Type     DiagnosticType `json:"type"`
	Message  string         `json:"message"`
	Path     string         `json:"path"`
	Params   map[string]any `json:"params,omitempty"`
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s %s at %q: %s", d.Severity, d.Type, d.Path, d.Message)
}

// Errors returns the validation errors of n and, for containers, of every
// descendant in document order. They are computed on each call.
func (n *Node) Errors() []*Diagnostic {
	var res []*Diagnostic
	n.Walk(func(x *Node, isPost bool) (bool, error) {
		if !isPost && x.IsPrimitive() {
			res = append(res, x.ownErrors()...)
		}
		return true, nil
	})
	return res
}

// Warnings returns the warnings of n and its descendants.
func (n *Node) Warnings() []*Diagnostic {
	var res []*Diagnostic
	n.Walk(func(x *Node, isPost bool) (bool, error) {
		if w := x.Warning(); !isPost && w != nil {
			res = append(res, w)
		}
		return true, nil
	})
	return res
}

func (n *Node) IsValid() bool {
	return len(n.Errors()) == 0
}

func (n *Node) HasWarnings() bool {
	return len(n.Warnings()) > 0
}

// Warning returns the node's own warning, or nil. Its path is the node's
// current position.
func (n *Node) Warning() *Diagnostic {
	if n.warning == nil {
		return nil
	}
	w := *n.warning
	w.Path = n.Pointer()
	return &w
}

// SetWarning records a warning on n, replacing any previous one.
func (n *Node) SetWarning(typ DiagnosticType, message string, params map[string]any) {
	n.warning = &Diagnostic{
		Severity: SeverityWarning,
		Type:     typ,
		Message:  message,
		Params:   params,
	}
}

func (n *Node) ClearWarning() {
	n.warning = nil
}

func (n *Node) isRequired() bool {
	p := n.parent
	return p != nil && p.IsObject() && p.schema.IsRequired(n.name)
}

func (n *Node) newError(typ DiagnosticType, msg string, params map[string]any) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityError,
		Type:     typ,
		Message:  msg,
		Path:     n.Pointer(),
		Params:   params,
	}
}

func (n *Node) ownErrors() []*Diagnostic {
	var res []*Diagnostic
	s := n.schema
	str, isString := n.value.(string)
	empty := n.value == nil || (isString && str == "")

	if n.isRequired() && empty {
		res = append(res, n.newError(Required, "field is required", nil))
	}
	if isString && s.ForeignKey != "" && empty {
		res = append(res, n.newError(ForeignKey, "foreign key reference is required",
			map[string]any{"table": s.ForeignKey}))
	}
	if isString {
		length := utf8.RuneCountInString(str)
		if s.MinLength != nil && !empty && length < *s.MinLength {
			res = append(res, n.newError(MinLength,
				fmt.Sprintf("must be at least %d characters", *s.MinLength),
				map[string]any{"min": *s.MinLength, "actual": length}))
		}
		if s.MaxLength != nil && length > *s.MaxLength {
			res = append(res, n.newError(MaxLength,
				fmt.Sprintf("must be at most %d characters", *s.MaxLength),
				map[string]any{"max": *s.MaxLength, "actual": length}))
		}
		if s.Pattern != "" && !empty {
			matched, err := matchPattern(s.Pattern, str)
			switch {
			case err != nil:
				res = append(res, n.newError(InvalidPattern,
					fmt.Sprintf("invalid pattern %q", s.Pattern),
					map[string]any{"pattern": s.Pattern}))
			case !matched:
				res = append(res, n.newError(Pattern,
					fmt.Sprintf("does not match pattern %q", s.Pattern),
					map[string]any{"pattern": s.Pattern}))
			}
		}
	}
	if len(s.Enum) > 0 && !n.inEnum() {
		res = append(res, n.newError(Enum, "value is not one of the allowed values",
			map[string]any{"allowed": slices.Clone(s.Enum), "actual": n.value}))
	}
	return res
}

func (n *Node) inEnum() bool {
	for _, e := range n.schema.Enum {
		if sameValue(coerce(n.typ, e, nil), n.value) {
			return true
		}
	}
	return false
}

// matchPattern reports whether pattern, an ECMA-262 regular expression as
// used by JSON Schema, matches anywhere in s.
func matchPattern(pattern, s string) (bool, error) {
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return false, err
	}
	return re.MatchString(s)
}
