package eval

import (
	"slices"
	"strconv"
	"strings"

	"github.com/expr-lang/expr/ast"
)

// refWalker collects the free references of a parsed formula: identifiers
// and the static member chains hanging off them, in order of appearance.
type refWalker struct {
	placeholders map[string]string
	declared     map[string]bool
	names        map[string]string // identifier -> reference text
	refs         []string
}

func newRefWalker(placeholders map[string]string) *refWalker {
	return &refWalker{
		placeholders: placeholders,
		declared:     map[string]bool{},
		names:        map[string]string{},
	}
}

func (w *refWalker) walk(node ast.Node) {
	if node == nil {
		return
	}
	switch n := node.(type) {
	case *ast.IdentifierNode:
		if text, ok := w.ident(n.Value); ok {
			w.add(text)
		}
	case *ast.MemberNode:
		w.member(n)
	case *ast.CallNode:
		if _, ok := n.Callee.(*ast.IdentifierNode); !ok {
			w.walk(n.Callee)
		}
		for _, arg := range n.Arguments {
			w.walk(arg)
		}
	case *ast.BinaryNode:
		w.walk(n.Left)
		w.walk(n.Right)
	case *ast.UnaryNode:
		w.walk(n.Node)
	case *ast.ConditionalNode:
		w.walk(n.Cond)
		w.walk(n.Exp1)
		w.walk(n.Exp2)
	case *ast.ArrayNode:
		for _, elem := range n.Nodes {
			w.walk(elem)
		}
	case *ast.MapNode:
		for _, pair := range n.Pairs {
			w.walk(pair)
		}
	case *ast.PairNode:
		w.walk(n.Key)
		w.walk(n.Value)
	case *ast.SliceNode:
		w.walk(n.Node)
		w.walk(n.From)
		w.walk(n.To)
	case *ast.ChainNode:
		w.walk(n.Node)
	case *ast.BuiltinNode:
		for _, arg := range n.Arguments {
			w.walk(arg)
		}
	case *ast.PredicateNode:
		w.walk(n.Node)
	case *ast.VariableDeclaratorNode:
		w.walk(n.Value)
		w.declared[n.Name] = true
		w.walk(n.Expr)
	case *ast.SequenceNode:
		for _, stmt := range n.Nodes {
			w.walk(stmt)
		}
	}
}

// member handles a.b[0].c chains. A dynamic property such as a[i] ends the
// static reference; its own expression is walked separately.
func (w *refWalker) member(n *ast.MemberNode) {
	var segs []string
	var cur ast.Node = n
	for {
		m, ok := cur.(*ast.MemberNode)
		if !ok {
			break
		}
		switch p := m.Property.(type) {
		case *ast.StringNode:
			segs = append(segs, "."+p.Value)
		case *ast.IntegerNode:
			segs = append(segs, "["+strconv.Itoa(p.Value)+"]")
		default:
			w.walk(m.Property)
			segs = segs[:0]
		}
		cur = m.Node
	}
	id, ok := cur.(*ast.IdentifierNode)
	if !ok {
		w.walk(cur)
		return
	}
	text, ok := w.ident(id.Value)
	if !ok {
		return
	}
	slices.Reverse(segs)
	w.add(text + strings.Join(segs, ""))
}

// ident records the binding of a free identifier and returns the reference
// text it stands for.
func (w *refWalker) ident(name string) (string, bool) {
	if w.declared[name] {
		return "", false
	}
	var text string
	switch {
	case strings.HasPrefix(name, hashPrefix):
		text = "#" + strings.TrimPrefix(name, hashPrefix)
	case strings.HasPrefix(name, atPrefix):
		text = "@" + strings.TrimPrefix(name, atPrefix)
	case w.placeholders[name] != "":
		text = w.placeholders[name]
	default:
		text = name
	}
	w.names[name] = text
	return text, true
}

func (w *refWalker) add(text string) {
	if strings.HasPrefix(text, "#") || slices.Contains(w.refs, text) {
		return
	}
	w.refs = append(w.refs, text)
}
