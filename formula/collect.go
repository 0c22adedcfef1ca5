package formula

import (
	"log/slog"
	"slices"

	"github.com/signadot/valtree/debug"
	"github.com/signadot/valtree/eval"
	"github.com/signadot/valtree/value"
	"github.com/signadot/valtree/vpath"
)

// Service is the expression service the collector and engine consume.
// *eval.Service implements it.
type Service interface {
	Parse(expression string) (*eval.Program, error)
	FreeReferences(p *eval.Program) []string
	Evaluate(p *eval.Program, r eval.Resolver) (any, error)
}

// ArrayLevel is the position of a formula node within one enclosing array.
type ArrayLevel struct {
	Index     int
	Length    int
	Array     *value.Node
	ArrayPath vpath.Path
}

// Formula is a collected formula field.
type Formula struct {
	Node       *value.Node
	Expression string
	// Parent is the nearest enclosing object. It is nil when the formula
	// node has no enclosing object, i.e. it is the root.
	Parent *value.Node
	// ArrayLevels lists enclosing arrays, outermost first, as of collection.
	ArrayLevels  []ArrayLevel
	Dependencies []*value.Node
	Program      *eval.Program
	// ParseErr is set when the expression could not be parsed.
	ParseErr error
}

func (f *Formula) String() string {
	return f.Node.Pointer() + " = " + f.Expression
}

type Collector struct {
	svc Service
	log *slog.Logger
}

func NewCollector(svc Service, log *slog.Logger) *Collector {
	if log == nil {
		log = slog.Default()
	}
	return &Collector{svc: svc, log: log}
}

// Collect returns every formula field under root in document order.
// Unparsable expressions and unresolvable references contribute no
// dependencies; they never fail the pass.
func (c *Collector) Collect(root *value.Node) []*Formula {
	var res []*Formula
	root.Walk(func(n *value.Node, isPost bool) (bool, error) {
		if isPost || !n.IsPrimitive() || !n.HasFormula() {
			return true, nil
		}
		f := &Formula{
			Node:        n,
			Expression:  n.Formula(),
			Parent:      enclosingObject(n),
			ArrayLevels: arrayLevels(n),
		}
		c.resolve(f)
		res = append(res, f)
		return true, nil
	})
	if debug.Formula() {
		debug.Logf("formula", "collected %d formulas", len(res))
	}
	return res
}

func (c *Collector) resolve(f *Formula) {
	p, err := c.svc.Parse(f.Expression)
	if err != nil {
		f.ParseErr = err
		c.log.Warn("formula parse failed", "path", f.Node.Pointer(), "error", err)
		return
	}
	f.Program = p
	for _, ref := range c.svc.FreeReferences(p) {
		nodes, _ := locate(f.Node, ref)
		for _, dep := range nodes {
			for _, leaf := range dep.Leaves() {
				if leaf != f.Node && !slices.Contains(f.Dependencies, leaf) {
					f.Dependencies = append(f.Dependencies, leaf)
				}
			}
		}
		if debug.Formula() {
			debug.Logf("formula", "%s: %q resolved to %d nodes", f.Node.Pointer(), ref, len(nodes))
		}
	}
}

// arrayLevels computes the enclosing array levels of n, outermost first.
func arrayLevels(n *value.Node) []ArrayLevel {
	var res []ArrayLevel
	for x := n; x.Parent() != nil; x = x.Parent() {
		arr := x.Parent()
		if !arr.IsArray() {
			continue
		}
		res = append(res, ArrayLevel{
			Index:     x.Index(),
			Length:    arr.Len(),
			Array:     arr,
			ArrayPath: arr.Path(),
		})
	}
	slices.Reverse(res)
	return res
}
