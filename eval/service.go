// Package eval parses and evaluates formula expressions with expr-lang.
//
// Formula text extends expr syntax with addressing tokens. Before parsing,
// the text is rewritten so that expr sees only plain identifiers:
//
//   - #index, #length, #first, #last, #parent, #root: array context
//   - @prev, @next: the neighbouring array item
//   - ../name: a field of an enclosing object, one level per ../
//   - /name: a field resolved from the tree root
//   - items[*].price: the list of price values over all items
//   - if(cond, a, b): a conditional that only evaluates the taken branch
//
// Evaluation binds every free identifier through a Resolver, which receives
// the reference text as written in the formula ("#index", "../rate",
// "items[*].price", "price").
//
// The #index token shadows expr's predicate #index inside closures.
package eval

import (
	"fmt"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/conf"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/types"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/valtree/debug"
)

// Resolver supplies the value of a reference at evaluation time.
type Resolver interface {
	Resolve(ref string) any
}

type ResolverFunc func(ref string) any

func (f ResolverFunc) Resolve(ref string) any {
	return f(ref)
}

// Program is a parsed, compiled formula.
type Program struct {
	Source    string
	Rewritten string

	refs    []string
	names   map[string]string
	program *vm.Program
}

// Service is the expression service consumed by the formula engine.
type Service struct{}

func New() *Service {
	return &Service{}
}

// Parse rewrites, parses and compiles src. Errors wrap ErrParse.
func (s *Service) Parse(src string) (*Program, error) {
	r := newRewriter()
	rewritten, err := r.rewrite(src)
	if err != nil {
		return nil, err
	}
	opts := exprOpts()
	cfg := conf.CreateNew()
	for _, opt := range opts {
		opt(cfg)
	}
	tree, err := parser.ParseWithConfig(rewritten, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrParse, src, err)
	}
	w := newRefWalker(r.refs)
	w.walk(tree.Node)
	// Declaring every free identifier lets fields named like expr
	// builtins (one, len, first, ...) shadow them.
	env := make(types.Map, len(w.names))
	for name := range w.names {
		env[name] = types.Any
	}
	program, err := expr.Compile(rewritten, append([]expr.Option{expr.Env(env)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrParse, src, err)
	}
	if debug.Eval() {
		debug.Logf("eval", "%q => %q refs %v", src, rewritten, w.refs)
	}
	return &Program{
		Source:    src,
		Rewritten: rewritten,
		refs:      w.refs,
		names:     w.names,
		program:   program,
	}, nil
}

// FreeReferences returns the references read by p, in order of first
// appearance. Array context tokens (#index, ...) are not included; @prev and
// @next references are, with any field accessed on them.
func (s *Service) FreeReferences(p *Program) []string {
	return slices.Clone(p.refs)
}

// Evaluate runs p, binding each free identifier through r.
func (s *Service) Evaluate(p *Program, r Resolver) (any, error) {
	env := make(map[string]any, len(p.names))
	names := make([]string, 0, len(p.names))
	for name := range p.names {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		env[name] = r.Resolve(p.names[name])
	}
	res, err := vm.Run(p.program, env)
	if debug.Eval() {
		debug.Logf("eval", "%q = %v (err %v)", p.Source, res, err)
	}
	return res, err
}
