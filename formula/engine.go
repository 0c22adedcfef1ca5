package formula

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/signadot/valtree/debug"
	"github.com/signadot/valtree/eval"
	"github.com/signadot/valtree/schema"
	"github.com/signadot/valtree/value"
)

type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateDisposed:
		return "disposed"
	default:
		return "uninitialized"
	}
}

// Adapter is a reactivity capability. Reaction calls effect with the new
// result of expr whenever that result changes, and returns a function that
// unsubscribes.
type Adapter interface {
	Reaction(expr func() any, effect func(any)) (unsubscribe func())
}

type Options struct {
	// Service parses and evaluates expressions. Defaults to eval.New().
	Service Service
	// Reactivity, when set, re-evaluates a formula whenever the values of
	// its dependencies change. Without it, changes propagate through
	// DependencyChanged or Reinitialize.
	Reactivity Adapter
	Log        *slog.Logger
}

// Engine evaluates the formula fields of a value tree.
type Engine struct {
	root    *value.Node
	svc     Service
	adapter Adapter
	log     *slog.Logger

	state      State
	formulas   []*Formula
	order      []*Formula
	byNode     map[*value.Node]*Formula
	dependents map[*value.Node][]*Formula
	unsubs     []func()
	errs       *multierror.Error
}

// NewEngine creates an engine over the tree containing root and initializes
// it: formulas are collected, ordered and evaluated.
func NewEngine(root *value.Node, opts *Options) *Engine {
	if opts == nil {
		opts = &Options{}
	}
	e := &Engine{
		root:    root.Root(),
		svc:     opts.Service,
		adapter: opts.Reactivity,
		log:     opts.Log,
	}
	if e.svc == nil {
		e.svc = eval.New()
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	e.Reinitialize()
	return e
}

func (e *Engine) State() State {
	return e.state
}

// Formulas returns the collected formulas in document order.
func (e *Engine) Formulas() []*Formula {
	return slices.Clone(e.formulas)
}

// EvaluationOrder returns the formulas in the order they are evaluated.
func (e *Engine) EvaluationOrder() []*Formula {
	return slices.Clone(e.order)
}

// FormulaOf returns the formula collected for n, or nil.
func (e *Engine) FormulaOf(n *value.Node) *Formula {
	return e.byNode[n]
}

// Err returns the evaluation failures of the last pass, or nil.
func (e *Engine) Err() error {
	return e.errs.ErrorOrNil()
}

// Reinitialize unsubscribes any reactions, then collects, orders and
// evaluates every formula from the current tree state. It does nothing on
// a disposed engine.
func (e *Engine) Reinitialize() {
	if e.state == StateDisposed {
		e.log.Warn("reinitialize on disposed formula engine")
		return
	}
	e.unsubscribe()
	e.errs = nil
	e.formulas = NewCollector(e.svc, e.log).Collect(e.root)
	e.order = evaluationOrder(e.formulas, e.log)
	e.byNode = make(map[*value.Node]*Formula, len(e.formulas))
	e.dependents = map[*value.Node][]*Formula{}
	for _, f := range e.formulas {
		e.byNode[f.Node] = f
		for _, dep := range f.Dependencies {
			e.dependents[dep] = append(e.dependents[dep], f)
		}
	}
	for _, f := range e.order {
		e.evaluate(f)
	}
	if e.adapter != nil {
		for _, f := range e.order {
			e.subscribe(f)
		}
	}
	e.state = StateInitialized
	e.log.Debug("formulas evaluated", "count", len(e.order), "failed", e.failed())
}

// Dispose unsubscribes every reaction the engine registered and forgets the
// collected formulas.
func (e *Engine) Dispose() {
	e.unsubscribe()
	e.formulas = nil
	e.order = nil
	e.byNode = nil
	e.dependents = nil
	e.state = StateDisposed
}

// DependencyChanged re-evaluates, in evaluation order, every formula that
// depends directly or transitively on n or on a leaf below n.
func (e *Engine) DependencyChanged(n *value.Node) {
	if e.state != StateInitialized {
		return
	}
	affected := map[*Formula]bool{}
	queue := n.Leaves()
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		for _, f := range e.dependents[x] {
			if !affected[f] {
				affected[f] = true
				queue = append(queue, f.Node)
			}
		}
	}
	if debug.Formula() {
		debug.Logf("formula", "%s changed, %d formulas affected", n.Pointer(), len(affected))
	}
	for _, f := range e.order {
		if affected[f] {
			e.evaluate(f)
		}
	}
}

func (e *Engine) failed() int {
	if e.errs == nil {
		return 0
	}
	return len(e.errs.Errors)
}

func (e *Engine) subscribe(f *Formula) {
	deps := f.Dependencies
	unsub := e.adapter.Reaction(func() any {
		vals := make([]any, len(deps))
		for i, d := range deps {
			vals[i] = d.Value()
		}
		return vals
	}, func(any) {
		e.evaluate(f)
	})
	e.unsubs = append(e.unsubs, unsub)
}

func (e *Engine) unsubscribe() {
	for _, unsub := range e.unsubs {
		unsub()
	}
	e.unsubs = nil
}

// evaluate computes f and writes the result to its node. Failures are
// recorded as an evaluation warning, leaving the previous value in place.
func (e *Engine) evaluate(f *Formula) {
	n := f.Node
	n.ClearWarning()
	if f.Program == nil {
		n.SetWarning(value.Evaluation, fmt.Sprintf("cannot parse formula: %v", f.ParseErr), nil)
		return
	}
	res, err := e.svc.Evaluate(f.Program, newResolver(f))
	if err != nil {
		err = fmt.Errorf("%s: %w", n.Pointer(), err)
		e.errs = multierror.Append(e.errs, err)
		e.log.Warn("formula evaluation failed", "path", n.Pointer(), "expression", f.Expression, "error", err)
		n.SetWarning(value.Evaluation, err.Error(), nil)
		return
	}
	if !value.Conforms(n.Type(), res) {
		n.SetWarning(value.TypeCoercion,
			fmt.Sprintf("result of type %T coerced to %s", res, n.Type()),
			map[string]any{"from": fmt.Sprintf("%T", res), "to": n.Type().String()})
	} else if x, ok := value.ToFloat(res); ok && n.Type() == schema.NumberType {
		switch {
		case math.IsNaN(x):
			n.SetWarning(value.NaN, "result is not a number", nil)
		case math.IsInf(x, 0):
			n.SetWarning(value.Infinity, "result is infinite", nil)
		}
	}
	if err := n.SetValue(res, value.Internal()); err != nil {
		e.errs = multierror.Append(e.errs, err)
		e.log.Error("formula write failed", "path", n.Pointer(), "error", err)
	}
}
