// Package reactive provides a synchronous reactivity adapter for the
// formula engine.
//
// A Scheduler holds reactions. Notify re-runs every reaction's expression
// and calls its effect when the result differs from the last one seen.
// Watch wires a value tree's change notifications into Notify, so that
// any write to the tree re-runs the reactions before the write returns.
//
//	s := reactive.New(nil)
//	cancel := s.Watch(root)
//	defer cancel()
//	eng := formula.NewEngine(root, &formula.Options{Reactivity: s})
//	defer eng.Dispose()
package reactive

import (
	"log/slog"
	"slices"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/signadot/valtree/debug"
	"github.com/signadot/valtree/value"
)

const defaultMaxPasses = 100

type Options struct {
	// MaxPasses bounds the number of passes one Notify makes while effects
	// keep triggering further changes. Defaults to 100.
	MaxPasses int
	Log       *slog.Logger
}

type reaction struct {
	expr   func() any
	effect func(any)
	last   any
}

// Scheduler is not safe for concurrent use.
type Scheduler struct {
	maxPasses int
	log       *slog.Logger

	reactions []*reaction
	running   bool
	pending   bool
}

func New(opts *Options) *Scheduler {
	s := &Scheduler{maxPasses: defaultMaxPasses, log: slog.Default()}
	if opts != nil {
		if opts.MaxPasses > 0 {
			s.maxPasses = opts.MaxPasses
		}
		if opts.Log != nil {
			s.log = opts.Log
		}
	}
	return s
}

// Reaction registers effect to run with the result of expr whenever it
// changes. expr is evaluated once now to record the current result; effect
// is not called until a change is observed.
func (s *Scheduler) Reaction(expr func() any, effect func(any)) func() {
	r := &reaction{expr: expr, effect: effect, last: expr()}
	s.reactions = append(s.reactions, r)
	return func() {
		if i := slices.Index(s.reactions, r); i >= 0 {
			s.reactions = slices.Delete(s.reactions, i, i+1)
		}
	}
}

// Len returns the number of registered reactions.
func (s *Scheduler) Len() int {
	return len(s.reactions)
}

// Notify runs every reaction whose expression result changed. A Notify
// issued from within an effect schedules another pass instead of
// recursing.
func (s *Scheduler) Notify() {
	if s.running {
		s.pending = true
		return
	}
	s.running = true
	defer func() { s.running = false }()
	for pass := 0; ; pass++ {
		if pass == s.maxPasses {
			s.log.Warn("reactions did not settle", "passes", pass)
			s.pending = false
			return
		}
		s.pending = false
		fired := 0
		for _, r := range slices.Clone(s.reactions) {
			if !slices.Contains(s.reactions, r) {
				continue
			}
			v := r.expr()
			if cmp.Equal(v, r.last, cmpopts.EquateNaNs()) {
				continue
			}
			r.last = v
			fired++
			r.effect(v)
		}
		if debug.Reactive() {
			debug.Logf("reactive", "pass %d: %d of %d reactions fired", pass, fired, len(s.reactions))
		}
		if !s.pending {
			return
		}
	}
}

// Watch makes every change in root's tree call Notify. It replaces any
// observer already set on root. The returned function removes it.
func (s *Scheduler) Watch(root *value.Node) (cancel func()) {
	root.SetObserver(func(*value.Node) {
		s.Notify()
	})
	return func() {
		root.SetObserver(nil)
	}
}
