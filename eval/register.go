package eval

import (
	"fmt"
	"slices"
	"sync"

	"github.com/expr-lang/expr"
)

// Func is a function callable from formulas.
type Func struct {
	Name string
	Fn   func(params ...any) (any, error)
}

var (
	mu sync.RWMutex
	d  = map[string]Func{}
)

// Register makes f available to every Service created afterwards.
func Register(f Func) error {
	mu.Lock()
	defer mu.Unlock()
	_, present := d[f.Name]
	if present {
		return fmt.Errorf("%s: %w", f.Name, ErrSymbolExists)
	}
	d[f.Name] = f
	return nil
}

func init() {
	Register(Func{Name: "sum", Fn: sum})
	Register(Func{Name: "avg", Fn: avg})
	Register(Func{Name: "min", Fn: minOf})
	Register(Func{Name: "max", Fn: maxOf})
	Register(Func{Name: "count", Fn: count})
}

// Funcs returns the registered functions sorted by name.
func Funcs() []Func {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]Func, 0, len(d))
	for _, f := range d {
		res = append(res, f)
	}
	slices.SortFunc(res, func(a, b Func) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return res
}

func exprOpts() []expr.Option {
	fs := Funcs()
	opts := make([]expr.Option, 0, 2*len(fs)+1)
	opts = append(opts, expr.AllowUndefinedVariables())
	for _, f := range fs {
		opts = append(opts, expr.DisableBuiltin(f.Name), expr.Function(f.Name, f.Fn))
	}
	return opts
}
