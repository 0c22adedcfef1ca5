package formula

import (
	"log/slog"

	"github.com/signadot/valtree/debug"
	"github.com/signadot/valtree/value"
)

// evaluationOrder sorts fs topologically so that each formula follows every
// formula node it depends on. Among formulas that are ready at the same
// time, collection order wins. When only cycles remain, the first cycle that
// waits on nothing outside itself is emitted in collection order and the
// sort resumes.
func evaluationOrder(fs []*Formula, log *slog.Logger) []*Formula {
	byNode := make(map[*value.Node]*Formula, len(fs))
	for _, f := range fs {
		byNode[f.Node] = f
	}
	inDegree := make(map[*Formula]int, len(fs))
	deps := make(map[*Formula][]*Formula, len(fs))
	dependents := make(map[*Formula][]*Formula, len(fs))
	for _, f := range fs {
		for _, dep := range f.Dependencies {
			g, ok := byNode[dep]
			if !ok || g == f {
				continue
			}
			deps[f] = append(deps[f], g)
			dependents[g] = append(dependents[g], f)
			inDegree[f]++
		}
	}

	res := make([]*Formula, 0, len(fs))
	done := make(map[*Formula]bool, len(fs))
	emit := func(f *Formula) {
		done[f] = true
		res = append(res, f)
		for _, g := range dependents[f] {
			inDegree[g]--
		}
	}
	for len(res) < len(fs) {
		// ready formula with the lowest collection order
		var next *Formula
		for _, f := range fs {
			if !done[f] && inDegree[f] <= 0 {
				next = f
				break
			}
		}
		if next != nil {
			emit(next)
			continue
		}
		cycle := sourceCycle(fs, done, deps)
		if len(cycle) == 0 {
			break
		}
		paths := make([]string, len(cycle))
		for i, f := range cycle {
			paths[i] = f.Node.Pointer()
			emit(f)
		}
		log.Warn("formula dependency cycle", "paths", paths)
	}
	if debug.Formula() {
		order := make([]string, len(res))
		for i, f := range res {
			order[i] = f.Node.Pointer()
		}
		debug.Logf("formula", "evaluation order %v", order)
	}
	return res
}

// sourceCycle returns, in collection order, the members of the first strongly
// connected component among the pending formulas whose outstanding
// dependencies all lie inside it.
func sourceCycle(fs []*Formula, done map[*Formula]bool, deps map[*Formula][]*Formula) []*Formula {
	comps := components(fs, done, deps)
	compOf := make(map[*Formula]int, len(fs))
	for i, c := range comps {
		for _, f := range c {
			compOf[f] = i
		}
	}
	for _, f := range fs {
		if done[f] {
			continue
		}
		c := compOf[f]
		if !closed(comps[c], c, compOf, done, deps) {
			continue
		}
		var res []*Formula
		for _, g := range fs {
			if !done[g] && compOf[g] == c {
				res = append(res, g)
			}
		}
		return res
	}
	return nil
}

func closed(comp []*Formula, c int, compOf map[*Formula]int, done map[*Formula]bool, deps map[*Formula][]*Formula) bool {
	for _, f := range comp {
		for _, g := range deps[f] {
			if !done[g] && compOf[g] != c {
				return false
			}
		}
	}
	return true
}

// components is Tarjan's algorithm over the pending formulas, following
// dependency edges.
func components(fs []*Formula, done map[*Formula]bool, deps map[*Formula][]*Formula) [][]*Formula {
	index := make(map[*Formula]int)
	low := make(map[*Formula]int)
	onStack := make(map[*Formula]bool)
	var stack []*Formula
	var res [][]*Formula
	var visit func(f *Formula)
	visit = func(f *Formula) {
		index[f] = len(index)
		low[f] = index[f]
		stack = append(stack, f)
		onStack[f] = true
		for _, g := range deps[f] {
			if done[g] {
				continue
			}
			if _, seen := index[g]; !seen {
				visit(g)
				low[f] = min(low[f], low[g])
			} else if onStack[g] {
				low[f] = min(low[f], index[g])
			}
		}
		if low[f] != index[f] {
			return
		}
		var comp []*Formula
		for {
			g := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[g] = false
			comp = append(comp, g)
			if g == f {
				break
			}
		}
		res = append(res, comp)
	}
	for _, f := range fs {
		if _, seen := index[f]; !done[f] && !seen {
			visit(f)
		}
	}
	return res
}
