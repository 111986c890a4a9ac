package automaton

import (
	"context"
	"fmt"
	"sort"

	"github.com/wrasse-lang/wrasse/grammar"
	"github.com/wrasse-lang/wrasse/ierr"
)

// ItemSet is one state of the LR(0) viable-prefix automaton (spec.md §3,
// "LR(0) item set"): its kernel and a GOTO table over every grammar
// symbol it has a transition on. Kernel never includes the items added by
// closure — it is exactly enough to identify the set (spec.md GLOSSARY,
// "Kernel").
type ItemSet struct {
	ID     int
	Kernel []grammar.Item
	Goto   map[grammar.Symbol]int
}

// LR0 is the ordered array of LR(0) item sets the constructor produces;
// set 0 is always {S' -> .S} (spec.md §4.4 contract).
type LR0 struct {
	Sets []ItemSet
}

// kernelKey returns a stable string identifying a kernel's item set,
// independent of item order, used to intern kernels via a hash map
// (spec.md §4.4 step 3).
func kernelKey(items []grammar.Item) string {
	keys := make([]int, len(items))
	for i, it := range items {
		keys[i] = it.Key()
	}
	sort.Ints(keys)
	return fmt.Sprint(keys)
}

// Closure computes the closure of a set of LR(0) items over augmented
// grammar g, via a worklist over items rather than nonterminals — per
// spec.md §4.4 step 1, "the same production can re-enter closure with a
// different dot position in self-referential grammars, so closing
// per-production is incorrect".
func Closure(g *grammar.Grammar, items []grammar.Item) []grammar.Item {
	seen := map[int]bool{}
	var out []grammar.Item
	queue := append([]grammar.Item(nil), items...)
	for _, it := range queue {
		seen[it.Key()] = true
	}

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		out = append(out, it)

		sym, ok := it.AtDot(g)
		if !ok || !sym.IsNonterminal() {
			continue
		}
		for _, prodIdx := range g.Rule(sym).Productions {
			next := grammar.Item{Prod: prodIdx, Dot: 0}
			if !seen[next.Key()] {
				seen[next.Key()] = true
				queue = append(queue, next)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// Goto returns the kernel of GOTO(closure(kernel), sym): every item in the
// closure whose symbol after the dot is sym, advanced one position
// (spec.md §4.4 step 2).
func Goto(g *grammar.Grammar, kernel []grammar.Item, sym grammar.Symbol) []grammar.Item {
	closed := Closure(g, kernel)
	var out []grammar.Item
	for _, it := range closed {
		atDot, ok := it.AtDot(g)
		if ok && atDot == sym {
			out = append(out, it.Advance())
		}
	}
	return dedupItems(out)
}

func dedupItems(items []grammar.Item) []grammar.Item {
	seen := map[int]bool{}
	var out []grammar.Item
	for _, it := range items {
		if !seen[it.Key()] {
			seen[it.Key()] = true
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// BuildLR0 constructs the LR(0) kernel item sets and GOTO table for
// augmented grammar g (spec.md §4.4). g must already be augmented (its
// start production must be S' -> S); callers get one via
// (*grammar.Grammar).Augmented. ctx is polled once per dequeued item set
// (spec.md §5).
func BuildLR0(ctx context.Context, g *grammar.Grammar) (*LR0, error) {
	startItem := grammar.Item{Prod: g.Rule(g.StartSymbol()).Productions[0], Dot: 0}
	startKernel := []grammar.Item{startItem}

	byKey := map[string]int{}
	var sets []ItemSet

	key := kernelKey(startKernel)
	byKey[key] = 0
	sets = append(sets, ItemSet{ID: 0, Kernel: startKernel, Goto: map[grammar.Symbol]int{}})

	queue := []int{0}
	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return nil, ierr.New("LR(0) construction cancelled", ierr.ErrCancelled)
		default:
		}

		idx := queue[0]
		queue = queue[1:]

		closed := Closure(g, sets[idx].Kernel)

		// Group non-final items by their symbol-after-dot (spec.md §4.4
		// step 2).
		groups := map[grammar.Symbol][]grammar.Item{}
		var order []grammar.Symbol
		for _, it := range closed {
			sym, ok := it.AtDot(g)
			if !ok {
				continue
			}
			if _, seen := groups[sym]; !seen {
				order = append(order, sym)
			}
			groups[sym] = append(groups[sym], it.Advance())
		}

		for _, sym := range order {
			kernel := dedupItems(groups[sym])
			k := kernelKey(kernel)
			target, ok := byKey[k]
			if !ok {
				target = len(sets)
				byKey[k] = target
				sets = append(sets, ItemSet{ID: target, Kernel: kernel, Goto: map[grammar.Symbol]int{}})
				queue = append(queue, target)
			}
			sets[idx].Goto[sym] = target
		}
	}

	return &LR0{Sets: sets}, nil
}
