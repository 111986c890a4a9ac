package lookahead

import (
	"context"
	"sort"

	"github.com/wrasse-lang/wrasse/automaton"
	"github.com/wrasse-lang/wrasse/grammar"
	"github.com/wrasse-lang/wrasse/ierr"
)

// ItemLA pairs an LR(0) item with its accumulated lookahead set.
type ItemLA struct {
	Item grammar.Item
	LA   Set
}

// LR1Closure computes the LR(1) closure of seeds over augmented grammar g,
// the core subroutine of spec.md §4.6: worklist-based; for item
// (A -> α•Bβ, la), for every production B -> γ, enqueue (B -> •γ,
// FIRST(βla)); destination items are deduped by item identity and the
// worklist terminates when no lookahead bits change for any seen item.
func LR1Closure(g *grammar.Grammar, first *FirstSets, seeds []ItemLA) []ItemLA {
	itemByKey := map[int]grammar.Item{}
	laByKey := map[int]*Set{}
	inQueue := map[int]bool{}
	var queue []int

	merge := func(it grammar.Item, la Set) {
		key := it.Key()
		existing, ok := laByKey[key]
		if !ok {
			itemByKey[key] = it
			empty := Set{}
			laByKey[key] = &empty
			existing = laByKey[key]
		}
		if existing.Union(la) && !inQueue[key] {
			inQueue[key] = true
			queue = append(queue, key)
		}
	}

	for _, seed := range seeds {
		merge(seed.Item, seed.LA)
	}

	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		inQueue[key] = false

		it := itemByKey[key]
		la := *laByKey[key]

		sym, ok := it.AtDot(g)
		if !ok || !sym.IsNonterminal() {
			continue
		}
		handle := g.Productions[it.Prod].Handle
		beta := handle[it.Dot+1:]
		betaLA := first.OfSequence(beta, la)

		for _, prodIdx := range g.Rule(sym).Productions {
			merge(grammar.Item{Prod: prodIdx, Dot: 0}, betaLA)
		}
	}

	out := make([]ItemLA, 0, len(itemByKey))
	for key, it := range itemByKey {
		out = append(out, ItemLA{Item: it, LA: *laByKey[key]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.Key() < out[j].Item.Key() })
	return out
}

// Lookaheads holds, for every (item-set index, kernel item) pair, the
// computed LALR(1) lookahead set, keyed by item-set index and item key.
type Lookaheads struct {
	byState []map[int]Set
}

// Of returns the lookahead set for kernel item it in item set stateIdx, or
// the zero Set if none was recorded (which only happens for a non-kernel
// item, a programmer error to query).
func (l *Lookaheads) Of(stateIdx int, it grammar.Item) Set {
	if m := l.byState[stateIdx]; m != nil {
		return m[it.Key()]
	}
	return Set{}
}

// Propagate computes LALR(1) lookaheads for every kernel item of every
// LR(0) item set, via the Knuth hash-marker technique (spec.md §4.6):
//  1. Seed lookaheads[(S', 0)].HasEnd = true.
//  2. For each kernel item K in each state I, compute the LR(1) closure of
//     (K, {#}); for each closure element (J, la) with J not final, let
//     goto_state = I.goto[sym], kernel_after = J.advance_dot(): if
//     la.HasHash, record a propagation edge (K,I) -> (kernel_after,
//     goto_state); union la\{#} into lookaheads[(kernel_after,
//     goto_state)] (spontaneous).
//  3. Fixed-point over the propagation edges until no lookahead set
//     changes.
//
// g must be the same augmented grammar lr0 was built from. ctx is polled
// once per fixed-point pass (spec.md §5).
func Propagate(ctx context.Context, g *grammar.Grammar, first *FirstSets, lr0 *automaton.LR0) (*Lookaheads, error) {
	type edge struct {
		fromState, toState int
		fromItem, toItem    grammar.Item
	}

	result := &Lookaheads{byState: make([]map[int]Set, len(lr0.Sets))}
	for i := range result.byState {
		result.byState[i] = map[int]Set{}
	}

	seed := func(stateIdx int, it grammar.Item, la Set) bool {
		m := result.byState[stateIdx]
		cur := m[it.Key()]
		if cur.Union(la) {
			m[it.Key()] = cur
			return true
		}
		m[it.Key()] = cur
		return false
	}

	// Step 1: the seed lookahead $ on S' -> .S in state 0.
	startItem := lr0.Sets[0].Kernel[0]
	seed(0, startItem, Set{HasEnd: true})

	// Step 2: spontaneous generation + propagation edges, via the # trick.
	var edges []edge
	for i, set := range lr0.Sets {
		for _, K := range set.Kernel {
			hashSeed := ItemLA{Item: K, LA: Set{HasHash: true}}
			closure := LR1Closure(g, first, []ItemLA{hashSeed})

			for _, entry := range closure {
				J := entry.Item
				sym, ok := J.AtDot(g)
				if !ok {
					continue
				}
				gotoState, ok := set.Goto[sym]
				if !ok {
					continue
				}
				kernelAfter := J.Advance()

				if entry.LA.HasHash {
					edges = append(edges, edge{fromState: i, fromItem: K, toState: gotoState, toItem: kernelAfter})
				}
				seed(gotoState, kernelAfter, entry.LA.WithoutHash())
			}
		}
	}

	// Step 3: fixed point over propagation edges.
	changed := true
	for changed {
		select {
		case <-ctx.Done():
			return nil, ierr.New("lookahead propagation cancelled", ierr.ErrCancelled)
		default:
		}

		changed = false
		for _, e := range edges {
			src := result.byState[e.fromState][e.fromItem.Key()]
			if seed(e.toState, e.toItem, src) {
				changed = true
			}
		}
	}

	return result, nil
}
