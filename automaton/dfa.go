// Package automaton builds the two automata the compiler's middle stages
// produce: the lexeme-recognizing DFA (spec.md §4.3, subset construction
// over a canonical regex tree) and the LR(0) viable-prefix item sets
// (spec.md §4.4), grounded on the teacher's automaton.go and parse/lalr.go
// but rebuilt around dense indices and bitsets per spec.md §9 rather than
// string-keyed item sets.
package automaton

import (
	"context"
	"fmt"
	"sort"

	"github.com/wrasse-lang/wrasse/ierr"
	"github.com/wrasse-lang/wrasse/regex"
)

// Edge is one contiguous run of code units sharing a destination state, the
// range-map representation spec.md §4.3 calls for ("compressed into a
// range map (run-length-encoded intervals) for the final table").
type Edge struct {
	Lo, Hi rune
	Next   int
}

// DFAState is one state of the lexeme-recognizing DFA (spec.md §3, "DFA
// state"). Accept is nil when the state accepts nothing. AnyElse, when
// non-negative, is the fallback target for any code unit not covered by
// Edges.
type DFAState struct {
	ID      int
	Accept  *regex.DFASymbol
	Edges   []Edge
	AnyElse int // -1 if absent
}

// DFA is the ordered array of states the builder produces; state 0 is
// always the start state (spec.md §4.3 contract).
type DFA struct {
	States []DFAState
}

// prioritizeFixedLength, when true, lets a strictly lower-priority
// (fixed-length) candidate win over a higher-priority one at the same
// state instead of raising IndistinguishableSymbols, per spec.md §4.3's
// accept-resolution policy.
type buildOptions struct {
	prioritizeFixedLength bool
}

// Option configures Build.
type Option func(*buildOptions)

// WithPrioritizeFixedLengthSymbols enables the fixed-length tie-break in
// accept resolution (spec.md §4.3).
func WithPrioritizeFixedLengthSymbols() Option {
	return func(o *buildOptions) { o.prioritizeFixedLength = true }
}

// Build runs subset construction over a canonicalized regex (package
// regex's Canon), per spec.md §4.3. ctx is polled cooperatively once per
// discovered state (spec.md §5).
func Build(ctx context.Context, c *regex.Canon, opts ...Option) (*DFA, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	type pending struct {
		name  regex.LeafSet
		index int
	}

	byKey := map[string]int{}
	var states []DFAState
	var queue []pending

	startKey := c.Start.Key()
	byKey[startKey] = 0
	queue = append(queue, pending{name: c.Start, index: 0})
	states = append(states, DFAState{ID: 0, AnyElse: -1})

	intern := func(name regex.LeafSet) int {
		key := name.Key()
		if idx, ok := byKey[key]; ok {
			return idx
		}
		idx := len(states)
		byKey[key] = idx
		states = append(states, DFAState{ID: idx, AnyElse: -1})
		queue = append(queue, pending{name: name, index: idx})
		return idx
	}

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return nil, ierr.New("DFA construction cancelled", ierr.ErrCancelled)
		default:
		}

		cur := queue[0]
		queue = queue[1:]

		accept, err := resolveAccept(c, cur.name, o.prioritizeFixedLength)
		if err != nil {
			return nil, err
		}
		states[cur.index].Accept = accept

		// Step 1/2: split the state's leaves into concrete-char
		// contributors and any-but contributors.
		var concrete regex.CharSet
		var anyBut regex.CharSet
		for _, i := range cur.name.Elements() {
			leaf := c.Leaves[i]
			switch leaf.Kind {
			case regex.LeafChars:
				concrete = concrete.Union(leaf.Chars)
			case regex.LeafAllButChars:
				anyBut = anyBut.Union(leaf.Chars)
			}
		}

		var edges []Edge

		// Step 5: anything-else target, from AllButChars leaves' followpos.
		anyElseTarget := -1
		{
			var u regex.LeafSet
			any := false
			for _, i := range cur.name.Elements() {
				if c.Leaves[i].Kind == regex.LeafAllButChars {
					any = true
					u.Union(c.Followpos[i])
				}
			}
			if any {
				anyElseTarget = intern(u)
			}
		}
		states[cur.index].AnyElse = anyElseTarget

		// Step 3: the complement of anyBut (i.e. every code unit NOT
		// excluded by any AllButChars leaf here) pre-fills edges pointing
		// at the anything-else target, so a later concrete-char write can
		// overwrite it. Per spec.md §9's Open Question, this ordering
		// (any-but first, concrete last) is load-bearing.
		if anyElseTarget >= 0 {
			for _, r := range complement(anyBut) {
				edges = append(edges, Edge{Lo: r.Lo, Hi: r.Hi, Next: anyElseTarget})
			}
		}

		// Step 4: concrete transitions, grouped by common destination via
		// followpos union per code unit. We compute, for every code unit
		// appearing in some Chars leaf of this state, the union of
		// followpos over leaves whose Chars contains it, then overwrite
		// the pre-filled edges with these concrete runs.
		concreteEdges := computeConcreteEdges(c, cur.name, concrete, intern)
		edges = overwrite(edges, concreteEdges)

		states[cur.index].Edges = edges
	}

	return &DFA{States: states}, nil
}

// computeConcreteEdges groups the code units covered by concrete leaves of
// state by destination state, compressing into ranges.
func computeConcreteEdges(c *regex.Canon, name regex.LeafSet, concrete regex.CharSet, intern func(regex.LeafSet) int) []Edge {
	leafIdx := name.Elements()

	var runs []Edge
	for _, rg := range concrete.Ranges() {
		lo := rg.Lo
		for lo <= rg.Hi {
			var u regex.LeafSet
			for _, i := range leafIdx {
				leaf := c.Leaves[i]
				if leaf.Kind == regex.LeafChars && leaf.Chars.Contains(lo) {
					u.Union(c.Followpos[i])
				}
			}
			hi := lo
			for hi+1 <= rg.Hi && sameFollowSet(c, leafIdx, hi+1, lo) {
				hi++
			}
			runs = append(runs, Edge{Lo: lo, Hi: hi, Next: intern(u)})
			lo = hi + 1
		}
	}
	return runs
}

// sameFollowSet reports whether code unit r is covered by exactly the same
// set of Chars-leaves (and therefore the same destination) as code unit
// ref, letting computeConcreteEdges merge adjacent code units into one
// run instead of emitting one edge per code unit.
func sameFollowSet(c *regex.Canon, leafIdx []int, r, ref rune) bool {
	for _, i := range leafIdx {
		leaf := c.Leaves[i]
		if leaf.Kind != regex.LeafChars {
			continue
		}
		if leaf.Chars.Contains(r) != leaf.Chars.Contains(ref) {
			return false
		}
	}
	return true
}

// complement returns the ranges of [0, regex.MaxChar] not covered by set.
func complement(set regex.CharSet) []regex.Range {
	var out []regex.Range
	next := rune(0)
	for _, r := range set.Ranges() {
		if r.Lo > next {
			out = append(out, regex.Range{Lo: next, Hi: r.Lo - 1})
		}
		if r.Hi+1 > next {
			next = r.Hi + 1
		}
	}
	if next <= regex.MaxChar {
		out = append(out, regex.Range{Lo: next, Hi: regex.MaxChar})
	}
	return out
}

// overwrite returns base with each edge in later replacing whatever
// portion of base it covers — "a specific char beats a negated class"
// (spec.md §4.3 step 3).
func overwrite(base []Edge, later []Edge) []Edge {
	if len(later) == 0 {
		return base
	}
	type point struct {
		at   rune
		next int
		has  bool
	}
	// Build a flat, sorted boundary list and resolve, at each resulting
	// sub-range, which of base/later last wrote to it (later wins ties).
	var bounds []rune
	for _, e := range base {
		bounds = append(bounds, e.Lo, e.Hi+1)
	}
	for _, e := range later {
		bounds = append(bounds, e.Lo, e.Hi+1)
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i] < bounds[j] })

	uniq := bounds[:0]
	for i, b := range bounds {
		if i == 0 || b != uniq[len(uniq)-1] {
			uniq = append(uniq, b)
		}
	}
	bounds = uniq

	find := func(edges []Edge, at rune) (int, bool) {
		for _, e := range edges {
			if at >= e.Lo && at <= e.Hi {
				return e.Next, true
			}
		}
		return 0, false
	}

	var out []Edge
	for i := 0; i+1 < len(bounds); i++ {
		lo := bounds[i]
		hi := bounds[i+1] - 1
		if hi < lo {
			continue
		}
		var p point
		if next, ok := find(later, lo); ok {
			p = point{next: next, has: true}
		} else if next, ok := find(base, lo); ok {
			p = point{next: next, has: true}
		}
		if !p.has {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Next == p.next && out[n-1].Hi+1 == lo {
			out[n-1].Hi = hi
			continue
		}
		out = append(out, Edge{Lo: lo, Hi: hi, Next: p.next})
	}
	return out
}

// resolveAccept implements the accept-candidate policy of spec.md §4.3.
func resolveAccept(c *regex.Canon, name regex.LeafSet, prioritizeFixedLength bool) (*regex.DFASymbol, error) {
	type candidate struct {
		sym  regex.DFASymbol
		prio int
	}
	var candidates []candidate
	for _, i := range name.Elements() {
		leaf := c.Leaves[i]
		if leaf.Kind == regex.LeafEnd {
			candidates = append(candidates, candidate{sym: leaf.Accept, prio: leaf.Priority})
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].prio < candidates[j].prio })

	allSame := true
	for _, cand := range candidates[1:] {
		if cand.sym != candidates[0].sym {
			allSame = false
			break
		}
	}
	if allSame {
		sym := candidates[0].sym
		return &sym, nil
	}
	if prioritizeFixedLength && candidates[0].prio < candidates[1].prio {
		sym := candidates[0].sym
		return &sym, nil
	}

	names := make([]string, len(candidates))
	for i, cand := range candidates {
		names[i] = cand.sym.String()
	}
	return nil, ierr.New(
		fmt.Sprintf("indistinguishable symbols in one DFA state: %v", names),
		ierr.ErrIndistinguishableSymbols,
	)
}
