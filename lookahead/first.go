package lookahead

import (
	"context"

	"github.com/wrasse-lang/wrasse/grammar"
	"github.com/wrasse-lang/wrasse/ierr"
)

// FirstSets holds FIRST(n) for every nonterminal of a Grammar, indexed by
// nonterminal ID (spec.md §4.5). HasEnd on FIRST(n) doubles as the ε
// marker, per the contract.
type FirstSets struct {
	byNonterminal []Set
}

// Of returns FIRST(nt).
func (f *FirstSets) Of(nt grammar.Symbol) Set {
	return f.byNonterminal[nt.ID]
}

// Solve computes FIRST(n) for every nonterminal of g by bitset-backed
// fixed point (spec.md §4.5): repeat until no change — for every
// production A -> X1...Xk, for i = 1..k while X1..Xi-1 are all nullable,
// add FIRST(Xi)\{ε} to FIRST(A); if all k are nullable (or k=0), add ε to
// FIRST(A). ctx is polled once per outer pass (spec.md §5).
func Solve(ctx context.Context, g *grammar.Grammar) (*FirstSets, error) {
	f := &FirstSets{byNonterminal: make([]Set, len(g.Nonterminals))}

	changed := true
	for changed {
		select {
		case <-ctx.Done():
			return nil, ierr.New("FIRST-set fixed point cancelled", ierr.ErrCancelled)
		default:
		}

		changed = false
		for _, p := range g.Productions {
			allNullableSoFar := true
			for _, sym := range p.Handle {
				if sym.IsTerminal() {
					dest := &f.byNonterminal[p.Head]
					if !dest.Has(sym.ID) {
						dest.Add(sym.ID)
						changed = true
					}
					allNullableSoFar = false
					break
				}
				// Nonterminal: add FIRST(sym)\{ε}, then check nullability.
				src := f.byNonterminal[sym.ID]
				nonEps := src.Clone()
				nonEps.HasEnd = false
				dest := &f.byNonterminal[p.Head]
				if dest.Union(nonEps) {
					changed = true
				}
				if !src.HasEnd {
					allNullableSoFar = false
					break
				}
			}
			if allNullableSoFar {
				dest := &f.byNonterminal[p.Head]
				if !dest.HasEnd {
					dest.HasEnd = true
					changed = true
				}
			}
		}
	}

	return f, nil
}

// OfSequence returns FIRST(beta . la): the FIRST of the symbol sequence
// beta, unioned with la if every symbol in beta is nullable (spec.md
// §4.6, "FIRST(βla) is the FIRST of the symbol sequence β, or, if all of β
// is nullable, the union with la"). Terminal symbols contribute
// themselves; la's HasHash/HasEnd flags pass through only when beta is
// fully nullable, mirroring how a concrete lookahead would.
func (f *FirstSets) OfSequence(beta []grammar.Symbol, la Set) Set {
	var out Set
	allNullable := true
	for _, sym := range beta {
		if sym.IsTerminal() {
			out.Add(sym.ID)
			allNullable = false
			break
		}
		src := f.byNonterminal[sym.ID]
		nonEps := src.Clone()
		nonEps.HasEnd = false
		out.Union(nonEps)
		if !src.HasEnd {
			allNullable = false
			break
		}
	}
	if allNullable {
		out.Union(la)
	}
	return out
}
