package regex

import (
	"fmt"
	"sort"

	"github.com/wrasse-lang/wrasse/ierr"
	"github.com/wrasse-lang/wrasse/internal/util"
)

// DFASymbolKind tags the different things a DFA state may accept, per
// spec.md §3 "DFA symbol".
type DFASymbolKind int

const (
	SymTerminal DFASymbolKind = iota
	SymNoise
	SymGroupStart
	SymGroupEnd
)

func (k DFASymbolKind) String() string {
	switch k {
	case SymTerminal:
		return "terminal"
	case SymNoise:
		return "noise"
	case SymGroupStart:
		return "group-start"
	case SymGroupEnd:
		return "group-end"
	default:
		return "unknown"
	}
}

// DFASymbol identifies what a DFA accepting state recognizes.
type DFASymbol struct {
	Kind DFASymbolKind
	Name string
}

func (s DFASymbol) String() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.Name)
}

// Priority bands from spec.md §3: a variable-length alternative (one
// containing a Star) is given the higher (weaker) number so that, when
// prioritizeFixedLengthSymbols is set, a fixed-length match of equal
// standing wins a tie.
const (
	PriorityVariableLength = 521
	PriorityFixedLength    = 475
)

// LeafKind distinguishes the three roles a numbered leaf can play.
type LeafKind int

const (
	LeafChars LeafKind = iota
	LeafAllButChars
	LeafEnd
)

// Leaf is the per-position information the canonicalizer produces for
// every numbered leaf of the augmented regex tree (spec.md §4.2).
type Leaf struct {
	Kind     LeafKind
	Chars    CharSet   // meaningful for LeafChars/LeafAllButChars
	Accept   DFASymbol // meaningful for LeafEnd
	Priority int       // meaningful for LeafEnd
}

// TerminalRegex pairs a terminal's regular expression with the DFA symbol
// it should produce when matched; it is the canonicalizer's per-terminal
// input unit (spec.md §4.2's "(regex, dfa-symbol) pairs").
type TerminalRegex struct {
	Regex  *Regex
	Symbol DFASymbol
}

// Canon is the canonicalizer's output: the numbered leaves of the
// combined, augmented regex tree, their followpos sets, and the firstpos
// of the tree's root (the DFA's start state name).
type Canon struct {
	Leaves    []Leaf
	Followpos []LeafSet
	Start     LeafSet
}

// Canonicalize combines the given terminal regexes into one augmented
// tree, numbers its leaves, and computes followpos for each, per spec.md
// §4.2. caseSensitive controls whether character classes are expanded to
// their upper/lower-case union before numbering.
func Canonicalize(pairs []TerminalRegex, caseSensitive bool) (*Canon, error) {
	if len(pairs) == 0 {
		return nil, ierr.New("no terminal regular expressions were supplied", ierr.ErrNoSymbolsSpecified)
	}

	var nullableNames []string
	for _, p := range pairs {
		if Nullable(p.Regex) {
			nullableNames = append(nullableNames, p.Symbol.Name)
		}
	}
	if len(nullableNames) > 0 {
		sort.Strings(nullableNames)
		return nil, ierr.New(
			fmt.Sprintf("terminal regular expression(s) can match the empty string: %s", util.MakeTextList(nullableNames)),
			ierr.ErrNullableSymbols,
		)
	}

	augmented := make([]*Regex, 0, len(pairs))
	for _, p := range pairs {
		r := p.Regex
		if !caseSensitive {
			r = caseFoldTree(r)
		}
		augmented = append(augmented, terminate(r, p.Symbol))
	}

	root := &Regex{Kind: KindAlt, Children: augmented}

	b := &canonBuilder{}
	_, firstpos, _ := b.visit(root)

	return &Canon{
		Leaves:    b.leaves,
		Followpos: b.followpos,
		Start:     firstpos,
	}, nil
}

// terminate appends a synthetic End leaf to r, carrying sym's priority and
// acceptance symbol. If r's root is an alternation, each alternative gets
// its own End leaf (and therefore potentially its own priority band), per
// spec.md §4.2, "eliminating otherwise unresolvable 'indistinguishable
// symbols' failures".
func terminate(r *Regex, sym DFASymbol) *Regex {
	if r.Kind == KindAlt {
		wrapped := make([]*Regex, len(r.Children))
		for i, alt := range r.Children {
			wrapped[i] = Concat(alt, endLeaf(priorityOf(alt), sym))
		}
		return &Regex{Kind: KindAlt, Children: wrapped}
	}
	return Concat(r, endLeaf(priorityOf(r), sym))
}

func priorityOf(r *Regex) int {
	if ContainsStar(r) {
		return PriorityVariableLength
	}
	return PriorityFixedLength
}

func endLeaf(priority int, sym DFASymbol) *Regex {
	return &Regex{Kind: kindEnd, EndPriority: priority, EndSymbol: sym}
}

// canonBuilder walks a combined regex tree once, numbering its leaves in
// postorder and computing nullable/firstpos/lastpos/followpos for every
// node as it is built (spec.md §9: "eager bottom-up build ... no thunks,
// no memoization needed").
type canonBuilder struct {
	leaves    []Leaf
	followpos []LeafSet
}

func (b *canonBuilder) newLeaf(l Leaf) int {
	pos := len(b.leaves)
	b.leaves = append(b.leaves, l)
	b.followpos = append(b.followpos, NewLeafSet(0))
	return pos
}

func (b *canonBuilder) visit(r *Regex) (nullable bool, firstpos, lastpos LeafSet) {
	switch r.Kind {
	case KindChars:
		pos := b.newLeaf(Leaf{Kind: LeafChars, Chars: r.Chars})
		firstpos.Add(pos)
		lastpos.Add(pos)
		return false, firstpos, lastpos

	case KindAllButChars:
		pos := b.newLeaf(Leaf{Kind: LeafAllButChars, Chars: r.Chars})
		firstpos.Add(pos)
		lastpos.Add(pos)
		return false, firstpos, lastpos

	case kindEnd:
		pos := b.newLeaf(Leaf{Kind: LeafEnd, Accept: r.EndSymbol, Priority: r.EndPriority})
		firstpos.Add(pos)
		lastpos.Add(pos)
		return false, firstpos, lastpos

	case KindStar:
		subNullable, subFirst, subLast := b.visit(r.Sub)
		_ = subNullable
		for _, p := range subLast.Elements() {
			b.followpos[p].Union(subFirst)
		}
		return true, subFirst, subLast

	case KindAlt:
		nullable = false
		for _, c := range r.Children {
			cNullable, cFirst, cLast := b.visit(c)
			nullable = nullable || cNullable
			firstpos.Union(cFirst)
			lastpos.Union(cLast)
		}
		return nullable, firstpos, lastpos

	case KindConcat:
		return b.visitConcat(r.Children)

	default:
		return true, firstpos, lastpos
	}
}

// visitConcat implements the n-ary concatenation rule by precomputing, for
// every suffix of the child list, that suffix's firstpos (and
// symmetrically, for every prefix, that prefix's lastpos), per spec.md
// §4.2's "for Concat precompute the firstpos of each suffix so followpos
// propagation needs no recomputation".
func (b *canonBuilder) visitConcat(children []*Regex) (nullable bool, firstpos, lastpos LeafSet) {
	n := len(children)
	if n == 0 {
		return true, firstpos, lastpos
	}

	childNullable := make([]bool, n)
	childFirst := make([]LeafSet, n)
	childLast := make([]LeafSet, n)
	for i, c := range children {
		childNullable[i], childFirst[i], childLast[i] = b.visit(c)
	}

	suffixFirst := make([]LeafSet, n+1)
	suffixNullable := make([]bool, n+1)
	suffixNullable[n] = true
	for i := n - 1; i >= 0; i-- {
		s := childFirst[i].Clone()
		if childNullable[i] {
			s.Union(suffixFirst[i+1])
		}
		suffixFirst[i] = s
		suffixNullable[i] = childNullable[i] && suffixNullable[i+1]
	}

	// lastpos(Concat[i..n-1]) folds right to left, mirroring suffixFirst:
	// lastpos(ci, REST) = lastpos(REST) ∪ (lastpos(ci) if REST is nullable).
	suffixLast := make([]LeafSet, n)
	suffixLast[n-1] = childLast[n-1].Clone()
	for i := n - 2; i >= 0; i-- {
		s := suffixLast[i+1].Clone()
		if suffixNullable[i+1] {
			s.Union(childLast[i])
		}
		suffixLast[i] = s
	}

	for i := 0; i < n-1; i++ {
		for _, p := range childLast[i].Elements() {
			b.followpos[p].Union(suffixFirst[i+1])
		}
	}

	return suffixNullable[0], suffixFirst[0], suffixLast[0]
}
