// Package precedence implements the operator-precedence conflict
// resolver (spec.md §4.8), queried by package action whenever a single
// lookahead terminal carries more than one proposed action.
package precedence

import (
	"github.com/wrasse-lang/wrasse/grammar"
)

// Reason explains why the resolver could not choose between two
// competing actions.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNoPrecedenceInfo
	ReasonPartialPrecedenceInfo
	ReasonDifferentOperatorScope
	ReasonPrecedenceOnlySpecified
	ReasonCannotResolveReduceReduce
	ReasonSamePrecedence
)

func (r Reason) String() string {
	switch r {
	case ReasonNoPrecedenceInfo:
		return "no precedence info"
	case ReasonPartialPrecedenceInfo:
		return "partial precedence info"
	case ReasonDifferentOperatorScope:
		return "different operator scope"
	case ReasonPrecedenceOnlySpecified:
		return "precedence-only specified"
	case ReasonCannotResolveReduceReduce:
		return "reduce/reduce resolution disabled for scope"
	case ReasonSamePrecedence:
		return "same precedence"
	default:
		return "none"
	}
}

// ShiftReduceOutcome is the verdict of resolve_shift_reduce.
type ShiftReduceOutcome int

const (
	ShiftWins ShiftReduceOutcome = iota
	ReduceWins
	NeitherWins
	CannotChooseShiftReduce
)

// ShiftReduceDecision is the full return value of ResolveShiftReduce.
type ShiftReduceDecision struct {
	Outcome ShiftReduceOutcome
	Reason  Reason // meaningful only when Outcome == CannotChooseShiftReduce
}

// ReduceReduceOutcome is the verdict of resolve_reduce_reduce.
type ReduceReduceOutcome int

const (
	FirstProductionWins ReduceReduceOutcome = iota
	SecondProductionWins
	CannotChooseReduceReduce
)

// ReduceReduceDecision is the full return value of ResolveReduceReduce.
type ReduceReduceDecision struct {
	Outcome ReduceReduceOutcome
	Reason  Reason // meaningful only when Outcome == CannotChooseReduceReduce
}

type precEntry struct {
	precedence int
	assoc      grammar.Associativity
}

// Resolver implements spec.md §4.8's two methods against a Grammar's
// declared operator scopes.
type Resolver struct {
	g *grammar.Grammar

	// group_lookup: operator-symbol -> scope index. First wins: a symbol
	// declared in two scopes uses the earliest.
	scopeOf map[grammar.Symbol]int

	// precedence_info: per scope index, symbol -> {precedence,
	// associativity}.
	precInfo []map[grammar.Symbol]precEntry

	// Explicit contextual-precedence override per production, attached by
	// the designtime grammar (spec.md §4.8: "a production's operator
	// symbol is (a) the explicit contextual-precedence object attached to
	// the production, else (b) the rightmost terminal in the handle that
	// has precedence info").
	contextual map[int]grammar.Symbol

	opSymCache map[int]opSymResult
}

type opSymResult struct {
	sym   grammar.Symbol
	found bool
}

// NewResolver builds a Resolver from g's declared scopes (g.Scopes) and an
// optional per-production contextual-precedence override map.
func NewResolver(g *grammar.Grammar, contextual map[int]grammar.Symbol) *Resolver {
	r := &Resolver{
		g:          g,
		scopeOf:    map[grammar.Symbol]int{},
		precInfo:   make([]map[grammar.Symbol]precEntry, len(g.Scopes)),
		contextual: contextual,
		opSymCache: map[int]opSymResult{},
	}
	for scopeIdx, scope := range g.Scopes {
		r.precInfo[scopeIdx] = map[grammar.Symbol]precEntry{}
		for groupIdx, group := range scope.Groups {
			prec := groupIdx + 1 // 1-based, higher value = higher precedence
			for _, sym := range group.Symbols {
				if _, already := r.scopeOf[sym]; !already {
					r.scopeOf[sym] = scopeIdx
				}
				if _, already := r.precInfo[scopeIdx][sym]; !already {
					r.precInfo[scopeIdx][sym] = precEntry{precedence: prec, assoc: group.Associativity}
				}
			}
		}
	}
	return r
}

// operatorSymbol returns the operator symbol of production prodID and
// whether one could be found, memoized per production.
func (r *Resolver) operatorSymbol(prodID int) (grammar.Symbol, bool) {
	if cached, ok := r.opSymCache[prodID]; ok {
		return cached.sym, cached.found
	}
	if sym, ok := r.contextual[prodID]; ok {
		r.opSymCache[prodID] = opSymResult{sym: sym, found: true}
		return sym, true
	}
	handle := r.g.Productions[prodID].Handle
	for i := len(handle) - 1; i >= 0; i-- {
		sym := handle[i]
		if !sym.IsTerminal() {
			continue
		}
		if _, ok := r.scopeOf[sym]; ok {
			r.opSymCache[prodID] = opSymResult{sym: sym, found: true}
			return sym, true
		}
	}
	r.opSymCache[prodID] = opSymResult{found: false}
	return grammar.Symbol{}, false
}

// ResolveShiftReduce implements spec.md §4.8's shift/reduce algorithm.
func (r *Resolver) ResolveShiftReduce(t grammar.Symbol, prodID int) ShiftReduceDecision {
	tScope, tOK := r.scopeOf[t]
	pSym, pOK := r.operatorSymbol(prodID)

	if !tOK {
		return ShiftReduceDecision{Outcome: CannotChooseShiftReduce, Reason: ReasonNoPrecedenceInfo}
	}
	if !pOK {
		return ShiftReduceDecision{Outcome: CannotChooseShiftReduce, Reason: ReasonPartialPrecedenceInfo}
	}
	pScope := r.scopeOf[pSym]
	if tScope != pScope {
		return ShiftReduceDecision{Outcome: CannotChooseShiftReduce, Reason: ReasonDifferentOperatorScope}
	}

	tInfo := r.precInfo[tScope][t]
	pInfo := r.precInfo[pScope][pSym]

	switch {
	case tInfo.precedence > pInfo.precedence:
		return ShiftReduceDecision{Outcome: ShiftWins}
	case tInfo.precedence < pInfo.precedence:
		return ShiftReduceDecision{Outcome: ReduceWins}
	default:
		switch tInfo.assoc {
		case grammar.AssocLeft:
			return ShiftReduceDecision{Outcome: ReduceWins}
		case grammar.AssocRight:
			return ShiftReduceDecision{Outcome: ShiftWins}
		case grammar.AssocPrecedenceOnly:
			return ShiftReduceDecision{Outcome: CannotChooseShiftReduce, Reason: ReasonPrecedenceOnlySpecified}
		default: // AssocNone: non-associative
			return ShiftReduceDecision{Outcome: NeitherWins}
		}
	}
}

// ResolveReduceReduce implements spec.md §4.8's reduce/reduce algorithm.
// It only resolves the conflict if the operator symbols of both
// productions share a scope with ResolvesReduceReduce set.
func (r *Resolver) ResolveReduceReduce(prod1, prod2 int) ReduceReduceDecision {
	sym1, ok1 := r.operatorSymbol(prod1)
	sym2, ok2 := r.operatorSymbol(prod2)
	if !ok1 || !ok2 {
		return ReduceReduceDecision{Outcome: CannotChooseReduceReduce, Reason: ReasonNoPrecedenceInfo}
	}

	scope1 := r.scopeOf[sym1]
	scope2 := r.scopeOf[sym2]
	if scope1 != scope2 {
		return ReduceReduceDecision{Outcome: CannotChooseReduceReduce, Reason: ReasonDifferentOperatorScope}
	}
	if !r.g.Scopes[scope1].ResolvesReduceReduce {
		return ReduceReduceDecision{Outcome: CannotChooseReduceReduce, Reason: ReasonCannotResolveReduceReduce}
	}

	p1 := r.precInfo[scope1][sym1]
	p2 := r.precInfo[scope2][sym2]
	switch {
	case p1.precedence > p2.precedence:
		return ReduceReduceDecision{Outcome: FirstProductionWins}
	case p1.precedence < p2.precedence:
		return ReduceReduceDecision{Outcome: SecondProductionWins}
	default:
		return ReduceReduceDecision{Outcome: CannotChooseReduceReduce, Reason: ReasonSamePrecedence}
	}
}
