package precedence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrasse-lang/wrasse/grammar"
	"github.com/wrasse-lang/wrasse/precedence"
	"github.com/wrasse-lang/wrasse/regex"
)

// buildExprGrammar builds end-to-end scenario 2 from spec.md §8:
//
//	E -> E '+' E | E '*' E | 'n'
//	scope [Left('+'), Left('*')]
func buildExprGrammar(t *testing.T) (*grammar.Grammar, int, int, int) {
	t.Helper()
	g := grammar.New(true)
	e, _ := g.AddNonterminal("E")
	plus, _ := g.AddTerminal("+", regex.Lit('+'))
	star, _ := g.AddTerminal("*", regex.Lit('*'))
	n, _ := g.AddTerminal("n", regex.Lit('n'))

	plusProd, err := g.AddProduction(e, e, plus, e)
	require.NoError(t, err)
	starProd, err := g.AddProduction(e, e, star, e)
	require.NoError(t, err)
	nProd, err := g.AddProduction(e, n)
	require.NoError(t, err)

	g.Scopes = []grammar.Scope{{
		Name: "default",
		Groups: []grammar.OperatorGroup{
			{Associativity: grammar.AssocLeft, Symbols: []grammar.Symbol{plus}},
			{Associativity: grammar.AssocLeft, Symbols: []grammar.Symbol{star}},
		},
	}}
	require.NoError(t, g.SetStart(e))
	return g, plusProd, starProd, nProd
}

func Test_ResolveShiftReduce_higherPrecedenceShifts(t *testing.T) {
	g, plusProd, _, _ := buildExprGrammar(t)
	r := precedence.NewResolver(g, nil)

	star := g.Terminals[1].ID
	starSym := grammar.Term(star)

	// "n + n * n": at the point where reduce(E -> E+E) competes with
	// shift on '*', '*' has higher precedence than '+' and must shift.
	decision := r.ResolveShiftReduce(starSym, plusProd)
	assert.Equal(t, precedence.ShiftWins, decision.Outcome)
}

func Test_ResolveShiftReduce_lowerPrecedenceReduces(t *testing.T) {
	g, _, starProd, _ := buildExprGrammar(t)
	r := precedence.NewResolver(g, nil)

	plus := grammar.Term(g.Terminals[0].ID)

	decision := r.ResolveShiftReduce(plus, starProd)
	assert.Equal(t, precedence.ReduceWins, decision.Outcome)
}

func Test_ResolveShiftReduce_leftAssocSamePrecedenceReduces(t *testing.T) {
	g, plusProd, _, _ := buildExprGrammar(t)
	r := precedence.NewResolver(g, nil)

	plus := grammar.Term(g.Terminals[0].ID)

	decision := r.ResolveShiftReduce(plus, plusProd)
	assert.Equal(t, precedence.ReduceWins, decision.Outcome)
}

func Test_ResolveShiftReduce_nonAssociativeChoosesNeither(t *testing.T) {
	// Scenario 3: E -> E '==' E | 'n', NonAssociative('==').
	g := grammar.New(true)
	e, _ := g.AddNonterminal("E")
	eq, _ := g.AddTerminal("==", regex.Literal("=="))
	n, _ := g.AddTerminal("n", regex.Lit('n'))

	eqProd, err := g.AddProduction(e, e, eq, e)
	require.NoError(t, err)
	_, err = g.AddProduction(e, n)
	require.NoError(t, err)

	g.Scopes = []grammar.Scope{{
		Name: "default",
		Groups: []grammar.OperatorGroup{
			{Associativity: grammar.AssocNone, Symbols: []grammar.Symbol{eq}},
		},
	}}
	require.NoError(t, g.SetStart(e))

	r := precedence.NewResolver(g, nil)
	decision := r.ResolveShiftReduce(eq, eqProd)
	assert.Equal(t, precedence.NeitherWins, decision.Outcome)
}

func Test_ResolveShiftReduce_noPrecedenceInfo(t *testing.T) {
	g, plusProd, _, _ := buildExprGrammar(t)
	r := precedence.NewResolver(g, nil)

	other, _ := g.AddTerminal("other", regex.Lit('x'))
	decision := r.ResolveShiftReduce(other, plusProd)
	require.Equal(t, precedence.CannotChooseShiftReduce, decision.Outcome)
	assert.Equal(t, precedence.ReasonNoPrecedenceInfo, decision.Reason)
}

func Test_ResolveReduceReduce_disabledByDefault(t *testing.T) {
	g := grammar.New(true)
	e, _ := g.AddNonterminal("E")
	a, _ := g.AddTerminal("a", regex.Lit('a'))
	b, _ := g.AddTerminal("b", regex.Lit('b'))

	prod1, err := g.AddProduction(e, a)
	require.NoError(t, err)
	prod2, err := g.AddProduction(e, b)
	require.NoError(t, err)

	g.Scopes = []grammar.Scope{{
		Name:                 "default",
		ResolvesReduceReduce: false,
		Groups: []grammar.OperatorGroup{
			{Associativity: grammar.AssocLeft, Symbols: []grammar.Symbol{a}},
			{Associativity: grammar.AssocLeft, Symbols: []grammar.Symbol{b}},
		},
	}}
	require.NoError(t, g.SetStart(e))

	r := precedence.NewResolver(g, nil)
	decision := r.ResolveReduceReduce(prod1, prod2)
	require.Equal(t, precedence.CannotChooseReduceReduce, decision.Outcome)
	assert.Equal(t, precedence.ReasonCannotResolveReduceReduce, decision.Reason)
}
