package action_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrasse-lang/wrasse/action"
	"github.com/wrasse-lang/wrasse/automaton"
	"github.com/wrasse-lang/wrasse/grammar"
	"github.com/wrasse-lang/wrasse/lookahead"
	"github.com/wrasse-lang/wrasse/precedence"
	"github.com/wrasse-lang/wrasse/regex"
)

type built struct {
	g           *grammar.Grammar
	aug         *grammar.Grammar
	lr0         *automaton.LR0
	first       *lookahead.FirstSets
	las         *lookahead.Lookaheads
	startProdID int
}

func compile(t *testing.T, g *grammar.Grammar) built {
	t.Helper()
	aug := g.Augmented()
	lr0, err := automaton.BuildLR0(context.Background(), aug)
	require.NoError(t, err)
	first, err := lookahead.Solve(context.Background(), aug)
	require.NoError(t, err)
	las, err := lookahead.Propagate(context.Background(), aug, first, lr0)
	require.NoError(t, err)
	startProdID := aug.Rule(aug.StartSymbol()).Productions[0]
	return built{g: g, aug: aug, lr0: lr0, first: first, las: las, startProdID: startProdID}
}

func Test_Build_emptyHandleProduction(t *testing.T) {
	// Scenario 1: S -> A, A -> ε | 'a'.
	g := grammar.New(true)
	s, _ := g.AddNonterminal("S")
	a, _ := g.AddNonterminal("A")
	aTerm, _ := g.AddTerminal("a", regex.Lit('a'))
	_, err := g.AddProduction(s, a)
	require.NoError(t, err)
	epsProd, err := g.AddProduction(a)
	require.NoError(t, err)
	_, err = g.AddProduction(a, aTerm)
	require.NoError(t, err)
	require.NoError(t, g.SetStart(s))

	b := compile(t, g)
	resolver := precedence.NewResolver(b.aug, nil)
	states, report, err := action.Build(b.aug, b.first, b.lr0.Sets, b.las, resolver, b.startProdID)
	require.NoError(t, err)
	assert.Empty(t, report.Conflicts)

	// State 0 must shift on 'a' and reduce A -> ε on EOF.
	shiftAction, ok := states[0].Actions[aTerm.ID]
	require.True(t, ok)
	assert.Equal(t, action.KindShift, shiftAction.Kind)

	require.NotNil(t, states[0].EOF)
	assert.Equal(t, action.KindReduce, states[0].EOF.Kind)
	assert.Equal(t, epsProd, states[0].EOF.Prod)
}

func Test_Build_shiftReduceResolvedByPrecedence(t *testing.T) {
	// Scenario 2: E -> E+E | E*E | n, scope [Left(+), Left(*)].
	g := grammar.New(true)
	e, _ := g.AddNonterminal("E")
	plus, _ := g.AddTerminal("+", regex.Lit('+'))
	star, _ := g.AddTerminal("*", regex.Lit('*'))
	n, _ := g.AddTerminal("n", regex.Lit('n'))
	_, err := g.AddProduction(e, e, plus, e)
	require.NoError(t, err)
	_, err = g.AddProduction(e, e, star, e)
	require.NoError(t, err)
	_, err = g.AddProduction(e, n)
	require.NoError(t, err)
	g.Scopes = []grammar.Scope{{
		Name: "default",
		Groups: []grammar.OperatorGroup{
			{Associativity: grammar.AssocLeft, Symbols: []grammar.Symbol{plus}},
			{Associativity: grammar.AssocLeft, Symbols: []grammar.Symbol{star}},
		},
	}}
	require.NoError(t, g.SetStart(e))

	b := compile(t, g)
	resolver := precedence.NewResolver(b.aug, nil)
	_, report, err := action.Build(b.aug, b.first, b.lr0.Sets, b.las, resolver, b.startProdID)
	require.NoError(t, err)
	assert.Empty(t, report.Conflicts, "precedence must resolve every shift/reduce conflict with no leftover report entries")
}

func Test_Build_reduceReduceDisabledReportsConflict(t *testing.T) {
	// Two productions fire on EOF and no operator scope is declared, so the
	// resolver has no precedence info for either production.
	g := grammar.New(true)
	s, _ := g.AddNonterminal("S")
	a, _ := g.AddNonterminal("A")
	bNt, _ := g.AddNonterminal("B")
	x, _ := g.AddTerminal("x", regex.Lit('x'))
	_, err := g.AddProduction(s, a)
	require.NoError(t, err)
	_, err = g.AddProduction(s, bNt)
	require.NoError(t, err)
	_, err = g.AddProduction(a, x)
	require.NoError(t, err)
	_, err = g.AddProduction(bNt, x)
	require.NoError(t, err)
	require.NoError(t, g.SetStart(s))

	b := compile(t, g)
	resolver := precedence.NewResolver(b.aug, nil)
	_, report, err := action.Build(b.aug, b.first, b.lr0.Sets, b.las, resolver, b.startProdID)
	require.NoError(t, err)
	require.NotEmpty(t, report.Conflicts)
	assert.Equal(t, precedence.ReasonNoPrecedenceInfo, report.Conflicts[0].Reason)
}

func Test_DumpTable_rendersShiftsReducesAndGotos(t *testing.T) {
	g := grammar.New(true)
	s, _ := g.AddNonterminal("S")
	a, _ := g.AddNonterminal("A")
	aTerm, _ := g.AddTerminal("a", regex.Lit('a'))
	_, err := g.AddProduction(s, a)
	require.NoError(t, err)
	_, err = g.AddProduction(a, aTerm)
	require.NoError(t, err)
	require.NoError(t, g.SetStart(s))

	b := compile(t, g)
	resolver := precedence.NewResolver(b.aug, nil)
	states, report, err := action.Build(b.aug, b.first, b.lr0.Sets, b.las, resolver, b.startProdID)
	require.NoError(t, err)
	assert.Empty(t, report.Conflicts)

	out := action.DumpTable(b.aug, states)

	assert.Contains(t, out, "A:a")
	assert.Contains(t, out, "G:A")
	assert.Contains(t, out, "A:$")
}
