package lookahead_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrasse-lang/wrasse/automaton"
	"github.com/wrasse-lang/wrasse/grammar"
	"github.com/wrasse-lang/wrasse/lookahead"
	"github.com/wrasse-lang/wrasse/regex"
)

// buildCCGrammar builds the classic dragon-book example:
//
//	S -> C C
//	C -> c C | d
func buildCCGrammar(t *testing.T) (*grammar.Grammar, grammar.Symbol, grammar.Symbol) {
	t.Helper()
	g := grammar.New(true)
	s, _ := g.AddNonterminal("S")
	c, _ := g.AddNonterminal("C")
	cTerm, _ := g.AddTerminal("c", regex.Lit('c'))
	dTerm, _ := g.AddTerminal("d", regex.Lit('d'))

	_, err := g.AddProduction(s, c, c)
	require.NoError(t, err)
	_, err = g.AddProduction(c, cTerm, c)
	require.NoError(t, err)
	_, err = g.AddProduction(c, dTerm)
	require.NoError(t, err)

	require.NoError(t, g.SetStart(s))
	return g, cTerm, dTerm
}

func Test_Propagate_seedsEOFOnStartItem(t *testing.T) {
	g, _, _ := buildCCGrammar(t)
	aug := g.Augmented()

	lr0, err := automaton.BuildLR0(context.Background(), aug)
	require.NoError(t, err)

	first, err := lookahead.Solve(context.Background(), aug)
	require.NoError(t, err)

	las, err := lookahead.Propagate(context.Background(), aug, first, lr0)
	require.NoError(t, err)

	startItem := lr0.Sets[0].Kernel[0]
	assert.True(t, las.Of(0, startItem).HasEnd)
}

func Test_Propagate_reduceStateSeesFollowOfC(t *testing.T) {
	g, cTerm, dTerm := buildCCGrammar(t)
	aug := g.Augmented()

	lr0, err := automaton.BuildLR0(context.Background(), aug)
	require.NoError(t, err)

	first, err := lookahead.Solve(context.Background(), aug)
	require.NoError(t, err)

	las, err := lookahead.Propagate(context.Background(), aug, first, lr0)
	require.NoError(t, err)

	// Find the state reached via GOTO(0, C) then GOTO(_, d): its kernel
	// item C -> d. must see FOLLOW(C) = {c, d, $} as its lookahead.
	cSym := grammar.Symbol{}
	for sym := range lr0.Sets[0].Goto {
		if sym.IsNonterminal() && aug.NonterminalName(sym.ID) == "C" {
			cSym = sym
		}
	}
	require.NotEqual(t, grammar.Symbol{}, cSym)
	afterC := lr0.Sets[0].Goto[cSym]

	dState, ok := lr0.Sets[afterC].Goto[dTerm]
	require.True(t, ok)

	require.Len(t, lr0.Sets[dState].Kernel, 1)
	dItem := lr0.Sets[dState].Kernel[0]
	la := las.Of(dState, dItem)

	assert.True(t, la.Has(cTerm.ID), "FOLLOW(C) must contain c")
	assert.True(t, la.Has(dTerm.ID), "FOLLOW(C) must contain d")
	assert.True(t, la.HasEnd, "FOLLOW(C) must contain $ (from the outer C in S -> C C)")
}
