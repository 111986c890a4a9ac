package automaton_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrasse-lang/wrasse/automaton"
	"github.com/wrasse-lang/wrasse/regex"
)

func symTerm(name string) regex.DFASymbol {
	return regex.DFASymbol{Kind: regex.SymTerminal, Name: name}
}

func Test_Build_simpleLiteral(t *testing.T) {
	canon, err := regex.Canonicalize([]regex.TerminalRegex{
		{Regex: regex.Literal("if"), Symbol: symTerm("IF")},
		{Regex: regex.Plus(regex.CharsIn(regex.CharRange('a', 'z'))), Symbol: symTerm("IDENT")},
	}, true)
	require.NoError(t, err)

	dfa, err := automaton.Build(context.Background(), canon, automaton.WithPrioritizeFixedLengthSymbols())
	require.NoError(t, err)
	require.NotEmpty(t, dfa.States)

	// Drive "if" through the DFA by hand.
	state := 0
	for _, r := range "if" {
		next := -1
		for _, e := range dfa.States[state].Edges {
			if r >= e.Lo && r <= e.Hi {
				next = e.Next
				break
			}
		}
		if next < 0 {
			next = dfa.States[state].AnyElse
		}
		require.GreaterOrEqual(t, next, 0, "no transition for %q from state %d", r, state)
		state = next
	}
	require.NotNil(t, dfa.States[state].Accept)
	assert.Equal(t, "IF", dfa.States[state].Accept.Name)
}

func Test_Build_indistinguishableSymbols(t *testing.T) {
	_, err := regex.Canonicalize([]regex.TerminalRegex{
		{Regex: regex.Literal("if"), Symbol: symTerm("IF")},
		{Regex: regex.Literal("if"), Symbol: symTerm("IF2")},
	}, true)
	require.NoError(t, err)

	canon, err := regex.Canonicalize([]regex.TerminalRegex{
		{Regex: regex.Literal("if"), Symbol: symTerm("IF")},
		{Regex: regex.Literal("if"), Symbol: symTerm("IF2")},
	}, true)
	require.NoError(t, err)

	_, err = automaton.Build(context.Background(), canon)
	assert.Error(t, err)
}

func Test_Build_nullableRejected(t *testing.T) {
	_, err := regex.Canonicalize([]regex.TerminalRegex{
		{Regex: regex.StarOf(regex.Lit('a')), Symbol: symTerm("A")},
	}, true)
	assert.Error(t, err)
}
