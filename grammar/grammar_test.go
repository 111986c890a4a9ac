package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrasse-lang/wrasse/regex"
)

func Test_Grammar_Validate(t *testing.T) {
	testCases := []struct {
		name      string
		build     func(g *Grammar)
		expectErr bool
	}{
		{
			name:      "empty grammar",
			build:     func(g *Grammar) {},
			expectErr: true,
		},
		{
			name: "nonterminal with no productions",
			build: func(g *Grammar) {
				_, _ = g.AddNonterminal("A")
			},
			expectErr: true,
		},
		{
			name: "single production grammar is valid",
			build: func(g *Grammar) {
				s, _ := g.AddNonterminal("S")
				a, _ := g.AddTerminal("a", regex.Lit('a'))
				_, err := g.AddProduction(s, a)
				require.NoError(t, err)
			},
			expectErr: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := New(true)
			tc.build(g)
			err := g.Validate()
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func Test_Grammar_AddProduction_rejectsDuplicate(t *testing.T) {
	g := New(true)
	s, _ := g.AddNonterminal("S")
	a, _ := g.AddTerminal("a", regex.Lit('a'))

	_, err := g.AddProduction(s, a)
	require.NoError(t, err)

	_, err = g.AddProduction(s, a)
	assert.Error(t, err)
}

func Test_Grammar_AddTerminal_interns(t *testing.T) {
	g := New(true)
	first, err := g.AddTerminal("a", regex.Lit('a'))
	require.NoError(t, err)
	second, err := g.AddTerminal("a", regex.Lit('a'))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, g.Terminals, 1)
}

func Test_Grammar_Augmented(t *testing.T) {
	g := New(true)
	s, _ := g.AddNonterminal("S")
	a, _ := g.AddTerminal("a", regex.Lit('a'))
	_, err := g.AddProduction(s, a)
	require.NoError(t, err)
	require.NoError(t, g.SetStart(s))

	aug := g.Augmented()

	require.Len(t, aug.Nonterminals, len(g.Nonterminals)+1)
	startPrime := aug.StartSymbol()
	assert.NotEqual(t, s.ID, startPrime.ID)

	prime := aug.Rule(startPrime)
	require.Len(t, prime.Productions, 1)
	prod := aug.Productions[prime.Productions[0]]
	assert.Equal(t, []Symbol{s}, prod.Handle)

	// g itself must be untouched.
	assert.Len(t, g.Nonterminals, 1)
}

func Test_Grammar_String_rendersProductions(t *testing.T) {
	g := New(true)
	s, _ := g.AddNonterminal("S")
	a, _ := g.AddTerminal("a", regex.Lit('a'))
	_, err := g.AddProduction(s, a)
	require.NoError(t, err)
	_, err = g.AddProduction(s)
	require.NoError(t, err)

	out := g.String()

	assert.Contains(t, out, "Head")
	assert.Contains(t, out, "Handle")
	assert.Contains(t, out, "S")
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "ε")
}

func Test_Item_AtDot(t *testing.T) {
	g := New(true)
	s, _ := g.AddNonterminal("S")
	a, _ := g.AddTerminal("a", regex.Lit('a'))
	b, _ := g.AddTerminal("b", regex.Lit('b'))
	prodID, err := g.AddProduction(s, a, b)
	require.NoError(t, err)

	it := Item{Prod: prodID, Dot: 0}
	sym, ok := it.AtDot(g)
	require.True(t, ok)
	assert.Equal(t, a, sym)
	assert.False(t, it.Final(g))

	it = it.Advance().Advance()
	assert.True(t, it.Final(g))
	_, ok = it.AtDot(g)
	assert.False(t, ok)
}
