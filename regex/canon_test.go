package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrasse-lang/wrasse/ierr"
)

func Test_Canonicalize_rejectsNullableTerminal(t *testing.T) {
	_, err := Canonicalize([]TerminalRegex{
		{Regex: StarOf(Lit('a')), Symbol: DFASymbol{Kind: SymTerminal, Name: "A"}},
	}, true)

	require.Error(t, err)
	assert.ErrorIs(t, err, ierr.ErrNullableSymbols)
}

func Test_Canonicalize_rejectsNullableTerminal_namesOffender(t *testing.T) {
	_, err := Canonicalize([]TerminalRegex{
		{Regex: Lit('a'), Symbol: DFASymbol{Kind: SymTerminal, Name: "A"}},
		{Regex: Opt(Lit('b')), Symbol: DFASymbol{Kind: SymTerminal, Name: "B"}},
	}, true)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "B")
}

// Test_Canonicalize_followpos checks followpos/firstpos against the
// classic (a|b)*abb worked example (Aho, Sethi & Ullman, Fig. 3.56),
// leaf positions 0-indexed instead of the book's 1-indexed ones.
func Test_Canonicalize_followpos(t *testing.T) {
	root := Concat(
		StarOf(Alt(Lit('a'), Lit('b'))),
		Lit('a'),
		Lit('b'),
		Lit('b'),
	)

	canon, err := Canonicalize([]TerminalRegex{
		{Regex: root, Symbol: DFASymbol{Kind: SymTerminal, Name: "X"}},
	}, true)
	require.NoError(t, err)
	require.Len(t, canon.Leaves, 6)

	// Leaves 0 and 1 are the 'a' and 'b' inside the star; 2, 3, 4 are the
	// trailing 'a', 'b', 'b'; 5 is the synthetic End leaf.
	assert.Equal(t, LeafChars, canon.Leaves[0].Kind)
	assert.True(t, canon.Leaves[0].Chars.Contains('a'))
	assert.Equal(t, LeafChars, canon.Leaves[1].Kind)
	assert.True(t, canon.Leaves[1].Chars.Contains('b'))
	assert.Equal(t, LeafChars, canon.Leaves[2].Kind)
	assert.True(t, canon.Leaves[2].Chars.Contains('a'))
	assert.Equal(t, LeafChars, canon.Leaves[3].Kind)
	assert.True(t, canon.Leaves[3].Chars.Contains('b'))
	assert.Equal(t, LeafChars, canon.Leaves[4].Kind)
	assert.True(t, canon.Leaves[4].Chars.Contains('b'))
	assert.Equal(t, LeafEnd, canon.Leaves[5].Kind)

	assert.ElementsMatch(t, []int{0, 1, 2}, canon.Followpos[0].Elements())
	assert.ElementsMatch(t, []int{0, 1, 2}, canon.Followpos[1].Elements())
	assert.ElementsMatch(t, []int{3}, canon.Followpos[2].Elements())
	assert.ElementsMatch(t, []int{4}, canon.Followpos[3].Elements())
	assert.ElementsMatch(t, []int{5}, canon.Followpos[4].Elements())
	assert.True(t, canon.Followpos[5].Empty())

	assert.ElementsMatch(t, []int{0, 1, 2}, canon.Start.Elements())
}

// Test_Canonicalize_multiAltEndLeafPriority checks that terminate splits
// an Alt terminal into one End leaf per alternative, each carrying its
// own priority band, per canon.go's terminate.
func Test_Canonicalize_multiAltEndLeafPriority(t *testing.T) {
	// "a" is fixed-length; "b+" is variable-length, so each alternative
	// must get a distinct End leaf and priority instead of sharing one.
	root := Alt(Lit('a'), Plus(Lit('b')))

	canon, err := Canonicalize([]TerminalRegex{
		{Regex: root, Symbol: DFASymbol{Kind: SymTerminal, Name: "X"}},
	}, true)
	require.NoError(t, err)

	var ends []Leaf
	for _, l := range canon.Leaves {
		if l.Kind == LeafEnd {
			ends = append(ends, l)
		}
	}

	require.Len(t, ends, 2, "each alternative must produce its own End leaf")
	for _, e := range ends {
		assert.Equal(t, "X", e.Accept.Name)
	}

	priorities := []int{ends[0].Priority, ends[1].Priority}
	assert.Contains(t, priorities, PriorityFixedLength)
	assert.Contains(t, priorities, PriorityVariableLength)
	assert.NotEqual(t, ends[0].Priority, ends[1].Priority)
}
