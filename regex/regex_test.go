package regex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Nullable(t *testing.T) {
	testCases := []struct {
		name string
		r    *Regex
		want bool
	}{
		{name: "empty concat", r: Empty(), want: true},
		{name: "literal", r: Lit('a'), want: false},
		{name: "star", r: StarOf(Lit('a')), want: true},
		{name: "plus", r: Plus(Lit('a')), want: false},
		{name: "opt", r: Opt(Lit('a')), want: true},
		{name: "concat of non-nullables", r: Concat(Lit('a'), Lit('b')), want: false},
		{name: "concat with one nullable", r: Concat(StarOf(Lit('a')), Lit('b')), want: false},
		{name: "concat of all nullables", r: Concat(StarOf(Lit('a')), Opt(Lit('b'))), want: true},
		{name: "alt with one nullable", r: Alt(Lit('a'), Empty()), want: true},
		{name: "alt of non-nullables", r: Alt(Lit('a'), Lit('b')), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Nullable(tc.r))
		})
	}
}

func Test_ContainsStar(t *testing.T) {
	testCases := []struct {
		name string
		r    *Regex
		want bool
	}{
		{name: "literal", r: Lit('a'), want: false},
		{name: "star", r: StarOf(Lit('a')), want: true},
		{name: "plus contains its own star", r: Plus(Lit('a')), want: true},
		{name: "concat with buried star", r: Concat(Lit('a'), StarOf(Lit('b'))), want: true},
		{name: "alt with buried star", r: Alt(Lit('a'), StarOf(Lit('b'))), want: true},
		{name: "concat with no star", r: Concat(Lit('a'), Lit('b')), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ContainsStar(tc.r))
		})
	}
}
