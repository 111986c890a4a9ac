package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wrasse-lang/wrasse/internal/util"
)

func Test_MakeTextList(t *testing.T) {
	testCases := []struct {
		name  string
		items []string
		want  string
	}{
		{name: "empty", items: nil, want: ""},
		{name: "one", items: []string{"a"}, want: "a"},
		{name: "two", items: []string{"a", "b"}, want: "a and b"},
		{name: "three", items: []string{"a", "b", "c"}, want: "a, b, and c"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, util.MakeTextList(tc.items))
		})
	}
}

func Test_MakeTextList_doesNotMutateInput(t *testing.T) {
	items := []string{"a", "b", "c"}
	util.MakeTextList(items)
	assert.Equal(t, []string{"a", "b", "c"}, items)
}
