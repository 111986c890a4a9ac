// Package util holds small formatting helpers shared by the compiler's
// user-visible error messages (spec.md §7: "name the offending
// terminals/nonterminals").
package util

import "strings"

// MakeTextList joins items into a natural-language list with an Oxford
// comma ("a, b, and c"), used wherever a diagnostic names a set of
// offending symbols instead of dumping a raw comma-separated slice.
func MakeTextList(items []string) string {
	if len(items) < 1 {
		return ""
	}
	if len(items) == 1 {
		return items[0]
	}
	if len(items) == 2 {
		return items[0] + " and " + items[1]
	}

	out := make([]string, len(items))
	copy(out, items)
	out[len(out)-1] = "and " + out[len(out)-1]
	return strings.Join(out, ", ")
}
