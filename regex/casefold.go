package regex

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

// caseFoldTree returns a copy of r with every character class expanded to
// the union of its upper- and lower-case forms, per spec.md §4.2: "Case
// insensitivity is implemented by expanding each character set to the
// union of its upper- and lower-case forms." Structure nodes (Concat, Alt,
// Star) are copied, not mutated, so the caller's original tree is left
// untouched.
func caseFoldTree(r *Regex) *Regex {
	switch r.Kind {
	case KindChars:
		return &Regex{Kind: KindChars, Chars: caseFoldSet(r.Chars)}
	case KindAllButChars:
		return &Regex{Kind: KindAllButChars, Chars: caseFoldSet(r.Chars)}
	case KindStar:
		return &Regex{Kind: KindStar, Sub: caseFoldTree(r.Sub)}
	case KindConcat, KindAlt:
		children := make([]*Regex, len(r.Children))
		for i, c := range r.Children {
			children[i] = caseFoldTree(c)
		}
		return &Regex{Kind: r.Kind, Children: children}
	default:
		return r
	}
}

// caseFoldSet returns set with every code unit's upper- and lower-case
// form added to it.
func caseFoldSet(set CharSet) CharSet {
	folded := set
	for _, r := range set.Runes() {
		folded = folded.Union(Char(caseFoldRune(r, upperCaser)))
		folded = folded.Union(Char(caseFoldRune(r, lowerCaser)))
	}
	return folded
}

// caseFoldRune applies a cases.Caser to a single rune and returns the
// first rune of the result, falling back to r itself if the transform
// changes the code unit count (e.g. German ß -> "SS" under Upper).
func caseFoldRune(r rune, caser cases.Caser) rune {
	out := []rune(caser.String(string(r)))
	if len(out) != 1 {
		return r
	}
	return out[0]
}
