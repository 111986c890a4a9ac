// Package regex implements the grammar compiler's regular expression data
// model and the direct positions (firstpos/lastpos/followpos) construction
// of Aho, Sethi & Ullman §3.9.5, used by package automaton to build a DFA
// without first building an intermediate NFA.
//
// This package never parses a regex from a string; per spec.md §1, the
// string-based regex surface is a self-bootstrapped source and is treated
// as out of scope here. Callers build Regex trees directly (or via the
// constructors below), the same way a designtime AST would hand a
// compiled expression to the builder.
package regex

// Kind identifies the variant of a Regex node.
type Kind int

const (
	// KindConcat is the concatenation of zero or more subexpressions,
	// read left to right. A Concat with no children is Empty, the regex
	// matching only the empty string.
	KindConcat Kind = iota
	// KindAlt is the alternation of one or more subexpressions.
	KindAlt
	// KindStar is the Kleene closure of a single subexpression.
	KindStar
	// KindChars matches exactly one code unit drawn from Chars.
	KindChars
	// KindAllButChars matches exactly one code unit NOT in Chars.
	KindAllButChars
	// kindEnd is a synthetic zero-width leaf the canonicalizer appends to
	// the right of every terminal's regex (spec.md §4.2). It never
	// appears in a tree built through the public constructors; only
	// terminate (in canon.go) creates one.
	kindEnd
)

// Regex is a node in a regular expression tree. Children is populated for
// KindConcat and KindAlt, Sub for KindStar, and Chars for KindChars and
// KindAllButChars. EndPriority and EndSymbol are populated only for the
// unexported kindEnd, used internally by the canonicalizer.
type Regex struct {
	Kind        Kind
	Children    []*Regex
	Sub         *Regex
	Chars       CharSet
	EndPriority int
	EndSymbol   DFASymbol
}

// Empty returns the regex matching only the empty string (Concat with no
// children).
func Empty() *Regex {
	return &Regex{Kind: KindConcat}
}

// Any returns the regex matching any single code unit (AllButChars of the
// empty set).
func Any() *Regex {
	return &Regex{Kind: KindAllButChars}
}

// Lit returns the regex matching exactly the code unit r.
func Lit(r rune) *Regex {
	return &Regex{Kind: KindChars, Chars: Char(r)}
}

// Literal returns the regex matching exactly the string s, one code unit
// at a time.
func Literal(s string) *Regex {
	runes := []rune(s)
	if len(runes) == 0 {
		return Empty()
	}
	children := make([]*Regex, len(runes))
	for i, r := range runes {
		children[i] = Lit(r)
	}
	return Concat(children...)
}

// CharsIn returns the regex matching exactly one code unit from set.
func CharsIn(set CharSet) *Regex {
	return &Regex{Kind: KindChars, Chars: set}
}

// NotIn returns the regex matching exactly one code unit not in set.
func NotIn(set CharSet) *Regex {
	return &Regex{Kind: KindAllButChars, Chars: set}
}

// Concat returns the concatenation of rs, read left to right.
func Concat(rs ...*Regex) *Regex {
	return &Regex{Kind: KindConcat, Children: rs}
}

// Alt returns the alternation of rs.
func Alt(rs ...*Regex) *Regex {
	return &Regex{Kind: KindAlt, Children: rs}
}

// StarOf returns the Kleene closure of r.
func StarOf(r *Regex) *Regex {
	return &Regex{Kind: KindStar, Sub: r}
}

// Plus returns r+, i.e. r r*: one or more repetitions of r.
func Plus(r *Regex) *Regex {
	return Concat(r, StarOf(r))
}

// Opt returns r?, i.e. r|ε.
func Opt(r *Regex) *Regex {
	return Alt(r, Empty())
}

// Nullable reports whether r can match the empty string. It is a plain
// recursive check over the raw, un-numbered tree, used by the
// canonicalizer to reject a terminal whose entire regex is nullable
// (spec.md §4.2's NullableSymbols failure) before leaves are ever
// assigned.
func Nullable(r *Regex) bool {
	switch r.Kind {
	case KindConcat:
		for _, c := range r.Children {
			if !Nullable(c) {
				return false
			}
		}
		return true
	case KindAlt:
		for _, c := range r.Children {
			if Nullable(c) {
				return true
			}
		}
		return false
	case KindStar:
		return true
	case KindChars, KindAllButChars:
		return false
	default:
		return false
	}
}

// ContainsStar reports whether r or any of its subexpressions is a Star.
// The canonicalizer uses this to decide the priority band of a terminal's
// End leaf (spec.md §4.2: fixed-length vs. variable-length).
func ContainsStar(r *Regex) bool {
	switch r.Kind {
	case KindStar:
		return true
	case KindConcat, KindAlt:
		for _, c := range r.Children {
			if ContainsStar(c) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
