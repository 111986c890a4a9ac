// Package wrasse is the compiler's single public entry point. It chains
// every pipeline stage of spec.md §2 — Analyzer, Canonicalizer, DFA
// Builder, LR(0) Constructor, FIRST Solver, Lookahead Propagator, and
// Action Table Builder (the Precedence Resolver is a service of the last
// stage, not a stage of its own) — from a designtime grammar description
// down to the binary Tables of spec.md §6.
package wrasse

import (
	"github.com/wrasse-lang/wrasse/grammar"
	"github.com/wrasse-lang/wrasse/persist"
	"github.com/wrasse-lang/wrasse/regex"
)

// Symbol is one node of the designtime grammar graph handed to Compile:
// either a Terminal or a Nonterminal. This is distinct from
// grammar.Symbol, which is an arena index meaningful only after Analyze
// has run — a Symbol here is a plain Go value the caller builds and
// wires together directly, by pointer, so that self-referential
// grammars are expressed with ordinary Go cycles.
type Symbol interface {
	isGrammarSymbol()
}

// Terminal is a leaf grammar symbol recognized by the lexeme DFA
// (spec.md §3). Its identity, for Analyze's deduplication (spec.md
// §4.1's "structural identity" for terminals), is its Name.
type Terminal struct {
	Name  string
	Regex *regex.Regex
}

func (*Terminal) isGrammarSymbol() {}

// Nonterminal is an internal grammar symbol expanded by its
// Productions, each a handle of child Symbols. Its identity, for
// Analyze's deduplication, is reference identity (the pointer) — two
// distinct *Nonterminal values are always distinct symbols even if they
// share a Name, and a production may reference a *Nonterminal before
// that nonterminal's own Productions field has been populated, which is
// how the designtime graph expresses left/right recursion and mutual
// recursion without a forward-declaration step.
type Nonterminal struct {
	Name        string
	Productions [][]Symbol
}

func (*Nonterminal) isGrammarSymbol() {}

// OperatorScope is the designtime form of grammar.Scope: an
// operator-precedence context (spec.md §4.8) expressed over Symbols
// rather than arena indices, resolved to grammar.Symbol references by
// Analyze.
type OperatorScope struct {
	Name                 string
	Groups               []OperatorGroup
	ResolvesReduceReduce bool
}

// OperatorGroup is one associativity band of an OperatorScope.
type OperatorGroup struct {
	Associativity grammar.Associativity
	Symbols       []Symbol
}

// Group is the designtime form of persist.Group: a comment/noise lexing
// rule (spec.md §6, "Groups"), passed through to the output boundary
// unchanged — group lexing is metadata about how a runtime scanner
// should skip delimited text, not something the LALR/DFA core
// algorithms consume.
type Group = persist.Group

// Metadata is the non-grammatical half of the designtime input contract
// (spec.md §6: "Metadata { case-sensitive, auto-whitespace, comments[],
// noise-symbols[], operator-scopes[] }").
type Metadata struct {
	// AutoWhitespace, when true, adds a synthetic noise terminal
	// matching one-or-more ASCII space/tab/CR/LF code units, so callers
	// of simple whitespace-separated grammars don't have to declare one
	// by hand.
	AutoWhitespace bool

	// Comments carries group-lexing rules straight through to the
	// output boundary's Groups vector.
	Comments []Group

	// NoiseSymbols names the Terminals (by Name) that the parser should
	// recognize but never shift — e.g. comments or whitespace tokens,
	// reported in the output boundary's Symbols.Noise.
	NoiseSymbols []string

	// Scopes declares the grammar's operator-precedence scopes.
	Scopes []OperatorScope
}

// GrammarSource is the complete designtime input to Compile: the
// grammar graph rooted at Root, plus the Metadata governing lexing and
// conflict resolution.
type GrammarSource struct {
	Root     Symbol
	Metadata Metadata
}
