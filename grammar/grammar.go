package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/wrasse-lang/wrasse/ierr"
	"github.com/wrasse-lang/wrasse/internal/util"
	"github.com/wrasse-lang/wrasse/regex"
)

// Terminal is a grammar symbol matched by the tokenizer (spec.md §3). Its
// regex is consumed by the Regex Canonicalizer (package regex) as one of
// the (regex, dfa-symbol) pairs; building that regex from the designtime
// AST is out of this system's scope (§1) — callers hand it in fully built.
type Terminal struct {
	ID    int
	Name  string
	Regex *regex.Regex
}

// Nonterminal is a grammar symbol expanded by the parser (spec.md §3).
// Productions holds the indices, into the owning Grammar's Productions
// arena, of every production with this nonterminal as its head.
type Nonterminal struct {
	ID          int
	Name        string
	Productions []int
}

// Production is a rule Head -> Handle (spec.md §3). Handle may be empty
// (an epsilon production).
type Production struct {
	ID     int
	Head   int // Nonterminal index
	Handle []Symbol
}

func (p Production) String() string {
	return fmt.Sprintf("#%d", p.ID)
}

// Associativity controls how a shift/reduce conflict between symbols of
// equal precedence within the same scope is resolved (spec.md §4.8).
type Associativity int

const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
	AssocPrecedenceOnly
)

func (a Associativity) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	case AssocPrecedenceOnly:
		return "precedence-only"
	default:
		return "none"
	}
}

// OperatorGroup is one associativity band within a Scope; all symbols in
// the group share the same precedence, equal to the group's 1-based index
// within its Scope (spec.md §4.8: "higher value = higher precedence").
type OperatorGroup struct {
	Associativity Associativity
	Symbols       []Symbol
}

// Scope is an operator-precedence context (spec.md §4.8, "Operator
// scope"). Symbols in different scopes are incomparable. ResolvesReduceReduce
// gates whether the precedence resolver is permitted to settle a
// reduce/reduce conflict at all.
type Scope struct {
	Name                 string
	Groups               []OperatorGroup
	ResolvesReduceReduce bool
}

// Grammar is the dense-indexed arena owning every Terminal, Nonterminal,
// and Production discovered by the Analyzer (spec.md §4.1). It is built
// incrementally via AddTerminal/AddNonterminal/AddProduction during
// analysis and then frozen; after Freeze, the arena is immutable for the
// remainder of the compilation pipeline (spec.md §3 Lifecycle, §9
// "freezing is a single boolean on the arena").
type Grammar struct {
	Terminals    []Terminal
	Nonterminals []Nonterminal
	Productions  []Production
	Start        int // Nonterminal index
	Scopes       []Scope
	CaseSensitive bool

	frozen      bool
	termByName  map[string]int
	ntByName    map[string]int
}

// New returns an empty, unfrozen Grammar ready for incremental population
// by the Analyzer.
func New(caseSensitive bool) *Grammar {
	return &Grammar{
		CaseSensitive: caseSensitive,
		termByName:    map[string]int{},
		ntByName:      map[string]int{},
	}
}

// AddTerminal interns a terminal by name, appending it to the arena on
// first sight. Identity is the name alone: a terminal already present by
// name is returned unchanged rather than duplicated, and re is not
// compared, so a second terminal with the same name but a different regex
// resolves to the first one.
func (g *Grammar) AddTerminal(name string, re *regex.Regex) (Symbol, error) {
	if g.frozen {
		return Symbol{}, ierr.New("grammar is frozen: cannot add terminal " + name)
	}
	if id, ok := g.termByName[name]; ok {
		return Term(id), nil
	}
	id := len(g.Terminals)
	g.Terminals = append(g.Terminals, Terminal{ID: id, Name: name, Regex: re})
	g.termByName[name] = id
	return Term(id), nil
}

// AddNonterminal appends a new nonterminal to the arena and returns its
// Symbol. Per spec.md §4.1, nonterminal identity is reference identity, not
// name identity: every call creates a distinct nonterminal, even when the
// name is already taken, and deduplicating repeated references to one
// declaration is left to the caller (the Analyzer keys on the designtime
// pointer).
func (g *Grammar) AddNonterminal(name string) (Symbol, error) {
	if g.frozen {
		return Symbol{}, ierr.New("grammar is frozen: cannot add nonterminal " + name)
	}
	id := len(g.Nonterminals)
	g.Nonterminals = append(g.Nonterminals, Nonterminal{ID: id, Name: name})
	if _, taken := g.ntByName[name]; !taken {
		g.ntByName[name] = id
	}
	return NonTerm(id), nil
}

// AddProduction appends a new production with the given head and handle,
// rejecting an exact (head, handle) duplicate per spec.md §4.1's
// DuplicateProductions failure.
func (g *Grammar) AddProduction(head Symbol, handle ...Symbol) (int, error) {
	if g.frozen {
		return 0, ierr.New("grammar is frozen: cannot add production")
	}
	if !head.IsNonterminal() {
		return 0, ierr.New(fmt.Sprintf("production head %s is not a nonterminal", head))
	}
	for _, existingIdx := range g.Nonterminals[head.ID].Productions {
		if handleEqual(g.Productions[existingIdx].Handle, handle) {
			return 0, ierr.New(
				fmt.Sprintf("duplicate production: %s -> %s", g.Nonterminals[head.ID].Name, symbolsString(handle)),
				ierr.ErrDuplicateProductions,
			)
		}
	}
	id := len(g.Productions)
	g.Productions = append(g.Productions, Production{ID: id, Head: head.ID, Handle: handle})
	nt := &g.Nonterminals[head.ID]
	nt.Productions = append(nt.Productions, id)
	return id, nil
}

func handleEqual(a, b []Symbol) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func symbolsString(syms []Symbol) string {
	parts := make([]string, len(syms))
	for i, s := range syms {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

// SetStart records which nonterminal is the grammar's start symbol.
func (g *Grammar) SetStart(nt Symbol) error {
	if !nt.IsNonterminal() {
		return ierr.New(fmt.Sprintf("start symbol %s is not a nonterminal", nt))
	}
	g.Start = nt.ID
	return nil
}

// Freeze forbids further mutation of g, per spec.md §9's "set-once slot".
func (g *Grammar) Freeze() { g.frozen = true }

// Frozen reports whether g has been frozen.
func (g *Grammar) Frozen() bool { return g.frozen }

// StartSymbol returns the Symbol of g's start nonterminal.
func (g *Grammar) StartSymbol() Symbol { return NonTerm(g.Start) }

// Rule returns the Nonterminal for nt.
func (g *Grammar) Rule(nt Symbol) Nonterminal { return g.Nonterminals[nt.ID] }

// ProductionsOf returns every production whose head is nt.
func (g *Grammar) ProductionsOf(nt Symbol) []Production {
	out := make([]Production, 0, len(g.Nonterminals[nt.ID].Productions))
	for _, idx := range g.Nonterminals[nt.ID].Productions {
		out = append(out, g.Productions[idx])
	}
	return out
}

// TerminalName returns the display name of terminal index id.
func (g *Grammar) TerminalName(id int) string { return g.Terminals[id].Name }

// NonterminalName returns the display name of nonterminal index id.
func (g *Grammar) NonterminalName(id int) string { return g.Nonterminals[id].Name }

// SymbolName returns the display name of sym, regardless of kind.
func (g *Grammar) SymbolName(sym Symbol) string {
	if sym.IsTerminal() {
		return g.TerminalName(sym.ID)
	}
	return g.NonterminalName(sym.ID)
}

// Augmented returns a new Grammar identical to g but with a synthetic
// start nonterminal S' and a single production S' -> S appended, per
// spec.md §4.4's contract ("plus a synthetic start nonterminal S', with
// one production S' -> S"). g itself is left untouched; the augmented
// copy is a distinct arena used only by the LR(0)/LALR(1) stages.
func (g *Grammar) Augmented() *Grammar {
	aug := &Grammar{
		Terminals:     append([]Terminal(nil), g.Terminals...),
		Nonterminals:  append([]Nonterminal(nil), g.Nonterminals...),
		Productions:   append([]Production(nil), g.Productions...),
		Scopes:        g.Scopes,
		CaseSensitive: g.CaseSensitive,
		termByName:    g.termByName,
		ntByName:      g.ntByName,
	}
	startPrimeName := uniqueName(g.ntByName, g.Rule(g.StartSymbol()).Name+"'")
	startPrimeID := len(aug.Nonterminals)
	aug.Nonterminals = append(aug.Nonterminals, Nonterminal{ID: startPrimeID, Name: startPrimeName})
	prodID := len(aug.Productions)
	aug.Productions = append(aug.Productions, Production{
		ID:     prodID,
		Head:   startPrimeID,
		Handle: []Symbol{g.StartSymbol()},
	})
	aug.Nonterminals[startPrimeID].Productions = []int{prodID}
	aug.Start = startPrimeID
	aug.frozen = true
	return aug
}

func uniqueName(taken map[string]int, base string) string {
	name := base
	for i := 0; ; i++ {
		if _, ok := taken[name]; !ok {
			return name
		}
		name = fmt.Sprintf("%s-%d", base, i)
	}
}

// Validate checks the structural invariants spec.md §4.1 assigns to the
// Analyzer: every reachable nonterminal must have at least one
// production. DuplicateProductions is instead rejected eagerly by
// AddProduction, so it is not re-checked here.
func (g *Grammar) Validate() error {
	if len(g.Terminals) == 0 && len(g.Nonterminals) == 0 {
		return ierr.New("grammar has no symbols", ierr.ErrNoSymbolsSpecified)
	}
	var empty []string
	for _, nt := range g.Nonterminals {
		if len(nt.Productions) == 0 {
			empty = append(empty, nt.Name)
		}
	}
	if len(empty) > 0 {
		sort.Strings(empty)
		return ierr.New(
			fmt.Sprintf("nonterminal(s) have no productions: %s", util.MakeTextList(empty)),
			ierr.ErrEmptyNonterminals,
		)
	}
	return nil
}

// String renders the grammar's productions as a table, grounded on the
// teacher's rosed-based debug dumps (package parse's Action/Goto table
// renderers).
func (g *Grammar) String() string {
	data := [][]string{{"#", "Head", "Handle"}}
	for _, p := range g.Productions {
		data = append(data, []string{
			fmt.Sprintf("%d", p.ID),
			g.NonterminalName(p.Head),
			handleDisplay(g, p.Handle),
		})
	}
	return rosed.
		Edit("").
		InsertTableOpts(0, data, 20, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

func handleDisplay(g *Grammar, handle []Symbol) string {
	if len(handle) == 0 {
		return "ε"
	}
	parts := make([]string, len(handle))
	for i, s := range handle {
		parts[i] = g.SymbolName(s)
	}
	return strings.Join(parts, " ")
}
