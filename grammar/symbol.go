// Package grammar holds the compiler's grammar data model: terminals,
// nonterminals, productions, and the arena ("Grammar") that owns them by
// dense index, per spec.md §3 and §9 ("replace object graphs with arenas
// of dense-indexed Production and Nonterminal entries and refer to them by
// index thereafter").
package grammar

import "fmt"

// SymbolKind tags a Symbol as referring to a Terminal or a Nonterminal.
type SymbolKind int

const (
	KindTerminal SymbolKind = iota
	KindNonterminal
)

func (k SymbolKind) String() string {
	if k == KindTerminal {
		return "terminal"
	}
	return "nonterminal"
}

// Symbol is a tagged reference to a grammar symbol: either a Terminal or a
// Nonterminal, identified by its dense index in the owning Grammar's arena.
// Symbol values are only meaningful relative to the Grammar that produced
// them; two Symbols from different Grammars must never be compared.
type Symbol struct {
	Kind SymbolKind
	ID   int
}

// IsTerminal reports whether sym refers to a Terminal.
func (sym Symbol) IsTerminal() bool { return sym.Kind == KindTerminal }

// IsNonterminal reports whether sym refers to a Nonterminal.
func (sym Symbol) IsNonterminal() bool { return sym.Kind == KindNonterminal }

func (sym Symbol) String() string {
	return fmt.Sprintf("%s#%d", sym.Kind, sym.ID)
}

// Term returns the Symbol referring to terminal index id.
func Term(id int) Symbol { return Symbol{Kind: KindTerminal, ID: id} }

// NonTerm returns the Symbol referring to nonterminal index id.
func NonTerm(id int) Symbol { return Symbol{Kind: KindNonterminal, ID: id} }
