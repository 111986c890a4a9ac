package wrasse

import (
	"github.com/wrasse-lang/wrasse/grammar"
	"github.com/wrasse-lang/wrasse/ierr"
)

// analyzeResult is the Analyzer's full output (spec.md §4.1): the arena
// Grammar, plus the mapping from designtime symbols to arena symbols
// that later stages (scope resolution, contextual precedence) need.
type analyzeResult struct {
	g          *grammar.Grammar
	termByName map[string]grammar.Symbol
	ntByPtr    map[*Nonterminal]grammar.Symbol
}

// analyze performs spec.md §4.1's traversal: starting from src.Root, a
// BFS over the designtime grammar graph builds the dense arena Grammar,
// deduplicating terminals by name and nonterminals by pointer identity,
// then freezes the arena once every reachable symbol has been visited
// and validated.
//
// If src.Root is itself a Terminal, a synthetic start nonterminal
// start -> root is introduced (spec.md §8's boundary case: "a grammar
// whose root is a single terminal T").
func analyze(src GrammarSource, caseSensitive bool, extraTerminals []*Terminal) (*analyzeResult, error) {
	g := grammar.New(caseSensitive)

	start, ok := src.Root.(*Nonterminal)
	if !ok {
		t, isTerm := src.Root.(*Terminal)
		if !isTerm {
			return nil, ierr.New("grammar root is neither a Terminal nor a Nonterminal")
		}
		start = &Nonterminal{Name: "start", Productions: [][]Symbol{{t}}}
	}

	termByName := map[string]grammar.Symbol{}
	ntByPtr := map[*Nonterminal]grammar.Symbol{}
	var queue []*Nonterminal

	ensureNT := func(nt *Nonterminal) (grammar.Symbol, error) {
		if sym, seen := ntByPtr[nt]; seen {
			return sym, nil
		}
		sym, err := g.AddNonterminal(nt.Name)
		if err != nil {
			return grammar.Symbol{}, err
		}
		ntByPtr[nt] = sym
		queue = append(queue, nt)
		return sym, nil
	}

	ensureTerm := func(t *Terminal) (grammar.Symbol, error) {
		if sym, seen := termByName[t.Name]; seen {
			return sym, nil
		}
		sym, err := g.AddTerminal(t.Name, t.Regex)
		if err != nil {
			return grammar.Symbol{}, err
		}
		termByName[t.Name] = sym
		return sym, nil
	}

	startSym, err := ensureNT(start)
	if err != nil {
		return nil, err
	}
	if err := g.SetStart(startSym); err != nil {
		return nil, err
	}

	for len(queue) > 0 {
		nt := queue[0]
		queue = queue[1:]
		head := ntByPtr[nt]

		for _, prod := range nt.Productions {
			handle := make([]grammar.Symbol, 0, len(prod))
			for _, s := range prod {
				switch v := s.(type) {
				case *Terminal:
					sym, err := ensureTerm(v)
					if err != nil {
						return nil, err
					}
					handle = append(handle, sym)
				case *Nonterminal:
					sym, err := ensureNT(v)
					if err != nil {
						return nil, err
					}
					handle = append(handle, sym)
				default:
					return nil, ierr.New("production handle contains a symbol that is neither Terminal nor Nonterminal")
				}
			}
			if _, err := g.AddProduction(head, handle...); err != nil {
				return nil, err
			}
		}
	}

	// Extra terminals (e.g. a synthetic auto-whitespace noise terminal)
	// are recognized by the lexeme DFA but never appear in any
	// production's handle, so they are interned directly rather than
	// discovered via BFS from the root.
	for _, t := range extraTerminals {
		if _, err := ensureTerm(t); err != nil {
			return nil, err
		}
	}

	scopes, err := resolveScopes(src.Metadata.Scopes, termByName, ntByPtr)
	if err != nil {
		return nil, err
	}
	g.Scopes = scopes

	if err := g.Validate(); err != nil {
		return nil, err
	}
	g.Freeze()

	return &analyzeResult{g: g, termByName: termByName, ntByPtr: ntByPtr}, nil
}

// resolveScopes translates designtime OperatorScopes, whose symbols are
// Terminal/Nonterminal pointers, into grammar.Scopes addressed by arena
// Symbol, per spec.md §4.8. A scope symbol not reachable from the
// grammar's root (and therefore absent from both maps) is a programmer
// error in the designtime description, not a reported compiler failure
// (spec.md §7's "impossible states... indicate a bug").
func resolveScopes(scopes []OperatorScope, termByName map[string]grammar.Symbol, ntByPtr map[*Nonterminal]grammar.Symbol) ([]grammar.Scope, error) {
	out := make([]grammar.Scope, len(scopes))
	for i, sc := range scopes {
		groups := make([]grammar.OperatorGroup, len(sc.Groups))
		for j, grp := range sc.Groups {
			syms := make([]grammar.Symbol, len(grp.Symbols))
			for k, s := range grp.Symbols {
				sym, err := resolveDesigntimeSymbol(s, termByName, ntByPtr)
				if err != nil {
					return nil, err
				}
				syms[k] = sym
			}
			groups[j] = grammar.OperatorGroup{Associativity: grp.Associativity, Symbols: syms}
		}
		out[i] = grammar.Scope{Name: sc.Name, Groups: groups, ResolvesReduceReduce: sc.ResolvesReduceReduce}
	}
	return out, nil
}

func resolveDesigntimeSymbol(s Symbol, termByName map[string]grammar.Symbol, ntByPtr map[*Nonterminal]grammar.Symbol) (grammar.Symbol, error) {
	switch v := s.(type) {
	case *Terminal:
		sym, ok := termByName[v.Name]
		if !ok {
			return grammar.Symbol{}, ierr.New("operator scope references unreachable terminal " + v.Name)
		}
		return sym, nil
	case *Nonterminal:
		sym, ok := ntByPtr[v]
		if !ok {
			return grammar.Symbol{}, ierr.New("operator scope references unreachable nonterminal " + v.Name)
		}
		return sym, nil
	default:
		return grammar.Symbol{}, ierr.New("operator scope symbol is neither Terminal nor Nonterminal")
	}
}
