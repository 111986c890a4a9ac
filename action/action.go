// Package action assembles the final LALR(1) action/goto tables (spec.md
// §4.7) by combining the shifts implied by an LR(0) GOTO table with the
// reductions implied by propagated lookaheads, invoking package
// precedence to settle conflicts, grounded on the teacher's
// parse/lalr.go Action/Goto assembly and its rosed table dump.
package action

import (
	"fmt"

	"github.com/dekarrin/rosed"
	"github.com/wrasse-lang/wrasse/automaton"
	"github.com/wrasse-lang/wrasse/grammar"
	"github.com/wrasse-lang/wrasse/lookahead"
	"github.com/wrasse-lang/wrasse/precedence"
)

// Kind tags what an Action does.
type Kind int

const (
	KindShift Kind = iota
	KindReduce
	KindAccept
)

func (k Kind) String() string {
	switch k {
	case KindShift:
		return "shift"
	case KindReduce:
		return "reduce"
	case KindAccept:
		return "accept"
	default:
		return "unknown"
	}
}

// Action is a single entry of an LALR state's action table: a Shift to
// State, a Reduce of Prod, or Accept.
type Action struct {
	Kind  Kind
	State int // meaningful for Shift
	Prod  int // meaningful for Reduce
}

func (a Action) String() string {
	switch a.Kind {
	case KindShift:
		return fmt.Sprintf("shift %d", a.State)
	case KindReduce:
		return fmt.Sprintf("reduce #%d", a.Prod)
	case KindAccept:
		return "accept"
	default:
		return "?"
	}
}

// LALRState is one row of the final action/goto table (spec.md §3, "LALR
// state"): actions keyed by terminal index, goto keyed by nonterminal
// index, plus an optional EOF action.
type LALRState struct {
	ID      int
	Actions map[int]Action
	Goto    map[int]int
	EOF     *Action
}

// Conflict records one pair of competing actions the resolver could not
// choose between: the state, the lookahead terminal (or EOF), the
// competing proposals, and the precedence.Reason the resolver gave.
// Outcomes the resolver did settle are not recorded.
type Conflict struct {
	State     int
	Terminal  int // -1 if this conflict was on EOF
	IsEOF     bool
	Proposals []Action
	Reason    precedence.Reason
}

// Report collects every conflict found while assembling the action table,
// per spec.md §4.7: "All conflicts found are collected and reported
// together... to aid debugging." An empty Report.Conflicts means the
// grammar is LALR(1) with no precedence ambiguity.
type Report struct {
	Conflicts []Conflict
}

// Build assembles the LALR states for every LR(0) item set, per spec.md
// §4.7. startProdID is the augmented grammar's single synthetic
// production S' -> S, whose EOF reduction is rewritten to Accept.
func Build(
	g *grammar.Grammar,
	first *lookahead.FirstSets,
	sets []automaton.ItemSet,
	las *lookahead.Lookaheads,
	resolver *precedence.Resolver,
	startProdID int,
) ([]LALRState, *Report, error) {
	report := &Report{}
	states := make([]LALRState, len(sets))

	for i, set := range sets {
		st := LALRState{ID: i, Actions: map[int]Action{}, Goto: map[int]int{}}

		shiftProposals := map[int]Action{}
		for sym, next := range set.Goto {
			if sym.IsNonterminal() {
				st.Goto[sym.ID] = next
			} else {
				shiftProposals[sym.ID] = Action{Kind: KindShift, State: next}
			}
		}

		// Close the kernel under LR(1) using the stored lookaheads, only
		// to discover final items and their lookaheads (GOTO is already
		// known).
		seeds := make([]lookahead.ItemLA, 0, len(set.Kernel))
		for _, K := range set.Kernel {
			seeds = append(seeds, lookahead.ItemLA{Item: K, LA: las.Of(i, K)})
		}
		closure := lookahead.LR1Closure(g, first, seeds)

		reduceProposals := map[int][]Action{} // terminal -> proposals
		var eofProposals []Action
		for _, entry := range closure {
			if !entry.Item.Final(g) {
				continue
			}
			act := Action{Kind: KindReduce, Prod: entry.Item.Prod}
			for _, t := range entry.LA.Terminals() {
				reduceProposals[t] = append(reduceProposals[t], act)
			}
			if entry.LA.HasEnd {
				eofProposals = append(eofProposals, act)
			}
		}

		allTerms := map[int]bool{}
		for t := range shiftProposals {
			allTerms[t] = true
		}
		for t := range reduceProposals {
			allTerms[t] = true
		}

		for t := range allTerms {
			shift, hasShift := shiftProposals[t]
			final, conflicts := resolveTerminal(i, t, shift, hasShift, reduceProposals[t], resolver)
			report.Conflicts = append(report.Conflicts, conflicts...)
			if final != nil {
				st.Actions[t] = *final
			}
		}

		if len(eofProposals) > 0 {
			winner, conflicts := resolveReduceSet(i, -1, true, eofProposals, resolver)
			report.Conflicts = append(report.Conflicts, conflicts...)
			if winner != nil {
				final := *winner
				if final.Prod == startProdID {
					final = Action{Kind: KindAccept}
				}
				st.EOF = &final
			}
		}

		states[i] = st
	}

	return states, report, nil
}

func resolveTerminal(state, term int, shift Action, hasShift bool, reduces []Action, resolver *precedence.Resolver) (*Action, []Conflict) {
	var proposals []Action
	if hasShift {
		proposals = append(proposals, shift)
	}
	proposals = append(proposals, reduces...)

	if len(proposals) == 0 {
		return nil, nil
	}
	if len(proposals) == 1 {
		p := proposals[0]
		return &p, nil
	}

	var conflicts []Conflict

	// Fold the reduce proposals down to one, pairwise.
	winner, redConflicts := foldReduces(state, term, false, reduces, resolver)
	conflicts = append(conflicts, redConflicts...)

	if !hasShift {
		return winner, conflicts
	}
	if winner == nil {
		p := shift
		return &p, conflicts
	}

	decision := resolver.ResolveShiftReduce(grammar.Term(term), winner.Prod)
	switch decision.Outcome {
	case precedence.ShiftWins:
		p := shift
		return &p, conflicts
	case precedence.ReduceWins:
		return winner, conflicts
	case precedence.NeitherWins:
		return nil, conflicts
	default:
		conflicts = append(conflicts, Conflict{
			State: state, Terminal: term,
			Proposals: []Action{shift, *winner},
			Reason:    decision.Reason,
		})
		return nil, conflicts
	}
}

func resolveReduceSet(state, term int, isEOF bool, reduces []Action, resolver *precedence.Resolver) (*Action, []Conflict) {
	return foldReduces(state, term, isEOF, reduces, resolver)
}

func foldReduces(state, term int, isEOF bool, reduces []Action, resolver *precedence.Resolver) (*Action, []Conflict) {
	if len(reduces) == 0 {
		return nil, nil
	}
	winner := reduces[0]
	var conflicts []Conflict
	ok := true

	for _, cand := range reduces[1:] {
		decision := resolver.ResolveReduceReduce(winner.Prod, cand.Prod)
		switch decision.Outcome {
		case precedence.FirstProductionWins:
			// keep winner
		case precedence.SecondProductionWins:
			winner = cand
		default:
			ok = false
			conflicts = append(conflicts, Conflict{
				State: state, Terminal: term, IsEOF: isEOF,
				Proposals: []Action{winner, cand},
				Reason:    decision.Reason,
			})
		}
	}

	if !ok {
		return nil, conflicts
	}
	return &winner, conflicts
}

// DumpTable renders states as a shift/reduce/goto table, grounded on the
// teacher's rosed InsertTableOpts dump in parse/lalr.go.
func DumpTable(g *grammar.Grammar, states []LALRState) string {
	data := [][]string{}
	headers := []string{"S", "|"}
	for _, term := range g.Terminals {
		headers = append(headers, "A:"+term.Name)
	}
	headers = append(headers, "A:$", "|")
	for _, nt := range g.Nonterminals {
		headers = append(headers, "G:"+nt.Name)
	}
	data = append(data, headers)

	for _, st := range states {
		row := []string{fmt.Sprintf("%d", st.ID), "|"}
		for _, term := range g.Terminals {
			cell := ""
			if a, ok := st.Actions[term.ID]; ok {
				cell = a.String()
			}
			row = append(row, cell)
		}
		eofCell := ""
		if st.EOF != nil {
			eofCell = st.EOF.String()
		}
		row = append(row, eofCell, "|")
		for _, nt := range g.Nonterminals {
			cell := ""
			if s, ok := st.Goto[nt.ID]; ok {
				cell = fmt.Sprintf("%d", s)
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	return rosed.
		Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
