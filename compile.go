package wrasse

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/dekarrin/rosed"
	"github.com/google/uuid"

	"github.com/wrasse-lang/wrasse/action"
	"github.com/wrasse-lang/wrasse/automaton"
	"github.com/wrasse-lang/wrasse/config"
	"github.com/wrasse-lang/wrasse/grammar"
	"github.com/wrasse-lang/wrasse/ierr"
	"github.com/wrasse-lang/wrasse/lookahead"
	"github.com/wrasse-lang/wrasse/persist"
	"github.com/wrasse-lang/wrasse/precedence"
	"github.com/wrasse-lang/wrasse/regex"
)

// Builder runs the compilation pipeline with an attached *log.Logger,
// for callers who want build-stage tracing. The zero Builder logs
// nothing, per the teacher's sparse, occasional log.Printf use rather
// than a structured-logging dependency.
type Builder struct {
	Log *log.Logger
}

// NewBuilder returns a Builder that discards its log output.
func NewBuilder() *Builder {
	return &Builder{Log: log.New(io.Discard, "", 0)}
}

func (b *Builder) logger() *log.Logger {
	if b.Log == nil {
		return log.New(io.Discard, "", 0)
	}
	return b.Log
}

// Compile is the package's single entry point, chaining every stage of
// spec.md §2 from a designtime GrammarSource to the binary output
// Tables of spec.md §6. It is equivalent to (&Builder{}).Compile.
func Compile(ctx context.Context, src GrammarSource, opts config.BuilderOptions) (*persist.Tables, error) {
	return NewBuilder().Compile(ctx, src, opts)
}

// Compile runs the pipeline, logging one line per stage if b.Log is set.
func (b *Builder) Compile(ctx context.Context, src GrammarSource, opts config.BuilderOptions) (*persist.Tables, error) {
	log := b.logger()

	var extraTerminals []*Terminal
	noise := map[string]bool{}
	for _, name := range src.Metadata.NoiseSymbols {
		noise[name] = true
	}
	if src.Metadata.AutoWhitespace {
		extraTerminals = append(extraTerminals, autoWhitespaceTerminal())
		noise[autoWhitespaceName] = true
	}

	log.Printf("wrasse: stage 1/7: analyzing grammar graph")
	analyzed, err := analyze(src, opts.CaseSensitive, extraTerminals)
	if err != nil {
		return nil, err
	}
	g := analyzed.g

	log.Printf("wrasse: stage 2/7: canonicalizing terminal regular expressions")
	pairs := make([]regex.TerminalRegex, len(g.Terminals))
	for i, term := range g.Terminals {
		kind := regex.SymTerminal
		if noise[term.Name] {
			kind = regex.SymNoise
		}
		pairs[i] = regex.TerminalRegex{
			Regex:  term.Regex,
			Symbol: regex.DFASymbol{Kind: kind, Name: term.Name},
		}
	}
	canon, err := regex.Canonicalize(pairs, opts.CaseSensitive)
	if err != nil {
		return nil, err
	}

	log.Printf("wrasse: stage 3/7: building lexeme DFA")
	var dfaOpts []automaton.Option
	if opts.PrioritizeFixedLengthSymbols {
		dfaOpts = append(dfaOpts, automaton.WithPrioritizeFixedLengthSymbols())
	}
	dfa, err := automaton.Build(ctx, canon, dfaOpts...)
	if err != nil {
		return nil, err
	}

	log.Printf("wrasse: stage 4/7: constructing LR(0) kernels")
	aug := g.Augmented()
	lr0, err := automaton.BuildLR0(ctx, aug)
	if err != nil {
		return nil, err
	}

	log.Printf("wrasse: stage 5/7: solving FIRST sets")
	first, err := lookahead.Solve(ctx, aug)
	if err != nil {
		return nil, err
	}

	log.Printf("wrasse: stage 6/7: propagating LALR(1) lookaheads")
	las, err := lookahead.Propagate(ctx, aug, first, lr0)
	if err != nil {
		return nil, err
	}

	log.Printf("wrasse: stage 7/7: assembling action/goto tables")
	resolver := precedence.NewResolver(aug, nil)
	startProdID := aug.Rule(aug.StartSymbol()).Productions[0]
	states, report, err := action.Build(aug, first, lr0.Sets, las, resolver, startProdID)
	if err != nil {
		return nil, err
	}
	if len(report.Conflicts) > 0 {
		for _, c := range report.Conflicts {
			log.Printf("wrasse: unresolved conflict in state %d: %s", c.State, c.Reason)
		}
		return nil, ierr.New(formatConflictReport(g, report), ierr.ErrLALRConflict)
	}

	tables := assembleTables(g, dfa, states, noise, src.Metadata.Comments, opts)
	return tables, nil
}

const autoWhitespaceName = "whitespace"

// autoWhitespaceTerminal builds the synthetic noise Terminal matching
// one or more ASCII space/tab/CR/LF code units, per spec.md §6's
// Metadata.auto-whitespace knob. It is recognized by the lexeme DFA as a
// Noise symbol but never referenced by any production — a runtime
// scanner discards tokens of a noise symbol rather than shifting them,
// so the grammar itself need not mention it.
func autoWhitespaceTerminal() *Terminal {
	return &Terminal{
		Name:  autoWhitespaceName,
		Regex: regex.Plus(regex.CharsIn(regex.FromRunes(" \t\r\n"))),
	}
}

func assembleTables(
	g *grammar.Grammar,
	dfa *automaton.DFA,
	states []action.LALRState,
	noise map[string]bool,
	comments []Group,
	opts config.BuilderOptions,
) *persist.Tables {
	termNames := make([]string, len(g.Terminals))
	var noiseNames []string
	for i, t := range g.Terminals {
		termNames[i] = t.Name
		if noise[t.Name] {
			noiseNames = append(noiseNames, t.Name)
		}
	}
	ntNames := make([]string, len(g.Nonterminals))
	for i, nt := range g.Nonterminals {
		ntNames[i] = nt.Name
	}

	productions := make([]persist.Production, len(g.Productions))
	for i, p := range g.Productions {
		handle := make([]persist.SymbolRef, len(p.Handle))
		for j, s := range p.Handle {
			handle[j] = persist.SymbolRef{IsTerminal: s.IsTerminal(), ID: int32(s.ID)}
		}
		productions[i] = persist.Production{Head: int32(p.Head), Handle: handle}
	}

	dfaStates := make([]persist.DFAState, len(dfa.States))
	for i, s := range dfa.States {
		edges := make([]persist.RangeEdge, len(s.Edges))
		for j, e := range s.Edges {
			edges[j] = persist.RangeEdge{Lo: int32(e.Lo), Hi: int32(e.Hi), Next: int32(e.Next)}
		}
		ds := persist.DFAState{Edges: edges, HasAnyElse: s.AnyElse >= 0, AnyElse: int32(s.AnyElse)}
		if s.Accept != nil {
			ds.HasAccept = true
			ds.AcceptName = s.Accept.Name
		}
		dfaStates[i] = ds
	}

	lalrStates := make([]persist.LALRState, len(states))
	for i, st := range states {
		actions := make(map[int32]persist.LALRAction, len(st.Actions))
		for t, a := range st.Actions {
			actions[int32(t)] = convertAction(a)
		}
		gotos := make(map[int32]int32, len(st.Goto))
		for nt, target := range st.Goto {
			gotos[int32(nt)] = int32(target)
		}
		ls := persist.LALRState{Actions: actions, Gotos: gotos}
		if st.EOF != nil {
			ls.HasEOF = true
			ls.EOF = convertAction(*st.EOF)
		}
		lalrStates[i] = ls
	}

	groups := make([]persist.Group, len(comments))
	copy(groups, comments)

	props := persist.Properties{
		"Case Sensitive": fmt.Sprintf("%t", opts.CaseSensitive),
		"Start Symbol":   g.NonterminalName(g.Start),
		"Generated Date": time.Now().UTC().Format(time.RFC3339),
		"Generated By":   opts.GeneratedBy,
		"Build ID":       uuid.NewString(),
	}

	return &persist.Tables{
		Properties: props,
		Symbols: persist.Symbols{
			Terminals:    termNames,
			Nonterminals: ntNames,
			Noise:        noiseNames,
		},
		Productions: productions,
		Groups:      groups,
		DFAStates:   dfaStates,
		LALRStates:  lalrStates,
	}
}

func convertAction(a action.Action) persist.LALRAction {
	var kind persist.ActionKind
	switch a.Kind {
	case action.KindShift:
		kind = persist.ActShift
	case action.KindReduce:
		kind = persist.ActReduce
	case action.KindAccept:
		kind = persist.ActAccept
	}
	return persist.LALRAction{Kind: kind, State: int32(a.State), Prod: int32(a.Prod)}
}

// formatConflictReport renders an unresolved action.Report as the
// user-visible LALRConflictReport message of spec.md §7, naming the
// state, lookahead terminal (or EOF), competing actions, and resolver
// reason for each conflict, word-wrapped the way the teacher wraps its
// long diagnostic messages (parse/lalr.go's rosed.Edit(...).Wrap use).
func formatConflictReport(g *grammar.Grammar, report *action.Report) string {
	msg := fmt.Sprintf("%d unresolved LALR(1) conflict(s): ", len(report.Conflicts))
	for _, c := range report.Conflicts {
		la := "EOF"
		if !c.IsEOF && c.Terminal >= 0 {
			la = g.TerminalName(c.Terminal)
		}
		msg += fmt.Sprintf("state %d, lookahead %s: %s (%s); ", c.State, la, describeProposals(c.Proposals), c.Reason)
	}
	return rosed.Edit(msg).Wrap(100).String()
}

func describeProposals(proposals []action.Action) string {
	out := ""
	for i, p := range proposals {
		if i > 0 {
			out += " vs "
		}
		out += p.String()
	}
	return out
}
