package persist

import "sort"

// wireSymbolRef, wireProduction, etc. are flattened, primitives-only
// mirrors of the public Production/Group/DFAState/LALRState types. rezi's
// reflective encoder walks structs of ints/strings/bools/slices/maps
// without trouble; keeping the wire shape to exactly those avoids relying
// on any more exotic reflection behavior for a type nobody in the
// examples pack ever round-tripped this way.

type wireSymbolRef struct {
	IsTerminal bool
	ID         int32
}

type wireProduction struct {
	Head   int32
	Handle []wireSymbolRef
}

func encodeProductions(ps []Production) []wireProduction {
	out := make([]wireProduction, len(ps))
	for i, p := range ps {
		handle := make([]wireSymbolRef, len(p.Handle))
		for j, s := range p.Handle {
			handle[j] = wireSymbolRef{IsTerminal: s.IsTerminal, ID: s.ID}
		}
		out[i] = wireProduction{Head: p.Head, Handle: handle}
	}
	return out
}

func decodeProductions(ws []wireProduction) []Production {
	out := make([]Production, len(ws))
	for i, w := range ws {
		handle := make([]SymbolRef, len(w.Handle))
		for j, s := range w.Handle {
			handle[j] = SymbolRef{IsTerminal: s.IsTerminal, ID: s.ID}
		}
		out[i] = Production{Head: w.Head, Handle: handle}
	}
	return out
}

type wireGroup struct {
	Name      string
	Container string
	Start     string
	End       string
	Advance   int32
	Ending    int32
	Nesting   []string
}

func encodeGroups(gs []Group) []wireGroup {
	out := make([]wireGroup, len(gs))
	for i, g := range gs {
		out[i] = wireGroup{
			Name: g.Name, Container: g.Container, Start: g.Start, End: g.End,
			Advance: int32(g.Advance), Ending: int32(g.Ending), Nesting: g.Nesting,
		}
	}
	return out
}

func decodeGroups(ws []wireGroup) []Group {
	out := make([]Group, len(ws))
	for i, w := range ws {
		out[i] = Group{
			Name: w.Name, Container: w.Container, Start: w.Start, End: w.End,
			Advance: AdvanceMode(w.Advance), Ending: EndingMode(w.Ending), Nesting: w.Nesting,
		}
	}
	return out
}

type wireRangeEdge struct {
	Lo, Hi int32
	Next   int32
}

type wireDFAState struct {
	HasAccept  bool
	AcceptName string
	Edges      []wireRangeEdge
	HasAnyElse bool
	AnyElse    int32
}

func encodeDFAStates(ds []DFAState) []wireDFAState {
	out := make([]wireDFAState, len(ds))
	for i, d := range ds {
		edges := make([]wireRangeEdge, len(d.Edges))
		for j, e := range d.Edges {
			edges[j] = wireRangeEdge{Lo: e.Lo, Hi: e.Hi, Next: e.Next}
		}
		out[i] = wireDFAState{
			HasAccept: d.HasAccept, AcceptName: d.AcceptName, Edges: edges,
			HasAnyElse: d.HasAnyElse, AnyElse: d.AnyElse,
		}
	}
	return out
}

func decodeDFAStates(ws []wireDFAState) []DFAState {
	out := make([]DFAState, len(ws))
	for i, w := range ws {
		edges := make([]RangeEdge, len(w.Edges))
		for j, e := range w.Edges {
			edges[j] = RangeEdge{Lo: e.Lo, Hi: e.Hi, Next: e.Next}
		}
		out[i] = DFAState{
			HasAccept: w.HasAccept, AcceptName: w.AcceptName, Edges: edges,
			HasAnyElse: w.HasAnyElse, AnyElse: w.AnyElse,
		}
	}
	return out
}

type wireAction struct {
	Kind  int32
	State int32
	Prod  int32
}

type wireLALRState struct {
	TermKeys   []int32
	TermVals   []wireAction
	NTKeys     []int32
	NTVals     []int32
	HasEOF     bool
	EOF        wireAction
}

func encodeLALRStates(ls []LALRState) []wireLALRState {
	out := make([]wireLALRState, len(ls))
	for i, l := range ls {
		w := wireLALRState{HasEOF: l.HasEOF, EOF: wireAction{Kind: int32(l.EOF.Kind), State: l.EOF.State, Prod: l.EOF.Prod}}

		termKeys := make([]int32, 0, len(l.Actions))
		for k := range l.Actions {
			termKeys = append(termKeys, k)
		}
		sort.Slice(termKeys, func(i, j int) bool { return termKeys[i] < termKeys[j] })
		for _, k := range termKeys {
			v := l.Actions[k]
			w.TermKeys = append(w.TermKeys, k)
			w.TermVals = append(w.TermVals, wireAction{Kind: int32(v.Kind), State: v.State, Prod: v.Prod})
		}

		ntKeys := make([]int32, 0, len(l.Gotos))
		for k := range l.Gotos {
			ntKeys = append(ntKeys, k)
		}
		sort.Slice(ntKeys, func(i, j int) bool { return ntKeys[i] < ntKeys[j] })
		for _, k := range ntKeys {
			w.NTKeys = append(w.NTKeys, k)
			w.NTVals = append(w.NTVals, l.Gotos[k])
		}

		out[i] = w
	}
	return out
}

func decodeLALRStates(ws []wireLALRState) []LALRState {
	out := make([]LALRState, len(ws))
	for i, w := range ws {
		l := LALRState{
			Actions: map[int32]LALRAction{},
			Gotos:   map[int32]int32{},
			HasEOF:  w.HasEOF,
			EOF:     LALRAction{Kind: ActionKind(w.EOF.Kind), State: w.EOF.State, Prod: w.EOF.Prod},
		}
		for i2, k := range w.TermKeys {
			v := w.TermVals[i2]
			l.Actions[k] = LALRAction{Kind: ActionKind(v.Kind), State: v.State, Prod: v.Prod}
		}
		for i2, k := range w.NTKeys {
			l.Gotos[k] = w.NTVals[i2]
		}
		out[i] = l
	}
	return out
}
