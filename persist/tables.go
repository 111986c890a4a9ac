// Package persist defines the compiler's output boundary types (spec.md
// §6, "Output: grammar binary") and their binary round-trip, grounded on
// the teacher's server/dao/sqlite package, which serializes its game
// state the same way: rezi.EncBinary(v) / rezi.DecBinary(data, v) on a
// type implementing encoding.BinaryMarshaler/BinaryUnmarshaler.
package persist

import (
	"github.com/dekarrin/rezi"
)

// Properties is free-form string metadata about a build: "Case
// Sensitive", "Start Symbol", "Generated Date", "Generated By" (spec.md
// §6).
type Properties map[string]string

// Symbols is the parallel-vector symbol table of the output boundary
// (spec.md §6): terminal names, nonterminal names, and the subset of
// terminal names that are noise (discarded by the parser, never shifted).
type Symbols struct {
	Terminals    []string
	Nonterminals []string
	Noise        []string
}

// SymbolRef is one entry of a Production's handle. IsTerminal
// distinguishes whether ID indexes Symbols.Terminals or
// Symbols.Nonterminals.
type SymbolRef struct {
	IsTerminal bool
	ID         int32
}

// Production is one (head, handle) pair of the output boundary (spec.md
// §6).
type Production struct {
	Head   int32
	Handle []SymbolRef
}

// AdvanceMode controls how a lexical group advances while scanning its
// body (spec.md §6, "Groups").
type AdvanceMode int

const (
	AdvanceCharacter AdvanceMode = iota
	AdvanceToken
)

// EndingMode controls whether a lexical group's end delimiter may nest
// (spec.md §6, "Groups").
type EndingMode int

const (
	EndingOpen EndingMode = iota
	EndingClosed
)

// Group describes one comment/group-lexing rule (spec.md §6).
type Group struct {
	Name      string
	Container string
	Start     string
	End       string
	Advance   AdvanceMode
	Ending    EndingMode
	Nesting   []string
}

// RangeEdge is one compressed (lo, hi, next-state) edge of a DFA state
// (spec.md §6, "edges: range-map<char, state-index>").
type RangeEdge struct {
	Lo, Hi int32
	Next   int32
}

// DFAState is one output-boundary DFA state (spec.md §6).
type DFAState struct {
	HasAccept  bool
	AcceptName string
	Edges      []RangeEdge
	HasAnyElse bool
	AnyElse    int32
}

// ActionKind tags an output-boundary LALR action.
type ActionKind int

const (
	ActShift ActionKind = iota
	ActReduce
	ActAccept
)

// LALRAction is one output-boundary action-table entry (spec.md §6,
// "ShiftOrReduce").
type LALRAction struct {
	Kind  ActionKind
	State int32 // meaningful for Shift
	Prod  int32 // meaningful for Reduce
}

// LALRState is one output-boundary LALR state (spec.md §6).
type LALRState struct {
	Actions  map[int32]LALRAction // terminal index -> action
	Gotos    map[int32]int32      // nonterminal index -> state
	HasEOF   bool
	EOF      LALRAction
}

// Tables is the complete grammar binary the compiler hands to the
// runtime (spec.md §6).
type Tables struct {
	Properties  Properties
	Symbols     Symbols
	Productions []Production
	Groups      []Group
	DFAStates   []DFAState
	LALRStates  []LALRState
}

// Encode serializes t to its binary form. Per spec.md §8's round-trip
// property, encoding the same Tables value twice must yield identical
// bytes.
func Encode(t *Tables) []byte {
	return rezi.EncBinary(t)
}

// Decode parses a Tables value previously produced by Encode.
func Decode(data []byte) (*Tables, error) {
	var t Tables
	if _, err := rezi.DecBinary(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// MarshalBinary implements encoding.BinaryMarshaler by concatenating the
// rezi encoding of every field in a fixed order.
func (t Tables) MarshalBinary() ([]byte, error) {
	var out []byte
	for _, enc := range []func() ([]byte, error){
		func() ([]byte, error) { return rezi.Enc(map[string]string(t.Properties)) },
		func() ([]byte, error) { return rezi.Enc(t.Symbols.Terminals) },
		func() ([]byte, error) { return rezi.Enc(t.Symbols.Nonterminals) },
		func() ([]byte, error) { return rezi.Enc(t.Symbols.Noise) },
		func() ([]byte, error) { return rezi.Enc(encodeProductions(t.Productions)) },
		func() ([]byte, error) { return rezi.Enc(encodeGroups(t.Groups)) },
		func() ([]byte, error) { return rezi.Enc(encodeDFAStates(t.DFAStates)) },
		func() ([]byte, error) { return rezi.Enc(encodeLALRStates(t.LALRStates)) },
	} {
		b, err := enc()
		if err != nil {
			return nil, err
		}
		out = append(out, b...)
	}
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, reading fields
// back in the same fixed order MarshalBinary wrote them.
func (t *Tables) UnmarshalBinary(data []byte) error {
	offset := 0

	readInto := func(v interface{}) error {
		n, err := rezi.Dec(data[offset:], v)
		if err != nil {
			return err
		}
		offset += n
		return nil
	}

	var props map[string]string
	if err := readInto(&props); err != nil {
		return err
	}
	t.Properties = Properties(props)

	if err := readInto(&t.Symbols.Terminals); err != nil {
		return err
	}
	if err := readInto(&t.Symbols.Nonterminals); err != nil {
		return err
	}
	if err := readInto(&t.Symbols.Noise); err != nil {
		return err
	}

	var wireProds []wireProduction
	if err := readInto(&wireProds); err != nil {
		return err
	}
	t.Productions = decodeProductions(wireProds)

	var wireGroups []wireGroup
	if err := readInto(&wireGroups); err != nil {
		return err
	}
	t.Groups = decodeGroups(wireGroups)

	var wireDFA []wireDFAState
	if err := readInto(&wireDFA); err != nil {
		return err
	}
	t.DFAStates = decodeDFAStates(wireDFA)

	var wireLALR []wireLALRState
	if err := readInto(&wireLALR); err != nil {
		return err
	}
	t.LALRStates = decodeLALRStates(wireLALR)

	return nil
}
