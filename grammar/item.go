package grammar

import "fmt"

// Item is an LR(0) item: a production together with a dot position
// marking how much of the handle has been seen (spec.md §3, "(Production,
// dot position ∈ [0..|handle|])"). Unlike the teacher's string-keyed
// LR0Item (a copied Left/Right symbol slice pair), an Item here is a pair
// of integers, looked up against the owning Grammar's Productions arena —
// the dense-indexed representation spec.md §9 calls for.
type Item struct {
	Prod int
	Dot  int
}

// AtDot returns the symbol immediately after the dot and true, or the
// zero Symbol and false if the item is final (dot at the end of the
// handle).
func (it Item) AtDot(g *Grammar) (Symbol, bool) {
	handle := g.Productions[it.Prod].Handle
	if it.Dot >= len(handle) {
		return Symbol{}, false
	}
	return handle[it.Dot], true
}

// Final reports whether the dot has reached the end of the handle.
func (it Item) Final(g *Grammar) bool {
	return it.Dot >= len(g.Productions[it.Prod].Handle)
}

// Advance returns the item with the dot moved one symbol to the right.
// The caller must ensure the item is not Final.
func (it Item) Advance() Item {
	return Item{Prod: it.Prod, Dot: it.Dot + 1}
}

func (it Item) String(g *Grammar) string {
	p := g.Productions[it.Prod]
	head := g.NonterminalName(p.Head)
	before, after := "", ""
	for i, s := range p.Handle {
		name := g.SymbolName(s)
		if i < it.Dot {
			before += name + " "
		} else {
			after += name + " "
		}
	}
	return fmt.Sprintf("%s -> %s.%s", head, before, after)
}

// Key returns a value suitable as a map key uniquely identifying it
// within a single Grammar (two Items are the same item iff their Key is
// equal).
func (it Item) Key() int {
	// Packing assumes fewer than 2^20 productions and fewer than 2^12
	// symbols per handle, comfortably above anything a hand-authored or
	// generated grammar will reach.
	return it.Prod<<12 | it.Dot
}
