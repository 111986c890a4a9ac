package regex

import (
	"sort"
	"strconv"
	"strings"
)

const wordBits = 64

// LeafSet is a bitset over regex leaf positions (0..N-1). It is the
// representation used both for firstpos/lastpos/followpos during
// canonicalization and, in package automaton, for DFA state names: per
// spec.md §9, "the DFA state name set-of-leaf-indices is always a bitset
// keyed by leaf count (at most a few thousand)".
type LeafSet struct {
	words []uint64
}

// NewLeafSet returns an empty LeafSet able to hold positions in [0, n).
func NewLeafSet(n int) LeafSet {
	return LeafSet{words: make([]uint64, (n+wordBits-1)/wordBits)}
}

func (s *LeafSet) ensure(word int) {
	for len(s.words) <= word {
		s.words = append(s.words, 0)
	}
}

// Add inserts pos into the set.
func (s *LeafSet) Add(pos int) {
	w, b := pos/wordBits, uint(pos%wordBits)
	s.ensure(w)
	s.words[w] |= 1 << b
}

// Has returns whether pos is a member of the set.
func (s LeafSet) Has(pos int) bool {
	w, b := pos/wordBits, uint(pos%wordBits)
	if w >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<b) != 0
}

// Union sets s to s ∪ o and returns whether s changed as a result. The
// canonicalizer uses it to accumulate firstpos/lastpos/followpos, and the
// DFA builder to form each destination state's name.
func (s *LeafSet) Union(o LeafSet) bool {
	if len(o.words) > len(s.words) {
		s.ensure(len(o.words) - 1)
	}
	changed := false
	for i, w := range o.words {
		if s.words[i]|w != s.words[i] {
			s.words[i] |= w
			changed = true
		}
	}
	return changed
}

// Clone returns an independent copy of s.
func (s LeafSet) Clone() LeafSet {
	return LeafSet{words: append([]uint64(nil), s.words...)}
}

// Empty returns whether the set has no members.
func (s LeafSet) Empty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// Elements returns the sorted positions present in s.
func (s LeafSet) Elements() []int {
	var out []int
	for w, word := range s.words {
		if word == 0 {
			continue
		}
		for b := 0; b < wordBits; b++ {
			if word&(1<<uint(b)) != 0 {
				out = append(out, w*wordBits+b)
			}
		}
	}
	return out
}

// Equal returns whether s and o contain the same positions.
func (s LeafSet) Equal(o LeafSet) bool {
	n := len(s.words)
	if len(o.words) > n {
		n = len(o.words)
	}
	for i := 0; i < n; i++ {
		var a, b uint64
		if i < len(s.words) {
			a = s.words[i]
		}
		if i < len(o.words) {
			b = o.words[i]
		}
		if a != b {
			return false
		}
	}
	return true
}

// Key returns a stable string encoding of the set's membership, suitable
// for use as a map key when interning DFA states by name.
func (s LeafSet) Key() string {
	elems := s.Elements()
	strs := make([]string, len(elems))
	for i, e := range elems {
		strs[i] = strconv.Itoa(e)
	}
	return strings.Join(strs, ",")
}

// UnionOf returns the union of all given sets without mutating any of
// them.
func UnionOf(sets ...LeafSet) LeafSet {
	var out LeafSet
	for _, s := range sets {
		out.Union(s)
	}
	return out
}

// SortedBySize orders sets by ascending cardinality, keeping the input
// order among sets of equal size. The DFA builder does not use it: it
// numbers states in the order its work queue discovers them.
func SortedBySize(sets []LeafSet) []LeafSet {
	out := append([]LeafSet(nil), sets...)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Elements()) < len(out[j].Elements())
	})
	return out
}
