// Package lookahead computes FIRST sets (spec.md §4.5) and propagates
// LALR(1) lookaheads via the Knuth hash-terminal technique (spec.md §4.6),
// grounded on the teacher's parse/lalr.go (its unfinished
// computeLALR1Kernels/determineLookaheads pair implements exactly
// Algorithm 4.62/4.63 this package completes) but rebuilt around a
// terminal-indexed bitset instead of util.StringSet.
package lookahead

const wordBits = 64

// Set is a bitset over terminal indices plus two out-of-band flags: HasEnd,
// the synthetic $ / EOF marker, and HasHash, the synthetic # marker used
// only during lookahead propagation (spec.md §3, "Lookahead set"). It is a
// distinct type from regex.LeafSet (which indexes regex leaves, not
// terminals) even though both are plain bitsets, because conflating the
// two index spaces would be a correctness bug waiting to happen.
type Set struct {
	words   []uint64
	HasEnd  bool
	HasHash bool
}

func (s *Set) ensure(word int) {
	for len(s.words) <= word {
		s.words = append(s.words, 0)
	}
}

// Add inserts terminal index t into the set.
func (s *Set) Add(t int) {
	w, b := t/wordBits, uint(t%wordBits)
	s.ensure(w)
	s.words[w] |= 1 << b
}

// Has reports whether terminal index t is a member of the set.
func (s Set) Has(t int) bool {
	w, b := t/wordBits, uint(t%wordBits)
	if w >= len(s.words) {
		return false
	}
	return s.words[w]&(1<<b) != 0
}

// Terminals returns the sorted terminal indices present in the set
// (HasEnd/HasHash are not terminal indices and are never included).
func (s Set) Terminals() []int {
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

// Union sets s to s ∪ o (including the HasEnd/HasHash flags) and returns
// whether s changed, the primitive both the FIRST fixed point (spec.md
// §4.5) and the lookahead propagation fixed point (spec.md §4.6) repeat
// until convergence.
func (s *Set) Union(o Set) bool {
	changed := false
	if len(o.words) > len(s.words) {
		s.ensure(len(o.words) - 1)
	}
	for i, w := range o.words {
		if s.words[i]|w != s.words[i] {
			s.words[i] |= w
			changed = true
		}
	}
	if o.HasEnd && !s.HasEnd {
		s.HasEnd = true
		changed = true
	}
	if o.HasHash && !s.HasHash {
		s.HasHash = true
		changed = true
	}
	return changed
}

// Clone returns an independent copy of s.
func (s Set) Clone() Set {
	return Set{words: append([]uint64(nil), s.words...), HasEnd: s.HasEnd, HasHash: s.HasHash}
}

// Equal reports whether s and o have the same membership and flags.
func (s Set) Equal(o Set) bool {
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
	return s.HasEnd == o.HasEnd && s.HasHash == o.HasHash
}

// WithoutHash returns a copy of s with the HasHash flag cleared, used when
// a spontaneous lookahead is recorded (spec.md §4.6 step 2: "Union la \
// {#} into lookaheads[...]").
func (s Set) WithoutHash() Set {
	c := s.Clone()
	c.HasHash = false
	return c
}
