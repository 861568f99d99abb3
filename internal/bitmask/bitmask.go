// Package bitmask implements the bit-packed validity (null) mask shared
// by every nullable column layout (§4.B). A bit set to 1 means "null";
// a missing mask altogether means "all present" and is represented by a
// nil *Mask at the column level, not by this package.
package bitmask

import "coltab/kerr"

const wordBits = 64

// Mask is a packed bit array of a fixed logical length. Word i holds
// bits [64*i, 64*i+64). All operations except Resize are O(1).
type Mask struct {
	words  []uint64
	length int
}

// New allocates a mask of n bits, all initially not-null (0).
func New(n int) *Mask {
	m := &Mask{}
	m.Resize(n)
	return m
}

// Len returns the mask's bit length.
func (m *Mask) Len() int { return m.length }

func (m *Mask) checkRange(op string, i int) error {
	if i < 0 || i >= m.length {
		return kerr.New(kerr.OutOfRange, op, "index out of bounds")
	}
	return nil
}

// IsNull reports whether bit i is set (null). Panics-as-error via the
// returned bool only; callers needing bounds safety should call
// IsNullChecked.
func (m *Mask) IsNull(i int) bool {
	return m.words[i/wordBits]&(1<<uint(i%wordBits)) != 0
}

// IsNullChecked is IsNull with an explicit bounds check, returning
// kerr.OutOfRange instead of panicking.
func (m *Mask) IsNullChecked(i int) (bool, error) {
	if err := m.checkRange("Mask.IsNull", i); err != nil {
		return false, err
	}
	return m.IsNull(i), nil
}

// SetNull marks bit i as null.
func (m *Mask) SetNull(i int) {
	m.words[i/wordBits] |= 1 << uint(i%wordBits)
}

// SetNotNull marks bit i as not-null.
func (m *Mask) SetNotNull(i int) {
	m.words[i/wordBits] &^= 1 << uint(i%wordBits)
}

// Resize grows or shrinks the mask to n bits in place. New bits
// introduced by growth are not-null. This is the only O(n/word)
// operation in the mask's interface.
func (m *Mask) Resize(n int) {
	words := (n + wordBits - 1) / wordBits
	if words > len(m.words) {
		grown := make([]uint64, words)
		copy(grown, m.words)
		m.words = grown
	} else {
		m.words = m.words[:words]
	}
	m.length = n
}

// Clone deep-copies the mask.
func (m *Mask) Clone() *Mask {
	words := make([]uint64, len(m.words))
	copy(words, m.words)
	return &Mask{words: words, length: m.length}
}

// AnyNull reports whether any bit in the mask is set.
func (m *Mask) AnyNull() bool {
	for _, w := range m.words {
		if w != 0 {
			return true
		}
	}
	return false
}

// MergeOr returns a fresh mask of length L whose bit i is null iff a's
// bit i or b's bit i is null. A nil operand is treated as "all
// present"; if both are nil the result is nil (no nulls at all).
func MergeOr(a, b *Mask, length int) *Mask {
	if a == nil && b == nil {
		return nil
	}
	if a == nil {
		return b.Clone()
	}
	if b == nil {
		return a.Clone()
	}
	out := New(length)
	n := (length + wordBits - 1) / wordBits
	for i := 0; i < n; i++ {
		var aw, bw uint64
		if i < len(a.words) {
			aw = a.words[i]
		}
		if i < len(b.words) {
			bw = b.words[i]
		}
		out.words[i] = aw | bw
	}
	return out
}

// Gather builds a fresh mask of len(indices) bits by copying bit
// indices[i] of m into bit i of the result. Used by Column.Gather to
// carry validity through an index-based copy.
func (m *Mask) Gather(indices []int) *Mask {
	out := New(len(indices))
	for i, src := range indices {
		if m.IsNull(src) {
			out.SetNull(i)
		}
	}
	return out
}
