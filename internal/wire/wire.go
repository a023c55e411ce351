// Package wire implements the Wire Table (spec.md §3, §4.2): the canonical
// per-wire records (expression, secret/random dependency, occurrence count,
// bit signature) that the rule engine and enumeration driver operate over.
package wire

import (
	"math/bits"

	"github.com/bits-and-blooms/bitset"

	"github.com/cryptoexperts/vraps-go/internal/algebra"
)

// Index identifies a wire within a Table.
type Index int

// Signature is a one-hot-composable bit vector over wire indices. Gadgets
// with hundreds of wires can exceed 64 bits (spec.md §9 design note), so it
// is backed by bits-and-blooms/bitset rather than a native uint64.
type Signature struct {
	bits *bitset.BitSet
}

// emptySignature returns the signature with no bits set (identity for Or).
func emptySignature() Signature {
	return Signature{bits: bitset.New(0)}
}

// oneHot returns the signature with exactly bit i set.
func oneHot(i uint) Signature {
	b := bitset.New(i + 1)
	b.Set(i)
	return Signature{bits: b}
}

// Or returns the bitwise union of two signatures (spec.md §4.2 `signature`).
func (s Signature) Or(other Signature) Signature {
	out := s.bits.Clone()
	out.InPlaceUnion(other.bits)
	return Signature{bits: out}
}

// IsSubsetOf reports whether every bit set in s is also set in other — the
// O(1)-ish (bitset word-count) subset test the Incompressibility Filter
// relies on (spec.md §4.4: "prunable iff exists p in P with (p & s) == p").
func (s Signature) IsSubsetOf(other Signature) bool {
	return other.bits.IsSuperSet(s.bits)
}

// Equal reports structural equality of two signatures.
func (s Signature) Equal(other Signature) bool {
	return s.bits.Equal(other.bits)
}

// Wire is a single record of the Wire Table (spec.md §3).
type Wire struct {
	Name      string
	Expr      algebra.Polynomial
	SecretDep []uint32 // per secret input, n-bit mask: bit k set iff share k occurs
	RandomDep []uint8  // per random variable: 0 absent, 1 linear-masking, 2 coupled
	NbOcc     int      // downstream use count in the original circuit (fixed wires only)
	Sig       Signature
}

// ValMax returns the full-disclosure mask "all shares of one secret present"
// for a gadget with nbShares shares (spec.md §3 invariant: val_max = 2^n-1).
func ValMax(nbShares int) uint32 {
	return uint32(1)<<uint(nbShares) - 1
}

// HammingWeight is the population count used by the bounded variant of
// Rule 1 (spec.md §4.3).
func HammingWeight(mask uint32) int {
	return bits.OnesCount32(mask)
}
