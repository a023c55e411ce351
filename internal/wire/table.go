package wire

import (
	"github.com/cryptoexperts/vraps-go/internal/algebra"
	"github.com/cryptoexperts/vraps-go/internal/common"
)

// Table holds the canonical Wire records for one gadget. Wires
// 0..FixedSize()-1 are created at parse time and never mutated; wires at or
// beyond FixedSize() are derived during classification of one tuple batch
// and must be truncated back to FixedSize() at the end of that batch
// (spec.md §3 Lifecycle, §4.5 step 3).
type Table struct {
	universe   *algebra.Universe
	wires      []Wire
	fixedSize  int
	nbSecrets  int
	nbShares   int
	randomWire []Index
}

// NewTable creates an empty table over the given Universe.
func NewTable(universe *algebra.Universe, nbSecrets, nbShares int) *Table {
	return &Table{universe: universe, nbSecrets: nbSecrets, nbShares: nbShares}
}

// Universe returns the variable registry backing this table's expressions.
func (t *Table) Universe() *algebra.Universe { return t.universe }

// NbSecrets returns the number of secret inputs (1 or 2, spec.md §6).
func (t *Table) NbSecrets() int { return t.nbSecrets }

// NbShares returns n, the number of shares per secret.
func (t *Table) NbShares() int { return t.nbShares }

// Size returns the current number of live wires (fixed + derived).
func (t *Table) Size() int { return len(t.wires) }

// FixedSize returns W, the number of wires declared at parse time.
func (t *Table) FixedSize() int { return t.fixedSize }

// Get returns the wire record at index i.
func (t *Table) Get(i Index) Wire { return t.wires[i] }

// Declare adds a parse-time (fixed) wire. Must only be called before the
// table is handed to the enumeration driver; callers should call Freeze
// afterwards.
func (t *Table) Declare(name string, expr algebra.Polynomial, nbOcc int) Index {
	return t.append(name, expr, nbOcc)
}

// Freeze fixes the current size as W: everything declared so far is
// permanent, everything appended after is derived and batch-scoped.
func (t *Table) Freeze() {
	t.fixedSize = len(t.wires)
}

// AddDerived appends a wire synthesized by the rule engine (Rule 3's summed
// wire, Rule 4's residual wire) and returns its index. Derived wires carry
// no meaningful occurrence count: the histogram weighting is always taken
// from the *original* wire indices captured at enumeration time (spec.md
// §4.7), never from a post-substitution index.
func (t *Table) AddDerived(expr algebra.Polynomial) Index {
	return t.append("", expr, 0)
}

func (t *Table) append(name string, expr algebra.Polynomial, nbOcc int) Index {
	idx := Index(len(t.wires))
	w := Wire{
		Name:      name,
		Expr:      expr,
		SecretDep: make([]uint32, t.nbSecrets),
		RandomDep: nil,
		NbOcc:     nbOcc,
		Sig:       oneHot(uint(idx)),
	}
	for _, m := range expr.Monomials() {
		for _, v := range m {
			if s, k, ok := t.universe.ShareOf(v); ok {
				w.SecretDep[s] |= 1 << uint(k)
			}
		}
	}
	nbRandoms := t.countRandoms()
	w.RandomDep = make([]uint8, nbRandoms)
	for r := 0; r < nbRandoms; r++ {
		w.RandomDep[r] = randomDepOf(expr, t.universe, r)
	}
	t.wires = append(t.wires, w)
	return idx
}

func (t *Table) countRandoms() int {
	n := 0
	for i := 0; i < t.universe.Len(); i++ {
		if t.universe.Kind(algebra.VarID(i)) == algebra.VarRandom {
			n++
		}
	}
	return n
}

func randomDepOf(expr algebra.Polynomial, u *algebra.Universe, randomIdx int) uint8 {
	for i := 0; i < u.Len(); i++ {
		v := algebra.VarID(i)
		if idx, ok := u.RandomIndex(v); ok && idx == randomIdx {
			return expr.RandomDep(v)
		}
	}
	return 0
}

// BumpOcc records one more downstream reference to a fixed wire. Parsers
// call this each time a symbol is used as an operand (spec.md §3 `nb_occ`:
// "number of downstream uses in the original circuit").
func (t *Table) BumpOcc(idx Index) {
	t.wires[idx].NbOcc++
}

// DoubleOccurrences applies spec.md §9's confirmed pre-expansion once, to
// every fixed wire whose raw downstream-reference count exceeds 1: nb_occ
// becomes 2*nb_occ-1, modeling the original wire plus its fanout copies
// (read_gadget.py: `if y[3] > 1: y[3] = 2*y[3]-1`). Must be called exactly
// once, after parsing and before Freeze is relied upon for enumeration.
func (t *Table) DoubleOccurrences() {
	for i := range t.wires {
		switch {
		case t.wires[i].NbOcc == 0:
			// Never referenced downstream (a terminal/output wire, or the
			// circuit's last computed value): it is still one legitimate
			// probe point.
			t.wires[i].NbOcc = 1
		case t.wires[i].NbOcc > 1:
			t.wires[i].NbOcc = 2*t.wires[i].NbOcc - 1
		}
	}
}

// Truncate drops every wire at or beyond w, restoring the table to its
// pre-batch size (spec.md §4.5 step 3, §9 "derived-wire garbage").
func (t *Table) Truncate(w int) {
	t.wires = t.wires[:w]
}

// SecretUnion computes the bitwise-OR of the secret_dep vectors of the
// member wires of tuple (spec.md §4.2 `secret_union`).
func (t *Table) SecretUnion(tuple []Index) []uint32 {
	out := make([]uint32, t.nbSecrets)
	for _, idx := range tuple {
		w := t.wires[idx]
		for s := range out {
			out[s] |= w.SecretDep[s]
		}
	}
	return out
}

// RandomSum computes the arithmetic sum (0/1/2 valued per member) of
// random_dep[r] across the tuple's members (spec.md §4.2 `random_sum`).
func (t *Table) RandomSum(tuple []Index, r int) int {
	sum := 0
	for _, idx := range tuple {
		sum += int(t.wires[idx].RandomDep[r])
	}
	return sum
}

// RandomOr computes the bitwise OR of random_dep[*, r] across the tuple
// (used by Rule 4 to tell "one wire at value 2" apart from "two wires at
// value 1", both of which sum to 2 — spec.md §4.3 Rule 4).
func (t *Table) RandomOr(tuple []Index, r int) uint8 {
	var out uint8
	for _, idx := range tuple {
		out |= t.wires[idx].RandomDep[r]
	}
	return out
}

// Signature computes the bitwise-OR of bit_sigs over the tuple (spec.md
// §4.2 `signature`).
func (t *Table) Signature(tuple []Index) Signature {
	if len(tuple) == 0 {
		return emptySignature()
	}
	sig := t.wires[tuple[0]].Sig
	for _, idx := range tuple[1:] {
		sig = sig.Or(t.wires[idx].Sig)
	}
	return sig
}

// BindRandomWire records which wire index carries a bare random variable r
// on its own (the wire Rule 2 substitutes in when it proves a random is
// used exactly once, spec.md §4.3 Rule 2). Parsers call this once per
// random symbol, right after declaring its wire.
func (t *Table) BindRandomWire(randomIdx int, idx Index) {
	if randomIdx >= len(t.randomWire) {
		grown := make([]Index, randomIdx+1)
		copy(grown, t.randomWire)
		t.randomWire = grown
	}
	t.randomWire[randomIdx] = idx
}

// RandomWire returns the wire index bound to random r by BindRandomWire.
func (t *Table) RandomWire(randomIdx int) Index { return t.randomWire[randomIdx] }

// NbRandoms returns the number of declared random variables.
func (t *Table) NbRandoms() int { return t.countRandoms() }

// ValMax is ValMax(t.nbShares), exposed for convenience at call sites that
// only hold a *Table.
func (t *Table) ValMax() uint32 { return ValMax(t.nbShares) }

// CheckInvariants validates the universal signature-uniqueness invariant
// (spec.md §8 property 5). It is O(size^2) and intended for tests, not the
// hot path.
func (t *Table) CheckInvariants() error {
	for i := range t.wires {
		for j := i + 1; j < len(t.wires); j++ {
			if t.wires[i].Sig.Equal(t.wires[j].Sig) {
				return common.ErrSignatureExhausted
			}
		}
	}
	return nil
}
