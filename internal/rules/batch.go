// Package rules implements the four simplification rules and the
// fixed-point reduction loop of spec.md §4.3: the tuple failure classifier
// at the core of the verifier.
package rules

import "github.com/cryptoexperts/vraps-go/internal/wire"

// Batch is a set of candidate tuples being classified together. Tuples is
// mutated in place by rule application (wire-index slots get rewritten by
// Rule 2/3/4); NbOccs mirrors Tuples row-for-row and carries the original,
// pre-substitution occurrence counts used for histogram weighting
// (spec.md §4.7) — it is never re-derived from a substituted wire index.
type Batch struct {
	Tuples [][]wire.Index
	NbOccs [][]int

	// Sigs, when non-nil, holds each row's signature as computed from the
	// *original* enumerated tuple, before any rule substitutes a slot. Rule
	// application never touches it; callers (internal/enum) use it to seed
	// the Incompressibility Filter for surviving (failing) rows once the
	// fixed point is reached, since a post-substitution signature would
	// under-report which original wires were probed.
	Sigs []wire.Signature
}

// Len returns the number of tuples currently in the batch.
func (b *Batch) Len() int { return len(b.Tuples) }

// filter compacts the batch to the rows for which keep[i] is true, preserving
// relative order (mirrors the boolean-mask filtering of the original's
// NumPy implementation, spec.md §9).
func (b *Batch) filter(keep []bool) {
	n := 0
	for i, k := range keep {
		if !k {
			continue
		}
		b.Tuples[n] = b.Tuples[i]
		if b.NbOccs != nil {
			b.NbOccs[n] = b.NbOccs[i]
		}
		if b.Sigs != nil {
			b.Sigs[n] = b.Sigs[i]
		}
		n++
	}
	b.Tuples = b.Tuples[:n]
	if b.NbOccs != nil {
		b.NbOccs = b.NbOccs[:n]
	}
	if b.Sigs != nil {
		b.Sigs = b.Sigs[:n]
	}
}
