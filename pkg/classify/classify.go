// Package classify implements RPE1/RPE2's per-secret failure breakdown
// (spec.md §4.6, §7 SUPPLEMENTED FEATURES): a gadget with two secret
// inputs reports not just "fails" but which secret(s) a failing tuple
// over-saturates — I1 (first secret only), I2 (second only), I1∧I2
// (both), I1∨I2 (either). This reuses the same Hamming-weight masks
// Rule 1 already computes rather than recomputing anything from scratch.
package classify

import "github.com/cryptoexperts/vraps-go/internal/wire"

// Categories reports, for one secret_union vector, which of the I1/I2
// categories a tuple belongs to. A single-secret gadget only ever sets I1.
type Categories struct {
	I1    bool
	I2    bool
	I1And bool
	I1Or  bool
}

// Classify derives Categories from a tuple's secret_union vector, using
// the Saturated (full-disclosure) test when t < 0 or the Bounded test at
// threshold t otherwise (what RPE1/RPE2 pass).
func Classify(union []uint32, valMax uint32, t int) Categories {
	exceeds := func(u uint32) bool {
		if t < 0 {
			return u == valMax
		}
		return wire.HammingWeight(u) > t
	}

	var c Categories
	if len(union) > 0 {
		c.I1 = exceeds(union[0])
	}
	if len(union) > 1 {
		c.I2 = exceeds(union[1])
	}
	c.I1And = c.I1 && c.I2
	c.I1Or = c.I1 || c.I2
	return c
}
