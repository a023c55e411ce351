package rules

import (
	"github.com/cryptoexperts/vraps-go/internal/algebra"
	"github.com/cryptoexperts/vraps-go/internal/wire"
)

// Rule3 looks, within each tuple, for the first pair of members whose sum
// has strictly fewer monomials than one of the two originals, and replaces
// that member (the first of the pair when the sum beats both) with a freshly
// derived wire holding that sum. Summing
// two tuple members never changes the joint distribution they expose (the
// verifier can always recover either original from the sum and the other
// member), so this is a pure cost reduction aimed at letting Rule 1/Rule 4
// recognize a coupled-random cancellation they couldn't see in the
// original, more expensive expressions (spec.md §4.3 Rule 3).
//
// At most one substitution is made per tuple per call; the engine calls
// Rule3 up to three times per fixed-point iteration (spec.md §4.3).
func Rule3(tbl *wire.Table, batch *Batch) {
	for i, tuple := range batch.Tuples {
		batch.Tuples[i] = rule3One(tbl, tuple)
	}
}

func rule3One(tbl *wire.Table, tuple []wire.Index) []wire.Index {
	for a := 0; a < len(tuple); a++ {
		exprA := tbl.Get(tuple[a]).Expr
		for b := a + 1; b < len(tuple); b++ {
			exprB := tbl.Get(tuple[b]).Expr
			sum := algebra.Add(exprA, exprB)
			switch {
			case sum.NbMonomials() < exprA.NbMonomials():
				idx := tbl.AddDerived(sum)
				tuple[a] = idx
				return tuple
			case sum.NbMonomials() < exprB.NbMonomials():
				idx := tbl.AddDerived(sum)
				tuple[b] = idx
				return tuple
			}
		}
	}
	return tuple
}
