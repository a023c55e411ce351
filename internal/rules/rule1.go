package rules

import "github.com/cryptoexperts/vraps-go/internal/wire"

// FailTest decides, given the per-secret union mask of a tuple, whether
// that tuple still looks like a failure. Saturated and Bounded below are
// the two variants named by spec.md §4.3 Rule 1.
type FailTest func(secretUnion []uint32, tbl *wire.Table) bool

// Saturated is the plain t-probing / RP test: a tuple fails once any
// secret's union mask reaches val_max, i.e. every share of that secret is
// covered.
func Saturated(secretUnion []uint32, tbl *wire.Table) bool {
	valMax := tbl.ValMax()
	for _, u := range secretUnion {
		if u == valMax {
			return true
		}
	}
	return false
}

// Bounded returns a FailTest that fails a tuple once any secret's union
// mask has Hamming weight exceeding t — the variant RPC/RPE use to test
// against an output-size-dependent threshold rather than full disclosure
// (spec.md §4.3 Rule 1, bounded form).
func Bounded(t int) FailTest {
	return func(secretUnion []uint32, tbl *wire.Table) bool {
		for _, u := range secretUnion {
			if wire.HammingWeight(u) > t {
				return true
			}
		}
		return false
	}
}

// Rule1 filters the batch down to tuples that still fail the given test,
// dropping every tuple whose secret union has been reduced below the
// failure threshold by prior substitution — those are proven independent
// of the secrets and need no further work (spec.md §4.3 Rule 1).
func Rule1(tbl *wire.Table, batch *Batch, test FailTest) {
	keep := make([]bool, batch.Len())
	for i, tuple := range batch.Tuples {
		keep[i] = test(tbl.SecretUnion(tuple), tbl)
	}
	batch.filter(keep)
}
