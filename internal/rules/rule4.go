package rules

import "github.com/cryptoexperts/vraps-go/internal/wire"

// Rule4 looks for tuples carrying a single member whose expression couples
// random r to other variables (random_dep[r]==2) while no other member of
// the tuple touches r at all (random_sum(r)==2 with random_or(r)==2 — as
// opposed to two independently-linear members, which also sum to 2 but OR
// to 1). For such a member, Polynomial.Factor(r) tests whether r can be
// pulled out as r*(cofactor sum) + residual; if so, that member is replaced
// by a freshly derived wire holding just the residual, because the r*(...)
// block is then information-theoretically masked by r alone and
// contributes nothing the rest of the tuple doesn't already determine
// (spec.md §4.1, §4.3 Rule 4).
func Rule4(tbl *wire.Table, batch *Batch) {
	nbRandoms := tbl.NbRandoms()
	for i, tuple := range batch.Tuples {
		for r := 0; r < nbRandoms; r++ {
			if tbl.RandomSum(tuple, r) != 2 || tbl.RandomOr(tuple, r) != 2 {
				continue
			}
			slot := soleCoupledUser(tbl, tuple, r)
			if slot < 0 {
				continue
			}
			rVar := tbl.Universe().RandomVar(r)
			residual, ok := tbl.Get(tuple[slot]).Expr.Factor(rVar)
			if !ok {
				continue
			}
			tuple[slot] = tbl.AddDerived(residual)
		}
		batch.Tuples[i] = tuple
	}
}

func soleCoupledUser(tbl *wire.Table, tuple []wire.Index, r int) int {
	slot := -1
	for s, idx := range tuple {
		if tbl.Get(idx).RandomDep[r] == 2 {
			if slot >= 0 {
				return -1
			}
			slot = s
		}
	}
	return slot
}
