package rules

import "github.com/cryptoexperts/vraps-go/internal/wire"

// Rule2 eliminates randoms used exactly once: if random r appears linearly
// (random_dep==1) in exactly one member of a tuple (random_sum(r)==1), that
// member perfectly masks whatever it carries, so the tuple's distribution
// is unchanged by replacing that member with the random itself. Doing so
// drops every secret bit that member contributed, which is what lets Rule 1
// prove the tuple safe on the next pass (spec.md §4.3 Rule 2).
func Rule2(tbl *wire.Table, batch *Batch) {
	nbRandoms := tbl.NbRandoms()
	for i, tuple := range batch.Tuples {
		for r := 0; r < nbRandoms; r++ {
			if tbl.RandomSum(tuple, r) != 1 {
				continue
			}
			slot := soleLinearUser(tbl, tuple, r)
			if slot < 0 {
				continue
			}
			tuple[slot] = tbl.RandomWire(r)
		}
		batch.Tuples[i] = tuple
	}
}

// soleLinearUser returns the tuple slot whose random_dep[r] == 1, or -1 if
// none (random_sum==1 with no linear member means a single coupled use,
// which Rule 2 must not touch).
func soleLinearUser(tbl *wire.Table, tuple []wire.Index, r int) int {
	for slot, idx := range tuple {
		if tbl.Get(idx).RandomDep[r] == 1 {
			return slot
		}
	}
	return -1
}
