package rules

import "github.com/cryptoexperts/vraps-go/internal/wire"

// FixedPoint runs the reduction loop of spec.md §4.3 over batch, mutating it
// in place. It applies Rule 1 first to drop tuples that are not even
// candidate failures, then alternates Rule 2/Rule 4/Rule 3 with Rule 1
// re-checks until either the batch empties (every tuple proven independent
// of the secrets) or a full outer iteration makes no further progress.
// Whatever remains in batch when FixedPoint returns is the declared set of
// failing tuples.
func FixedPoint(tbl *wire.Table, batch *Batch, test FailTest) {
	Rule1(tbl, batch, test)

	for {
		before := batch.Len()

		for {
			prev := batch.Len()
			Rule2(tbl, batch)
			Rule1(tbl, batch, test)
			if batch.Len() == prev {
				break
			}
		}
		if batch.Len() == 0 {
			return
		}

		Rule4(tbl, batch)
		Rule2(tbl, batch)
		Rule1(tbl, batch, test)

		for pass := 0; pass < 3; pass++ {
			Rule3(tbl, batch)
		}
		Rule2(tbl, batch)
		Rule1(tbl, batch, test)

		if batch.Len() == before {
			return
		}
	}
}
