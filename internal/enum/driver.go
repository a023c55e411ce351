// Package enum implements the Enumeration Driver (spec.md §4.5): batched
// combination generation over the probeable wire set, incompressibility
// pruning, rule-engine invocation, and histogram accumulation.
package enum

import (
	"context"
	"fmt"

	"github.com/cryptoexperts/vraps-go/internal/common"
	"github.com/cryptoexperts/vraps-go/internal/filter"
	"github.com/cryptoexperts/vraps-go/internal/rules"
	"github.com/cryptoexperts/vraps-go/internal/wire"
)

// DefaultBatchSize is the "reasonable default" batch size of spec.md §5.
const DefaultBatchSize = 1 << 20

// Config carries the knobs spec.md §9 insists be an explicit struct rather
// than process-wide mutable state (the source's global BATCH_SIZE).
type Config struct {
	BatchSize int
	CoeffMax  int
	Verbosity int
}

// Augment appends mode-specific fixed probes (an RPC/RPE output-share
// selection) to an enumerated combination before it is handed to the rule
// engine. TProbing/RandomProbing pass nil.
type Augment func(combo []wire.Index) []wire.Index

func (c Config) batchSize() int {
	if c.BatchSize > 0 {
		return c.BatchSize
	}
	return DefaultBatchSize
}

// RunTProbing runs a single level i=t (spec.md §4.6 "t-probing") and stops
// at the first failure, matching spec.md §5's early-exit termination
// condition. It reports the expressions of the first failing tuple's wires,
// as left by the rule engine's rewrites, as a witness.
func RunTProbing(ctx context.Context, tbl *wire.Table, probeable []wire.Index, t int, cfg Config) (secure bool, witness []string, err error) {
	if t <= 0 || t > len(probeable) {
		return false, nil, fmt.Errorf("run t-probing at order %d: %w", t, common.ErrOrderTooLarge)
	}

	cur := newCombinationCursor(probeable, t)
	combo := make([]wire.Index, t)
	batchSize := cfg.batchSize()

	tuples := make([][]wire.Index, 0, batchSize)
	occs := make([][]int, 0, batchSize)

	for {
		if err := ctx.Err(); err != nil {
			return false, nil, err
		}

		tuples = tuples[:0]
		occs = occs[:0]
		baseSize := tbl.Size()

		for len(tuples) < batchSize {
			if !cur.next(combo) {
				break
			}
			row := append([]wire.Index(nil), combo...)
			tuples = append(tuples, row)
			occs = append(occs, occsOf(tbl, combo))
		}
		if len(tuples) == 0 {
			return true, nil, nil
		}

		batch := &rules.Batch{Tuples: tuples, NbOccs: occs}
		rules.FixedPoint(tbl, batch, rules.Saturated)
		failed := batch.Len() > 0
		var witness []string
		if failed {
			witness = witnessOf(tbl, batch.Tuples[0])
		}
		tbl.Truncate(baseSize)

		if failed {
			return false, witness, nil
		}
	}
}

// RunHistogram runs levels 1..cfg.CoeffMax (spec.md §4.6 "random probing"),
// optionally augmenting every enumerated tuple with a fixed set of output
// probes, and accumulates the resulting Histogram. The Incompressibility
// Filter is a single append-only set carried across all levels of this
// call (spec.md §5), but never across separate calls — each call to
// RunHistogram is its own outer-loop iteration (spec.md §11 "without-append"
// decision on carrying filter state across output-share subsets).
func RunHistogram(ctx context.Context, tbl *wire.Table, probeable []wire.Index, cfg Config, test rules.FailTest, augment Augment) (Histogram, error) {
	var h Histogram
	err := RunCredit(ctx, tbl, probeable, cfg, test, augment, func(_ []wire.Index, occs []int) {
		UpdateCoeff(&h, occs)
	})
	return h, err
}

// Credit is invoked once per tuple declared a failure — whether surviving
// the rule engine or already known-failing via the Incompressibility
// Filter — with the fully augmented wire set actually probed and its
// occurrence-count vector. RunHistogram's Credit simply feeds one
// Histogram; pkg/classify's per-secret breakdown instead inspects which
// secret(s) the tuple over-saturates and credits separate histograms.
type Credit func(tuple []wire.Index, occs []int)

// RunCredit is RunHistogram generalized over the crediting step, letting
// callers classify failures (e.g. by which secret they over-saturate)
// instead of folding every failure into one coefficient array.
func RunCredit(ctx context.Context, tbl *wire.Table, probeable []wire.Index, cfg Config, test rules.FailTest, augment Augment, credit Credit) error {
	incompressible := filter.New()

	for size := 1; size <= cfg.CoeffMax && size <= len(probeable); size++ {
		if err := runLevel(ctx, tbl, probeable, size, cfg, test, augment, incompressible, credit); err != nil {
			return err
		}
	}
	return nil
}

func runLevel(ctx context.Context, tbl *wire.Table, probeable []wire.Index, size int, cfg Config, test rules.FailTest, augment Augment, incompressible *filter.Set, credit Credit) error {
	cur := newCombinationCursor(probeable, size)
	combo := make([]wire.Index, size)
	batchSize := cfg.batchSize()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var tuples [][]wire.Index
		var origs [][]wire.Index
		var occs [][]int
		var sigs []wire.Signature
		baseSize := tbl.Size()

		for len(tuples) < batchSize {
			if !cur.next(combo) {
				break
			}
			// Occurrence weight is always taken from the enumerated combo
			// itself, never from an augmented fixed output selection (spec.md
			// §4.7; the original slices nb_occs to the enumerated tuple's own
			// width before any output comb is appended, both in
			// random_probing_comp_func.py and random_probing_exp2_func.py).
			rowOccs := occsOf(tbl, combo)
			full := combo
			if augment != nil {
				full = augment(combo)
			}
			sig := tbl.Signature(full)

			if incompressible.Prunable(sig) {
				credit(full, rowOccs)
				continue
			}

			row := append([]wire.Index(nil), full...)
			tuples = append(tuples, row)
			origs = append(origs, append([]wire.Index(nil), full...))
			occs = append(occs, rowOccs)
			sigs = append(sigs, sig)
		}
		if len(tuples) == 0 {
			if cur.done {
				return nil
			}
			continue
		}

		batch := &rules.Batch{Tuples: tuples, NbOccs: occs, Sigs: sigs}
		rules.FixedPoint(tbl, batch, test)
		// The rule engine rewrites tuple slots in place; survivors keep their
		// relative order and original signature, which locates the
		// enumerated (pre-rewrite) row to credit.
		j := 0
		for i := range batch.Tuples {
			for !tbl.Signature(origs[j]).Equal(batch.Sigs[i]) {
				j++
			}
			credit(origs[j], batch.NbOccs[i])
			incompressible.Add(batch.Sigs[i])
		}
		tbl.Truncate(baseSize)

		if cur.done {
			return nil
		}
	}
}

func occsOf(tbl *wire.Table, combo []wire.Index) []int {
	out := make([]int, len(combo))
	for i, idx := range combo {
		out[i] = tbl.Get(idx).NbOcc
	}
	return out
}

func witnessOf(tbl *wire.Table, tuple []wire.Index) []string {
	out := make([]string, len(tuple))
	for i, idx := range tuple {
		w := tbl.Get(idx)
		out[i] = w.Expr.String(tbl.Universe())
	}
	return out
}
