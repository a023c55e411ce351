// Package verifier implements the five verification modes of spec.md §4.6:
// t-probing, random probing (RP), composability (RPC), and expandability
// (RPE1/RPE2). Each is a thin parameterization of the internal enumeration
// driver and rule engine — no mode owns any algorithm of its own.
package verifier

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cryptoexperts/vraps-go/internal/common"
	"github.com/cryptoexperts/vraps-go/internal/enum"
	"github.com/cryptoexperts/vraps-go/internal/rules"
	"github.com/cryptoexperts/vraps-go/internal/wire"
	"github.com/cryptoexperts/vraps-go/pkg/classify"
)

// Config carries the knobs spec.md §9's design notes insist be explicit
// rather than process-wide mutable state (the source's global BATCH_SIZE).
type Config struct {
	BatchSize int
	Verbosity int
}

func (c Config) enumConfig(coeffMax int) enum.Config {
	return enum.Config{BatchSize: c.BatchSize, CoeffMax: coeffMax, Verbosity: c.Verbosity}
}

// TProbing runs a single level i=t and reports whether the gadget is
// t-probing secure (spec.md §4.6 "t-probing").
func TProbing(cfg Config, tbl *wire.Table, probeable []wire.Index, t int) (secure bool, witness []string, err error) {
	return enum.RunTProbing(context.Background(), tbl, probeable, t, cfg.enumConfig(t))
}

// RandomProbing runs levels 1..coeffMax and returns the leakage histogram
// (spec.md §4.6 "Random probing (RP)").
func RandomProbing(cfg Config, tbl *wire.Table, probeable []wire.Index, coeffMax int) (enum.Histogram, error) {
	if coeffMax <= 0 {
		return nil, common.ErrInvalidCoeffMax
	}
	return enum.RunHistogram(context.Background(), tbl, probeable, cfg.enumConfig(coeffMax), rules.Saturated, nil)
}

// Composability runs the RPC outer loop: for each size-tOutput subset of
// outputs, a nested enumeration over probeable at the Rule 1 bounded
// variant (threshold t), tracking the coefficient-wise maximum across
// output selections (spec.md §4.6 "RPC"). tOutput defaults to t when <= 0.
//
// copy mirrors Expandability1/2's copy-gadget variant: outputs is then
// read as the concatenation of two equal-length output families (first
// half, second half, in declaration order — the shape a --copy CLI
// invocation assembles from a gadget's two OUT families), and the outer
// loop runs their Cartesian product of size-tOutput subsets instead of a
// single family's subsets.
func Composability(cfg Config, tbl *wire.Table, probeable, outputs []wire.Index, t, tOutput, coeffMax int, copy bool) (enum.Histogram, error) {
	if coeffMax <= 0 {
		return nil, common.ErrInvalidCoeffMax
	}
	if tOutput <= 0 {
		tOutput = t
	}
	if len(outputs) == 0 {
		return nil, common.ErrNoOutputs
	}

	var selections [][]wire.Index
	if !copy {
		selections = enum.Subsets(outputs, tOutput)
	} else {
		if len(outputs)%2 != 0 {
			return nil, common.ErrMismatchedCopyOutputs
		}
		half := len(outputs) / 2
		selections = cartesianSubsets(outputs[:half], outputs[half:], tOutput, tOutput)
	}

	test := rules.Bounded(t)

	var worst enum.Histogram
	for _, subset := range selections {
		augment := fixedAugment(subset)
		h, err := enum.RunHistogram(context.Background(), tbl, probeable, cfg.enumConfig(coeffMax), test, augment)
		if err != nil {
			return nil, fmt.Errorf("composability subset %v: %w", witnessNames(tbl, subset), err)
		}
		worst = enum.Max(worst, h)
	}
	return worst, nil
}

// PerSecretHistograms is RPE1/RPE2's per-category breakdown: failures that
// over-saturate only the first secret (I1), only the second (I2), both
// (I1∧I2), or either (I1∨I2) — spec.md §4.6/§7 SUPPLEMENTED FEATURES.
type PerSecretHistograms struct {
	I1    enum.Histogram
	I2    enum.Histogram
	I1And enum.Histogram
	I1Or  enum.Histogram
}

// Expandability1 runs the RPE1 loop at outer size n-1 (spec.md §4.6 "like
// RPC"). copy=false returns a single-element slice (one output family, no
// outer loop — only the inner n-1-subset intersection). copy=true returns
// one table per bit of the two output families (random_probing_exp_copy_func.py's
// bit loop, spec.md §7 copy gadget RPE variant), each the coefficient-wise
// maximum, across size-(n-1) subsets of that bit's own family, of the
// intersection over size-(n-1) subsets of the other family.
func Expandability1(cfg Config, tbl *wire.Table, probeable []wire.Index, outputs [2][]wire.Index, t, coeffMax int, copy bool) ([]PerSecretHistograms, error) {
	n := tbl.NbShares()
	return expandability(cfg, tbl, probeable, outputs, t, n-1, coeffMax, copy)
}

// Expandability2 is Expandability1 with the outer subset size fixed at t
// instead of n-1 (spec.md §4.6 "RPE2"); the inner loop remains size n-1 in
// both the copy and non-copy cases (verification_random_probing_exp_2's
// copy=False variant iterates combs(indices_o, nb_shares-1), not size t).
func Expandability2(cfg Config, tbl *wire.Table, probeable []wire.Index, outputs [2][]wire.Index, t, coeffMax int, copy bool) ([]PerSecretHistograms, error) {
	return expandability(cfg, tbl, probeable, outputs, t, t, coeffMax, copy)
}

// expandability implements the RPE1/RPE2 shared shape. The non-copy variant
// has only one loop: every size-(n-1) subset of outputs[0] is a fixed output
// selection whose failures are intersected — a tuple counts only if it fails
// for *every* subset (random_probing_exp2_func.py's np.intersect1d over
// `sums`). The copy variant runs this once per bit in {0,1}
// (random_probing_exp_copy_func.py's bit loop): for bit, the OUTER loop
// ranges over size-outerSize subsets of outputs[bit], each combined via
// coefficient-wise MAX (coeff_c_max_I1_or_I2), and within each outer subset
// the INNER loop intersects over size-(n-1) subsets of outputs[1-bit], same
// as the non-copy case.
func expandability(cfg Config, tbl *wire.Table, probeable []wire.Index, outputs [2][]wire.Index, t, outerSize, coeffMax int, copy bool) ([]PerSecretHistograms, error) {
	if coeffMax <= 0 {
		return nil, common.ErrInvalidCoeffMax
	}
	if len(outputs[0]) == 0 {
		return nil, common.ErrNoOutputs
	}
	if copy && len(outputs[1]) == 0 {
		return nil, common.ErrMismatchedCopyOutputs
	}

	n := tbl.NbShares()
	innerSize := n - 1

	if !copy {
		innerSelections := enum.Subsets(outputs[0], innerSize)
		if len(innerSelections) == 0 {
			return nil, common.ErrNoOutputs
		}
		h, err := intersectCategories(cfg, tbl, probeable, nil, innerSelections, t, coeffMax)
		if err != nil {
			return nil, err
		}
		return []PerSecretHistograms{h}, nil
	}

	results := make([]PerSecretHistograms, 2)
	for bit := 0; bit < 2; bit++ {
		outerSubsets := enum.Subsets(outputs[bit], outerSize)
		innerSelections := enum.Subsets(outputs[1-bit], innerSize)
		if len(outerSubsets) == 0 || len(innerSelections) == 0 {
			return nil, common.ErrNoOutputs
		}

		var acc PerSecretHistograms
		first := true
		for _, outerSel := range outerSubsets {
			h, err := intersectCategories(cfg, tbl, probeable, outerSel, innerSelections, t, coeffMax)
			if err != nil {
				return nil, err
			}
			if first {
				acc = h
				first = false
				continue
			}
			acc = maxPerSecret(acc, h)
		}
		results[bit] = acc
	}
	return results, nil
}

// intersectCategories runs the inner output-subset loop shared by RPE1/RPE2:
// every selection in innerSelections is fixed (alongside fixedPrefix, the
// current outer subset — nil for the non-copy case) as additional probes,
// and a base combo is credited to a category only once it is classified a
// failure in that category for *every* inner selection — a true
// intersection of per-selection failing-tuple sets keyed by wire identity,
// not a coefficient-wise minimum of per-selection histograms (the latter is
// merely an upper bound and over-counts when different selections fail
// different tuples of equal occurrence-weight).
func intersectCategories(cfg Config, tbl *wire.Table, probeable []wire.Index, fixedPrefix []wire.Index, innerSelections [][]wire.Index, t, coeffMax int) (PerSecretHistograms, error) {
	valMax := tbl.ValMax()
	test := rules.Bounded(t)

	type tally struct {
		occs           []int
		i1, i2, and, or int
	}
	seen := make(map[string]*tally)

	for _, sel := range innerSelections {
		fixed := append(append([]wire.Index(nil), fixedPrefix...), sel...)
		augment := fixedAugment(fixed)

		err := enum.RunCredit(context.Background(), tbl, probeable, cfg.enumConfig(coeffMax), test, augment, func(tuple []wire.Index, occs []int) {
			base := tuple[:len(tuple)-len(fixed)]
			key := comboKey(base)
			r, ok := seen[key]
			if !ok {
				r = &tally{occs: append([]int(nil), occs...)}
				seen[key] = r
			}
			cats := classify.Classify(tbl.SecretUnion(tuple), valMax, t)
			if cats.I1 {
				r.i1++
			}
			if cats.I2 {
				r.i2++
			}
			if cats.I1And {
				r.and++
			}
			if cats.I1Or {
				r.or++
			}
		})
		if err != nil {
			return PerSecretHistograms{}, fmt.Errorf("expandability inner selection %v: %w", witnessNames(tbl, sel), err)
		}
	}

	need := len(innerSelections)
	var out PerSecretHistograms
	for _, r := range seen {
		if r.i1 == need {
			enum.UpdateCoeff(&out.I1, r.occs)
		}
		if r.i2 == need {
			enum.UpdateCoeff(&out.I2, r.occs)
		}
		if r.and == need {
			enum.UpdateCoeff(&out.I1And, r.occs)
		}
		if r.or == need {
			enum.UpdateCoeff(&out.I1Or, r.occs)
		}
	}
	return out, nil
}

// maxPerSecret combines two outer-loop iterations' category histograms by
// coefficient-wise maximum (spec.md §4.6, the outer-loop accumulation rule
// shared with Composability).
func maxPerSecret(a, b PerSecretHistograms) PerSecretHistograms {
	return PerSecretHistograms{
		I1:    enum.Max(a.I1, b.I1),
		I2:    enum.Max(a.I2, b.I2),
		I1And: enum.Max(a.I1And, b.I1And),
		I1Or:  enum.Max(a.I1Or, b.I1Or),
	}
}

// comboKey encodes a base combination's wire identities as a map key —
// wire.Signature wraps a *bitset.BitSet and isn't itself map-keyable.
func comboKey(combo []wire.Index) string {
	b := make([]byte, 0, len(combo)*6)
	for _, idx := range combo {
		b = strconv.AppendInt(b, int64(idx), 10)
		b = append(b, ',')
	}
	return string(b)
}

// cartesianSubsets builds the concatenation of every size-sizeA subset of a
// with every size-sizeB subset of b — Composability's copy-gadget outer loop
// (random_probing_comp_func.py's out_combs1 x out_combs2 product).
func cartesianSubsets(a, b []wire.Index, sizeA, sizeB int) [][]wire.Index {
	subsetsA := enum.Subsets(a, sizeA)
	subsetsB := enum.Subsets(b, sizeB)
	out := make([][]wire.Index, 0, len(subsetsA)*len(subsetsB))
	for _, sa := range subsetsA {
		for _, sb := range subsetsB {
			out = append(out, append(append([]wire.Index(nil), sa...), sb...))
		}
	}
	return out
}

func fixedAugment(fixed []wire.Index) enum.Augment {
	return func(combo []wire.Index) []wire.Index {
		return append(append([]wire.Index(nil), combo...), fixed...)
	}
}

func witnessNames(tbl *wire.Table, idxs []wire.Index) []string {
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = tbl.Get(idx).Expr.String(tbl.Universe())
	}
	return out
}
