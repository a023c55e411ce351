package rules

import (
	"testing"

	"github.com/cryptoexperts/vraps-go/internal/algebra"
	"github.com/cryptoexperts/vraps-go/internal/wire"
)

// buildBrokenRefresh mirrors gadgets/same_random_refresh.circuit: two output
// shares reuse the same random, so the pair still discloses the full secret
// (2-probing failure).
func buildBrokenRefresh() (*wire.Table, wire.Index, wire.Index) {
	u := algebra.NewUniverse()
	a0 := u.DeclareShare("a0", 0, 0)
	a1 := u.DeclareShare("a1", 0, 1)
	r := u.DeclareRandom("r0_", 0)

	tbl := wire.NewTable(u, 1, 2)
	rw := tbl.Declare("r0_", algebra.FromVar(r), 1)
	tbl.BindRandomWire(0, rw)
	c0 := tbl.Declare("c0", algebra.Add(algebra.FromVar(a0), algebra.FromVar(r)), 1)
	c1 := tbl.Declare("c1", algebra.Add(algebra.FromVar(a1), algebra.FromVar(r)), 1)
	tbl.Freeze()
	return tbl, c0, c1
}

// buildMultiplicationWire mirrors spec.md §8 scenario 6: a single wire
// a0*b0 + a0*r + r*b0 that Rule 4 proves fully masked by r, paired with a
// second wire exposing the complementary share a1 so the pair is only a
// candidate failure until Rule 4 fires.
func buildMultiplicationWire() (*wire.Table, wire.Index, wire.Index) {
	u := algebra.NewUniverse()
	a0 := u.DeclareShare("a0", 0, 0)
	a1 := u.DeclareShare("a1", 0, 1)
	b0 := u.DeclareShare("b0", 1, 0)
	r := u.DeclareRandom("r0_", 0)

	tbl := wire.NewTable(u, 2, 2)
	rw := tbl.Declare("r0_", algebra.FromVar(r), 1)
	tbl.BindRandomWire(0, rw)
	expr := algebra.Add(
		algebra.Add(algebra.Mul(algebra.FromVar(a0), algebra.FromVar(b0)), algebra.Mul(algebra.FromVar(a0), algebra.FromVar(r))),
		algebra.Mul(algebra.FromVar(r), algebra.FromVar(b0)),
	)
	w1 := tbl.Declare("w1", expr, 1)
	w2 := tbl.Declare("w2", algebra.FromVar(a1), 1)
	tbl.Freeze()
	return tbl, w1, w2
}

func TestFixedPointRejectsBrokenRefresh(t *testing.T) {
	tbl, c0, c1 := buildBrokenRefresh()
	batch := &Batch{Tuples: [][]wire.Index{{c0, c1}}, NbOccs: [][]int{{1, 1}}}

	FixedPoint(tbl, batch, Saturated)

	if batch.Len() != 1 {
		t.Fatalf("expected the reused-random pair to remain a declared failure, got %d survivors", batch.Len())
	}
}

func TestFixedPointProvesMultiplicationWireSafe(t *testing.T) {
	tbl, w1, w2 := buildMultiplicationWire()
	batch := &Batch{Tuples: [][]wire.Index{{w1, w2}}, NbOccs: [][]int{{1, 1}}}

	FixedPoint(tbl, batch, Saturated)

	if batch.Len() != 0 {
		t.Fatalf("expected Rule 4 to factor out r and prove the tuple independent of the secrets, got %d survivors", batch.Len())
	}
}

func TestRule1DropsUnsaturatedTuples(t *testing.T) {
	tbl, _, w2 := buildMultiplicationWire()
	batch := &Batch{Tuples: [][]wire.Index{{w2}}, NbOccs: [][]int{{1}}}

	Rule1(tbl, batch, Saturated)

	if batch.Len() != 0 {
		t.Fatalf("a single share of a 2-share secret should not saturate val_max")
	}
}

func TestRule2SubstitutesSoleLinearUse(t *testing.T) {
	tbl, c0, c1 := buildBrokenRefresh()
	batch := &Batch{Tuples: [][]wire.Index{{c0}}, NbOccs: [][]int{{1}}}

	Rule2(tbl, batch)

	if batch.Tuples[0][0] != tbl.RandomWire(0) {
		t.Fatalf("expected the sole member to be rewritten to the random's own wire, got index %d", batch.Tuples[0][0])
	}

	// c1 is untouched by this call; guard against accidental aliasing of the
	// original buildBrokenRefresh wires.
	if c1 == c0 {
		t.Fatalf("fixture invariant broken: c0 and c1 must be distinct wires")
	}
}

func TestBoundedFailTestUsesHammingWeight(t *testing.T) {
	tbl, c0, c1 := buildBrokenRefresh()
	union := tbl.SecretUnion([]wire.Index{c0, c1})

	if !Bounded(1)(union, tbl) {
		t.Fatalf("hamming weight 2 should fail the t=1 bounded test")
	}
	if Bounded(2)(union, tbl) {
		t.Fatalf("hamming weight 2 should not fail the t=2 bounded test")
	}
}
