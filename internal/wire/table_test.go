package wire

import (
	"testing"

	"github.com/cryptoexperts/vraps-go/internal/algebra"
)

func buildEncodingGadget() (*Table, algebra.VarID, Index, Index) {
	u := algebra.NewUniverse()
	a0 := u.DeclareShare("a0", 0, 0)
	a1 := u.DeclareShare("a1", 0, 1)
	r := u.DeclareRandom("r0_", 0)

	tbl := NewTable(u, 1, 2)
	c0 := tbl.Declare("c0", algebra.Add(algebra.FromVar(a0), algebra.FromVar(r)), 1)
	c1 := tbl.Declare("c1", algebra.Add(algebra.FromVar(a1), algebra.FromVar(r)), 1)
	tbl.Freeze()
	return tbl, r, c0, c1
}

func TestSecretUnionAndValMax(t *testing.T) {
	tbl, _, c0, c1 := buildEncodingGadget()
	union := tbl.SecretUnion([]Index{c0, c1})
	if union[0] != tbl.ValMax() {
		t.Fatalf("expected saturated secret mask %b, got %b", tbl.ValMax(), union[0])
	}
}

func TestRandomSumAndOr(t *testing.T) {
	tbl, _, c0, c1 := buildEncodingGadget()
	sum := tbl.RandomSum([]Index{c0, c1}, 0)
	if sum != 2 {
		t.Fatalf("expected random_sum=2, got %d", sum)
	}
	or := tbl.RandomOr([]Index{c0, c1}, 0)
	if or != 1 {
		t.Fatalf("expected random_dep OR = 1 (two independent linear uses), got %d", or)
	}
}

func TestSignatureUniquenessAndTruncate(t *testing.T) {
	tbl, _, _, _ := buildEncodingGadget()
	if err := tbl.CheckInvariants(); err != nil {
		t.Fatalf("unexpected invariant violation: %v", err)
	}

	before := tbl.Size()
	tbl.AddDerived(algebra.Zero())
	tbl.AddDerived(algebra.Zero())
	if tbl.Size() != before+2 {
		t.Fatalf("expected size to grow by 2 derived wires")
	}
	if err := tbl.CheckInvariants(); err != nil {
		t.Fatalf("derived wires should still have unique signatures: %v", err)
	}

	tbl.Truncate(before)
	if tbl.Size() != before {
		t.Fatalf("truncate should restore pre-batch size exactly, got %d want %d", tbl.Size(), before)
	}
}
