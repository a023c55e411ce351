package algebra

import "testing"

func TestAddCancelsIdenticalMonomials(t *testing.T) {
	u := NewUniverse()
	a := u.Declare("a0", VarShare)

	p := FromVar(a)
	sum := Add(p, p)
	if !sum.IsZero() {
		t.Fatalf("x+x should be 0, got %s", sum.String(u))
	}
}

func TestMulIsIdempotentUnion(t *testing.T) {
	u := NewUniverse()
	a := u.Declare("a0", VarShare)
	b := u.Declare("b0", VarShare)

	pa := FromVar(a)
	pb := FromVar(b)
	prod := Mul(pa, pb)
	if prod.NbMonomials() != 1 {
		t.Fatalf("expected single monomial a0*b0, got %s", prod.String(u))
	}

	// a0*a0 == a0
	self := Mul(pa, pa)
	if !self.Equal(pa) {
		t.Fatalf("a0*a0 should equal a0, got %s", self.String(u))
	}
}

func TestRandomDepLinearWitness(t *testing.T) {
	u := NewUniverse()
	a := u.Declare("a0", VarShare)
	r := u.Declare("r0_", VarRandom)

	// c0 = a0 + r  -> random_dep[r] == 1
	expr := Add(FromVar(a), FromVar(r))
	if got := expr.RandomDep(r); got != 1 {
		t.Fatalf("expected random_dep=1 for a0+r, got %d", got)
	}
}

func TestRandomDepCoupledIsTwo(t *testing.T) {
	u := NewUniverse()
	a := u.Declare("a0", VarShare)
	b := u.Declare("b0", VarShare)
	r := u.Declare("r0_", VarRandom)

	// expr = a0*b0 + a0*r + r*b0 -- r appears in two monomials, each coupled
	expr := Add(Add(Mul(FromVar(a), FromVar(b)), Mul(FromVar(a), FromVar(r))), Mul(FromVar(r), FromVar(b)))
	if got := expr.RandomDep(r); got != 2 {
		t.Fatalf("expected random_dep=2, got %d", got)
	}
}

func TestFactorMultiplicationGadgetWire(t *testing.T) {
	u := NewUniverse()
	a := u.Declare("a0", VarShare)
	b := u.Declare("b0", VarShare)
	r := u.Declare("r0_", VarRandom)

	// spec.md §8 scenario 6: a0*b0 + a0*r + r*b0
	expr := Add(Add(Mul(FromVar(a), FromVar(b)), Mul(FromVar(a), FromVar(r))), Mul(FromVar(r), FromVar(b)))

	residual, ok := expr.Factor(r)
	if !ok {
		t.Fatalf("expected factorization to succeed on %s", expr.String(u))
	}
	if !residual.IsZero() {
		t.Fatalf("expected residual 0 (fully masked), got %s", residual.String(u))
	}
}

func TestFactorFailsWithoutSharedCofactorMonomial(t *testing.T) {
	u := NewUniverse()
	a := u.Declare("a0", VarShare)
	c := u.Declare("c0", VarShare)
	r := u.Declare("r0_", VarRandom)

	// a0*r + c0 (no non-r monomial shares a0's cofactor)
	expr := Add(Mul(FromVar(a), FromVar(r)), FromVar(c))
	if _, ok := expr.Factor(r); ok {
		t.Fatalf("expected factorization to fail on %s", expr.String(u))
	}
}
