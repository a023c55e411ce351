// Package algebra implements a small GF(2) multilinear-polynomial kernel:
// monomials are sorted sequences of small-integer variable ids, polynomials
// are sorted sets of monomials. All operations are total and
// allocation-explicit — there is no external polynomial-ring dependency and
// no string parsing on the hot path (spec.md §9 "Dynamic symbolic algebra").
//
// A monomial is a set of distinct variable ids: in the boolean ring each
// variable is idempotent (x*x = x), so multiplication is a pairwise union of
// variable sets rather than a concatenation. Addition is symmetric
// difference of the monomial sets (x+x = 0).
package algebra

import (
	"sort"
	"strconv"
	"strings"
)

// VarID identifies a variable (a share symbol or a random symbol) in a
// Universe. It is a dense, zero-based index so monomials can be represented
// as plain sorted int slices instead of interned strings.
type VarID int

// VarKind distinguishes share variables from random variables.
type VarKind uint8

const (
	VarShare VarKind = iota
	VarRandom
)

// varInfo is the descriptor for one variable, held by the Universe.
type varInfo struct {
	name      string
	kind      VarKind
	secretIdx int // VarShare only: which secret input (a, b, ...)
	shareIdx  int // VarShare only: which share k of that secret
	randomIdx int // VarRandom only: position in the RANDOMS declaration
}

// Universe is the registry of variables referenced by a gadget. VarIDs are
// only meaningful relative to the Universe that minted them.
type Universe struct {
	vars []varInfo
}

// NewUniverse creates an empty variable registry.
func NewUniverse() *Universe {
	return &Universe{}
}

// Declare registers a new variable and returns its id. Names must be unique
// within a Universe; callers (internal/circuit) are responsible for that.
// It is primarily used by tests; production code uses DeclareShare /
// DeclareRandom so the Wire Table can recover secret/random dependency
// metadata from a VarID alone.
func (u *Universe) Declare(name string, kind VarKind) VarID {
	id := VarID(len(u.vars))
	u.vars = append(u.vars, varInfo{name: name, kind: kind, secretIdx: -1, randomIdx: -1})
	return id
}

// DeclareShare registers share k of secret input secretIdx.
func (u *Universe) DeclareShare(name string, secretIdx, shareIdx int) VarID {
	id := VarID(len(u.vars))
	u.vars = append(u.vars, varInfo{name: name, kind: VarShare, secretIdx: secretIdx, shareIdx: shareIdx, randomIdx: -1})
	return id
}

// DeclareRandom registers the randomIdx-th random symbol.
func (u *Universe) DeclareRandom(name string, randomIdx int) VarID {
	id := VarID(len(u.vars))
	u.vars = append(u.vars, varInfo{name: name, kind: VarRandom, secretIdx: -1, randomIdx: randomIdx})
	return id
}

// ShareOf reports the (secretIdx, shareIdx) pair for a share variable.
func (u *Universe) ShareOf(v VarID) (secretIdx, shareIdx int, ok bool) {
	info := u.vars[v]
	if info.kind != VarShare {
		return 0, 0, false
	}
	return info.secretIdx, info.shareIdx, true
}

// RandomVar returns the VarID of the randomIdx-th declared random variable.
// It is the inverse of RandomIndex, used by Rule 4 to turn a random's table
// position back into the VarID Polynomial.Factor operates on.
func (u *Universe) RandomVar(randomIdx int) VarID {
	for i, info := range u.vars {
		if info.kind == VarRandom && info.randomIdx == randomIdx {
			return VarID(i)
		}
	}
	return -1
}

// RandomIndex reports the declaration-order index of a random variable.
func (u *Universe) RandomIndex(v VarID) (idx int, ok bool) {
	info := u.vars[v]
	if info.kind != VarRandom {
		return 0, false
	}
	return info.randomIdx, true
}

// Name returns the declared name of v.
func (u *Universe) Name(v VarID) string {
	return u.vars[v].name
}

// Kind returns whether v is a share or random variable.
func (u *Universe) Kind(v VarID) VarKind {
	return u.vars[v].kind
}

// Len returns the number of declared variables.
func (u *Universe) Len() int {
	return len(u.vars)
}

// Monomial is a product of distinct variables, stored sorted ascending by
// VarID. The empty Monomial represents the constant 1.
type Monomial []VarID

func (m Monomial) contains(v VarID) bool {
	i := sort.Search(len(m), func(i int) bool { return m[i] >= v })
	return i < len(m) && m[i] == v
}

// subsetOf reports whether every variable of m also occurs in other.
func (m Monomial) subsetOf(other Monomial) bool {
	if len(m) > len(other) {
		return false
	}
	for _, v := range m {
		if !other.contains(v) {
			return false
		}
	}
	return true
}

func (m Monomial) equal(other Monomial) bool {
	if len(m) != len(other) {
		return false
	}
	for i := range m {
		if m[i] != other[i] {
			return false
		}
	}
	return true
}

// without returns a new monomial containing the variables of m that are not
// in sub. Requires sub.subsetOf(m).
func (m Monomial) without(sub Monomial) Monomial {
	out := make(Monomial, 0, len(m)-len(sub))
	for _, v := range m {
		if !sub.contains(v) {
			out = append(out, v)
		}
	}
	return out
}

func newMonomial(vars ...VarID) Monomial {
	m := append(Monomial(nil), vars...)
	sort.Slice(m, func(i, j int) bool { return m[i] < m[j] })
	return dedupSorted(m)
}

func dedupSorted(m Monomial) Monomial {
	if len(m) < 2 {
		return m
	}
	out := m[:1]
	for _, v := range m[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// union returns the monomial representing a*b (variable-set union, boolean
// idempotency collapses repeats).
func union(a, b Monomial) Monomial {
	out := make(Monomial, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// compareMonomials defines a total order over monomials, used to keep a
// Polynomial's monomial list sorted and to merge two such lists in linear
// time (symmetric difference for Add); Factor also uses it to re-sort the
// residual it builds.
func compareMonomials(a, b Monomial) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Polynomial is a sorted set of distinct monomials over GF(2): the zero
// polynomial has no monomials, the constant 1 is the polynomial containing
// only the empty monomial.
type Polynomial struct {
	monos []Monomial
}

// Zero is the additive identity.
func Zero() Polynomial { return Polynomial{} }

// One is the multiplicative identity (the constant 1).
func One() Polynomial { return Polynomial{monos: []Monomial{{}}} }

// FromVar builds the single-variable polynomial "v".
func FromVar(v VarID) Polynomial {
	return Polynomial{monos: []Monomial{newMonomial(v)}}
}

// IsZero reports whether p is the zero polynomial.
func (p Polynomial) IsZero() bool { return len(p.monos) == 0 }

// NbMonomials returns the number of monomials in p (the "nb_var" measure
// used by Rule 3 to compare expression sizes — spec.md §4.3).
func (p Polynomial) NbMonomials() int { return len(p.monos) }

// Equal reports structural equality (spec.md §4.1 "Equality is structural").
func (p Polynomial) Equal(q Polynomial) bool {
	if len(p.monos) != len(q.monos) {
		return false
	}
	for i := range p.monos {
		if !p.monos[i].equal(q.monos[i]) {
			return false
		}
	}
	return true
}

// Add returns p+q, the symmetric difference of the two monomial sets.
func Add(p, q Polynomial) Polynomial {
	out := make([]Monomial, 0, len(p.monos)+len(q.monos))
	i, j := 0, 0
	for i < len(p.monos) && j < len(q.monos) {
		c := compareMonomials(p.monos[i], q.monos[j])
		switch {
		case c < 0:
			out = append(out, p.monos[i])
			i++
		case c > 0:
			out = append(out, q.monos[j])
			j++
		default:
			// identical monomial on both sides: x+x = 0, drop it
			i++
			j++
		}
	}
	out = append(out, p.monos[i:]...)
	out = append(out, q.monos[j:]...)
	return Polynomial{monos: out}
}

// Mul returns p*q. Each pair of monomials contributes their union; equal
// resulting monomials cancel pairwise (GF(2) addition), so Mul is built as a
// fold of Add over the single-monomial products.
func Mul(p, q Polynomial) Polynomial {
	acc := Zero()
	for _, a := range p.monos {
		for _, b := range q.monos {
			acc = Add(acc, Polynomial{monos: []Monomial{union(a, b)}})
		}
	}
	return acc
}

// Monomials exposes the sorted monomial list for callers that need to
// inspect structure directly (Rule 3/Rule 4, secret/random dependency scans).
func (p Polynomial) Monomials() []Monomial {
	return p.monos
}

// fromMonomials builds a Polynomial from an already-deduplicated, sorted
// monomial slice, taking ownership of it.
func fromMonomials(monos []Monomial) Polynomial {
	return Polynomial{monos: monos}
}

// RandomDep implements the §4.1 "linear-random test": it decides whether r
// appears 0, 1 (linearly, alone in exactly one monomial, the masking
// witness) or 2 (coupled with other variables, or in >=2 monomials) times.
func (p Polynomial) RandomDep(r VarID) uint8 {
	count := 0
	lone := false
	for _, m := range p.monos {
		if m.contains(r) {
			count++
			if len(m) == 1 {
				lone = true
			}
		}
	}
	switch {
	case count == 0:
		return 0
	case count == 1 && lone:
		return 1
	default:
		return 2
	}
}

// Contains reports whether variable v occurs in any monomial of p.
func (p Polynomial) Contains(v VarID) bool {
	for _, m := range p.monos {
		if m.contains(v) {
			return true
		}
	}
	return false
}

// Factor implements the §4.1 Rule-4 factorization test: can p be written as
// r*(v_1+...+v_m) + residual, where the r-block is the union of all
// monomials containing r and the v_k are their complementary sub-monomials
// (cofactors)?
//
// A cofactor v_k is jointly replaceable with the others iff the set of
// whole non-r monomials containing v_k, intersected across every k, is
// non-empty (spec.md §4.1). When that holds, the masked block and every
// monomial in the intersection are stripped from p to produce the residual.
func (p Polynomial) Factor(r VarID) (residual Polynomial, ok bool) {
	var rMonos, nonRMonos []Monomial
	var cofactors []Monomial
	for _, m := range p.monos {
		if m.contains(r) {
			rMonos = append(rMonos, m)
			cofactors = append(cofactors, m.without(Monomial{r}))
		} else {
			nonRMonos = append(nonRMonos, m)
		}
	}
	if len(rMonos) == 0 {
		return Polynomial{}, false
	}

	// S_k = { m in nonRMonos : cofactors[k] subset of m }
	var inter []Monomial
	for k, c := range cofactors {
		var s []Monomial
		for _, m := range nonRMonos {
			if c.subsetOf(m) {
				s = append(s, m)
			}
		}
		if k == 0 {
			inter = s
			continue
		}
		inter = intersectMonomials(inter, s)
		if len(inter) == 0 {
			return Polynomial{}, false
		}
	}
	if len(inter) == 0 {
		return Polynomial{}, false
	}

	kept := make([]Monomial, 0, len(p.monos))
	for _, m := range p.monos {
		if containsMonomial(rMonos, m) || containsMonomial(inter, m) {
			continue
		}
		kept = append(kept, m)
	}
	sort.Slice(kept, func(i, j int) bool { return compareMonomials(kept[i], kept[j]) < 0 })
	return fromMonomials(kept), true
}

func containsMonomial(set []Monomial, m Monomial) bool {
	for _, x := range set {
		if x.equal(m) {
			return true
		}
	}
	return false
}

func intersectMonomials(a, b []Monomial) []Monomial {
	var out []Monomial
	for _, m := range a {
		if containsMonomial(b, m) {
			out = append(out, m)
		}
	}
	return out
}

// String renders a canonical serialization ("r0_ + a0*b0": shorter
// monomials first, in compareMonomials order) used only for
// diagnostics and failure-witness printing (spec.md §4.1) — never on the
// evaluation hot path.
func (p Polynomial) String(u *Universe) string {
	if p.IsZero() {
		return "0"
	}
	parts := make([]string, 0, len(p.monos))
	for _, m := range p.monos {
		if len(m) == 0 {
			parts = append(parts, "1")
			continue
		}
		names := make([]string, len(m))
		for i, v := range m {
			names[i] = u.Name(v)
		}
		parts = append(parts, strings.Join(names, "*"))
	}
	return strings.Join(parts, " + ")
}

// key renders a monomial to a comparable/sortable string of its
// comma-separated variable ids. Nothing in the package calls it.
func (m Monomial) key() string {
	b := strings.Builder{}
	for i, v := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(v)))
	}
	return b.String()
}
