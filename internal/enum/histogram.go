package enum

// Histogram is the coefficient array c[] of spec.md §3/§4.7: c[i] counts
// failing tuples whose total occurrence-weight sums to i.
type Histogram []int64

// Grow extends h so index i is addressable, zero-filling the new tail.
func (h *Histogram) Grow(i int) {
	if i < len(*h) {
		return
	}
	grown := make(Histogram, i+1)
	copy(grown, *h)
	*h = grown
}

// UpdateCoeff implements spec.md §4.7's occurrence-weighted convolution: a
// failing tuple with per-wire occurrence counts occs contributes
// prod(occs) to c[sum(occs)]. occs must already reflect the copy-wire
// pre-expansion (2*nb_occ-1) applied once at parse time by internal/circuit
// — this function performs no further adjustment.
func UpdateCoeff(h *Histogram, occs []int) {
	sum := 0
	weight := int64(1)
	for _, o := range occs {
		sum += o
		weight *= int64(o)
	}
	h.Grow(sum)
	(*h)[sum] += weight
}

// Max returns the coefficient-wise maximum of a and b, the accumulation
// rule RPC/RPE use across output-share selections (spec.md §4.6).
func Max(a, b Histogram) Histogram {
	return combine(a, b, func(va, vb int64) int64 {
		if va > vb {
			return va
		}
		return vb
	})
}

func combine(a, b Histogram, pick func(va, vb int64) int64) Histogram {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	if n == 0 {
		return nil
	}
	out := make(Histogram, n)
	for i := 0; i < n; i++ {
		var va, vb int64
		if i < len(a) {
			va = a[i]
		}
		if i < len(b) {
			vb = b[i]
		}
		out[i] = pick(va, vb)
	}
	return out
}
