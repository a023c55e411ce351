package enum

import "github.com/cryptoexperts/vraps-go/internal/wire"

// combinationCursor walks the C(n, size) combinations of a probeable index
// set in lexicographic order, one at a time, reusing a single scratch
// buffer for the "current positions" state (the same scratch-buffer reuse
// the teacher's ObjectPool applies in bbs/pool.go, applied here to
// combination positions instead of curve points — spec.md §5 calls for batch-level generation "with no allocation
// per combination").
type combinationCursor struct {
	universe []wire.Index
	size     int
	pos      []int
	started  bool
	done     bool
}

// Subsets materializes every size-element combination of universe. Unlike
// the batched cursor above, callers use this only for small sets — the
// output-share selections RPC/RPE1/RPE2 iterate over in their outer loop
// (spec.md §4.6), never the full probeable wire set.
func Subsets(universe []wire.Index, size int) [][]wire.Index {
	cur := newCombinationCursor(universe, size)
	var out [][]wire.Index
	combo := make([]wire.Index, size)
	for cur.next(combo) {
		out = append(out, append([]wire.Index(nil), combo...))
	}
	return out
}

func newCombinationCursor(universe []wire.Index, size int) *combinationCursor {
	if size <= 0 || size > len(universe) {
		return &combinationCursor{done: true}
	}
	pos := make([]int, size)
	for i := range pos {
		pos[i] = i
	}
	return &combinationCursor{universe: universe, size: size, pos: pos}
}

// next writes the current combination into dst (which must have length
// size) and advances the cursor. It returns false once combinations are
// exhausted.
func (c *combinationCursor) next(dst []wire.Index) bool {
	if c.done {
		return false
	}
	if !c.started {
		c.started = true
	} else if !c.advance() {
		c.done = true
		return false
	}
	for i, p := range c.pos {
		dst[i] = c.universe[p]
	}
	return true
}

// advance moves pos to the next lexicographic combination of indices into
// universe, returning false once pos is already the last combination.
func (c *combinationCursor) advance() bool {
	n := len(c.universe)
	k := c.size
	i := k - 1
	for i >= 0 && c.pos[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	c.pos[i]++
	for j := i + 1; j < k; j++ {
		c.pos[j] = c.pos[j-1] + 1
	}
	return true
}
