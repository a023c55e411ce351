// Package filter implements the Incompressibility Filter (spec.md §4.4): a
// running set of bit signatures belonging to failures found at a smaller
// probing order, used to prune supersets of them out of later enumeration
// without re-running the rule engine on them.
//
// A t'-tuple that is a strict superset of an already-incompressible
// (t<t')-tuple can never itself be a *new* incompressible failure: whatever
// the smaller tuple leaks, the larger one leaks too, by monotonicity of
// wire disclosure under set union (spec.md §4.4).
package filter

import "github.com/cryptoexperts/vraps-go/internal/wire"

// Set holds the incompressible failure signatures accumulated so far.
type Set struct {
	sigs []wire.Signature
}

// New returns an empty incompressibility filter.
func New() *Set {
	return &Set{}
}

// Add records sig as an incompressible failure signature.
func (s *Set) Add(sig wire.Signature) {
	s.sigs = append(s.sigs, sig)
}

// Len reports how many signatures are currently tracked.
func (s *Set) Len() int { return len(s.sigs) }

// Prunable reports whether sig is a superset of some previously recorded
// incompressible signature, i.e. whether the tuple it represents can be
// skipped without running the rule engine on it (spec.md §4.4: "prunable
// iff exists p in P with (p & s) == p").
func (s *Set) Prunable(sig wire.Signature) bool {
	for _, p := range s.sigs {
		if p.IsSubsetOf(sig) {
			return true
		}
	}
	return false
}
