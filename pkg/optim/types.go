package optim

import (
	"github.com/dshills/venuecore/pkg/coreerr"
	"github.com/dshills/venuecore/pkg/prng"
)

// InputError is returned when an optimizer input is malformed: an empty
// initial state or population, a non-positive sample, generation or
// evaluation count, non-positive RBM layer sizes, or a training batch
// whose samples do not match the visible-unit count (spec.md §7).
type InputError = coreerr.FieldError

// Vector is a dense parameter vector, the common state representation
// across CMA-ES, NSGA-II, and the MCMC samplers.
type Vector []float64

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// EnergyFunc scores a candidate state; lower is better everywhere in
// this package (CMA-ES minimizes it, MCMC/HMC samples proportional to
// exp(-E/T)).
type EnergyFunc func(Vector) float64

// ObjectiveFunc scores a candidate on multiple competing objectives for
// NSGA-II; lower is better on every dimension.
type ObjectiveFunc func(Vector) []float64

// ProposalFunc draws a neighboring state from current using rng for any
// randomness it needs.
type ProposalFunc func(current Vector, rng *prng.Source) Vector

// Bounds constrains each dimension of a Vector to [Min[i], Max[i]].
// A nil Bounds means unconstrained.
type Bounds struct {
	Min, Max Vector
}

// clamp reflects (reflect=true) or clamps x into the bounds in place; a
// reflected value still out of range is then clamped.
func (b *Bounds) clamp(x Vector, reflect bool) {
	if b == nil {
		return
	}
	for i := range x {
		lo, hi := b.Min[i], b.Max[i]
		if x[i] < lo {
			if reflect {
				x[i] = lo + (lo - x[i])
			} else {
				x[i] = lo
			}
		}
		if x[i] > hi {
			if reflect {
				x[i] = hi - (x[i] - hi)
			} else {
				x[i] = hi
			}
		}
		if x[i] < lo {
			x[i] = lo
		}
		if x[i] > hi {
			x[i] = hi
		}
	}
}
