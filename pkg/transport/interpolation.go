package transport

import (
	"math"

	"github.com/dshills/venuecore/pkg/coreerr"
)

// LayoutItem is the minimal positional/rotational state of one placed
// object, used as the endpoint of a displacement interpolation.
type LayoutItem struct {
	X, Z     float64
	Rotation float64 // radians
	Kind     string
}

// InterpolatedItem is one rendered frame's worth of state for a single
// item: its blended position/rotation, fade opacity, and the kind it
// should display (which can swap mid-transition).
type InterpolatedItem struct {
	X, Z     float64
	Rotation float64
	Opacity  float64
	Kind     string
}

const displacementEpsilon = 10.0

// DisplacementInterpolation computes the frame at parameter t in [0,1]
// of a transition from layout A to layout B (spec.md §4.2 "Displacement
// interpolation"), given a transport plan between them (as built by
// [GenerateTransitionKeyframes]: squared-Euclidean position cost, uniform
// marginals, epsilon=10). Each A item is matched to the argmax column of
// its plan row when that entry is positive; several A items may match
// the same B item. Matched pairs linearly blend position and shortest-arc-interpolate
// rotation; unmatched A items fade out, unmatched B items fade in; the
// displayed kind swaps at t=0.5.
func DisplacementInterpolation(a, b []LayoutItem, plan *Plan, t float64) ([]InterpolatedItem, error) {
	if plan == nil || plan.Rows != len(a) || plan.Cols != len(b) {
		return nil, coreerr.NewFieldError("plan", "dimensions must match len(a) x len(b)")
	}
	if t < 0 || t > 1 {
		return nil, coreerr.NewFieldError("t", "must lie in [0,1]")
	}

	matchA := make([]int, len(a)) // index into b, or -1
	matchB := make([]bool, len(b))
	for i := range matchA {
		matchA[i] = -1
	}
	for i := 0; i < len(a); i++ {
		best := -1
		bestVal := -1.0
		for j := 0; j < len(b); j++ {
			v := plan.At(i, j)
			if v > bestVal {
				bestVal = v
				best = j
			}
		}
		if best >= 0 && bestVal > 0 {
			matchA[i] = best
			matchB[best] = true
		}
	}

	out := make([]InterpolatedItem, 0, len(a)+len(b))
	for i, item := range a {
		if j := matchA[i]; j >= 0 {
			other := b[j]
			kind := item.Kind
			if t >= 0.5 {
				kind = other.Kind
			}
			out = append(out, InterpolatedItem{
				X:        item.X + t*(other.X-item.X),
				Z:        item.Z + t*(other.Z-item.Z),
				Rotation: shortestArcInterpolate(item.Rotation, other.Rotation, t),
				Opacity:  1,
				Kind:     kind,
			})
		} else {
			out = append(out, InterpolatedItem{X: item.X, Z: item.Z, Rotation: item.Rotation, Opacity: 1 - t, Kind: item.Kind})
		}
	}
	for j, item := range b {
		if !matchB[j] {
			out = append(out, InterpolatedItem{X: item.X, Z: item.Z, Rotation: item.Rotation, Opacity: t, Kind: item.Kind})
		}
	}
	return out, nil
}

// GenerateTransitionKeyframes returns n+1 frames at t = k/n, k=0..n
// (spec.md §4.2).
func GenerateTransitionKeyframes(a, b []LayoutItem, n int) ([][]InterpolatedItem, error) {
	if n <= 0 {
		return nil, coreerr.NewFieldError("n", "must be positive")
	}
	c := NewCostMatrix(len(a), len(b))
	for i, ai := range a {
		for j, bj := range b {
			dx, dz := ai.X-bj.X, ai.Z-bj.Z
			c.Set(i, j, dx*dx+dz*dz)
		}
	}
	cfg := DefaultSinkhornConfig()
	cfg.Epsilon = displacementEpsilon
	res, err := Sinkhorn(uniformDist(len(a)), uniformDist(len(b)), c, cfg)
	if err != nil {
		return nil, err
	}

	frames := make([][]InterpolatedItem, n+1)
	for k := 0; k <= n; k++ {
		t := float64(k) / float64(n)
		frame, err := DisplacementInterpolation(a, b, res.Plan, t)
		if err != nil {
			return nil, err
		}
		frames[k] = frame
	}
	return frames, nil
}

func shortestArcInterpolate(from, to, t float64) float64 {
	delta := math.Mod(to-from+math.Pi, 2*math.Pi) - math.Pi
	if delta < -math.Pi {
		delta += 2 * math.Pi
	}
	return from + delta*t
}
