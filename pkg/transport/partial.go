package transport

import (
	"math"

	"github.com/dshills/venuecore/pkg/coreerr"
	"github.com/dshills/venuecore/pkg/mathutil"
)

// PartialSinkhorn solves the partial transport problem: only m units of
// mass need be moved, rather than the full min(sum(a), sum(b)) (spec.md
// §4.2 "Partial Sinkhorn"). It augments the cost matrix with a dummy row
// and column at cost maxC*2 that absorbs the unmatched mass, prices the
// dummy-to-dummy corner above two slack moves so the dummy mass cannot
// pair with itself, runs the balanced log-domain solver [SinkhornLog] on
// the (N+1)x(M+1) problem (the multiplicative kernel would floor the
// slack entries at small eps), and returns the top-left N x M sub-plan.
func PartialSinkhorn(a, b Distribution, c *CostMatrix, m float64, cfg SinkhornConfig) (Result, error) {
	if err := validateMarginals(a, b, c); err != nil {
		return Result{}, err
	}
	totalA, totalB := mathutil.Sum(a), mathutil.Sum(b)
	if m < 0 || m > math.Min(totalA, totalB)+1e-9 {
		return Result{}, coreerr.NewFieldError("m", "must lie in [0, min(sum(a), sum(b))]")
	}
	n, mm := c.Rows, c.Cols

	maxC := 0.0
	for _, v := range c.Data {
		if v > maxC {
			maxC = v
		}
	}
	dummyCost := maxC*2 + 1e-9

	aug := NewCostMatrix(n+1, mm+1)
	for i := 0; i < n; i++ {
		for j := 0; j < mm; j++ {
			aug.Set(i, j, c.At(i, j))
		}
		aug.Set(i, mm, dummyCost)
	}
	for j := 0; j < mm; j++ {
		aug.Set(n, j, dummyCost)
	}
	aug.Set(n, mm, 4*dummyCost)

	augA := make(Distribution, n+1)
	copy(augA, a)
	augA[n] = math.Max(totalB-m, 0)

	augB := make(Distribution, mm+1)
	copy(augB, b)
	augB[mm] = math.Max(totalA-m, 0)

	// Renormalize so both augmented marginals carry equal total mass,
	// as required by the balanced Sinkhorn solver underneath.
	sumA := mathutil.Sum(augA)
	sumB := mathutil.Sum(augB)
	if sumA > 0 {
		for i := range augA {
			augA[i] /= sumA
		}
	}
	if sumB > 0 {
		for j := range augB {
			augB[j] /= sumB
		}
	}

	res, err := SinkhornLog(augA, augB, aug, cfg)
	if err != nil {
		return Result{}, err
	}

	subPlan := &Plan{Rows: n, Cols: mm, Data: make([]float64, n*mm)}
	for i := 0; i < n; i++ {
		for j := 0; j < mm; j++ {
			subPlan.Data[i*mm+j] = res.Plan.At(i, j) * sumA
		}
	}

	return Result{
		Plan:       subPlan,
		Cost:       subPlan.Cost(c),
		F:          res.F[:n],
		G:          res.G[:mm],
		Iterations: res.Iterations,
		Converged:  res.Converged,
	}, nil
}
