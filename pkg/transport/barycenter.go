package transport

import (
	"github.com/dshills/venuecore/pkg/coreerr"
	"github.com/dshills/venuecore/pkg/mathutil"
)

// BarycenterConfig configures [FixedSupportBarycenter].
type BarycenterConfig struct {
	Epsilon   float64 `yaml:"epsilon" json:"epsilon"`
	MaxIter   int     `yaml:"maxIter" json:"maxIter"`
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
}

// DefaultBarycenterConfig returns the defaults named in spec.md §4.2.
func DefaultBarycenterConfig() BarycenterConfig {
	return BarycenterConfig{Epsilon: 0.01, MaxIter: 200, Tolerance: 1e-8}
}

// FixedSupportBarycenter computes the entropic Wasserstein barycenter of
// dists (each a distribution over the shared n-point support indexed by
// c's rows/cols) with weights lambda, via iterated Bregman projection
// (spec.md §4.2 "Fixed-support barycenter (IBP)"). lambda need not sum
// to 1; it is renormalized internally.
func FixedSupportBarycenter(dists []Distribution, c *CostMatrix, lambda []float64, cfg BarycenterConfig) (Distribution, error) {
	if len(dists) == 0 {
		return nil, coreerr.NewFieldError("dists", "must be non-empty")
	}
	if len(dists) != len(lambda) {
		return nil, coreerr.NewFieldError("lambda", "must have one weight per distribution")
	}
	n := c.Rows
	if c.Cols != n {
		return nil, coreerr.NewFieldError("cost", "must be square for a shared-support barycenter")
	}
	for i, d := range dists {
		if len(d) != n {
			return nil, coreerr.NewFieldError("dists", "every distribution must match the cost matrix support size")
		}
		_ = i
	}

	lambdaSum := mathutil.Sum(lambda)
	if lambdaSum <= 0 {
		lambdaSum = 1
	}
	w := make([]float64, len(lambda))
	for i, l := range lambda {
		w[i] = l / lambdaSum
	}

	eps := cfg.Epsilon
	k := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			k[i*n+j] = mathutil.SafeExp(-c.At(i, j) / eps)
		}
	}

	v := make([][]float64, len(dists))
	for i := range v {
		v[i] = onesVec(n)
	}
	bary := uniformDist(n)

	for iter := 0; iter < cfg.MaxIter; iter++ {
		logBary := make([]float64, n)
		kvAll := make([][]float64, len(dists))

		for idx, d := range dists {
			kv := matVec(k, n, n, v[idx])
			kvAll[idx] = kv
			u := make([]float64, n)
			for i := range u {
				u[i] = bary[i] / mathutil.ClampDenom(kv[i])
			}
			ktu := matVecT(k, n, n, u)
			for j := range v[idx] {
				v[idx][j] = d[j] / mathutil.ClampDenom(ktu[j])
			}
		}

		for idx := range dists {
			kv := matVec(k, n, n, v[idx])
			for i := 0; i < n; i++ {
				logBary[i] += w[idx] * mathutil.SafeLog(mathutil.ClampDenom(kv[i]))
			}
		}

		newBary := make(Distribution, n)
		for i := range newBary {
			newBary[i] = mathutil.SafeExp(logBary[i])
		}
		sum := mathutil.Sum(newBary)
		if sum > 0 {
			for i := range newBary {
				newBary[i] /= sum
			}
		}

		diff := 0.0
		for i := range newBary {
			d := newBary[i] - bary[i]
			if d < 0 {
				d = -d
			}
			diff += d
		}
		bary = newBary
		if diff < cfg.Tolerance {
			break
		}
	}

	return bary, nil
}
