package transport

import (
	"math"

	"github.com/dshills/venuecore/pkg/mathutil"
)

// UnbalancedSinkhorn solves the unbalanced OT problem, allowing mass
// creation/destruction penalized by marginal relaxation parameter rho
// (spec.md §4.2 "Unbalanced Sinkhorn"). It replaces the divisive Sinkhorn
// updates with u <- (a/Kv)^tau, v <- (b/K^T u)^tau where
// tau = rho/(rho+eps); large rho recovers balanced OT, small rho allows
// marginals to be violated.
func UnbalancedSinkhorn(a, b Distribution, c *CostMatrix, eps, rho float64, cfg SinkhornConfig) (Result, error) {
	if err := validateMarginals(a, b, c); err != nil {
		return Result{}, err
	}
	n, m := len(a), len(b)
	tau := rho / (rho + eps)

	k := make([]float64, n*m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			k[i*m+j] = mathutil.SafeExp(-c.At(i, j) / eps)
		}
	}

	u := onesVec(n)
	v := onesVec(m)
	checkEvery := cfg.CheckEvery
	if checkEvery <= 0 {
		checkEvery = 5
	}

	converged := false
	iter := 0
	for ; iter < cfg.MaxIter; iter++ {
		kv := matVec(k, n, m, v)
		for i := range u {
			ratio := a[i] / mathutil.ClampDenom(kv[i])
			u[i] = math.Pow(ratio, tau)
		}
		ktu := matVecT(k, n, m, u)
		for j := range v {
			ratio := b[j] / mathutil.ClampDenom(ktu[j])
			v[j] = math.Pow(ratio, tau)
		}

		if (iter+1)%checkEvery == 0 {
			kv2 := matVec(k, n, m, v)
			maxErr := 0.0
			for i := range u {
				rowMass := u[i] * kv2[i]
				e := math.Abs(rowMass - a[i])
				if e > maxErr {
					maxErr = e
				}
			}
			if maxErr < cfg.Tolerance {
				converged = true
				iter++
				break
			}
		}
	}

	plan := &Plan{Rows: n, Cols: m, Data: make([]float64, n*m)}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			val := u[i] * k[i*m+j] * v[j]
			if val < 0 {
				val = 0
			}
			plan.Data[i*m+j] = val
		}
	}

	f := make([]float64, n)
	g := make([]float64, m)
	for i := range f {
		f[i] = eps * mathutil.SafeLog(u[i])
	}
	for j := range g {
		g[j] = eps * mathutil.SafeLog(v[j])
	}

	return Result{
		Plan:       plan,
		Cost:       plan.Cost(c),
		F:          f,
		G:          g,
		Iterations: iter,
		Converged:  converged,
	}, nil
}
