package transport

import (
	"math"

	"github.com/dshills/venuecore/pkg/mathutil"
)

// Sinkhorn solves the entropically regularized OT problem via the
// multiplicative scaling iteration (spec.md §4.2 "Sinkhorn
// (multiplicative)"): build the Gibbs kernel K_ij = exp(-C_ij/eps), then
// alternate u <- a / (K v), v <- b / (K^T u), checking marginal error
// every cfg.CheckEvery iterations.
func Sinkhorn(a, b Distribution, c *CostMatrix, cfg SinkhornConfig) (Result, error) {
	if err := validateMarginals(a, b, c); err != nil {
		return Result{}, err
	}
	n, m := len(a), len(b)
	eps := cfg.Epsilon

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
			u[i] = a[i] / mathutil.ClampDenom(kv[i])
		}
		ktu := matVecT(k, n, m, u)
		for j := range v {
			v[j] = b[j] / mathutil.ClampDenom(ktu[j])
		}

		if (iter+1)%checkEvery == 0 {
			kv2 := matVec(k, n, m, v)
			maxErr := 0.0
			for i := range u {
				err := math.Abs(u[i]*kv2[i] - a[i])
				if err > maxErr {
					maxErr = err
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

// SinkhornLog solves the same problem in the dual/log domain (spec.md
// §4.2 "Log-domain Sinkhorn"), which stays numerically stable when eps
// is small enough that exp(-C/eps) would underflow.
func SinkhornLog(a, b Distribution, c *CostMatrix, cfg SinkhornConfig) (Result, error) {
	if err := validateMarginals(a, b, c); err != nil {
		return Result{}, err
	}
	n, m := len(a), len(b)
	eps := cfg.Epsilon

	f := make([]float64, n)
	g := make([]float64, m)
	logA := make([]float64, n)
	logB := make([]float64, m)
	for i, v := range a {
		logA[i] = mathutil.SafeLog(v)
	}
	for j, v := range b {
		logB[j] = mathutil.SafeLog(v)
	}

	checkEvery := cfg.CheckEvery
	if checkEvery <= 0 {
		checkEvery = 5
	}

	converged := false
	iter := 0
	row := make([]float64, m)
	col := make([]float64, n)

	for ; iter < cfg.MaxIter; iter++ {
		for i := 0; i < n; i++ {
			for j := 0; j < m; j++ {
				row[j] = (g[j] - c.At(i, j)) / eps
			}
			f[i] = -eps*mathutil.LogSumExp(row) + eps*logA[i]
		}
		for j := 0; j < m; j++ {
			for i := 0; i < n; i++ {
				col[i] = (f[i] - c.At(i, j)) / eps
			}
			g[j] = -eps*mathutil.LogSumExp(col) + eps*logB[j]
		}

		if (iter+1)%checkEvery == 0 {
			maxErr := 0.0
			for i := 0; i < n; i++ {
				rowSum := 0.0
				for j := 0; j < m; j++ {
					rowSum += math.Exp((f[i] + g[j] - c.At(i, j)) / eps)
				}
				e := math.Abs(rowSum - a[i])
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
			val := math.Exp((f[i] + g[j] - c.At(i, j)) / eps)
			if val < 0 {
				val = 0
			}
			plan.Data[i*m+j] = val
		}
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

func uniformDist(n int) Distribution {
	d := make(Distribution, n)
	for i := range d {
		d[i] = 1.0 / float64(n)
	}
	return d
}

func onesVec(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

func matVec(k []float64, n, m int, v []float64) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		s := 0.0
		row := k[i*m : i*m+m]
		for j := 0; j < m; j++ {
			s += row[j] * v[j]
		}
		out[i] = s
	}
	return out
}

func matVecT(k []float64, n, m int, u []float64) []float64 {
	out := make([]float64, m)
	for i := 0; i < n; i++ {
		row := k[i*m : i*m+m]
		ui := u[i]
		for j := 0; j < m; j++ {
			out[j] += row[j] * ui
		}
	}
	return out
}
