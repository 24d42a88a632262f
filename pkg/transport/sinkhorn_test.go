package transport

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func identityCost(n int) *CostMatrix {
	c := NewCostMatrix(n, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				c.Set(i, j, 1)
			}
		}
	}
	return c
}

func TestSinkhorn_2x2Identity(t *testing.T) {
	a := Distribution{0.5, 0.5}
	b := Distribution{0.5, 0.5}
	c := identityCost(2)
	cfg := DefaultSinkhornConfig()

	res, err := Sinkhorn(a, b, c, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Converged {
		t.Fatalf("expected convergence, got %d iterations", res.Iterations)
	}
	// Identity cost with equal marginals favors the diagonal.
	if res.Plan.At(0, 0) < res.Plan.At(0, 1) {
		t.Fatalf("expected diagonal-dominant plan, got %+v", res.Plan.Data)
	}
}

func TestSinkhorn_3x3Uniform(t *testing.T) {
	a := uniformDist(3)
	b := uniformDist(3)
	c := NewCostMatrix(3, 3) // all zero cost
	cfg := DefaultSinkhornConfig()

	res, err := Sinkhorn(a, b, c, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(res.Plan.At(i, j)-1.0/9.0) > 1e-4 {
				t.Fatalf("expected uniform plan with zero cost, got %+v", res.Plan.Data)
			}
		}
	}
}

func TestSinkhorn_RejectsMismatchedDims(t *testing.T) {
	a := Distribution{1}
	b := Distribution{0.5, 0.5}
	c := NewCostMatrix(1, 1)
	_, err := Sinkhorn(a, b, c, DefaultSinkhornConfig())
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestSinkhorn_RejectsNegativeCost(t *testing.T) {
	a := Distribution{0.5, 0.5}
	b := Distribution{0.5, 0.5}
	c := NewCostMatrix(2, 2)
	c.Set(0, 0, -1)
	_, err := Sinkhorn(a, b, c, DefaultSinkhornConfig())
	if err == nil {
		t.Fatal("expected negative cost error")
	}
}

func TestSinkhornLog_MatchesMultiplicative(t *testing.T) {
	a := Distribution{0.2, 0.3, 0.5}
	b := Distribution{0.4, 0.1, 0.5}
	c := NewCostMatrix(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.Set(i, j, float64((i-j)*(i-j)))
		}
	}
	cfg := DefaultSinkhornConfig()
	cfg.MaxIter = 500

	r1, err := Sinkhorn(a, b, c, cfg)
	if err != nil {
		t.Fatalf("multiplicative error: %v", err)
	}
	r2, err := SinkhornLog(a, b, c, cfg)
	if err != nil {
		t.Fatalf("log-domain error: %v", err)
	}
	if math.Abs(r1.Cost-r2.Cost) > 1e-3 {
		t.Fatalf("cost mismatch between variants: %v vs %v", r1.Cost, r2.Cost)
	}
}

// TestProperty_PlanMarginals exercises spec.md §8 invariant 2: recovered
// plan row/col sums converge to the input marginals.
func TestProperty_PlanMarginals(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 5).Draw(rt, "n")
		m := rapid.IntRange(2, 5).Draw(rt, "m")

		a := make(Distribution, n)
		sumA := 0.0
		for i := range a {
			a[i] = rapid.Float64Range(0.01, 1).Draw(rt, "a")
			sumA += a[i]
		}
		for i := range a {
			a[i] /= sumA
		}
		b := make(Distribution, m)
		sumB := 0.0
		for j := range b {
			b[j] = rapid.Float64Range(0.01, 1).Draw(rt, "b")
			sumB += b[j]
		}
		for j := range b {
			b[j] /= sumB
		}

		c := NewCostMatrix(n, m)
		for i := 0; i < n; i++ {
			for j := 0; j < m; j++ {
				c.Set(i, j, rapid.Float64Range(0, 5).Draw(rt, "c"))
			}
		}

		cfg := DefaultSinkhornConfig()
		cfg.MaxIter = 1000
		res, err := Sinkhorn(a, b, c, cfg)
		if err != nil {
			rt.Fatalf("unexpected error: %v", err)
		}
		if !res.Converged {
			return // not all random instances converge in the iteration budget
		}
		for i := 0; i < n; i++ {
			if math.Abs(res.Plan.RowSum(i)-a[i]) > 1e-2 {
				rt.Fatalf("row %d marginal mismatch: got %v want %v", i, res.Plan.RowSum(i), a[i])
			}
		}
		for j := 0; j < m; j++ {
			if math.Abs(res.Plan.ColSum(j)-b[j]) > 1e-2 {
				rt.Fatalf("col %d marginal mismatch: got %v want %v", j, res.Plan.ColSum(j), b[j])
			}
		}
		for _, v := range res.Plan.Data {
			if v < 0 {
				rt.Fatalf("negative plan entry: %v", v)
			}
		}
	})
}
