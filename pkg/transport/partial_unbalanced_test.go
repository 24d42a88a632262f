package transport

import (
	"math"
	"testing"
)

func TestPartialSinkhorn_SubPlanMassAtMostM(t *testing.T) {
	a := Distribution{0.5, 0.5}
	b := Distribution{0.5, 0.5}
	c := identityCost(2)
	res, err := PartialSinkhorn(a, b, c, 0.5, DefaultSinkhornConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	total := 0.0
	for _, v := range res.Plan.Data {
		if v < -1e-9 {
			t.Fatalf("negative sub-plan entry: %v", v)
		}
		total += v
	}
	if total > 0.5+0.05 {
		t.Fatalf("expected sub-plan mass <= m=0.5, got %v", total)
	}
}

func TestPartialSinkhorn_RejectsOutOfRangeM(t *testing.T) {
	a := Distribution{0.5, 0.5}
	b := Distribution{0.5, 0.5}
	c := identityCost(2)
	if _, err := PartialSinkhorn(a, b, c, 5, DefaultSinkhornConfig()); err == nil {
		t.Fatal("expected error for m exceeding min(sum(a), sum(b))")
	}
	if _, err := PartialSinkhorn(a, b, c, -1, DefaultSinkhornConfig()); err == nil {
		t.Fatal("expected error for negative m")
	}
}

func TestUnbalancedSinkhorn_LargeRhoApproximatesBalanced(t *testing.T) {
	a := Distribution{0.3, 0.7}
	b := Distribution{0.6, 0.4}
	c := identityCost(2)
	cfg := DefaultSinkhornConfig()
	cfg.MaxIter = 500

	balanced, err := Sinkhorn(a, b, c, cfg)
	if err != nil {
		t.Fatalf("balanced error: %v", err)
	}
	unbalanced, err := UnbalancedSinkhorn(a, b, c, cfg.Epsilon, 1e6, cfg)
	if err != nil {
		t.Fatalf("unbalanced error: %v", err)
	}
	if math.Abs(balanced.Cost-unbalanced.Cost) > 0.05 {
		t.Fatalf("expected large rho to approximate balanced cost: %v vs %v", balanced.Cost, unbalanced.Cost)
	}
}

func TestUnbalancedSinkhorn_NonNegativePlan(t *testing.T) {
	a := Distribution{0.3, 0.7}
	b := Distribution{0.6, 0.4}
	c := identityCost(2)
	res, err := UnbalancedSinkhorn(a, b, c, 0.05, 0.1, DefaultSinkhornConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range res.Plan.Data {
		if v < 0 {
			t.Fatalf("negative plan entry: %v", v)
		}
	}
}
