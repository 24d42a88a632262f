package transport

import (
	"math"
	"testing"
)

func TestFixedSupportBarycenter_OfIdenticalDistsIsItself(t *testing.T) {
	d := Distribution{0.2, 0.3, 0.5}
	c := NewCostMatrix(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.Set(i, j, float64((i-j)*(i-j)))
		}
	}
	bary, err := FixedSupportBarycenter([]Distribution{d, d, d}, c, []float64{1, 1, 1}, DefaultBarycenterConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range d {
		if math.Abs(bary[i]-d[i]) > 0.05 {
			t.Fatalf("barycenter of identical distributions should match input: %v vs %v", bary, d)
		}
	}
}

func TestFixedSupportBarycenter_SumsToOne(t *testing.T) {
	a := Distribution{1, 0, 0}
	b := Distribution{0, 0, 1}
	c := NewCostMatrix(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c.Set(i, j, float64((i-j)*(i-j)))
		}
	}
	bary, err := FixedSupportBarycenter([]Distribution{a, b}, c, []float64{0.5, 0.5}, DefaultBarycenterConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := 0.0
	for _, v := range bary {
		if v < 0 {
			t.Fatalf("negative barycenter entry: %v", v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-3 {
		t.Fatalf("expected barycenter to sum to 1, got %v", sum)
	}
}

func TestFixedSupportBarycenter_RejectsMismatchedLambda(t *testing.T) {
	d := Distribution{1, 0}
	c := NewCostMatrix(2, 2)
	_, err := FixedSupportBarycenter([]Distribution{d}, c, []float64{1, 1}, DefaultBarycenterConfig())
	if err == nil {
		t.Fatal("expected error for mismatched lambda length")
	}
}
