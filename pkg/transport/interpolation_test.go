package transport

import (
	"math"
	"testing"
)

func TestGenerateTransitionKeyframes_EndpointsMatchInputs(t *testing.T) {
	a := []LayoutItem{{X: 0, Z: 0, Kind: "chair"}, {X: 5, Z: 0, Kind: "table"}}
	b := []LayoutItem{{X: 1, Z: 1, Kind: "chair"}}

	frames, err := GenerateTransitionKeyframes(a, b, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(frames))
	}

	first := frames[0]
	for _, item := range first {
		if item.Opacity != 1 && item.Opacity != 0 {
			t.Fatalf("expected opacity 0 or 1 at t=0, got %v", item.Opacity)
		}
	}
	last := frames[4]
	for _, item := range last {
		if math.Abs(item.Opacity) > 1e-9 && math.Abs(item.Opacity-1) > 1e-9 {
			t.Fatalf("expected opacity 0 or 1 at t=1, got %v", item.Opacity)
		}
	}
}

func TestShortestArcInterpolate_WrapsCorrectly(t *testing.T) {
	// From just below 2pi to just above 0 should move forward through
	// zero, not the long way around.
	from := 2*math.Pi - 0.1
	to := 0.1
	mid := shortestArcInterpolate(from, to, 0.5)
	// The wrapped midpoint should be near 0 (mod 2pi), not near pi.
	normalized := math.Mod(mid+2*math.Pi, 2*math.Pi)
	if normalized > math.Pi/2 && normalized < 3*math.Pi/2 {
		t.Fatalf("expected short-arc interpolation near 0, got normalized=%v", normalized)
	}
}

func TestDisplacementInterpolation_RejectsMismatchedPlan(t *testing.T) {
	a := []LayoutItem{{X: 0, Z: 0}}
	b := []LayoutItem{{X: 1, Z: 1}, {X: 2, Z: 2}}
	plan := &Plan{Rows: 1, Cols: 1, Data: []float64{1}}
	if _, err := DisplacementInterpolation(a, b, plan, 0.5); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}
