package optim

import (
	"math"
	"testing"
)

func TestSampleHMC_ConcentratesNearMinimum(t *testing.T) {
	cfg := DefaultHMCConfig()
	cfg.Seed = 21
	cfg.Samples = 500
	cfg.BurnIn = 100
	cfg.StepSize = 0.1
	cfg.LeapfrogSteps = 10

	res, err := SampleHMC(Vector{3}, cfg, gaussianEnergy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Samples) != cfg.Samples {
		t.Fatalf("expected %d samples, got %d", cfg.Samples, len(res.Samples))
	}
	mean := 0.0
	for _, s := range res.Samples {
		mean += s[0]
	}
	mean /= float64(len(res.Samples))
	if math.Abs(mean) > 1.5 {
		t.Fatalf("expected samples to concentrate near 0, got mean %v", mean)
	}
}

func TestSampleHMC_Deterministic(t *testing.T) {
	cfg := DefaultHMCConfig()
	cfg.Seed = 8
	cfg.Samples = 50
	cfg.BurnIn = 10

	r1, err1 := SampleHMC(Vector{1}, cfg, gaussianEnergy)
	r2, err2 := SampleHMC(Vector{1}, cfg, gaussianEnergy)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v / %v", err1, err2)
	}
	for i := range r1.Samples {
		if r1.Samples[i][0] != r2.Samples[i][0] {
			t.Fatalf("sample %d diverged: %v vs %v", i, r1.Samples[i][0], r2.Samples[i][0])
		}
	}
}

func TestCentralGradient_MatchesAnalytic(t *testing.T) {
	grad := centralGradient(gaussianEnergy, Vector{2, -3}, 1e-5)
	if math.Abs(grad[0]-2) > 1e-3 {
		t.Fatalf("expected gradient[0] ~ 2, got %v", grad[0])
	}
	if math.Abs(grad[1]+3) > 1e-3 {
		t.Fatalf("expected gradient[1] ~ -3, got %v", grad[1])
	}
}
