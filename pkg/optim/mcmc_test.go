package optim

import (
	"math"
	"testing"

	"github.com/dshills/venuecore/pkg/prng"
)

func gaussianEnergy(x Vector) float64 {
	return 0.5 * dot(x, x)
}

func gaussianProposal(current Vector, rng *prng.Source) Vector {
	trial := current.Clone()
	for i := range trial {
		trial[i] += rng.Gaussian() * 0.5
	}
	return trial
}

func TestSampleMH_ConcentratesNearMinimum(t *testing.T) {
	cfg := DefaultMHConfig()
	cfg.Seed = 11
	cfg.Samples = 2000
	cfg.BurnIn = 200

	res, err := SampleMH(Vector{5}, cfg, gaussianEnergy, gaussianProposal)
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
	if math.Abs(mean) > 1.0 {
		t.Fatalf("expected samples to concentrate near 0, got mean %v", mean)
	}
	if res.AcceptanceRate <= 0 || res.AcceptanceRate > 1 {
		t.Fatalf("acceptance rate out of (0,1]: %v", res.AcceptanceRate)
	}
}

func TestSampleMH_Deterministic(t *testing.T) {
	cfg := DefaultMHConfig()
	cfg.Seed = 4
	cfg.Samples = 100
	cfg.BurnIn = 10

	r1, _ := SampleMH(Vector{1}, cfg, gaussianEnergy, gaussianProposal)
	r2, _ := SampleMH(Vector{1}, cfg, gaussianEnergy, gaussianProposal)
	for i := range r1.Samples {
		if r1.Samples[i][0] != r2.Samples[i][0] {
			t.Fatalf("sample %d diverged: %v vs %v", i, r1.Samples[i][0], r2.Samples[i][0])
		}
	}
}

func TestSampleMH_RejectsZeroSamples(t *testing.T) {
	cfg := DefaultMHConfig()
	cfg.Samples = 0
	_, err := SampleMH(Vector{1}, cfg, gaussianEnergy, gaussianProposal)
	if err == nil {
		t.Fatal("expected error for zero samples")
	}
}
