package optim

import "testing"

func TestLayoutDiversity_ZeroForIdenticalSamples(t *testing.T) {
	samples := []Vector{{1, 2}, {1, 2}, {1, 2}}
	if d := LayoutDiversity(samples); d != 0 {
		t.Fatalf("expected 0 diversity for identical samples, got %v", d)
	}
}

func TestLayoutDiversity_ZeroOrFewerThanTwoSamples(t *testing.T) {
	if d := LayoutDiversity(nil); d != 0 {
		t.Fatalf("expected 0 diversity for no samples, got %v", d)
	}
	if d := LayoutDiversity([]Vector{{1}}); d != 0 {
		t.Fatalf("expected 0 diversity for a single sample, got %v", d)
	}
}

func TestLayoutDiversity_PositiveForDifferingSamples(t *testing.T) {
	samples := []Vector{{0, 0}, {10, 0}, {0, 10}}
	if d := LayoutDiversity(samples); d <= 0 {
		t.Fatalf("expected positive diversity for differing samples, got %v", d)
	}
}

func TestEffectiveSampleSize_EqualsNOnZeroVariance(t *testing.T) {
	energies := []float64{1, 1, 1, 1, 1, 1}
	if ess := EffectiveSampleSize(energies); ess != float64(len(energies)) {
		t.Fatalf("expected ESS == n on zero variance, got %v", ess)
	}
}

func TestEffectiveSampleSize_LessThanNOnAutocorrelation(t *testing.T) {
	energies := make([]float64, 100)
	v := 0.0
	for i := range energies {
		v += 0.9*v + float64(i%3) // deterministic autocorrelated-ish sequence
		energies[i] = v
	}
	ess := EffectiveSampleSize(energies)
	if ess >= float64(len(energies)) {
		t.Fatalf("expected ESS < n for autocorrelated energies, got %v", ess)
	}
}

func TestEffectiveSampleSize_ReturnsNBelowFour(t *testing.T) {
	energies := []float64{1, 2, 3}
	if ess := EffectiveSampleSize(energies); ess != 3 {
		t.Fatalf("expected ESS == n for n<4, got %v", ess)
	}
}
