package optim

import "github.com/dshills/venuecore/pkg/mathutil"

// LayoutDiversity returns the average pairwise Euclidean distance
// between samples, 0 for fewer than 2 samples (spec.md §4.3
// "Diagnostics").
func LayoutDiversity(samples []Vector) float64 {
	n := len(samples)
	if n <= 1 {
		return 0
	}
	sum := 0.0
	count := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sum += mathutil.L2Distance(samples[i], samples[j])
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// EffectiveSampleSize estimates the number of independent draws
// represented by energies, accounting for autocorrelation: n on zero
// variance or fewer than 4 samples, otherwise
// n / (1 + 2*sum(rho_k)) with empirical autocorrelations truncated at
// the first rho_k below 0.05 (spec.md §4.3).
func EffectiveSampleSize(energies []float64) float64 {
	n := len(energies)
	if n < 4 {
		return float64(n)
	}
	mean := 0.0
	for _, e := range energies {
		mean += e
	}
	mean /= float64(n)

	variance := 0.0
	for _, e := range energies {
		d := e - mean
		variance += d * d
	}
	variance /= float64(n)
	if variance < 1e-12 {
		return float64(n)
	}

	sumRho := 0.0
	for k := 1; k < n; k++ {
		cov := 0.0
		for i := 0; i < n-k; i++ {
			cov += (energies[i] - mean) * (energies[i+k] - mean)
		}
		cov /= float64(n)
		rho := cov / variance
		if rho < 0.05 {
			break
		}
		sumRho += rho
	}
	return float64(n) / (1 + 2*sumRho)
}
