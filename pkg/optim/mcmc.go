package optim

import (
	"math"

	"github.com/dshills/venuecore/pkg/coreerr"
	"github.com/dshills/venuecore/pkg/prng"
)

// MHConfig configures [SampleMH] (spec.md §4.3 "MCMC - Metropolis-Hastings").
type MHConfig struct {
	Seed        uint32  `yaml:"seed" json:"seed"`
	Temperature float64 `yaml:"temperature" json:"temperature"`
	Samples     int     `yaml:"samples" json:"samples"`
	BurnIn      int     `yaml:"burnIn" json:"burnIn"`
	Thin        int     `yaml:"thin" json:"thin"`
}

// DefaultMHConfig returns standard Metropolis-Hastings defaults.
func DefaultMHConfig() MHConfig {
	return MHConfig{Temperature: 1.0, Samples: 1000, BurnIn: 100, Thin: 1}
}

// SampleResult is the shared output shape of [SampleMH] and [SampleHMC].
type SampleResult struct {
	Samples        []Vector
	Energies       []float64
	AcceptanceRate float64
}

// SampleMH draws samples proportional to exp(-E(x)/T) from a Markov
// chain started at initial, using proposal to generate candidate moves.
// It runs BurnIn + Thin*Samples steps total, recording every Thin-th
// step (whether the proposal there was accepted or rejected) after
// burn-in.
func SampleMH(initial Vector, cfg MHConfig, energy EnergyFunc, proposal ProposalFunc) (SampleResult, error) {
	if len(initial) == 0 {
		return SampleResult{}, coreerr.NewFieldError("initial", "must be non-empty")
	}
	if cfg.Samples <= 0 {
		return SampleResult{}, coreerr.NewFieldError("samples", "must be positive")
	}
	thin := cfg.Thin
	if thin <= 0 {
		thin = 1
	}
	temp := cfg.Temperature
	if temp <= 0 {
		temp = 1
	}

	rng := prng.New(cfg.Seed)
	current := initial.Clone()
	currentEnergy := energy(current)

	totalSteps := cfg.BurnIn + thin*cfg.Samples
	samples := make([]Vector, 0, cfg.Samples)
	energies := make([]float64, 0, cfg.Samples)
	accepted := 0

	for step := 0; step < totalSteps; step++ {
		trial := proposal(current, rng)
		trialEnergy := energy(trial)
		delta := trialEnergy - currentEnergy
		acceptProb := 1.0
		if delta > 0 {
			acceptProb = math.Exp(-delta / temp)
		}
		if rng.Float64() < acceptProb {
			current = trial
			currentEnergy = trialEnergy
			accepted++
		}
		if step >= cfg.BurnIn && (step-cfg.BurnIn)%thin == 0 {
			samples = append(samples, current.Clone())
			energies = append(energies, currentEnergy)
		}
	}

	rate := 0.0
	if totalSteps > 0 {
		rate = float64(accepted) / float64(totalSteps)
	}
	return SampleResult{Samples: samples, Energies: energies, AcceptanceRate: rate}, nil
}
