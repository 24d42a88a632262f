package optim

import (
	"math"

	"github.com/dshills/venuecore/pkg/coreerr"
	"github.com/dshills/venuecore/pkg/prng"
)

// HMCConfig configures [SampleHMC] (spec.md §4.3 "MCMC - HMC").
type HMCConfig struct {
	Seed          uint32  `yaml:"seed" json:"seed"`
	Samples       int     `yaml:"samples" json:"samples"`
	BurnIn        int     `yaml:"burnIn" json:"burnIn"`
	Thin          int     `yaml:"thin" json:"thin"`
	LeapfrogSteps int     `yaml:"leapfrogSteps" json:"leapfrogSteps"`
	StepSize      float64 `yaml:"stepSize" json:"stepSize"`
	GradientStep  float64 `yaml:"gradientStep" json:"gradientStep"`
}

// DefaultHMCConfig returns standard Hamiltonian Monte Carlo defaults.
func DefaultHMCConfig() HMCConfig {
	return HMCConfig{Samples: 1000, BurnIn: 100, Thin: 1, LeapfrogSteps: 10, StepSize: 0.05, GradientStep: 1e-4}
}

// SampleHMC draws samples proportional to exp(-E(x)) using Hamiltonian
// dynamics: momentum p ~ N(0,I), leapfrog integration with a gradient
// estimated by central finite differences, and a Metropolis accept on
// the joint (position, momentum) Hamiltonian.
func SampleHMC(initial Vector, cfg HMCConfig, energy EnergyFunc) (SampleResult, error) {
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
	h := cfg.GradientStep
	if h <= 0 {
		h = 1e-4
	}
	eps := cfg.StepSize
	if eps <= 0 {
		eps = 0.05
	}
	leap := cfg.LeapfrogSteps
	if leap <= 0 {
		leap = 10
	}

	rng := prng.New(cfg.Seed)
	current := initial.Clone()
	currentEnergy := energy(current)

	totalSteps := cfg.BurnIn + thin*cfg.Samples
	samples := make([]Vector, 0, cfg.Samples)
	energies := make([]float64, 0, cfg.Samples)
	accepted := 0

	for step := 0; step < totalSteps; step++ {
		p0 := make(Vector, len(current))
		for i := range p0 {
			p0[i] = rng.Gaussian()
		}
		kinetic0 := 0.5 * dot(p0, p0)

		x := current.Clone()
		p := p0.Clone()
		grad := centralGradient(energy, x, h)
		for i := range p {
			p[i] -= 0.5 * eps * grad[i]
		}
		for l := 0; l < leap; l++ {
			for i := range x {
				x[i] += eps * p[i]
			}
			grad = centralGradient(energy, x, h)
			halfAtEnd := eps
			if l == leap-1 {
				halfAtEnd = 0.5 * eps
			}
			for i := range p {
				p[i] -= halfAtEnd * grad[i]
			}
		}

		trialEnergy := energy(x)
		kinetic1 := 0.5 * dot(p, p)

		h0 := currentEnergy + kinetic0
		h1 := trialEnergy + kinetic1
		acceptProb := 1.0
		if h1 > h0 {
			acceptProb = math.Exp(h0 - h1)
		}
		if rng.Float64() < acceptProb {
			current = x
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

func dot(a, b Vector) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func centralGradient(energy EnergyFunc, x Vector, h float64) Vector {
	grad := make(Vector, len(x))
	for i := range x {
		xp := x.Clone()
		xm := x.Clone()
		xp[i] += h
		xm[i] -= h
		grad[i] = (energy(xp) - energy(xm)) / (2 * h)
	}
	return grad
}
