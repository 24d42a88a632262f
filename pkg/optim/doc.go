// Package optim implements the stochastic optimizers and samplers core
// (C3): CMA-ES, NSGA-II multi-objective evolution, Metropolis-Hastings
// and Hamiltonian Monte Carlo samplers, sample diagnostics, and a
// restricted Boltzmann machine trained by contrastive divergence.
//
// Every entry point accepts an explicit PRNG seed or [prng.Source] and
// is a pure function of its inputs plus that seed, matching spec.md
// §5's determinism guarantee.
package optim
