// Package transport implements the optimal transport core (C2): an
// entropically regularized Sinkhorn solver (multiplicative and
// log-domain), debiased Sinkhorn divergence, fixed-support Wasserstein
// barycenters, partial and unbalanced variants, displacement
// interpolation between layouts, and inverse-OT weight learning.
//
// Every exported entry point is a pure function over dense float64
// vectors/matrices: given identical inputs (including the PRNG seed
// where one is accepted), two calls produce identical output, matching
// spec.md §5's determinism guarantee.
package transport
