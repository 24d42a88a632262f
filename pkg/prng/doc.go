// Package prng provides the deterministic random number source used by
// the layout solver (C1) and the optimizers (C3) in venuecore.
//
// # Overview
//
// [Source] implements Mulberry32, a 32-bit state PRNG: next() advances the
// state by the fixed increment 0x6D2B79F5 and runs a small bit-mixing step
// before producing a float64 in [0, 1). The same seed always produces the
// same sequence on any platform, which is what lets C1's solver and C3's
// optimizers promise bit-for-bit determinism given identical inputs and
// seed. C2's transport solvers draw no random numbers.
//
// # Sub-seed derivation
//
// A single top-level seed often needs to feed several independent random
// streams within one call (e.g. the greedy seeder and the annealer within
// one [layout] solve). [DeriveSeed] combines a master seed with a stage
// label and a context hash via SHA-256, the same technique used to split a
// master seed across pipeline stages in earlier generations of this code,
// adapted here to Mulberry32's 32-bit state instead of math/rand's 64-bit
// source.
package prng
