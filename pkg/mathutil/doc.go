// Package mathutil collects the small numeric helpers shared by every
// engine in venuecore: log-sum-exp and softmax (used by C2's log-domain
// Sinkhorn and C3's diagnostics), min-max normalization, vector
// normalization, and L1/L2 distance. None of these hold state; all clamp
// denominators and log arguments away from zero the way the rest of the
// core does, rather than letting a divide-by-zero or log(0) escape as a
// NaN into a caller's result.
package mathutil
