// Package spatialhash implements the uniform grid spatial hash used by
// C1's constraint layout solver, where each solver phase builds its own
// instance. The C3 samplers in pkg/optim do not use it.
//
// An AABB is inserted into every grid cell its bounds touch, using a
// Cantor-pair-like key on the (shifted-positive) integer cell
// coordinates. Querying an AABB returns the union of every placement
// bucketed into any cell the query box touches. This is exactly
// equivalent to a brute-force O(n²) pairwise check — the equivalence is
// the property under test in spec.md §8 invariant 5 — but touches far
// fewer pairs once placements are sparse relative to the room.
package spatialhash
