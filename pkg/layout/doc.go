// Package layout implements the constraint layout solver (C1): placing
// rigid furniture footprints inside a polygonal room under hard safety
// constraints (no-overlap, bounds, obstacles, exit clearance, aisle
// width) while maximizing soft objectives (capacity, space use,
// sightlines, symmetry, exit access).
//
// # Pipeline
//
// [Solve] runs three phases against one [LayoutRequest] (a room and a
// furniture manifest):
//
//  1. Greedy placement ([greedyPlace]) seeds an initial layout, ordering
//     tasks by fixed-zone, then wall-adjacent, then descending footprint
//     area, with optional backtracking on failure.
//  2. Simulated annealing ([anneal]) perturbs the seed with translate,
//     rotate, and swap moves, accepting trials via the Metropolis
//     criterion and tracking the best layout seen.
//  3. Chair grouping ([groupChairs]) places chairs around every table
//     spec with ChairsPerUnit > 0, once the table layout has converged.
//
// Each phase builds its own occupancy [*grid] and [spatialhash.Hash]
// instance (the seeder once, the annealer on every restart, and chair
// grouping from the annealed layout), all discarded at the end of the
// call — see spec.md §5: the core never shares state across calls.
package layout
