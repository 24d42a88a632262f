package layout

import (
	"fmt"
	"math"

	"github.com/dshills/venuecore/pkg/coreerr"
	"github.com/dshills/venuecore/pkg/spatialhash"
)

// ValidationError is returned when a LayoutRequest itself is malformed
// (NaN/Inf geometry, non-positive room dimensions) rather than when a
// solved layout has constraint violations — the latter are data, not
// errors (spec.md §7).
type ValidationError = coreerr.FieldError

// validateRequest checks structural validity of a request before the
// solver runs. It never checks furniture placement feasibility — that is
// the solver's job, and unplaceable items are simply skipped.
func validateRequest(req LayoutRequest) error {
	if req.Room.Width <= 0 || math.IsNaN(req.Room.Width) || math.IsInf(req.Room.Width, 0) {
		return coreerr.NewFieldError("room.width", "must be a positive finite number")
	}
	if req.Room.Depth <= 0 || math.IsNaN(req.Room.Depth) || math.IsInf(req.Room.Depth, 0) {
		return coreerr.NewFieldError("room.depth", "must be a positive finite number")
	}
	for i, ob := range req.Room.Obstacles {
		if ob.MinX >= ob.MaxX || ob.MinZ >= ob.MaxZ {
			return coreerr.NewFieldError(fmt.Sprintf("room.obstacles[%d]", i), "min bound must be less than max bound")
		}
	}
	for i, spec := range req.Specs {
		if spec.Width <= 0 || spec.Depth <= 0 {
			return coreerr.NewFieldError(fmt.Sprintf("specs[%d]", i), "width and depth must be positive")
		}
		if spec.Count < 0 {
			return coreerr.NewFieldError(fmt.Sprintf("specs[%d].count", i), "must be >= 0")
		}
		if spec.ChairsPerUnit < 0 {
			return coreerr.NewFieldError(fmt.Sprintf("specs[%d].chairsPerUnit", i), "must be >= 0")
		}
	}
	return nil
}

// Validate independently checks a placement list against a room for hard
// constraint violations, using the brute-force O(n^2) definition of
// overlap/aisle/exit/bounds/obstacle conflicts. It is the referee: if
// [Solve] reports Feasible=true, Validate on the same room/placements
// must report zero violations (spec.md §8 invariant 6).
func Validate(room Room, placements []Placement, opts SolverOptions) (bool, []Violation) {
	violations := bruteForceViolations(room, placements, opts)
	return len(violations) == 0, violations
}

func bruteForceViolations(room Room, placements []Placement, opts SolverOptions) []Violation {
	var out []Violation
	for i, p := range placements {
		out = append(out, checkBounds(room, i, p)...)
		out = append(out, checkObstacles(room, i, p)...)
		out = append(out, checkExits(room, i, p, opts.ExitClearance)...)
	}
	for i := 0; i < len(placements); i++ {
		for j := i + 1; j < len(placements); j++ {
			if v, ok := checkPairOverlapOrAisle(placements[i], placements[j], i, j, opts.MinAisleWidth); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func toAABB(p Placement) spatialhash.AABB {
	minX, minZ, maxX, maxZ := p.AABB()
	return spatialhash.AABB{MinX: minX, MinZ: minZ, MaxX: maxX, MaxZ: maxZ}
}

func checkBounds(room Room, idx int, p Placement) []Violation {
	minX, minZ, maxX, maxZ := p.AABB()
	const tol = 0.01
	if minX < -tol || minZ < -tol || maxX > room.Width+tol || maxZ > room.Depth+tol {
		return []Violation{{
			Kind:       ViolationOutOfBounds,
			Message:    fmt.Sprintf("placement %d lies outside room bounds", idx),
			PlacementA: idx,
			PlacementB: -1,
		}}
	}
	return nil
}

func checkObstacles(room Room, idx int, p Placement) []Violation {
	box := toAABB(p)
	for _, ob := range room.Obstacles {
		obBox := spatialhash.AABB{MinX: ob.MinX, MinZ: ob.MinZ, MaxX: ob.MaxX, MaxZ: ob.MaxZ}
		if box.Overlaps(obBox) {
			return []Violation{{
				Kind:       ViolationObstacleOverlap,
				Message:    fmt.Sprintf("placement %d overlaps an obstacle", idx),
				PlacementA: idx,
				PlacementB: -1,
			}}
		}
	}
	return nil
}

func checkExits(room Room, idx int, p Placement, exitClearance float64) []Violation {
	box := toAABB(p)
	for _, ex := range room.Exits {
		half := ex.Width/2 + exitClearance
		exBox := spatialhash.AABB{MinX: ex.X - half, MinZ: ex.Z - half, MaxX: ex.X + half, MaxZ: ex.Z + half}
		if box.Overlaps(exBox) {
			return []Violation{{
				Kind:       ViolationExitBlocked,
				Message:    fmt.Sprintf("placement %d blocks an exit clearance zone", idx),
				PlacementA: idx,
				PlacementB: -1,
			}}
		}
	}
	return nil
}

// checkPairOverlapOrAisle implements spec.md §3 invariant (d): for every
// ordered pair, either they overlap (a violation) or their inter-edge
// gap is at least minAisle.
func checkPairOverlapOrAisle(a, b Placement, idxA, idxB int, minAisle float64) (Violation, bool) {
	boxA, boxB := toAABB(a), toAABB(b)
	if boxA.Overlaps(boxB) {
		return Violation{
			Kind:       ViolationOverlap,
			Message:    fmt.Sprintf("placements %d and %d overlap", idxA, idxB),
			PlacementA: idxA,
			PlacementB: idxB,
		}, true
	}
	if boxA.Gap(boxB) < minAisle {
		return Violation{
			Kind:       ViolationAisleTooNarrow,
			Message:    fmt.Sprintf("placements %d and %d are closer than the minimum aisle width", idxA, idxB),
			PlacementA: idxA,
			PlacementB: idxB,
		}, true
	}
	return Violation{}, false
}

// validateSinglePlacement checks only the violations placement idx could
// be party to, against the current hash — used by the annealer's
// incremental-validation fast path (spec.md §4.1).
func validateSinglePlacement(room Room, placements []Placement, idx int, opts SolverOptions, hash *spatialhash.Hash) []Violation {
	p := placements[idx]
	var out []Violation
	out = append(out, checkBounds(room, idx, p)...)
	out = append(out, checkObstacles(room, idx, p)...)
	out = append(out, checkExits(room, idx, p, opts.ExitClearance)...)

	box := toAABB(p)
	expand := opts.MinAisleWidth
	queryBox := spatialhash.AABB{
		MinX: box.MinX - expand, MinZ: box.MinZ - expand,
		MaxX: box.MaxX + expand, MaxZ: box.MaxZ + expand,
	}
	for _, other := range hash.Query(queryBox, idx) {
		if other < 0 || other >= len(placements) {
			continue
		}
		a, b := idx, other
		if a > b {
			a, b = b, a
		}
		if v, ok := checkPairOverlapOrAisle(placements[a], placements[b], a, b, opts.MinAisleWidth); ok {
			out = append(out, v)
		}
	}
	return out
}

// dedupeViolations removes duplicates, keying on (kind, sorted index
// pair) per spec.md §4.1's incremental constraint graph description.
func dedupeViolations(vs []Violation) []Violation {
	type key struct {
		kind ViolationKind
		a, b int
	}
	seen := make(map[key]bool)
	var out []Violation
	for _, v := range vs {
		a, b := v.PlacementA, v.PlacementB
		if b != -1 && a > b {
			a, b = b, a
		}
		k := key{v.Kind, a, b}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}
