package layout

import (
	"github.com/dshills/venuecore/pkg/prng"
	"github.com/dshills/venuecore/pkg/spatialhash"
)

// Solve runs the full three-phase pipeline (greedy seed, simulated
// annealing, chair grouping) against req and returns a [LayoutResult].
// Solve is a pure function of req: the same request always produces
// byte-identical output (spec.md §5). It never returns a non-nil error
// for a structurally valid request — unplaceable items are reflected in
// reduced capacity, not failure (spec.md §7) — but does validate req
// itself and return a typed error naming the offending field if it is
// malformed.
func Solve(req LayoutRequest) (LayoutResult, error) {
	if err := validateRequest(req); err != nil {
		return LayoutResult{}, err
	}
	opts := fillDefaults(req.Options)

	source := prng.New(opts.Seed)
	tasks := buildTaskOrder(req.Specs)

	seeder := newSeeder(req.Room, opts, source)
	backtracks := greedyPlace(seeder, tasks)

	annealed, annealIters, restarts := anneal(req.Room, req.Specs, seeder.placements, opts, source)

	finalGrid := newGrid(req.Room, opts.GridCellSize, opts.ExitClearance)
	finalHash := spatialhash.New(opts.GridCellSize * 4)
	for i, p := range annealed {
		minX, minZ, maxX, maxZ := p.AABB()
		finalGrid.occupy(minX, minZ, maxX, maxZ)
		finalHash.Insert(i, toAABB(p))
	}

	withChairs, groupings := groupChairs(req.Room, req.Specs, annealed, finalGrid, finalHash)

	feasible, violations := Validate(req.Room, withChairs, opts)
	scores := score(req.Room, req.Specs, withChairs, opts.Weights)

	requested := 0
	for _, s := range req.Specs {
		requested += s.Count
	}

	return LayoutResult{
		Feasible:   feasible,
		Placements: withChairs,
		Scores:     scores,
		Violations: violations,
		Groupings:  groupings,
		Stats: Stats{
			PlacedCount:      len(withChairs),
			RequestedCount:   requested,
			AnnealIterations: annealIters,
			Restarts:         restarts,
			Backtracks:       backtracks,
		},
	}, nil
}

// Score exposes the C1 API's `score` query independently of a full
// Solve call, for hosts that already have a placement list (e.g. loaded
// from storage) and want fresh objective scores.
func Score(room Room, specs []FurnitureSpec, placements []Placement, weights *ObjectiveWeights) LayoutScores {
	w := DefaultObjectiveWeights()
	if weights != nil {
		w = *weights
	}
	return score(room, specs, placements, w)
}

func fillDefaults(opts SolverOptions) SolverOptions {
	d := DefaultSolverOptions()
	if opts.GridCellSize <= 0 {
		opts.GridCellSize = d.GridCellSize
	}
	if opts.MinAisleWidth <= 0 {
		opts.MinAisleWidth = d.MinAisleWidth
	}
	if opts.ExitClearance <= 0 {
		opts.ExitClearance = d.ExitClearance
	}
	if opts.AnnealingIterations <= 0 {
		opts.AnnealingIterations = d.AnnealingIterations
	}
	if opts.AnnealingInitialTemp <= 0 {
		opts.AnnealingInitialTemp = d.AnnealingInitialTemp
	}
	if opts.AnnealingCoolingRate <= 0 {
		opts.AnnealingCoolingRate = d.AnnealingCoolingRate
	}
	if opts.MaxPlacementAttempts <= 0 {
		opts.MaxPlacementAttempts = d.MaxPlacementAttempts
	}
	if opts.Weights == (ObjectiveWeights{}) {
		opts.Weights = d.Weights
	}
	return opts
}
