package layout

import (
	"math"

	"github.com/dshills/venuecore/pkg/prng"
	"github.com/dshills/venuecore/pkg/spatialhash"
)

type moveKind int

const (
	moveTranslate moveKind = iota
	moveRotate
	moveSwap
)

// annealState is the mutable state threaded through Phase 2.
type annealState struct {
	room       Room
	specs      []FurnitureSpec
	opts       SolverOptions
	grid       *grid
	hash       *spatialhash.Hash
	source     *prng.Source
	graph      *constraintGraph
	placements []Placement
	best       []Placement
	bestScore  float64
}

// anneal runs Phase 2: simulated annealing over translate/rotate/swap
// moves, accelerated by incremental validation (spec.md §4.1 "Phase 2").
// It returns the best layout found, the number of annealing iterations
// actually run, and the number of restarts performed.
func anneal(room Room, specs []FurnitureSpec, seed []Placement, opts SolverOptions, source *prng.Source) ([]Placement, int, int) {
	st := newAnnealState(room, specs, seed, opts, source)
	totalIters := 0
	restarts := 0

	temp := opts.AnnealingInitialTemp
	for r := 0; r <= opts.MaxRestarts; r++ {
		iters := st.run(temp)
		totalIters += iters
		if r == opts.MaxRestarts {
			break
		}
		restarts++
		// Reset to best, rebuild grid/hash from scratch, scale temp down.
		st.resetToBest()
		temp = opts.AnnealingInitialTemp * (1 - float64(r+1)/float64(opts.MaxRestarts+1))
	}

	return st.best, totalIters, restarts
}

func newAnnealState(room Room, specs []FurnitureSpec, seed []Placement, opts SolverOptions, source *prng.Source) *annealState {
	st := &annealState{
		room:       room,
		specs:      specs,
		opts:       opts,
		source:     source,
		placements: append([]Placement(nil), seed...),
	}
	st.rebuildSpatialStructures()
	st.bestScore = st.currentWeightedScore()
	st.best = append([]Placement(nil), st.placements...)
	return st
}

func (st *annealState) rebuildSpatialStructures() {
	st.grid = newGrid(st.room, st.opts.GridCellSize, st.opts.ExitClearance)
	st.hash = spatialhash.New(st.opts.GridCellSize * 4)
	st.graph = newConstraintGraph(len(st.placements))
	for i, p := range st.placements {
		minX, minZ, maxX, maxZ := p.AABB()
		st.grid.occupy(minX, minZ, maxX, maxZ)
		st.hash.Insert(i, toAABB(p))
	}
	for i := range st.placements {
		st.graph.updateLocal(i, validateSinglePlacement(st.room, st.placements, i, st.opts, st.hash))
	}
}

func (st *annealState) resetToBest() {
	st.placements = append([]Placement(nil), st.best...)
	st.rebuildSpatialStructures()
}

func (st *annealState) currentWeightedScore() float64 {
	return st.graph.cachedScore(func() float64 {
		return score(st.room, st.specs, st.placements, st.opts.Weights).Weighted
	})
}

// globalFeasible reports whether the current placement set has zero
// violations anywhere, not just at the index most recently moved,
// recomputing any spatial neighbor invalidated since the last check.
func (st *annealState) globalFeasible() bool {
	violations := st.graph.globalViolations(func(idx int) []Violation {
		return validateSinglePlacement(st.room, st.placements, idx, st.opts, st.hash)
	})
	return len(violations) == 0
}

// run executes the annealing inner loop starting at temperature temp and
// returns the number of iterations actually performed (it may stop
// early on convergence).
func (st *annealState) run(temp float64) int {
	d := math.Sqrt(st.room.Width*st.room.Depth) / 10 * 0.05
	windowStartScore := st.currentWeightedScore()
	iters := 0

	for it := 0; it < st.opts.AnnealingIterations; it++ {
		iters++
		if len(st.placements) > 0 {
			st.step(temp, d)
		}
		temp *= st.opts.AnnealingCoolingRate

		if (it+1)%ConvergenceWindow == 0 {
			cur := st.currentWeightedScore()
			if cur-windowStartScore < ConvergenceThreshold {
				break
			}
			windowStartScore = cur
		}
	}
	return iters
}

// step performs one annealing iteration: pick a move, apply it, validate
// incrementally, and accept/reject via the Metropolis criterion.
func (st *annealState) step(temp, d float64) {
	r := st.source.Float64()
	var kind moveKind
	switch {
	case r < 0.6:
		kind = moveTranslate
	case r < 0.8:
		kind = moveRotate
	default:
		kind = moveSwap
	}

	before := st.currentWeightedScore()

	switch kind {
	case moveTranslate:
		st.tryTranslate(temp, d, before)
	case moveRotate:
		st.tryRotate(before)
	case moveSwap:
		st.trySwap(before)
	}
}

func (st *annealState) accept(delta, temp float64) bool {
	if delta > 0 {
		return true
	}
	t := temp
	if t < 1e-3 {
		t = 1e-3
	}
	return st.source.Float64() < math.Exp(delta/t)
}

func (st *annealState) tryTranslate(temp, d, before float64) {
	idx := st.source.Intn(len(st.placements))
	orig := st.placements[idx]

	dx := st.source.FloatRange(-temp*d, temp*d)
	dz := st.source.FloatRange(-temp*d, temp*d)
	trial := orig
	trial.X = clampInterior(orig.X+dx, orig.EffWidth, st.room.Width)
	trial.Z = clampInterior(orig.Z+dz, orig.EffDepth, st.room.Depth)
	trial.X = roundToGrid(trial.X, st.grid.cellSize)
	trial.Z = roundToGrid(trial.Z, st.grid.cellSize)

	st.applyAndDecide(idx, trial, orig, before, temp)
}

func (st *annealState) tryRotate(before float64) {
	idx := st.source.Intn(len(st.placements))
	orig := st.placements[idx]
	trial := orig
	if orig.Rotation == Cardinal0 {
		trial.Rotation = Cardinal90
	} else {
		trial.Rotation = Cardinal0
	}
	trial.EffWidth, trial.EffDepth = orig.EffDepth, orig.EffWidth

	st.applyAndDecide(idx, trial, orig, before, 1)
}

func (st *annealState) trySwap(before float64) {
	n := len(st.placements)
	if n < 2 {
		return
	}
	i := st.source.Intn(n)
	j := st.source.Intn(n)
	for j == i {
		j = st.source.Intn(n)
	}
	origA, origB := st.placements[i], st.placements[j]
	trialA, trialB := origA, origB
	trialA.X, trialB.X = origB.X, origA.X
	trialA.Z, trialB.Z = origB.Z, origA.Z

	st.applySwapAndDecide(i, j, trialA, trialB, origA, origB, before)
}

// applyAndDecide mutates placement idx to trial, re-validates just that
// index via the spatial hash, and accepts or rolls back per the
// Metropolis criterion at acceptance temperature temp. Translate moves
// pass the current annealing temperature; rotation passes a fixed 1.
func (st *annealState) applyAndDecide(idx int, trial, orig Placement, before, temp float64) {
	st.placements[idx] = trial
	minX, minZ, maxX, maxZ := orig.AABB()
	st.grid.vacate(minX, minZ, maxX, maxZ)
	tminX, tminZ, tmaxX, tmaxZ := trial.AABB()
	st.grid.occupy(tminX, tminZ, tmaxX, tmaxZ)
	st.hash.Update(idx, toAABB(trial))

	localViolations := validateSinglePlacement(st.room, st.placements, idx, st.opts, st.hash)
	st.graph.updateLocal(idx, localViolations)
	st.invalidateNeighbors(idx)

	if len(localViolations) > 0 || !st.globalFeasible() {
		st.rollback(idx, orig, trial)
		return
	}

	after := st.currentWeightedScore()
	delta := after - before
	if st.accept(delta, temp) {
		if after > st.bestScore {
			st.bestScore = after
			st.best = append([]Placement(nil), st.placements...)
		}
		return
	}
	st.rollback(idx, orig, trial)
}

func (st *annealState) rollback(idx int, orig, trial Placement) {
	st.placements[idx] = orig
	tminX, tminZ, tmaxX, tmaxZ := trial.AABB()
	st.grid.vacate(tminX, tminZ, tmaxX, tmaxZ)
	ominX, ominZ, omaxX, omaxZ := orig.AABB()
	st.grid.occupy(ominX, ominZ, omaxX, omaxZ)
	st.hash.Update(idx, toAABB(orig))
	st.graph.updateLocal(idx, validateSinglePlacement(st.room, st.placements, idx, st.opts, st.hash))
}

func (st *annealState) applySwapAndDecide(i, j int, trialA, trialB, origA, origB Placement, before float64) {
	st.placements[i] = trialA
	st.placements[j] = trialB

	aminX, aminZ, amaxX, amaxZ := origA.AABB()
	st.grid.vacate(aminX, aminZ, amaxX, amaxZ)
	bminX, bminZ, bmaxX, bmaxZ := origB.AABB()
	st.grid.vacate(bminX, bminZ, bmaxX, bmaxZ)

	taminX, taminZ, tamaxX, tamaxZ := trialA.AABB()
	st.grid.occupy(taminX, taminZ, tamaxX, tamaxZ)
	tbminX, tbminZ, tbmaxX, tbmaxZ := trialB.AABB()
	st.grid.occupy(tbminX, tbminZ, tbmaxX, tbmaxZ)

	st.hash.Update(i, toAABB(trialA))
	st.hash.Update(j, toAABB(trialB))

	violA := validateSinglePlacement(st.room, st.placements, i, st.opts, st.hash)
	violB := validateSinglePlacement(st.room, st.placements, j, st.opts, st.hash)
	st.graph.updateLocal(i, violA)
	st.graph.updateLocal(j, violB)
	st.invalidateNeighbors(i)
	st.invalidateNeighbors(j)

	if len(violA) > 0 || len(violB) > 0 || !st.globalFeasible() {
		st.rollbackSwap(i, j, origA, origB, trialA, trialB)
		return
	}

	after := st.currentWeightedScore()
	delta := after - before
	if st.accept(delta, 1) {
		if after > st.bestScore {
			st.bestScore = after
			st.best = append([]Placement(nil), st.placements...)
		}
		return
	}
	st.rollbackSwap(i, j, origA, origB, trialA, trialB)
}

func (st *annealState) rollbackSwap(i, j int, origA, origB, trialA, trialB Placement) {
	st.placements[i] = origA
	st.placements[j] = origB

	taminX, taminZ, tamaxX, tamaxZ := trialA.AABB()
	st.grid.vacate(taminX, taminZ, tamaxX, tamaxZ)
	tbminX, tbminZ, tbmaxX, tbmaxZ := trialB.AABB()
	st.grid.vacate(tbminX, tbminZ, tbmaxX, tbmaxZ)

	aminX, aminZ, amaxX, amaxZ := origA.AABB()
	st.grid.occupy(aminX, aminZ, amaxX, amaxZ)
	bminX, bminZ, bmaxX, bmaxZ := origB.AABB()
	st.grid.occupy(bminX, bminZ, bmaxX, bmaxZ)

	st.hash.Update(i, toAABB(origA))
	st.hash.Update(j, toAABB(origB))
	st.graph.updateLocal(i, validateSinglePlacement(st.room, st.placements, i, st.opts, st.hash))
	st.graph.updateLocal(j, validateSinglePlacement(st.room, st.placements, j, st.opts, st.hash))
}

// invalidateNeighbors resets every placement within minAisle+1 of idx so
// it is re-evaluated, per spec.md §4.1's incremental constraint graph.
func (st *annealState) invalidateNeighbors(idx int) {
	expand := st.opts.MinAisleWidth + 1
	box := toAABB(st.placements[idx])
	box.MinX -= expand
	box.MinZ -= expand
	box.MaxX += expand
	box.MaxZ += expand
	for _, other := range st.hash.Query(box, idx) {
		st.graph.invalidate(other)
	}
}

func clampInterior(v, dim, roomDim float64) float64 {
	half := dim / 2
	if v < half {
		return half
	}
	if v > roomDim-half {
		return roomDim - half
	}
	return v
}
