package layout

import (
	"sort"

	"github.com/dshills/venuecore/pkg/prng"
	"github.com/dshills/venuecore/pkg/spatialhash"
)

// task is one furniture instance awaiting placement during the greedy
// phase.
type task struct {
	specIndex     int
	instanceIndex int
	spec          FurnitureSpec
}

// buildTaskOrder implements spec.md §4.1's MRV task ordering: fixed-zone
// items first, then wall-adjacent, then the rest sorted by descending
// footprint area.
func buildTaskOrder(specs []FurnitureSpec) []task {
	var fixed, wall, rest []task
	for si, spec := range specs {
		for ii := 0; ii < spec.Count; ii++ {
			t := task{specIndex: si, instanceIndex: ii, spec: spec}
			switch {
			case spec.HasFixedZone:
				fixed = append(fixed, t)
			case spec.WallAdjacent:
				wall = append(wall, t)
			default:
				rest = append(rest, t)
			}
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].spec.Width*rest[i].spec.Depth > rest[j].spec.Width*rest[j].spec.Depth
	})
	out := make([]task, 0, len(fixed)+len(wall)+len(rest))
	out = append(out, fixed...)
	out = append(out, wall...)
	out = append(out, rest...)
	return out
}

// seeder holds the mutable state threaded through the greedy phase.
type seeder struct {
	room       Room
	opts       SolverOptions
	grid       *grid
	hash       *spatialhash.Hash
	source     *prng.Source
	placements []Placement
}

func newSeeder(room Room, opts SolverOptions, source *prng.Source) *seeder {
	return &seeder{
		room:   room,
		opts:   opts,
		grid:   newGrid(room, opts.GridCellSize, opts.ExitClearance),
		hash:   spatialhash.New(opts.GridCellSize * 4),
		source: source,
	}
}

// greedyPlace runs Phase 1, leaving the seeded placements in
// s.placements. It returns the backtrack count for Stats.
func greedyPlace(s *seeder, tasks []task) (backtracks int) {
	i := 0
	for i < len(tasks) {
		t := tasks[i]
		p, ok := s.tryPlace(t)
		if ok {
			p.SpecIndex = t.specIndex
			p.InstanceIndex = t.instanceIndex
			s.commit(p)
			i++
			continue
		}

		if s.opts.EnableBacktracking && backtracks < MaxBacktracks && len(s.placements) > 0 {
			s.undoLast()
			backtracks++
			if i > 0 {
				i--
			}
			continue
		}

		// Unplaceable: silently skip (spec.md §4.1 "Failure semantics").
		i++
	}
	return backtracks
}

func (s *seeder) commit(p Placement) {
	minX, minZ, maxX, maxZ := p.AABB()
	s.grid.occupy(minX, minZ, maxX, maxZ)
	id := len(s.placements)
	s.hash.Insert(id, toAABB(p))
	s.placements = append(s.placements, p)
}

func (s *seeder) undoLast() {
	n := len(s.placements)
	if n == 0 {
		return
	}
	last := s.placements[n-1]
	minX, minZ, maxX, maxZ := last.AABB()
	s.grid.vacate(minX, minZ, maxX, maxZ)
	s.hash.Remove(n - 1)
	s.placements = s.placements[:n-1]
}

func (s *seeder) tryPlace(t task) (Placement, bool) {
	if t.spec.HasFixedZone {
		if p, ok := s.tryFixedZone(t); ok {
			return p, true
		}
	}
	if t.spec.WallAdjacent {
		if p, ok := s.tryWallAdjacent(t); ok {
			return p, true
		}
	}
	return s.tryGeneral(t)
}

func (s *seeder) zoneCentre(zone Zone, w, d float64) (float64, float64) {
	switch zone {
	case ZoneNorth:
		return s.room.Width / 2, d / 2
	case ZoneSouth:
		return s.room.Width / 2, s.room.Depth - d/2
	case ZoneWest:
		return w / 2, s.room.Depth / 2
	case ZoneEast:
		return s.room.Width - w/2, s.room.Depth / 2
	default: // ZoneCenter
		return s.room.Width / 2, s.room.Depth / 2
	}
}

func (s *seeder) tryFixedZone(t task) (Placement, bool) {
	for _, rot := range []Cardinal{Cardinal0, Cardinal90, Cardinal180, Cardinal270} {
		w, d := effectiveDims(t.spec, rot)
		cx, cz := s.zoneCentre(t.spec.FixedZone, w, d)
		if s.grid.canPlace(cx, cz, w/2, d/2) && s.grid.hasAisleClearance(cx, cz, w/2, d/2, s.opts.MinAisleWidth) {
			return Placement{X: cx, Z: cz, Rotation: rot, EffWidth: w, EffDepth: d, Kind: t.spec.Kind}, true
		}
	}
	return s.tryGeneral(t)
}

func (s *seeder) tryWallAdjacent(t task) (Placement, bool) {
	margin := 0.3
	attempts := s.opts.MaxPlacementAttempts / 4
	if attempts < 1 {
		attempts = 1
	}
	rot := Cardinal0
	w, d := effectiveDims(t.spec, rot)

	walls := []struct{ fixedAxisIsX bool; coord float64 }{
		{true, margin + w/2},                    // west wall
		{true, s.room.Width - margin - w/2},     // east wall
		{false, margin + d/2},                   // north wall
		{false, s.room.Depth - margin - d/2},    // south wall
	}

	for _, wall := range walls {
		for a := 0; a < attempts; a++ {
			var cx, cz float64
			if wall.fixedAxisIsX {
				cx = wall.coord
				cz = margin + d/2 + s.source.Float64()*maxF(0, s.room.Depth-d-2*margin)
			} else {
				cz = wall.coord
				cx = margin + w/2 + s.source.Float64()*maxF(0, s.room.Width-w-2*margin)
			}
			cx, cz = s.snap(cx, cz)
			if s.grid.canPlace(cx, cz, w/2, d/2) && s.grid.hasAisleClearance(cx, cz, w/2, d/2, s.opts.MinAisleWidth) {
				return Placement{X: cx, Z: cz, Rotation: rot, EffWidth: w, EffDepth: d, Kind: t.spec.Kind}, true
			}
		}
	}
	return Placement{}, false
}

func (s *seeder) tryGeneral(t task) (Placement, bool) {
	for a := 0; a < s.opts.MaxPlacementAttempts; a++ {
		rot := Cardinal(s.source.Intn(4))
		w, d := effectiveDims(t.spec, rot)
		cx := s.source.FloatRange(w/2, maxF(w/2, s.room.Width-w/2))
		cz := s.source.FloatRange(d/2, maxF(d/2, s.room.Depth-d/2))
		cx, cz = s.snap(cx, cz)
		if s.grid.canPlace(cx, cz, w/2, d/2) && s.grid.hasAisleClearance(cx, cz, w/2, d/2, s.opts.MinAisleWidth) {
			return Placement{X: cx, Z: cz, Rotation: rot, EffWidth: w, EffDepth: d, Kind: t.spec.Kind}, true
		}
	}
	return Placement{}, false
}

func (s *seeder) snap(x, z float64) (float64, float64) {
	cs := s.grid.cellSize
	return roundToGrid(x, cs), roundToGrid(z, cs)
}

func roundToGrid(v, cellSize float64) float64 {
	return float64(int(v/cellSize+0.5)) * cellSize
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
