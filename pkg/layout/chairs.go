package layout

import (
	"math"

	"github.com/dshills/venuecore/pkg/spatialhash"
)

// groupChairs implements Phase 3: for every spec with ChairsPerUnit > 0,
// generate chair placements around each placed table of that spec and
// record the grouping (spec.md §4.1 "Phase 3 - Chair grouping").
func groupChairs(room Room, specs []FurnitureSpec, placements []Placement, g *grid, hash *spatialhash.Hash) ([]Placement, []Grouping) {
	var groupings []Grouping

	for si, spec := range specs {
		if spec.ChairsPerUnit <= 0 {
			continue
		}
		for ti, table := range placements {
			if table.SpecIndex != si {
				continue
			}
			chairIdx := placeChairsAround(room, spec, table, &placements, g, hash)
			if len(chairIdx) > 0 {
				groupings = append(groupings, Grouping{
					TableIndex:    ti,
					ChairIndices:  chairIdx,
					ChairsPerUnit: spec.ChairsPerUnit,
				})
			}
		}
	}
	return placements, groupings
}

// placeChairsAround generates, validates, and commits up to
// spec.ChairsPerUnit chairs around table, appending accepted chairs to
// *placements and returning their indices.
func placeChairsAround(room Room, spec FurnitureSpec, table Placement, placements *[]Placement, g *grid, hash *spatialhash.Hash) []int {
	candidates := candidateChairPoses(spec, table)
	var accepted []int

	for _, c := range candidates {
		hw, hd := c.EffWidth/2, c.EffDepth/2
		if !g.canPlace(c.X, c.Z, hw, hd) {
			continue
		}
		minX, minZ, maxX, maxZ := c.AABB()
		if minX < 0 || minZ < 0 || maxX > room.Width || maxZ > room.Depth {
			continue
		}
		cx, cz := roundToGrid(c.X, g.cellSize), roundToGrid(c.Z, g.cellSize)
		c.X, c.Z = cx, cz
		hw, hd = c.EffWidth/2, c.EffDepth/2
		if !g.canPlace(c.X, c.Z, hw, hd) {
			continue
		}

		minX, minZ, maxX, maxZ = c.AABB()
		g.occupy(minX, minZ, maxX, maxZ)
		id := len(*placements)
		hash.Insert(id, toAABB(c))
		*placements = append(*placements, c)
		accepted = append(accepted, id)
	}
	return accepted
}

// candidateChairPoses returns the ideal chair candidate positions for
// one table, per spec.md §4.1 "Phase 3": round tables get chairs evenly
// spaced on a circle; rectangular/trestle tables get chairs along the
// two long edges.
func candidateChairPoses(spec FurnitureSpec, table Placement) []Placement {
	k := spec.ChairsPerUnit
	chairW, chairD := 0.5, 0.5

	switch spec.Kind {
	case KindRoundTable:
		radius := math.Max(table.EffWidth, table.EffDepth)/2 + 0.35
		out := make([]Placement, 0, k)
		for i := 0; i < k; i++ {
			angle := 2*math.Pi*float64(i)/float64(k) + table.Rotation.Radians()
			cx := table.X + radius*math.Cos(angle)
			cz := table.Z + radius*math.Sin(angle)
			out = append(out, Placement{
				X: cx, Z: cz,
				Rotation: angleToCardinal(angle + math.Pi),
				EffWidth: chairW, EffDepth: chairD,
				Kind: KindChair,
			})
		}
		return out

	default: // rect/trestle tables
		longSide, shortSide := table.EffWidth, table.EffDepth
		horizontal := true
		if table.EffDepth > table.EffWidth {
			longSide, shortSide = table.EffDepth, table.EffWidth
			horizontal = false
		}
		perSide := (k + 1) / 2
		spacing := longSide / float64(perSide+1)
		setback := shortSide/2 + 0.35

		out := make([]Placement, 0, k)
		placed := 0
		for side := 0; side < 2 && placed < k; side++ {
			for i := 1; i <= perSide && placed < k; i++ {
				offset := spacing*float64(i) - longSide/2
				var cx, cz float64
				var facing float64
				if horizontal {
					cx = table.X + offset
					if side == 0 {
						cz = table.Z - setback
						facing = math.Pi / 2
					} else {
						cz = table.Z + setback
						facing = -math.Pi / 2
					}
				} else {
					cz = table.Z + offset
					if side == 0 {
						cx = table.X - setback
						facing = 0
					} else {
						cx = table.X + setback
						facing = math.Pi
					}
				}
				out = append(out, Placement{
					X: cx, Z: cz,
					Rotation: angleToCardinal(facing),
					EffWidth: chairW, EffDepth: chairD,
					Kind: KindChair,
				})
				placed++
			}
		}
		return out
	}
}

// angleToCardinal snaps a facing angle (radians) to the nearest of the
// four cardinal rotations.
func angleToCardinal(angle float64) Cardinal {
	const twoPi = 2 * math.Pi
	a := math.Mod(angle, twoPi)
	if a < 0 {
		a += twoPi
	}
	quarter := math.Round(a / (math.Pi / 2))
	return Cardinal(int(quarter) % 4)
}
