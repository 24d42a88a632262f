package layout

import "math"

type cellState uint8

const (
	cellEmpty cellState = iota
	cellWall
	cellObstacle
	cellOccupied
	cellExitZone
)

// grid is a uniform 2D occupancy grid over the room, discretized at
// cellSize. Obstacles and exit clearance zones are painted once at
// construction and never change; occupied cells flip between cellEmpty
// and cellOccupied as placements come and go (spec.md §4.1 "Grid").
type grid struct {
	cellSize     float64
	cols, rows   int
	cells        []cellState
	room         Room
	exitClear    float64
}

func newGrid(room Room, cellSize, exitClearance float64) *grid {
	cols := int(math.Ceil(room.Width/cellSize)) + 1
	rows := int(math.Ceil(room.Depth/cellSize)) + 1
	g := &grid{
		cellSize:  cellSize,
		cols:      cols,
		rows:      rows,
		cells:     make([]cellState, cols*rows),
		room:      room,
		exitClear: exitClearance,
	}

	for _, ob := range room.Obstacles {
		g.paintRect(ob.MinX, ob.MinZ, ob.MaxX, ob.MaxZ, cellObstacle)
	}
	for _, ex := range room.Exits {
		half := ex.Width/2 + exitClearance
		g.paintRect(ex.X-half, ex.Z-half, ex.X+half, ex.Z+half, cellExitZone)
	}
	return g
}

func (g *grid) idx(cx, cz int) int {
	return cz*g.cols + cx
}

func (g *grid) inBounds(cx, cz int) bool {
	return cx >= 0 && cx < g.cols && cz >= 0 && cz < g.rows
}

func (g *grid) toCell(x, z float64) (int, int) {
	return int(math.Floor(x / g.cellSize)), int(math.Floor(z / g.cellSize))
}

func (g *grid) paintRect(minX, minZ, maxX, maxZ float64, state cellState) {
	cx0, cz0 := g.toCell(minX, minZ)
	cx1, cz1 := g.toCell(maxX, maxZ)
	for cx := cx0; cx <= cx1; cx++ {
		for cz := cz0; cz <= cz1; cz++ {
			if g.inBounds(cx, cz) {
				g.cells[g.idx(cx, cz)] = state
			}
		}
	}
}

// canPlace reports whether every cell covered by a footprint centered at
// (cx, cz) with half-extents (halfW, halfD) is empty and within bounds.
func (g *grid) canPlace(cx, cz, halfW, halfD float64) bool {
	minX, minZ, maxX, maxZ := cx-halfW, cz-halfD, cx+halfW, cz+halfD
	if minX < 0 || minZ < 0 || maxX > g.room.Width || maxZ > g.room.Depth {
		return false
	}
	c0x, c0z := g.toCell(minX, minZ)
	c1x, c1z := g.toCell(maxX, maxZ)
	for cx2 := c0x; cx2 <= c1x; cx2++ {
		for cz2 := c0z; cz2 <= c1z; cz2++ {
			if !g.inBounds(cx2, cz2) {
				return false
			}
			if g.cells[g.idx(cx2, cz2)] != cellEmpty {
				return false
			}
		}
	}
	return true
}

// occupy marks every cell covered by the box as occupied. It never
// touches a wall/obstacle/exit-zone cell (those are invariant once
// painted).
func (g *grid) occupy(minX, minZ, maxX, maxZ float64) {
	g.setRect(minX, minZ, maxX, maxZ, cellOccupied, cellEmpty)
}

// vacate clears every occupied cell covered by the box back to empty.
func (g *grid) vacate(minX, minZ, maxX, maxZ float64) {
	g.setRect(minX, minZ, maxX, maxZ, cellEmpty, cellOccupied)
}

func (g *grid) setRect(minX, minZ, maxX, maxZ float64, to, from cellState) {
	c0x, c0z := g.toCell(minX, minZ)
	c1x, c1z := g.toCell(maxX, maxZ)
	for cx := c0x; cx <= c1x; cx++ {
		for cz := c0z; cz <= c1z; cz++ {
			if !g.inBounds(cx, cz) {
				continue
			}
			i := g.idx(cx, cz)
			if g.cells[i] == from {
				g.cells[i] = to
			}
		}
	}
}

// hasAisleClearance requires at least minAisle meters of empty cells on
// two opposite sides of the footprint — either both X-axis sides or both
// Z-axis sides (spec.md §4.1).
func (g *grid) hasAisleClearance(cx, cz, halfW, halfD, minAisle float64) bool {
	return g.clearOnSide(cx-halfW, cz, -1, 0, minAisle, halfD) && g.clearOnSide(cx+halfW, cz, 1, 0, minAisle, halfD) ||
		g.clearOnSide(cx, cz-halfD, 0, -1, minAisle, halfW) && g.clearOnSide(cx, cz+halfD, 0, 1, minAisle, halfW)
}

// clearOnSide walks outward from (x, z) in direction (dx, dz) for
// `minAisle` meters, sampling a perpendicular span of `perp` meters on
// each side of the ray, and requires every sampled cell to be empty.
func (g *grid) clearOnSide(x, z, dx, dz, minAisle, perp float64) bool {
	steps := int(math.Ceil(minAisle / g.cellSize))
	for s := 1; s <= steps; s++ {
		px := x + dx*float64(s)*g.cellSize
		pz := z + dz*float64(s)*g.cellSize
		// Sample the perpendicular span at the ray's midpoint and ends.
		for _, off := range []float64{-perp, 0, perp} {
			sx, sz := px, pz
			if dx == 0 {
				sx += off
			} else {
				sz += off
			}
			cx, cz := g.toCell(sx, sz)
			if !g.inBounds(cx, cz) {
				return false
			}
			if g.cells[g.idx(cx, cz)] != cellEmpty {
				return false
			}
		}
	}
	return true
}
