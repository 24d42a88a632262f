package spatialhash

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	MinX, MinZ, MaxX, MaxZ float64
}

// Overlaps reports whether a and b intersect (touching edges do not
// count as overlap).
func (a AABB) Overlaps(b AABB) bool {
	return a.MinX < b.MaxX && a.MaxX > b.MinX && a.MinZ < b.MaxZ && a.MaxZ > b.MinZ
}

// Gap returns the minimum edge-to-edge separation between a and b along
// whichever axis separates them. A negative value indicates overlap.
func (a AABB) Gap(b AABB) float64 {
	gapX := math.Max(a.MinX, b.MinX) - math.Min(a.MaxX, b.MaxX)
	gapZ := math.Max(a.MinZ, b.MinZ) - math.Min(a.MaxZ, b.MaxZ)
	if gapX > gapZ {
		return gapX
	}
	return gapZ
}

// Hash buckets integer ids by the grid cells their AABBs cover, at a
// fixed cell size, to accelerate near-neighbor queries.
type Hash struct {
	cellSize float64
	buckets  map[int64][]int
	boxes    map[int]AABB
	// shift moves cell coordinates into non-negative range before
	// Cantor-pairing them into a single bucket key.
	shift int64
}

// New creates a spatial hash with the given cell size (0.15 when cellSize
// is not positive). Cell coordinates are shifted by a fixed 1<<20 before
// pairing, which comfortably covers any realistic room.
func New(cellSize float64) *Hash {
	if cellSize <= 0 {
		cellSize = 0.15
	}
	return &Hash{
		cellSize: cellSize,
		buckets:  make(map[int64][]int),
		boxes:    make(map[int]AABB),
		shift:    1 << 20,
	}
}

func (h *Hash) cell(x, z float64) (int64, int64) {
	return int64(math.Floor(x / h.cellSize)), int64(math.Floor(z / h.cellSize))
}

// key implements the Cantor-pairing-like combination of two shifted
// non-negative cell coordinates into one bucket key.
func (h *Hash) key(cx, cz int64) int64 {
	a := cx + h.shift
	b := cz + h.shift
	return (a+b)*(a+b+1)/2 + b
}

func (h *Hash) cellsFor(box AABB) [][2]int64 {
	cx0, cz0 := h.cell(box.MinX, box.MinZ)
	cx1, cz1 := h.cell(box.MaxX, box.MaxZ)
	var cells [][2]int64
	for cx := cx0; cx <= cx1; cx++ {
		for cz := cz0; cz <= cz1; cz++ {
			cells = append(cells, [2]int64{cx, cz})
		}
	}
	return cells
}

// Insert adds id with bounding box box to the hash.
func (h *Hash) Insert(id int, box AABB) {
	h.boxes[id] = box
	for _, c := range h.cellsFor(box) {
		k := h.key(c[0], c[1])
		h.buckets[k] = append(h.buckets[k], id)
	}
}

// Remove deletes id from the hash.
func (h *Hash) Remove(id int) {
	box, ok := h.boxes[id]
	if !ok {
		return
	}
	for _, c := range h.cellsFor(box) {
		k := h.key(c[0], c[1])
		bucket := h.buckets[k]
		for i, v := range bucket {
			if v == id {
				bucket[i] = bucket[len(bucket)-1]
				h.buckets[k] = bucket[:len(bucket)-1]
				break
			}
		}
	}
	delete(h.boxes, id)
}

// Update removes id's old entry and reinserts it with box.
func (h *Hash) Update(id int, box AABB) {
	h.Remove(id)
	h.Insert(id, box)
}

// Box returns the stored bounding box for id, if present.
func (h *Hash) Box(id int) (AABB, bool) {
	b, ok := h.boxes[id]
	return b, ok
}

// Query returns the deduplicated set of ids whose bounding box was
// inserted into any cell box touches, excluding excludeID (pass -1 to
// exclude nothing).
func (h *Hash) Query(box AABB, excludeID int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, c := range h.cellsFor(box) {
		k := h.key(c[0], c[1])
		for _, id := range h.buckets[k] {
			if id == excludeID || seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// QueryOverlapping returns ids whose stored box actually overlaps box
// (Query alone only guarantees shared-cell candidacy).
func (h *Hash) QueryOverlapping(box AABB, excludeID int) []int {
	var out []int
	for _, id := range h.Query(box, excludeID) {
		if h.boxes[id].Overlaps(box) {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of distinct ids currently stored.
func (h *Hash) Len() int {
	return len(h.boxes)
}
