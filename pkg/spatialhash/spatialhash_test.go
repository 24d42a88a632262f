package spatialhash

import (
	"math/rand"
	"testing"
)

func bruteForcePairs(boxes map[int]AABB) map[[2]int]bool {
	pairs := make(map[[2]int]bool)
	for i, bi := range boxes {
		for j, bj := range boxes {
			if i >= j {
				continue
			}
			if bi.Overlaps(bj) {
				a, b := i, j
				if a > b {
					a, b = b, a
				}
				pairs[[2]int{a, b}] = true
			}
		}
	}
	return pairs
}

func hashPairs(h *Hash, boxes map[int]AABB) map[[2]int]bool {
	pairs := make(map[[2]int]bool)
	for id, box := range boxes {
		for _, other := range h.QueryOverlapping(box, id) {
			a, b := id, other
			if a > b {
				a, b = b, a
			}
			pairs[[2]int{a, b}] = true
		}
	}
	return pairs
}

// TestHash_EquivalentToBruteForce exercises spec.md §8 invariant 5: the
// hash-accelerated overlap set must equal the brute-force O(n^2) set.
func TestHash_EquivalentToBruteForce(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 25; trial++ {
		h := New(0.5)
		boxes := make(map[int]AABB)
		n := 5 + r.Intn(40)
		for id := 0; id < n; id++ {
			x := r.Float64() * 20
			z := r.Float64() * 20
			w := 0.2 + r.Float64()*2
			d := 0.2 + r.Float64()*2
			box := AABB{MinX: x, MinZ: z, MaxX: x + w, MaxZ: z + d}
			boxes[id] = box
			h.Insert(id, box)
		}

		want := bruteForcePairs(boxes)
		got := hashPairs(h, boxes)

		if len(want) != len(got) {
			t.Fatalf("trial %d: pair count mismatch: brute=%d hash=%d", trial, len(want), len(got))
		}
		for k := range want {
			if !got[k] {
				t.Fatalf("trial %d: hash missed overlap pair %v", trial, k)
			}
		}
	}
}

func TestHash_UpdateMovesEntry(t *testing.T) {
	h := New(1.0)
	h.Insert(0, AABB{0, 0, 1, 1})
	h.Insert(1, AABB{5, 5, 6, 6})

	if got := h.QueryOverlapping(AABB{0, 0, 1, 1}, -1); len(got) != 1 {
		t.Fatalf("expected 1 overlap before move, got %v", got)
	}

	h.Update(1, AABB{0.5, 0.5, 1.5, 1.5})
	got := h.QueryOverlapping(AABB{0, 0, 1, 1}, 0)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected id 1 to overlap after move, got %v", got)
	}
}

func TestHash_RemoveDropsEntry(t *testing.T) {
	h := New(1.0)
	h.Insert(0, AABB{0, 0, 1, 1})
	h.Remove(0)
	if h.Len() != 0 {
		t.Fatalf("expected empty hash after remove, len=%d", h.Len())
	}
	if got := h.QueryOverlapping(AABB{0, 0, 1, 1}, -1); len(got) != 0 {
		t.Fatalf("expected no overlaps after remove, got %v", got)
	}
}

func TestAABB_GapNegativeOnOverlap(t *testing.T) {
	a := AABB{0, 0, 2, 2}
	b := AABB{1, 1, 3, 3}
	if a.Gap(b) >= 0 {
		t.Fatalf("expected negative gap for overlapping boxes, got %v", a.Gap(b))
	}
}

func TestAABB_GapPositiveWhenSeparated(t *testing.T) {
	a := AABB{0, 0, 1, 1}
	b := AABB{3, 0, 4, 1}
	if g := a.Gap(b); g <= 0 {
		t.Fatalf("expected positive gap, got %v", g)
	}
}
