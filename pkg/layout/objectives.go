package layout

import "math"

// score computes every soft objective in spec.md §4.1 "Objectives",
// each clamped into [0, 1], plus the weighted sum.
func score(room Room, specs []FurnitureSpec, placements []Placement, weights ObjectiveWeights) LayoutScores {
	requested := 0
	for _, s := range specs {
		requested += s.Count
	}

	s := LayoutScores{
		Capacity:          capacityScore(len(placements), requested),
		SpaceUtilization:  spaceUtilizationScore(room, placements),
		SightlineCoverage: sightlineScore(room, placements),
		Symmetry:          symmetryScore(room, placements),
		ExitAccess:        exitAccessScore(room, placements),
	}
	s.Weighted = weights.SpaceUtilization*s.SpaceUtilization +
		weights.SightlineCoverage*s.SightlineCoverage +
		weights.Symmetry*s.Symmetry +
		weights.ExitAccess*s.ExitAccess
	return s
}

func capacityScore(placed, requested int) float64 {
	if requested <= 0 {
		return 1
	}
	return math.Min(1, float64(placed)/float64(requested))
}

func spaceUtilizationScore(room Room, placements []Placement) float64 {
	area := room.Width * room.Depth
	if area <= 0 {
		return 0
	}
	covered := 0.0
	for _, p := range placements {
		covered += p.EffWidth * p.EffDepth
	}
	coverage := covered / area
	s := 1 - math.Abs(coverage-0.4)/0.4
	return math.Max(0, s)
}

func sightlineScore(room Room, placements []Placement) float64 {
	if room.Focal == nil {
		return 1
	}
	var chairs []Placement
	var obstacles []Placement
	for _, p := range placements {
		if p.Kind == KindChair {
			chairs = append(chairs, p)
		} else {
			obstacles = append(obstacles, p)
		}
	}
	if len(chairs) == 0 {
		return 1
	}
	clear := 0
	for _, c := range chairs {
		blocked := false
		for _, ob := range obstacles {
			if segmentIntersectsAABB(c.X, c.Z, room.Focal.X, room.Focal.Z, ob) {
				blocked = true
				break
			}
		}
		if !blocked {
			clear++
		}
	}
	return float64(clear) / float64(len(chairs))
}

// segmentIntersectsAABB is a slab test for segment (x0,z0)-(x1,z1)
// against ob's bounding box.
func segmentIntersectsAABB(x0, z0, x1, z1 float64, ob Placement) bool {
	minX, minZ, maxX, maxZ := ob.AABB()
	dx, dz := x1-x0, z1-z0
	tmin, tmax := 0.0, 1.0

	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > tmax {
				return false
			}
			if t > tmin {
				tmin = t
			}
		} else {
			if t < tmin {
				return false
			}
			if t < tmax {
				tmax = t
			}
		}
		return true
	}

	if !clip(-dx, x0-minX) {
		return false
	}
	if !clip(dx, maxX-x0) {
		return false
	}
	if !clip(-dz, z0-minZ) {
		return false
	}
	if !clip(dz, maxZ-z0) {
		return false
	}
	return tmin <= tmax
}

// symmetryScore mirrors every placement under x -> W - x and matches it
// to the closest same-kind placement, per spec.md §4.1 and the
// preserved double-counting contract noted in §9's open questions.
func symmetryScore(room Room, placements []Placement) float64 {
	n := len(placements)
	if n == 0 {
		return 1
	}
	threshold := 0.1 * room.Width
	matches := 0
	totalDeviation := 0.0

	for i, p := range placements {
		mirrorX := room.Width - p.X
		best := math.Inf(1)
		for j, q := range placements {
			if i == j || q.Kind != p.Kind {
				continue
			}
			d := math.Hypot(mirrorX-q.X, p.Z-q.Z)
			if d < best {
				best = d
			}
		}
		if best < threshold {
			matches++
			totalDeviation += best
		}
	}

	matchRatio := float64(matches) / float64(n)
	if matches == 0 {
		return 0
	}
	avgDeviation := totalDeviation / float64(matches)
	s := matchRatio * (1 - avgDeviation/threshold)
	return math.Max(0, s)
}

func exitAccessScore(room Room, placements []Placement) float64 {
	diagonal := math.Hypot(room.Width, room.Depth)
	if diagonal <= 0 || len(room.Exits) == 0 {
		return 1
	}
	var subjects []Placement
	for _, p := range placements {
		if p.Kind == KindChair {
			subjects = append(subjects, p)
		}
	}
	if len(subjects) == 0 {
		subjects = placements
	}
	if len(subjects) == 0 {
		return 1
	}

	maxMin := 0.0
	for _, p := range subjects {
		minDist := math.Inf(1)
		for _, ex := range room.Exits {
			d := math.Hypot(p.X-ex.X, p.Z-ex.Z)
			if d < minDist {
				minDist = d
			}
		}
		if minDist > maxMin {
			maxMin = minDist
		}
	}
	return math.Max(0, 1-maxMin/diagonal)
}
