package layout

import (
	"math"
	"testing"
)

func basicRoom() Room {
	return Room{Width: 20, Depth: 15}
}

func TestSolve_Determinism(t *testing.T) {
	req := LayoutRequest{
		Room: basicRoom(),
		Specs: []FurnitureSpec{
			{Kind: KindRoundTable, Width: 1.8, Depth: 1.8, Count: 4, ChairsPerUnit: 6},
			{Kind: KindChair, Width: 0.5, Depth: 0.5, Count: 10},
		},
		Options: DefaultSolverOptions(),
	}

	r1, err := Solve(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r2, err := Solve(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(r1.Placements) != len(r2.Placements) {
		t.Fatalf("placement counts differ: %d vs %d", len(r1.Placements), len(r2.Placements))
	}
	for i := range r1.Placements {
		if r1.Placements[i] != r2.Placements[i] {
			t.Fatalf("placement %d differs between identical runs: %+v vs %+v", i, r1.Placements[i], r2.Placements[i])
		}
	}
}

func TestSolve_Spacious(t *testing.T) {
	req := LayoutRequest{
		Room: Room{Width: 20, Depth: 15},
		Specs: []FurnitureSpec{
			{Kind: KindRoundTable, Width: 1.8, Depth: 1.8, Count: 4},
			{Kind: KindChair, Width: 0.5, Depth: 0.5, Count: 20},
		},
		Options: DefaultSolverOptions(),
	}

	result, err := Solve(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Stats.PlacedCount < 20 {
		t.Fatalf("expected most items placed in a spacious room, got %d", result.Stats.PlacedCount)
	}

	for _, v := range result.Violations {
		if v.Kind == ViolationOverlap || v.Kind == ViolationOutOfBounds {
			t.Fatalf("unexpected hard violation in spacious room: %+v", v)
		}
	}
}

func TestSolve_FixedZoneNorth(t *testing.T) {
	req := LayoutRequest{
		Room: Room{
			Width: 15, Depth: 12,
			Exits: []Exit{{X: 7.5, Z: 12, Width: 1.2}},
		},
		Specs: []FurnitureSpec{
			{Kind: KindStage, Width: 4, Depth: 2, Count: 1, HasFixedZone: true, FixedZone: ZoneNorth},
		},
		Options: DefaultSolverOptions(),
	}

	result, err := Solve(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Stats.PlacedCount != 1 {
		t.Fatalf("expected the stage to be placed, got %d placements", result.Stats.PlacedCount)
	}
	if result.Placements[0].Z >= 6 {
		t.Fatalf("expected stage in north half (z<6), got z=%v", result.Placements[0].Z)
	}
}

func TestSolve_FeasibleImpliesValidates(t *testing.T) {
	req := LayoutRequest{
		Room: basicRoom(),
		Specs: []FurnitureSpec{
			{Kind: KindChair, Width: 0.5, Depth: 0.5, Count: 6},
		},
		Options: DefaultSolverOptions(),
	}
	result, err := Solve(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Feasible {
		ok, violations := Validate(req.Room, result.Placements, fillDefaults(req.Options))
		if !ok {
			t.Fatalf("solve reported feasible but independent validation found violations: %+v", violations)
		}
	}
}

func TestSolve_ScoresInRange(t *testing.T) {
	req := LayoutRequest{
		Room: basicRoom(),
		Specs: []FurnitureSpec{
			{Kind: KindRoundTable, Width: 1.8, Depth: 1.8, Count: 3, ChairsPerUnit: 6},
		},
		Options: DefaultSolverOptions(),
	}
	result, err := Solve(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for name, v := range map[string]float64{
		"capacity":   result.Scores.Capacity,
		"space":      result.Scores.SpaceUtilization,
		"sightline":  result.Scores.SightlineCoverage,
		"symmetry":   result.Scores.Symmetry,
		"exitAccess": result.Scores.ExitAccess,
	} {
		if v < 0 || v > 1 {
			t.Fatalf("score %s out of [0,1]: %v", name, v)
		}
	}
}

func TestSolve_InvalidRoomRejected(t *testing.T) {
	req := LayoutRequest{
		Room:    Room{Width: 0, Depth: 10},
		Options: DefaultSolverOptions(),
	}
	_, err := Solve(req)
	if err == nil {
		t.Fatal("expected error for zero-width room")
	}
}

func TestViolationSeverity_Total(t *testing.T) {
	kinds := []ViolationKind{
		ViolationOverlap, ViolationExitBlocked, ViolationOutOfBounds,
		ViolationObstacleOverlap, ViolationAisleTooNarrow,
	}
	seen := map[int]bool{}
	for _, k := range kinds {
		s := ViolationSeverity(k)
		if seen[s] {
			t.Fatalf("duplicate severity %d for kind %s", s, k)
		}
		seen[s] = true
	}
}

func TestViolationSeverity_PanicsOnUnknown(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unknown violation kind")
		}
	}()
	ViolationSeverity(ViolationKind("bogus"))
}

func TestChairGrouping_RoundTable(t *testing.T) {
	req := LayoutRequest{
		Room: Room{Width: 10, Depth: 10},
		Specs: []FurnitureSpec{
			{Kind: KindRoundTable, Width: 1.8, Depth: 1.8, Count: 1, ChairsPerUnit: 6},
		},
		Options: DefaultSolverOptions(),
	}
	result, err := Solve(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Groupings) != 1 {
		t.Fatalf("expected 1 grouping, got %d", len(result.Groupings))
	}
	g := result.Groupings[0]
	if len(g.ChairIndices) != 6 {
		t.Fatalf("expected 6 chairs, got %d", len(g.ChairIndices))
	}

	table := result.Placements[g.TableIndex]
	for _, ci := range g.ChairIndices {
		chair := result.Placements[ci]
		dist := math.Hypot(chair.X-table.X, chair.Z-table.Z)
		if dist < 1.0 || dist > 1.5 {
			t.Fatalf("chair radius out of expected range: %v", dist)
		}
	}
}
