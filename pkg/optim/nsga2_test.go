package optim

import (
	"testing"

	"github.com/dshills/venuecore/pkg/prng"
)

// biObjective minimizes (x^2, (x-2)^2), the classic two-objective
// textbook problem whose Pareto front is x in [0,2].
func biObjective(x Vector) []float64 {
	a := x[0] * x[0]
	b := (x[0] - 2) * (x[0] - 2)
	return []float64{a, b}
}

func seedPopulation(n int, seed uint32) []Vector {
	rng := prng.New(seed)
	pop := make([]Vector, n)
	for i := range pop {
		pop[i] = Vector{rng.FloatRange(-5, 5)}
	}
	return pop
}

func TestNSGA2_Front0MutuallyNonDominated(t *testing.T) {
	cfg := DefaultNSGA2Config()
	cfg.Seed = 3
	cfg.Generations = 30
	cfg.Bounds = &Bounds{Min: Vector{-5}, Max: Vector{5}}

	pop := seedPopulation(20, 1)
	front, err := NSGA2(pop, biObjective, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(front) == 0 {
		t.Fatal("expected a non-empty front 0")
	}
	for i := range front {
		for j := range front {
			if i == j {
				continue
			}
			if dominates(front[i].Objectives, front[j].Objectives) {
				t.Fatalf("front 0 member %d dominates member %d: %+v vs %+v", i, j, front[i].Objectives, front[j].Objectives)
			}
		}
	}
}

func TestNSGA2_Front0NearParetoOptimalRange(t *testing.T) {
	cfg := DefaultNSGA2Config()
	cfg.Seed = 9
	cfg.Generations = 40
	cfg.Bounds = &Bounds{Min: Vector{-5}, Max: Vector{5}}

	pop := seedPopulation(30, 5)
	front, err := NSGA2(pop, biObjective, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, sol := range front {
		if sol.Params[0] < -0.5 || sol.Params[0] > 2.5 {
			t.Fatalf("expected front 0 solutions near [0,2], got x=%v", sol.Params[0])
		}
	}
}

func TestNSGA2_RejectsEmptyPopulation(t *testing.T) {
	_, err := NSGA2(nil, biObjective, DefaultNSGA2Config())
	if err == nil {
		t.Fatal("expected error for empty population")
	}
}

func TestDominates_Basic(t *testing.T) {
	if !dominates([]float64{1, 1}, []float64{2, 2}) {
		t.Fatal("expected [1,1] to dominate [2,2]")
	}
	if dominates([]float64{1, 2}, []float64{2, 1}) {
		t.Fatal("expected neither to dominate the other")
	}
}
