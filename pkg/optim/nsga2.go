package optim

import (
	"math"
	"sort"

	"github.com/dshills/venuecore/pkg/coreerr"
	"github.com/dshills/venuecore/pkg/prng"
)

// NSGA2Config configures [NSGA2] (spec.md §4.3 "NSGA-II").
type NSGA2Config struct {
	Seed                uint32  `yaml:"seed" json:"seed"`
	Generations         int     `yaml:"generations" json:"generations"`
	CrossoverRate       float64 `yaml:"crossoverRate" json:"crossoverRate"`
	MutationRate        float64 `yaml:"mutationRate" json:"mutationRate"`
	SBXIndex            float64 `yaml:"sbxIndex" json:"sbxIndex"`
	UseUniformCrossover bool    `yaml:"useUniformCrossover" json:"useUniformCrossover"`
	MutationSigma       float64 `yaml:"mutationSigma" json:"mutationSigma"`
	Bounds              *Bounds
}

// DefaultNSGA2Config returns standard NSGA-II defaults.
func DefaultNSGA2Config() NSGA2Config {
	return NSGA2Config{Generations: 100, CrossoverRate: 0.9, MutationRate: 0.1, SBXIndex: 20, MutationSigma: 0.1}
}

// ParetoSolution is one member of an NSGA-II population.
type ParetoSolution struct {
	Params     Vector
	Objectives []float64
	Front      int
	Crowding   float64
}

// NSGA2 evolves initialPop under objective for cfg.Generations
// generations of non-dominated sorting, crowding-distance selection,
// and SBX/uniform crossover with polynomial mutation. Returns the final
// population's front-0 solutions, sorted by crowding descending.
func NSGA2(initialPop []Vector, objective ObjectiveFunc, cfg NSGA2Config) ([]ParetoSolution, error) {
	p := len(initialPop)
	if p == 0 {
		return nil, coreerr.NewFieldError("initialPop", "must be non-empty")
	}
	if cfg.Generations <= 0 {
		return nil, coreerr.NewFieldError("generations", "must be positive")
	}
	rng := prng.New(cfg.Seed)

	pop := make([]ParetoSolution, p)
	for i, x := range initialPop {
		pop[i] = ParetoSolution{Params: x.Clone(), Objectives: objective(x)}
	}

	for gen := 0; gen < cfg.Generations; gen++ {
		fronts := fastNonDominatedSort(pop)
		for _, front := range fronts {
			assignCrowdingDistance(pop, front)
		}
		offspring := make([]ParetoSolution, 0, p)
		for len(offspring) < p {
			parentA := tournamentSelect(pop, rng)
			parentB := tournamentSelect(pop, rng)
			var childA, childB Vector
			if rng.Float64() < cfg.CrossoverRate {
				if cfg.UseUniformCrossover {
					childA, childB = uniformCrossover(parentA.Params, parentB.Params, rng)
				} else {
					childA, childB = sbxCrossover(parentA.Params, parentB.Params, cfg.SBXIndex, rng)
				}
			} else {
				childA, childB = parentA.Params.Clone(), parentB.Params.Clone()
			}
			polynomialMutate(childA, cfg.MutationRate, cfg.SBXIndex, cfg.MutationSigma, cfg.Bounds, rng)
			polynomialMutate(childB, cfg.MutationRate, cfg.SBXIndex, cfg.MutationSigma, cfg.Bounds, rng)
			cfg.Bounds.clamp(childA, true)
			cfg.Bounds.clamp(childB, true)
			offspring = append(offspring, ParetoSolution{Params: childA, Objectives: objective(childA)})
			if len(offspring) < p {
				offspring = append(offspring, ParetoSolution{Params: childB, Objectives: objective(childB)})
			}
		}

		combined := append(pop, offspring...)
		combinedFronts := fastNonDominatedSort(combined)
		next := make([]ParetoSolution, 0, p)
		for _, front := range combinedFronts {
			assignCrowdingDistance(combined, front)
			if len(next)+len(front) <= p {
				for _, idx := range front {
					next = append(next, combined[idx])
				}
			} else {
				remaining := make([]int, len(front))
				copy(remaining, front)
				sort.Slice(remaining, func(a, b int) bool {
					return combined[remaining[a]].Crowding > combined[remaining[b]].Crowding
				})
				for _, idx := range remaining {
					if len(next) >= p {
						break
					}
					next = append(next, combined[idx])
				}
			}
			if len(next) >= p {
				break
			}
		}
		pop = next
	}

	fronts := fastNonDominatedSort(pop)
	if len(fronts) == 0 {
		return nil, nil
	}
	assignCrowdingDistance(pop, fronts[0])
	result := make([]ParetoSolution, len(fronts[0]))
	for i, idx := range fronts[0] {
		result[i] = pop[idx]
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Crowding > result[j].Crowding })
	return result, nil
}

func dominates(a, b []float64) bool {
	atLeastOneBetter := false
	for i := range a {
		if a[i] > b[i] {
			return false
		}
		if a[i] < b[i] {
			atLeastOneBetter = true
		}
	}
	return atLeastOneBetter
}

// fastNonDominatedSort returns fronts as slices of indices into pop,
// front 0 first.
func fastNonDominatedSort(pop []ParetoSolution) [][]int {
	n := len(pop)
	dominatedBy := make([][]int, n)
	dominationCount := make([]int, n)
	fronts := [][]int{{}}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if dominates(pop[i].Objectives, pop[j].Objectives) {
				dominatedBy[i] = append(dominatedBy[i], j)
			} else if dominates(pop[j].Objectives, pop[i].Objectives) {
				dominationCount[i]++
			}
		}
		if dominationCount[i] == 0 {
			pop[i].Front = 0
			fronts[0] = append(fronts[0], i)
		}
	}

	k := 0
	for len(fronts[k]) > 0 {
		next := []int{}
		for _, i := range fronts[k] {
			for _, j := range dominatedBy[i] {
				dominationCount[j]--
				if dominationCount[j] == 0 {
					pop[j].Front = k + 1
					next = append(next, j)
				}
			}
		}
		k++
		fronts = append(fronts, next)
	}
	if len(fronts[len(fronts)-1]) == 0 {
		fronts = fronts[:len(fronts)-1]
	}
	return fronts
}

func assignCrowdingDistance(pop []ParetoSolution, front []int) {
	if len(front) == 0 {
		return
	}
	for _, idx := range front {
		pop[idx].Crowding = 0
	}
	numObj := len(pop[front[0]].Objectives)
	for m := 0; m < numObj; m++ {
		sorted := make([]int, len(front))
		copy(sorted, front)
		sort.Slice(sorted, func(a, b int) bool { return pop[sorted[a]].Objectives[m] < pop[sorted[b]].Objectives[m] })
		pop[sorted[0]].Crowding = math.Inf(1)
		pop[sorted[len(sorted)-1]].Crowding = math.Inf(1)
		lo := pop[sorted[0]].Objectives[m]
		hi := pop[sorted[len(sorted)-1]].Objectives[m]
		span := hi - lo
		if span < 1e-12 {
			continue
		}
		for i := 1; i < len(sorted)-1; i++ {
			if math.IsInf(pop[sorted[i]].Crowding, 1) {
				continue
			}
			d := (pop[sorted[i+1]].Objectives[m] - pop[sorted[i-1]].Objectives[m]) / span
			pop[sorted[i]].Crowding += d
		}
	}
}

func tournamentSelect(pop []ParetoSolution, rng *prng.Source) ParetoSolution {
	i := rng.Intn(len(pop))
	j := rng.Intn(len(pop))
	a, b := pop[i], pop[j]
	if a.Front != b.Front {
		if a.Front < b.Front {
			return a
		}
		return b
	}
	if a.Crowding > b.Crowding {
		return a
	}
	return b
}

func sbxCrossover(p1, p2 Vector, eta float64, rng *prng.Source) (Vector, Vector) {
	n := len(p1)
	c1, c2 := make(Vector, n), make(Vector, n)
	for i := 0; i < n; i++ {
		u := rng.Float64()
		var beta float64
		if u <= 0.5 {
			beta = math.Pow(2*u, 1/(eta+1))
		} else {
			beta = math.Pow(1/(2*(1-u)), 1/(eta+1))
		}
		c1[i] = 0.5 * ((1+beta)*p1[i] + (1-beta)*p2[i])
		c2[i] = 0.5 * ((1-beta)*p1[i] + (1+beta)*p2[i])
	}
	return c1, c2
}

func uniformCrossover(p1, p2 Vector, rng *prng.Source) (Vector, Vector) {
	n := len(p1)
	c1, c2 := make(Vector, n), make(Vector, n)
	for i := 0; i < n; i++ {
		if rng.Bool() {
			c1[i], c2[i] = p1[i], p2[i]
		} else {
			c1[i], c2[i] = p2[i], p1[i]
		}
	}
	return c1, c2
}

// polynomialMutate applies Deb's polynomial mutation operator (spec.md
// §4.3): each gene mutates independently with probability rate, with a
// perturbation shaped by etaM so small changes are far more likely than
// large ones and the probability decays smoothly to zero at the gene's
// bounds. When bounds is nil there is no [lower, upper] pair for the
// operator's shape to reference, so sigma substitutes a local window
// [x[i]-sigma, x[i]+sigma] centered on the current value.
func polynomialMutate(x Vector, rate, etaM, sigma float64, bounds *Bounds, rng *prng.Source) {
	for i := range x {
		if rng.Float64() >= rate {
			continue
		}
		lower, upper := x[i]-sigma, x[i]+sigma
		if bounds != nil {
			lower, upper = bounds.Min[i], bounds.Max[i]
		}
		span := upper - lower
		if span <= 0 {
			continue
		}
		u := rng.Float64()
		delta1 := (x[i] - lower) / span
		delta2 := (upper - x[i]) / span
		mutPow := 1 / (etaM + 1)
		var deltaq float64
		if u <= 0.5 {
			xy := 1 - delta1
			val := 2*u + (1-2*u)*math.Pow(xy, etaM+1)
			deltaq = math.Pow(val, mutPow) - 1
		} else {
			xy := 1 - delta2
			val := 2*(1-u) + 2*(u-0.5)*math.Pow(xy, etaM+1)
			deltaq = 1 - math.Pow(val, mutPow)
		}
		x[i] += deltaq * span
	}
	bounds.clamp(x, true)
}
