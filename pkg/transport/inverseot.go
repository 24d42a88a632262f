package transport

import (
	"math"

	"github.com/dshills/venuecore/pkg/coreerr"
)

// Matching is one observed event-venue outcome used as inverse-OT
// training data.
type Matching struct {
	EventIdx, VenueIdx int
	Success            bool
}

// InverseOTConfig configures [LearnCostWeights].
type InverseOTConfig struct {
	SuccessWeight float64 `yaml:"successWeight" json:"successWeight"`
	FailureWeight float64 `yaml:"failureWeight" json:"failureWeight"`
	Step          float64 `yaml:"step" json:"step"`
	LearningRate  float64 `yaml:"learningRate" json:"learningRate"`
	Iterations    int     `yaml:"iterations" json:"iterations"`
	SinkhornCfg   SinkhornConfig
}

// DefaultInverseOTConfig returns the defaults named in spec.md §6
// ("Inverse OT: lr=0.01, iterations=100, epsilon=0.05, h=1e-4").
func DefaultInverseOTConfig() InverseOTConfig {
	sinkhorn := DefaultSinkhornConfig()
	sinkhorn.Epsilon = 0.05
	return InverseOTConfig{
		SuccessWeight: 1.0,
		FailureWeight: 0.1,
		Step:          1e-4,
		LearningRate:  0.01,
		Iterations:    100,
		SinkhornCfg:   sinkhorn,
	}
}

// LearnCostWeights fits the four [CostWeights] dimensions to a history
// of observed event-venue matchings via finite-difference gradient
// descent (spec.md §4.2 "Inverse OT"). init, when zero-valued, defaults
// to equal weighting.
func LearnCostWeights(matchings []Matching, events []Event, venues []Venue, init CostWeights, cfg InverseOTConfig) (CostWeights, error) {
	if len(matchings) == 0 {
		return CostWeights{}, coreerr.NewFieldError("matchings", "must be non-empty")
	}
	n, m := len(events), len(venues)
	if n == 0 || m == 0 {
		return CostWeights{}, coreerr.NewFieldError("events/venues", "must be non-empty")
	}

	tObs := buildObservedPlan(matchings, n, m, cfg.SuccessWeight, cfg.FailureWeight)

	w := init
	if w.Capacity+w.Price+w.Amenity+w.Location <= 0 {
		w = DefaultCostWeights()
	}
	weights := []float64{w.Capacity, w.Price, w.Amenity, w.Location}

	for iter := 0; iter < cfg.Iterations; iter++ {
		loss := inverseOTLoss(weights, events, venues, tObs, cfg.SinkhornCfg)
		grad := make([]float64, 4)
		for d := 0; d < 4; d++ {
			plus := append([]float64(nil), weights...)
			plus[d] += cfg.Step
			lossPlus := inverseOTLoss(plus, events, venues, tObs, cfg.SinkhornCfg)

			minus := append([]float64(nil), weights...)
			minus[d] -= cfg.Step
			if minus[d] < 0.01 {
				// forward difference when the central step would go out of range
				grad[d] = (lossPlus - loss) / cfg.Step
				continue
			}
			lossMinus := inverseOTLoss(minus, events, venues, tObs, cfg.SinkhornCfg)
			grad[d] = (lossPlus - lossMinus) / (2 * cfg.Step)
		}

		for d := range weights {
			weights[d] -= cfg.LearningRate * grad[d]
			if weights[d] < 0.01 {
				weights[d] = 0.01
			}
			if weights[d] > 1 {
				weights[d] = 1
			}
		}
		sum := weights[0] + weights[1] + weights[2] + weights[3]
		for d := range weights {
			weights[d] /= sum
		}
	}

	return CostWeights{Capacity: weights[0], Price: weights[1], Amenity: weights[2], Location: weights[3]}, nil
}

// EvaluateWeights scores how well weights explain the observed
// matchings, returning a value in (0,1] (spec.md §4.2).
func EvaluateWeights(matchings []Matching, events []Event, venues []Venue, w CostWeights, cfg InverseOTConfig) (float64, error) {
	if len(matchings) == 0 {
		return 0, coreerr.NewFieldError("matchings", "must be non-empty")
	}
	n, m := len(events), len(venues)
	tObs := buildObservedPlan(matchings, n, m, cfg.SuccessWeight, cfg.FailureWeight)
	loss := inverseOTLoss([]float64{w.Capacity, w.Price, w.Amenity, w.Location}, events, venues, tObs, cfg.SinkhornCfg)
	return math.Exp(-loss * float64(n) * float64(m)), nil
}

func buildObservedPlan(matchings []Matching, n, m int, successW, failureW float64) *Plan {
	t := &Plan{Rows: n, Cols: m, Data: make([]float64, n*m)}
	for _, ma := range matchings {
		if ma.EventIdx < 0 || ma.EventIdx >= n || ma.VenueIdx < 0 || ma.VenueIdx >= m {
			continue
		}
		wgt := failureW
		if ma.Success {
			wgt = successW
		}
		t.Data[ma.EventIdx*m+ma.VenueIdx] += wgt
	}
	for i := 0; i < n; i++ {
		sum := t.RowSum(i)
		if sum <= 0 {
			for j := 0; j < m; j++ {
				t.Data[i*m+j] = 1.0 / float64(m)
			}
			continue
		}
		for j := 0; j < m; j++ {
			t.Data[i*m+j] /= sum
		}
	}
	return t
}

func inverseOTLoss(weights []float64, events []Event, venues []Venue, tObs *Plan, cfg SinkhornConfig) float64 {
	w := CostWeights{Capacity: weights[0], Price: weights[1], Amenity: weights[2], Location: weights[3]}
	c, err := BuildCostMatrix(events, venues, w)
	if err != nil {
		return math.Inf(1)
	}
	n, m := len(events), len(venues)
	res, err := Sinkhorn(uniformDist(n), uniformDist(m), c, cfg)
	if err != nil {
		return math.Inf(1)
	}
	loss := 0.0
	for i := range res.Plan.Data {
		d := res.Plan.Data[i] - tObs.Data[i]
		loss += d * d
	}
	return loss
}
