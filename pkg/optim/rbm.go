package optim

import (
	"math"

	"github.com/dshills/venuecore/pkg/coreerr"
	"github.com/dshills/venuecore/pkg/prng"
)

// RBM is a restricted Boltzmann machine with V visible and H hidden
// binary units, trained by contrastive divergence (spec.md §4.3 "RBM").
type RBM struct {
	visible int
	hidden  int
	weights []float64 // row-major V x H
	bVis    []float64 // visible biases, length V
	bHid    []float64 // hidden biases, length H
}

// NewRBM constructs an RBM with zero biases and small random weights
// drawn from rng.
func NewRBM(visible, hidden int, rng *prng.Source) (*RBM, error) {
	if visible <= 0 || hidden <= 0 {
		return nil, coreerr.NewFieldError("visible/hidden", "must be positive")
	}
	weights := make([]float64, visible*hidden)
	for i := range weights {
		weights[i] = rng.Gaussian() * 0.01
	}
	return &RBM{
		visible: visible,
		hidden:  hidden,
		weights: weights,
		bVis:    make([]float64, visible),
		bHid:    make([]float64, hidden),
	}, nil
}

// RBMTrainConfig configures [RBM.TrainCD].
type RBMTrainConfig struct {
	Seed         uint32  `yaml:"seed" json:"seed"`
	Epochs       int     `yaml:"epochs" json:"epochs"`
	CDSteps      int     `yaml:"cdSteps" json:"cdSteps"`
	LearningRate float64 `yaml:"learningRate" json:"learningRate"`
	WeightDecay  float64 `yaml:"weightDecay" json:"weightDecay"`
	Momentum     float64 `yaml:"momentum" json:"momentum"`
}

// DefaultRBMTrainConfig returns standard CD-k training defaults.
func DefaultRBMTrainConfig() RBMTrainConfig {
	return RBMTrainConfig{Epochs: 50, CDSteps: 1, LearningRate: 0.1, WeightDecay: 1e-4, Momentum: 0.5}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// HiddenProbabilities returns sigma(W^T v + c).
func (r *RBM) HiddenProbabilities(v []float64) []float64 {
	h := make([]float64, r.hidden)
	for j := 0; j < r.hidden; j++ {
		s := r.bHid[j]
		for i := 0; i < r.visible; i++ {
			s += r.weights[i*r.hidden+j] * v[i]
		}
		h[j] = sigmoid(s)
	}
	return h
}

// VisibleProbabilities returns sigma(W h + b).
func (r *RBM) VisibleProbabilities(h []float64) []float64 {
	v := make([]float64, r.visible)
	for i := 0; i < r.visible; i++ {
		s := r.bVis[i]
		for j := 0; j < r.hidden; j++ {
			s += r.weights[i*r.hidden+j] * h[j]
		}
		v[i] = sigmoid(s)
	}
	return v
}

func sampleBinary(probs []float64, rng *prng.Source) []float64 {
	out := make([]float64, len(probs))
	for i, p := range probs {
		if rng.Float64() < p {
			out[i] = 1
		}
	}
	return out
}

// TrainCD trains the RBM on batch (a slice of visible-unit vectors,
// each of length V) for cfg.Epochs epochs of cfg.CDSteps-step
// contrastive divergence.
func (r *RBM) TrainCD(batch [][]float64, cfg RBMTrainConfig) error {
	if len(batch) == 0 {
		return coreerr.NewFieldError("batch", "must be non-empty")
	}
	for _, v := range batch {
		if len(v) != r.visible {
			return coreerr.NewFieldError("batch", "every sample must have length equal to the visible unit count")
		}
	}
	steps := cfg.CDSteps
	if steps <= 0 {
		steps = 1
	}
	rng := prng.New(cfg.Seed)

	wVelocity := make([]float64, len(r.weights))
	bVisVelocity := make([]float64, r.visible)
	bHidVelocity := make([]float64, r.hidden)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for _, v0 := range batch {
			hProb0 := r.HiddenProbabilities(v0)
			h0 := sampleBinary(hProb0, rng)

			vK := v0
			hK := h0
			for k := 0; k < steps; k++ {
				vProb := r.VisibleProbabilities(hK)
				vK = sampleBinary(vProb, rng)
				hProbK := r.HiddenProbabilities(vK)
				hK = hProbK
			}

			for i := 0; i < r.visible; i++ {
				for j := 0; j < r.hidden; j++ {
					idx := i*r.hidden + j
					grad := v0[i]*hProb0[j] - vK[i]*hK[j] - cfg.WeightDecay*r.weights[idx]
					wVelocity[idx] = cfg.Momentum*wVelocity[idx] + cfg.LearningRate*grad
					r.weights[idx] += wVelocity[idx]
				}
			}
			for i := 0; i < r.visible; i++ {
				grad := v0[i] - vK[i]
				bVisVelocity[i] = cfg.Momentum*bVisVelocity[i] + cfg.LearningRate*grad
				r.bVis[i] += bVisVelocity[i]
			}
			for j := 0; j < r.hidden; j++ {
				grad := hProb0[j] - hK[j]
				bHidVelocity[j] = cfg.Momentum*bHidVelocity[j] + cfg.LearningRate*grad
				r.bHid[j] += bHidVelocity[j]
			}
		}
	}
	return nil
}

// Sample runs a Gibbs chain of up to steps alternations starting from
// v0 and returns the final visible-unit sample, stopping early once the
// joint energy of consecutive (v,h) states has stabilized.
func (r *RBM) Sample(v0 []float64, steps int, rng *prng.Source) []float64 {
	v := append([]float64(nil), v0...)
	prevEnergy := math.Inf(1)
	for s := 0; s < steps; s++ {
		h := sampleBinary(r.HiddenProbabilities(v), rng)
		v = sampleBinary(r.VisibleProbabilities(h), rng)
		e := r.Energy(v, h)
		if math.Abs(e-prevEnergy) < 1e-9 {
			break
		}
		prevEnergy = e
	}
	return v
}

// Reconstruct performs a single visible->hidden->visible pass,
// returning visible-unit probabilities (not a binary sample).
func (r *RBM) Reconstruct(v []float64) []float64 {
	h := r.HiddenProbabilities(v)
	return r.VisibleProbabilities(h)
}

// Energy computes the joint energy E(v,h) = -b_vis^T v - b_hid^T h -
// v^T W h that the RBM's conditional distributions (and hence its Gibbs
// sampler) are defined in terms of.
func (r *RBM) Energy(v, h []float64) float64 {
	e := 0.0
	for i, vi := range v {
		e -= r.bVis[i] * vi
	}
	for j, hj := range h {
		e -= r.bHid[j] * hj
	}
	for i, vi := range v {
		for j, hj := range h {
			e -= r.weights[i*r.hidden+j] * vi * hj
		}
	}
	return e
}

// FreeEnergy computes F(v) = -b^T v - sum_j log(1+exp((W^T v + c)_j)).
func (r *RBM) FreeEnergy(v []float64) float64 {
	vBiasTerm := 0.0
	for i, vi := range v {
		vBiasTerm += r.bVis[i] * vi
	}
	hiddenTerm := 0.0
	for j := 0; j < r.hidden; j++ {
		s := r.bHid[j]
		for i := 0; i < r.visible; i++ {
			s += r.weights[i*r.hidden+j] * v[i]
		}
		hiddenTerm += math.Log1p(math.Exp(s))
	}
	return -vBiasTerm - hiddenTerm
}

// GetWeights returns a copy of the weight matrix (row-major V x H) and
// the bias vectors.
func (r *RBM) GetWeights() (weights, bVis, bHid []float64) {
	return append([]float64(nil), r.weights...), append([]float64(nil), r.bVis...), append([]float64(nil), r.bHid...)
}

// SetWeights overwrites the RBM's parameters with copies of the given
// slices. Lengths must match the RBM's configured V/H; mismatches are a
// caller bug and panic rather than silently truncating.
func (r *RBM) SetWeights(weights, bVis, bHid []float64) {
	if len(weights) != len(r.weights) || len(bVis) != len(r.bVis) || len(bHid) != len(r.bHid) {
		panic("optim: SetWeights dimension mismatch")
	}
	copy(r.weights, weights)
	copy(r.bVis, bVis)
	copy(r.bHid, bHid)
}
