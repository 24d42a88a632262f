package optim

import (
	"math"
	"sort"

	"github.com/dshills/venuecore/pkg/coreerr"
	"github.com/dshills/venuecore/pkg/mathutil"
	"github.com/dshills/venuecore/pkg/prng"
)

// CMAESConfig configures [CMAES]. Dim is inferred from Initial; Lambda
// defaults to the standard CMA-ES heuristic 4+floor(3 ln n) when left
// zero, and mu is always lambda/2 (at least 1).
type CMAESConfig struct {
	Seed           uint32  `yaml:"seed" json:"seed"`
	Sigma          float64 `yaml:"sigma" json:"sigma"`
	Lambda         int     `yaml:"lambda" json:"lambda"`
	MaxEvaluations int     `yaml:"maxEvaluations" json:"maxEvaluations"`
	ReflectBounds  bool    `yaml:"reflectBounds" json:"reflectBounds"`
}

// DefaultCMAESConfig returns standard CMA-ES defaults; Sigma is a
// fraction of the search range the caller should scale to its problem.
func DefaultCMAESConfig() CMAESConfig {
	return CMAESConfig{Sigma: 0.3, MaxEvaluations: 2000}
}

// CMAESResult is the outcome of a [CMAES] run.
type CMAESResult struct {
	BestState   Vector
	BestEnergy  float64
	Evaluations int
	Generations int
}

// CMAES minimizes energy starting from initial via covariance matrix
// adaptation evolution strategy (spec.md §4.3 "CMA-ES"): each generation
// samples lambda offspring x_k = m + sigma*C^(1/2)*z_k with z_k ~ N(0,I),
// evaluates and sorts them, recomputes the mean from the top mu, then
// updates sigma and C via the standard rank-one and rank-mu updates.
func CMAES(initial Vector, cfg CMAESConfig, energy EnergyFunc, bounds *Bounds) (CMAESResult, error) {
	n := len(initial)
	if n == 0 {
		return CMAESResult{}, coreerr.NewFieldError("initial", "must be non-empty")
	}
	if cfg.MaxEvaluations <= 0 {
		return CMAESResult{}, coreerr.NewFieldError("maxEvaluations", "must be positive")
	}
	sigma := cfg.Sigma
	if sigma <= 0 {
		sigma = 0.3
	}

	lambda := cfg.Lambda
	if lambda <= 0 {
		lambda = 4 + int(3*math.Log(float64(n)))
	}
	mu := lambda / 2
	if mu < 1 {
		mu = 1
	}

	weights := make([]float64, mu)
	wSum, wSqSum := 0.0, 0.0
	for i := 0; i < mu; i++ {
		w := math.Log(float64(mu)+0.5) - math.Log(float64(i)+1)
		weights[i] = w
		wSum += w
	}
	for i := range weights {
		weights[i] /= wSum
		wSqSum += weights[i] * weights[i]
	}
	muEff := 1.0 / wSqSum

	cSigma := (muEff + 2) / (float64(n) + muEff + 5)
	dSigma := 1 + 2*math.Max(0, math.Sqrt((muEff-1)/(float64(n)+1))-1) + cSigma
	cc := (4 + muEff/float64(n)) / (float64(n) + 4 + 2*muEff/float64(n))
	c1 := 2 / ((float64(n)+1.3)*(float64(n)+1.3) + muEff)
	cMu := math.Min(1-c1, 2*(muEff-2+1/muEff)/((float64(n)+2)*(float64(n)+2)+muEff))
	chiN := math.Sqrt(float64(n)) * (1 - 1.0/(4*float64(n)) + 1.0/(21*float64(n)*float64(n)))

	mean := initial.Clone()
	cov := identityMatrix(n)
	pSigma := make(Vector, n)
	pc := make(Vector, n)

	rng := prng.New(cfg.Seed)

	bestState := mean.Clone()
	bestEnergy := energy(bestState)
	evaluations := 1
	generation := 0

	for evaluations < cfg.MaxEvaluations {
		chol := cholesky(cov, n)

		type candidate struct {
			x      Vector
			z      Vector
			energy float64
		}
		pop := make([]candidate, lambda)
		for k := 0; k < lambda; k++ {
			z := make(Vector, n)
			for i := range z {
				z[i] = rng.Gaussian()
			}
			x := make(Vector, n)
			cz := matVecMul(chol, z, n)
			for i := range x {
				x[i] = mean[i] + sigma*cz[i]
			}
			bounds.clamp(x, cfg.ReflectBounds)
			pop[k] = candidate{x: x, z: z, energy: energy(x)}
			evaluations++
			if pop[k].energy < bestEnergy {
				bestEnergy = pop[k].energy
				bestState = x.Clone()
			}
			if evaluations >= cfg.MaxEvaluations {
				pop = pop[:k+1]
				break
			}
		}
		sort.Slice(pop, func(i, j int) bool { return pop[i].energy < pop[j].energy })
		if len(pop) < mu {
			break
		}

		newMean := make(Vector, n)
		zMean := make(Vector, n)
		for i := 0; i < mu; i++ {
			for d := 0; d < n; d++ {
				newMean[d] += weights[i] * pop[i].x[d]
				zMean[d] += weights[i] * pop[i].z[d]
			}
		}
		mean = newMean

		for i := range pSigma {
			pSigma[i] = (1-cSigma)*pSigma[i] + math.Sqrt(cSigma*(2-cSigma)*muEff)*zMean[i]
		}
		psNorm := 0.0
		for _, v := range pSigma {
			psNorm += v * v
		}
		psNorm = math.Sqrt(psNorm)
		sigma *= math.Exp((cSigma / dSigma) * (psNorm/chiN - 1))

		cChol := matVecMul(chol, zMean, n)
		for i := range pc {
			pc[i] = (1-cc)*pc[i] + math.Sqrt(cc*(2-cc)*muEff)*cChol[i]
		}

		rank1 := outerProduct(pc, pc, n)
		rankMu := make([]float64, n*n)
		for i := 0; i < mu; i++ {
			cz := matVecMul(chol, pop[i].z, n)
			op := outerProduct(cz, cz, n)
			for idx := range rankMu {
				rankMu[idx] += weights[i] * op[idx]
			}
		}
		for idx := range cov {
			cov[idx] = (1-c1-cMu)*cov[idx] + c1*rank1[idx] + cMu*rankMu[idx]
		}
		generation++
	}

	return CMAESResult{
		BestState:   bestState,
		BestEnergy:  bestEnergy,
		Evaluations: evaluations,
		Generations: generation,
	}, nil
}

func identityMatrix(n int) []float64 {
	m := make([]float64, n*n)
	for i := 0; i < n; i++ {
		m[i*n+i] = 1
	}
	return m
}

// cholesky computes a lower-triangular Cholesky factor of a. A diagonal
// pivot at or below mathutil.DenomFloor (which can occur transiently from
// floating point drift in the covariance update) is clamped to
// DenomFloor, so the factor stays finite when a is not positive definite.
func cholesky(a []float64, n int) []float64 {
	l := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := a[i*n+j]
			for k := 0; k < j; k++ {
				sum -= l[i*n+k] * l[j*n+k]
			}
			if i == j {
				if sum <= mathutil.DenomFloor {
					sum = mathutil.DenomFloor
				}
				l[i*n+j] = math.Sqrt(sum)
			} else {
				l[i*n+j] = sum / l[j*n+j]
			}
		}
	}
	return l
}

func matVecMul(m []float64, v Vector, n int) Vector {
	out := make(Vector, n)
	for i := 0; i < n; i++ {
		s := 0.0
		for j := 0; j < n; j++ {
			s += m[i*n+j] * v[j]
		}
		out[i] = s
	}
	return out
}

func outerProduct(a, b Vector, n int) []float64 {
	out := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out[i*n+j] = a[i] * b[j]
		}
	}
	return out
}
