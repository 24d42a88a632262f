package transport

import (
	"fmt"

	"github.com/dshills/venuecore/pkg/coreerr"
)

// InputError is returned when an optimal-transport input is malformed:
// empty or mismatched distributions, a negative entry, or a cost matrix
// whose dimensions do not match the distributions (spec.md §7).
type InputError = coreerr.FieldError

// Distribution is a dense non-negative vector, expected to sum to
// (approximately) 1. Zero entries are permitted.
type Distribution []float64

// CostMatrix is a dense row-major N x M matrix of non-negative, finite
// costs, N = len(Rows), each row of length M.
type CostMatrix struct {
	Rows, Cols int
	Data       []float64 // row-major, length Rows*Cols
}

// NewCostMatrix allocates a zeroed CostMatrix.
func NewCostMatrix(rows, cols int) *CostMatrix {
	return &CostMatrix{Rows: rows, Cols: cols, Data: make([]float64, rows*cols)}
}

// At returns C[i][j].
func (c *CostMatrix) At(i, j int) float64 {
	return c.Data[i*c.Cols+j]
}

// Set assigns C[i][j] = v.
func (c *CostMatrix) Set(i, j int, v float64) {
	c.Data[i*c.Cols+j] = v
}

// Plan is a dense row-major N x M transport plan, structurally identical
// to CostMatrix but kept as a distinct type for API clarity.
type Plan struct {
	Rows, Cols int
	Data       []float64
}

// At returns T[i][j].
func (p *Plan) At(i, j int) float64 {
	return p.Data[i*p.Cols+j]
}

// RowSum returns the sum of row i.
func (p *Plan) RowSum(i int) float64 {
	s := 0.0
	for j := 0; j < p.Cols; j++ {
		s += p.At(i, j)
	}
	return s
}

// ColSum returns the sum of column j.
func (p *Plan) ColSum(j int) float64 {
	s := 0.0
	for i := 0; i < p.Rows; i++ {
		s += p.At(i, j)
	}
	return s
}

// Cost returns the Frobenius inner product <T, C>.
func (p *Plan) Cost(c *CostMatrix) float64 {
	s := 0.0
	for i := range p.Data {
		s += p.Data[i] * c.Data[i]
	}
	return s
}

// Result is the full output of a Sinkhorn-family solve.
type Result struct {
	Plan       *Plan
	Cost       float64
	F, G       []float64 // dual potentials
	Iterations int
	Converged  bool
}

// SinkhornConfig configures [Sinkhorn] and [SinkhornLog].
type SinkhornConfig struct {
	Epsilon    float64 `yaml:"epsilon" json:"epsilon"`
	MaxIter    int     `yaml:"maxIter" json:"maxIter"`
	Tolerance  float64 `yaml:"tolerance" json:"tolerance"`
	CheckEvery int     `yaml:"checkEvery" json:"checkEvery"`
	Parallel   bool    `yaml:"parallel" json:"parallel"`
}

// DefaultSinkhornConfig returns the defaults named in spec.md §6.
func DefaultSinkhornConfig() SinkhornConfig {
	return SinkhornConfig{Epsilon: 0.01, MaxIter: 100, Tolerance: 1e-6, CheckEvery: 5}
}

func validateMarginals(a, b Distribution, c *CostMatrix) error {
	if len(a) == 0 {
		return coreerr.NewFieldError("a", "distribution must be non-empty")
	}
	if len(b) == 0 {
		return coreerr.NewFieldError("b", "distribution must be non-empty")
	}
	if c.Rows != len(a) || c.Cols != len(b) {
		return coreerr.NewFieldError("cost", fmt.Sprintf("expected %dx%d, got %dx%d", len(a), len(b), c.Rows, c.Cols))
	}
	for i, v := range a {
		if v < 0 {
			return coreerr.NewFieldError(fmt.Sprintf("a[%d]", i), "must be non-negative")
		}
	}
	for j, v := range b {
		if v < 0 {
			return coreerr.NewFieldError(fmt.Sprintf("b[%d]", j), "must be non-negative")
		}
	}
	for i, v := range c.Data {
		if v < 0 {
			return coreerr.NewFieldError(fmt.Sprintf("cost.data[%d]", i), "must be non-negative")
		}
	}
	return nil
}
