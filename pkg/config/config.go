package config

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/venuecore/pkg/layout"
	"github.com/dshills/venuecore/pkg/optim"
	"github.com/dshills/venuecore/pkg/transport"
)

// Config specifies a full venuecore scenario: the room/furniture request
// for the layout solver, the cost-matching setup for the transport
// engines, and the tunables for the stochastic optimizers. It supports
// YAML parsing and cascading validation.
type Config struct {
	// Seed is the master seed for deterministic generation. Use 0 to
	// auto-generate from current time.
	Seed uint32 `yaml:"seed" json:"seed"`

	// Room describes the venue to lay furniture out in.
	Room layout.Room `yaml:"room" json:"room"`

	// Furniture lists the specs the layout solver must place.
	Furniture []layout.FurnitureSpec `yaml:"furniture" json:"furniture"`

	// Solver configures the constraint layout solver (pkg/layout).
	Solver layout.SolverOptions `yaml:"solver" json:"solver"`

	// Matching configures the venue/event cost-matrix and Sinkhorn
	// matching stage (pkg/transport).
	Matching MatchingCfg `yaml:"matching" json:"matching"`

	// Optim configures the stochastic optimizers and samplers
	// (pkg/optim) used for layout refinement and multi-objective search.
	Optim OptimCfg `yaml:"optim" json:"optim"`
}

// MatchingCfg groups the transport-engine tunables.
type MatchingCfg struct {
	// Weights fuses the four venue/event feature distances.
	Weights transport.CostWeights `yaml:"weights" json:"weights"`

	// Sinkhorn configures the entropic OT solver used for matching and
	// divergence computations.
	Sinkhorn transport.SinkhornConfig `yaml:"sinkhorn" json:"sinkhorn"`

	// Barycenter configures fixed-support Wasserstein barycenters over
	// multiple venue-preference distributions.
	Barycenter transport.BarycenterConfig `yaml:"barycenter" json:"barycenter"`

	// InverseOT configures cost-weight learning from observed matchings.
	InverseOT transport.InverseOTConfig `yaml:"inverseOT" json:"inverseOT"`
}

// OptimCfg groups the stochastic-optimizer tunables.
type OptimCfg struct {
	CMAES optim.CMAESConfig    `yaml:"cmaes" json:"cmaes"`
	NSGA2 optim.NSGA2Config    `yaml:"nsga2" json:"nsga2"`
	MH    optim.MHConfig       `yaml:"mh" json:"mh"`
	HMC   optim.HMCConfig      `yaml:"hmc" json:"hmc"`
	RBM   optim.RBMTrainConfig `yaml:"rbm" json:"rbm"`
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes parses YAML configuration from a byte slice.
// Useful for testing and programmatic config generation.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if cfg.Seed == 0 {
		cfg.Seed = generateSeed()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

// Default returns a Config seeded with each engine's documented
// defaults; the caller overrides Room, Furniture, and whichever
// sub-config fields its scenario needs.
func Default() Config {
	return Config{
		Solver: layout.DefaultSolverOptions(),
		Matching: MatchingCfg{
			Weights:    transport.DefaultCostWeights(),
			Sinkhorn:   transport.DefaultSinkhornConfig(),
			Barycenter: transport.DefaultBarycenterConfig(),
			InverseOT:  transport.DefaultInverseOTConfig(),
		},
		Optim: OptimCfg{
			CMAES: optim.DefaultCMAESConfig(),
			NSGA2: optim.DefaultNSGA2Config(),
			MH:    optim.DefaultMHConfig(),
			HMC:   optim.DefaultHMCConfig(),
			RBM:   optim.DefaultRBMTrainConfig(),
		},
	}
}

// Validate checks all configuration constraints, delegating to each
// engine's own validation where one exists and applying scenario-level
// checks (room dimensions, furniture list) otherwise.
func (c *Config) Validate() error {
	if c.Room.Width <= 0 || c.Room.Depth <= 0 {
		return fmt.Errorf("room: width and depth must be positive, got %fx%f", c.Room.Width, c.Room.Depth)
	}
	if len(c.Furniture) == 0 {
		return errors.New("furniture: at least one spec must be specified")
	}
	for i, spec := range c.Furniture {
		if spec.Count < 0 {
			return fmt.Errorf("furniture[%d]: count must be non-negative, got %d", i, spec.Count)
		}
	}
	if c.Solver.GridCellSize <= 0 {
		return errors.New("solver: gridCellSize must be positive")
	}
	if c.Solver.AnnealingIterations < 0 {
		return errors.New("solver: annealingIterations must be non-negative")
	}
	if err := c.Matching.Validate(); err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	if err := c.Optim.Validate(); err != nil {
		return fmt.Errorf("optim: %w", err)
	}
	return nil
}

// Validate checks the transport-side tunables fall within sane ranges.
func (m *MatchingCfg) Validate() error {
	sum := m.Weights.Capacity + m.Weights.Price + m.Weights.Amenity + m.Weights.Location
	if sum <= 0 {
		return errors.New("weights: at least one feature weight must be positive")
	}
	if m.Sinkhorn.Epsilon <= 0 {
		return errors.New("sinkhorn: epsilon must be positive")
	}
	if m.Sinkhorn.MaxIter <= 0 {
		return errors.New("sinkhorn: maxIter must be positive")
	}
	if m.Barycenter.Epsilon <= 0 {
		return errors.New("barycenter: epsilon must be positive")
	}
	if m.InverseOT.Iterations < 0 {
		return errors.New("inverseOT: iterations must be non-negative")
	}
	return nil
}

// Validate checks the optimizer tunables fall within sane ranges.
func (o *OptimCfg) Validate() error {
	if o.CMAES.Sigma <= 0 {
		return errors.New("cmaes: sigma must be positive")
	}
	if o.CMAES.MaxEvaluations <= 0 {
		return errors.New("cmaes: maxEvaluations must be positive")
	}
	if o.NSGA2.Generations <= 0 {
		return errors.New("nsga2: generations must be positive")
	}
	if o.NSGA2.CrossoverRate < 0 || o.NSGA2.CrossoverRate > 1 {
		return fmt.Errorf("nsga2: crossoverRate must be in [0,1], got %f", o.NSGA2.CrossoverRate)
	}
	if o.MH.Samples <= 0 {
		return errors.New("mh: samples must be positive")
	}
	if o.MH.Temperature <= 0 {
		return errors.New("mh: temperature must be positive")
	}
	if o.HMC.Samples <= 0 {
		return errors.New("hmc: samples must be positive")
	}
	if o.HMC.LeapfrogSteps <= 0 {
		return errors.New("hmc: leapfrogSteps must be positive")
	}
	if o.RBM.Epochs < 0 {
		return errors.New("rbm: epochs must be non-negative")
	}
	return nil
}

// ToYAML serializes the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Hash computes a deterministic SHA-256 digest of the configuration's
// YAML encoding, or of Seed alone if encoding fails. No engine seed in
// this module is derived from it.
func (c *Config) Hash() []byte {
	data, err := c.ToYAML()
	if err != nil {
		h := sha256.New()
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], c.Seed)
		h.Write(buf[:])
		return h.Sum(nil)
	}

	h := sha256.New()
	h.Write(data)
	return h.Sum(nil)
}

// generateSeed derives a seed from the current time when the scenario
// leaves Seed at zero.
func generateSeed() uint32 {
	now := time.Now().UnixNano()
	if now < 0 {
		now = -now
	}
	seed := uint32(now)
	if seed == 0 {
		seed = 1
	}
	return seed
}
