package config

import (
	"strings"
	"testing"
)

const sampleYAML = `
seed: 7
room:
  width: 12
  depth: 10
furniture:
  - kind: round-table
    width: 1.8
    depth: 1.8
    count: 6
  - kind: chair
    width: 0.5
    depth: 0.5
    count: 48
    chairsPerUnit: 8
`

func TestLoadConfigFromBytes_AppliesEngineDefaults(t *testing.T) {
	cfg, err := LoadConfigFromBytes([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Seed != 7 {
		t.Fatalf("expected seed 7, got %d", cfg.Seed)
	}
	if cfg.Solver.GridCellSize == 0 {
		t.Fatal("expected solver defaults to be applied")
	}
	if cfg.Matching.Sinkhorn.Epsilon == 0 {
		t.Fatal("expected sinkhorn defaults to be applied")
	}
	if cfg.Optim.CMAES.MaxEvaluations == 0 {
		t.Fatal("expected cmaes defaults to be applied")
	}
	if len(cfg.Furniture) != 2 {
		t.Fatalf("expected 2 furniture specs, got %d", len(cfg.Furniture))
	}
}

func TestLoadConfigFromBytes_GeneratesSeedWhenZero(t *testing.T) {
	yamlNoSeed := strings.Replace(sampleYAML, "seed: 7\n", "", 1)
	cfg, err := LoadConfigFromBytes([]byte(yamlNoSeed))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Seed == 0 {
		t.Fatal("expected a non-zero generated seed")
	}
}

func TestLoadConfigFromBytes_RejectsEmptyFurniture(t *testing.T) {
	_, err := LoadConfigFromBytes([]byte("seed: 1\nroom:\n  width: 10\n  depth: 10\n"))
	if err == nil {
		t.Fatal("expected error for missing furniture")
	}
}

func TestLoadConfigFromBytes_RejectsZeroRoom(t *testing.T) {
	_, err := LoadConfigFromBytes([]byte("seed: 1\nfurniture:\n  - kind: chair\n    count: 1\n"))
	if err == nil {
		t.Fatal("expected error for zero room dimensions")
	}
}

func TestLoadConfigFromBytes_RejectsMalformedYAML(t *testing.T) {
	_, err := LoadConfigFromBytes([]byte("seed: [not a scalar\n"))
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestConfig_ToYAMLRoundTrips(t *testing.T) {
	cfg, err := LoadConfigFromBytes([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := cfg.ToYAML()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reloaded, err := LoadConfigFromBytes(data)
	if err != nil {
		t.Fatalf("unexpected error reloading: %v", err)
	}
	if reloaded.Seed != cfg.Seed {
		t.Fatalf("seed mismatch after round trip: %d vs %d", reloaded.Seed, cfg.Seed)
	}
}

func TestConfig_HashIsDeterministic(t *testing.T) {
	cfg, err := LoadConfigFromBytes([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h1 := cfg.Hash()
	h2 := cfg.Hash()
	if string(h1) != string(h2) {
		t.Fatal("expected Hash to be deterministic for an unchanged config")
	}
	if len(h1) != 32 {
		t.Fatalf("expected a 32-byte SHA-256 digest, got %d bytes", len(h1))
	}
}

func TestConfig_HashDiffersOnSeedChange(t *testing.T) {
	cfg, err := LoadConfigFromBytes([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h1 := cfg.Hash()
	cfg.Seed = 99
	h2 := cfg.Hash()
	if string(h1) == string(h2) {
		t.Fatal("expected Hash to change when seed changes")
	}
}

func TestOptimCfg_RejectsInvalidCrossoverRate(t *testing.T) {
	cfg, err := LoadConfigFromBytes([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Optim.NSGA2.CrossoverRate = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range crossover rate")
	}
}

func TestMatchingCfg_RejectsZeroEpsilon(t *testing.T) {
	cfg, err := LoadConfigFromBytes([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg.Matching.Sinkhorn.Epsilon = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero sinkhorn epsilon")
	}
}
