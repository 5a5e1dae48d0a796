package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Mode selects how candidates are generated.
type Mode string

const (
	ModeAnnealed   Mode = "annealed"
	ModeExhaustive Mode = "exhaustive"
	ModeRandomized Mode = "randomized"
)

// Config holds the search tuning parameters. Adjust these to trade speed for solution quality.
type Config struct {
	Mode Mode `yaml:"mode" json:"mode"`
	// K is how many lowest-payout combinations are reported.
	K int `yaml:"k" json:"k"`
	// PoolSize is how many least-frequent values the exhaustive scan and the frequency-biased
	// seeds draw from.
	PoolSize int `yaml:"pool_size" json:"poolSize"`
	// Budget caps the candidates scanned in exhaustive and randomized mode. 0 means no cap.
	Budget int `yaml:"budget" json:"budget"`
	// Deadline bounds the search phase by wall clock. 0 means none.
	Deadline time.Duration `yaml:"deadline" json:"deadline"`
	// AnnealIters is the number of steps of one annealer run.
	AnnealIters int `yaml:"anneal_iters" json:"annealIters"`
	// T0 is the starting temperature, in payout units.
	T0 float64 `yaml:"t0" json:"t0"`
	// FreqSeeds is the number of seeds drawn from the least-frequent pool.
	FreqSeeds int `yaml:"freq_seeds" json:"freqSeeds"`
	// RandomSeeds is the number of seeds drawn from the whole domain.
	RandomSeeds int `yaml:"random_seeds" json:"randomSeeds"`
	// RefineIters is the greedy step budget per retained entry in the refinement pass.
	RefineIters int `yaml:"refine_iters" json:"refineIters"`
	// Workers is the number of parallel workers. 0 uses GOMAXPROCS.
	Workers int `yaml:"workers" json:"workers"`
	// Seed makes runs reproducible; each worker derives its own stream from it.
	Seed uint64 `yaml:"seed" json:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Mode:        ModeAnnealed,
		K:           10,
		PoolSize:    18,
		Budget:      200000,
		AnnealIters: 20000,
		T0:          500,
		FreqSeeds:   16,
		RandomSeeds: 16,
		RefineIters: 2000,
		Seed:        1,
	}
}

// LoadConfig overlays the YAML file at path onto DefaultConfig. Fields absent from the file keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	bad := func(field string, v any) error {
		return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, field, v)
	}
	switch c.Mode {
	case ModeAnnealed, ModeExhaustive, ModeRandomized:
	default:
		return bad("mode", c.Mode)
	}
	if c.K < 1 {
		return bad("k", c.K)
	}
	if c.PoolSize < ComboSize || c.PoolSize > DomainSize {
		return bad("pool_size", c.PoolSize)
	}
	if c.Budget < 0 {
		return bad("budget", c.Budget)
	}
	if c.Deadline < 0 {
		return bad("deadline", c.Deadline)
	}
	if c.Mode == ModeRandomized && c.Budget == 0 && c.Deadline == 0 {
		return fmt.Errorf("%w: randomized mode needs a budget or a deadline", ErrInvalidConfig)
	}
	if c.Mode == ModeAnnealed {
		if c.AnnealIters < 1 {
			return bad("anneal_iters", c.AnnealIters)
		}
		if c.FreqSeeds < 0 {
			return bad("freq_seeds", c.FreqSeeds)
		}
		if c.RandomSeeds < 0 {
			return bad("random_seeds", c.RandomSeeds)
		}
	}
	if c.T0 < 0 || math.IsNaN(c.T0) {
		return bad("t0", c.T0)
	}
	if c.RefineIters < 0 {
		return bad("refine_iters", c.RefineIters)
	}
	if c.Workers < 0 {
		return bad("workers", c.Workers)
	}
	return nil
}
