package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Hash       HashConfig       `toml:"hash"`
	Linecast   LinecastConfig   `toml:"linecast"`
	Simulation SimulationConfig `toml:"simulation"`
	Logging    LoggingConfig    `toml:"logging"`
}

type HashConfig struct {
	ChunkSize float64 `toml:"chunk_size"` // world units per chunk side
}

type LinecastConfig struct {
	DefaultHitLimit int `toml:"default_hit_limit"` // 0 = unlimited
}

type SimulationConfig struct {
	Frames    int           `toml:"frames"`
	Bodies    int           `toml:"bodies"`
	WorldSize float64       `toml:"world_size"`
	Seed      int64         `toml:"seed"`
	Tick      time.Duration `toml:"tick"`   // simulated frame length, drives body speed
	Shapes    string        `toml:"shapes"` // YAML shape table; empty = built-in shapes
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Hash: HashConfig{
			ChunkSize: 64,
		},
		Linecast: LinecastConfig{
			DefaultHitLimit: 0,
		},
		Simulation: SimulationConfig{
			Frames:    600,
			Bodies:    200,
			WorldSize: 1024,
			Seed:      1,
			Tick:      16 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate rejects values the collision packages would refuse at construction
func (c *Config) Validate() error {
	if !(c.Hash.ChunkSize > 0) || math.IsInf(c.Hash.ChunkSize, 1) {
		return fmt.Errorf("hash.chunk_size must be positive, got %v", c.Hash.ChunkSize)
	}
	if c.Linecast.DefaultHitLimit < 0 {
		return fmt.Errorf("linecast.default_hit_limit must not be negative, got %d", c.Linecast.DefaultHitLimit)
	}
	if c.Simulation.Frames < 0 || c.Simulation.Bodies < 0 {
		return fmt.Errorf("simulation.frames and simulation.bodies must not be negative")
	}
	if !(c.Simulation.WorldSize > 0) {
		return fmt.Errorf("simulation.world_size must be positive, got %v", c.Simulation.WorldSize)
	}
	if c.Simulation.Tick <= 0 {
		return fmt.Errorf("simulation.tick must be positive, got %s", c.Simulation.Tick)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
