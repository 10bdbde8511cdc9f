// Package config provides configuration loading and validation for the
// physics simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Physics PhysicsConfig `yaml:"physics"`
}

// PhysicsConfig holds the physics core parameters.
type PhysicsConfig struct {
	SpatialHashCellSize    float32       `yaml:"spatial_hash_cell_size"`   // grid cell edge length, world units
	PhysicsPerSecond       int           `yaml:"physics_per_second"`       // fixed ticks per second
	MaxCollisionIterations int           `yaml:"max_collision_iterations"` // narrow-phase pass cap per tick
	MaxAccumulator         float32       `yaml:"max_accumulator"`          // catch-up cap, seconds
	MinPenetration         float32       `yaml:"min_penetration"`          // positional correction threshold
	Gravity                GravityConfig `yaml:"gravity"`
}

type GravityConfig struct {
	DirectionX float32 `yaml:"direction_x"`
	DirectionY float32 `yaml:"direction_y"`
	Scale      float32 `yaml:"scale"`
}

// Default returns the embedded default configuration.
func Default() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load reads a YAML file over the embedded defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate fails fast on values that would corrupt the simulation. Bad
// configuration is a host contract violation, caught here rather than
// degrading silently during simulation.
func (c Config) Validate() error {
	p := c.Physics
	if p.SpatialHashCellSize <= 0 {
		return fmt.Errorf("spatial_hash_cell_size must be > 0, got %v", p.SpatialHashCellSize)
	}
	if p.PhysicsPerSecond <= 0 {
		return fmt.Errorf("physics_per_second must be > 0, got %d", p.PhysicsPerSecond)
	}
	if p.MaxCollisionIterations <= 0 {
		return fmt.Errorf("max_collision_iterations must be > 0, got %d", p.MaxCollisionIterations)
	}
	if p.MaxAccumulator < 0 {
		return fmt.Errorf("max_accumulator must be >= 0, got %v", p.MaxAccumulator)
	}
	if p.MinPenetration < 0 {
		return fmt.Errorf("min_penetration must be >= 0, got %v", p.MinPenetration)
	}
	return nil
}
