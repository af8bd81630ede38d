// Package config provides YAML-based tunnel configuration loading and
// difficulty management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid tunnel config")

// TunnelConfig contains all configuration for the tunnel runner.
type TunnelConfig struct {
	Physics    TunnelPhysics    `yaml:"physics"`
	Lane       TunnelLane       `yaml:"lane"`
	Scoring    TunnelScoring    `yaml:"scoring"`
	Rings      TunnelRings      `yaml:"rings"`
	Stages     []StageConfig    `yaml:"stages"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TunnelPhysics defines scroll speed and combo parameters.
type TunnelPhysics struct {
	BaseSpeed       float64 `yaml:"base_speed"`
	BonusSpeed      float64 `yaml:"bonus_speed"`
	ComboSpeedBonus float64 `yaml:"combo_speed_bonus"`
	ComboSpeedCap   float64 `yaml:"combo_speed_cap"`
	SpeedTau        float64 `yaml:"speed_tau"`
	RingSpacing     float64 `yaml:"ring_spacing"`
	ComboDecay      float64 `yaml:"combo_decay"`
}

// TunnelLane defines the lane spring and turn buffer.
type TunnelLane struct {
	QueueCap  int     `yaml:"queue_cap"`
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	Settle    float64 `yaml:"settle"`
}

// TunnelScoring defines the score weights.
type TunnelScoring struct {
	Distance  float64 `yaml:"distance"`
	NearMiss  float64 `yaml:"near_miss"`
	BestCombo float64 `yaml:"best_combo"`
}

// TunnelRings defines ring window sizing.
type TunnelRings struct {
	Lookahead   int `yaml:"lookahead"`
	KeepBehind  int `yaml:"keep_behind"`
	WarmupRings int `yaml:"warmup"`
	FixedSides  int `yaml:"fixed_sides"` // 0 keeps each stage's own side count
}

// StageConfig is one row of the stage table.
type StageConfig struct {
	FromRing          int     `yaml:"from_ring"`
	Sides             int     `yaml:"sides"`
	HoleDensity       float64 `yaml:"hole_density"`
	ObstacleDensity   float64 `yaml:"obstacle_density"`
	CollectibleChance float64 `yaml:"collectible_chance"`
	CoreChance        float64 `yaml:"core_chance"`
	MinOpen           int     `yaml:"min_open"`
	Tightness         float64 `yaml:"tightness"`
	StayChance        float64 `yaml:"stay_chance"`
	StepChance        float64 `yaml:"step_chance"`
	MaxDrift          int     `yaml:"max_drift"`
}

// DifficultyConfig defines the difficulty progression system.
// Enabled and InitialLevel are optional: when unset they come from the preset
// the run plays at, which is Preset if set and the mode's own preset otherwise.
type DifficultyConfig struct {
	Preset       DifficultyPreset  `yaml:"preset,omitempty"`
	Enabled      *bool             `yaml:"enabled,omitempty"`
	InitialLevel *float64          `yaml:"initial_level,omitempty"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
}

// ProgressionConfig defines how difficulty increases over a run.
type ProgressionConfig struct {
	Type  string  `yaml:"type"`   // "distance" or "none"
	MaxAt float64 `yaml:"max_at"` // Distance at which max difficulty is reached
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ParsePreset converts a preset name.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty preset %q", s)
	}
}

// Validate rejects values the simulation cannot run with.
// Stage-level checks (side counts, drift chances) are left to the ring generator.
func (c TunnelConfig) Validate() error {
	switch {
	case c.Physics.RingSpacing <= 0:
		return fmt.Errorf("%w: physics.ring_spacing must be positive", ErrInvalidConfig)
	case c.Physics.BaseSpeed <= 0:
		return fmt.Errorf("%w: physics.base_speed must be positive", ErrInvalidConfig)
	case c.Physics.BonusSpeed < 0 || c.Physics.ComboSpeedBonus < 0:
		return fmt.Errorf("%w: speed bonuses must not be negative", ErrInvalidConfig)
	case c.Lane.QueueCap < 1:
		return fmt.Errorf("%w: lane.queue_cap must be at least 1", ErrInvalidConfig)
	case c.Lane.Stiffness <= 0 || c.Lane.Damping < 0 || c.Lane.Settle <= 0:
		return fmt.Errorf("%w: lane spring parameters out of range", ErrInvalidConfig)
	case c.Rings.Lookahead < 1:
		return fmt.Errorf("%w: rings.lookahead must be at least 1", ErrInvalidConfig)
	case c.Rings.KeepBehind < 0 || c.Rings.WarmupRings < 0:
		return fmt.Errorf("%w: rings.keep_behind and rings.warmup must not be negative", ErrInvalidConfig)
	case len(c.Stages) == 0:
		return fmt.Errorf("%w: at least one stage is required", ErrInvalidConfig)
	case c.Difficulty.InitialLevel != nil && (*c.Difficulty.InitialLevel < 0 || *c.Difficulty.InitialLevel > 1):
		return fmt.Errorf("%w: difficulty.initial_level must be in [0, 1]", ErrInvalidConfig)
	}
	if c.Difficulty.Preset != "" {
		if _, err := ParsePreset(string(c.Difficulty.Preset)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	switch c.Difficulty.Progression.Type {
	case "distance", "none", "":
	default:
		return fmt.Errorf("%w: unknown progression type %q", ErrInvalidConfig, c.Difficulty.Progression.Type)
	}
	return nil
}
