package config

import "math"

// DifficultyManager resolves the difficulty ramp of a run.
// The level itself is interpolated by the simulation from InitialLevel to 1.0
// over RampDistance.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
// Unset fields default to an enabled ramp starting at level 0.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	level := 0.0
	if cfg.InitialLevel != nil {
		level = *cfg.InitialLevel
	}
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampF(level, 0.0, 1.0),
	}
}

// InitialLevel returns the level at distance 0.
func (d *DifficultyManager) InitialLevel() float64 {
	return d.initialLevel
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	enabled := d.cfg.Enabled == nil || *d.cfg.Enabled
	return enabled && d.cfg.Progression.Type != "none" && d.cfg.Progression.MaxAt > 0
}

// RampDistance returns the distance over which the level climbs to 1.0,
// or 0 when progression is disabled.
func (d *DifficultyManager) RampDistance() float64 {
	if !d.IsEnabled() {
		return 0
	}
	return d.cfg.Progression.MaxAt
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
