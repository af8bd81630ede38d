package config

import (
	_ "embed"
)

//go:embed defaults/tunnel.yaml
var defaultTunnelYAML []byte

// DefaultTunnelConfig returns the default tunnel configuration.
// It mirrors defaults/tunnel.yaml and is used when the embedded file cannot be parsed.
func DefaultTunnelConfig() TunnelConfig {
	return TunnelConfig{
		Physics: TunnelPhysics{
			BaseSpeed:       18,
			BonusSpeed:      22,
			ComboSpeedBonus: 0.6,
			ComboSpeedCap:   10,
			SpeedTau:        0.8,
			RingSpacing:     12,
			ComboDecay:      0.5,
		},
		Lane: TunnelLane{
			QueueCap:  6,
			Stiffness: 260,
			Damping:   20,
			Settle:    0.35,
		},
		Scoring: TunnelScoring{
			Distance:  1,
			NearMiss:  25,
			BestCombo: 50,
		},
		Rings: TunnelRings{
			Lookahead:   24,
			KeepBehind:  4,
			WarmupRings: 3,
		},
		Stages: []StageConfig{
			{FromRing: 0, Sides: 8, HoleDensity: 0.5, ObstacleDensity: 0.15, CollectibleChance: 0.15, CoreChance: 0.1, MinOpen: 3, Tightness: 0.0, StayChance: 0.6, StepChance: 0.4, MaxDrift: 1},
			{FromRing: 40, Sides: 8, HoleDensity: 0.4, ObstacleDensity: 0.25, CollectibleChance: 0.15, CoreChance: 0.12, MinOpen: 2, Tightness: 0.25, StayChance: 0.5, StepChance: 0.5, MaxDrift: 1},
			{FromRing: 100, Sides: 10, HoleDensity: 0.35, ObstacleDensity: 0.35, CollectibleChance: 0.18, CoreChance: 0.15, MinOpen: 2, Tightness: 0.5, StayChance: 0.45, StepChance: 0.45, MaxDrift: 2},
			{FromRing: 200, Sides: 12, HoleDensity: 0.3, ObstacleDensity: 0.45, CollectibleChance: 0.2, CoreChance: 0.18, MinOpen: 2, Tightness: 0.75, StayChance: 0.4, StepChance: 0.45, MaxDrift: 2},
			{FromRing: 350, Sides: 12, HoleDensity: 0.22, ObstacleDensity: 0.6, CollectibleChance: 0.22, CoreChance: 0.2, MinOpen: 1, Tightness: 1.0, StayChance: 0.35, StepChance: 0.45, MaxDrift: 2},
		},
		Difficulty: DifficultyConfig{
			Progression: ProgressionConfig{
				Type:  "distance",
				MaxAt: 4000,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML, used by `tunnel config dump`.
func GetDefaultYAML() []byte {
	return defaultTunnelYAML
}
