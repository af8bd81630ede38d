package tunnel

import (
	"fmt"

	"github.com/vovakirdan/tunnel-runner/internal/config"
	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
)

// PresetForMode returns the difficulty preset a mode plays at.
func PresetForMode(m core.Mode) config.DifficultyPreset {
	switch m {
	case core.ModeDaily:
		return config.DifficultyNormal
	case core.ModeHardcore:
		return config.DifficultyHard
	default:
		return config.DifficultyEasy
	}
}

// PresetFor returns the preset a run of mode plays at under cfg.
// A preset named in the config applies to every mode.
func PresetFor(cfg config.TunnelConfig, m core.Mode) config.DifficultyPreset {
	if cfg.Difficulty.Preset != "" {
		return cfg.Difficulty.Preset
	}
	return PresetForMode(m)
}

// BuildOptions turns a loaded config into engine options for one run.
// The same config, mode and seed always yield the same options, which is what
// lets a stored replay be verified later.
func BuildOptions(cfg config.TunnelConfig, mode core.Mode, seed uint32) (core.Options, error) {
	if !mode.Valid() {
		return core.Options{}, fmt.Errorf("tunnel: unknown mode %d", mode)
	}
	if err := cfg.Validate(); err != nil {
		return core.Options{}, err
	}

	config.ApplyTunnelPreset(&cfg, PresetFor(cfg, mode))
	dm := config.NewDifficultyManager(cfg.Difficulty)

	stages := make(core.StageTable, len(cfg.Stages))
	for i, s := range cfg.Stages {
		stages[i] = core.Stage{
			ID:                i,
			FromRing:          s.FromRing,
			Sides:             s.Sides,
			HoleDensity:       s.HoleDensity,
			ObstacleDensity:   s.ObstacleDensity,
			CollectibleChance: s.CollectibleChance,
			CoreChance:        s.CoreChance,
			MinOpen:           s.MinOpen,
			Tightness:         s.Tightness,
			StayChance:        s.StayChance,
			StepChance:        s.StepChance,
			MaxDrift:          s.MaxDrift,
		}
	}
	if cfg.Rings.FixedSides > 0 {
		stages = stages.WithFixedSides(cfg.Rings.FixedSides)
	}
	if err := stages.Validate(); err != nil {
		return core.Options{}, fmt.Errorf("tunnel: stage table: %w", err)
	}

	return core.Options{
		Seed: seed,
		Mode: mode,
		Physics: core.Physics{
			BaseSpeed:       cfg.Physics.BaseSpeed,
			BonusSpeed:      cfg.Physics.BonusSpeed,
			ComboSpeedBonus: cfg.Physics.ComboSpeedBonus,
			ComboSpeedCap:   cfg.Physics.ComboSpeedCap,
			SpeedTau:        cfg.Physics.SpeedTau,
			RampDistance:    dm.RampDistance(),
			RingSpacing:     cfg.Physics.RingSpacing,
			ComboDecay:      cfg.Physics.ComboDecay,
			LookaheadRings:  cfg.Rings.Lookahead,
		},
		Lane: core.LaneParams{
			QueueCap:  cfg.Lane.QueueCap,
			Stiffness: cfg.Lane.Stiffness,
			Damping:   cfg.Lane.Damping,
			Settle:    cfg.Lane.Settle,
		},
		Scoring: core.ScoreWeights{
			Distance:  cfg.Scoring.Distance,
			NearMiss:  cfg.Scoring.NearMiss,
			BestCombo: cfg.Scoring.BestCombo,
		},
		Stages: stages,
		Window: core.WindowOptions{
			WarmupRings: cfg.Rings.WarmupRings,
			KeepBehind:  cfg.Rings.KeepBehind,
		},
		InitialDifficulty: dm.InitialLevel(),
	}, nil
}
