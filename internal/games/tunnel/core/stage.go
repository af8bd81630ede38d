package core

import (
	"errors"
	"fmt"
)

// MaxSides is the largest supported polygon order.
const MaxSides = 12

// Stage errors.
var (
	ErrUnsupportedSides = errors.New("tunnel: unsupported side count")
	ErrEmptyStageTable  = errors.New("tunnel: stage table is empty")
	ErrStageOrder       = errors.New("tunnel: stage thresholds must start at 0 and increase")
)

// SupportedSides reports whether n is a valid lane count.
func SupportedSides(n int) bool {
	switch n {
	case 6, 8, 10, 12:
		return true
	default:
		return false
	}
}

// Stage is a difficulty profile applied to every ring from FromRing onwards.
type Stage struct {
	ID       int
	FromRing int // First ring index using this stage
	Sides    int // Lane count, one of 6, 8, 10, 12

	HoleDensity       float64 // Fraction of lanes carved open
	ObstacleDensity   float64 // Fraction of solid lanes receiving a hazard overlay
	CollectibleChance float64 // Chance a ring carries a pickup
	CoreChance        float64 // Chance a pickup is the rare core kind
	MinOpen           int     // Open-lane floor after carving
	Tightness         float64 // 0 = generous, 1 = tight

	// Safe-lane drift tiers. The remainder after Stay+Step is the leap tier.
	StayChance float64
	StepChance float64
	MaxDrift   int // 1 or 2; leaps of ±2 need MaxDrift >= 2
}

// Validate checks the stage for values the generator cannot honor.
func (s Stage) Validate() error {
	if !SupportedSides(s.Sides) {
		return fmt.Errorf("%w: stage %d has %d sides", ErrUnsupportedSides, s.ID, s.Sides)
	}
	if s.MinOpen < 0 || s.MinOpen >= s.Sides {
		return fmt.Errorf("tunnel: stage %d min_open %d out of range", s.ID, s.MinOpen)
	}
	if s.HoleDensity < 0 || s.HoleDensity > 1 {
		return fmt.Errorf("tunnel: stage %d hole_density %v out of range", s.ID, s.HoleDensity)
	}
	if s.StayChance < 0 || s.StepChance < 0 || s.StayChance+s.StepChance > 1 {
		return fmt.Errorf("tunnel: stage %d drift chances invalid", s.ID)
	}
	return nil
}

// StageTable is an ordered list of stages keyed by ring threshold.
type StageTable []Stage

// Validate checks that the table is non-empty, starts at ring 0 and is strictly increasing.
func (t StageTable) Validate() error {
	if len(t) == 0 {
		return ErrEmptyStageTable
	}
	if t[0].FromRing != 0 {
		return ErrStageOrder
	}
	for i, s := range t {
		if i > 0 && s.FromRing <= t[i-1].FromRing {
			return ErrStageOrder
		}
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the last stage whose threshold is <= index.
// Indices beyond the final threshold keep using the final stage.
func (t StageTable) Lookup(index int) Stage {
	stage := t[0]
	for _, s := range t {
		if s.FromRing > index {
			break
		}
		stage = s
	}
	return stage
}

// WithFixedSides returns a copy of the table with every stage forced to n sides.
func (t StageTable) WithFixedSides(n int) StageTable {
	out := make(StageTable, len(t))
	copy(out, t)
	for i := range out {
		out[i].Sides = n
		if out[i].MinOpen >= n {
			out[i].MinOpen = n - 1
		}
	}
	return out
}

// DefaultStages returns the built-in progression.
func DefaultStages() StageTable {
	return StageTable{
		{ID: 0, FromRing: 0, Sides: 8, HoleDensity: 0.5, ObstacleDensity: 0.15, CollectibleChance: 0.15, CoreChance: 0.1, MinOpen: 3, Tightness: 0.0, StayChance: 0.6, StepChance: 0.4, MaxDrift: 1},
		{ID: 1, FromRing: 40, Sides: 8, HoleDensity: 0.4, ObstacleDensity: 0.25, CollectibleChance: 0.15, CoreChance: 0.12, MinOpen: 2, Tightness: 0.25, StayChance: 0.5, StepChance: 0.5, MaxDrift: 1},
		{ID: 2, FromRing: 100, Sides: 10, HoleDensity: 0.35, ObstacleDensity: 0.35, CollectibleChance: 0.18, CoreChance: 0.15, MinOpen: 2, Tightness: 0.5, StayChance: 0.45, StepChance: 0.45, MaxDrift: 2},
		{ID: 3, FromRing: 200, Sides: 12, HoleDensity: 0.3, ObstacleDensity: 0.45, CollectibleChance: 0.2, CoreChance: 0.18, MinOpen: 2, Tightness: 0.75, StayChance: 0.4, StepChance: 0.45, MaxDrift: 2},
		{ID: 4, FromRing: 350, Sides: 12, HoleDensity: 0.22, ObstacleDensity: 0.6, CollectibleChance: 0.22, CoreChance: 0.2, MinOpen: 1, Tightness: 1.0, StayChance: 0.35, StepChance: 0.45, MaxDrift: 2},
	}
}
