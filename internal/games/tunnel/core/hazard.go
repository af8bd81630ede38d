package core

// HazardKind describes how a solid lane is presented.
// It never changes collision: any solid lane is lethal.
type HazardKind uint8

const (
	HazardNone    HazardKind = iota // Open lane
	HazardWall                      // Plain static wall
	HazardSpinner                   // Rotating blade
	HazardPulse                     // Wall that throbs on a timer
	HazardShard                     // Crystal spikes
	HazardLaser                     // Beam gate, late stages only

	hazardKindCount
)

// overlayKinds lists the kinds eligible for the obstacle overlay, in draw order.
var overlayKinds = [...]HazardKind{HazardSpinner, HazardPulse, HazardShard, HazardLaser}

// String returns a human-readable name for the hazard.
func (h HazardKind) String() string {
	switch h {
	case HazardNone:
		return "none"
	case HazardWall:
		return "wall"
	case HazardSpinner:
		return "spinner"
	case HazardPulse:
		return "pulse"
	case HazardShard:
		return "shard"
	case HazardLaser:
		return "laser"
	default:
		return "unknown"
	}
}

// Timed reports whether the hazard animates with a phase.
func (h HazardKind) Timed() bool {
	switch h {
	case HazardSpinner, HazardPulse, HazardLaser:
		return true
	case HazardNone, HazardWall, HazardShard:
		return false
	default:
		return false
	}
}

// weight returns the overlay weight of the hazard for a stage tightness in [0, 1].
// Lasers only appear once the stage is tight enough.
func (h HazardKind) weight(tightness float64) int {
	switch h {
	case HazardSpinner:
		return 4
	case HazardPulse:
		return 3
	case HazardShard:
		return 2 + int(tightness*3)
	case HazardLaser:
		if tightness < 0.5 {
			return 0
		}
		return int(tightness * 4)
	case HazardNone, HazardWall:
		return 0
	default:
		return 0
	}
}

// CollectibleKind identifies a pickup placed on an open lane.
type CollectibleKind uint8

const (
	CollectibleNone  CollectibleKind = iota
	CollectibleShard                 // Common pickup
	CollectibleCore                  // Rare pickup, placed opposite the safe lane
)

// String returns a human-readable name for the collectible.
func (c CollectibleKind) String() string {
	switch c {
	case CollectibleNone:
		return "none"
	case CollectibleShard:
		return "shard"
	case CollectibleCore:
		return "core"
	default:
		return "unknown"
	}
}

// LaneMeta is presentation metadata for one lane of a ring.
type LaneMeta struct {
	Hazard HazardKind
	Phase  float64 // Timing phase in [0, 1) for timed hazards
}
