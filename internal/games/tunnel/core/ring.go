package core

import (
	"math"
	"math/bits"
)

// Salts separating the ring's random stream from other per-ring streams.
const saltRing uint32 = 0x52494E47 // "RING"

// Ring is one generated cross-section of the tunnel.
// Rings are plain comparable values: regenerating the same ring yields == output.
type Ring struct {
	Index     int
	Sides     int
	StageID   int
	SolidMask uint16 // Bit i set means lane i is blocked
	SafeLane  int    // Lane guaranteed open

	CollectibleLane int // -1 when the ring has no pickup
	Collectible     CollectibleKind

	Lanes [MaxSides]LaneMeta // Only the first Sides entries are meaningful
}

// Solid reports whether lane (wrapped into [0, Sides)) is blocked.
func (r Ring) Solid(lane int) bool {
	lane = WrapLane(lane, r.Sides)
	return r.SolidMask&(1<<uint(lane)) != 0
}

// OpenCount returns the number of open lanes.
func (r Ring) OpenCount() int {
	return r.Sides - bits.OnesCount16(r.SolidMask)
}

// OpenLanes returns the open lane indices in increasing order.
func (r Ring) OpenLanes() []int {
	lanes := make([]int, 0, r.Sides)
	for i := 0; i < r.Sides; i++ {
		if !r.Solid(i) {
			lanes = append(lanes, i)
		}
	}
	return lanes
}

// fullMask returns a mask with the low n bits set.
func fullMask(n int) uint16 {
	return uint16((1 << uint(n)) - 1)
}

// WrapLane wraps lane into [0, sides).
func WrapLane(lane, sides int) int {
	lane %= sides
	if lane < 0 {
		lane += sides
	}
	return lane
}

// laneDistance returns the circular distance between two lanes.
func laneDistance(a, b, sides int) int {
	d := WrapLane(a-b, sides)
	if d > sides-d {
		d = sides - d
	}
	return d
}

// RescaleLane maps a lane index between polygon orders, keeping its angle.
func RescaleLane(lane, fromSides, toSides int) int {
	if fromSides == toSides || fromSides <= 0 {
		return WrapLane(lane, toSides)
	}
	scaled := int(math.Round(float64(lane) * float64(toSides) / float64(fromSides)))
	return WrapLane(scaled, toSides)
}

// OpenRing returns a fully open ring, used for warm-up.
func OpenRing(index, sides, stageID, safeLane int) Ring {
	return Ring{
		Index:           index,
		Sides:           sides,
		StageID:         stageID,
		SafeLane:        WrapLane(safeLane, sides),
		CollectibleLane: -1,
	}
}

// GenerateRing builds ring index from the previous ring's safe lane and side count.
//
// The ring draws from its own stream seeded by DeriveSeed(seed, index), so the
// output is a pure function of the arguments. Because prevSafe comes from the
// previous ring, callers that want a whole tunnel must generate in index order.
// Draw order is fixed: drift, hole target, carve, floor, overlay, collectible.
func GenerateRing(seed uint32, index, prevSafe, prevSides int, st Stage) (Ring, error) {
	if err := st.Validate(); err != nil {
		return Ring{}, err
	}
	sides := st.Sides
	rng := NewRNG(DeriveSeed(seed, index, saltRing))

	ring := Ring{
		Index:           index,
		Sides:           sides,
		StageID:         st.ID,
		CollectibleLane: -1,
	}

	// 1. Drift the safe lane from the previous ring (bounded random walk).
	anchor := RescaleLane(prevSafe, prevSides, sides)
	ring.SafeLane = WrapLane(anchor+pickDrift(rng, st), sides)

	// 2. Hole target: density x sides, jittered by one lane.
	target := 0
	if st.HoleDensity > 0 {
		target = int(math.Round(st.HoleDensity*float64(sides))) + rng.Intn(3) - 1
	}
	target = clampInt(target, 0, sides-1)

	// 3. Start solid and carve holes.
	mask := fullMask(sides)
	skipNear := lerp(0.55, 0.1, clampFloat(st.Tightness, 0, 1))
	holes := 0
	guard := sides * 7
	for attempt := 0; holes < target && attempt < guard; attempt++ {
		lane := rng.Intn(sides)
		if lane == ring.SafeLane {
			continue // opened unconditionally below; never counts as a hole
		}
		bit := uint16(1) << uint(lane)
		if mask&bit == 0 {
			continue
		}
		if laneDistance(lane, ring.SafeLane, sides) <= 1 && rng.Chance(skipNear) {
			continue
		}
		mask &^= bit
		holes++
	}

	// 4. Passability guarantee.
	mask &^= uint16(1) << uint(ring.SafeLane)

	// 5. Open-lane floor.
	open := sides - bits.OnesCount16(mask)
	guard = sides * 4
	for attempt := 0; open < st.MinOpen && attempt < guard; attempt++ {
		bit := uint16(1) << uint(rng.Intn(sides))
		if mask&bit != 0 {
			mask &^= bit
			open++
		}
	}
	ring.SolidMask = mask

	// 6. Presentation overlay and pickup; neither touches SolidMask.
	decorate(rng, &ring, st)
	placeCollectible(rng, &ring, st)

	return ring, nil
}

// pickDrift returns the signed safe-lane offset for the next ring.
func pickDrift(rng *RNG, st Stage) int {
	roll := rng.Float()
	switch {
	case roll < st.StayChance:
		return 0
	case roll < st.StayChance+st.StepChance || st.MaxDrift < 2:
		return rng.Sign()
	default:
		return 2 * rng.Sign()
	}
}

// decorate assigns hazard kinds and phases to solid lanes.
func decorate(rng *RNG, ring *Ring, st Stage) {
	weights := make([]int, len(overlayKinds))
	for i, k := range overlayKinds {
		weights[i] = k.weight(st.Tightness)
	}

	for lane := 0; lane < ring.Sides; lane++ {
		if !ring.Solid(lane) {
			continue
		}
		meta := LaneMeta{Hazard: HazardWall}
		if rng.Chance(st.ObstacleDensity) {
			meta.Hazard = overlayKinds[rng.WeightedPick(weights)]
			if meta.Hazard.Timed() {
				meta.Phase = rng.Float()
			}
		}
		ring.Lanes[lane] = meta
	}
}

// placeCollectible optionally puts one pickup on an open lane.
// The rare core prefers the lane opposite the safe lane.
func placeCollectible(rng *RNG, ring *Ring, st Stage) {
	if !rng.Chance(st.CollectibleChance) {
		return
	}
	open := ring.OpenLanes()

	if rng.Chance(st.CoreChance) {
		opposite := WrapLane(ring.SafeLane+ring.Sides/2, ring.Sides)
		ring.Collectible = CollectibleCore
		if !ring.Solid(opposite) {
			ring.CollectibleLane = opposite
		} else {
			ring.CollectibleLane = open[rng.Intn(len(open))]
		}
		return
	}

	ring.Collectible = CollectibleShard
	ring.CollectibleLane = open[rng.Intn(len(open))]
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
