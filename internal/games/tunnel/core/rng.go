// Package core provides the procedural ring generator and the deterministic
// tunnel simulation. This package is UI-agnostic: it holds no global state,
// performs no I/O and never reads the wall clock, so a run is a pure function
// of its seed, its configuration and the ordered turn inputs.
package core

// mulberryIncrement is the Weyl sequence step used by Mulberry32.
const mulberryIncrement = 0x6D2B79F5

// RNG is a Mulberry32 pseudo-random generator.
// It is small, fast and fully determined by its 32-bit seed.
type RNG struct {
	state uint32
}

// NewRNG creates a generator seeded with the given value.
// Every uint32 (including zero) is a valid seed.
func NewRNG(seed uint32) *RNG {
	return &RNG{state: seed}
}

// Next returns the next 32-bit output.
func (r *RNG) Next() uint32 {
	r.state += mulberryIncrement
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float returns a random float64 in [0, 1).
func (r *RNG) Float() float64 {
	return float64(r.Next()) / 4294967296.0
}

// Intn returns a random int in [0, n). Returns 0 for n <= 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Float() * float64(n))
}

// Chance returns true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.Float() < p
}

// Sign returns -1 or +1 with equal probability.
func (r *RNG) Sign() int {
	if r.Float() < 0.5 {
		return -1
	}
	return 1
}

// WeightedPick returns an index chosen proportionally to weights.
// Non-positive weights are never chosen; if all weights are non-positive, 0 is returned.
func (r *RNG) WeightedPick(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return 0
	}

	roll := r.Intn(total)
	cumulative := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if roll < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// HashSeed mixes a master seed with an index into an independent stream seed.
// Multiplicative mixing in the style of a 32-bit integer finalizer.
func HashSeed(seed, index uint32) uint32 {
	h := seed ^ (index * 0x9E3779B1)
	h ^= h >> 16
	h *= 0x85EBCA6B
	h ^= h >> 13
	h *= 0xC2B2AE35
	h ^= h >> 16
	return h
}

// DeriveSeed returns the stream seed for (seed, index, salt).
// Different salts give unrelated streams for the same ring.
func DeriveSeed(seed uint32, index int, salt uint32) uint32 {
	return HashSeed(HashSeed(seed, uint32(index)), salt)
}
