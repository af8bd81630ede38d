package core

import (
	"errors"
	"fmt"
)

// Window errors. All of them indicate a caller bug rather than a runtime condition.
var (
	ErrWindowNotReady = errors.New("tunnel: ring window used before reset")
	ErrNegativeIndex  = errors.New("tunnel: negative ring index")
	ErrNotGenerated   = errors.New("tunnel: ring not generated yet")
	ErrEvicted        = errors.New("tunnel: ring already evicted")
)

// WindowOptions tunes ring retention and warm-up.
type WindowOptions struct {
	WarmupRings int // Leading rings generated fully open
	KeepBehind  int // Rings retained behind the eviction point
}

// Window memoizes the sequential ring generator.
//
// Generation is strictly ordered: ring i consumes ring i-1's safe lane, so the
// only way to produce rings is EnsureGeneratedThrough, which folds forward from
// the last generated index. Ring is a pure lookup and never generates.
type Window struct {
	seed   uint32
	stages StageTable
	opts   WindowOptions

	rings       []Ring // rings[0] holds index base
	base        int
	generatedTo int // Highest generated index, -1 when empty
	prevSafe    int
	prevSides   int
	ready       bool
}

// NewWindow creates a window over the given stage table.
// The window must be Reset before use.
func NewWindow(stages StageTable, opts WindowOptions) (*Window, error) {
	if err := stages.Validate(); err != nil {
		return nil, err
	}
	if opts.KeepBehind < 0 {
		opts.KeepBehind = 0
	}
	return &Window{
		stages:      stages,
		opts:        opts,
		generatedTo: -1,
	}, nil
}

// Reset clears the cache and rewinds generation for a new seed.
// The carried safe lane restarts at half the initial side count.
func (w *Window) Reset(seed uint32) {
	first := w.stages.Lookup(0)
	w.seed = seed
	w.rings = w.rings[:0]
	w.base = 0
	w.generatedTo = -1
	w.prevSides = first.Sides
	w.prevSafe = DefaultLane(first.Sides)
	w.ready = true
}

// DefaultLane is the lane the runner starts on for a given side count.
func DefaultLane(sides int) int {
	return sides / 2
}

// Seed returns the seed of the current generation.
func (w *Window) Seed() uint32 {
	return w.seed
}

// GeneratedTo returns the highest generated ring index, or -1.
func (w *Window) GeneratedTo() int {
	return w.generatedTo
}

// EnsureGeneratedThrough generates rings generatedTo+1 .. index in increasing order.
// Already generated rings are left untouched.
func (w *Window) EnsureGeneratedThrough(index int) error {
	if !w.ready {
		return ErrWindowNotReady
	}
	if index < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeIndex, index)
	}

	for next := w.generatedTo + 1; next <= index; next++ {
		ring, err := w.generate(next)
		if err != nil {
			return err
		}
		w.rings = append(w.rings, ring)
		w.generatedTo = next
		w.prevSafe = ring.SafeLane
		w.prevSides = ring.Sides
	}
	return nil
}

// generate produces ring index from the carried state.
func (w *Window) generate(index int) (Ring, error) {
	stage := w.stages.Lookup(index)
	if index < w.opts.WarmupRings {
		safe := RescaleLane(w.prevSafe, w.prevSides, stage.Sides)
		return OpenRing(index, stage.Sides, stage.ID, safe), nil
	}
	return GenerateRing(w.seed, index, w.prevSafe, w.prevSides, stage)
}

// Ring returns an already generated ring without generating anything.
func (w *Window) Ring(index int) (Ring, error) {
	switch {
	case !w.ready:
		return Ring{}, ErrWindowNotReady
	case index < 0:
		return Ring{}, fmt.Errorf("%w: %d", ErrNegativeIndex, index)
	case index > w.generatedTo:
		return Ring{}, fmt.Errorf("%w: %d (generated to %d)", ErrNotGenerated, index, w.generatedTo)
	case index < w.base:
		return Ring{}, fmt.Errorf("%w: %d (base %d)", ErrEvicted, index, w.base)
	}
	return w.rings[index-w.base], nil
}

// Get generates through index if needed and returns the ring.
func (w *Window) Get(index int) (Ring, error) {
	if err := w.EnsureGeneratedThrough(index); err != nil {
		return Ring{}, err
	}
	return w.Ring(index)
}

// Evict drops rings older than before-KeepBehind.
// Eviction never affects generation state, so later rings are unchanged.
func (w *Window) Evict(before int) {
	cut := before - w.opts.KeepBehind
	if cut <= w.base {
		return
	}
	if cut > w.generatedTo+1 {
		cut = w.generatedTo + 1
	}
	drop := cut - w.base
	n := copy(w.rings, w.rings[drop:])
	w.rings = w.rings[:n]
	w.base = cut
}

// Slice returns up to n retained rings starting at from.
// The result is a copy and safe to hand to renderers.
func (w *Window) Slice(from, n int) []Ring {
	if n < 0 {
		n = 0
	}
	if from < w.base {
		from = w.base
	}
	out := make([]Ring, 0, n)
	for i := from; i < from+n && i <= w.generatedTo; i++ {
		out = append(out, w.rings[i-w.base])
	}
	return out
}

// Len returns the number of retained rings.
func (w *Window) Len() int {
	return len(w.rings)
}
