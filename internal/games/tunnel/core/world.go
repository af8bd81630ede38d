package core

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
)

// Physics holds the scroll, speed and combo tuning of a run.
type Physics struct {
	BaseSpeed       float64 // Units per second at difficulty 0
	BonusSpeed      float64 // Extra speed at difficulty 1
	ComboSpeedBonus float64 // Extra speed per combo level
	ComboSpeedCap   float64 // Combo levels counted toward speed
	SpeedTau        float64 // Time constant of the speed lerp (seconds)
	RampDistance    float64 // Distance at which difficulty reaches 1; <= 0 disables the ramp
	RingSpacing     float64 // Distance between consecutive rings
	ComboDecay      float64 // Combo lost per ring passed without a near miss
	LookaheadRings  int     // Rings kept generated ahead of the runner
}

// DefaultPhysics returns the standard tuning.
func DefaultPhysics() Physics {
	return Physics{
		BaseSpeed:       18,
		BonusSpeed:      22,
		ComboSpeedBonus: 0.6,
		ComboSpeedCap:   10,
		SpeedTau:        0.8,
		RampDistance:    4000,
		RingSpacing:     12,
		ComboDecay:      0.5,
		LookaheadRings:  24,
	}
}

// Options configures a new World.
type Options struct {
	Seed uint32
	Mode Mode

	Physics Physics
	Lane    LaneParams
	Scoring ScoreWeights
	Stages  StageTable
	Window  WindowOptions

	// InitialDifficulty is the difficulty at distance 0; progression interpolates to 1.
	InitialDifficulty float64

	// Playback feeds ReplayInputs into the turn queue and ignores live turns.
	Playback     bool
	ReplayInputs []Input

	// Preview worlds (menus, attract mode) never record inputs.
	Preview bool
}

// DefaultOptions returns options for a classic run with the given seed.
func DefaultOptions(seed uint32) Options {
	return Options{
		Seed:    seed,
		Mode:    ModeClassic,
		Physics: DefaultPhysics(),
		Lane:    DefaultLaneParams(),
		Scoring: DefaultScoreWeights(),
		Stages:  DefaultStages(),
		Window:  WindowOptions{WarmupRings: 3, KeepBehind: 4},
	}
}

// StepResult reports what happened during one fixed step.
type StepResult struct {
	Died   bool // True only on the step that killed the runner
	Passed int  // Rings passed during this step
}

// Snapshot is a read-only view of the simulation scalars for presentation.
type Snapshot struct {
	Tick       uint64
	Elapsed    float64
	Distance   float64
	Speed      float64
	Difficulty float64
	LaneFloat  float64
	Lane       int
	LaneTarget int
	Sides      int
	Pending    int
	Combo      float64
	BestCombo  int
	NearMisses int
	Pickups    int
	FirstRing  int
	NextRing   int
	Alive      bool
	Score      int
	DeathRing  int // -1 while alive
}

// World is the mutable state of one run. It has a single writer: Step and
// EnqueueTurn must not be called concurrently.
type World struct {
	opts   Options
	window *Window
	lane   *Lane

	tick       uint64
	elapsed    float64
	distance   float64
	speed      float64
	difficulty float64

	combo      float64
	bestCombo  int
	nearMisses int
	pickups    int

	firstRingID int
	alive       bool
	deathRing   int

	inputs       []Input // Recorded live turns
	replayCursor int
}

// NewWorld creates a world ready to step.
func NewWorld(opts Options) (*World, error) {
	if opts.Physics.RingSpacing <= 0 {
		return nil, fmt.Errorf("tunnel: ring spacing must be positive")
	}
	if !opts.Mode.Valid() {
		return nil, fmt.Errorf("tunnel: invalid mode %v", opts.Mode)
	}
	if opts.Physics.LookaheadRings < 1 {
		opts.Physics.LookaheadRings = 1
	}
	opts.InitialDifficulty = clampFloat(opts.InitialDifficulty, 0, 1)

	window, err := NewWindow(opts.Stages, opts.Window)
	if err != nil {
		return nil, err
	}
	window.Reset(opts.Seed)

	w := &World{
		opts:      opts,
		window:    window,
		alive:     true,
		deathRing: -1,
	}
	w.advanceWindow()

	first := w.mustRing(0)
	w.lane = NewLane(opts.Lane, first.Sides, DefaultLane(first.Sides))
	w.difficulty = opts.InitialDifficulty
	w.speed = opts.Physics.BaseSpeed + opts.Physics.BonusSpeed*w.difficulty
	return w, nil
}

// EnqueueTurn buffers a live turn of dir (-1 or +1).
// Returns false when the runner is dead, the world is in playback, or the queue is full.
// Successful live turns are appended to the replay log.
func (w *World) EnqueueTurn(dir int) bool {
	if !w.alive || w.opts.Playback {
		return false
	}
	return w.enqueue(dir)
}

// Flip queues enough +1 turns to reach the opposite lane, or nothing at all.
func (w *World) Flip() bool {
	if !w.alive || w.opts.Playback || !w.lane.CanFlip() {
		return false
	}
	for i := 0; i < w.lane.FlipTurns(); i++ {
		w.enqueue(1)
	}
	return true
}

func (w *World) enqueue(dir int) bool {
	if !w.lane.Enqueue(dir) {
		return false
	}
	if !w.opts.Playback && !w.opts.Preview {
		w.inputs = append(w.inputs, Input{T: roundTime(w.elapsed), Dir: dir})
	}
	return true
}

// Step advances the simulation by one fixed tick of dt seconds.
// After death it is a no-op returning a zero result.
//
// Ring i is crossed once distance reaches (i+1) * RingSpacing, so the runner
// starts one spacing in front of ring 0 rather than on top of it. Every ring
// index is shifted by one relative to floor(distance / RingSpacing).
func (w *World) Step(dt float64) StepResult {
	if !w.alive || dt <= 0 {
		return StepResult{}
	}
	p := w.opts.Physics
	w.tick++

	// 1. Replayed turns due at this time enter the queue before the controller runs.
	if w.opts.Playback {
		w.drainReplay()
	}

	// 2. Lane controller.
	w.lane.Integrate(dt)

	// 3. Difficulty ramp and speed lerp.
	w.difficulty = w.difficultyAt(w.distance)
	target := p.BaseSpeed + p.BonusSpeed*w.difficulty + math.Min(w.combo, p.ComboSpeedCap)*p.ComboSpeedBonus
	if p.SpeedTau > 0 {
		w.speed += (target - w.speed) * (1 - math.Exp(-dt/p.SpeedTau))
	} else {
		w.speed = target
	}

	// 4. Advance time and distance.
	w.elapsed += dt
	w.distance += w.speed * dt

	// 5. Evaluate every ring boundary crossed. Ring i sits at (i+1) * spacing.
	crossed := int(math.Floor(w.distance/p.RingSpacing)) - 1
	passed := 0
	for w.firstRingID <= crossed {
		ring := w.mustRing(w.firstRingID)
		if ring.Sides != w.lane.Sides {
			w.lane.Rescale(ring.Sides)
		}
		lane := w.lane.Discrete()

		if ring.Solid(lane) {
			w.alive = false
			w.deathRing = ring.Index
			return StepResult{Died: true, Passed: passed}
		}

		if ring.Solid(lane-1) || ring.Solid(lane+1) {
			w.nearMisses++
			w.combo++
		} else {
			w.combo = math.Max(0, w.combo-p.ComboDecay)
		}
		if ring.Collectible != CollectibleNone && ring.CollectibleLane == lane {
			w.pickups++
		}
		w.bestCombo = max(w.bestCombo, int(math.Floor(w.combo)))

		w.firstRingID++
		w.advanceWindow()
		passed++
	}

	// Steering happens in the lane space of the upcoming ring.
	if next := w.mustRing(w.firstRingID); next.Sides != w.lane.Sides {
		w.lane.Rescale(next.Sides)
	}

	// 6. Best combo.
	w.bestCombo = max(w.bestCombo, int(math.Floor(w.combo)))
	return StepResult{Passed: passed}
}

// drainReplay moves due replay inputs into the turn queue, in recorded order.
func (w *World) drainReplay() {
	now := roundTime(w.elapsed)
	for w.replayCursor < len(w.opts.ReplayInputs) {
		in := w.opts.ReplayInputs[w.replayCursor]
		if in.T > now {
			return
		}
		w.lane.Enqueue(in.Dir)
		w.replayCursor++
	}
}

// difficultyAt interpolates from the initial difficulty to 1 over the ramp.
// A non-positive ramp holds the initial difficulty.
func (w *World) difficultyAt(distance float64) float64 {
	start := w.opts.InitialDifficulty
	ramp := w.opts.Physics.RampDistance
	if ramp <= 0 {
		return start
	}
	progress := clampFloat(distance/ramp, 0, 1)
	return start + progress*(1-start)
}

// advanceWindow keeps the lookahead generated and releases passed rings.
func (w *World) advanceWindow() {
	if err := w.window.EnsureGeneratedThrough(w.firstRingID + w.opts.Physics.LookaheadRings); err != nil {
		panic(fmt.Sprintf("tunnel: ring generation failed: %v", err))
	}
	w.window.Evict(w.firstRingID)
}

// mustRing fetches a generated ring; a miss means the window invariant is broken.
func (w *World) mustRing(index int) Ring {
	ring, err := w.window.Ring(index)
	if err != nil {
		panic(fmt.Sprintf("tunnel: %v", err))
	}
	return ring
}

// Alive reports whether the runner is still alive.
func (w *World) Alive() bool {
	return w.alive
}

// Seed returns the run seed.
func (w *World) Seed() uint32 {
	return w.opts.Seed
}

// Mode returns the run mode.
func (w *World) Mode() Mode {
	return w.opts.Mode
}

// Elapsed returns simulated seconds.
func (w *World) Elapsed() float64 {
	return w.elapsed
}

// Distance returns the scrolled distance.
func (w *World) Distance() float64 {
	return w.distance
}

// Score returns the score derived from the current statistics.
func (w *World) Score() int {
	return Score(w.distance, w.nearMisses, w.bestCombo, w.opts.Scoring)
}

// Playback reports whether the world replays recorded inputs.
func (w *World) Playback() bool {
	return w.opts.Playback
}

// ReplayDone reports whether every replay input has been consumed.
func (w *World) ReplayDone() bool {
	return w.replayCursor >= len(w.opts.ReplayInputs)
}

// Inputs returns a copy of the recorded input log.
func (w *World) Inputs() []Input {
	out := make([]Input, len(w.inputs))
	copy(out, w.inputs)
	return out
}

// Rings returns up to n rings starting at the oldest ring not yet passed.
// A non-positive n returns no rings.
func (w *World) Rings(n int) []Ring {
	return w.window.Slice(w.firstRingID, n)
}

// RingSpacing returns the distance between rings.
func (w *World) RingSpacing() float64 {
	return w.opts.Physics.RingSpacing
}

// Snapshot returns the current scalars.
func (w *World) Snapshot() Snapshot {
	return Snapshot{
		Tick:       w.tick,
		Elapsed:    w.elapsed,
		Distance:   w.distance,
		Speed:      w.speed,
		Difficulty: w.difficulty,
		LaneFloat:  w.lane.Float,
		Lane:       w.lane.Discrete(),
		LaneTarget: w.lane.Target,
		Sides:      w.lane.Sides,
		Pending:    w.lane.Pending(),
		Combo:      w.combo,
		BestCombo:  w.bestCombo,
		NearMisses: w.nearMisses,
		Pickups:    w.pickups,
		FirstRing:  w.firstRingID,
		NextRing:   w.window.GeneratedTo() + 1,
		Alive:      w.alive,
		Score:      w.Score(),
		DeathRing:  w.deathRing,
	}
}

// Digest hashes the simulation scalars and the upcoming rings.
// Two runs are equivalent at a tick if their digests match.
func (w *World) Digest() [sha256.Size]byte {
	h := sha256.New()
	s := w.Snapshot()
	for _, v := range []float64{s.Elapsed, s.Distance, s.Speed, s.LaneFloat, s.Combo} {
		//nolint:errcheck // hash writes never fail
		binary.Write(h, binary.LittleEndian, math.Float64bits(v))
	}
	for _, v := range []int64{int64(s.Tick), int64(s.LaneTarget), int64(s.BestCombo), int64(s.NearMisses), int64(s.FirstRing), int64(s.DeathRing)} {
		//nolint:errcheck // hash writes never fail
		binary.Write(h, binary.LittleEndian, v)
	}
	for _, r := range w.Rings(8) {
		//nolint:errcheck // hash writes never fail
		binary.Write(h, binary.LittleEndian, []int64{int64(r.Index), int64(r.Sides), int64(r.SolidMask), int64(r.SafeLane)})
	}
	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
