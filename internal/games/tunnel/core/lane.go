package core

import "math"

// LaneParams configures the spring integrator.
type LaneParams struct {
	QueueCap  int     // Maximum buffered turns
	Stiffness float64 // Spring constant toward the target lane
	Damping   float64 // Exponential velocity decay rate (per second)
	Settle    float64 // |delta| below which the current target counts as applied
}

// DefaultLaneParams returns slightly underdamped lane motion.
func DefaultLaneParams() LaneParams {
	return LaneParams{
		QueueCap:  6,
		Stiffness: 260,
		Damping:   20,
		Settle:    0.35,
	}
}

// Lane tracks the runner's angular position around the ring.
type Lane struct {
	params LaneParams

	Float    float64 // Continuous lane position in [0, Sides)
	Target   int     // Discrete lane being eased toward
	Velocity float64 // Lanes per second
	Sides    int

	queue []int
}

// NewLane places the runner at rest on lane start.
func NewLane(params LaneParams, sides, start int) *Lane {
	if params.QueueCap <= 0 {
		params.QueueCap = 1
	}
	start = WrapLane(start, sides)
	return &Lane{
		params: params,
		Float:  float64(start),
		Target: start,
		Sides:  sides,
		queue:  make([]int, 0, params.QueueCap),
	}
}

// Enqueue buffers a turn of dir (-1 or +1).
// Returns false if dir is invalid or the queue is full.
func (l *Lane) Enqueue(dir int) bool {
	if dir != -1 && dir != 1 {
		return false
	}
	if len(l.queue) >= l.params.QueueCap {
		return false
	}
	l.queue = append(l.queue, dir)
	return true
}

// FlipTurns returns how many +1 turns make up a flip to the opposite lane.
func (l *Lane) FlipTurns() int {
	return l.Sides / 2
}

// CanFlip reports whether a full flip fits in the queue.
func (l *Lane) CanFlip() bool {
	return l.params.QueueCap-len(l.queue) >= l.FlipTurns()
}

// Pending returns the number of buffered turns.
func (l *Lane) Pending() int {
	return len(l.queue)
}

// Settled reports whether the lane is close enough to its target for the next
// queued turn to apply.
func (l *Lane) Settled() bool {
	return math.Abs(ShortestDelta(l.Float, float64(l.Target), l.Sides)) < l.params.Settle
}

// Queue returns a copy of the buffered turns in FIFO order.
func (l *Lane) Queue() []int {
	out := make([]int, len(l.queue))
	copy(out, l.queue)
	return out
}

// Integrate advances the spring by dt seconds.
// At most one queued turn is applied per tick, and only once the previous
// target has been reached.
func (l *Lane) Integrate(dt float64) {
	delta := ShortestDelta(l.Float, float64(l.Target), l.Sides)
	if len(l.queue) > 0 && math.Abs(delta) < l.params.Settle {
		dir := l.queue[0]
		n := copy(l.queue, l.queue[1:])
		l.queue = l.queue[:n]
		l.Target = WrapLane(l.Target+dir, l.Sides)
		delta = ShortestDelta(l.Float, float64(l.Target), l.Sides)
	}

	l.Velocity += delta * l.params.Stiffness * dt
	l.Velocity *= math.Exp(-l.params.Damping * dt)
	l.Float = wrapFloat(l.Float+l.Velocity*dt, l.Sides)
}

// Discrete returns the lane used for collision.
func (l *Lane) Discrete() int {
	return WrapLane(int(math.Round(l.Float)), l.Sides)
}

// Rescale converts the lane state to a new polygon order, keeping the angle.
func (l *Lane) Rescale(sides int) {
	if sides == l.Sides {
		return
	}
	ratio := float64(sides) / float64(l.Sides)
	l.Float = wrapFloat(l.Float*ratio, sides)
	l.Velocity *= ratio
	l.Target = RescaleLane(l.Target, l.Sides, sides)
	l.Sides = sides
}

// ShortestDelta returns the signed shortest distance from current to target
// around a ring of sides lanes, in [-sides/2, sides/2].
func ShortestDelta(current, target float64, sides int) float64 {
	n := float64(sides)
	half := n / 2
	d := math.Mod(target-current+half, n)
	if d < 0 {
		d += n
	}
	return d - half
}

// wrapFloat wraps v into [0, sides).
func wrapFloat(v float64, sides int) float64 {
	n := float64(sides)
	v = math.Mod(v, n)
	if v < 0 {
		v += n
	}
	if v >= n {
		v = 0
	}
	return v
}
