package core

import "math"

// autopilotMarginTicks is slack subtracted from every crossing window, covering
// the one-tick input lag and speed growing while a move is in flight.
const autopilotMarginTicks = 2

// autopilotSpeedSlack overestimates speed so crossings are predicted early.
const autopilotSpeedSlack = 1.1

// Autopilot steers a world toward open lanes. It only reads world state and
// issues turns through EnqueueTurn, so a run it drives records and replays like
// a human one.
//
// Each decision plans one lane per upcoming ring. A lane change toward ring k
// must finish between crossing ring k-1 and crossing ring k, so the planner
// times moves with the lane spring itself and prefers the cheapest plan over
// the longest stretch of rings that can be cleared.
type Autopilot struct {
	Lookahead int // Upcoming rings inspected per decision

	moveParams LaneParams
	moveTicks  []int // moveTicks[n] is the number of ticks a chain of n turns takes to settle
}

// NewAutopilot creates a bot that looks lookahead rings ahead.
func NewAutopilot(lookahead int) *Autopilot {
	if lookahead < 1 {
		lookahead = 1
	}
	return &Autopilot{Lookahead: lookahead}
}

// Drive queues the turns toward the lane planned for the next ring.
// It only plans once earlier turns are applied and the lane has settled.
// Returns the number of turns queued.
func (a *Autopilot) Drive(w *World) int {
	if !w.alive || w.lane.Pending() > 0 || !w.lane.Settled() {
		return 0
	}
	rings := w.Rings(a.Lookahead)
	if len(rings) == 0 {
		return 0
	}
	a.calibrate(w.opts.Lane)

	budgets := a.budgets(w, rings)
	first := rings[0]
	start := RescaleLane(w.lane.Target, w.lane.Sides, first.Sides)

	goal, ok := -1, false
	for h := len(rings); h > 0 && !ok; h-- {
		goal, ok = planLane(rings[:h], budgets, start)
	}
	if !ok {
		goal = nearestOpen(first, start)
	}
	goal = RescaleLane(goal, first.Sides, w.lane.Sides)

	delta := int(ShortestDelta(float64(w.lane.Target), float64(goal), w.lane.Sides))
	dir := 1
	if delta < 0 {
		dir, delta = -1, -delta
	}
	queued := 0
	for ; queued < delta; queued++ {
		if !w.EnqueueTurn(dir) {
			break
		}
	}
	return queued
}

// calibrate measures how long turn chains take under the given spring.
func (a *Autopilot) calibrate(params LaneParams) {
	if a.moveTicks != nil && a.moveParams == params {
		return
	}
	a.moveParams = params
	a.moveTicks = []int{0}
	for n := 1; n <= max(params.QueueCap, 1); n++ {
		p := params
		p.QueueCap = n
		l := NewLane(p, 2*MaxSides, 0)
		for i := 0; i < n; i++ {
			l.Enqueue(1)
		}
		ticks := 0
		for ticks < 10*SimRate {
			l.Integrate(FixedDT)
			ticks++
			if l.Pending() == 0 && l.Settled() {
				break
			}
		}
		a.moveTicks = append(a.moveTicks, ticks)
	}
}

// budgets returns, per ring, how many turns fit before that ring is crossed.
// The budget of ring k counts from the crossing of ring k-1.
func (a *Autopilot) budgets(w *World, rings []Ring) []int {
	speed := math.Max(w.speed, 1e-6) * autopilotSpeedSlack
	spacing := w.opts.Physics.RingSpacing

	out := make([]int, len(rings))
	prev := 0
	for k, r := range rings {
		// Ring i is crossed at distance (i+1) * spacing.
		ticks := int((float64(r.Index+1)*spacing - w.distance) / speed / FixedDT)
		out[k] = a.turnsWithin(ticks - prev - autopilotMarginTicks)
		prev = ticks
	}
	return out
}

// turnsWithin returns the longest turn chain that settles within ticks.
func (a *Autopilot) turnsWithin(ticks int) int {
	n := 0
	for i, t := range a.moveTicks {
		if t <= ticks {
			n = i
		}
	}
	return n
}

// planLane returns the lane for path[0] on the cheapest sequence of open lanes
// through path, where reaching ring k's lane takes at most budgets[k] turns.
// Ties keep the runner closest to start. ok is false when no sequence exists.
func planLane(path []Ring, budgets []int, start int) (lane int, ok bool) {
	last := path[len(path)-1]
	cost := make(map[int]int, last.Sides)
	for _, l := range last.OpenLanes() {
		cost[l] = 0
	}

	for k := len(path) - 2; k >= 0; k-- {
		r, next := path[k], path[k+1]
		prev := make(map[int]int, r.Sides)
		for _, l := range r.OpenLanes() {
			from := RescaleLane(l, r.Sides, next.Sides)
			best := math.MaxInt
			for to, c := range cost {
				d := laneDistance(from, to, next.Sides)
				if d <= budgets[k+1] && d+c < best {
					best = d + c
				}
			}
			if best < math.MaxInt {
				prev[l] = best
			}
		}
		cost = prev
	}

	first := path[0]
	bestTotal, bestMove := math.MaxInt, math.MaxInt
	for _, l := range first.OpenLanes() {
		c, reachable := cost[l]
		if !reachable {
			continue
		}
		d := laneDistance(start, l, first.Sides)
		if d > budgets[0] {
			continue
		}
		if d+c < bestTotal || (d+c == bestTotal && d < bestMove) {
			bestTotal, bestMove, lane, ok = d+c, d, l, true
		}
	}
	return lane, ok
}

// nearestOpen returns the open lane closest to from, preferring the safe lane
// on ties and the +1 direction otherwise.
func nearestOpen(r Ring, from int) int {
	for k := 0; k <= r.Sides/2; k++ {
		plus, minus := WrapLane(from+k, r.Sides), WrapLane(from-k, r.Sides)
		if (plus == r.SafeLane || minus == r.SafeLane) && !r.Solid(r.SafeLane) {
			return r.SafeLane
		}
		if !r.Solid(plus) {
			return plus
		}
		if !r.Solid(minus) {
			return minus
		}
	}
	return r.SafeLane
}
