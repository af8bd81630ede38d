package tunnel

import (
	"fmt"
	"math"

	platformcore "github.com/vovakirdan/tunnel-runner/internal/core"
	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
)

// Minimum terminal size for the ring view.
const (
	minWidth  = 40
	minHeight = 16
)

// Layout constants
const (
	hudHeight  = 2 // Status line + separator
	footHeight = 1 // Controls hint
	viewRings  = 12
)

// Resize updates the screen dimensions without restarting the run.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < minWidth || h < minHeight
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if g.err != nil {
		g.renderOverlay(dst, "Cannot start run", g.err.Error())
		return
	}
	if g.tooSmall || dst.Width() < minWidth || dst.Height() < minHeight {
		dst.DrawTextCenteredColored(dst.Height()/2, "Window too small", platformcore.ColorDanger)
		return
	}
	if g.world == nil {
		return
	}

	s := g.world.Snapshot()
	g.renderHUD(dst, s)
	g.renderTunnel(dst, s)
	g.renderFooter(dst)

	switch {
	case !s.Alive:
		g.renderOverlay(dst, "CRASHED", fmt.Sprintf("Ring %d  Score %d  R to restart", s.DeathRing, s.Score))
	case g.ended:
		g.renderOverlay(dst, "Replay finished", fmt.Sprintf("Score %d  R to watch again", s.Score))
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *platformcore.Screen, s core.Snapshot) {
	hud := fmt.Sprintf(" %s | Score: %d | Dist: %.0f | Combo: x%d | Best: %d | Speed: %.1f",
		g.Title(), s.Score, s.Distance, int(math.Floor(s.Combo)), s.BestCombo, s.Speed)
	dst.DrawTextColored(0, 0, hud, platformcore.ColorHUD)

	tag := ""
	switch {
	case g.watch != nil:
		tag = "REPLAY"
	case g.preview:
		tag = "AUTOPILOT"
	case g.mode == core.ModeDaily:
		tag = fmt.Sprintf("SEED %08x", g.seed)
	}
	if tag != "" {
		dst.DrawTextColored(dst.Width()-len(tag)-1, 0, tag, platformcore.ColorDim)
	}

	dst.DrawHLine(0, 1, dst.Width(), '─', platformcore.ColorDim)
}

// renderFooter draws the controls hint.
func (g *Game) renderFooter(dst *platformcore.Screen) {
	hint := " A/←: Left | D/→: Right | Space: Flip | P: Pause | Q: Quit"
	if g.watch != nil || g.preview {
		hint = " P: Pause | Q: Quit"
	}
	dst.DrawTextColored(0, dst.Height()-1, hint, platformcore.ColorDim)
}

// renderTunnel draws the upcoming rings as rows, nearest at the bottom.
// Columns are angular offsets from the runner so the runner stays centred.
func (g *Game) renderTunnel(dst *platformcore.Screen, s core.Snapshot) {
	top := hudHeight
	bottom := dst.Height() - footHeight - 2 // Row above the runner
	if bottom <= top {
		return
	}
	centerX := dst.Width() / 2
	span := min(dst.Width()-4, 60) // Screen columns covering a full turn

	spacing := g.world.RingSpacing()
	depth := float64(viewRings) * spacing
	rings := g.world.Rings(viewRings + 1)

	// Far rings first so nearer rows overwrite them
	for i := len(rings) - 1; i >= 0; i-- {
		ring := rings[i]
		ahead := float64(ring.Index+1)*spacing - s.Distance
		if ahead < 0 || ahead > depth {
			continue
		}
		y := bottom - int(math.Round(ahead/depth*float64(bottom-top)))
		g.renderRing(dst, ring, s, y, centerX, span)
	}

	dst.SetColored(centerX, bottom+1, '▲', platformcore.ColorRunner)
}

// renderRing draws one ring on row y.
func (g *Game) renderRing(dst *platformcore.Screen, ring core.Ring, s core.Snapshot, y, centerX, span int) {
	cell := max(1, span/ring.Sides)
	// Runner position in this ring's lane space
	pos := s.LaneFloat * float64(ring.Sides) / float64(s.Sides)
	// Spectators see the guaranteed lane
	hint := g.watch != nil || g.preview

	for lane := 0; lane < ring.Sides; lane++ {
		delta := core.ShortestDelta(pos, float64(lane), ring.Sides)
		x0 := centerX + int(math.Round(delta*float64(cell))) - cell/2
		r, c := laneGlyph(ring, lane, s.Elapsed, hint)
		for dx := 0; dx < cell-1; dx++ {
			dst.SetColored(x0+dx, y, r, c)
		}
		if ring.CollectibleLane == lane && ring.Collectible != core.CollectibleNone {
			pr, pc := pickupGlyph(ring.Collectible)
			dst.SetColored(x0+(cell-1)/2, y, pr, pc)
		}
	}
}

// laneGlyph picks the rune and color for a lane. Timed hazards animate by phase.
func laneGlyph(ring core.Ring, lane int, elapsed float64, hint bool) (rune, platformcore.Color) {
	if !ring.Solid(lane) {
		if hint && lane == ring.SafeLane {
			return '·', platformcore.ColorSafe
		}
		return '·', platformcore.ColorOpen
	}
	meta := ring.Lanes[lane]
	phase := math.Mod(meta.Phase+elapsed, 1)
	switch meta.Hazard {
	case core.HazardSpinner:
		frames := []rune{'|', '/', '-', '\\'}
		return frames[int(phase*4)%4], platformcore.ColorSpinner
	case core.HazardPulse:
		if phase < 0.5 {
			return '▓', platformcore.ColorPulse
		}
		return '▒', platformcore.ColorPulse
	case core.HazardShard:
		return '^', platformcore.ColorShard
	case core.HazardLaser:
		if phase < 0.5 {
			return '=', platformcore.ColorLaser
		}
		return '-', platformcore.ColorLaser
	default:
		return '█', platformcore.ColorWall
	}
}

func pickupGlyph(k core.CollectibleKind) (rune, platformcore.Color) {
	if k == core.CollectibleCore {
		return '●', platformcore.ColorCore
	}
	return '◆', platformcore.ColorPickup
}

// renderOverlay draws a centered message box.
func (g *Game) renderOverlay(dst *platformcore.Screen, line1, line2 string) {
	boxW := max(len([]rune(line1)), len([]rune(line2))) + 4
	boxH := 5
	box := platformcore.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawBox(box, platformcore.ColorDim)
	dst.DrawRect(box.Inset(1), ' ', platformcore.ColorDefault)
	_, cy := box.Center()
	dst.DrawTextCenteredColored(cy-1, line1, platformcore.ColorDanger)
	dst.DrawTextCentered(cy+1, line2)
}
