// Package tunnel provides the tunnel runner game for the platform.
// The simulation lives in the core subpackage; this package maps platform
// input to turns, picks seeds per mode and draws the ring view.
package tunnel

import (
	"sync"
	"time"

	platformcore "github.com/vovakirdan/tunnel-runner/internal/core"
	"github.com/vovakirdan/tunnel-runner/internal/config"
	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
	"github.com/vovakirdan/tunnel-runner/internal/registry"
)

// Game implements the tunnel runner for one mode.
type Game struct {
	mode  core.Mode
	cfg   config.TunnelConfig
	world *core.World
	pilot *core.Autopilot
	now   func() time.Time

	// Set when watching a stored run
	watch *core.Replay

	screenW int
	screenH int
	dt      float64

	seed     uint32
	preview  bool
	paused   bool
	ended    bool // Playback reached the end of the recording alive
	tooSmall bool
	err      error // Options could not be built from the config
}

// Package-level configuration shared by every new game.
var (
	cfgMu      sync.RWMutex
	tunnelConf = config.DefaultTunnelConfig()
)

// SetConfig replaces the configuration used by games created afterwards.
func SetConfig(cfg config.TunnelConfig) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	tunnelConf = cfg
}

// Config returns the configuration new games are created with.
func Config() config.TunnelConfig {
	cfgMu.RLock()
	defer cfgMu.RUnlock()
	return tunnelConf
}

func init() {
	for _, m := range core.Modes {
		registry.Register(GameID(m), func() registry.Game {
			return New(m)
		})
	}
}

// GameID returns the registry ID of a mode ("tunnel", "tunnel_daily", ...).
func GameID(m core.Mode) string {
	if m == core.ModeClassic {
		return "tunnel"
	}
	return "tunnel_" + m.String()
}

// ModeForID is the inverse of GameID.
func ModeForID(id string) (core.Mode, bool) {
	for _, m := range core.Modes {
		if GameID(m) == id {
			return m, true
		}
	}
	return 0, false
}

// New creates a game for the given mode.
func New(mode core.Mode) *Game {
	return &Game{
		mode:  mode,
		cfg:   Config(),
		pilot: core.NewAutopilot(6),
		now:   time.Now,
		dt:    core.FixedDT,
	}
}

// NewWatch creates a game that plays back a stored run.
func NewWatch(r core.Replay) *Game {
	g := New(r.Mode)
	g.watch = &r
	return g
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID(g.mode)
}

// Title returns the display name.
func (g *Game) Title() string {
	switch g.mode {
	case core.ModeDaily:
		return "Tunnel: Daily"
	case core.ModeHardcore:
		return "Tunnel: Hardcore"
	default:
		return "Tunnel"
	}
}

// Mode returns the mode this game plays.
func (g *Game) Mode() core.Mode {
	return g.mode
}

// Reset starts a new run.
// Daily runs ignore cfg.Seed; a zero seed elsewhere picks a fresh one.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.preview = cfg.Autopilot && g.watch == nil
	g.paused = false
	g.tooSmall = g.screenW < minWidth || g.screenH < minHeight

	switch {
	case g.watch != nil:
		g.seed = g.watch.Seed
	case g.mode == core.ModeDaily:
		g.seed = core.DailySeed(g.now())
	case cfg.Seed != 0:
		g.seed = cfg.Seed
	default:
		g.seed = g.freshSeed()
	}

	g.start()
}

// start builds a world for the current seed.
func (g *Game) start() {
	g.world = nil
	g.ended = false
	opts, err := BuildOptions(g.cfg, g.mode, g.seed)
	if err != nil {
		g.err = err
		return
	}
	opts.Preview = g.preview
	if g.watch != nil {
		opts.Playback = true
		opts.ReplayInputs = g.watch.Inputs
	}
	w, err := core.NewWorld(opts)
	if err != nil {
		g.err = err
		return
	}
	g.err = nil
	g.world = w
}

// freshSeed mixes the wall clock into a seed.
func (g *Game) freshSeed() uint32 {
	ns := g.now().UnixNano()
	return core.HashSeed(uint32(ns), uint32(ns>>32))
}

// Step advances the game by one tick.
func (g *Game) Step(input platformcore.InputFrame) platformcore.StepResult {
	if g.world == nil {
		return platformcore.StepResult{State: g.State()}
	}

	// Restart after a crash; classic and hardcore roll a new seed
	if input.Has(platformcore.ActionRestart) && (!g.world.Alive() || g.ended) {
		if g.watch == nil && g.mode != core.ModeDaily {
			g.seed = g.freshSeed()
		}
		g.paused = false
		g.start()
		return platformcore.StepResult{State: g.State()}
	}

	if input.Has(platformcore.ActionPause) && g.world.Alive() && !g.ended {
		g.paused = !g.paused
	}

	if g.paused || g.tooSmall || g.ended || !g.world.Alive() {
		return platformcore.StepResult{State: g.State()}
	}

	if g.preview {
		g.pilot.Drive(g.world)
	} else {
		for _, a := range input.Actions {
			switch a {
			case platformcore.ActionLeft:
				g.world.EnqueueTurn(-1)
			case platformcore.ActionRight:
				g.world.EnqueueTurn(1)
			case platformcore.ActionFlip:
				g.world.Flip()
			}
		}
	}

	res := g.world.Step(g.dt)
	if g.watch != nil && g.world.Alive() && g.world.ReplayDone() && g.world.Distance() >= g.watch.Distance {
		g.ended = true
	}
	return platformcore.StepResult{
		State:  g.State(),
		Died:   res.Died,
		Passed: res.Passed,
	}
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	if g.world == nil {
		return platformcore.GameState{GameOver: true}
	}
	s := g.world.Snapshot()
	return platformcore.GameState{
		Score:     s.Score,
		Distance:  s.Distance,
		BestCombo: s.BestCombo,
		GameOver:  !s.Alive || g.ended,
		Paused:    g.paused,
	}
}

// Snapshot returns the engine scalars for determinism checks.
func (g *Game) Snapshot() core.Snapshot {
	if g.world == nil {
		return core.Snapshot{DeathRing: -1}
	}
	return g.world.Snapshot()
}

// Seed returns the seed of the current run.
func (g *Game) Seed() uint32 {
	return g.seed
}

// Watching reports whether the game plays back a stored run.
func (g *Game) Watching() bool {
	return g.watch != nil
}

// Err returns the error that kept the run from starting, if any.
func (g *Game) Err() error {
	return g.err
}

// Recording returns the encoded replay of the current run.
// Preview and playback runs are never recorded.
func (g *Game) Recording(createdAt time.Time) (registry.Recording, bool) {
	if g.world == nil || g.preview || g.watch != nil {
		return registry.Recording{}, false
	}
	data, err := g.world.Replay(createdAt.UnixMilli()).Encode()
	if err != nil {
		return registry.Recording{}, false
	}
	return registry.Recording{
		Mode: g.mode.String(),
		Seed: g.seed,
		Data: data,
	}, true
}
