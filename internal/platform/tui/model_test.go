package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tunnel-runner/internal/core"
	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel"
	tunnelcore "github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
	"github.com/vovakirdan/tunnel-runner/internal/storage"
)

func testRuntime(seed uint32) core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed}
}

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// crash plays g with a fixed turn pattern until the run ends.
func crash(t *testing.T, g *tunnel.Game) {
	t.Helper()
	for i := 1; i <= 200000; i++ {
		f := core.NewInputFrame()
		if i%83 == 0 {
			f.Set(core.ActionRight)
		}
		if g.Step(f).State.GameOver {
			return
		}
	}
	t.Fatal("run never ended")
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		key    string
		action core.Action
		quit   bool
	}{
		{"a", core.ActionLeft, false},
		{"left", core.ActionLeft, false},
		{"d", core.ActionRight, false},
		{"right", core.ActionRight, false},
		{" ", core.ActionFlip, false},
		{"up", core.ActionFlip, false},
		{"p", core.ActionPause, false},
		{"r", core.ActionRestart, false},
		{"esc", core.ActionBack, false},
		{"q", core.ActionQuit, true},
		{"ctrl+c", core.ActionQuit, true},
		{"x", core.ActionNone, false},
	}

	for _, tc := range tests {
		action, quit := km.mapKeyString(tc.key)
		if action != tc.action || quit != tc.quit {
			t.Errorf("mapKeyString(%q) = %v, %v; expected %v, %v", tc.key, action, quit, tc.action, tc.quit)
		}
	}
}

func TestMapMenu(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		key    string
		action MenuAction
	}{
		{"up", MenuActionUp},
		{"j", MenuActionDown},
		{"enter", MenuActionSelect},
		{"tab", MenuActionScoreboard},
		{"v", MenuActionReplays},
		{"esc", MenuActionBack},
		{"q", MenuActionQuit},
		{"z", MenuActionNone},
	}

	for _, tc := range tests {
		if got := km.mapMenuString(tc.key); got != tc.action {
			t.Errorf("mapMenuString(%q) = %v, expected %v", tc.key, got, tc.action)
		}
	}
}

func TestRenderScreenKeepsText(t *testing.T) {
	s := core.NewScreen(20, 2)
	s.DrawText(0, 0, "hello")
	s.DrawTextColored(0, 1, "tunnel", core.ColorHUD)

	out := RenderScreen(s)
	if !strings.Contains(out, "hello") || !strings.Contains(out, "tunnel") {
		t.Errorf("RenderScreen() lost text: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("RenderScreen() should emit one line per row, got %q", out)
	}
}

func TestTickRunsFixedSteps(t *testing.T) {
	g := tunnel.New(tunnelcore.ModeClassic)
	m := NewGameModel(g, nil, testRuntime(7), "")
	m.Init()

	t0 := time.Unix(100, 0)
	next, _ := m.handleTick(t0)
	m = next.(GameModel)
	if g.Snapshot().Tick != 1 {
		t.Fatalf("first tick ran %d steps, expected 1", g.Snapshot().Tick)
	}

	// 50ms at 60Hz is three whole steps
	next, _ = m.handleTick(t0.Add(50 * time.Millisecond))
	m = next.(GameModel)
	if g.Snapshot().Tick != 4 {
		t.Errorf("Tick = %d after a 50ms frame, expected 4", g.Snapshot().Tick)
	}

	// A long stall is capped
	m.handleTick(t0.Add(2 * time.Second))
	if g.Snapshot().Tick != 4+maxStepsPerFrame {
		t.Errorf("Tick = %d after a stall, expected %d", g.Snapshot().Tick, 4+maxStepsPerFrame)
	}
}

func TestSaveRunStoresReplay(t *testing.T) {
	store := openStore(t)

	g := tunnel.New(tunnelcore.ModeClassic)
	g.Reset(testRuntime(42))
	crash(t, g)

	state := g.State()
	if err := saveRun(store, g, state, "ada", time.Now()); err != nil {
		t.Fatalf("saveRun() failed: %v", err)
	}

	high, err := store.HighScore("tunnel")
	if err != nil || high != state.Score {
		t.Errorf("HighScore() = %d, %v; expected %d", high, err, state.Score)
	}

	best, err := store.BestReplay("tunnel")
	if err != nil {
		t.Fatalf("BestReplay() failed: %v", err)
	}
	if best.Seed != 42 || best.Mode != "classic" || best.Player != "ada" {
		t.Errorf("stored replay = %+v", best)
	}

	watch, err := WatchGame(store, best.ID)
	if err != nil {
		t.Fatalf("WatchGame() failed: %v", err)
	}
	if watch.ID() != "tunnel" {
		t.Errorf("watch game ID = %q", watch.ID())
	}
}

func TestSaveRunSkipsSpectators(t *testing.T) {
	store := openStore(t)

	cfg := testRuntime(42)
	cfg.Autopilot = true
	g := tunnel.New(tunnelcore.ModeClassic)
	g.Reset(cfg)
	for i := 0; i < 300; i++ {
		g.Step(core.NewInputFrame())
	}

	state := g.State()
	state.GameOver = true
	if err := saveRun(store, g, state, "", time.Now()); err != nil {
		t.Fatalf("saveRun() failed: %v", err)
	}

	if high, _ := store.HighScore("tunnel"); high != 0 {
		t.Errorf("autopilot run was ranked with %d", high)
	}
}

func TestSaveRunWithoutStore(t *testing.T) {
	g := tunnel.New(tunnelcore.ModeClassic)
	g.Reset(testRuntime(1))
	if err := saveRun(nil, g, core.GameState{Score: 10, GameOver: true}, "", time.Now()); err != nil {
		t.Errorf("saveRun(nil) = %v, expected nil", err)
	}
}
