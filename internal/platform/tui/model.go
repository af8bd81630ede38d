package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tunnel-runner/internal/core"
	tunnelcore "github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
	"github.com/vovakirdan/tunnel-runner/internal/registry"
	"github.com/vovakirdan/tunnel-runner/internal/storage"
)

// maxStepsPerFrame caps catch-up work after a stalled frame.
const maxStepsPerFrame = 4

// resizer is implemented by games that keep their run across terminal resizes.
type resizer interface {
	Resize(w, h int)
}

// GameModel is the Bubble Tea model for running a game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	player     string // SSH user or empty for local play
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	clock      *tunnelcore.Accumulator
	lastTick   time.Time
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the finished run has been stored
	saveErr    error
}

// NewGameModel creates a new Bubble Tea model for the given game.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, player string) GameModel {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		player:     player,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		clock:      tunnelcore.AccumulatorForFPS(tunnelcore.SimRate, maxStepsPerFrame),
	}
}

// Init initializes the model and starts the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	// gameState is set on the first tick (value receiver)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	// Back to menu (B or Esc) once the run is over or paused
	if m.keyMapper.MapKeyToMenuAction(msg) == MenuActionBack && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize processes window resize events.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick converts wall time into fixed simulation steps.
// TickRate only paces frames; the simulation always steps at SimRate.
// Input gathered since the last step goes to the first step of the frame.
func (m GameModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	steps := 1
	if !m.lastTick.IsZero() {
		steps = m.clock.Advance(now.Sub(m.lastTick))
	}
	m.lastTick = now

	for i := 0; i < steps; i++ {
		wasOver := m.gameState.GameOver
		result := m.game.Step(m.inputFrame)
		m.gameState = result.State
		m.inputFrame.Clear()

		// A restart begins a fresh run that must be saved again
		if wasOver && !m.gameState.GameOver {
			m.runSaved = false
			m.saveErr = nil
		}

		if m.gameState.GameOver && !m.runSaved {
			m.saveErr = saveRun(m.store, m.game, m.gameState, m.player, now)
			m.runSaved = true
		}
	}

	return m, tickCmd(m.config.TickRate)
}

// saveRun stores the score of a finished run, with its replay when the game records one.
// Spectator runs (autopilot, playback) are not stored.
func saveRun(store *storage.Store, game registry.Game, state core.GameState, player string, now time.Time) error {
	if store == nil || state.Score <= 0 {
		return nil
	}

	score := storage.ScoreEntry{
		GameID:    game.ID(),
		Player:    player,
		Score:     state.Score,
		Distance:  state.Distance,
		BestCombo: state.BestCombo,
	}

	rec, ok := game.(registry.Recorder)
	if !ok {
		_, err := store.SaveScore(score)
		return err
	}

	run, ok := rec.Recording(now)
	if !ok {
		return nil
	}
	score.Seed = run.Seed

	_, err := store.SaveRun(score, storage.ReplayEntry{
		GameID:    game.ID(),
		Player:    player,
		Mode:      run.Mode,
		Seed:      run.Seed,
		Score:     state.Score,
		Distance:  state.Distance,
		BestCombo: state.BestCombo,
		Data:      run.Data,
	})
	return err
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".tunnel", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.saveErr != nil {
		m.screen.DrawTextColored(1, m.screen.Height()-2, "score not saved: "+m.saveErr.Error(), core.ColorDanger)
	}

	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts the Bubble Tea program with the given game.
// It returns when the player quits or asks to go back to the menu.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	model := NewGameModel(game, store, cfg, "")

	p := tea.NewProgram(
		backAware{model},
		tea.WithAltScreen(),
	)

	final, err := p.Run()
	if err != nil {
		return false, err
	}
	if b, ok := final.(backAware); ok {
		return b.BackToMenu(), nil
	}
	return false, nil
}

// backAware quits the program when a standalone game asks to go back.
type backAware struct {
	GameModel
}

func (b backAware) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := b.GameModel.Update(msg)
	if gm, ok := next.(GameModel); ok {
		b.GameModel = gm
	}
	if b.BackToMenu() {
		return b, tea.Quit
	}
	return b, cmd
}
