package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tunnel-runner/internal/games/tunnel"
	tunnelcore "github.com/vovakirdan/tunnel-runner/internal/games/tunnel/core"
	"github.com/vovakirdan/tunnel-runner/internal/registry"
	"github.com/vovakirdan/tunnel-runner/internal/storage"
)

const maxReplays = 50

// ReplayKeyMap defines the key bindings for the replay browser.
type ReplayKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Watch    key.Binding
	Delete   key.Binding
	NextGame key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ReplayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Watch, k.Delete, k.NextGame, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ReplayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Watch, k.Delete},
		{k.NextGame, k.Back, k.Quit},
	}
}

// DefaultReplayKeyMap returns default key bindings.
func DefaultReplayKeyMap() ReplayKeyMap {
	return ReplayKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Watch: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "watch"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		NextGame: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ReplayBrowserModel lists stored runs and picks one to watch.
type ReplayBrowserModel struct {
	games      []registry.GameInfo
	gameCursor int
	store      *storage.Store
	replays    []storage.ReplayEntry
	columns    []int // Indices into replayColumns currently shown
	table      table.Model
	help       help.Model
	keys       ReplayKeyMap
	width      int
	height     int
	status     string
	quitting   bool
	goingBack  bool
	chosen     int64 // Replay ID to watch, 0 if none
}

// NewReplayBrowserModel creates a replay browser.
func NewReplayBrowserModel(store *storage.Store, width, height int) ReplayBrowserModel {
	m := ReplayBrowserModel{
		games:  registry.List(),
		store:  store,
		keys:   DefaultReplayKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.layout()
	m.load()
	return m
}

// Replay table columns. Player and Date go first on narrow terminals.
var replayColumns = []table.Column{
	{Title: "ID", Width: 6},
	{Title: "Score", Width: 8},
	{Title: "Dist", Width: 7},
	{Title: "Seed", Width: 8},
	{Title: "Player", Width: 10},
	{Title: "Date", Width: 12},
}

var replayOptional = []int{5, 4}

// layout rebuilds the table for the current terminal size.
func (m *ReplayBrowserModel) layout() {
	var cols []table.Column
	cols, m.columns = fitColumns(replayColumns, replayOptional, m.width)
	m.table = newListTable(cols, m.height)
	m.help.Width = m.width
}

// load reads the replays of the current game.
func (m *ReplayBrowserModel) load() {
	m.replays = nil
	if m.store != nil && len(m.games) > 0 {
		replays, err := m.store.RecentReplays(m.games[m.gameCursor].ID, maxReplays)
		if err != nil {
			m.status = err.Error()
		}
		m.replays = replays
	}

	rows := make([]table.Row, len(m.replays))
	for i, r := range m.replays {
		rows[i] = pickCells(table.Row{
			fmt.Sprintf("%d", r.ID),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%.0f", r.Distance),
			formatSeed(r.Seed),
			displayPlayer(r.Player),
			r.CreatedAt.Format("Jan 02 15:04"),
		}, m.columns)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the model.
func (m ReplayBrowserModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ReplayBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextGame):
			if len(m.games) > 0 {
				m.gameCursor = cycleMode(m.gameCursor, 1, len(m.games))
				m.status = ""
				m.load()
			}
			return m, nil

		case key.Matches(msg, m.keys.Watch):
			if r, ok := m.current(); ok {
				m.chosen = r.ID
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if r, ok := m.current(); ok && m.store != nil {
				if err := m.store.DeleteReplay(r.ID); err != nil {
					m.status = err.Error()
				} else {
					m.status = fmt.Sprintf("deleted replay %d", r.ID)
				}
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.load()
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// current returns the highlighted replay.
func (m ReplayBrowserModel) current() (storage.ReplayEntry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.replays) {
		return storage.ReplayEntry{}, false
	}
	return m.replays[i], true
}

// View renders the browser.
func (m ReplayBrowserModel) View() string {
	if m.quitting || m.goingBack || m.chosen != 0 {
		return ""
	}

	body := m.table.View()
	if len(m.replays) == 0 {
		body = emptyListing("No replays stored for this mode.")
	}
	return renderListing("REPLAYS", m.games, m.gameCursor, body, m.status, m.help.View(m.keys), m.width)
}

// Chosen returns the replay ID picked for watching, or 0.
func (m ReplayBrowserModel) Chosen() int64 {
	return m.chosen
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ReplayBrowserModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ReplayBrowserModel) IsQuitting() bool {
	return m.quitting
}

// WatchGame loads a stored replay and wraps it in a playback game.
func WatchGame(store *storage.Store, id int64) (registry.Game, error) {
	entry, err := store.Replay(id)
	if err != nil {
		return nil, err
	}
	r, err := tunnelcore.DecodeReplay(entry.Data)
	if err != nil {
		return nil, fmt.Errorf("replay %d: %w", id, err)
	}
	return tunnel.NewWatch(r), nil
}

// RunReplayBrowser runs the replay browser.
// Returns the chosen replay ID (0 when none) and whether to go back to the menu.
func RunReplayBrowser(store *storage.Store, width, height int) (chosen int64, goBack bool, err error) {
	p := tea.NewProgram(
		NewReplayBrowserModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return 0, false, err
	}

	m, ok := finalModel.(ReplayBrowserModel)
	if !ok {
		return 0, false, nil
	}
	return m.Chosen(), m.IsGoingBack() || m.Chosen() != 0, nil
}
