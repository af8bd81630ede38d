package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tunnel-runner/internal/registry"
	"github.com/vovakirdan/tunnel-runner/internal/storage"
)

const maxScores = 100

// Score table columns. Player and Date go first on narrow terminals.
var scoreColumns = []table.Column{
	{Title: "Rank", Width: 5},
	{Title: "Score", Width: 8},
	{Title: "Dist", Width: 7},
	{Title: "Combo", Width: 5},
	{Title: "Seed", Width: 8},
	{Title: "Replay", Width: 7},
	{Title: "Player", Width: 10},
	{Title: "Date", Width: 12},
}

var scoreOptional = []int{7, 6}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Watch    key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Watch, k.NextMode, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Watch},
		{k.NextMode, k.PrevMode, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
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
			key.WithHelp("enter", "watch replay"),
		),
		NextMode: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next mode"),
		),
		PrevMode: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev mode"),
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

// ScoreboardModel lists the best runs per mode. Runs that kept their replay
// can be watched straight from the table.
type ScoreboardModel struct {
	games      []registry.GameInfo
	gameCursor int
	store      *storage.Store
	scores     []storage.ScoreEntry
	columns    []int // Indices into scoreColumns currently shown
	table      table.Model
	help       help.Model
	keys       ScoreboardKeyMap
	width      int
	height     int
	status     string
	quitting   bool
	goingBack  bool
	chosen     int64 // Replay ID to watch, 0 if none
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		games:  registry.List(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.layout()
	m.load()
	return m
}

// layout rebuilds the table for the current terminal size.
func (m *ScoreboardModel) layout() {
	var cols []table.Column
	cols, m.columns = fitColumns(scoreColumns, scoreOptional, m.width)
	m.table = newListTable(cols, m.height)
	m.help.Width = m.width
}

// load reads the scores of the current mode.
func (m *ScoreboardModel) load() {
	m.scores = nil
	if m.store != nil && len(m.games) > 0 {
		scores, err := m.store.TopScores(m.games[m.gameCursor].ID, maxScores)
		if err != nil {
			m.status = err.Error()
		}
		m.scores = scores
	}

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		replay := "-"
		if s.ReplayID != 0 {
			replay = fmt.Sprintf("#%d", s.ReplayID)
		}
		rows[i] = pickCells(table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%.0f", s.Distance),
			fmt.Sprintf("x%d", s.BestCombo),
			formatSeed(s.Seed),
			replay,
			displayPlayer(s.Player),
			s.CreatedAt.Format("Jan 02 15:04"),
		}, m.columns)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

		case key.Matches(msg, m.keys.NextMode):
			return m.switchMode(1), nil

		case key.Matches(msg, m.keys.PrevMode):
			return m.switchMode(-1), nil

		case key.Matches(msg, m.keys.Watch):
			s, ok := m.current()
			switch {
			case !ok:
			case s.ReplayID == 0:
				m.status = "no replay stored for this run"
			default:
				m.chosen = s.ReplayID
				return m, tea.Quit
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

func (m ScoreboardModel) switchMode(delta int) ScoreboardModel {
	if len(m.games) > 0 {
		m.gameCursor = cycleMode(m.gameCursor, delta, len(m.games))
		m.status = ""
		m.load()
	}
	return m
}

// current returns the highlighted score.
func (m ScoreboardModel) current() (storage.ScoreEntry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.scores) {
		return storage.ScoreEntry{}, false
	}
	return m.scores[i], true
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack || m.chosen != 0 {
		return ""
	}

	body := m.table.View()
	if len(m.scores) == 0 {
		body = emptyListing("No runs recorded yet.\nCrash into something to set a score!")
	}
	return renderListing("HIGH SCORES", m.games, m.gameCursor, body, m.status, m.help.View(m.keys), m.width)
}

// Chosen returns the replay ID picked for watching, or 0.
func (m ScoreboardModel) Chosen() int64 {
	return m.chosen
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns the replay ID picked for watching (0 when none) and whether to go
// back to the menu.
func RunScoreboard(store *storage.Store, width, height int) (chosen int64, goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return 0, false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return 0, false, nil
	}
	return m.Chosen(), m.IsGoingBack() || m.Chosen() != 0, nil
}
