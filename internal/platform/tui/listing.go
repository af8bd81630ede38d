package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tunnel-runner/internal/registry"
)

// Shared look of the scoreboard and the replay browser.
var (
	listTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	listPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	listEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(1, 4)
	listDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	modeTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
)

// newListTable creates a focused table with the listing styles.
func newListTable(columns []table.Column, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, height-9)), // Title, tabs, borders, status and help
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// fitColumns drops the columns listed in optional, last first, until the
// table fits width. It returns the kept columns and their indices.
func fitColumns(columns []table.Column, optional []int, width int) ([]table.Column, []int) {
	drop := make(map[int]bool)
	total := func() int {
		w := 4 // Panel border and padding
		for i, c := range columns {
			if !drop[i] {
				w += c.Width + 2
			}
		}
		return w
	}
	for k := len(optional) - 1; k >= 0 && total() > width; k-- {
		drop[optional[k]] = true
	}

	kept := make([]table.Column, 0, len(columns))
	index := make([]int, 0, len(columns))
	for i, c := range columns {
		if !drop[i] {
			kept = append(kept, c)
			index = append(index, i)
		}
	}
	return kept, index
}

// pickCells selects the cells of row at index.
func pickCells(row table.Row, index []int) table.Row {
	out := make(table.Row, len(index))
	for i, j := range index {
		out[i] = row[j]
	}
	return out
}

// cycleMode moves cursor by delta through n modes, wrapping around.
func cycleMode(cursor, delta, n int) int {
	if n == 0 {
		return 0
	}
	return ((cursor+delta)%n + n) % n
}

// modeTabs renders one tab per mode, or just the current one between arrows
// when the tabs do not fit width.
func modeTabs(games []registry.GameInfo, cursor, width int) string {
	if len(games) == 0 {
		return ""
	}
	tabs := make([]string, len(games))
	visible := 0
	for i, g := range games {
		if i == cursor {
			tabs[i] = activeTabStyle.Render(g.Title)
		} else {
			tabs[i] = modeTabStyle.Render(g.Title)
		}
		visible += lipgloss.Width(tabs[i]) + 1
	}
	if visible-1 <= width-4 {
		return centerStyled(strings.Join(tabs, " "), visible-1, width)
	}
	return centerText(fmt.Sprintf("< %s >", games[cursor].Title), width)
}

// renderListing lays out a listing screen: title, mode tabs, the panel and
// the status and help lines.
func renderListing(title string, games []registry.GameInfo, cursor int, body, status, help string, width int) string {
	var b strings.Builder

	b.WriteString(centerStyled(listTitleStyle.Render(title), len([]rune(title)), width))
	b.WriteString("\n\n")
	if tabs := modeTabs(games, cursor, width); tabs != "" {
		b.WriteString(tabs)
		b.WriteString("\n\n")
	}

	b.WriteString(listPanelStyle.Render(body))
	b.WriteString("\n")

	if status != "" {
		b.WriteString(listDimStyle.Render(status))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(help))
	return b.String()
}

// emptyListing renders the placeholder shown instead of an empty table.
func emptyListing(msg string) string {
	return listEmptyStyle.Render(msg)
}

func displayPlayer(p string) string {
	if p == "" {
		return "local"
	}
	return p
}

func formatSeed(seed uint32) string {
	return fmt.Sprintf("%08x", seed)
}
