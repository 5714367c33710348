package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/omuplay/omu/internal/scores"
)

const topLimit = 10

type topScoresMsg struct {
	gameID  string
	entries []scores.Entry
	err     error
}

// scoresView shows the leaderboard for one game at a time.
type scoresView struct {
	app     *App
	gameIDs []string
	tab     int
	board   table.Model
	loadErr string
}

func newScoresView(app *App) *scoresView {
	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 8},
		{Title: "Won", Width: 4},
		{Title: "Time", Width: 7},
		{Title: "When", Width: 16},
	}
	board := table.New(
		table.WithColumns(columns),
		table.WithHeight(topLimit+1),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#444444"))
	board.SetStyles(styles)
	return &scoresView{
		app:     app,
		gameIDs: app.registry.IDs(),
		board:   board,
	}
}

func (v *scoresView) Init() tea.Cmd {
	return v.fetch()
}

func (v *scoresView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case topScoresMsg:
		if msg.gameID != v.currentGame() {
			return nil
		}
		if msg.err != nil {
			v.loadErr = msg.err.Error()
			v.board.SetRows(nil)
			return nil
		}
		v.loadErr = ""
		rows := make([]table.Row, 0, len(msg.entries))
		for i, entry := range msg.entries {
			won := ""
			if entry.Won {
				won = "★"
			}
			elapsed := ""
			if entry.Duration > 0 {
				elapsed = entry.Duration.Truncate(time.Second).String()
			}
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", i+1),
				entry.PlayerName,
				fmt.Sprintf("%d", entry.Score),
				won,
				elapsed,
				entry.PlayedAt.Format("2006-01-02 15:04"),
			})
		}
		v.board.SetRows(rows)
		return nil

	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			v.tab = (v.tab + len(v.gameIDs) - 1) % len(v.gameIDs)
			return v.fetch()
		case "right", "l", "tab":
			v.tab = (v.tab + 1) % len(v.gameIDs)
			return v.fetch()
		}
	}
	var cmd tea.Cmd
	v.board, cmd = v.board.Update(msg)
	return cmd
}

func (v *scoresView) currentGame() string {
	if len(v.gameIDs) == 0 {
		return ""
	}
	return v.gameIDs[v.tab]
}

func (v *scoresView) fetch() tea.Cmd {
	gameID := v.currentGame()
	store := v.app.store
	if gameID == "" || store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeWait)
		defer cancel()
		entries, err := store.TopResults(ctx, gameID, topLimit)
		return topScoresMsg{gameID: gameID, entries: entries, err: err}
	}
}

func (v *scoresView) View(width int) string {
	var tabs []string
	for i, id := range v.gameIDs {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Padding(0, 1)
		if i == v.tab {
			style = style.Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
		}
		tabs = append(tabs, style.Render(id))
	}
	lines := []string{strings.Join(tabs, "")}
	if v.loadErr != "" {
		lines = append(lines, fmt.Sprintf("Leaderboard unavailable: %s", v.loadErr))
	} else if len(v.board.Rows()) == 0 {
		lines = append(lines, "No scores recorded yet.")
	} else {
		lines = append(lines, v.board.View())
	}
	lines = append(lines, lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render("Left/Right → switch game    Esc → back"))
	return strings.Join(lines, "\n")
}
