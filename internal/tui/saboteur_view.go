package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/omuplay/omu/internal/game/saboteur"
	"github.com/omuplay/omu/internal/grid"
)

const saboteurTick = 60 * time.Millisecond

// saboteurView renders the social-deduction game: the map with the crew,
// the task list, and the emergency meeting overlay.
type saboteurView struct {
	app      *App
	engine   *saboteur.Engine
	recorded bool
}

func newSaboteurView(app *App, engine *saboteur.Engine) *saboteurView {
	return &saboteurView{app: app, engine: engine}
}

func (v *saboteurView) Title() string { return "saboteur" }

func (v *saboteurView) Init() tea.Cmd {
	return v.app.tick(saboteurTick)
}

func (v *saboteurView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tickMsg:
		v.engine.Step(v.app.clock())
		if cmd := v.recordOnce(); cmd != nil {
			return tea.Batch(cmd, v.app.tick(saboteurTick))
		}
		return v.app.tick(saboteurTick)

	case tea.KeyMsg:
		if v.engine.Outcome() != saboteur.OutcomeNone {
			return nil
		}
		if meeting := v.engine.Meeting(); meeting != nil {
			return v.updateMeeting(meeting, msg)
		}
		switch msg.String() {
		case "up", "w":
			v.engine.MovePlayer(-1, 0)
		case "down", "s":
			v.engine.MovePlayer(1, 0)
		case "left", "a":
			v.engine.MovePlayer(0, -1)
		case "right", "d":
			v.engine.MovePlayer(0, 1)
		case " ":
			v.engine.ToggleTask()
		case "r":
			if !v.engine.Report() {
				v.app.statusMsg = "No body in reach"
			}
		}
	}
	return nil
}

func (v *saboteurView) updateMeeting(meeting *saboteur.Meeting, msg tea.KeyMsg) tea.Cmd {
	// A non-empty Message means the vote already resolved; only Enter
	// closes the result screen.
	if meeting.Message != "" {
		if msg.String() == "enter" {
			v.engine.DismissMeeting()
		}
		return nil
	}
	switch msg.String() {
	case "up", "k":
		meeting.MoveCursor(-1)
	case "down", "j":
		meeting.MoveCursor(1)
	case "enter":
		v.engine.CastVote()
		return v.recordOnce()
	}
	return nil
}

// recordOnce persists the result the first time the game reports an outcome.
func (v *saboteurView) recordOnce() tea.Cmd {
	if v.recorded || v.engine.Outcome() == saboteur.OutcomeNone {
		return nil
	}
	v.recorded = true
	won := v.engine.Outcome() == saboteur.OutcomeCrewWin
	return v.app.finishGame("saboteur", v.engine.Score(), won, 0)
}

func (v *saboteurView) View(width int) string {
	if meeting := v.engine.Meeting(); meeting != nil {
		return v.renderMeeting(meeting)
	}

	head := fmt.Sprintf("Tasks %d/%d · Crew %d · Score %d",
		v.engine.TasksDone(),
		v.engine.TasksDone()+v.engine.TasksLeft(),
		v.engine.CrewAlive(),
		v.engine.Score(),
	)
	if working, progress := v.engine.Working(); working {
		head += fmt.Sprintf(" · fixing %3.0f%%", progress*100)
	}

	lines := []string{head, v.renderMap()}
	if v.engine.Outcome() != saboteur.OutcomeNone {
		banner := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
		if v.engine.Outcome() == saboteur.OutcomeCrewWin {
			banner = banner.Foreground(lipgloss.Color("#50FA7B"))
		}
		lines = append(lines, banner.Render(v.engine.Reason()), "Esc → back to menu")
	} else {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Render("Arrows → move    Space → work task    R → report body    Esc → quit"))
	}
	return strings.Join(lines, "\n")
}

func (v *saboteurView) renderMap() string {
	world := v.engine.World()
	rows := make([][]rune, world.Height())
	for y := range rows {
		rows[y] = make([]rune, world.Width())
		for x := range rows[y] {
			p := grid.Point{Y: y, X: x}
			if world.Walkable(p) {
				rows[y][x] = '.'
			} else {
				rows[y][x] = world.WallGlyph(p)
			}
		}
	}
	for _, p := range world.Floor() {
		if _, ok := v.engine.TaskAt(p); ok {
			rows[p.Y][p.X] = 'T'
		}
	}
	for _, corpse := range v.engine.Corpses() {
		rows[corpse.Pos.Y][corpse.Pos.X] = 'X'
	}
	for _, bot := range v.engine.Bots() {
		if !bot.Alive {
			continue
		}
		rows[bot.Pos.Y][bot.Pos.X] = rune(bot.Name[0])
	}
	if v.engine.PlayerAlive() {
		pos := v.engine.PlayerPos()
		rows[pos.Y][pos.X] = '@'
	}
	out := make([]string, len(rows))
	for y, row := range rows {
		out[y] = string(row)
	}
	return strings.Join(out, "\n")
}

func (v *saboteurView) renderMeeting(meeting *saboteur.Meeting) string {
	title := lipgloss.NewStyle().Bold(true).Render("EMERGENCY MEETING")
	lines := []string{title, "Who did this?"}
	for i, candidate := range meeting.Candidates {
		marker := "  "
		if i == meeting.Cursor {
			marker = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%s", marker, candidate.Name))
	}
	marker := "  "
	if meeting.SkipSelected() {
		marker = "> "
	}
	lines = append(lines, fmt.Sprintf("%sSkip vote", marker))
	if meeting.Message != "" {
		lines = append(lines, "", meeting.Message, "Enter → continue")
	} else {
		lines = append(lines, "", "Up/Down → choose    Enter → vote")
	}
	return strings.Join(lines, "\n")
}
