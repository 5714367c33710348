package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/omuplay/omu/internal/game/tetris"
)

const tetrisTick = 50 * time.Millisecond

type tetrisView struct {
	app      *App
	game     *tetris.Game
	recorded bool
}

func newTetrisView(app *App, g *tetris.Game) *tetrisView {
	return &tetrisView{app: app, game: g}
}

func (v *tetrisView) Title() string { return "tetris" }

func (v *tetrisView) Init() tea.Cmd {
	return v.app.tick(tetrisTick)
}

func (v *tetrisView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tickMsg:
		v.game.Step(v.app.clock())
		if cmd := v.recordOnce(); cmd != nil {
			return cmd
		}
		return v.app.tick(tetrisTick)

	case tea.KeyMsg:
		if v.game.Over() {
			return nil
		}
		switch msg.String() {
		case "left", "a":
			v.game.Move(-1)
		case "right", "d":
			v.game.Move(1)
		case "down", "s":
			v.game.SoftDrop()
		case "up", "w":
			v.game.RotateCW()
		case "z":
			v.game.RotateCCW()
		case " ":
			v.game.HardDrop()
		}
	}
	return nil
}

func (v *tetrisView) recordOnce() tea.Cmd {
	if v.recorded || !v.game.Over() {
		return nil
	}
	v.recorded = true
	return v.app.finishGame("tetris", v.game.Score(), false, 0)
}

func (v *tetrisView) View(width int) string {
	head := fmt.Sprintf("Score %d · Lines %d · Level %d",
		v.game.Score(), v.game.Lines(), v.game.Level())

	lines := []string{head, v.renderBoard()}
	if v.game.Over() {
		lines = append(lines,
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")).Render("GAME OVER"),
			"Esc → back to menu")
	} else {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Render("Arrows → move/rotate    Z → rotate back    Space → drop    Esc → quit"))
	}
	return strings.Join(lines, "\n")
}

func (v *tetrisView) renderBoard() string {
	w, h := v.game.Width(), v.game.Height()
	cells := make([][]bool, h)
	for y := range cells {
		cells[y] = make([]bool, w)
		for x, filled := range v.game.Board()[y] {
			cells[y][x] = filled != 0
		}
	}
	piece, row, col := v.game.Piece()
	for dy, pieceRow := range piece {
		for dx, filled := range pieceRow {
			if filled == 0 {
				continue
			}
			y, x := row+dy, col+dx
			if y >= 0 && y < h && x >= 0 && x < w {
				cells[y][x] = true
			}
		}
	}

	var b strings.Builder
	for y := 0; y < h; y++ {
		b.WriteString("|")
		for x := 0; x < w; x++ {
			if cells[y][x] {
				b.WriteString("[]")
			} else {
				b.WriteString(" .")
			}
		}
		b.WriteString("|")
		if y == 1 {
			b.WriteString("  Next:")
		}
		if y >= 2 && y < 2+len(v.game.Next()) {
			b.WriteString("  ")
			for _, filled := range v.game.Next()[y-2] {
				if filled != 0 {
					b.WriteString("[]")
				} else {
					b.WriteString("  ")
				}
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("+")
	b.WriteString(strings.Repeat("--", w))
	b.WriteString("+")
	return b.String()
}
