package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/omuplay/omu/internal/game/rooms"
)

type roomsView struct {
	app      *App
	world    *rooms.World
	message  string
	recorded bool
}

func newRoomsView(app *App, world *rooms.World) *roomsView {
	return &roomsView{app: app, world: world}
}

func (v *roomsView) Title() string { return "rooms" }

func (v *roomsView) Init() tea.Cmd { return nil }

func (v *roomsView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "up", "w":
		v.world.Move(-1, 0)
	case "down", "s":
		v.world.Move(1, 0)
	case "left", "a":
		v.world.Move(0, -1)
	case "right", "d":
		v.world.Move(0, 1)
	case " ", "enter":
		if dest, ok := v.world.Interact(); ok {
			v.message = fmt.Sprintf("Entered %s", dest)
		} else {
			v.message = "Nothing to open here"
		}
	case "x":
		return v.recordOnce()
	}
	return nil
}

func (v *roomsView) recordOnce() tea.Cmd {
	if v.recorded {
		return nil
	}
	v.recorded = true
	won := v.world.VisitedRooms() == 8
	return v.app.finishGame("rooms", v.world.Score(), won, 0)
}

func (v *roomsView) View(width int) string {
	head := fmt.Sprintf("Location: %s · Rooms visited %d/8 · Score %d",
		v.world.CurrentMap(), v.world.VisitedRooms(), v.world.Score())

	py, px := v.world.Player()
	var b strings.Builder
	for y, row := range v.world.Rows() {
		for x, tile := range row {
			if y == py && x == px {
				b.WriteRune('@')
			} else {
				b.WriteRune(tile)
			}
		}
		b.WriteString("\n")
	}

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render("Arrows → move    Space → open door/exit    X → cash out    Esc → quit")
	lines := []string{head, strings.TrimRight(b.String(), "\n"), hint}
	if v.message != "" {
		lines = append(lines, v.message)
	}
	return strings.Join(lines, "\n")
}
