package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/omuplay/omu/internal/game/dice"
)

const wagerStep = 5

type diceView struct {
	app      *App
	duel     *dice.Duel
	wager    int64
	message  string
	recorded bool
}

func newDiceView(app *App, duel *dice.Duel) *diceView {
	wager := int64(app.config.File.Games.Dice.DefaultWager)
	if wager < 1 {
		wager = wagerStep
	}
	if !app.player.CanWager(wager) {
		wager = 1
	}
	return &diceView{app: app, duel: duel, wager: wager}
}

func (v *diceView) Title() string { return "dice" }

func (v *diceView) Init() tea.Cmd { return nil }

func (v *diceView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if v.duel.Finished() {
		return nil
	}
	switch key.String() {
	case "left", "h", "-":
		if v.wager > wagerStep {
			v.wager -= wagerStep
		} else if v.wager > 1 {
			v.wager = 1
		}
	case "right", "l", "+", "=":
		next := v.wager + wagerStep
		if v.wager == 1 {
			next = wagerStep
		}
		if v.app.player.CanWager(next) {
			v.wager = next
		}
	case "enter", " ":
		return v.playRound()
	}
	return nil
}

func (v *diceView) playRound() tea.Cmd {
	if !v.app.player.CanWager(v.wager) {
		v.message = fmt.Sprintf("Cannot stake %d credits", v.wager)
		return nil
	}
	round, err := v.duel.Play(int(v.wager))
	if err != nil {
		v.message = err.Error()
		return nil
	}
	v.app.player.Settle(int64(round.Payout))
	v.message = fmt.Sprintf("You rolled %d, house rolled %d · %s",
		round.PlayerTotal(), round.HouseTotal(), round.Outcome)
	if v.duel.Finished() && !v.recorded {
		v.recorded = true
		won := v.duel.Net() > 0
		return v.app.finishGame("dice", v.duel.Score(), won, 0)
	}
	return nil
}

func (v *diceView) View(width int) string {
	head := fmt.Sprintf("Round %d of %d · Net %+d credits",
		len(v.duel.Rounds())+boolInt(!v.duel.Finished()),
		len(v.duel.Rounds())+v.duel.RoundsLeft(),
		v.duel.Net(),
	)

	lines := []string{head, ""}
	for i, round := range v.duel.Rounds() {
		lines = append(lines, fmt.Sprintf("  #%d  you %d%s · house %d%s · %s %+d",
			i+1,
			round.PlayerTotal(), dieFaces(round.Player),
			round.HouseTotal(), dieFaces(round.House),
			round.Outcome, round.Payout,
		))
	}
	lines = append(lines, "")
	if v.duel.Finished() {
		summary := fmt.Sprintf("Duel over · %d won, %d lost, %d tied · score %d",
			v.duel.Wins(), v.duel.Losses(), v.duel.Ties(), v.duel.Score())
		lines = append(lines,
			lipgloss.NewStyle().Bold(true).Render(summary),
			"Esc → back to menu")
	} else {
		lines = append(lines,
			fmt.Sprintf("Stake: %d credits", v.wager),
			lipgloss.NewStyle().
				Foreground(lipgloss.Color("#AAAAAA")).
				Render("Left/Right → stake    Enter → roll    Esc → quit"))
	}
	if v.message != "" {
		lines = append(lines, "", v.message)
	}
	return strings.Join(lines, "\n")
}

func dieFaces(pair [2]int) string {
	return fmt.Sprintf(" (%d+%d)", pair[0], pair[1])
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
