package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/omuplay/omu/internal/game/quiz"
)

const quizTick = 250 * time.Millisecond

type quizView struct {
	app         *App
	session     *quiz.Session
	perQuestion time.Duration
	countdown   progress.Model
	cursor      int
	feedback    string
	recorded    bool
}

func newQuizView(app *App, session *quiz.Session) *quizView {
	perQuestion := time.Duration(app.config.File.Games.Quiz.SecondsPerQuestion) * time.Second
	bar := progress.New(progress.WithDefaultGradient())
	bar.ShowPercentage = false
	return &quizView{
		app:         app,
		session:     session,
		perQuestion: perQuestion,
		countdown:   bar,
	}
}

func (v *quizView) Title() string { return "quiz" }

func (v *quizView) Init() tea.Cmd {
	return v.app.tick(quizTick)
}

func (v *quizView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tickMsg:
		if v.session.Done() {
			return v.recordOnce()
		}
		now := v.app.clock()
		if v.session.Expired(now) {
			if result, err := v.session.TimeOut(); err == nil {
				v.feedback = fmt.Sprintf("Time's up. It was %q.", answerText(result))
				v.cursor = 0
			}
		}
		return v.app.tick(quizTick)

	case tea.KeyMsg:
		if v.session.Done() {
			return nil
		}
		question, err := v.session.Current(v.app.clock())
		if err != nil {
			return nil
		}
		switch msg.String() {
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < len(question.Choices)-1 {
				v.cursor++
			}
		case "enter", " ":
			result, err := v.session.Answer(v.cursor)
			if err != nil {
				v.feedback = err.Error()
				return nil
			}
			if result.Correct {
				v.feedback = "Correct!"
			} else {
				v.feedback = fmt.Sprintf("Nope. It was %q.", answerText(result))
			}
			v.cursor = 0
		}
	}
	return nil
}

func answerText(result quiz.Answered) string {
	q := result.Question
	if q.Answer >= 0 && q.Answer < len(q.Choices) {
		return q.Choices[q.Answer]
	}
	return ""
}

func (v *quizView) recordOnce() tea.Cmd {
	if v.recorded {
		return nil
	}
	v.recorded = true
	_, total := v.session.Progress()
	won := v.session.CorrectCount()*2 >= total
	return v.app.finishGame("quiz", v.session.Score(), won, 0)
}

func (v *quizView) View(width int) string {
	if v.session.Done() {
		return v.renderSummary()
	}
	now := v.app.clock()
	question, err := v.session.Current(now)
	if err != nil {
		return err.Error()
	}
	answered, total := v.session.Progress()
	head := fmt.Sprintf("%s · question %d of %d · score %d",
		v.session.Pack().Name, answered+1, total, v.session.Score())

	remaining := v.session.Remaining(now)
	fraction := 0.0
	if v.perQuestion > 0 {
		fraction = float64(remaining) / float64(v.perQuestion)
	}
	v.countdown.Width = max(20, min(width, 50))
	bar := fmt.Sprintf("%s %2.0fs", v.countdown.ViewAs(fraction), remaining.Seconds())

	lines := []string{head, bar, "", question.Prompt, ""}
	for i, choice := range question.Choices {
		marker := "  "
		style := lipgloss.NewStyle()
		if i == v.cursor {
			marker = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%d. %s", marker, i+1, choice)))
	}
	lines = append(lines, "", lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render("Up/Down → choose    Enter → answer    Esc → quit"))
	if v.feedback != "" {
		lines = append(lines, v.feedback)
	}
	return strings.Join(lines, "\n")
}

func (v *quizView) renderSummary() string {
	_, total := v.session.Progress()
	head := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("Quiz over · %d/%d correct · %d points",
			v.session.CorrectCount(), total, v.session.Score()))
	lines := []string{head, ""}
	for i, answered := range v.session.Answers() {
		mark := "✗"
		if answered.Correct {
			mark = "✓"
		} else if answered.TimedOut {
			mark = "⏱"
		}
		lines = append(lines, fmt.Sprintf("%s %d. %s", mark, i+1, answered.Question.Prompt))
	}
	lines = append(lines, "", "Esc → back to menu")
	return strings.Join(lines, "\n")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
