// internal/tui/app.go
//
// This is the main TUI for omu. It uses bubbletea, which follows The Elm
// Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/omuplay/omu/internal/config"
	"github.com/omuplay/omu/internal/game"
	"github.com/omuplay/omu/internal/game/dice"
	"github.com/omuplay/omu/internal/game/quiz"
	"github.com/omuplay/omu/internal/game/rooms"
	"github.com/omuplay/omu/internal/game/saboteur"
	"github.com/omuplay/omu/internal/game/tetris"
	"github.com/omuplay/omu/internal/logbook"
	"github.com/omuplay/omu/internal/profile"
	"github.com/omuplay/omu/internal/scores"
)

// appState represents which "screen" we're on
type appState int

const (
	stateSetup    appState = iota // First-run player name and tier entry
	stateMainMenu                 // Game picker
	statePlaying                  // A game view is active
	stateScores                   // Leaderboard tables
)

const (
	recentLimit = 6
	storeWait   = 5 * time.Second
)

// gameView is one running game screen. Views hold a pointer back to the App
// and return commands from Update.
type gameView interface {
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width int) string
}

// tickMsg drives game loops.
type tickMsg time.Time

// resultSavedMsg reports the outcome of persisting a finished session.
type resultSavedMsg struct {
	gameID string
	score  int64
	err    error
}

// recentResultsMsg refreshes the sidebar history.
type recentResultsMsg struct {
	entries []scores.Entry
	err     error
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithRand injects a deterministic random source.
func WithRand(rng *rand.Rand) AppOption {
	return func(a *App) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// WithClock overrides the time source used by game loops.
func WithClock(clock func() time.Time) AppOption {
	return func(a *App) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state    appState
	config   *config.Config
	logbook  *logbook.Logbook
	store    *scores.Store
	library  *quiz.Library
	registry *game.Registry
	player   *profile.Profile

	rng   *rand.Rand
	clock func() time.Time

	// UI components
	mainMenu  list.Model
	nameInput textinput.Model
	tierIdx   int
	active    gameView
	gameStart time.Time
	scores    *scoresView
	statusMsg string

	recent []scores.Entry

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// menuItem implements list.Item interface for our menu items
type menuItem struct {
	id    string
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new App instance.
func NewApp(cfg *config.Config, book *logbook.Logbook, store *scores.Store, library *quiz.Library, opts ...AppOption) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("tui: config is required")
	}

	nameInput := textinput.New()
	nameInput.Placeholder = "player name"
	nameInput.CharLimit = 24
	nameInput.Focus()

	app := &App{
		state:     stateSetup,
		config:    cfg,
		logbook:   book,
		store:     store,
		library:   library,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		clock:     time.Now,
		nameInput: nameInput,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}

	app.registry = buildRegistry(cfg, library, app.rng)
	app.mainMenu = buildMainMenu(app.registry)

	if err := app.loadPlayer(); err != nil {
		return nil, err
	}
	if app.config.PlayerConfigured() {
		app.state = stateMainMenu
	}
	app.logInfo("Session opened · player %s (%s tier, %d credits)",
		app.player.Name, app.player.Tier.Name(), app.player.Credits())
	return app, nil
}

// buildRegistry installs a factory per game so the menu and launcher share
// one catalog.
func buildRegistry(cfg *config.Config, library *quiz.Library, rng *rand.Rand) *game.Registry {
	reg := game.NewRegistry()

	sabCfg := saboteur.DefaultConfig()
	sabCfg.Bots = cfg.File.Games.Saboteur.Bots
	sabCfg.TaskCount = cfg.File.Games.Saboteur.Tasks
	sabCfg.KillRange = cfg.File.Games.Saboteur.KillRange
	sabCfg.KillCooldown = time.Duration(cfg.File.Games.Saboteur.KillCooldownSeconds) * time.Second
	sabCfg.Map.Width = cfg.File.Games.Saboteur.MapWidth
	sabCfg.Map.Height = cfg.File.Games.Saboteur.MapHeight
	reg.MustRegister(game.Info{
		ID:          "saboteur",
		Name:        "Saboteur",
		Description: "Finish tasks before the impostor finds you",
	}, func() (game.Game, error) {
		return saboteur.New(sabCfg, rng)
	})

	tetCfg := tetris.DefaultConfig()
	tetCfg.Width = cfg.File.Games.Tetris.Width
	tetCfg.Height = cfg.File.Games.Tetris.Height
	tetCfg.FallEvery = time.Duration(cfg.File.Games.Tetris.FallMillis) * time.Millisecond
	reg.MustRegister(game.Info{
		ID:          "tetris",
		Name:        "Tetris",
		Description: "Stack falling pieces, clear lines",
	}, func() (game.Game, error) {
		return tetris.New(tetCfg, rng)
	})

	diceCfg := dice.DefaultConfig()
	diceCfg.Rounds = cfg.File.Games.Dice.Rounds
	reg.MustRegister(game.Info{
		ID:          "dice",
		Name:        "Dice Duel",
		Description: "Wager credits on 2d6 against the house",
	}, func() (game.Game, error) {
		return dice.New(diceCfg, rng)
	})

	reg.MustRegister(game.Info{
		ID:          "rooms",
		Name:        "Dungeon Rooms",
		Description: "Explore the hall and its eight rooms",
	}, func() (game.Game, error) {
		return rooms.New(), nil
	})

	quizCfg := quiz.DefaultConfig()
	quizCfg.Questions = cfg.File.Games.Quiz.Questions
	quizCfg.PerQuestion = time.Duration(cfg.File.Games.Quiz.SecondsPerQuestion) * time.Second
	reg.MustRegister(game.Info{
		ID:          "quiz",
		Name:        "Quiz",
		Description: "Timed multiple-choice trivia",
	}, func() (game.Game, error) {
		pack, err := pickPack(library, cfg.File.Games.Quiz.Pack)
		if err != nil {
			return nil, err
		}
		return quiz.NewSession(pack, quizCfg, rng)
	})

	return reg
}

// pickPack resolves the configured pack id, falling back to the first
// installed pack when the id is unknown.
func pickPack(library *quiz.Library, id string) (quiz.Pack, error) {
	if library == nil {
		return quiz.Pack{}, fmt.Errorf("tui: no quiz packs available")
	}
	if id != "" {
		if pack, err := library.Pack(id); err == nil {
			return pack, nil
		}
	}
	ids := library.IDs()
	if len(ids) == 0 {
		return quiz.Pack{}, fmt.Errorf("tui: no quiz packs available")
	}
	return library.Pack(ids[0])
}

// buildMainMenu creates the menu from the registry catalog.
func buildMainMenu(reg *game.Registry) list.Model {
	items := []list.Item{}
	for _, info := range reg.Infos() {
		items = append(items, menuItem{id: info.ID, title: info.Name, desc: info.Description})
	}
	items = append(items,
		menuItem{id: "scores", title: "Leaderboard", desc: "Top scores per game"},
		menuItem{id: "exit", title: "Exit", desc: "Quit omu"},
	)
	menu := list.New(items, list.NewDefaultDelegate(), 0, 0)
	menu.Title = "◉ OMU ARCADE"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	return menu
}

// loadPlayer restores the player from the score store, or keeps an
// in-memory profile when no store is wired.
func (a *App) loadPlayer() error {
	name := a.config.PlayerName()
	tier := a.config.PlayerTier()
	if a.store == nil {
		p, err := profile.New(name, tier)
		if err != nil {
			return err
		}
		a.player = p
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeWait)
	defer cancel()
	record, err := a.store.EnsurePlayer(ctx, name, tier)
	if err != nil {
		return err
	}
	p, err := profile.Restore(record.ID, record.Name, record.Tier, record.Credits)
	if err != nil {
		return err
	}
	a.player = p
	return nil
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return a.fetchRecentResults()
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		return a, nil

	case recentResultsMsg:
		if msg.err == nil {
			a.recent = msg.entries
		}
		return a, nil

	case resultSavedMsg:
		if msg.err != nil {
			a.statusMsg = fmt.Sprintf("Saving result failed: %v", msg.err)
			a.logError("Result save failed for %s: %v", msg.gameID, msg.err)
			return a, nil
		}
		a.statusMsg = fmt.Sprintf("%s · %d points recorded", msg.gameID, msg.score)
		return a, a.fetchRecentResults()

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			switch a.state {
			case stateMainMenu:
				a.logInfo("Session closed")
				return a, tea.Quit
			case statePlaying, stateScores:
				return a.returnToMainMenu()
			}
		case "esc":
			switch a.state {
			case statePlaying, stateScores:
				return a.returnToMainMenu()
			}
		case "enter":
			switch a.state {
			case stateSetup:
				return a.confirmSetup()
			case stateMainMenu:
				return a.handleMainMenuSelection()
			}
		case "tab":
			if a.state == stateSetup {
				a.tierIdx = (a.tierIdx + 1) % len(profile.Tiers())
				return a, nil
			}
		}
	}

	var cmds []tea.Cmd
	switch a.state {
	case stateSetup:
		var cmd tea.Cmd
		a.nameInput, cmd = a.nameInput.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case stateMainMenu:
		var cmd tea.Cmd
		a.mainMenu, cmd = a.mainMenu.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case statePlaying:
		if a.active != nil {
			if cmd := a.active.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	case stateScores:
		if a.scores != nil {
			if cmd := a.scores.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) confirmSetup() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(a.nameInput.Value())
	if name == "" {
		a.statusMsg = "Enter a player name"
		return a, nil
	}
	tier := profile.Tiers()[a.tierIdx]
	if err := a.config.SetPlayer(name, tier); err != nil {
		a.statusMsg = fmt.Sprintf("Saving player failed: %v", err)
		return a, nil
	}
	if err := a.loadPlayer(); err != nil {
		a.statusMsg = fmt.Sprintf("Loading player failed: %v", err)
		return a, nil
	}
	a.logInfo("Player %s joined on the %s tier", a.player.Name, a.player.Tier.Name())
	a.state = stateMainMenu
	a.statusMsg = fmt.Sprintf("Welcome, %s", a.player.Name)
	return a, a.fetchRecentResults()
}

// handleMainMenuSelection processes menu item selection
func (a *App) handleMainMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}

	switch item.id {
	case "scores":
		a.logInfo("Menu · Leaderboard selected")
		a.scores = newScoresView(a)
		a.state = stateScores
		return a, a.scores.Init()
	case "exit":
		a.logInfo("Session closed")
		return a, tea.Quit
	default:
		return a.launchGame(item.id)
	}
}

func (a *App) launchGame(id string) (tea.Model, tea.Cmd) {
	resolved, err := a.registry.Resolve(id)
	if err != nil {
		a.statusMsg = fmt.Sprintf("Launch failed: %v", err)
		a.logError("Launch failed for %s: %v", id, err)
		return a, nil
	}

	var view gameView
	switch g := resolved.(type) {
	case *saboteur.Engine:
		view = newSaboteurView(a, g)
	case *tetris.Game:
		view = newTetrisView(a, g)
	case *dice.Duel:
		view = newDiceView(a, g)
	case *rooms.World:
		view = newRoomsView(a, g)
	case *quiz.Session:
		view = newQuizView(a, g)
	default:
		a.statusMsg = fmt.Sprintf("No screen for game %q", id)
		return a, nil
	}

	a.logInfo("Game %s launched", id)
	a.active = view
	a.gameStart = a.clock()
	a.state = statePlaying
	a.statusMsg = ""
	return a, view.Init()
}

// returnToMainMenu transitions back to the main menu
func (a *App) returnToMainMenu() (tea.Model, tea.Cmd) {
	if a.state == statePlaying && a.active != nil {
		a.logInfo("Game %s closed", a.active.Title())
	}
	a.state = stateMainMenu
	a.active = nil
	a.gameStart = time.Time{}
	a.scores = nil
	return a, a.fetchRecentResults()
}

// finishGame persists a finished session and settles any wager payout.
// Views call this exactly once when their game ends.
func (a *App) finishGame(gameID string, score int, won bool, payout int64) tea.Cmd {
	if payout != 0 {
		a.player.Settle(payout)
	}
	var elapsed time.Duration
	if !a.gameStart.IsZero() {
		elapsed = a.clock().Sub(a.gameStart)
	}
	if won {
		a.logbook.Game(gameID, "won with %d points", score)
	} else {
		a.logbook.Game(gameID, "finished with %d points", score)
	}
	if a.store == nil {
		return func() tea.Msg {
			return resultSavedMsg{gameID: gameID, score: int64(score)}
		}
	}
	playerID := a.player.ID
	credits := a.player.Credits()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeWait)
		defer cancel()
		if err := a.store.SaveCredits(ctx, playerID, credits); err != nil {
			return resultSavedMsg{gameID: gameID, err: err}
		}
		result, err := a.store.RecordResult(ctx, scores.Result{
			PlayerID: playerID,
			GameID:   gameID,
			Score:    int64(score),
			Won:      won,
			Duration: elapsed,
		})
		if err != nil {
			return resultSavedMsg{gameID: gameID, err: err}
		}
		return resultSavedMsg{gameID: gameID, score: result.Score}
	}
}

func (a *App) fetchRecentResults() tea.Cmd {
	if a.store == nil || a.player == nil {
		return nil
	}
	playerID := a.player.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeWait)
		defer cancel()
		entries, err := a.store.RecentResults(ctx, playerID, recentLimit)
		return recentResultsMsg{entries: entries, err: err}
	}
}

func (a *App) tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	rightWidth := max(30, width/3)
	leftWidth := width - rightWidth - 4
	if leftWidth < 40 {
		leftWidth = width - 4
		rightWidth = 0
	}
	if a.state == stateMainMenu {
		a.mainMenu.SetSize(max(20, leftWidth-4), max(10, a.height-12))
	}
	var content string
	switch a.state {
	case stateSetup:
		content = a.renderSetup()
	case stateMainMenu:
		content = a.mainMenu.View()
	case statePlaying:
		if a.active != nil {
			content = a.active.View(leftWidth - 4)
		}
	case stateScores:
		if a.scores != nil {
			content = a.scores.View(leftWidth - 4)
		}
	}
	return a.renderBoard(content, leftWidth, rightWidth)
}

func (a *App) renderSetup() string {
	tiers := profile.Tiers()
	var row []string
	for i, tier := range tiers {
		label := fmt.Sprintf(" %s (%d credits) ", tier.Name(), tier.StartingCredits())
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
		if i == a.tierIdx {
			style = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
		}
		row = append(row, style.Render(label))
	}
	head := lipgloss.NewStyle().Bold(true).Render("Who's playing?")
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		MarginTop(1).
		Render("Tab → switch tier    Enter → start")
	return lipgloss.JoinVertical(lipgloss.Left,
		head,
		a.nameInput.View(),
		strings.Join(row, " "),
		hint,
	)
}

func (a *App) renderBoard(mainContent string, leftWidth, rightWidth int) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("◉ OMU")
	leftBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, leftWidth)).
		Render(a.renderMainArea(mainContent, leftWidth-4))
	var body string
	if rightWidth > 0 {
		rightBox := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(max(20, rightWidth)).
			Render(a.renderPlayerPanel(rightWidth - 4))
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	} else {
		body = leftBox
	}
	sections := []string{header, body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderMainArea(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		content = "Pick a game."
	}
	return lipgloss.NewStyle().Width(max(20, width)).Render(content)
}

func (a *App) renderPlayerPanel(width int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render("Player")
	lines := []string{}
	if a.player != nil {
		lines = append(lines,
			fmt.Sprintf("%s · %s tier", a.player.Name, a.player.Tier.Name()),
			fmt.Sprintf("Credits: %d", a.player.Credits()),
			fmt.Sprintf("Max wager: %d", a.player.Tier.MaxWager()),
		)
	}
	if len(a.recent) > 0 {
		lines = append(lines, "", "Recent:")
		for _, entry := range a.recent {
			mark := " "
			if entry.Won {
				mark = "★"
			}
			lines = append(lines, fmt.Sprintf("%s %-8s %5d pt", mark, entry.GameID, entry.Score))
		}
	}
	body := lipgloss.NewStyle().Width(max(20, width)).Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, title, body)
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, _ := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
