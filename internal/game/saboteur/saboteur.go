// Package saboteur implements the single-player crew-versus-impostor game.
// The engine is pure state plus a Step clock so the TUI can drive it from a
// tick loop and tests can drive it deterministically.
package saboteur

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/omuplay/omu/internal/game"
	"github.com/omuplay/omu/internal/grid"
)

// Role of a bot. The player is always crew.
type Role int

const (
	RoleCrew Role = iota
	RoleImpostor
)

// Outcome of a finished game. OutcomeNone means the game is still running.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeCrewWin
	OutcomeImpostorWin
)

// Config tunes a saboteur session.
type Config struct {
	Map          grid.Spec
	Bots         int
	TaskCount    int
	TaskRate     float64 // progress added per Step while working
	KillRange    int     // Manhattan distance
	KillCooldown time.Duration
	MoveInterval time.Duration // per-bot step cadence
	RepathAfter  time.Duration // force a fresh A* path after this long
}

// DefaultConfig matches the tuning the game shipped with.
func DefaultConfig() Config {
	return Config{
		Map:          grid.DefaultSpec(),
		Bots:         6,
		TaskCount:    8,
		TaskRate:     0.02,
		KillRange:    1,
		KillCooldown: 7 * time.Second,
		MoveInterval: 120 * time.Millisecond,
		RepathAfter:  250 * time.Millisecond,
	}
}

func (c Config) validate() error {
	if c.Bots < 2 {
		return fmt.Errorf("saboteur: need at least 2 bots, got %d", c.Bots)
	}
	if c.TaskCount < 1 {
		return fmt.Errorf("saboteur: need at least 1 task")
	}
	if c.TaskRate <= 0 || c.TaskRate > 1 {
		return fmt.Errorf("saboteur: task rate %v out of range", c.TaskRate)
	}
	if c.KillRange < 1 {
		return fmt.Errorf("saboteur: kill range must be positive")
	}
	if c.KillCooldown <= 0 || c.MoveInterval <= 0 || c.RepathAfter <= 0 {
		return fmt.Errorf("saboteur: intervals must be positive")
	}
	return nil
}

var botNames = []string{"Cyan", "Lime", "Purple", "Orange", "Blue", "Pink", "Brown", "Yellow"}

// Bot is a computer-controlled crewmate or impostor.
type Bot struct {
	Name  string
	Pos   grid.Point
	Alive bool
	Role  Role

	lastMove    time.Time
	killReadyAt time.Time // earliest next kill
	task        *grid.Point
	patrol      *grid.Point
	target      *grid.Point
	path        []grid.Point
	lastPos     *grid.Point
	repathDue   time.Time
}

// Corpse marks where a victim fell until the next meeting clears it.
type Corpse struct {
	Victim string
	Pos    grid.Point
}

// Engine holds one running saboteur session.
type Engine struct {
	cfg Config
	rng *rand.Rand

	world *grid.Grid

	playerPos   grid.Point
	playerAlive bool

	bots    []*Bot
	tasks   map[grid.Point]float64
	corpses []Corpse

	inTask     bool
	taskTarget grid.Point
	tasksDone  int

	meeting *Meeting
	// ballotFn overrides bot voting in tests; nil means weightedBotVote.
	ballotFn func([]*Bot) (*Bot, bool)

	outcome Outcome
	reason  string

	intersections []grid.Point
}

// New generates a map and spawns the player, tasks, and bots. Exactly one bot
// is the impostor.
func New(cfg Config, rng *rand.Rand) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("saboteur: rng is required")
	}
	world, err := grid.Generate(rng, cfg.Map)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:         cfg,
		rng:         rng,
		world:       world,
		playerAlive: true,
		tasks:       map[grid.Point]float64{},
	}

	floor := world.Floor()
	rng.Shuffle(len(floor), func(i, j int) { floor[i], floor[j] = floor[j], floor[i] })
	if len(floor) < cfg.TaskCount+cfg.Bots+1 {
		return nil, fmt.Errorf("saboteur: map too small for %d tasks and %d bots", cfg.TaskCount, cfg.Bots)
	}
	for _, p := range floor[:cfg.TaskCount] {
		e.tasks[p] = 0
	}

	center := grid.Point{Y: world.Height() / 2, X: world.Width() / 2}
	start, ok := world.NearestFree(center, func(p grid.Point) bool {
		_, isTask := e.tasks[p]
		return isTask
	})
	if !ok {
		return nil, fmt.Errorf("saboteur: no spawn tile for player")
	}
	e.playerPos = start

	names := append([]string(nil), botNames...)
	rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
	spawned := 0
	for _, p := range floor[cfg.TaskCount:] {
		if spawned == cfg.Bots {
			break
		}
		if p == e.playerPos {
			continue
		}
		if _, isTask := e.tasks[p]; isTask {
			continue
		}
		e.bots = append(e.bots, &Bot{
			Name:  names[spawned%len(names)],
			Pos:   p,
			Alive: true,
			Role:  RoleCrew,
		})
		spawned++
	}
	if spawned < cfg.Bots {
		return nil, fmt.Errorf("saboteur: could only spawn %d of %d bots", spawned, cfg.Bots)
	}
	e.bots[rng.Intn(len(e.bots))].Role = RoleImpostor
	e.intersections = world.Intersections()
	return e, nil
}

// Info identifies the game for the registry and score store.
func (e *Engine) Info() game.Info {
	return game.Info{
		ID:          "saboteur",
		Name:        "Saboteur",
		Description: "Finish the tasks or vote out the impostor",
	}
}

// World returns the generated map for rendering.
func (e *Engine) World() *grid.Grid { return e.world }

// PlayerPos returns the player's tile.
func (e *Engine) PlayerPos() grid.Point { return e.playerPos }

// PlayerAlive reports whether the player has survived so far.
func (e *Engine) PlayerAlive() bool { return e.playerAlive }

// Bots returns the live bot slice. Callers must treat it as read-only.
func (e *Engine) Bots() []*Bot { return e.bots }

// Corpses returns unreported bodies.
func (e *Engine) Corpses() []Corpse { return e.corpses }

// TasksLeft counts tasks not yet finished.
func (e *Engine) TasksLeft() int { return len(e.tasks) }

// TasksDone counts tasks the crew completed.
func (e *Engine) TasksDone() int { return e.tasksDone }

// TaskAt reports progress on the task at p, if one exists.
func (e *Engine) TaskAt(p grid.Point) (float64, bool) {
	prog, ok := e.tasks[p]
	return prog, ok
}

// Working reports whether the player is standing in a task, and its progress.
func (e *Engine) Working() (bool, float64) {
	if !e.inTask {
		return false, 0
	}
	return true, e.tasks[e.taskTarget]
}

// Outcome returns the terminal state, or OutcomeNone while running.
func (e *Engine) Outcome() Outcome { return e.outcome }

// Reason explains the outcome for the game-over screen.
func (e *Engine) Reason() string { return e.reason }

// Score awards completed tasks plus a win bonus, for the leaderboard.
func (e *Engine) Score() int {
	score := e.tasksDone * 25
	if e.outcome == OutcomeCrewWin {
		score += 100
	}
	return score
}

// CrewAlive counts the player plus living crew bots.
func (e *Engine) CrewAlive() int {
	alive := 0
	if e.playerAlive {
		alive++
	}
	for _, b := range e.bots {
		if b.Alive && b.Role == RoleCrew {
			alive++
		}
	}
	return alive
}

// ImpostorsAlive counts living impostors.
func (e *Engine) ImpostorsAlive() int {
	alive := 0
	for _, b := range e.bots {
		if b.Alive && b.Role == RoleImpostor {
			alive++
		}
	}
	return alive
}

// MovePlayer shifts the player one tile. Walls and occupied tiles block the
// move; moving cancels any task in progress.
func (e *Engine) MovePlayer(dy, dx int) {
	if !e.playerAlive || e.meeting != nil || e.outcome != OutcomeNone {
		return
	}
	e.inTask = false
	next := e.playerPos.Add(dy, dx)
	if !e.world.Walkable(next) || e.occupied(next) {
		return
	}
	e.playerPos = next
}

// ToggleTask starts working the task under the player, or stops working.
func (e *Engine) ToggleTask() {
	if !e.playerAlive || e.meeting != nil || e.outcome != OutcomeNone {
		return
	}
	if e.inTask {
		e.inTask = false
		return
	}
	if _, ok := e.tasks[e.playerPos]; ok {
		e.inTask = true
		e.taskTarget = e.playerPos
	}
}

// NearCorpse reports whether a body lies on or next to the player.
func (e *Engine) NearCorpse() bool {
	for _, c := range e.corpses {
		if c.Pos.Manhattan(e.playerPos) <= 1 {
			return true
		}
	}
	return false
}

// Step advances the simulation to now: task progress, bot movement, impostor
// kills, and win checks. It is a no-op during meetings and after game over.
func (e *Engine) Step(now time.Time) {
	if e.meeting != nil || e.outcome != OutcomeNone {
		return
	}
	e.advanceTask()
	e.stepBots(now)
	e.resolveKills(now)
	e.checkOutcome()
}

func (e *Engine) advanceTask() {
	if !e.inTask {
		return
	}
	if e.playerPos != e.taskTarget {
		e.inTask = false
		return
	}
	prog, ok := e.tasks[e.taskTarget]
	if !ok {
		e.inTask = false
		return
	}
	prog += e.cfg.TaskRate
	if prog >= 1 {
		delete(e.tasks, e.taskTarget)
		e.tasksDone++
		e.inTask = false
		return
	}
	e.tasks[e.taskTarget] = prog
}

func (e *Engine) checkOutcome() {
	if !e.playerAlive {
		e.finish(OutcomeImpostorWin, "You were eliminated by the impostor.")
		return
	}
	if len(e.tasks) == 0 {
		e.finish(OutcomeCrewWin, "All tasks completed! Crew wins.")
		return
	}
	crew := e.CrewAlive()
	impostors := e.ImpostorsAlive()
	if impostors > 0 && impostors >= crew {
		e.finish(OutcomeImpostorWin, "The impostor outnumbered the crew.")
	}
}

func (e *Engine) finish(outcome Outcome, reason string) {
	if e.outcome != OutcomeNone {
		return
	}
	e.outcome = outcome
	e.reason = reason
	e.meeting = nil
	e.inTask = false
}

func (e *Engine) occupied(p grid.Point) bool {
	if e.playerAlive && p == e.playerPos {
		return true
	}
	for _, b := range e.bots {
		if b.Alive && b.Pos == p {
			return true
		}
	}
	return false
}
