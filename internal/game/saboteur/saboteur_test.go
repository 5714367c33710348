package saboteur

import (
	"math/rand"
	"testing"
	"time"

	"github.com/omuplay/omu/internal/grid"
)

func mustGrid(t *testing.T, rows []string) *grid.Grid {
	t.Helper()
	g, err := grid.FromRows(rows)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

// testEngine builds a fixed-world engine so bot behavior is predictable.
func testEngine(t *testing.T, rows []string) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	return &Engine{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(7)),
		world:       mustGrid(t, rows),
		playerAlive: true,
		tasks:       map[grid.Point]float64{},
	}
}

func TestNewSpawnsConfiguredSession(t *testing.T) {
	cfg := DefaultConfig()
	e, err := New(cfg, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := len(e.Bots()); got != cfg.Bots {
		t.Fatalf("spawned %d bots, want %d", got, cfg.Bots)
	}
	if got := e.TasksLeft(); got != cfg.TaskCount {
		t.Fatalf("placed %d tasks, want %d", got, cfg.TaskCount)
	}
	impostors := 0
	for _, b := range e.Bots() {
		if b.Role == RoleImpostor {
			impostors++
		}
		if !b.Alive {
			t.Fatalf("bot %s spawned dead", b.Name)
		}
		if b.Pos == e.PlayerPos() {
			t.Fatalf("bot %s spawned on the player", b.Name)
		}
		if !e.World().Walkable(b.Pos) {
			t.Fatalf("bot %s spawned in a wall", b.Name)
		}
	}
	if impostors != 1 {
		t.Fatalf("expected exactly one impostor, got %d", impostors)
	}
	if !e.World().Walkable(e.PlayerPos()) {
		t.Fatalf("player spawned in a wall")
	}
	if _, onTask := e.TaskAt(e.PlayerPos()); onTask {
		t.Fatalf("player spawned on a task tile")
	}
	if e.Outcome() != OutcomeNone {
		t.Fatalf("fresh session already finished")
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bots = 1
	if _, err := New(cfg, rand.New(rand.NewSource(1))); err == nil {
		t.Fatalf("expected error for too few bots")
	}
	if _, err := New(DefaultConfig(), nil); err == nil {
		t.Fatalf("expected error for nil rng")
	}
}

func TestMovePlayerBlockedByWallsAndBots(t *testing.T) {
	e := testEngine(t, []string{
		"#####",
		"#...#",
		"#####",
	})
	e.playerPos = grid.Point{Y: 1, X: 1}
	e.bots = []*Bot{{Name: "Cyan", Pos: grid.Point{Y: 1, X: 2}, Alive: true}}

	e.MovePlayer(-1, 0)
	if e.playerPos != (grid.Point{Y: 1, X: 1}) {
		t.Fatalf("moved into wall: %v", e.playerPos)
	}
	e.MovePlayer(0, 1)
	if e.playerPos != (grid.Point{Y: 1, X: 1}) {
		t.Fatalf("moved onto bot: %v", e.playerPos)
	}
	e.bots[0].Alive = false
	e.MovePlayer(0, 1)
	if e.playerPos != (grid.Point{Y: 1, X: 2}) {
		t.Fatalf("dead bot should not block, player at %v", e.playerPos)
	}
}

func TestTaskProgressAndCompletionWinsGame(t *testing.T) {
	e := testEngine(t, []string{
		"#####",
		"#...#",
		"#####",
	})
	e.cfg.TaskRate = 0.5
	e.playerPos = grid.Point{Y: 1, X: 1}
	e.tasks[grid.Point{Y: 1, X: 1}] = 0

	e.ToggleTask()
	if working, _ := e.Working(); !working {
		t.Fatalf("expected task to start")
	}
	now := time.Unix(0, 0)
	e.Step(now)
	if working, prog := e.Working(); !working || prog != 0.5 {
		t.Fatalf("after one step working=%v progress=%v", working, prog)
	}
	e.Step(now.Add(time.Second))
	if e.TasksLeft() != 0 {
		t.Fatalf("task should be complete, %d left", e.TasksLeft())
	}
	if e.Outcome() != OutcomeCrewWin {
		t.Fatalf("completing all tasks should win, outcome=%v", e.Outcome())
	}
	if e.Score() != 125 {
		t.Fatalf("score = %d, want task points plus win bonus", e.Score())
	}
}

func TestWalkingOffTaskCancelsProgressOwnership(t *testing.T) {
	e := testEngine(t, []string{
		"#####",
		"#...#",
		"#####",
	})
	e.playerPos = grid.Point{Y: 1, X: 1}
	e.tasks[grid.Point{Y: 1, X: 1}] = 0
	e.ToggleTask()
	e.MovePlayer(0, 1)
	if working, _ := e.Working(); working {
		t.Fatalf("moving should cancel the task")
	}
	if e.TasksLeft() != 1 {
		t.Fatalf("task should remain open")
	}
}

func TestImpostorKillRespectsRangeAndCooldown(t *testing.T) {
	e := testEngine(t, []string{
		"#######",
		"#.....#",
		"#######",
	})
	e.playerPos = grid.Point{Y: 1, X: 5}
	imp := &Bot{Name: "Lime", Pos: grid.Point{Y: 1, X: 1}, Alive: true, Role: RoleImpostor}
	crew := &Bot{Name: "Pink", Pos: grid.Point{Y: 1, X: 2}, Alive: true, Role: RoleCrew}
	e.bots = []*Bot{imp, crew}
	e.tasks[grid.Point{Y: 1, X: 4}] = 0

	now := time.Unix(100, 0)
	e.resolveKills(now)
	if crew.Alive {
		t.Fatalf("crew bot in range should be killed")
	}
	if len(e.Corpses()) != 1 || e.Corpses()[0].Victim != "Pink" {
		t.Fatalf("expected Pink's corpse, got %+v", e.Corpses())
	}
	if e.PlayerAlive() != true {
		t.Fatalf("player out of range must survive")
	}

	// Second kill inside the cooldown window must not happen.
	imp.Pos = grid.Point{Y: 1, X: 4}
	e.playerPos = grid.Point{Y: 1, X: 5}
	e.resolveKills(now.Add(time.Second))
	if !e.PlayerAlive() {
		t.Fatalf("kill during cooldown")
	}
	e.resolveKills(now.Add(e.cfg.KillCooldown + time.Second))
	if e.PlayerAlive() {
		t.Fatalf("kill after cooldown should land")
	}
	e.checkOutcome()
	if e.Outcome() != OutcomeImpostorWin {
		t.Fatalf("dead player should lose, outcome=%v", e.Outcome())
	}
}

func TestBotsNeverOverlapAfterSteps(t *testing.T) {
	cfg := DefaultConfig()
	e, err := New(cfg, rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	now := time.Unix(0, 0)
	for i := 0; i < 200; i++ {
		now = now.Add(cfg.MoveInterval)
		e.stepBots(now)
		seen := map[grid.Point]string{}
		for _, b := range e.Bots() {
			if !b.Alive {
				continue
			}
			if other, clash := seen[b.Pos]; clash {
				t.Fatalf("step %d: %s and %s share %v", i, other, b.Name, b.Pos)
			}
			seen[b.Pos] = b.Name
			if b.Pos == e.PlayerPos() {
				t.Fatalf("step %d: %s stepped onto the player", i, b.Name)
			}
			if !e.World().Walkable(b.Pos) {
				t.Fatalf("step %d: %s inside a wall at %v", i, b.Name, b.Pos)
			}
		}
	}
}

func TestOutnumberedCrewLoses(t *testing.T) {
	e := testEngine(t, []string{
		"#####",
		"#...#",
		"#####",
	})
	e.playerPos = grid.Point{Y: 1, X: 1}
	e.tasks[grid.Point{Y: 1, X: 3}] = 0
	e.bots = []*Bot{
		{Name: "Lime", Pos: grid.Point{Y: 1, X: 2}, Alive: true, Role: RoleImpostor},
	}
	e.playerAlive = false
	e.checkOutcome()
	if e.Outcome() != OutcomeImpostorWin {
		t.Fatalf("outcome = %v, want impostor win", e.Outcome())
	}
}
