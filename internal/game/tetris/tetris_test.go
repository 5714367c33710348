package tetris

import (
	"math/rand"
	"testing"
	"time"
)

func newGame(t *testing.T) *Game {
	t.Helper()
	g, err := New(DefaultConfig(), rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return g
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 2
	if _, err := New(cfg, rand.New(rand.NewSource(1))); err == nil {
		t.Fatalf("expected error for tiny board")
	}
	cfg = DefaultConfig()
	cfg.MinFall = cfg.FallEvery * 2
	if _, err := New(cfg, rand.New(rand.NewSource(1))); err == nil {
		t.Fatalf("expected error for inverted gravity range")
	}
	if _, err := New(DefaultConfig(), nil); err == nil {
		t.Fatalf("expected error for nil rng")
	}
}

func TestRotationRoundTrip(t *testing.T) {
	for i, s := range shapes {
		cw := rotateCW(rotateCW(rotateCW(rotateCW(s))))
		if !sameShape(cw, s) {
			t.Errorf("shape %d: four CW rotations should be identity", i)
		}
		back := rotateCCW(rotateCW(s))
		if !sameShape(back, s) {
			t.Errorf("shape %d: CCW should undo CW", i)
		}
	}
}

func TestRotateCWOrientation(t *testing.T) {
	tee := Shape{{0, 1, 0}, {1, 1, 1}}
	got := rotateCW(tee)
	want := Shape{{1, 0}, {1, 1}, {1, 0}}
	if !sameShape(got, want) {
		t.Fatalf("rotateCW(T) = %v, want %v", got, want)
	}
}

func TestMoveClampsAtWalls(t *testing.T) {
	g := newGame(t)
	for i := 0; i < g.Width()+2; i++ {
		g.Move(-1)
	}
	_, _, col := g.Piece()
	if col != 0 {
		t.Fatalf("piece should rest against the left wall, col=%d", col)
	}
	g.Move(-1)
	if _, _, again := g.Piece(); again != 0 {
		t.Fatalf("piece escaped the board, col=%d", again)
	}
}

func TestHardDropLocksAndSpawns(t *testing.T) {
	g := newGame(t)
	g.HardDrop()
	locked := 0
	for _, row := range g.Board() {
		for _, cell := range row {
			if cell != 0 {
				locked++
			}
		}
	}
	if locked != 4 {
		t.Fatalf("one tetromino should lock 4 cells, got %d", locked)
	}
	if _, row, _ := g.Piece(); row != 0 {
		t.Fatalf("a fresh piece should spawn at the top, row=%d", row)
	}
	if g.Over() {
		t.Fatalf("game over after one drop")
	}
}

func TestLineClearScoresAndDrops(t *testing.T) {
	g := newGame(t)
	// Fill the bottom row except one cell, plus a marker above that must
	// survive the clear and drop one row.
	bottom := g.Height() - 1
	for x := 1; x < g.Width(); x++ {
		g.board[bottom][x] = 1
	}
	g.board[bottom-1][3] = 1
	// Drop a vertical I piece into the gap at column 0.
	g.piece = Shape{{1}, {1}, {1}, {1}}
	g.row = 0
	g.col = 0
	g.HardDrop()

	if g.Lines() != 1 {
		t.Fatalf("lines = %d, want 1", g.Lines())
	}
	if g.Score() != 100 {
		t.Fatalf("score = %d, want 100", g.Score())
	}
	if g.board[bottom][3] != 1 {
		t.Fatalf("marker cell should drop into the cleared row")
	}
	// The I piece occupied rows bottom-3..bottom; after one clear its top
	// three cells remain, shifted down by one.
	for y := bottom - 2; y <= bottom; y++ {
		if g.board[y][0] != 1 {
			t.Fatalf("leftover I cells missing at row %d", y)
		}
	}
	if g.board[0][0] != 0 {
		t.Fatalf("top row should be empty after the clear")
	}
}

func TestStepHonorsGravityInterval(t *testing.T) {
	g := newGame(t)
	start := time.Unix(0, 0)
	g.Step(start) // primes lastFall
	_, row0, _ := g.Piece()
	g.Step(start.Add(g.FallInterval() / 2))
	if _, row, _ := g.Piece(); row != row0 {
		t.Fatalf("piece fell before the interval elapsed")
	}
	g.Step(start.Add(g.FallInterval() + time.Millisecond))
	if _, row, _ := g.Piece(); row != row0+1 {
		t.Fatalf("piece should fall one row, got %d want %d", row, row0+1)
	}
}

func TestToppedOutBoardEndsGame(t *testing.T) {
	g := newGame(t)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			g.board[y][x] = 1
		}
	}
	g.spawn()
	if !g.Over() {
		t.Fatalf("spawning into a full board should end the game")
	}
	// All inputs become no-ops once the game is over.
	_, row, col := g.Piece()
	g.Move(1)
	g.SoftDrop()
	g.RotateCW()
	if _, r, c := g.Piece(); r != row || c != col {
		t.Fatalf("inputs should be ignored after game over")
	}
}

func TestLevelScalesWithLines(t *testing.T) {
	g := newGame(t)
	if g.Level() != 1 {
		t.Fatalf("fresh game level = %d, want 1", g.Level())
	}
	g.lines = 25
	if g.Level() != 3 {
		t.Fatalf("level = %d after 25 lines, want 3", g.Level())
	}
	if g.FallInterval() >= DefaultConfig().FallEvery {
		t.Fatalf("gravity should speed up with level")
	}
}

func sameShape(a, b Shape) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}
