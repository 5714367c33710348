// Package tetris implements the falling-block game engine: piece movement,
// rotation, gravity, locking, and line clears. Rendering and input mapping
// live in the TUI.
package tetris

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/omuplay/omu/internal/game"
)

// Shape is a tetromino bitmap; rows of 0/1 cells.
type Shape [][]int

// shapes holds the seven tetrominoes in spawn orientation.
var shapes = []Shape{
	{{1, 1, 1, 1}},         // I
	{{1, 1}, {1, 1}},       // O
	{{0, 1, 0}, {1, 1, 1}}, // T
	{{1, 0, 0}, {1, 1, 1}}, // J
	{{0, 0, 1}, {1, 1, 1}}, // L
	{{1, 1, 0}, {0, 1, 1}}, // S
	{{0, 1, 1}, {1, 1, 0}}, // Z
}

// lineScores indexes score by lines cleared in one lock (1..4).
var lineScores = [5]int{0, 100, 300, 500, 800}

// linesPerLevel controls how fast gravity speeds up.
const linesPerLevel = 10

// Config tunes the board and gravity.
type Config struct {
	Width     int
	Height    int
	FallEvery time.Duration // gravity interval at level 1
	MinFall   time.Duration // gravity floor at high levels
}

// DefaultConfig is the classic 10x20 well.
func DefaultConfig() Config {
	return Config{
		Width:     10,
		Height:    20,
		FallEvery: 500 * time.Millisecond,
		MinFall:   80 * time.Millisecond,
	}
}

func (c Config) validate() error {
	if c.Width < 4 || c.Height < 6 {
		return fmt.Errorf("tetris: board must be at least 4x6, got %dx%d", c.Width, c.Height)
	}
	if c.FallEvery <= 0 || c.MinFall <= 0 || c.MinFall > c.FallEvery {
		return fmt.Errorf("tetris: gravity intervals are invalid")
	}
	return nil
}

// Game is one tetris session.
type Game struct {
	cfg Config
	rng *rand.Rand

	board [][]int // 0 empty, 1 locked
	piece Shape
	row   int
	col   int

	next Shape

	score    int
	lines    int
	lastFall time.Time
	over     bool
}

// New starts a session with an empty board and a spawned piece.
func New(cfg Config, rng *rand.Rand) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("tetris: rng is required")
	}
	g := &Game{cfg: cfg, rng: rng}
	g.board = make([][]int, cfg.Height)
	for y := range g.board {
		g.board[y] = make([]int, cfg.Width)
	}
	g.next = g.randomShape()
	g.spawn()
	return g, nil
}

// Info identifies the game for the registry and score store.
func (g *Game) Info() game.Info {
	return game.Info{
		ID:          "tetris",
		Name:        "Tetris",
		Description: "Stack tetrominoes and clear lines",
	}
}

func (g *Game) randomShape() Shape {
	src := shapes[g.rng.Intn(len(shapes))]
	cp := make(Shape, len(src))
	for i, row := range src {
		cp[i] = append([]int(nil), row...)
	}
	return cp
}

// spawn promotes the preview piece. The game ends when it does not fit.
func (g *Game) spawn() {
	g.piece = g.next
	g.next = g.randomShape()
	g.row = 0
	g.col = g.cfg.Width/2 - len(g.piece[0])/2
	if !g.fits(g.piece, g.row, g.col) {
		g.over = true
	}
}

// fits reports whether shape at (row, col) stays in bounds and off locked
// cells.
func (g *Game) fits(shape Shape, row, col int) bool {
	for dy, line := range shape {
		for dx, cell := range line {
			if cell == 0 {
				continue
			}
			y, x := row+dy, col+dx
			if x < 0 || x >= g.cfg.Width || y < 0 || y >= g.cfg.Height {
				return false
			}
			if g.board[y][x] != 0 {
				return false
			}
		}
	}
	return true
}

// Move shifts the piece horizontally when space allows.
func (g *Game) Move(dx int) {
	if g.over {
		return
	}
	if g.fits(g.piece, g.row, g.col+dx) {
		g.col += dx
	}
}

// SoftDrop advances the piece one row, locking it when it lands.
func (g *Game) SoftDrop() {
	if g.over {
		return
	}
	if g.fits(g.piece, g.row+1, g.col) {
		g.row++
		return
	}
	g.lock()
}

// HardDrop sends the piece straight down and locks it.
func (g *Game) HardDrop() {
	if g.over {
		return
	}
	for g.fits(g.piece, g.row+1, g.col) {
		g.row++
	}
	g.lock()
}

// RotateCW rotates clockwise; the rotation is rejected when it collides.
func (g *Game) RotateCW() {
	if g.over {
		return
	}
	rotated := rotateCW(g.piece)
	if g.fits(rotated, g.row, g.col) {
		g.piece = rotated
	}
}

// RotateCCW rotates counter-clockwise with the same collision rule.
func (g *Game) RotateCCW() {
	if g.over {
		return
	}
	rotated := rotateCCW(g.piece)
	if g.fits(rotated, g.row, g.col) {
		g.piece = rotated
	}
}

// Step applies gravity when the level-scaled interval has elapsed.
func (g *Game) Step(now time.Time) {
	if g.over {
		return
	}
	if g.lastFall.IsZero() {
		g.lastFall = now
		return
	}
	if now.Sub(g.lastFall) < g.FallInterval() {
		return
	}
	g.lastFall = now
	g.SoftDrop()
}

// FallInterval returns the gravity period for the current level.
func (g *Game) FallInterval() time.Duration {
	interval := g.cfg.FallEvery - time.Duration(g.Level()-1)*50*time.Millisecond
	if interval < g.cfg.MinFall {
		interval = g.cfg.MinFall
	}
	return interval
}

// lock stamps the piece onto the board, clears full rows, scores them, and
// spawns the next piece.
func (g *Game) lock() {
	for dy, line := range g.piece {
		for dx, cell := range line {
			if cell == 0 {
				continue
			}
			y, x := g.row+dy, g.col+dx
			if y >= 0 && y < g.cfg.Height && x >= 0 && x < g.cfg.Width {
				g.board[y][x] = 1
			}
		}
	}
	cleared := g.clearLines()
	if cleared > 0 {
		g.score += lineScores[cleared] * g.Level()
		g.lines += cleared
	}
	g.spawn()
}

// clearLines removes full rows and drops the stack, returning the count.
func (g *Game) clearLines() int {
	kept := g.board[:0]
	for _, row := range g.board {
		full := true
		for _, cell := range row {
			if cell == 0 {
				full = false
				break
			}
		}
		if !full {
			kept = append(kept, row)
		}
	}
	cleared := g.cfg.Height - len(kept)
	if cleared == 0 {
		return 0
	}
	fresh := make([][]int, 0, g.cfg.Height)
	for i := 0; i < cleared; i++ {
		fresh = append(fresh, make([]int, g.cfg.Width))
	}
	g.board = append(fresh, kept...)
	return cleared
}

// Board returns the locked cells. Callers must not mutate it.
func (g *Game) Board() [][]int { return g.board }

// Piece returns the falling shape and its top-left position.
func (g *Game) Piece() (Shape, int, int) { return g.piece, g.row, g.col }

// Next returns the preview shape.
func (g *Game) Next() Shape { return g.next }

// Score returns accumulated points.
func (g *Game) Score() int { return g.score }

// Lines returns total cleared rows.
func (g *Game) Lines() int { return g.lines }

// Level grows every ten cleared lines.
func (g *Game) Level() int { return g.lines/linesPerLevel + 1 }

// Over reports whether the well has topped out.
func (g *Game) Over() bool { return g.over }

// Width returns the board width.
func (g *Game) Width() int { return g.cfg.Width }

// Height returns the board height.
func (g *Game) Height() int { return g.cfg.Height }

func rotateCW(s Shape) Shape {
	h := len(s)
	w := len(s[0])
	out := make(Shape, w)
	for y := range out {
		out[y] = make([]int, h)
		for x := range out[y] {
			out[y][x] = s[h-1-x][y]
		}
	}
	return out
}

func rotateCCW(s Shape) Shape {
	h := len(s)
	w := len(s[0])
	out := make(Shape, w)
	for y := range out {
		out[y] = make([]int, h)
		for x := range out[y] {
			out[y][x] = s[x][w-1-y]
		}
	}
	return out
}
