// Package grid provides the shared 2-D tile map used by the saboteur game:
// procedural generation of rooms connected by corridors, walkability checks,
// and pathfinding for the bot crew.
package grid

import (
	"fmt"
	"math/rand"
)

// Tile values stored in a Grid cell.
const (
	TileWall  = '#'
	TileFloor = '.'
)

// Point is a map coordinate in (row, column) order.
type Point struct {
	Y int
	X int
}

// Add returns the point offset by dy, dx.
func (p Point) Add(dy, dx int) Point {
	return Point{Y: p.Y + dy, X: p.X + dx}
}

// Manhattan returns the taxicab distance to other.
func (p Point) Manhattan(other Point) int {
	return abs(p.Y-other.Y) + abs(p.X-other.X)
}

// neighbors4 is the 4-connected neighbourhood every walker uses.
var neighbors4 = [4]Point{{Y: -1}, {Y: 1}, {X: -1}, {X: 1}}

// Spec controls procedural map generation.
type Spec struct {
	Width        int
	Height       int
	CorridorW    int // corridor width in tiles
	MinRooms     int
	MaxRooms     int
	MaxAttempts  int // placement attempts before giving up on more rooms
	RoomMinW     int
	RoomMaxW     int
	RoomMinH     int
	RoomMaxH     int
}

// DefaultSpec mirrors the dimensions the game was tuned for.
func DefaultSpec() Spec {
	return Spec{
		Width:       64,
		Height:      24,
		CorridorW:   3,
		MinRooms:    5,
		MaxRooms:    7,
		MaxAttempts: 200,
		RoomMinW:    8,
		RoomMaxW:    14,
		RoomMinH:    5,
		RoomMaxH:    8,
	}
}

func (s Spec) validate() error {
	if s.Width < 16 || s.Height < 10 {
		return fmt.Errorf("grid: map must be at least 16x10, got %dx%d", s.Width, s.Height)
	}
	if s.CorridorW < 1 {
		return fmt.Errorf("grid: corridor width must be positive")
	}
	if s.MinRooms < 1 || s.MaxRooms < s.MinRooms {
		return fmt.Errorf("grid: room count range %d..%d is invalid", s.MinRooms, s.MaxRooms)
	}
	if s.RoomMinW < 2 || s.RoomMaxW < s.RoomMinW || s.RoomMinH < 2 || s.RoomMaxH < s.RoomMinH {
		return fmt.Errorf("grid: room size range is invalid")
	}
	if s.RoomMaxW >= s.Width-4 || s.RoomMaxH >= s.Height-4 {
		return fmt.Errorf("grid: rooms do not fit the map")
	}
	return nil
}

// Grid is a rectangular tile map. Anything that is not a wall is walkable.
type Grid struct {
	width  int
	height int
	cells  [][]byte
	rooms  []rect
}

type rect struct {
	y1, x1, y2, x2 int
}

func (r rect) center() Point {
	return Point{Y: (r.y1 + r.y2) / 2, X: (r.x1 + r.x2) / 2}
}

func (r rect) overlapsPadded(o rect) bool {
	return !(r.y2+2 < o.y1 || o.y2+2 < r.y1 || r.x2+2 < o.x1 || o.x2+2 < r.x1)
}

// Generate carves a map of non-overlapping rooms joined by L-shaped
// corridors. Every carved floor tile ends up reachable from every other
// because rooms are connected nearest-first into a single component.
func Generate(rng *rand.Rand, spec Spec) (*Grid, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	g := &Grid{width: spec.Width, height: spec.Height}
	g.cells = make([][]byte, spec.Height)
	for y := range g.cells {
		row := make([]byte, spec.Width)
		for x := range row {
			row[x] = TileWall
		}
		g.cells[y] = row
	}

	target := spec.MinRooms + rng.Intn(spec.MaxRooms-spec.MinRooms+1)
	for attempts := 0; len(g.rooms) < target && attempts < spec.MaxAttempts; attempts++ {
		rw := spec.RoomMinW + rng.Intn(spec.RoomMaxW-spec.RoomMinW+1)
		rh := spec.RoomMinH + rng.Intn(spec.RoomMaxH-spec.RoomMinH+1)
		rx := 2 + rng.Intn(spec.Width-rw-4)
		ry := 2 + rng.Intn(spec.Height-rh-4)
		room := rect{y1: ry, x1: rx, y2: ry + rh, x2: rx + rw}
		collides := false
		for _, existing := range g.rooms {
			if room.overlapsPadded(existing) {
				collides = true
				break
			}
		}
		if collides {
			continue
		}
		g.rooms = append(g.rooms, room)
		g.carveRect(room)
	}
	if len(g.rooms) == 0 {
		return nil, fmt.Errorf("grid: failed to place any rooms")
	}

	// Connect rooms nearest-first so the floor forms one component.
	connected := map[int]struct{}{0: {}}
	remaining := map[int]struct{}{}
	for i := 1; i < len(g.rooms); i++ {
		remaining[i] = struct{}{}
	}
	for len(remaining) > 0 {
		bestDist := -1
		bestFrom, bestTo := 0, 0
		for j := range remaining {
			cj := g.rooms[j].center()
			for i := range connected {
				d := g.rooms[i].center().Manhattan(cj)
				if bestDist < 0 || d < bestDist {
					bestDist, bestFrom, bestTo = d, i, j
				}
			}
		}
		from := g.rooms[bestFrom].center()
		to := g.rooms[bestTo].center()
		if rng.Intn(2) == 0 {
			g.carveHoriz(from.Y, from.X, to.X, spec.CorridorW)
			g.carveVert(to.X, from.Y, to.Y, spec.CorridorW)
		} else {
			g.carveVert(from.X, from.Y, to.Y, spec.CorridorW)
			g.carveHoriz(to.Y, from.X, to.X, spec.CorridorW)
		}
		connected[bestTo] = struct{}{}
		delete(remaining, bestTo)
	}
	return g, nil
}

func (g *Grid) carveRect(r rect) {
	for y := max(1, r.y1); y <= min(g.height-2, r.y2); y++ {
		for x := max(1, r.x1); x <= min(g.width-2, r.x2); x++ {
			g.cells[y][x] = TileFloor
		}
	}
}

func (g *Grid) carveHoriz(y, x1, x2, w int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		for dy := -(w / 2); dy <= w/2; dy++ {
			yy := y + dy
			if yy >= 1 && yy < g.height-1 && x >= 1 && x < g.width-1 {
				g.cells[yy][x] = TileFloor
			}
		}
	}
}

func (g *Grid) carveVert(x, y1, y2, w int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		for dx := -(w / 2); dx <= w/2; dx++ {
			xx := x + dx
			if y >= 1 && y < g.height-1 && xx >= 1 && xx < g.width-1 {
				g.cells[y][xx] = TileFloor
			}
		}
	}
}

// FromRows builds a fixed map from equal-length strings where '#' is wall
// and anything else is floor. Used for hand-authored layouts and tests.
func FromRows(rows []string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid: no rows")
	}
	g := &Grid{height: len(rows), width: len(rows[0])}
	for i, row := range rows {
		if len(row) != g.width {
			return nil, fmt.Errorf("grid: row %d has width %d, want %d", i, len(row), g.width)
		}
		g.cells = append(g.cells, []byte(row))
	}
	return g, nil
}

// Width returns the map width in tiles.
func (g *Grid) Width() int { return g.width }

// Height returns the map height in tiles.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p lies on the map.
func (g *Grid) InBounds(p Point) bool {
	return p.Y >= 0 && p.Y < g.height && p.X >= 0 && p.X < g.width
}

// Walkable reports whether p is floor.
func (g *Grid) Walkable(p Point) bool {
	return g.InBounds(p) && g.cells[p.Y][p.X] != TileWall
}

// IsWall reports whether p is an in-bounds wall tile.
func (g *Grid) IsWall(p Point) bool {
	return g.InBounds(p) && g.cells[p.Y][p.X] == TileWall
}

// Floor returns every walkable tile.
func (g *Grid) Floor() []Point {
	var floor []Point
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			if g.cells[y][x] != TileWall {
				floor = append(floor, Point{Y: y, X: x})
			}
		}
	}
	return floor
}

// Intersections returns walkable tiles with three or more walkable
// neighbours. Bots patrol between these when they have no task.
func (g *Grid) Intersections() []Point {
	var inter []Point
	for y := 1; y < g.height-1; y++ {
		for x := 1; x < g.width-1; x++ {
			p := Point{Y: y, X: x}
			if !g.Walkable(p) {
				continue
			}
			deg := 0
			for _, d := range neighbors4 {
				if g.Walkable(p.Add(d.Y, d.X)) {
					deg++
				}
			}
			if deg >= 3 {
				inter = append(inter, p)
			}
		}
	}
	return inter
}

// NearestFree walks a BFS outward from origin and returns the first walkable
// tile not rejected by skip. Used for spawn placement.
func (g *Grid) NearestFree(origin Point, skip func(Point) bool) (Point, bool) {
	queue := []Point{origin}
	seen := map[Point]struct{}{origin: {}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if g.Walkable(p) && (skip == nil || !skip(p)) {
			return p, true
		}
		for _, d := range neighbors4 {
			n := p.Add(d.Y, d.X)
			if !g.InBounds(n) {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			queue = append(queue, n)
		}
	}
	return Point{}, false
}

// WallGlyph picks the rune used to draw the wall at p based on which
// neighbours are also walls.
func (g *Grid) WallGlyph(p Point) rune {
	up := g.IsWall(p.Add(-1, 0))
	down := g.IsWall(p.Add(1, 0))
	left := g.IsWall(p.Add(0, -1))
	right := g.IsWall(p.Add(0, 1))
	switch {
	case up && down && !left && !right:
		return '|'
	case left && right && !up && !down:
		return '-'
	default:
		return '+'
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
