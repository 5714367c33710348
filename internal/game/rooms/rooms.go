// Package rooms implements the overworld walker: a hall map with numbered
// doors leading into eight side rooms, each remembering where the player
// stood when they left.
package rooms

import (
	"fmt"

	"github.com/omuplay/omu/internal/game"
)

// Tile glyphs. Walls block movement; a door is entered by standing next to
// it and interacting, an exit the same way from inside a room.
const (
	TileDoor = '#'
	TileExit = '<'
)

const roomCount = 8

// blocked reports whether the rune is impassable.
func blocked(r rune) bool {
	switch r {
	case '|', '=', '-', '_', TileDoor:
		return true
	default:
		return false
	}
}

type pos struct {
	y, x int
}

const mainKey = "hall"

// World is the walker state across the hall and its rooms.
type World struct {
	maps      map[string][][]rune
	doors     map[pos]string // hall door cell -> room key
	exits     map[string]pos // room key -> exit cell
	positions map[string]pos // last player position per map
	visited   map[string]bool
	current   string
	player    pos
}

// New builds the hall, its eight rooms, and spawns the player in the hall.
func New() *World {
	w := &World{
		maps:      map[string][][]rune{},
		doors:     map[pos]string{},
		exits:     map[string]pos{},
		positions: map[string]pos{},
		visited:   map[string]bool{},
		current:   mainKey,
	}
	w.maps[mainKey] = buildHall(w.doors)
	for i := 1; i <= roomCount; i++ {
		key := roomKey(i)
		room := buildRoom(i)
		w.maps[key] = room
		w.exits[key] = findExit(room)
		w.positions[key] = spawnTile(room)
	}
	w.player = spawnTile(w.maps[mainKey])
	w.positions[mainKey] = w.player
	return w
}

func roomKey(i int) string { return fmt.Sprintf("room%d", i) }

// buildHall draws the bordered hall with an inner wall splitting it into two
// corridors, passage gaps, and eight numbered doors along the outer walls.
func buildHall(doors map[pos]string) [][]rune {
	const width, height = 46, 11
	hall := make([][]rune, height)
	for y := range hall {
		hall[y] = make([]rune, width)
		for x := range hall[y] {
			switch {
			case y == 0 || y == height-1:
				hall[y][x] = '='
			case x == 0 || x == width-1:
				hall[y][x] = '|'
			default:
				hall[y][x] = ' '
			}
		}
	}
	// Inner wall between the corridors, with two passage gaps.
	for x := 1; x < width-1; x++ {
		hall[5][x] = '='
	}
	for _, gap := range []int{10, 11, 12, 30, 31, 32} {
		hall[5][gap] = ' '
	}
	// Doors 1-4 on the top wall, 5-8 on the bottom.
	for i, x := range []int{5, 15, 25, 35} {
		hall[0][x] = TileDoor
		doors[pos{y: 0, x: x}] = roomKey(i + 1)
		hall[height-1][x] = TileDoor
		doors[pos{y: height - 1, x: x}] = roomKey(i + 5)
	}
	return hall
}

// buildRoom mirrors the original fixed side-room layout with its number on
// the wall and an exit near the bottom.
func buildRoom(n int) [][]rune {
	rows := []string{
		"|_____________|",
		"|             |",
		fmt.Sprintf("|   ROOM %d    |", n),
		"|             |",
		"|             |",
		"|      <      |",
		"|_____________|",
	}
	room := make([][]rune, len(rows))
	for y, row := range rows {
		room[y] = []rune(row)
	}
	return room
}

func findExit(m [][]rune) pos {
	for y, row := range m {
		for x, r := range row {
			if r == TileExit {
				return pos{y: y, x: x}
			}
		}
	}
	return pos{}
}

// spawnTile returns the first blank tile, scanning row-major.
func spawnTile(m [][]rune) pos {
	for y, row := range m {
		for x, r := range row {
			if r == ' ' {
				return pos{y: y, x: x}
			}
		}
	}
	return pos{y: 1, x: 1}
}

// Info identifies the game for the registry and score store.
func (w *World) Info() game.Info {
	return game.Info{
		ID:          "rooms",
		Name:        "Dungeon Rooms",
		Description: "Wander the hall and explore the eight rooms",
	}
}

// CurrentMap returns the active map key ("hall" or "roomN").
func (w *World) CurrentMap() string { return w.current }

// InRoom reports whether the player is inside a side room.
func (w *World) InRoom() bool { return w.current != mainKey }

// Rows returns the active map for rendering.
func (w *World) Rows() [][]rune { return w.maps[w.current] }

// Player returns the player's tile on the active map.
func (w *World) Player() (int, int) { return w.player.y, w.player.x }

// VisitedRooms counts distinct rooms entered so far.
func (w *World) VisitedRooms() int { return len(w.visited) }

// Score awards five points per room discovered.
func (w *World) Score() int { return w.VisitedRooms() * 5 }

// Move shifts the player one tile unless a wall or the map edge blocks it.
func (w *World) Move(dy, dx int) bool {
	m := w.maps[w.current]
	ny, nx := w.player.y+dy, w.player.x+dx
	if ny < 0 || ny >= len(m) || nx < 0 || nx >= len(m[ny]) {
		return false
	}
	if blocked(m[ny][nx]) {
		return false
	}
	w.player = pos{y: ny, x: nx}
	return true
}

// Interact enters the room behind an adjacent door, or leaves the current
// room when standing next to its exit. It returns the map entered.
func (w *World) Interact() (string, bool) {
	if w.current == mainKey {
		for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			neighbor := pos{y: w.player.y + d[0], x: w.player.x + d[1]}
			if room, ok := w.doors[neighbor]; ok {
				w.switchTo(room)
				w.visited[room] = true
				return room, true
			}
		}
		return "", false
	}
	exit := w.exits[w.current]
	for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		if (pos{y: w.player.y + d[0], x: w.player.x + d[1]}) == exit {
			w.switchTo(mainKey)
			return mainKey, true
		}
	}
	return "", false
}

// switchTo saves the player's spot on the current map and restores the last
// position on the destination map.
func (w *World) switchTo(key string) {
	w.positions[w.current] = w.player
	w.current = key
	w.player = w.positions[key]
}
