package grid

import (
	"math/rand"
	"testing"
)

func parseMap(t *testing.T, rows []string) *Grid {
	t.Helper()
	g, err := FromRows(rows)
	if err != nil {
		t.Fatalf("parse map: %v", err)
	}
	return g
}

func TestGenerateProducesConnectedFloor(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		g, err := Generate(rng, DefaultSpec())
		if err != nil {
			t.Fatalf("seed %d: generate: %v", seed, err)
		}
		floor := g.Floor()
		if len(floor) == 0 {
			t.Fatalf("seed %d: no floor carved", seed)
		}
		// Flood fill from the first floor tile must reach all of them.
		seen := map[Point]struct{}{floor[0]: {}}
		queue := []Point{floor[0]}
		for len(queue) > 0 {
			p := queue[0]
			queue = queue[1:]
			for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				n := p.Add(d[0], d[1])
				if !g.Walkable(n) {
					continue
				}
				if _, ok := seen[n]; ok {
					continue
				}
				seen[n] = struct{}{}
				queue = append(queue, n)
			}
		}
		if len(seen) != len(floor) {
			t.Fatalf("seed %d: floor is disconnected: reached %d of %d tiles", seed, len(seen), len(floor))
		}
	}
}

func TestGenerateKeepsBorderWalls(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g, err := Generate(rng, DefaultSpec())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for x := 0; x < g.Width(); x++ {
		if g.Walkable(Point{Y: 0, X: x}) || g.Walkable(Point{Y: g.Height() - 1, X: x}) {
			t.Fatalf("border row carved at x=%d", x)
		}
	}
	for y := 0; y < g.Height(); y++ {
		if g.Walkable(Point{Y: y, X: 0}) || g.Walkable(Point{Y: y, X: g.Width() - 1}) {
			t.Fatalf("border column carved at y=%d", y)
		}
	}
}

func TestGenerateRejectsBadSpec(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	spec := DefaultSpec()
	spec.Width = 4
	if _, err := Generate(rng, spec); err == nil {
		t.Fatalf("expected error for undersized map")
	}
	spec = DefaultSpec()
	spec.MinRooms = 5
	spec.MaxRooms = 2
	if _, err := Generate(rng, spec); err == nil {
		t.Fatalf("expected error for inverted room range")
	}
}

func TestNearestFreeSkipsRejectedTiles(t *testing.T) {
	g := parseMap(t, []string{
		"#####",
		"#...#",
		"#...#",
		"#####",
	})
	banned := Point{Y: 1, X: 1}
	got, ok := g.NearestFree(banned, func(p Point) bool { return p == banned })
	if !ok {
		t.Fatalf("expected a free tile")
	}
	if got == banned {
		t.Fatalf("skip predicate ignored")
	}
	if !g.Walkable(got) {
		t.Fatalf("NearestFree returned wall %v", got)
	}
}

func TestIntersectionsRequireDegreeThree(t *testing.T) {
	g := parseMap(t, []string{
		"#######",
		"#.....#",
		"###.###",
		"#######",
	})
	inter := g.Intersections()
	if len(inter) != 1 {
		t.Fatalf("expected exactly one intersection, got %v", inter)
	}
	if inter[0] != (Point{Y: 1, X: 3}) {
		t.Fatalf("unexpected intersection %v", inter[0])
	}
}

func TestWallGlyphOrientation(t *testing.T) {
	vertical := parseMap(t, []string{
		".#.",
		".#.",
		".#.",
	})
	if got := vertical.WallGlyph(Point{Y: 1, X: 1}); got != '|' {
		t.Errorf("vertical wall glyph = %q, want '|'", got)
	}
	horizontal := parseMap(t, []string{
		"...",
		"###",
		"...",
	})
	if got := horizontal.WallGlyph(Point{Y: 1, X: 1}); got != '-' {
		t.Errorf("horizontal wall glyph = %q, want '-'", got)
	}
	cross := parseMap(t, []string{
		".#.",
		"###",
		".#.",
	})
	if got := cross.WallGlyph(Point{Y: 1, X: 1}); got != '+' {
		t.Errorf("cross wall glyph = %q, want '+'", got)
	}
}
