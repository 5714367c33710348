package grid

import "container/heap"

// FindPath runs A* from start to goal with a Manhattan heuristic over the
// 4-connected floor. Tiles in blocked are impassable unless they are the goal
// itself, so a bot can path toward an occupied target without routing through
// other bots. The returned path excludes start and ends at goal; it is empty
// when start == goal or no route exists.
func (g *Grid) FindPath(start, goal Point, blocked map[Point]struct{}) []Point {
	if start == goal || !g.Walkable(goal) {
		return nil
	}

	h := func(p Point) int { return p.Manhattan(goal) }

	open := &nodeHeap{{p: start, f: h(start)}}
	cameFrom := map[Point]Point{}
	gScore := map[Point]int{start: 0}
	closed := map[Point]struct{}{}

	for open.Len() > 0 {
		current := heap.Pop(open).(node)
		if _, done := closed[current.p]; done {
			continue
		}
		closed[current.p] = struct{}{}
		if current.p == goal {
			break
		}
		for _, d := range neighbors4 {
			next := current.p.Add(d.Y, d.X)
			if !g.Walkable(next) {
				continue
			}
			if _, bad := blocked[next]; bad && next != goal {
				continue
			}
			tentative := gScore[current.p] + 1
			if best, ok := gScore[next]; ok && tentative >= best {
				continue
			}
			gScore[next] = tentative
			cameFrom[next] = current.p
			heap.Push(open, node{p: next, g: tentative, f: tentative + h(next)})
		}
	}

	if _, ok := cameFrom[goal]; !ok {
		return nil
	}
	var rev []Point
	for cur := goal; cur != start; cur = cameFrom[cur] {
		rev = append(rev, cur)
	}
	path := make([]Point, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}

type node struct {
	p Point
	g int
	f int
}

type nodeHeap []node

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].g < h[j].g
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x any) { *h = append(*h, x.(node)) }

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
