package saboteur

import (
	"time"

	"github.com/omuplay/omu/internal/grid"
)

// stepBots runs the two-phase movement used to keep bots from overlapping:
// first every bot declares an intended tile, then conflicting intents are
// arbitrated and only the approved ones commit.
func (e *Engine) stepBots(now time.Time) {
	occupied := map[grid.Point]struct{}{e.playerPos: {}}
	for _, b := range e.bots {
		if b.Alive {
			occupied[b.Pos] = struct{}{}
		}
	}

	intents := map[*Bot]grid.Point{}
	for _, b := range e.bots {
		if !b.Alive {
			continue
		}
		if now.Sub(b.lastMove) < e.cfg.MoveInterval {
			continue
		}
		b.lastMove = now
		intents[b] = e.decideStep(b, now, occupied)
	}

	e.commitIntents(intents)
}

// decideStep picks the bot's target, keeps or rebuilds its A* path, and
// returns the next tile (possibly the current one when staying put).
func (e *Engine) decideStep(b *Bot, now time.Time, occupied map[grid.Point]struct{}) grid.Point {
	target := e.chooseTarget(b)
	if !samePoint(target, b.target) {
		b.target = target
		b.path = nil
		b.repathDue = time.Time{}
	}
	if target == nil {
		return b.Pos
	}

	needRepath := len(b.path) == 0
	if !needRepath {
		step := b.path[0]
		if !e.world.Walkable(step) {
			needRepath = true
		} else if _, busy := occupied[step]; busy && step != *target {
			needRepath = true
		}
	}
	if needRepath || !now.Before(b.repathDue) {
		blocked := make(map[grid.Point]struct{}, len(occupied))
		for p := range occupied {
			if p != *target {
				blocked[p] = struct{}{}
			}
		}
		delete(blocked, b.Pos)
		b.path = e.world.FindPath(b.Pos, *target, blocked)
		b.repathDue = now.Add(e.cfg.RepathAfter)
	}
	if len(b.path) == 0 {
		return b.Pos
	}
	step := b.path[0]
	// Anti-oscillation: refuse to bounce straight back when the path is a
	// single retreat step; force a re-path next interval instead.
	if b.lastPos != nil && step == *b.lastPos && len(b.path) == 1 {
		b.repathDue = now
		return b.Pos
	}
	return step
}

// chooseTarget sends impostors after the nearest living crew and crew bots
// toward their assigned task, falling back to patrol points.
func (e *Engine) chooseTarget(b *Bot) *grid.Point {
	if b.Role == RoleImpostor {
		var best *grid.Point
		bestDist := -1
		consider := func(p grid.Point) {
			d := p.Manhattan(b.Pos)
			if bestDist < 0 || d < bestDist {
				bestDist = d
				cp := p
				best = &cp
			}
		}
		if e.playerAlive {
			consider(e.playerPos)
		}
		for _, other := range e.bots {
			if other == b || !other.Alive || other.Role == RoleImpostor {
				continue
			}
			consider(other.Pos)
		}
		return best
	}

	if b.task != nil {
		if _, stillOpen := e.tasks[*b.task]; !stillOpen {
			b.task = nil
		}
	}
	if b.task == nil && len(e.tasks) > 0 {
		var best *grid.Point
		bestDist := -1
		for p := range e.tasks {
			d := p.Manhattan(b.Pos)
			if bestDist < 0 || d < bestDist || (d == bestDist && less(p, *best)) {
				bestDist = d
				cp := p
				best = &cp
			}
		}
		b.task = best
	}
	if b.task != nil {
		return b.task
	}
	if b.patrol == nil || b.Pos == *b.patrol {
		p := e.choosePatrol()
		b.patrol = &p
	}
	return b.patrol
}

func (e *Engine) choosePatrol() grid.Point {
	if len(e.intersections) > 0 {
		return e.intersections[e.rng.Intn(len(e.intersections))]
	}
	floor := e.world.Floor()
	return floor[e.rng.Intn(len(floor))]
}

// commitIntents approves at most one bot per destination, blocks moves onto
// the player or onto a bot that is staying put, and rejects head-on swaps.
func (e *Engine) commitIntents(intents map[*Bot]grid.Point) {
	for b, dest := range intents {
		if dest == e.playerPos {
			intents[b] = b.Pos
		}
	}

	destMap := map[grid.Point][]*Bot{}
	for b, dest := range intents {
		destMap[dest] = append(destMap[dest], b)
	}
	staying := map[grid.Point]struct{}{}
	for b, dest := range intents {
		if dest == b.Pos {
			staying[dest] = struct{}{}
		}
	}

	approved := map[*Bot]struct{}{}
	for dest, claimants := range destMap {
		if len(claimants) > 1 {
			winner := claimants[e.rng.Intn(len(claimants))]
			if _, parked := staying[dest]; !parked || dest == winner.Pos {
				approved[winner] = struct{}{}
			}
			continue
		}
		b := claimants[0]
		if _, parked := staying[dest]; parked && dest != b.Pos {
			continue
		}
		if occupant := e.botAt(dest); occupant != nil && occupant != b {
			// Head-on swap: both would pass through each other.
			if occIntent, ok := intents[occupant]; ok && occIntent == b.Pos {
				continue
			}
		}
		approved[b] = struct{}{}
	}

	for _, b := range e.bots {
		if !b.Alive {
			continue
		}
		dest, ok := intents[b]
		if !ok || dest == b.Pos {
			continue
		}
		if _, ok := approved[b]; !ok {
			continue
		}
		prev := b.Pos
		b.lastPos = &prev
		b.Pos = dest
		if len(b.path) > 0 && b.path[0] == dest {
			b.path = b.path[1:]
		}
	}
}

// resolveKills lets each off-cooldown impostor eliminate one victim in range.
func (e *Engine) resolveKills(now time.Time) {
	for _, b := range e.bots {
		if !b.Alive || b.Role != RoleImpostor {
			continue
		}
		if now.Before(b.killReadyAt) {
			continue
		}
		var victims []*Bot
		playerInRange := e.playerAlive && e.playerPos.Manhattan(b.Pos) <= e.cfg.KillRange
		for _, other := range e.bots {
			if other == b || !other.Alive || other.Role == RoleImpostor {
				continue
			}
			if other.Pos.Manhattan(b.Pos) <= e.cfg.KillRange {
				victims = append(victims, other)
			}
		}
		if !playerInRange && len(victims) == 0 {
			continue
		}
		pick := e.rng.Intn(len(victims) + boolToInt(playerInRange))
		if playerInRange && pick == len(victims) {
			e.playerAlive = false
			e.corpses = append(e.corpses, Corpse{Victim: "You", Pos: e.playerPos})
		} else {
			v := victims[pick]
			v.Alive = false
			e.corpses = append(e.corpses, Corpse{Victim: v.Name, Pos: v.Pos})
		}
		b.killReadyAt = now.Add(e.cfg.KillCooldown)
	}
}

func (e *Engine) botAt(p grid.Point) *Bot {
	for _, b := range e.bots {
		if b.Alive && b.Pos == p {
			return b
		}
	}
	return nil
}

func samePoint(a, b *grid.Point) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func less(a, b grid.Point) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
