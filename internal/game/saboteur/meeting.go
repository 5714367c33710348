package saboteur

// Meeting is the vote triggered by reporting a body. The cursor ranges over
// the candidate bots plus a trailing Skip entry. Message stays empty while
// the vote is open and carries the result once CastVote resolves it.
type Meeting struct {
	Candidates []*Bot
	Cursor     int
	Message    string
}

const (
	skipWeight     = 0.9
	crewWeight     = 1.0
	impostorWeight = 1.4 // bots lean slightly toward the truth
)

// Report opens an emergency meeting when the player stands on or next to a
// corpse. It returns false when there is nothing to report.
func (e *Engine) Report() bool {
	if e.meeting != nil || e.outcome != OutcomeNone || !e.playerAlive {
		return false
	}
	if !e.NearCorpse() {
		return false
	}
	var candidates []*Bot
	for _, b := range e.bots {
		if b.Alive {
			candidates = append(candidates, b)
		}
	}
	e.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	e.inTask = false
	e.meeting = &Meeting{Candidates: candidates}
	return true
}

// Meeting returns the open meeting, or nil.
func (e *Engine) Meeting() *Meeting { return e.meeting }

// MoveCursor shifts the vote selection, clamped to candidates plus Skip.
func (m *Meeting) MoveCursor(delta int) {
	m.Cursor += delta
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.Cursor > len(m.Candidates) {
		m.Cursor = len(m.Candidates)
	}
}

// SkipSelected reports whether the cursor rests on the Skip entry.
func (m *Meeting) SkipSelected() bool { return m.Cursor == len(m.Candidates) }

// CastVote tallies the player's selection against weighted bot votes and
// resolves the meeting: the top pick is ejected (or nobody, on Skip).
// Ejecting the impostor ends the game as a crew win. Bodies are cleared
// either way. When the game continues the meeting stays open with the
// result in Message until DismissMeeting.
func (e *Engine) CastVote() string {
	m := e.meeting
	if m == nil || m.Message != "" {
		return ""
	}

	votes := map[*Bot]float64{}
	var skipVotes float64
	if m.SkipSelected() {
		skipVotes++
	} else {
		votes[m.Candidates[m.Cursor]]++
	}

	ballot := e.ballotFn
	if ballot == nil {
		ballot = e.weightedBotVote
	}
	for _, voter := range e.bots {
		if !voter.Alive {
			continue
		}
		choice, skipped := ballot(m.Candidates)
		if skipped {
			skipVotes++
		} else {
			votes[choice]++
		}
	}

	// Skip wins ties, so ejection needs a strict majority choice.
	var ejected *Bot
	best := skipVotes
	for _, candidate := range m.Candidates {
		if v := votes[candidate]; v > best {
			best = v
			ejected = candidate
		}
	}

	e.corpses = nil

	if ejected == nil {
		m.Message = "No one was ejected (skipped)."
		return m.Message
	}
	ejected.Alive = false
	if ejected.Role == RoleImpostor {
		e.meeting = nil
		e.finish(OutcomeCrewWin, ejected.Name+" was the impostor. Crew wins!")
		return e.reason
	}
	m.Message = ejected.Name + " was not the impostor."
	e.checkOutcome()
	if e.outcome != OutcomeNone {
		e.meeting = nil
	}
	return m.Message
}

// DismissMeeting abandons the vote, clearing reported bodies.
func (e *Engine) DismissMeeting() {
	if e.meeting == nil {
		return
	}
	e.meeting = nil
	e.corpses = nil
}

// weightedBotVote samples one bot's ballot: skip, a crew candidate, or the
// impostor with a small bias.
func (e *Engine) weightedBotVote(candidates []*Bot) (*Bot, bool) {
	total := skipWeight
	for _, c := range candidates {
		if c.Role == RoleImpostor {
			total += impostorWeight
		} else {
			total += crewWeight
		}
	}
	r := e.rng.Float64() * total
	cum := skipWeight
	if r <= cum {
		return nil, true
	}
	for _, c := range candidates {
		if c.Role == RoleImpostor {
			cum += impostorWeight
		} else {
			cum += crewWeight
		}
		if r <= cum {
			return c, false
		}
	}
	return nil, true
}
