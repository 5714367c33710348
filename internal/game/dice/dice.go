// Package dice implements the player-versus-house dice duel: both sides roll
// two six-sided dice per round and the higher total takes the wager.
package dice

import (
	"fmt"
	"math/rand"

	"github.com/omuplay/omu/internal/game"
)

// Outcome of a single round.
type Outcome int

const (
	OutcomeTie Outcome = iota
	OutcomeWin
	OutcomeLoss
)

// String renders the outcome for round summaries.
func (o Outcome) String() string {
	switch o {
	case OutcomeWin:
		return "won"
	case OutcomeLoss:
		return "lost"
	default:
		return "tied"
	}
}

// Round records one exchange of rolls.
type Round struct {
	Player  [2]int
	House   [2]int
	Outcome Outcome
	Wager   int
	Payout  int // +wager, -wager, or 0
}

// PlayerTotal sums the player's dice.
func (r Round) PlayerTotal() int { return r.Player[0] + r.Player[1] }

// HouseTotal sums the house dice.
func (r Round) HouseTotal() int { return r.House[0] + r.House[1] }

// Config tunes a duel.
type Config struct {
	Rounds int // rounds per duel
}

// DefaultConfig plays a best-of-five duel.
func DefaultConfig() Config {
	return Config{Rounds: 5}
}

func (c Config) validate() error {
	if c.Rounds < 1 {
		return fmt.Errorf("dice: at least one round is required")
	}
	return nil
}

// Duel is one session against the house.
type Duel struct {
	cfg    Config
	rng    *rand.Rand
	rounds []Round
	net    int
}

// New starts a duel.
func New(cfg Config, rng *rand.Rand) (*Duel, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("dice: rng is required")
	}
	return &Duel{cfg: cfg, rng: rng}, nil
}

// Info identifies the game for the registry and score store.
func (d *Duel) Info() game.Info {
	return game.Info{
		ID:          "dice",
		Name:        "Dice Duel",
		Description: "Roll 2d6 against the house for credits",
	}
}

// Play rolls one round for the given wager. The wager must be positive;
// credit limits are the caller's concern.
func (d *Duel) Play(wager int) (Round, error) {
	if d.Finished() {
		return Round{}, fmt.Errorf("dice: duel is over after %d rounds", d.cfg.Rounds)
	}
	if wager <= 0 {
		return Round{}, fmt.Errorf("dice: wager must be positive, got %d", wager)
	}
	round := Round{
		Player: [2]int{d.roll(), d.roll()},
		House:  [2]int{d.roll(), d.roll()},
		Wager:  wager,
	}
	switch {
	case round.PlayerTotal() > round.HouseTotal():
		round.Outcome = OutcomeWin
		round.Payout = wager
	case round.PlayerTotal() < round.HouseTotal():
		round.Outcome = OutcomeLoss
		round.Payout = -wager
	default:
		round.Outcome = OutcomeTie
	}
	d.rounds = append(d.rounds, round)
	d.net += round.Payout
	return round, nil
}

func (d *Duel) roll() int {
	return 1 + d.rng.Intn(6)
}

// Rounds returns the rounds played so far.
func (d *Duel) Rounds() []Round { return d.rounds }

// Finished reports whether all rounds have been played.
func (d *Duel) Finished() bool { return len(d.rounds) >= d.cfg.Rounds }

// RoundsLeft counts remaining rounds.
func (d *Duel) RoundsLeft() int { return d.cfg.Rounds - len(d.rounds) }

// Net returns the credit delta across played rounds.
func (d *Duel) Net() int { return d.net }

// Wins counts rounds the player took.
func (d *Duel) Wins() int { return d.count(OutcomeWin) }

// Losses counts rounds the house took.
func (d *Duel) Losses() int { return d.count(OutcomeLoss) }

// Ties counts pushed rounds.
func (d *Duel) Ties() int { return d.count(OutcomeTie) }

// Score for the leaderboard: ten points a win, five a tie.
func (d *Duel) Score() int {
	return d.Wins()*10 + d.Ties()*5
}

func (d *Duel) count(o Outcome) int {
	n := 0
	for _, r := range d.rounds {
		if r.Outcome == o {
			n++
		}
	}
	return n
}
