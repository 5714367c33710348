package quiz

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/omuplay/omu/internal/game"
)

const pointsPerCorrect = 10

// Config tunes a quiz session.
type Config struct {
	Questions   int           // questions per session, capped by the pack
	PerQuestion time.Duration // answer deadline per question
}

// DefaultConfig asks ten questions at fifteen seconds each.
func DefaultConfig() Config {
	return Config{
		Questions:   10,
		PerQuestion: 15 * time.Second,
	}
}

func (c Config) validate() error {
	if c.Questions < 1 {
		return fmt.Errorf("quiz: at least one question is required")
	}
	if c.PerQuestion <= 0 {
		return fmt.Errorf("quiz: per-question time must be positive")
	}
	return nil
}

// Answered records the result of one question.
type Answered struct {
	Question Question
	Choice   int // -1 when the clock ran out
	Correct  bool
	TimedOut bool
}

// Session walks a shuffled slice of the pack's questions against the clock.
type Session struct {
	cfg      Config
	pack     Pack
	order    []int
	index    int
	score    int
	answers  []Answered
	deadline time.Time
}

// NewSession shuffles the pack's question order and serves up to
// cfg.Questions of them.
func NewSession(pack Pack, cfg Config, rng *rand.Rand) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := pack.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("quiz: rng is required")
	}
	order := rng.Perm(len(pack.Questions))
	if cfg.Questions < len(order) {
		order = order[:cfg.Questions]
	}
	return &Session{cfg: cfg, pack: pack, order: order}, nil
}

// Info identifies the game for the registry and score store.
func (s *Session) Info() game.Info {
	return game.Info{
		ID:          "quiz",
		Name:        "Quiz",
		Description: "Timed multiple-choice trivia",
	}
}

// Pack returns the pack this session runs.
func (s *Session) Pack() Pack { return s.pack }

// Done reports whether every question has been answered.
func (s *Session) Done() bool { return s.index >= len(s.order) }

// Current returns the active question. The question's deadline starts on the
// first call for each question.
func (s *Session) Current(now time.Time) (Question, error) {
	if s.Done() {
		return Question{}, fmt.Errorf("quiz: session is finished")
	}
	if s.deadline.IsZero() {
		s.deadline = now.Add(s.cfg.PerQuestion)
	}
	return s.pack.Questions[s.order[s.index]], nil
}

// Remaining returns how long the player has on the current question.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.deadline.IsZero() {
		return s.cfg.PerQuestion
	}
	left := s.deadline.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the current question's clock ran out.
func (s *Session) Expired(now time.Time) bool {
	return !s.deadline.IsZero() && now.After(s.deadline)
}

// Answer scores choice for the current question and advances.
func (s *Session) Answer(choice int) (Answered, error) {
	if s.Done() {
		return Answered{}, fmt.Errorf("quiz: session is finished")
	}
	q := s.pack.Questions[s.order[s.index]]
	if choice < 0 || choice >= len(q.Choices) {
		return Answered{}, fmt.Errorf("quiz: choice %d out of range", choice)
	}
	result := Answered{Question: q, Choice: choice, Correct: choice == q.Answer}
	if result.Correct {
		s.score += pointsPerCorrect
	}
	s.record(result)
	return result, nil
}

// TimeOut marks the current question missed and advances.
func (s *Session) TimeOut() (Answered, error) {
	if s.Done() {
		return Answered{}, fmt.Errorf("quiz: session is finished")
	}
	q := s.pack.Questions[s.order[s.index]]
	result := Answered{Question: q, Choice: -1, TimedOut: true}
	s.record(result)
	return result, nil
}

func (s *Session) record(result Answered) {
	s.answers = append(s.answers, result)
	s.index++
	s.deadline = time.Time{}
}

// Score returns points earned so far.
func (s *Session) Score() int { return s.score }

// Progress returns answered and total question counts.
func (s *Session) Progress() (int, int) { return s.index, len(s.order) }

// Answers returns the per-question results for the summary screen.
func (s *Session) Answers() []Answered { return s.answers }

// CorrectCount tallies right answers.
func (s *Session) CorrectCount() int {
	n := 0
	for _, a := range s.answers {
		if a.Correct {
			n++
		}
	}
	return n
}
