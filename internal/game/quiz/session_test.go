package quiz

import (
	"math/rand"
	"testing"
	"time"
)

func testPack(t *testing.T) Pack {
	t.Helper()
	pack, err := ParsePackYAML([]byte(defaultPackYAML))
	if err != nil {
		t.Fatalf("pack: %v", err)
	}
	return pack
}

func TestSessionShufflesAndCaps(t *testing.T) {
	pack := testPack(t)
	cfg := DefaultConfig()
	cfg.Questions = 5
	s, err := NewSession(pack, cfg, rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if _, total := s.Progress(); total != 5 {
		t.Fatalf("session should cap at 5 questions, got %d", total)
	}
	seen := map[int]bool{}
	for _, idx := range s.order {
		if idx < 0 || idx >= len(pack.Questions) {
			t.Fatalf("order index %d out of range", idx)
		}
		if seen[idx] {
			t.Fatalf("question %d served twice", idx)
		}
		seen[idx] = true
	}
}

func TestSessionScoresAnswers(t *testing.T) {
	pack := testPack(t)
	cfg := DefaultConfig()
	s, err := NewSession(pack, cfg, rand.New(rand.NewSource(8)))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	now := time.Unix(0, 0)
	correct := 0
	for !s.Done() {
		q, err := s.Current(now)
		if err != nil {
			t.Fatalf("current: %v", err)
		}
		result, err := s.Answer(q.Answer)
		if err != nil {
			t.Fatalf("answer: %v", err)
		}
		if !result.Correct {
			t.Fatalf("right answer judged wrong: %+v", result)
		}
		correct++
	}
	if s.Score() != correct*pointsPerCorrect {
		t.Fatalf("score = %d, want %d", s.Score(), correct*pointsPerCorrect)
	}
	if s.CorrectCount() != correct {
		t.Fatalf("correct count = %d, want %d", s.CorrectCount(), correct)
	}
	if _, err := s.Answer(0); err == nil {
		t.Fatalf("answering a finished session should fail")
	}
}

func TestSessionDeadlineAndTimeout(t *testing.T) {
	pack := testPack(t)
	cfg := Config{Questions: 2, PerQuestion: 10 * time.Second}
	s, err := NewSession(pack, cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	now := time.Unix(50, 0)
	if _, err := s.Current(now); err != nil {
		t.Fatalf("current: %v", err)
	}
	if got := s.Remaining(now.Add(4 * time.Second)); got != 6*time.Second {
		t.Fatalf("remaining = %v, want 6s", got)
	}
	if s.Expired(now.Add(5 * time.Second)) {
		t.Fatalf("question expired early")
	}
	if !s.Expired(now.Add(11 * time.Second)) {
		t.Fatalf("question should expire after the deadline")
	}
	result, err := s.TimeOut()
	if err != nil {
		t.Fatalf("timeout: %v", err)
	}
	if !result.TimedOut || result.Correct || result.Choice != -1 {
		t.Fatalf("timeout result wrong: %+v", result)
	}
	if s.Score() != 0 {
		t.Fatalf("timeout must not score")
	}
	// The next question gets a fresh clock.
	later := now.Add(time.Minute)
	if _, err := s.Current(later); err != nil {
		t.Fatalf("current: %v", err)
	}
	if s.Expired(later) {
		t.Fatalf("fresh question already expired")
	}
}

func TestSessionRejectsBadInput(t *testing.T) {
	pack := testPack(t)
	if _, err := NewSession(pack, Config{Questions: 0, PerQuestion: time.Second}, rand.New(rand.NewSource(1))); err == nil {
		t.Fatalf("zero questions should be rejected")
	}
	if _, err := NewSession(pack, DefaultConfig(), nil); err == nil {
		t.Fatalf("nil rng should be rejected")
	}
	s, err := NewSession(pack, DefaultConfig(), rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if _, err := s.Answer(99); err == nil {
		t.Fatalf("out-of-range choice should be rejected")
	}
}
