package scores

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/omuplay/omu/internal/profile"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "omu.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatalf("blank path should be rejected")
	}
}

func TestEnsurePlayerCreatesAndReloads(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	created, err := store.EnsurePlayer(ctx, "Maru", profile.TierPro)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("player should get an id")
	}
	if created.Credits != profile.TierPro.StartingCredits() {
		t.Fatalf("credits = %d, want %d", created.Credits, profile.TierPro.StartingCredits())
	}

	again, err := store.EnsurePlayer(ctx, "Maru", profile.TierFree)
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if again.ID != created.ID {
		t.Fatalf("second ensure created a new player")
	}
	if again.Tier != profile.TierPro {
		t.Fatalf("existing tier should win, got %q", again.Tier)
	}

	got, err := store.GetPlayer(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Maru" {
		t.Fatalf("name = %q, want Maru", got.Name)
	}
	if _, err := store.GetPlayer(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing player err = %v, want ErrNotFound", err)
	}
}

func TestSaveCredits(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	player, err := store.EnsurePlayer(ctx, "Maru", profile.TierFree)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := store.SaveCredits(ctx, player.ID, 750); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.GetPlayer(ctx, player.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Credits != 750 {
		t.Fatalf("credits = %d, want 750", got.Credits)
	}
	if err := store.SaveCredits(ctx, player.ID, -1); err == nil {
		t.Fatalf("negative credits should be rejected")
	}
	if err := store.SaveCredits(ctx, "missing", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing player err = %v, want ErrNotFound", err)
	}
}

func TestResultsLeaderboard(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	maru, err := store.EnsurePlayer(ctx, "Maru", profile.TierFree)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	pixel, err := store.EnsurePlayer(ctx, "Pixel", profile.TierFree)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seed := []Result{
		{PlayerID: maru.ID, GameID: "tetris", Score: 300, PlayedAt: base},
		{PlayerID: pixel.ID, GameID: "tetris", Score: 800, PlayedAt: base.Add(time.Minute)},
		{PlayerID: maru.ID, GameID: "tetris", Score: 500, Won: true, Duration: 95 * time.Second, PlayedAt: base.Add(2 * time.Minute)},
		{PlayerID: maru.ID, GameID: "dice", Score: 40, PlayedAt: base.Add(3 * time.Minute)},
	}
	for _, r := range seed {
		if _, err := store.RecordResult(ctx, r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	top, err := store.TopResults(ctx, "tetris", 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("top rows = %d, want 2", len(top))
	}
	if top[0].PlayerName != "Pixel" || top[0].Score != 800 {
		t.Fatalf("top[0] = %+v", top[0])
	}
	if top[1].PlayerName != "Maru" || top[1].Score != 500 || !top[1].Won {
		t.Fatalf("top[1] = %+v", top[1])
	}
	if top[1].Duration != 95*time.Second {
		t.Fatalf("top[1] duration = %v, want 95s", top[1].Duration)
	}

	recent, err := store.RecentResults(ctx, maru.ID, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("recent rows = %d, want 3", len(recent))
	}
	if recent[0].GameID != "dice" {
		t.Fatalf("recent[0] = %+v, want the dice run first", recent[0])
	}
}

func TestRecordResultValidation(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.RecordResult(ctx, Result{GameID: "tetris"}); err == nil {
		t.Fatalf("missing player id should be rejected")
	}
	if _, err := store.RecordResult(ctx, Result{PlayerID: "p"}); err == nil {
		t.Fatalf("missing game id should be rejected")
	}
	if _, err := store.TopResults(ctx, "tetris", 0); err == nil {
		t.Fatalf("zero limit should be rejected")
	}
}
