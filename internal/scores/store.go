// Package scores persists player profiles and game results in SQLite.
package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/omuplay/omu/internal/profile"
)

// ErrNotFound is returned when a player or result does not exist.
var ErrNotFound = errors.New("scores: not found")

// Player is the persisted half of a profile.
type Player struct {
	ID        string
	Name      string
	Tier      profile.Tier
	Credits   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Result is one finished game session.
type Result struct {
	ID       string
	PlayerID string
	GameID   string
	Score    int64
	Won      bool
	Duration time.Duration
	PlayedAt time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS players (
  id         TEXT PRIMARY KEY,
  name       TEXT NOT NULL UNIQUE,
  tier       TEXT NOT NULL,
  credits    INTEGER NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
  id          TEXT PRIMARY KEY,
  player_id   TEXT NOT NULL REFERENCES players(id),
  game_id     TEXT NOT NULL,
  score       INTEGER NOT NULL,
  won         INTEGER NOT NULL,
  duration_ms INTEGER NOT NULL DEFAULT 0,
  played_at   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_game_score
  ON results(game_id, score DESC);
`

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Store persists arcade state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the score database at path and bootstraps the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("scores: storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("scores: open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("scores: ping db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("scores: apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// EnsurePlayer returns the player record for name, creating one with the
// tier's starting credits when it does not exist yet.
func (s *Store) EnsurePlayer(ctx context.Context, name string, tier profile.Tier) (Player, error) {
	if err := ctx.Err(); err != nil {
		return Player{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Player{}, fmt.Errorf("scores: storage is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Player{}, fmt.Errorf("scores: player name is required")
	}

	player, err := s.playerByName(ctx, name)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Player{}, err
	}

	now := time.Now().UTC()
	player = Player{
		ID:        uuid.NewString(),
		Name:      name,
		Tier:      tier,
		Credits:   tier.StartingCredits(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO players (id, name, tier, credits, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		player.ID,
		player.Name,
		string(player.Tier),
		player.Credits,
		toMillis(player.CreatedAt),
		toMillis(player.UpdatedAt),
	)
	if err != nil {
		return Player{}, fmt.Errorf("scores: create player: %w", err)
	}
	return player, nil
}

func (s *Store) playerByName(ctx context.Context, name string) (Player, error) {
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, tier, credits, created_at, updated_at
		   FROM players
		  WHERE name = ?`,
		name,
	)
	return scanPlayer(row)
}

// GetPlayer returns one player by ID.
func (s *Store) GetPlayer(ctx context.Context, id string) (Player, error) {
	if err := ctx.Err(); err != nil {
		return Player{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Player{}, fmt.Errorf("scores: storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Player{}, fmt.Errorf("scores: player id is required")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, name, tier, credits, created_at, updated_at
		   FROM players
		  WHERE id = ?`,
		id,
	)
	return scanPlayer(row)
}

func scanPlayer(row *sql.Row) (Player, error) {
	var player Player
	var tier string
	var createdAt int64
	var updatedAt int64
	err := row.Scan(&player.ID, &player.Name, &tier, &player.Credits, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Player{}, ErrNotFound
		}
		return Player{}, fmt.Errorf("scores: get player: %w", err)
	}
	player.Tier = profile.Tier(tier)
	player.CreatedAt = fromMillis(createdAt)
	player.UpdatedAt = fromMillis(updatedAt)
	return player, nil
}

// SaveCredits writes the player's current balance.
func (s *Store) SaveCredits(ctx context.Context, playerID string, credits int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("scores: storage is not configured")
	}
	if credits < 0 {
		return fmt.Errorf("scores: credits cannot be negative")
	}
	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE players SET credits = ?, updated_at = ? WHERE id = ?`,
		credits,
		toMillis(time.Now()),
		playerID,
	)
	if err != nil {
		return fmt.Errorf("scores: save credits: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("scores: save credits: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordResult inserts one finished session for the player.
func (s *Store) RecordResult(ctx context.Context, result Result) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Result{}, fmt.Errorf("scores: storage is not configured")
	}
	if strings.TrimSpace(result.PlayerID) == "" {
		return Result{}, fmt.Errorf("scores: player id is required")
	}
	if strings.TrimSpace(result.GameID) == "" {
		return Result{}, fmt.Errorf("scores: game id is required")
	}
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.PlayedAt.IsZero() {
		result.PlayedAt = time.Now().UTC()
	}
	if result.Duration < 0 {
		result.Duration = 0
	}
	won := 0
	if result.Won {
		won = 1
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO results (id, player_id, game_id, score, won, duration_ms, played_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.ID,
		result.PlayerID,
		result.GameID,
		result.Score,
		won,
		result.Duration.Milliseconds(),
		toMillis(result.PlayedAt),
	)
	if err != nil {
		return Result{}, fmt.Errorf("scores: record result: %w", err)
	}
	return result, nil
}

// Entry is one leaderboard row.
type Entry struct {
	PlayerName string
	GameID     string
	Score      int64
	Won        bool
	Duration   time.Duration
	PlayedAt   time.Time
}

// TopResults returns the highest scores for a game, best first.
func (s *Store) TopResults(ctx context.Context, gameID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("scores: limit must be greater than zero")
	}
	return s.listEntries(
		ctx,
		`SELECT p.name, r.game_id, r.score, r.won, r.duration_ms, r.played_at
		   FROM results r
		   JOIN players p ON p.id = r.player_id
		  WHERE r.game_id = ?
		  ORDER BY r.score DESC, r.played_at ASC
		  LIMIT ?`,
		gameID,
		limit,
	)
}

// RecentResults returns a player's latest sessions, newest first.
func (s *Store) RecentResults(ctx context.Context, playerID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("scores: limit must be greater than zero")
	}
	return s.listEntries(
		ctx,
		`SELECT p.name, r.game_id, r.score, r.won, r.duration_ms, r.played_at
		   FROM results r
		   JOIN players p ON p.id = r.player_id
		  WHERE r.player_id = ?
		  ORDER BY r.played_at DESC
		  LIMIT ?`,
		playerID,
		limit,
	)
}

func (s *Store) listEntries(ctx context.Context, query string, args ...any) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("scores: storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("scores: list results: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var won int
		var durationMs int64
		var playedAt int64
		if err := rows.Scan(&entry.PlayerName, &entry.GameID, &entry.Score, &won, &durationMs, &playedAt); err != nil {
			return nil, fmt.Errorf("scores: list results: %w", err)
		}
		entry.Won = won != 0
		entry.Duration = time.Duration(durationMs) * time.Millisecond
		entry.PlayedAt = fromMillis(playedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scores: list results: %w", err)
	}
	return entries, nil
}
