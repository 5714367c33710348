// Package config handles the ~/.omu directory structure and the arcade's
// config.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/omuplay/omu/internal/profile"
)

const (
	// OmuDirName is the directory created under the user's home.
	OmuDirName = ".omu"

	defaultPlayerName = "player"
)

const defaultConfigYAML = `# omu configuration
version: 1

# Player identity. The tier sets starting credits and the wager cap.
# Tiers: free, pro, enterprise.
player:
  name: player
  tier: free

games:
  saboteur:
    bots: 6
    tasks: 8
    kill_range: 1
    kill_cooldown_seconds: 7
    map_width: 64
    map_height: 24
  tetris:
    width: 10
    height: 20
    fall_millis: 500
  dice:
    rounds: 5
    default_wager: 5
  quiz:
    pack: starter
    questions: 10
    seconds_per_question: 15
`

// Env holds settings read from the process environment. They override the
// default file locations.
type Env struct {
	Home        string `env:"OMU_HOME"`
	DBPath      string `env:"OMU_DB"`
	LogDisabled bool   `env:"OMU_LOG_DISABLED"`
}

// ParseEnv reads the OMU_* environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return e, nil
}

// PlayerConfig names the player and their subscription tier. Configured is
// set once the setup screen has run, so a player literally named "player"
// is not sent back through setup.
type PlayerConfig struct {
	Name       string `yaml:"name"`
	Tier       string `yaml:"tier"`
	Configured bool   `yaml:"configured,omitempty"`
}

// SaboteurConfig tunes the social-deduction game.
type SaboteurConfig struct {
	Bots                int `yaml:"bots"`
	Tasks               int `yaml:"tasks"`
	KillRange           int `yaml:"kill_range"`
	KillCooldownSeconds int `yaml:"kill_cooldown_seconds"`
	MapWidth            int `yaml:"map_width"`
	MapHeight           int `yaml:"map_height"`
}

// TetrisConfig sizes the tetris board and its base gravity.
type TetrisConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	FallMillis int `yaml:"fall_millis"`
}

// DiceConfig sets the dice duel length and the opening stake.
type DiceConfig struct {
	Rounds       int `yaml:"rounds"`
	DefaultWager int `yaml:"default_wager"`
}

// QuizConfig tunes quiz sessions.
type QuizConfig struct {
	Pack               string `yaml:"pack"`
	Questions          int    `yaml:"questions"`
	SecondsPerQuestion int    `yaml:"seconds_per_question"`
}

// GamesConfig groups per-game settings.
type GamesConfig struct {
	Saboteur SaboteurConfig `yaml:"saboteur"`
	Tetris   TetrisConfig   `yaml:"tetris"`
	Dice     DiceConfig     `yaml:"dice"`
	Quiz     QuizConfig     `yaml:"quiz"`
}

// FileConfig models ~/.omu/config.yaml.
type FileConfig struct {
	Version int          `yaml:"version"`
	Player  PlayerConfig `yaml:"player"`
	Games   GamesConfig  `yaml:"games"`
}

// Config holds the resolved runtime configuration.
type Config struct {
	// OmuDir is the data directory, usually ~/.omu.
	OmuDir string

	// DBPath is the SQLite score database location.
	DBPath string

	// LogDisabled skips logbook creation when true.
	LogDisabled bool

	File FileConfig
}

// OmuDir resolves the data directory. OMU_HOME wins over the home directory.
func OmuDir(e Env) (string, error) {
	if dir := strings.TrimSpace(e.Home); dir != "" {
		return filepath.Clean(dir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home dir: %w", err)
	}
	return filepath.Join(home, OmuDirName), nil
}

// InitOmuDir creates the ~/.omu directory structure.
//
// Structure created:
// .omu/
// ├── logs/    <- logbook output
// ├── packs/   <- user-supplied quiz packs
// └── config.yaml
func InitOmuDir(omuDir string) error {
	dirs := []string{
		filepath.Join(omuDir, "logs"),
		filepath.Join(omuDir, "packs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create %s: %w", dir, err)
		}
	}
	return ensureConfigFile(filepath.Join(omuDir, "config.yaml"))
}

// New resolves the runtime configuration from the environment and the
// config file under the data directory.
func New(e Env) (*Config, error) {
	omuDir, err := OmuDir(e)
	if err != nil {
		return nil, err
	}
	dbPath := strings.TrimSpace(e.DBPath)
	if dbPath == "" {
		dbPath = filepath.Join(omuDir, "omu.db")
	}
	cfg := &Config{
		OmuDir:      omuDir,
		DBPath:      dbPath,
		LogDisabled: e.LogDisabled,
		File:        defaultFileConfig(),
	}
	if err := cfg.loadFileConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the logbook directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.OmuDir, "logs")
}

// LogPath returns the logbook file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "omu.log")
}

// PacksDir returns the user quiz pack directory.
func (c *Config) PacksDir() string {
	return filepath.Join(c.OmuDir, "packs")
}

// ConfigPath returns the on-disk location of the settings file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.OmuDir, "config.yaml")
}

// PlayerName returns the configured player name.
func (c *Config) PlayerName() string {
	return c.File.Player.Name
}

// PlayerTier returns the configured subscription tier.
func (c *Config) PlayerTier() profile.Tier {
	return profile.Tier(c.File.Player.Tier)
}

// SetPlayer updates the player identity and persists the settings file.
func (c *Config) SetPlayer(name string, tier profile.Tier) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("config: player name is required")
	}
	c.File.Player.Name = name
	c.File.Player.Tier = string(tier)
	c.File.Player.Configured = true
	return c.Save()
}

// PlayerConfigured reports whether setup has run. A hand-edited name that
// differs from the seeded default also counts.
func (c *Config) PlayerConfigured() bool {
	return c.File.Player.Configured || c.File.Player.Name != defaultPlayerName
}

func (c *Config) loadFileConfig() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed FileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.File = parsed
	return nil
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version: 1,
		Player: PlayerConfig{
			Name: defaultPlayerName,
			Tier: string(profile.TierFree),
		},
		Games: GamesConfig{
			Saboteur: SaboteurConfig{
				Bots:                6,
				Tasks:               8,
				KillRange:           1,
				KillCooldownSeconds: 7,
				MapWidth:            64,
				MapHeight:           24,
			},
			Tetris: TetrisConfig{Width: 10, Height: 20, FallMillis: 500},
			Dice:   DiceConfig{Rounds: 5, DefaultWager: 5},
			Quiz:   QuizConfig{Pack: "starter", Questions: 10, SecondsPerQuestion: 15},
		},
	}
}

func (fc *FileConfig) applyDefaults() {
	defaults := defaultFileConfig()
	if fc.Version == 0 {
		fc.Version = defaults.Version
	}
	if strings.TrimSpace(fc.Player.Name) == "" {
		fc.Player.Name = defaults.Player.Name
	}
	if strings.TrimSpace(fc.Player.Tier) == "" {
		fc.Player.Tier = defaults.Player.Tier
	}
	if fc.Games.Saboteur.Bots == 0 {
		fc.Games.Saboteur.Bots = defaults.Games.Saboteur.Bots
	}
	if fc.Games.Saboteur.Tasks == 0 {
		fc.Games.Saboteur.Tasks = defaults.Games.Saboteur.Tasks
	}
	if fc.Games.Saboteur.KillRange == 0 {
		fc.Games.Saboteur.KillRange = defaults.Games.Saboteur.KillRange
	}
	if fc.Games.Saboteur.KillCooldownSeconds == 0 {
		fc.Games.Saboteur.KillCooldownSeconds = defaults.Games.Saboteur.KillCooldownSeconds
	}
	if fc.Games.Saboteur.MapWidth == 0 {
		fc.Games.Saboteur.MapWidth = defaults.Games.Saboteur.MapWidth
	}
	if fc.Games.Saboteur.MapHeight == 0 {
		fc.Games.Saboteur.MapHeight = defaults.Games.Saboteur.MapHeight
	}
	if fc.Games.Tetris.Width == 0 {
		fc.Games.Tetris.Width = defaults.Games.Tetris.Width
	}
	if fc.Games.Tetris.Height == 0 {
		fc.Games.Tetris.Height = defaults.Games.Tetris.Height
	}
	if fc.Games.Tetris.FallMillis == 0 {
		fc.Games.Tetris.FallMillis = defaults.Games.Tetris.FallMillis
	}
	if fc.Games.Dice.Rounds == 0 {
		fc.Games.Dice.Rounds = defaults.Games.Dice.Rounds
	}
	if fc.Games.Dice.DefaultWager == 0 {
		fc.Games.Dice.DefaultWager = defaults.Games.Dice.DefaultWager
	}
	if strings.TrimSpace(fc.Games.Quiz.Pack) == "" {
		fc.Games.Quiz.Pack = defaults.Games.Quiz.Pack
	}
	if fc.Games.Quiz.Questions == 0 {
		fc.Games.Quiz.Questions = defaults.Games.Quiz.Questions
	}
	if fc.Games.Quiz.SecondsPerQuestion == 0 {
		fc.Games.Quiz.SecondsPerQuestion = defaults.Games.Quiz.SecondsPerQuestion
	}
}

func (fc *FileConfig) normalize() {
	fc.Player.Name = strings.TrimSpace(fc.Player.Name)
	fc.Player.Tier = strings.ToLower(strings.TrimSpace(fc.Player.Tier))
	fc.Games.Quiz.Pack = strings.TrimSpace(fc.Games.Quiz.Pack)
}

func (fc *FileConfig) validate() error {
	if fc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if fc.Player.Name == "" {
		return fmt.Errorf("player.name is required")
	}
	if _, err := profile.ParseTier(fc.Player.Tier); err != nil {
		return fmt.Errorf("player.tier: %w", err)
	}
	// Game bounds mirror the engine validators so an accepted file
	// always produces launchable games.
	if fc.Games.Saboteur.Bots < 2 {
		return fmt.Errorf("games.saboteur.bots must be >= 2")
	}
	if fc.Games.Saboteur.Tasks < 1 {
		return fmt.Errorf("games.saboteur.tasks must be >= 1")
	}
	if fc.Games.Saboteur.KillRange < 1 {
		return fmt.Errorf("games.saboteur.kill_range must be >= 1")
	}
	if fc.Games.Saboteur.KillCooldownSeconds < 1 {
		return fmt.Errorf("games.saboteur.kill_cooldown_seconds must be >= 1")
	}
	if fc.Games.Saboteur.MapWidth < 16 || fc.Games.Saboteur.MapHeight < 10 {
		return fmt.Errorf("games.saboteur map must be at least 16x10")
	}
	if fc.Games.Tetris.Width < 4 || fc.Games.Tetris.Height < 6 {
		return fmt.Errorf("games.tetris board must be at least 4x6")
	}
	if fc.Games.Tetris.FallMillis < 80 {
		return fmt.Errorf("games.tetris.fall_millis must be >= 80")
	}
	if fc.Games.Dice.Rounds < 1 {
		return fmt.Errorf("games.dice.rounds must be >= 1")
	}
	if fc.Games.Dice.DefaultWager < 1 {
		return fmt.Errorf("games.dice.default_wager must be >= 1")
	}
	if fc.Games.Quiz.Pack == "" {
		return fmt.Errorf("games.quiz.pack is required")
	}
	if fc.Games.Quiz.Questions < 1 {
		return fmt.Errorf("games.quiz.questions must be >= 1")
	}
	if fc.Games.Quiz.SecondsPerQuestion < 1 {
		return fmt.Errorf("games.quiz.seconds_per_question must be >= 1")
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// Save persists the settings file back to disk.
func (c *Config) Save() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.File.applyDefaults()
	c.File.normalize()
	if err := c.File.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.OmuDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure omu dir: %w", err)
	}
	data, err := yaml.Marshal(c.File)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write config: %w", err)
	}
	return nil
}
