// cmd/omu/main.go
//
// This is the entry point for the omu terminal arcade.
//
// Flow:
// 1. Read OMU_* environment overrides
// 2. Create ~/.omu (logs, quiz packs, config.yaml) and open the score store
// 3. Launch the TUI

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/omuplay/omu/internal/config"
	"github.com/omuplay/omu/internal/game/quiz"
	"github.com/omuplay/omu/internal/logbook"
	"github.com/omuplay/omu/internal/scores"
	"github.com/omuplay/omu/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "omu: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	env, err := config.ParseEnv()
	if err != nil {
		return err
	}
	omuDir, err := config.OmuDir(env)
	if err != nil {
		return err
	}
	if err := config.InitOmuDir(omuDir); err != nil {
		return err
	}
	cfg, err := config.New(env)
	if err != nil {
		return err
	}

	// A nil logbook is a no-op writer.
	var book *logbook.Logbook
	if !cfg.LogDisabled {
		book, err = logbook.New(cfg.LogPath())
		if err != nil {
			return err
		}
	}

	store, err := scores.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	library, err := quiz.NewLibrary(cfg.PacksDir())
	if err != nil {
		return err
	}

	app, err := tui.NewApp(cfg, book, store, library)
	if err != nil {
		return err
	}

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
