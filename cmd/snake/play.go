package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/consent"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
)

var (
	flagScale   int
	flagLogFile string
	flagDebug   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play snake in this terminal",
	Long: `Start a game of snake in this terminal.

Controls:
  Arrows/WASD - Steer
  Enter       - Start / play again
  R           - Restart
  P           - Pause
  Y/N         - Accept or decline cookies
  X           - Close sponsor banner
  Ctrl+S      - Save a PNG screenshot to ~/.snake/screenshots
  Q/Ctrl+C    - Quit

The board is drawn with half-block characters. By default it is scaled to
fit the terminal; --scale fixes the number of pixels per grid cell.

Examples:
  snake play
  snake play --seed 42
  snake play --scale 3
  snake play --log-file ./snake.log --debug`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagScale, "scale", 0, "Pixels per grid cell (0 = fit terminal)")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (the terminal is owned by the game)")
	playCmd.Flags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
}

func runPlay(_ *cobra.Command, _ []string) error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("play needs an interactive terminal")
	}

	// Get terminal size early so the first frame fits
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(fd); termErr == nil {
		width = w
		height = h
	}

	var out io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "snake",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, prefs := openPreferences(logger)
	if store != nil {
		defer store.Close()
	}

	cm := consent.NewManager(prefs, cfg, consent.Options{
		Scope:  "local",
		Logger: logger,
	})

	logger.Info("starting game", "seed", flagSeed, "grid", cfg.Board.GridSize, "tick", cfg.TickPeriod())

	err = tui.Run(cfg, tui.Options{
		Seed:          flagSeed,
		Scale:         flagScale,
		Consent:       cm,
		Logger:        logger,
		ScreenshotDir: tui.DefaultScreenshotDir(),
		Width:         width,
		Height:        height,
	})
	if err != nil {
		logger.Error("game stopped", "error", err)
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
