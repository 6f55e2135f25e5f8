// snake is a terminal snake game.
//
// Usage:
//
//	snake play              - Play in this terminal
//	snake serve             - Start SSH server for remote play
//	snake screenshot        - Render a headless game to PNG
//	snake config            - Print the effective configuration
//	snake consent [status|reset] - Inspect or clear stored consent
//
// Global flags:
//
//	--seed <value>  - Set RNG seed for reproducible food placement
//	--db <path>     - Set preferences database path (default: ~/.snake/prefs.db)
//	--config <path> - Use a custom config YAML
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/consent"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	// Global flags
	flagSeed   int64
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic grid game in your terminal",
	Long: `Snake is the classic grid game rendered in your terminal.

Available commands:
  play        - Play in this terminal
  serve       - Start SSH server for remote play
  screenshot  - Render a headless game to PNG
  config      - Print the effective configuration
  consent     - Inspect or clear stored cookie consent

Examples:
  snake play
  snake play --seed 42 --scale 3
  snake serve --ssh :2222
  snake screenshot --ticks 30 --moves "....ss" -o board.png`,
	// Errors are printed once by main
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.snake/prefs.db", "Path to preferences database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(screenshotCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(consentCmd)
}

// loadConfig resolves the game config from --config and the search path.
func loadConfig() (config.Config, error) {
	return config.Load(flagConfig)
}

// openPreferences opens the preferences database. On failure it warns and
// returns a nil store so consent falls back to memory.
func openPreferences(logger *log.Logger) (*storage.Store, consent.PreferenceStore) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open preferences database, consent will not persist", "error", err)
		// Continue without storage - game still works
		return nil, nil
	}
	return store, store
}
