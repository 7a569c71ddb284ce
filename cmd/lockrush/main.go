// lockrush is a terminal reflex game with a shared online leaderboard.
//
// Usage:
//
//	lockrush play            - Play in this terminal
//	lockrush serve           - Start the leaderboard HTTP server
//	lockrush ssh             - Start an SSH server for remote play
//	lockrush scores          - Show the leaderboard and your local stats
//	lockrush engines         - List available simulation engines
//
// Global flags:
//
//	--fps <rate>     - Set frame rate (default: 60)
//	--seed <value>   - Set RNG seed for reproducible targets
//	--db <path>      - Set local database path (default: $LOCKRUSH_DB)
//	--config <path>  - Load game tuning from a YAML file
//	--api <url>      - Leaderboard server URL (default: $LOCKRUSH_API_URL)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lockrush/internal/config"

	// Import engines to register them
	_ "github.com/vovakirdan/lockrush/internal/engine/classic"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
	flagAPIURL string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lockrush",
	Short: "LockRush - stop the pointer on the target",
	Long: `LockRush is a one-button reflex game for the terminal. A pointer sweeps
around a ring; tap when it crosses the green target. Every hit speeds it up,
every miss costs a life.

Available commands:
  play     - Play in this terminal
  serve    - Start the leaderboard HTTP server
  ssh      - Start an SSH server for remote play
  scores   - Show the leaderboard
  engines  - List simulation engines

Examples:
  lockrush play
  lockrush play --difficulty hard
  lockrush serve
  lockrush ssh --addr :2222
  lockrush scores --offline`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to local database (default $LOCKRUSH_DB)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api", "", "Leaderboard server URL (default $LOCKRUSH_API_URL)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sshCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(enginesCmd)
}

// clientSettings resolves the database path and API URL from flags, then
// the environment (including a .env file).
func clientSettings() (config.ClientEnv, error) {
	config.LoadDotEnv(nil)

	env, err := config.LoadClientEnv()
	if err != nil {
		return env, err
	}
	if flagDBPath != "" {
		env.DBPath = flagDBPath
	}
	if flagAPIURL != "" {
		env.APIURL = flagAPIURL
	}
	return env, nil
}
