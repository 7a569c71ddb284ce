package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lockrush/internal/leaderboard"
	"github.com/vovakirdan/lockrush/internal/storage"
)

var flagScoresOffline bool

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the leaderboard from the server, and your local stats when you
have signed in on this machine.

With --offline, or when the server cannot be reached, the last leaderboard
seen by the game is shown instead.

Examples:
  lockrush scores
  lockrush scores --offline
  lockrush scores --api http://scores.example:3001`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresOffline, "offline", false, "Show the cached leaderboard only")
	scoresCmd.Flags().StringVar(&flagProfile, "profile", "", "Identity profile (default: OS user name)")
}

func runScores(_ *cobra.Command, _ []string) {
	env, err := clientSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := loadGameConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(env.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open local database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	var (
		view   leaderboard.View
		cached bool
	)
	if !flagScoresOffline {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Leaderboard.Timeout)
		view, err = leaderboard.NewHTTPClient(env.APIURL, cfg.Leaderboard.Timeout).Fetch(ctx)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	if flagScoresOffline || err != nil {
		if store == nil {
			fmt.Fprintln(os.Stderr, "Error: no cached leaderboard available")
			os.Exit(1)
		}
		view, err = store.CachedStandings()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading cached leaderboard: %v\n", err)
			os.Exit(1)
		}
		cached = true
	}

	email := ""
	if store != nil {
		if p, ok, idErr := store.Identity(profileName()); idErr == nil && ok {
			email = p.Email
		}
	}

	printBoard(view, email, cached)

	if store != nil && email != "" {
		printStats(store, email)
	}
}

func printBoard(view leaderboard.View, email string, cached bool) {
	if cached {
		fmt.Println("Leaderboard (cached)")
	} else {
		fmt.Println("Leaderboard")
	}
	fmt.Println()

	if len(view) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'lockrush play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-20s  %-6s  %s\n", "Rank", "Name", "Score", "Time")
	fmt.Printf("  %-4s  %-20s  %-6s  %s\n", "----", "----", "-----", "----")
	for i, r := range view {
		marker := " "
		if r.Email == email {
			marker = ">"
		}
		fmt.Printf("%s %-4d  %-20s  %-6d  %.2fs\n", marker, i+1, r.Name, r.Score, r.Time)
	}

	if rank, ok := leaderboard.BestRank(view, email); ok {
		fmt.Println()
		fmt.Printf("Your best rank: #%d\n", rank)
	}
}

func printStats(store *storage.Store, email string) {
	stats, err := store.Stats(email)
	if err != nil || stats.RunsCount == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Local runs")
	fmt.Printf("  Played: %d   Best: %d   Average: %.1f   Time alive: %.0fs\n",
		stats.RunsCount, stats.BestScore, stats.AvgScore, stats.TotalTime)
	if !stats.LastPlayed.IsZero() {
		fmt.Printf("  Last played: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
	}

	runs, err := store.TopRuns(email, 5)
	if err != nil || len(runs) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("  %-4s  %-6s  %-8s  %s\n", "#", "Score", "Time", "Date")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-6d  %-8s  %s\n", i+1, r.Score, fmt.Sprintf("%.2fs", r.TimeAlive), r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
