package main

import (
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lockrush/internal/config"
	"github.com/vovakirdan/lockrush/internal/core"
	"github.com/vovakirdan/lockrush/internal/identity"
	"github.com/vovakirdan/lockrush/internal/leaderboard"
	"github.com/vovakirdan/lockrush/internal/platform/tui"
	"github.com/vovakirdan/lockrush/internal/registry"
	"github.com/vovakirdan/lockrush/internal/storage"
)

var (
	flagDifficulty string
	flagEngine     string
	flagProfile    string
	flagOffline    bool
	flagLogFile    string
	flagLogLevel   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a lockrush session.

The first run asks for a name and email; they are remembered per profile.
Finished runs are submitted to the leaderboard server and your rank is shown
on the game over screen.

Controls:
  Space/Enter/Click - Tap (start, hit, replay)
  L                 - Leaderboard (after game over)
  Esc/B             - Back from the leaderboard
  Ctrl+S            - Save a screenshot
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Slower pointer, wider window, extra lives
  normal - Configured rules
  hard   - Faster pointer, narrower window, fewer lives

Examples:
  lockrush play
  lockrush play --difficulty easy
  lockrush play --offline
  lockrush play --config ./tuning.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagEngine, "engine", registry.DefaultEngine, "Simulation engine ID")
	playCmd.Flags().StringVar(&flagProfile, "profile", "", "Identity profile (default: OS user name)")
	playCmd.Flags().BoolVar(&flagOffline, "offline", false, "Play without the leaderboard server")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "~/.lockrush/lockrush.log", "Log file path")
	playCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, closeLog, err := openLogFile(flagLogFile, flagLogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer closeLog()

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

	// Get terminal size early so the first frame is laid out correctly
	rt := core.RuntimeConfig{TickRate: flagFPS, Seed: flagSeed}
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rt.ScreenW, rt.ScreenH = w, h
	}
	rt = rt.WithDefaults()
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	eng, err := registry.Create(flagEngine, cfg.Engine, rt.Seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'lockrush engines' to see available engines.")
		os.Exit(1)
	}

	opts := tui.Options{
		Config:  cfg,
		Runtime: rt,
		Engine:  eng,
		Profile: profileName(),
		Logger:  logger,
	}

	// Open local storage; the game still works without it
	store, err := storage.Open(env.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open local database: %v\n", err)
		logger.Warn("playing without local storage", "error", err)
		opts.Identity = identity.NewMemoryStore()
	} else {
		opts.Identity = store
		opts.Cache = store
		opts.History = store
	}

	if !flagOffline {
		opts.Service = leaderboard.NewHTTPClient(env.APIURL, cfg.Leaderboard.Timeout)
		logger.Info("using leaderboard server", "url", env.APIURL)
	}

	runErr := tui.Run(opts)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// loadGameConfig loads tuning from --config (or the user config) and applies
// the difficulty preset.
func loadGameConfig() (config.GameConfig, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.GameConfig{}, err
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.GameConfig{}, err
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, nil
}

func profileName() string {
	if flagProfile != "" {
		return flagProfile
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "local"
}

// openLogFile sends logs to a file, since the terminal belongs to the game.
// On failure it returns a discarding logger and the error.
func openLogFile(path, level string) (*log.Logger, func(), error) {
	discard := log.New(io.Discard)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return discard, func() {}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	path, err = storage.ExpandHome(path)
	if err != nil {
		return discard, func() {}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return discard, func() {}, fmt.Errorf("cannot create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return discard, func() {}, fmt.Errorf("cannot open log file: %w", err)
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "lockrush",
		Level:           lvl,
	})
	return logger, func() { f.Close() }, nil
}
