package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/lockrush/internal/config"
	"github.com/vovakirdan/lockrush/internal/server"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the leaderboard HTTP server",
	Long: `Start the leaderboard service used by lockrush clients.

Endpoints:
  POST /submit-score  - Record a run {name, email, score, time}
  GET  /leaderboard   - Top runs, best first
  GET  /healthz       - Store health
  GET  /metrics       - Prometheus metrics

Configuration comes from the environment (a .env file is loaded if present):
  PORT               - Listen port (default 3001)
  SCORE_STORE        - sqlite or redis (default sqlite)
  DATABASE_PATH      - SQLite file (default ~/.lockrush/leaderboard.db)
  REDIS_ADDR         - Redis address (default localhost:6379)
  REDIS_PASSWORD     - Redis password
  CONNECT_ATTEMPTS   - Store connection attempts (default 5)
  LEADERBOARD_LIMIT  - Entries returned (default 10)
  SHUTDOWN_TIMEOUT   - Graceful shutdown bound (default 10s)

Examples:
  lockrush serve
  PORT=8080 SCORE_STORE=redis lockrush serve
  lockrush serve --addr 127.0.0.1:3001`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (overrides PORT)")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "lockrush-api",
	})

	config.LoadDotEnv(logger)
	env, err := config.LoadServerEnv()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	board, err := server.OpenBoard(ctx, env, logger)
	if err != nil {
		logger.Fatal("cannot open score store", "store", env.Store, "error", err)
	}
	defer board.Close()

	srv := server.New(board, server.Options{
		Limit:           env.Limit,
		ShutdownTimeout: env.ShutdownTimeout,
		Logger:          logger,
	})

	addr := flagServeAddr
	if addr == "" {
		addr = fmt.Sprintf(":%d", env.Port)
	}

	if err := srv.ListenAndServe(ctx, addr); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
