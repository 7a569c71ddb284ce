package server

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lockrush/internal/config"
	"github.com/vovakirdan/lockrush/internal/storage"
)

// OpenBoard opens the score store selected by the environment and waits for
// it to answer, retrying with exponential backoff.
func OpenBoard(ctx context.Context, env config.ServerEnv, logger *log.Logger) (Board, error) {
	var board Board
	switch env.Store {
	case "redis":
		board = storage.NewRedisBoard(storage.NewRedisClient(env.RedisAddr, env.RedisPassword))
	default:
		store, err := storage.Open(env.DatabasePath)
		if err != nil {
			return nil, err
		}
		board = store
	}

	if err := Connect(ctx, board, env.ConnectAttempts, logger); err != nil {
		board.Close()
		return nil, err
	}
	return board, nil
}

// Connect pings the board until it answers or attempts run out.
func Connect(ctx context.Context, board Board, attempts int, logger *log.Logger) error {
	if attempts < 1 {
		attempts = 1
	}

	attempt := 0
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(attempts-1)),
		ctx,
	)
	err := backoff.Retry(func() error {
		attempt++
		if err := board.Ping(ctx); err != nil {
			if logger != nil {
				logger.Warn("score store not ready", "attempt", attempt, "of", attempts, "error", err)
			}
			return err
		}
		return nil
	}, policy)
	if err != nil {
		return fmt.Errorf("failed to connect to score store after %d attempts: %w", attempt, err)
	}

	if logger != nil {
		logger.Info("connected to score store", "attempt", attempt)
	}
	return nil
}

var (
	_ Board = (*storage.Store)(nil)
	_ Board = (*storage.RedisBoard)(nil)
)
