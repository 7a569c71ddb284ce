package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/vovakirdan/lockrush/internal/leaderboard"
)

// ScoresKey is the Redis hash holding each player's best run, keyed by email.
const ScoresKey = "lockrush:scores"

// maxTxRetries bounds optimistic-lock retries when runs race on one player.
const maxTxRetries = 8

// RedisBoard is a server leaderboard backed by Redis.
type RedisBoard struct {
	client *redis.Client
}

// NewRedisClient creates a Redis client with the server's timeouts.
func NewRedisClient(addr, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0, // use default DB
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// NewRedisBoard wraps an existing client.
func NewRedisBoard(client *redis.Client) *RedisBoard {
	return &RedisBoard{client: client}
}

// Ping checks the Redis connection.
func (b *RedisBoard) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (b *RedisBoard) Close() error {
	return b.client.Close()
}

// SubmitScore stores a run, keeping only the player's best.
func (b *RedisBoard) SubmitScore(ctx context.Context, r leaderboard.Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal score: %w", err)
	}

	update := func(tx *redis.Tx) error {
		current, err := tx.HGet(ctx, ScoresKey, r.Email).Result()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return err
		default:
			var best leaderboard.Record
			if err := json.Unmarshal([]byte(current), &best); err == nil && !leaderboard.Better(r, best) {
				return nil
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, ScoresKey, r.Email, data)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err = b.client.Watch(ctx, update, ScoresKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("failed to submit score: %w", err)
	}
	return nil
}

// TopScores returns the best entries, sorted by (score desc, time asc).
func (b *RedisBoard) TopScores(ctx context.Context, limit int) (leaderboard.View, error) {
	if limit <= 0 {
		limit = 10
	}

	all, err := b.client.HGetAll(ctx, ScoresKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read scores: %w", err)
	}

	view := make(leaderboard.View, 0, len(all))
	for email, raw := range all {
		var r leaderboard.Record
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal score for %s: %w", email, err)
		}
		view = append(view, r)
	}

	// Equal runs are ordered by email so the result does not depend on map order.
	sort.Slice(view, func(i, j int) bool {
		switch {
		case leaderboard.Better(view[i], view[j]):
			return true
		case leaderboard.Better(view[j], view[i]):
			return false
		}
		return view[i].Email < view[j].Email
	})
	return view.Top(limit), nil
}
