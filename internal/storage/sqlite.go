// Package storage provides SQLite and Redis persistence for lockrush:
// the local identity and standings cache, local run history, and the
// server-side leaderboard.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/lockrush/internal/identity"
	"github.com/vovakirdan/lockrush/internal/leaderboard"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunEntry is one finished run kept in the local history.
type RunEntry struct {
	ID        int64
	Email     string
	Score     int
	TimeAlive float64
	CreatedAt time.Time
}

// PlayerStats contains aggregated local statistics for a player.
type PlayerStats struct {
	Email      string
	RunsCount  int
	BestScore  int
	AvgScore   float64
	TotalTime  float64
	LastPlayed time.Time
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := ExpandHome(dbPath)
	if err != nil {
		return nil, err
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// SQLite allows one writer; SSH sessions and the HTTP server share this handle
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS identities (
			profile TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS standings (
			position INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			score INTEGER NOT NULL,
			time_alive REAL NOT NULL,
			cached_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL,
			score INTEGER NOT NULL,
			time_alive REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_email ON runs(email);

		CREATE TABLE IF NOT EXISTS scores (
			email TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			time_alive REAL NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_rank ON scores(score DESC, time_alive ASC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Identity implements identity.Store.
func (s *Store) Identity(profile string) (identity.Player, bool, error) {
	var p identity.Player
	err := s.db.QueryRow(
		"SELECT name, email FROM identities WHERE profile = ?",
		profile,
	).Scan(&p.Name, &p.Email)

	if errors.Is(err, sql.ErrNoRows) {
		return identity.Player{}, false, nil
	}
	if err != nil {
		return identity.Player{}, false, fmt.Errorf("storage: cannot query identity: %w", err)
	}
	return p, true, nil
}

// SaveIdentity implements identity.Store.
func (s *Store) SaveIdentity(profile string, p identity.Player) error {
	_, err := s.db.Exec(
		`INSERT INTO identities (profile, name, email) VALUES (?, ?, ?)
		 ON CONFLICT(profile) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			updated_at = CURRENT_TIMESTAMP`,
		profile, p.Name, p.Email,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save identity: %w", err)
	}
	return nil
}

// CachedStandings returns the last leaderboard cached for offline display.
func (s *Store) CachedStandings() (leaderboard.View, error) {
	rows, err := s.db.Query(
		`SELECT name, email, score, time_alive
		 FROM standings
		 ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query standings: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// CacheStandings replaces the cached leaderboard.
func (s *Store) CacheStandings(v leaderboard.View) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM standings"); err != nil {
		return fmt.Errorf("storage: cannot clear standings: %w", err)
	}
	for i, r := range v {
		if _, err := tx.Exec(
			"INSERT INTO standings (position, name, email, score, time_alive) VALUES (?, ?, ?, ?, ?)",
			i, r.Name, r.Email, r.Score, r.Time,
		); err != nil {
			return fmt.Errorf("storage: cannot cache standing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit standings: %w", err)
	}
	return nil
}

// SaveRun records a finished run in the local history.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r leaderboard.Record) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO runs (email, score, time_alive) VALUES (?, ?, ?)",
		r.Email, r.Score, r.Time,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopRuns retrieves a player's best N local runs in leaderboard order.
func (s *Store) TopRuns(email string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, email, score, time_alive, created_at
		 FROM runs
		 WHERE email = ?
		 ORDER BY score DESC, time_alive ASC
		 LIMIT ?`,
		email, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Email, &e.Score, &e.TimeAlive, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// Stats retrieves aggregated local statistics for a player.
func (s *Store) Stats(email string) (*PlayerStats, error) {
	stats := &PlayerStats{Email: email}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(time_alive), 0), MAX(created_at)
		 FROM runs WHERE email = ?`,
		email,
	).Scan(&stats.RunsCount, &stats.BestScore, &stats.AvgScore, &stats.TotalTime, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get player stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// SubmitScore stores a run on the server leaderboard. A player keeps one
// entry, replaced only by a strictly better run.
func (s *Store) SubmitScore(ctx context.Context, r leaderboard.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (email, name, score, time_alive) VALUES (?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET
			name = excluded.name,
			score = excluded.score,
			time_alive = excluded.time_alive,
			updated_at = CURRENT_TIMESTAMP
		 WHERE excluded.score > scores.score
		    OR (excluded.score = scores.score AND excluded.time_alive < scores.time_alive)`,
		r.Email, r.Name, r.Score, r.Time,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot submit score: %w", err)
	}
	return nil
}

// TopScores returns the best server leaderboard entries, sorted by
// (score desc, time asc).
func (s *Store) TopScores(ctx context.Context, limit int) (leaderboard.View, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, email, score, time_alive
		 FROM scores
		 ORDER BY score DESC, time_alive ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func scanRecords(rows *sql.Rows) (leaderboard.View, error) {
	view := leaderboard.View{}
	for rows.Next() {
		var r leaderboard.Record
		if err := rows.Scan(&r.Name, &r.Email, &r.Score, &r.Time); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		view = append(view, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return view, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

var _ identity.Store = (*Store)(nil)
