package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// ClientEnv holds client settings read from the environment.
type ClientEnv struct {
	APIURL string `env:"LOCKRUSH_API_URL" envDefault:"http://localhost:3001"`
	DBPath string `env:"LOCKRUSH_DB" envDefault:"~/.lockrush/lockrush.db"`
}

// ServerEnv holds leaderboard server settings read from the environment.
// PORT and DATABASE_PATH keep the names used by existing deployments.
type ServerEnv struct {
	Port            int           `env:"PORT" envDefault:"3001"`
	Store           string        `env:"SCORE_STORE" envDefault:"sqlite"`
	DatabasePath    string        `env:"DATABASE_PATH" envDefault:"~/.lockrush/leaderboard.db"`
	RedisAddr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	ConnectAttempts int           `env:"CONNECT_ATTEMPTS" envDefault:"5"`
	Limit           int           `env:"LEADERBOARD_LIMIT" envDefault:"10"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoadDotEnv loads a .env file from the working directory if present.
// A missing file is normal outside local development.
func LoadDotEnv(logger *log.Logger) {
	if err := godotenv.Load(); err != nil {
		if logger != nil {
			logger.Debug("no .env file loaded", "error", err)
		}
		return
	}
	if logger != nil {
		logger.Info("loaded environment variables from .env file")
	}
}

// LoadClientEnv parses client settings from the environment.
func LoadClientEnv() (ClientEnv, error) {
	var cfg ClientEnv
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse client config from environment: %w", err)
	}
	return cfg, nil
}

// LoadServerEnv parses and validates server settings from the environment.
func LoadServerEnv() (ServerEnv, error) {
	var cfg ServerEnv
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse server config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate performs range checks on the server settings.
func (c ServerEnv) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d (must be 1-65535)", c.Port)
	}
	switch c.Store {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("invalid SCORE_STORE: %q (must be sqlite or redis)", c.Store)
	}
	if c.ConnectAttempts < 1 {
		return fmt.Errorf("invalid CONNECT_ATTEMPTS: %d (must be at least 1)", c.ConnectAttempts)
	}
	if c.Limit < 1 {
		return fmt.Errorf("invalid LEADERBOARD_LIMIT: %d (must be at least 1)", c.Limit)
	}
	return nil
}
