// Package server implements the lockrush leaderboard HTTP service:
// POST /submit-score keeps each player's best run, GET /leaderboard returns
// the top runs sorted by (score desc, time asc).
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/lockrush/internal/leaderboard"
)

// maxBodySize bounds a submitted score payload.
const maxBodySize = 64 << 10

// Board is the score store behind the service.
type Board interface {
	SubmitScore(ctx context.Context, r leaderboard.Record) error
	TopScores(ctx context.Context, limit int) (leaderboard.View, error)
	Ping(ctx context.Context) error
	Close() error
}

// Options configures a Server.
type Options struct {
	Limit           int // Entries returned by /leaderboard
	ShutdownTimeout time.Duration
	Logger          *log.Logger
	Registry        *prometheus.Registry // Optional; a fresh registry is created when nil
}

// Server serves the leaderboard API.
type Server struct {
	board    Board
	limit    int
	shutdown time.Duration
	logger   *log.Logger
	metrics  *metrics
	registry *prometheus.Registry
}

// New creates a server for the given board.
func New(board Board, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry()
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	return &Server{
		board:    board,
		limit:    limit,
		shutdown: opts.ShutdownTimeout,
		logger:   logger,
		metrics:  newMetrics(reg),
		registry: reg,
	}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /submit-score", s.handleSubmit)
	mux.HandleFunc("GET /leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return s.withLogging(withCORS(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("leaderboard server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down leaderboard server")
	timeout := s.shutdown
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("leaderboard server stopped")
	return nil
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var rec leaderboard.Record
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&rec); err != nil {
		s.metrics.rejected.WithLabelValues("decode").Inc()
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if reason := validateRecord(&rec); reason != "" {
		s.metrics.rejected.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, reason)
		return
	}

	if err := s.board.SubmitScore(r.Context(), rec); err != nil {
		s.logger.Error("failed to store score", "email", rec.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to store score")
		return
	}

	s.metrics.submitted.Inc()
	s.logger.Debug("score stored", "name", rec.Name, "score", rec.Score, "time", rec.Time)
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	view, err := s.board.TopScores(r.Context(), s.limit)
	if err != nil {
		s.logger.Error("failed to read leaderboard", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read leaderboard")
		return
	}
	if view == nil {
		view = leaderboard.View{}
	}

	s.metrics.served.Inc()
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.board.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// validateRecord trims the record and returns a reason when it is unusable.
func validateRecord(r *leaderboard.Record) string {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)

	switch {
	case r.Name == "":
		return "name is required"
	case r.Email == "":
		return "email is required"
	case r.Score < 0:
		return "score must not be negative"
	case math.IsNaN(r.Time) || math.IsInf(r.Time, 0) || r.Time < 0:
		return "time must be a non-negative number"
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
