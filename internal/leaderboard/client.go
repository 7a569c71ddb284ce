package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnexpectedStatus is returned when the service answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status from leaderboard service")

// Service is the remote leaderboard as seen by the session.
type Service interface {
	Submit(ctx context.Context, r Record) error
	Fetch(ctx context.Context) (View, error)
}

// maxResponseSize bounds the leaderboard body read from the service.
const maxResponseSize = 1 << 20

// HTTPClient talks to the leaderboard server over its JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a client for the service at baseURL. Every request is
// bounded by timeout; zero means no client-side bound beyond the context.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Submit posts a completed run to /submit-score.
func (c *HTTPClient) Submit(ctx context.Context, r Record) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode score: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submit-score", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit score: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	return nil
}

// Fetch retrieves the current standings from /leaderboard.
func (c *HTTPClient) Fetch(ctx context.Context) (View, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/leaderboard", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build leaderboard request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	var view View
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&view); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	return view, nil
}

// ScoreStore is a score table a leaderboard can be served from in-process.
type ScoreStore interface {
	SubmitScore(ctx context.Context, r Record) error
	TopScores(ctx context.Context, limit int) (View, error)
}

// LocalService serves the leaderboard straight from a ScoreStore, for hosts
// that own the score table themselves.
type LocalService struct {
	Store ScoreStore
	Limit int
}

// Submit records a run in the store.
func (s LocalService) Submit(ctx context.Context, r Record) error {
	return s.Store.SubmitScore(ctx, r)
}

// Fetch returns the top Limit entries.
func (s LocalService) Fetch(ctx context.Context) (View, error) {
	v, err := s.Store.TopScores(ctx, s.Limit)
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = View{}
	}
	return v, nil
}
