package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vovakirdan/lockrush/internal/leaderboard"
	"github.com/vovakirdan/lockrush/internal/storage"
)

// memBoard is an in-memory Board for handler tests.
type memBoard struct {
	mu      sync.Mutex
	best    map[string]leaderboard.Record
	pingErr error
	failAll bool
	pings   int
}

func newMemBoard() *memBoard {
	return &memBoard{best: make(map[string]leaderboard.Record)}
}

func (b *memBoard) SubmitScore(_ context.Context, r leaderboard.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failAll {
		return errors.New("disk full")
	}
	if old, ok := b.best[r.Email]; !ok || leaderboard.Better(r, old) {
		b.best[r.Email] = r
	}
	return nil
}

func (b *memBoard) TopScores(_ context.Context, limit int) (leaderboard.View, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failAll {
		return nil, errors.New("disk full")
	}
	var v leaderboard.View
	for _, r := range b.best {
		v = append(v, r)
	}
	leaderboard.Sort(v)
	return v.Top(limit), nil
}

func (b *memBoard) Ping(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pings++
	return b.pingErr
}

func (b *memBoard) Close() error { return nil }

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSubmitAndLeaderboard(t *testing.T) {
	h := New(newMemBoard(), Options{Limit: 2}).Handler()

	for _, body := range []string{
		`{"name":"A","email":"a@x","score":90,"time":5}`,
		`{"name":"B","email":"b@x","score":100,"time":10}`,
		`{"name":"C","email":"c@x","score":90,"time":7}`,
		`{"name":"A","email":"a@x","score":50,"time":1}`,
	} {
		if rr := do(t, h, http.MethodPost, "/submit-score", body); rr.Code != http.StatusCreated {
			t.Fatalf("submit %s = %d: %s", body, rr.Code, rr.Body)
		}
	}

	rr := do(t, h, http.MethodGet, "/leaderboard", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /leaderboard = %d", rr.Code)
	}
	var view leaderboard.View
	if err := json.NewDecoder(rr.Body).Decode(&view); err != nil {
		t.Fatal(err)
	}
	if len(view) != 2 || view[0].Email != "b@x" || view[1].Email != "a@x" || view[1].Score != 90 {
		t.Errorf("unexpected leaderboard %+v", view)
	}
}

func TestSubmitValidation(t *testing.T) {
	h := New(newMemBoard(), Options{}).Handler()

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"name":`},
		{"missing name", `{"email":"a@x","score":1,"time":1}`},
		{"blank email", `{"name":"A","email":"  ","score":1,"time":1}`},
		{"negative score", `{"name":"A","email":"a@x","score":-1,"time":1}`},
		{"negative time", `{"name":"A","email":"a@x","score":1,"time":-2}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/submit-score", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, expected 400", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), "error") {
				t.Errorf("body %q should carry an error", rr.Body)
			}
		})
	}
}

func TestStoreFailures(t *testing.T) {
	board := newMemBoard()
	board.failAll = true
	h := New(board, Options{}).Handler()

	if rr := do(t, h, http.MethodPost, "/submit-score", `{"name":"A","email":"a@x","score":1,"time":1}`); rr.Code != http.StatusInternalServerError {
		t.Errorf("submit with failing store = %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/leaderboard", ""); rr.Code != http.StatusInternalServerError {
		t.Errorf("leaderboard with failing store = %d", rr.Code)
	}
}

func TestEmptyLeaderboardIsArray(t *testing.T) {
	h := New(newMemBoard(), Options{}).Handler()
	rr := do(t, h, http.MethodGet, "/leaderboard", "")
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("body = %q, expected []", got)
	}
}

func TestCORS(t *testing.T) {
	h := New(newMemBoard(), Options{}).Handler()

	rr := do(t, h, http.MethodOptions, "/submit-score", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}

	rr = do(t, h, http.MethodGet, "/leaderboard", "")
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header on GET")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := New(newMemBoard(), Options{}).Handler()
	do(t, h, http.MethodPost, "/submit-score", `{"name":"A","email":"a@x","score":1,"time":1}`)
	do(t, h, http.MethodPost, "/submit-score", `nope`)

	rr := do(t, h, http.MethodGet, "/metrics", "")
	body := rr.Body.String()
	for _, want := range []string{
		"lockrush_scores_submitted_total 1",
		`lockrush_scores_rejected_total{reason="decode"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestHealth(t *testing.T) {
	board := newMemBoard()
	h := New(board, Options{}).Handler()

	if rr := do(t, h, http.MethodGet, "/healthz", ""); rr.Code != http.StatusOK {
		t.Errorf("healthy store = %d", rr.Code)
	}
	board.pingErr = errors.New("down")
	if rr := do(t, h, http.MethodGet, "/healthz", ""); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy store = %d", rr.Code)
	}
}

func TestConnectRetries(t *testing.T) {
	board := newMemBoard()
	board.pingErr = errors.New("connection refused")

	err := Connect(context.Background(), board, 2, nil)
	if err == nil {
		t.Fatal("Connect() should fail when the store never answers")
	}
	if board.pings != 2 {
		t.Errorf("pings = %d, expected 2 attempts", board.pings)
	}

	board.pingErr = nil
	if err := Connect(context.Background(), board, 5, nil); err != nil {
		t.Errorf("Connect() = %v", err)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	srv := New(newMemBoard(), Options{ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/leaderboard")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestClientAgainstSQLiteServer(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ts := httptest.NewServer(New(store, Options{}).Handler())
	defer ts.Close()

	client := leaderboard.NewHTTPClient(ts.URL, time.Second)
	ctx := context.Background()
	for _, r := range []leaderboard.Record{
		{Name: "B", Email: "b@x", Score: 100, Time: 10},
		{Name: "A", Email: "a@x", Score: 90, Time: 5},
	} {
		if err := client.Submit(ctx, r); err != nil {
			t.Fatalf("Submit() failed: %v", err)
		}
	}

	view, err := client.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if got := leaderboard.Rank(view, 95, 1); got != 2 {
		t.Errorf("Rank(95, 1) = %d, expected 2", got)
	}
	if got, ok := leaderboard.BestRank(view, "a@x"); !ok || got != 2 {
		t.Errorf("BestRank(a@x) = %d, %v", got, ok)
	}
}
