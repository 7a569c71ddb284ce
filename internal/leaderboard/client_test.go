package leaderboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPClientSubmit(t *testing.T) {
	var got Record
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/submit-score" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", time.Second)
	want := Record{Name: "A", Email: "a@x", Score: 12, Time: 8.25}
	if err := c.Submit(context.Background(), want); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if got != want {
		t.Errorf("server received %+v, expected %+v", got, want)
	}
}

func TestHTTPClientSubmitStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewHTTPClient(srv.URL, time.Second).Submit(context.Background(), Record{})
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Errorf("Submit() error = %v, expected ErrUnexpectedStatus", err)
	}
}

func TestHTTPClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/leaderboard" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"B","email":"b@x","score":100,"time":10},{"name":"A","email":"a@x","score":90,"time":5}]`))
	}))
	defer srv.Close()

	view, err := NewHTTPClient(srv.URL, time.Second).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(view) != 2 || view[0].Score != 100 || view[1].Email != "a@x" {
		t.Errorf("unexpected view %+v", view)
	}
}

func TestHTTPClientFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"bad status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			if _, err := NewHTTPClient(srv.URL, time.Second).Fetch(context.Background()); err == nil {
				t.Error("Fetch() should fail")
			}
		})
	}
}

func TestHTTPClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewHTTPClient(srv.URL, 50*time.Millisecond).Fetch(context.Background())
	if err == nil {
		t.Fatal("Fetch() should time out")
	}
}

type sliceStore struct {
	records []Record
	err     error
}

func (s *sliceStore) SubmitScore(_ context.Context, r Record) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, r)
	return nil
}

func (s *sliceStore) TopScores(_ context.Context, limit int) (View, error) {
	if s.err != nil {
		return nil, s.err
	}
	v := append(View(nil), s.records...)
	Sort(v)
	return v.Top(limit), nil
}

func TestLocalService(t *testing.T) {
	store := &sliceStore{}
	svc := LocalService{Store: store, Limit: 2}
	ctx := context.Background()

	v, err := svc.Fetch(ctx)
	if err != nil || v == nil || len(v) != 0 {
		t.Fatalf("Fetch() on empty store = %v, %v; expected empty non-nil view", v, err)
	}

	for _, r := range []Record{{Email: "a", Score: 1}, {Email: "b", Score: 3}, {Email: "c", Score: 2}} {
		if err := svc.Submit(ctx, r); err != nil {
			t.Fatalf("Submit() failed: %v", err)
		}
	}

	v, err = svc.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch() failed: %v", err)
	}
	if len(v) != 2 || v[0].Email != "b" || v[1].Email != "c" {
		t.Errorf("Fetch() = %+v, expected b then c", v)
	}

	store.err = errors.New("down")
	if _, err := svc.Fetch(ctx); err == nil {
		t.Error("Fetch() should surface store errors")
	}
}
