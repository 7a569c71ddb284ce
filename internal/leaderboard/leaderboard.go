// Package leaderboard defines score records, the shared ordering key and
// rank computation, and a client for the remote leaderboard service.
package leaderboard

import (
	"sort"

	"github.com/vovakirdan/lockrush/internal/engine"
	"github.com/vovakirdan/lockrush/internal/identity"
)

// Record is one completed run. Time is the run's time alive in seconds.
type Record struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Score int     `json:"score"`
	Time  float64 `json:"time"`
}

// NewRecord builds the record submitted for a finished run.
func NewRecord(p identity.Player, s engine.Snapshot) Record {
	return Record{
		Name:  p.Name,
		Email: p.Email,
		Score: s.Score,
		Time:  s.TimeAlive,
	}
}

// View is a leaderboard as returned by the store, sorted by (score desc, time asc).
type View []Record

// Better reports whether a ranks strictly ahead of b: higher score, or the
// same score reached in less time.
func Better(a, b Record) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Time < b.Time
}

// Sort orders records in place by the leaderboard key. Equal records keep
// their relative order.
func Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return Better(records[i], records[j])
	})
}

// Rank returns the 1-based position a run with the given score and time
// would take in the view: one plus the number of strictly better entries.
// The view does not need to be sorted.
func Rank(v View, score int, timeAlive float64) int {
	candidate := Record{Score: score, Time: timeAlive}
	rank := 1
	for _, e := range v {
		if Better(e, candidate) {
			rank++
		}
	}
	return rank
}

// BestRank returns the 1-based index of the player's entry in a view sorted
// by the store. ok is false when the player has no entry.
func BestRank(v View, email string) (rank int, ok bool) {
	for i, e := range v {
		if e.Email == email {
			return i + 1, true
		}
	}
	return 0, false
}

// Top returns at most n leading entries.
func (v View) Top(n int) View {
	if n < 0 || n >= len(v) {
		return v
	}
	return v[:n]
}
