package leaderboard

import (
	"testing"

	"github.com/vovakirdan/lockrush/internal/engine"
	"github.com/vovakirdan/lockrush/internal/identity"
)

func TestRank(t *testing.T) {
	view := View{
		{Name: "B", Email: "b@x", Score: 100, Time: 10},
		{Name: "A", Email: "a@x", Score: 90, Time: 5},
	}

	tests := []struct {
		name  string
		score int
		time  float64
		want  int
	}{
		{"candidate present in view", 90, 5, 2},
		{"higher score beats slower time", 95, 1, 2},
		{"better than all", 101, 50, 1},
		{"same score faster time", 100, 9, 1},
		{"same score slower time", 100, 11, 2},
		{"worse than all", 10, 1, 3},
		{"equal score slower than last", 90, 6, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Rank(view, tc.score, tc.time); got != tc.want {
				t.Errorf("Rank(%d, %v) = %d, expected %d", tc.score, tc.time, got, tc.want)
			}
		})
	}

	if got := Rank(nil, 5, 5); got != 1 {
		t.Errorf("Rank on empty view = %d, expected 1", got)
	}
}

func TestRankCountsStrictlyBetter(t *testing.T) {
	view := View{
		{Score: 50, Time: 3}, {Score: 40, Time: 1}, {Score: 40, Time: 2},
		{Score: 40, Time: 2}, {Score: 30, Time: 9}, {Score: 5, Time: 0.5},
	}

	for score := 0; score <= 60; score += 5 {
		for _, tm := range []float64{0, 1, 2, 2.5, 10} {
			candidate := Record{Score: score, Time: tm}
			better := 0
			for _, e := range view {
				if Better(e, candidate) {
					better++
				}
			}
			if got := Rank(view, score, tm); got != better+1 {
				t.Errorf("Rank(%d, %v) = %d, expected %d", score, tm, got, better+1)
			}
		}
	}
}

func TestBestRank(t *testing.T) {
	view := View{
		{Email: "b@x", Score: 100, Time: 10},
		{Email: "a@x", Score: 90, Time: 5},
	}

	if r, ok := BestRank(view, "a@x"); !ok || r != 2 {
		t.Errorf("BestRank(a@x) = %d, %v; expected 2, true", r, ok)
	}
	if _, ok := BestRank(view, "c@x"); ok {
		t.Error("BestRank should report missing players")
	}
}

func TestSort(t *testing.T) {
	records := []Record{
		{Name: "slow", Score: 10, Time: 9},
		{Name: "top", Score: 20, Time: 30},
		{Name: "fast", Score: 10, Time: 2},
	}
	Sort(records)

	want := []string{"top", "fast", "slow"}
	for i, name := range want {
		if records[i].Name != name {
			t.Errorf("records[%d] = %s, expected %s", i, records[i].Name, name)
		}
	}
}

func TestViewTop(t *testing.T) {
	v := View{{Score: 3}, {Score: 2}, {Score: 1}}
	if len(v.Top(2)) != 2 || len(v.Top(10)) != 3 || len(v.Top(-1)) != 3 {
		t.Error("Top should clamp to the view length")
	}
}

func TestNewRecord(t *testing.T) {
	r := NewRecord(identity.Player{Name: "A", Email: "a@x"}, engine.Snapshot{Score: 7, TimeAlive: 12.5, GameOver: true})
	if r != (Record{Name: "A", Email: "a@x", Score: 7, Time: 12.5}) {
		t.Errorf("NewRecord() = %+v", r)
	}
}
