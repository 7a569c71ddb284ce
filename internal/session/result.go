package session

import (
	"github.com/vovakirdan/lockrush/internal/engine"
	"github.com/vovakirdan/lockrush/internal/leaderboard"
)

// RankStatus tracks rank resolution for the finished run.
type RankStatus int

const (
	RankPending RankStatus = iota
	RankReady
	RankUnavailable
)

// Result is the outcome shown on the game over screen.
type Result struct {
	Final    engine.Snapshot
	Status   RankStatus
	Rank     int  // Position of this run; valid when Status is RankReady
	BestRank int  // Position of the player's best entry
	HasBest  bool // Player has an entry on the board
}

// BoardStatus tracks the leaderboard screen.
type BoardStatus int

const (
	BoardLoading BoardStatus = iota
	BoardReady
	BoardError
)

// Board is the leaderboard screen's data.
type Board struct {
	Status BoardStatus
	View   leaderboard.View
	Cached bool // View comes from the local cache while loading
	Err    error
}
