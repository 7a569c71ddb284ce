package session

import (
	"github.com/vovakirdan/lockrush/internal/leaderboard"
	"github.com/vovakirdan/lockrush/internal/state"
)

// Effect is work the controller asks the platform to perform. Results come
// back through Tick, SubmitResolved and BoardResolved.
type Effect interface {
	effect()
}

// Ticket identifies an asynchronous request and the context that issued it.
type Ticket struct {
	Seq   uint64
	Run   uint64
	State state.State
}

// ScheduleFrame asks for Tick(Gen, now) on the next frame.
type ScheduleFrame struct {
	Gen uint64
}

// SubmitScore asks for the record to be posted to the leaderboard.
type SubmitScore struct {
	Ticket Ticket
	Record leaderboard.Record
}

// FetchBoard asks for the current leaderboard.
type FetchBoard struct {
	Ticket Ticket
}

func (ScheduleFrame) effect() {}
func (SubmitScore) effect()   {}
func (FetchBoard) effect()    {}
