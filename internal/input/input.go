// Package input normalizes pointer, touch and key events into semantic
// actions and routes them by session state.
package input

import (
	"time"

	"github.com/vovakirdan/lockrush/internal/state"
)

// Source is where an event came from.
type Source int

const (
	PointerDown Source = iota
	Click
	TouchStart
	KeyPress
)

// Key is a designated key, already resolved from the platform's key binding.
type Key int

const (
	KeyNone Key = iota
	KeyAction
	KeyLeaderboard
	KeyBack
)

// Event is one raw input event.
type Event struct {
	Source Source
	Key    Key // Only for KeyPress
}

// Decision is what the session should do with an event.
type Decision int

const (
	Ignore Decision = iota
	StartGame
	Tap
	Replay
	ShowLeaderboard
	Back
)

func (d Decision) String() string {
	switch d {
	case Ignore:
		return "ignore"
	case StartGame:
		return "start"
	case Tap:
		return "tap"
	case Replay:
		return "replay"
	case ShowLeaderboard:
		return "leaderboard"
	case Back:
		return "back"
	default:
		return "unknown"
	}
}

// isTap reports whether the event is a tap-equivalent.
func (e Event) isTap() bool {
	switch e.Source {
	case PointerDown, Click, TouchStart:
		return true
	case KeyPress:
		return e.Key == KeyAction
	}
	return false
}

// Dispatcher debounces taps and routes events by state.
// It is not safe for concurrent use; the session owns it.
type Dispatcher struct {
	cooldown time.Duration
	lastTap  time.Time
	tapped   bool
}

// NewDispatcher creates a dispatcher that rejects taps arriving within
// cooldown of the last accepted one.
func NewDispatcher(cooldown time.Duration) *Dispatcher {
	return &Dispatcher{cooldown: cooldown}
}

// Dispatch decides what an event means in the given state.
// Only accepted taps start a new cooldown window; taps ignored because of the
// state do not.
func (d *Dispatcher) Dispatch(s state.State, ev Event, now time.Time) Decision {
	if ev.isTap() {
		if !s.AcceptsTap() || !d.accept(now) {
			return Ignore
		}
		switch s {
		case state.PreGame:
			return StartGame
		case state.Playing:
			return Tap
		case state.GameOver:
			return Replay
		}
		return Ignore
	}

	if ev.Source != KeyPress {
		return Ignore
	}
	switch {
	case ev.Key == KeyLeaderboard && s == state.GameOver:
		return ShowLeaderboard
	case ev.Key == KeyBack && s == state.Leaderboard:
		return Back
	}
	return Ignore
}

// accept applies the cooldown and records the tap when it passes.
func (d *Dispatcher) accept(now time.Time) bool {
	if d.tapped && now.Sub(d.lastTap) < d.cooldown {
		return false
	}
	d.tapped = true
	d.lastTap = now
	return true
}
