// Package engine defines the contract between the session and a simulation
// engine. The session treats engines as black boxes: it resets them, advances
// them by elapsed time, forwards taps and reads snapshots.
package engine

import (
	"errors"
	"fmt"
	"math"
)

// ErrMalformedSnapshot is returned by Snapshot.Validate for values no engine
// may legally report.
var ErrMalformedSnapshot = errors.New("engine: malformed snapshot")

// Engine is the simulation collaborator.
type Engine interface {
	// NewGame resets the simulation to full lives and zero score.
	NewGame()

	// Update advances the simulation by dt seconds.
	Update(dt float64)

	// State returns the current read-only snapshot.
	State() Snapshot

	// Tap applies one player action.
	Tap()
}

// Snapshot is a point-in-time view of the simulation.
// Angles are in radians; TimeAlive is in seconds.
type Snapshot struct {
	Angle     float64 `json:"angle"`
	DotAngle  float64 `json:"dot_angle"`
	Score     int     `json:"score"`
	Lives     int     `json:"lives"`
	GameOver  bool    `json:"game_over"`
	TimeAlive float64 `json:"time_alive"`
}

// Validate reports whether the snapshot can be rendered.
// A non-nil result wraps ErrMalformedSnapshot and names the offending field.
func (s Snapshot) Validate() error {
	switch {
	case !finite(s.Angle):
		return fmt.Errorf("%w: angle is %v", ErrMalformedSnapshot, s.Angle)
	case !finite(s.DotAngle):
		return fmt.Errorf("%w: dot angle is %v", ErrMalformedSnapshot, s.DotAngle)
	case !finite(s.TimeAlive) || s.TimeAlive < 0:
		return fmt.Errorf("%w: time alive is %v", ErrMalformedSnapshot, s.TimeAlive)
	case s.Score < 0:
		return fmt.Errorf("%w: score is %d", ErrMalformedSnapshot, s.Score)
	case s.Lives < 0:
		return fmt.Errorf("%w: lives is %d", ErrMalformedSnapshot, s.Lives)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
