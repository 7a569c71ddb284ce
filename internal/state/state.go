// Package state defines the session states shared by the controller and the
// input dispatcher.
package state

// State is the session's finite-state-machine value.
type State int

const (
	Login State = iota
	PreGame
	Playing
	GameOver
	Leaderboard
)

func (s State) String() string {
	switch s {
	case Login:
		return "login"
	case PreGame:
		return "preGame"
	case Playing:
		return "playing"
	case GameOver:
		return "gameOver"
	case Leaderboard:
		return "leaderboard"
	default:
		return "unknown"
	}
}

// AcceptsTap reports whether tap input has any effect in s.
func (s State) AcceptsTap() bool {
	switch s {
	case PreGame, Playing, GameOver:
		return true
	default:
		return false
	}
}
