// Package tui provides the Bubble Tea platform for lockrush.
// It drives the session controller from the terminal: frame clock, input
// mapping, network calls and drawing.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lockrush/internal/leaderboard"
	"github.com/vovakirdan/lockrush/internal/session"
)

// ErrOffline is reported for leaderboard calls when no service is configured.
var ErrOffline = errors.New("leaderboard service not configured")

// FrameMsg is sent to run one frame step for loop generation Gen.
type FrameMsg struct {
	Gen uint64
	At  time.Time
}

// SubmitDoneMsg reports a finished score submission.
type SubmitDoneMsg struct {
	Ticket session.Ticket
	Err    error
}

// BoardMsg reports a finished leaderboard fetch.
type BoardMsg struct {
	Ticket session.Ticket
	View   leaderboard.View
	Err    error
}

// frameCmd returns a Bubble Tea command that sends the next frame message at the given rate.
func frameCmd(gen uint64, fps int) tea.Cmd {
	if fps <= 0 {
		fps = 60
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return FrameMsg{Gen: gen, At: t}
	})
}

// submitCmd posts a score off the UI goroutine. The result comes back as a message.
func submitCmd(svc leaderboard.Service, e session.SubmitScore, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if svc == nil {
			return SubmitDoneMsg{Ticket: e.Ticket, Err: ErrOffline}
		}
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		return SubmitDoneMsg{Ticket: e.Ticket, Err: svc.Submit(ctx, e.Record)}
	}
}

// fetchCmd loads the leaderboard off the UI goroutine.
func fetchCmd(svc leaderboard.Service, e session.FetchBoard, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		if svc == nil {
			return BoardMsg{Ticket: e.Ticket, Err: ErrOffline}
		}
		ctx, cancel := withTimeout(timeout)
		defer cancel()
		view, err := svc.Fetch(ctx)
		return BoardMsg{Ticket: e.Ticket, View: view, Err: err}
	}
}

func withTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
