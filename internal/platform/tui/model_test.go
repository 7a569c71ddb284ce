package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lockrush/internal/config"
	"github.com/vovakirdan/lockrush/internal/core"
	"github.com/vovakirdan/lockrush/internal/engine"
	"github.com/vovakirdan/lockrush/internal/identity"
	"github.com/vovakirdan/lockrush/internal/leaderboard"
	"github.com/vovakirdan/lockrush/internal/session"
	"github.com/vovakirdan/lockrush/internal/state"
)

type stubEngine struct {
	snap engine.Snapshot
	taps int
}

func (e *stubEngine) NewGame()               { e.snap = engine.Snapshot{Lives: 3} }
func (e *stubEngine) Update(dt float64)      { e.snap.TimeAlive += dt }
func (e *stubEngine) Tap()                   { e.taps++ }
func (e *stubEngine) State() engine.Snapshot { return e.snap }

func (e *stubEngine) finish(score int) {
	e.snap.Score = score
	e.snap.Lives = 0
	e.snap.GameOver = true
}

type stubService struct {
	submitted []leaderboard.Record
	view      leaderboard.View
	err       error
}

func (s *stubService) Submit(_ context.Context, r leaderboard.Record) error {
	s.submitted = append(s.submitted, r)
	return s.err
}

func (s *stubService) Fetch(context.Context) (leaderboard.View, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.view, nil
}

type runLog struct {
	runs []leaderboard.Record
}

func (l *runLog) SaveRun(r leaderboard.Record) (int64, error) {
	l.runs = append(l.runs, r)
	return int64(len(l.runs)), nil
}

var ada = identity.Player{Name: "Ada", Email: "ada@example.com"}

func newTestModel(t *testing.T, svc leaderboard.Service, signedIn bool) (Model, *stubEngine, *identity.MemoryStore, *runLog) {
	t.Helper()

	ids := identity.NewMemoryStore()
	if signedIn {
		if err := ids.SaveIdentity("local", ada); err != nil {
			t.Fatal(err)
		}
	}
	eng := &stubEngine{}
	eng.NewGame()
	history := &runLog{}

	opts := Options{
		Config:   config.DefaultGameConfig(),
		Runtime:  core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 240, Seed: 1},
		Engine:   eng,
		Service:  svc,
		Identity: ids,
		History:  history,
		Profile:  "local",
	}
	return NewModel(opts), eng, ids, history
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, expected Model", next)
	}
	return nm, cmd
}

// drain runs a command and any batched commands, collecting their messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// settle feeds command results back into the model until no work remains,
// skipping frames so a test controls when the simulation advances.
func settle(t *testing.T, m Model, cmd tea.Cmd) (Model, []FrameMsg) {
	t.Helper()
	var frames []FrameMsg
	queue := drain(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		switch msg := msg.(type) {
		case FrameMsg:
			frames = append(frames, msg)
			continue
		case SubmitDoneMsg, BoardMsg:
			var next tea.Cmd
			m, next = send(t, m, msg)
			queue = append(queue, drain(next)...)
		}
	}
	return m, frames
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestModelSignIn(t *testing.T) {
	m, _, ids, _ := newTestModel(t, nil, false)
	if got := m.Controller().State(); got != state.Login {
		t.Fatalf("state = %v, expected login", got)
	}

	m, _ = send(t, m, keyRunes("Ada"))
	m, _ = send(t, m, keyTab)
	m, _ = send(t, m, keyRunes("ada@example.com"))
	m, _ = send(t, m, keyEnter)

	if got := m.Controller().State(); got != state.PreGame {
		t.Fatalf("state = %v, expected preGame", got)
	}
	if p, ok, _ := ids.Identity("local"); !ok || p != ada {
		t.Errorf("stored identity = %+v, %v", p, ok)
	}
}

func TestModelSignInRejectsInvalid(t *testing.T) {
	m, _, _, _ := newTestModel(t, nil, false)

	m, _ = send(t, m, keyRunes("Ada"))
	m, _ = send(t, m, keyTab)
	m, _ = send(t, m, keyRunes("not-an-email"))
	m, _ = send(t, m, keyEnter)

	if got := m.Controller().State(); got != state.Login {
		t.Fatalf("state = %v, expected login", got)
	}
	if view := m.View(); !strings.Contains(view, identity.ErrEmailInvalid.Error()) {
		t.Errorf("view should show the validation error, got:\n%s", view)
	}
}

func TestModelStoredIdentitySkipsLogin(t *testing.T) {
	m, _, _, _ := newTestModel(t, nil, true)
	if got := m.Controller().State(); got != state.PreGame {
		t.Fatalf("state = %v, expected preGame", got)
	}
	if view := m.View(); !strings.Contains(view, "Ready, Ada?") {
		t.Errorf("preGame view should greet the player, got:\n%s", view)
	}
}

func TestModelRunSubmitsAndRanks(t *testing.T) {
	svc := &stubService{view: leaderboard.View{
		{Name: "B", Email: "b@x", Score: 10, Time: 3},
		{Name: "Ada", Email: ada.Email, Score: 7, Time: 2},
	}}
	m, eng, _, history := newTestModel(t, svc, true)

	m, cmd := send(t, m, keySpace)
	if got := m.Controller().State(); got != state.Playing {
		t.Fatalf("state = %v, expected playing", got)
	}
	if eng.taps != 0 {
		t.Error("the start tap should not reach the engine")
	}

	m, frames := settle(t, m, cmd)
	if len(frames) != 1 {
		t.Fatalf("expected one scheduled frame, got %d", len(frames))
	}

	eng.finish(5)
	m, cmd = send(t, m, frames[0])
	if got := m.Controller().State(); got != state.GameOver {
		t.Fatalf("state = %v, expected gameOver", got)
	}
	m, _ = settle(t, m, cmd)

	if len(svc.submitted) != 1 || svc.submitted[0].Score != 5 || svc.submitted[0].Email != ada.Email {
		t.Fatalf("submitted = %+v", svc.submitted)
	}
	if len(history.runs) != 1 {
		t.Errorf("run history has %d entries, expected 1", len(history.runs))
	}

	r := m.Controller().Result()
	if r.Status != session.RankReady || r.Rank != 3 || !r.HasBest || r.BestRank != 2 {
		t.Errorf("result = %+v, expected rank 3 and best 2", r)
	}
	if view := m.View(); !strings.Contains(view, "rank #3") || !strings.Contains(view, "best #2") {
		t.Errorf("game over view should show ranks, got:\n%s", view)
	}
}

func TestModelOfflineRankUnavailable(t *testing.T) {
	m, eng, _, _ := newTestModel(t, nil, true)

	m, cmd := send(t, m, keySpace)
	m, frames := settle(t, m, cmd)
	eng.finish(2)
	m, cmd = send(t, m, frames[0])
	m, _ = settle(t, m, cmd)

	if got := m.Controller().Result().Status; got != session.RankUnavailable {
		t.Errorf("status = %v, expected unavailable", got)
	}
	if view := m.View(); !strings.Contains(view, "rank unavailable") {
		t.Errorf("view should report the missing rank, got:\n%s", view)
	}
}

func TestModelLeaderboardRoundTrip(t *testing.T) {
	svc := &stubService{view: leaderboard.View{{Name: "Ada", Email: ada.Email, Score: 4, Time: 1}}}
	m, eng, _, _ := newTestModel(t, svc, true)

	m, cmd := send(t, m, keySpace)
	m, frames := settle(t, m, cmd)
	eng.finish(4)
	m, cmd = send(t, m, frames[0])
	m, _ = settle(t, m, cmd)

	m, cmd = send(t, m, keyRunes("l"))
	if got := m.Controller().State(); got != state.Leaderboard {
		t.Fatalf("state = %v, expected leaderboard", got)
	}
	m, _ = settle(t, m, cmd)
	if got := m.Controller().Board().Status; got != session.BoardReady {
		t.Fatalf("board status = %v, expected ready", got)
	}
	if view := m.View(); !strings.Contains(view, "> Ada") {
		t.Errorf("leaderboard should mark the player, got:\n%s", view)
	}

	m, cmd = send(t, m, keyEsc)
	if got := m.Controller().State(); got != state.GameOver {
		t.Fatalf("state = %v, expected gameOver", got)
	}
	m, _ = settle(t, m, cmd)
	if len(svc.submitted) != 1 {
		t.Errorf("returning from the leaderboard resubmitted: %d submissions", len(svc.submitted))
	}
}

func TestModelLeaderboardError(t *testing.T) {
	svc := &stubService{err: errors.New("down")}
	m, eng, _, _ := newTestModel(t, svc, true)

	m, cmd := send(t, m, keySpace)
	m, frames := settle(t, m, cmd)
	eng.finish(1)
	m, cmd = send(t, m, frames[0])
	m, _ = settle(t, m, cmd)

	m, cmd = send(t, m, keyRunes("l"))
	m, _ = settle(t, m, cmd)
	if view := m.View(); !strings.Contains(view, "Error loading leaderboard") {
		t.Errorf("view should show the load error, got:\n%s", view)
	}
}

func TestModelMouse(t *testing.T) {
	m, _, _, _ := newTestModel(t, nil, true)

	m, _ = send(t, m, tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if got := m.Controller().State(); got != state.PreGame {
		t.Fatalf("a release should not start the game, state = %v", got)
	}

	m, _ = send(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	if got := m.Controller().State(); got != state.PreGame {
		t.Fatalf("a right click should not start the game, state = %v", got)
	}

	m, _ = send(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := m.Controller().State(); got != state.Playing {
		t.Errorf("a left press should start the game, state = %v", got)
	}
}

func TestModelResize(t *testing.T) {
	m, _, _, _ := newTestModel(t, nil, true)
	before := m.Controller().Geometry()

	m, _ = send(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})

	if got := m.Controller().State(); got != state.PreGame {
		t.Errorf("resize changed state to %v", got)
	}
	if after := m.Controller().Geometry(); after.Size <= before.Size {
		t.Errorf("geometry size %v should grow past %v", after.Size, before.Size)
	}
	if m.screen.Width() != 160 || m.screen.Height() != 50-chromeRows {
		t.Errorf("screen = %dx%d", m.screen.Width(), m.screen.Height())
	}
}

func TestModelQuit(t *testing.T) {
	m, _, _, _ := newTestModel(t, nil, true)

	m, cmd := send(t, m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit should return tea.Quit")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}
