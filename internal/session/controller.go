// Package session implements the lockrush session controller: the state
// machine that drives the simulation, feeds the presenter, routes input and
// reconciles asynchronous leaderboard results.
//
// The controller performs no I/O and never blocks. Work that needs the
// outside world is returned as Effect values; the platform performs it and
// reports back on the same goroutine that drives the controller.
package session

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lockrush/internal/config"
	"github.com/vovakirdan/lockrush/internal/engine"
	"github.com/vovakirdan/lockrush/internal/identity"
	"github.com/vovakirdan/lockrush/internal/input"
	"github.com/vovakirdan/lockrush/internal/leaderboard"
	"github.com/vovakirdan/lockrush/internal/render"
	"github.com/vovakirdan/lockrush/internal/state"
)

// StandingsCache keeps the last good leaderboard for offline display.
type StandingsCache interface {
	CachedStandings() (leaderboard.View, error)
	CacheStandings(v leaderboard.View) error
}

// Options configures a Controller. Engine and Presenter are required.
type Options struct {
	Config    config.GameConfig
	Engine    engine.Engine
	Presenter *render.Presenter
	Identity  identity.Store // Optional
	Profile   string         // Identity key, e.g. the local or SSH user name
	Cache     StandingsCache // Optional
	Viewport  render.Viewport
	Logger    *log.Logger // Optional
}

// Controller owns the session state. It is not safe for concurrent use.
type Controller struct {
	cfg        config.GameConfig
	eng        engine.Engine
	presenter  *render.Presenter
	dispatcher *input.Dispatcher
	store      identity.Store
	profile    string
	cache      StandingsCache
	logger     *log.Logger

	state  state.State
	player identity.Player

	// Frame loop
	frameGen  uint64 // Bumped whenever the loop starts or stops
	lastFrame time.Time
	hasFrame  bool
	geometry  render.Geometry
	snapshot  engine.Snapshot
	drawList  render.DrawList
	effects   render.Effects
	prevScore int
	prevLives int

	// Per run
	run            uint64
	submitted      bool
	submitResolved bool
	result         Result

	// Requests
	seq          uint64
	pendingFetch uint64
	board        Board
}

// New creates a controller. If the identity store already knows the profile,
// the session starts in preGame; otherwise it starts at the sign-in form.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	c := &Controller{
		cfg:        opts.Config,
		eng:        opts.Engine,
		presenter:  opts.Presenter,
		dispatcher: input.NewDispatcher(opts.Config.Input.Cooldown),
		store:      opts.Identity,
		profile:    opts.Profile,
		cache:      opts.Cache,
		logger:     logger,
		state:      state.Login,
	}
	c.geometry = c.presenter.Geometry(opts.Viewport)

	if c.store != nil {
		p, ok, err := c.store.Identity(c.profile)
		switch {
		case err != nil:
			c.logger.Warn("failed to load identity", "profile", c.profile, "error", err)
		case ok && p.Validate() == nil:
			c.player = p
			c.enterPreGame()
		}
	}
	return c
}

// State returns the current session state.
func (c *Controller) State() state.State { return c.state }

// Player returns the signed-in identity; zero while in login.
func (c *Controller) Player() identity.Player { return c.player }

// Snapshot returns the last snapshot read from the engine.
func (c *Controller) Snapshot() engine.Snapshot { return c.snapshot }

// DrawList returns the last rendered frame.
func (c *Controller) DrawList() render.DrawList { return c.drawList }

// Effects returns the current feedback magnitudes.
func (c *Controller) Effects() render.Effects { return c.effects }

// Geometry returns the current surface layout.
func (c *Controller) Geometry() render.Geometry { return c.geometry }

// Result returns the finished run's outcome. Meaningful from gameOver on.
func (c *Controller) Result() Result { return c.result }

// Board returns the leaderboard screen's data.
func (c *Controller) Board() Board { return c.board }

// Run returns the number of runs started in this session.
func (c *Controller) Run() uint64 { return c.run }

// SubmitIdentity validates the sign-in form and moves to preGame.
// Invalid input leaves the state unchanged.
func (c *Controller) SubmitIdentity(name, email string) error {
	if c.state != state.Login {
		return nil
	}

	p, err := identity.New(name, email)
	if err != nil {
		return err
	}

	c.player = p
	if c.store != nil {
		if err := c.store.SaveIdentity(c.profile, p); err != nil {
			c.logger.Warn("failed to save identity", "profile", c.profile, "error", err)
		}
	}
	c.logger.Info("player signed in", "name", p.Name)

	c.enterPreGame()
	return nil
}

// HandleInput routes one input event.
func (c *Controller) HandleInput(ev input.Event, now time.Time) []Effect {
	switch c.dispatcher.Dispatch(c.state, ev, now) {
	case input.StartGame:
		return c.enterPlaying()
	case input.Tap:
		c.eng.Tap()
	case input.Replay:
		c.resetRun()
		return c.enterPlaying()
	case input.ShowLeaderboard:
		return c.enterLeaderboard()
	case input.Back:
		return c.enterGameOver()
	}
	return nil
}

// Tick runs one frame step. Ticks scheduled for an earlier loop generation,
// or arriving outside playing, do nothing.
func (c *Controller) Tick(gen uint64, now time.Time) []Effect {
	if gen != c.frameGen || c.state != state.Playing {
		return nil
	}

	var dt time.Duration
	if c.hasFrame {
		dt = now.Sub(c.lastFrame)
		if dt < 0 {
			dt = 0
		}
		if limit := c.cfg.Session.MaxFrameDelta; limit > 0 && dt > limit {
			dt = limit
		}
	}
	c.lastFrame, c.hasFrame = now, true

	c.eng.Update(dt.Seconds())
	s := c.readSnapshot()

	triggers := render.Triggers{
		ScoreIncreased: s.Score > c.prevScore,
		LifeLost:       s.Lives < c.prevLives,
	}
	c.prevScore, c.prevLives = s.Score, s.Lives
	c.drawList = c.presenter.Render(s, &c.effects, c.geometry, triggers)

	if s.GameOver {
		return c.enterGameOver()
	}
	return []Effect{ScheduleFrame{Gen: c.frameGen}}
}

// Resize re-derives geometry for a new viewport without touching session state.
func (c *Controller) Resize(v render.Viewport) {
	c.geometry = c.presenter.Geometry(v)
	if c.state != state.Playing && c.state != state.Login {
		c.drawList = c.presenter.Render(c.snapshot, &c.effects, c.geometry, render.Triggers{})
	}
}

// SubmitResolved reports the outcome of a SubmitScore effect. Failures are
// logged and otherwise ignored. Once the submission settles, the rank fetch
// for the game over screen is issued.
func (c *Controller) SubmitResolved(t Ticket, err error) []Effect {
	if t.Run != c.run || !c.submitted || c.submitResolved {
		return nil
	}
	c.submitResolved = true

	if err != nil {
		c.logger.Debug("score submission failed", "run", t.Run, "error", err)
	} else {
		c.logger.Debug("score submitted", "run", t.Run, "score", c.result.Final.Score)
	}

	if c.state == state.GameOver {
		return []Effect{c.fetch()}
	}
	return nil
}

// BoardResolved reports the outcome of a FetchBoard effect. Responses whose
// ticket no longer matches the current request, state or run are dropped.
func (c *Controller) BoardResolved(t Ticket, v leaderboard.View, err error) {
	if t.Seq != c.pendingFetch || t.State != c.state || t.Run != c.run {
		c.logger.Debug("discarding stale leaderboard response", "seq", t.Seq, "state", t.State)
		return
	}
	c.pendingFetch = 0

	if err == nil {
		c.saveStandings(v)
	} else {
		c.logger.Warn("leaderboard fetch failed", "state", t.State, "error", err)
	}

	switch c.state {
	case state.GameOver:
		if err != nil {
			c.result.Status = RankUnavailable
			return
		}
		c.result.Status = RankReady
		c.result.Rank = leaderboard.Rank(v, c.result.Final.Score, c.result.Final.TimeAlive)
		c.result.BestRank, c.result.HasBest = leaderboard.BestRank(v, c.player.Email)

	case state.Leaderboard:
		if err != nil {
			c.board = Board{Status: BoardError, Err: err}
			return
		}
		c.board = Board{Status: BoardReady, View: v}
	}
}

func (c *Controller) enterPreGame() {
	c.eng.NewGame()
	c.resetRunState()
	c.state = state.PreGame
	c.drawList = c.presenter.Render(c.snapshot, &c.effects, c.geometry, render.Triggers{})
}

func (c *Controller) enterPlaying() []Effect {
	c.state = state.Playing
	c.frameGen++
	c.hasFrame = false
	c.run++
	c.logger.Debug("run started", "run", c.run)
	return []Effect{ScheduleFrame{Gen: c.frameGen}}
}

// enterGameOver handles both the end of a run and returning from the
// leaderboard. The score is submitted only on the first entry per run.
func (c *Controller) enterGameOver() []Effect {
	if c.state == state.Playing {
		c.frameGen++
	}
	c.state = state.GameOver

	if !c.submitted {
		c.submitted = true
		c.result = Result{Final: c.snapshot, Status: RankPending}
		c.logger.Info("run finished", "run", c.run, "score", c.snapshot.Score, "time", c.snapshot.TimeAlive)
		return []Effect{SubmitScore{
			Ticket: c.ticket(),
			Record: leaderboard.NewRecord(c.player, c.snapshot),
		}}
	}

	if c.submitResolved {
		return []Effect{c.fetch()}
	}
	return nil
}

func (c *Controller) enterLeaderboard() []Effect {
	c.state = state.Leaderboard
	c.board = Board{Status: BoardLoading}
	if v, ok := c.cachedStandings(); ok {
		c.board.View, c.board.Cached = v, true
	}
	return []Effect{c.fetch()}
}

// resetRun prepares a new simulation for a replay.
func (c *Controller) resetRun() {
	c.eng.NewGame()
	c.resetRunState()
}

func (c *Controller) resetRunState() {
	c.effects.Reset()
	c.submitted = false
	c.submitResolved = false
	c.result = Result{}
	c.pendingFetch = 0
	c.snapshot = c.readSnapshot()
	c.prevScore, c.prevLives = c.snapshot.Score, c.snapshot.Lives
}

func (c *Controller) ticket() Ticket {
	c.seq++
	return Ticket{Seq: c.seq, Run: c.run, State: c.state}
}

func (c *Controller) fetch() Effect {
	t := c.ticket()
	c.pendingFetch = t.Seq
	return FetchBoard{Ticket: t}
}

// readSnapshot reads and checks the engine state. A malformed snapshot is a
// broken engine, so the controller stops instead of drawing it.
func (c *Controller) readSnapshot() engine.Snapshot {
	s := c.eng.State()
	if err := s.Validate(); err != nil {
		panic(fmt.Sprintf("session: engine returned %+v: %v", s, err))
	}
	c.snapshot = s
	return s
}

func (c *Controller) cachedStandings() (leaderboard.View, bool) {
	if c.cache == nil {
		return nil, false
	}
	v, err := c.cache.CachedStandings()
	if err != nil {
		c.logger.Warn("failed to read cached standings", "error", err)
		return nil, false
	}
	return v, len(v) > 0
}

func (c *Controller) saveStandings(v leaderboard.View) {
	if c.cache == nil {
		return
	}
	if err := c.cache.CacheStandings(v.Top(c.cfg.Leaderboard.CacheSize)); err != nil {
		c.logger.Warn("failed to cache standings", "error", err)
	}
}
