package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lockrush/internal/config"
	"github.com/vovakirdan/lockrush/internal/core"
	"github.com/vovakirdan/lockrush/internal/engine"
	"github.com/vovakirdan/lockrush/internal/identity"
	"github.com/vovakirdan/lockrush/internal/input"
	"github.com/vovakirdan/lockrush/internal/leaderboard"
	"github.com/vovakirdan/lockrush/internal/render"
	"github.com/vovakirdan/lockrush/internal/session"
	"github.com/vovakirdan/lockrush/internal/state"
)

// chromeRows is the number of terminal rows below the play surface
// (status line and help).
const chromeRows = 2

// RunRecorder keeps a local history of finished runs.
type RunRecorder interface {
	SaveRun(r leaderboard.Record) (int64, error)
}

// Options configures a session model.
type Options struct {
	Config   config.GameConfig
	Runtime  core.RuntimeConfig
	Engine   engine.Engine
	Service  leaderboard.Service    // Optional; nil plays offline
	Identity identity.Store         // Optional
	Cache    session.StandingsCache // Optional
	History  RunRecorder            // Optional
	Profile  string
	Logger   *log.Logger
}

// Model is the Bubble Tea model for one lockrush session.
// All controller calls happen inside Update, so results from network
// commands are applied on the same goroutine as frames and input.
type Model struct {
	ctrl     *session.Controller
	screen   *core.Screen
	cfg      config.GameConfig
	runtime  core.RuntimeConfig
	service  leaderboard.Service
	history  RunRecorder
	logger   *log.Logger
	keys     KeyMap
	help     help.Model
	form     loginForm
	board    boardView
	notice   string
	quitting bool
}

// NewModel creates a session model sized to the runtime config.
func NewModel(opts Options) Model {
	rt := opts.Runtime.WithDefaults()
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	surfaceH := max(rt.ScreenH-chromeRows, 1)
	ctrl := session.New(session.Options{
		Config:    opts.Config,
		Engine:    opts.Engine,
		Presenter: render.NewPresenter(opts.Config.Presentation, opts.Config.Feedback, rt.Seed),
		Identity:  opts.Identity,
		Profile:   opts.Profile,
		Cache:     opts.Cache,
		Viewport:  render.TerminalViewport(rt.ScreenW, surfaceH, opts.Config.Presentation.CellAspect),
		Logger:    logger,
	})

	h := help.New()
	h.ShowAll = false
	h.Width = rt.ScreenW

	return Model{
		ctrl:    ctrl,
		screen:  core.NewScreen(rt.ScreenW, surfaceH),
		cfg:     opts.Config,
		runtime: rt,
		service: opts.Service,
		history: opts.History,
		logger:  logger,
		keys:    DefaultKeyMap(),
		help:    h,
		form:    newLoginForm(),
		board:   newBoardView(rt.ScreenW, rt.ScreenH),
	}
}

// Controller exposes the session controller, mainly for tests.
func (m Model) Controller() *session.Controller {
	return m.ctrl
}

// Init starts the cursor blink for the sign-in form.
func (m Model) Init() tea.Cmd {
	if m.ctrl.State() == state.Login {
		return textinput.Blink
	}
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case FrameMsg:
		return m, m.perform(m.ctrl.Tick(msg.Gen, msg.At))

	case SubmitDoneMsg:
		return m, m.perform(m.ctrl.SubmitResolved(msg.Ticket, msg.Err))

	case BoardMsg:
		m.ctrl.BoardResolved(msg.Ticket, msg.View, msg.Err)
		m.board = m.board.SetBoard(m.ctrl.Board(), m.ctrl.Player().Email)
		return m, nil
	}

	if m.ctrl.State() == state.Login {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg, m.keys)
		return m, cmd
	}
	return m, nil
}

// handleResize re-derives geometry without touching the session.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.runtime.ScreenW = msg.Width
	m.runtime.ScreenH = msg.Height

	surfaceH := max(msg.Height-chromeRows, 1)
	m.screen.Resize(msg.Width, surfaceH)
	m.ctrl.Resize(render.TerminalViewport(msg.Width, surfaceH, m.cfg.Presentation.CellAspect))
	m.board = m.board.Resize(msg.Width, msg.Height)
	m.help.Width = msg.Width
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl.State() == state.Login {
		return m.handleLoginKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Screenshot):
		m.notice = m.saveScreenshot()
		return m, nil
	}

	if m.ctrl.State() == state.Leaderboard && (key.Matches(msg, m.keys.Up) || key.Matches(msg, m.keys.Down)) {
		var cmd tea.Cmd
		m.board, cmd = m.board.Update(msg)
		return m, cmd
	}

	k := m.keys.Resolve(msg)
	if k == input.KeyNone {
		return m, nil
	}
	m.notice = ""
	effects := m.ctrl.HandleInput(input.Event{Source: input.KeyPress, Key: k}, time.Now())

	// Show the cached standings while the fetch is in flight
	if m.ctrl.State() == state.Leaderboard {
		m.board = m.board.SetBoard(m.ctrl.Board(), m.ctrl.Player().Email)
	}
	return m, m.perform(effects)
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		name, email := m.form.Values()
		if err := m.ctrl.SubmitIdentity(name, email); err != nil {
			m.form.SetError(err)
			return m, nil
		}
		m.form.SetError(nil)
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg, m.keys)
	return m, cmd
}

// handleMouse maps a left button press to a pointer-down tap.
// Release is not mapped: a terminal click already arrives as a press.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	return m, m.perform(m.ctrl.HandleInput(input.Event{Source: input.PointerDown}, time.Now()))
}

// perform turns controller effects into Bubble Tea commands.
func (m Model) perform(effects []session.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case session.ScheduleFrame:
			cmds = append(cmds, frameCmd(e.Gen, m.runtime.TickRate))
		case session.SubmitScore:
			m.recordRun(e.Record)
			cmds = append(cmds, submitCmd(m.service, e, m.cfg.Leaderboard.Timeout))
		case session.FetchBoard:
			cmds = append(cmds, fetchCmd(m.service, e, m.cfg.Leaderboard.Timeout))
		}
	}
	return tea.Batch(cmds...)
}

func (m Model) recordRun(r leaderboard.Record) {
	if m.history == nil {
		return
	}
	if _, err := m.history.SaveRun(r); err != nil {
		m.logger.Warn("failed to record run locally", "error", err)
	}
}

// saveScreenshot saves the current surface to a file and returns a notice.
func (m Model) saveScreenshot() string {
	render.Rasterize(m.ctrl.DrawList(), m.screen, m.cfg.Presentation.CellAspect)

	home, err := os.UserHomeDir()
	if err != nil {
		return "screenshot failed"
	}
	dir := filepath.Join(home, ".lockrush", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "screenshot failed"
	}

	path := filepath.Join(dir, fmt.Sprintf("lockrush_%s.txt", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "screenshot failed"
	}
	return "saved " + path
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.ctrl.State()
	helpLine := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(m.help.View(m.keys.ForState(s)))

	switch s {
	case state.Login:
		top := max((m.runtime.ScreenH-12)/2, 0)
		return strings.Repeat("\n", top) + m.form.View(m.runtime.ScreenW) + "\n\n" + center(helpLine, m.runtime.ScreenW)
	case state.Leaderboard:
		return m.board.View(m.ctrl.Board()) + "\n" + helpLine
	}

	render.Rasterize(m.ctrl.DrawList(), m.screen, m.cfg.Presentation.CellAspect)
	return RenderScreen(m.screen) + "\n" + m.statusLine() + "\n" + helpLine
}

// statusLine describes the session below the play surface.
func (m Model) statusLine() string {
	accent := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	if m.notice != "" {
		return dim.Render(m.notice)
	}

	snap := m.ctrl.Snapshot()
	switch m.ctrl.State() {
	case state.PreGame:
		return accent.Render(fmt.Sprintf("Ready, %s?", m.ctrl.Player().Name)) + dim.Render("  stop the pointer on the green arc")
	case state.Playing:
		return dim.Render(fmt.Sprintf("score %d  lives %d  %.1fs", snap.Score, snap.Lives, snap.TimeAlive))
	case state.GameOver:
		return accent.Render("GAME OVER") + "  " + resultText(m.ctrl.Result())
	}
	return ""
}

func resultText(r session.Result) string {
	text := fmt.Sprintf("score %d in %.2fs", r.Final.Score, r.Final.TimeAlive)
	switch r.Status {
	case session.RankPending:
		return text + "  ranking..."
	case session.RankUnavailable:
		return text + "  rank unavailable"
	}

	text += fmt.Sprintf("  rank #%d", r.Rank)
	if r.HasBest {
		text += fmt.Sprintf("  best #%d", r.BestRank)
	}
	return text
}

// Run starts the Bubble Tea program with the given options.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
