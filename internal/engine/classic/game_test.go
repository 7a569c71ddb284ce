package classic

import (
	"math"
	"testing"

	"github.com/vovakirdan/lockrush/internal/config"
	"github.com/vovakirdan/lockrush/internal/engine"
	"github.com/vovakirdan/lockrush/internal/registry"
)

func newTestGame(seed int64) *Game {
	return New(config.DefaultGameConfig().Engine, seed)
}

// aim puts the pointer exactly on the target.
func aim(g *Game) {
	g.angle = g.dotAngle
}

// miss puts the pointer opposite the target.
func miss(g *Game) {
	g.angle = math.Mod(g.dotAngle+math.Pi, tau)
}

func TestNewGameInitialState(t *testing.T) {
	g := newTestGame(1)
	s := g.State()

	if s.Score != 0 || s.Lives != 3 || s.GameOver || s.TimeAlive != 0 || s.Angle != 0 {
		t.Errorf("unexpected initial snapshot: %+v", s)
	}
	if s.DotAngle < 0 || s.DotAngle >= tau {
		t.Errorf("DotAngle = %v, expected in [0, 2π)", s.DotAngle)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("initial snapshot should be valid: %v", err)
	}
}

func TestUpdateAdvancesAndWraps(t *testing.T) {
	g := newTestGame(1)

	g.Update(1.0)
	s := g.State()
	if math.Abs(s.Angle-2.5) > 1e-9 {
		t.Errorf("Angle after 1s = %v, expected 2.5", s.Angle)
	}
	if math.Abs(s.TimeAlive-1.0) > 1e-9 {
		t.Errorf("TimeAlive = %v, expected 1", s.TimeAlive)
	}

	g.Update(2.0) // 7.5 total, wraps past 2π
	s = g.State()
	if s.Angle < 0 || s.Angle >= tau {
		t.Errorf("Angle = %v should stay in [0, 2π)", s.Angle)
	}
	if math.Abs(s.Angle-(7.5-tau)) > 1e-9 {
		t.Errorf("Angle = %v, expected %v", s.Angle, 7.5-tau)
	}

	// Non-positive dt is ignored
	g.Update(-1)
	if g.State().TimeAlive != s.TimeAlive {
		t.Error("negative dt should not change the simulation")
	}
}

func TestTapHitScoresAndSpeedsUp(t *testing.T) {
	g := newTestGame(7)
	oldTarget := g.dotAngle

	aim(g)
	g.Tap()

	if g.score != 1 {
		t.Fatalf("score = %d, expected 1", g.score)
	}
	if want := 2.5 + 0.08 + 0.0002; math.Abs(g.speed-want) > 1e-9 {
		t.Errorf("speed = %v, expected %v", g.speed, want)
	}
	if want := 0.25 * 0.97; math.Abs(g.hitWindow-want) > 1e-9 {
		t.Errorf("hitWindow = %v, expected %v", g.hitWindow, want)
	}
	if g.dotAngle == oldTarget {
		t.Error("target should move after a hit")
	}
	if g.lives != 3 {
		t.Errorf("a hit should not cost lives, got %d", g.lives)
	}
}

func TestTapHitAcrossZero(t *testing.T) {
	g := newTestGame(3)
	g.dotAngle = tau - 0.05
	g.angle = 0.05

	g.Tap()
	if g.score != 1 {
		t.Error("pointer just past zero should hit a target just before 2π")
	}
}

func TestSpeedAndWindowClamp(t *testing.T) {
	g := newTestGame(9)
	for i := 0; i < 500; i++ {
		aim(g)
		g.Tap()
	}

	if g.speed != g.cfg.MaxSpeed {
		t.Errorf("speed = %v, expected cap %v", g.speed, g.cfg.MaxSpeed)
	}
	if g.hitWindow != g.cfg.MinHitWindow {
		t.Errorf("hitWindow = %v, expected floor %v", g.hitWindow, g.cfg.MinHitWindow)
	}
}

func TestMissesEndTheGame(t *testing.T) {
	g := newTestGame(5)

	for i := 0; i < 3; i++ {
		if g.State().GameOver {
			t.Fatalf("game over after only %d misses", i)
		}
		miss(g)
		g.Tap()
	}

	s := g.State()
	if !s.GameOver || s.Lives != 0 {
		t.Fatalf("expected game over with 0 lives, got %+v", s)
	}

	// Game over is sticky until NewGame
	g.Update(1)
	aim(g)
	g.Tap()
	if s2 := g.State(); !s2.GameOver || s2.Score != 0 || s2.TimeAlive != s.TimeAlive {
		t.Errorf("game over state changed: %+v", s2)
	}

	g.NewGame()
	if s3 := g.State(); s3.GameOver || s3.Lives != 3 {
		t.Errorf("NewGame should reset, got %+v", s3)
	}
}

func TestDeterminism(t *testing.T) {
	run := func() engine.Snapshot {
		g := newTestGame(12345)
		for i := 0; i < 200; i++ {
			g.Update(1.0 / 60)
			if i%17 == 0 {
				g.Tap()
			}
		}
		return g.State()
	}

	if a, b := run(), run(); a != b {
		t.Errorf("same seed and inputs produced different snapshots:\n%+v\n%+v", a, b)
	}
}

func TestRegistered(t *testing.T) {
	if !registry.Exists(registry.DefaultEngine) {
		t.Fatal("classic engine should register itself")
	}
	e, err := registry.Create(registry.DefaultEngine, config.DefaultGameConfig().Engine, 1)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if e.State().Lives != 3 {
		t.Errorf("created engine not initialized: %+v", e.State())
	}
}
