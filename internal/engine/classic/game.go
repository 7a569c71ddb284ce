// Package classic implements the reference lockrush simulation.
// A pointer sweeps around a ring at increasing speed; a tap scores when the
// pointer is within the hit window of the target, and costs a life otherwise.
package classic

import (
	"math"
	"math/rand/v2"

	"github.com/vovakirdan/lockrush/internal/config"
	"github.com/vovakirdan/lockrush/internal/engine"
	"github.com/vovakirdan/lockrush/internal/registry"
)

const tau = 2 * math.Pi

// Game implements engine.Engine with the classic rules.
type Game struct {
	cfg       config.EngineConfig
	rng       *rand.Rand
	angle     float64 // Pointer angle, [0, tau)
	speed     float64 // Radians per second
	dotAngle  float64 // Target angle, [0, tau)
	hitWindow float64 // Max angular distance that still counts as a hit
	score     int
	lives     int
	timeAlive float64
	gameOver  bool
}

// New creates a game with the given rules. The same seed and the same calls
// always produce the same targets.
func New(cfg config.EngineConfig, seed int64) *Game {
	g := &Game{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
	}
	g.NewGame()
	return g
}

// NewGame resets the simulation to its initial state with a fresh target.
func (g *Game) NewGame() {
	g.angle = 0
	g.speed = g.cfg.Speed
	g.dotAngle = g.randAngle()
	g.hitWindow = g.cfg.HitWindow
	g.score = 0
	g.lives = g.cfg.Lives
	g.timeAlive = 0
	g.gameOver = false
}

// Update advances the pointer. Does nothing once the game is over.
func (g *Game) Update(dt float64) {
	if g.gameOver || dt <= 0 {
		return
	}

	g.timeAlive += dt
	g.angle = math.Mod(g.angle+g.speed*dt, tau)
}

// Tap scores a hit or costs a life.
func (g *Game) Tap() {
	if g.gameOver {
		return
	}

	if angularDistance(g.angle, g.dotAngle) < g.hitWindow {
		g.score++

		// Speed curve
		g.speed += g.cfg.SpeedStep + float64(g.score)*g.cfg.SpeedPerScore
		if g.speed > g.cfg.MaxSpeed {
			g.speed = g.cfg.MaxSpeed
		}

		// Shrink hit window, but never below the floor
		g.hitWindow *= g.cfg.WindowShrink
		if g.hitWindow < g.cfg.MinHitWindow {
			g.hitWindow = g.cfg.MinHitWindow
		}

		g.dotAngle = g.randAngle()
		return
	}

	if g.lives > 0 {
		g.lives--
		if g.lives == 0 {
			g.gameOver = true
		}
	}
}

// State returns the current snapshot.
func (g *Game) State() engine.Snapshot {
	return engine.Snapshot{
		Angle:     g.angle,
		DotAngle:  g.dotAngle,
		Score:     g.score,
		Lives:     g.lives,
		GameOver:  g.gameOver,
		TimeAlive: g.timeAlive,
	}
}

func (g *Game) randAngle() float64 {
	return g.rng.Float64() * tau
}

// angularDistance returns the shortest distance between two angles on the circle.
func angularDistance(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), tau)
	if d > math.Pi {
		d = tau - d
	}
	return d
}

// Register the engine with the registry
func init() {
	registry.Register(registry.DefaultEngine, "LockRush Classic", func(cfg config.EngineConfig, seed int64) engine.Engine {
		return New(cfg, seed)
	})
}
