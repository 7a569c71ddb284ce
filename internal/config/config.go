// Package config provides YAML-based game tuning, difficulty presets and
// environment configuration for the lockrush client and server.
package config

import "time"

// GameConfig contains all tunable parameters of a play session.
type GameConfig struct {
	Engine       EngineConfig       `yaml:"engine"`
	Presentation PresentationConfig `yaml:"presentation"`
	Feedback     FeedbackConfig     `yaml:"feedback"`
	Input        InputConfig        `yaml:"input"`
	Session      SessionConfig      `yaml:"session"`
	Leaderboard  LeaderboardConfig  `yaml:"leaderboard"`
}

// EngineConfig defines the reference simulation rules.
// Angles are in radians, speeds in radians per second.
type EngineConfig struct {
	Speed         float64 `yaml:"speed"`
	MaxSpeed      float64 `yaml:"max_speed"`
	SpeedStep     float64 `yaml:"speed_step"`      // Added on every hit
	SpeedPerScore float64 `yaml:"speed_per_score"` // Extra step per point already scored
	HitWindow     float64 `yaml:"hit_window"`
	MinHitWindow  float64 `yaml:"min_hit_window"`
	WindowShrink  float64 `yaml:"window_shrink"` // Multiplier applied to the window on every hit
	Lives         int     `yaml:"lives"`
}

// PresentationConfig defines the proportional drawing geometry.
// All lengths are fractions of the square surface width.
type PresentationConfig struct {
	SurfaceFraction float64 `yaml:"surface_fraction"` // Of the viewport's smaller axis
	RingOuter       float64 `yaml:"ring_outer"`
	RingThickness   float64 `yaml:"ring_thickness"`
	IndicatorRadius float64 `yaml:"indicator_radius"`
	PointerLength   float64 `yaml:"pointer_length"`
	TargetArc       float64 `yaml:"target_arc"`      // Angular width of the drawn target, radians
	ReferenceWidth  float64 `yaml:"reference_width"` // Surface width at which one effect unit is one pixel
	CellAspect      float64 `yaml:"cell_aspect"`     // Terminal cell height divided by width
}

// FeedbackConfig defines impact shake and damage flash magnitudes.
type FeedbackConfig struct {
	ScoreShake float64 `yaml:"score_shake"`
	LifeShake  float64 `yaml:"life_shake"`
	LifeFlash  float64 `yaml:"life_flash"`
	Decay      float64 `yaml:"decay"` // Per-frame multiplier
}

// InputConfig defines input normalization parameters.
type InputConfig struct {
	Cooldown time.Duration `yaml:"cooldown"` // Minimum interval between accepted taps
}

// SessionConfig defines frame loop parameters.
type SessionConfig struct {
	MaxFrameDelta time.Duration `yaml:"max_frame_delta"` // Upper bound on a single simulation step
}

// LeaderboardConfig defines remote leaderboard behaviour.
type LeaderboardConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	CacheSize int           `yaml:"cache_size"` // Entries kept in the local offline cache
}
