package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/lockrush.yaml
var defaultGameYAML []byte

// DefaultGameConfig returns the built-in lockrush configuration.
// Matches defaults/lockrush.yaml.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		Engine: EngineConfig{
			Speed:         2.5,
			MaxSpeed:      5.5,
			SpeedStep:     0.08,
			SpeedPerScore: 0.0002,
			HitWindow:     0.25,
			MinHitWindow:  0.05,
			WindowShrink:  0.97,
			Lives:         3,
		},
		Presentation: PresentationConfig{
			SurfaceFraction: 0.9,
			RingOuter:       0.38,
			RingThickness:   0.11,
			IndicatorRadius: 0.044,
			PointerLength:   0.36,
			TargetArc:       0.5,
			ReferenceWidth:  400,
			CellAspect:      2.0,
		},
		Feedback: FeedbackConfig{
			ScoreShake: 4,
			LifeShake:  12,
			LifeFlash:  1.0,
			Decay:      0.8,
		},
		Input: InputConfig{
			Cooldown: 100 * time.Millisecond,
		},
		Session: SessionConfig{
			MaxFrameDelta: 100 * time.Millisecond,
		},
		Leaderboard: LeaderboardConfig{
			Timeout:   5 * time.Second,
			CacheSize: 10,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultGameYAML
}
