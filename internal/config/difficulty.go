package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset converts a flag value to a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (expected easy, normal or hard)", s)
	}
}

// ApplyPreset modifies the engine rules based on a difficulty preset.
// Normal leaves the configured values untouched.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Engine.Speed *= 0.8
		cfg.Engine.HitWindow *= 1.2
		cfg.Engine.Lives += 2
	case DifficultyHard:
		cfg.Engine.Speed *= 1.3
		cfg.Engine.HitWindow *= 0.8
		cfg.Engine.Lives = max(1, cfg.Engine.Lives-1)
	}

	if cfg.Engine.Speed > cfg.Engine.MaxSpeed {
		cfg.Engine.Speed = cfg.Engine.MaxSpeed
	}
	if cfg.Engine.HitWindow < cfg.Engine.MinHitWindow {
		cfg.Engine.HitWindow = cfg.Engine.MinHitWindow
	}
}
