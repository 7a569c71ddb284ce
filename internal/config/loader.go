package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the game configuration.
// Search order: customPath -> ~/.lockrush/configs/lockrush.yaml -> ./configs/lockrush.yaml -> embedded default.
// Files are decoded on top of the defaults, so a file only needs the keys it changes.
func Load(customPath string) (GameConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return GameConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return GameConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("lockrush.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/lockrush.yaml"); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultGameYAML)
	if err != nil {
		return DefaultGameConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML on top of DefaultGameConfig and validates the result.
func Parse(data []byte) (GameConfig, error) {
	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return GameConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return GameConfig{}, err
	}
	return cfg, nil
}

// Validate checks ranges that would otherwise break the session.
func (c GameConfig) Validate() error {
	var errs []error

	if c.Engine.Lives < 1 {
		errs = append(errs, fmt.Errorf("engine.lives must be at least 1, got %d", c.Engine.Lives))
	}
	if c.Engine.Speed <= 0 || c.Engine.MaxSpeed < c.Engine.Speed {
		errs = append(errs, fmt.Errorf("engine speed range invalid: speed=%v max_speed=%v", c.Engine.Speed, c.Engine.MaxSpeed))
	}
	if c.Engine.HitWindow <= 0 || c.Engine.MinHitWindow > c.Engine.HitWindow {
		errs = append(errs, fmt.Errorf("engine hit window range invalid: hit_window=%v min_hit_window=%v", c.Engine.HitWindow, c.Engine.MinHitWindow))
	}
	if f := c.Presentation.SurfaceFraction; f <= 0 || f > 1 {
		errs = append(errs, fmt.Errorf("presentation.surface_fraction must be in (0, 1], got %v", f))
	}
	if c.Presentation.ReferenceWidth <= 0 {
		errs = append(errs, fmt.Errorf("presentation.reference_width must be positive"))
	}
	if c.Presentation.CellAspect <= 0 {
		errs = append(errs, fmt.Errorf("presentation.cell_aspect must be positive"))
	}
	if d := c.Feedback.Decay; d <= 0 || d >= 1 {
		errs = append(errs, fmt.Errorf("feedback.decay must be in (0, 1), got %v", d))
	}
	if c.Input.Cooldown < 0 {
		errs = append(errs, fmt.Errorf("input.cooldown must not be negative"))
	}
	if c.Session.MaxFrameDelta <= 0 {
		errs = append(errs, fmt.Errorf("session.max_frame_delta must be positive"))
	}
	if c.Leaderboard.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("leaderboard.timeout must be positive"))
	}

	return errors.Join(errs...)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lockrush", "configs", filename)
}
