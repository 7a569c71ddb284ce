package render

import "github.com/vovakirdan/lockrush/internal/config"

// settleThreshold is the magnitude below which an effect snaps to zero.
const settleThreshold = 1e-3

// Effects holds transient feedback magnitudes. Both values are >= 0.
type Effects struct {
	Shake float64 // Camera shake, in feedback units
	Flash float64 // Damage flash intensity, 0..1
}

// Triggers are the per-frame transitions that raise effects.
type Triggers struct {
	ScoreIncreased bool
	LifeLost       bool
}

// Apply raises effects for this frame's transitions.
// A life loss overrides the lighter score shake.
func (e *Effects) Apply(t Triggers, cfg config.FeedbackConfig) {
	if t.ScoreIncreased {
		e.Shake = cfg.ScoreShake
	}
	if t.LifeLost {
		e.Flash = cfg.LifeFlash
		e.Shake = cfg.LifeShake
	}
}

// Decay scales both effects by factor and snaps tiny values to zero.
func (e *Effects) Decay(factor float64) {
	e.Shake = decay(e.Shake, factor)
	e.Flash = decay(e.Flash, factor)
}

// Reset zeroes all effects. Used when a new run starts.
func (e *Effects) Reset() {
	*e = Effects{}
}

// Settled reports whether no effect is active.
func (e Effects) Settled() bool {
	return e.Shake == 0 && e.Flash == 0
}

func decay(v, factor float64) float64 {
	v *= factor
	if v < settleThreshold {
		return 0
	}
	return v
}
