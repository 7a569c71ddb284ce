package core

// RuntimeConfig carries the terminal and frame clock settings of one session.
// The platform fills it from the terminal size and CLI flags.
type RuntimeConfig struct {
	ScreenW  int   // Terminal width in cells
	ScreenH  int   // Terminal height in cells
	TickRate int   // Frames per second requested from the frame clock
	Seed     int64 // Presenter and engine seed; 0 picks one from the clock
}

// DefaultConfig returns the settings used when the terminal cannot be queried.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// WithDefaults fills unset fields from DefaultConfig. Seed is left alone.
func (c RuntimeConfig) WithDefaults() RuntimeConfig {
	d := DefaultConfig()
	if c.ScreenW <= 0 {
		c.ScreenW = d.ScreenW
	}
	if c.ScreenH <= 0 {
		c.ScreenH = d.ScreenH
	}
	if c.TickRate <= 0 {
		c.TickRate = d.TickRate
	}
	return c
}
