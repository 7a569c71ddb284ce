package core

// Color is a cell foreground. The platform maps each value to a terminal color.
type Color uint8

// Palette of the play surface.
const (
	ColorDefault      Color = iota
	ColorRed                // Lives
	ColorBlue               // Track
	ColorGray               // Surface wash
	ColorBrightGreen        // Target arc
	ColorBrightWhite        // Pointer
	ColorBrightYellow       // Indicator and score
	ColorBrightRed          // Damage flash
)
