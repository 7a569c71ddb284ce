// Package render turns simulation snapshots into an ordered list of drawing
// commands and owns the transient shake/flash feedback that goes with them.
// All geometry is expressed in square units relative to the surface width,
// so the same frame renders identically at any viewport size.
package render

import (
	"math"

	"github.com/vovakirdan/lockrush/internal/config"
)

// Viewport is the available drawing area in square units.
// A terminal of c columns and r rows is c wide and r*cellAspect tall.
type Viewport struct {
	Width  float64
	Height float64
}

// TerminalViewport converts a terminal size in cells to square units.
func TerminalViewport(cols, rows int, cellAspect float64) Viewport {
	return Viewport{Width: float64(cols), Height: float64(rows) * cellAspect}
}

// Geometry is the derived layout of the square play surface.
// Every length is a fixed fraction of Size.
type Geometry struct {
	Size      float64 // Surface width (and height)
	CenterX   float64
	CenterY   float64
	RingOuter float64
	RingInner float64
	Indicator float64 // Indicator radius
	Pointer   float64 // Pointer bar length
	Unit      float64 // One feedback unit; 1 at the reference width
}

// NewGeometry derives the surface layout for a viewport.
func NewGeometry(v Viewport, cfg config.PresentationConfig) Geometry {
	size := math.Max(0, math.Min(v.Width, v.Height)*cfg.SurfaceFraction)
	outer := size * cfg.RingOuter

	g := Geometry{
		Size:      size,
		CenterX:   v.Width / 2,
		CenterY:   v.Height / 2,
		RingOuter: outer,
		RingInner: math.Max(0, outer-size*cfg.RingThickness),
		Indicator: size * cfg.IndicatorRadius,
		Pointer:   size * cfg.PointerLength,
	}
	if cfg.ReferenceWidth > 0 {
		g.Unit = size / cfg.ReferenceWidth
	}
	return g
}

// TrackRadius is the radius halfway through the ring.
func (g Geometry) TrackRadius() float64 {
	return (g.RingOuter + g.RingInner) / 2
}

// Bounds returns the surface square as x0, y0, x1, y1.
func (g Geometry) Bounds() (x0, y0, x1, y1 float64) {
	h := g.Size / 2
	return g.CenterX - h, g.CenterY - h, g.CenterX + h, g.CenterY + h
}

// polar converts an angle and radius around (cx, cy) to surface coordinates.
// Angle zero points right and angles grow clockwise, as on a canvas.
func polar(cx, cy, angle, r float64) (x, y float64) {
	return cx + math.Cos(angle)*r, cy + math.Sin(angle)*r
}
