package render

import (
	"math"

	"github.com/vovakirdan/lockrush/internal/core"
)

// Glyphs used when drawing to a character screen.
const (
	glyphWash      = '·'
	glyphTrack     = '░'
	glyphTarget    = '█'
	glyphIndicator = '●'
	glyphPointer   = '•'
)

// flashVisible is the flash intensity below which the overlay is not drawn.
const flashVisible = 0.15

// Rasterize draws a frame onto a character screen. Surface coordinates map
// to cells as x = col, y = row*aspect, matching TerminalViewport.
func Rasterize(list DrawList, scr *core.Screen, aspect float64) {
	if aspect <= 0 {
		aspect = 1
	}
	r := raster{scr: scr, aspect: aspect}
	scr.Clear()

	for _, c := range list {
		switch c.Kind {
		case KindWash:
			r.disc(c.X, c.Y, c.Outer, func(col, row int, _, _ float64) {
				if (col+row)%4 == 0 {
					scr.SetCell(col, row, glyphWash, c.Color)
				}
			})
		case KindRing:
			r.ring(c)
		case KindIndicator:
			r.disc(c.X, c.Y, math.Max(c.Outer, 0.5), func(col, row int, _, _ float64) {
				scr.SetCell(col, row, glyphIndicator, c.Color)
			})
			// Always visible, even on tiny surfaces
			col, row := r.cell(c.X, c.Y)
			scr.SetCell(col, row, glyphIndicator, c.Color)
		case KindPointer:
			r.line(c)
		case KindText:
			col, row := r.cell(c.X, c.Y)
			col -= len([]rune(c.Text)) / 2
			scr.DrawColorText(col, row, c.Text, c.Color)
		case KindFlash:
			if c.Alpha < flashVisible {
				continue
			}
			r.disc(c.X, c.Y, c.Outer, func(col, row int, _, _ float64) {
				scr.Tint(col, row, c.Color)
			})
		}
	}
}

type raster struct {
	scr    *core.Screen
	aspect float64
}

// cell returns the cell containing a surface point.
func (r raster) cell(x, y float64) (col, row int) {
	return int(math.Floor(x)), int(math.Floor(y / r.aspect))
}

// disc calls fn for every on-screen cell whose center lies within radius of (x, y),
// passing the offset of the cell center from (x, y).
func (r raster) disc(x, y, radius float64, fn func(col, row int, dx, dy float64)) {
	col0, row0 := r.cell(x-radius, y-radius)
	col1, row1 := r.cell(x+radius, y+radius)
	col0, row0 = core.Max(col0, 0), core.Max(row0, 0)
	col1, row1 = core.Min(col1, r.scr.Width()-1), core.Min(row1, r.scr.Height()-1)

	for row := row0; row <= row1; row++ {
		for col := col0; col <= col1; col++ {
			dx := float64(col) + 0.5 - x
			dy := (float64(row)+0.5)*r.aspect - y
			if dx*dx+dy*dy <= radius*radius {
				fn(col, row, dx, dy)
			}
		}
	}
}

func (r raster) ring(c Command) {
	glyph := glyphTarget
	if c.Full {
		glyph = glyphTrack
	}
	// Half a cell of slack so thin rings stay connected on coarse grids.
	inner := math.Max(0, c.Inner-r.aspect/2)
	outer := c.Outer + r.aspect/2

	r.disc(c.X, c.Y, outer, func(col, row int, dx, dy float64) {
		if dx*dx+dy*dy < inner*inner {
			return
		}
		if !c.Full && !inArc(math.Atan2(dy, dx), c.From, c.To) {
			return
		}
		r.scr.SetCell(col, row, glyph, c.Color)
	})
}

func (r raster) line(c Command) {
	steps := int(math.Ceil(c.Len * 2))
	for i := 0; i <= steps; i++ {
		x, y := polar(c.X, c.Y, c.Angle, c.Len*float64(i)/float64(core.Max(steps, 1)))
		col, row := r.cell(x, y)
		r.scr.SetCell(col, row, glyphPointer, c.Color)
	}
}

// inArc reports whether angle a lies on the arc running clockwise from `from` to `to`.
func inArc(a, from, to float64) bool {
	span := normalize(to - from)
	return normalize(a-from) <= span
}

// normalize maps an angle to [0, 2π).
func normalize(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
