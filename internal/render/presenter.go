package render

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/vovakirdan/lockrush/internal/config"
	"github.com/vovakirdan/lockrush/internal/core"
	"github.com/vovakirdan/lockrush/internal/engine"
)

// Kind identifies a drawing command.
type Kind int

// Command kinds in the order they are emitted.
const (
	KindWash Kind = iota
	KindRing
	KindIndicator
	KindPointer
	KindText
	KindFlash
)

func (k Kind) String() string {
	switch k {
	case KindWash:
		return "wash"
	case KindRing:
		return "ring"
	case KindIndicator:
		return "indicator"
	case KindPointer:
		return "pointer"
	case KindText:
		return "text"
	case KindFlash:
		return "flash"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Command is a single drawing instruction in surface coordinates.
// Which fields are meaningful depends on Kind.
type Command struct {
	Kind  Kind
	X, Y  float64 // Center (rings, indicator, pointer origin, text)
	Inner float64 // Ring inner radius
	Outer float64 // Ring outer radius; indicator radius
	From  float64 // Arc start angle; Full rings ignore From and To
	To    float64
	Full  bool
	Angle float64 // Pointer direction
	Len   float64 // Pointer length
	Text  string
	Alpha float64 // Flash intensity
	Color core.Color
}

// DrawList is an ordered frame. Later commands draw over earlier ones.
type DrawList []Command

// Kinds returns the command kinds in order.
func (d DrawList) Kinds() []Kind {
	kinds := make([]Kind, len(d))
	for i, c := range d {
		kinds[i] = c.Kind
	}
	return kinds
}

// Presenter composes frames. It owns the RNG used for camera shake.
type Presenter struct {
	cfg      config.PresentationConfig
	feedback config.FeedbackConfig
	rng      *rand.Rand
}

// NewPresenter creates a presenter. The seed only affects shake jitter.
func NewPresenter(cfg config.PresentationConfig, feedback config.FeedbackConfig, seed int64) *Presenter {
	return &Presenter{
		cfg:      cfg,
		feedback: feedback,
		rng:      rand.New(rand.NewPCG(uint64(seed), 0x5eed)),
	}
}

// Geometry derives the layout for a viewport with this presenter's proportions.
func (p *Presenter) Geometry(v Viewport) Geometry {
	return NewGeometry(v, p.cfg)
}

// Render applies triggers to fx, builds the frame for s using the current
// effect magnitudes, then decays fx. It is the only place effects decay.
func (p *Presenter) Render(s engine.Snapshot, fx *Effects, g Geometry, t Triggers) DrawList {
	fx.Apply(t, p.feedback)

	// Camera offset
	cx, cy := g.CenterX, g.CenterY
	if fx.Shake > 0 {
		cx += (p.rng.Float64()*2 - 1) * fx.Shake * g.Unit
		cy += (p.rng.Float64()*2 - 1) * fx.Shake * g.Unit
	}

	half := p.cfg.TargetArc / 2
	list := DrawList{
		{Kind: KindWash, X: cx, Y: cy, Outer: g.Size / 2, Color: core.ColorGray},
		{Kind: KindRing, X: cx, Y: cy, Inner: g.RingInner, Outer: g.RingOuter, Full: true, Color: core.ColorBlue},
		{Kind: KindRing, X: cx, Y: cy, Inner: g.RingInner, Outer: g.RingOuter, From: s.DotAngle - half, To: s.DotAngle + half, Color: core.ColorBrightGreen},
		indicator(cx, cy, s.Angle, g),
		{Kind: KindPointer, X: cx, Y: cy, Angle: s.Angle, Len: g.Pointer, Color: core.ColorBrightWhite},
		{Kind: KindText, X: cx, Y: cy - g.Size*0.08, Text: fmt.Sprintf("%d", s.Score), Color: core.ColorBrightYellow},
		{Kind: KindText, X: cx, Y: cy + g.Size*0.08, Text: strings.Repeat("♥", core.Max(s.Lives, 0)), Color: core.ColorRed},
	}
	if fx.Flash > 0 {
		list = append(list, Command{Kind: KindFlash, X: cx, Y: cy, Outer: g.Size / 2, Alpha: fx.Flash, Color: core.ColorBrightRed})
	}

	fx.Decay(p.feedback.Decay)
	return list
}

func indicator(cx, cy, angle float64, g Geometry) Command {
	x, y := polar(cx, cy, angle, g.TrackRadius())
	return Command{Kind: KindIndicator, X: x, Y: y, Outer: g.Indicator, Color: core.ColorBrightYellow}
}
