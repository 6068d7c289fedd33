package layout

import (
	"math"

	"github.com/newsroom/stylize/internal/config"
)

// Layer is one rendered copy of the photo. Index 0 is the foreground.
type Layer struct {
	Index  int     `json:"index"`
	Scale  float64 `json:"scale"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect returns the layer's bounds as (minX, minY, maxX, maxY).
func (l Layer) Rect() (x0, y0, x1, y1 float64) {
	return l.X, l.Y, l.X + l.Width, l.Y + l.Height
}

// Center returns the midpoint of the layer.
func (l Layer) Center() (x, y float64) {
	return l.X + l.Width/2, l.Y + l.Height/2
}

// AnchorPoint returns the layer's reference point for anchor a: the
// matching corner, or the midpoint for Center.
func (l Layer) AnchorPoint(a config.Anchor) (x, y float64) {
	p := pivots[a]
	return l.X + p.h*l.Width, l.Y + p.v*l.Height
}

// pivot holds the fraction of the size change that is pushed back onto
// a layer's position so scaling appears to grow out of the anchor.
type pivot struct{ h, v float64 }

var pivots = map[config.Anchor]pivot{
	config.TopLeft:     {0, 0},
	config.TopRight:    {1, 0},
	config.BottomLeft:  {0, 1},
	config.BottomRight: {1, 1},
	config.Center:      {0.5, 0.5},
}

// Layers expands base into one layer per repeat, foreground first.
// RepeatCount is clamped to [1, 6]; GapPercent is used as given.
func Layers(base Base, cfg config.Config) []Layer {
	n := config.EffectiveRepeat(cfg.RepeatCount)
	dir := cfg.Direction.Sign()
	gapStep := cfg.GapPercent / 100 * base.Width
	yStep := cfg.YOffsetPercent / 100 * base.Height
	ratio := cfg.ScaleStepPercent / 100
	p := pivots[cfg.Anchor]

	layers := make([]Layer, n)
	for i := range layers {
		scale := 1.0
		if i > 0 {
			scale = math.Pow(ratio, float64(i))
		}
		w := base.Width * scale
		h := base.Height * scale
		layers[i] = Layer{
			Index:  i,
			Scale:  scale,
			X:      base.StartX + dir*gapStep*float64(i) + p.h*(base.Width-w),
			Y:      base.StartY + yStep*float64(i) + p.v*(base.Height-h),
			Width:  w,
			Height: h,
		}
	}
	return layers
}

// Plan runs Resolve and Layers in one step.
func Plan(aspect float64, cfg config.Config) []Layer {
	return Layers(Resolve(aspect, cfg), cfg)
}

// BackToFront returns layers in draw order: highest index first, so the
// foreground (index 0) is painted last.
func BackToFront(layers []Layer) []Layer {
	out := make([]Layer, len(layers))
	for i, l := range layers {
		out[len(layers)-1-i] = l
	}
	return out
}
