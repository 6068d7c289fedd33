// Package layout turns a composition config and a photo's aspect ratio into
// the ordered list of layer rectangles the compositor draws.
//
// Everything here is pure: identical inputs always produce identical
// output, and all coordinates are logical (density-independent) pixels.
package layout

import (
	"math"

	"github.com/newsroom/stylize/internal/config"
)

// Base is the unscaled foreground rectangle: its size and the top-left
// corner it occupies on the canvas.
type Base struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	StartX float64 `json:"start_x"`
	StartY float64 `json:"start_y"`
}

// Resolve sizes the foreground layer so its shorter side is
// BaseScalePercent of the canvas's shorter side, then places it against
// the configured anchor, inset by PaddingPx.
func Resolve(aspect float64, cfg config.Config) Base {
	if !(aspect > 0) || math.IsInf(aspect, 0) {
		aspect = 1
	}

	target := cfg.BaseScalePercent / 100 * float64(cfg.ShortestSide())

	var b Base
	if aspect >= 1 {
		b.Height = target
		b.Width = target * aspect
	} else {
		b.Width = target
		b.Height = target / aspect
	}

	cw, ch, pad := float64(cfg.CanvasWidth), float64(cfg.CanvasHeight), cfg.PaddingPx
	switch cfg.Anchor {
	case config.TopRight:
		b.StartX, b.StartY = cw-pad-b.Width, pad
	case config.BottomLeft:
		b.StartX, b.StartY = pad, ch-pad-b.Height
	case config.BottomRight:
		b.StartX, b.StartY = cw-pad-b.Width, ch-pad-b.Height
	case config.Center:
		b.StartX, b.StartY = (cw-b.Width)/2, (ch-b.Height)/2
	default:
		b.StartX, b.StartY = pad, pad
	}
	return b
}
